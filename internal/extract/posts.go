package extract

import (
	"bytes"
	"fmt"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/glabrego/forumsheet/internal/forum"
	"github.com/glabrego/forumsheet/internal/sheet"
)

var (
	selPostFloor     = mustSel(".l_post.j_l_post")
	selPostAny       = mustSel(".l_post")
	selPostContainer = mustSel("#j_p_postlist, #pb_content")
	selPostAuthor    = mustSel(".p_author_name, .d_name a")
	selPostContent   = mustSel(".d_post_content, .j_d_post_content, .p_content")
	selPostSkip      = mustSel(`.lzl_panel_container, .core_reply_wrapper, [class*="fold"], [class*="blocked"]`)
	selPostTail      = mustSel(".post-tail-wrap span, .p_tail, .acore_reply_tail")
)

var floorNoise = strings.NewReplacer(
	"该楼层疑似违规已被系统折叠", "",
	"隐藏此楼", "",
	"查看此楼", "",
)

func postFloorRows(doc *html.Node, opts Options) []sheet.Row {
	return floorRows(queryAll(doc, selPostFloor), opts)
}

// postContainerRows handles thread pages whose floors are still wrapped in
// comment markers inside the post list container.
func postContainerRows(doc *html.Node, opts Options) []sheet.Row {
	container := queryFirst(doc, selPostContainer)
	if container == nil {
		return nil
	}
	var buf bytes.Buffer
	for child := container.FirstChild; child != nil; child = child.NextSibling {
		if child.Type == html.CommentNode {
			buf.WriteString(child.Data)
			continue
		}
		if err := html.Render(&buf, child); err != nil {
			return nil
		}
	}
	raw := forum.StripCommentMarkers(buf.Bytes())
	ctx := &html.Node{Type: html.ElementNode, Data: "div", DataAtom: atom.Div}
	nodes, err := html.ParseFragment(bytes.NewReader(raw), ctx)
	if err != nil {
		return nil
	}
	var floors []*html.Node
	for _, n := range nodes {
		if selPostAny.Match(n) {
			floors = append(floors, n)
		}
		floors = append(floors, queryAll(n, selPostAny)...)
	}
	return floorRows(floors, opts)
}

// floorRows reads thread floors: floor label, author, content, tail metadata.
func floorRows(floors []*html.Node, opts Options) []sheet.Row {
	if len(floors) == 0 {
		return nil
	}
	san := Sanitizer{Base: opts.Base, Skip: selPostSkip}
	rows := make([]sheet.Row, 0, len(floors))
	for i, el := range floors {
		var author, postID string
		var comments int
		if rec, ok := ParseLenient(attr(el, "data-field")); ok {
			author = rec.String("author", "user_name")
			postID = rec.String("content", "post_id")
			comments = rec.Int("content", "comment_num")
		}
		if author == "" {
			author = firstText(el, selPostAuthor)
		}

		content := san.Sanitize(queryFirst(el, selPostContent))
		content = strings.TrimLeft(floorNoise.Replace(content), " \t\n\r")
		if comments > 0 && postID != "" && opts.ThreadID != "" {
			content += " " + ToggleMarkup(Toggle{PostID: postID, ThreadID: opts.ThreadID, Count: comments})
		}

		rows = append(rows, sheet.Row{
			fmt.Sprintf("%d楼", i+1),
			escapeText(author),
			content,
			escapeText(firstText(el, selPostTail)),
		})
	}
	return rows
}
