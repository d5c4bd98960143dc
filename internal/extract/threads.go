package extract

import (
	"strconv"
	"strings"

	"golang.org/x/net/html"

	"github.com/glabrego/forumsheet/internal/forum"
	"github.com/glabrego/forumsheet/internal/sheet"
)

var (
	selThreadItem      = mustSel(".j_thread_list")
	selThreadTitleLink = mustSel(".threadlist_title a, a.j_th_tit")
	selThreadTitle     = mustSel(".j_th_tit")
	selThreadAuthor    = mustSel(".frs-author-name")
	selThreadReplies   = mustSel(".threadlist_rep_num .red_text, .threadlist_rep_num span")
	selThreadLast      = mustSel(".threadlist_author .frs-author-name-wrap .frs-author-name, .is_show_create_time")
	selThreadImages    = mustSel(".threadlist_media img, .threadlist_pic img")
)

// threadListRows reads a forum section listing:
// index, title link, author, reply count, last activity.
func threadListRows(doc *html.Node, opts Options) []sheet.Row {
	items := queryAll(doc, selThreadItem)
	rows := make([]sheet.Row, 0, len(items))
	for i, el := range items {
		rec, hasRec := ParseLenient(attr(el, "data-field"))

		titleLink := queryFirst(el, selThreadTitleLink)
		titleNode := queryFirst(el, selThreadTitle)
		if titleNode == nil {
			titleNode = titleLink
		}
		title := textOf(titleNode)
		if title == "" {
			continue
		}

		href := ""
		if titleLink != nil {
			href = forum.Resolve(opts.Base, attr(titleLink, "href"))
		}
		if href == "" && hasRec {
			if id := rec.String("id"); id != "" {
				href = forum.Resolve(opts.Base, "/p/"+id)
			}
		}

		author := ""
		if hasRec {
			author = rec.String("author_name")
		}
		if author == "" {
			author = firstText(el, selThreadAuthor)
		}

		replies := firstText(el, selThreadReplies)
		if replies == "" {
			replies = "0"
		}
		last := firstText(el, selThreadLast)

		titleCell := escapeText(title)
		if href != "" {
			titleCell = `<a href="` + escapeAttr(href) + `">` + titleCell + `</a>`
		}
		rows = append(rows, sheet.Row{
			strconv.Itoa(i + 1),
			titleCell + listingImages(el, opts),
			escapeText(author),
			escapeText(replies),
			escapeText(last),
		})
	}
	return rows
}

func listingImages(el *html.Node, opts Options) string {
	var b strings.Builder
	for _, img := range queryAll(el, selThreadImages) {
		src := imageSource(img, "data-original", "original", "bpic", "src")
		if src == "" || isInlineData(src) || IsDecorativeImage(src, attr(img, "width")) {
			continue
		}
		b.WriteString(" ")
		b.WriteString(imageCell(forum.Resolve(opts.Base, src)))
	}
	return b.String()
}
