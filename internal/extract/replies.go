package extract

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

// Reply is one entry of a floor's nested reply thread.
type Reply struct {
	Author  string
	ReplyTo string
	Text    string
	Time    string
}

var (
	selReplyPost         = mustSel(".lzl_single_post, .lzl_single_post_old")
	selLiveReplyPost     = mustSel(".lzl_single_post")
	selReplyContainer    = mustSel(".j_lzl_container")
	selReplyAuthorDirect = mustSel(".lzl_cnt > .at, .lzl_cnt > a.j_user_card")
	selReplyAuthorAny    = mustSel(".at, .j_user_card")
	selReplyContent      = mustSel(".lzl_content_main")
	selReplyTarget       = mustSel(".at, a.j_user_card")
	selReplyTime         = mustSel(".lzl_time, .lzl_s_p_time")
)

// ParseReply reads one reply element. Missing parts stay empty.
func ParseReply(post *html.Node) Reply {
	var r Reply
	if rec, ok := ParseLenient(attr(post, "data-field")); ok {
		r.Author = rec.String("user_name")
	}
	if r.Author == "" {
		r.Author = firstText(post, selReplyAuthorDirect)
	}
	if r.Author == "" {
		r.Author = firstText(post, selReplyAuthorAny)
	}

	if content := queryFirst(post, selReplyContent); content != nil {
		r.Text = textOf(content)
		if target := queryFirst(content, selReplyTarget); target != nil {
			r.ReplyTo = textOf(target)
			r.Text = stripReplyPrefix(r.Text, r.ReplyTo)
		}
	}
	r.Time = firstText(post, selReplyTime)
	return r
}

func stripReplyPrefix(text, to string) string {
	re, err := regexp.Compile(`^\s*回复\s*` + regexp.QuoteMeta(to) + `\s*[:：]?\s*`)
	if err != nil {
		return text
	}
	return strings.TrimSpace(re.ReplaceAllString(text, ""))
}

// Replies parses a fetched reply-listing page.
func Replies(doc *html.Node) []Reply {
	return collectReplies(queryAll(doc, selReplyPost))
}

// LiveReplies returns the replies of postID already rendered inside doc.
func LiveReplies(doc *html.Node, postID string) []Reply {
	if postID == "" {
		return nil
	}
	for _, c := range queryAll(doc, selReplyContainer) {
		rec, ok := ParseLenient(attr(c, "data-field"))
		if !ok || rec.String("pid") != postID {
			continue
		}
		return collectReplies(queryAll(c, selLiveReplyPost))
	}
	return nil
}

func collectReplies(posts []*html.Node) []Reply {
	var out []Reply
	for _, p := range posts {
		r := ParseReply(p)
		if r.Author != "" || r.Text != "" {
			out = append(out, r)
		}
	}
	return out
}
