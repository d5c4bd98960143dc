package extract

import (
	"regexp"

	"golang.org/x/net/html"

	"github.com/glabrego/forumsheet/internal/forum"
)

// Forum is a forum section discovered on a page.
type Forum struct {
	Name    string
	Keyword string
	URL     string
}

const MaxForums = 20

var (
	selFollowedForums = mustSel(`.e_myforum a[href*="/f?kw="], .my_tieba_mod a[href*="/f?kw="], .sug_list a[href*="/f?kw="], .forum_table a[href*="/f?kw="]`)
	selAnyForumLink   = mustSel(`a[href*="/f?kw="]`)
	reMemberCount     = regexp.MustCompile(`\d+\.?\d*[WwKk万千]`)
)

// CollectForums lists the forum sections linked from doc. Followed-forum
// widgets win; otherwise any forum link is accepted unless its label looks
// like a member counter.
func CollectForums(doc *html.Node, opts Options) []Forum {
	seen := make(map[string]struct{})
	var out []Forum
	add := func(a *html.Node) {
		href := forum.Resolve(opts.Base, attr(a, "href"))
		kw := forum.ForumKeyword(href)
		if kw == "" {
			return
		}
		if _, dup := seen[kw]; dup {
			return
		}
		seen[kw] = struct{}{}
		out = append(out, Forum{Name: kw, Keyword: kw, URL: href})
	}

	for _, a := range queryAll(doc, selFollowedForums) {
		add(a)
	}
	if len(out) == 0 {
		for _, a := range queryAll(doc, selAnyForumLink) {
			text := textOf(a)
			if text == "" || reMemberCount.MatchString(text) {
				continue
			}
			add(a)
		}
	}
	if len(out) > MaxForums {
		out = out[:MaxForums]
	}
	return out
}
