package extract

import (
	"strconv"
	"unicode/utf8"

	"golang.org/x/net/html"

	"github.com/glabrego/forumsheet/internal/forum"
	"github.com/glabrego/forumsheet/internal/sheet"
)

var selLinkCandidates = mustSel(`a[href*="/p/"], a[href*="/f?kw="]`)

const (
	minLinkTextRunes = 2
	maxLinkTextRunes = 200
)

// linkScanRows matches anchors by target shape only, for pages where none of
// the structural selectors apply. Rows use the home template.
func linkScanRows(doc *html.Node, opts Options) []sheet.Row {
	seen := make(map[string]struct{})
	var rows []sheet.Row
	for _, a := range queryAll(doc, selLinkCandidates) {
		text := textOf(a)
		href := forum.Resolve(opts.Base, attr(a, "href"))
		n := utf8.RuneCountInString(text)
		if n < minLinkTextRunes || n > maxLinkTextRunes {
			continue
		}
		if _, dup := seen[href]; dup {
			continue
		}
		seen[href] = struct{}{}

		kind := ""
		switch {
		case forum.IsForumLink(href):
			kind = "贴吧"
		case forum.IsThreadLink(href):
			kind = "帖子"
		default:
			continue
		}
		rows = append(rows, sheet.Row{
			strconv.Itoa(len(rows) + 1),
			kind,
			`<a href="` + escapeAttr(href) + `">` + escapeText(text) + `</a>`,
			"", "", "",
		})
	}
	return rows
}
