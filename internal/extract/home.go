package extract

import (
	"strconv"
	"strings"

	"golang.org/x/net/html"

	"github.com/glabrego/forumsheet/internal/forum"
	"github.com/glabrego/forumsheet/internal/sheet"
)

var (
	selFeedItem     = mustSel(".j_feed_li, li.j_feed_li")
	selFeedForum    = mustSel(`.n_name, .feed-forum-link, a[href*="/f?kw="]`)
	selFeedAbstract = mustSel(".n_txt, .feed_tle, .n_feed_abs")
	selFeedBody     = mustSel(".n_feed_content, .feed_content, .j_feed_content")
	selFeedTime     = mustSel(".n_time, .feed_time, time")
	selAnchor       = mustSel("a")
	selImage        = mustSel("img")
)

const feedTextFallbackRunes = 80

// homeFeedRows reads the front page feed:
// index, forum, title link, abstract, author, time.
func homeFeedRows(doc *html.Node, opts Options) []sheet.Row {
	items := queryAll(doc, selFeedItem)
	san := opts.sanitizer()
	rows := make([]sheet.Row, 0, len(items))
	for i, el := range items {
		forumName := firstText(el, selFeedForum)

		var title, href, author string
		for _, a := range queryAll(el, selAnchor) {
			target := forum.Resolve(opts.Base, attr(a, "href"))
			if target == "" {
				continue
			}
			if href == "" && forum.IsThreadLink(target) {
				href = target
				title = textOf(a)
			}
			if author == "" && strings.Contains(target, "/home/main") {
				author = textOf(a)
			}
		}

		abstract := san.Sanitize(queryFirst(el, selFeedAbstract))
		if abstract == "" {
			abstract = san.Sanitize(queryFirst(el, selFeedBody))
		}
		images := feedImages(el, opts)
		if abstract == "" && images == "" {
			cleaned := rawText(el)
			cleaned = strings.Replace(cleaned, forumName, "", 1)
			cleaned = strings.Replace(cleaned, title, "", 1)
			abstract = escapeText(headRunes(strings.TrimSpace(cleaned), feedTextFallbackRunes))
		}

		if title == "" && forumName == "" {
			continue
		}
		titleCell := "-"
		switch {
		case title != "" && href != "":
			titleCell = `<a href="` + escapeAttr(href) + `">` + escapeText(title) + `</a>`
		case title != "":
			titleCell = escapeText(title)
		}
		summary := strings.TrimSpace(abstract + " " + images)
		if summary == "" {
			summary = "-"
		}
		rows = append(rows, sheet.Row{
			strconv.Itoa(i + 1),
			escapeText(forumName),
			titleCell,
			summary,
			escapeText(author),
			escapeText(firstText(el, selFeedTime)),
		})
	}
	return rows
}

func feedImages(el *html.Node, opts Options) string {
	var b strings.Builder
	for _, img := range queryAll(el, selImage) {
		src := imageSource(img, "data-original", "original", "data-tb-lazyload", "src")
		if src == "" || isInlineData(src) || IsDecorativeImage(src, attr(img, "width")) {
			continue
		}
		b.WriteString(imageCell(forum.Resolve(opts.Base, src)))
		b.WriteString(" ")
	}
	return strings.TrimSpace(b.String())
}

func headRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
