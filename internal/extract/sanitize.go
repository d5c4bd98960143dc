package extract

import (
	"net/url"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"

	"github.com/glabrego/forumsheet/internal/forum"
)

const (
	// SoftTextBudget stops descent once this many text runes were emitted.
	SoftTextBudget = 400
	// HardLimit caps the final markup length in runes, before the ellipsis.
	HardLimit = 500
	ellipsis  = "..."
)

var reWhitespaceRun = regexp.MustCompile(`\s{2,}`)

var textEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;")

func escapeText(s string) string {
	return textEscaper.Replace(s)
}

func escapeAttr(s string) string {
	return textEscaper.Replace(s)
}

// Sanitizer turns a content sub-tree into escaped, length-bounded inline
// markup. Links keep their target resolved against Base; sub-trees matching
// Skip are ignored.
type Sanitizer struct {
	Base *url.URL
	Skip cascadia.Matcher
}

type sanitizeWalk struct {
	s       Sanitizer
	parts   []string
	textLen int
}

// Sanitize renders the children of node. A nil node yields "".
func (s Sanitizer) Sanitize(node *html.Node) string {
	if node == nil {
		return ""
	}
	w := &sanitizeWalk{s: s}
	for child := node.FirstChild; child != nil; child = child.NextSibling {
		w.walk(child)
	}
	out := strings.Join(w.parts, " ")
	out = strings.TrimSpace(reWhitespaceRun.ReplaceAllString(out, " "))
	return truncateRunes(out, HardLimit)
}

func (w *sanitizeWalk) emitText(t string) {
	w.parts = append(w.parts, escapeText(t))
	w.textLen += utf8.RuneCountInString(t)
}

func (w *sanitizeWalk) walk(node *html.Node) {
	if w.textLen > SoftTextBudget {
		return
	}
	switch node.Type {
	case html.TextNode:
		if t := strings.TrimSpace(node.Data); t != "" {
			w.emitText(t)
		}
		return
	case html.ElementNode:
	default:
		return
	}
	if w.s.Skip != nil && w.s.Skip.Match(node) {
		return
	}

	switch strings.ToLower(node.Data) {
	case "script", "style", "noscript", "template":
	case "img":
		w.image(node)
	case "br":
		w.parts = append(w.parts, " ")
	case "a":
		href := forum.Resolve(w.s.Base, attr(node, "href"))
		text := textOf(node)
		switch {
		case text != "" && href != "":
			w.parts = append(w.parts, `<a href="`+escapeAttr(href)+`">`+escapeText(text)+`</a>`)
			w.textLen += utf8.RuneCountInString(text)
		case text != "":
			w.emitText(text)
		}
	case "video":
		w.parts = append(w.parts, `<span class="tb__img-tag">[视频]</span>`)
	case "audio":
		w.parts = append(w.parts, `<span class="tb__img-tag">[音频]</span>`)
	case "iframe", "embed", "object":
		w.parts = append(w.parts, `<span class="tb__img-tag">[媒体]</span>`)
	default:
		for child := node.FirstChild; child != nil; child = child.NextSibling {
			w.walk(child)
		}
	}
}

func (w *sanitizeWalk) image(node *html.Node) {
	if hasClass(node, "smile") {
		if alt := strings.TrimSpace(attr(node, "alt")); alt != "" {
			w.parts = append(w.parts, "["+escapeText(alt)+"]")
		} else {
			w.parts = append(w.parts, "[表情]")
		}
		return
	}
	src := imageSource(node, "origin-src", "data-original", "src")
	if src == "" || isInlineData(src) || IsDecorativeImage(src, attr(node, "width")) {
		return
	}
	w.parts = append(w.parts, imageCell(forum.Resolve(w.s.Base, src)))
}

// truncateRunes cuts s to limit runes. A cut that lands inside an entity or
// a tag backs up to before it.
func truncateRunes(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	cut := string([]rune(s)[:limit])
	if i := strings.LastIndexByte(cut, '&'); i >= 0 && !strings.Contains(cut[i:], ";") {
		cut = cut[:i]
	}
	if i := strings.LastIndexByte(cut, '<'); i >= 0 && !strings.Contains(cut[i:], ">") {
		cut = cut[:i]
	}
	return cut + ellipsis
}
