package extract

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/net/html"
)

// Toggle identifies the nested reply thread of one floor.
type Toggle struct {
	PostID   string
	ThreadID string
	Count    int
}

const toggleClass = "tb__lzl-toggle"

// ToggleMarkup renders the expand affordance appended to a floor's content.
func ToggleMarkup(t Toggle) string {
	return fmt.Sprintf(`<span class="%s" data-pid="%s" data-tid="%s" data-count="%d">▶ 展开回复(%d)</span>`,
		toggleClass, escapeAttr(t.PostID), escapeAttr(t.ThreadID), t.Count, t.Count)
}

// FindToggle locates the reply toggle inside parsed cell markup.
func FindToggle(nodes []*html.Node) (Toggle, bool) {
	for _, n := range nodes {
		if t, ok := findToggle(n); ok {
			return t, true
		}
	}
	return Toggle{}, false
}

func findToggle(n *html.Node) (Toggle, bool) {
	if n.Type == html.ElementNode && hasClass(n, toggleClass) {
		count, _ := strconv.Atoi(strings.TrimSpace(attr(n, "data-count")))
		t := Toggle{PostID: attr(n, "data-pid"), ThreadID: attr(n, "data-tid"), Count: count}
		if t.PostID != "" {
			return t, true
		}
	}
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		if t, ok := findToggle(child); ok {
			return t, true
		}
	}
	return Toggle{}, false
}

// IsToggle reports whether n is a reply toggle element.
func IsToggle(n *html.Node) bool {
	return n != nil && n.Type == html.ElementNode && hasClass(n, toggleClass)
}
