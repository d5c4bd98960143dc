package extract

import (
	"strings"

	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"
)

// mustSel compiles a selector group at package init.
func mustSel(s string) cascadia.Selector {
	return cascadia.MustCompile(s)
}

func queryFirst(n *html.Node, m cascadia.Matcher) *html.Node {
	if n == nil {
		return nil
	}
	return cascadia.Query(n, m)
}

func queryAll(n *html.Node, m cascadia.Matcher) []*html.Node {
	if n == nil {
		return nil
	}
	return cascadia.QueryAll(n, m)
}

func attr(n *html.Node, name string) string {
	if n == nil {
		return ""
	}
	for _, a := range n.Attr {
		if strings.EqualFold(a.Key, name) {
			return a.Val
		}
	}
	return ""
}

func hasClass(n *html.Node, class string) bool {
	for _, c := range strings.Fields(attr(n, "class")) {
		if c == class {
			return true
		}
	}
	return false
}

// rawText concatenates every text node under n, like DOM textContent.
func rawText(n *html.Node) string {
	if n == nil {
		return ""
	}
	if n.Type == html.TextNode {
		return n.Data
	}
	var b strings.Builder
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		b.WriteString(rawText(child))
	}
	return b.String()
}

func textOf(n *html.Node) string {
	return strings.TrimSpace(rawText(n))
}

// firstText is the trimmed text of the first match of m under n.
func firstText(n *html.Node, m cascadia.Matcher) string {
	return textOf(queryFirst(n, m))
}

func isElement(n *html.Node, tag string) bool {
	return n != nil && n.Type == html.ElementNode && strings.EqualFold(n.Data, tag)
}
