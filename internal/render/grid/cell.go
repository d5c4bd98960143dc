package grid

import (
	"strings"

	"github.com/mattn/go-runewidth"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/glabrego/forumsheet/internal/extract"
)

// Cell is the display view of one cell's inline markup.
type Cell struct {
	Text      string
	Link      string
	Images    []string
	Anchors   []Anchor
	Toggle    extract.Toggle
	HasToggle bool
	// ToggleLabel is filled in by Build from the comment state.
	ToggleLabel string
}

// Anchor is one link of a cell. Start and Width are display columns within
// the cell's Text.
type Anchor struct {
	Href  string
	Text  string
	Start int
	Width int
}

// ParseCell reads cell markup as produced by the extractors: visible text,
// the first link target, image sources and the reply toggle, if any.
func ParseCell(markup string) Cell {
	var c Cell
	if markup == "" {
		return c
	}
	ctx := &html.Node{Type: html.ElementNode, Data: "div", DataAtom: atom.Div}
	nodes, err := html.ParseFragment(strings.NewReader(markup), ctx)
	if err != nil {
		c.Text = strings.Join(strings.Fields(markup), " ")
		return c
	}
	var b strings.Builder
	for _, n := range nodes {
		c.walk(n, &b)
	}
	c.Text = strings.Join(strings.Fields(b.String()), " ")
	c.placeAnchors()
	return c
}

// placeAnchors finds each anchor's text in c.Text, left to right.
func (c *Cell) placeAnchors() {
	from := 0
	for i := range c.Anchors {
		a := &c.Anchors[i]
		idx := strings.Index(c.Text[from:], a.Text)
		if a.Text == "" || idx < 0 {
			a.Start = runewidth.StringWidth(c.Text[:from])
			continue
		}
		a.Start = runewidth.StringWidth(c.Text[:from+idx])
		a.Width = runewidth.StringWidth(a.Text)
		from += idx + len(a.Text)
	}
}

// anchorAt returns the anchor drawn at display column dx. Columns at or past
// visible are not drawn.
func (c Cell) anchorAt(dx, visible int) (Anchor, bool) {
	if dx < 0 || dx >= visible {
		return Anchor{}, false
	}
	for _, a := range c.Anchors {
		if dx >= a.Start && dx < a.Start+a.Width {
			return a, true
		}
	}
	return Anchor{}, false
}

// mainAnchor returns the anchor that is the cell's content, as in title
// columns: it leads the cell and only placeholders such as [图片] follow it.
func (c Cell) mainAnchor() (Anchor, bool) {
	if len(c.Anchors) == 0 {
		return Anchor{}, false
	}
	a := c.Anchors[0]
	if a.Text == "" || !strings.HasPrefix(c.Text, a.Text) {
		return Anchor{}, false
	}
	for _, rest := range strings.Fields(c.Text[len(a.Text):]) {
		if !strings.HasPrefix(rest, "[") || !strings.HasSuffix(rest, "]") {
			return Anchor{}, false
		}
	}
	return a, true
}

func (c *Cell) walk(n *html.Node, b *strings.Builder) {
	switch n.Type {
	case html.TextNode:
		b.WriteString(n.Data)
		return
	case html.ElementNode:
	default:
		return
	}
	if extract.IsToggle(n) {
		if t, ok := extract.FindToggle([]*html.Node{n}); ok && !c.HasToggle {
			c.Toggle = t
			c.HasToggle = true
		}
		return
	}
	switch n.DataAtom {
	case atom.Img:
		if src := attrValue(n, "src"); src != "" {
			c.Images = append(c.Images, src)
		}
		return
	case atom.A:
		href := attrValue(n, "href")
		if c.Link == "" {
			c.Link = href
		}
		start := b.Len()
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			c.walk(child, b)
		}
		if href != "" {
			text := strings.Join(strings.Fields(b.String()[start:]), " ")
			c.Anchors = append(c.Anchors, Anchor{Href: href, Text: text})
		}
		return
	case atom.Br:
		b.WriteString(" ")
		return
	}
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		c.walk(child, b)
	}
}

func attrValue(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return strings.TrimSpace(a.Val)
		}
	}
	return ""
}

// CellText is the plain text of cell markup, without the reply toggle.
func CellText(markup string) string {
	return ParseCell(markup).Text
}
