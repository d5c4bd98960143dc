package grid

import (
	"github.com/mattn/go-runewidth"

	"github.com/glabrego/forumsheet/internal/extract"
	"github.com/glabrego/forumsheet/internal/forum"
)

// FormulaLimit caps the cell text echoed in the formula bar.
const FormulaLimit = 200

type EventKind int

const (
	EventNone EventKind = iota
	EventToggle
	EventOpenPost
	EventSelect
)

// Event is the routed result of a click or keyboard activation.
type Event struct {
	Kind    EventKind
	Line    int
	Col     int
	Toggle  extract.Toggle
	URL     string
	Title   string
	Address string
	Formula string
}

// Surface remembers where the last Render put each cell. Coordinates are
// relative to the top-left corner of the rendered grid.
type Surface struct {
	grid        Grid
	rowNumWidth int
	starts      []int
	widths      []int
	offset      int
	bodyHeight  int
}

func newSurface(g Grid, rowNumWidth int, widths []int, vp Viewport) Surface {
	bodyHeight := vp.Height - headerLines
	if vp.Height <= 0 {
		bodyHeight = len(g.Lines)
	}
	if bodyHeight < 1 {
		bodyHeight = 1
	}
	offset := vp.Offset
	if maxOffset := len(g.Lines) - bodyHeight; offset > maxOffset {
		offset = maxOffset
	}
	if offset < 0 {
		offset = 0
	}
	starts := make([]int, len(widths))
	x := rowNumWidth
	for j, w := range widths {
		x++ // separator
		starts[j] = x
		x += w
	}
	return Surface{
		grid:        g,
		rowNumWidth: rowNumWidth,
		starts:      starts,
		widths:      widths,
		offset:      offset,
		bodyHeight:  bodyHeight,
	}
}

func (s Surface) Offset() int {
	return s.offset
}

func (s Surface) BodyHeight() int {
	return s.bodyHeight
}

// locate maps a point to a line, a column and the display column dx within
// that cell.
func (s Surface) locate(x, y int) (line, col, dx int, ok bool) {
	if y < headerLines {
		return 0, 0, 0, false
	}
	line = s.offset + y - headerLines
	if line >= len(s.grid.Lines) || line >= s.offset+s.bodyHeight {
		return 0, 0, 0, false
	}
	for j, start := range s.starts {
		if x >= start && x < start+s.widths[j] {
			return line, j, x - start, true
		}
	}
	return 0, 0, 0, false
}

// dataCell returns the cell at line and col if the line is a data row.
func (s Surface) dataCell(line, col int) (Cell, bool) {
	l := s.grid.Lines[line]
	if l.Kind != LineData || col >= len(l.Cells) {
		return Cell{}, false
	}
	return l.Cells[col], true
}

// toggleWidth is the width of the toggle label drawn at the end of a cell of
// width w.
func toggleWidth(c Cell, w int) int {
	if !c.HasToggle {
		return 0
	}
	lw := runewidth.StringWidth(c.ToggleLabel)
	if lw > w {
		lw = w
	}
	return lw
}

// HitTest maps a point to a line and column. onToggle reports whether the
// point is on the reply toggle label of the cell.
func (s Surface) HitTest(x, y int) (line, col int, onToggle, ok bool) {
	line, col, dx, ok := s.locate(x, y)
	if !ok {
		return 0, 0, false, false
	}
	if c, data := s.dataCell(line, col); data && c.HasToggle {
		onToggle = dx >= s.widths[col]-toggleWidth(c, s.widths[col])
	}
	return line, col, onToggle, true
}

// Click routes a mouse click at (x, y). A link only catches clicks on its
// own text.
func (s Surface) Click(x, y int) Event {
	line, col, dx, ok := s.locate(x, y)
	if !ok {
		return Event{}
	}
	c, ok := s.dataCell(line, col)
	if !ok {
		return Event{}
	}
	w := s.widths[col]
	visible := w
	onToggle := false
	if c.HasToggle {
		lw := toggleWidth(c, w)
		onToggle = dx >= w-lw
		visible = w - lw - 1
	}
	link, onLink := c.anchorAt(dx, visible)
	return s.route(line, col, onToggle, link, onLink)
}

// Activate routes a keyboard activation of a cell. The whole cell counts as
// its toggle, and a link is followed only when it is the whole cell.
func (s Surface) Activate(line, col int) Event {
	if line < 0 || line >= len(s.grid.Lines) || col < 0 || col >= len(s.widths) {
		return Event{}
	}
	c, ok := s.dataCell(line, col)
	if !ok {
		return Event{}
	}
	link, onLink := c.mainAnchor()
	return s.route(line, col, true, link, onLink)
}

// route applies the click priority: reply toggle, then post link, then
// plain cell selection.
func (s Surface) route(line, col int, onToggle bool, link Anchor, onLink bool) Event {
	l := s.grid.Lines[line]
	c := l.Cells[col]
	if c.HasToggle && onToggle {
		return Event{Kind: EventToggle, Line: line, Col: col, Toggle: c.Toggle}
	}
	if onLink && forum.IsThreadLink(link.Href) {
		return Event{Kind: EventOpenPost, Line: line, Col: col, URL: link.Href, Title: link.Text}
	}
	return Event{
		Kind:    EventSelect,
		Line:    line,
		Col:     col,
		Address: Address(l.Row, col),
		Formula: headRunes(c.Text, FormulaLimit),
	}
}

func headRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
