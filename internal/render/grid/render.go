package grid

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

const (
	minColWidth = 4
	maxColWidth = 48
	separator   = "│"
	ellipsis    = "…"
	// headerLines are the column letters and the header template row.
	headerLines = 2
)

type Styles struct {
	ColumnHeader lipgloss.Style
	RowHeader    lipgloss.Style
	Header       lipgloss.Style
	Cell         lipgloss.Style
	Link         lipgloss.Style
	Toggle       lipgloss.Style
	Reply        lipgloss.Style
	Selected     lipgloss.Style
	Border       lipgloss.Style
}

// Selection is the highlighted cell, as an index into Grid.Lines.
type Selection struct {
	Line   int
	Col    int
	Active bool
}

type Viewport struct {
	Width  int
	Height int
	Offset int
}

// Render paints g into a string and returns the surface describing where
// every cell landed.
func Render(g Grid, sel Selection, vp Viewport, st Styles) (string, Surface) {
	rowNumWidth, widths := layout(g, vp.Width)
	surface := newSurface(g, rowNumWidth, widths, vp)

	lines := make([]string, 0, headerLines+surface.bodyHeight)
	lines = append(lines, renderLetters(rowNumWidth, widths, st))
	lines = append(lines, renderHeaderRow(g.Headers, rowNumWidth, widths, st))
	for i := surface.offset; i < surface.offset+surface.bodyHeight && i < len(g.Lines); i++ {
		line := g.Lines[i]
		if line.Kind == LineReply {
			lines = append(lines, renderReply(line, rowNumWidth, widths, st))
			continue
		}
		lines = append(lines, renderData(i, line, sel, rowNumWidth, widths, st))
	}
	return strings.Join(lines, "\n"), surface
}

func layout(g Grid, width int) (int, []int) {
	rowNumWidth := len(strconv.Itoa(g.Rows + 1))
	if rowNumWidth < 3 {
		rowNumWidth = 3
	}
	widths := make([]int, len(g.Headers))
	for j, h := range g.Headers {
		widths[j] = runewidth.StringWidth(h)
	}
	for _, line := range g.Lines {
		if line.Kind != LineData {
			continue
		}
		for j, c := range line.Cells {
			if w := displayWidth(c); w > widths[j] {
				widths[j] = w
			}
		}
	}
	for j := range widths {
		widths[j] = clamp(widths[j], minColWidth, maxColWidth)
	}
	if width <= 0 {
		return rowNumWidth, widths
	}
	available := width - rowNumWidth - len(widths)
	for sum(widths) > available {
		widest := 0
		for j := range widths {
			if widths[j] > widths[widest] {
				widest = j
			}
		}
		if widths[widest] <= minColWidth {
			break
		}
		widths[widest]--
	}
	return rowNumWidth, widths
}

func displayWidth(c Cell) int {
	w := runewidth.StringWidth(c.Text)
	if c.HasToggle {
		if w > 0 {
			w++
		}
		w += runewidth.StringWidth(c.ToggleLabel)
	}
	return w
}

func renderLetters(rowNumWidth int, widths []int, st Styles) string {
	var b strings.Builder
	b.WriteString(st.ColumnHeader.Render(strings.Repeat(" ", rowNumWidth)))
	for j, w := range widths {
		b.WriteString(st.Border.Render(separator))
		name := ColumnName(j)
		left := (w - len(name)) / 2
		if left < 0 {
			left = 0
		}
		b.WriteString(st.ColumnHeader.Render(fit(strings.Repeat(" ", left)+name, w)))
	}
	return b.String()
}

func renderHeaderRow(headers []string, rowNumWidth int, widths []int, st Styles) string {
	var b strings.Builder
	b.WriteString(st.RowHeader.Render(runewidth.FillLeft("1", rowNumWidth)))
	for j, w := range widths {
		b.WriteString(st.Border.Render(separator))
		b.WriteString(st.Header.Render(fit(headers[j], w)))
	}
	return b.String()
}

func renderData(index int, line Line, sel Selection, rowNumWidth int, widths []int, st Styles) string {
	var b strings.Builder
	b.WriteString(st.RowHeader.Render(runewidth.FillLeft(strconv.Itoa(line.Row+2), rowNumWidth)))
	for j, w := range widths {
		b.WriteString(st.Border.Render(separator))
		var c Cell
		if j < len(line.Cells) {
			c = line.Cells[j]
		}
		style := st.Cell
		if c.Link != "" {
			style = st.Link
		}
		selected := sel.Active && sel.Line == index && sel.Col == j
		if selected {
			style = st.Selected
		}
		if !c.HasToggle {
			b.WriteString(style.Render(fit(c.Text, w)))
			continue
		}
		text, label := splitToggle(c, w)
		toggleStyle := st.Toggle
		if selected {
			toggleStyle = st.Selected
		}
		b.WriteString(style.Render(text))
		b.WriteString(toggleStyle.Render(label))
	}
	return b.String()
}

// splitToggle fits a toggle cell so that the label always occupies the last
// columns of the cell.
func splitToggle(c Cell, w int) (string, string) {
	label := c.ToggleLabel
	lw := runewidth.StringWidth(label)
	if lw >= w {
		return "", fit(label, w)
	}
	text := ""
	if c.Text != "" && w-lw-1 > 0 {
		text = runewidth.Truncate(c.Text, w-lw-1, ellipsis)
	}
	return runewidth.FillRight(text, w-lw), label
}

func renderReply(line Line, rowNumWidth int, widths []int, st Styles) string {
	total := sum(widths) + len(widths) - 1
	if total < 1 {
		total = 1
	}
	return st.RowHeader.Render(strings.Repeat(" ", rowNumWidth)) +
		st.Border.Render(separator) +
		st.Reply.Render(fit(ReplyText(line.Reply), total))
}

func fit(s string, w int) string {
	if w <= 0 {
		return ""
	}
	return runewidth.FillRight(runewidth.Truncate(s, w, ellipsis), w)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func sum(values []int) int {
	total := 0
	for _, v := range values {
		total += v
	}
	return total
}
