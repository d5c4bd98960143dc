// Package grid lays a sheet out as a spreadsheet: lettered columns, numbered
// rows, the header template as row 1 and nested replies as sub-rows under
// their floor.
package grid

import (
	"fmt"
	"strconv"

	"github.com/glabrego/forumsheet/internal/extract"
	"github.com/glabrego/forumsheet/internal/sheet"
)

// Source supplies the reply state the layout depends on.
type Source interface {
	ToggleLabel(t extract.Toggle) string
	VisibleReplies(t extract.Toggle) []extract.Reply
}

type LineKind int

const (
	LineData LineKind = iota
	LineReply
)

// Line is one painted line: a data row or a reply under the row before it.
type Line struct {
	Kind  LineKind
	Row   int
	Cells []Cell
	Reply extract.Reply
}

type Grid struct {
	Type    sheet.PageType
	Headers []string
	Lines   []Line
	Rows    int
}

// Build lays out s. The result depends only on s and the state reported by
// src, so equal inputs produce equal grids.
func Build(s sheet.Sheet, src Source) Grid {
	g := Grid{Type: s.Type, Headers: sheet.Headers(s.Type), Rows: len(s.Rows)}
	arity := len(g.Headers)
	for i, row := range s.Rows {
		cells := make([]Cell, arity)
		for j := 0; j < arity && j < len(row); j++ {
			cells[j] = ParseCell(row[j])
			if cells[j].HasToggle {
				cells[j].ToggleLabel = defaultToggleLabel(cells[j].Toggle)
				if src != nil {
					cells[j].ToggleLabel = src.ToggleLabel(cells[j].Toggle)
				}
			}
		}
		g.Lines = append(g.Lines, Line{Kind: LineData, Row: i, Cells: cells})

		if src == nil {
			continue
		}
		for _, c := range cells {
			if !c.HasToggle {
				continue
			}
			for _, reply := range src.VisibleReplies(c.Toggle) {
				g.Lines = append(g.Lines, Line{Kind: LineReply, Row: i, Reply: reply})
			}
			break
		}
	}
	return g
}

func defaultToggleLabel(t extract.Toggle) string {
	return fmt.Sprintf("▶ 展开回复(%d)", t.Count)
}

// ColumnName converts a zero-based column index to its letter name.
func ColumnName(col int) string {
	name := ""
	for col >= 0 {
		name = string(rune('A'+col%26)) + name
		col = col/26 - 1
	}
	return name
}

// Address is the A1-style address of a data cell. Row 1 holds the headers.
func Address(row, col int) string {
	return ColumnName(col) + strconv.Itoa(row+2)
}

// ReplyText is the single-line rendering of a reply sub-row.
func ReplyText(r extract.Reply) string {
	text := "↳ " + r.Author
	if r.ReplyTo != "" {
		text += " 回复 " + r.ReplyTo
	}
	text += ": " + r.Text
	if r.Time != "" {
		text += "  " + r.Time
	}
	return text
}
