package view

import (
	"strings"

	"github.com/glabrego/forumsheet/internal/render/page"
	tuistate "github.com/glabrego/forumsheet/internal/tui/state"
)

// ReadableLines lays out the host page text with a left margin.
func ReadableLines(r page.Readable, contentWidth, horizontalMargin int) []string {
	width := contentWidth - horizontalMargin
	if width < 20 {
		width = contentWidth
	}
	lines := r.Lines(width)
	if len(lines) == 0 {
		lines = []string{"(页面没有可读内容)"}
	}
	return leftPadLines(lines, horizontalMargin)
}

func RenderLines(lines []string, top, maxLines int) string {
	window := tuistate.WindowLines(lines, top, maxLines)
	if len(window) == 0 {
		return ""
	}
	return strings.Join(window, "\n") + "\n"
}

func leftPadLines(lines []string, margin int) []string {
	if margin <= 0 {
		return lines
	}
	pad := strings.Repeat(" ", margin)
	out := make([]string, len(lines))
	for i, line := range lines {
		if line == "" {
			continue
		}
		out[i] = pad + line
	}
	return out
}
