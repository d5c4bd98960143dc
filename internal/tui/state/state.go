package state

import (
	"github.com/glabrego/forumsheet/internal/render/grid"
)

func ClampCursor(cursor, size int) int {
	if size <= 0 {
		return 0
	}
	if cursor >= size {
		return size - 1
	}
	if cursor < 0 {
		return 0
	}
	return cursor
}

// PageStep is how many grid lines pgup/pgdown move for a terminal height.
func PageStep(height int, hasStatus bool) int {
	if height <= 0 {
		return 10
	}
	chromeLines := 8
	if hasStatus {
		chromeLines += 2
	}
	step := height - chromeLines
	if step < 3 {
		step = 3
	}
	return step
}

// ScrollOffset returns the smallest change to offset that keeps cursor inside
// a window of height lines.
func ScrollOffset(offset, cursor, height, total int) int {
	if height <= 0 || total <= height {
		return 0
	}
	if cursor < offset {
		offset = cursor
	}
	if cursor >= offset+height {
		offset = cursor - height + 1
	}
	if maxStart := total - height; offset > maxStart {
		offset = maxStart
	}
	if offset < 0 {
		offset = 0
	}
	return offset
}

// StepDataLine moves from line by delta data lines, skipping reply lines.
// It stays put when no data line lies in that direction.
func StepDataLine(lines []grid.Line, from, delta int) int {
	if len(lines) == 0 {
		return 0
	}
	from = ClampCursor(from, len(lines))
	dir := 1
	if delta < 0 {
		dir = -1
		delta = -delta
	}
	cur := from
	for i := cur + dir; i >= 0 && i < len(lines) && delta > 0; i += dir {
		if lines[i].Kind == grid.LineData {
			cur = i
			delta--
		}
	}
	return cur
}

// NearestDataLine returns the data line at or before cursor, or the first
// one after it.
func NearestDataLine(lines []grid.Line, cursor int) int {
	if len(lines) == 0 {
		return 0
	}
	cursor = ClampCursor(cursor, len(lines))
	for i := cursor; i >= 0; i-- {
		if lines[i].Kind == grid.LineData {
			return i
		}
	}
	for i := cursor + 1; i < len(lines); i++ {
		if lines[i].Kind == grid.LineData {
			return i
		}
	}
	return 0
}

// WindowLines returns the slice of lines visible from top within maxLines.
func WindowLines(lines []string, top, maxLines int) []string {
	if len(lines) == 0 {
		return nil
	}
	top = ClampCursor(top, len(lines))
	end := len(lines)
	if maxLines > 0 && top+maxLines < end {
		end = top + maxLines
	}
	return lines[top:end]
}

func MaxTop(linesLen, bodyHeight int) int {
	maxTop := linesLen - bodyHeight
	if maxTop < 0 {
		return 0
	}
	return maxTop
}
