package state

import (
	"reflect"
	"testing"

	"github.com/glabrego/forumsheet/internal/render/grid"
)

func TestClampCursor(t *testing.T) {
	if got := ClampCursor(-1, 3); got != 0 {
		t.Fatalf("expected clamp to 0, got %d", got)
	}
	if got := ClampCursor(3, 3); got != 2 {
		t.Fatalf("expected clamp to 2, got %d", got)
	}
	if got := ClampCursor(1, 3); got != 1 {
		t.Fatalf("expected keep 1, got %d", got)
	}
}

func TestPageStep(t *testing.T) {
	if got := PageStep(0, false); got != 10 {
		t.Fatalf("expected default step 10, got %d", got)
	}
	if got := PageStep(20, false); got != 12 {
		t.Fatalf("expected step 12, got %d", got)
	}
	if got := PageStep(20, true); got != 10 {
		t.Fatalf("expected step 10 with status, got %d", got)
	}
	if got := PageStep(5, false); got != 3 {
		t.Fatalf("expected minimum step 3, got %d", got)
	}
}

func TestScrollOffset_KeepsCursorVisible(t *testing.T) {
	if got := ScrollOffset(0, 12, 10, 30); got != 3 {
		t.Fatalf("expected offset 3, got %d", got)
	}
	if got := ScrollOffset(8, 4, 10, 30); got != 4 {
		t.Fatalf("expected offset 4, got %d", got)
	}
	if got := ScrollOffset(25, 29, 10, 30); got != 20 {
		t.Fatalf("expected offset clamped to 20, got %d", got)
	}
	if got := ScrollOffset(5, 2, 10, 8); got != 0 {
		t.Fatalf("expected zero offset when everything fits, got %d", got)
	}
}

func TestStepDataLine_SkipsReplies(t *testing.T) {
	lines := []grid.Line{
		{Kind: grid.LineData, Row: 0},
		{Kind: grid.LineReply, Row: 0},
		{Kind: grid.LineReply, Row: 0},
		{Kind: grid.LineData, Row: 1},
		{Kind: grid.LineData, Row: 2},
	}
	if got := StepDataLine(lines, 0, 1); got != 3 {
		t.Fatalf("expected to land on line 3, got %d", got)
	}
	if got := StepDataLine(lines, 3, -1); got != 0 {
		t.Fatalf("expected to land on line 0, got %d", got)
	}
	if got := StepDataLine(lines, 4, 5); got != 4 {
		t.Fatalf("expected to stay on the last data line, got %d", got)
	}
	if got := StepDataLine(lines, 0, 10); got != 4 {
		t.Fatalf("expected large steps to stop at the last data line, got %d", got)
	}
	if got := NearestDataLine(lines, 2); got != 0 {
		t.Fatalf("expected reply line to map to its floor, got %d", got)
	}
}

func TestWindowLines(t *testing.T) {
	lines := []string{"a", "b", "c", "d"}
	if got := WindowLines(lines, 1, 2); !reflect.DeepEqual(got, []string{"b", "c"}) {
		t.Fatalf("unexpected window %v", got)
	}
	if got := WindowLines(lines, 9, 0); !reflect.DeepEqual(got, []string{"d"}) {
		t.Fatalf("unexpected clamped window %v", got)
	}
	if got := MaxTop(4, 10); got != 0 {
		t.Fatalf("expected max top 0, got %d", got)
	}
}
