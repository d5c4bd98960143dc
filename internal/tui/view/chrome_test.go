package view

import (
	"errors"
	"regexp"
	"strings"
	"testing"

	"github.com/glabrego/forumsheet/internal/render/page"
	"github.com/glabrego/forumsheet/internal/tabs"
	tuitheme "github.com/glabrego/forumsheet/internal/tui/theme"
)

var ansiStrip = regexp.MustCompile(`\x1b\[[0-9;]*m`)

func stripANSI(s string) string {
	return ansiStrip.ReplaceAllString(s, "")
}

func sampleTabs() []tabs.Tab {
	return []tabs.Tab{
		{Key: "home", Label: "首页", Kind: tabs.KindHome, State: tabs.StateLoaded},
		{Key: "go", Label: "go", Kind: tabs.KindNav, State: tabs.StateLoading},
		{Key: "post:1", Label: "标题", Kind: tabs.KindPost, State: tabs.StateError},
	}
}

func TestToolbar(t *testing.T) {
	if got := Toolbar(true, false); !strings.Contains(got, "hjkl move") {
		t.Fatalf("unexpected compact sheet toolbar: %q", got)
	}
	if got := Toolbar(true, true); !strings.Contains(got, "ctrl+r: retry") {
		t.Fatalf("unexpected nerd sheet toolbar: %q", got)
	}
	if got := Toolbar(false, true); !strings.Contains(got, "R sheet view") {
		t.Fatalf("unexpected page toolbar: %q", got)
	}
}

func TestTabBar_HitsFollowRenderedWidths(t *testing.T) {
	th := tuitheme.Default()
	bar, hits := TabBar(sampleTabs(), "home", "⣾", false, th)

	plain := stripANSI(bar)
	for _, want := range []string{"首页", "⣾ go", "标题 ! ×"} {
		if !strings.Contains(plain, want) {
			t.Fatalf("expected %q in tab bar, got %q", want, plain)
		}
	}
	if len(hits) != 3 {
		t.Fatalf("expected three hit zones, got %+v", hits)
	}
	if hits[0].Start != 0 || hits[0].End != 6 {
		t.Fatalf("unexpected home span %+v", hits[0])
	}
	if hits[1].Start != hits[0].End+1 || hits[2].Start != hits[1].End+1 {
		t.Fatalf("expected one column between tabs, got %+v", hits)
	}
	if hits[0].CloseStart != -1 || hits[1].CloseStart != -1 {
		t.Fatalf("only post tabs are closable, got %+v", hits)
	}
	if hits[2].CloseStart <= hits[2].Start || hits[2].CloseStart >= hits[2].End {
		t.Fatalf("close mark outside the post tab: %+v", hits[2])
	}

	h, ok := HitTab(hits, hits[1].Start)
	if !ok || h.Key != "go" {
		t.Fatalf("expected nav tab hit, got %+v %v", h, ok)
	}
	if _, ok := HitTab(hits, hits[2].End+5); ok {
		t.Fatal("expected no tab past the strip")
	}
}

func TestTabBar_BackLinkComesFirst(t *testing.T) {
	th := tuitheme.Default()
	bar, hits := TabBar(sampleTabs()[:1], "home", "", true, th)
	if !strings.HasPrefix(stripANSI(bar), BackLabel) {
		t.Fatalf("expected back link first, got %q", stripANSI(bar))
	}
	if !hits[0].Back || hits[1].Key != "home" || hits[1].Start != hits[0].End+1 {
		t.Fatalf("unexpected hits %+v", hits)
	}
}

func TestFormulaBarAndFooter(t *testing.T) {
	th := tuitheme.Default()
	if got := stripANSI(FormulaBar("C5", "楼主好人", th)); !strings.Contains(got, "C5") || !strings.Contains(got, "fx 楼主好人") {
		t.Fatalf("unexpected formula bar %q", got)
	}
	if got := stripANSI(FormulaBar("", "", th)); !strings.Contains(got, "-") {
		t.Fatalf("expected placeholder address, got %q", got)
	}
	if got := stripANSI(RowFooter(42, "首页", th)); got != "共 42 行 • sheet 首页" {
		t.Fatalf("unexpected footer %q", got)
	}
}

func TestCompactMessage(t *testing.T) {
	th := tuitheme.Default()
	if got := stripANSI(CompactMessage(false, false, "", "", th)); !strings.Contains(got, "state: idle | Ready") {
		t.Fatalf("unexpected idle compact message: %q", got)
	}
	if got := stripANSI(CompactMessage(true, false, "", "", th)); !strings.Contains(got, "state: loading") {
		t.Fatalf("unexpected loading compact message: %q", got)
	}
	if got := stripANSI(CompactMessage(false, true, "", "boom", th)); !strings.Contains(got, "state: warning | boom") {
		t.Fatalf("unexpected warning compact message: %q", got)
	}
}

func TestTabError(t *testing.T) {
	th := tuitheme.Default()
	got := stripANSI(TabError(tabs.Tab{Err: errors.New("status 502")}, th))
	if !strings.Contains(got, "加载失败: status 502") || !strings.Contains(got, "ctrl+r") {
		t.Fatalf("unexpected error body %q", got)
	}
}

func TestReadableLines(t *testing.T) {
	r := page.Readable{Title: "标题", Text: "第一段\n\n第二段"}
	lines := ReadableLines(r, 80, 2)
	if len(lines) != 4 || lines[0] != "  标题" || lines[1] != "" || lines[3] != "  第二段" {
		t.Fatalf("unexpected readable lines %q", lines)
	}
	if got := RenderLines(lines, 2, 1); got != "  第一段\n" {
		t.Fatalf("unexpected window %q", got)
	}
	if got := ReadableLines(page.Readable{}, 80, 0); len(got) != 1 {
		t.Fatalf("expected placeholder line, got %q", got)
	}
}
