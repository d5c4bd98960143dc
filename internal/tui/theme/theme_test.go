package theme

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/glabrego/forumsheet/internal/tabs"
)

func TestTabStyle_ByState(t *testing.T) {
	lipgloss.SetColorProfile(termenv.ANSI)
	th := Default()

	cases := []struct {
		name   string
		tab    tabs.Tab
		active bool
	}{
		{name: "active", tab: tabs.Tab{State: tabs.StateLoaded}, active: true},
		{name: "loading", tab: tabs.Tab{State: tabs.StateLoading}},
		{name: "error", tab: tabs.Tab{State: tabs.StateError}},
		{name: "idle", tab: tabs.Tab{State: tabs.StateUnopened}},
	}
	for _, tc := range cases {
		got := th.TabStyle(tc.tab, tc.active).Render("首页")
		if !strings.Contains(got, "\x1b[") || !strings.Contains(got, "首页") {
			t.Fatalf("%s: expected styled label, got %q", tc.name, got)
		}
	}
}

func TestRenderActiveLine(t *testing.T) {
	lipgloss.SetColorProfile(termenv.ANSI)
	th := Default()
	if got := th.RenderActiveLine(false, "plain"); got != "plain" {
		t.Fatalf("expected inactive line untouched, got %q", got)
	}
	if got := th.RenderActiveLine(true, "line"); !strings.Contains(got, "\x1b[") {
		t.Fatalf("expected styled active line, got %q", got)
	}
}
