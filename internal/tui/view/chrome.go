package view

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/glabrego/forumsheet/internal/tabs"
	tuitheme "github.com/glabrego/forumsheet/internal/tui/theme"
)

const (
	BackLabel = "← 返回首页"
	closeMark = " ×"
)

func Toolbar(sheetMode, nerdMode bool) string {
	if !sheetMode {
		return "j/k scroll | R sheet view | o open URL | ? help | q quit"
	}
	if nerdMode {
		return "arrows/hjkl: move | enter: activate cell | click: toggle/open/select | tab/shift+tab: next/prev tab | 1-9: jump tab | x: close post | ctrl+r: retry | o: open URL | b: browser | y: copy link | e: export xlsx | R: page view | ?: help | q: quit"
	}
	return "hjkl move | enter open | tab next | x close | e export | R page | ? help"
}

// TabHit is the horizontal span a tab occupies in the tab bar. CloseStart is
// -1 when the tab cannot be closed.
type TabHit struct {
	Key        string
	Start      int
	End        int
	CloseStart int
	Back       bool
}

// TabBar renders the tab strip and where each tab landed. The back link is
// offered on pages other than the front page.
func TabBar(list []tabs.Tab, activeKey, spinnerFrame string, back bool, th tuitheme.Theme) (string, []TabHit) {
	var b strings.Builder
	var hits []TabHit
	x := 0
	if back {
		label := th.BackLink.Render(BackLabel)
		w := lipgloss.Width(label)
		hits = append(hits, TabHit{Start: x, End: x + w, CloseStart: -1, Back: true})
		b.WriteString(label)
		b.WriteString(" ")
		x += w + 1
	}
	for i, tab := range list {
		text := tabText(tab, spinnerFrame)
		closeStart := -1
		if tab.Kind == tabs.KindPost {
			text += closeMark
		}
		rendered := th.TabStyle(tab, tab.Key == activeKey).Render(text)
		w := lipgloss.Width(rendered)
		if tab.Kind == tabs.KindPost {
			// the style pads one column on the right
			closeStart = x + w - 1 - lipgloss.Width(closeMark)
		}
		hits = append(hits, TabHit{Key: tab.Key, Start: x, End: x + w, CloseStart: closeStart})
		b.WriteString(rendered)
		x += w
		if i < len(list)-1 {
			b.WriteString(" ")
			x++
		}
	}
	return b.String(), hits
}

func tabText(tab tabs.Tab, spinnerFrame string) string {
	switch tab.State {
	case tabs.StateLoading:
		return strings.TrimSpace(spinnerFrame) + " " + tab.Label
	case tabs.StateError:
		return tab.Label + " !"
	default:
		return tab.Label
	}
}

// HitTab finds the tab under column x.
func HitTab(hits []TabHit, x int) (TabHit, bool) {
	for _, h := range hits {
		if x >= h.Start && x < h.End {
			return h, true
		}
	}
	return TabHit{}, false
}

// FormulaBar shows the selected cell's address and text.
func FormulaBar(address, text string, th tuitheme.Theme) string {
	if address == "" {
		address = "-"
	}
	return th.ModePill.Render(address) + " " + th.MetaLabel.Render("fx") + " " + th.MetaValue.Render(text)
}

// RowFooter is the sheet footer with the data row count.
func RowFooter(rows int, sheetLabel string, th tuitheme.Theme) string {
	parts := []string{th.RowCount.Render(fmt.Sprintf("共 %d 行", rows))}
	if sheetLabel != "" {
		parts = append(parts, th.MetaLabel.Render("sheet")+" "+th.MetaValue.Render(sheetLabel))
	}
	return strings.Join(parts, " • ")
}

func CompactMessage(loading bool, hasWarning bool, status, warning string, th tuitheme.Theme) string {
	state := "idle"
	if loading {
		state = "loading"
	}
	if hasWarning {
		state = "warning"
	}
	main := "Ready"
	if status != "" {
		main = status
	} else if hasWarning {
		main = warning
	}
	stateLabel := th.StateIdle.Render("state")
	switch state {
	case "warning":
		stateLabel = th.StateWarn.Render("state")
	case "loading":
		stateLabel = th.StateLoad.Render("state")
	}
	return fmt.Sprintf("%s: %s | %s", stateLabel, state, th.MetaValue.Render(main))
}

// TabError is the body shown for a tab whose load failed. Clicking it or
// pressing ctrl+r retries.
func TabError(tab tabs.Tab, th tuitheme.Theme) string {
	reason := "unknown error"
	if tab.Err != nil {
		reason = tab.Err.Error()
	}
	return th.StateWarn.Render("加载失败: "+reason) + "\n" + th.MetaValue.Render("点击此处或按 ctrl+r 重试")
}
