package theme

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/glabrego/forumsheet/internal/render/grid"
	"github.com/glabrego/forumsheet/internal/tabs"
)

type Theme struct {
	Title      lipgloss.Style
	ModePill   lipgloss.Style
	Section    lipgloss.Style
	RowCount   lipgloss.Style
	ActiveLine lipgloss.Style
	MetaLabel  lipgloss.Style
	MetaValue  lipgloss.Style
	StateIdle  lipgloss.Style
	StateWarn  lipgloss.Style
	StateLoad  lipgloss.Style

	Tab        lipgloss.Style
	TabActive  lipgloss.Style
	TabLoading lipgloss.Style
	TabError   lipgloss.Style
	BackLink   lipgloss.Style

	Grid grid.Styles
}

func Default() Theme {
	cpMauve := lipgloss.Color("#cba6f7")
	cpRed := lipgloss.Color("#f38ba8")
	cpPeach := lipgloss.Color("#fab387")
	cpYellow := lipgloss.Color("#f9e2af")
	cpGreen := lipgloss.Color("#a6e3a1")
	cpTeal := lipgloss.Color("#94e2d5")
	cpBlue := lipgloss.Color("#89b4fa")
	cpLavender := lipgloss.Color("#b4befe")
	cpText := lipgloss.Color("#cdd6f4")
	cpSubtext0 := lipgloss.Color("#a6adc8")
	cpSubtext1 := lipgloss.Color("#bac2de")
	cpOverlay0 := lipgloss.Color("#6c7086")
	cpOverlay1 := lipgloss.Color("#7f849c")
	cpSurface0 := lipgloss.Color("#313244")
	cpSurface1 := lipgloss.Color("#45475a")

	return Theme{
		Title:      lipgloss.NewStyle().Bold(true).Foreground(cpGreen),
		ModePill:   lipgloss.NewStyle().Foreground(cpLavender).Background(cpSurface0).Padding(0, 1),
		Section:    lipgloss.NewStyle().Bold(true).Foreground(cpTeal),
		RowCount:   lipgloss.NewStyle().Foreground(cpYellow).Bold(true),
		ActiveLine: lipgloss.NewStyle().Background(cpSurface0).Foreground(cpText),
		MetaLabel:  lipgloss.NewStyle().Foreground(cpOverlay1),
		MetaValue:  lipgloss.NewStyle().Foreground(cpSubtext1),
		StateIdle:  lipgloss.NewStyle().Foreground(cpGreen),
		StateWarn:  lipgloss.NewStyle().Foreground(cpRed),
		StateLoad:  lipgloss.NewStyle().Foreground(cpPeach),

		Tab:        lipgloss.NewStyle().Foreground(cpSubtext0).Background(cpSurface0).Padding(0, 1),
		TabActive:  lipgloss.NewStyle().Bold(true).Foreground(cpText).Background(cpSurface1).Padding(0, 1),
		TabLoading: lipgloss.NewStyle().Foreground(cpPeach).Background(cpSurface0).Padding(0, 1),
		TabError:   lipgloss.NewStyle().Foreground(cpRed).Background(cpSurface0).Padding(0, 1),
		BackLink:   lipgloss.NewStyle().Underline(true).Foreground(cpBlue),

		Grid: grid.Styles{
			ColumnHeader: lipgloss.NewStyle().Foreground(cpOverlay1).Background(cpSurface0),
			RowHeader:    lipgloss.NewStyle().Foreground(cpOverlay1).Background(cpSurface0),
			Header:       lipgloss.NewStyle().Bold(true).Foreground(cpMauve),
			Cell:         lipgloss.NewStyle().Foreground(cpText),
			Link:         lipgloss.NewStyle().Foreground(cpBlue),
			Toggle:       lipgloss.NewStyle().Foreground(cpTeal),
			Reply:        lipgloss.NewStyle().Italic(true).Foreground(cpSubtext0),
			Selected:     lipgloss.NewStyle().Background(cpSurface1).Foreground(cpText),
			Border:       lipgloss.NewStyle().Foreground(cpOverlay0),
		},
	}
}

// TabStyle picks the style of a tab label by its state.
func (t Theme) TabStyle(tab tabs.Tab, active bool) lipgloss.Style {
	switch {
	case active:
		return t.TabActive
	case tab.State == tabs.StateLoading:
		return t.TabLoading
	case tab.State == tabs.StateError:
		return t.TabError
	default:
		return t.Tab
	}
}

func (t Theme) RenderActiveLine(active bool, line string) string {
	if !active {
		return line
	}
	return t.ActiveLine.Render(line)
}
