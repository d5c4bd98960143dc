package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Up        key.Binding
	Down      key.Binding
	Left      key.Binding
	Right     key.Binding
	PageUp    key.Binding
	PageDown  key.Binding
	Top       key.Binding
	Bottom    key.Binding
	Activate  key.Binding
	NextTab   key.Binding
	PrevTab   key.Binding
	JumpTab   key.Binding
	CloseTab  key.Binding
	Retry     key.Binding
	OpenURL   key.Binding
	Browser   key.Binding
	CopyLink  key.Binding
	Export    key.Binding
	SheetMode key.Binding
	Nerd      key.Binding
	Help      key.Binding
	Quit      key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up:        key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:      key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Left:      key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "left")),
		Right:     key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "right")),
		PageUp:    key.NewBinding(key.WithKeys("pgup", "ctrl+b"), key.WithHelp("pgup", "page up")),
		PageDown:  key.NewBinding(key.WithKeys("pgdown", "ctrl+f"), key.WithHelp("pgdown", "page down")),
		Top:       key.NewBinding(key.WithKeys("g", "home"), key.WithHelp("g", "first row")),
		Bottom:    key.NewBinding(key.WithKeys("G", "end"), key.WithHelp("G", "last row")),
		Activate:  key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "toggle replies / open post")),
		NextTab:   key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next tab")),
		PrevTab:   key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "previous tab")),
		JumpTab:   key.NewBinding(key.WithKeys("1", "2", "3", "4", "5", "6", "7", "8", "9"), key.WithHelp("1-9", "jump to tab")),
		CloseTab:  key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "close post tab")),
		Retry:     key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("ctrl+r", "retry failed tab")),
		OpenURL:   key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "open URL")),
		Browser:   key.NewBinding(key.WithKeys("b"), key.WithHelp("b", "open in browser")),
		CopyLink:  key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy link")),
		Export:    key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "export xlsx")),
		SheetMode: key.NewBinding(key.WithKeys("R"), key.WithHelp("R", "toggle sheet view")),
		Nerd:      key.NewBinding(key.WithKeys("N"), key.WithHelp("N", "verbose toolbar")),
		Help:      key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:      key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Activate, k.NextTab, k.CloseTab, k.Export, k.SheetMode, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right, k.PageUp, k.PageDown, k.Top, k.Bottom},
		{k.Activate, k.NextTab, k.PrevTab, k.JumpTab, k.CloseTab, k.Retry},
		{k.OpenURL, k.Browser, k.CopyLink, k.Export, k.SheetMode, k.Nerd, k.Help, k.Quit},
	}
}
