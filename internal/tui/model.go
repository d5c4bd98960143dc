package tui

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/glabrego/forumsheet/internal/comments"
	"github.com/glabrego/forumsheet/internal/engine"
	"github.com/glabrego/forumsheet/internal/forum"
	"github.com/glabrego/forumsheet/internal/render/grid"
	"github.com/glabrego/forumsheet/internal/render/page"
	"github.com/glabrego/forumsheet/internal/tabs"
	tuiactions "github.com/glabrego/forumsheet/internal/tui/actions"
	tuiplatform "github.com/glabrego/forumsheet/internal/tui/platform"
	tuistate "github.com/glabrego/forumsheet/internal/tui/state"
	tuitheme "github.com/glabrego/forumsheet/internal/tui/theme"
	tuiview "github.com/glabrego/forumsheet/internal/tui/view"
)

// Screen rows above the grid: title, toolbar, tab bar, formula bar.
const (
	tabBarY   = 2
	gridY     = 4
	footerGap = 3
)

type Service interface {
	tuiactions.Service
	BaseURL() string
	NewSession(p forum.Page) (*engine.Session, error)
	Readable(p forum.Page) (page.Readable, error)
}

type Options struct {
	StartURL       string
	SheetMode      bool
	RenderInterval time.Duration
	Logger         *log.Logger
}

type clearStatusMsg struct {
	id int
}

type renderTickMsg struct{}

type Model struct {
	service        Service
	logger         *log.Logger
	keys           keyMap
	help           help.Model
	spinner        spinner.Model
	prompt         textinput.Model
	theme          tuitheme.Theme
	startURL       string
	renderInterval time.Duration

	page      forum.Page
	readable  page.Readable
	session   *engine.Session
	gen       int
	sheetMode bool

	cursorLine int
	cursorCol  int
	offset     int
	readTop    int

	prompting bool
	showHelp  bool
	nerd      bool
	width     int
	height    int
	loading   bool
	status    string
	statusID  int
	err       error
	openURLFn func(string) error
	copyURLFn func(string) error
}

func NewModel(service Service, opts Options) Model {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	interval := opts.RenderInterval
	if interval <= 0 {
		interval = 5 * time.Second
	}
	spin := spinner.New()
	spin.Spinner = spinner.Dot
	prompt := textinput.New()
	prompt.Placeholder = "https://tieba.baidu.com/p/..."
	prompt.Prompt = "URL: "
	prompt.CharLimit = 512

	return Model{
		service:        service,
		logger:         logger,
		keys:           defaultKeyMap(),
		help:           help.New(),
		spinner:        spin,
		prompt:         prompt,
		theme:          tuitheme.Default(),
		startURL:       opts.StartURL,
		renderInterval: interval,
		sheetMode:      opts.SheetMode,
		loading:        opts.StartURL != "",
		openURLFn:      tuiplatform.OpenURLInBrowser,
		copyURLFn:      tuiplatform.CopyURLToClipboard,
	}
}

func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.spinner.Tick, renderTickCmd(m.renderInterval)}
	if m.service != nil && m.startURL != "" {
		cmds = append(cmds, tuiactions.LoadPageCmd(m.service, m.startURL, true))
	}
	return tea.Batch(cmds...)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.clampSelection()
		return m, nil
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case renderTickMsg:
		if m.session != nil && m.session.RenderPass() {
			m.clampSelection()
		}
		return m, renderTickCmd(m.renderInterval)
	case clearStatusMsg:
		if msg.id == m.statusID {
			m.status = ""
		}
		return m, nil
	case tea.MouseMsg:
		return m.handleMouse(msg)
	case tea.KeyMsg:
		if m.prompting {
			return m.updatePrompt(msg)
		}
		return m.handleKey(msg)

	case tuiactions.PageLoadSuccessMsg:
		m.loading = false
		m.err = nil
		m.page = msg.Page
		m.readTop = 0
		m.readable = page.Readable{}
		if m.service != nil {
			if r, err := m.service.Readable(msg.Page); err == nil {
				m.readable = r
			} else {
				m.logger.Warn("tui.readable", "url", msg.Page.URL, "err", err)
			}
		}
		m.logger.Info("tui.page", "url", msg.Page.URL, "duration", msg.Duration)
		if m.sheetMode {
			m.activate()
		}
		return m, nil
	case tuiactions.PageLoadErrorMsg:
		m.loading = false
		m.err = msg.Err
		m.logger.Error("tui.page", "url", msg.URL, "err", msg.Err)
		return m, nil
	case tuiactions.SheetLoadedMsg:
		if m.session == nil || msg.Gen != m.gen {
			m.logger.Debug("tui.drop", "key", msg.Key, "gen", msg.Gen)
			return m, nil
		}
		if msg.Err != nil {
			m.logger.Error("tui.sheet", "key", msg.Key, "err", msg.Err)
		}
		if m.session.Complete(msg.Key, msg.Sheet, msg.Err) {
			m.resetSelection()
		}
		m.session.RenderPass()
		m.clampSelection()
		return m, nil
	case tuiactions.RepliesLoadedMsg:
		if m.session == nil || msg.Gen != m.gen {
			return m, nil
		}
		if msg.Err != nil {
			m.logger.Error("tui.replies", "post", msg.Key.PostID, "err", msg.Err)
		}
		m.session.CompleteReplies(msg.Key, msg.Replies, msg.Err)
		m.clampSelection()
		return m, nil
	case tuiactions.ExportSuccessMsg:
		return m.setStatus("Exported " + msg.Path)
	case tuiactions.ExportErrorMsg:
		m.err = msg.Err
		m.status = "Export failed"
		return m, nil
	case tuiactions.PreferenceSaveErrorMsg:
		m.err = msg.Err
		m.status = "Could not persist sheet mode"
		return m, nil
	case tuiactions.OpenURLSuccessMsg:
		return m.setStatus(msg.Status)
	case tuiactions.OpenURLErrorMsg:
		m.err = msg.Err
		return m, nil
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.showHelp = !m.showHelp
		return m, nil
	}
	if m.showHelp {
		if msg.String() == "esc" {
			m.showHelp = false
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.SheetMode):
		return m.toggleSheetMode()
	case key.Matches(msg, m.keys.Nerd):
		m.nerd = !m.nerd
		return m, nil
	case key.Matches(msg, m.keys.OpenURL):
		m.prompting = true
		m.prompt.SetValue("")
		m.prompt.Focus()
		return m, textinput.Blink
	case key.Matches(msg, m.keys.Browser):
		if u := m.currentURL(); u != "" {
			return m, tuiactions.OpenURLCmd(u, m.openURLFn, m.copyURLFn)
		}
		return m, nil
	case key.Matches(msg, m.keys.CopyLink):
		if u := m.currentURL(); u != "" {
			return m, tuiactions.CopyURLCmd(u, m.copyURLFn)
		}
		return m, nil
	}

	if m.session == nil {
		switch {
		case key.Matches(msg, m.keys.Up):
			if m.readTop > 0 {
				m.readTop--
			}
		case key.Matches(msg, m.keys.Down):
			if m.readTop < tuistate.MaxTop(len(m.readableLines()), m.bodyHeight()) {
				m.readTop++
			}
		case key.Matches(msg, m.keys.Top):
			m.readTop = 0
		}
		return m, nil
	}

	g, ok := m.session.Grid()
	switch {
	case key.Matches(msg, m.keys.Up):
		m.cursorLine = tuistate.StepDataLine(g.Lines, m.cursorLine, -1)
	case key.Matches(msg, m.keys.Down):
		m.cursorLine = tuistate.StepDataLine(g.Lines, m.cursorLine, 1)
	case key.Matches(msg, m.keys.Left):
		if m.cursorCol > 0 {
			m.cursorCol--
		}
	case key.Matches(msg, m.keys.Right):
		if m.cursorCol < len(g.Headers)-1 {
			m.cursorCol++
		}
	case key.Matches(msg, m.keys.PageUp):
		m.cursorLine = tuistate.StepDataLine(g.Lines, m.cursorLine, -tuistate.PageStep(m.height, m.status != ""))
	case key.Matches(msg, m.keys.PageDown):
		m.cursorLine = tuistate.StepDataLine(g.Lines, m.cursorLine, tuistate.PageStep(m.height, m.status != ""))
	case key.Matches(msg, m.keys.Top):
		m.cursorLine = tuistate.NearestDataLine(g.Lines, 0)
	case key.Matches(msg, m.keys.Bottom):
		m.cursorLine = tuistate.NearestDataLine(g.Lines, len(g.Lines)-1)
	case key.Matches(msg, m.keys.Activate):
		if !ok {
			return m, nil
		}
		_, surface := m.renderGrid(g)
		return m.handleEvent(surface.Activate(m.cursorLine, m.cursorCol))
	case key.Matches(msg, m.keys.NextTab):
		return m.cycleTab(1)
	case key.Matches(msg, m.keys.PrevTab):
		return m.cycleTab(-1)
	case key.Matches(msg, m.keys.JumpTab):
		idx := int(msg.String()[0] - '1')
		list := m.session.Tabs()
		if idx < len(list) {
			return m.switchTab(list[idx].Key)
		}
	case key.Matches(msg, m.keys.CloseTab):
		return m.closeTab(m.session.Active().Key)
	case key.Matches(msg, m.keys.Retry):
		return m.retryActive()
	case key.Matches(msg, m.keys.Export):
		return m.exportActive()
	}
	m.scrollToCursor(g)
	return m, nil
}

func (m Model) updatePrompt(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.prompting = false
		m.prompt.Blur()
		return m, nil
	case "enter":
		m.prompting = false
		m.prompt.Blur()
		return m.openURL(m.prompt.Value())
	}
	var cmd tea.Cmd
	m.prompt, cmd = m.prompt.Update(msg)
	return m, cmd
}

// openURL opens a thread as a post tab; any other page replaces the live
// page.
func (m Model) openURL(raw string) (tea.Model, tea.Cmd) {
	target, err := tuiplatform.ValidateURL(raw)
	if err != nil {
		m.err = err
		return m, nil
	}
	if m.session != nil && forum.IsThreadLink(target) {
		step := m.session.OpenPost(target, "")
		m.resetSelection()
		return m, m.follow(step)
	}
	return m.navigate(target)
}

func (m Model) navigate(target string) (tea.Model, tea.Cmd) {
	if m.service == nil {
		return m, nil
	}
	m.loading = true
	m.err = nil
	return m, tuiactions.LoadPageCmd(m.service, target, false)
}

// goFront reloads the site root as the live page.
func (m Model) goFront() (tea.Model, tea.Cmd) {
	if m.service == nil {
		return m, nil
	}
	return m.navigate(m.service.BaseURL() + "/")
}

func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	switch msg.Button {
	case tea.MouseButtonWheelUp:
		if m.session == nil {
			if m.readTop > 0 {
				m.readTop--
			}
			return m, nil
		}
		if m.offset > 0 {
			m.offset--
		}
		return m, nil
	case tea.MouseButtonWheelDown:
		if m.session == nil {
			if m.readTop < tuistate.MaxTop(len(m.readableLines()), m.bodyHeight()) {
				m.readTop++
			}
			return m, nil
		}
		if g, ok := m.session.Grid(); ok {
			m.offset = tuistate.ClampCursor(m.offset+1, tuistate.MaxTop(len(g.Lines), m.gridHeight()-2)+1)
		}
		return m, nil
	}
	if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft || m.session == nil || m.prompting {
		return m, nil
	}

	if msg.Y == tabBarY {
		_, hits := m.tabBar()
		hit, ok := tuiview.HitTab(hits, msg.X)
		switch {
		case !ok:
			return m, nil
		case hit.Back:
			return m.goFront()
		case hit.CloseStart >= 0 && msg.X >= hit.CloseStart:
			return m.closeTab(hit.Key)
		default:
			return m.switchTab(hit.Key)
		}
	}
	if msg.Y < gridY {
		return m, nil
	}

	active := m.session.Active()
	if active.State == tabs.StateError {
		return m.retryActive()
	}
	g, ok := m.session.Grid()
	if !ok {
		return m, nil
	}
	_, surface := m.renderGrid(g)
	return m.handleEvent(surface.Click(msg.X, msg.Y-gridY))
}

// handleEvent is the single handler behind clicks and keyboard activation.
func (m Model) handleEvent(ev grid.Event) (tea.Model, tea.Cmd) {
	switch ev.Kind {
	case grid.EventToggle:
		m.cursorLine, m.cursorCol = ev.Line, ev.Col
		if m.session.ExpandReplies(ev.Toggle) == comments.OutcomeLoad {
			block := comments.Key{PostID: ev.Toggle.PostID, ThreadID: ev.Toggle.ThreadID}
			return m, tuiactions.LoadRepliesCmd(m.session, m.gen, block)
		}
		return m, nil
	case grid.EventOpenPost:
		step := m.session.OpenPost(ev.URL, ev.Title)
		m.resetSelection()
		return m, m.follow(step)
	case grid.EventSelect:
		m.cursorLine, m.cursorCol = ev.Line, ev.Col
	}
	return m, nil
}

func (m Model) switchTab(key string) (tea.Model, tea.Cmd) {
	if key == m.session.Active().Key {
		return m, nil
	}
	step := m.session.SwitchTo(key)
	m.resetSelection()
	return m, m.follow(step)
}

func (m Model) cycleTab(delta int) (tea.Model, tea.Cmd) {
	list := m.session.Tabs()
	if len(list) == 0 {
		return m, nil
	}
	current := 0
	for i, t := range list {
		if t.Key == m.session.Active().Key {
			current = i
			break
		}
	}
	next := (current + delta + len(list)) % len(list)
	return m.switchTab(list[next].Key)
}

func (m Model) closeTab(key string) (tea.Model, tea.Cmd) {
	wasActive := key == m.session.Active().Key
	step, ok := m.session.Close(key)
	if !ok {
		return m, nil
	}
	if wasActive {
		m.resetSelection()
		return m, m.follow(step)
	}
	return m, nil
}

func (m Model) retryActive() (tea.Model, tea.Cmd) {
	step := m.session.Retry(m.session.Active().Key)
	return m, m.follow(step)
}

func (m Model) exportActive() (tea.Model, tea.Cmd) {
	sh, ok := m.session.ActiveSheet()
	if !ok || m.service == nil {
		return m, nil
	}
	return m, tuiactions.ExportCmd(m.service, m.session.Active().Label, sh)
}

// follow runs whatever a tab transition asks for.
func (m Model) follow(step tabs.Step) tea.Cmd {
	if step.Action != tabs.ActionFetch {
		return nil
	}
	return tuiactions.LoadSheetCmd(m.session, m.gen, step)
}

func (m Model) toggleSheetMode() (tea.Model, tea.Cmd) {
	m.sheetMode = !m.sheetMode
	if m.sheetMode {
		m.activate()
	} else {
		m.session = nil
		m.gen++
		m.readTop = 0
	}
	if m.service == nil {
		return m, nil
	}
	return m, tuiactions.SaveSheetModeCmd(m.service, m.sheetMode)
}

// activate starts a fresh session over the live page.
func (m *Model) activate() {
	m.gen++
	m.session = nil
	m.resetSelection()
	if m.page.Doc == nil || m.service == nil {
		return
	}
	session, err := m.service.NewSession(m.page)
	if err != nil {
		m.err = err
		m.logger.Error("tui.activate", "err", err)
		return
	}
	m.session = session
	m.session.RenderPass()
}

func (m *Model) resetSelection() {
	m.cursorLine, m.cursorCol, m.offset = 0, 0, 0
}

func (m *Model) clampSelection() {
	if m.session == nil {
		return
	}
	g, ok := m.session.Grid()
	if !ok {
		return
	}
	m.cursorLine = tuistate.NearestDataLine(g.Lines, m.cursorLine)
	m.cursorCol = tuistate.ClampCursor(m.cursorCol, len(g.Headers))
	m.scrollToCursor(g)
}

func (m *Model) scrollToCursor(g grid.Grid) {
	body := m.gridHeight() - 2
	if m.gridHeight() <= 0 {
		body = 0
	}
	m.offset = tuistate.ScrollOffset(m.offset, m.cursorLine, body, len(g.Lines))
}

func (m *Model) setStatus(status string) (tea.Model, tea.Cmd) {
	m.statusID++
	m.status = status
	m.err = nil
	return *m, clearStatusCmd(m.statusID, 3*time.Second)
}

// currentURL is the link in the selected cell, else the active tab's page.
func (m Model) currentURL() string {
	if m.session == nil {
		return m.page.URL
	}
	if g, ok := m.session.Grid(); ok {
		if c, ok := selectedCell(g, m.cursorLine, m.cursorCol); ok && c.Link != "" {
			return c.Link
		}
	}
	return m.session.Active().URL
}

func selectedCell(g grid.Grid, line, col int) (grid.Cell, bool) {
	if line < 0 || line >= len(g.Lines) {
		return grid.Cell{}, false
	}
	l := g.Lines[line]
	if l.Kind != grid.LineData || col < 0 || col >= len(l.Cells) {
		return grid.Cell{}, false
	}
	return l.Cells[col], true
}

func (m Model) gridHeight() int {
	if m.height <= 0 {
		return 0
	}
	h := m.height - gridY - footerGap
	if h < 3 {
		h = 3
	}
	return h
}

func (m Model) bodyHeight() int {
	if m.height <= 0 {
		return 0
	}
	return m.gridHeight() + 1
}

func (m Model) renderGrid(g grid.Grid) (string, grid.Surface) {
	vp := grid.Viewport{Width: m.width, Height: m.gridHeight(), Offset: m.offset}
	sel := grid.Selection{Line: m.cursorLine, Col: m.cursorCol, Active: true}
	return grid.Render(g, sel, vp, m.theme.Grid)
}

func (m Model) tabBar() (string, []tuiview.TabHit) {
	return tuiview.TabBar(m.session.Tabs(), m.session.Active().Key, m.spinner.View(), !m.session.IsFrontPage(), m.theme)
}

func (m Model) readableLines() []string {
	return tuiview.ReadableLines(m.readable, m.contentWidth(), 2)
}

func (m Model) contentWidth() int {
	if m.width <= 0 {
		return 80
	}
	return m.width
}

func (m Model) View() string {
	var b strings.Builder
	mode := "page"
	if m.sheetMode {
		mode = "sheet"
	}
	b.WriteString(m.theme.Title.Render("ForumSheet") + " " + m.theme.ModePill.Render(mode) + "\n")
	if m.showHelp {
		b.WriteString("Help (? to close)\n\n")
		b.WriteString(m.help.FullHelpView(m.keys.FullHelp()))
		b.WriteString("\n\n")
		b.WriteString(m.messagePanel())
		b.WriteString("\n")
		return b.String()
	}
	b.WriteString(tuiview.Toolbar(m.session != nil, m.nerd) + "\n")

	switch {
	case m.session != nil:
		b.WriteString(m.sheetView())
	case m.loading:
		b.WriteString("\n" + m.spinner.View() + " Loading page...\n")
	default:
		b.WriteString(m.pageView())
	}

	b.WriteString("\n")
	b.WriteString(m.messagePanel())
	b.WriteString("\n")
	b.WriteString(m.footer())
	b.WriteString("\n")
	return b.String()
}

func (m Model) sheetView() string {
	var b strings.Builder
	bar, _ := m.tabBar()
	b.WriteString(bar + "\n")

	g, ok := m.session.Grid()
	if m.prompting {
		b.WriteString(m.prompt.View() + "\n")
	} else {
		address, text := "", ""
		if c, found := selectedCell(g, m.cursorLine, m.cursorCol); ok && found {
			address = grid.Address(g.Lines[m.cursorLine].Row, m.cursorCol)
			text = headRunes(c.Text, grid.FormulaLimit)
		}
		b.WriteString(tuiview.FormulaBar(address, text, m.theme) + "\n")
	}

	active := m.session.Active()
	switch {
	case active.State == tabs.StateError:
		b.WriteString(tuiview.TabError(active, m.theme) + "\n")
	case !ok:
		b.WriteString(m.spinner.View() + " 加载中...\n")
	default:
		body, _ := m.renderGrid(g)
		b.WriteString(body + "\n")
	}
	return b.String()
}

func (m Model) pageView() string {
	var b strings.Builder
	if m.prompting {
		b.WriteString(m.prompt.View() + "\n")
	} else {
		b.WriteString(m.theme.MetaLabel.Render(m.page.URL) + "\n")
	}
	b.WriteString(tuiview.RenderLines(m.readableLines(), m.readTop, m.bodyHeight()))
	return b.String()
}

func (m Model) messagePanel() string {
	warning := ""
	if m.err != nil {
		warning = m.err.Error()
	}
	return tuiview.CompactMessage(m.loading, m.err != nil, m.status, warning, m.theme)
}

func (m Model) footer() string {
	if m.session == nil {
		return m.help.ShortHelpView(m.keys.ShortHelp())
	}
	rows := 0
	if sh, ok := m.session.ActiveSheet(); ok {
		rows = sh.Len()
	}
	label := m.session.Active().Label
	if m.nerd {
		label = fmt.Sprintf("%s (%s, %d posts open)", label, m.session.Active().Type, countPosts(m.session.Tabs()))
	}
	return tuiview.RowFooter(rows, label, m.theme)
}

func countPosts(list []tabs.Tab) int {
	n := 0
	for _, t := range list {
		if t.Kind == tabs.KindPost {
			n++
		}
	}
	return n
}

func headRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

func clearStatusCmd(id int, after time.Duration) tea.Cmd {
	return tea.Tick(after, func(time.Time) tea.Msg {
		return clearStatusMsg{id: id}
	})
}

func renderTickCmd(every time.Duration) tea.Cmd {
	return tea.Tick(every, func(time.Time) tea.Msg {
		return renderTickMsg{}
	})
}
