// Package engine is the spreadsheet view of one activation: the live page,
// its sheets, tabs and reply blocks. A Session is created when the view is
// switched on and dropped when it is switched off.
//
// All methods except Load and LoadReplies mutate session state and must be
// called from the UI goroutine. Load and LoadReplies only read immutable
// session fields and may run concurrently.
package engine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"

	"github.com/charmbracelet/log"
	"golang.org/x/net/html"

	"github.com/glabrego/forumsheet/internal/comments"
	"github.com/glabrego/forumsheet/internal/extract"
	"github.com/glabrego/forumsheet/internal/forum"
	"github.com/glabrego/forumsheet/internal/render/grid"
	"github.com/glabrego/forumsheet/internal/sheet"
	"github.com/glabrego/forumsheet/internal/tabs"
)

// Fetcher loads and parses remote pages.
type Fetcher interface {
	FetchDocument(ctx context.Context, url string) (*html.Node, error)
}

type Config struct {
	BaseURL string
	PageURL string
	Live    *html.Node
	Fetcher Fetcher
	Logger  *log.Logger
}

type Session struct {
	fetcher  Fetcher
	base     *url.URL
	baseURL  string
	pageURL  string
	pageType sheet.PageType
	live     *html.Node
	logger   *log.Logger

	cache    *sheet.Cache
	tabs     *tabs.Controller
	comments *comments.Loader
	forums   []extract.Forum
	reset    bool
}

// New builds the home sheet from the live page and the forum tabs it links.
func New(cfg Config) (*Session, error) {
	if cfg.Fetcher == nil {
		return nil, errors.New("engine: fetcher is required")
	}
	base, err := url.Parse(cfg.BaseURL)
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("engine: invalid base url %q", cfg.BaseURL)
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	pageURL := cfg.PageURL
	if pageURL == "" {
		pageURL = cfg.BaseURL
	}

	s := &Session{
		fetcher:  cfg.Fetcher,
		base:     base,
		baseURL:  cfg.BaseURL,
		pageURL:  pageURL,
		pageType: forum.PageTypeFor(pageURL),
		live:     cfg.Live,
		logger:   logger,
		cache:    sheet.NewCache(),
		comments: comments.NewLoader(logger),
	}
	s.buildHome()
	s.tabs = tabs.New(s.cache, HomeLabel(s.pageType), pageURL, s.pageType, logger)
	s.forums = extract.CollectForums(cfg.Live, extract.Options{Base: base})
	for _, f := range s.forums {
		s.tabs.AddNav(f.Name, f.Name, f.URL)
	}
	logger.Info("engine.start", "page", pageURL, "type", s.pageType, "forums", len(s.forums))
	return s, nil
}

// HomeLabel is the label of the home tab for a page type.
func HomeLabel(pt sheet.PageType) string {
	switch pt {
	case sheet.PageThreads:
		return "帖子列表"
	case sheet.PageForms:
		return "帖子内容"
	default:
		return "首页"
	}
}

func (s *Session) optionsFor(pageURL string) extract.Options {
	return extract.Options{Base: s.base, ThreadID: forum.ThreadID(pageURL)}
}

func (s *Session) buildHome() {
	res := extract.Extract(s.pageType, s.live, s.optionsFor(s.pageURL))
	s.cache.Put(sheet.Sheet{Key: sheet.HomeKey, Type: res.Type, Rows: res.Rows, SourceURL: s.pageURL})
	s.logger.Debug("extract.home", "strategy", res.Strategy, "rows", len(res.Rows))
}

// RenderPass brings the session back to a paintable state and reports
// whether anything changed. Calling it repeatedly is harmless.
func (s *Session) RenderPass() bool {
	changed := false
	if !s.cache.Has(sheet.HomeKey) {
		s.buildHome()
		changed = true
	}
	if home, _ := s.cache.Get(sheet.HomeKey); home.Len() == 0 && s.pageType == sheet.PageForms && !s.reset {
		s.reset = true
		s.tabs.Invalidate()
		s.buildHome()
		s.logger.Info("engine.reset", "page", s.pageURL)
		changed = true
	}
	active := s.tabs.Active()
	if active.State == tabs.StateLoaded && !s.cache.Has(active.Key) {
		s.tabs.SwitchTo(sheet.HomeKey)
		changed = true
	}
	return changed
}

func (s *Session) SwitchTo(key string) tabs.Step {
	return s.tabs.SwitchTo(key)
}

func (s *Session) OpenPost(threadURL, title string) tabs.Step {
	return s.tabs.OpenPost(threadURL, title)
}

func (s *Session) Close(key string) (tabs.Step, bool) {
	return s.tabs.Close(key)
}

func (s *Session) Retry(key string) tabs.Step {
	return s.tabs.Retry(key)
}

// Load fetches and extracts the sheet a fetch step asks for.
func (s *Session) Load(ctx context.Context, step tabs.Step) (sheet.Sheet, error) {
	doc, err := s.fetcher.FetchDocument(ctx, step.URL)
	if err != nil {
		return sheet.Sheet{}, fmt.Errorf("load %s: %w", step.Key, err)
	}
	res := extract.Extract(step.Type, doc, s.optionsFor(step.URL))
	s.logger.Debug("extract.sheet", "key", step.Key, "strategy", res.Strategy, "rows", len(res.Rows))
	return sheet.Sheet{Key: step.Key, Type: res.Type, Rows: res.Rows, SourceURL: step.URL}, nil
}

// Complete records a finished Load and reports whether to repaint.
func (s *Session) Complete(key string, sh sheet.Sheet, err error) bool {
	return s.tabs.Complete(key, sh, err)
}

// ExpandReplies handles a reply toggle click.
func (s *Session) ExpandReplies(t extract.Toggle) comments.Outcome {
	return s.comments.Expand(comments.Key{PostID: t.PostID, ThreadID: t.ThreadID}, t.Count)
}

func (s *Session) LoadReplies(ctx context.Context, key comments.Key) ([]extract.Reply, error) {
	return comments.Load(ctx, s.fetcher, s.baseURL, s.live, key)
}

func (s *Session) CompleteReplies(key comments.Key, replies []extract.Reply, err error) {
	s.comments.Complete(key, replies, err)
}

// ToggleLabel reports the current label of a reply toggle.
func (s *Session) ToggleLabel(t extract.Toggle) string {
	b, ok := s.comments.Block(comments.Key{PostID: t.PostID, ThreadID: t.ThreadID})
	if !ok {
		return comments.Block{Expected: t.Count}.Label()
	}
	return b.Label()
}

func (s *Session) VisibleReplies(t extract.Toggle) []extract.Reply {
	return s.comments.VisibleReplies(comments.Key{PostID: t.PostID, ThreadID: t.ThreadID})
}

// ActiveSheet returns the sheet of the active tab, if it is cached.
func (s *Session) ActiveSheet() (sheet.Sheet, bool) {
	return s.cache.Get(s.tabs.ActiveKey())
}

// Grid lays out the active sheet with the current reply state.
func (s *Session) Grid() (grid.Grid, bool) {
	sh, ok := s.ActiveSheet()
	if !ok {
		return grid.Grid{}, false
	}
	return grid.Build(sh, s), true
}

func (s *Session) Active() tabs.Tab {
	return s.tabs.Active()
}

func (s *Session) Tabs() []tabs.Tab {
	return s.tabs.Tabs()
}

func (s *Session) Forums() []extract.Forum {
	return append([]extract.Forum(nil), s.forums...)
}

func (s *Session) PageType() sheet.PageType {
	return s.pageType
}

func (s *Session) PageURL() string {
	return s.pageURL
}

func (s *Session) BaseURL() string {
	return s.baseURL
}

// IsFrontPage reports whether the live page is the site's front page.
func (s *Session) IsFrontPage() bool {
	return s.pageType == sheet.PageHome
}
