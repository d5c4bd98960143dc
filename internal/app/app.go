package app

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"golang.org/x/net/html"

	"github.com/glabrego/forumsheet/internal/engine"
	"github.com/glabrego/forumsheet/internal/export"
	"github.com/glabrego/forumsheet/internal/forum"
	"github.com/glabrego/forumsheet/internal/render/page"
	"github.com/glabrego/forumsheet/internal/sheet"
)

type ForumClient interface {
	BaseURL() string
	FetchPage(ctx context.Context, url string) (forum.Page, error)
	FetchDocument(ctx context.Context, url string) (*html.Node, error)
}

type Repository interface {
	LoadSheetMode(ctx context.Context) (enabled, ok bool, err error)
	SaveSheetMode(ctx context.Context, enabled bool) error
}

type Options struct {
	// StartFile replaces the network fetch of the start page.
	StartFile string
	ExportDir string
	// SheetMode is the activation default when nothing was persisted.
	SheetMode string
	Logger    *log.Logger
}

type Service struct {
	client ForumClient
	repo   Repository
	opts   Options
	logger *log.Logger
}

func NewService(client ForumClient, repo Repository, opts Options) *Service {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	if opts.ExportDir == "" {
		opts.ExportDir = "."
	}
	return &Service{client: client, repo: repo, opts: opts, logger: logger}
}

// LoadPage loads the live page. The configured start file wins over the
// network for the start page only.
func (s *Service) LoadPage(ctx context.Context, pageURL string, useStartFile bool) (forum.Page, error) {
	if useStartFile && s.opts.StartFile != "" {
		p, err := forum.ReadFile(s.opts.StartFile, pageURL)
		if err != nil {
			return forum.Page{}, fmt.Errorf("load start file: %w", err)
		}
		s.logger.Info("page.file", "path", s.opts.StartFile, "url", pageURL)
		return p, nil
	}
	p, err := s.client.FetchPage(ctx, pageURL)
	if err != nil {
		return forum.Page{}, fmt.Errorf("load live page: %w", err)
	}
	return p, nil
}

// NewSession activates the spreadsheet view over p.
func (s *Service) NewSession(p forum.Page) (*engine.Session, error) {
	session, err := engine.New(engine.Config{
		BaseURL: s.client.BaseURL(),
		PageURL: p.URL,
		Live:    p.Doc,
		Fetcher: s.client,
		Logger:  s.logger,
	})
	if err != nil {
		return nil, fmt.Errorf("start sheet session: %w", err)
	}
	return session, nil
}

// Readable is the text view of p shown while the spreadsheet view is off.
func (s *Service) Readable(p forum.Page) (page.Readable, error) {
	r, err := page.Extract(p.Raw, p.URL)
	if err != nil {
		return page.Readable{}, fmt.Errorf("render readable page: %w", err)
	}
	return r, nil
}

// SheetModeEnabled decides the initial activation: the persisted flag if one
// exists, else the configured default.
func (s *Service) SheetModeEnabled(ctx context.Context) (bool, error) {
	enabled, ok, err := s.repo.LoadSheetMode(ctx)
	if err != nil {
		return false, fmt.Errorf("load sheet mode: %w", err)
	}
	if ok {
		return enabled, nil
	}
	return s.opts.SheetMode == "on", nil
}

func (s *Service) SaveSheetMode(ctx context.Context, enabled bool) error {
	if err := s.repo.SaveSheetMode(ctx, enabled); err != nil {
		return fmt.Errorf("save sheet mode: %w", err)
	}
	return nil
}

// Export writes sh to a workbook named after label and returns its path.
func (s *Service) Export(label string, sh sheet.Sheet) (string, error) {
	if err := os.MkdirAll(s.opts.ExportDir, 0o755); err != nil {
		return "", fmt.Errorf("create export dir: %w", err)
	}
	path := export.FileName(s.opts.ExportDir, label)
	if err := export.WriteSheet(path, label, sh); err != nil {
		return "", fmt.Errorf("export %s: %w", label, err)
	}
	s.logger.Info("export.done", "path", path, "rows", sh.Len())
	return path, nil
}

func (s *Service) BaseURL() string {
	return s.client.BaseURL()
}
