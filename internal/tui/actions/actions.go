package actions

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/glabrego/forumsheet/internal/comments"
	"github.com/glabrego/forumsheet/internal/extract"
	"github.com/glabrego/forumsheet/internal/forum"
	"github.com/glabrego/forumsheet/internal/sheet"
	"github.com/glabrego/forumsheet/internal/tabs"
)

type Service interface {
	LoadPage(ctx context.Context, pageURL string, useStartFile bool) (forum.Page, error)
	SaveSheetMode(ctx context.Context, enabled bool) error
	Export(label string, sh sheet.Sheet) (string, error)
}

// Loader is the part of a sheet session that may run off the UI goroutine.
type Loader interface {
	Load(ctx context.Context, step tabs.Step) (sheet.Sheet, error)
	LoadReplies(ctx context.Context, key comments.Key) ([]extract.Reply, error)
}

type PageLoadSuccessMsg struct {
	Page     forum.Page
	Duration time.Duration
}

type PageLoadErrorMsg struct {
	URL      string
	Err      error
	Duration time.Duration
}

// SheetLoadedMsg carries a finished tab load. Gen identifies the session that
// asked for it.
type SheetLoadedMsg struct {
	Gen   int
	Key   string
	Sheet sheet.Sheet
	Err   error
}

type RepliesLoadedMsg struct {
	Gen     int
	Key     comments.Key
	Replies []extract.Reply
	Err     error
}

type ExportSuccessMsg struct {
	Path string
}

type ExportErrorMsg struct {
	Err error
}

type PreferenceSaveErrorMsg struct {
	Err error
}

type OpenURLSuccessMsg struct {
	Status string
	Opened bool
}

type OpenURLErrorMsg struct {
	Err error
}

func LoadPageCmd(service Service, pageURL string, useStartFile bool) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		start := time.Now()

		p, err := service.LoadPage(ctx, pageURL, useStartFile)
		if err != nil {
			return PageLoadErrorMsg{URL: pageURL, Err: err, Duration: time.Since(start)}
		}
		return PageLoadSuccessMsg{Page: p, Duration: time.Since(start)}
	}
}

func LoadSheetCmd(loader Loader, gen int, step tabs.Step) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		sh, err := loader.Load(ctx, step)
		return SheetLoadedMsg{Gen: gen, Key: step.Key, Sheet: sh, Err: err}
	}
}

func LoadRepliesCmd(loader Loader, gen int, key comments.Key) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 25*time.Second)
		defer cancel()

		replies, err := loader.LoadReplies(ctx, key)
		return RepliesLoadedMsg{Gen: gen, Key: key, Replies: replies, Err: err}
	}
}

func ExportCmd(service Service, label string, sh sheet.Sheet) tea.Cmd {
	return func() tea.Msg {
		path, err := service.Export(label, sh)
		if err != nil {
			return ExportErrorMsg{Err: err}
		}
		return ExportSuccessMsg{Path: path}
	}
}

func SaveSheetModeCmd(service Service, enabled bool) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := service.SaveSheetMode(ctx, enabled); err != nil {
			return PreferenceSaveErrorMsg{Err: err}
		}
		return nil
	}
}

func OpenURLCmd(url string, openFn, copyFn func(string) error) tea.Cmd {
	return func() tea.Msg {
		if openFn != nil {
			if err := openFn(url); err == nil {
				return OpenURLSuccessMsg{Status: "Opened URL in browser", Opened: true}
			}
		}
		if copyFn != nil {
			if err := copyFn(url); err == nil {
				return OpenURLSuccessMsg{Status: "Could not open browser, URL copied to clipboard"}
			}
		}
		return OpenURLErrorMsg{Err: fmt.Errorf("could not open URL or copy to clipboard")}
	}
}

func CopyURLCmd(url string, copyFn func(string) error) tea.Cmd {
	return func() tea.Msg {
		if copyFn != nil {
			if err := copyFn(url); err == nil {
				return OpenURLSuccessMsg{Status: "URL copied to clipboard"}
			}
		}
		return OpenURLErrorMsg{Err: fmt.Errorf("could not copy URL to clipboard")}
	}
}
