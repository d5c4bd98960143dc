// Package comments lazily loads the nested reply thread of a floor and keeps
// its visibility state.
package comments

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"golang.org/x/net/html"

	"github.com/glabrego/forumsheet/internal/extract"
	"github.com/glabrego/forumsheet/internal/forum"
)

// MaxPages bounds the reply listing pages fetched for one floor.
const MaxPages = 5

// Key identifies a comment block by its floor and thread.
type Key struct {
	PostID   string
	ThreadID string
}

type Status int

const (
	StatusIdle Status = iota
	StatusLoading
	StatusLoaded
	StatusError
)

type Block struct {
	Key      Key
	Expected int
	Replies  []extract.Reply
	Status   Status
	Visible  bool
	Err      error
}

// Label is the toggle text shown in the floor's content cell.
func (b Block) Label() string {
	switch b.Status {
	case StatusLoading:
		return "⏳ 加载中..."
	case StatusError:
		return fmt.Sprintf("▶ 加载失败，点击重试(%d)", b.Expected)
	case StatusLoaded:
		if len(b.Replies) == 0 {
			return "▶ 暂无回复"
		}
		if b.Visible {
			return fmt.Sprintf("▼ 收起回复(%d)", len(b.Replies))
		}
		return fmt.Sprintf("▶ 展开回复(%d)", len(b.Replies))
	default:
		return fmt.Sprintf("▶ 展开回复(%d)", b.Expected)
	}
}

// Outcome is what Expand asks of its caller.
type Outcome int

const (
	// OutcomePending means a load is already outstanding.
	OutcomePending Outcome = iota
	// OutcomeToggled means visibility flipped; nothing to fetch.
	OutcomeToggled
	// OutcomeLoad means the caller must run Load and report via Complete.
	OutcomeLoad
)

// Loader tracks comment blocks for one session. Expand and Complete must be
// called from the same goroutine.
type Loader struct {
	blocks map[Key]*Block
	logger *log.Logger
}

func NewLoader(logger *log.Logger) *Loader {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Loader{blocks: make(map[Key]*Block), logger: logger}
}

// Expand handles a click on a floor's reply toggle. A loaded block only flips
// visibility. A failed block keeps its original expected count for retry.
func (l *Loader) Expand(key Key, expected int) Outcome {
	b, ok := l.blocks[key]
	if ok {
		switch b.Status {
		case StatusLoaded:
			b.Visible = !b.Visible
			return OutcomeToggled
		case StatusLoading:
			return OutcomePending
		}
	} else {
		b = &Block{Key: key, Expected: expected}
		l.blocks[key] = b
	}
	b.Status = StatusLoading
	b.Err = nil
	return OutcomeLoad
}

// Complete stores the result of Load. Partial results that came with an
// error are kept; a failure with nothing collected returns to the retry state.
func (l *Loader) Complete(key Key, replies []extract.Reply, err error) {
	b, ok := l.blocks[key]
	if !ok {
		return
	}
	if err != nil && len(replies) == 0 {
		l.logger.Warn("comments.failed", "pid", key.PostID, "tid", key.ThreadID, "err", err)
		b.Status = StatusError
		b.Err = err
		b.Visible = false
		return
	}
	if err != nil {
		l.logger.Warn("comments.partial", "pid", key.PostID, "replies", len(replies), "err", err)
	}
	b.Status = StatusLoaded
	b.Replies = append([]extract.Reply(nil), replies...)
	b.Visible = true
	b.Err = nil
}

func (l *Loader) Block(key Key) (Block, bool) {
	b, ok := l.blocks[key]
	if !ok {
		return Block{}, false
	}
	return *b, true
}

// VisibleReplies returns the replies to show under the floor of key.
func (l *Loader) VisibleReplies(key Key) []extract.Reply {
	b, ok := l.blocks[key]
	if !ok || b.Status != StatusLoaded || !b.Visible {
		return nil
	}
	return b.Replies
}

// Fetcher loads and parses one page.
type Fetcher interface {
	FetchDocument(ctx context.Context, url string) (*html.Node, error)
}

// Load collects the replies of one floor. Replies already rendered in live
// are used without any request; otherwise the reply listing is paged until a
// page comes back empty or MaxPages is reached.
func Load(ctx context.Context, f Fetcher, baseURL string, live *html.Node, key Key) ([]extract.Reply, error) {
	if replies := extract.LiveReplies(live, key.PostID); len(replies) > 0 {
		return replies, nil
	}
	var all []extract.Reply
	for page := 1; page <= MaxPages; page++ {
		doc, err := f.FetchDocument(ctx, forum.CommentURL(baseURL, key.ThreadID, key.PostID, page))
		if err != nil {
			return all, fmt.Errorf("load replies page %d: %w", page, err)
		}
		replies := extract.Replies(doc)
		if len(replies) == 0 {
			break
		}
		all = append(all, replies...)
	}
	return all, nil
}
