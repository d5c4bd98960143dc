// Package extract turns loosely structured forum pages into sheet rows.
//
// Every page type has an ordered list of strategies. Extract runs them in
// order and keeps the first one that yields at least one row. Strategies are
// pure: the same document always produces the same rows, and a document that
// matches none of them produces an empty result rather than an error.
package extract

import (
	"net/url"

	"golang.org/x/net/html"

	"github.com/glabrego/forumsheet/internal/sheet"
)

// Options carries the page context strategies need to resolve links and
// build reply toggles.
type Options struct {
	Base     *url.URL
	ThreadID string
}

func (o Options) sanitizer() Sanitizer {
	return Sanitizer{Base: o.Base}
}

// Strategy is one extraction attempt. Type is the row shape it yields, which
// can differ from the requested page type when a looser strategy takes over.
type Strategy struct {
	Name string
	Type sheet.PageType
	Run  func(doc *html.Node, opts Options) []sheet.Row
}

// Result is the outcome of Extract. Strategy is empty when nothing matched.
type Result struct {
	Type     sheet.PageType
	Rows     []sheet.Row
	Strategy string
}

var (
	threadListStrategy = Strategy{Name: "thread-list", Type: sheet.PageThreads, Run: threadListRows}
	postFloorStrategy  = Strategy{Name: "post-floors", Type: sheet.PageForms, Run: postFloorRows}
	postBlockStrategy  = Strategy{Name: "post-container", Type: sheet.PageForms, Run: postContainerRows}
	homeFeedStrategy   = Strategy{Name: "home-feed", Type: sheet.PageHome, Run: homeFeedRows}
	linkScanStrategy   = Strategy{Name: "link-scan", Type: sheet.PageHome, Run: linkScanRows}
)

// Strategies lists the strategies tried for a page type, in priority order.
func Strategies(pt sheet.PageType) []Strategy {
	switch pt {
	case sheet.PageThreads:
		return []Strategy{threadListStrategy, homeFeedStrategy, linkScanStrategy}
	case sheet.PageForms:
		return []Strategy{postFloorStrategy, postBlockStrategy, homeFeedStrategy, linkScanStrategy}
	default:
		return []Strategy{homeFeedStrategy, linkScanStrategy}
	}
}

// Extract runs the strategies for pt against doc.
func Extract(pt sheet.PageType, doc *html.Node, opts Options) Result {
	return Run(Strategies(pt), pt, doc, opts)
}

// Run tries strategies in order and returns the first non-empty result.
func Run(strategies []Strategy, pt sheet.PageType, doc *html.Node, opts Options) Result {
	if doc == nil {
		return Result{Type: pt}
	}
	for _, s := range strategies {
		if rows := s.Run(doc, opts); len(rows) > 0 {
			return Result{Type: s.Type, Rows: rows, Strategy: s.Name}
		}
	}
	return Result{Type: pt}
}
