// Package tabs owns the ordered tab strip of a session: which sheets are
// visible, which one is active, and when a sheet has to be fetched.
package tabs

import (
	"io"

	"github.com/charmbracelet/log"

	"github.com/glabrego/forumsheet/internal/sheet"
)

type Kind int

const (
	KindHome Kind = iota
	KindNav
	KindPost
)

func (k Kind) String() string {
	switch k {
	case KindHome:
		return "home"
	case KindNav:
		return "nav"
	case KindPost:
		return "post"
	default:
		return "unknown"
	}
}

type State int

const (
	StateUnopened State = iota
	StateLoading
	StateLoaded
	StateError
)

func (s State) String() string {
	switch s {
	case StateUnopened:
		return "unopened"
	case StateLoading:
		return "loading"
	case StateLoaded:
		return "loaded"
	case StateError:
		return "error"
	default:
		return "unknown"
	}
}

// Tab is a handle onto a sheet. Title keeps the untruncated label.
type Tab struct {
	Key   string
	Label string
	Title string
	URL   string
	Type  sheet.PageType
	Kind  Kind
	State State
	Err   error
}

const (
	MaxPostTabs   = 5
	maxLabelRunes = 18
)

// Action tells the caller what a tab transition requires.
type Action int

const (
	ActionNone Action = iota
	// ActionRender paints a sheet that is already cached.
	ActionRender
	// ActionFetch starts an asynchronous load of URL into Key.
	ActionFetch
	// ActionWait means a load for Key is already outstanding.
	ActionWait
)

type Step struct {
	Action Action
	Key    string
	URL    string
	Type   sheet.PageType
}

type Controller struct {
	cache     *sheet.Cache
	tabs      []*Tab
	postOrder []string
	active    string
	logger    *log.Logger
}

// New creates a controller whose only tab is home, active. The home sheet is
// expected to be in cache already.
func New(cache *sheet.Cache, homeLabel, homeURL string, homeType sheet.PageType, logger *log.Logger) *Controller {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	home := &Tab{
		Key:   sheet.HomeKey,
		Label: homeLabel,
		Title: homeLabel,
		URL:   homeURL,
		Type:  homeType,
		Kind:  KindHome,
		State: StateLoaded,
	}
	return &Controller{
		cache:  cache,
		tabs:   []*Tab{home},
		active: sheet.HomeKey,
		logger: logger,
	}
}

// AddNav appends a forum section tab. Existing keys are left untouched.
func (c *Controller) AddNav(key, label, url string) {
	if key == "" || c.find(key) >= 0 {
		return
	}
	c.tabs = append(c.tabs, &Tab{
		Key:   key,
		Label: label,
		Title: label,
		URL:   url,
		Type:  sheet.PageThreads,
		Kind:  KindNav,
		State: c.initialState(key),
	})
}

func (c *Controller) initialState(key string) State {
	if c.cache.Has(key) {
		return StateLoaded
	}
	return StateUnopened
}

// SwitchTo activates key. Switching to the active tab is a no-op; a cached
// sheet renders without any fetch.
func (c *Controller) SwitchTo(key string) Step {
	if key == c.active {
		return Step{}
	}
	i := c.find(key)
	if i < 0 {
		return Step{}
	}
	c.active = key
	return c.stepFor(c.tabs[i])
}

func (c *Controller) stepFor(tab *Tab) Step {
	if c.cache.Has(tab.Key) {
		tab.State = StateLoaded
		tab.Err = nil
		return Step{Action: ActionRender, Key: tab.Key, Type: tab.Type}
	}
	if tab.State == StateLoading {
		return Step{Action: ActionWait, Key: tab.Key, URL: tab.URL, Type: tab.Type}
	}
	tab.State = StateLoading
	tab.Err = nil
	return Step{Action: ActionFetch, Key: tab.Key, URL: tab.URL, Type: tab.Type}
}

// OpenPost activates the post tab for threadURL, creating it right after the
// home tab when needed. Creating a sixth post tab first evicts the earliest
// opened one together with its sheet.
func (c *Controller) OpenPost(threadURL, title string) Step {
	key := sheet.PostKey(threadURL)
	if c.find(key) >= 0 {
		return c.SwitchTo(key)
	}
	if len(c.postOrder) >= MaxPostTabs {
		c.evictOldestPost()
	}
	tab := &Tab{
		Key:   key,
		Label: Label(title),
		Title: title,
		URL:   threadURL,
		Type:  sheet.PageForms,
		Kind:  KindPost,
		State: c.initialState(key),
	}
	at := c.find(sheet.HomeKey) + 1
	c.tabs = append(c.tabs, nil)
	copy(c.tabs[at+1:], c.tabs[at:])
	c.tabs[at] = tab
	c.postOrder = append(c.postOrder, key)
	return c.SwitchTo(key)
}

func (c *Controller) evictOldestPost() {
	if len(c.postOrder) == 0 {
		return
	}
	oldest := c.postOrder[0]
	c.remove(oldest)
	c.logger.Info("tabs.evict", "key", oldest, "posts", len(c.postOrder))
	if oldest == c.active {
		c.active = sheet.HomeKey
	}
}

// Close removes a post tab and its sheet. Closing the active tab activates
// home. Only post tabs can be closed.
func (c *Controller) Close(key string) (Step, bool) {
	i := c.find(key)
	if i < 0 || c.tabs[i].Kind != KindPost {
		return Step{}, false
	}
	c.remove(key)
	if key != c.active {
		return Step{}, true
	}
	c.active = sheet.HomeKey
	return c.stepFor(c.tabs[c.find(sheet.HomeKey)]), true
}

func (c *Controller) remove(key string) {
	if i := c.find(key); i >= 0 {
		c.tabs = append(c.tabs[:i], c.tabs[i+1:]...)
	}
	for i, k := range c.postOrder {
		if k == key {
			c.postOrder = append(c.postOrder[:i], c.postOrder[i+1:]...)
			break
		}
	}
	c.cache.Evict(key)
}

// Complete records the outcome of a fetch started for key and reports whether
// the screen should be repainted. Only the active tab repaints; a response for
// a tab that is no longer active still fills the cache. Results for tabs that
// were closed or evicted meanwhile are dropped.
func (c *Controller) Complete(key string, s sheet.Sheet, err error) bool {
	i := c.find(key)
	if i < 0 {
		c.logger.Debug("tabs.drop", "key", key, "reason", "tab gone")
		return false
	}
	tab := c.tabs[i]
	if err != nil {
		tab.State = StateError
		tab.Err = err
	} else {
		s.Key = key
		c.cache.Put(s)
		tab.State = StateLoaded
		tab.Err = nil
	}
	if key != c.active {
		c.logger.Debug("tabs.stale", "key", key, "active", c.active)
		return false
	}
	return true
}

// Retry restarts the load of a tab in the error state.
func (c *Controller) Retry(key string) Step {
	i := c.find(key)
	if i < 0 || c.tabs[i].State != StateError {
		return Step{}
	}
	return c.stepFor(c.tabs[i])
}

// Invalidate drops every non-home sheet and returns to the home tab. Tabs
// stay in place and load again when switched to.
func (c *Controller) Invalidate() {
	c.cache.Reset()
	for _, tab := range c.tabs {
		if tab.Kind != KindHome && tab.State != StateLoading {
			tab.State = StateUnopened
			tab.Err = nil
		}
	}
	c.active = sheet.HomeKey
}

func (c *Controller) ActiveKey() string {
	return c.active
}

func (c *Controller) Active() Tab {
	if i := c.find(c.active); i >= 0 {
		return *c.tabs[i]
	}
	return Tab{}
}

func (c *Controller) Tab(key string) (Tab, bool) {
	if i := c.find(key); i >= 0 {
		return *c.tabs[i], true
	}
	return Tab{}, false
}

// Tabs returns a snapshot of the tab strip in display order.
func (c *Controller) Tabs() []Tab {
	out := make([]Tab, len(c.tabs))
	for i, tab := range c.tabs {
		out[i] = *tab
	}
	return out
}

func (c *Controller) PostCount() int {
	return len(c.postOrder)
}

func (c *Controller) find(key string) int {
	for i, tab := range c.tabs {
		if tab.Key == key {
			return i
		}
	}
	return -1
}

// Label shortens a post title for the tab strip.
func Label(title string) string {
	runes := []rune(title)
	if len(runes) == 0 {
		return "帖子"
	}
	if len(runes) <= maxLabelRunes {
		return title
	}
	return string(runes[:maxLabelRunes]) + "..."
}
