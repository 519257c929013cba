// Package browse implements the infinite-scroll catalog browsing state
// machine used by storefront clients: one page of results at a time,
// debounced search, immediate category switches, and a stale-response guard
// so slow replies never overwrite newer ones.
package browse

import (
	"context"
	"sync"
	"time"

	"github.com/ibrahimdesign/atelier/app/models"
)

// State is the controller's lifecycle phase.
type State int

const (
	Idle State = iota
	Loading
	Loaded
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Loading:
		return "loading"
	case Loaded:
		return "loaded"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// Page is one page of catalog results.
type Page struct {
	Items []models.ProductCard
	Meta  models.PageMeta
}

// Query mirrors the list endpoint's parameters.
type Query struct {
	Page     int
	Limit    int
	Search   string
	Category string
}

// Lister fetches one catalog page. Implemented over HTTP by Client.
type Lister interface {
	List(ctx context.Context, q Query) (Page, error)
}

// DefaultDebounce is how long search input settles before a fetch fires.
const DefaultDebounce = 400 * time.Millisecond

// Controller drives catalog browsing. All methods are safe for concurrent
// use. Fetches triggered by Start, SetCategory and LoadMore block until the
// page lands, which keeps behavior deterministic; debounced search fetches
// run on the timer goroutine.
type Controller struct {
	lister   Lister
	debounce time.Duration

	mu       sync.Mutex
	state    State
	items    []models.ProductCard
	meta     models.PageMeta
	err      error
	search   string
	category string
	page     int
	inflight bool
	gen      uint64
	timer    *time.Timer
}

// Option configures a Controller.
type Option func(*Controller)

// WithDebounce overrides the search debounce interval. Tests use a few
// milliseconds here.
func WithDebounce(d time.Duration) Option {
	return func(c *Controller) { c.debounce = d }
}

func NewController(lister Lister, opts ...Option) *Controller {
	c := &Controller{
		lister:   lister,
		debounce: DefaultDebounce,
		state:    Idle,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Start loads the first page. Call once after construction.
func (c *Controller) Start(ctx context.Context) {
	c.refresh(ctx)
}

// SetSearch updates the search term. The refetch is debounced: rapid
// successive calls collapse into one request for the final term.
func (c *Controller) SetSearch(ctx context.Context, term string) {
	c.mu.Lock()
	if c.search == term {
		c.mu.Unlock()
		return
	}
	c.search = term

	if c.timer != nil {
		c.timer.Stop()
	}
	c.timer = time.AfterFunc(c.debounce, func() {
		c.refresh(ctx)
	})
	c.mu.Unlock()
}

// SetCategory switches the category filter and refetches immediately.
func (c *Controller) SetCategory(ctx context.Context, category string) {
	c.mu.Lock()
	if c.category == category {
		c.mu.Unlock()
		return
	}
	c.category = category
	c.mu.Unlock()

	c.refresh(ctx)
}

// LoadMore appends the next page. It is a no-op while a fetch is in flight
// or when the catalog is exhausted.
func (c *Controller) LoadMore(ctx context.Context) {
	c.mu.Lock()
	if c.inflight || c.state == Loading || (c.state == Loaded && !c.meta.HasMore) {
		c.mu.Unlock()
		return
	}
	c.inflight = true
	c.state = Loading
	c.gen++
	gen := c.gen
	q := Query{Page: c.page + 1, Search: c.search, Category: c.category}
	c.mu.Unlock()

	page, err := c.lister.List(ctx, q)
	c.apply(gen, q.Page, page, err, true)
}

// refresh fetches page one for the current filters, replacing the list.
func (c *Controller) refresh(ctx context.Context) {
	c.mu.Lock()
	c.inflight = true
	c.state = Loading
	c.gen++
	gen := c.gen
	q := Query{Page: 1, Search: c.search, Category: c.category}
	c.mu.Unlock()

	page, err := c.lister.List(ctx, q)
	c.apply(gen, 1, page, err, false)
}

// apply commits a fetch result unless a newer request has started since.
func (c *Controller) apply(gen uint64, pageNum int, page Page, err error, appending bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if gen != c.gen {
		return // a newer request owns the state now
	}
	c.inflight = false

	if err != nil {
		c.state = Failed
		c.err = err
		return // items stay as they were
	}

	if appending {
		c.items = append(c.items, page.Items...)
	} else {
		c.items = page.Items
	}
	c.meta = page.Meta
	c.page = pageNum
	c.state = Loaded
	c.err = nil
}

// Snapshot is a consistent view of the controller's state.
type Snapshot struct {
	State     State
	Items     []models.ProductCard
	Meta      models.PageMeta
	Err       error
	Exhausted bool
}

// Snapshot returns the current state. Items is a copy.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	items := make([]models.ProductCard, len(c.items))
	copy(items, c.items)

	return Snapshot{
		State:     c.state,
		Items:     items,
		Meta:      c.meta,
		Err:       c.err,
		Exhausted: c.state == Loaded && !c.meta.HasMore,
	}
}
