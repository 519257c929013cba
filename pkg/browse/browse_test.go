package browse_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ibrahimdesign/atelier/app/models"
	"github.com/ibrahimdesign/atelier/pkg/browse"
)

// fakeLister is a scriptable Lister that records every query.
type fakeLister struct {
	mu      sync.Mutex
	calls   []browse.Query
	respond func(q browse.Query) (browse.Page, error)
}

func (f *fakeLister) List(_ context.Context, q browse.Query) (browse.Page, error) {
	f.mu.Lock()
	f.calls = append(f.calls, q)
	respond := f.respond
	f.mu.Unlock()
	return respond(q)
}

func (f *fakeLister) queries() []browse.Query {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]browse.Query, len(f.calls))
	copy(out, f.calls)
	return out
}

func cards(names ...string) []models.ProductCard {
	out := make([]models.ProductCard, 0, len(names))
	for _, n := range names {
		out = append(out, models.ProductCard{Name: n})
	}
	return out
}

func pageOf(items []models.ProductCard, page int, hasMore bool) browse.Page {
	return browse.Page{
		Items: items,
		Meta:  models.PageMeta{Total: 100, Page: page, Limit: 20, HasMore: hasMore},
	}
}

func names(items []models.ProductCard) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.Name)
	}
	return out
}

func TestStartLoadsFirstPage(t *testing.T) {
	lister := &fakeLister{respond: func(q browse.Query) (browse.Page, error) {
		return pageOf(cards("suit", "blazer"), q.Page, true), nil
	}}
	c := browse.NewController(lister)

	c.Start(context.Background())

	snap := c.Snapshot()
	assert.Equal(t, browse.Loaded, snap.State)
	assert.Equal(t, []string{"suit", "blazer"}, names(snap.Items))
	assert.False(t, snap.Exhausted)

	qs := lister.queries()
	require.Len(t, qs, 1)
	assert.Equal(t, 1, qs[0].Page)
}

func TestLoadMoreAppends(t *testing.T) {
	lister := &fakeLister{respond: func(q browse.Query) (browse.Page, error) {
		switch q.Page {
		case 1:
			return pageOf(cards("a", "b"), 1, true), nil
		default:
			return pageOf(cards("c"), 2, false), nil
		}
	}}
	c := browse.NewController(lister)
	ctx := context.Background()

	c.Start(ctx)
	c.LoadMore(ctx)

	snap := c.Snapshot()
	assert.Equal(t, []string{"a", "b", "c"}, names(snap.Items))
	assert.True(t, snap.Exhausted)

	// Exhausted: further LoadMore never hits the API.
	c.LoadMore(ctx)
	assert.Len(t, lister.queries(), 2)
}

func TestLoadMoreSingleFlight(t *testing.T) {
	release := make(chan struct{})
	lister := &fakeLister{respond: func(q browse.Query) (browse.Page, error) {
		if q.Page == 2 {
			<-release
		}
		return pageOf(cards("x"), q.Page, true), nil
	}}
	c := browse.NewController(lister)
	ctx := context.Background()

	c.Start(ctx)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		c.LoadMore(ctx) // blocks on release
	}()

	time.Sleep(50 * time.Millisecond)
	c.LoadMore(ctx) // in-flight guard: immediate no-op

	close(release)
	wg.Wait()

	// One Start call plus exactly one page-2 fetch.
	assert.Len(t, lister.queries(), 2)
}

func TestSearchDebounceCollapsesKeystrokes(t *testing.T) {
	lister := &fakeLister{respond: func(q browse.Query) (browse.Page, error) {
		return pageOf(cards("hit"), q.Page, false), nil
	}}
	c := browse.NewController(lister, browse.WithDebounce(40*time.Millisecond))
	ctx := context.Background()

	c.Start(ctx)

	c.SetSearch(ctx, "s")
	c.SetSearch(ctx, "si")
	c.SetSearch(ctx, "sil")
	c.SetSearch(ctx, "silk")

	time.Sleep(200 * time.Millisecond)

	qs := lister.queries()
	require.Len(t, qs, 2, "start + one debounced search")
	assert.Equal(t, "silk", qs[1].Search)
	assert.Equal(t, 1, qs[1].Page, "search always restarts from page one")
}

func TestSetCategoryReplacesImmediately(t *testing.T) {
	lister := &fakeLister{respond: func(q browse.Query) (browse.Page, error) {
		if q.Category == "Suits" {
			return pageOf(cards("two-piece"), 1, false), nil
		}
		return pageOf(cards("everything"), q.Page, true), nil
	}}
	c := browse.NewController(lister)
	ctx := context.Background()

	c.Start(ctx)
	c.SetCategory(ctx, "Suits")

	snap := c.Snapshot()
	assert.Equal(t, []string{"two-piece"}, names(snap.Items), "category switch replaces, never appends")
	assert.Len(t, lister.queries(), 2)
}

func TestFailureKeepsPreviousItems(t *testing.T) {
	fail := false
	lister := &fakeLister{respond: func(q browse.Query) (browse.Page, error) {
		if fail {
			return browse.Page{}, errors.New("boom")
		}
		return pageOf(cards("kept"), q.Page, true), nil
	}}
	c := browse.NewController(lister)
	ctx := context.Background()

	c.Start(ctx)
	fail = true
	c.LoadMore(ctx)

	snap := c.Snapshot()
	assert.Equal(t, browse.Failed, snap.State)
	assert.Error(t, snap.Err)
	assert.Equal(t, []string{"kept"}, names(snap.Items), "failure leaves the list intact")
}

func TestStaleResponseDiscarded(t *testing.T) {
	lister := &fakeLister{respond: func(q browse.Query) (browse.Page, error) {
		if q.Search == "slow" {
			time.Sleep(120 * time.Millisecond)
			return pageOf(cards("stale"), 1, false), nil
		}
		return pageOf(cards("fresh"), q.Page, false), nil
	}}
	c := browse.NewController(lister, browse.WithDebounce(5*time.Millisecond))
	ctx := context.Background()

	c.Start(ctx)

	// The search fetch starts on the debounce goroutine and dawdles.
	c.SetSearch(ctx, "slow")
	time.Sleep(30 * time.Millisecond)

	// A newer request finishes first.
	c.SetCategory(ctx, "Suits")
	assert.Equal(t, []string{"fresh"}, names(c.Snapshot().Items))

	// When the slow response finally lands it belongs to an older
	// generation and must not overwrite the newer result.
	time.Sleep(200 * time.Millisecond)
	snap := c.Snapshot()
	assert.Equal(t, []string{"fresh"}, names(snap.Items))
	assert.Equal(t, browse.Loaded, snap.State)
}
