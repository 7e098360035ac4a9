package catalog

import (
	"context"
	"sync"
)

// fetchFunc fetches one page of movies for a filter.
type fetchFunc func(ctx context.Context, f Filter, page int) (*MovieList, error)

// Pager owns the page state for one filter session and drives sequential
// page fetches. LoadMore is idempotent while a fetch is in flight, so it is
// safe to call on every scroll event. Results dispatched before a Reset are
// discarded when they complete: each fetch carries the generation it was
// issued under and only applies if that generation is still current.
type Pager struct {
	fetch fetchFunc

	mu         sync.Mutex
	filter     Filter
	page       int // last fetched page, 0 before the first fetch
	totalPages int
	inFlight   bool
	generation uint64
	items      []Movie
}

// NewPager creates a pager for the given filter, fetching through the client.
func NewPager(client *Client, f Filter) *Pager {
	return newPager(client.Movies, f)
}

func newPager(fetch fetchFunc, f Filter) *Pager {
	return &Pager{
		fetch:      fetch,
		filter:     f,
		totalPages: 1,
	}
}

// Reset clears the accumulated items and starts a new session for the given
// filter. Must be called whenever the filter criteria change. Any fetch still
// in flight will have its result discarded.
func (p *Pager) Reset(f Filter) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.filter = f
	p.page = 0
	p.totalPages = 1
	p.inFlight = false
	p.items = nil
	p.generation++
}

// LoadFirstPage fetches page 1 and replaces the accumulated list with its
// results.
func (p *Pager) LoadFirstPage(ctx context.Context) error {
	p.mu.Lock()
	gen := p.generation
	f := p.filter
	p.inFlight = true
	p.mu.Unlock()

	return p.run(ctx, gen, f, 1, false)
}

// LoadMore fetches the next page and appends its results. It returns false
// without issuing a request when a fetch is already in flight or the last
// page has been reached.
func (p *Pager) LoadMore(ctx context.Context) (bool, error) {
	p.mu.Lock()
	if p.inFlight || p.page >= p.totalPages {
		p.mu.Unlock()
		return false, nil
	}
	gen := p.generation
	f := p.filter
	next := p.page + 1
	p.inFlight = true
	p.mu.Unlock()

	if err := p.run(ctx, gen, f, next, true); err != nil {
		return false, err
	}
	return true, nil
}

// run performs the fetch and applies the result if the session has not been
// reset in the meantime. On failure only the in-flight flag changes; nothing
// was mutated optimistically, so there is no rollback.
func (p *Pager) run(ctx context.Context, gen uint64, f Filter, page int, appendItems bool) error {
	list, err := p.fetch(ctx, f, page)

	p.mu.Lock()
	defer p.mu.Unlock()

	if gen != p.generation {
		// Stale result from before a Reset; the new session owns the state.
		return nil
	}

	p.inFlight = false
	if err != nil {
		return err
	}

	total := list.TotalPages
	if total < 1 {
		total = 1
	}
	p.totalPages = total
	if appendItems {
		p.items = append(p.items, list.Results...)
	} else {
		p.items = append([]Movie(nil), list.Results...)
	}
	p.page = page

	return nil
}

// Items returns a copy of the accumulated item list.
func (p *Pager) Items() []Movie {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]Movie(nil), p.items...)
}

// Page returns the last fetched page number, 0 before any fetch.
func (p *Pager) Page() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.page
}

// TotalPages returns the server-reported page count for the session.
func (p *Pager) TotalPages() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.totalPages
}

// InFlight reports whether a fetch is currently outstanding.
func (p *Pager) InFlight() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.inFlight
}

// Filter returns the filter the current session was started with.
func (p *Pager) Filter() Filter {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.filter
}

// Exhausted reports whether the last page has been fetched.
func (p *Pager) Exhausted() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.page >= p.totalPages
}
