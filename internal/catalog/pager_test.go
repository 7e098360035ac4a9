package catalog

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
)

// pageOf builds a fake page with one movie per index.
func pageOf(page, totalPages, perPage int) *MovieList {
	list := &MovieList{Page: page, TotalPages: totalPages}
	for i := 0; i < perPage; i++ {
		id := page*100 + i
		list.Results = append(list.Results, Movie{ID: id, Title: fmt.Sprintf("Movie %d", id)})
	}
	return list
}

func TestPager_LoadFirstPage(t *testing.T) {
	fetches := 0
	p := newPager(func(ctx context.Context, f Filter, page int) (*MovieList, error) {
		fetches++
		return pageOf(page, 3, 2), nil
	}, Filter{})

	if err := p.LoadFirstPage(context.Background()); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if fetches != 1 {
		t.Errorf("Expected 1 fetch, got %d", fetches)
	}
	if got := len(p.Items()); got != 2 {
		t.Errorf("Expected 2 items, got %d", got)
	}
	if p.Page() != 1 {
		t.Errorf("Expected page 1, got %d", p.Page())
	}
	if p.TotalPages() != 3 {
		t.Errorf("Expected 3 total pages, got %d", p.TotalPages())
	}
}

func TestPager_LoadMoreAccumulatesWithoutDuplicates(t *testing.T) {
	p := newPager(func(ctx context.Context, f Filter, page int) (*MovieList, error) {
		return pageOf(page, 3, 2), nil
	}, Filter{})

	if err := p.LoadFirstPage(context.Background()); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	for i := 0; i < 5; i++ {
		if _, err := p.LoadMore(context.Background()); err != nil {
			t.Fatalf("Unexpected error on LoadMore %d: %v", i, err)
		}
	}

	items := p.Items()
	if len(items) != 6 {
		t.Fatalf("Expected 6 items (3 pages of 2), got %d", len(items))
	}

	seen := make(map[int]bool)
	for _, m := range items {
		if seen[m.ID] {
			t.Errorf("Duplicate item %d in accumulated list", m.ID)
		}
		seen[m.ID] = true
	}

	if !p.Exhausted() {
		t.Error("Expected pager to be exhausted after fetching every page")
	}

	// Further calls are no-ops.
	dispatched, err := p.LoadMore(context.Background())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if dispatched {
		t.Error("Expected no dispatch after the last page")
	}
}

func TestPager_ResetClearsSession(t *testing.T) {
	p := newPager(func(ctx context.Context, f Filter, page int) (*MovieList, error) {
		return pageOf(page, 5, 2), nil
	}, Filter{})

	p.LoadFirstPage(context.Background())
	p.LoadMore(context.Background())

	p.Reset(Filter{Query: "alien"})

	if got := len(p.Items()); got != 0 {
		t.Errorf("Expected empty list after reset, got %d items", got)
	}
	if p.Page() != 0 {
		t.Errorf("Expected page 0 after reset, got %d", p.Page())
	}
	if p.TotalPages() != 1 {
		t.Errorf("Expected total pages 1 after reset, got %d", p.TotalPages())
	}

	if err := p.LoadFirstPage(context.Background()); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if got := len(p.Items()); got != 2 {
		t.Errorf("Expected exactly page 1 items after reset, got %d", got)
	}
}

func TestPager_LoadMoreNoOpWhileInFlight(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	fetches := 0
	var mu sync.Mutex

	p := newPager(func(ctx context.Context, f Filter, page int) (*MovieList, error) {
		mu.Lock()
		fetches++
		mu.Unlock()
		if page == 2 {
			close(started)
			<-release
		}
		return pageOf(page, 3, 2), nil
	}, Filter{})

	if err := p.LoadFirstPage(context.Background()); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		p.LoadMore(context.Background())
	}()

	<-started

	// Second call while the first is still in flight must not dispatch.
	dispatched, err := p.LoadMore(context.Background())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if dispatched {
		t.Error("Expected LoadMore to be a no-op while a fetch is in flight")
	}

	close(release)
	<-done

	mu.Lock()
	defer mu.Unlock()
	if fetches != 2 {
		t.Errorf("Expected exactly 2 fetches, got %d", fetches)
	}
	if got := len(p.Items()); got != 4 {
		t.Errorf("Expected 4 items, got %d", got)
	}
}

func TestPager_FetchFailureLeavesStateUntouched(t *testing.T) {
	fail := false
	p := newPager(func(ctx context.Context, f Filter, page int) (*MovieList, error) {
		if fail {
			return nil, errors.New("boom")
		}
		return pageOf(page, 3, 2), nil
	}, Filter{})

	p.LoadFirstPage(context.Background())

	fail = true
	if _, err := p.LoadMore(context.Background()); err == nil {
		t.Fatal("Expected error from failing fetch")
	}

	if got := len(p.Items()); got != 2 {
		t.Errorf("Expected items unchanged after failure, got %d", got)
	}
	if p.Page() != 1 {
		t.Errorf("Expected page unchanged after failure, got %d", p.Page())
	}
	if p.InFlight() {
		t.Error("Expected in-flight flag cleared after failure")
	}

	// The session recovers once the fetch succeeds again.
	fail = false
	if _, err := p.LoadMore(context.Background()); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if got := len(p.Items()); got != 4 {
		t.Errorf("Expected 4 items after recovery, got %d", got)
	}
}

func TestPager_StaleResultDiscardedAfterReset(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})

	p := newPager(func(ctx context.Context, f Filter, page int) (*MovieList, error) {
		if f.Query == "slow" {
			close(started)
			<-release
		}
		return pageOf(page, 3, 2), nil
	}, Filter{Query: "slow"})

	done := make(chan struct{})
	go func() {
		defer close(done)
		p.LoadFirstPage(context.Background())
	}()

	<-started

	// The filter changes while the first fetch is still in flight.
	p.Reset(Filter{Query: "fast"})

	close(release)
	<-done

	// The stale result must not leak into the new session.
	if got := len(p.Items()); got != 0 {
		t.Errorf("Expected stale result discarded, got %d items", got)
	}
	if p.Page() != 0 {
		t.Errorf("Expected page 0 in new session, got %d", p.Page())
	}

	if err := p.LoadFirstPage(context.Background()); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if got := len(p.Items()); got != 2 {
		t.Errorf("Expected 2 items from new session, got %d", got)
	}
}

func TestPager_TotalPagesUpdatedFromServer(t *testing.T) {
	p := newPager(func(ctx context.Context, f Filter, page int) (*MovieList, error) {
		return pageOf(page, 42, 1), nil
	}, Filter{})

	p.LoadFirstPage(context.Background())

	if p.TotalPages() != 42 {
		t.Errorf("Expected server-reported 42 total pages, got %d", p.TotalPages())
	}
}
