package catalog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"sync"
	"testing"
)

// memoryCache is an in-process Cache for tests.
type memoryCache struct {
	mu      sync.Mutex
	entries map[string][]byte
	gets    int
	sets    int
}

func newMemoryCache() *memoryCache {
	return &memoryCache{entries: make(map[string][]byte)}
}

func (c *memoryCache) Get(ctx context.Context, key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gets++
	val, ok := c.entries[key]
	return val, ok
}

func (c *memoryCache) Set(ctx context.Context, key string, val []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sets++
	c.entries[key] = val
	return nil
}

func TestClient_Movies(t *testing.T) {
	var gotPath, gotQuery string
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.Query().Get("query")
		fmt.Fprint(w, `{
			"page": 1,
			"results": [{"id": 603, "title": "The Matrix", "vote_average": 8.2}],
			"total_pages": 12,
			"total_results": 230
		}`)
	})

	client, _ := newTestClient(t, handler)

	list, err := client.Movies(context.Background(), Filter{Query: "matrix"}, 1)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if gotPath != "/search/movie" {
		t.Errorf("Expected path /search/movie, got %s", gotPath)
	}
	if gotQuery != "matrix" {
		t.Errorf("Expected query matrix, got %s", gotQuery)
	}
	if len(list.Results) != 1 || list.Results[0].Title != "The Matrix" {
		t.Errorf("Unexpected results: %+v", list.Results)
	}
	if list.TotalPages != 12 {
		t.Errorf("Expected 12 total pages, got %d", list.TotalPages)
	}
}

func TestClient_TransportError(t *testing.T) {
	client, server := newTestClient(t, http.NotFoundHandler())
	server.Close()

	_, err := client.Movies(context.Background(), Filter{}, 1)
	if !errors.Is(err, ErrTransport) {
		t.Errorf("Expected ErrTransport, got %v", err)
	}
}

func TestClient_BadStatus(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	client, _ := newTestClient(t, handler)

	_, err := client.Movies(context.Background(), Filter{}, 1)
	if !errors.Is(err, ErrBadStatus) {
		t.Fatalf("Expected ErrBadStatus, got %v", err)
	}

	var statusErr *StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("Expected StatusError, got %T", err)
	}
	if statusErr.Code != http.StatusInternalServerError {
		t.Errorf("Expected code 500, got %d", statusErr.Code)
	}
}

func TestClient_EmptyResponse(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	client, _ := newTestClient(t, handler)

	_, err := client.Movies(context.Background(), Filter{}, 1)
	if !errors.Is(err, ErrEmptyResponse) {
		t.Errorf("Expected ErrEmptyResponse, got %v", err)
	}
}

func TestClient_DecodeError(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"page": "not a number"}`)
	})
	client, _ := newTestClient(t, handler)

	_, err := client.Movies(context.Background(), Filter{}, 1)
	if !errors.Is(err, ErrDecode) {
		t.Errorf("Expected ErrDecode, got %v", err)
	}
}

func TestClient_InvalidBaseURL(t *testing.T) {
	client := NewClient(Config{
		APIKey:  "test-key",
		BaseURL: "://not-a-url",
	}, log.New(io.Discard, "", 0))

	_, err := client.Movies(context.Background(), Filter{}, 1)
	if !errors.Is(err, ErrInvalidRequest) {
		t.Errorf("Expected ErrInvalidRequest, got %v", err)
	}
}

func TestClient_BrowseFallsBackToPopular(t *testing.T) {
	var gotPath string
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		fmt.Fprint(w, `{"page": 1, "results": [], "total_pages": 1, "total_results": 0}`)
	})
	client, _ := newTestClient(t, handler)

	if _, err := client.Browse(context.Background(), "trending", 1); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if gotPath != "/movie/popular" {
		t.Errorf("Expected fallback to /movie/popular, got %s", gotPath)
	}

	if _, err := client.Browse(context.Background(), CategoryTopRated, 1); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if gotPath != "/movie/top_rated" {
		t.Errorf("Expected /movie/top_rated, got %s", gotPath)
	}
}

func TestClient_MovieDetailsReadThroughCache(t *testing.T) {
	requests := 0
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		fmt.Fprint(w, `{"id": 603, "title": "The Matrix", "runtime": 136}`)
	})

	client, _ := newTestClient(t, handler)
	cache := newMemoryCache()
	client.cache = cache

	first, err := client.MovieDetails(context.Background(), 603)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	second, err := client.MovieDetails(context.Background(), 603)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if requests != 1 {
		t.Errorf("Expected 1 upstream request, got %d", requests)
	}
	if cache.sets != 1 {
		t.Errorf("Expected 1 cache write, got %d", cache.sets)
	}
	if first.Title != second.Title || second.Title != "The Matrix" {
		t.Errorf("Expected identical cached detail, got %q and %q", first.Title, second.Title)
	}
	if second.Runtime != 136 {
		t.Errorf("Expected runtime 136, got %d", second.Runtime)
	}
}

func TestClient_GenresCached(t *testing.T) {
	requests := 0
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		fmt.Fprint(w, `{"genres": [{"id": 28, "name": "Action"}, {"id": 878, "name": "Science Fiction"}]}`)
	})

	client, _ := newTestClient(t, handler)
	client.cache = newMemoryCache()

	for i := 0; i < 3; i++ {
		genres, err := client.Genres(context.Background())
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if len(genres) != 2 || genres[0].Name != "Action" {
			t.Errorf("Unexpected genres: %+v", genres)
		}
	}

	if requests != 1 {
		t.Errorf("Expected 1 upstream request, got %d", requests)
	}
}

func TestClient_ImageURL(t *testing.T) {
	client, _ := newTestClient(t, http.NotFoundHandler())

	if got := client.ImageURL("/poster.jpg"); got != "https://image.tmdb.org/t/p/w500/poster.jpg" {
		t.Errorf("Unexpected image URL: %s", got)
	}
	if got := client.ImageURL(""); got != "" {
		t.Errorf("Expected empty URL for empty path, got %s", got)
	}
}
