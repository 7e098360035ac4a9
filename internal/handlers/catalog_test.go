package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/lucasremigio/flickshub/internal/catalog"
	"github.com/lucasremigio/flickshub/internal/middleware"
)

// fakeCatalogServer serves paged search and discover listings plus movie
// details, mimicking the upstream catalog's response shapes.
func fakeCatalogServer(t *testing.T, totalPages int) *httptest.Server {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/search/movie", "/discover/movie":
			page := 1
			fmt.Sscanf(r.URL.Query().Get("page"), "%d", &page)
			fmt.Fprintf(w, `{
				"page": %d,
				"results": [{"id": %d, "title": "Result %d"}, {"id": %d, "title": "Result %d"}],
				"total_pages": %d,
				"total_results": %d
			}`, page, page*100, page*100, page*100+1, page*100+1, totalPages, totalPages*2)
		case "/movie/popular":
			fmt.Fprint(w, `{"page": 1, "results": [{"id": 1, "title": "Popular"}], "total_pages": 1, "total_results": 1}`)
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(server.Close)

	return server
}

func newCatalogTestHandler(t *testing.T, totalPages int) *CatalogHandler {
	t.Helper()

	server := fakeCatalogServer(t, totalPages)
	client := catalog.NewClient(catalog.Config{
		APIKey:  "test-key",
		BaseURL: server.URL,
	}, log.New(io.Discard, "", 0))

	return NewCatalogHandler(client, log.New(io.Discard, "", 0))
}

// authedRequest builds a request carrying an authenticated user ID.
func authedRequest(method, target string, userID uuid.UUID) *http.Request {
	req := httptest.NewRequest(method, target, nil)
	ctx := context.WithValue(req.Context(), middleware.UserIDContextKey, userID)
	return req.WithContext(ctx)
}

func decodeListResponse(t *testing.T, rec *httptest.ResponseRecorder) movieListResponse {
	t.Helper()

	var resp movieListResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	return resp
}

func TestCatalogHandler_SearchStartsSession(t *testing.T) {
	handler := newCatalogTestHandler(t, 3)
	userID := uuid.New()

	rec := httptest.NewRecorder()
	handler.Search(rec, authedRequest(http.MethodGet, "/api/movies/search?query=alien", userID))

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rec.Code)
	}

	resp := decodeListResponse(t, rec)
	if resp.Page != 1 {
		t.Errorf("Expected page 1, got %d", resp.Page)
	}
	if resp.TotalPages != 3 {
		t.Errorf("Expected 3 total pages, got %d", resp.TotalPages)
	}
	if resp.Count != 2 {
		t.Errorf("Expected 2 results, got %d", resp.Count)
	}
}

func TestCatalogHandler_SearchMoreAccumulates(t *testing.T) {
	handler := newCatalogTestHandler(t, 3)
	userID := uuid.New()

	rec := httptest.NewRecorder()
	handler.Search(rec, authedRequest(http.MethodGet, "/api/movies/search?query=alien", userID))

	rec = httptest.NewRecorder()
	handler.SearchMore(rec, authedRequest(http.MethodGet, "/api/movies/search/more", userID))

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rec.Code)
	}

	resp := decodeListResponse(t, rec)
	if resp.Page != 2 {
		t.Errorf("Expected page 2, got %d", resp.Page)
	}
	if resp.Count != 4 {
		t.Errorf("Expected 4 accumulated results, got %d", resp.Count)
	}
	if resp.Results[0].ID != 100 || resp.Results[2].ID != 200 {
		t.Errorf("Expected pages in order, got IDs %d and %d", resp.Results[0].ID, resp.Results[2].ID)
	}
}

func TestCatalogHandler_SearchMoreStopsAtLastPage(t *testing.T) {
	handler := newCatalogTestHandler(t, 2)
	userID := uuid.New()

	rec := httptest.NewRecorder()
	handler.Search(rec, authedRequest(http.MethodGet, "/api/movies/search?query=alien", userID))

	// Page 2 is the last; further requests return the state unchanged.
	for i := 0; i < 3; i++ {
		rec = httptest.NewRecorder()
		handler.SearchMore(rec, authedRequest(http.MethodGet, "/api/movies/search/more", userID))
		if rec.Code != http.StatusOK {
			t.Fatalf("Expected status 200, got %d", rec.Code)
		}
	}

	resp := decodeListResponse(t, rec)
	if resp.Page != 2 {
		t.Errorf("Expected page 2, got %d", resp.Page)
	}
	if resp.Count != 4 {
		t.Errorf("Expected 4 results with no duplicates, got %d", resp.Count)
	}
}

func TestCatalogHandler_SearchMoreWithoutSession(t *testing.T) {
	handler := newCatalogTestHandler(t, 3)

	rec := httptest.NewRecorder()
	handler.SearchMore(rec, authedRequest(http.MethodGet, "/api/movies/search/more", uuid.New()))

	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", rec.Code)
	}
}

func TestCatalogHandler_FilterChangeResetsSession(t *testing.T) {
	handler := newCatalogTestHandler(t, 3)
	userID := uuid.New()

	rec := httptest.NewRecorder()
	handler.Search(rec, authedRequest(http.MethodGet, "/api/movies/search?query=alien", userID))
	rec = httptest.NewRecorder()
	handler.SearchMore(rec, authedRequest(http.MethodGet, "/api/movies/search/more", userID))

	// A different filter must discard the accumulated pages.
	rec = httptest.NewRecorder()
	handler.Search(rec, authedRequest(http.MethodGet, "/api/movies/search?query=matrix", userID))

	resp := decodeListResponse(t, rec)
	if resp.Page != 1 {
		t.Errorf("Expected fresh session at page 1, got %d", resp.Page)
	}
	if resp.Count != 2 {
		t.Errorf("Expected 2 results after reset, got %d", resp.Count)
	}
}

func TestCatalogHandler_RepeatedSearchSameFilter(t *testing.T) {
	handler := newCatalogTestHandler(t, 3)
	userID := uuid.New()

	rec := httptest.NewRecorder()
	handler.Search(rec, authedRequest(http.MethodGet, "/api/movies/search?query=alien", userID))
	rec = httptest.NewRecorder()
	handler.SearchMore(rec, authedRequest(http.MethodGet, "/api/movies/search/more", userID))

	// Same filter again must not throw away the accumulated state.
	rec = httptest.NewRecorder()
	handler.Search(rec, authedRequest(http.MethodGet, "/api/movies/search?query=alien", userID))

	resp := decodeListResponse(t, rec)
	if resp.Page != 2 {
		t.Errorf("Expected session kept at page 2, got %d", resp.Page)
	}
	if resp.Count != 4 {
		t.Errorf("Expected 4 accumulated results, got %d", resp.Count)
	}
}

func TestCatalogHandler_EndSession(t *testing.T) {
	handler := newCatalogTestHandler(t, 3)
	userID := uuid.New()

	rec := httptest.NewRecorder()
	handler.Search(rec, authedRequest(http.MethodGet, "/api/movies/search?query=alien", userID))

	rec = httptest.NewRecorder()
	handler.EndSession(rec, authedRequest(http.MethodDelete, "/api/movies/search", userID))
	if rec.Code != http.StatusNoContent {
		t.Fatalf("Expected status 204, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	handler.SearchMore(rec, authedRequest(http.MethodGet, "/api/movies/search/more", userID))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400 after ending session, got %d", rec.Code)
	}
}

func TestCatalogHandler_SearchInvalidRating(t *testing.T) {
	handler := newCatalogTestHandler(t, 3)

	for _, rating := range []string{"eleven", "-1", "10.5"} {
		rec := httptest.NewRecorder()
		handler.Search(rec, authedRequest(http.MethodGet, "/api/movies/search?rating="+rating, uuid.New()))
		if rec.Code != http.StatusBadRequest {
			t.Errorf("Expected status 400 for rating %q, got %d", rating, rec.Code)
		}
	}
}

func TestCatalogHandler_SessionsAreIsolatedPerUser(t *testing.T) {
	handler := newCatalogTestHandler(t, 3)
	alice := uuid.New()
	bob := uuid.New()

	rec := httptest.NewRecorder()
	handler.Search(rec, authedRequest(http.MethodGet, "/api/movies/search?query=alien", alice))
	rec = httptest.NewRecorder()
	handler.SearchMore(rec, authedRequest(http.MethodGet, "/api/movies/search/more", alice))

	rec = httptest.NewRecorder()
	handler.Search(rec, authedRequest(http.MethodGet, "/api/movies/search?query=alien", bob))

	resp := decodeListResponse(t, rec)
	if resp.Page != 1 {
		t.Errorf("Expected a fresh session for the second user, got page %d", resp.Page)
	}
}

func TestCatalogHandler_Browse(t *testing.T) {
	handler := newCatalogTestHandler(t, 1)

	rec := httptest.NewRecorder()
	handler.Browse(rec, authedRequest(http.MethodGet, "/api/movies/browse?category=popular", uuid.New()))

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rec.Code)
	}

	var list catalog.MovieList
	if err := json.NewDecoder(rec.Body).Decode(&list); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if len(list.Results) != 1 || list.Results[0].Title != "Popular" {
		t.Errorf("Unexpected results: %+v", list.Results)
	}
}
