package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"sync"

	"github.com/google/uuid"
	"github.com/lucasremigio/flickshub/internal/catalog"
	"github.com/lucasremigio/flickshub/internal/middleware"
)

// CatalogHandler serves browse, search and detail requests against the
// remote movie catalog. Search keeps a pager per user so scrolling loads
// pages incrementally; changing any filter starts a fresh session.
type CatalogHandler struct {
	catalog *catalog.Client
	logger  *log.Logger

	mu       sync.Mutex
	sessions map[uuid.UUID]*catalog.Pager
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(client *catalog.Client, logger *log.Logger) *CatalogHandler {
	return &CatalogHandler{
		catalog:  client,
		logger:   logger,
		sessions: make(map[uuid.UUID]*catalog.Pager),
	}
}

// movieListResponse is the JSON shape for accumulated listings.
type movieListResponse struct {
	Results    []catalog.Movie `json:"results"`
	Page       int             `json:"page"`
	TotalPages int             `json:"totalPages"`
	Count      int             `json:"count"`
}

// Browse handles GET /api/movies/browse?category=&page=
func (h *CatalogHandler) Browse(w http.ResponseWriter, r *http.Request) {
	category := r.URL.Query().Get("category")
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}

	list, err := h.catalog.Browse(r.Context(), category, page)
	if err != nil {
		h.writeCatalogError(w, "Failed to browse movies", err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(list)
}

// Search handles GET /api/movies/search?query=&year=&genre=&rating=
//
// It starts (or restarts) the caller's search session with the given filter
// and returns the first page. Repeating the request with the same filter
// returns the session's accumulated state unchanged.
func (h *CatalogHandler) Search(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		http.Error(w, `{"error":"Unauthorized"}`, http.StatusUnauthorized)
		return
	}

	filter, err := parseFilter(r)
	if err != nil {
		http.Error(w, `{"error":"Invalid filter"}`, http.StatusBadRequest)
		return
	}

	h.mu.Lock()
	pager, exists := h.sessions[userID]
	if !exists {
		pager = catalog.NewPager(h.catalog, filter)
		h.sessions[userID] = pager
	}
	h.mu.Unlock()

	fresh := !exists || !filtersEqual(pager.Filter(), filter) || pager.Page() == 0
	if fresh {
		pager.Reset(filter)
		if err := pager.LoadFirstPage(r.Context()); err != nil {
			h.writeCatalogError(w, "Failed to search movies", err)
			return
		}
	}

	h.writePagerState(w, pager)
}

// SearchMore handles GET /api/movies/search/more
//
// Loads the next page into the caller's session and returns the accumulated
// state. A no-op (fetch in flight, or last page reached) returns the current
// state unchanged.
func (h *CatalogHandler) SearchMore(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		http.Error(w, `{"error":"Unauthorized"}`, http.StatusUnauthorized)
		return
	}

	h.mu.Lock()
	pager, exists := h.sessions[userID]
	h.mu.Unlock()

	if !exists {
		http.Error(w, `{"error":"No active search session"}`, http.StatusBadRequest)
		return
	}

	if _, err := pager.LoadMore(r.Context()); err != nil {
		h.writeCatalogError(w, "Failed to load more movies", err)
		return
	}

	h.writePagerState(w, pager)
}

// GetMovie handles GET /api/movies/{id}
func (h *CatalogHandler) GetMovie(w http.ResponseWriter, r *http.Request) {
	idStr := r.PathValue("id")
	movieID, err := strconv.Atoi(idStr)
	if err != nil {
		http.Error(w, `{"error":"Invalid movie ID"}`, http.StatusBadRequest)
		return
	}

	movie, err := h.catalog.MovieDetails(r.Context(), movieID)
	if err != nil {
		h.writeCatalogError(w, "Failed to fetch movie", err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(movie)
}

// Genres handles GET /api/genres
func (h *CatalogHandler) Genres(w http.ResponseWriter, r *http.Request) {
	genres, err := h.catalog.Genres(r.Context())
	if err != nil {
		h.writeCatalogError(w, "Failed to fetch genres", err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(catalog.GenreList{Genres: genres})
}

// EndSession drops the caller's search session. Called when the search
// screen is left so a stale session does not linger.
func (h *CatalogHandler) EndSession(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		http.Error(w, `{"error":"Unauthorized"}`, http.StatusUnauthorized)
		return
	}

	h.mu.Lock()
	delete(h.sessions, userID)
	h.mu.Unlock()

	w.WriteHeader(http.StatusNoContent)
}

func (h *CatalogHandler) writePagerState(w http.ResponseWriter, pager *catalog.Pager) {
	items := pager.Items()
	resp := movieListResponse{
		Results:    items,
		Page:       pager.Page(),
		TotalPages: pager.TotalPages(),
		Count:      len(items),
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// writeCatalogError maps catalog error kinds onto HTTP statuses. The client
// shows a static message and keeps its last-good state; the detail only goes
// to the log.
func (h *CatalogHandler) writeCatalogError(w http.ResponseWriter, msg string, err error) {
	h.logger.Printf("%s: %v", msg, err)

	status := http.StatusBadGateway
	switch {
	case errors.Is(err, catalog.ErrInvalidRequest):
		status = http.StatusBadRequest
	case errors.Is(err, catalog.ErrTransport):
		status = http.StatusGatewayTimeout
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

// parseFilter builds a catalog filter from the search query parameters.
func parseFilter(r *http.Request) (catalog.Filter, error) {
	q := r.URL.Query()

	f := catalog.Filter{
		Query:   q.Get("query"),
		Year:    q.Get("year"),
		GenreID: q.Get("genre"),
	}

	if ratingStr := q.Get("rating"); ratingStr != "" {
		rating, err := strconv.ParseFloat(ratingStr, 64)
		if err != nil || rating < 0 || rating > 10 {
			return catalog.Filter{}, errors.New("invalid rating")
		}
		f.MinRating = &rating
	}

	return f, nil
}

func filtersEqual(a, b catalog.Filter) bool {
	if a.Query != b.Query || a.Year != b.Year || a.GenreID != b.GenreID {
		return false
	}
	switch {
	case a.MinRating == nil && b.MinRating == nil:
		return true
	case a.MinRating == nil || b.MinRating == nil:
		return false
	default:
		return *a.MinRating == *b.MinRating
	}
}
