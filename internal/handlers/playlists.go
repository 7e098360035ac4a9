package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/lucasremigio/flickshub/internal/catalog"
	"github.com/lucasremigio/flickshub/internal/middleware"
	"github.com/lucasremigio/flickshub/internal/models"
	"github.com/lucasremigio/flickshub/internal/services"
)

// PlaylistHandler handles playlist requests
type PlaylistHandler struct {
	playlists *services.PlaylistService
	catalog   *catalog.Client
	logger    *log.Logger
}

// NewPlaylistHandler creates a new playlist handler
func NewPlaylistHandler(playlists *services.PlaylistService, client *catalog.Client, logger *log.Logger) *PlaylistHandler {
	return &PlaylistHandler{
		playlists: playlists,
		catalog:   client,
		logger:    logger,
	}
}

// List handles GET /api/playlists
func (h *PlaylistHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		http.Error(w, `{"error":"Unauthorized"}`, http.StatusUnauthorized)
		return
	}

	playlists, err := h.playlists.ListByUser(r.Context(), userID)
	if err != nil {
		h.logger.Printf("Failed to list playlists: %v", err)
		http.Error(w, `{"error":"Failed to list playlists"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(playlists)
}

// Create handles POST /api/playlists
func (h *PlaylistHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		http.Error(w, `{"error":"Unauthorized"}`, http.StatusUnauthorized)
		return
	}

	var input models.CreatePlaylistInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, `{"error":"Invalid request body"}`, http.StatusBadRequest)
		return
	}

	playlist, err := h.playlists.Create(r.Context(), userID, input.Name)
	if err != nil {
		h.writePlaylistError(w, "Failed to create playlist", err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(playlist)
}

// Get handles GET /api/playlists/{id}
func (h *PlaylistHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, playlistID, ok := h.requestIDs(w, r)
	if !ok {
		return
	}

	playlist, err := h.playlists.Get(r.Context(), playlistID, userID)
	if err != nil {
		h.writePlaylistError(w, "Failed to get playlist", err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(playlist)
}

// Rename handles PATCH /api/playlists/{id}
func (h *PlaylistHandler) Rename(w http.ResponseWriter, r *http.Request) {
	userID, playlistID, ok := h.requestIDs(w, r)
	if !ok {
		return
	}

	var input models.RenamePlaylistInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, `{"error":"Invalid request body"}`, http.StatusBadRequest)
		return
	}

	playlist, err := h.playlists.Rename(r.Context(), playlistID, userID, input.Name)
	if err != nil {
		h.writePlaylistError(w, "Failed to rename playlist", err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(playlist)
}

// Delete handles DELETE /api/playlists/{id}
func (h *PlaylistHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, playlistID, ok := h.requestIDs(w, r)
	if !ok {
		return
	}

	if err := h.playlists.Delete(r.Context(), playlistID, userID); err != nil {
		h.writePlaylistError(w, "Failed to delete playlist", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// AddMovie handles POST /api/playlists/{id}/movies
func (h *PlaylistHandler) AddMovie(w http.ResponseWriter, r *http.Request) {
	userID, playlistID, ok := h.requestIDs(w, r)
	if !ok {
		return
	}

	var input models.PlaylistMovieInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil || input.MovieID <= 0 {
		http.Error(w, `{"error":"Invalid movie ID"}`, http.StatusBadRequest)
		return
	}

	playlist, err := h.playlists.AddMovie(r.Context(), playlistID, userID, input.MovieID)
	if err != nil {
		h.writePlaylistError(w, "Failed to add movie to playlist", err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(playlist)
}

// RemoveMovie handles DELETE /api/playlists/{id}/movies/{movieId}
func (h *PlaylistHandler) RemoveMovie(w http.ResponseWriter, r *http.Request) {
	userID, playlistID, ok := h.requestIDs(w, r)
	if !ok {
		return
	}

	movieID, err := strconv.Atoi(r.PathValue("movieId"))
	if err != nil {
		http.Error(w, `{"error":"Invalid movie ID"}`, http.StatusBadRequest)
		return
	}

	playlist, err := h.playlists.RemoveMovie(r.Context(), playlistID, userID, movieID)
	if err != nil {
		h.writePlaylistError(w, "Failed to remove movie from playlist", err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(playlist)
}

// playlistMoviesResponse carries the resolved members of a playlist plus the
// identifiers that could not be resolved this time.
type playlistMoviesResponse struct {
	Movies    []catalog.MovieDetail `json:"movies"`
	FailedIDs []int                 `json:"failedIds,omitempty"`
}

// Movies handles GET /api/playlists/{id}/movies
//
// Resolves every member identifier to its full catalog record. Identifiers
// that fail to resolve are reported alongside the ones that succeeded; the
// request only fails when nothing resolves.
func (h *PlaylistHandler) Movies(w http.ResponseWriter, r *http.Request) {
	userID, playlistID, ok := h.requestIDs(w, r)
	if !ok {
		return
	}

	playlist, err := h.playlists.Get(r.Context(), playlistID, userID)
	if err != nil {
		h.writePlaylistError(w, "Failed to get playlist", err)
		return
	}

	if len(playlist.Movies) == 0 {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(playlistMoviesResponse{Movies: []catalog.MovieDetail{}})
		return
	}

	result, err := h.catalog.ResolveMovies(r.Context(), playlist.Movies)
	if err != nil {
		h.logger.Printf("Failed to resolve playlist %s: %v", playlistID, err)
		http.Error(w, `{"error":"Failed to load playlist movies"}`, http.StatusBadGateway)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(playlistMoviesResponse{
		Movies:    result.Movies,
		FailedIDs: result.FailedIDs,
	})
}

// requestIDs extracts the authenticated user and the playlist path ID.
func (h *PlaylistHandler) requestIDs(w http.ResponseWriter, r *http.Request) (userID, playlistID uuid.UUID, ok bool) {
	userID, ok = middleware.GetUserIDFromContext(r.Context())
	if !ok {
		http.Error(w, `{"error":"Unauthorized"}`, http.StatusUnauthorized)
		return uuid.Nil, uuid.Nil, false
	}

	playlistID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		http.Error(w, `{"error":"Invalid playlist ID"}`, http.StatusBadRequest)
		return uuid.Nil, uuid.Nil, false
	}

	return userID, playlistID, true
}

// writePlaylistError maps service errors onto HTTP statuses: validation
// rejections carry their user-facing reason, missing rows become 404.
func (h *PlaylistHandler) writePlaylistError(w http.ResponseWriter, msg string, err error) {
	var validationErr *services.ValidationError
	if errors.As(err, &validationErr) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnprocessableEntity)
		json.NewEncoder(w).Encode(map[string]string{"error": validationErr.Reason})
		return
	}

	if errors.Is(err, pgx.ErrNoRows) {
		http.Error(w, `{"error":"Playlist not found"}`, http.StatusNotFound)
		return
	}

	h.logger.Printf("%s: %v", msg, err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusInternalServerError)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
