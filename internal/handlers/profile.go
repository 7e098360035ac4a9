package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"github.com/lucasremigio/flickshub/internal/middleware"
	"github.com/lucasremigio/flickshub/internal/services"
	"github.com/lucasremigio/flickshub/internal/storage"
)

// maxAvatarSize caps avatar uploads at 5 MB.
const maxAvatarSize = 5 << 20

// ProfileHandler handles profile requests
type ProfileHandler struct {
	userService *services.UserService
	avatars     *storage.AvatarStore
	logger      *log.Logger
}

// NewProfileHandler creates a new profile handler
func NewProfileHandler(userService *services.UserService, avatars *storage.AvatarStore, logger *log.Logger) *ProfileHandler {
	return &ProfileHandler{
		userService: userService,
		avatars:     avatars,
		logger:      logger,
	}
}

// Get handles GET /api/profile
func (h *ProfileHandler) Get(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		http.Error(w, `{"error":"Unauthorized"}`, http.StatusUnauthorized)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(user)
}

// Update handles PATCH /api/profile
func (h *ProfileHandler) Update(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		http.Error(w, `{"error":"Unauthorized"}`, http.StatusUnauthorized)
		return
	}

	var input struct {
		DisplayName string `json:"displayName"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, `{"error":"Invalid request body"}`, http.StatusBadRequest)
		return
	}

	input.DisplayName = strings.TrimSpace(input.DisplayName)
	if input.DisplayName == "" {
		http.Error(w, `{"error":"Display name cannot be empty"}`, http.StatusBadRequest)
		return
	}

	updated, err := h.userService.UpdateProfile(r.Context(), user.ID, input.DisplayName)
	if err != nil {
		h.logger.Printf("Failed to update profile: %v", err)
		http.Error(w, `{"error":"Failed to update profile"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(updated)
}

// UploadAvatar handles POST /api/profile/avatar
func (h *ProfileHandler) UploadAvatar(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		http.Error(w, `{"error":"Unauthorized"}`, http.StatusUnauthorized)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxAvatarSize)
	if err := r.ParseMultipartForm(maxAvatarSize); err != nil {
		http.Error(w, `{"error":"Avatar must be an image up to 5MB"}`, http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("avatar")
	if err != nil {
		http.Error(w, `{"error":"Missing avatar file"}`, http.StatusBadRequest)
		return
	}
	defer file.Close()

	url, err := h.avatars.Save(user.ID, header.Header.Get("Content-Type"), file)
	if err != nil {
		h.logger.Printf("Failed to save avatar: %v", err)
		http.Error(w, `{"error":"Failed to save avatar"}`, http.StatusBadRequest)
		return
	}

	updated, err := h.userService.UpdateAvatar(r.Context(), user.ID, url)
	if err != nil {
		h.logger.Printf("Failed to update avatar URL: %v", err)
		http.Error(w, `{"error":"Failed to update avatar"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(updated)
}
