package handlers

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/github"
	"golang.org/x/oauth2/google"

	"github.com/lucasremigio/flickshub/internal/database"
	"github.com/lucasremigio/flickshub/internal/middleware"
	"github.com/lucasremigio/flickshub/internal/models"
	"github.com/lucasremigio/flickshub/internal/services"
)

// AuthHandler handles authentication requests
type AuthHandler struct {
	userService    *services.UserService
	sessionStore   *database.SessionStore
	authMiddleware *middleware.AuthMiddleware
	googleConfig   *oauth2.Config
	githubConfig   *oauth2.Config
	logger         *log.Logger
}

// AuthConfig holds authentication configuration
type AuthConfig struct {
	GoogleClientID     string
	GoogleClientSecret string
	GitHubClientID     string
	GitHubClientSecret string
	CallbackHost       string
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(
	userService *services.UserService,
	sessionStore *database.SessionStore,
	authMiddleware *middleware.AuthMiddleware,
	cfg AuthConfig,
	logger *log.Logger,
) *AuthHandler {
	ghConfig := &oauth2.Config{
		ClientID:     cfg.GitHubClientID,
		ClientSecret: cfg.GitHubClientSecret,
		RedirectURL:  fmt.Sprintf("%s/auth/github/callback", cfg.CallbackHost),
		Scopes:       []string{"user:email"},
		Endpoint:     github.Endpoint,
	}

	googleConfig := &oauth2.Config{
		ClientID:     cfg.GoogleClientID,
		ClientSecret: cfg.GoogleClientSecret,
		RedirectURL:  fmt.Sprintf("%s/auth/google/callback", cfg.CallbackHost),
		Scopes:       []string{"profile", "email"},
		Endpoint:     google.Endpoint,
	}

	return &AuthHandler{
		userService:    userService,
		sessionStore:   sessionStore,
		authMiddleware: authMiddleware,
		googleConfig:   googleConfig,
		githubConfig:   ghConfig,
		logger:         logger,
	}
}

// GoogleLogin initiates Google OAuth flow
func (h *AuthHandler) GoogleLogin(w http.ResponseWriter, r *http.Request) {
	state, err := h.sessionStore.GenerateSessionID()
	if err != nil {
		h.logger.Printf("Failed to generate state token: %v", err)
		http.Error(w, `{"error":"Internal server error"}`, http.StatusInternalServerError)
		return
	}

	url := h.googleConfig.AuthCodeURL(state, oauth2.AccessTypeOffline)
	http.Redirect(w, r, url, http.StatusTemporaryRedirect)
}

// GoogleCallback handles Google OAuth callback
func (h *AuthHandler) GoogleCallback(w http.ResponseWriter, r *http.Request) {
	code := r.URL.Query().Get("code")
	if code == "" {
		http.Error(w, `{"error":"No code provided"}`, http.StatusBadRequest)
		return
	}

	token, err := h.googleConfig.Exchange(r.Context(), code)
	if err != nil {
		h.logger.Printf("Failed to exchange code: %v", err)
		http.Error(w, `{"error":"Failed to exchange code"}`, http.StatusInternalServerError)
		return
	}

	client := h.googleConfig.Client(r.Context(), token)
	resp, err := client.Get("https://www.googleapis.com/oauth2/v2/userinfo")
	if err != nil {
		h.logger.Printf("Failed to get user info: %v", err)
		http.Error(w, `{"error":"Failed to get user info"}`, http.StatusInternalServerError)
		return
	}
	defer resp.Body.Close()

	var userInfo struct {
		ID    string `json:"id"`
		Email string `json:"email"`
		Name  string `json:"name"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&userInfo); err != nil {
		h.logger.Printf("Failed to decode user info: %v", err)
		http.Error(w, `{"error":"Failed to decode user info"}`, http.StatusInternalServerError)
		return
	}

	h.completeLogin(w, r, userInfo.ID, models.ProviderGoogle, userInfo.Email, userInfo.Name)
}

// GitHubLogin initiates GitHub OAuth flow
func (h *AuthHandler) GitHubLogin(w http.ResponseWriter, r *http.Request) {
	state, err := h.sessionStore.GenerateSessionID()
	if err != nil {
		h.logger.Printf("Failed to generate state token: %v", err)
		http.Error(w, `{"error":"Internal server error"}`, http.StatusInternalServerError)
		return
	}

	url := h.githubConfig.AuthCodeURL(state)
	http.Redirect(w, r, url, http.StatusTemporaryRedirect)
}

// GitHubCallback handles GitHub OAuth callback
func (h *AuthHandler) GitHubCallback(w http.ResponseWriter, r *http.Request) {
	code := r.URL.Query().Get("code")
	if code == "" {
		http.Error(w, `{"error":"No code provided"}`, http.StatusBadRequest)
		return
	}

	token, err := h.githubConfig.Exchange(r.Context(), code)
	if err != nil {
		h.logger.Printf("Failed to exchange code: %v", err)
		http.Error(w, `{"error":"Failed to exchange code"}`, http.StatusInternalServerError)
		return
	}

	client := h.githubConfig.Client(r.Context(), token)
	resp, err := client.Get("https://api.github.com/user")
	if err != nil {
		h.logger.Printf("Failed to get user info: %v", err)
		http.Error(w, `{"error":"Failed to get user info"}`, http.StatusInternalServerError)
		return
	}
	defer resp.Body.Close()

	var userInfo struct {
		ID    int    `json:"id"`
		Email string `json:"email"`
		Name  string `json:"name"`
		Login string `json:"login"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&userInfo); err != nil {
		h.logger.Printf("Failed to decode user info: %v", err)
		http.Error(w, `{"error":"Failed to decode user info"}`, http.StatusInternalServerError)
		return
	}

	// GitHub may omit the email on the user object; fetch it separately.
	if userInfo.Email == "" {
		emailResp, err := client.Get("https://api.github.com/user/emails")
		if err == nil {
			defer emailResp.Body.Close()
			var emails []struct {
				Email   string `json:"email"`
				Primary bool   `json:"primary"`
			}
			if err := json.NewDecoder(emailResp.Body).Decode(&emails); err == nil {
				for _, email := range emails {
					if email.Primary {
						userInfo.Email = email.Email
						break
					}
				}
			}
		}
	}

	if userInfo.Name == "" {
		userInfo.Name = userInfo.Login
	}

	h.completeLogin(w, r, fmt.Sprintf("%d", userInfo.ID), models.ProviderGitHub, userInfo.Email, userInfo.Name)
}

// completeLogin finds or creates the account, opens a session and returns
// the signed-in user as JSON.
func (h *AuthHandler) completeLogin(w http.ResponseWriter, r *http.Request, providerID string, provider models.Provider, email, name string) {
	user, err := h.userService.FindOrCreate(r.Context(), providerID, provider, email, name)
	if err != nil {
		h.logger.Printf("Failed to find or create user: %v", err)
		http.Error(w, `{"error":"Failed to create user"}`, http.StatusInternalServerError)
		return
	}

	sessionID, err := h.sessionStore.GenerateSessionID()
	if err != nil {
		h.logger.Printf("Failed to generate session ID: %v", err)
		http.Error(w, `{"error":"Failed to create session"}`, http.StatusInternalServerError)
		return
	}

	if err := h.sessionStore.Set(r.Context(), sessionID, user.ID); err != nil {
		h.logger.Printf("Failed to store session: %v", err)
		http.Error(w, `{"error":"Failed to store session"}`, http.StatusInternalServerError)
		return
	}

	h.authMiddleware.SetSessionCookie(w, sessionID)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(user)
}

// Logout handles user logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie("session")
	if err == nil {
		h.sessionStore.Delete(r.Context(), cookie.Value)
	}

	h.authMiddleware.ClearSessionCookie(w)

	w.WriteHeader(http.StatusNoContent)
}
