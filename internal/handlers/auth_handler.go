package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"eggadventure/internal/game"
	"eggadventure/internal/models"
	"eggadventure/internal/security"
	"eggadventure/internal/service"
	"eggadventure/internal/validation"
)

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	authService          *service.AuthService
	emailService         *service.EmailService
	manager              *game.Manager
	googleOAuth          *GoogleOAuth
	oauthRedirectBaseURL string
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *service.AuthService, emailService *service.EmailService, manager *game.Manager, googleOAuth *GoogleOAuth, oauthRedirectBaseURL string) *AuthHandler {
	return &AuthHandler{
		authService:          authService,
		emailService:         emailService,
		manager:              manager,
		googleOAuth:          googleOAuth,
		oauthRedirectBaseURL: oauthRedirectBaseURL,
	}
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register creates an email/password account and signs it in
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, ErrInvalidRequestBody, "", nil)
		return
	}

	user, err := h.authService.Register(r.Context(), req.Email, req.Password)
	if err != nil {
		var valErr validation.ValidationError
		switch {
		case errors.As(err, &valErr):
			respondWithError(w, http.StatusBadRequest, valErr.Error(), "", nil)
		case errors.Is(err, service.ErrEmailTaken):
			respondWithError(w, http.StatusConflict, "Email already registered", "", nil)
		default:
			respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "Registration failed", err)
		}
		return
	}

	if h.emailService != nil && h.emailService.IsEnabled() {
		go func() {
			if err := h.emailService.SendWelcomeEmail(context.Background(), user.Email); err != nil {
				log.Printf("Failed to send welcome email to %s: %v", user.Email, err)
			}
		}()
	}

	session, _, err := h.authService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "Post-registration login failed", err)
		return
	}

	h.signIn(w, r, session, user)
}

// Login authenticates an email/password account
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, ErrInvalidRequestBody, "", nil)
		return
	}

	session, user, err := h.authService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			respondWithError(w, http.StatusUnauthorized, "Invalid email or password", "", nil)
			return
		}
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "Login failed", err)
		return
	}

	h.signIn(w, r, session, user)
}

// LoginAnonymous creates a guest account and signs it in
func (h *AuthHandler) LoginAnonymous(w http.ResponseWriter, r *http.Request) {
	session, user, err := h.authService.LoginAnonymous(r.Context())
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "Anonymous login failed", err)
		return
	}

	h.signIn(w, r, session, user)
}

// Logout invalidates the session and releases the user's game state
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(SessionCookieName); err == nil {
		if user, err := h.authService.ValidateSession(r.Context(), cookie.Value); err == nil {
			h.manager.Release(user.ID)
		}
		_ = h.authService.Logout(r.Context(), cookie.Value)
	}

	http.SetCookie(w, security.CreateDeleteCookie(r, SessionCookieName))
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// Me returns the signed-in account
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	if user == nil {
		respondWithError(w, http.StatusUnauthorized, ErrUnauthorized, "", nil)
		return
	}
	writeJSON(w, http.StatusOK, newUserView(user))
}

func (h *AuthHandler) signIn(w http.ResponseWriter, r *http.Request, session *models.Session, user *models.User) {
	http.SetCookie(w, security.CreateSessionCookie(r, SessionCookieName, session.ID, session.ExpiresAt))
	writeJSON(w, http.StatusOK, newUserView(user))
}
