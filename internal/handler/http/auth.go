package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gregroclawski/DataShatter/internal/domain"
	"github.com/gregroclawski/DataShatter/internal/service"
	apperrors "github.com/gregroclawski/DataShatter/pkg/errors"
	"github.com/gregroclawski/DataShatter/pkg/httputil"
	"github.com/gregroclawski/DataShatter/pkg/middleware"
	"github.com/gregroclawski/DataShatter/pkg/validator"
)

// AuthHandler handles HTTP requests for the auth endpoints.
type AuthHandler struct {
	service *service.AuthService
	logger  *slog.Logger
}

// NewAuthHandler creates a new auth HTTP handler.
func NewAuthHandler(svc *service.AuthService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{service: svc, logger: logger}
}

// --- Request DTOs ---

// RegisterRequest is the JSON request body for player registration. Password
// length bounds are enforced in the service, where they are counted in
// characters.
type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
	Name     string `json:"name" validate:"required,min=1,max=100"`
}

// OAuthRequest is the JSON request body for the external OAuth bridge.
type OAuthRequest struct {
	SessionID string `json:"session_id"`
}

// --- Response types ---

// sessionCheckResponse is the body of the session probe. The user field is
// only present when a live session resolved.
type sessionCheckResponse struct {
	Authenticated bool         `json:"authenticated"`
	User          *domain.User `json:"user,omitempty"`
}

// --- Handlers ---

// Register handles POST /api/auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1MB limit

	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteDetail(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := validator.Validate(req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	token, session, err := h.service.Register(r.Context(), service.RegisterInput{
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
	})
	if err != nil {
		// The mobile client expects duplicate registration as a plain 400.
		if errors.Is(err, apperrors.ErrAlreadyExists) {
			httputil.WriteDetail(w, http.StatusBadRequest, "Email already registered")
			return
		}
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	setSessionCookie(w, session.SessionToken)
	httputil.WriteJSON(w, http.StatusCreated, token)
}

// Login handles POST /api/auth/login
//
// The body is form-encoded with the email carried in the username field,
// matching the password-grant shape the client already sends.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1MB limit

	if err := r.ParseForm(); err != nil {
		httputil.WriteDetail(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	username := r.PostFormValue("username")
	password := r.PostFormValue("password")
	if username == "" || password == "" {
		httputil.WriteDetail(w, http.StatusBadRequest, "Username and password are required")
		return
	}

	token, session, err := h.service.Login(r.Context(), service.LoginInput{
		Email:    username,
		Password: password,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	setSessionCookie(w, session.SessionToken)
	httputil.WriteJSON(w, http.StatusOK, token)
}

// OAuthGoogle handles POST /api/auth/oauth/google
func (h *AuthHandler) OAuthGoogle(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1MB limit

	var req OAuthRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteDetail(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.SessionID == "" {
		httputil.WriteDetail(w, http.StatusBadRequest, "Session ID is required")
		return
	}

	token, session, err := h.service.LoginWithOAuthSession(r.Context(), req.SessionID)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	setSessionCookie(w, session.SessionToken)
	httputil.WriteJSON(w, http.StatusOK, token)
}

// Me handles GET /api/auth/me
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, err := h.service.Me(r.Context(), middleware.PlayerIDFromContext(r.Context()))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, user)
}

// Logout handles POST /api/auth/logout
//
// Only the cookie session is revoked; a bearer token issued alongside it
// stays valid until expiry.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Logout(r.Context(), sessionTokenFromRequest(r)); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	clearSessionCookie(w)
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"message": "Successfully logged out"})
}

// SessionCheck handles GET /api/auth/session/check
//
// The probe never fails: storage trouble is logged and reported to the
// client as an unauthenticated session.
func (h *AuthHandler) SessionCheck(w http.ResponseWriter, r *http.Request) {
	user, err := h.service.CheckSession(r.Context(), sessionTokenFromRequest(r))
	if err != nil {
		h.logger.WarnContext(r.Context(), "session check failed",
			slog.String("error", err.Error()),
		)
		httputil.WriteJSON(w, http.StatusOK, sessionCheckResponse{Authenticated: false})
		return
	}

	if user == nil {
		httputil.WriteJSON(w, http.StatusOK, sessionCheckResponse{Authenticated: false})
		return
	}

	httputil.WriteJSON(w, http.StatusOK, sessionCheckResponse{Authenticated: true, User: user})
}
