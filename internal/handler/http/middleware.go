package http

import (
	"net/http"
	"strings"

	"github.com/gregroclawski/DataShatter/internal/service"
	"github.com/gregroclawski/DataShatter/pkg/middleware"
)

// Session cookie contract shared with the mobile client. SameSite=None with
// Secure lets the cookie travel on the app's cross-origin requests.
const (
	sessionCookieName   = "session_token"
	sessionCookieMaxAge = 7 * 24 * 60 * 60 // 7 days
)

// setSessionCookie attaches a fresh session cookie to the response.
func setSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   sessionCookieMaxAge,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteNoneMode,
	})
}

// clearSessionCookie expires the session cookie on the client.
func clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteNoneMode,
	})
}

// sessionTokenFromRequest returns the session cookie value, or "".
func sessionTokenFromRequest(r *http.Request) string {
	cookie, err := r.Cookie(sessionCookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}

// bearerTokenFromRequest returns the token from a "Bearer <token>"
// Authorization header, or "".
func bearerTokenFromRequest(r *http.Request) string {
	token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
	if !ok {
		return ""
	}
	return token
}

// NewIdentityResolver bridges the auth service into the middleware's resolver,
// reading both credential sources off the request. Credential precedence
// (session cookie before bearer) lives in the service.
func NewIdentityResolver(authService *service.AuthService) middleware.IdentityResolver {
	return func(r *http.Request) (*middleware.Identity, error) {
		user, err := authService.Authenticate(r.Context(), sessionTokenFromRequest(r), bearerTokenFromRequest(r))
		if err != nil {
			return nil, err
		}
		return &middleware.Identity{PlayerID: user.ID, Email: user.Email}, nil
	}
}
