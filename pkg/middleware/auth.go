package middleware

import (
	"context"
	"errors"
	"net/http"

	apperrors "github.com/gregroclawski/DataShatter/pkg/errors"
	"github.com/gregroclawski/DataShatter/pkg/httputil"
)

type contextKeyType string

const identityKey contextKeyType = "identity"

// Identity describes the authenticated player attached to the request context.
type Identity struct {
	PlayerID string
	Email    string
}

// IdentityResolver inspects a request's credentials and returns the caller's
// identity, or an error when none resolve. The resolver owns the credential
// precedence (session cookie before bearer token).
type IdentityResolver func(r *http.Request) (*Identity, error)

// Auth resolves the caller's identity and injects it into the request context.
// Requests without a resolvable identity are rejected with a 401 failure body
// and a WWW-Authenticate challenge; the detail is the resolver's own message
// when it returns a structured error.
func Auth(resolve IdentityResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, err := resolve(r)
			if err != nil || identity == nil {
				message := "Not authenticated"
				var appErr *apperrors.AppError
				if errors.As(err, &appErr) {
					message = appErr.Message
				}
				httputil.WriteDetail(w, http.StatusUnauthorized, message)
				return
			}

			ctx := WithIdentity(r.Context(), identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// WithIdentity returns a context carrying the given identity.
func WithIdentity(ctx context.Context, identity *Identity) context.Context {
	return context.WithValue(ctx, identityKey, identity)
}

// IdentityFromContext extracts the authenticated identity, or nil.
func IdentityFromContext(ctx context.Context) *Identity {
	if id, ok := ctx.Value(identityKey).(*Identity); ok {
		return id
	}
	return nil
}

// PlayerIDFromContext extracts the authenticated player's ID, or "".
func PlayerIDFromContext(ctx context.Context) string {
	if id := IdentityFromContext(ctx); id != nil {
		return id.PlayerID
	}
	return ""
}
