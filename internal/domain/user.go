package domain

import (
	"time"
)

// User represents a registered player account. PasswordHash, OAuthID and
// Picture are storage-only fields and never appear in API responses.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"-"`
	Provider     string    `json:"provider"`
	OAuthID      string    `json:"-"`
	Picture      string    `json:"-"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
}

// Session is a server-side login session keyed by an opaque token. The token
// is handed to clients in the session_token cookie. UpstreamToken records the
// token the OAuth proxy issued, when the session originated there; it is kept
// for audit only and never used for authentication.
type Session struct {
	SessionToken  string    `json:"session_token"`
	UserID        string    `json:"user_id"`
	UpstreamToken string    `json:"-"`
	CreatedAt     time.Time `json:"created_at"`
	ExpiresAt     time.Time `json:"expires_at"`
}

// Token is the credential payload returned by register, login and the OAuth
// exchange.
type Token struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	User        *User  `json:"user"`
}
