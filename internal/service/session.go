package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/gregroclawski/DataShatter/internal/auth"
	"github.com/gregroclawski/DataShatter/internal/domain"
	"github.com/gregroclawski/DataShatter/internal/repository"
)

// SessionManager owns the lifecycle of cookie sessions: minting tokens,
// resolving them back to sessions, revoking on logout and sweeping expired
// rows.
type SessionManager struct {
	sessions repository.SessionRepository
	ttl      time.Duration
	logger   *slog.Logger
}

// NewSessionManager creates a session manager. ttl is the fixed lifetime of
// every session; sessions are not renewed on use.
func NewSessionManager(sessions repository.SessionRepository, ttl time.Duration, logger *slog.Logger) *SessionManager {
	return &SessionManager{
		sessions: sessions,
		ttl:      ttl,
		logger:   logger,
	}
}

// Create mints a new session for the user with a locally generated token.
func (m *SessionManager) Create(ctx context.Context, userID string) (*domain.Session, error) {
	return m.CreateWithUpstream(ctx, userID, "")
}

// CreateWithUpstream mints a new session and records the token an upstream
// identity provider issued for the same login. The local token is always
// freshly generated; the upstream token is audit metadata and never
// authenticates anything here.
func (m *SessionManager) CreateWithUpstream(ctx context.Context, userID, upstreamToken string) (*domain.Session, error) {
	token, err := auth.NewSessionToken()
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	now := time.Now().UTC()
	session := &domain.Session{
		SessionToken:  token,
		UserID:        userID,
		UpstreamToken: upstreamToken,
		CreatedAt:     now,
		ExpiresAt:     now.Add(m.ttl),
	}

	if err := m.sessions.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("store session: %w", err)
	}

	return session, nil
}

// Resolve returns the unexpired session for the given token, or a not-found
// error when the token is unknown or past its expiry.
func (m *SessionManager) Resolve(ctx context.Context, token string) (*domain.Session, error) {
	session, err := m.sessions.GetByToken(ctx, token)
	if err != nil {
		return nil, err
	}
	return session, nil
}

// Revoke deletes the session for the given token. Revoking an unknown or
// already-revoked token succeeds, so logout can be retried safely.
func (m *SessionManager) Revoke(ctx context.Context, token string) error {
	if err := m.sessions.DeleteByToken(ctx, token); err != nil {
		return fmt.Errorf("revoke session: %w", err)
	}
	return nil
}

// CleanupExpired deletes all sessions past their expiry and returns how many
// were removed. Expired sessions are already invisible to Resolve; this only
// reclaims storage.
func (m *SessionManager) CleanupExpired(ctx context.Context) (int64, error) {
	count, err := m.sessions.DeleteExpired(ctx)
	if err != nil {
		return 0, fmt.Errorf("cleanup expired sessions: %w", err)
	}

	if count > 0 {
		m.logger.InfoContext(ctx, "expired sessions removed",
			slog.Int64("count", count),
		)
	}

	return count, nil
}
