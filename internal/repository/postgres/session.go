package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/gregroclawski/DataShatter/internal/domain"
	"github.com/gregroclawski/DataShatter/pkg/database"
	apperrors "github.com/gregroclawski/DataShatter/pkg/errors"
)

// SessionRepository implements repository.SessionRepository using PostgreSQL.
type SessionRepository struct {
	pool database.DBTX
}

// NewSessionRepository creates a new PostgreSQL-backed session repository.
func NewSessionRepository(pool database.DBTX) *SessionRepository {
	return &SessionRepository{pool: pool}
}

// Create stores a new session.
func (r *SessionRepository) Create(ctx context.Context, s *domain.Session) error {
	query := `
		INSERT INTO sessions (session_token, user_id, upstream_token, created_at, expires_at)
		VALUES ($1, $2, NULLIF($3, ''), $4, $5)`

	_, err := r.pool.Exec(ctx, query,
		s.SessionToken,
		s.UserID,
		s.UpstreamToken,
		s.CreatedAt,
		s.ExpiresAt,
	)
	if err != nil {
		return fmt.Errorf("insert session: %w", err)
	}

	return nil
}

// GetByToken retrieves an unexpired session by its token. Sessions past
// their expiry are filtered out here and left for the cleanup sweep.
func (r *SessionRepository) GetByToken(ctx context.Context, token string) (*domain.Session, error) {
	query := `
		SELECT session_token, user_id, COALESCE(upstream_token, ''), created_at, expires_at
		FROM sessions
		WHERE session_token = $1 AND expires_at > NOW()`

	var s domain.Session
	err := r.pool.QueryRow(ctx, query, token).Scan(
		&s.SessionToken,
		&s.UserID,
		&s.UpstreamToken,
		&s.CreatedAt,
		&s.ExpiresAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("scan session: %w", err)
	}

	return &s, nil
}

// DeleteByToken removes a session. Unknown tokens are ignored so repeated
// logouts succeed.
func (r *SessionRepository) DeleteByToken(ctx context.Context, token string) error {
	query := `DELETE FROM sessions WHERE session_token = $1`

	if _, err := r.pool.Exec(ctx, query, token); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}

	return nil
}

// DeleteExpired removes all sessions past their expiry and reports how many
// were deleted.
func (r *SessionRepository) DeleteExpired(ctx context.Context) (int64, error) {
	query := `DELETE FROM sessions WHERE expires_at <= NOW()`

	ct, err := r.pool.Exec(ctx, query)
	if err != nil {
		return 0, fmt.Errorf("delete expired sessions: %w", err)
	}

	return ct.RowsAffected(), nil
}
