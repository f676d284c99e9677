package repository

import (
	"context"

	"github.com/gregroclawski/DataShatter/internal/domain"
)

// UserRepository defines the interface for player account persistence.
type UserRepository interface {
	// Create inserts a new user. A duplicate email yields an
	// already-exists error from the unique index, never a silent overwrite.
	Create(ctx context.Context, user *domain.User) error

	// GetByID retrieves a user by their unique identifier.
	GetByID(ctx context.Context, id string) (*domain.User, error)

	// GetByEmail retrieves a user by their email address.
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}

// SessionRepository defines the interface for cookie session persistence.
type SessionRepository interface {
	// Create stores a new session.
	Create(ctx context.Context, session *domain.Session) error

	// GetByToken retrieves an unexpired session by its token. Expired
	// sessions are treated as absent; removing them is the reaper's job.
	GetByToken(ctx context.Context, token string) (*domain.Session, error)

	// DeleteByToken removes a session. Deleting an absent token is not an
	// error, so logout stays idempotent.
	DeleteByToken(ctx context.Context, token string) error

	// DeleteExpired removes all sessions past their expiry and reports how
	// many were deleted.
	DeleteExpired(ctx context.Context) (int64, error)
}

// GameSaveRepository defines the interface for game save persistence.
type GameSaveRepository interface {
	// Upsert creates or replaces the single save slot of a player. On
	// overwrite the original save ID is preserved and written back to
	// save.ID.
	Upsert(ctx context.Context, save *domain.GameSave) error

	// GetByPlayerID retrieves a player's save.
	GetByPlayerID(ctx context.Context, playerID string) (*domain.GameSave, error)

	// TopByLevel returns up to limit leaderboard entries ordered by level,
	// then experience, both descending.
	TopByLevel(ctx context.Context, limit int) ([]domain.LeaderboardEntry, error)
}
