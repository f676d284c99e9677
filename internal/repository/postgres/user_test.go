package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gregroclawski/DataShatter/internal/domain"
	"github.com/gregroclawski/DataShatter/pkg/database"
	apperrors "github.com/gregroclawski/DataShatter/pkg/errors"
)

// --- Test Helpers ---

func newUserRepo(t *testing.T) (*UserRepository, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := database.NewMockPool()
	require.NoError(t, err)
	repo := NewUserRepository(mock)
	return repo, mock
}

func sampleUser() *domain.User {
	return &domain.User{
		ID:           "user-001",
		Email:        "ninja@example.com",
		Name:         "Shadow",
		PasswordHash: "$2a$12$abcdefghijklmnopqrstuv",
		Provider:     domain.ProviderEmail,
		IsActive:     true,
		CreatedAt:    time.Now().UTC().Truncate(time.Microsecond),
	}
}

func userColumns() []string {
	return []string{"id", "email", "name", "password_hash", "provider", "oauth_id", "picture", "is_active", "created_at"}
}

func userRow(u *domain.User) *pgxmock.Rows {
	return pgxmock.NewRows(userColumns()).
		AddRow(u.ID, u.Email, u.Name, u.PasswordHash, u.Provider, u.OAuthID, u.Picture, u.IsActive, u.CreatedAt)
}

// --- Create Tests ---

func TestUserRepository_Create_Success(t *testing.T) {
	repo, mock := newUserRepo(t)

	u := sampleUser()

	mock.ExpectExec("INSERT INTO users").
		WithArgs(u.ID, u.Email, u.Name, u.PasswordHash, u.Provider, u.OAuthID, u.Picture, u.IsActive, u.CreatedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err := repo.Create(context.Background(), u)
	assert.NoError(t, err)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_Create_DuplicateEmail(t *testing.T) {
	repo, mock := newUserRepo(t)

	u := sampleUser()

	mock.ExpectExec("INSERT INTO users").
		WithArgs(u.ID, u.Email, u.Name, u.PasswordHash, u.Provider, u.OAuthID, u.Picture, u.IsActive, u.CreatedAt).
		WillReturnError(errors.New(`ERROR: duplicate key value violates unique constraint "users_email_key" (SQLSTATE 23505)`))

	err := repo.Create(context.Background(), u)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrAlreadyExists)

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "Email already registered", appErr.Message)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_Create_OtherError(t *testing.T) {
	repo, mock := newUserRepo(t)

	u := sampleUser()

	mock.ExpectExec("INSERT INTO users").
		WithArgs(u.ID, u.Email, u.Name, u.PasswordHash, u.Provider, u.OAuthID, u.Picture, u.IsActive, u.CreatedAt).
		WillReturnError(errors.New("connection refused"))

	err := repo.Create(context.Background(), u)
	require.Error(t, err)
	assert.NotErrorIs(t, err, apperrors.ErrAlreadyExists)
	assert.Contains(t, err.Error(), "insert user")

	assert.NoError(t, mock.ExpectationsWereMet())
}

// --- GetByID / GetByEmail Tests ---

func TestUserRepository_GetByID_Success(t *testing.T) {
	repo, mock := newUserRepo(t)

	u := sampleUser()

	mock.ExpectQuery("SELECT (.+) FROM users").
		WithArgs(u.ID).
		WillReturnRows(userRow(u))

	got, err := repo.GetByID(context.Background(), u.ID)
	require.NoError(t, err)
	assert.Equal(t, u, got)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_GetByID_NotFound(t *testing.T) {
	repo, mock := newUserRepo(t)

	mock.ExpectQuery("SELECT (.+) FROM users").
		WithArgs("missing").
		WillReturnRows(pgxmock.NewRows(userColumns()))

	got, err := repo.GetByID(context.Background(), "missing")
	assert.Nil(t, got)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_GetByEmail_Success(t *testing.T) {
	repo, mock := newUserRepo(t)

	u := sampleUser()
	u.Provider = domain.ProviderGoogle
	u.OAuthID = "google-123"
	u.Picture = "https://img.example.com/p.jpg"

	mock.ExpectQuery("SELECT (.+) FROM users").
		WithArgs(u.Email).
		WillReturnRows(userRow(u))

	got, err := repo.GetByEmail(context.Background(), u.Email)
	require.NoError(t, err)
	assert.Equal(t, domain.ProviderGoogle, got.Provider)
	assert.Equal(t, "google-123", got.OAuthID)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_GetByEmail_NotFound(t *testing.T) {
	repo, mock := newUserRepo(t)

	mock.ExpectQuery("SELECT (.+) FROM users").
		WithArgs("nobody@example.com").
		WillReturnRows(pgxmock.NewRows(userColumns()))

	got, err := repo.GetByEmail(context.Background(), "nobody@example.com")
	assert.Nil(t, got)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_GetByEmail_QueryError(t *testing.T) {
	repo, mock := newUserRepo(t)

	mock.ExpectQuery("SELECT (.+) FROM users").
		WithArgs("ninja@example.com").
		WillReturnError(errors.New("connection reset"))

	got, err := repo.GetByEmail(context.Background(), "ninja@example.com")
	assert.Nil(t, got)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "scan user")

	assert.NoError(t, mock.ExpectationsWereMet())
}
