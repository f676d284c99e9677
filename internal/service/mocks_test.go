package service

import (
	"context"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"

	"github.com/gregroclawski/DataShatter/internal/auth"
	"github.com/gregroclawski/DataShatter/internal/domain"
	"github.com/gregroclawski/DataShatter/internal/event"
	"github.com/gregroclawski/DataShatter/internal/oauth"
	pkgkafka "github.com/gregroclawski/DataShatter/pkg/kafka"
)

// --- Mock User Repository ---

type mockUserRepository struct {
	mock.Mock
}

func (m *mockUserRepository) Create(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *mockUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *mockUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

// --- Mock Session Repository ---

type mockSessionRepository struct {
	mock.Mock
}

func (m *mockSessionRepository) Create(ctx context.Context, session *domain.Session) error {
	args := m.Called(ctx, session)
	return args.Error(0)
}

func (m *mockSessionRepository) GetByToken(ctx context.Context, token string) (*domain.Session, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Session), args.Error(1)
}

func (m *mockSessionRepository) DeleteByToken(ctx context.Context, token string) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

func (m *mockSessionRepository) DeleteExpired(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

// --- Mock Game Save Repository ---

type mockGameSaveRepository struct {
	mock.Mock
}

func (m *mockGameSaveRepository) Upsert(ctx context.Context, save *domain.GameSave) error {
	args := m.Called(ctx, save)
	return args.Error(0)
}

func (m *mockGameSaveRepository) GetByPlayerID(ctx context.Context, playerID string) (*domain.GameSave, error) {
	args := m.Called(ctx, playerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.GameSave), args.Error(1)
}

func (m *mockGameSaveRepository) TopByLevel(ctx context.Context, limit int) ([]domain.LeaderboardEntry, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.LeaderboardEntry), args.Error(1)
}

// --- Mock OAuth Exchanger ---

type mockOAuthExchanger struct {
	mock.Mock
}

func (m *mockOAuthExchanger) ExchangeSession(ctx context.Context, sessionID string) (*oauth.SessionData, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*oauth.SessionData), args.Error(1)
}

// --- Test Helpers ---

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func newTestJWTManager() *auth.JWTManager {
	return auth.NewJWTManager("test-secret-key-for-testing", 7*24*time.Hour)
}

func newTestEventProducer() *event.Producer {
	logger := newTestLogger()
	kafkaCfg := pkgkafka.DefaultProducerConfig([]string{"localhost:9092"})
	kafkaProducer := pkgkafka.NewProducer(kafkaCfg, logger)
	return event.NewProducer(kafkaProducer, logger)
}

func newTestSessionManager(sessionRepo *mockSessionRepository) *SessionManager {
	return NewSessionManager(sessionRepo, 7*24*time.Hour, newTestLogger())
}

func newTestAuthService(
	userRepo *mockUserRepository,
	sessionRepo *mockSessionRepository,
	oauthClient *mockOAuthExchanger,
) *AuthService {
	return NewAuthService(
		userRepo,
		newTestSessionManager(sessionRepo),
		newTestJWTManager(),
		oauthClient,
		newTestEventProducer(),
		newTestLogger(),
	)
}

func newTestSaveService(saveRepo *mockGameSaveRepository) *SaveService {
	return NewSaveService(saveRepo, newTestEventProducer(), newTestLogger())
}

// hashForTest creates a bcrypt hash with cost 4 for fast tests.
func hashForTest(password string) string {
	h, err := bcrypt.GenerateFromPassword([]byte(password), 4)
	if err != nil {
		panic(err)
	}
	return string(h)
}

func activeUser(t *testing.T) *domain.User {
	t.Helper()
	return &domain.User{
		ID:           "player-123",
		Email:        "shadow@example.com",
		Name:         "Shadow",
		PasswordHash: hashForTest("hunter2secure"),
		Provider:     domain.ProviderEmail,
		IsActive:     true,
		CreatedAt:    time.Now().UTC(),
	}
}
