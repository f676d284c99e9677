package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/gregroclawski/DataShatter/internal/auth"
	"github.com/gregroclawski/DataShatter/internal/domain"
	"github.com/gregroclawski/DataShatter/internal/event"
	"github.com/gregroclawski/DataShatter/internal/oauth"
	"github.com/gregroclawski/DataShatter/internal/repository"
	apperrors "github.com/gregroclawski/DataShatter/pkg/errors"
)

// Password length bounds, counted in characters.
const (
	minPasswordLength = 8
	maxPasswordLength = 64
)

// credentialsMessage is the one detail every failed credential resolution
// reports. Callers cannot probe which part of a login attempt was wrong.
const credentialsMessage = "Could not validate credentials"

// OAuthExchanger resolves an OAuth proxy session ID into a user profile.
type OAuthExchanger interface {
	ExchangeSession(ctx context.Context, sessionID string) (*oauth.SessionData, error)
}

// AuthService implements registration, login, OAuth login and credential
// resolution.
type AuthService struct {
	users    repository.UserRepository
	sessions *SessionManager
	jwt      *auth.JWTManager
	oauth    OAuthExchanger
	producer *event.Producer
	logger   *slog.Logger
}

// NewAuthService creates a new auth service.
func NewAuthService(
	users repository.UserRepository,
	sessions *SessionManager,
	jwt *auth.JWTManager,
	oauthClient OAuthExchanger,
	producer *event.Producer,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		users:    users,
		sessions: sessions,
		jwt:      jwt,
		oauth:    oauthClient,
		producer: producer,
		logger:   logger,
	}
}

// RegisterInput holds the parameters for registering a new player account.
type RegisterInput struct {
	Email    string
	Password string
	Name     string
}

// LoginInput holds the parameters for password login.
type LoginInput struct {
	Email    string
	Password string
}

// Register creates a new email/password account and logs it in: the returned
// token carries the bearer credential and public user, the returned session
// backs the cookie. Duplicate emails surface from the storage layer's unique
// index as an already-exists error.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*domain.Token, *domain.Session, error) {
	if err := validatePassword(input.Password); err != nil {
		return nil, nil, err
	}

	hashedPassword, err := auth.HashPassword(input.Password)
	if err != nil {
		return nil, nil, fmt.Errorf("hash password: %w", err)
	}

	user := &domain.User{
		ID:           uuid.New().String(),
		Email:        input.Email,
		Name:         input.Name,
		PasswordHash: hashedPassword,
		Provider:     domain.ProviderEmail,
		IsActive:     true,
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, nil, fmt.Errorf("create user: %w", err)
	}

	token, session, err := s.issueCredentials(ctx, user, "")
	if err != nil {
		return nil, nil, err
	}

	// Publish registration event (non-blocking on failure).
	if err := s.producer.PublishPlayerRegistered(ctx, user); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish player.registered event",
			slog.String("user_id", user.ID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "player registered",
		slog.String("user_id", user.ID),
		slog.String("email", user.Email),
	)

	return token, session, nil
}

// Login authenticates an email/password pair. Unknown emails and wrong
// passwords share one error message; the password check runs before the
// active check, so a disabled account only reveals itself to someone holding
// the right password.
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*domain.Token, *domain.Session, error) {
	user, err := s.users.GetByEmail(ctx, input.Email)
	if err != nil {
		return nil, nil, apperrors.Unauthorized("Incorrect email or password")
	}

	if !auth.VerifyPassword(input.Password, user.PasswordHash) {
		return nil, nil, apperrors.Unauthorized("Incorrect email or password")
	}

	if !user.IsActive {
		return nil, nil, apperrors.Unauthorized("Account is disabled")
	}

	token, session, err := s.issueCredentials(ctx, user, "")
	if err != nil {
		return nil, nil, err
	}

	if err := s.producer.PublishPlayerLoggedIn(ctx, user); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish player.logged_in event",
			slog.String("user_id", user.ID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "player logged in",
		slog.String("user_id", user.ID),
		slog.String("email", user.Email),
	)

	return token, session, nil
}

// LoginWithOAuthSession exchanges an OAuth proxy session ID for local
// credentials, provisioning an account on first login. Every exchange
// failure collapses into one invalid-session error and no account is
// created. The session cookie always carries a locally minted token; the
// proxy's own token is stored as audit metadata only.
func (s *AuthService) LoginWithOAuthSession(ctx context.Context, sessionID string) (*domain.Token, *domain.Session, error) {
	data, err := s.oauth.ExchangeSession(ctx, sessionID)
	if err != nil {
		s.logger.WarnContext(ctx, "oauth session exchange failed",
			slog.String("error", err.Error()),
		)
		return nil, nil, apperrors.InvalidInput("Invalid session ID")
	}

	user, err := s.users.GetByEmail(ctx, data.Email)
	switch {
	case err == nil:
		// Existing account logs in as-is, whatever its original provider.
	case errors.Is(err, apperrors.ErrNotFound):
		user = &domain.User{
			ID:        uuid.New().String(),
			Email:     data.Email,
			Name:      data.Name,
			Provider:  domain.ProviderGoogle,
			OAuthID:   data.ID,
			Picture:   data.Picture,
			IsActive:  true,
			CreatedAt: time.Now().UTC(),
		}
		if err := s.users.Create(ctx, user); err != nil {
			return nil, nil, fmt.Errorf("create oauth user: %w", err)
		}

		if err := s.producer.PublishPlayerRegistered(ctx, user); err != nil {
			s.logger.ErrorContext(ctx, "failed to publish player.registered event",
				slog.String("user_id", user.ID),
				slog.String("error", err.Error()),
			)
		}

		s.logger.InfoContext(ctx, "player registered via oauth",
			slog.String("user_id", user.ID),
			slog.String("email", user.Email),
		)
	default:
		return nil, nil, fmt.Errorf("lookup oauth user: %w", err)
	}

	token, session, err := s.issueCredentials(ctx, user, data.SessionToken)
	if err != nil {
		return nil, nil, err
	}

	if err := s.producer.PublishPlayerLoggedIn(ctx, user); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish player.logged_in event",
			slog.String("user_id", user.ID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "player logged in via oauth",
		slog.String("user_id", user.ID),
		slog.String("email", user.Email),
	)

	return token, session, nil
}

// Authenticate resolves a request's credentials into a user. The session
// cookie is consulted first; a live session wins even when a bearer token is
// also present, and notably even when the account has since been disabled.
// If the session path yields nothing, the bearer token is tried. Both paths
// failing collapses into one unauthorized error.
func (s *AuthService) Authenticate(ctx context.Context, sessionToken, bearerToken string) (*domain.User, error) {
	if sessionToken != "" {
		if session, err := s.sessions.Resolve(ctx, sessionToken); err == nil {
			if user, err := s.users.GetByID(ctx, session.UserID); err == nil {
				return user, nil
			}
		}
	}

	if bearerToken != "" {
		if claims, err := s.jwt.ValidateToken(bearerToken); err == nil {
			if user, err := s.users.GetByID(ctx, claims.Subject); err == nil {
				return user, nil
			}
		}
	}

	return nil, apperrors.Unauthorized(credentialsMessage)
}

// Me returns the account behind a resolved player ID.
func (s *AuthService) Me(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.Unauthorized(credentialsMessage)
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}

// CheckSession resolves the session cookie into a user, or (nil, nil) when
// there is no live session. Only the cookie is consulted; bearer tokens do
// not count as a session.
func (s *AuthService) CheckSession(ctx context.Context, sessionToken string) (*domain.User, error) {
	if sessionToken == "" {
		return nil, nil
	}

	session, err := s.sessions.Resolve(ctx, sessionToken)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("resolve session: %w", err)
	}

	user, err := s.users.GetByID(ctx, session.UserID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get session user: %w", err)
	}

	return user, nil
}

// Logout revokes the session behind the given cookie token. The bearer token
// issued alongside it is stateless and stays valid until it expires; only
// the cookie session dies here. Logging out without a cookie, or twice, is
// fine.
func (s *AuthService) Logout(ctx context.Context, sessionToken string) error {
	if sessionToken == "" {
		return nil
	}

	if err := s.sessions.Revoke(ctx, sessionToken); err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "player logged out")
	return nil
}

// issueCredentials mints the bearer token and cookie session for a login.
func (s *AuthService) issueCredentials(ctx context.Context, user *domain.User, upstreamToken string) (*domain.Token, *domain.Session, error) {
	accessToken, err := s.jwt.GenerateToken(user.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("generate access token: %w", err)
	}

	session, err := s.sessions.CreateWithUpstream(ctx, user.ID, upstreamToken)
	if err != nil {
		return nil, nil, err
	}

	token := &domain.Token{
		AccessToken: accessToken,
		TokenType:   "bearer",
		User:        user,
	}

	return token, session, nil
}

// validatePassword enforces the length bounds, counted in characters rather
// than bytes so multibyte passwords are measured the way users type them.
func validatePassword(password string) error {
	if n := utf8.RuneCountInString(password); n < minPasswordLength || n > maxPasswordLength {
		return apperrors.InvalidInput("Password must be between 8 and 64 characters")
	}
	return nil
}
