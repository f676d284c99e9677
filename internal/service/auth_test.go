package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/gregroclawski/DataShatter/internal/domain"
	"github.com/gregroclawski/DataShatter/internal/oauth"
	apperrors "github.com/gregroclawski/DataShatter/pkg/errors"
)

// --- Register Tests ---

func TestRegister_Success(t *testing.T) {
	userRepo := new(mockUserRepository)
	sessionRepo := new(mockSessionRepository)
	oauthClient := new(mockOAuthExchanger)
	svc := newTestAuthService(userRepo, sessionRepo, oauthClient)
	ctx := context.Background()

	userRepo.On("Create", ctx, mock.AnythingOfType("*domain.User")).Return(nil)
	sessionRepo.On("Create", ctx, mock.AnythingOfType("*domain.Session")).Return(nil)

	input := RegisterInput{
		Email:    "shadow@example.com",
		Password: "hunter2secure",
		Name:     "Shadow",
	}

	token, session, err := svc.Register(ctx, input)

	require.NoError(t, err)
	require.NotNil(t, token)
	require.NotNil(t, session)

	assert.Equal(t, "bearer", token.TokenType)
	assert.NotEmpty(t, token.AccessToken)

	user := token.User
	require.NotNil(t, user)
	assert.NotEmpty(t, user.ID)
	assert.Equal(t, "shadow@example.com", user.Email)
	assert.Equal(t, "Shadow", user.Name)
	assert.Equal(t, domain.ProviderEmail, user.Provider)
	assert.True(t, user.IsActive)
	assert.NotZero(t, user.CreatedAt)

	// The stored hash verifies against the original password.
	assert.NotEqual(t, "hunter2secure", user.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("hunter2secure")))

	// The bearer token resolves back to the new account.
	claims, err := newTestJWTManager().ValidateToken(token.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.Subject)

	assert.Equal(t, user.ID, session.UserID)
	assert.Len(t, session.SessionToken, 43)
	assert.Empty(t, session.UpstreamToken)
	assert.True(t, session.ExpiresAt.After(session.CreatedAt))

	userRepo.AssertExpectations(t)
	sessionRepo.AssertExpectations(t)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	userRepo := new(mockUserRepository)
	sessionRepo := new(mockSessionRepository)
	oauthClient := new(mockOAuthExchanger)
	svc := newTestAuthService(userRepo, sessionRepo, oauthClient)
	ctx := context.Background()

	userRepo.On("Create", ctx, mock.AnythingOfType("*domain.User")).
		Return(apperrors.AlreadyExists("Email already registered"))

	input := RegisterInput{
		Email:    "shadow@example.com",
		Password: "hunter2secure",
		Name:     "Shadow",
	}

	token, session, err := svc.Register(ctx, input)

	assert.Nil(t, token)
	assert.Nil(t, session)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrAlreadyExists)

	// No session is minted for a failed registration.
	sessionRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	userRepo.AssertExpectations(t)
}

func TestRegister_PasswordTooShort(t *testing.T) {
	userRepo := new(mockUserRepository)
	sessionRepo := new(mockSessionRepository)
	oauthClient := new(mockOAuthExchanger)
	svc := newTestAuthService(userRepo, sessionRepo, oauthClient)
	ctx := context.Background()

	input := RegisterInput{
		Email:    "shadow@example.com",
		Password: "short77",
		Name:     "Shadow",
	}

	token, session, err := svc.Register(ctx, input)

	assert.Nil(t, token)
	assert.Nil(t, session)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)

	// Length is checked before any storage work.
	userRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestRegister_PasswordTooLong(t *testing.T) {
	userRepo := new(mockUserRepository)
	sessionRepo := new(mockSessionRepository)
	oauthClient := new(mockOAuthExchanger)
	svc := newTestAuthService(userRepo, sessionRepo, oauthClient)
	ctx := context.Background()

	input := RegisterInput{
		Email:    "shadow@example.com",
		Password: strings.Repeat("a", 65),
		Name:     "Shadow",
	}

	token, session, err := svc.Register(ctx, input)

	assert.Nil(t, token)
	assert.Nil(t, session)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}

// --- Login Tests ---

func TestLogin_Success(t *testing.T) {
	userRepo := new(mockUserRepository)
	sessionRepo := new(mockSessionRepository)
	oauthClient := new(mockOAuthExchanger)
	svc := newTestAuthService(userRepo, sessionRepo, oauthClient)
	ctx := context.Background()

	existing := activeUser(t)
	userRepo.On("GetByEmail", ctx, "shadow@example.com").Return(existing, nil)
	sessionRepo.On("Create", ctx, mock.AnythingOfType("*domain.Session")).Return(nil)

	token, session, err := svc.Login(ctx, LoginInput{
		Email:    "shadow@example.com",
		Password: "hunter2secure",
	})

	require.NoError(t, err)
	require.NotNil(t, token)
	require.NotNil(t, session)
	assert.Equal(t, "player-123", token.User.ID)
	assert.NotEmpty(t, token.AccessToken)
	assert.Equal(t, "player-123", session.UserID)

	userRepo.AssertExpectations(t)
	sessionRepo.AssertExpectations(t)
}

func TestLogin_UnknownEmail(t *testing.T) {
	userRepo := new(mockUserRepository)
	sessionRepo := new(mockSessionRepository)
	oauthClient := new(mockOAuthExchanger)
	svc := newTestAuthService(userRepo, sessionRepo, oauthClient)
	ctx := context.Background()

	userRepo.On("GetByEmail", ctx, "nobody@example.com").Return(nil, apperrors.ErrNotFound)

	token, session, err := svc.Login(ctx, LoginInput{
		Email:    "nobody@example.com",
		Password: "hunter2secure",
	})

	assert.Nil(t, token)
	assert.Nil(t, session)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "Incorrect email or password", appErr.Message)
}

func TestLogin_WrongPassword(t *testing.T) {
	userRepo := new(mockUserRepository)
	sessionRepo := new(mockSessionRepository)
	oauthClient := new(mockOAuthExchanger)
	svc := newTestAuthService(userRepo, sessionRepo, oauthClient)
	ctx := context.Background()

	existing := activeUser(t)
	userRepo.On("GetByEmail", ctx, "shadow@example.com").Return(existing, nil)

	token, session, err := svc.Login(ctx, LoginInput{
		Email:    "shadow@example.com",
		Password: "not-the-password",
	})

	assert.Nil(t, token)
	assert.Nil(t, session)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "Incorrect email or password", appErr.Message)

	sessionRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestLogin_DisabledAccount(t *testing.T) {
	userRepo := new(mockUserRepository)
	sessionRepo := new(mockSessionRepository)
	oauthClient := new(mockOAuthExchanger)
	svc := newTestAuthService(userRepo, sessionRepo, oauthClient)
	ctx := context.Background()

	existing := activeUser(t)
	existing.IsActive = false
	userRepo.On("GetByEmail", ctx, "shadow@example.com").Return(existing, nil)

	token, session, err := svc.Login(ctx, LoginInput{
		Email:    "shadow@example.com",
		Password: "hunter2secure",
	})

	assert.Nil(t, token)
	assert.Nil(t, session)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "Account is disabled", appErr.Message)
}

func TestLogin_DisabledAccount_WrongPassword(t *testing.T) {
	userRepo := new(mockUserRepository)
	sessionRepo := new(mockSessionRepository)
	oauthClient := new(mockOAuthExchanger)
	svc := newTestAuthService(userRepo, sessionRepo, oauthClient)
	ctx := context.Background()

	existing := activeUser(t)
	existing.IsActive = false
	userRepo.On("GetByEmail", ctx, "shadow@example.com").Return(existing, nil)

	_, _, err := svc.Login(ctx, LoginInput{
		Email:    "shadow@example.com",
		Password: "not-the-password",
	})

	// The password check runs first, so a wrong password never learns
	// whether the account is disabled.
	require.Error(t, err)
	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "Incorrect email or password", appErr.Message)
}

// --- OAuth Login Tests ---

func TestLoginWithOAuthSession_NewUser(t *testing.T) {
	userRepo := new(mockUserRepository)
	sessionRepo := new(mockSessionRepository)
	oauthClient := new(mockOAuthExchanger)
	svc := newTestAuthService(userRepo, sessionRepo, oauthClient)
	ctx := context.Background()

	oauthClient.On("ExchangeSession", ctx, "proxy-session-1").Return(&oauth.SessionData{
		ID:           "google-oauth-id-42",
		Email:        "new@example.com",
		Name:         "New Player",
		Picture:      "https://img.example.com/p.png",
		SessionToken: "proxy-issued-token",
	}, nil)
	userRepo.On("GetByEmail", ctx, "new@example.com").Return(nil, apperrors.ErrNotFound)
	userRepo.On("Create", ctx, mock.AnythingOfType("*domain.User")).Return(nil)
	sessionRepo.On("Create", ctx, mock.AnythingOfType("*domain.Session")).Return(nil)

	token, session, err := svc.LoginWithOAuthSession(ctx, "proxy-session-1")

	require.NoError(t, err)
	require.NotNil(t, token)
	require.NotNil(t, session)

	user := token.User
	assert.Equal(t, "new@example.com", user.Email)
	assert.Equal(t, "New Player", user.Name)
	assert.Equal(t, domain.ProviderGoogle, user.Provider)
	assert.Equal(t, "google-oauth-id-42", user.OAuthID)
	assert.Equal(t, "https://img.example.com/p.png", user.Picture)
	assert.True(t, user.IsActive)
	assert.Empty(t, user.PasswordHash)

	// The account ID is minted locally, not inherited from the provider.
	assert.NotEmpty(t, user.ID)
	assert.NotEqual(t, "google-oauth-id-42", user.ID)

	// The cookie carries a locally minted token; the proxy's token is only
	// recorded alongside it.
	assert.Len(t, session.SessionToken, 43)
	assert.NotEqual(t, "proxy-issued-token", session.SessionToken)
	assert.Equal(t, "proxy-issued-token", session.UpstreamToken)

	userRepo.AssertExpectations(t)
	sessionRepo.AssertExpectations(t)
	oauthClient.AssertExpectations(t)
}

func TestLoginWithOAuthSession_ExistingUser(t *testing.T) {
	userRepo := new(mockUserRepository)
	sessionRepo := new(mockSessionRepository)
	oauthClient := new(mockOAuthExchanger)
	svc := newTestAuthService(userRepo, sessionRepo, oauthClient)
	ctx := context.Background()

	existing := activeUser(t)
	oauthClient.On("ExchangeSession", ctx, "proxy-session-2").Return(&oauth.SessionData{
		ID:           "google-oauth-id-42",
		Email:        existing.Email,
		Name:         "Renamed Elsewhere",
		SessionToken: "proxy-issued-token",
	}, nil)
	userRepo.On("GetByEmail", ctx, existing.Email).Return(existing, nil)
	sessionRepo.On("Create", ctx, mock.AnythingOfType("*domain.Session")).Return(nil)

	token, session, err := svc.LoginWithOAuthSession(ctx, "proxy-session-2")

	require.NoError(t, err)
	require.NotNil(t, session)

	// The existing account logs in untouched: same ID, same name, and its
	// original provider is kept.
	assert.Equal(t, existing.ID, token.User.ID)
	assert.Equal(t, "Shadow", token.User.Name)
	assert.Equal(t, domain.ProviderEmail, token.User.Provider)

	userRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestLoginWithOAuthSession_ExistingInactiveUser(t *testing.T) {
	userRepo := new(mockUserRepository)
	sessionRepo := new(mockSessionRepository)
	oauthClient := new(mockOAuthExchanger)
	svc := newTestAuthService(userRepo, sessionRepo, oauthClient)
	ctx := context.Background()

	existing := activeUser(t)
	existing.IsActive = false
	oauthClient.On("ExchangeSession", ctx, "proxy-session-3").Return(&oauth.SessionData{
		ID:           "google-oauth-id-42",
		Email:        existing.Email,
		SessionToken: "proxy-issued-token",
	}, nil)
	userRepo.On("GetByEmail", ctx, existing.Email).Return(existing, nil)
	sessionRepo.On("Create", ctx, mock.AnythingOfType("*domain.Session")).Return(nil)

	token, _, err := svc.LoginWithOAuthSession(ctx, "proxy-session-3")

	// Unlike password login, the oauth path performs no active check.
	require.NoError(t, err)
	assert.False(t, token.User.IsActive)
}

func TestLoginWithOAuthSession_ExchangeFails(t *testing.T) {
	userRepo := new(mockUserRepository)
	sessionRepo := new(mockSessionRepository)
	oauthClient := new(mockOAuthExchanger)
	svc := newTestAuthService(userRepo, sessionRepo, oauthClient)
	ctx := context.Background()

	oauthClient.On("ExchangeSession", ctx, "bogus").
		Return(nil, apperrors.Unauthorized("oauth proxy returned an error"))

	token, session, err := svc.LoginWithOAuthSession(ctx, "bogus")

	assert.Nil(t, token)
	assert.Nil(t, session)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "Invalid session ID", appErr.Message)

	// No account is provisioned off a failed exchange.
	userRepo.AssertNotCalled(t, "GetByEmail", mock.Anything, mock.Anything)
	userRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestLoginWithOAuthSession_LookupError(t *testing.T) {
	userRepo := new(mockUserRepository)
	sessionRepo := new(mockSessionRepository)
	oauthClient := new(mockOAuthExchanger)
	svc := newTestAuthService(userRepo, sessionRepo, oauthClient)
	ctx := context.Background()

	oauthClient.On("ExchangeSession", ctx, "proxy-session-4").Return(&oauth.SessionData{
		ID:           "google-oauth-id-42",
		Email:        "new@example.com",
		SessionToken: "proxy-issued-token",
	}, nil)
	userRepo.On("GetByEmail", ctx, "new@example.com").Return(nil, errors.New("connection reset"))

	token, session, err := svc.LoginWithOAuthSession(ctx, "proxy-session-4")

	assert.Nil(t, token)
	assert.Nil(t, session)
	require.Error(t, err)

	// Infrastructure failures do not masquerade as a bad session ID.
	assert.NotErrorIs(t, err, apperrors.ErrInvalidInput)
	userRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

// --- Authenticate Tests ---

func TestAuthenticate_SessionWinsOverBearer(t *testing.T) {
	userRepo := new(mockUserRepository)
	sessionRepo := new(mockSessionRepository)
	oauthClient := new(mockOAuthExchanger)
	svc := newTestAuthService(userRepo, sessionRepo, oauthClient)
	ctx := context.Background()

	sessionUser := activeUser(t)
	sessionRepo.On("GetByToken", ctx, "live-session-token").Return(&domain.Session{
		SessionToken: "live-session-token",
		UserID:       sessionUser.ID,
	}, nil)
	userRepo.On("GetByID", ctx, sessionUser.ID).Return(sessionUser, nil)

	bearer, err := newTestJWTManager().GenerateToken("someone-else")
	require.NoError(t, err)

	user, err := svc.Authenticate(ctx, "live-session-token", bearer)

	require.NoError(t, err)
	assert.Equal(t, sessionUser.ID, user.ID)
	// The bearer token was never consulted.
	userRepo.AssertNumberOfCalls(t, "GetByID", 1)
}

func TestAuthenticate_DeadSessionFallsThroughToBearer(t *testing.T) {
	userRepo := new(mockUserRepository)
	sessionRepo := new(mockSessionRepository)
	oauthClient := new(mockOAuthExchanger)
	svc := newTestAuthService(userRepo, sessionRepo, oauthClient)
	ctx := context.Background()

	bearerUser := activeUser(t)
	sessionRepo.On("GetByToken", ctx, "revoked-session-token").Return(nil, apperrors.ErrNotFound)
	userRepo.On("GetByID", ctx, bearerUser.ID).Return(bearerUser, nil)

	bearer, err := newTestJWTManager().GenerateToken(bearerUser.ID)
	require.NoError(t, err)

	user, err := svc.Authenticate(ctx, "revoked-session-token", bearer)

	require.NoError(t, err)
	assert.Equal(t, bearerUser.ID, user.ID)
}

func TestAuthenticate_BearerOnly(t *testing.T) {
	userRepo := new(mockUserRepository)
	sessionRepo := new(mockSessionRepository)
	oauthClient := new(mockOAuthExchanger)
	svc := newTestAuthService(userRepo, sessionRepo, oauthClient)
	ctx := context.Background()

	bearerUser := activeUser(t)
	userRepo.On("GetByID", ctx, bearerUser.ID).Return(bearerUser, nil)

	bearer, err := newTestJWTManager().GenerateToken(bearerUser.ID)
	require.NoError(t, err)

	user, err := svc.Authenticate(ctx, "", bearer)

	require.NoError(t, err)
	assert.Equal(t, bearerUser.ID, user.ID)
	sessionRepo.AssertNotCalled(t, "GetByToken", mock.Anything, mock.Anything)
}

func TestAuthenticate_InactiveUserViaSession(t *testing.T) {
	userRepo := new(mockUserRepository)
	sessionRepo := new(mockSessionRepository)
	oauthClient := new(mockOAuthExchanger)
	svc := newTestAuthService(userRepo, sessionRepo, oauthClient)
	ctx := context.Background()

	disabled := activeUser(t)
	disabled.IsActive = false
	sessionRepo.On("GetByToken", ctx, "live-session-token").Return(&domain.Session{
		SessionToken: "live-session-token",
		UserID:       disabled.ID,
	}, nil)
	userRepo.On("GetByID", ctx, disabled.ID).Return(disabled, nil)

	user, err := svc.Authenticate(ctx, "live-session-token", "")

	// A live session keeps working even after the account is disabled;
	// only new password logins are blocked.
	require.NoError(t, err)
	assert.False(t, user.IsActive)
}

func TestAuthenticate_BearerForDeletedUser(t *testing.T) {
	userRepo := new(mockUserRepository)
	sessionRepo := new(mockSessionRepository)
	oauthClient := new(mockOAuthExchanger)
	svc := newTestAuthService(userRepo, sessionRepo, oauthClient)
	ctx := context.Background()

	userRepo.On("GetByID", ctx, "gone-user").Return(nil, apperrors.ErrNotFound)

	bearer, err := newTestJWTManager().GenerateToken("gone-user")
	require.NoError(t, err)

	user, err := svc.Authenticate(ctx, "", bearer)

	assert.Nil(t, user)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
}

func TestAuthenticate_NoCredentials(t *testing.T) {
	userRepo := new(mockUserRepository)
	sessionRepo := new(mockSessionRepository)
	oauthClient := new(mockOAuthExchanger)
	svc := newTestAuthService(userRepo, sessionRepo, oauthClient)
	ctx := context.Background()

	user, err := svc.Authenticate(ctx, "", "")

	assert.Nil(t, user)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "Could not validate credentials", appErr.Message)

	sessionRepo.AssertNotCalled(t, "GetByToken", mock.Anything, mock.Anything)
	userRepo.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
}

func TestAuthenticate_GarbageBearer(t *testing.T) {
	userRepo := new(mockUserRepository)
	sessionRepo := new(mockSessionRepository)
	oauthClient := new(mockOAuthExchanger)
	svc := newTestAuthService(userRepo, sessionRepo, oauthClient)
	ctx := context.Background()

	user, err := svc.Authenticate(ctx, "", "not-a-jwt")

	assert.Nil(t, user)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
	userRepo.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
}

// --- Me Tests ---

func TestMe_Success(t *testing.T) {
	userRepo := new(mockUserRepository)
	sessionRepo := new(mockSessionRepository)
	oauthClient := new(mockOAuthExchanger)
	svc := newTestAuthService(userRepo, sessionRepo, oauthClient)
	ctx := context.Background()

	expected := activeUser(t)
	userRepo.On("GetByID", ctx, expected.ID).Return(expected, nil)

	user, err := svc.Me(ctx, expected.ID)

	require.NoError(t, err)
	assert.Equal(t, expected, user)
}

func TestMe_DeletedUser(t *testing.T) {
	userRepo := new(mockUserRepository)
	sessionRepo := new(mockSessionRepository)
	oauthClient := new(mockOAuthExchanger)
	svc := newTestAuthService(userRepo, sessionRepo, oauthClient)
	ctx := context.Background()

	userRepo.On("GetByID", ctx, "gone-user").Return(nil, apperrors.ErrNotFound)

	user, err := svc.Me(ctx, "gone-user")

	assert.Nil(t, user)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
}

// --- CheckSession Tests ---

func TestCheckSession_NoCookie(t *testing.T) {
	userRepo := new(mockUserRepository)
	sessionRepo := new(mockSessionRepository)
	oauthClient := new(mockOAuthExchanger)
	svc := newTestAuthService(userRepo, sessionRepo, oauthClient)
	ctx := context.Background()

	user, err := svc.CheckSession(ctx, "")

	require.NoError(t, err)
	assert.Nil(t, user)
	sessionRepo.AssertNotCalled(t, "GetByToken", mock.Anything, mock.Anything)
}

func TestCheckSession_LiveSession(t *testing.T) {
	userRepo := new(mockUserRepository)
	sessionRepo := new(mockSessionRepository)
	oauthClient := new(mockOAuthExchanger)
	svc := newTestAuthService(userRepo, sessionRepo, oauthClient)
	ctx := context.Background()

	expected := activeUser(t)
	sessionRepo.On("GetByToken", ctx, "live-session-token").Return(&domain.Session{
		SessionToken: "live-session-token",
		UserID:       expected.ID,
	}, nil)
	userRepo.On("GetByID", ctx, expected.ID).Return(expected, nil)

	user, err := svc.CheckSession(ctx, "live-session-token")

	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, expected.ID, user.ID)
}

func TestCheckSession_DeadSession(t *testing.T) {
	userRepo := new(mockUserRepository)
	sessionRepo := new(mockSessionRepository)
	oauthClient := new(mockOAuthExchanger)
	svc := newTestAuthService(userRepo, sessionRepo, oauthClient)
	ctx := context.Background()

	sessionRepo.On("GetByToken", ctx, "expired-token").Return(nil, apperrors.ErrNotFound)

	user, err := svc.CheckSession(ctx, "expired-token")

	require.NoError(t, err)
	assert.Nil(t, user)
}

func TestCheckSession_UserGone(t *testing.T) {
	userRepo := new(mockUserRepository)
	sessionRepo := new(mockSessionRepository)
	oauthClient := new(mockOAuthExchanger)
	svc := newTestAuthService(userRepo, sessionRepo, oauthClient)
	ctx := context.Background()

	sessionRepo.On("GetByToken", ctx, "orphan-token").Return(&domain.Session{
		SessionToken: "orphan-token",
		UserID:       "gone-user",
	}, nil)
	userRepo.On("GetByID", ctx, "gone-user").Return(nil, apperrors.ErrNotFound)

	user, err := svc.CheckSession(ctx, "orphan-token")

	require.NoError(t, err)
	assert.Nil(t, user)
}

func TestCheckSession_StorageError(t *testing.T) {
	userRepo := new(mockUserRepository)
	sessionRepo := new(mockSessionRepository)
	oauthClient := new(mockOAuthExchanger)
	svc := newTestAuthService(userRepo, sessionRepo, oauthClient)
	ctx := context.Background()

	sessionRepo.On("GetByToken", ctx, "any-token").Return(nil, errors.New("connection reset"))

	user, err := svc.CheckSession(ctx, "any-token")

	assert.Nil(t, user)
	require.Error(t, err)
}

// --- Logout Tests ---

func TestLogout_RevokesSession(t *testing.T) {
	userRepo := new(mockUserRepository)
	sessionRepo := new(mockSessionRepository)
	oauthClient := new(mockOAuthExchanger)
	svc := newTestAuthService(userRepo, sessionRepo, oauthClient)
	ctx := context.Background()

	sessionRepo.On("DeleteByToken", ctx, "live-session-token").Return(nil)

	err := svc.Logout(ctx, "live-session-token")

	require.NoError(t, err)
	sessionRepo.AssertExpectations(t)
}

func TestLogout_NoCookie(t *testing.T) {
	userRepo := new(mockUserRepository)
	sessionRepo := new(mockSessionRepository)
	oauthClient := new(mockOAuthExchanger)
	svc := newTestAuthService(userRepo, sessionRepo, oauthClient)
	ctx := context.Background()

	err := svc.Logout(ctx, "")

	require.NoError(t, err)
	sessionRepo.AssertNotCalled(t, "DeleteByToken", mock.Anything, mock.Anything)
}

// --- Password Validation Tests ---

func TestValidatePassword_Valid(t *testing.T) {
	tests := []struct {
		name     string
		password string
	}{
		{"exactly 8 chars", "abcdefg1"},
		{"exactly 64 chars", strings.Repeat("a", 64)},
		{"multibyte counted as characters", "пароль78"},
		{"typical", "hunter2secure"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NoError(t, validatePassword(tt.password))
		})
	}
}

func TestValidatePassword_Invalid(t *testing.T) {
	tests := []struct {
		name     string
		password string
	}{
		{"empty", ""},
		{"7 chars", "abcdefg"},
		{"65 chars", strings.Repeat("a", 65)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validatePassword(tt.password)
			require.Error(t, err)
			assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
		})
	}
}
