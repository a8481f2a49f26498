package crm_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	crm "github.com/goliatone/go-crm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeUsers is an in memory Users store for provider and authenticator tests
type fakeUsers struct {
	byEmail map[string]*crm.User
}

func newFakeUsers(records ...*crm.User) *fakeUsers {
	s := &fakeUsers{byEmail: map[string]*crm.User{}}
	for _, u := range records {
		s.byEmail[u.Email] = u
	}
	return s
}

func (s *fakeUsers) GetByEmail(ctx context.Context, email string) (*crm.User, error) {
	if u, ok := s.byEmail[email]; ok {
		return u, nil
	}
	return nil, crm.ErrIdentityNotFound
}

func (s *fakeUsers) Create(ctx context.Context, user *crm.User) (*crm.User, error) {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	s.byEmail[user.Email] = user
	return user, nil
}

func (s *fakeUsers) GetOrCreate(ctx context.Context, user *crm.User) (*crm.User, error) {
	if u, ok := s.byEmail[user.Email]; ok {
		return u, nil
	}
	return s.Create(ctx, user)
}

func testConfig() *crm.AppConfig {
	return &crm.AppConfig{
		Environment:     "development",
		SigningKey:      "test-signing-key",
		SigningMethod:   "HS256",
		TokenExpiration: 168,
		ContextKey:      "session",
		CookieName:      "token",
		TokenLookup:     "header:Authorization,cookie:token",
		AuthScheme:      "Bearer",
	}
}

func seedUser(t *testing.T, email, password string) *crm.User {
	t.Helper()

	hash, err := crm.HashPassword(password)
	require.NoError(t, err)

	return &crm.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: hash,
	}
}

func TestVerifyIdentity(t *testing.T) {
	user := seedUser(t, "admin@example.com", "let-me-in")
	provider := crm.NewUserProvider(newFakeUsers(user))

	t.Run("valid credentials", func(t *testing.T) {
		identity, err := provider.VerifyIdentity(context.Background(), "admin@example.com", "let-me-in")
		require.NoError(t, err)
		assert.Equal(t, user.ID.String(), identity.ID())
		assert.Equal(t, user.Email, identity.Email())
	})

	t.Run("wrong password", func(t *testing.T) {
		identity, err := provider.VerifyIdentity(context.Background(), "admin@example.com", "not-it")
		assert.Nil(t, identity)
		assert.ErrorIs(t, err, crm.ErrMismatchedHashAndPassword)
	})

	t.Run("unknown email collapses to the same error", func(t *testing.T) {
		identity, err := provider.VerifyIdentity(context.Background(), "ghost@example.com", "let-me-in")
		assert.Nil(t, identity)
		assert.ErrorIs(t, err, crm.ErrMismatchedHashAndPassword)
	})
}

func TestFindIdentityByIdentifier(t *testing.T) {
	user := seedUser(t, "admin@example.com", "let-me-in")
	provider := crm.NewUserProvider(newFakeUsers(user))

	identity, err := provider.FindIdentityByIdentifier(context.Background(), "admin@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.Email, identity.Email())

	_, err = provider.FindIdentityByIdentifier(context.Background(), "ghost@example.com")
	assert.ErrorIs(t, err, crm.ErrIdentityNotFound)
}

func TestLogin(t *testing.T) {
	user := seedUser(t, "admin@example.com", "let-me-in")
	provider := crm.NewUserProvider(newFakeUsers(user))
	auther := crm.NewAuthenticator(provider, testConfig())

	t.Run("success mints a verifiable token", func(t *testing.T) {
		token, identity, err := auther.Login(context.Background(), "admin@example.com", "let-me-in")
		require.NoError(t, err)
		require.NotEmpty(t, token)
		assert.Equal(t, user.Email, identity.Email())

		claims, err := auther.TokenService().Validate(token)
		require.NoError(t, err)
		assert.Equal(t, user.ID.String(), claims.UserID())
		assert.Equal(t, user.Email, claims.Email())
	})

	t.Run("failures are indistinguishable", func(t *testing.T) {
		_, _, badPassword := auther.Login(context.Background(), "admin@example.com", "not-it")
		_, _, badEmail := auther.Login(context.Background(), "ghost@example.com", "let-me-in")

		assert.ErrorIs(t, badPassword, crm.ErrInvalidCredentials)
		assert.ErrorIs(t, badEmail, crm.ErrInvalidCredentials)
		assert.Equal(t, badPassword.Error(), badEmail.Error())
	})

	t.Run("provider errors do not leak", func(t *testing.T) {
		failing := crm.NewUserProvider(failingUsers{})
		broken := crm.NewAuthenticator(failing, testConfig())

		_, _, err := broken.Login(context.Background(), "admin@example.com", "let-me-in")
		assert.ErrorIs(t, err, crm.ErrInvalidCredentials)
	})
}

// recordingLogger captures formatted log lines
type recordingLogger struct {
	lines []string
}

func (l *recordingLogger) Debug(format string, args ...any) { l.record(format, args...) }
func (l *recordingLogger) Info(format string, args ...any)  { l.record(format, args...) }
func (l *recordingLogger) Error(format string, args ...any) { l.record(format, args...) }

func (l *recordingLogger) record(format string, args ...any) {
	l.lines = append(l.lines, fmt.Sprintf(format, args...))
}

func TestLoginLogsFormatCleanly(t *testing.T) {
	user := seedUser(t, "admin@example.com", "let-me-in")
	provider := crm.NewUserProvider(newFakeUsers(user))

	logger := &recordingLogger{}
	auther := crm.NewAuthenticator(provider, testConfig()).WithLogger(logger)

	_, _, err := auther.Login(context.Background(), "admin@example.com", "not-it")
	require.ErrorIs(t, err, crm.ErrInvalidCredentials)

	require.NotEmpty(t, logger.lines)
	for _, line := range logger.lines {
		// every call site passes format verbs, not dangling arguments
		assert.NotContains(t, line, "%!(EXTRA")
	}
	assert.Contains(t, logger.lines[0], crm.ErrMismatchedHashAndPassword.Error())
}

// failingUsers simulates a store outage
type failingUsers struct{}

func (failingUsers) GetByEmail(context.Context, string) (*crm.User, error) {
	return nil, errors.New("connection refused")
}

func (failingUsers) Create(context.Context, *crm.User) (*crm.User, error) {
	return nil, errors.New("connection refused")
}

func (failingUsers) GetOrCreate(context.Context, *crm.User) (*crm.User, error) {
	return nil, errors.New("connection refused")
}
