package app_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"calbuddy/internal/calendar/app"
	"calbuddy/internal/calendar/domain/entities"
	domain "calbuddy/internal/calendar/domain/services"
)

const stateTTL = 10 * time.Minute

type authDeps struct {
	users    *mockUserRepository
	provider *mockProvider
	sessions *mockSessions
	store    *mockCache
}

func newAuth() (*app.AuthUseCase, *authDeps) {
	d := &authDeps{
		users:    new(mockUserRepository),
		provider: new(mockProvider),
		sessions: new(mockSessions),
		store:    new(mockCache),
	}
	return app.NewAuthUseCase(d.users, d.provider, d.sessions, d.store, stateTTL), d
}

func TestBeginLogin(t *testing.T) {
	uc, d := newAuth()

	var state string
	d.store.On("Set", mock.Anything, mock.MatchedBy(func(key string) bool {
		if !strings.HasPrefix(key, "oauth_state:") {
			return false
		}
		state = strings.TrimPrefix(key, "oauth_state:")
		return state != ""
	}), mock.Anything, stateTTL).Return(nil).Once()
	d.provider.On("AuthCodeURL", mock.Anything).Return("https://consent").Once()

	url, err := uc.BeginLogin(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "https://consent", url)
	d.provider.AssertCalled(t, "AuthCodeURL", state)
	d.store.AssertExpectations(t)
}

func TestBeginLogin_StoreFails(t *testing.T) {
	uc, d := newAuth()
	d.store.On("Set", mock.Anything, mock.Anything, mock.Anything, stateTTL).Return(ErrDatabaseOperation).Once()

	_, err := uc.BeginLogin(context.Background())

	require.ErrorIs(t, err, ErrDatabaseOperation)
	d.provider.AssertNotCalled(t, "AuthCodeURL", mock.Anything)
}

func TestCompleteLogin(t *testing.T) {
	profile := &entities.Profile{ProviderID: "g-1", DisplayName: "Ada"}
	user := &entities.User{ID: "u1", GoogleID: "g-1", DisplayName: "Ada"}
	expires := time.Now().Add(24 * time.Hour)

	tests := []struct {
		name    string
		state   string
		setup   func(d *authDeps)
		wantErr error
	}{
		{
			name:  "success",
			state: "s1",
			setup: func(d *authDeps) {
				d.store.On("Take", mock.Anything, "oauth_state:s1").Return("pending", nil).Once()
				d.provider.On("Exchange", mock.Anything, "code").Return(profile, nil).Once()
				d.users.On("FindOrCreateByGoogleID", mock.Anything, profile).Return(user, nil).Once()
				d.sessions.On("Issue", mock.Anything, "u1", "Ada").Return("jwt", expires, nil).Once()
			},
		},
		{
			name:    "empty state",
			state:   "",
			setup:   func(*authDeps) {},
			wantErr: app.ErrInvalidState,
		},
		{
			name:  "unknown or reused state",
			state: "s1",
			setup: func(d *authDeps) {
				d.store.On("Take", mock.Anything, "oauth_state:s1").Return("", nil).Once()
			},
			wantErr: app.ErrInvalidState,
		},
		{
			name:  "provider rejects",
			state: "s1",
			setup: func(d *authDeps) {
				d.store.On("Take", mock.Anything, "oauth_state:s1").Return("pending", nil).Once()
				d.provider.On("Exchange", mock.Anything, "code").Return(nil, domain.ErrProviderRejected).Once()
			},
			wantErr: domain.ErrProviderRejected,
		},
		{
			name:  "user store fails",
			state: "s1",
			setup: func(d *authDeps) {
				d.store.On("Take", mock.Anything, "oauth_state:s1").Return("pending", nil).Once()
				d.provider.On("Exchange", mock.Anything, "code").Return(profile, nil).Once()
				d.users.On("FindOrCreateByGoogleID", mock.Anything, profile).Return(nil, ErrDatabaseOperation).Once()
			},
			wantErr: ErrDatabaseOperation,
		},
		{
			name:  "session issue fails",
			state: "s1",
			setup: func(d *authDeps) {
				d.store.On("Take", mock.Anything, "oauth_state:s1").Return("pending", nil).Once()
				d.provider.On("Exchange", mock.Anything, "code").Return(profile, nil).Once()
				d.users.On("FindOrCreateByGoogleID", mock.Anything, profile).Return(user, nil).Once()
				d.sessions.On("Issue", mock.Anything, "u1", "Ada").
					Return("", time.Time{}, domain.ErrGeneratingSession).Once()
			},
			wantErr: domain.ErrGeneratingSession,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc, d := newAuth()
			tt.setup(d)

			session, err := uc.CompleteLogin(context.Background(), tt.state, "code")

			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, session)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "jwt", session.Token)
			assert.Equal(t, "u1", session.UserID)
			assert.Equal(t, expires, session.ExpiresAt)
			d.store.AssertExpectations(t)
			d.users.AssertExpectations(t)
		})
	}
}

func TestAuthenticate(t *testing.T) {
	claims := &domain.SessionClaims{UserID: "u1", ExpiresAt: time.Now().Add(time.Hour)}

	t.Run("valid", func(t *testing.T) {
		uc, d := newAuth()
		d.sessions.On("Validate", mock.Anything, "tok").Return(claims, nil).Once()
		d.store.On("Get", mock.Anything, mock.MatchedBy(func(k string) bool {
			return strings.HasPrefix(k, "revoked:") && !strings.Contains(k, "tok")
		})).Return("", nil).Once()

		id, err := uc.Authenticate(context.Background(), "tok")

		require.NoError(t, err)
		assert.Equal(t, "u1", id)
	})

	t.Run("empty", func(t *testing.T) {
		uc, _ := newAuth()
		_, err := uc.Authenticate(context.Background(), "")
		assert.ErrorIs(t, err, app.ErrUnauthenticated)
	})

	t.Run("invalid", func(t *testing.T) {
		uc, d := newAuth()
		d.sessions.On("Validate", mock.Anything, "bad").Return(nil, domain.ErrInvalidSession).Once()

		_, err := uc.Authenticate(context.Background(), "bad")

		require.ErrorIs(t, err, domain.ErrInvalidSession)
		d.store.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
	})

	t.Run("revoked", func(t *testing.T) {
		uc, d := newAuth()
		d.sessions.On("Validate", mock.Anything, "tok").Return(claims, nil).Once()
		d.store.On("Get", mock.Anything, mock.Anything).Return("1", nil).Once()

		_, err := uc.Authenticate(context.Background(), "tok")

		assert.ErrorIs(t, err, domain.ErrRevokedSession)
	})

	t.Run("revocation store down", func(t *testing.T) {
		uc, d := newAuth()
		d.sessions.On("Validate", mock.Anything, "tok").Return(claims, nil).Once()
		d.store.On("Get", mock.Anything, mock.Anything).Return("", ErrDatabaseOperation).Once()

		_, err := uc.Authenticate(context.Background(), "tok")

		assert.ErrorIs(t, err, ErrDatabaseOperation)
	})
}

func TestLogout(t *testing.T) {
	t.Run("revokes until expiry", func(t *testing.T) {
		uc, d := newAuth()
		claims := &domain.SessionClaims{UserID: "u1", ExpiresAt: time.Now().Add(time.Hour)}
		d.sessions.On("Validate", mock.Anything, "tok").Return(claims, nil).Once()
		d.store.On("Set", mock.Anything, mock.MatchedBy(func(k string) bool {
			return strings.HasPrefix(k, "revoked:")
		}), "1", mock.MatchedBy(func(ttl time.Duration) bool {
			return ttl > 59*time.Minute && ttl <= time.Hour
		})).Return(nil).Once()

		require.NoError(t, uc.Logout(context.Background(), "tok"))
		d.store.AssertExpectations(t)
	})

	t.Run("invalid token is a no-op", func(t *testing.T) {
		uc, d := newAuth()
		d.sessions.On("Validate", mock.Anything, "bad").Return(nil, domain.ErrExpiredSession).Once()

		require.NoError(t, uc.Logout(context.Background(), "bad"))
		require.NoError(t, uc.Logout(context.Background(), ""))
		d.store.AssertNotCalled(t, "Set", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("store fails", func(t *testing.T) {
		uc, d := newAuth()
		claims := &domain.SessionClaims{UserID: "u1", ExpiresAt: time.Now().Add(time.Hour)}
		d.sessions.On("Validate", mock.Anything, "tok").Return(claims, nil).Once()
		d.store.On("Set", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(ErrDatabaseOperation).Once()

		assert.ErrorIs(t, uc.Logout(context.Background(), "tok"), ErrDatabaseOperation)
	})
}

func TestCurrentUser(t *testing.T) {
	uc, d := newAuth()
	user := &entities.User{ID: "u1", DisplayName: "Ada"}
	d.users.On("FindByID", mock.Anything, "u1").Return(user, nil).Once()

	got, err := uc.CurrentUser(app.WithPrincipal(context.Background(), "u1"))
	require.NoError(t, err)
	assert.Equal(t, user, got)

	_, err = uc.CurrentUser(context.Background())
	assert.ErrorIs(t, err, app.ErrUnauthenticated)
}
