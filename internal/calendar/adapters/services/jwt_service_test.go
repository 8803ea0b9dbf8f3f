package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"calbuddy/internal/calendar/adapters/services"
	domain "calbuddy/internal/calendar/domain/services"
)

const (
	testSecret = "0123456789abcdef0123456789abcdef"
	testUserID = "7f5c2a8e-6c52-4c1b-9a4e-2f4a0b0f6e11"
)

func testConfig() domain.SessionConfig {
	return domain.SessionConfig{
		SecretKey: []byte(testSecret),
		TTL:       24 * time.Hour,
		Issuer:    "calendar-buddy",
	}
}

func TestIssueAndValidate(t *testing.T) {
	ctx := context.Background()
	svc := services.NewSessionJWT(testConfig())

	token, expiresAt, err := svc.Issue(ctx, testUserID, "Ann Lee")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.WithinDuration(t, time.Now().Add(24*time.Hour), expiresAt, 5*time.Second)

	claims, err := svc.Validate(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, testUserID, claims.UserID)
	assert.Equal(t, "Ann Lee", claims.DisplayName)
	assert.WithinDuration(t, expiresAt, claims.ExpiresAt, time.Second)
}

func TestIssueRejectsBadInput(t *testing.T) {
	ctx := context.Background()

	_, _, err := services.NewSessionJWT(domain.SessionConfig{TTL: time.Hour}).Issue(ctx, testUserID, "")
	assert.ErrorIs(t, err, domain.ErrGeneratingSession)

	_, _, err = services.NewSessionJWT(testConfig()).Issue(ctx, "", "")
	assert.ErrorIs(t, err, domain.ErrGeneratingSession)
}

func TestValidateExpired(t *testing.T) {
	ctx := context.Background()
	issuedAt := time.Now().Add(-48 * time.Hour)

	issuer := services.NewSessionJWTWithClock(testConfig(), func() time.Time { return issuedAt })
	token, _, err := issuer.Issue(ctx, testUserID, "")
	require.NoError(t, err)

	_, err = services.NewSessionJWT(testConfig()).Validate(ctx, token)

	assert.ErrorIs(t, err, domain.ErrExpiredSession)
}

func TestValidateRejects(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig()
	svc := services.NewSessionJWT(cfg)

	otherSecret := cfg
	otherSecret.SecretKey = []byte("another-secret-another-secret-xx")
	foreign, _, err := services.NewSessionJWT(otherSecret).Issue(ctx, testUserID, "")
	require.NoError(t, err)

	otherIssuer := cfg
	otherIssuer.Issuer = "someone-else"
	wrongIssuer, _, err := services.NewSessionJWT(otherIssuer).Issue(ctx, testUserID, "")
	require.NoError(t, err)

	noneToken, err := jwt.NewWithClaims(jwt.SigningMethodNone, services.Claims{
		UserID: testUserID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    cfg.Issuer,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	emptyUser, err := jwt.NewWithClaims(jwt.SigningMethodHS256, services.Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    cfg.Issuer,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}).SignedString(cfg.SecretKey)
	require.NoError(t, err)

	tokens := map[string]string{
		"garbage":         "not-a-jwt",
		"empty":           "",
		"foreign secret":  foreign,
		"wrong issuer":    wrongIssuer,
		"alg none":        noneToken,
		"missing user id": emptyUser,
	}

	for name, token := range tokens {
		t.Run(name, func(t *testing.T) {
			claims, err := svc.Validate(ctx, token)
			require.ErrorIs(t, err, domain.ErrInvalidSession)
			assert.Nil(t, claims)
		})
	}
}
