package auth

import (
	"context"
	"testing"
	"time"

	"github.com/azsonic/10xdevs-flashcards/internal/config"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-that-is-long-enough-for-testing"

func newTestService(secret string, lifetime time.Duration, now func() time.Time) *hmacJWTService {
	return &hmacJWTService{
		signingKey:    []byte(secret),
		tokenLifetime: lifetime,
		timeFunc:      now,
		clockSkew:     2 * time.Minute,
	}
}

func TestGenerateToken(t *testing.T) {
	t.Parallel()

	fixedTime := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	lifetime := 60 * time.Minute
	userID := uuid.New()
	svc := newTestService(testSecret, lifetime, func() time.Time { return fixedTime })

	token, err := svc.GenerateToken(context.Background(), userID)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.ValidateToken(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, fixedTime.Unix(), claims.IssuedAt.Unix())
	assert.Equal(t, fixedTime.Add(lifetime).Unix(), claims.ExpiresAt.Unix())
	assert.NotEmpty(t, claims.ID)
}

func TestValidateToken(t *testing.T) {
	t.Parallel()

	fixedTime := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	lifetime := 60 * time.Minute
	userID := uuid.New()
	at := func(ts time.Time) func() time.Time { return func() time.Time { return ts } }

	sign := func(claims jwt.Claims, method jwt.SigningMethod, key any) string {
		s, err := jwt.NewWithClaims(method, claims).SignedString(key)
		require.NoError(t, err)
		return s
	}

	tests := []struct {
		name      string
		setupFunc func() (JWTService, string)
		wantErr   error
	}{
		{
			name: "valid token",
			setupFunc: func() (JWTService, string) {
				svc := newTestService(testSecret, lifetime, at(fixedTime))
				token, _ := svc.GenerateToken(context.Background(), userID)
				return svc, token
			},
		},
		{
			name: "within clock skew",
			setupFunc: func() (JWTService, string) {
				token, _ := newTestService(testSecret, lifetime, at(fixedTime)).GenerateToken(context.Background(), userID)
				return newTestService(testSecret, lifetime, at(fixedTime.Add(lifetime+time.Minute))), token
			},
		},
		{
			name: "expired token",
			setupFunc: func() (JWTService, string) {
				token, _ := newTestService(testSecret, lifetime, at(fixedTime)).GenerateToken(context.Background(), userID)
				return newTestService(testSecret, lifetime, at(fixedTime.Add(lifetime+time.Hour))), token
			},
			wantErr: ErrExpiredToken,
		},
		{
			name: "not yet valid",
			setupFunc: func() (JWTService, string) {
				token := sign(jwt.RegisteredClaims{
					Subject:   userID.String(),
					NotBefore: jwt.NewNumericDate(fixedTime.Add(time.Hour)),
					ExpiresAt: jwt.NewNumericDate(fixedTime.Add(2 * time.Hour)),
				}, jwt.SigningMethodHS256, []byte(testSecret))
				return newTestService(testSecret, lifetime, at(fixedTime)), token
			},
			wantErr: ErrTokenNotYetValid,
		},
		{
			name: "invalid signature",
			setupFunc: func() (JWTService, string) {
				token, _ := newTestService(testSecret, lifetime, at(fixedTime)).GenerateToken(context.Background(), userID)
				return newTestService("wrong-secret-that-is-long-enough-for-testing", lifetime, at(fixedTime)), token
			},
			wantErr: ErrInvalidToken,
		},
		{
			name: "wrong algorithm",
			setupFunc: func() (JWTService, string) {
				token := sign(jwt.RegisteredClaims{
					Subject:   userID.String(),
					ExpiresAt: jwt.NewNumericDate(fixedTime.Add(time.Hour)),
				}, jwt.SigningMethodHS512, []byte(testSecret))
				return newTestService(testSecret, lifetime, at(fixedTime)), token
			},
			wantErr: ErrInvalidToken,
		},
		{
			name: "subject is not a uuid",
			setupFunc: func() (JWTService, string) {
				token := sign(jwt.RegisteredClaims{
					Subject:   "alice",
					ExpiresAt: jwt.NewNumericDate(fixedTime.Add(time.Hour)),
				}, jwt.SigningMethodHS256, []byte(testSecret))
				return newTestService(testSecret, lifetime, at(fixedTime)), token
			},
			wantErr: ErrInvalidToken,
		},
		{
			name: "missing expiry",
			setupFunc: func() (JWTService, string) {
				token := sign(jwt.RegisteredClaims{Subject: userID.String()}, jwt.SigningMethodHS256, []byte(testSecret))
				return newTestService(testSecret, lifetime, at(fixedTime)), token
			},
			wantErr: ErrInvalidToken,
		},
		{
			name: "malformed token",
			setupFunc: func() (JWTService, string) {
				return newTestService(testSecret, lifetime, at(fixedTime)), "this.is.not.a.valid.jwt.token"
			},
			wantErr: ErrInvalidToken,
		},
		{
			name: "empty token",
			setupFunc: func() (JWTService, string) {
				return newTestService(testSecret, lifetime, at(fixedTime)), ""
			},
			wantErr: ErrMissingToken,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, token := tt.setupFunc()
			claims, err := svc.ValidateToken(context.Background(), token)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, claims)
			} else {
				require.NoError(t, err)
				assert.Equal(t, userID, claims.UserID)
			}
		})
	}
}

func TestNewJWTService(t *testing.T) {
	_, err := NewJWTService(config.AuthConfig{JWTSecret: "short"})
	assert.Error(t, err)

	svc, err := NewJWTService(config.AuthConfig{JWTSecret: testSecret, TokenLifetimeMinutes: 15})
	require.NoError(t, err)
	token, err := svc.GenerateToken(context.Background(), uuid.New())
	require.NoError(t, err)
	_, err = svc.ValidateToken(context.Background(), token)
	assert.NoError(t, err)
}
