package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ray-remotestate/qrmenu/models"
)

func TestAccessToken(t *testing.T) {
	secret := []byte("secret")
	now := time.Now()

	testCases := map[string]struct {
		token       func(t *testing.T) string
		expectedErr error
		subject     string
	}{
		"should accept a fresh token": {
			token: func(t *testing.T) string {
				tok, err := GenerateAccessToken(secret, "admin", time.Hour, now)
				require.NoError(t, err)
				return tok
			},
			subject: "admin",
		},
		"should reject an expired token": {
			token: func(t *testing.T) string {
				tok, err := GenerateAccessToken(secret, "admin", time.Hour, now.Add(-2*time.Hour))
				require.NoError(t, err)
				return tok
			},
			expectedErr: ErrInvalidToken,
		},
		"should reject a token signed with another key": {
			token: func(t *testing.T) string {
				tok, err := GenerateAccessToken([]byte("other"), "admin", time.Hour, now)
				require.NoError(t, err)
				return tok
			},
			expectedErr: ErrInvalidToken,
		},
		"should reject a token without a subject": {
			token: func(t *testing.T) string {
				claims := &Claims{
					Role: models.RoleAdmin,
					RegisteredClaims: jwt.RegisteredClaims{
						ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
					},
				}
				tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
				require.NoError(t, err)
				return tok
			},
			expectedErr: ErrInvalidToken,
		},
		"should reject garbage": {
			token:       func(*testing.T) string { return "not-a-jwt" },
			expectedErr: ErrInvalidToken,
		},
	}

	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			claims, err := ParseAccessToken(secret, tc.token(t))
			if tc.expectedErr != nil {
				assert.ErrorIs(t, err, tc.expectedErr)
				assert.Nil(t, claims)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.subject, claims.Subject)
			assert.Equal(t, models.RoleAdmin, claims.Role)
		})
	}
}

func TestPassword(t *testing.T) {
	hash, err := HashPassword("password123")
	require.NoError(t, err)

	assert.NotEqual(t, "password123", hash)
	assert.True(t, CheckPassword(hash, "password123"))
	assert.False(t, CheckPassword(hash, "password124"))
	assert.False(t, CheckPassword("not-a-hash", "password123"))
}
