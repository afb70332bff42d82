package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erazemk/maskarada/internal/model"
)

func TestGenerateAndValidateToken(t *testing.T) {
	token, err := GenerateToken("test-secret-key", 1, "ana", model.RoleStoryteller)
	require.NoError(t, err)

	claims, err := ValidateToken("test-secret-key", token)
	require.NoError(t, err)
	assert.EqualValues(t, 1, claims.UserID)
	assert.Equal(t, "ana", claims.Username)
	assert.Equal(t, model.RoleStoryteller, claims.Role)
	assert.NotEmpty(t, claims.ID)
	assert.WithinDuration(t, time.Now().Add(TokenExpiry), claims.ExpiresAt.Time, 5*time.Second)
}

func TestTokensHaveUniqueIDs(t *testing.T) {
	a, err := GenerateToken("s", 1, "ana", model.RolePlayer)
	require.NoError(t, err)
	b, err := GenerateToken("s", 1, "ana", model.RolePlayer)
	require.NoError(t, err)

	ca, err := ValidateToken("s", a)
	require.NoError(t, err)
	cb, err := ValidateToken("s", b)
	require.NoError(t, err)
	assert.NotEqual(t, ca.ID, cb.ID)
}

func TestValidateTokenRejects(t *testing.T) {
	good, err := GenerateToken("secret1", 1, "admin", model.RoleAdmin)
	require.NoError(t, err)

	foreign := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		UserID: 1,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "someone-else",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	foreignStr, err := foreign.SignedString([]byte("secret1"))
	require.NoError(t, err)

	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		UserID: 1,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    Issuer,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	})
	expiredStr, err := expired.SignedString([]byte("secret1"))
	require.NoError(t, err)

	tests := []struct {
		name   string
		secret string
		token  string
	}{
		{"wrong secret", "secret2", good},
		{"garbage", "secret1", "not-a-token"},
		{"wrong issuer", "secret1", foreignStr},
		{"expired", "secret1", expiredStr},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ValidateToken(tt.secret, tt.token)
			assert.Error(t, err)
		})
	}
}
