package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
)

func TestJWTUtil_GenerateAccessToken(t *testing.T) {
	jwtUtil := NewJWTUtil("secret", time.Hour, 24*time.Hour)

	tokenString, err := jwtUtil.GenerateAccessToken("u-1", "+919876543210", "society")

	assert.NoError(t, err)
	assert.NotEmpty(t, tokenString)

	claims, err := jwtUtil.ValidateToken(tokenString, TokenTypeAccess)
	assert.NoError(t, err)
	assert.NotNil(t, claims)
	assert.Equal(t, "u-1", claims.UserID)
	assert.Equal(t, "+919876543210", claims.PhoneNumber)
	assert.Equal(t, "society", claims.Role)
	assert.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt.Time, 5*time.Second)
}

func TestJWTUtil_RefreshTokenLifetime(t *testing.T) {
	jwtUtil := NewJWTUtil("secret", time.Hour, 24*time.Hour)

	tokenString, err := jwtUtil.GenerateRefreshToken("u-1", "+919876543210", "contractor")
	assert.NoError(t, err)

	claims, err := jwtUtil.ValidateToken(tokenString, TokenTypeRefresh)
	assert.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(24*time.Hour), claims.ExpiresAt.Time, 5*time.Second)
}

func TestJWTUtil_ValidateToken_WrongType(t *testing.T) {
	jwtUtil := NewJWTUtil("secret", time.Hour, 24*time.Hour)

	refresh, _ := jwtUtil.GenerateRefreshToken("u-1", "+919876543210", "contractor")
	_, err := jwtUtil.ValidateToken(refresh, TokenTypeAccess)
	assert.ErrorIs(t, err, ErrWrongTokenType)

	access, _ := jwtUtil.GenerateAccessToken("u-1", "+919876543210", "contractor")
	_, err = jwtUtil.ValidateToken(access, TokenTypeRefresh)
	assert.ErrorIs(t, err, ErrWrongTokenType)
}

func TestJWTUtil_ValidateToken_InvalidToken(t *testing.T) {
	jwtUtil := NewJWTUtil("secret", time.Hour, time.Hour)

	_, err := jwtUtil.ValidateToken("invalid.token.string", TokenTypeAccess)
	assert.Error(t, err)
}

func TestJWTUtil_ValidateToken_ExpiredToken(t *testing.T) {
	jwtUtil := NewJWTUtil("secret", -time.Hour, time.Hour) // Token expires in the past

	tokenString, _ := jwtUtil.GenerateAccessToken("u-1", "+919876543210", "society")

	_, err := jwtUtil.ValidateToken(tokenString, TokenTypeAccess)
	assert.Error(t, err)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestJWTUtil_ValidateToken_WrongSecret(t *testing.T) {
	jwtUtil1 := NewJWTUtil("secret1", time.Hour, time.Hour)
	jwtUtil2 := NewJWTUtil("secret2", time.Hour, time.Hour)

	tokenString, _ := jwtUtil1.GenerateAccessToken("u-1", "+919876543210", "society")

	_, err := jwtUtil2.ValidateToken(tokenString, TokenTypeAccess)
	assert.Error(t, err)
}

func TestJWTUtil_ValidateToken_InvalidSigningMethod(t *testing.T) {
	jwtUtil := NewJWTUtil("secret", time.Hour, time.Hour)
	claims := &JWTClaims{
		UserID:    "u-1",
		Role:      "society",
		TokenType: TokenTypeAccess,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	// HS384 shares the HMAC key type, only the algorithm check rejects it
	token := jwt.NewWithClaims(jwt.SigningMethodHS384, claims)
	tokenString, _ := token.SignedString([]byte("secret"))

	_, err := jwtUtil.ValidateToken(tokenString, TokenTypeAccess)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected signing method")
}
