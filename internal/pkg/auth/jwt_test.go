package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twaaos/examscheduler/internal/app/models"
)

func newTestJWT(exp time.Duration) *JWTService {
	return NewJWTService(JWTConfig{SecretKey: "test-secret", AccessTokenExp: exp, TokenIssuer: "twaaos"})
}

func TestGenerateAndValidate(t *testing.T) {
	svc := newTestJWT(30 * time.Minute)
	groupID := int64(4)
	user := &models.User{ID: 7, Email: "sg@student.usv.ro", Role: models.RoleStudentGroup, GroupID: &groupID, FirstName: "Tudor", LastName: "Albu"}

	token, expiresIn, err := svc.GenerateAccessToken(user)
	require.NoError(t, err)
	assert.Equal(t, 1800, expiresIn)

	claims, err := svc.ValidateAndExtractClaims(token)
	require.NoError(t, err)
	assert.Equal(t, int64(7), claims.UserID)
	assert.Equal(t, "SG", claims.Role)
	require.NotNil(t, claims.GroupID)
	assert.Equal(t, int64(4), *claims.GroupID)
	assert.Equal(t, "7", claims.Subject)
	assert.NotEmpty(t, claims.ID)
}

func TestValidateToken_Failures(t *testing.T) {
	user := &models.User{ID: 1, Email: "admin@usv.ro", Role: models.RoleAdmin}

	expired, _, err := newTestJWT(-time.Minute).GenerateAccessToken(user)
	require.NoError(t, err)
	_, err = newTestJWT(time.Minute).ValidateToken(expired)
	assert.ErrorIs(t, err, ErrExpiredToken)

	other := NewJWTService(JWTConfig{SecretKey: "other", AccessTokenExp: time.Minute})
	forged, _, err := other.GenerateAccessToken(user)
	require.NoError(t, err)
	_, err = newTestJWT(time.Minute).ValidateToken(forged)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestExtractBearerToken(t *testing.T) {
	tok, err := ExtractBearerToken("Bearer a.b.c")
	require.NoError(t, err)
	assert.Equal(t, "a.b.c", tok)

	tok, err = ExtractBearerToken("\"a.b.c\"")
	require.NoError(t, err)
	assert.Equal(t, "a.b.c", tok)

	_, err = ExtractBearerToken("Basic xyz")
	assert.ErrorIs(t, err, ErrInvalidFormat)
}

func TestPassword(t *testing.T) {
	hash, err := HashPassword("admin")
	require.NoError(t, err)
	assert.True(t, CheckPassword(hash, "admin"))
	assert.False(t, CheckPassword(hash, "Admin"))
}

func TestHashPassword_RejectsLongInput(t *testing.T) {
	_, err := HashPassword(strings.Repeat("x", 73))
	assert.ErrorIs(t, err, ErrPasswordTooLong)
}
