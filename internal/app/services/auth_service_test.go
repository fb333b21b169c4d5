package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twaaos/examscheduler/internal/app/models"
	"github.com/twaaos/examscheduler/internal/app/models/dto"
	"github.com/twaaos/examscheduler/internal/pkg/apperrors"
	"github.com/twaaos/examscheduler/internal/pkg/auth"
	"github.com/twaaos/examscheduler/internal/pkg/google"
)

var testDomains = []string{"student.usv.ro", "usv.ro", "staff.usv.ro"}

type stubVerifier struct {
	identity *google.Identity
	err      error
}

func (v stubVerifier) Verify(context.Context, string) (*google.Identity, error) {
	return v.identity, v.err
}

func hashed(t *testing.T, password string) *string {
	t.Helper()
	h, err := auth.HashPassword(password)
	require.NoError(t, err)
	return &h
}

func newAuthFixture(t *testing.T, verifier google.Verifier) (*AuthService, *fakeUsers, *auth.JWTService) {
	users := newFakeUsers(
		&models.User{ID: 1, FirstName: "Admin", LastName: "Admin", Email: "admin@usv.ro", Role: models.RoleAdmin, PasswordHash: hashed(t, "secret"), IsActive: true},
		&models.User{ID: 2, FirstName: "Matei", LastName: "Neagu", Email: "matei@usv.ro", Role: models.RoleTeacher, PasswordHash: hashed(t, "secret"), IsActive: true},
	)
	groups := newFakeGroups(&models.Group{ID: 7, Name: "3141"})
	jwtService := auth.NewJWTService(auth.JWTConfig{SecretKey: "test-secret", AccessTokenExp: time.Hour, TokenIssuer: "test"})
	return NewAuthService(users, groups, jwtService, verifier, testDomains, testLogger), users, jwtService
}

func TestAuthService_Login(t *testing.T) {
	svc, _, jwtService := newAuthFixture(t, google.DevVerifier{})
	ctx := context.Background()

	tests := []struct {
		name     string
		req      dto.LoginRequest
		wantKind apperrors.Kind
		wantMsg  string
	}{
		{"unknown user", dto.LoginRequest{Username: "nobody@usv.ro", Password: "secret"}, apperrors.KindUnauthorized, "Incorrect username or password"},
		{"wrong password", dto.LoginRequest{Username: "admin@usv.ro", Password: "nope"}, apperrors.KindUnauthorized, "Incorrect username or password"},
		{"not an admin", dto.LoginRequest{Username: "matei@usv.ro", Password: "secret"}, apperrors.KindForbidden, "Only admin users can use password login"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Login(ctx, &tt.req)
			assert.Equal(t, tt.wantKind, apperrors.KindOf(err))
			assert.Equal(t, tt.wantMsg, apperrors.MessageOf(err, ""))
		})
	}

	resp, err := svc.Login(ctx, &dto.LoginRequest{Username: " Admin@USV.ro ", Password: "secret"})
	require.NoError(t, err)
	assert.Equal(t, "Bearer", resp.TokenType)
	assert.Equal(t, "ADM", resp.User.Role)

	claims, err := jwtService.ValidateToken(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, int64(1), claims.UserID)
}

func TestAuthService_GoogleLoginDevTokens(t *testing.T) {
	tests := []struct {
		name      string
		token     string
		wantKind  apperrors.Kind
		wantRole  string
		wantGroup *int64
	}{
		{"creates teacher", "new.teacher@usv.ro|CD", apperrors.KindFound, "CD", nil},
		{"creates student in existing group", "stud@student.usv.ro|SG|7", apperrors.KindFound, "SG", int64Ptr(7)},
		{"student without known group", "stud@student.usv.ro|SG|99", apperrors.KindForbidden, "", nil},
		{"never creates admin", "boss@usv.ro|ADM", apperrors.KindForbidden, "", nil},
		{"existing admin by email", "admin@usv.ro|ADM", apperrors.KindFound, "ADM", nil},
		{"bad role", "x@usv.ro|BOSS", apperrors.KindInvalid, "", nil},
		{"malformed", "|CD", apperrors.KindUnauthorized, "", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _, _ := newAuthFixture(t, google.DevVerifier{})
			resp, err := svc.GoogleLogin(context.Background(), tt.token)
			assert.Equal(t, tt.wantKind, apperrors.KindOf(err))
			if tt.wantKind != apperrors.KindFound {
				return
			}
			require.NotNil(t, resp)
			assert.Equal(t, tt.wantRole, resp.User.Role)
			assert.Equal(t, tt.wantGroup, resp.User.GroupID)
		})
	}
}

func TestAuthService_GoogleLoginProduction(t *testing.T) {
	t.Run("domain not allowed", func(t *testing.T) {
		svc, _, _ := newAuthFixture(t, stubVerifier{identity: &google.Identity{GoogleID: "g-1", Email: "someone@gmail.com"}})
		_, err := svc.GoogleLogin(context.Background(), "id-token")
		assert.Equal(t, apperrors.KindForbidden, apperrors.KindOf(err))
	})

	t.Run("staff domain creates teacher", func(t *testing.T) {
		svc, users, _ := newAuthFixture(t, stubVerifier{identity: &google.Identity{GoogleID: "g-2", Email: "prof@staff.usv.ro", FirstName: "Ana", LastName: "Pop"}})
		resp, err := svc.GoogleLogin(context.Background(), "id-token")
		require.NoError(t, err)
		assert.Equal(t, "CD", resp.User.Role)

		stored, err := users.GetByGoogleID(context.Background(), "g-2")
		require.NoError(t, err)
		assert.Equal(t, "prof@staff.usv.ro", stored.Email)
	})

	t.Run("existing user gets google id", func(t *testing.T) {
		svc, users, _ := newAuthFixture(t, stubVerifier{identity: &google.Identity{GoogleID: "g-3", Email: "matei@usv.ro"}})
		resp, err := svc.GoogleLogin(context.Background(), "id-token")
		require.NoError(t, err)
		assert.Equal(t, int64(2), resp.User.ID)

		stored, err := users.GetByID(context.Background(), 2)
		require.NoError(t, err)
		require.NotNil(t, stored.GoogleID)
		assert.Equal(t, "g-3", *stored.GoogleID)
	})

	t.Run("invalid token", func(t *testing.T) {
		svc, _, _ := newAuthFixture(t, stubVerifier{err: errors.New("expired")})
		_, err := svc.GoogleLogin(context.Background(), "id-token")
		assert.Equal(t, "Invalid Google token", apperrors.MessageOf(err, ""))
	})
}

func TestAuthService_ChangePassword(t *testing.T) {
	svc, users, _ := newAuthFixture(t, google.DevVerifier{})
	ctx := context.Background()

	err := svc.ChangePassword(ctx, 2, &dto.ChangePasswordRequest{CurrentPassword: "secret", NewPassword: "newpass"})
	assert.Equal(t, apperrors.KindForbidden, apperrors.KindOf(err))

	err = svc.ChangePassword(ctx, 1, &dto.ChangePasswordRequest{CurrentPassword: "wrong", NewPassword: "newpass"})
	assert.Equal(t, "Incorrect current password", apperrors.MessageOf(err, ""))

	require.NoError(t, svc.ChangePassword(ctx, 1, &dto.ChangePasswordRequest{CurrentPassword: "secret", NewPassword: "newpass"}))
	stored, err := users.GetByID(ctx, 1)
	require.NoError(t, err)
	assert.True(t, auth.CheckPassword(*stored.PasswordHash, "newpass"))

	me, err := svc.Me(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "admin@usv.ro", me.Email)
}
