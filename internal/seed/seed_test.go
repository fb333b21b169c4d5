package seed

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	appModels "github.com/twaaos/examscheduler/internal/app/models"
	appRepos "github.com/twaaos/examscheduler/internal/app/repositories"
	"github.com/twaaos/examscheduler/internal/pkg/apperrors"
	"github.com/twaaos/examscheduler/internal/pkg/auth"
)

type memUsers struct {
	appRepos.IUserRepository
	byEmail map[string]*appModels.User
}

func (m *memUsers) GetByEmail(_ context.Context, email string) (*appModels.User, error) {
	if u, ok := m.byEmail[email]; ok {
		return u, nil
	}
	return nil, apperrors.ErrUserNotFound
}

func (m *memUsers) Create(_ context.Context, u *appModels.User) error {
	u.ID = int64(len(m.byEmail) + 1)
	m.byEmail[u.Email] = u
	return nil
}

func TestCreateDefaultData(t *testing.T) {
	users := &memUsers{byEmail: map[string]*appModels.User{}}
	admin := AdminAccount{Email: " Admin@USV.ro ", Password: "admin"}

	require.NoError(t, CreateDefaultData(context.Background(), users, admin, zerolog.Nop()))

	created := users.byEmail["admin@usv.ro"]
	require.NotNil(t, created)
	assert.Equal(t, appModels.RoleAdmin, created.Role)
	require.NotNil(t, created.PasswordHash)
	assert.True(t, auth.CheckPassword(*created.PasswordHash, "admin"))

	admin.Password = "changed"
	require.NoError(t, CreateDefaultData(context.Background(), users, admin, zerolog.Nop()))
	assert.Len(t, users.byEmail, 1)
	assert.True(t, auth.CheckPassword(*users.byEmail["admin@usv.ro"].PasswordHash, "admin"))
}

func TestCreateDefaultData_SkipsWithoutCredentials(t *testing.T) {
	users := &memUsers{byEmail: map[string]*appModels.User{}}

	require.NoError(t, CreateDefaultData(context.Background(), users, AdminAccount{Email: "admin@usv.ro"}, zerolog.Nop()))
	assert.Empty(t, users.byEmail)
}
