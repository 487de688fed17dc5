package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"worktime-bot/internal/models"
)

func TestUserService_Register(t *testing.T) {
	env := newTestEnv(t)

	first, err := env.users.Register(10, "anna", "", "")
	require.NoError(t, err)
	assert.Equal(t, "anna", first.FirstName)
	assert.Equal(t, models.RoleClient, first.Role)

	again, err := env.users.Register(10, "anna", "Anna", "")
	require.NoError(t, err)
	assert.Equal(t, first.ID, again.ID)

	_, err = env.users.GetUser(11)
	assert.ErrorIs(t, err, ErrUserNotFound)

	byID, err := env.users.GetUserByID(first.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(10), byID.ChatID)

	_, err = env.users.GetUserByID(999)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestUserService_Roles(t *testing.T) {
	env := newTestEnv(t)

	env.user(t, 10)
	env.admin(t, 1)

	assert.ErrorIs(t, env.users.UpdateRole(10, 1, models.RoleClient), ErrForbidden)
	assert.ErrorIs(t, env.users.UpdateRole(1, 99, models.RoleAdmin), ErrUserNotFound)
	require.NoError(t, env.users.UpdateRole(1, 10, models.RoleAdmin))

	isAdmin, err := env.users.IsAdmin(10)
	require.NoError(t, err)
	assert.True(t, isAdmin)

	// Существующий пользователь становится админом
	require.NoError(t, env.users.InitializeAdmin(10))
	admins, err := env.users.GetAdmins()
	require.NoError(t, err)
	assert.Len(t, admins, 2)

	text, err := env.users.FormatAllUsers()
	require.NoError(t, err)
	assert.Contains(t, text, "Администраторов: 2")
}
