package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"RunCrew/internal/model/dto"
	"RunCrew/internal/store"
	pkgerrors "RunCrew/pkg/errors"
)

func TestCreateUser(t *testing.T) {
	svc := NewUserService(store.NewMemoryStore())

	created, err := svc.CreateUser(context.Background(), dto.CreateUserRequest{
		Name:  "minji",
		Phone: "01012345678",
	})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)
	require.Equal(t, "minji", created.Name)
	require.True(t, created.HasPhone)
	require.NotEmpty(t, created.JoinedAt)

	users, err := svc.ListUsers(context.Background())
	require.NoError(t, err)
	require.Len(t, users, 1)
	require.Equal(t, created.ID, users[0].ID)
}

func TestCreateUserDuplicateName(t *testing.T) {
	svc := NewUserService(store.NewMemoryStore())

	_, err := svc.CreateUser(context.Background(), dto.CreateUserRequest{Name: "minji"})
	require.NoError(t, err)

	_, err = svc.CreateUser(context.Background(), dto.CreateUserRequest{Name: "minji"})
	require.ErrorIs(t, err, pkgerrors.UserAlreadyExists)
}

func TestUpdateUser(t *testing.T) {
	svc := NewUserService(store.NewMemoryStore())

	created, err := svc.CreateUser(context.Background(), dto.CreateUserRequest{Name: "minji"})
	require.NoError(t, err)
	require.False(t, created.HasPhone)

	newName := "minji2"
	newPhone := "01099998888"
	updated, err := svc.UpdateUser(context.Background(), created.ID, dto.UpdateUserRequest{
		Name:  &newName,
		Phone: &newPhone,
	})
	require.NoError(t, err)
	require.Equal(t, created.ID, updated.ID)
	require.Equal(t, "minji2", updated.Name)
	require.True(t, updated.HasPhone)

	// 空字符串名字不覆盖原值
	empty := ""
	updated, err = svc.UpdateUser(context.Background(), created.ID, dto.UpdateUserRequest{Name: &empty})
	require.NoError(t, err)
	require.Equal(t, "minji2", updated.Name)
}

func TestUpdateUserNotFound(t *testing.T) {
	svc := NewUserService(store.NewMemoryStore())

	name := "anyone"
	_, err := svc.UpdateUser(context.Background(), "12345", dto.UpdateUserRequest{Name: &name})
	require.ErrorIs(t, err, pkgerrors.UserNotFound)
}

func TestUpdateUserInvalidID(t *testing.T) {
	svc := NewUserService(store.NewMemoryStore())

	name := "anyone"
	_, err := svc.UpdateUser(context.Background(), "not-a-number", dto.UpdateUserRequest{Name: &name})
	require.ErrorIs(t, err, pkgerrors.InvalidUserID)
}
