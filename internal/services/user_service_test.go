package services

import (
	"testing"

	"github.com/keyforge/keyforge-be/internal/errs"
	"github.com/stretchr/testify/require"
)

func TestUserService_CreateAndAuthenticate(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db)

	user, err := svc.CreateUser("alice", "alice@example.com", "hunter22")
	require.NoError(t, err)
	require.NotEmpty(t, user.ID)
	require.False(t, user.HasMasterPassword())

	got, err := svc.AuthenticateUser("alice@example.com", "hunter22")
	require.NoError(t, err)
	require.Equal(t, user.ID, got.ID)
	require.Empty(t, got.PasswordHash)

	_, err = svc.AuthenticateUser("alice@example.com", "wrong")
	require.ErrorIs(t, err, errs.ErrUnauthorized)

	_, err = svc.AuthenticateUser("nobody@example.com", "hunter22")
	require.ErrorIs(t, err, errs.ErrUnauthorized)
}

func TestUserService_CreateValidation(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db)

	_, err := svc.CreateUser("", "a@example.com", "pw")
	require.ErrorIs(t, err, errs.ErrValidation)

	_, err = svc.CreateUser("alice", "a@example.com", "")
	require.ErrorIs(t, err, errs.ErrValidation)
}

func TestUserService_DuplicateEmail(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db)

	_, err := svc.CreateUser("alice", "alice@example.com", "pw1")
	require.NoError(t, err)

	_, err = svc.CreateUser("alice2", "alice@example.com", "pw2")
	require.ErrorIs(t, err, errs.ErrAlreadyExists)
}

func TestUserService_GetUserByID_NotFound(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db)

	_, err := svc.GetUserByID("missing")
	require.ErrorIs(t, err, errs.ErrNotFound)
}
