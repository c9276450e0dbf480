package services

import (
	"testing"
	"time"

	"github.com/keyforge/keyforge-be/internal/errs"
	"github.com/keyforge/keyforge-be/internal/limiter"
	"github.com/keyforge/keyforge-be/internal/models"
	"github.com/keyforge/keyforge-be/internal/session"
	"github.com/stretchr/testify/require"
)

func newMasterFixture(t *testing.T) (*MasterPasswordService, *session.Store, models.User, models.Session) {
	t.Helper()

	db := newTestDB(t)
	user := newTestUser(t, db, "alice")
	sessions := session.NewStore(db, time.Hour)
	sess, err := sessions.Create(user.ID)
	require.NoError(t, err)

	svc := NewMasterPasswordService(db, sessions, limiter.NewMemory(5, time.Minute), NewEventService(db, nil))
	return svc, sessions, user, sess
}

func TestMasterPassword_SetupVerifiesSession(t *testing.T) {
	svc, _, user, sess := newMasterFixture(t)

	status, err := svc.Status(user.ID, sess.ID)
	require.NoError(t, err)
	require.False(t, status.HasPassword)
	require.False(t, status.IsVerified)

	require.NoError(t, svc.Setup(user.ID, sess.ID, "secret1"))

	status, err = svc.Status(user.ID, sess.ID)
	require.NoError(t, err)
	require.True(t, status.HasPassword)
	require.True(t, status.IsVerified)
}

func TestMasterPassword_SetupRejectsShortPassword(t *testing.T) {
	svc, _, user, sess := newMasterFixture(t)

	err := svc.Setup(user.ID, sess.ID, "short")
	require.ErrorIs(t, err, errs.ErrValidation)

	status, err := svc.Status(user.ID, sess.ID)
	require.NoError(t, err)
	require.False(t, status.HasPassword)
}

func TestMasterPassword_SecondSetupFailsAndKeepsHash(t *testing.T) {
	svc, sessions, user, sess := newMasterFixture(t)

	require.NoError(t, svc.Setup(user.ID, sess.ID, "secret1"))

	err := svc.Setup(user.ID, sess.ID, "other-secret")
	require.ErrorIs(t, err, errs.ErrMasterPasswordSet)

	// The original password still verifies on a fresh session.
	fresh, err := sessions.Create(user.ID)
	require.NoError(t, err)
	require.NoError(t, svc.Verify(user.ID, fresh.ID, "secret1"))
}

func TestMasterPassword_VerifyBeforeSetup(t *testing.T) {
	svc, _, user, sess := newMasterFixture(t)

	err := svc.Verify(user.ID, sess.ID, "secret1")
	require.ErrorIs(t, err, errs.ErrMasterPasswordNotSet)
}

func TestMasterPassword_VerifyTransitions(t *testing.T) {
	svc, sessions, user, sess := newMasterFixture(t)
	require.NoError(t, svc.Setup(user.ID, sess.ID, "secret1"))

	// A new session starts unverified even though the hash exists.
	fresh, err := sessions.Create(user.ID)
	require.NoError(t, err)

	status, err := svc.Status(user.ID, fresh.ID)
	require.NoError(t, err)
	require.True(t, status.HasPassword)
	require.False(t, status.IsVerified)

	err = svc.Verify(user.ID, fresh.ID, "wrong")
	require.ErrorIs(t, err, errs.ErrInvalidMasterPassword)

	status, err = svc.Status(user.ID, fresh.ID)
	require.NoError(t, err)
	require.False(t, status.IsVerified)

	require.NoError(t, svc.Verify(user.ID, fresh.ID, "secret1"))

	status, err = svc.Status(user.ID, fresh.ID)
	require.NoError(t, err)
	require.True(t, status.IsVerified)
}

func TestMasterPassword_StatusDoesNotMutate(t *testing.T) {
	svc, _, user, sess := newMasterFixture(t)
	require.NoError(t, svc.Setup(user.ID, sess.ID, "secret1"))

	for i := 0; i < 3; i++ {
		status, err := svc.Status(user.ID, sess.ID)
		require.NoError(t, err)
		require.True(t, status.HasPassword)
		require.True(t, status.IsVerified)
	}
}

func TestMasterPassword_LockoutAfterRepeatedFailures(t *testing.T) {
	svc, sessions, user, sess := newMasterFixture(t)
	require.NoError(t, svc.Setup(user.ID, sess.ID, "secret1"))

	fresh, err := sessions.Create(user.ID)
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		err := svc.Verify(user.ID, fresh.ID, "wrong")
		require.ErrorIs(t, err, errs.ErrInvalidMasterPassword)
	}

	// Even the correct password is rejected while locked.
	err = svc.Verify(user.ID, fresh.ID, "secret1")
	require.ErrorIs(t, err, errs.ErrLocked)
}

func TestMasterPassword_StatusIgnoresUnknownSession(t *testing.T) {
	svc, _, user, sess := newMasterFixture(t)
	require.NoError(t, svc.Setup(user.ID, sess.ID, "secret1"))

	status, err := svc.Status(user.ID, "no-such-session")
	require.NoError(t, err)
	require.True(t, status.HasPassword)
	require.False(t, status.IsVerified)
}
