package services

import (
	"database/sql"
	"testing"

	"github.com/keyforge/keyforge-be/internal/database"
	"github.com/keyforge/keyforge-be/internal/models"
	"github.com/stretchr/testify/require"
)

// newTestDB opens a fresh in-memory database with the schema applied.
func newTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := database.New("file::memory:")
	require.NoError(t, err)
	// A single connection keeps every query on the same in-memory database.
	db.SetMaxOpenConns(1)
	require.NoError(t, database.Migrate(db))
	t.Cleanup(func() { db.Close() })
	return db
}

// newTestUser registers a user through the real service.
func newTestUser(t *testing.T, db *sql.DB, username string) models.User {
	t.Helper()

	user, err := NewUserService(db).CreateUser(username, username+"@example.com", "login-password")
	require.NoError(t, err)
	return user
}
