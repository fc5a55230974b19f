package database

import (
	"testing"

	"github.com/CUknot/forum_backend/models"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
)

// setupTestDB installs a migrated in-memory SQLite database as DB.
func setupTestDB(t *testing.T) {
	t.Helper()

	require.NoError(t, Open(sqlite.Open(":memory:")))

	// Every pooled connection would get its own empty in-memory database
	sqlDB, err := DB.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, Migrate())
}

func createUser(t *testing.T, username string) *models.User {
	t.Helper()

	user := &models.User{
		Username: username,
		Email:    username + "@example.com",
		Password: "s3cret-pass",
	}
	require.NoError(t, DB.Create(user).Error)
	return user
}

func createRoom(t *testing.T, host *models.User, topic, name, description string) *models.Room {
	t.Helper()

	room, err := CreateRoom(host.ID, topic, name, description)
	require.NoError(t, err)
	return room
}
