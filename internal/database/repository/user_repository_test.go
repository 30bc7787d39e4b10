package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/strategyloom/strategy-services-backend/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupUserRepo(t *testing.T) *UserRepository {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}))
	t.Cleanup(func() {
		db.Exec("DELETE FROM users")
	})
	return NewUserRepository(db)
}

func TestGetAllUsers(t *testing.T) {
	repo := setupUserRepo(t)

	seed := []*models.User{
		{Username: "avery", FirstName: "Avery", LastName: "Nguyen", PasswordHash: "x", CreatedAt: time.Now().Add(-3 * time.Hour)},
		{Username: "blake", FirstName: "Blake", LastName: "Okafor", PasswordHash: "x", CreatedAt: time.Now().Add(-2 * time.Hour)},
		{Username: "casey", FirstName: "Casey", LastName: "Nguyen", PasswordHash: "x", CreatedAt: time.Now().Add(-time.Hour)},
	}
	for _, user := range seed {
		require.NoError(t, repo.Create(user))
	}

	t.Run("newest first without search", func(t *testing.T) {
		users, total, err := repo.GetAllUsers(1, 10, "")
		require.NoError(t, err)

		assert.Equal(t, int64(3), total)
		require.Len(t, users, 3)
		assert.Equal(t, "casey", users[0].Username)
		assert.Equal(t, "avery", users[2].Username)
	})

	t.Run("search matches username", func(t *testing.T) {
		users, total, err := repo.GetAllUsers(1, 10, "blake")
		require.NoError(t, err)

		assert.Equal(t, int64(1), total)
		require.Len(t, users, 1)
		assert.Equal(t, "blake", users[0].Username)
	})

	t.Run("search matches last name", func(t *testing.T) {
		_, total, err := repo.GetAllUsers(1, 10, "Nguyen")
		require.NoError(t, err)

		assert.Equal(t, int64(2), total)
	})

	t.Run("pagination caps the page", func(t *testing.T) {
		users, total, err := repo.GetAllUsers(2, 2, "")
		require.NoError(t, err)

		assert.Equal(t, int64(3), total)
		assert.Len(t, users, 1)
	})
}
