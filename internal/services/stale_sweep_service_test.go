package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/strategyloom/strategy-services-backend/internal/database/repository"
	"github.com/strategyloom/strategy-services-backend/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Submission{}))
	t.Cleanup(func() {
		db.Exec("DELETE FROM submissions")
	})
	return db
}

func createSubmission(t *testing.T, db *gorm.DB, status string, age time.Duration, statuses map[string]string) *models.Submission {
	t.Helper()
	sub := &models.Submission{
		Kind:      models.KindMessageMultiplier,
		Status:    status,
		CreatedAt: time.Now().Add(-age),
	}
	if statuses != nil {
		sub.SetComponentStatusMap(statuses)
	}
	require.NoError(t, repository.NewSubmissionRepository(db).Create(sub))
	return sub
}

func TestSweep_FailsOnlyStalePending(t *testing.T) {
	db := setupTestDB(t)
	svc := NewStaleSweepService(db, nil)
	repo := repository.NewSubmissionRepository(db)

	stale := createSubmission(t, db, models.SubmissionStatusPending, 20*time.Minute, map[string]string{
		models.ComponentMessageMultiplier: models.ComponentStatusPending,
		models.ComponentOfferPrompt:       models.ComponentStatusNotRequested,
	})
	fresh := createSubmission(t, db, models.SubmissionStatusPending, time.Minute, nil)
	done := createSubmission(t, db, models.SubmissionStatusCompleted, 30*time.Minute, nil)

	response, err := svc.Sweep()
	require.NoError(t, err)

	assert.Equal(t, 1, response.Checked)
	assert.Equal(t, 1, response.Failed)
	assert.Equal(t, []string{stale.ID}, response.IDs)

	reloaded, err := repo.GetByID(stale.ID)
	require.NoError(t, err)
	assert.Equal(t, models.SubmissionStatusFailed, reloaded.Status)
	statuses := reloaded.ComponentStatusMap()
	assert.Equal(t, models.ComponentStatusFailed, statuses[models.ComponentMessageMultiplier])
	assert.Equal(t, models.ComponentStatusNotRequested, statuses[models.ComponentOfferPrompt])

	reloaded, err = repo.GetByID(fresh.ID)
	require.NoError(t, err)
	assert.Equal(t, models.SubmissionStatusPending, reloaded.Status)

	reloaded, err = repo.GetByID(done.ID)
	require.NoError(t, err)
	assert.Equal(t, models.SubmissionStatusCompleted, reloaded.Status)
}

func TestSweep_TransitionIsTerminal(t *testing.T) {
	db := setupTestDB(t)
	svc := NewStaleSweepService(db, nil)
	repo := repository.NewSubmissionRepository(db)

	stale := createSubmission(t, db, models.SubmissionStatusPending, time.Hour, map[string]string{
		models.ComponentEventFunnel: models.ComponentStatusPending,
	})

	_, err := svc.Sweep()
	require.NoError(t, err)

	// A second sweep finds nothing: failed submissions are not pending
	response, err := svc.Sweep()
	require.NoError(t, err)
	assert.Equal(t, 0, response.Checked)

	reloaded, err := repo.GetByID(stale.ID)
	require.NoError(t, err)
	assert.Equal(t, models.SubmissionStatusFailed, reloaded.Status)
}

func TestSweep_EmptyDatabase(t *testing.T) {
	db := setupTestDB(t)
	svc := NewStaleSweepService(db, nil)

	response, err := svc.Sweep()
	require.NoError(t, err)
	assert.Equal(t, 0, response.Checked)
	assert.Equal(t, 0, response.Failed)
	assert.Empty(t, response.IDs)
}
