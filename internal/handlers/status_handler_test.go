package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/strategyloom/strategy-services-backend/internal/database/repository"
	"github.com/strategyloom/strategy-services-backend/internal/models"
	"github.com/strategyloom/strategy-services-backend/internal/services"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupHandlerTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.RefreshToken{}, &models.Submission{}))
	t.Cleanup(func() {
		db.Exec("DELETE FROM submissions")
		db.Exec("DELETE FROM refresh_tokens")
		db.Exec("DELETE FROM users")
	})
	return db
}

func statusTestRouter(db *gorm.DB, userID string, isAdmin bool) *gin.Engine {
	gin.SetMode(gin.TestMode)
	repo := repository.NewSubmissionRepository(db)
	handler := NewStatusHandler(services.NewStatusService(repo, nil), services.NewStaleSweepService(db, nil))

	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("user_id", userID)
		c.Set("is_admin", isAdmin)
	})
	r.GET("/submissions/:id/status", handler.GetStatus)
	r.POST("/submissions/:id/fix-status", handler.FixStatus)
	return r
}

func TestStatusEndpointsOwnership(t *testing.T) {
	db := setupHandlerTestDB(t)
	repo := repository.NewSubmissionRepository(db)

	owner := "user-a"
	sub := &models.Submission{Kind: models.KindLandingPage, Status: models.SubmissionStatusPending, UserID: &owner}
	sub.SetComponentStatusMap(map[string]string{
		models.ComponentLandingPage: models.ComponentStatusPending,
	})
	require.NoError(t, repo.Create(sub))

	t.Run("other user gets 403 from status", func(t *testing.T) {
		router := statusTestRouter(db, "user-b", false)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/submissions/"+sub.ID+"/status", nil))

		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.NotContains(t, w.Body.String(), "component_status")
	})

	t.Run("other user gets 403 from fix-status", func(t *testing.T) {
		router := statusTestRouter(db, "user-b", false)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/submissions/"+sub.ID+"/fix-status", nil))

		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("owner can inspect", func(t *testing.T) {
		router := statusTestRouter(db, "user-a", false)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/submissions/"+sub.ID+"/status", nil))

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("admin can fix", func(t *testing.T) {
		router := statusTestRouter(db, "user-b", true)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/submissions/"+sub.ID+"/fix-status", nil))

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("unknown id is 404", func(t *testing.T) {
		router := statusTestRouter(db, "user-a", false)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/submissions/no-such-id/status", nil))

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
