package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/strategyloom/strategy-services-backend/internal/models"
	"github.com/strategyloom/strategy-services-backend/internal/services/auth"
	"gorm.io/gorm"
)

func logoutTestRouter(db *gorm.DB, userID string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	handler := NewAuthHandler(auth.NewAuthService(db))

	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("user_id", userID)
	})
	r.POST("/auth/logout", handler.Logout)
	return r
}

func TestLogout_BodyHandling(t *testing.T) {
	db := setupHandlerTestDB(t)

	user := &models.User{Username: "casey", PasswordHash: "irrelevant", IsActive: true}
	require.NoError(t, db.Create(user).Error)
	router := logoutTestRouter(db, user.ID)

	t.Run("malformed json is a client error, not a global logout", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/auth/logout", strings.NewReader(`{"refresh_token"`))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)

		var reloaded models.User
		require.NoError(t, db.First(&reloaded, "id = ?", user.ID).Error)
		assert.Equal(t, uint(0), reloaded.TokenVersion)
	})

	t.Run("empty body revokes every session", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/auth/logout", nil))

		assert.Equal(t, http.StatusOK, w.Code)

		var reloaded models.User
		require.NoError(t, db.First(&reloaded, "id = ?", user.ID).Error)
		assert.Equal(t, uint(1), reloaded.TokenVersion)
	})
}
