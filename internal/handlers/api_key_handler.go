package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/strategyloom/strategy-services-backend/internal/services/api_key"
	"gorm.io/gorm"
)

type APIKeyHandler struct {
	apiKeyService *api_key.Service
}

func NewAPIKeyHandler(db *gorm.DB) *APIKeyHandler {
	return &APIKeyHandler{
		apiKeyService: api_key.NewService(db),
	}
}

// Generate godoc
// @Summary Generate API key
// @Description Generate a new API key for the authenticated user, replacing any existing key
// @Tags api-key
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 201 {object} map[string]interface{}
// @Failure 401 {object} map[string]interface{}
// @Failure 500 {object} map[string]interface{}
// @Router /api/v1/api-key/generate [post]
func (h *APIKeyHandler) Generate(c *gin.Context) {
	userID := c.MustGet("user_id").(string)

	apiKey, err := h.apiKeyService.GenerateAPIKey(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate API key", "details": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "API key generated successfully",
		"api_key": apiKey,
	})
}

// Get godoc
// @Summary Get API key
// @Description Get the API key for the authenticated user
// @Tags api-key
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Failure 500 {object} map[string]interface{}
// @Router /api/v1/api-key [get]
func (h *APIKeyHandler) Get(c *gin.Context) {
	userID := c.MustGet("user_id").(string)

	apiKey, err := h.apiKeyService.GetAPIKeyByUserID(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get API key", "details": err.Error()})
		return
	}
	if apiKey == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "API key not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"api_key": apiKey})
}
