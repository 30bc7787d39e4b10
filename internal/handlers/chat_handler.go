package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/strategyloom/strategy-services-backend/internal/models"
	"github.com/strategyloom/strategy-services-backend/internal/services"
)

type ChatHandler struct {
	webhookService *services.WebhookService
}

func NewChatHandler(webhookService *services.WebhookService) *ChatHandler {
	return &ChatHandler{
		webhookService: webhookService,
	}
}

// Chat godoc
// @Summary Send a chat message
// @Description Forward a chat message to the assistant webhook. Falls back to a canned demo reply when no chat webhook is configured.
// @Tags chat
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.ChatRequest true "Chat message"
// @Success 200 {object} models.ChatResponse
// @Failure 400 {object} map[string]interface{}
// @Failure 401 {object} map[string]interface{}
// @Failure 502 {object} map[string]interface{}
// @Router /api/v1/chat [post]
func (h *ChatHandler) Chat(c *gin.Context) {
	var req models.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request data", "details": err.Error()})
		return
	}

	response, err := h.webhookService.Chat(c.Request.Context(), &req)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "Chat service unavailable", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, response)
}
