package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/strategyloom/strategy-services-backend/internal/services"
)

type StatusHandler struct {
	statusService     *services.StatusService
	staleSweepService *services.StaleSweepService
}

func NewStatusHandler(statusService *services.StatusService, staleSweepService *services.StaleSweepService) *StatusHandler {
	return &StatusHandler{
		statusService:     statusService,
		staleSweepService: staleSweepService,
	}
}

// GetStatus godoc
// @Summary Inspect submission status
// @Description Get the overall status, per-component statuses, counts and an operator recommendation
// @Tags status
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Submission ID"
// @Success 200 {object} models.SubmissionStatusResponse
// @Failure 401 {object} map[string]interface{}
// @Failure 403 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Failure 500 {object} map[string]interface{}
// @Router /api/v1/submissions/{id}/status [get]
func (h *StatusHandler) GetStatus(c *gin.Context) {
	userID := c.GetString("user_id")
	isAdmin := c.GetBool("is_admin")
	submissionID := c.Param("id")

	response, err := h.statusService.InspectStatus(userID, isAdmin, submissionID)
	if err != nil {
		h.writeStatusError(c, err, "Failed to inspect status")
		return
	}

	c.JSON(http.StatusOK, response)
}

// FixStatus godoc
// @Summary Reconcile submission status
// @Description Promote components whose stored payloads carry real content and recompute the overall status. Safe to run repeatedly.
// @Tags status
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Submission ID"
// @Success 200 {object} models.FixStatusResponse
// @Failure 401 {object} map[string]interface{}
// @Failure 403 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Failure 500 {object} map[string]interface{}
// @Router /api/v1/submissions/{id}/fix-status [post]
func (h *StatusHandler) FixStatus(c *gin.Context) {
	userID := c.GetString("user_id")
	isAdmin := c.GetBool("is_admin")
	submissionID := c.Param("id")

	response, err := h.statusService.FixStatus(userID, isAdmin, submissionID)
	if err != nil {
		h.writeStatusError(c, err, "Failed to fix status")
		return
	}

	c.JSON(http.StatusOK, response)
}

func (h *StatusHandler) writeStatusError(c *gin.Context, err error, fallback string) {
	if errors.Is(err, services.ErrForbidden) {
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
		return
	}
	if strings.Contains(err.Error(), "not found") {
		c.JSON(http.StatusNotFound, gin.H{"error": "Submission not found"})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": fallback, "details": err.Error()})
}

// StaleCheck godoc
// @Summary Fail stale pending submissions
// @Description Mark submissions that have been pending longer than the staleness threshold as failed
// @Tags status
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.StaleCheckResponse
// @Failure 401 {object} map[string]interface{}
// @Failure 500 {object} map[string]interface{}
// @Router /api/v1/submissions/stale-check [post]
func (h *StatusHandler) StaleCheck(c *gin.Context) {
	response, err := h.staleSweepService.Sweep()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to run stale check", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, response)
}
