package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/strategyloom/strategy-services-backend/internal/models"
	"github.com/strategyloom/strategy-services-backend/internal/services"
	"github.com/strategyloom/strategy-services-backend/internal/utils"
)

type SubmissionHandler struct {
	submissionService *services.SubmissionService
}

func NewSubmissionHandler(submissionService *services.SubmissionService) *SubmissionHandler {
	return &SubmissionHandler{
		submissionService: submissionService,
	}
}

// CreateSubmission godoc
// @Summary Create a submission
// @Description Validate inputs for the requested strategy kind, call the generation webhooks and persist the result
// @Tags submissions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.CreateSubmissionRequest true "Submission request (kind and inputs)"
// @Success 201 {object} models.SubmissionResponse
// @Failure 400 {object} map[string]interface{}
// @Failure 401 {object} map[string]interface{}
// @Failure 500 {object} map[string]interface{}
// @Router /api/v1/submissions [post]
func (h *SubmissionHandler) CreateSubmission(c *gin.Context) {
	userID := c.GetString("user_id")

	var req models.CreateSubmissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request data", "details": err.Error()})
		return
	}

	response, err := h.submissionService.CreateSubmission(c.Request.Context(), userID, &req)
	if err != nil {
		var vErr *services.ValidationError
		if errors.As(err, &vErr) {
			c.JSON(http.StatusBadRequest, gin.H{"error": vErr.Error(), "missing_fields": vErr.Fields})
			return
		}
		if strings.Contains(err.Error(), "invalid submission kind") {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create submission", "details": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, response)
}

// GetSubmissions godoc
// @Summary List submissions
// @Description Get the authenticated user's submissions, newest first
// @Tags submissions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number (default 1)"
// @Param page_size query int false "Page size (default 20, max 100)"
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} map[string]interface{}
// @Failure 500 {object} map[string]interface{}
// @Router /api/v1/submissions [get]
func (h *SubmissionHandler) GetSubmissions(c *gin.Context) {
	userID := c.GetString("user_id")
	page, pageSize := utils.ParsePaginationFromQuery(c.Query("page"), c.Query("page_size"))

	submissions, total, err := h.submissionService.GetSubmissionsByUser(userID, page, pageSize)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get submissions", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"submissions": submissions,
		"pagination":  utils.CalculatePaginationInfo(int(total), page, pageSize),
	})
}

// GetSubmission godoc
// @Summary Get a submission
// @Description Get a single submission by ID
// @Tags submissions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Submission ID"
// @Success 200 {object} models.SubmissionResponse
// @Failure 401 {object} map[string]interface{}
// @Failure 403 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Failure 500 {object} map[string]interface{}
// @Router /api/v1/submissions/{id} [get]
func (h *SubmissionHandler) GetSubmission(c *gin.Context) {
	userID := c.GetString("user_id")
	isAdmin := c.GetBool("is_admin")
	submissionID := c.Param("id")

	response, err := h.submissionService.GetSubmission(userID, isAdmin, submissionID)
	if err != nil {
		h.writeReadError(c, err, "Failed to get submission")
		return
	}

	c.JSON(http.StatusOK, response)
}

// UpdateSubmission godoc
// @Summary Update a submission
// @Description Apply partial edits to a submission (title, inputs, components, output, status)
// @Tags submissions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Submission ID"
// @Param request body models.UpdateSubmissionRequest true "Fields to update"
// @Success 200 {object} models.SubmissionResponse
// @Failure 400 {object} map[string]interface{}
// @Failure 401 {object} map[string]interface{}
// @Failure 403 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Failure 500 {object} map[string]interface{}
// @Router /api/v1/submissions/{id} [patch]
func (h *SubmissionHandler) UpdateSubmission(c *gin.Context) {
	userID := c.GetString("user_id")
	isAdmin := c.GetBool("is_admin")
	submissionID := c.Param("id")

	var req models.UpdateSubmissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request data", "details": err.Error()})
		return
	}

	response, err := h.submissionService.UpdateSubmission(userID, isAdmin, submissionID, &req)
	if err != nil {
		h.writeReadError(c, err, "Failed to update submission")
		return
	}

	c.JSON(http.StatusOK, response)
}

// GetComponentView godoc
// @Summary Get the display view of a component
// @Description Decide whether a component payload is renderable and, if so, return its ordered sections
// @Tags submissions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Submission ID"
// @Param component path string true "Component key (e.g. messageMultiplier)"
// @Success 200 {object} models.ComponentViewResponse
// @Failure 400 {object} map[string]interface{}
// @Failure 401 {object} map[string]interface{}
// @Failure 403 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Failure 500 {object} map[string]interface{}
// @Router /api/v1/submissions/{id}/components/{component}/view [get]
func (h *SubmissionHandler) GetComponentView(c *gin.Context) {
	userID := c.GetString("user_id")
	isAdmin := c.GetBool("is_admin")
	submissionID := c.Param("id")
	component := c.Param("component")

	if !models.IsComponentKey(component) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown component key: " + component})
		return
	}

	response, err := h.submissionService.ComponentView(userID, isAdmin, submissionID, component)
	if err != nil {
		h.writeReadError(c, err, "Failed to get component view")
		return
	}

	c.JSON(http.StatusOK, response)
}

func (h *SubmissionHandler) writeReadError(c *gin.Context, err error, fallback string) {
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
