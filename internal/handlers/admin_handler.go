package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/strategyloom/strategy-services-backend/internal/models"
	"github.com/strategyloom/strategy-services-backend/internal/services"
	"github.com/strategyloom/strategy-services-backend/internal/services/auth"
	"github.com/strategyloom/strategy-services-backend/internal/services/export"
	"github.com/strategyloom/strategy-services-backend/internal/utils"
)

type AdminHandler struct {
	authService       *auth.AuthService
	submissionService *services.SubmissionService
	exportService     *export.Service
}

func NewAdminHandler(authService *auth.AuthService, submissionService *services.SubmissionService, exportService *export.Service) *AdminHandler {
	return &AdminHandler{
		authService:       authService,
		submissionService: submissionService,
		exportService:     exportService,
	}
}

// Register godoc
// @Summary Register a new user (Admin only)
// @Description Register a new user account with username and password (Admin privileges required)
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.RegisterRequest true "Registration request"
// @Success 201 {object} models.AuthResponse
// @Failure 400 {object} map[string]interface{}
// @Failure 401 {object} map[string]interface{}
// @Failure 403 {object} map[string]interface{}
// @Failure 409 {object} map[string]interface{}
// @Failure 500 {object} map[string]interface{}
// @Router /api/v1/admin/register [post]
func (h *AdminHandler) Register(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request data", "details": err.Error()})
		return
	}

	response, err := h.authService.Register(&req)
	if err != nil {
		if strings.Contains(err.Error(), "already exists") {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to register user", "details": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, response)
}

// GetAllUsers godoc
// @Summary Get all users (Admin only)
// @Description Get a paginated list of all users (Admin privileges required)
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number (default 1)"
// @Param page_size query int false "Page size (default 20, max 100)"
// @Param search query string false "Filter by username"
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} map[string]interface{}
// @Failure 403 {object} map[string]interface{}
// @Failure 500 {object} map[string]interface{}
// @Router /api/v1/admin/users [get]
func (h *AdminHandler) GetAllUsers(c *gin.Context) {
	page, pageSize := utils.ParsePaginationFromQuery(c.Query("page"), c.Query("page_size"))
	search := c.Query("search")

	users, total, err := h.authService.GetAllUsers(page, pageSize, search)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get users", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"users":      users,
		"pagination": utils.CalculatePaginationInfo(int(total), page, pageSize),
	})
}

// GetAllSubmissions godoc
// @Summary Get all submissions (Admin only)
// @Description Get a paginated list of all submissions with per-status counts, optionally filtered by status (Admin privileges required)
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param status query string false "Filter by overall status (pending, completed, failed)"
// @Param page query int false "Page number (default 1)"
// @Param page_size query int false "Page size (default 20, max 100)"
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} map[string]interface{}
// @Failure 403 {object} map[string]interface{}
// @Failure 500 {object} map[string]interface{}
// @Router /api/v1/admin/submissions [get]
func (h *AdminHandler) GetAllSubmissions(c *gin.Context) {
	status := c.Query("status")
	page, pageSize := utils.ParsePaginationFromQuery(c.Query("page"), c.Query("page_size"))

	submissions, total, err := h.submissionService.GetAllSubmissions(status, page, pageSize)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get submissions", "details": err.Error()})
		return
	}

	counts, err := h.submissionService.CountByStatus()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count submissions", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"submissions": submissions,
		"counts":      counts,
		"pagination":  utils.CalculatePaginationInfo(int(total), page, pageSize),
	})
}

// ExportSubmissions godoc
// @Summary Export submissions to Excel (Admin only)
// @Description Export all submissions, optionally filtered by status, as an Excel workbook (Admin privileges required)
// @Tags admin
// @Accept json
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security BearerAuth
// @Param status query string false "Filter by overall status (pending, completed, failed)"
// @Success 200 {file} binary "Excel file"
// @Failure 401 {object} map[string]interface{}
// @Failure 403 {object} map[string]interface{}
// @Failure 500 {object} map[string]interface{}
// @Router /api/v1/admin/submissions/export [get]
func (h *AdminHandler) ExportSubmissions(c *gin.Context) {
	status := c.Query("status")

	file, filename, err := h.exportService.ExportSubmissions(status)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to export submissions", "details": err.Error()})
		return
	}

	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")

	if err := file.Write(c.Writer); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to write export", "details": err.Error()})
		return
	}
}
