package repository

import (
	"time"

	"github.com/strategyloom/strategy-services-backend/internal/models"
	"github.com/strategyloom/strategy-services-backend/internal/utils"

	"gorm.io/gorm"
)

type SubmissionRepository struct {
	db *gorm.DB
}

func NewSubmissionRepository(db *gorm.DB) *SubmissionRepository {
	return &SubmissionRepository{db: db}
}

// Create creates a new submission
func (r *SubmissionRepository) Create(submission *models.Submission) error {
	return r.db.Create(submission).Error
}

// GetByID retrieves a submission by ID
func (r *SubmissionRepository) GetByID(id string) (*models.Submission, error) {
	var submission models.Submission
	err := r.db.First(&submission, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &submission, nil
}

// GetByUserID retrieves submissions for a specific user with pagination
func (r *SubmissionRepository) GetByUserID(userID string, page, pageSize int) ([]*models.Submission, int64, error) {
	var submissions []*models.Submission
	var total int64

	query := r.db.Model(&models.Submission{}).Where("user_id = ?", userID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := query.Order("created_at DESC").
		Offset(utils.CalculateOffset(page, pageSize)).
		Limit(pageSize).
		Find(&submissions).Error
	return submissions, total, err
}

// GetAll retrieves all submissions with optional status filter (admin only)
func (r *SubmissionRepository) GetAll(status string, page, pageSize int) ([]*models.Submission, int64, error) {
	var submissions []*models.Submission
	var total int64

	query := r.db.Model(&models.Submission{})
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := query.Order("created_at DESC").
		Offset(utils.CalculateOffset(page, pageSize)).
		Limit(pageSize).
		Find(&submissions).Error
	return submissions, total, err
}

// Update saves a submission
func (r *SubmissionRepository) Update(submission *models.Submission) error {
	return r.db.Save(submission).Error
}

// GetPendingOlderThan retrieves all pending submissions created before cutoff
func (r *SubmissionRepository) GetPendingOlderThan(cutoff time.Time) ([]*models.Submission, error) {
	var submissions []*models.Submission
	err := r.db.Where("status = ? AND created_at < ?", models.SubmissionStatusPending, cutoff).
		Find(&submissions).Error
	return submissions, err
}

// CountByStatus returns submission counts grouped by overall status
func (r *SubmissionRepository) CountByStatus() (map[string]int64, error) {
	type row struct {
		Status string
		Count  int64
	}
	var rows []row
	err := r.db.Model(&models.Submission{}).
		Select("status, count(*) as count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int64, len(rows))
	for _, r := range rows {
		counts[r.Status] = r.Count
	}
	return counts, nil
}
