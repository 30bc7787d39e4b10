package export

import (
	"fmt"
	"time"

	"github.com/strategyloom/strategy-services-backend/internal/database/repository"
	"github.com/strategyloom/strategy-services-backend/internal/models"
	"github.com/xuri/excelize/v2"
)

// Service exports submissions to Excel for operator reporting
type Service struct {
	submissionRepo *repository.SubmissionRepository
}

// NewService creates a new export service instance
func NewService(submissionRepo *repository.SubmissionRepository) *Service {
	return &Service{submissionRepo: submissionRepo}
}

// exportPageSize bounds one export run
const exportPageSize = 10000

// ExportSubmissions builds an Excel workbook with one row per submission and
// one status column per component. The caller owns closing the file.
func (s *Service) ExportSubmissions(status string) (*excelize.File, string, error) {
	submissions, _, err := s.submissionRepo.GetAll(status, 1, exportPageSize)
	if err != nil {
		return nil, "", fmt.Errorf("failed to get submissions: %w", err)
	}

	f := excelize.NewFile()
	sheet := "Submissions"
	f.SetSheetName("Sheet1", sheet)

	headers := []string{"ID", "User ID", "Kind", "Title", "Status", "Created At", "Completed At"}
	for _, key := range models.ComponentKeys {
		headers = append(headers, key)
	}
	for col, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		f.SetCellValue(sheet, cell, header)
	}

	for row, sub := range submissions {
		statuses := sub.ComponentStatusMap()

		userID := ""
		if sub.UserID != nil {
			userID = *sub.UserID
		}
		completedAt := ""
		if sub.CompletedAt != nil {
			completedAt = sub.CompletedAt.Format(time.RFC3339)
		}

		values := []interface{}{
			sub.ID,
			userID,
			sub.Kind,
			sub.Title,
			sub.Status,
			sub.CreatedAt.Format(time.RFC3339),
			completedAt,
		}
		for _, key := range models.ComponentKeys {
			values = append(values, statuses[key])
		}

		for col, value := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			f.SetCellValue(sheet, cell, value)
		}
	}

	filename := fmt.Sprintf("submissions_%d.xlsx", time.Now().Unix())
	return f, filename, nil
}
