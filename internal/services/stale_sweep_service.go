package services

import (
	"context"
	"fmt"
	"time"

	"github.com/strategyloom/strategy-services-backend/internal/database/repository"
	"github.com/strategyloom/strategy-services-backend/internal/models"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// StaleThreshold is how long a submission may stay pending before the sweep
// treats it as abandoned.
const StaleThreshold = 10 * time.Minute

// StaleSweepService marks long-pending submissions as failed. The sweep is a
// one-way, terminal transition: no retry is attempted, a new form submission
// is required. It runs both on demand (the stale-check endpoint) and from a
// background ticker.
type StaleSweepService struct {
	submissionRepo *repository.SubmissionRepository
	events         *EventsService
	interval       time.Duration
	stopChan       chan bool
}

func NewStaleSweepService(db *gorm.DB, events *EventsService) *StaleSweepService {
	return &StaleSweepService{
		submissionRepo: repository.NewSubmissionRepository(db),
		events:         events,
		interval:       5 * time.Minute,
		stopChan:       make(chan bool),
	}
}

// Start starts the background sweep loop
func (s *StaleSweepService) Start() {
	go s.run()
	logrus.Info("Stale submission sweep service started")
}

// Stop stops the background sweep loop
func (s *StaleSweepService) Stop() {
	s.stopChan <- true
	logrus.Info("Stale submission sweep service stopped")
}

func (s *StaleSweepService) run() {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if _, err := s.Sweep(); err != nil {
				logrus.Errorf("Stale sweep failed: %v", err)
			}
		case <-s.stopChan:
			return
		}
	}
}

// Sweep scans all pending submissions older than the threshold and fails
// them: the overall status becomes failed and every component entry still
// pending is flipped to failed. Completed and not_requested entries are left
// untouched.
func (s *StaleSweepService) Sweep() (*models.StaleCheckResponse, error) {
	cutoff := time.Now().Add(-StaleThreshold)
	stale, err := s.submissionRepo.GetPendingOlderThan(cutoff)
	if err != nil {
		return nil, fmt.Errorf("failed to query pending submissions: %w", err)
	}

	response := &models.StaleCheckResponse{Checked: len(stale)}
	for _, sub := range stale {
		FailStaleSubmission(sub)
		if err := s.submissionRepo.Update(sub); err != nil {
			logrus.Errorf("Failed to mark submission %s as failed: %v", sub.ID, err)
			continue
		}
		response.Failed++
		response.IDs = append(response.IDs, sub.ID)
		s.events.PublishSubmissionEvent(context.Background(), EventSubmissionFailed, sub.ID, map[string]interface{}{
			"source": "stale-sweep",
		})
		s.events.PublishSubmissionEvent(context.Background(), EventSubmissionSwept, sub.ID, map[string]interface{}{
			"age": time.Since(sub.CreatedAt).String(),
		})
	}

	if response.Failed > 0 {
		logrus.Infof("Stale sweep: failed %d of %d pending submission(s) older than %s", response.Failed, response.Checked, StaleThreshold)
	} else {
		logrus.Debugf("Stale sweep: no submissions older than %s", StaleThreshold)
	}
	return response, nil
}

// FailStaleSubmission applies the terminal stale transition to one record
func FailStaleSubmission(sub *models.Submission) {
	statuses := sub.ComponentStatusMap()
	for key, status := range statuses {
		if status == models.ComponentStatusPending {
			statuses[key] = models.ComponentStatusFailed
		}
	}
	sub.SetComponentStatusMap(statuses)
	sub.Status = models.SubmissionStatusFailed
}

// SetInterval sets the background sweep interval
func (s *StaleSweepService) SetInterval(interval time.Duration) {
	s.interval = interval
}
