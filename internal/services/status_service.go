package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/strategyloom/strategy-services-backend/internal/database/repository"
	"github.com/strategyloom/strategy-services-backend/internal/models"
	"github.com/strategyloom/strategy-services-backend/internal/payload"
	"github.com/sirupsen/logrus"
)

// StatusService inspects and repairs submission component statuses. Every
// operation here is additive and idempotent: rerunning a fix against an
// already-correct submission is a no-op.
type StatusService struct {
	submissionRepo *repository.SubmissionRepository
	events         *EventsService
}

func NewStatusService(submissionRepo *repository.SubmissionRepository, events *EventsService) *StatusService {
	return &StatusService{
		submissionRepo: submissionRepo,
		events:         events,
	}
}

// ReconcileResult describes what a reconciliation pass changed
type ReconcileResult struct {
	Changed         bool
	Promoted        []string
	Classified      map[string]string // legacy output assigned to a component
	Status          string
	ComponentStatus map[string]string
}

// Reconcile corrects a submission's component statuses in place: entries
// stuck at pending or failed are promoted to completed when their payload
// demonstrates recognized structural indicators, a legacy output blob with
// no status entry is classified and adopted into the components map, and
// the overall status is recomputed. Reconcile only mutates the model; the
// caller decides whether to persist.
func Reconcile(sub *models.Submission) ReconcileResult {
	result := ReconcileResult{
		ComponentStatus: sub.ComponentStatusMap(),
	}

	// Adopt the legacy single-output column when the components map has
	// nothing for it yet. Writes are additive only: an unclassifiable
	// output stays where it is for the operator.
	if sub.Output != nil && *sub.Output != "" {
		normalized := payload.Normalize(*sub.Output)
		if component, ok := payload.Classify(normalized); ok {
			if sub.ComponentPayload(component) == nil {
				if sub.Components == nil {
					sub.Components = models.JSON{}
				}
				sub.Components[component] = normalized
				if result.Classified == nil {
					result.Classified = make(map[string]string)
				}
				result.Classified[component] = "legacy output"
				if _, has := result.ComponentStatus[component]; !has {
					result.ComponentStatus[component] = models.ComponentStatusPending
				}
				result.Changed = true
			}
		}
	}

	for _, key := range models.ComponentKeys {
		current, tracked := result.ComponentStatus[key]
		data := sub.ComponentPayload(key)

		if !tracked {
			// A payload with no status entry at all is the oldest bug
			// class; record it as completed when the data holds up.
			if data != nil && payload.HasContent(key, data) {
				result.ComponentStatus[key] = models.ComponentStatusCompleted
				result.Promoted = append(result.Promoted, key)
				result.Changed = true
			}
			continue
		}

		if current != models.ComponentStatusPending && current != models.ComponentStatusFailed {
			continue
		}
		if data != nil && payload.HasContent(key, data) {
			result.ComponentStatus[key] = models.ComponentStatusCompleted
			result.Promoted = append(result.Promoted, key)
			result.Changed = true
		}
	}

	status := ComputeOverallStatus(result.ComponentStatus, sub.Status)
	if status != sub.Status {
		result.Changed = true
	}
	result.Status = status

	sub.SetComponentStatusMap(result.ComponentStatus)
	sub.Status = status
	if status == models.SubmissionStatusCompleted && sub.CompletedAt == nil {
		now := time.Now()
		sub.CompletedAt = &now
	}

	return result
}

// ComputeOverallStatus derives the submission status from its component
// statuses: completed iff every tracked entry is completed or not_requested.
// Anything still pending keeps the submission pending; a submission already
// failed stays failed until every component resolves.
func ComputeOverallStatus(statuses map[string]string, current string) string {
	if len(statuses) == 0 {
		return current
	}

	allDone := true
	for _, status := range statuses {
		if status != models.ComponentStatusCompleted && status != models.ComponentStatusNotRequested {
			allDone = false
			break
		}
	}
	if allDone {
		return models.SubmissionStatusCompleted
	}
	if current == models.SubmissionStatusFailed {
		return models.SubmissionStatusFailed
	}
	return models.SubmissionStatusPending
}

// FixStatus runs a reconciliation pass against one submission and persists
// the corrected record. Applying it twice yields the same final state as
// applying it once. The same ownership rule as submission reads applies.
func (s *StatusService) FixStatus(userID string, isAdmin bool, submissionID string) (*models.FixStatusResponse, error) {
	sub, err := s.submissionRepo.GetByID(submissionID)
	if err != nil {
		return nil, errors.New("submission not found")
	}
	if !canRead(sub, userID, isAdmin) {
		return nil, ErrForbidden
	}

	result := Reconcile(sub)
	if result.Changed {
		if err := s.submissionRepo.Update(sub); err != nil {
			return nil, fmt.Errorf("failed to update submission: %w", err)
		}
		logrus.Infof("Reconciled submission %s: promoted=%v status=%s", sub.ID, result.Promoted, result.Status)
		if result.Status == models.SubmissionStatusCompleted {
			s.events.PublishSubmissionEvent(context.Background(), EventSubmissionCompleted, sub.ID, map[string]interface{}{
				"source": "fix-status",
			})
		}
	}

	return &models.FixStatusResponse{
		ID:              sub.ID,
		Changed:         result.Changed,
		Promoted:        result.Promoted,
		Status:          result.Status,
		ComponentStatus: result.ComponentStatus,
	}, nil
}

// InspectStatus returns the componentStatus map, counts per status and a
// human-readable recommendation for what remedial action to take. Only the
// owner or an admin may inspect; ownerless legacy records stay open to any
// authenticated user.
func (s *StatusService) InspectStatus(userID string, isAdmin bool, submissionID string) (*models.SubmissionStatusResponse, error) {
	sub, err := s.submissionRepo.GetByID(submissionID)
	if err != nil {
		return nil, errors.New("submission not found")
	}
	if !canRead(sub, userID, isAdmin) {
		return nil, ErrForbidden
	}

	statuses := sub.ComponentStatusMap()
	counts := map[string]int{}
	for _, status := range statuses {
		counts[status]++
	}

	return &models.SubmissionStatusResponse{
		ID:              sub.ID,
		Status:          sub.Status,
		ComponentStatus: statuses,
		Counts:          counts,
		Recommendation:  s.recommend(sub, statuses),
		CreatedAt:       sub.CreatedAt.Format(time.RFC3339),
	}, nil
}

// recommend produces the operator hint shown by the status endpoint
func (s *StatusService) recommend(sub *models.Submission, statuses map[string]string) string {
	stuck := 0
	for _, key := range models.ComponentKeys {
		status := statuses[key]
		if status != models.ComponentStatusPending && status != models.ComponentStatusFailed {
			continue
		}
		data := sub.ComponentPayload(key)
		if data != nil && payload.HasContent(key, data) {
			stuck++
		}
	}
	if stuck > 0 {
		return fmt.Sprintf("Run fix-status: %d component(s) have data but are still marked pending or failed.", stuck)
	}

	if len(statuses) == 0 && sub.Output != nil && *sub.Output != "" {
		return "Legacy submission with output only. Run fix-status to classify the output into a component."
	}

	if sub.Status == models.SubmissionStatusPending && time.Since(sub.CreatedAt) > StaleThreshold {
		return "Submission has been pending longer than the staleness threshold. Run stale-check to mark it failed, then retry generation."
	}

	switch sub.Status {
	case models.SubmissionStatusCompleted:
		return "No action needed."
	case models.SubmissionStatusFailed:
		return "Generation failed. Re-submit the form to retry; no automatic retry is attempted."
	default:
		return "Generation still in progress. Poll again shortly."
	}
}
