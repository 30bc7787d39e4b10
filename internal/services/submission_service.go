package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/strategyloom/strategy-services-backend/internal/database/repository"
	"github.com/strategyloom/strategy-services-backend/internal/models"
	"github.com/strategyloom/strategy-services-backend/internal/payload"
	"github.com/sirupsen/logrus"
)

// ErrForbidden is returned when a user touches a submission they do not own
var ErrForbidden = errors.New("submission does not belong to user")

// ValidationError carries field-level detail for a rejected form
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("missing required inputs: %s", strings.Join(e.Fields, ", "))
}

// requiredInputs lists the form fields each submission kind must provide
var requiredInputs = map[string][]string{
	models.KindAudienceArchitect: {"business_description", "target_market"},
	models.KindContentCompass:    {"business_description", "content_goals"},
	models.KindMessageMultiplier: {"business_description", "core_message"},
	models.KindEventFunnel:       {"business_description", "event_type"},
	models.KindLandingPage:       {"business_description", "offer"},
	models.KindOfferPrompt:       {"business_description", "offer"},
	models.KindFullStrategy:      {"business_description"},
}

type SubmissionService struct {
	submissionRepo *repository.SubmissionRepository
	userRepo       *repository.UserRepository
	webhooks       *WebhookService
	events         *EventsService
}

func NewSubmissionService(
	submissionRepo *repository.SubmissionRepository,
	userRepo *repository.UserRepository,
	webhooks *WebhookService,
	events *EventsService,
) *SubmissionService {
	return &SubmissionService{
		submissionRepo: submissionRepo,
		userRepo:       userRepo,
		webhooks:       webhooks,
		events:         events,
	}
}

// ValidateInputs checks a form against the schema for its kind and returns
// field-level detail for anything missing or empty.
func ValidateInputs(kind string, inputs map[string]interface{}) error {
	var missing []string
	for _, field := range requiredInputs[kind] {
		value, ok := inputs[field]
		if !ok {
			missing = append(missing, field)
			continue
		}
		if str, isStr := value.(string); isStr && strings.TrimSpace(str) == "" {
			missing = append(missing, field)
		}
	}
	if len(missing) > 0 {
		return &ValidationError{Fields: missing}
	}
	return nil
}

// CreateSubmission accepts a strategy form, calls the automation webhook for
// every requested component synchronously, and persists whatever came back.
// A failing webhook marks that component failed; the submission record is
// always written so the user sees a failed state instead of nothing.
func (s *SubmissionService) CreateSubmission(ctx context.Context, userID string, req *models.CreateSubmissionRequest) (*models.SubmissionResponse, error) {
	if !models.IsValidKind(req.Kind) {
		return nil, fmt.Errorf("invalid submission kind %q", req.Kind)
	}
	if err := ValidateInputs(req.Kind, req.Inputs); err != nil {
		return nil, err
	}

	requested := models.ComponentsForKind(req.Kind)

	statuses := make(map[string]string, len(models.ComponentKeys))
	for _, key := range models.ComponentKeys {
		statuses[key] = models.ComponentStatusNotRequested
	}
	for _, key := range requested {
		statuses[key] = models.ComponentStatusPending
	}

	var owner *string
	if userID != "" {
		owner = &userID
	}

	sub := &models.Submission{
		UserID:     owner,
		Kind:       req.Kind,
		Title:      req.Title,
		Inputs:     models.JSON(req.Inputs),
		Components: models.JSON{},
		Status:     models.SubmissionStatusPending,
	}
	sub.SetComponentStatusMap(statuses)

	// Persist before calling out so a crash mid-generation still leaves a
	// visible pending record for the staleness sweep to pick up.
	if err := s.submissionRepo.Create(sub); err != nil {
		return nil, fmt.Errorf("failed to create submission: %w", err)
	}
	s.events.PublishSubmissionEvent(ctx, EventSubmissionCreated, sub.ID, map[string]interface{}{
		"kind": req.Kind,
	})

	rawResponses := make(map[string]string, len(requested))
	for _, component := range requested {
		parsed, raw, err := s.webhooks.GenerateComponent(ctx, component, req.Inputs)
		rawResponses[component] = raw
		if err != nil {
			logrus.Errorf("Webhook for %s failed on submission %s: %v", component, sub.ID, err)
			statuses[component] = models.ComponentStatusFailed
			continue
		}

		normalized := payload.Normalize(parsed)
		sub.Components[component] = extractComponentPayload(component, normalized)

		if payload.HasContent(component, sub.Components[component]) {
			statuses[component] = models.ComponentStatusCompleted
		} else {
			statuses[component] = models.ComponentStatusFailed
		}
	}

	if encoded, err := json.Marshal(rawResponses); err == nil {
		rawStr := string(encoded)
		sub.WebhookResponse = &rawStr
	}

	sub.SetComponentStatusMap(statuses)
	sub.Status = ComputeOverallStatus(statuses, sub.Status)
	if sub.Status == models.SubmissionStatusPending && allRequestedFailed(requested, statuses) {
		// Nothing is ever going to resolve these; don't make the user wait
		// for the staleness sweep.
		sub.Status = models.SubmissionStatusFailed
	}
	switch sub.Status {
	case models.SubmissionStatusCompleted:
		now := time.Now()
		sub.CompletedAt = &now
		s.events.PublishSubmissionEvent(ctx, EventSubmissionCompleted, sub.ID, nil)
	case models.SubmissionStatusFailed:
		s.events.PublishSubmissionEvent(ctx, EventSubmissionFailed, sub.ID, nil)
	}

	if err := s.submissionRepo.Update(sub); err != nil {
		return nil, fmt.Errorf("failed to store webhook results: %w", err)
	}

	return s.toResponse(sub), nil
}

// allRequestedFailed reports whether every requested component failed during
// generation, leaving nothing for the staleness sweep to wait on.
func allRequestedFailed(requested []string, statuses map[string]string) bool {
	if len(requested) == 0 {
		return false
	}
	for _, key := range requested {
		if statuses[key] != models.ComponentStatusFailed {
			return false
		}
	}
	return true
}

// extractComponentPayload unwraps a response that declares its own component
// key. When the structure declares nothing, the classifier is consulted only
// to warn about a mismatch; the payload is stored under the requested
// component either way, since key sniffing is not trusted for anything
// beyond additive legacy fix-up.
func extractComponentPayload(requested string, normalized interface{}) interface{} {
	m, ok := normalized.(map[string]interface{})
	if !ok {
		return normalized
	}

	if inner, declared := m[requested]; declared {
		return payload.Normalize(inner)
	}

	if guessed, ok := payload.Classify(m); ok && guessed != requested {
		logrus.Warnf("Webhook payload for %s looks like %s, storing under %s anyway", requested, guessed, requested)
	}
	return m
}

// GetSubmission returns a submission to its owner. Ownerless legacy records
// are readable by any authenticated user; everything else is forbidden.
func (s *SubmissionService) GetSubmission(userID string, isAdmin bool, submissionID string) (*models.SubmissionResponse, error) {
	sub, err := s.submissionRepo.GetByID(submissionID)
	if err != nil {
		return nil, errors.New("submission not found")
	}
	if !canRead(sub, userID, isAdmin) {
		return nil, ErrForbidden
	}
	return s.toResponse(sub), nil
}

// GetSubmissionsByUser retrieves a page of the user's submissions
func (s *SubmissionService) GetSubmissionsByUser(userID string, page, pageSize int) ([]*models.SubmissionResponse, int64, error) {
	subs, total, err := s.submissionRepo.GetByUserID(userID, page, pageSize)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get submissions: %w", err)
	}

	responses := make([]*models.SubmissionResponse, len(subs))
	for i, sub := range subs {
		responses[i] = s.toResponse(sub)
	}
	return responses, total, nil
}

// GetAllSubmissions retrieves all submissions (admin only)
func (s *SubmissionService) GetAllSubmissions(status string, page, pageSize int) ([]*models.SubmissionResponse, int64, error) {
	subs, total, err := s.submissionRepo.GetAll(status, page, pageSize)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get submissions: %w", err)
	}

	responses := make([]*models.SubmissionResponse, len(subs))
	for i, sub := range subs {
		responses[i] = s.toResponse(sub)
	}
	return responses, total, nil
}

// CountByStatus returns how many submissions exist per overall status
func (s *SubmissionService) CountByStatus() (map[string]int64, error) {
	return s.submissionRepo.CountByStatus()
}

// UpdateSubmission applies inline dashboard edits to an owned submission.
// Only the fields present in the request are written.
func (s *SubmissionService) UpdateSubmission(userID string, isAdmin bool, submissionID string, req *models.UpdateSubmissionRequest) (*models.SubmissionResponse, error) {
	sub, err := s.submissionRepo.GetByID(submissionID)
	if err != nil {
		return nil, errors.New("submission not found")
	}
	if !canRead(sub, userID, isAdmin) {
		return nil, ErrForbidden
	}

	if req.Title != nil {
		sub.Title = *req.Title
	}
	if req.Output != nil {
		sub.Output = req.Output
	}
	if req.Inputs != nil {
		sub.Inputs = models.JSON(req.Inputs)
	}
	if req.Components != nil {
		sub.Components = models.JSON(req.Components)
	}
	if req.Status != nil {
		sub.Status = *req.Status
		if sub.Status == models.SubmissionStatusCompleted && sub.CompletedAt == nil {
			now := time.Now()
			sub.CompletedAt = &now
		}
	}

	if err := s.submissionRepo.Update(sub); err != nil {
		return nil, fmt.Errorf("failed to update submission: %w", err)
	}
	return s.toResponse(sub), nil
}

// ComponentView runs the display adapter for one component of a submission
func (s *SubmissionService) ComponentView(userID string, isAdmin bool, submissionID, component string) (*models.ComponentViewResponse, error) {
	if !models.IsComponentKey(component) {
		return nil, fmt.Errorf("invalid component %q", component)
	}

	sub, err := s.submissionRepo.GetByID(submissionID)
	if err != nil {
		return nil, errors.New("submission not found")
	}
	if !canRead(sub, userID, isAdmin) {
		return nil, ErrForbidden
	}

	sections, renderable, reason := payload.Render(component, sub.ComponentPayload(component))
	return &models.ComponentViewResponse{
		Component:  component,
		Renderable: renderable,
		Reason:     reason,
		Sections:   sections,
	}, nil
}

// canRead reports whether a user may see a submission. Ownerless records
// pre-date user accounts and stay visible to any authenticated user.
func canRead(sub *models.Submission, userID string, isAdmin bool) bool {
	if isAdmin {
		return true
	}
	if sub.UserID == nil {
		return true
	}
	return *sub.UserID == userID
}

// toResponse converts a Submission model to its response DTO
func (s *SubmissionService) toResponse(sub *models.Submission) *models.SubmissionResponse {
	resp := &models.SubmissionResponse{
		ID:              sub.ID,
		UserID:          sub.UserID,
		Kind:            sub.Kind,
		Title:           sub.Title,
		Inputs:          sub.Inputs,
		Components:      sub.Components,
		WebhookResponse: sub.WebhookResponse,
		Output:          sub.Output,
		Status:          sub.Status,
		ComponentStatus: sub.ComponentStatusMap(),
		CreatedAt:       sub.CreatedAt.Format(time.RFC3339),
		UpdatedAt:       sub.UpdatedAt.Format(time.RFC3339),
	}
	if sub.CompletedAt != nil {
		completed := sub.CompletedAt.Format(time.RFC3339)
		resp.CompletedAt = &completed
	}
	return resp
}
