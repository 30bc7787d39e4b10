package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Submission represents one user-initiated request for generated strategy
// content plus all component results returned by the automation webhooks.
type Submission struct {
	ID     string  `json:"id" gorm:"primaryKey;type:uuid"`
	UserID *string `json:"user_id" gorm:"type:uuid;index"` // nullable for legacy/anonymous submissions
	Kind   string  `json:"kind" gorm:"type:varchar(50);not null;index"`
	Title  string  `json:"title" gorm:"type:varchar(255)"`

	// Form data as submitted
	Inputs JSON `json:"inputs" gorm:"type:jsonb"`

	// Component name -> payload, plus the reserved "componentStatus" sub-map
	Components JSON `json:"components" gorm:"type:jsonb"`

	// Raw body returned by the automation webhook, kept for debugging
	WebhookResponse *string `json:"webhook_response" gorm:"type:text"`

	// Legacy single-output column, pre-dates the components map
	Output *string `json:"output" gorm:"type:text"`

	Status      string     `json:"status" gorm:"type:varchar(20);default:'pending';index"` // pending, completed, failed
	CreatedAt   time.Time  `json:"created_at" gorm:"index"`
	UpdatedAt   time.Time  `json:"updated_at"`
	CompletedAt *time.Time `json:"completed_at"`

	// Relationships
	User *User `json:"-" gorm:"foreignKey:UserID;references:ID;constraint:OnDelete:SET NULL"`
}

// BeforeCreate is a GORM hook that runs before creating a new record
func (s *Submission) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.New().String()
	}
	return nil
}

// TableName specifies the table name for the Submission model
func (Submission) TableName() string {
	return "submissions"
}

// ComponentStatusMap extracts the componentStatus sub-map from the components
// blob. Returns an empty map when the sub-map is missing or malformed.
func (s *Submission) ComponentStatusMap() map[string]string {
	statuses := make(map[string]string)
	if s.Components == nil {
		return statuses
	}
	raw, ok := s.Components[ComponentStatusKey]
	if !ok {
		return statuses
	}
	sub, ok := raw.(map[string]interface{})
	if !ok {
		return statuses
	}
	for key, value := range sub {
		if str, ok := value.(string); ok {
			statuses[key] = str
		}
	}
	return statuses
}

// SetComponentStatusMap writes the componentStatus sub-map back into the
// components blob, allocating the blob when necessary.
func (s *Submission) SetComponentStatusMap(statuses map[string]string) {
	if s.Components == nil {
		s.Components = JSON{}
	}
	sub := make(map[string]interface{}, len(statuses))
	for key, value := range statuses {
		sub[key] = value
	}
	s.Components[ComponentStatusKey] = sub
}

// ComponentPayload returns the stored payload for a component key, nil when absent
func (s *Submission) ComponentPayload(key string) interface{} {
	if s.Components == nil {
		return nil
	}
	return s.Components[key]
}

// CreateSubmissionRequest represents the request to create a new submission
type CreateSubmissionRequest struct {
	Kind   string                 `json:"kind" binding:"required" example:"message_multiplier"`
	Title  string                 `json:"title" example:"Q3 webinar push"`
	Inputs map[string]interface{} `json:"inputs" binding:"required"`
}

// UpdateSubmissionRequest represents inline edits made from the dashboard.
// All fields are optional; only present fields are written.
type UpdateSubmissionRequest struct {
	Title      *string                `json:"title" example:"Q3 webinar push (edited)"`
	Output     *string                `json:"output"`
	Inputs     map[string]interface{} `json:"inputs"`
	Components map[string]interface{} `json:"components"`
	Status     *string                `json:"status" binding:"omitempty,oneof=pending completed failed" example:"completed"`
}

// SubmissionResponse represents the response for submission operations
type SubmissionResponse struct {
	ID              string            `json:"id" example:"550e8400-e29b-41d4-a716-446655440000"`
	UserID          *string           `json:"user_id,omitempty" example:"550e8400-e29b-41d4-a716-446655440001"`
	Kind            string            `json:"kind" example:"message_multiplier"`
	Title           string            `json:"title" example:"Q3 webinar push"`
	Inputs          JSON              `json:"inputs"`
	Components      JSON              `json:"components"`
	WebhookResponse *string           `json:"webhook_response,omitempty"`
	Output          *string           `json:"output,omitempty"`
	Status          string            `json:"status" example:"pending"`
	ComponentStatus map[string]string `json:"component_status,omitempty"`
	CreatedAt       string            `json:"created_at" example:"2025-01-09T10:30:00Z"`
	UpdatedAt       string            `json:"updated_at" example:"2025-01-09T10:30:00Z"`
	CompletedAt     *string           `json:"completed_at,omitempty" example:"2025-01-09T10:32:00Z"`
}

// SubmissionStatusResponse represents the status-inspection view of a submission
type SubmissionStatusResponse struct {
	ID              string            `json:"id" example:"550e8400-e29b-41d4-a716-446655440000"`
	Status          string            `json:"status" example:"pending"`
	ComponentStatus map[string]string `json:"component_status"`
	Counts          map[string]int    `json:"counts"`
	Recommendation  string            `json:"recommendation" example:"Run fix-status: 2 component(s) have data but are still marked pending."`
	CreatedAt       string            `json:"created_at" example:"2025-01-09T10:30:00Z"`
}

// FixStatusResponse represents the outcome of a fix-status run
type FixStatusResponse struct {
	ID              string            `json:"id" example:"550e8400-e29b-41d4-a716-446655440000"`
	Changed         bool              `json:"changed" example:"true"`
	Promoted        []string          `json:"promoted,omitempty"`
	Status          string            `json:"status" example:"completed"`
	ComponentStatus map[string]string `json:"component_status"`
}

// StaleCheckResponse represents the outcome of a staleness sweep
type StaleCheckResponse struct {
	Checked int      `json:"checked" example:"14"`
	Failed  int      `json:"failed" example:"3"`
	IDs     []string `json:"ids,omitempty"`
}

// ComponentViewResponse is the display adapter's decision for one component
type ComponentViewResponse struct {
	Component  string        `json:"component" example:"messageMultiplier"`
	Renderable bool          `json:"renderable" example:"true"`
	Reason     string        `json:"reason,omitempty" example:"no recognized content markers"`
	Sections   []ViewSection `json:"sections,omitempty"`
}

// ViewSection is one renderable block, already in display order
type ViewSection struct {
	Name    string      `json:"name" example:"persona"`
	Content interface{} `json:"content"`
}
