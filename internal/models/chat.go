package models

// ChatRequest represents a chat message sent to the strategy assistant
type ChatRequest struct {
	Message      string `json:"message" binding:"required"`
	SubmissionID string `json:"submission_id,omitempty" example:"550e8400-e29b-41d4-a716-446655440000"`
}

// ChatResponse represents the assistant's reply
type ChatResponse struct {
	Reply string `json:"reply"`
	Demo  bool   `json:"demo,omitempty"` // true when no chat webhook is configured
}
