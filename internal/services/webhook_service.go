package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/strategyloom/strategy-services-backend/internal/config"
	"github.com/strategyloom/strategy-services-backend/internal/models"
	"github.com/sirupsen/logrus"
)

// demoChatReply is returned when no chat webhook is configured, so the
// product stays demoable without the automation service.
const demoChatReply = "This is a demo response. Connect a chat webhook (WEBHOOK_URL_CHAT) to talk to the strategy assistant."

// WebhookService calls the external automation webhooks that generate
// strategy content. Calls are synchronous fire-and-wait HTTP requests; the
// only failure handling is surfacing a failed component status upstream.
type WebhookService struct {
	cfg    *config.WebhookConfig
	client *http.Client
}

func NewWebhookService(cfg *config.WebhookConfig) *WebhookService {
	return &WebhookService{
		cfg: cfg,
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

// GenerateComponent POSTs the form inputs to the webhook configured for one
// component and returns the parsed response plus the raw body. A fresh body
// that fails to parse as JSON counts as a generation failure; tolerance for
// plain-text payloads lives in the normalizer and covers stored legacy
// records only.
func (s *WebhookService) GenerateComponent(ctx context.Context, component string, inputs map[string]interface{}) (interface{}, string, error) {
	url := s.cfg.EndpointFor(component)
	if url == "" {
		return nil, "", fmt.Errorf("no webhook configured for component %s", component)
	}

	body := map[string]interface{}{
		"component": component,
		"inputs":    inputs,
	}

	raw, err := s.post(ctx, url, body)
	if err != nil {
		return nil, raw, err
	}

	var parsed interface{}
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		logrus.Errorf("Webhook response for %s is not valid JSON: %v", component, err)
		return nil, raw, fmt.Errorf("webhook returned unparseable body: %w", err)
	}
	return parsed, raw, nil
}

// Chat forwards a chat message to the chat webhook. Without a configured
// chat URL it falls back to a canned demo response instead of failing.
func (s *WebhookService) Chat(ctx context.Context, req *models.ChatRequest) (*models.ChatResponse, error) {
	if s.cfg.ChatURL == "" {
		return &models.ChatResponse{Reply: demoChatReply, Demo: true}, nil
	}

	body := map[string]interface{}{
		"message": req.Message,
	}
	if req.SubmissionID != "" {
		body["submission_id"] = req.SubmissionID
	}

	raw, err := s.post(ctx, s.cfg.ChatURL, body)
	if err != nil {
		return nil, fmt.Errorf("chat webhook failed: %w", err)
	}

	var parsed map[string]interface{}
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return &models.ChatResponse{Reply: raw}, nil
	}
	for _, key := range []string{"reply", "output", "message"} {
		if reply, ok := parsed[key].(string); ok && reply != "" {
			return &models.ChatResponse{Reply: reply}, nil
		}
	}
	return &models.ChatResponse{Reply: raw}, nil
}

func (s *WebhookService) post(ctx context.Context, url string, body map[string]interface{}) (string, error) {
	jsonBody, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request body: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonBody))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("User-Agent", "Strategy-Services/1.0")
	if s.cfg.BearerToken != "" {
		httpReq.Header.Set("Authorization", "Bearer "+s.cfg.BearerToken)
	}

	resp, err := s.client.Do(httpReq)
	if err != nil {
		logrus.Errorf("HTTP request failed to webhook %s: %v", url, err)
		return "", fmt.Errorf("failed to call webhook: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		logrus.Errorf("Webhook %s returned status %d: %s", url, resp.StatusCode, string(bodyBytes))
		return string(bodyBytes), fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}

	return string(bodyBytes), nil
}
