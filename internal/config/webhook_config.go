package config

import (
	"os"
	"time"

	"github.com/strategyloom/strategy-services-backend/internal/models"
)

// WebhookConfig contains the automation webhook endpoints. Each component
// kind has its own webhook URL; all of them share one bearer token.
type WebhookConfig struct {
	Endpoints   map[string]string `json:"endpoints"` // component key -> URL
	ChatURL     string            `json:"chat_url"`
	BearerToken string            `json:"-"`
	Timeout     time.Duration     `json:"timeout"`
}

// GetWebhookConfig reads the webhook configuration from the environment.
// A missing component URL means that component cannot be generated; a
// missing chat URL switches the chat endpoint into demo-response mode.
func GetWebhookConfig() *WebhookConfig {
	timeout := 2 * time.Minute
	if raw := os.Getenv("WEBHOOK_TIMEOUT"); raw != "" {
		if parsed, err := time.ParseDuration(raw); err == nil {
			timeout = parsed
		}
	}

	return &WebhookConfig{
		Endpoints: map[string]string{
			models.ComponentAudienceArchitect: os.Getenv("WEBHOOK_URL_AUDIENCE_ARCHITECT"),
			models.ComponentContentCompass:    os.Getenv("WEBHOOK_URL_CONTENT_COMPASS"),
			models.ComponentMessageMultiplier: os.Getenv("WEBHOOK_URL_MESSAGE_MULTIPLIER"),
			models.ComponentEventFunnel:       os.Getenv("WEBHOOK_URL_EVENT_FUNNEL"),
			models.ComponentLandingPage:       os.Getenv("WEBHOOK_URL_LANDING_PAGE"),
			models.ComponentOfferPrompt:       os.Getenv("WEBHOOK_URL_OFFER_PROMPT"),
		},
		ChatURL:     os.Getenv("WEBHOOK_URL_CHAT"),
		BearerToken: os.Getenv("WEBHOOK_BEARER_TOKEN"),
		Timeout:     timeout,
	}
}

// EndpointFor returns the webhook URL for a component key, empty when unset
func (c *WebhookConfig) EndpointFor(component string) string {
	return c.Endpoints[component]
}
