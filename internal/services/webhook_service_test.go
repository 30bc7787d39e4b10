package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/strategyloom/strategy-services-backend/internal/config"
	"github.com/strategyloom/strategy-services-backend/internal/models"
)

func webhookTestConfig(url string) *config.WebhookConfig {
	return &config.WebhookConfig{
		Endpoints: map[string]string{
			models.ComponentMessageMultiplier: url,
		},
		BearerToken: "test-token",
		Timeout:     5 * time.Second,
	}
}

func TestGenerateComponent(t *testing.T) {
	t.Run("json response is parsed and raw body kept", func(t *testing.T) {
		var gotAuth string
		var gotBody map[string]interface{}
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotAuth = r.Header.Get("Authorization")
			require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"milestone": "Launch week"}`))
		}))
		defer server.Close()

		svc := NewWebhookService(webhookTestConfig(server.URL))
		parsed, raw, err := svc.GenerateComponent(context.Background(), models.ComponentMessageMultiplier, map[string]interface{}{
			"business_description": "B2B SaaS",
		})

		require.NoError(t, err)
		assert.Equal(t, "Bearer test-token", gotAuth)
		assert.Equal(t, models.ComponentMessageMultiplier, gotBody["component"])
		assert.JSONEq(t, `{"milestone": "Launch week"}`, raw)

		m, ok := parsed.(map[string]interface{})
		require.True(t, ok)
		assert.Equal(t, "Launch week", m["milestone"])
	})

	t.Run("unparseable body is an error with the raw body kept", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"milestone": INVALID JSON %%%`))
		}))
		defer server.Close()

		svc := NewWebhookService(webhookTestConfig(server.URL))
		parsed, raw, err := svc.GenerateComponent(context.Background(), models.ComponentMessageMultiplier, nil)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "unparseable body")
		assert.Nil(t, parsed)
		assert.Equal(t, `{"milestone": INVALID JSON %%%`, raw)
	})

	t.Run("non 2xx response is an error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
			w.Write([]byte("upstream down"))
		}))
		defer server.Close()

		svc := NewWebhookService(webhookTestConfig(server.URL))
		_, raw, err := svc.GenerateComponent(context.Background(), models.ComponentMessageMultiplier, nil)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "status 502")
		assert.Equal(t, "upstream down", raw)
	})

	t.Run("missing endpoint is an error", func(t *testing.T) {
		svc := NewWebhookService(webhookTestConfig(""))
		_, _, err := svc.GenerateComponent(context.Background(), models.ComponentEventFunnel, nil)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "no webhook configured")
	})
}

func TestChat(t *testing.T) {
	t.Run("no chat url falls back to demo reply", func(t *testing.T) {
		svc := NewWebhookService(&config.WebhookConfig{Timeout: time.Second})

		response, err := svc.Chat(context.Background(), &models.ChatRequest{Message: "hello"})

		require.NoError(t, err)
		assert.True(t, response.Demo)
		assert.NotEmpty(t, response.Reply)
	})

	t.Run("reply field is extracted", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"reply": "Try a webinar funnel"}`))
		}))
		defer server.Close()

		cfg := webhookTestConfig("")
		cfg.ChatURL = server.URL
		svc := NewWebhookService(cfg)

		response, err := svc.Chat(context.Background(), &models.ChatRequest{Message: "what funnel?"})

		require.NoError(t, err)
		assert.False(t, response.Demo)
		assert.Equal(t, "Try a webinar funnel", response.Reply)
	})

	t.Run("output field is a fallback key", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"output": "Focus on retention"}`))
		}))
		defer server.Close()

		cfg := webhookTestConfig("")
		cfg.ChatURL = server.URL
		svc := NewWebhookService(cfg)

		response, err := svc.Chat(context.Background(), &models.ChatRequest{Message: "advice"})

		require.NoError(t, err)
		assert.Equal(t, "Focus on retention", response.Reply)
	})

	t.Run("plain text reply passes through", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("Just do it"))
		}))
		defer server.Close()

		cfg := webhookTestConfig("")
		cfg.ChatURL = server.URL
		svc := NewWebhookService(cfg)

		response, err := svc.Chat(context.Background(), &models.ChatRequest{Message: "motivate me"})

		require.NoError(t, err)
		assert.Equal(t, "Just do it", response.Reply)
	})

	t.Run("webhook failure surfaces as error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer server.Close()

		cfg := webhookTestConfig("")
		cfg.ChatURL = server.URL
		svc := NewWebhookService(cfg)

		_, err := svc.Chat(context.Background(), &models.ChatRequest{Message: "hello"})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "chat webhook failed")
	})
}
