package services

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"
)

// Submission lifecycle events published for downstream consumers
const (
	EventSubmissionCreated   = "submission.created"
	EventSubmissionCompleted = "submission.completed"
	EventSubmissionFailed    = "submission.failed"
	EventSubmissionSwept     = "submission.swept"
)

const eventsQueueName = "submission_events"

// EventsService publishes submission lifecycle events to RabbitMQ. The
// broker is optional: a nil *EventsService is safe to call, publishing is
// best effort, and generation itself never depends on the queue.
type EventsService struct {
	conn    *amqp.Connection
	channel *amqp.Channel
}

func NewEventsService() (*EventsService, error) {
	host := getEnv("RABBITMQ_HOST", "localhost")
	port := getEnv("RABBITMQ_PORT", "5672")
	user := getEnv("RABBITMQ_USER", "guest")
	pass := getEnv("RABBITMQ_PASS", "guest")

	url := fmt.Sprintf("amqp://%s:%s@%s:%s/", user, pass, host, port)

	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	_, err = channel.QueueDeclare(
		eventsQueueName, // name
		true,            // durable
		false,           // delete when unused
		false,           // exclusive
		false,           // no-wait
		nil,             // arguments
	)
	if err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare queue: %w", err)
	}

	return &EventsService{conn: conn, channel: channel}, nil
}

// PublishSubmissionEvent publishes one lifecycle event. Failures are logged
// and swallowed so a broker outage never fails a user request.
func (s *EventsService) PublishSubmissionEvent(ctx context.Context, event, submissionID string, extra map[string]interface{}) {
	if s == nil {
		return
	}

	message := map[string]interface{}{
		"event":         event,
		"submission_id": submissionID,
	}
	for key, value := range extra {
		message[key] = value
	}

	body, err := json.Marshal(message)
	if err != nil {
		logrus.Warnf("Failed to marshal submission event: %v", err)
		return
	}

	err = s.channel.PublishWithContext(ctx,
		"",              // exchange
		eventsQueueName, // routing key
		false,           // mandatory
		false,           // immediate
		amqp.Publishing{
			ContentType: "application/json",
			Body:        body,
			Timestamp:   time.Now(),
		},
	)
	if err != nil {
		logrus.Warnf("Failed to publish submission event %s for %s: %v", event, submissionID, err)
		return
	}

	logrus.Debugf("Published %s for submission %s", event, submissionID)
}

// Close closes the RabbitMQ connection
func (s *EventsService) Close() error {
	if s == nil {
		return nil
	}
	if s.channel != nil {
		if err := s.channel.Close(); err != nil {
			logrus.Warnf("Error closing channel: %v", err)
		}
	}
	if s.conn != nil {
		if err := s.conn.Close(); err != nil {
			logrus.Warnf("Error closing connection: %v", err)
		}
	}
	return nil
}

// getEnv gets environment variable with fallback default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
