// Package notify is the best-effort outbound side of the store. A dispatch
// attempt never blocks, fails or rolls back a store mutation: failures are
// logged, counted and swallowed.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"prepbuddy/pkg/circuitbreaker"
	"prepbuddy/pkg/metrics"
	"prepbuddy/pkg/mq"
)

type Kind string

const (
	KindDailyReminder  Kind = "daily_reminder"
	KindProgressUpdate Kind = "progress_update"
)

// Payload is the wire body for both channels.
type Payload struct {
	Type           Kind     `json:"type"`
	Email          string   `json:"email"`
	CurrentDay     int      `json:"currentDay"`
	CompletionRate *float64 `json:"completionRate,omitempty"`
	Streak         *int     `json:"streak,omitempty"`
}

type Dispatcher struct {
	webhookURL string
	token      string
	httpClient *http.Client
	cb         *circuitbreaker.CircuitBreaker
	publisher  *mq.Publisher // optional, nil when MQ is not configured
	logger     *zap.Logger
}

func NewDispatcher(webhookURL, token string, publisher *mq.Publisher, logger *zap.Logger) *Dispatcher {
	return &Dispatcher{
		webhookURL: webhookURL,
		token:      token,
		httpClient: &http.Client{
			Timeout: 5 * time.Second,
		},
		// After repeated endpoint failures the breaker suppresses calls
		// for a while instead of burning a timeout per dispatch.
		cb:        circuitbreaker.NewCircuitBreaker(circuitbreaker.DefaultConfig()),
		publisher: publisher,
		logger:    logger,
	}
}

// Send attempts one outbound call per configured channel and reports
// whether at least one succeeded. It never retries and never returns an
// error to the caller.
func (d *Dispatcher) Send(ctx context.Context, kind Kind, payload Payload) bool {
	payload.Type = kind

	sent := false
	if d.webhookURL != "" {
		err := d.cb.Execute(func() error {
			return d.postWebhook(ctx, payload)
		})
		if err != nil {
			d.logger.Warn("Notification webhook failed",
				zap.String("kind", string(kind)),
				zap.Error(err),
			)
			metrics.IncrementNotification(string(kind), "failed")
		} else {
			sent = true
			metrics.IncrementNotification(string(kind), "sent")
		}
	}

	if d.publisher != nil {
		routingKey := "notification." + string(kind)
		if err := d.publisher.Publish(routingKey, payload); err != nil {
			d.logger.Warn("Notification publish failed",
				zap.String("routing_key", routingKey),
				zap.Error(err),
			)
			metrics.IncrementNotification(string(kind), "failed")
		} else {
			sent = true
			metrics.IncrementNotification(string(kind), "sent")
		}
	}

	return sent
}

func (d *Dispatcher) postWebhook(ctx context.Context, payload Payload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.webhookURL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if d.token != "" {
		req.Header.Set("Authorization", "Bearer "+d.token)
	}

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("notification endpoint returned %d", resp.StatusCode)
	}
	return nil
}
