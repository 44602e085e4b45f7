// Package notify delivers reminder notifications to pluggable sinks.
// The desktop toast/sound integrations of the original client are out of
// scope; the service logs every notification and can mirror it to a
// webhook for external delivery.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"planner/internal/logger"
)

type Kind string

const (
	KindReminder Kind = "reminder"
	KindOverdue  Kind = "overdue"
)

type Notification struct {
	Kind    Kind      `json:"kind"`
	TaskID  uint      `json:"task_id"`
	UserID  string    `json:"user_id"`
	Title   string    `json:"title"`
	Message string    `json:"message"`
	DueAt   time.Time `json:"due_at"`
}

type Notifier interface {
	Notify(ctx context.Context, n Notification) error
}

// LogNotifier writes notifications to the application log.
type LogNotifier struct{}

func NewLogNotifier() *LogNotifier { return &LogNotifier{} }

func (*LogNotifier) Notify(_ context.Context, n Notification) error {
	logger.Info("notification",
		zap.String("kind", string(n.Kind)),
		zap.Uint("task_id", n.TaskID),
		zap.String("user_id", n.UserID),
		zap.String("title", n.Title),
		zap.String("message", n.Message),
		zap.Time("due_at", n.DueAt),
	)
	return nil
}

// WebhookNotifier POSTs each notification as JSON to a configured URL.
type WebhookNotifier struct {
	url    string
	client *http.Client
}

func NewWebhookNotifier(url string) *WebhookNotifier {
	return &WebhookNotifier{
		url:    url,
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

func (w *WebhookNotifier) Notify(ctx context.Context, n Notification) error {
	body, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("marshal notification: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.client.Do(req)
	if err != nil {
		return fmt.Errorf("deliver webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}
	return nil
}

// Multi fans a notification out to several sinks; the first error wins
// but every sink is attempted.
type Multi []Notifier

func (m Multi) Notify(ctx context.Context, n Notification) error {
	var firstErr error
	for _, notifier := range m {
		if err := notifier.Notify(ctx, n); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
