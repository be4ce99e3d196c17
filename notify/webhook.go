package notify

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
)

// WebhookPayload is the JSON body posted to the webhook URL for each
// notification.
type WebhookPayload struct {
	ID        string `json:"id"`
	Level     Level  `json:"level"`
	Message   string `json:"message"`
	Timestamp int64  `json:"timestamp"`
	Source    string `json:"source"`
}

// WebhookNotifier forwards notifications to an external HTTP endpoint.
// Delivery is asynchronous; failures are logged and never reach the caller.
type WebhookNotifier struct {
	url    string
	client *http.Client
	log    *slog.Logger
	wg     sync.WaitGroup
}

// NewWebhookNotifier creates a notifier posting to url. If url is empty the
// notifier is a no-op.
func NewWebhookNotifier(url string, log *slog.Logger) *WebhookNotifier {
	if log == nil {
		log = slog.Default()
	}
	return &WebhookNotifier{
		url: url,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		log: log,
	}
}

func (w *WebhookNotifier) Success(msg string) { w.dispatch(LevelSuccess, msg) }
func (w *WebhookNotifier) Error(msg string)   { w.dispatch(LevelError, msg) }

// Wait blocks until every in-flight delivery has finished.
func (w *WebhookNotifier) Wait() { w.wg.Wait() }

func (w *WebhookNotifier) dispatch(level Level, msg string) {
	if w.url == "" {
		return
	}
	payload := &WebhookPayload{
		ID:        uuid.NewString(),
		Level:     level,
		Message:   msg,
		Timestamp: time.Now().Unix(),
		Source:    "qrstudio",
	}
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		if err := w.send(payload); err != nil {
			w.log.Error("webhook delivery failed", "error", err, "id", payload.ID)
		}
	}()
}

func (w *WebhookNotifier) send(payload *WebhookPayload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("webhook marshal payload: %w", err)
	}

	resp, err := w.client.Post(w.url, "application/json", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("webhook POST: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		w.log.Debug("webhook delivered", "status", resp.StatusCode, "id", payload.ID)
	} else {
		w.log.Warn("webhook non-2xx response", "status", resp.StatusCode, "id", payload.ID)
	}
	return nil
}
