// Package notify delivers reminder batches outside the process.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/codeGROOVE-dev/retry"

	"github.com/rcliao/babylog/internal/model"
)

const (
	defaultTimeout  = 10 * time.Second
	defaultAttempts = 3
	defaultDelay    = time.Second
	maxDelay        = 30 * time.Second
)

// Payload is the JSON body posted to the webhook.
type Payload struct {
	SentAt    time.Time        `json:"sent_at"`
	Reminders []model.Reminder `json:"reminders"`
}

// Webhook posts every reminder batch to an HTTP endpoint. Server errors,
// rate limiting and network failures are retried; other non-2xx responses
// fail immediately.
type Webhook struct {
	url      string
	client   *http.Client
	attempts uint
	delay    time.Duration
	logger   *slog.Logger
}

// WebhookOption configures a Webhook.
type WebhookOption func(*Webhook)

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(c *http.Client) WebhookOption {
	return func(w *Webhook) { w.client = c }
}

// WithTimeout sets the per-request timeout of the default client.
func WithTimeout(d time.Duration) WebhookOption {
	return func(w *Webhook) { w.client = &http.Client{Timeout: d} }
}

// WithAttempts sets how many times a batch is tried.
func WithAttempts(n uint) WebhookOption {
	return func(w *Webhook) { w.attempts = n }
}

// WithRetryDelay sets the base backoff delay.
func WithRetryDelay(d time.Duration) WebhookOption {
	return func(w *Webhook) { w.delay = d }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) WebhookOption {
	return func(w *Webhook) { w.logger = l }
}

// NewWebhook creates a sink posting to url.
func NewWebhook(url string, opts ...WebhookOption) *Webhook {
	w := &Webhook{
		url:      url,
		client:   &http.Client{Timeout: defaultTimeout},
		attempts: defaultAttempts,
		delay:    defaultDelay,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.attempts == 0 {
		w.attempts = 1
	}
	if w.delay <= 0 {
		w.delay = defaultDelay
	}
	w.logger = w.logger.With("component", "webhook")
	return w
}

// Replace posts the batch. The receiver is expected to drop whatever it was
// holding and schedule these reminders instead.
func (w *Webhook) Replace(ctx context.Context, reminders []model.Reminder) error {
	if reminders == nil {
		reminders = []model.Reminder{}
	}
	body, err := json.Marshal(Payload{SentAt: time.Now().UTC(), Reminders: reminders})
	if err != nil {
		return fmt.Errorf("encode reminders: %w", err)
	}

	err = retry.Do(
		func() error {
			return w.post(ctx, body)
		},
		retry.Context(ctx),
		retry.Attempts(w.attempts),
		retry.Delay(w.delay),
		retry.MaxDelay(maxDelay),
		retry.DelayType(retry.FullJitterBackoffDelay),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			w.logger.Debug("retrying webhook delivery", "attempt", n+1, "url", w.url, "error", err)
		}),
	)
	if err != nil {
		return fmt.Errorf("webhook %s: %w", w.url, err)
	}
	w.logger.Info("webhook delivered", "url", w.url, "reminders", len(reminders))
	return nil
}

func (w *Webhook) post(ctx context.Context, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(body))
	if err != nil {
		return retry.Unrecoverable(fmt.Errorf("creating request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "babylog/1.0")

	resp, err := w.client.Do(req)
	if err != nil {
		return err
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			w.logger.Debug("failed to close response body", "error", err)
		}
	}()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	msg, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
	statusErr := fmt.Errorf("HTTP %d: %s", resp.StatusCode, bytes.TrimSpace(msg))
	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= http.StatusInternalServerError {
		return statusErr
	}
	return retry.Unrecoverable(statusErr)
}
