package notifications

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"scrambleorg/internal/config"
)

const userAgent = "scrambleorg"

// RunSummary describes a finished run for notification purposes.
type RunSummary struct {
	RunID       string
	Competition string
	Moved       int
	Missing     int
	Warnings    int
	Duration    time.Duration
}

// Service defines the notification surface used by the processor.
type Service interface {
	NotifyRunCompleted(ctx context.Context, summary RunSummary) error
	NotifyRunFailed(ctx context.Context, competition string, err error) error
	TestNotification(ctx context.Context) error
}

// NewService builds a notification service backed by ntfy when configured.
// When no ntfy topic is configured, a noop implementation is returned.
func NewService(cfg *config.Config) Service {
	topic := strings.TrimSpace(cfg.Notifications.NtfyTopic)
	if topic == "" {
		return noopService{}
	}

	timeout := time.Duration(cfg.Notifications.RequestTimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &ntfyService{
		endpoint: topic,
		client:   &http.Client{Timeout: timeout},
	}
}

type payload struct {
	title    string
	message  string
	tags     []string
	priority string
}

type ntfyService struct {
	endpoint string
	client   *http.Client
}

func (n *ntfyService) NotifyRunCompleted(ctx context.Context, summary RunSummary) error {
	competition := strings.TrimSpace(summary.Competition)
	var b strings.Builder
	fmt.Fprintf(&b, "Scrambles organized: %s\n", competition)
	fmt.Fprintf(&b, "%d files moved in %s", summary.Moved, roundDuration(summary.Duration))
	data := payload{
		title: "scrambleorg - Organized",
		tags:  []string{"scrambleorg", "organized"},
	}
	if summary.Missing > 0 || summary.Warnings > 0 {
		fmt.Fprintf(&b, "\n%d missing, %d warnings", summary.Missing, summary.Warnings)
		data.title = "scrambleorg - Organized (with warnings)"
		data.tags = append(data.tags, "warning")
	}
	data.message = b.String()
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyRunFailed(ctx context.Context, competition string, err error) error {
	var b strings.Builder
	b.WriteString("Organizing failed")
	if competition = strings.TrimSpace(competition); competition != "" {
		b.WriteString(" for ")
		b.WriteString(competition)
	}
	b.WriteString(": ")
	if err != nil {
		b.WriteString(strings.TrimSpace(err.Error()))
	} else {
		b.WriteString("unknown")
	}
	return n.send(ctx, payload{
		title:    "scrambleorg - Error",
		message:  b.String(),
		tags:     []string{"scrambleorg", "error"},
		priority: "high",
	})
}

func (n *ntfyService) TestNotification(ctx context.Context) error {
	return n.send(ctx, payload{
		title:    "scrambleorg - Test",
		message:  "Notification system test",
		tags:     []string{"scrambleorg", "test"},
		priority: "low",
	})
}

func (n *ntfyService) send(ctx context.Context, data payload) error {
	if n == nil || n.client == nil {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, strings.NewReader(data.message))
	if err != nil {
		return fmt.Errorf("build ntfy request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Content-Type", "text/plain; charset=utf-8")
	if data.title != "" {
		req.Header.Set("Title", data.title)
	}
	if len(data.tags) > 0 {
		req.Header.Set("Tags", strings.Join(data.tags, ","))
	}
	if data.priority != "" && data.priority != "default" {
		req.Header.Set("Priority", data.priority)
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("send ntfy notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("ntfy returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

func roundDuration(d time.Duration) string {
	d = d.Round(time.Second)
	if d <= 0 {
		return "0s"
	}
	return d.String()
}

type noopService struct{}

func (noopService) NotifyRunCompleted(context.Context, RunSummary) error { return nil }
func (noopService) NotifyRunFailed(context.Context, string, error) error { return nil }
func (noopService) TestNotification(context.Context) error               { return nil }
