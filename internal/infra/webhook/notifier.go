// Package webhook notifies downstream caches (CDN purgers, edge workers)
// about content changes over HTTP.
package webhook

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"

	"github.com/akoun-dev/africahub-sub004/internal/domain"
)

// ClientConfig holds configuration for a webhook endpoint client.
type ClientConfig struct {
	Endpoint string
	Timeout  time.Duration
	Retry    RetryConfig
	CB       CBConfig
}

// RetryConfig holds retry configuration.
type RetryConfig struct {
	MaxAttempts int
	WaitTime    time.Duration
	MaxWaitTime time.Duration
}

// CBConfig holds circuit breaker configuration.
type CBConfig struct {
	MaxRequests  uint32
	Interval     time.Duration
	Timeout      time.Duration
	FailureRatio float64
}

// newRestyClient creates a Resty HTTP client with retry configuration.
func newRestyClient(cfg ClientConfig) *resty.Client {
	client := resty.New().
		SetBaseURL(cfg.Endpoint).
		SetTimeout(cfg.Timeout).
		SetRetryCount(cfg.Retry.MaxAttempts).
		SetRetryWaitTime(cfg.Retry.WaitTime).
		SetRetryMaxWaitTime(cfg.Retry.MaxWaitTime).
		AddRetryCondition(func(r *resty.Response, err error) bool {
			// Retry on network errors or 5xx status codes
			if err != nil {
				return true
			}

			return r.StatusCode() >= 500
		})

	return client
}

// newCircuitBreaker creates a circuit breaker for one endpoint.
func newCircuitBreaker(name string, cfg CBConfig) *gobreaker.CircuitBreaker[*resty.Response] {
	settings := gobreaker.Settings{
		Name:        name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)

			return counts.Requests >= 3 && failureRatio >= cfg.FailureRatio
		},
	}

	return gobreaker.NewCircuitBreaker[*resty.Response](settings)
}

// endpoint is one configured downstream target with its own breaker, so a
// dead CDN purger cannot exhaust retries meant for a healthy one.
type endpoint struct {
	url    string
	client *resty.Client
	cb     *gobreaker.CircuitBreaker[*resty.Response]
}

// Notifier fans a change event out to every configured endpoint.
// Notification is best-effort: failures are logged, never surfaced to the
// mutation that triggered them.
type Notifier struct {
	endpoints []endpoint
	logger    *zap.Logger
}

// NewNotifier builds a notifier from per-endpoint configs.
func NewNotifier(cfgs []ClientConfig, logger *zap.Logger) *Notifier {
	endpoints := make([]endpoint, 0, len(cfgs))
	for _, cfg := range cfgs {
		endpoints = append(endpoints, endpoint{
			url:    cfg.Endpoint,
			client: newRestyClient(cfg),
			cb:     newCircuitBreaker(cfg.Endpoint, cfg.CB),
		})
	}

	return &Notifier{
		endpoints: endpoints,
		logger:    logger,
	}
}

// Notify POSTs the event to every endpoint.
func (n *Notifier) Notify(ctx context.Context, event domain.ChangeEvent) {
	for _, ep := range n.endpoints {
		n.notifyOne(ctx, ep, event)
	}
}

func (n *Notifier) notifyOne(ctx context.Context, ep endpoint, event domain.ChangeEvent) {
	_, err := ep.cb.Execute(func() (*resty.Response, error) {
		r, err := ep.client.R().
			SetContext(ctx).
			SetHeader("Content-Type", "application/json").
			SetBody(event).
			Post("")
		if err != nil {
			return nil, err
		}
		if r.IsError() {
			return nil, fmt.Errorf("webhook returned status %d", r.StatusCode())
		}

		return r, nil
	})
	if err != nil {
		n.logger.Warn("purge webhook failed",
			zap.String("endpoint", ep.url),
			zap.String("action", string(event.Action)),
			zap.String("state", ep.cb.State().String()),
			zap.Error(err),
		)

		return
	}

	n.logger.Debug("purge webhook delivered",
		zap.String("endpoint", ep.url),
		zap.String("content_key", event.ContentKey),
	)
}
