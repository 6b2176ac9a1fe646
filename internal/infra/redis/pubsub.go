package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/akoun-dev/africahub-sub004/internal/domain"
)

const (
	// reconnectDelay is the initial delay between reconnection attempts.
	reconnectDelay = 5 * time.Second

	// maxReconnectDelay is the maximum delay between reconnection attempts.
	maxReconnectDelay = 60 * time.Second

	// reconnectBackoffMultiplier is the multiplier for exponential backoff.
	reconnectBackoffMultiplier = 2
)

// Publisher broadcasts content change events over a Redis channel so every
// running instance can invalidate its local cache tier.
type Publisher struct {
	client  *redis.Client
	logger  *zap.Logger
	channel string
}

// NewPublisher creates a publisher bound to the given channel.
func NewPublisher(client *redis.Client, logger *zap.Logger, channel string) *Publisher {
	return &Publisher{
		client:  client,
		logger:  logger,
		channel: channel,
	}
}

// Publish sends the event as JSON. Subscribers that are down simply miss the
// message; their entries age out via TTL instead.
func (p *Publisher) Publish(ctx context.Context, event domain.ChangeEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encoding change event: %w", err)
	}

	if err := p.client.Publish(ctx, p.channel, payload).Err(); err != nil {
		p.logger.Error("change event publish failed",
			zap.String("channel", p.channel),
			zap.String("action", string(event.Action)),
			zap.Error(err),
		)

		return &domain.DependencyError{Dependency: "redis", Err: err}
	}

	p.logger.Debug("change event published",
		zap.String("channel", p.channel),
		zap.String("action", string(event.Action)),
		zap.String("content_key", event.ContentKey),
	)

	return nil
}

// EventHandler is invoked for every decoded change event.
type EventHandler func(ctx context.Context, event domain.ChangeEvent)

// Subscriber consumes change events from the invalidation channel and hands
// them to a handler. It reconnects with exponential backoff if the
// connection drops.
type Subscriber struct {
	client  *redis.Client
	logger  *zap.Logger
	channel string
	handler EventHandler

	mu       sync.Mutex
	pubsub   *redis.PubSub
	running  bool
	cancelFn context.CancelFunc
}

// NewSubscriber creates a subscriber for the given channel.
func NewSubscriber(client *redis.Client, logger *zap.Logger, channel string, handler EventHandler) *Subscriber {
	return &Subscriber{
		client:  client,
		logger:  logger,
		channel: channel,
		handler: handler,
	}
}

// Start subscribes and begins processing messages in the background.
func (s *Subscriber) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return nil
	}

	subCtx, cancel := context.WithCancel(ctx)
	s.cancelFn = cancel
	s.pubsub = s.client.Subscribe(subCtx, s.channel)

	// Confirm the subscription before reporting success.
	if _, err := s.pubsub.Receive(subCtx); err != nil {
		cancel()
		_ = s.pubsub.Close()
		s.pubsub = nil
		return &domain.DependencyError{Dependency: "redis", Err: err}
	}

	s.running = true
	go s.processMessages(subCtx)

	s.logger.Info("invalidation subscriber started",
		zap.String("channel", s.channel),
	)

	return nil
}

// Stop cancels processing and closes the subscription.
func (s *Subscriber) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return nil
	}

	if s.cancelFn != nil {
		s.cancelFn()
	}

	if s.pubsub != nil {
		if err := s.pubsub.Close(); err != nil {
			return err
		}
		s.pubsub = nil
	}

	s.running = false
	return nil
}

// processMessages receives and dispatches messages until the context ends.
func (s *Subscriber) processMessages(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
			s.mu.Lock()
			pubsub := s.pubsub
			s.mu.Unlock()

			if pubsub == nil {
				return
			}

			msg, err := pubsub.ReceiveMessage(ctx)
			if err != nil {
				if errors.Is(err, context.Canceled) || errors.Is(ctx.Err(), context.Canceled) {
					return
				}
				s.handleDisconnect(ctx)
				continue
			}

			s.handleMessage(ctx, msg)
		}
	}
}

// handleMessage decodes one event and dispatches it. Malformed payloads are
// logged and dropped; the TTL backstop covers any missed invalidation.
func (s *Subscriber) handleMessage(ctx context.Context, msg *redis.Message) {
	var event domain.ChangeEvent
	if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
		s.logger.Warn("dropping malformed change event",
			zap.String("channel", msg.Channel),
			zap.Error(err),
		)
		return
	}

	s.handler(ctx, event)
}

// handleDisconnect retries the subscription with exponential backoff.
func (s *Subscriber) handleDisconnect(ctx context.Context) {
	delay := reconnectDelay

	for {
		select {
		case <-ctx.Done():
			return
		case <-time.After(delay):
			if s.reconnect(ctx) {
				return
			}

			delay *= reconnectBackoffMultiplier
			if delay > maxReconnectDelay {
				delay = maxReconnectDelay
			}

			s.logger.Warn("invalidation subscriber reconnect failed",
				zap.String("channel", s.channel),
				zap.Duration("retry_in", delay),
			)
		}
	}
}

// reconnect re-creates the subscription and verifies it.
func (s *Subscriber) reconnect(ctx context.Context) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.pubsub != nil {
		_ = s.pubsub.Close()
	}

	s.pubsub = s.client.Subscribe(ctx, s.channel)

	if _, err := s.pubsub.Receive(ctx); err != nil {
		return false
	}

	s.logger.Info("invalidation subscriber reconnected",
		zap.String("channel", s.channel),
	)

	return true
}
