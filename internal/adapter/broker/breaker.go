package broker

import (
	"context"
	"errors"
	"fmt"

	"banking-core/config"
	"banking-core/internal/core/ports"
	"banking-core/pkg/logger"

	"github.com/rs/zerolog"
	"github.com/sony/gobreaker"
)

// ErrBrokerUnavailable is returned without calling the bus while the
// breaker is open or probing.
var ErrBrokerUnavailable = errors.New("broker unavailable")

// BreakerPublisher short-circuits publishes after repeated bus failures.
// A rejected publish is an ordinary failed attempt for the dispatcher.
type BreakerPublisher struct {
	next ports.EventPublisher
	cb   *gobreaker.CircuitBreaker
}

func NewBreakerPublisher(next ports.EventPublisher, name string, cfg config.BreakerConfig, log zerolog.Logger) *BreakerPublisher {
	log = logger.Component(log, "circuit_breaker")
	failures := cfg.ConsecutiveFailures
	if failures == 0 {
		failures = 5
	}

	settings := gobreaker.Settings{
		Name:        "publisher-" + name,
		MaxRequests: cfg.HalfOpenRequests,
		Timeout:     cfg.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= failures
		},
		// The caller's own cancellation says nothing about the bus.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			ev := log.Info()
			if to == gobreaker.StateOpen {
				ev = log.Warn()
			}
			ev.Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("circuit breaker state changed")
		},
	}

	return &BreakerPublisher{next: next, cb: gobreaker.NewCircuitBreaker(settings)}
}

func (p *BreakerPublisher) Publish(ctx context.Context, topic, key string, payload []byte) error {
	_, err := p.cb.Execute(func() (interface{}, error) {
		return nil, p.next.Publish(ctx, topic, key, payload)
	})
	switch {
	case errors.Is(err, gobreaker.ErrOpenState):
		return fmt.Errorf("%w: circuit breaker open", ErrBrokerUnavailable)
	case errors.Is(err, gobreaker.ErrTooManyRequests):
		return fmt.Errorf("%w: circuit breaker half-open", ErrBrokerUnavailable)
	}
	return err
}

// State reports the breaker state, e.g. "closed" or "open".
func (p *BreakerPublisher) State() string {
	return p.cb.State().String()
}

// Ping lets /health report an open breaker as a degraded dependency.
func (p *BreakerPublisher) Ping(ctx context.Context) error {
	if state := p.State(); state == gobreaker.StateOpen.String() {
		return fmt.Errorf("%w: circuit breaker %s", ErrBrokerUnavailable, state)
	}
	return nil
}

func (p *BreakerPublisher) Name() string {
	return "broker"
}
