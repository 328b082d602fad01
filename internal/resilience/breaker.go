// Package resilience guards item sources with a circuit breaker so a store
// that is down fails list pages fast instead of holding every request open.
// It uses the github.com/sony/gobreaker library.
package resilience

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/sony/gobreaker"

	"github.com/DukeRupert/pagedlist"
)

// ErrOpen is returned while the breaker rejects calls.
var ErrOpen = gobreaker.ErrOpenState

// Config holds the configuration for a circuit breaker.
type Config struct {
	// Name is the circuit breaker name for logging
	Name string

	// MaxRequests is the maximum number of requests allowed in half-open state
	MaxRequests uint32

	// Interval is the cyclic period of the closed state to clear counts
	Interval time.Duration

	// Timeout is how long to stay open before trying again
	Timeout time.Duration

	// FailureThreshold is the failure ratio that trips the circuit
	FailureThreshold float64

	// MinRequests is the minimum number of requests before the ratio counts
	MinRequests uint32
}

// SourceConfig returns the configuration used for item stores.
func SourceConfig(name string) Config {
	return Config{
		Name:             name,
		MaxRequests:      3,
		Interval:         time.Minute,
		Timeout:          30 * time.Second,
		FailureThreshold: 0.6,
		MinRequests:      5,
	}
}

// CircuitBreaker wraps gobreaker.CircuitBreaker.
type CircuitBreaker struct {
	breaker *gobreaker.CircuitBreaker
	name    string
}

// New creates a circuit breaker. Context cancellation is not counted as a
// failure: a client hanging up says nothing about the store.
func New(cfg Config, logger *slog.Logger) *CircuitBreaker {
	settings := gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < cfg.MinRequests {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return failureRatio >= cfg.FailureThreshold
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state changed",
				"circuit", name,
				"from", from.String(),
				"to", to.String())
		},
	}

	return &CircuitBreaker{
		breaker: gobreaker.NewCircuitBreaker(settings),
		name:    cfg.Name,
	}
}

// State returns the current state of the circuit breaker.
func (cb *CircuitBreaker) State() gobreaker.State {
	return cb.breaker.State()
}

// Name returns the name of the circuit breaker.
func (cb *CircuitBreaker) Name() string {
	return cb.name
}

// IsOpen returns true if the circuit breaker is in the open state.
func (cb *CircuitBreaker) IsOpen() bool {
	return cb.breaker.State() == gobreaker.StateOpen
}

// guarded sends every source call through a breaker.
type guarded[T any] struct {
	cb  *CircuitBreaker
	src pagedlist.Source[T]
}

// Guard wraps src so Count and Fetch fail with ErrOpen while cb is open.
func Guard[T any](cb *CircuitBreaker, src pagedlist.Source[T]) pagedlist.Source[T] {
	return &guarded[T]{cb: cb, src: src}
}

func (g *guarded[T]) Count(ctx context.Context) (int, error) {
	n, err := g.cb.breaker.Execute(func() (interface{}, error) {
		return g.src.Count(ctx)
	})
	if err != nil {
		return 0, err
	}
	return n.(int), nil
}

func (g *guarded[T]) Fetch(ctx context.Context, offset, limit int) ([]T, error) {
	items, err := g.cb.breaker.Execute(func() (interface{}, error) {
		return g.src.Fetch(ctx, offset, limit)
	})
	if err != nil {
		return nil, err
	}
	return items.([]T), nil
}
