package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/sony/gobreaker"

	app_errors "relaychat/internal/errors"
)

// BreakerSettings tunes the circuit breaker placed in front of a provider.
type BreakerSettings struct {
	Name         string
	MaxRequests  uint32
	Interval     time.Duration
	Timeout      time.Duration
	MinRequests  uint32
	FailureRatio float64
}

// DefaultBreakerSettings mirrors the thresholds used for hosted model APIs:
// trip after 3+ requests with a 60% failure ratio, half-open again after a minute.
func DefaultBreakerSettings(name string) BreakerSettings {
	return BreakerSettings{
		Name:         name,
		MaxRequests:  5,
		Interval:     10 * time.Second,
		Timeout:      60 * time.Second,
		MinRequests:  3,
		FailureRatio: 0.6,
	}
}

type breakerProvider struct {
	inner   Provider
	breaker *gobreaker.CircuitBreaker
}

// NewBreakerProvider wraps inner so that a failing model endpoint is reported
// as unavailable immediately instead of being dialled on every request.
// It never retries.
func NewBreakerProvider(inner Provider, s BreakerSettings) Provider {
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        s.Name,
		MaxRequests: s.MaxRequests,
		Interval:    s.Interval,
		Timeout:     s.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= s.MinRequests && failureRatio >= s.FailureRatio
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			slog.Warn("Model circuit breaker changed state", "breaker", name, "from", from.String(), "to", to.String())
		},
		IsSuccessful: countsAsSuccess,
	})
	return &breakerProvider{inner: inner, breaker: cb}
}

// countsAsSuccess keeps caller-side outcomes (cancellation, bad prompts) from
// tripping the breaker.
func countsAsSuccess(err error) bool {
	return err == nil ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, app_errors.ErrValidation)
}

func breakerError(err error) error {
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return fmt.Errorf("%w: %v", app_errors.ErrModelUnavailable, err)
	}
	return err
}

func (b *breakerProvider) Generate(ctx context.Context, req *GenerateRequest) (*GenerateResponse, error) {
	result, err := b.breaker.Execute(func() (interface{}, error) {
		return b.inner.Generate(ctx, req)
	})
	if err != nil {
		return nil, breakerError(err)
	}
	return result.(*GenerateResponse), nil
}

func (b *breakerProvider) GenerateStream(ctx context.Context, req *GenerateRequest, ch chan<- StreamResponse) error {
	called := false
	_, err := b.breaker.Execute(func() (interface{}, error) {
		called = true
		return nil, b.inner.GenerateStream(ctx, req, ch)
	})
	if !called {
		close(ch)
	}
	if err != nil {
		return breakerError(err)
	}
	return nil
}

func (b *breakerProvider) ListModels(ctx context.Context) (json.RawMessage, error) {
	result, err := b.breaker.Execute(func() (interface{}, error) {
		return b.inner.ListModels(ctx)
	})
	if err != nil {
		return nil, breakerError(err)
	}
	return result.(json.RawMessage), nil
}
