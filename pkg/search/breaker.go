package search

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/sony/gobreaker"
	"github.com/polisearch/polisearch/pkg/alert"
	"github.com/polisearch/polisearch/pkg/config"
	"github.com/polisearch/polisearch/pkg/types"
)

// BreakerBackend wraps a Backend with circuit breaking so a failing search
// service sheds load quickly instead of timing out every attempt.
type BreakerBackend struct {
	backend Backend
	cb      *gobreaker.CircuitBreaker
}

// NewBreakerBackend creates a circuit-breaking backend wrapper.
func NewBreakerBackend(backend Backend, cfg config.CircuitBreakerConfig, alerter alert.Alerter, name string) *BreakerBackend {
	st := gobreaker.Settings{
		Name:        name,
		MaxRequests: cfg.MaxRequests,
		Interval:    time.Duration(cfg.Interval) * time.Second,
		Timeout:     time.Duration(cfg.Timeout) * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 3 && failureRatio >= cfg.ReadyToTripRatio
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			if to == gobreaker.StateOpen {
				msg := fmt.Sprintf("Circuit breaker '%s' changed status from %s to %s. Too many failures detected.", name, from, to)
				if alerter != nil {
					_ = alerter.Alert(fmt.Sprintf("URGENT: Circuit Breaker Tripped - %s", name), msg)
				}
				slog.Warn("circuit breaker tripped", "name", name, "from", from.String(), "to", to.String())
			}
		},
	}

	return &BreakerBackend{
		backend: backend,
		cb:      gobreaker.NewCircuitBreaker(st),
	}
}

// Search implements Backend.
func (b *BreakerBackend) Search(ctx context.Context, req Request) ([]types.DocumentChunk, error) {
	result, err := b.cb.Execute(func() (interface{}, error) {
		return b.backend.Search(ctx, req)
	})
	if err != nil {
		return nil, err
	}
	return result.([]types.DocumentChunk), nil
}

// Close implements Backend.
func (b *BreakerBackend) Close() error {
	return b.backend.Close()
}
