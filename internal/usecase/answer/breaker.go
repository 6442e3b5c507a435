package answer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"github.com/jbritton/cvchat/internal/domain"
)

// CircuitCompleter wraps a Completer with a circuit breaker so a failing
// provider is not hammered with doomed requests. Quota errors do not trip
// the breaker: the quota path has its own degraded answer and tripping on
// it would turn quota exhaustion into generic fallbacks.
type CircuitCompleter struct {
	inner   Completer
	breaker *gobreaker.CircuitBreaker
}

// NewCircuitCompleter wraps inner with a breaker that opens after three
// consecutive non-quota failures and probes again after 30 seconds.
func NewCircuitCompleter(inner Completer, log *zap.Logger) *CircuitCompleter {
	if log == nil {
		log = zap.NewNop()
	}
	settings := gobreaker.Settings{
		Name:    "completion",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
		IsSuccessful: func(err error) bool {
			if err == nil {
				return true
			}
			// Quota exhaustion is a provider account state, not an outage.
			return errors.Is(err, domain.ErrCompletionQuota)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn("completion circuit state change",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()))
		},
	}
	return &CircuitCompleter{
		inner:   inner,
		breaker: gobreaker.NewCircuitBreaker(settings),
	}
}

// Complete delegates through the breaker. An open circuit is reported as a
// provider error so the caller serves the fixed fallback.
func (c *CircuitCompleter) Complete(ctx context.Context, system, prompt string) (string, error) {
	out, err := c.breaker.Execute(func() (interface{}, error) {
		return c.inner.Complete(ctx, system, prompt)
	})
	if err != nil {
		if err == gobreaker.ErrOpenState || err == gobreaker.ErrTooManyRequests {
			return "", fmt.Errorf("%w: completion circuit open", domain.ErrCompletionProvider)
		}
		return "", err
	}
	text, _ := out.(string)
	return text, nil
}
