package translation

import (
	"context"
	"log/slog"
	"time"

	"github.com/sony/gobreaker"
)

// BreakerTranslator stops calling a failing translator for a cool-down
// period, so a dead service costs one timeout instead of one per word
type BreakerTranslator struct {
	next MachineTranslator
	cb   *gobreaker.CircuitBreaker
}

// NewBreakerTranslator trips after the given number of consecutive failures
func NewBreakerTranslator(next MachineTranslator, failures uint32, cooldown time.Duration) *BreakerTranslator {
	if failures == 0 {
		failures = 3
	}
	settings := gobreaker.Settings{
		Name:        "translate",
		MaxRequests: 1,
		Timeout:     cooldown,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= failures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			slog.Warn("circuit breaker state changed", "breaker", name, "from", from.String(), "to", to.String())
		},
	}
	return &BreakerTranslator{next: next, cb: gobreaker.NewCircuitBreaker(settings)}
}

// Translate forwards to the wrapped translator unless the breaker is open
func (b *BreakerTranslator) Translate(ctx context.Context, text string) (string, error) {
	out, err := b.cb.Execute(func() (interface{}, error) {
		return b.next.Translate(ctx, text)
	})
	if err != nil {
		return "", err
	}
	return out.(string), nil
}

// State returns the current breaker state
func (b *BreakerTranslator) State() gobreaker.State {
	return b.cb.State()
}
