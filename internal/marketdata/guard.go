package marketdata

import (
	"context"
	"time"

	"github.com/sony/gobreaker"

	"github.com/guttosm/irarb/internal/domain/models"
	"github.com/guttosm/irarb/internal/engine"
	"github.com/guttosm/irarb/internal/logger"
)

// GuardSettings configures a Guarded source.
type GuardSettings struct {
	Name        string        // Breaker name, used in logs
	Timeout     time.Duration // Deadline applied to each call; zero disables it
	MaxFailures uint32        // Consecutive failures that open the breaker
	Cooldown    time.Duration // Time spent open before probing again
	// OnStateChange is called after the breaker changes state.
	OnStateChange func(name string, from, to gobreaker.State)
}

// Guarded wraps quote and spot sources with a per-call deadline and a
// circuit breaker. While the breaker is open calls fail fast with
// gobreaker.ErrOpenState.
type Guarded struct {
	quotes  engine.QuoteSource
	spots   engine.SpotSource
	timeout time.Duration
	cb      *gobreaker.CircuitBreaker
}

// NewGuarded wraps quotes and spots. Both usually share a backend, hence a
// single breaker.
func NewGuarded(quotes engine.QuoteSource, spots engine.SpotSource, s GuardSettings) *Guarded {
	if s.MaxFailures == 0 {
		s.MaxFailures = 3
	}
	if s.Cooldown <= 0 {
		s.Cooldown = 10 * time.Second
	}
	maxFailures := s.MaxFailures
	onChange := s.OnStateChange
	st := gobreaker.Settings{
		Name:    s.Name,
		Timeout: s.Cooldown,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= maxFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.L().Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("breaker state changed")
			if onChange != nil {
				onChange(name, from, to)
			}
		},
	}
	return &Guarded{
		quotes:  quotes,
		spots:   spots,
		timeout: s.Timeout,
		cb:      gobreaker.NewCircuitBreaker(st),
	}
}

// Bids reads the bid side through the breaker, bounded by the call timeout.
func (g *Guarded) Bids(ctx context.Context) (map[string]models.OrderbookLevel, error) {
	return guardedCall(ctx, g, g.quotes.Bids)
}

// Asks reads the ask side through the breaker, bounded by the call timeout.
func (g *Guarded) Asks(ctx context.Context) (map[string]models.OrderbookLevel, error) {
	return guardedCall(ctx, g, g.quotes.Asks)
}

// LastPrices reads spot prices through the breaker, bounded by the call timeout.
func (g *Guarded) LastPrices(ctx context.Context) (map[string]float64, error) {
	return guardedCall(ctx, g, g.spots.LastPrices)
}

// State reports the breaker state.
func (g *Guarded) State() gobreaker.State {
	return g.cb.State()
}

func guardedCall[T any](ctx context.Context, g *Guarded, fn func(context.Context) (T, error)) (T, error) {
	var zero T
	out, err := g.cb.Execute(func() (interface{}, error) {
		cctx := ctx
		if g.timeout > 0 {
			var cancel context.CancelFunc
			cctx, cancel = context.WithTimeout(ctx, g.timeout)
			defer cancel()
		}
		return fn(cctx)
	})
	if err != nil {
		return zero, err
	}
	return out.(T), nil
}
