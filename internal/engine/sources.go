package engine

import (
	"context"

	"github.com/guttosm/irarb/internal/domain/models"
)

// SpotSource returns last traded prices keyed by underlier ticker.
// Underliers missing from the result are skipped for the cycle.
type SpotSource interface {
	LastPrices(ctx context.Context) (map[string]float64, error)
}

// QuoteSource returns the top of book keyed by derivative ticker.
// A ticker missing from a side, or present with size 0, is not usable on
// that side for the cycle.
type QuoteSource interface {
	Bids(ctx context.Context) (map[string]models.OrderbookLevel, error)
	Asks(ctx context.Context) (map[string]models.OrderbookLevel, error)
}

// InstrumentCatalog resolves tradeable derivatives and their maturities.
type InstrumentCatalog interface {
	// TradeableInstruments returns the tradeable derivatives of an underlier,
	// in catalog order.
	TradeableInstruments(ctx context.Context, underlier string) ([]models.DerivativeInstrument, error)
	// MaturityOf returns the maturity label of a derivative ticker.
	// ok is false when the catalog does not know the ticker.
	MaturityOf(ctx context.Context, ticker string) (label string, ok bool, err error)
}
