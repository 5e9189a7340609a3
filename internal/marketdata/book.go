package marketdata

import (
	"context"
	"sync"

	"github.com/guttosm/irarb/internal/domain/models"
)

// Book is an in-memory quote and spot source. Reads return copies, so the
// engine always consumes a stable view.
type Book struct {
	mu    sync.RWMutex
	bids  map[string]models.OrderbookLevel
	asks  map[string]models.OrderbookLevel
	spots map[string]float64
}

// NewBook returns an empty Book.
func NewBook() *Book {
	return &Book{
		bids:  make(map[string]models.OrderbookLevel),
		asks:  make(map[string]models.OrderbookLevel),
		spots: make(map[string]float64),
	}
}

// SetLevel stores the top of book of one side. A zero size removes it.
func (b *Book) SetLevel(side Side, ticker string, lvl models.OrderbookLevel) {
	b.mu.Lock()
	defer b.mu.Unlock()
	m := b.bids
	if side == Ask {
		m = b.asks
	}
	if lvl.Size == 0 {
		delete(m, ticker)
		return
	}
	m[ticker] = lvl
}

// SetSpot stores the last traded price of underlier.
func (b *Book) SetSpot(underlier string, price float64) {
	b.mu.Lock()
	b.spots[underlier] = price
	b.mu.Unlock()
}

// Bids returns a copy of the bid side.
func (b *Book) Bids(context.Context) (map[string]models.OrderbookLevel, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return copyLevels(b.bids), nil
}

// Asks returns a copy of the ask side.
func (b *Book) Asks(context.Context) (map[string]models.OrderbookLevel, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return copyLevels(b.asks), nil
}

// LastPrices returns a copy of the spot prices by underlier.
func (b *Book) LastPrices(context.Context) (map[string]float64, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make(map[string]float64, len(b.spots))
	for k, v := range b.spots {
		out[k] = v
	}
	return out, nil
}

func copyLevels(in map[string]models.OrderbookLevel) map[string]models.OrderbookLevel {
	out := make(map[string]models.OrderbookLevel, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
