package models

// OrderbookLevel is a single (price, size) entry at the top of a book.
type OrderbookLevel struct {
	Price float64 `json:"price"`
	Size  float64 `json:"size"`
}

// Usable reports whether the level can be used to imply a rate:
// a non-zero size backed by a positive price.
func (l OrderbookLevel) Usable() bool {
	return l.Size > 0 && l.Price > 0
}
