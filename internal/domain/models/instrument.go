package models

import "time"

// DerivativeInstrument represents a tradeable futures contract as resolved
// from the instrument catalog.
//
// Fields:
//   - Ticker: Exchange ticker of the contract (e.g., "GGAL/MAY23").
//   - Underlier: Ticker of the underlying spot instrument (e.g., "GGAL").
//   - MaturityDate: Calendar date at which the contract expires.
//   - MaturityLabel: Label grouping contracts that share an expiry (e.g., "MAY23").
//   - ContractSize: Contract multiplier / face value scale.
//
// Instances are immutable once resolved.
type DerivativeInstrument struct {
	Ticker        string    `json:"ticker" example:"GGAL/MAY23"`
	Underlier     string    `json:"underlier" example:"GGAL"`
	MaturityDate  time.Time `json:"maturity_date"`
	MaturityLabel string    `json:"maturity_label" example:"MAY23"`
	ContractSize  float64   `json:"contract_size" example:"100"`
}
