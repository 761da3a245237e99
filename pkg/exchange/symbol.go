package exchange

import (
	"papertrade/pkg/utility/fixed"
)

type SymbolClass string

const (
	Forex SymbolClass = "forex"
	Metal SymbolClass = "metal"
)

// SymbolInfo is the immutable per-instrument record consumed by both the
// synthesizer and the trading engine. Defined once at startup, never mutated.
type SymbolInfo struct {
	SymbolName    string      `json:"symbol"`
	Class         SymbolClass `json:"class"`
	QuoteCurrency string      `json:"quote_currency"`
	Digits        int         `json:"digits"`
	PipSize       fixed.Point `json:"pip_size"`

	// PipValuePerLot is the account-currency value of a one pip move on a
	// one lot position.
	PipValuePerLot fixed.Point `json:"pip_value_per_lot"`

	// Synthesizer parameters: where the random walk starts, how far one bar
	// may drift and the typical full bid/ask spread.
	BasePrice     fixed.Point `json:"base_price"`
	StepSize      fixed.Point `json:"step_size"`
	TypicalSpread fixed.Point `json:"typical_spread"`
}

// Round normalizes a price to the instrument's decimal precision.
func (s SymbolInfo) Round(price fixed.Point) fixed.Point {
	return price.Rescale(s.Digits)
}

// HalfSpread is the distance from mid to either side of the book.
func (s SymbolInfo) HalfSpread() fixed.Point {
	return s.TypicalSpread.DivInt(2)
}
