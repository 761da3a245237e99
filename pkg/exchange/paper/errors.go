package paper

// RejectionError is the typed refusal returned by order validation. The
// reason text is user-facing and travels as-is to whatever surface shows it.
// No other failure mode crosses the engine boundary.
type RejectionError struct {
	Reason string
}

func (e *RejectionError) Error() string {
	return e.Reason
}

var (
	ErrSymbolRequired     = &RejectionError{Reason: "Symbol is required"}
	ErrUnknownSymbol      = &RejectionError{Reason: "Unknown symbol"}
	ErrInvalidSide        = &RejectionError{Reason: "Side must be BUY or SELL"}
	ErrInvalidType        = &RejectionError{Reason: "Type must be MARKET or LIMIT"}
	ErrInvalidLots        = &RejectionError{Reason: "Lots must be greater than zero"}
	ErrLimitPriceRequired = &RejectionError{Reason: "Limit price is required"}
	ErrNoMarketData       = &RejectionError{Reason: "No market data for symbol"}
)
