package bus

type EventId uint8

const (
	TickEvent EventId = iota
	CandleEvent
	TradeEvent
	PositionEvent
	AccountEvent
)

func (id EventId) String() string {
	switch id {
	case TickEvent:
		return "tick"
	case CandleEvent:
		return "candle"
	case TradeEvent:
		return "trade"
	case PositionEvent:
		return "position"
	case AccountEvent:
		return "account"
	default:
		return "unknown"
	}
}
