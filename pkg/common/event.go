package common

import (
	"time"

	"papertrade/pkg/utility/fixed"
)

type TradeEventKind string

const (
	TradeEventOrderPlaced    TradeEventKind = "ORDER_PLACED"
	TradeEventOrderFilled    TradeEventKind = "ORDER_FILLED"
	TradeEventOrderCancelled TradeEventKind = "ORDER_CANCELLED"
	TradeEventPositionClosed TradeEventKind = "POSITION_CLOSED"
)

// TradeEvent is one entry of the engine's bounded audit feed. Snapshots are
// taken at emission time, later mutations of the live order or position do
// not retroactively change the log.
type TradeEvent struct {
	Kind        TradeEventKind `json:"kind"`
	Order       *Order         `json:"order,omitempty"`
	Position    *Position      `json:"position,omitempty"`
	RealizedPnl fixed.Point    `json:"realized_pnl,omitempty"`
	TimeStamp   time.Time      `json:"ts"`
}
