package common

import (
	"time"

	"go.uber.org/zap"

	"papertrade/pkg/utility"
	"papertrade/pkg/utility/fixed"
)

// Position is the net open exposure on one instrument. The engine keeps at
// most one per symbol; opposite-side fills offset against it rather than
// opening a hedged pair. Lots is always positive, the direction lives in Side.
type Position struct {
	Id     utility.TraceID `json:"id"`
	Symbol string          `json:"symbol"`
	Side   OrderSide       `json:"side"`
	Lots   fixed.Point     `json:"lots"`

	EntryPrice fixed.Point `json:"entry_price"`
	StopLoss   fixed.Point `json:"sl_price,omitempty"`
	TakeProfit fixed.Point `json:"tp_price,omitempty"`

	MarkPrice     fixed.Point `json:"mark_price"`
	UnrealizedPnl fixed.Point `json:"unrealized_pnl"`

	OrderIds []utility.TraceID `json:"order_ids,omitempty"`

	OpenedAt  time.Time `json:"opened_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (p Position) IsLong() bool {
	return p.Side == OrderSideBuy
}

func (p Position) IsShort() bool {
	return p.Side == OrderSideSell
}

func (p Position) Fields() []zap.Field {
	return []zap.Field{
		zap.Uint64("id", p.Id),
		zap.String("symbol", p.Symbol),
		zap.String("side", string(p.Side)),
		zap.String("lots", p.Lots.String()),
		zap.String("entry_price", p.EntryPrice.String()),
		zap.String("mark_price", p.MarkPrice.String()),
		zap.String("unrealized_pnl", p.UnrealizedPnl.String()),
	}
}
