package common

import (
	"time"

	"go.uber.org/zap"

	"papertrade/pkg/utility"
	"papertrade/pkg/utility/fixed"
)

type OrderSide string
type OrderType string
type OrderStatus string

const (
	OrderSideBuy  OrderSide = "BUY"
	OrderSideSell OrderSide = "SELL"
)

const (
	OrderTypeMarket OrderType = "MARKET"
	OrderTypeLimit  OrderType = "LIMIT"
)

const (
	OrderStatusPending   OrderStatus = "PENDING"
	OrderStatusFilled    OrderStatus = "FILLED"
	OrderStatusCancelled OrderStatus = "CANCELLED"
	OrderStatusRejected  OrderStatus = "REJECTED"
)

func (s OrderSide) Opposite() OrderSide {
	if s == OrderSideBuy {
		return OrderSideSell
	}
	return OrderSideBuy
}

// Order is created by the engine on placement and mutated only by the engine.
// FILLED, CANCELLED and REJECTED are terminal states.
type Order struct {
	Id     utility.TraceID `json:"id"`
	Symbol string          `json:"symbol"`
	Side   OrderSide       `json:"side"`
	Type   OrderType       `json:"type"`
	Lots   fixed.Point     `json:"lots"`
	Status OrderStatus     `json:"status"`

	LimitPrice fixed.Point `json:"limit_price,omitempty"`

	// Requested protective offsets in pips. Converted to absolute prices at
	// fill time, relative to the actual fill price.
	StopLossPips   fixed.Point `json:"sl_pips,omitempty"`
	TakeProfitPips fixed.Point `json:"tp_pips,omitempty"`

	StopLoss   fixed.Point `json:"sl_price,omitempty"`
	TakeProfit fixed.Point `json:"tp_price,omitempty"`

	FilledPrice fixed.Point `json:"filled_price,omitempty"`
	FilledAt    time.Time   `json:"filled_at,omitzero"`

	Comment   string    `json:"comment,omitempty"`
	Source    string    `json:"src,omitempty"`
	TimeStamp time.Time `json:"ts"`
}

func (o Order) IsTerminal() bool {
	return o.Status != OrderStatusPending
}

func (o Order) Fields() []zap.Field {
	return []zap.Field{
		zap.Uint64("id", o.Id),
		zap.String("symbol", o.Symbol),
		zap.String("side", string(o.Side)),
		zap.String("type", string(o.Type)),
		zap.String("lots", o.Lots.String()),
		zap.String("status", string(o.Status)),
		zap.String("limit_price", o.LimitPrice.String()),
		zap.String("filled_price", o.FilledPrice.String()),
	}
}
