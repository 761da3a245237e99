package bus

import (
	"context"

	"papertrade/pkg/common"
)

type EventHandler[T any] = func(context.Context, T)

type TickEventHandler EventHandler[common.Tick]
type CandleEventHandler EventHandler[common.Candle]
type TradeEventHandler EventHandler[common.TradeEvent]
type PositionEventHandler EventHandler[common.Position]
type AccountEventHandler EventHandler[common.Account]

func MergeHandlers[T any](handlers ...EventHandler[T]) EventHandler[T] {
	return func(ctx context.Context, event T) {
		for _, handler := range handlers {
			handler(ctx, event)
		}
	}
}
