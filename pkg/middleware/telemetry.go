package middleware

import (
	"context"

	"go.uber.org/zap"

	"papertrade/pkg/bus"
	"papertrade/pkg/common"
)

// Telemetry counts events flowing through the bus, to be reported once at
// shutdown. Counters are not synchronized; all handlers run on the router's
// single dispatch goroutine.
type Telemetry struct {
	logger *zap.Logger

	tickCounter     uint64
	candleCounter   uint64
	tradeCounter    uint64
	positionCounter uint64
	accountCounter  uint64
}

func NewTelemetry(logger *zap.Logger) *Telemetry {
	return &Telemetry{
		logger: logger,
	}
}

func (t *Telemetry) WithTick(handler bus.TickEventHandler) bus.TickEventHandler {
	return func(ctx context.Context, tick common.Tick) {
		t.tickCounter++
		handler(ctx, tick)
	}
}

func (t *Telemetry) WithCandle(handler bus.CandleEventHandler) bus.CandleEventHandler {
	return func(ctx context.Context, candle common.Candle) {
		t.candleCounter++
		handler(ctx, candle)
	}
}

func (t *Telemetry) WithTrade(handler bus.TradeEventHandler) bus.TradeEventHandler {
	return func(ctx context.Context, event common.TradeEvent) {
		t.tradeCounter++
		handler(ctx, event)
	}
}

func (t *Telemetry) WithPosition(handler bus.PositionEventHandler) bus.PositionEventHandler {
	return func(ctx context.Context, position common.Position) {
		t.positionCounter++
		handler(ctx, position)
	}
}

func (t *Telemetry) WithAccount(handler bus.AccountEventHandler) bus.AccountEventHandler {
	return func(ctx context.Context, account common.Account) {
		t.accountCounter++
		handler(ctx, account)
	}
}

func (t *Telemetry) PrintStatistics() {
	t.logger.Info("event telemetry",
		zap.Uint64("ticks", t.tickCounter),
		zap.Uint64("candles", t.candleCounter),
		zap.Uint64("trades", t.tradeCounter),
		zap.Uint64("positions", t.positionCounter),
		zap.Uint64("accounts", t.accountCounter))
}
