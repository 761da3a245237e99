package middleware

import (
	"context"
	"log/slog"
	"strings"

	"papertrade/pkg/bus"
	"papertrade/pkg/common"
)

type MonitorFlags uint8

const (
	MonitorNone MonitorFlags = 1 << iota
	MonitorAll
	MonitorTicks
	MonitorCandles
	MonitorTrades
	MonitorPositions
	MonitorAccount
)

// ParseMonitorFlags maps config names ("ticks", "trades", "all", ...) to
// flags. Unknown names are logged and skipped so a config typo never takes
// the daemon down.
func ParseMonitorFlags(names []string) MonitorFlags {
	var flags MonitorFlags
	for _, name := range names {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "all":
			flags |= MonitorAll
		case "ticks":
			flags |= MonitorTicks
		case "candles":
			flags |= MonitorCandles
		case "trades":
			flags |= MonitorTrades
		case "positions":
			flags |= MonitorPositions
		case "account":
			flags |= MonitorAccount
		case "", "none":
		default:
			slog.Warn("unknown monitor flag", "name", name)
		}
	}
	return flags
}

// Monitor decorates bus handlers with flag-gated event logging. Intended for
// debugging a session, not for production output volume.
type Monitor struct {
	flags MonitorFlags
}

func NewMonitor(flags MonitorFlags) *Monitor {
	return &Monitor{
		flags: flags,
	}
}

func (m *Monitor) enabled(flag MonitorFlags) bool {
	return m.flags&flag != 0 || m.flags&MonitorAll != 0
}

func (m *Monitor) WithTick(handler bus.TickEventHandler) bus.TickEventHandler {
	return func(ctx context.Context, tick common.Tick) {
		if m.enabled(MonitorTicks) {
			slog.Info("event", "tick", tick)
		}
		handler(ctx, tick)
	}
}

func (m *Monitor) WithCandle(handler bus.CandleEventHandler) bus.CandleEventHandler {
	return func(ctx context.Context, candle common.Candle) {
		if m.enabled(MonitorCandles) {
			slog.Info("event", "candle", candle)
		}
		handler(ctx, candle)
	}
}

func (m *Monitor) WithTrade(handler bus.TradeEventHandler) bus.TradeEventHandler {
	return func(ctx context.Context, event common.TradeEvent) {
		if m.enabled(MonitorTrades) {
			slog.Info("event", "trade", event)
		}
		handler(ctx, event)
	}
}

func (m *Monitor) WithPosition(handler bus.PositionEventHandler) bus.PositionEventHandler {
	return func(ctx context.Context, position common.Position) {
		if m.enabled(MonitorPositions) {
			slog.Info("event", "position", position)
		}
		handler(ctx, position)
	}
}

func (m *Monitor) WithAccount(handler bus.AccountEventHandler) bus.AccountEventHandler {
	return func(ctx context.Context, account common.Account) {
		if m.enabled(MonitorAccount) {
			slog.Info("event", "account", account)
		}
		handler(ctx, account)
	}
}
