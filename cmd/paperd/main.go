package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"papertrade/internal/config"
	"papertrade/internal/dbg"
	"papertrade/internal/journal"
	"papertrade/internal/prefs"
	"papertrade/internal/server"
	"papertrade/pkg/bus"
	"papertrade/pkg/common"
	"papertrade/pkg/datasource/synthetic"
	"papertrade/pkg/exchange"
	"papertrade/pkg/exchange/paper"
	"papertrade/pkg/middleware"
	"papertrade/pkg/tools/risk"
	"papertrade/pkg/utility"
	"papertrade/pkg/utility/fixed"
)

const version = "0.2.0"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := dbg.NewLogger(cfg.Log)
	defer func(logger *zap.Logger) {
		_ = logger.Sync()
	}(logger)

	logger.Info("paperd started",
		zap.String("version", version),
		zap.String("session", utility.GetSessionID().String()))
	defer logger.Info("paperd finished")

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, logger, cfg); err != nil && !errors.Is(err, context.Canceled) {
		logger.Fatal("paperd failed", zap.Error(err))
	}
}

func run(ctx context.Context, logger *zap.Logger, cfg *config.Config) error {
	symbols := exchange.CreateDefaultSymbolStore()
	router := bus.NewRouter(4096)

	engine := paper.NewEngine(symbols,
		paper.WithRouter(router),
		paper.WithCurrency(cfg.Account.Currency),
		paper.WithStartBalance(fixed.FromFloat64(cfg.Account.StartBalance)))

	feedOptions := []synthetic.FeedOption{}
	if cfg.Feed.Seed != 0 {
		feedOptions = append(feedOptions, synthetic.WithFeedSeed(cfg.Feed.Seed))
	}
	feed := synthetic.NewFeed(router, symbols.All(), cfg.Feed.BarPeriod, cfg.Feed.TickInterval, feedOptions...)

	store := prefs.Open(cfg.Prefs.Path)

	srv := server.New(logger, engine, symbols, store, server.Options{
		Addr:           cfg.Server.Addr,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		BarPeriod:      cfg.Feed.BarPeriod,
		DepthLevels:    cfg.Feed.DepthLevels,
		DepthBucket:    cfg.Feed.DepthBucket,
		RiskLimits: risk.Limits{
			MaxDrawdownPct:  fixed.FromFloat64(cfg.Risk.MaxDrawdownPct),
			MaxDailyLossPct: fixed.FromFloat64(cfg.Risk.MaxDailyLossPct),
			MaxExposureLots: fixed.FromFloat64(cfg.Risk.MaxExposureLots),
		},
	})
	hub := srv.Hub()

	tickHandlers := []bus.EventHandler[common.Tick]{
		engine.OnTick,
		func(_ context.Context, tick common.Tick) { hub.Broadcast("ticks:"+tick.Symbol, tick) },
	}
	tradeHandlers := []bus.EventHandler[common.TradeEvent]{
		func(_ context.Context, event common.TradeEvent) { hub.Broadcast("trades", event) },
	}

	if cfg.Journal.Enabled {
		writer := journal.NewWriter(cfg.Journal.Path)
		if err := writer.Connect(); err != nil {
			return err
		}
		defer writer.Close()
		logger.Info("journal enabled", zap.String("path", cfg.Journal.Path))

		tickHandlers = append(tickHandlers, func(ctx context.Context, tick common.Tick) {
			if err := writer.WriteTick(ctx, tick); err != nil {
				logger.Warn("journal tick write failed", zap.Error(err))
			}
		})
		tradeHandlers = append(tradeHandlers, func(ctx context.Context, event common.TradeEvent) {
			if err := writer.WriteTradeEvent(ctx, event); err != nil {
				logger.Warn("journal event write failed", zap.Error(err))
			}
		})
	}

	telemetry := middleware.NewTelemetry(logger)
	monitor := middleware.NewMonitor(middleware.ParseMonitorFlags(cfg.Log.Monitor))
	router.TickHandler = telemetry.WithTick(monitor.WithTick(bus.MergeHandlers(tickHandlers...)))
	router.TradeHandler = telemetry.WithTrade(monitor.WithTrade(bus.MergeHandlers(tradeHandlers...)))
	router.CandleHandler = telemetry.WithCandle(monitor.WithCandle(func(_ context.Context, candle common.Candle) {
		hub.Broadcast("candles:"+candle.Symbol, candle)
	}))
	router.PositionHandler = telemetry.WithPosition(monitor.WithPosition(func(_ context.Context, position common.Position) {
		hub.Broadcast("positions", position)
	}))
	router.AccountHandler = telemetry.WithAccount(monitor.WithAccount(func(_ context.Context, account common.Account) {
		hub.Broadcast("account", account)
	}))

	go router.Exec(ctx)
	go func() {
		if err := feed.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("feed stopped", zap.Error(err))
		}
	}()

	err := srv.Run(ctx)

	telemetry.PrintStatistics()
	router.Statistics().Print()

	return err
}
