package synthetic

import (
	"context"
	"log/slog"
	"math/rand"
	"time"

	"papertrade/pkg/bus"
	"papertrade/pkg/common"
	"papertrade/pkg/exchange"
	"papertrade/pkg/utility/fixed"
)

const (
	feedComponentName = "datasource.synthetic.feed"

	// Fraction of the per-bar step applied per tick so intra-bar drift stays
	// in proportion to bar-to-bar drift.
	intraBarStepRatio = 0.25

	spreadVolatility = 0.12
	minSpreadRatio   = 0.5
	maxSpreadRatio   = 1.5
)

type feedState struct {
	rng *rand.Rand

	price       float64
	sessionOpen float64
	spread      float64

	candle common.Candle
}

type FeedOption func(*Feed)

// WithFeedSeed fixes the feed's random walk so a run can be replayed. The
// per-symbol seed is still offset by the symbol name to decorrelate series.
func WithFeedSeed(seed int64) FeedOption {
	return func(f *Feed) {
		f.seed = seed
	}
}

// Feed drives the live side of the synthesizer: on a fixed wall-clock timer
// it drifts the forming candle of every instrument, rolls a new candle when
// the bar boundary passes, and emits a tick for each update. Candle rolling
// is wall-clock driven, not simulation-clock driven.
type Feed struct {
	router       *bus.Router
	symbols      []exchange.SymbolInfo
	barPeriod    time.Duration
	tickInterval time.Duration
	seed         int64

	states map[string]*feedState
}

func NewFeed(router *bus.Router, symbols []exchange.SymbolInfo, barPeriod, tickInterval time.Duration, options ...FeedOption) *Feed {
	f := &Feed{
		router:       router,
		symbols:      symbols,
		barPeriod:    barPeriod,
		tickInterval: tickInterval,
		seed:         time.Now().UnixNano(),
		states:       make(map[string]*feedState),
	}

	for _, option := range options {
		option(f)
	}

	for _, info := range symbols {
		price, _ := info.BasePrice.Float64()
		spread, _ := info.TypicalSpread.Float64()
		f.states[info.SymbolName] = &feedState{
			rng:         NewRand(f.seed + SeedFromString(info.SymbolName)),
			price:       price,
			sessionOpen: price,
			spread:      spread,
		}
	}

	return f
}

// Run blocks until ctx is cancelled. Teardown is the context: stopping the
// owning scope stops the timer and no further events are posted.
func (f *Feed) Run(ctx context.Context) error {
	ticker := time.NewTicker(f.tickInterval)
	defer ticker.Stop()

	slog.Info("synthetic feed started",
		"symbols", len(f.symbols),
		"bar_period", f.barPeriod,
		"tick_interval", f.tickInterval)

	for {
		select {
		case <-ctx.Done():
			slog.Info("synthetic feed stopped")
			return ctx.Err()
		case now := <-ticker.C:
			for _, info := range f.symbols {
				f.step(info, now)
			}
		}
	}
}

func (f *Feed) step(info exchange.SymbolInfo, now time.Time) {
	state := f.states[info.SymbolName]

	step, _ := info.StepSize.Float64()
	floor, _ := info.PipSize.Float64()

	state.price = clampPrice(state.price+(state.rng.Float64()*2-1)*step*intraBarStepRatio, floor)
	f.updateSpread(info, state)

	last := fixed.FromFloat64(state.price).Rescale(info.Digits)
	halfSpread := fixed.FromFloat64(state.spread / 2)

	bucket := now.Truncate(f.barPeriod)
	if state.candle.TimeStamp != bucket {
		// Bar boundary crossed, roll a new candle.
		state.candle = common.Candle{
			Symbol:    info.SymbolName,
			TimeStamp: bucket,
			Period:    f.barPeriod,
			Open:      last,
			High:      last,
			Low:       last,
			Close:     last,
		}
	} else {
		state.candle.Close = last
		state.candle.High = state.candle.High.Max(last)
		state.candle.Low = state.candle.Low.Min(last)
	}

	changePct := fixed.FromFloat64((state.price - state.sessionOpen) / state.sessionOpen * 100).Rescale(2)

	tick := common.Tick{
		Symbol:    info.SymbolName,
		Last:      last,
		Bid:       info.Round(last.Sub(halfSpread)),
		Ask:       info.Round(last.Add(halfSpread)),
		ChangePct: changePct,
		Source:    feedComponentName,
		TimeStamp: now,
	}

	if err := f.router.Post(bus.CandleEvent, state.candle); err != nil {
		slog.Warn("unable to post candle event", "error", err)
	}
	if err := f.router.Post(bus.TickEvent, tick); err != nil {
		slog.Warn("unable to post tick event", "error", err)
	}
}

func (f *Feed) updateSpread(info exchange.SymbolInfo, state *feedState) {
	typical, _ := info.TypicalSpread.Float64()

	next := state.spread * (1.0 + state.rng.NormFloat64()*spreadVolatility)
	if next < typical*minSpreadRatio {
		next = typical * minSpreadRatio
	} else if next > typical*maxSpreadRatio {
		next = typical * maxSpreadRatio
	}
	state.spread = next
}
