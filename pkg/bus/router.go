package bus

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"papertrade/pkg/common"
)

type event struct {
	id   EventId
	data interface{}
}

// Router serializes all simulator events through one dispatch loop. Handlers
// run to completion in post order, which is the only concurrency discipline
// the engine relies on. Post is safe to call from any goroutine; the feed
// loop and HTTP handler goroutines all produce into the same channel.
type Router struct {
	// Channels
	done   chan error
	events chan event

	// Handlers
	TickHandler     TickEventHandler
	CandleHandler   CandleEventHandler
	TradeHandler    TradeEventHandler
	PositionHandler PositionEventHandler
	AccountHandler  AccountEventHandler

	// Statistics
	runTime       atomic.Int64
	postCount     atomic.Uint64
	postFails     atomic.Uint64
	dispatchCount atomic.Uint64
	dispatchFails atomic.Uint64
}

func NewRouter(eventCapacity int) *Router {
	return &Router{
		done:   make(chan error, 1),
		events: make(chan event, eventCapacity),
	}
}

func (r *Router) Post(id EventId, data interface{}) error {
	select {
	case r.events <- event{id, data}:
		r.postCount.Add(1)
		return nil
	default:
		r.postFails.Add(1)
		return errors.New("event capacity reached")
	}
}

func (r *Router) Exec(ctx context.Context) {
	r.runTime.Store(0)
	r.dispatchCount.Store(0)
	r.dispatchFails.Store(0)
	r.postCount.Store(0)
	r.postFails.Store(0)

	start := time.Now()
	defer func() {
		r.runTime.Add(int64(time.Since(start)))
	}()

	for {
		select {
		case <-ctx.Done():
			r.done <- ctx.Err()
			return
		case ev := <-r.events:
			r.dispatchCount.Add(1)
			if err := r.dispatch(ctx, ev); err != nil {
				r.dispatchFails.Add(1)
				slog.Warn("dispatch failed", "error", err, "event", ev.id)
			}
		}
	}
}

func (r *Router) Done() <-chan error {
	return r.done
}

func (r *Router) Statistics() Statistics {
	runTime := time.Duration(r.runTime.Load())
	if runTime == 0 {
		runTime = time.Nanosecond
	}
	posts := r.postCount.Load()
	return Statistics{
		RunTime:       runTime,
		PostCount:     posts,
		PostFails:     r.postFails.Load(),
		DispatchCount: r.dispatchCount.Load(),
		DispatchFails: r.dispatchFails.Load(),
		Throughput:    float64(posts) / runTime.Seconds(),
	}
}

func (r *Router) dispatch(ctx context.Context, ev event) error {
	switch ev.id {
	case TickEvent:
		tick, ok := ev.data.(common.Tick)
		if !ok {
			return errors.New("invalid type assertion for tick event")
		}
		if r.TickHandler != nil {
			r.TickHandler(ctx, tick)
		} else {
			slog.Debug("tick handler is nil")
		}
	case CandleEvent:
		candle, ok := ev.data.(common.Candle)
		if !ok {
			return errors.New("invalid type assertion for candle event")
		}
		if r.CandleHandler != nil {
			r.CandleHandler(ctx, candle)
		} else {
			slog.Debug("candle handler is nil")
		}
	case TradeEvent:
		trade, ok := ev.data.(common.TradeEvent)
		if !ok {
			return errors.New("invalid type assertion for trade event")
		}
		if r.TradeHandler != nil {
			r.TradeHandler(ctx, trade)
		} else {
			slog.Debug("trade handler is nil")
		}
	case PositionEvent:
		position, ok := ev.data.(common.Position)
		if !ok {
			return errors.New("invalid type assertion for position event")
		}
		if r.PositionHandler != nil {
			r.PositionHandler(ctx, position)
		} else {
			slog.Debug("position handler is nil")
		}
	case AccountEvent:
		account, ok := ev.data.(common.Account)
		if !ok {
			return errors.New("invalid type assertion for account event")
		}
		if r.AccountHandler != nil {
			r.AccountHandler(ctx, account)
		} else {
			slog.Debug("account handler is nil")
		}
	default:
		return fmt.Errorf("unsupported event id: %v", ev.id)
	}
	return nil
}
