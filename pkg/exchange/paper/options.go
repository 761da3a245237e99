package paper

import (
	"time"

	"papertrade/pkg/bus"
	"papertrade/pkg/utility/fixed"
)

type Option func(*Engine)

func WithRouter(router *bus.Router) Option {
	return func(e *Engine) {
		e.router = router
	}
}

func WithStartBalance(balance fixed.Point) Option {
	return func(e *Engine) {
		e.balance = balance
	}
}

func WithCurrency(currency string) Option {
	return func(e *Engine) {
		e.currency = currency
	}
}

func WithEventCapacity(capacity uint) Option {
	return func(e *Engine) {
		e.eventCapacity = capacity
	}
}

// WithClock overrides the wall clock, used by tests to pin timestamps.
func WithClock(clock func() time.Time) Option {
	return func(e *Engine) {
		e.clock = clock
	}
}
