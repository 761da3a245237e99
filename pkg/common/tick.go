package common

import (
	"time"

	"go.uber.org/zap"

	"papertrade/pkg/utility/fixed"
)

// Tick is one simulated quote update for an instrument. Bid and Ask may be
// unset (zero), in which case consumers derive them from Last and the
// instrument's typical spread.
type Tick struct {
	Symbol    string      `json:"symbol"`
	Last      fixed.Point `json:"last"`
	Bid       fixed.Point `json:"bid,omitempty"`
	Ask       fixed.Point `json:"ask,omitempty"`
	ChangePct fixed.Point `json:"change_pct,omitempty"`

	Source    string    `json:"src,omitempty"`
	TimeStamp time.Time `json:"ts"`
}

func (t Tick) Mid() fixed.Point {
	if t.Bid.IsZero() || t.Ask.IsZero() {
		return t.Last
	}
	return t.Bid.Add(t.Ask).DivInt(2)
}

func (t Tick) HasBook() bool {
	return !t.Bid.IsZero() && !t.Ask.IsZero()
}

func (t Tick) Fields() []zap.Field {
	return []zap.Field{
		zap.String("symbol", t.Symbol),
		zap.String("last", t.Last.String()),
		zap.String("bid", t.Bid.String()),
		zap.String("ask", t.Ask.String()),
		zap.Time("ts", t.TimeStamp),
	}
}
