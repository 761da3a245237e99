package common

import (
	"time"

	"papertrade/pkg/utility/fixed"
)

// Candle is one bar of a synthesized price series. The last candle of a live
// series is mutated in place until its bar boundary passes.
type Candle struct {
	Symbol    string        `json:"symbol,omitempty"`
	TimeStamp time.Time     `json:"ts"`
	Period    time.Duration `json:"period"`
	Open      fixed.Point   `json:"open"`
	High      fixed.Point   `json:"high"`
	Low       fixed.Point   `json:"low"`
	Close     fixed.Point   `json:"close"`
}
