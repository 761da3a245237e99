package synthetic

import (
	"math"
	"time"

	"papertrade/pkg/common"
	"papertrade/pkg/exchange"
	"papertrade/pkg/utility/fixed"
)

// wickRatio is the fraction of the per-bar step a wick may extend beyond
// the body.
const wickRatio = 0.6

// GenerateHistory synthesizes an OHLC series of bars bars ending at endTime,
// spaced period apart. Pure function of its arguments: the walk is seeded
// from the symbol name alone, so a fixed (symbol, endTime) pair always yields
// an identical series.
func GenerateHistory(info exchange.SymbolInfo, bars int, period time.Duration, endTime time.Time) []common.Candle {
	if bars <= 0 || period <= 0 {
		return nil
	}

	rng := NewRand(SeedFromString(info.SymbolName))

	end := endTime.Truncate(period)
	start := end.Add(-period * time.Duration(bars-1))

	base, _ := info.BasePrice.Float64()
	step, _ := info.StepSize.Float64()
	floor, _ := info.PipSize.Float64()

	candles := make([]common.Candle, 0, bars)
	price := base

	for i := 0; i < bars; i++ {
		open := price
		drift := (rng.Float64()*2 - 1) * step
		cls := clampPrice(open+drift, floor)

		high := math.Max(open, cls) + rng.Float64()*step*wickRatio
		low := clampPrice(math.Min(open, cls)-rng.Float64()*step*wickRatio, floor)

		candles = append(candles, common.Candle{
			Symbol:    info.SymbolName,
			TimeStamp: start.Add(period * time.Duration(i)),
			Period:    period,
			Open:      roundPrice(info, open),
			High:      roundPrice(info, high),
			Low:       roundPrice(info, low),
			Close:     roundPrice(info, cls),
		})

		price = cls
	}

	return candles
}

func roundPrice(info exchange.SymbolInfo, v float64) fixed.Point {
	return fixed.FromFloat64(v).Rescale(info.Digits)
}

// clampPrice keeps the walk from ever producing a zero or negative quote.
func clampPrice(v, floor float64) float64 {
	if v < floor {
		return floor
	}
	return v
}
