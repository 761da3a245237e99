package synthetic

import (
	"time"

	"papertrade/pkg/common"
	"papertrade/pkg/exchange"
	"papertrade/pkg/utility/fixed"
)

const (
	depthSizeDigits = 2
	depthBaseSize   = 25.0
)

// GenerateDepth lays out a symmetric bid/ask ladder around mid. The generator
// is seeded from the symbol plus the time bucket at points in, so the ladder
// holds still within one bucket window and reshuffles between windows.
// Level prices sit on the instrument's pip grid: asks strictly ascend away
// from mid, bids strictly descend, sizes taper towards the edge of the book.
func GenerateDepth(info exchange.SymbolInfo, mid fixed.Point, levels int, bucket time.Duration, at time.Time) common.Depth {
	depth := common.Depth{
		Symbol:    info.SymbolName,
		Mid:       info.Round(mid),
		TimeStamp: at,
	}
	if levels <= 0 {
		return depth
	}

	seed := SeedFromString(info.SymbolName)
	if bucket > 0 {
		seed += at.UnixMilli() / bucket.Milliseconds()
	}
	rng := NewRand(seed)

	depth.Bids = make([]common.DepthLevel, 0, levels)
	depth.Asks = make([]common.DepthLevel, 0, levels)

	for i := 1; i <= levels; i++ {
		offset := info.PipSize.MulInt(i)

		// More size near the top of book, random jitter layered on.
		taper := float64(levels-i+1) / float64(levels)
		askSize := depthBaseSize * taper * (0.4 + 1.2*rng.Float64())
		bidSize := depthBaseSize * taper * (0.4 + 1.2*rng.Float64())

		depth.Asks = append(depth.Asks, common.DepthLevel{
			Price: info.Round(depth.Mid.Add(offset)),
			Size:  fixed.FromFloat64(askSize).Rescale(depthSizeDigits),
		})

		bidPrice := depth.Mid.Sub(offset)
		if !bidPrice.IsPos() {
			continue
		}
		depth.Bids = append(depth.Bids, common.DepthLevel{
			Price: info.Round(bidPrice),
			Size:  fixed.FromFloat64(bidSize).Rescale(depthSizeDigits),
		})
	}

	return depth
}
