package synthetic

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"papertrade/pkg/exchange"
	"papertrade/pkg/utility/fixed"
)

var testEnd = time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC)

func TestGenerateHistory_Deterministic(t *testing.T) {
	info := exchange.CreateDefaultSymbolStore().MustGet("EURUSD")

	a := GenerateHistory(info, 10, time.Minute, testEnd)
	b := GenerateHistory(info, 10, time.Minute, testEnd)

	require.Len(t, a, 10)
	assert.Equal(t, a, b, "same (symbol, endTime) must yield identical series")
}

func TestGenerateHistory_DiffersAcrossSymbols(t *testing.T) {
	store := exchange.CreateDefaultSymbolStore()

	eur := GenerateHistory(store.MustGet("EURUSD"), 5, time.Minute, testEnd)
	gbp := GenerateHistory(store.MustGet("GBPUSD"), 5, time.Minute, testEnd)

	assert.NotEqual(t, eur[0].Close, gbp[0].Close)
}

func TestGenerateHistory_ZeroBars(t *testing.T) {
	info := exchange.CreateDefaultSymbolStore().MustGet("EURUSD")

	assert.Empty(t, GenerateHistory(info, 0, time.Minute, testEnd))
	assert.Empty(t, GenerateHistory(info, -3, time.Minute, testEnd))
}

func TestGenerateHistory_Invariants(t *testing.T) {
	info := exchange.CreateDefaultSymbolStore().MustGet("XAUUSD")

	candles := GenerateHistory(info, 200, time.Minute, testEnd)
	require.Len(t, candles, 200)

	for i, c := range candles {
		assert.True(t, c.High.Gte(c.Open), "bar %d: high < open", i)
		assert.True(t, c.High.Gte(c.Close), "bar %d: high < close", i)
		assert.True(t, c.Low.Lte(c.Open), "bar %d: low > open", i)
		assert.True(t, c.Low.Lte(c.Close), "bar %d: low > close", i)
		assert.True(t, c.Low.IsPos(), "bar %d: non-positive low", i)

		if i > 0 {
			assert.Equal(t, time.Minute, c.TimeStamp.Sub(candles[i-1].TimeStamp), "bar %d: uneven spacing", i)
		}
	}
}

func TestGenerateHistory_BarTimesEndAtTruncatedEnd(t *testing.T) {
	info := exchange.CreateDefaultSymbolStore().MustGet("EURUSD")

	candles := GenerateHistory(info, 3, time.Minute, testEnd.Add(37*time.Second))
	require.Len(t, candles, 3)
	assert.Equal(t, testEnd, candles[2].TimeStamp)
}

func TestSeedFromString(t *testing.T) {
	assert.Equal(t, SeedFromString("EURUSD"), SeedFromString("EURUSD"))
	assert.NotEqual(t, SeedFromString("EURUSD"), SeedFromString("USDEUR"),
		"seed must be position weighted, not a plain character sum")

	rngA := NewRand(SeedFromString("XAUUSD"))
	rngB := NewRand(SeedFromString("XAUUSD"))
	for i := 0; i < 100; i++ {
		require.Equal(t, rngA.Float64(), rngB.Float64())
	}
}

func TestGenerateDepth_Invariants(t *testing.T) {
	info := exchange.CreateDefaultSymbolStore().MustGet("EURUSD")
	mid := fixed.FromFloat64(1.0850)

	depth := GenerateDepth(info, mid, 15, 5*time.Second, testEnd)

	require.Len(t, depth.Asks, 15)
	require.Len(t, depth.Bids, 15)

	for i := range depth.Asks {
		assert.False(t, depth.Asks[i].Size.IsNeg())
		assert.False(t, depth.Bids[i].Size.IsNeg())
		assert.True(t, depth.Asks[i].Price.Gt(depth.Mid))
		assert.True(t, depth.Bids[i].Price.Lt(depth.Mid))

		if i > 0 {
			assert.True(t, depth.Asks[i].Price.Gt(depth.Asks[i-1].Price), "asks must strictly ascend")
			assert.True(t, depth.Bids[i].Price.Lt(depth.Bids[i-1].Price), "bids must strictly descend")
		}
	}
}

func TestGenerateDepth_StableWithinBucket(t *testing.T) {
	info := exchange.CreateDefaultSymbolStore().MustGet("GBPUSD")
	mid := fixed.FromFloat64(1.2700)
	bucket := 10 * time.Second

	at := testEnd.Truncate(bucket)
	a := GenerateDepth(info, mid, 10, bucket, at)
	b := GenerateDepth(info, mid, 10, bucket, at.Add(3*time.Second))
	c := GenerateDepth(info, mid, 10, bucket, at.Add(bucket))

	assert.Equal(t, a.Asks, b.Asks, "same bucket window must yield the same ladder")
	assert.Equal(t, a.Bids, b.Bids)
	assert.NotEqual(t, a.Asks, c.Asks, "next bucket window must reshuffle sizes")
}

func TestGenerateDepth_ZeroLevels(t *testing.T) {
	info := exchange.CreateDefaultSymbolStore().MustGet("EURUSD")

	depth := GenerateDepth(info, fixed.FromFloat64(1.0850), 0, time.Second, testEnd)
	assert.Empty(t, depth.Asks)
	assert.Empty(t, depth.Bids)
}
