package risk

import (
	"papertrade/pkg/common"
	"papertrade/pkg/utility/fixed"
)

// Limits are the account's risk allowances. Usage percentages in a Snapshot
// are measured against these.
type Limits struct {
	MaxDrawdownPct  fixed.Point `json:"max_drawdown_pct"`
	MaxDailyLossPct fixed.Point `json:"max_daily_loss_pct"`
	MaxExposureLots fixed.Point `json:"max_exposure_lots"`
}

func DefaultLimits() Limits {
	return Limits{
		MaxDrawdownPct:  fixed.FromInt(10, 0),
		MaxDailyLossPct: fixed.FromInt(5, 0),
		MaxExposureLots: fixed.FromInt(20, 0),
	}
}

// BuildSnapshot converts raw account state into limit usage. Drawdown is
// measured from peak equity, daily loss from the day-start balance, both
// floored at zero so a profitable account reports zero usage.
func BuildSnapshot(account common.Account, limits Limits) Snapshot {
	return Snapshot{
		Equity:           account.Equity,
		DdUsedPct:        usage(lossPct(account.PeakEquity, account.Equity), limits.MaxDrawdownPct),
		DailyLossUsedPct: usage(lossPct(account.DayStartBalance, account.Equity), limits.MaxDailyLossPct),
		ExposureUsedPct:  usage(account.OpenLots, limits.MaxExposureLots),
	}
}

// lossPct is the percentage drop from a reference level, zero when at or
// above it.
func lossPct(reference, current fixed.Point) fixed.Point {
	if !reference.IsPos() || current.Gte(reference) {
		return fixed.Zero
	}
	return reference.Sub(current).Div(reference).Mul(fixed.Hundred)
}

func usage(value, limit fixed.Point) fixed.Point {
	if !limit.IsPos() {
		return fixed.Zero
	}
	return value.Div(limit).Mul(fixed.Hundred).Rescale(2)
}
