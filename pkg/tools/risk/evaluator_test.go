package risk

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"papertrade/pkg/common"
	"papertrade/pkg/utility/fixed"
)

func TestEvaluate(t *testing.T) {
	testCases := []struct {
		name        string
		snapshot    Snapshot
		wantStatus  Status
		wantBlocked bool
		wantReasons int
	}{
		{
			name:       "all clear",
			snapshot:   Snapshot{Equity: fixed.FromInt(100_000, 0)},
			wantStatus: StatusOk,
		},
		{
			name:       "just under the warning band",
			snapshot:   Snapshot{DdUsedPct: fixed.FromFloat64(79.9)},
			wantStatus: StatusOk,
		},
		{
			name:        "drawdown at risk",
			snapshot:    Snapshot{DdUsedPct: fixed.FromInt(85, 0)},
			wantStatus:  StatusAtRisk,
			wantReasons: 1,
		},
		{
			name:        "drawdown exhausted",
			snapshot:    Snapshot{Equity: fixed.FromInt(25_000, 0), DdUsedPct: fixed.FromInt(100, 0)},
			wantStatus:  StatusViolation,
			wantBlocked: true,
			wantReasons: 1,
		},
		{
			name:        "daily loss exhausted",
			snapshot:    Snapshot{DailyLossUsedPct: fixed.FromInt(120, 0)},
			wantStatus:  StatusViolation,
			wantBlocked: true,
			wantReasons: 1,
		},
		{
			name:        "exposure violates below one hundred",
			snapshot:    Snapshot{ExposureUsedPct: fixed.FromInt(95, 0)},
			wantStatus:  StatusViolation,
			wantBlocked: true,
			wantReasons: 1,
		},
		{
			name: "every metric in the warning band",
			snapshot: Snapshot{
				DdUsedPct:        fixed.FromInt(81, 0),
				DailyLossUsedPct: fixed.FromInt(82, 0),
				ExposureUsedPct:  fixed.FromInt(83, 0),
			},
			wantStatus:  StatusAtRisk,
			wantReasons: 3,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := Evaluate(tc.snapshot)
			assert.Equal(t, tc.wantStatus, got.Status)
			assert.Equal(t, tc.wantBlocked, got.Blocked)
			assert.Len(t, got.Reasons, tc.wantReasons)
		})
	}
}

func TestEvaluate_ReasonFormatting(t *testing.T) {
	got := Evaluate(Snapshot{DdUsedPct: fixed.FromFloat64(85.4)})

	require.Len(t, got.Reasons, 1)
	assert.Equal(t, "Drawdown limit 85% used", got.Reasons[0])
}

func TestBuildSnapshot(t *testing.T) {
	account := common.Account{
		Balance:         fixed.FromInt(96_000, 0),
		Equity:          fixed.FromInt(95_000, 0),
		PeakEquity:      fixed.FromInt(100_000, 0),
		DayStartBalance: fixed.FromInt(98_000, 0),
		OpenLots:        fixed.FromInt(10, 0),
	}

	snapshot := BuildSnapshot(account, DefaultLimits())

	// 5% drawdown against a 10% allowance.
	assert.True(t, snapshot.DdUsedPct.Eq(fixed.FromInt(50, 0)), "got %s", snapshot.DdUsedPct)
	// Lost 3000 of a 98000 day start, about 3.06%, against a 5% allowance.
	assert.True(t, snapshot.DailyLossUsedPct.Gt(fixed.FromInt(61, 0)), "got %s", snapshot.DailyLossUsedPct)
	assert.True(t, snapshot.DailyLossUsedPct.Lt(fixed.FromInt(62, 0)))
	// 10 of 20 lots.
	assert.True(t, snapshot.ExposureUsedPct.Eq(fixed.FromInt(50, 0)), "got %s", snapshot.ExposureUsedPct)
	assert.True(t, snapshot.Equity.Eq(account.Equity))
}

func TestBuildSnapshot_ProfitableAccountReportsZeroUsage(t *testing.T) {
	account := common.Account{
		Equity:          fixed.FromInt(105_000, 0),
		PeakEquity:      fixed.FromInt(105_000, 0),
		DayStartBalance: fixed.FromInt(100_000, 0),
	}

	snapshot := BuildSnapshot(account, DefaultLimits())

	assert.True(t, snapshot.DdUsedPct.IsZero())
	assert.True(t, snapshot.DailyLossUsedPct.IsZero())
	assert.Equal(t, StatusOk, Evaluate(snapshot).Status)
}
