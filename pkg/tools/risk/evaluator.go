package risk

import (
	"fmt"

	"papertrade/pkg/utility/fixed"
)

type Status string

const (
	StatusOk        Status = "OK"
	StatusAtRisk    Status = "AT_RISK"
	StatusViolation Status = "VIOLATION"
)

// Snapshot carries usage percentages, not raw values: 100 means the
// corresponding limit is fully consumed.
type Snapshot struct {
	Equity           fixed.Point `json:"equity"`
	DdUsedPct        fixed.Point `json:"dd_used_pct"`
	DailyLossUsedPct fixed.Point `json:"daily_loss_used_pct"`
	ExposureUsedPct  fixed.Point `json:"exposure_used_pct"`
}

type Assessment struct {
	Status  Status   `json:"status"`
	Blocked bool     `json:"blocked"`
	Reasons []string `json:"reasons,omitempty"`
}

var (
	lossViolationThreshold     = fixed.FromInt(100, 0)
	exposureViolationThreshold = fixed.FromInt(95, 0)
	atRiskThreshold            = fixed.FromInt(80, 0)
)

// Evaluate maps a usage snapshot to a compliance verdict. Pure and stateless,
// cheap enough to run on every tick. Trading is blocked only on VIOLATION;
// AT_RISK is advisory.
func Evaluate(snapshot Snapshot) Assessment {
	violation := snapshot.DdUsedPct.Gte(lossViolationThreshold) ||
		snapshot.DailyLossUsedPct.Gte(lossViolationThreshold) ||
		snapshot.ExposureUsedPct.Gte(exposureViolationThreshold)

	var reasons []string
	if snapshot.DdUsedPct.Gte(atRiskThreshold) {
		reasons = append(reasons, reason("Drawdown", snapshot.DdUsedPct))
	}
	if snapshot.DailyLossUsedPct.Gte(atRiskThreshold) {
		reasons = append(reasons, reason("Daily loss", snapshot.DailyLossUsedPct))
	}
	if snapshot.ExposureUsedPct.Gte(atRiskThreshold) {
		reasons = append(reasons, reason("Exposure", snapshot.ExposureUsedPct))
	}

	switch {
	case violation:
		return Assessment{Status: StatusViolation, Blocked: true, Reasons: reasons}
	case len(reasons) > 0:
		return Assessment{Status: StatusAtRisk, Reasons: reasons}
	default:
		return Assessment{Status: StatusOk}
	}
}

func reason(metric string, usedPct fixed.Point) string {
	return fmt.Sprintf("%s limit %s%% used", metric, usedPct.Rescale(0))
}
