package common

import (
	"time"

	"go.uber.org/zap"

	"papertrade/pkg/utility/fixed"
)

// Account carries the simulated account state. Balance moves only on realized
// profit, Equity is balance plus the sum of unrealized P/L across open
// positions. PeakEquity and DayStartBalance feed the risk evaluator.
type Account struct {
	Currency        string      `json:"currency"`
	Balance         fixed.Point `json:"balance"`
	Equity          fixed.Point `json:"equity"`
	PeakEquity      fixed.Point `json:"peak_equity"`
	DayStartBalance fixed.Point `json:"day_start_balance"`
	OpenLots        fixed.Point `json:"open_lots"`
	TimeStamp       time.Time   `json:"ts"`
}

func (a Account) Fields() []zap.Field {
	return []zap.Field{
		zap.String("currency", a.Currency),
		zap.String("balance", a.Balance.String()),
		zap.String("equity", a.Equity.String()),
		zap.String("open_lots", a.OpenLots.String()),
	}
}
