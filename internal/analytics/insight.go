package analytics

import (
	"github.com/shopspring/decimal"

	"fintrack/internal/core"
)

// Comparison messages, first matching rule wins.
const (
	MsgNotEnoughData   = "Not enough data to compare financial reports."
	MsgHealthImproved  = "Your financial health has improved! Keep up the good work."
	MsgHealthDeclined  = "Your financial health has declined. Consider adjusting your expenses."
	MsgSavingMore      = "You're saving more this month! Great job!"
	MsgSavingsDecrease = "Your savings have decreased compared to last month. Try to budget better."
	MsgStable          = "Your financial performance is stable."
)

// Insight messages.
const (
	MsgDoingGreat   = "You're doing great!"
	MsgOverspending = "Your expenses exceed your income. Consider cutting down."
	MsgOver70       = "You're spending over 70% of your income. Try saving more."
	MsgUnder40      = "Great job! You're spending less than 40% of your income. Keep saving!"
	MsgAlmostAll    = "Warning: You're spending almost all of your income. Consider reviewing your budget."
)

// CompareReports picks the comparison message for two periods' reports.
func CompareReports(current, previous core.FinancialReport) string {
	switch {
	case current.Score > previous.Score:
		return MsgHealthImproved
	case current.Score < previous.Score:
		return MsgHealthDeclined
	case current.Savings.Cents > previous.Savings.Cents:
		return MsgSavingMore
	case current.Savings.Cents < previous.Savings.Cents:
		return MsgSavingsDecrease
	default:
		return MsgStable
	}
}

type insightRule struct {
	applies func(income, expense decimal.Decimal) bool
	message string
}

// insightRules run top to bottom and every match overwrites the previous
// message, so the last matching rule decides, not the most severe one.
var insightRules = []insightRule{
	{func(in, ex decimal.Decimal) bool { return ex.GreaterThan(in) }, MsgOverspending},
	{func(in, ex decimal.Decimal) bool { return ex.GreaterThan(in.Mul(ratio70)) }, MsgOver70},
	{func(in, ex decimal.Decimal) bool { return ex.LessThan(in.Mul(ratio40)) }, MsgUnder40},
	{func(in, ex decimal.Decimal) bool { return ex.GreaterThan(in.Mul(ratio90)) }, MsgAlmostAll},
}

var (
	ratio40 = decimal.RequireFromString("0.4")
	ratio70 = decimal.RequireFromString("0.7")
	ratio90 = decimal.RequireFromString("0.9")
)

// InsightMessage selects the insight text for lifetime totals.
func InsightMessage(income, expense core.Money) string {
	in := decimal.NewFromInt(income.Cents)
	ex := decimal.NewFromInt(expense.Cents)
	msg := MsgDoingGreat
	for _, r := range insightRules {
		if r.applies(in, ex) {
			msg = r.message
		}
	}
	return msg
}
