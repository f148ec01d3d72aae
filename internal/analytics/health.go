package analytics

import (
	"github.com/shopspring/decimal"

	"fintrack/internal/core"
)

// BaseScore is the starting point before rule adjustments.
const BaseScore = 100

// Totals are the lifetime ledger figures a health score is derived from.
type Totals struct {
	Income      core.Money
	Expense     core.Money
	Savings     core.Money
	SavingsRate decimal.Decimal // percent, unrounded
}

// NewTotals derives savings and the savings rate. The rate is zero when there
// is no income.
func NewTotals(income, expense core.Money) Totals {
	t := Totals{Income: income, Expense: expense, Savings: income.Sub(expense)}
	if income.Cents > 0 {
		t.SavingsRate = decimal.NewFromInt(t.Savings.Cents).Mul(hundred).Div(decimal.NewFromInt(income.Cents))
	}
	return t
}

// ScoreRule adjusts the score by Delta when Applies holds for the totals.
type ScoreRule struct {
	Name    string
	Applies func(Totals) bool
	Delta   int
}

var (
	ten   = decimal.NewFromInt(10)
	fifty = decimal.NewFromInt(50)
)

// ScoreRules are applied in order. Every predicate sees the original totals;
// the running score is never clamped.
var ScoreRules = []ScoreRule{
	{Name: "low_savings_rate", Applies: func(t Totals) bool { return t.SavingsRate.LessThan(ten) }, Delta: -30},
	{Name: "overspending", Applies: func(t Totals) bool { return t.Expense.Cents > t.Income.Cents }, Delta: -40},
	{Name: "high_savings_rate", Applies: func(t Totals) bool { return t.SavingsRate.GreaterThan(fifty) }, Delta: 20},
}

// HealthResult is the outcome of a health calculation.
type HealthResult struct {
	Score        int             `json:"score"`
	SavingsRate  decimal.Decimal `json:"savingsRate"`
	TotalIncome  core.Money      `json:"totalIncome"`
	TotalExpense core.Money      `json:"totalExpense"`
	Savings      core.Money      `json:"savings"`
}

// Score applies ScoreRules to t.
func Score(t Totals) int {
	score := BaseScore
	for _, r := range ScoreRules {
		if r.Applies(t) {
			score += r.Delta
		}
	}
	return score
}

// Health computes the score for the given totals. The reported savings rate is
// rounded to two decimals after the rules have been evaluated.
func Health(income, expense core.Money) HealthResult {
	t := NewTotals(income, expense)
	return HealthResult{
		Score:        Score(t),
		SavingsRate:  t.SavingsRate.Round(2),
		TotalIncome:  t.Income,
		TotalExpense: t.Expense,
		Savings:      t.Savings,
	}
}
