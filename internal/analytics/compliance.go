package analytics

import (
	"github.com/shopspring/decimal"

	"fintrack/internal/core"
)

// NotApplicable is reported instead of a percentage when a budget amount is zero.
const NotApplicable = "N/A"

var hundred = decimal.NewFromInt(100)

// ComplianceEntry is the spend-versus-budget line for one budget.
type ComplianceEntry struct {
	Category             core.Category `json:"category"`
	BudgetedAmount       core.Money    `json:"budgetedAmount"`
	SpentAmount          core.Money    `json:"spentAmount"`
	CompliancePercentage string        `json:"compliancePercentage"`
}

// Compliance reports one entry per budget, in budget order. Each budget is
// compared against the full spend of its category, so two budgets on the same
// category both see the same total.
func Compliance(budgets []core.Budget, expenses []core.Transaction) []ComplianceEntry {
	spent := SumByCategory(expenses)
	out := make([]ComplianceEntry, 0, len(budgets))
	for _, b := range budgets {
		s := spent[b.Category]
		out = append(out, ComplianceEntry{
			Category:             b.Category,
			BudgetedAmount:       b.Amount,
			SpentAmount:          s,
			CompliancePercentage: CompliancePercentage(s, b.Amount),
		})
	}
	return out
}

// CompliancePercentage returns spent/budget*100 rounded half-up to two
// decimals, or NotApplicable when budget is zero.
func CompliancePercentage(spent, budget core.Money) string {
	if budget.Cents == 0 {
		return NotApplicable
	}
	pct := decimal.NewFromInt(spent.Cents).Mul(hundred).Div(decimal.NewFromInt(budget.Cents))
	return pct.StringFixed(2)
}
