package analytics

import (
	"testing"

	"github.com/shopspring/decimal"

	"fintrack/internal/core"
)

func expense(cat core.Category, cents int64) core.Transaction {
	return core.Transaction{Kind: core.Expense, Category: cat, Amount: core.Money{Cents: cents}}
}

func TestSum(t *testing.T) {
	if got := Sum(nil); got.Cents != 0 {
		t.Fatalf("Sum(nil) = %d, want 0", got.Cents)
	}
	// 0.1 added ten times must be exactly 1.00
	var txs []core.Transaction
	for i := 0; i < 10; i++ {
		txs = append(txs, expense(core.Food, 10))
	}
	if got := Sum(txs); got.Cents != 100 {
		t.Fatalf("Sum = %d, want 100", got.Cents)
	}
}

func TestSumByCategory(t *testing.T) {
	got := SumByCategory([]core.Transaction{
		expense(core.Food, 1000),
		expense(core.Food, 250),
		expense(core.Health, 99),
	})
	if len(got) != 2 {
		t.Fatalf("expected 2 categories, got %v", got)
	}
	if got[core.Food].Cents != 1250 || got[core.Health].Cents != 99 {
		t.Fatalf("unexpected sums %v", got)
	}
	if _, ok := got[core.Transport]; ok {
		t.Fatalf("categories without spend must be absent")
	}
}

func TestCompliance(t *testing.T) {
	budgets := []core.Budget{
		{ID: "b3", Category: core.Food, Amount: core.Money{Cents: 30000}},
		{ID: "b2", Category: core.Transport, Amount: core.Money{Cents: 10000}},
		{ID: "b1", Category: core.Food, Amount: core.Money{Cents: 20000}},
		{ID: "b0", Category: core.Health, Amount: core.Money{Cents: 0}},
	}
	expenses := []core.Transaction{
		expense(core.Food, 10000),
		expense(core.Food, 5050),
		expense(core.Shopping, 999),
	}

	got := Compliance(budgets, expenses)
	want := []ComplianceEntry{
		{Category: core.Food, BudgetedAmount: core.Money{Cents: 30000}, SpentAmount: core.Money{Cents: 15050}, CompliancePercentage: "50.17"},
		{Category: core.Transport, BudgetedAmount: core.Money{Cents: 10000}, SpentAmount: core.Money{}, CompliancePercentage: "0.00"},
		{Category: core.Food, BudgetedAmount: core.Money{Cents: 20000}, SpentAmount: core.Money{Cents: 15050}, CompliancePercentage: "75.25"},
		{Category: core.Health, BudgetedAmount: core.Money{}, SpentAmount: core.Money{}, CompliancePercentage: NotApplicable},
	}
	if len(got) != len(want) {
		t.Fatalf("got %d entries, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("entry %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestCompliancePercentageRounding(t *testing.T) {
	cases := []struct {
		spent, budget int64
		want          string
	}{
		{1, 3, "33.33"},
		{2, 3, "66.67"},
		{15000, 10000, "150.00"},
		{12345, 100000, "12.35"},
	}
	for _, tc := range cases {
		got := CompliancePercentage(core.Money{Cents: tc.spent}, core.Money{Cents: tc.budget})
		if got != tc.want {
			t.Errorf("CompliancePercentage(%d, %d) = %s, want %s", tc.spent, tc.budget, got, tc.want)
		}
	}
}

func TestHealth(t *testing.T) {
	cases := []struct {
		name        string
		income      int64
		expense     int64
		score       int
		savingsRate string
		savings     int64
	}{
		{"low savings rate", 100000, 95000, 70, "5", 5000},
		{"overspending", 100000, 110000, 30, "-10", -10000},
		{"high savings rate", 100000, 40000, 120, "60", 60000},
		{"healthy middle", 100000, 70000, 100, "30", 30000},
		{"exactly ten percent", 100000, 90000, 100, "10", 10000},
		{"exactly fifty percent", 100000, 50000, 100, "50", 50000},
		{"no income", 0, 5000, 30, "0", -5000},
		{"empty ledger", 0, 0, 70, "0", 0},
		{"rounded rate", 300000, 200000, 100, "33.33", 100000},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Health(core.Money{Cents: tc.income}, core.Money{Cents: tc.expense})
			if got.Score != tc.score {
				t.Errorf("score = %d, want %d", got.Score, tc.score)
			}
			if !got.SavingsRate.Equal(decimal.RequireFromString(tc.savingsRate)) {
				t.Errorf("savingsRate = %s, want %s", got.SavingsRate, tc.savingsRate)
			}
			if got.Savings.Cents != tc.savings {
				t.Errorf("savings = %d, want %d", got.Savings.Cents, tc.savings)
			}
		})
	}
}

func TestScoreRulesSeeUnroundedRate(t *testing.T) {
	// 9.999% rounds to 10.00 but the rule must still fire on the raw value.
	totals := NewTotals(core.Money{Cents: 1000000}, core.Money{Cents: 900010})
	if !totals.SavingsRate.LessThan(decimal.NewFromInt(10)) {
		t.Fatalf("expected raw rate below 10, got %s", totals.SavingsRate)
	}
	if got := Score(totals); got != 70 {
		t.Fatalf("score = %d, want 70", got)
	}
}

func TestCompareReports(t *testing.T) {
	report := func(score int, savings int64) core.FinancialReport {
		return core.FinancialReport{Score: score, Savings: core.Money{Cents: savings}}
	}
	cases := []struct {
		name     string
		cur, prv core.FinancialReport
		want     string
	}{
		{"score up wins over savings down", report(100, 10), report(70, 500), MsgHealthImproved},
		{"score down", report(70, 900), report(100, 10), MsgHealthDeclined},
		{"same score savings up", report(100, 900), report(100, 10), MsgSavingMore},
		{"same score savings down", report(100, 10), report(100, 900), MsgSavingsDecrease},
		{"stable", report(100, 10), report(100, 10), MsgStable},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := CompareReports(tc.cur, tc.prv); got != tc.want {
				t.Fatalf("got %q, want %q", got, tc.want)
			}
		})
	}
}

func TestInsightMessageLastMatchWins(t *testing.T) {
	cases := []struct {
		name            string
		income, expense int64
		want            string
	}{
		{"moderate spend keeps default", 100000, 50000, MsgDoingGreat},
		{"low spend", 100000, 30000, MsgUnder40},
		{"over seventy", 100000, 80000, MsgOver70},
		{"over ninety overwrites over seventy", 100000, 95000, MsgAlmostAll},
		{"overspend is overwritten by the ninety percent rule", 100000, 120000, MsgAlmostAll},
		{"no income", 0, 5000, MsgAlmostAll},
		{"exactly seventy", 100000, 70000, MsgDoingGreat},
		{"exactly forty", 100000, 40000, MsgDoingGreat},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := InsightMessage(core.Money{Cents: tc.income}, core.Money{Cents: tc.expense})
			if got != tc.want {
				t.Fatalf("got %q, want %q", got, tc.want)
			}
		})
	}
}
