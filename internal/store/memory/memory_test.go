package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"fintrack/internal/core"
)

func day(d int) time.Time {
	return time.Date(2025, time.March, d, 12, 0, 0, 0, time.UTC)
}

func TestTransactionsCRUDAndOrdering(t *testing.T) {
	ctx := context.Background()
	s := New()
	for i, d := range []int{3, 10, 1} {
		_, err := s.CreateTransaction(ctx, core.Transaction{
			ID:       string(rune('a' + i)),
			UserID:   "u1",
			Kind:     core.Expense,
			Title:    "t",
			Amount:   core.Money{Cents: 100},
			Category: core.Food,
			Date:     day(d),
		})
		if err != nil {
			t.Fatalf("create: %v", err)
		}
	}
	// other user and other ledger must not leak
	_, _ = s.CreateTransaction(ctx, core.Transaction{ID: "x", UserID: "u2", Kind: core.Expense, Category: core.Food, Date: day(5)})
	_, _ = s.CreateTransaction(ctx, core.Transaction{ID: "y", UserID: "u1", Kind: core.Income, Category: core.Salary, Date: day(5)})

	got, err := s.ListTransactions(ctx, core.Expense, core.LedgerFilter{UserID: "u1"})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 3 || got[0].ID != "b" || got[1].ID != "a" || got[2].ID != "c" {
		t.Fatalf("expected date-descending [b a c], got %+v", got)
	}

	start, end := day(2), day(3)
	got, _ = s.ListTransactions(ctx, core.Expense, core.LedgerFilter{UserID: "u1", Start: &start, End: &end})
	if len(got) != 1 || got[0].ID != "a" {
		t.Fatalf("expected inclusive range to return a, got %+v", got)
	}

	if _, err := s.GetTransaction(ctx, core.Income, "a"); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expense id looked up in income ledger: want ErrNotFound, got %v", err)
	}
	if err := s.DeleteTransaction(ctx, core.Expense, "a"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := s.DeleteTransaction(ctx, core.Expense, "a"); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("second delete: want ErrNotFound, got %v", err)
	}
	if _, err := s.UpdateTransaction(ctx, core.Transaction{ID: "missing", Kind: core.Expense}); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("update missing: want ErrNotFound, got %v", err)
	}

	users, _ := s.ListUserIDs(ctx)
	if len(users) != 2 || users[0] != "u1" || users[1] != "u2" {
		t.Fatalf("unexpected users %v", users)
	}
}

func TestReportsUniquePerPeriod(t *testing.T) {
	ctx := context.Background()
	s := New()
	p := core.Period{Month: 3, Year: 2025}
	if _, ok, _ := s.FindReport(ctx, "u1", p); ok {
		t.Fatalf("expected no report")
	}
	r := core.FinancialReport{ID: "r1", UserID: "u1", Month: 3, Year: 2025, Score: 70}
	if _, err := s.CreateReport(ctx, r); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := s.CreateReport(ctx, core.FinancialReport{ID: "r2", UserID: "u1", Month: 3, Year: 2025}); !errors.Is(err, core.ErrStore) {
		t.Fatalf("duplicate create: want ErrStore, got %v", err)
	}
	r.Score = 100
	if _, err := s.UpdateReport(ctx, r); err != nil {
		t.Fatalf("update: %v", err)
	}
	got, ok, _ := s.FindReport(ctx, "u1", p)
	if !ok || got.Score != 100 {
		t.Fatalf("expected updated report, got %+v ok=%v", got, ok)
	}

	_, _ = s.CreateReport(ctx, core.FinancialReport{ID: "r3", UserID: "u1", Month: 12, Year: 2024})
	_, _ = s.CreateReport(ctx, core.FinancialReport{ID: "r4", UserID: "u1", Month: 1, Year: 2025})
	list, _ := s.ListReports(ctx, "u1")
	if len(list) != 3 || list[0].ID != "r1" || list[1].ID != "r4" || list[2].ID != "r3" {
		t.Fatalf("expected latest period first, got %+v", list)
	}
}

func TestBudgetsGoalsInsights(t *testing.T) {
	ctx := context.Background()
	s := New()
	_, _ = s.CreateBudget(ctx, core.Budget{ID: "b1", UserID: "u1", CreatedAt: day(1)})
	_, _ = s.CreateBudget(ctx, core.Budget{ID: "b2", UserID: "u1", CreatedAt: day(2)})
	_, _ = s.CreateBudget(ctx, core.Budget{ID: "b3", UserID: "u2", CreatedAt: day(3)})
	budgets, _ := s.ListBudgets(ctx, "u1")
	if len(budgets) != 2 || budgets[0].ID != "b2" {
		t.Fatalf("expected newest budget first, got %+v", budgets)
	}
	if err := s.DeleteBudget(ctx, "nope"); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}

	_, _ = s.CreateGoal(ctx, core.SavingsGoal{ID: "g1", UserID: "u1"})
	g, err := s.GetGoal(ctx, "g1")
	if err != nil || g.UserID != "u1" {
		t.Fatalf("get goal: %+v %v", g, err)
	}
	if _, err := s.UpdateGoal(ctx, core.SavingsGoal{ID: "g2"}); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}

	_, _ = s.CreateInsight(ctx, core.Insight{ID: "i1", UserID: "u1", Date: day(1)})
	_, _ = s.CreateInsight(ctx, core.Insight{ID: "i2", UserID: "u1", Date: day(4)})
	ins, _ := s.ListInsights(ctx, "u1")
	if len(ins) != 2 || ins[0].ID != "i2" {
		t.Fatalf("expected newest insight first, got %+v", ins)
	}
}
