package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"fintrack/internal/core"
)

func newTestRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	repo, err := NewSQLiteRepository(filepath.Join(t.TempDir(), "data", "fintrack.db"))
	if err != nil {
		t.Fatalf("open repo: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func at(d int) time.Time {
	return time.Date(2025, time.April, d, 9, 30, 0, 0, time.UTC)
}

func TestMigrationsAreIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fintrack.db")
	repo, err := NewSQLiteRepository(path)
	if err != nil {
		t.Fatalf("first open: %v", err)
	}
	repo.Close()
	if err := RunMigrations(path); err != nil {
		t.Fatalf("rerun migrations: %v", err)
	}
}

func TestTransactionRoundTripAndFilter(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	for _, tx := range []core.Transaction{
		{ID: "e1", UserID: "u1", Kind: core.Expense, Title: "Groceries", Amount: core.Money{Cents: 4599}, Category: core.Food, Date: at(2), CreatedAt: at(2)},
		{ID: "e2", UserID: "u1", Kind: core.Expense, Title: "Bus", Amount: core.Money{Cents: 250}, Category: core.Transport, Date: at(5), CreatedAt: at(5)},
		{ID: "e3", UserID: "u2", Kind: core.Expense, Title: "Other user", Amount: core.Money{Cents: 100}, Category: core.Food, Date: at(3), CreatedAt: at(3)},
		{ID: "i1", UserID: "u1", Kind: core.Income, Title: "Pay", Amount: core.Money{Cents: 300000}, Category: core.Salary, Date: at(1), CreatedAt: at(1)},
	} {
		if _, err := repo.CreateTransaction(ctx, tx); err != nil {
			t.Fatalf("create %s: %v", tx.ID, err)
		}
	}

	got, err := repo.GetTransaction(ctx, core.Expense, "e1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !got.Date.Equal(at(2)) || got.Amount.Cents != 4599 || got.Category != core.Food {
		t.Fatalf("unexpected round trip: %+v", got)
	}
	if _, err := repo.GetTransaction(ctx, core.Income, "e1"); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("cross-ledger get: want ErrNotFound, got %v", err)
	}

	list, err := repo.ListTransactions(ctx, core.Expense, core.LedgerFilter{UserID: "u1"})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 2 || list[0].ID != "e2" || list[1].ID != "e1" {
		t.Fatalf("expected [e2 e1], got %+v", list)
	}

	start, end := at(2), at(4)
	list, _ = repo.ListTransactions(ctx, core.Expense, core.LedgerFilter{UserID: "u1", Start: &start, End: &end})
	if len(list) != 1 || list[0].ID != "e1" {
		t.Fatalf("expected inclusive range [e1], got %+v", list)
	}
	list, _ = repo.ListTransactions(ctx, core.Expense, core.LedgerFilter{UserID: "u1", Category: core.Transport})
	if len(list) != 1 || list[0].ID != "e2" {
		t.Fatalf("expected category filter [e2], got %+v", list)
	}
	list, _ = repo.ListTransactions(ctx, core.Expense, core.LedgerFilter{UserID: "nobody"})
	if list == nil || len(list) != 0 {
		t.Fatalf("expected empty non-nil list, got %#v", list)
	}

	got.Title = "Weekly groceries"
	if _, err := repo.UpdateTransaction(ctx, got); err != nil {
		t.Fatalf("update: %v", err)
	}
	got, _ = repo.GetTransaction(ctx, core.Expense, "e1")
	if got.Title != "Weekly groceries" {
		t.Fatalf("update not persisted: %+v", got)
	}
	if err := repo.DeleteTransaction(ctx, core.Expense, "e1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := repo.DeleteTransaction(ctx, core.Expense, "e1"); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("second delete: want ErrNotFound, got %v", err)
	}

	users, err := repo.ListUserIDs(ctx)
	if err != nil || len(users) != 2 {
		t.Fatalf("users = %v, err = %v", users, err)
	}
}

func TestReportUniqueIndex(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)
	p := core.Period{Month: 4, Year: 2025}

	if _, ok, err := repo.FindReport(ctx, "u1", p); ok || err != nil {
		t.Fatalf("expected no report, ok=%v err=%v", ok, err)
	}
	rep := core.FinancialReport{
		ID: "r1", UserID: "u1", Month: 4, Year: 2025, Score: 70,
		SavingsRate: decimal.RequireFromString("33.33"),
		TotalIncome: core.Money{Cents: 300000}, TotalExpense: core.Money{Cents: 200000}, Savings: core.Money{Cents: 100000},
		CreatedAt: at(1),
	}
	if _, err := repo.CreateReport(ctx, rep); err != nil {
		t.Fatalf("create: %v", err)
	}
	dup := rep
	dup.ID = "r2"
	if _, err := repo.CreateReport(ctx, dup); !errors.Is(err, core.ErrStore) {
		t.Fatalf("duplicate period: want ErrStore, got %v", err)
	}

	rep.Score = 100
	if _, err := repo.UpdateReport(ctx, rep); err != nil {
		t.Fatalf("update: %v", err)
	}
	got, ok, err := repo.FindReport(ctx, "u1", p)
	if err != nil || !ok {
		t.Fatalf("find: ok=%v err=%v", ok, err)
	}
	if got.Score != 100 || !got.SavingsRate.Equal(decimal.RequireFromString("33.33")) {
		t.Fatalf("unexpected report %+v", got)
	}

	older := rep
	older.ID, older.Month, older.Year = "r0", 12, 2024
	if _, err := repo.CreateReport(ctx, older); err != nil {
		t.Fatalf("create older: %v", err)
	}
	list, _ := repo.ListReports(ctx, "u1")
	if len(list) != 2 || list[0].ID != "r1" {
		t.Fatalf("expected latest first, got %+v", list)
	}
}

func TestBudgetGoalInsightCRUD(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	b := core.Budget{ID: "b1", UserID: "u1", Category: core.Food, Amount: core.Money{Cents: 50000}, CreatedAt: at(1)}
	if _, err := repo.CreateBudget(ctx, b); err != nil {
		t.Fatalf("create budget: %v", err)
	}
	b.Amount = core.Money{Cents: 60000}
	if _, err := repo.UpdateBudget(ctx, b); err != nil {
		t.Fatalf("update budget: %v", err)
	}
	budgets, _ := repo.ListBudgets(ctx, "u1")
	if len(budgets) != 1 || budgets[0].Amount.Cents != 60000 {
		t.Fatalf("unexpected budgets %+v", budgets)
	}
	if _, err := repo.UpdateBudget(ctx, core.Budget{ID: "missing"}); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}

	g := core.SavingsGoal{ID: "g1", UserID: "u1", GoalAmount: core.Money{Cents: 1000}, TargetDate: at(30), Status: core.GoalInProgress, CreatedAt: at(1)}
	if _, err := repo.CreateGoal(ctx, g); err != nil {
		t.Fatalf("create goal: %v", err)
	}
	_ = g.AddProgress(core.Money{Cents: 1000})
	if _, err := repo.UpdateGoal(ctx, g); err != nil {
		t.Fatalf("update goal: %v", err)
	}
	got, err := repo.GetGoal(ctx, "g1")
	if err != nil || got.Status != core.GoalCompleted || !got.TargetDate.Equal(at(30)) {
		t.Fatalf("unexpected goal %+v err=%v", got, err)
	}

	in := core.Insight{ID: "n1", UserID: "u1", Title: core.InsightTitle, Message: "m", Category: core.InsightCategory, Date: at(2)}
	if _, err := repo.CreateInsight(ctx, in); err != nil {
		t.Fatalf("create insight: %v", err)
	}
	if err := repo.DeleteInsight(ctx, "n1"); err != nil {
		t.Fatalf("delete insight: %v", err)
	}
	if _, err := repo.GetInsight(ctx, "n1"); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestDatesOutsideNanosecondRange(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	target := time.Date(2300, 1, 1, 0, 0, 0, 0, time.UTC)
	if _, err := repo.CreateGoal(ctx, core.SavingsGoal{
		ID: "g1", UserID: "u1", GoalAmount: core.Money{Cents: 100000},
		TargetDate: target, Status: core.GoalInProgress, CreatedAt: at(1),
	}); err != nil {
		t.Fatalf("create goal: %v", err)
	}
	g, err := repo.GetGoal(ctx, "g1")
	if err != nil {
		t.Fatalf("get goal: %v", err)
	}
	if !g.TargetDate.Equal(target) {
		t.Fatalf("target date = %v, want %v", g.TargetDate, target)
	}

	dates := []time.Time{
		time.Date(1600, 6, 1, 12, 0, 0, 0, time.UTC),
		at(10),
		time.Date(2400, 3, 1, 8, 0, 0, 0, time.UTC),
	}
	for i, d := range dates {
		if _, err := repo.CreateTransaction(ctx, core.Transaction{
			ID: "x" + string(rune('a'+i)), UserID: "u1", Kind: core.Expense, Title: "t",
			Amount: core.Money{Cents: 100}, Category: core.Other, Date: d, CreatedAt: at(1),
		}); err != nil {
			t.Fatalf("create %v: %v", d, err)
		}
	}

	list, err := repo.ListTransactions(ctx, core.Expense, core.LedgerFilter{UserID: "u1"})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 3 || !list[0].Date.Equal(dates[2]) || !list[2].Date.Equal(dates[0]) {
		t.Fatalf("unexpected order %+v", list)
	}

	start := time.Date(2300, 1, 1, 0, 0, 0, 0, time.UTC)
	list, err = repo.ListTransactions(ctx, core.Expense, core.LedgerFilter{UserID: "u1", Start: &start})
	if err != nil {
		t.Fatalf("filtered list: %v", err)
	}
	if len(list) != 1 || !list[0].Date.Equal(dates[2]) {
		t.Fatalf("start bound after 2262 matched %+v", list)
	}
}
