// Package store declares the record-store ports the services depend on.
// Implementations live in store/memory, store/mongostore and storage (SQLite).
//
// Every Get/Update/Delete returns an error matching core.ErrNotFound when the
// id is unknown; driver failures match core.ErrStore.
package store

import (
	"context"

	"fintrack/internal/core"
)

// Ports for outbound adapters.
type (
	TransactionStore interface {
		CreateTransaction(ctx context.Context, t core.Transaction) (core.Transaction, error)
		GetTransaction(ctx context.Context, kind core.Kind, id string) (core.Transaction, error)
		UpdateTransaction(ctx context.Context, t core.Transaction) (core.Transaction, error)
		DeleteTransaction(ctx context.Context, kind core.Kind, id string) error
		// ListTransactions returns matching records ordered by date descending.
		ListTransactions(ctx context.Context, kind core.Kind, f core.LedgerFilter) ([]core.Transaction, error)
		// ListUserIDs returns every user owning at least one transaction.
		ListUserIDs(ctx context.Context) ([]string, error)
	}

	BudgetStore interface {
		CreateBudget(ctx context.Context, b core.Budget) (core.Budget, error)
		GetBudget(ctx context.Context, id string) (core.Budget, error)
		UpdateBudget(ctx context.Context, b core.Budget) (core.Budget, error)
		DeleteBudget(ctx context.Context, id string) error
		// ListBudgets returns the user's budgets, newest first.
		ListBudgets(ctx context.Context, userID string) ([]core.Budget, error)
	}

	GoalStore interface {
		CreateGoal(ctx context.Context, g core.SavingsGoal) (core.SavingsGoal, error)
		GetGoal(ctx context.Context, id string) (core.SavingsGoal, error)
		UpdateGoal(ctx context.Context, g core.SavingsGoal) (core.SavingsGoal, error)
		DeleteGoal(ctx context.Context, id string) error
		// ListGoals returns the user's goals, newest first.
		ListGoals(ctx context.Context, userID string) ([]core.SavingsGoal, error)
	}

	ReportStore interface {
		// FindReport looks up the report for (user, period); ok is false when
		// none exists.
		FindReport(ctx context.Context, userID string, p core.Period) (r core.FinancialReport, ok bool, err error)
		CreateReport(ctx context.Context, r core.FinancialReport) (core.FinancialReport, error)
		UpdateReport(ctx context.Context, r core.FinancialReport) (core.FinancialReport, error)
		// ListReports returns the user's reports, latest period first.
		ListReports(ctx context.Context, userID string) ([]core.FinancialReport, error)
	}

	InsightStore interface {
		CreateInsight(ctx context.Context, i core.Insight) (core.Insight, error)
		GetInsight(ctx context.Context, id string) (core.Insight, error)
		UpdateInsight(ctx context.Context, i core.Insight) (core.Insight, error)
		DeleteInsight(ctx context.Context, id string) error
		// ListInsights returns the user's insights, newest first.
		ListInsights(ctx context.Context, userID string) ([]core.Insight, error)
	}

	// Repository is a complete backend.
	Repository interface {
		TransactionStore
		BudgetStore
		GoalStore
		ReportStore
		InsightStore
		Ping(ctx context.Context) error
		Close() error
	}
)
