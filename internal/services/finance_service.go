package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"fintrack/internal/analytics"
	"fintrack/internal/core"
	"fintrack/internal/store"
)

// FinanceStore is the slice of a backend the derived metrics read and write.
type FinanceStore interface {
	store.TransactionStore
	store.BudgetStore
	store.ReportStore
	store.InsightStore
}

// FinanceService derives compliance, health, comparisons, insights and
// summaries from a user's ledger.
type FinanceService struct {
	store FinanceStore
	clock core.Clock
	newID func() string
}

func NewFinanceService(s FinanceStore, clock core.Clock) *FinanceService {
	if clock == nil {
		clock = core.SystemClock
	}
	return &FinanceService{store: s, clock: clock, newID: uuid.NewString}
}

// Comparison is either the two reports with a verdict, or Message alone when
// one of the periods has no report.
type Comparison struct {
	CurrentReport  *core.FinancialReport `json:"currentReport,omitempty"`
	PreviousReport *core.FinancialReport `json:"previousReport,omitempty"`
	InsightMessage string                `json:"insightMessage,omitempty"`
	Message        string                `json:"message,omitempty"`
}

// ledger fetches the user's lifetime incomes and expenses concurrently.
func (s *FinanceService) ledger(ctx context.Context, userID string) (incomes, expenses []core.Transaction, err error) {
	g, gctx := errgroup.WithContext(ctx)
	all := core.LedgerFilter{UserID: userID}
	g.Go(func() error {
		var err error
		incomes, err = s.store.ListTransactions(gctx, core.Income, all)
		if err != nil {
			return fmt.Errorf("fetch incomes: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		expenses, err = s.store.ListTransactions(gctx, core.Expense, all)
		if err != nil {
			return fmt.Errorf("fetch expenses: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return incomes, expenses, nil
}

// ComputeBudgetCompliance compares every budget with the lifetime spend of its
// category.
func (s *FinanceService) ComputeBudgetCompliance(ctx context.Context, userID string) ([]analytics.ComplianceEntry, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	var (
		budgets  []core.Budget
		expenses []core.Transaction
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		budgets, err = s.store.ListBudgets(gctx, userID)
		if err != nil {
			return fmt.Errorf("fetch budgets: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		expenses, err = s.store.ListTransactions(gctx, core.Expense, core.LedgerFilter{UserID: userID})
		if err != nil {
			return fmt.Errorf("fetch expenses: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return analytics.Compliance(budgets, expenses), nil
}

// ComputeFinancialHealth scores the lifetime ledger and upserts the report of
// the current period.
func (s *FinanceService) ComputeFinancialHealth(ctx context.Context, userID string) (analytics.HealthResult, error) {
	if err := requireUser(userID); err != nil {
		return analytics.HealthResult{}, err
	}
	incomes, expenses, err := s.ledger(ctx, userID)
	if err != nil {
		return analytics.HealthResult{}, err
	}
	res := analytics.Health(analytics.Sum(incomes), analytics.Sum(expenses))

	now := s.clock()
	if _, err := s.upsertReport(ctx, userID, core.PeriodOf(now), res); err != nil {
		return analytics.HealthResult{}, err
	}
	return res, nil
}

// upsertReport creates the (user, period) report or overwrites its figures in
// place. The id, period and creation time of an existing report never change.
func (s *FinanceService) upsertReport(ctx context.Context, userID string, p core.Period, res analytics.HealthResult) (core.FinancialReport, error) {
	cur, found, err := s.store.FindReport(ctx, userID, p)
	if err != nil {
		return core.FinancialReport{}, fmt.Errorf("find report %s: %w", p, err)
	}
	if !found {
		cur = core.FinancialReport{
			ID:        s.newID(),
			UserID:    userID,
			Month:     p.Month,
			Year:      p.Year,
			CreatedAt: s.clock(),
		}
	}
	cur.Score = res.Score
	cur.SavingsRate = res.SavingsRate
	cur.TotalIncome = res.TotalIncome
	cur.TotalExpense = res.TotalExpense
	cur.Savings = res.Savings

	if found {
		cur, err = s.store.UpdateReport(ctx, cur)
	} else {
		cur, err = s.store.CreateReport(ctx, cur)
	}
	if err != nil {
		return core.FinancialReport{}, fmt.Errorf("save report %s: %w", p, err)
	}
	slog.InfoContext(ctx, "Financial report saved",
		"user_id", userID,
		"period", p.String(),
		"score", cur.Score,
		"created", !found)
	return cur, nil
}

// GetMonthlyComparison compares the stored reports of the current and the
// previous period. Reports are read, never recomputed.
func (s *FinanceService) GetMonthlyComparison(ctx context.Context, userID string) (Comparison, error) {
	if err := requireUser(userID); err != nil {
		return Comparison{}, err
	}
	p := core.PeriodOf(s.clock())
	cur, ok, err := s.store.FindReport(ctx, userID, p)
	if err != nil {
		return Comparison{}, fmt.Errorf("find report %s: %w", p, err)
	}
	if !ok {
		return Comparison{Message: analytics.MsgNotEnoughData}, nil
	}
	prevPeriod := p.Previous()
	prev, ok, err := s.store.FindReport(ctx, userID, prevPeriod)
	if err != nil {
		return Comparison{}, fmt.Errorf("find report %s: %w", prevPeriod, err)
	}
	if !ok {
		return Comparison{Message: analytics.MsgNotEnoughData}, nil
	}
	return Comparison{
		CurrentReport:  &cur,
		PreviousReport: &prev,
		InsightMessage: analytics.CompareReports(cur, prev),
	}, nil
}

// GenerateInsight stores a new insight derived from the lifetime totals.
func (s *FinanceService) GenerateInsight(ctx context.Context, userID string) (core.Insight, error) {
	if err := requireUser(userID); err != nil {
		return core.Insight{}, err
	}
	incomes, expenses, err := s.ledger(ctx, userID)
	if err != nil {
		return core.Insight{}, err
	}
	if len(incomes) == 0 && len(expenses) == 0 {
		return core.Insight{}, core.ErrNoFinancialData
	}
	in := core.Insight{
		ID:       s.newID(),
		UserID:   userID,
		Title:    core.InsightTitle,
		Message:  analytics.InsightMessage(analytics.Sum(incomes), analytics.Sum(expenses)),
		Category: core.InsightCategory,
		Date:     s.clock(),
	}
	created, err := s.store.CreateInsight(ctx, in)
	if err != nil {
		return core.Insight{}, fmt.Errorf("save insight: %w", err)
	}
	return created, nil
}

func (s *FinanceService) ListInsights(ctx context.Context, userID string) ([]core.Insight, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	out, err := s.store.ListInsights(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list insights: %w", err)
	}
	return out, nil
}

func (s *FinanceService) UpdateInsight(ctx context.Context, userID, id string, p core.InsightPatch) (core.Insight, error) {
	if err := requireUser(userID); err != nil {
		return core.Insight{}, err
	}
	if p.IsEmpty() {
		return core.Insight{}, core.ErrEmptyPatch
	}
	cur, err := s.ownedInsight(ctx, userID, id)
	if err != nil {
		return core.Insight{}, err
	}
	next := p.Apply(cur)
	next.Title = strings.TrimSpace(next.Title)
	if err := next.Validate(); err != nil {
		return core.Insight{}, err
	}
	updated, err := s.store.UpdateInsight(ctx, next)
	if err != nil {
		return core.Insight{}, fmt.Errorf("update insight: %w", err)
	}
	return updated, nil
}

func (s *FinanceService) DeleteInsight(ctx context.Context, userID, id string) error {
	if err := requireUser(userID); err != nil {
		return err
	}
	if _, err := s.ownedInsight(ctx, userID, id); err != nil {
		return err
	}
	if err := s.store.DeleteInsight(ctx, id); err != nil {
		return fmt.Errorf("delete insight: %w", err)
	}
	return nil
}

func (s *FinanceService) ownedInsight(ctx context.Context, userID, id string) (core.Insight, error) {
	in, err := s.store.GetInsight(ctx, id)
	if err != nil {
		return core.Insight{}, err
	}
	if in.UserID != userID {
		return core.Insight{}, core.NotFoundf("insight %s", id)
	}
	return in, nil
}

// SummarizeIncomeVsExpense returns lifetime totals, net savings and the chart
// payload.
func (s *FinanceService) SummarizeIncomeVsExpense(ctx context.Context, userID string) (core.Summary, error) {
	if err := requireUser(userID); err != nil {
		return core.Summary{}, err
	}
	incomes, expenses, err := s.ledger(ctx, userID)
	if err != nil {
		return core.Summary{}, err
	}
	return core.NewSummary(analytics.Sum(incomes), analytics.Sum(expenses)), nil
}

// ListReports returns the stored reports, latest period first.
func (s *FinanceService) ListReports(ctx context.Context, userID string) ([]core.FinancialReport, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	out, err := s.store.ListReports(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}
	return out, nil
}

// SnapshotUsers lists every user with ledger data, for scheduled report runs.
func (s *FinanceService) SnapshotUsers(ctx context.Context) ([]string, error) {
	ids, err := s.store.ListUserIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return ids, nil
}
