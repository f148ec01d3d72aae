package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/shopspring/decimal"

	"fintrack/internal/core"
	"fintrack/internal/store"

	_ "modernc.org/sqlite"
)

var _ store.Repository = (*SQLiteRepository)(nil)

type SQLiteRepository struct {
	db      *sql.DB
	queries *Queries
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dsn(dbPath))
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{
		db:      db,
		queries: New(db),
	}, nil
}

// dsn enables WAL and a busy timeout so the API and the worker can share the
// file.
func dsn(path string) string {
	return "file:" + path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
}

func (r *SQLiteRepository) Ping(ctx context.Context) error {
	if err := r.db.PingContext(ctx); err != nil {
		return core.StoreError("ping sqlite", err)
	}
	return nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Timestamps are stored as unix microseconds, which covers every year a
// calendar date can carry.
func toMicros(t time.Time) int64 { return t.UnixMicro() }

func fromMicros(n int64) time.Time { return time.UnixMicro(n).UTC() }

// notFound maps an empty single-row read or a zero-row write to ErrNotFound.
func notFound(err error, what, id string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return core.NotFoundf("%s %s", what, id)
	}
	return core.StoreError("get "+what, err)
}

func affected(n int64, err error, op, what, id string) error {
	if err != nil {
		return core.StoreError(op+" "+what, err)
	}
	if n == 0 {
		return core.NotFoundf("%s %s", what, id)
	}
	return nil
}

func transactionRow(t core.Transaction) TransactionRow {
	return TransactionRow{
		ID:          t.ID,
		Kind:        string(t.Kind),
		UserID:      t.UserID,
		Title:       t.Title,
		AmountCents: t.Amount.Cents,
		Category:    string(t.Category),
		OccurredAt:  toMicros(t.Date),
		Description: t.Description,
		CreatedAt:   toMicros(t.CreatedAt),
	}
}

func (row TransactionRow) toCore() core.Transaction {
	return core.Transaction{
		ID:          row.ID,
		Kind:        core.Kind(row.Kind),
		UserID:      row.UserID,
		Title:       row.Title,
		Amount:      core.Money{Cents: row.AmountCents},
		Category:    core.Category(row.Category),
		Date:        fromMicros(row.OccurredAt),
		Description: row.Description,
		CreatedAt:   fromMicros(row.CreatedAt),
	}
}

func (r *SQLiteRepository) CreateTransaction(ctx context.Context, t core.Transaction) (core.Transaction, error) {
	if err := r.queries.CreateTransaction(ctx, transactionRow(t)); err != nil {
		return core.Transaction{}, core.StoreError("create "+string(t.Kind), err)
	}
	slog.DebugContext(ctx, "Transaction saved to SQLite", "id", t.ID, "kind", t.Kind, "amount_cents", t.Amount.Cents)
	return t, nil
}

func (r *SQLiteRepository) GetTransaction(ctx context.Context, kind core.Kind, id string) (core.Transaction, error) {
	row, err := r.queries.GetTransaction(ctx, string(kind), id)
	if err != nil {
		return core.Transaction{}, notFound(err, string(kind), id)
	}
	return row.toCore(), nil
}

func (r *SQLiteRepository) UpdateTransaction(ctx context.Context, t core.Transaction) (core.Transaction, error) {
	n, err := r.queries.UpdateTransaction(ctx, transactionRow(t))
	if err := affected(n, err, "update", string(t.Kind), t.ID); err != nil {
		return core.Transaction{}, err
	}
	return t, nil
}

func (r *SQLiteRepository) DeleteTransaction(ctx context.Context, kind core.Kind, id string) error {
	n, err := r.queries.DeleteTransaction(ctx, string(kind), id)
	return affected(n, err, "delete", string(kind), id)
}

func (r *SQLiteRepository) ListTransactions(ctx context.Context, kind core.Kind, f core.LedgerFilter) ([]core.Transaction, error) {
	arg := ListTransactionsParams{Kind: string(kind), UserID: f.UserID}
	if f.Start != nil {
		arg.Start = sql.NullInt64{Int64: toMicros(*f.Start), Valid: true}
	}
	if f.End != nil {
		arg.End = sql.NullInt64{Int64: toMicros(*f.End), Valid: true}
	}
	if f.Category != "" {
		arg.Category = sql.NullString{String: string(f.Category), Valid: true}
	}
	rows, err := r.queries.ListTransactions(ctx, arg)
	if err != nil {
		return nil, core.StoreError("list "+string(kind), err)
	}
	out := make([]core.Transaction, len(rows))
	for i, row := range rows {
		out[i] = row.toCore()
	}
	return out, nil
}

func (r *SQLiteRepository) ListUserIDs(ctx context.Context) ([]string, error) {
	ids, err := r.queries.ListUserIDs(ctx)
	if err != nil {
		return nil, core.StoreError("list users", err)
	}
	return ids, nil
}

func budgetRow(b core.Budget) BudgetRow {
	return BudgetRow{
		ID:          b.ID,
		UserID:      b.UserID,
		Category:    string(b.Category),
		AmountCents: b.Amount.Cents,
		CreatedAt:   toMicros(b.CreatedAt),
	}
}

func (row BudgetRow) toCore() core.Budget {
	return core.Budget{
		ID:        row.ID,
		UserID:    row.UserID,
		Category:  core.Category(row.Category),
		Amount:    core.Money{Cents: row.AmountCents},
		CreatedAt: fromMicros(row.CreatedAt),
	}
}

func (r *SQLiteRepository) CreateBudget(ctx context.Context, b core.Budget) (core.Budget, error) {
	if err := r.queries.CreateBudget(ctx, budgetRow(b)); err != nil {
		return core.Budget{}, core.StoreError("create budget", err)
	}
	return b, nil
}

func (r *SQLiteRepository) GetBudget(ctx context.Context, id string) (core.Budget, error) {
	row, err := r.queries.GetBudget(ctx, id)
	if err != nil {
		return core.Budget{}, notFound(err, "budget", id)
	}
	return row.toCore(), nil
}

func (r *SQLiteRepository) UpdateBudget(ctx context.Context, b core.Budget) (core.Budget, error) {
	n, err := r.queries.UpdateBudget(ctx, budgetRow(b))
	if err := affected(n, err, "update", "budget", b.ID); err != nil {
		return core.Budget{}, err
	}
	return b, nil
}

func (r *SQLiteRepository) DeleteBudget(ctx context.Context, id string) error {
	n, err := r.queries.DeleteBudget(ctx, id)
	return affected(n, err, "delete", "budget", id)
}

func (r *SQLiteRepository) ListBudgets(ctx context.Context, userID string) ([]core.Budget, error) {
	rows, err := r.queries.ListBudgets(ctx, userID)
	if err != nil {
		return nil, core.StoreError("list budgets", err)
	}
	out := make([]core.Budget, len(rows))
	for i, row := range rows {
		out[i] = row.toCore()
	}
	return out, nil
}

func goalRow(g core.SavingsGoal) SavingsGoalRow {
	return SavingsGoalRow{
		ID:                 g.ID,
		UserID:             g.UserID,
		GoalAmountCents:    g.GoalAmount.Cents,
		CurrentAmountCents: g.CurrentAmount.Cents,
		TargetDate:         toMicros(g.TargetDate),
		Status:             string(g.Status),
		CreatedAt:          toMicros(g.CreatedAt),
	}
}

func (row SavingsGoalRow) toCore() core.SavingsGoal {
	return core.SavingsGoal{
		ID:            row.ID,
		UserID:        row.UserID,
		GoalAmount:    core.Money{Cents: row.GoalAmountCents},
		CurrentAmount: core.Money{Cents: row.CurrentAmountCents},
		TargetDate:    fromMicros(row.TargetDate),
		Status:        core.GoalStatus(row.Status),
		CreatedAt:     fromMicros(row.CreatedAt),
	}
}

func (r *SQLiteRepository) CreateGoal(ctx context.Context, g core.SavingsGoal) (core.SavingsGoal, error) {
	if err := r.queries.CreateGoal(ctx, goalRow(g)); err != nil {
		return core.SavingsGoal{}, core.StoreError("create savings goal", err)
	}
	return g, nil
}

func (r *SQLiteRepository) GetGoal(ctx context.Context, id string) (core.SavingsGoal, error) {
	row, err := r.queries.GetGoal(ctx, id)
	if err != nil {
		return core.SavingsGoal{}, notFound(err, "savings goal", id)
	}
	return row.toCore(), nil
}

func (r *SQLiteRepository) UpdateGoal(ctx context.Context, g core.SavingsGoal) (core.SavingsGoal, error) {
	n, err := r.queries.UpdateGoal(ctx, goalRow(g))
	if err := affected(n, err, "update", "savings goal", g.ID); err != nil {
		return core.SavingsGoal{}, err
	}
	return g, nil
}

func (r *SQLiteRepository) DeleteGoal(ctx context.Context, id string) error {
	n, err := r.queries.DeleteGoal(ctx, id)
	return affected(n, err, "delete", "savings goal", id)
}

func (r *SQLiteRepository) ListGoals(ctx context.Context, userID string) ([]core.SavingsGoal, error) {
	rows, err := r.queries.ListGoals(ctx, userID)
	if err != nil {
		return nil, core.StoreError("list savings goals", err)
	}
	out := make([]core.SavingsGoal, len(rows))
	for i, row := range rows {
		out[i] = row.toCore()
	}
	return out, nil
}

func reportRow(rep core.FinancialReport) FinancialReportRow {
	return FinancialReportRow{
		ID:                rep.ID,
		UserID:            rep.UserID,
		Month:             int64(rep.Month),
		Year:              int64(rep.Year),
		Score:             int64(rep.Score),
		SavingsRate:       rep.SavingsRate.String(),
		TotalIncomeCents:  rep.TotalIncome.Cents,
		TotalExpenseCents: rep.TotalExpense.Cents,
		SavingsCents:      rep.Savings.Cents,
		CreatedAt:         toMicros(rep.CreatedAt),
	}
}

func (row FinancialReportRow) toCore() (core.FinancialReport, error) {
	rate, err := decimal.NewFromString(row.SavingsRate)
	if err != nil {
		return core.FinancialReport{}, fmt.Errorf("parse savings rate %q: %w", row.SavingsRate, err)
	}
	return core.FinancialReport{
		ID:           row.ID,
		UserID:       row.UserID,
		Month:        int(row.Month),
		Year:         int(row.Year),
		Score:        int(row.Score),
		SavingsRate:  rate,
		TotalIncome:  core.Money{Cents: row.TotalIncomeCents},
		TotalExpense: core.Money{Cents: row.TotalExpenseCents},
		Savings:      core.Money{Cents: row.SavingsCents},
		CreatedAt:    fromMicros(row.CreatedAt),
	}, nil
}

func (r *SQLiteRepository) FindReport(ctx context.Context, userID string, p core.Period) (core.FinancialReport, bool, error) {
	row, err := r.queries.FindReport(ctx, userID, int64(p.Month), int64(p.Year))
	if errors.Is(err, sql.ErrNoRows) {
		return core.FinancialReport{}, false, nil
	}
	if err != nil {
		return core.FinancialReport{}, false, core.StoreError("find report", err)
	}
	rep, err := row.toCore()
	if err != nil {
		return core.FinancialReport{}, false, core.StoreError("find report", err)
	}
	return rep, true, nil
}

func (r *SQLiteRepository) CreateReport(ctx context.Context, rep core.FinancialReport) (core.FinancialReport, error) {
	if err := r.queries.CreateReport(ctx, reportRow(rep)); err != nil {
		return core.FinancialReport{}, core.StoreError("create report", err)
	}
	slog.DebugContext(ctx, "Financial report created", "id", rep.ID, "user_id", rep.UserID, "period", rep.Period().String())
	return rep, nil
}

func (r *SQLiteRepository) UpdateReport(ctx context.Context, rep core.FinancialReport) (core.FinancialReport, error) {
	n, err := r.queries.UpdateReport(ctx, reportRow(rep))
	if err := affected(n, err, "update", "report", rep.ID); err != nil {
		return core.FinancialReport{}, err
	}
	return rep, nil
}

func (r *SQLiteRepository) ListReports(ctx context.Context, userID string) ([]core.FinancialReport, error) {
	rows, err := r.queries.ListReports(ctx, userID)
	if err != nil {
		return nil, core.StoreError("list reports", err)
	}
	out := make([]core.FinancialReport, 0, len(rows))
	for _, row := range rows {
		rep, err := row.toCore()
		if err != nil {
			return nil, core.StoreError("list reports", err)
		}
		out = append(out, rep)
	}
	return out, nil
}

func insightRow(i core.Insight) InsightRow {
	return InsightRow{
		ID:       i.ID,
		UserID:   i.UserID,
		Title:    i.Title,
		Message:  i.Message,
		Category: i.Category,
		Date:     toMicros(i.Date),
	}
}

func (row InsightRow) toCore() core.Insight {
	return core.Insight{
		ID:       row.ID,
		UserID:   row.UserID,
		Title:    row.Title,
		Message:  row.Message,
		Category: row.Category,
		Date:     fromMicros(row.Date),
	}
}

func (r *SQLiteRepository) CreateInsight(ctx context.Context, i core.Insight) (core.Insight, error) {
	if err := r.queries.CreateInsight(ctx, insightRow(i)); err != nil {
		return core.Insight{}, core.StoreError("create insight", err)
	}
	return i, nil
}

func (r *SQLiteRepository) GetInsight(ctx context.Context, id string) (core.Insight, error) {
	row, err := r.queries.GetInsight(ctx, id)
	if err != nil {
		return core.Insight{}, notFound(err, "insight", id)
	}
	return row.toCore(), nil
}

func (r *SQLiteRepository) UpdateInsight(ctx context.Context, i core.Insight) (core.Insight, error) {
	n, err := r.queries.UpdateInsight(ctx, insightRow(i))
	if err := affected(n, err, "update", "insight", i.ID); err != nil {
		return core.Insight{}, err
	}
	return i, nil
}

func (r *SQLiteRepository) DeleteInsight(ctx context.Context, id string) error {
	n, err := r.queries.DeleteInsight(ctx, id)
	return affected(n, err, "delete", "insight", id)
}

func (r *SQLiteRepository) ListInsights(ctx context.Context, userID string) ([]core.Insight, error) {
	rows, err := r.queries.ListInsights(ctx, userID)
	if err != nil {
		return nil, core.StoreError("list insights", err)
	}
	out := make([]core.Insight, len(rows))
	for i, row := range rows {
		out[i] = row.toCore()
	}
	return out, nil
}
