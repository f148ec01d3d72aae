package storage

import (
	"context"
	"database/sql"
)

type DBTX interface {
	ExecContext(context.Context, string, ...interface{}) (sql.Result, error)
	QueryContext(context.Context, string, ...interface{}) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...interface{}) *sql.Row
}

func New(db DBTX) *Queries {
	return &Queries{db: db}
}

type Queries struct {
	db DBTX
}

// Row types. Timestamps are unix microseconds, amounts are cents.
type (
	TransactionRow struct {
		ID          string
		Kind        string
		UserID      string
		Title       string
		AmountCents int64
		Category    string
		OccurredAt  int64
		Description string
		CreatedAt   int64
	}

	BudgetRow struct {
		ID          string
		UserID      string
		Category    string
		AmountCents int64
		CreatedAt   int64
	}

	SavingsGoalRow struct {
		ID                 string
		UserID             string
		GoalAmountCents    int64
		CurrentAmountCents int64
		TargetDate         int64
		Status             string
		CreatedAt          int64
	}

	FinancialReportRow struct {
		ID                string
		UserID            string
		Month             int64
		Year              int64
		Score             int64
		SavingsRate       string
		TotalIncomeCents  int64
		TotalExpenseCents int64
		SavingsCents      int64
		CreatedAt         int64
	}

	InsightRow struct {
		ID       string
		UserID   string
		Title    string
		Message  string
		Category string
		Date     int64
	}
)

const transactionColumns = `id, kind, user_id, title, amount_cents, category, occurred_at, description, created_at`

func scanTransaction(s interface{ Scan(...any) error }) (TransactionRow, error) {
	var i TransactionRow
	err := s.Scan(&i.ID, &i.Kind, &i.UserID, &i.Title, &i.AmountCents, &i.Category, &i.OccurredAt, &i.Description, &i.CreatedAt)
	return i, err
}

const createTransaction = `INSERT INTO transactions (` + transactionColumns + `)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

func (q *Queries) CreateTransaction(ctx context.Context, arg TransactionRow) error {
	_, err := q.db.ExecContext(ctx, createTransaction,
		arg.ID, arg.Kind, arg.UserID, arg.Title, arg.AmountCents, arg.Category, arg.OccurredAt, arg.Description, arg.CreatedAt)
	return err
}

const getTransaction = `SELECT ` + transactionColumns + ` FROM transactions WHERE kind = ? AND id = ?`

func (q *Queries) GetTransaction(ctx context.Context, kind, id string) (TransactionRow, error) {
	return scanTransaction(q.db.QueryRowContext(ctx, getTransaction, kind, id))
}

const updateTransaction = `UPDATE transactions
SET title = ?, amount_cents = ?, category = ?, occurred_at = ?, description = ?
WHERE kind = ? AND id = ?`

func (q *Queries) UpdateTransaction(ctx context.Context, arg TransactionRow) (int64, error) {
	res, err := q.db.ExecContext(ctx, updateTransaction,
		arg.Title, arg.AmountCents, arg.Category, arg.OccurredAt, arg.Description, arg.Kind, arg.ID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

const deleteTransaction = `DELETE FROM transactions WHERE kind = ? AND id = ?`

func (q *Queries) DeleteTransaction(ctx context.Context, kind, id string) (int64, error) {
	res, err := q.db.ExecContext(ctx, deleteTransaction, kind, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

type ListTransactionsParams struct {
	Kind     string
	UserID   string
	Start    sql.NullInt64
	End      sql.NullInt64
	Category sql.NullString
}

const listTransactions = `SELECT ` + transactionColumns + ` FROM transactions
WHERE kind = ? AND user_id = ?
  AND (? IS NULL OR occurred_at >= ?)
  AND (? IS NULL OR occurred_at <= ?)
  AND (? IS NULL OR category = ?)
ORDER BY occurred_at DESC, created_at DESC`

func (q *Queries) ListTransactions(ctx context.Context, arg ListTransactionsParams) ([]TransactionRow, error) {
	rows, err := q.db.QueryContext(ctx, listTransactions,
		arg.Kind, arg.UserID,
		arg.Start, arg.Start,
		arg.End, arg.End,
		arg.Category, arg.Category,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []TransactionRow
	for rows.Next() {
		i, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

const listUserIDs = `SELECT DISTINCT user_id FROM transactions ORDER BY user_id`

func (q *Queries) ListUserIDs(ctx context.Context) ([]string, error) {
	rows, err := q.db.QueryContext(ctx, listUserIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		items = append(items, id)
	}
	return items, rows.Err()
}

const budgetColumns = `id, user_id, category, amount_cents, created_at`

func scanBudget(s interface{ Scan(...any) error }) (BudgetRow, error) {
	var i BudgetRow
	err := s.Scan(&i.ID, &i.UserID, &i.Category, &i.AmountCents, &i.CreatedAt)
	return i, err
}

const createBudget = `INSERT INTO budgets (` + budgetColumns + `) VALUES (?, ?, ?, ?, ?)`

func (q *Queries) CreateBudget(ctx context.Context, arg BudgetRow) error {
	_, err := q.db.ExecContext(ctx, createBudget, arg.ID, arg.UserID, arg.Category, arg.AmountCents, arg.CreatedAt)
	return err
}

const getBudget = `SELECT ` + budgetColumns + ` FROM budgets WHERE id = ?`

func (q *Queries) GetBudget(ctx context.Context, id string) (BudgetRow, error) {
	return scanBudget(q.db.QueryRowContext(ctx, getBudget, id))
}

const updateBudget = `UPDATE budgets SET category = ?, amount_cents = ? WHERE id = ?`

func (q *Queries) UpdateBudget(ctx context.Context, arg BudgetRow) (int64, error) {
	res, err := q.db.ExecContext(ctx, updateBudget, arg.Category, arg.AmountCents, arg.ID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

const deleteBudget = `DELETE FROM budgets WHERE id = ?`

func (q *Queries) DeleteBudget(ctx context.Context, id string) (int64, error) {
	res, err := q.db.ExecContext(ctx, deleteBudget, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

const listBudgets = `SELECT ` + budgetColumns + ` FROM budgets WHERE user_id = ? ORDER BY created_at DESC, id DESC`

func (q *Queries) ListBudgets(ctx context.Context, userID string) ([]BudgetRow, error) {
	rows, err := q.db.QueryContext(ctx, listBudgets, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []BudgetRow
	for rows.Next() {
		i, err := scanBudget(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

const goalColumns = `id, user_id, goal_amount_cents, current_amount_cents, target_date, status, created_at`

func scanGoal(s interface{ Scan(...any) error }) (SavingsGoalRow, error) {
	var i SavingsGoalRow
	err := s.Scan(&i.ID, &i.UserID, &i.GoalAmountCents, &i.CurrentAmountCents, &i.TargetDate, &i.Status, &i.CreatedAt)
	return i, err
}

const createGoal = `INSERT INTO savings_goals (` + goalColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?)`

func (q *Queries) CreateGoal(ctx context.Context, arg SavingsGoalRow) error {
	_, err := q.db.ExecContext(ctx, createGoal,
		arg.ID, arg.UserID, arg.GoalAmountCents, arg.CurrentAmountCents, arg.TargetDate, arg.Status, arg.CreatedAt)
	return err
}

const getGoal = `SELECT ` + goalColumns + ` FROM savings_goals WHERE id = ?`

func (q *Queries) GetGoal(ctx context.Context, id string) (SavingsGoalRow, error) {
	return scanGoal(q.db.QueryRowContext(ctx, getGoal, id))
}

const updateGoal = `UPDATE savings_goals
SET goal_amount_cents = ?, current_amount_cents = ?, target_date = ?, status = ?
WHERE id = ?`

func (q *Queries) UpdateGoal(ctx context.Context, arg SavingsGoalRow) (int64, error) {
	res, err := q.db.ExecContext(ctx, updateGoal,
		arg.GoalAmountCents, arg.CurrentAmountCents, arg.TargetDate, arg.Status, arg.ID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

const deleteGoal = `DELETE FROM savings_goals WHERE id = ?`

func (q *Queries) DeleteGoal(ctx context.Context, id string) (int64, error) {
	res, err := q.db.ExecContext(ctx, deleteGoal, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

const listGoals = `SELECT ` + goalColumns + ` FROM savings_goals WHERE user_id = ? ORDER BY created_at DESC, id DESC`

func (q *Queries) ListGoals(ctx context.Context, userID string) ([]SavingsGoalRow, error) {
	rows, err := q.db.QueryContext(ctx, listGoals, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []SavingsGoalRow
	for rows.Next() {
		i, err := scanGoal(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

const reportColumns = `id, user_id, month, year, score, savings_rate, total_income_cents, total_expense_cents, savings_cents, created_at`

func scanReport(s interface{ Scan(...any) error }) (FinancialReportRow, error) {
	var i FinancialReportRow
	err := s.Scan(&i.ID, &i.UserID, &i.Month, &i.Year, &i.Score, &i.SavingsRate,
		&i.TotalIncomeCents, &i.TotalExpenseCents, &i.SavingsCents, &i.CreatedAt)
	return i, err
}

const findReport = `SELECT ` + reportColumns + ` FROM financial_reports WHERE user_id = ? AND month = ? AND year = ?`

func (q *Queries) FindReport(ctx context.Context, userID string, month, year int64) (FinancialReportRow, error) {
	return scanReport(q.db.QueryRowContext(ctx, findReport, userID, month, year))
}

const createReport = `INSERT INTO financial_reports (` + reportColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

func (q *Queries) CreateReport(ctx context.Context, arg FinancialReportRow) error {
	_, err := q.db.ExecContext(ctx, createReport,
		arg.ID, arg.UserID, arg.Month, arg.Year, arg.Score, arg.SavingsRate,
		arg.TotalIncomeCents, arg.TotalExpenseCents, arg.SavingsCents, arg.CreatedAt)
	return err
}

const updateReport = `UPDATE financial_reports
SET score = ?, savings_rate = ?, total_income_cents = ?, total_expense_cents = ?, savings_cents = ?
WHERE id = ?`

func (q *Queries) UpdateReport(ctx context.Context, arg FinancialReportRow) (int64, error) {
	res, err := q.db.ExecContext(ctx, updateReport,
		arg.Score, arg.SavingsRate, arg.TotalIncomeCents, arg.TotalExpenseCents, arg.SavingsCents, arg.ID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

const listReports = `SELECT ` + reportColumns + ` FROM financial_reports WHERE user_id = ? ORDER BY year DESC, month DESC`

func (q *Queries) ListReports(ctx context.Context, userID string) ([]FinancialReportRow, error) {
	rows, err := q.db.QueryContext(ctx, listReports, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []FinancialReportRow
	for rows.Next() {
		i, err := scanReport(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

const insightColumns = `id, user_id, title, message, category, date`

func scanInsight(s interface{ Scan(...any) error }) (InsightRow, error) {
	var i InsightRow
	err := s.Scan(&i.ID, &i.UserID, &i.Title, &i.Message, &i.Category, &i.Date)
	return i, err
}

const createInsight = `INSERT INTO insights (` + insightColumns + `) VALUES (?, ?, ?, ?, ?, ?)`

func (q *Queries) CreateInsight(ctx context.Context, arg InsightRow) error {
	_, err := q.db.ExecContext(ctx, createInsight, arg.ID, arg.UserID, arg.Title, arg.Message, arg.Category, arg.Date)
	return err
}

const getInsight = `SELECT ` + insightColumns + ` FROM insights WHERE id = ?`

func (q *Queries) GetInsight(ctx context.Context, id string) (InsightRow, error) {
	return scanInsight(q.db.QueryRowContext(ctx, getInsight, id))
}

const updateInsight = `UPDATE insights SET title = ?, message = ?, category = ? WHERE id = ?`

func (q *Queries) UpdateInsight(ctx context.Context, arg InsightRow) (int64, error) {
	res, err := q.db.ExecContext(ctx, updateInsight, arg.Title, arg.Message, arg.Category, arg.ID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

const deleteInsight = `DELETE FROM insights WHERE id = ?`

func (q *Queries) DeleteInsight(ctx context.Context, id string) (int64, error) {
	res, err := q.db.ExecContext(ctx, deleteInsight, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

const listInsights = `SELECT ` + insightColumns + ` FROM insights WHERE user_id = ? ORDER BY date DESC, id DESC`

func (q *Queries) ListInsights(ctx context.Context, userID string) ([]InsightRow, error) {
	rows, err := q.db.QueryContext(ctx, listInsights, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []InsightRow
	for rows.Next() {
		i, err := scanInsight(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}
