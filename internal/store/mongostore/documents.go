package mongostore

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"

	"fintrack/internal/core"
)

// Collection names.
const (
	collIncomes  = "incomes"
	collExpenses = "expenses"
	collBudgets  = "budgets"
	collGoals    = "savings_goals"
	collReports  = "financial_reports"
	collInsights = "insights"
)

func ledgerCollection(kind core.Kind) (string, error) {
	switch kind {
	case core.Income:
		return collIncomes, nil
	case core.Expense:
		return collExpenses, nil
	default:
		return "", core.ErrInvalidKind
	}
}

type transactionDoc struct {
	ID          string    `bson:"_id"`
	UserID      string    `bson:"userId"`
	Title       string    `bson:"title"`
	AmountCents int64     `bson:"amountCents"`
	Category    string    `bson:"category"`
	Date        time.Time `bson:"date"`
	Description string    `bson:"description,omitempty"`
	CreatedAt   time.Time `bson:"createdAt"`
}

func newTransactionDoc(t core.Transaction) transactionDoc {
	return transactionDoc{
		ID:          t.ID,
		UserID:      t.UserID,
		Title:       t.Title,
		AmountCents: t.Amount.Cents,
		Category:    string(t.Category),
		Date:        t.Date.UTC(),
		Description: t.Description,
		CreatedAt:   t.CreatedAt.UTC(),
	}
}

func (d transactionDoc) toCore(kind core.Kind) core.Transaction {
	return core.Transaction{
		ID:          d.ID,
		UserID:      d.UserID,
		Kind:        kind,
		Title:       d.Title,
		Amount:      core.Money{Cents: d.AmountCents},
		Category:    core.Category(d.Category),
		Date:        d.Date.UTC(),
		Description: d.Description,
		CreatedAt:   d.CreatedAt.UTC(),
	}
}

// ledgerFilter translates a LedgerFilter into a query document. Date bounds
// are inclusive and may be given alone.
func ledgerFilter(f core.LedgerFilter) bson.M {
	q := bson.M{"userId": f.UserID}
	if f.Start != nil || f.End != nil {
		date := bson.M{}
		if f.Start != nil {
			date["$gte"] = f.Start.UTC()
		}
		if f.End != nil {
			date["$lte"] = f.End.UTC()
		}
		q["date"] = date
	}
	if f.Category != "" {
		q["category"] = string(f.Category)
	}
	return q
}

type budgetDoc struct {
	ID          string    `bson:"_id"`
	UserID      string    `bson:"userId"`
	Category    string    `bson:"category"`
	AmountCents int64     `bson:"amountCents"`
	CreatedAt   time.Time `bson:"createdAt"`
}

func newBudgetDoc(b core.Budget) budgetDoc {
	return budgetDoc{ID: b.ID, UserID: b.UserID, Category: string(b.Category), AmountCents: b.Amount.Cents, CreatedAt: b.CreatedAt.UTC()}
}

func (d budgetDoc) toCore() core.Budget {
	return core.Budget{ID: d.ID, UserID: d.UserID, Category: core.Category(d.Category), Amount: core.Money{Cents: d.AmountCents}, CreatedAt: d.CreatedAt.UTC()}
}

type goalDoc struct {
	ID                 string    `bson:"_id"`
	UserID             string    `bson:"userId"`
	GoalAmountCents    int64     `bson:"goalAmountCents"`
	CurrentAmountCents int64     `bson:"currentAmountCents"`
	TargetDate         time.Time `bson:"targetDate"`
	Status             string    `bson:"status"`
	CreatedAt          time.Time `bson:"createdAt"`
}

func newGoalDoc(g core.SavingsGoal) goalDoc {
	return goalDoc{
		ID:                 g.ID,
		UserID:             g.UserID,
		GoalAmountCents:    g.GoalAmount.Cents,
		CurrentAmountCents: g.CurrentAmount.Cents,
		TargetDate:         g.TargetDate.UTC(),
		Status:             string(g.Status),
		CreatedAt:          g.CreatedAt.UTC(),
	}
}

func (d goalDoc) toCore() core.SavingsGoal {
	return core.SavingsGoal{
		ID:            d.ID,
		UserID:        d.UserID,
		GoalAmount:    core.Money{Cents: d.GoalAmountCents},
		CurrentAmount: core.Money{Cents: d.CurrentAmountCents},
		TargetDate:    d.TargetDate.UTC(),
		Status:        core.GoalStatus(d.Status),
		CreatedAt:     d.CreatedAt.UTC(),
	}
}

// reportDoc keeps the savings rate as a decimal string so it survives the
// round trip without float drift.
type reportDoc struct {
	ID                string    `bson:"_id"`
	UserID            string    `bson:"userId"`
	Month             int       `bson:"month"`
	Year              int       `bson:"year"`
	Score             int       `bson:"score"`
	SavingsRate       string    `bson:"savingsRate"`
	TotalIncomeCents  int64     `bson:"totalIncomeCents"`
	TotalExpenseCents int64     `bson:"totalExpenseCents"`
	SavingsCents      int64     `bson:"savingsCents"`
	CreatedAt         time.Time `bson:"createdAt"`
}

func newReportDoc(r core.FinancialReport) reportDoc {
	return reportDoc{
		ID:                r.ID,
		UserID:            r.UserID,
		Month:             r.Month,
		Year:              r.Year,
		Score:             r.Score,
		SavingsRate:       r.SavingsRate.String(),
		TotalIncomeCents:  r.TotalIncome.Cents,
		TotalExpenseCents: r.TotalExpense.Cents,
		SavingsCents:      r.Savings.Cents,
		CreatedAt:         r.CreatedAt.UTC(),
	}
}

func (d reportDoc) toCore() (core.FinancialReport, error) {
	rate, err := decimal.NewFromString(d.SavingsRate)
	if err != nil {
		return core.FinancialReport{}, fmt.Errorf("parse savings rate %q: %w", d.SavingsRate, err)
	}
	return core.FinancialReport{
		ID:           d.ID,
		UserID:       d.UserID,
		Month:        d.Month,
		Year:         d.Year,
		Score:        d.Score,
		SavingsRate:  rate,
		TotalIncome:  core.Money{Cents: d.TotalIncomeCents},
		TotalExpense: core.Money{Cents: d.TotalExpenseCents},
		Savings:      core.Money{Cents: d.SavingsCents},
		CreatedAt:    d.CreatedAt.UTC(),
	}, nil
}

type insightDoc struct {
	ID       string    `bson:"_id"`
	UserID   string    `bson:"userId"`
	Title    string    `bson:"title"`
	Message  string    `bson:"message"`
	Category string    `bson:"category"`
	Date     time.Time `bson:"date"`
}

func newInsightDoc(i core.Insight) insightDoc {
	return insightDoc{ID: i.ID, UserID: i.UserID, Title: i.Title, Message: i.Message, Category: i.Category, Date: i.Date.UTC()}
}

func (d insightDoc) toCore() core.Insight {
	return core.Insight{ID: d.ID, UserID: d.UserID, Title: d.Title, Message: d.Message, Category: d.Category, Date: d.Date.UTC()}
}
