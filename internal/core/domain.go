package core

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

const (
	Income  Kind = "income"
	Expense Kind = "expense"
)

const (
	Food          Category = "Food"
	Transport     Category = "Transport"
	Shopping      Category = "Shopping"
	Entertainment Category = "Entertainment"
	Utilities     Category = "Utilities"
	Health        Category = "Health"
	Other         Category = "Other"
	// Salary is accepted on incomes only.
	Salary Category = "salary"
)

const (
	GoalInProgress GoalStatus = "in-progress"
	GoalCompleted  GoalStatus = "completed"
	// GoalExpired exists in the status set but nothing assigns it yet.
	GoalExpired GoalStatus = "expired"
)

const (
	maxTitleLen       = 100
	maxDescriptionLen = 200

	InsightTitle    = "Financial Summary"
	InsightCategory = "General"
)

type (
	// Kind distinguishes the two ledgers.
	Kind string

	// Category is the closed set of ledger and budget categories.
	Category string

	GoalStatus string

	Transaction struct {
		ID          string    `json:"id"`
		UserID      string    `json:"userId"`
		Kind        Kind      `json:"kind"`
		Title       string    `json:"title"`
		Amount      Money     `json:"amount"`
		Category    Category  `json:"category"`
		Date        time.Time `json:"date"`
		Description string    `json:"description,omitempty"`
		CreatedAt   time.Time `json:"createdAt"`
	}

	// TransactionPatch holds the mutable fields of a transaction; nil fields
	// are left untouched.
	TransactionPatch struct {
		Title       *string    `json:"title"`
		Amount      *Money     `json:"amount"`
		Category    *Category  `json:"category"`
		Date        *time.Time `json:"date"`
		Description *string    `json:"description"`
	}

	Budget struct {
		ID        string    `json:"id"`
		UserID    string    `json:"userId"`
		Category  Category  `json:"category"`
		Amount    Money     `json:"amount"`
		CreatedAt time.Time `json:"createdAt"`
	}

	BudgetPatch struct {
		Category *Category `json:"category"`
		Amount   *Money    `json:"amount"`
	}

	SavingsGoal struct {
		ID            string     `json:"id"`
		UserID        string     `json:"userId"`
		GoalAmount    Money      `json:"goalAmount"`
		CurrentAmount Money      `json:"currentAmount"`
		TargetDate    time.Time  `json:"targetDate"`
		Status        GoalStatus `json:"status"`
		CreatedAt     time.Time  `json:"createdAt"`
	}

	FinancialReport struct {
		ID           string          `json:"id"`
		UserID       string          `json:"userId"`
		Month        int             `json:"month"`
		Year         int             `json:"year"`
		Score        int             `json:"score"`
		SavingsRate  decimal.Decimal `json:"savingsRate"`
		TotalIncome  Money           `json:"totalIncome"`
		TotalExpense Money           `json:"totalExpense"`
		Savings      Money           `json:"savings"`
		CreatedAt    time.Time       `json:"createdAt"`
	}

	Insight struct {
		ID       string    `json:"id"`
		UserID   string    `json:"userId"`
		Title    string    `json:"title"`
		Message  string    `json:"message"`
		Category string    `json:"category"`
		Date     time.Time `json:"date"`
	}

	InsightPatch struct {
		Title    *string `json:"title"`
		Message  *string `json:"message"`
		Category *string `json:"category"`
	}

	// LedgerFilter narrows a ledger query. Zero values mean "no filter".
	LedgerFilter struct {
		UserID   string
		Start    *time.Time
		End      *time.Time
		Category Category
	}
)

var (
	expenseCategories = []Category{Food, Transport, Shopping, Entertainment, Utilities, Health, Other}
)

// Categories returns the categories accepted for the given kind, in display order.
func Categories(k Kind) []Category {
	out := append([]Category(nil), expenseCategories...)
	if k == Income {
		out = append(out, Salary)
	}
	return out
}

func (k Kind) Validate() error {
	switch k {
	case Income, Expense:
		return nil
	default:
		return ErrInvalidKind
	}
}

// ValidFor reports whether c may be used on a record of kind k. Budgets use
// the expense set.
func (c Category) ValidFor(k Kind) bool {
	if c == Salary {
		return k == Income
	}
	for _, v := range expenseCategories {
		if c == v {
			return true
		}
	}
	return false
}

// OwnedBy reports whether the record belongs to userID.
func (t Transaction) OwnedBy(userID string) bool { return t.UserID == userID }

func (t Transaction) Validate() error {
	if err := t.Kind.Validate(); err != nil {
		return err
	}
	title := strings.TrimSpace(t.Title)
	if title == "" {
		return ErrEmptyTitle
	}
	if utf8.RuneCountInString(title) > maxTitleLen {
		return ErrTitleTooLong
	}
	if err := t.Amount.Validate(); err != nil {
		return err
	}
	if !t.Category.ValidFor(t.Kind) {
		return Validationf("%q is not a valid %s category", t.Category, t.Kind)
	}
	if utf8.RuneCountInString(t.Description) > maxDescriptionLen {
		return ErrDescriptionTooLong
	}
	return nil
}

// Apply returns a copy of t with the patch fields set.
func (p TransactionPatch) Apply(t Transaction) Transaction {
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Amount != nil {
		t.Amount = *p.Amount
	}
	if p.Category != nil {
		t.Category = *p.Category
	}
	if p.Date != nil {
		t.Date = *p.Date
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	return t
}

func (p TransactionPatch) IsEmpty() bool {
	return p.Title == nil && p.Amount == nil && p.Category == nil && p.Date == nil && p.Description == nil
}

func (b Budget) Validate() error {
	if !b.Category.ValidFor(Expense) {
		return Validationf("%q is not a valid budget category", b.Category)
	}
	return b.Amount.Validate()
}

func (p BudgetPatch) Apply(b Budget) Budget {
	if p.Category != nil {
		b.Category = *p.Category
	}
	if p.Amount != nil {
		b.Amount = *p.Amount
	}
	return b
}

func (p BudgetPatch) IsEmpty() bool {
	return p.Category == nil && p.Amount == nil
}

func (g SavingsGoal) Validate() error {
	if err := g.GoalAmount.Validate(); err != nil {
		return err
	}
	if g.TargetDate.IsZero() {
		return ErrMissingTargetDate
	}
	if g.CurrentAmount.Cents < 0 {
		return Validationf("current amount cannot be negative")
	}
	return nil
}

// AddProgress increments the saved amount and marks the goal completed once it
// reaches the target. Progress is additive only.
func (g *SavingsGoal) AddProgress(amount Money) error {
	if err := amount.Validate(); err != nil {
		return err
	}
	next, ok := g.CurrentAmount.CheckedAdd(amount)
	if !ok {
		return ErrAmountTooLarge
	}
	g.CurrentAmount = next
	if g.CurrentAmount.Cents >= g.GoalAmount.Cents {
		g.Status = GoalCompleted
	}
	return nil
}

// Period returns the calendar period the report covers.
func (r FinancialReport) Period() Period {
	return Period{Month: r.Month, Year: r.Year}
}

func (i Insight) Validate() error {
	if strings.TrimSpace(i.Title) == "" {
		return ErrEmptyTitle
	}
	if strings.TrimSpace(i.Message) == "" {
		return Validationf("message is required")
	}
	if strings.TrimSpace(i.Category) == "" {
		return Validationf("category is required")
	}
	return nil
}

func (p InsightPatch) Apply(i Insight) Insight {
	if p.Title != nil {
		i.Title = *p.Title
	}
	if p.Message != nil {
		i.Message = *p.Message
	}
	if p.Category != nil {
		i.Category = *p.Category
	}
	return i
}

func (p InsightPatch) IsEmpty() bool {
	return p.Title == nil && p.Message == nil && p.Category == nil
}

// Validate checks the date range; both bounds are inclusive.
func (f LedgerFilter) Validate() error {
	if f.Start != nil && f.End != nil && f.Start.After(*f.End) {
		return ErrInvalidDateRange
	}
	if f.Category != "" && !f.Category.ValidFor(Income) {
		return ErrInvalidCategory
	}
	return nil
}

// Matches applies the filter to a single record.
func (f LedgerFilter) Matches(t Transaction) bool {
	if f.UserID != "" && t.UserID != f.UserID {
		return false
	}
	if f.Start != nil && t.Date.Before(*f.Start) {
		return false
	}
	if f.End != nil && t.Date.After(*f.End) {
		return false
	}
	if f.Category != "" && t.Category != f.Category {
		return false
	}
	return true
}
