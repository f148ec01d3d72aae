// Package memory is an in-process store used for local runs and tests.
package memory

import (
	"context"
	"sort"
	"sync"

	"fintrack/internal/core"
	"fintrack/internal/store"
)

var _ store.Repository = (*Store)(nil)

type Store struct {
	mu       sync.Mutex
	txs      map[core.Kind]map[string]core.Transaction
	budgets  map[string]core.Budget
	goals    map[string]core.SavingsGoal
	reports  map[string]core.FinancialReport
	insights map[string]core.Insight
}

func New() *Store {
	return &Store{
		txs: map[core.Kind]map[string]core.Transaction{
			core.Income:  {},
			core.Expense: {},
		},
		budgets:  map[string]core.Budget{},
		goals:    map[string]core.SavingsGoal{},
		reports:  map[string]core.FinancialReport{},
		insights: map[string]core.Insight{},
	}
}

func (s *Store) Ping(context.Context) error { return nil }
func (s *Store) Close() error               { return nil }

func (s *Store) ledger(kind core.Kind) (map[string]core.Transaction, error) {
	m, ok := s.txs[kind]
	if !ok {
		return nil, core.ErrInvalidKind
	}
	return m, nil
}

func (s *Store) CreateTransaction(_ context.Context, t core.Transaction) (core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, err := s.ledger(t.Kind)
	if err != nil {
		return core.Transaction{}, err
	}
	m[t.ID] = t
	return t, nil
}

func (s *Store) GetTransaction(_ context.Context, kind core.Kind, id string) (core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, err := s.ledger(kind)
	if err != nil {
		return core.Transaction{}, err
	}
	t, ok := m[id]
	if !ok {
		return core.Transaction{}, core.NotFoundf("%s %s", kind, id)
	}
	return t, nil
}

func (s *Store) UpdateTransaction(_ context.Context, t core.Transaction) (core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, err := s.ledger(t.Kind)
	if err != nil {
		return core.Transaction{}, err
	}
	if _, ok := m[t.ID]; !ok {
		return core.Transaction{}, core.NotFoundf("%s %s", t.Kind, t.ID)
	}
	m[t.ID] = t
	return t, nil
}

func (s *Store) DeleteTransaction(_ context.Context, kind core.Kind, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, err := s.ledger(kind)
	if err != nil {
		return err
	}
	if _, ok := m[id]; !ok {
		return core.NotFoundf("%s %s", kind, id)
	}
	delete(m, id)
	return nil
}

func (s *Store) ListTransactions(_ context.Context, kind core.Kind, f core.LedgerFilter) ([]core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, err := s.ledger(kind)
	if err != nil {
		return nil, err
	}
	out := make([]core.Transaction, 0)
	for _, t := range m {
		if f.Matches(t) {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Date.Equal(out[j].Date) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].Date.After(out[j].Date)
	})
	return out, nil
}

func (s *Store) ListUserIDs(context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	seen := map[string]struct{}{}
	for _, m := range s.txs {
		for _, t := range m {
			seen[t.UserID] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for id := range seen {
		out = append(out, id)
	}
	sort.Strings(out)
	return out, nil
}

func (s *Store) CreateBudget(_ context.Context, b core.Budget) (core.Budget, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.budgets[b.ID] = b
	return b, nil
}

func (s *Store) GetBudget(_ context.Context, id string) (core.Budget, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.budgets[id]
	if !ok {
		return core.Budget{}, core.NotFoundf("budget %s", id)
	}
	return b, nil
}

func (s *Store) UpdateBudget(_ context.Context, b core.Budget) (core.Budget, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.budgets[b.ID]; !ok {
		return core.Budget{}, core.NotFoundf("budget %s", b.ID)
	}
	s.budgets[b.ID] = b
	return b, nil
}

func (s *Store) DeleteBudget(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.budgets[id]; !ok {
		return core.NotFoundf("budget %s", id)
	}
	delete(s.budgets, id)
	return nil
}

func (s *Store) ListBudgets(_ context.Context, userID string) ([]core.Budget, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.Budget, 0)
	for _, b := range s.budgets {
		if b.UserID == userID {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return newer(out[i].CreatedAt.UnixNano(), out[j].CreatedAt.UnixNano(), out[i].ID, out[j].ID) })
	return out, nil
}

func (s *Store) CreateGoal(_ context.Context, g core.SavingsGoal) (core.SavingsGoal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.goals[g.ID] = g
	return g, nil
}

func (s *Store) GetGoal(_ context.Context, id string) (core.SavingsGoal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, ok := s.goals[id]
	if !ok {
		return core.SavingsGoal{}, core.NotFoundf("savings goal %s", id)
	}
	return g, nil
}

func (s *Store) UpdateGoal(_ context.Context, g core.SavingsGoal) (core.SavingsGoal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.goals[g.ID]; !ok {
		return core.SavingsGoal{}, core.NotFoundf("savings goal %s", g.ID)
	}
	s.goals[g.ID] = g
	return g, nil
}

func (s *Store) DeleteGoal(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.goals[id]; !ok {
		return core.NotFoundf("savings goal %s", id)
	}
	delete(s.goals, id)
	return nil
}

func (s *Store) ListGoals(_ context.Context, userID string) ([]core.SavingsGoal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.SavingsGoal, 0)
	for _, g := range s.goals {
		if g.UserID == userID {
			out = append(out, g)
		}
	}
	sort.Slice(out, func(i, j int) bool { return newer(out[i].CreatedAt.UnixNano(), out[j].CreatedAt.UnixNano(), out[i].ID, out[j].ID) })
	return out, nil
}

func reportKey(userID string, p core.Period) string {
	return userID + "|" + p.String()
}

func (s *Store) FindReport(_ context.Context, userID string, p core.Period) (core.FinancialReport, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.reports[reportKey(userID, p)]
	return r, ok, nil
}

// CreateReport rejects a second report for the same (user, period), mirroring
// the unique index of the persistent backends.
func (s *Store) CreateReport(_ context.Context, r core.FinancialReport) (core.FinancialReport, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := reportKey(r.UserID, r.Period())
	if _, ok := s.reports[key]; ok {
		return core.FinancialReport{}, core.StoreError("create report", errDuplicateReport)
	}
	s.reports[key] = r
	return r, nil
}

func (s *Store) UpdateReport(_ context.Context, r core.FinancialReport) (core.FinancialReport, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := reportKey(r.UserID, r.Period())
	cur, ok := s.reports[key]
	if !ok || cur.ID != r.ID {
		return core.FinancialReport{}, core.NotFoundf("report %s", r.ID)
	}
	s.reports[key] = r
	return r, nil
}

func (s *Store) ListReports(_ context.Context, userID string) ([]core.FinancialReport, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.FinancialReport, 0)
	for _, r := range s.reports {
		if r.UserID == userID {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Year != out[j].Year {
			return out[i].Year > out[j].Year
		}
		return out[i].Month > out[j].Month
	})
	return out, nil
}

func (s *Store) CreateInsight(_ context.Context, i core.Insight) (core.Insight, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.insights[i.ID] = i
	return i, nil
}

func (s *Store) GetInsight(_ context.Context, id string) (core.Insight, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i, ok := s.insights[id]
	if !ok {
		return core.Insight{}, core.NotFoundf("insight %s", id)
	}
	return i, nil
}

func (s *Store) UpdateInsight(_ context.Context, i core.Insight) (core.Insight, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.insights[i.ID]; !ok {
		return core.Insight{}, core.NotFoundf("insight %s", i.ID)
	}
	s.insights[i.ID] = i
	return i, nil
}

func (s *Store) DeleteInsight(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.insights[id]; !ok {
		return core.NotFoundf("insight %s", id)
	}
	delete(s.insights, id)
	return nil
}

func (s *Store) ListInsights(_ context.Context, userID string) ([]core.Insight, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.Insight, 0)
	for _, i := range s.insights {
		if i.UserID == userID {
			out = append(out, i)
		}
	}
	sort.Slice(out, func(a, b int) bool { return newer(out[a].Date.UnixNano(), out[b].Date.UnixNano(), out[a].ID, out[b].ID) })
	return out, nil
}

// newer orders by timestamp descending with the id as a stable tie-break.
func newer(a, b int64, idA, idB string) bool {
	if a != b {
		return a > b
	}
	return idA > idB
}
