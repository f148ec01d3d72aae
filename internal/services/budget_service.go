package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"fintrack/internal/core"
	"fintrack/internal/store"
)

type BudgetService struct {
	store store.BudgetStore
	clock core.Clock
	newID func() string
}

func NewBudgetService(s store.BudgetStore, clock core.Clock) *BudgetService {
	if clock == nil {
		clock = core.SystemClock
	}
	return &BudgetService{store: s, clock: clock, newID: uuid.NewString}
}

// CreateBudget stores a budget. Several budgets on one category are allowed.
func (s *BudgetService) CreateBudget(ctx context.Context, userID string, b core.Budget) (core.Budget, error) {
	if err := requireUser(userID); err != nil {
		return core.Budget{}, err
	}
	b.ID = s.newID()
	b.UserID = userID
	b.CreatedAt = s.clock()
	if err := b.Validate(); err != nil {
		return core.Budget{}, err
	}
	created, err := s.store.CreateBudget(ctx, b)
	if err != nil {
		return core.Budget{}, fmt.Errorf("save budget: %w", err)
	}
	return created, nil
}

func (s *BudgetService) ListBudgets(ctx context.Context, userID string) ([]core.Budget, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	budgets, err := s.store.ListBudgets(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list budgets: %w", err)
	}
	return budgets, nil
}

func (s *BudgetService) UpdateBudget(ctx context.Context, userID, id string, p core.BudgetPatch) (core.Budget, error) {
	if err := requireUser(userID); err != nil {
		return core.Budget{}, err
	}
	if p.IsEmpty() {
		return core.Budget{}, core.ErrEmptyPatch
	}
	cur, err := s.owned(ctx, userID, id)
	if err != nil {
		return core.Budget{}, err
	}
	next := p.Apply(cur)
	if err := next.Validate(); err != nil {
		return core.Budget{}, err
	}
	updated, err := s.store.UpdateBudget(ctx, next)
	if err != nil {
		return core.Budget{}, fmt.Errorf("update budget: %w", err)
	}
	return updated, nil
}

func (s *BudgetService) DeleteBudget(ctx context.Context, userID, id string) error {
	if err := requireUser(userID); err != nil {
		return err
	}
	if _, err := s.owned(ctx, userID, id); err != nil {
		return err
	}
	if err := s.store.DeleteBudget(ctx, id); err != nil {
		return fmt.Errorf("delete budget: %w", err)
	}
	return nil
}

func (s *BudgetService) owned(ctx context.Context, userID, id string) (core.Budget, error) {
	b, err := s.store.GetBudget(ctx, id)
	if err != nil {
		return core.Budget{}, err
	}
	if b.UserID != userID {
		return core.Budget{}, core.NotFoundf("budget %s", id)
	}
	return b, nil
}
