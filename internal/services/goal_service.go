package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"fintrack/internal/core"
	"fintrack/internal/store"
)

type GoalService struct {
	store store.GoalStore
	clock core.Clock
	newID func() string
}

func NewGoalService(s store.GoalStore, clock core.Clock) *GoalService {
	if clock == nil {
		clock = core.SystemClock
	}
	return &GoalService{store: s, clock: clock, newID: uuid.NewString}
}

// CreateGoal starts a goal at zero progress.
func (s *GoalService) CreateGoal(ctx context.Context, userID string, goalAmount core.Money, targetDate time.Time) (core.SavingsGoal, error) {
	if err := requireUser(userID); err != nil {
		return core.SavingsGoal{}, err
	}
	g := core.SavingsGoal{
		ID:         s.newID(),
		UserID:     userID,
		GoalAmount: goalAmount,
		TargetDate: targetDate,
		Status:     core.GoalInProgress,
		CreatedAt:  s.clock(),
	}
	if err := g.Validate(); err != nil {
		return core.SavingsGoal{}, err
	}
	created, err := s.store.CreateGoal(ctx, g)
	if err != nil {
		return core.SavingsGoal{}, fmt.Errorf("save savings goal: %w", err)
	}
	return created, nil
}

func (s *GoalService) ListGoals(ctx context.Context, userID string) ([]core.SavingsGoal, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	goals, err := s.store.ListGoals(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list savings goals: %w", err)
	}
	return goals, nil
}

// AddProgress adds amount to the goal and completes it once the target is
// reached.
func (s *GoalService) AddProgress(ctx context.Context, userID, id string, amount core.Money) (core.SavingsGoal, error) {
	if err := requireUser(userID); err != nil {
		return core.SavingsGoal{}, err
	}
	g, err := s.owned(ctx, userID, id)
	if err != nil {
		return core.SavingsGoal{}, err
	}
	was := g.Status
	if err := g.AddProgress(amount); err != nil {
		return core.SavingsGoal{}, err
	}
	updated, err := s.store.UpdateGoal(ctx, g)
	if err != nil {
		return core.SavingsGoal{}, fmt.Errorf("update savings goal: %w", err)
	}
	if was != updated.Status {
		slog.InfoContext(ctx, "Savings goal status changed",
			"id", id, "user_id", userID, "from", was, "to", updated.Status)
	}
	return updated, nil
}

func (s *GoalService) DeleteGoal(ctx context.Context, userID, id string) error {
	if err := requireUser(userID); err != nil {
		return err
	}
	if _, err := s.owned(ctx, userID, id); err != nil {
		return err
	}
	if err := s.store.DeleteGoal(ctx, id); err != nil {
		return fmt.Errorf("delete savings goal: %w", err)
	}
	return nil
}

func (s *GoalService) owned(ctx context.Context, userID, id string) (core.SavingsGoal, error) {
	g, err := s.store.GetGoal(ctx, id)
	if err != nil {
		return core.SavingsGoal{}, err
	}
	if g.UserID != userID {
		return core.SavingsGoal{}, core.NotFoundf("savings goal %s", id)
	}
	return g, nil
}
