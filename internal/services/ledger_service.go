// Package services orchestrates validation, ownership checks, persistence and
// event publishing on top of the store ports.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"fintrack/internal/amqp"
	"fintrack/internal/core"
	"fintrack/internal/store"
)

// LedgerPublisher announces ledger writes. *amqp.Client implements it.
type LedgerPublisher interface {
	PublishLedgerChanged(ctx context.Context, msg *amqp.LedgerChangedMessage) error
}

// LedgerService manages income and expense records.
type LedgerService struct {
	store  store.TransactionStore
	events LedgerPublisher
	clock  core.Clock
	newID  func() string
}

// NewLedgerService wires the service. events may be nil, in which case no
// ledger-changed messages are sent.
func NewLedgerService(s store.TransactionStore, events LedgerPublisher, clock core.Clock) *LedgerService {
	if clock == nil {
		clock = core.SystemClock
	}
	return &LedgerService{store: s, events: events, clock: clock, newID: uuid.NewString}
}

func requireUser(userID string) error {
	if strings.TrimSpace(userID) == "" {
		return core.ErrMissingUser
	}
	return nil
}

// CreateTransaction validates and stores a new record owned by userID. The
// date defaults to now when omitted.
func (s *LedgerService) CreateTransaction(ctx context.Context, userID string, t core.Transaction) (core.Transaction, error) {
	if err := requireUser(userID); err != nil {
		return core.Transaction{}, err
	}
	now := s.clock()
	t.ID = s.newID()
	t.UserID = userID
	t.Title = strings.TrimSpace(t.Title)
	t.CreatedAt = now
	if t.Date.IsZero() {
		t.Date = now
	}
	if err := t.Validate(); err != nil {
		return core.Transaction{}, err
	}

	created, err := s.store.CreateTransaction(ctx, t)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("save %s: %w", t.Kind, err)
	}
	slog.InfoContext(ctx, "Transaction created",
		"id", created.ID,
		"kind", created.Kind,
		"user_id", userID,
		"amount", created.Amount.String(),
		"category", created.Category)

	s.publish(ctx, created, amqp.ActionCreated)
	return created, nil
}

// ListTransactions returns the user's records of one kind matching f, newest
// first.
func (s *LedgerService) ListTransactions(ctx context.Context, userID string, kind core.Kind, f core.LedgerFilter) ([]core.Transaction, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	if err := kind.Validate(); err != nil {
		return nil, err
	}
	f.UserID = userID
	if err := f.Validate(); err != nil {
		return nil, err
	}
	txs, err := s.store.ListTransactions(ctx, kind, f)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", kind, err)
	}
	return txs, nil
}

// UpdateTransaction applies a partial update. Records of other users are
// reported as not found.
func (s *LedgerService) UpdateTransaction(ctx context.Context, userID string, kind core.Kind, id string, p core.TransactionPatch) (core.Transaction, error) {
	if err := requireUser(userID); err != nil {
		return core.Transaction{}, err
	}
	if p.IsEmpty() {
		return core.Transaction{}, core.ErrEmptyPatch
	}
	cur, err := s.owned(ctx, userID, kind, id)
	if err != nil {
		return core.Transaction{}, err
	}
	next := p.Apply(cur)
	next.Title = strings.TrimSpace(next.Title)
	if err := next.Validate(); err != nil {
		return core.Transaction{}, err
	}
	updated, err := s.store.UpdateTransaction(ctx, next)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("update %s: %w", kind, err)
	}
	s.publish(ctx, updated, amqp.ActionUpdated)
	return updated, nil
}

func (s *LedgerService) DeleteTransaction(ctx context.Context, userID string, kind core.Kind, id string) error {
	if err := requireUser(userID); err != nil {
		return err
	}
	cur, err := s.owned(ctx, userID, kind, id)
	if err != nil {
		return err
	}
	if err := s.store.DeleteTransaction(ctx, kind, id); err != nil {
		return fmt.Errorf("delete %s: %w", kind, err)
	}
	slog.InfoContext(ctx, "Transaction deleted", "id", id, "kind", kind, "user_id", userID)
	s.publish(ctx, cur, amqp.ActionDeleted)
	return nil
}

func (s *LedgerService) owned(ctx context.Context, userID string, kind core.Kind, id string) (core.Transaction, error) {
	if err := kind.Validate(); err != nil {
		return core.Transaction{}, err
	}
	t, err := s.store.GetTransaction(ctx, kind, id)
	if err != nil {
		return core.Transaction{}, err
	}
	if !t.OwnedBy(userID) {
		return core.Transaction{}, core.NotFoundf("%s %s", kind, id)
	}
	return t, nil
}

// publish never fails the caller: the write is already stored.
func (s *LedgerService) publish(ctx context.Context, t core.Transaction, action string) {
	if s.events == nil {
		return
	}
	msg := amqp.NewLedgerChangedMessage(t.UserID, string(t.Kind), action, t.ID, s.clock())
	if err := s.events.PublishLedgerChanged(ctx, msg); err != nil {
		slog.ErrorContext(ctx, "Failed to publish ledger changed message",
			"id", t.ID,
			"action", action,
			"error", err)
	}
}
