// Package http provides HTTP server and handler implementations.
//
// This file implements utilities for parsing and validating HTTP request data:
// JSON bodies, ledger filters and calendar dates.

package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"fintrack/internal/core"
)

const maxBodyBytes = 1 << 20

const dateLayout = "2006-01-02"

// DecodeJSON reads the request body into dst. Malformed or oversized bodies
// are validation errors.
func DecodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		switch {
		case errors.Is(err, io.EOF):
			return core.Validationf("request body is required")
		case errors.As(err, &maxErr):
			return core.Validationf("request body exceeds %d bytes", maxErr.Limit)
		case errors.Is(err, core.ErrValidation):
			return err
		default:
			return core.Validationf("malformed JSON body: %v", err)
		}
	}
	return nil
}

// ParseDate accepts a calendar date (2006-01-02) or an RFC 3339 timestamp.
// endOfDay moves a calendar date to its last instant so that it bounds a
// range inclusively.
func ParseDate(s string, endOfDay bool) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(dateLayout, s); err == nil {
		if endOfDay {
			return t.Add(24*time.Hour - time.Nanosecond), nil
		}
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t.UTC(), nil
	}
	return time.Time{}, core.Validationf("invalid date %q: use YYYY-MM-DD or RFC 3339", s)
}

// parseOptionalDate returns nil for an empty or missing value.
func parseOptionalDate(s *string, endOfDay bool) (*time.Time, error) {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil, nil
	}
	t, err := ParseDate(*s, endOfDay)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// ParseLedgerFilter reads startDate, endDate and category from the query.
// Either bound may be given alone.
func ParseLedgerFilter(q url.Values) (core.LedgerFilter, error) {
	var f core.LedgerFilter
	if v := strings.TrimSpace(q.Get("startDate")); v != "" {
		t, err := ParseDate(v, false)
		if err != nil {
			return f, fmt.Errorf("startDate: %w", err)
		}
		f.Start = &t
	}
	if v := strings.TrimSpace(q.Get("endDate")); v != "" {
		t, err := ParseDate(v, true)
		if err != nil {
			return f, fmt.Errorf("endDate: %w", err)
		}
		f.End = &t
	}
	f.Category = core.Category(sanitizeInput(q.Get("category")))
	return f, nil
}

// sanitizeInput removes control characters except tab and newlines, and trims
// whitespace.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
}

func sanitizePtr(s *string) *string {
	if s == nil {
		return nil
	}
	v := sanitizeInput(*s)
	return &v
}

// transactionRequest is the create body of incomes and expenses.
type transactionRequest struct {
	Title       string        `json:"title"`
	Amount      core.Money    `json:"amount"`
	Category    core.Category `json:"category"`
	Date        *string       `json:"date"`
	Description string        `json:"description"`
}

func (req transactionRequest) toTransaction(kind core.Kind) (core.Transaction, error) {
	date, err := parseOptionalDate(req.Date, false)
	if err != nil {
		return core.Transaction{}, err
	}
	t := core.Transaction{
		Kind:        kind,
		Title:       sanitizeInput(req.Title),
		Amount:      req.Amount,
		Category:    core.Category(sanitizeInput(string(req.Category))),
		Description: sanitizeInput(req.Description),
	}
	if date != nil {
		t.Date = *date
	}
	return t, nil
}

// transactionPatchRequest is the update body of incomes and expenses.
type transactionPatchRequest struct {
	Title       *string        `json:"title"`
	Amount      *core.Money    `json:"amount"`
	Category    *core.Category `json:"category"`
	Date        *string        `json:"date"`
	Description *string        `json:"description"`
}

func (req transactionPatchRequest) toPatch() (core.TransactionPatch, error) {
	date, err := parseOptionalDate(req.Date, false)
	if err != nil {
		return core.TransactionPatch{}, err
	}
	return core.TransactionPatch{
		Title:       sanitizePtr(req.Title),
		Amount:      req.Amount,
		Category:    req.Category,
		Date:        date,
		Description: sanitizePtr(req.Description),
	}, nil
}

type budgetRequest struct {
	Category core.Category `json:"category"`
	Amount   core.Money    `json:"amount"`
}

type goalRequest struct {
	GoalAmount core.Money `json:"goalAmount"`
	TargetDate *string    `json:"targetDate"`
}

type progressRequest struct {
	Amount core.Money `json:"amount"`
}
