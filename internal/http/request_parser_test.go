package http

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"fintrack/internal/core"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		name     string
		in       string
		endOfDay bool
		want     time.Time
		wantErr  bool
	}{
		{"calendar date", "2024-03-01", false, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), false},
		{"calendar date end of day", "2024-03-01", true, time.Date(2024, 3, 1, 23, 59, 59, 999999999, time.UTC), false},
		{"rfc3339 ignores end of day", "2024-03-01T10:30:00+02:00", true, time.Date(2024, 3, 1, 8, 30, 0, 0, time.UTC), false},
		{"surrounding spaces", " 2024-12-31 ", false, time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC), false},
		{"european format", "01/03/2024", false, time.Time{}, true},
		{"impossible date", "2024-02-30", false, time.Time{}, true},
		{"empty", "", false, time.Time{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDate(tt.in, tt.endOfDay)
			if tt.wantErr {
				if !errors.Is(err, core.ErrValidation) {
					t.Fatalf("expected validation error, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("ParseDate() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParseLedgerFilter(t *testing.T) {
	t.Run("empty query", func(t *testing.T) {
		f, err := ParseLedgerFilter(url.Values{})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if f.Start != nil || f.End != nil || f.Category != "" {
			t.Fatalf("expected zero filter, got %+v", f)
		}
	})

	t.Run("single bound", func(t *testing.T) {
		f, err := ParseLedgerFilter(url.Values{"endDate": {"2024-03-31"}})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if f.Start != nil || f.End == nil {
			t.Fatalf("expected only an end bound, got %+v", f)
		}
		if f.End.Day() != 31 || f.End.Hour() != 23 {
			t.Errorf("end bound = %v", f.End)
		}
	})

	t.Run("category is trimmed", func(t *testing.T) {
		f, err := ParseLedgerFilter(url.Values{"category": {"  Food "}})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if f.Category != core.Food {
			t.Errorf("category = %q", f.Category)
		}
	})

	t.Run("bad start date names the parameter", func(t *testing.T) {
		_, err := ParseLedgerFilter(url.Values{"startDate": {"soon"}})
		if !errors.Is(err, core.ErrValidation) || !strings.Contains(err.Error(), "startDate") {
			t.Fatalf("unexpected error: %v", err)
		}
	})
}

func TestDecodeJSON(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr bool
	}{
		{"valid", `{"category":"Food","amount":"12,50"}`, false},
		{"empty", ``, true},
		{"truncated", `{"category":`, true},
		{"bad amount", `{"category":"Food","amount":"ten"}`, true},
		{"too large", `{"category":"` + strings.Repeat("a", maxBodyBytes) + `"}`, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/budgets", strings.NewReader(tt.body))
			var dst budgetRequest
			err := DecodeJSON(httptest.NewRecorder(), req, &dst)
			if tt.wantErr {
				if !errors.Is(err, core.ErrValidation) {
					t.Fatalf("expected validation error, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if dst.Amount.Cents != 1250 || dst.Category != core.Food {
				t.Errorf("decoded %+v", dst)
			}
		})
	}
}

func TestSanitizeInput(t *testing.T) {
	if got := sanitizeInput("  Rent\x00\x07 March\t "); got != "Rent March" {
		t.Errorf("sanitizeInput() = %q", got)
	}
	if sanitizePtr(nil) != nil {
		t.Error("nil pointer must stay nil")
	}
}
