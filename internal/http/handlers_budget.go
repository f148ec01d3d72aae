package http

import (
	"net/http"

	"fintrack/internal/analytics"
	"fintrack/internal/core"
	"fintrack/internal/log"
	"fintrack/internal/middleware/auth"
)

func (s *Server) handleCreateBudget(w http.ResponseWriter, r *http.Request) {
	var req budgetRequest
	if err := DecodeJSON(w, r, &req); err != nil {
		s.fail(w, r, log.OpParse, err)
		return
	}
	b := core.Budget{
		Category: core.Category(sanitizeInput(string(req.Category))),
		Amount:   req.Amount,
	}
	created, err := s.deps.Budgets.CreateBudget(r.Context(), auth.UserID(r.Context()), b)
	if err != nil {
		s.fail(w, r, log.OpCreate, err)
		return
	}
	Created(w, created)
}

func (s *Server) handleListBudgets(w http.ResponseWriter, r *http.Request) {
	budgets, err := s.deps.Budgets.ListBudgets(r.Context(), auth.UserID(r.Context()))
	if err != nil {
		s.fail(w, r, log.OpList, err)
		return
	}
	if budgets == nil {
		budgets = []core.Budget{}
	}
	OK(w, budgets)
}

func (s *Server) handleBudgetCompliance(w http.ResponseWriter, r *http.Request) {
	entries, err := s.deps.Finance.ComputeBudgetCompliance(r.Context(), auth.UserID(r.Context()))
	if err != nil {
		s.fail(w, r, log.OpCompute, err)
		return
	}
	if entries == nil {
		entries = []analytics.ComplianceEntry{}
	}
	OK(w, entries)
}

func (s *Server) handleUpdateBudget(w http.ResponseWriter, r *http.Request) {
	var p core.BudgetPatch
	if err := DecodeJSON(w, r, &p); err != nil {
		s.fail(w, r, log.OpParse, err)
		return
	}
	updated, err := s.deps.Budgets.UpdateBudget(r.Context(), auth.UserID(r.Context()), r.PathValue("id"), p)
	if err != nil {
		s.fail(w, r, log.OpUpdate, err)
		return
	}
	OK(w, updated)
}

func (s *Server) handleDeleteBudget(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := s.deps.Budgets.DeleteBudget(r.Context(), auth.UserID(r.Context()), id); err != nil {
		s.fail(w, r, log.OpDelete, err)
		return
	}
	NewJSONResponse().Message("budget deleted").Data(map[string]string{"id": id}).Write(w)
}
