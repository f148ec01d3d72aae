package http

import (
	"net/http"

	"fintrack/internal/core"
	"fintrack/internal/log"
	"fintrack/internal/middleware/auth"
)

func (s *Server) handleFinancialHealth(w http.ResponseWriter, r *http.Request) {
	res, err := s.deps.Finance.ComputeFinancialHealth(r.Context(), auth.UserID(r.Context()))
	if err != nil {
		s.fail(w, r, log.OpCompute, err)
		return
	}
	OK(w, res)
}

// handleMonthlyComparison answers 200 in both shapes: the two reports with a
// verdict, or only a message when a period has no report yet.
func (s *Server) handleMonthlyComparison(w http.ResponseWriter, r *http.Request) {
	cmp, err := s.deps.Finance.GetMonthlyComparison(r.Context(), auth.UserID(r.Context()))
	if err != nil {
		s.fail(w, r, log.OpCompute, err)
		return
	}
	if cmp.CurrentReport == nil {
		NewJSONResponse().Message(cmp.Message).Write(w)
		return
	}
	OK(w, cmp)
}

func (s *Server) handleListReports(w http.ResponseWriter, r *http.Request) {
	reports, err := s.deps.Finance.ListReports(r.Context(), auth.UserID(r.Context()))
	if err != nil {
		s.fail(w, r, log.OpList, err)
		return
	}
	if reports == nil {
		reports = []core.FinancialReport{}
	}
	OK(w, reports)
}

func (s *Server) handleGenerateInsight(w http.ResponseWriter, r *http.Request) {
	in, err := s.deps.Finance.GenerateInsight(r.Context(), auth.UserID(r.Context()))
	if err != nil {
		s.fail(w, r, log.OpCreate, err)
		return
	}
	Created(w, in)
}

func (s *Server) handleListInsights(w http.ResponseWriter, r *http.Request) {
	ins, err := s.deps.Finance.ListInsights(r.Context(), auth.UserID(r.Context()))
	if err != nil {
		s.fail(w, r, log.OpList, err)
		return
	}
	if ins == nil {
		ins = []core.Insight{}
	}
	OK(w, ins)
}

func (s *Server) handleUpdateInsight(w http.ResponseWriter, r *http.Request) {
	var p core.InsightPatch
	if err := DecodeJSON(w, r, &p); err != nil {
		s.fail(w, r, log.OpParse, err)
		return
	}
	p.Title = sanitizePtr(p.Title)
	p.Message = sanitizePtr(p.Message)
	p.Category = sanitizePtr(p.Category)

	updated, err := s.deps.Finance.UpdateInsight(r.Context(), auth.UserID(r.Context()), r.PathValue("id"), p)
	if err != nil {
		s.fail(w, r, log.OpUpdate, err)
		return
	}
	OK(w, updated)
}

func (s *Server) handleDeleteInsight(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := s.deps.Finance.DeleteInsight(r.Context(), auth.UserID(r.Context()), id); err != nil {
		s.fail(w, r, log.OpDelete, err)
		return
	}
	NewJSONResponse().Message("insight deleted").Data(map[string]string{"id": id}).Write(w)
}

// handleSummary serves the lifetime income vs expense summary, cached per user
// until the next ledger write or the TTL.
func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())
	if sum, ok := s.summaryCache.Get(userID); ok {
		s.logger.DebugContext(r.Context(), "Summary cache hit", log.FieldUserID, userID)
		OK(w, sum)
		return
	}

	sum, err := s.deps.Finance.SummarizeIncomeVsExpense(r.Context(), userID)
	if err != nil {
		s.fail(w, r, log.OpCompute, err)
		return
	}
	s.summaryCache.Set(userID, sum)
	OK(w, sum)
}
