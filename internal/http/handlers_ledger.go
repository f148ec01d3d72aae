package http

import (
	"net/http"

	"fintrack/internal/core"
	"fintrack/internal/log"
	"fintrack/internal/middleware/auth"
)

func (s *Server) handleCreateTransaction(kind core.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := auth.UserID(r.Context())

		var req transactionRequest
		if err := DecodeJSON(w, r, &req); err != nil {
			s.fail(w, r, log.OpParse, err)
			return
		}
		t, err := req.toTransaction(kind)
		if err != nil {
			s.fail(w, r, log.OpParse, err)
			return
		}

		created, err := s.deps.Ledger.CreateTransaction(r.Context(), userID, t)
		if err != nil {
			s.fail(w, r, log.OpCreate, err)
			return
		}
		s.invalidateSummary(userID)
		s.errlog.LogTransactionWritten(r.Context(), log.OpCreate, userID, string(kind), created.ID, created.Amount.Cents, string(created.Category))
		Created(w, created)
	}
}

func (s *Server) handleListTransactions(kind core.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f, err := ParseLedgerFilter(r.URL.Query())
		if err != nil {
			s.fail(w, r, log.OpParse, err)
			return
		}
		txs, err := s.deps.Ledger.ListTransactions(r.Context(), auth.UserID(r.Context()), kind, f)
		if err != nil {
			s.fail(w, r, log.OpList, err)
			return
		}
		if txs == nil {
			txs = []core.Transaction{}
		}
		OK(w, txs)
	}
}

func (s *Server) handleUpdateTransaction(kind core.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := auth.UserID(r.Context())

		var req transactionPatchRequest
		if err := DecodeJSON(w, r, &req); err != nil {
			s.fail(w, r, log.OpParse, err)
			return
		}
		p, err := req.toPatch()
		if err != nil {
			s.fail(w, r, log.OpParse, err)
			return
		}

		updated, err := s.deps.Ledger.UpdateTransaction(r.Context(), userID, kind, r.PathValue("id"), p)
		if err != nil {
			s.fail(w, r, log.OpUpdate, err)
			return
		}
		s.invalidateSummary(userID)
		s.errlog.LogTransactionWritten(r.Context(), log.OpUpdate, userID, string(kind), updated.ID, updated.Amount.Cents, string(updated.Category))
		OK(w, updated)
	}
}

func (s *Server) handleDeleteTransaction(kind core.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := auth.UserID(r.Context())
		id := r.PathValue("id")
		if err := s.deps.Ledger.DeleteTransaction(r.Context(), userID, kind, id); err != nil {
			s.fail(w, r, log.OpDelete, err)
			return
		}
		s.invalidateSummary(userID)
		NewJSONResponse().Message(string(kind) + " deleted").Data(map[string]string{"id": id}).Write(w)
	}
}

func (s *Server) invalidateSummary(userID string) {
	s.summaryCache.Delete(userID)
}
