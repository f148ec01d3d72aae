package http

import (
	"net/http"
	"time"

	"fintrack/internal/core"
	"fintrack/internal/log"
	"fintrack/internal/middleware/auth"
)

func (s *Server) handleCreateGoal(w http.ResponseWriter, r *http.Request) {
	var req goalRequest
	if err := DecodeJSON(w, r, &req); err != nil {
		s.fail(w, r, log.OpParse, err)
		return
	}
	target, err := parseOptionalDate(req.TargetDate, false)
	if err != nil {
		s.fail(w, r, log.OpParse, err)
		return
	}
	var targetDate time.Time
	if target != nil {
		targetDate = *target
	}
	created, err := s.deps.Goals.CreateGoal(r.Context(), auth.UserID(r.Context()), req.GoalAmount, targetDate)
	if err != nil {
		s.fail(w, r, log.OpCreate, err)
		return
	}
	Created(w, created)
}

func (s *Server) handleListGoals(w http.ResponseWriter, r *http.Request) {
	goals, err := s.deps.Goals.ListGoals(r.Context(), auth.UserID(r.Context()))
	if err != nil {
		s.fail(w, r, log.OpList, err)
		return
	}
	if goals == nil {
		goals = []core.SavingsGoal{}
	}
	OK(w, goals)
}

func (s *Server) handleAddProgress(w http.ResponseWriter, r *http.Request) {
	var req progressRequest
	if err := DecodeJSON(w, r, &req); err != nil {
		s.fail(w, r, log.OpParse, err)
		return
	}
	updated, err := s.deps.Goals.AddProgress(r.Context(), auth.UserID(r.Context()), r.PathValue("goalId"), req.Amount)
	if err != nil {
		s.fail(w, r, log.OpUpdate, err)
		return
	}
	OK(w, updated)
}

func (s *Server) handleDeleteGoal(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("goalId")
	if err := s.deps.Goals.DeleteGoal(r.Context(), auth.UserID(r.Context()), id); err != nil {
		s.fail(w, r, log.OpDelete, err)
		return
	}
	NewJSONResponse().Message("savings goal deleted").Data(map[string]string{"id": id}).Write(w)
}
