package http

import (
	"net/http"

	applog "github.com/ChongZhe001025/FinTrack-sub000/internal/log"
)

// handleBudgetStatus lists the month's budgets with what was spent against them.
func (s *Server) handleBudgetStatus(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerOf(w, r)
	if !ok {
		return
	}
	ym, err := ParseMonthParam(r, s.now())
	if err != nil {
		s.writeError(w, r, err, applog.OpList)
		return
	}
	status, err := s.deps.Budgets.BudgetStatus(r.Context(), owner, ym)
	if err != nil {
		s.writeError(w, r, err, applog.OpList)
		return
	}
	writeJSON(w, http.StatusOK, nonNil(status))
}

// handleSetBudget creates or replaces the limit for (category, month).
func (s *Server) handleSetBudget(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerOf(w, r)
	if !ok {
		return
	}
	var req budgetRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err, applog.OpUpdate)
		return
	}
	limit, err := req.Limit.NonNegative()
	if err != nil {
		s.writeError(w, r, err, applog.OpUpdate)
		return
	}
	b, err := s.deps.Budgets.SetBudget(r.Context(), owner, sanitizeInput(req.Category), sanitizeInput(req.YearMonth), limit)
	if err != nil {
		s.writeError(w, r, err, applog.OpUpdate)
		return
	}
	writeJSON(w, http.StatusOK, toBudgetJSON(b))
}

func (s *Server) handleDeleteBudget(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerOf(w, r)
	if !ok {
		return
	}
	if _, err := s.deps.Budgets.DeleteBudget(r.Context(), owner, r.PathValue("id")); err != nil {
		s.writeError(w, r, err, applog.OpDelete)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
