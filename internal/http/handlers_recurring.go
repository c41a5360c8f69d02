package http

import (
	"net/http"

	applog "github.com/ChongZhe001025/FinTrack-sub000/internal/log"
	"github.com/ChongZhe001025/FinTrack-sub000/internal/services"
)

func (s *Server) handleListTemplates(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerOf(w, r)
	if !ok {
		return
	}
	list, err := s.deps.Recurring.ListTemplates(r.Context(), owner)
	if err != nil {
		s.writeError(w, r, err, applog.OpList)
		return
	}
	writeJSON(w, http.StatusOK, mapSlice(list, toTemplateJSON))
}

// handleCreateTemplate stores a fixed expense; its current-month occurrence
// is materialized right away, or by the worker when a broker is configured.
func (s *Server) handleCreateTemplate(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerOf(w, r)
	if !ok {
		return
	}
	var req templateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err, applog.OpCreate)
		return
	}
	amount, err := req.Amount.Positive()
	if err != nil {
		s.writeError(w, r, err, applog.OpCreate)
		return
	}
	tmpl, err := s.deps.Recurring.CreateTemplate(r.Context(), owner, services.TemplateInput{
		Amount:     amount,
		CategoryID: sanitizeInput(req.CategoryID),
		Day:        req.Day,
		Note:       sanitizeInput(req.Note),
	})
	if err != nil {
		s.writeError(w, r, err, applog.OpCreate)
		return
	}
	writeJSON(w, http.StatusCreated, toTemplateJSON(tmpl))
}

func (s *Server) handleDeleteTemplate(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerOf(w, r)
	if !ok {
		return
	}
	if _, err := s.deps.Recurring.DeleteTemplate(r.Context(), owner, r.PathValue("id")); err != nil {
		s.writeError(w, r, err, applog.OpDelete)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
