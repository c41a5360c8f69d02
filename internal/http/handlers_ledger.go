package http

import (
	"net/http"

	"github.com/ChongZhe001025/FinTrack-sub000/internal/core"
	applog "github.com/ChongZhe001025/FinTrack-sub000/internal/log"
	"github.com/ChongZhe001025/FinTrack-sub000/internal/services"
)

func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerOf(w, r)
	if !ok {
		return
	}
	cats, err := s.deps.Ledger.ListCategories(r.Context(), owner)
	if err != nil {
		s.writeError(w, r, err, applog.OpList)
		return
	}
	writeJSON(w, http.StatusOK, mapSlice(cats, toCategoryJSON))
}

func (s *Server) handleCreateCategory(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerOf(w, r)
	if !ok {
		return
	}
	var req categoryRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err, applog.OpCreate)
		return
	}
	c, err := s.deps.Ledger.CreateCategory(r.Context(), owner, sanitizeInput(req.Name), req.Type, req.SortOrder)
	if err != nil {
		s.writeError(w, r, err, applog.OpCreate)
		return
	}
	writeJSON(w, http.StatusCreated, toCategoryJSON(c))
}

// handleUpdateCategory applies a partial update; absent fields are kept.
func (s *Server) handleUpdateCategory(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerOf(w, r)
	if !ok {
		return
	}
	var req categoryPatchRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err, applog.OpUpdate)
		return
	}
	if req.Name != nil {
		name := sanitizeInput(*req.Name)
		req.Name = &name
	}
	c, err := s.deps.Ledger.UpdateCategory(r.Context(), owner, r.PathValue("id"), services.CategoryPatch{
		Name:      req.Name,
		Type:      req.Type,
		SortOrder: req.SortOrder,
	})
	if err != nil {
		s.writeError(w, r, err, applog.OpUpdate)
		return
	}
	writeJSON(w, http.StatusOK, toCategoryJSON(c))
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerOf(w, r)
	if !ok {
		return
	}
	p, err := ParsePeriodParams(r, s.now())
	if err != nil {
		s.writeError(w, r, err, applog.OpList)
		return
	}
	txs, err := s.deps.Ledger.ListTransactions(r.Context(), owner, p)
	if err != nil {
		s.writeError(w, r, err, applog.OpList)
		return
	}
	writeJSON(w, http.StatusOK, mapSlice(txs, toTransactionJSON))
}

// handleCreateTransaction records a transaction referencing its category by
// categoryId or, failing that, by category name.
func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerOf(w, r)
	if !ok {
		return
	}
	var req transactionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err, applog.OpCreate)
		return
	}
	amount, err := req.Amount.Positive()
	if err != nil {
		s.writeError(w, r, err, applog.OpCreate)
		return
	}
	date := sanitizeInput(req.Date)
	if date == "" {
		date = core.FormatDate(s.now())
	}
	tx, err := s.deps.Ledger.CreateTransaction(r.Context(), owner, services.TransactionInput{
		Amount:       amount,
		CategoryID:   sanitizeInput(req.CategoryID),
		CategoryName: sanitizeInput(req.Category),
		Date:         date,
		Note:         sanitizeInput(req.Note),
	})
	if err != nil {
		s.writeError(w, r, err, applog.OpCreate)
		return
	}
	writeJSON(w, http.StatusCreated, toTransactionJSON(tx))
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerOf(w, r)
	if !ok {
		return
	}
	if _, err := s.deps.Ledger.DeleteTransaction(r.Context(), owner, r.PathValue("id")); err != nil {
		s.writeError(w, r, err, applog.OpDelete)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
