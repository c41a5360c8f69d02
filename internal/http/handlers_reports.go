package http

import (
	"net/http"

	applog "github.com/ChongZhe001025/FinTrack-sub000/internal/log"
)

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerOf(w, r)
	if !ok {
		return
	}
	ym, err := ParseMonthParam(r, s.now())
	if err != nil {
		s.writeError(w, r, err, applog.OpAggregate)
		return
	}
	summary, err := s.deps.Aggregator.Dashboard(r.Context(), owner, ym)
	if err != nil {
		s.writeError(w, r, err, applog.OpAggregate)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (s *Server) handleBreakdown(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerOf(w, r)
	if !ok {
		return
	}
	p, err := ParsePeriodParams(r, s.now())
	if err != nil {
		s.writeError(w, r, err, applog.OpAggregate)
		return
	}
	rows, err := s.deps.Aggregator.Breakdown(r.Context(), owner, p)
	if err != nil {
		s.writeError(w, r, err, applog.OpAggregate)
		return
	}
	writeJSON(w, http.StatusOK, nonNil(rows))
}

func (s *Server) handleCompare(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerOf(w, r)
	if !ok {
		return
	}
	ym, err := ParseMonthParam(r, s.now())
	if err != nil {
		s.writeError(w, r, err, applog.OpAggregate)
		return
	}
	rows, err := s.deps.Aggregator.CompareMonths(r.Context(), owner, ym)
	if err != nil {
		s.writeError(w, r, err, applog.OpAggregate)
		return
	}
	writeJSON(w, http.StatusOK, nonNil(rows))
}

func (s *Server) handleWeeklyHabits(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerOf(w, r)
	if !ok {
		return
	}
	rows, err := s.deps.Reports.WeeklyHabits(r.Context(), owner, ParseDaysParam(r), s.now())
	if err != nil {
		s.writeError(w, r, err, applog.OpAggregate)
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

func (s *Server) handleYearlyReport(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerOf(w, r)
	if !ok {
		return
	}
	year, err := ParseYearParam(r, s.now())
	if err != nil {
		s.writeError(w, r, err, applog.OpAggregate)
		return
	}
	report, err := s.deps.Reports.YearlyReport(r.Context(), owner, year)
	if err != nil {
		s.writeError(w, r, err, applog.OpAggregate)
		return
	}
	report.ByCategory = nonNil(report.ByCategory)
	writeJSON(w, http.StatusOK, report)
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
