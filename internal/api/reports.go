package api

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"fleet-dashboard/internal/export"
	"fleet-dashboard/internal/metrics"
	"fleet-dashboard/internal/models"
	"fleet-dashboard/internal/report"
	"fleet-dashboard/internal/table"
)

type reportInfo struct {
	report.Meta
	Filters        []report.FilterField `json:"filters"`
	DefaultFilters models.Filters       `json:"default_filters"`
	DefaultSort    models.Sort          `json:"default_sort"`
	Estimate       int                  `json:"estimate"`
}

type reportPage struct {
	Rows  []models.Record `json:"rows"`
	Table table.View      `json:"table"`
}

func (s *Server) scope(r *http.Request) models.Scope {
	return models.Scope{
		FleetID:    r.URL.Query().Get("fleet"),
		PeriodDays: queryInt(r, "period", s.cfg.PeriodDays),
	}
}

// filters overrides the report defaults with the query values of its fields
func filters(r *http.Request, rep report.Report) models.Filters {
	q := r.URL.Query()
	out := rep.DefaultFilters().Clone()
	for _, f := range rep.Filters() {
		if q.Has(f.ID) {
			out[f.ID] = q.Get(f.ID)
		}
	}
	return out
}

func sortOf(r *http.Request, rep report.Report) models.Sort {
	if raw := r.URL.Query().Get("sort"); raw != "" {
		return models.ParseSort(raw)
	}
	return rep.DefaultSort()
}

func (s *Server) info(rep report.Report, scope models.Scope) reportInfo {
	return reportInfo{
		Meta:           rep.Meta(),
		Filters:        rep.Filters(),
		DefaultFilters: rep.DefaultFilters(),
		DefaultSort:    rep.DefaultSort(),
		Estimate:       rep.EstimateTotal(scope),
	}
}

func (s *Server) lookup(w http.ResponseWriter, r *http.Request) (report.Report, bool) {
	rep, err := s.catalog.Get(mux.Vars(r)["id"])
	if err != nil {
		respondError(w, statusFor(err), err.Error())
		return nil, false
	}
	return rep, true
}

func (s *Server) handleListReports(w http.ResponseWriter, r *http.Request) {
	scope := s.scope(r)

	estimates := make(map[string]int)
	for _, rep := range s.catalog.Reports() {
		estimates[rep.Meta().ID] = rep.EstimateTotal(scope)
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"categories": s.catalog.Categories(),
		"estimates":  estimates,
		"fleets":     s.catalog.FleetOptions(),
		"periods":    models.PeriodOptions,
	})
}

func (s *Server) handleGetReport(w http.ResponseWriter, r *http.Request) {
	rep, ok := s.lookup(w, r)
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, s.info(rep, s.scope(r)))
}

func (s *Server) handleReportPage(w http.ResponseWriter, r *http.Request) {
	rep, ok := s.lookup(w, r)
	if !ok {
		return
	}

	start := time.Now()
	size := queryInt(r, "size", s.cfg.PageSize)
	if size <= 0 {
		size = s.cfg.PageSize
	}
	req := models.PageRequest{
		Page:     queryInt(r, "page", 1),
		PageSize: size,
		Search:   r.URL.Query().Get("search"),
		Sort:     sortOf(r, rep),
		Filters:  filters(r, rep),
		Scope:    s.scope(r),
	}

	res, err := rep.FetchPage(r.Context(), req)
	metrics.RecordFetch(r.Context(), rep.Meta().ID, time.Since(start), err)
	if err != nil {
		s.log.Warn().Err(err).Str("report", rep.Meta().ID).Msg("report page failed")
		respondError(w, statusFor(err), err.Error())
		return
	}

	e := table.New(table.Options[models.Record]{
		Columns:         rep.Columns(),
		Mode:            table.ServerMode,
		InitialPageSize: s.cfg.PageSize,
		PageSizeOptions: s.cfg.PageSizeOptions,
	})
	view := e.Render(table.Input[models.Record]{
		Rows:  res.Rows,
		Total: res.Total,
		State: table.State{Page: res.Page, PageSize: req.PageSize, Search: req.Search, Sort: req.Sort},
	})

	respondWithMeta(w, reportPage{Rows: res.Rows, Table: view}, &meta{
		Total:   res.Total,
		Page:    res.Page,
		Size:    req.PageSize,
		QueryMs: time.Since(start).Milliseconds(),
	})
}

func (s *Server) handleReportExport(w http.ResponseWriter, r *http.Request) {
	rep, ok := s.lookup(w, r)
	if !ok {
		return
	}
	format, err := s.format(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	rows, err := rep.ExportAll(r.Context(), models.ExportRequest{
		Search:  r.URL.Query().Get("search"),
		Sort:    sortOf(r, rep),
		Filters: filters(r, rep),
		Scope:   s.scope(r),
	})
	if err != nil {
		respondError(w, statusFor(err), err.Error())
		return
	}

	s.serveExport(w, r, rep.Meta(), format, rows)
}

// format reads ?format=, falling back to the configured export format
func (s *Server) format(r *http.Request) (export.Format, error) {
	raw := r.URL.Query().Get("format")
	if raw == "" {
		return s.cfg.ExportFormat, nil
	}
	return export.ParseFormat(raw)
}

func (s *Server) serveExport(w http.ResponseWriter, r *http.Request, m report.Meta, format export.Format, rows []models.Record) {
	f := export.File{Report: m.ID, Filename: m.ExportFilename, Format: format, Rows: rows}
	if err := export.Serve(w, r, f); err != nil {
		s.log.Error().Err(err).Str("report", m.ID).Msg("export failed")
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.log.Info().Str("report", m.ID).Str("format", string(format)).Int("rows", len(rows)).Msg("report exported")
}
