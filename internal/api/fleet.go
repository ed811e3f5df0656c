package api

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"fleet-dashboard/internal/export"
	"fleet-dashboard/internal/models"
	"fleet-dashboard/internal/report"
	"fleet-dashboard/internal/table"
)

// recentEvents is the number of events shown by the activity widget
const recentEvents = 6

// tableState decodes page, size, search and sort ("col" or "col:desc")
func tableState(r *http.Request) table.State {
	q := r.URL.Query()
	return table.State{
		Page:     queryInt(r, "page", 1),
		PageSize: queryInt(r, "size", 0),
		Search:   q.Get("search"),
		Sort:     models.ParseSort(q.Get("sort")),
	}
}

// listView renders rows through a client mode engine restored from the request
func listView[R any](r *http.Request, opts table.Options[R], rows []R) table.View {
	e := table.New(opts)
	e.Restore(tableState(r))
	return e.Render(table.Input[R]{Rows: rows})
}

func respondView(w http.ResponseWriter, v table.View, start time.Time) {
	respondWithMeta(w, v, &meta{
		Total:   v.Range.Total,
		Page:    v.Page,
		Size:    v.PageSize,
		QueryMs: time.Since(start).Milliseconds(),
	})
}

func (s *Server) vehicleOptions() table.Options[models.Vehicle] {
	return table.Options[models.Vehicle]{
		Columns:         report.VehicleColumns(),
		SearchText:      models.Vehicle.SearchText,
		InitialPageSize: s.cfg.PageSize,
		PageSizeOptions: s.cfg.PageSizeOptions,
	}
}

func (s *Server) handleOverview(w http.ResponseWriter, r *http.Request) {
	filter := models.VehicleFilter{
		Fleet:  r.URL.Query().Get("fleet"),
		Search: r.URL.Query().Get("search"),
	}
	overview := models.Summarize(s.dataset.Vehicles, filter.Apply(s.dataset.Vehicles))

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"kpis":   overview,
		"fleets": s.catalog.FleetOptions(),
	})
}

func (s *Server) handleListVehicles(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	vehicles := models.VehicleFilter{Fleet: r.URL.Query().Get("fleet")}.Apply(s.dataset.Vehicles)

	respondView(w, listView(r, s.vehicleOptions(), vehicles), start)
}

func (s *Server) handleExportVehicles(w http.ResponseWriter, r *http.Request) {
	format, err := s.format(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	e := table.New(s.vehicleOptions())
	e.Restore(tableState(r))
	vehicles := e.Rows(models.VehicleFilter{Fleet: r.URL.Query().Get("fleet")}.Apply(s.dataset.Vehicles))

	rows := make([]models.Record, len(vehicles))
	for i, v := range vehicles {
		rows[i] = v
	}

	f := export.File{Report: "vehicles", Filename: "vehicles.csv", Format: format, Rows: rows}
	if err := export.Serve(w, r, f); err != nil {
		s.log.Error().Err(err).Msg("vehicle export failed")
		respondError(w, http.StatusInternalServerError, err.Error())
	}
}

func (s *Server) handleGetVehicle(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	vehicle, ok := s.dataset.VehicleByID(id)
	if !ok {
		respondError(w, http.StatusNotFound, "vehicle not found")
		return
	}

	respondJSON(w, http.StatusOK, vehicle)
}

func (s *Server) handleListRoutes(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	opts := table.Options[models.Route]{
		Columns:         report.RouteColumns(&s.dataset),
		SearchText:      report.RouteSearchText(&s.dataset),
		InitialPageSize: s.cfg.PageSize,
		PageSizeOptions: s.cfg.PageSizeOptions,
	}

	respondView(w, listView(r, opts, s.dataset.Routes), start)
}

func (s *Server) handleListEvents(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	opts := table.Options[models.Event]{
		Columns:         report.EventColumns(&s.dataset),
		SearchText:      report.EventSearchText(&s.dataset),
		InitialPageSize: s.cfg.PageSize,
		PageSizeOptions: s.cfg.PageSizeOptions,
	}

	respondView(w, listView(r, opts, s.dataset.Events), start)
}

func (s *Server) handleRecentEvents(w http.ResponseWriter, r *http.Request) {
	events := s.dataset.Events
	if len(events) > recentEvents {
		events = events[:recentEvents]
	}

	e := table.New(table.Options[models.Event]{
		Columns: report.EventColumns(&s.dataset),
		Variant: table.Summary,
	})
	respondJSON(w, http.StatusOK, e.Render(table.Input[models.Event]{Rows: events}))
}
