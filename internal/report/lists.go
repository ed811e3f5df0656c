package report

import (
	"fmt"
	"strings"

	"fleet-dashboard/internal/models"
	"fleet-dashboard/internal/table"
)

// FormatAgo renders a signal age as "há 15s", "há 3min" or "há 2h"
func FormatAgo(seconds int) string {
	if seconds < 60 {
		return fmt.Sprintf("há %ds", seconds)
	}
	min := (seconds + 30) / 60
	if min < 60 {
		return fmt.Sprintf("há %dmin", min)
	}
	return fmt.Sprintf("há %dh", (min+30)/60)
}

// FormatDuration renders minutes as "2h 8m"
func FormatDuration(min int) string {
	return fmt.Sprintf("%dh %dm", min/60, min%60)
}

// VehicleColumns are the columns of the vehicles list
func VehicleColumns() []table.Column[models.Vehicle] {
	type row = models.Vehicle
	return []table.Column[row]{
		{
			ID:      "vehicle",
			Header:  "Veículo",
			Render:  func(v row) string { return v.Plate + " · " + v.Kind + " • " + v.Group },
			SortKey: func(v row) any { return v.Plate },
		},
		{ID: "status", Header: "Status", Render: func(v row) string { return v.State }, SortKey: func(v row) any { return string(v.Status) }},
		intCol("speed", "Veloc.", func(v row) int { return v.SpeedKmh }, kmh),
		intCol("last", "Último sinal", func(v row) int { return v.LastSignalSec }, FormatAgo),
	}
}

func plateOf(ds *models.Dataset, vehicleID string) (models.Vehicle, bool) {
	return ds.VehicleByID(vehicleID)
}

// RouteColumns are the columns of the routes list
func RouteColumns(ds *models.Dataset) []table.Column[models.Route] {
	type row = models.Route
	return []table.Column[row]{
		{
			ID:      "route",
			Header:  "Rota",
			Render:  func(r row) string { return r.Name + " · " + strings.ToUpper(r.ID) },
			SortKey: func(r row) any { return r.Name },
		},
		vehicleCol(ds, func(r row) string { return r.VehicleID }, func(v models.Vehicle) string { return v.Fleet }),
		intCol("duration", "Duração", func(r row) int { return r.DurationMin }, FormatDuration),
	}
}

// RouteSearchText is the haystack of the routes search box
func RouteSearchText(ds *models.Dataset) func(models.Route) string {
	return func(r models.Route) string {
		v, _ := plateOf(ds, r.VehicleID)
		return strings.Join([]string{r.Name, r.ID, v.Plate, v.Fleet}, " ")
	}
}

// EventColumns are the columns of the events list
func EventColumns(ds *models.Dataset) []table.Column[models.Event] {
	type row = models.Event
	return []table.Column[row]{
		intCol("when", "Quando", func(e row) int { return e.WhenMinAgo }, func(n int) string { return fmt.Sprintf("há %dmin", n) }),
		vehicleCol(ds, func(e row) string { return e.VehicleID }, func(v models.Vehicle) string { return v.Driver }),
		{ID: "kind", Header: "Ocorrência", Render: func(e row) string { return e.Kind }, SortKey: func(e row) any { return e.Kind }},
		{ID: "severity", Header: "Severidade", Render: func(e row) string { return e.Severity }},
	}
}

// EventSearchText is the haystack of the events search box
func EventSearchText(ds *models.Dataset) func(models.Event) string {
	return func(e models.Event) string {
		v, _ := plateOf(ds, e.VehicleID)
		return fmt.Sprintf("%s %s %d %s %s", e.Kind, e.Severity, e.WhenMinAgo, v.Plate, v.Driver)
	}
}

// vehicleCol shows the plate of the referenced vehicle with one detail
// line, or "-" when the vehicle is unknown
func vehicleCol[R any](ds *models.Dataset, id func(R) string, detail func(models.Vehicle) string) table.Column[R] {
	return table.Column[R]{
		ID:     "vehicle",
		Header: "Veículo",
		Render: func(r R) string {
			v, ok := plateOf(ds, id(r))
			if !ok {
				return "-"
			}
			return v.Plate + " · " + detail(v)
		},
		SortKey: func(r R) any {
			v, _ := plateOf(ds, id(r))
			return v.Plate
		},
	}
}
