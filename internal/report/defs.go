package report

import (
	"fmt"
	"strconv"
	"time"

	"fleet-dashboard/internal/models"
	"fleet-dashboard/internal/synth"
	"fleet-dashboard/internal/table"
)

// Universe caps, one per report
const (
	TelemetryCap   = 5000
	TripsCap       = 5000
	SpeedingCap    = 2000
	FuelCap        = 5000
	IdleCap        = 5000
	MaintenanceCap = 5000
	GeofenceCap    = 2000
	BehaviorCap    = 5000
	PositionsCap   = 3000
)

// Simulated backend latency
const (
	summaryLatency = 120 * time.Millisecond
	eventLatency   = 160 * time.Millisecond
	historyLatency = 180 * time.Millisecond
)

// Categories
const (
	CategoryTracking    = "Rastreamento"
	CategoryOperations  = "Operação"
	CategorySafety      = "Segurança"
	CategoryCosts       = "Custos"
	CategoryMaintenance = "Manutenção"
	CategoryCompliance  = "Conformidade"
)

func plateCol[R any](plate func(R) string) table.Column[R] {
	return table.Column[R]{ID: "plate", Header: "Veículo", Render: plate, SortKey: func(r R) any { return plate(r) }}
}

func fleetCol[R any](fleet func(R) string) table.Column[R] {
	return table.Column[R]{ID: "fleet", Header: "Frota", Render: fleet, SortKey: func(r R) any { return fleet(r) }}
}

func whenCol[R any](label func(R) string, stamp func(R) int) table.Column[R] {
	return table.Column[R]{ID: "when", Header: "Quando", Render: label, SortKey: func(r R) any { return stamp(r) }}
}

func intCol[R any](id, header string, v func(R) int, render func(int) string) table.Column[R] {
	return table.Column[R]{
		ID:      id,
		Header:  header,
		Render:  func(r R) string { return render(v(r)) },
		SortKey: func(r R) any { return v(r) },
	}
}

func newTelemetry(c *Catalog) Report {
	type row = models.TelemetryRow
	return &definition[row]{
		meta: Meta{
			ID:             "telemetry",
			Title:          "Telemetria Atual",
			Subtitle:       "Ignição, velocidade, RPM, combustível, temperatura, bateria e GPS",
			Category:       CategoryTracking,
			ExportFilename: "telemetria_atual.csv",
			Cap:            TelemetryCap,
		},
		latency: summaryLatency,
		columns: []table.Column[row]{
			plateCol(func(r row) string { return r.Plate }),
			fleetCol(func(r row) string { return r.Fleet }),
			{ID: "ignition", Header: "Ignição", Render: func(r row) string { return r.Ignition }, SortKey: func(r row) any { return r.Ignition }},
			intCol("speed", "Veloc.", func(r row) int { return r.SpeedKmh }, kmh),
			intCol("rpm", "RPM", func(r row) int { return r.RPM }, grouped),
			intCol("fuel", "Combustível", func(r row) int { return r.FuelPct }, pct),
			intCol("coolant", "Temp.", func(r row) int { return r.CoolantC }, func(n int) string { return fmt.Sprintf("%d°C", n) }),
			{
				ID:      "battery",
				Header:  "Bateria",
				Render:  func(r row) string { return fmt.Sprintf("%.1f V", r.BatteryV) },
				SortKey: func(r row) any { return r.BatteryV },
			},
			{ID: "gpsFix", Header: "GPS", Render: func(r row) string { return r.GPSFix }, SortKey: func(r row) any { return r.GPSFix }},
		},
		filters: []filter[row]{
			selectFilter("ignition", "Ignição", []string{synth.IgnitionOn, synth.IgnitionOff}, func(r row) string { return r.Ignition }),
			selectFilter("gpsFix", "GPS", []string{"3D", "2D"}, func(r row) string { return r.GPSFix }),
			minFilter("minSpeedKmh", "Velocidade mínima (km/h)", "", func(r row) float64 { return float64(r.SpeedKmh) }),
		},
		search: func(r row) []string {
			return []string{r.Plate, r.Fleet, r.Group, r.Status, r.Ignition}
		},
		defaultSort: models.Sort{ColumnID: "plate", Dir: models.Asc},
		universe: perVehicle(func(v models.Vehicle, _ int) row {
			return synth.Telemetry(v)
		}),
		catalog: c,
	}
}

func newTrips(c *Catalog) Report {
	type row = models.TripRow
	return &definition[row]{
		meta: Meta{
			ID:             "trips",
			Title:          "Relatório de Viagens",
			Subtitle:       "Resumo por veículo: viagens, distância, tempo em movimento e tempo parado",
			Category:       CategoryOperations,
			ExportFilename: "relatorio_viagens.csv",
			Cap:            TripsCap,
		},
		latency: summaryLatency,
		columns: []table.Column[row]{
			plateCol(func(r row) string { return r.Plate }),
			fleetCol(func(r row) string { return r.Fleet }),
			intCol("trips", "Viagens", func(r row) int { return r.Trips }, strconv.Itoa),
			intCol("distanceKm", "Distância", func(r row) int { return r.DistanceKm }, km),
			{ID: "driveTime", Header: "Em movimento", Render: func(r row) string { return models.FormatMinutes(r.DriveMin) }},
			{ID: "idleTime", Header: "Parado", Render: func(r row) string { return models.FormatMinutes(r.IdleMin) }},
		},
		filters: []filter[row]{
			minFilter("minTrips", "Viagens mínimas", "", func(r row) float64 { return float64(r.Trips) }),
			minFilter("minDistanceKm", "Distância mínima (km)", "", func(r row) float64 { return float64(r.DistanceKm) }),
		},
		search: func(r row) []string {
			return []string{r.Plate, r.Fleet}
		},
		defaultSort: models.Sort{ColumnID: "plate", Dir: models.Asc},
		universe:    perVehicle(synth.Trips),
		catalog:     c,
	}
}

func newSpeeding(c *Catalog) Report {
	type row = models.SpeedingRow
	return &definition[row]{
		meta: Meta{
			ID:             "speeding",
			Title:          "Eventos de Excesso de Velocidade",
			Subtitle:       "Ocorrências com pico, limite e excesso (carregamento paginado)",
			Category:       CategorySafety,
			ExportFilename: "eventos_velocidade.csv",
			Cap:            SpeedingCap,
		},
		latency: eventLatency,
		columns: []table.Column[row]{
			plateCol(func(r row) string { return r.Plate }),
			fleetCol(func(r row) string { return r.Fleet }),
			whenCol(func(r row) string { return r.When }, func(r row) int { return r.Stamp }),
			intCol("speedKmh", "Pico", func(r row) int { return r.SpeedKmh }, kmh),
			intCol("limitKmh", "Limite", func(r row) int { return r.LimitKmh }, kmh),
			intCol("excessKmh", "Excesso", func(r row) int { return r.ExcessKmh }, kmh),
		},
		filters: []filter[row]{
			paramFilter[row]("limitKmh", "Limite (km/h)", strconv.Itoa(synth.DefaultSpeedLimitKmh)),
			minFilter("minExcessKmh", "Excesso mínimo (km/h)", "0", func(r row) float64 { return float64(r.ExcessKmh) }),
		},
		search: func(r row) []string {
			return []string{r.Plate, r.Fleet, r.When}
		},
		defaultSort: models.Sort{ColumnID: "when", Dir: models.Desc},
		universe: func(vehicles []models.Vehicle, periodDays int, filters models.Filters) (int, func(int) row) {
			if len(vehicles) == 0 {
				return 0, nil
			}
			limit := param(filters, "limitKmh", synth.DefaultSpeedLimitKmh, MaxSpeedLimitKmh)
			return synth.SpeedingUniverse(len(vehicles), periodDays), func(i int) row {
				return synth.Speeding(vehicles, periodDays, i, limit)
			}
		},
		catalog: c,
	}
}

func newFuel(c *Catalog) Report {
	type row = models.FuelRow
	return &definition[row]{
		meta: Meta{
			ID:             "fuel",
			Title:          "Consumo de Combustível",
			Subtitle:       "Distância, litros e média (L/100km)",
			Category:       CategoryCosts,
			ExportFilename: "consumo_combustivel.csv",
			Cap:            FuelCap,
		},
		latency: summaryLatency,
		columns: []table.Column[row]{
			plateCol(func(r row) string { return r.Plate }),
			fleetCol(func(r row) string { return r.Fleet }),
			intCol("distanceKm", "Distância", func(r row) int { return r.DistanceKm }, km),
			intCol("fuelL", "Combustível", func(r row) int { return r.FuelL }, liters),
			{
				ID:      "avgLPer100Km",
				Header:  "Média",
				Render:  func(r row) string { return fmt.Sprintf("%.1f L/100km", r.AvgLPer100Km) },
				SortKey: func(r row) any { return r.AvgLPer100Km },
			},
		},
		filters: []filter[row]{
			minFilter("minLPer100Km", "Média mínima (L/100km)", "", func(r row) float64 { return r.AvgLPer100Km }),
			maxFilter("maxLPer100Km", "Média máxima (L/100km)", func(r row) float64 { return r.AvgLPer100Km }),
		},
		search: func(r row) []string {
			return []string{r.Plate, r.Fleet}
		},
		defaultSort: models.Sort{ColumnID: "plate", Dir: models.Asc},
		universe:    perVehicle(synth.Fuel),
		catalog:     c,
	}
}

func newIdle(c *Catalog) Report {
	type row = models.IdleRow
	return &definition[row]{
		meta: Meta{
			ID:             "idle",
			Title:          "Tempo Parado / Marcha Lenta",
			Subtitle:       "Tempo parado, eventos e desperdício aproximado",
			Category:       CategoryOperations,
			ExportFilename: "tempo_parado.csv",
			Cap:            IdleCap,
		},
		latency: summaryLatency,
		columns: []table.Column[row]{
			plateCol(func(r row) string { return r.Plate }),
			fleetCol(func(r row) string { return r.Fleet }),
			{ID: "idleTime", Header: "Tempo parado", Render: func(r row) string { return models.FormatMinutes(r.IdleMin) }},
			intCol("idleEvents", "Eventos", func(r row) int { return r.IdleEvents }, strconv.Itoa),
			intCol("estFuelWasteL", "Desperdício", func(r row) int { return r.EstFuelWasteL }, liters),
		},
		filters: []filter[row]{
			minFilter("minIdleEvents", "Eventos mínimos", "", func(r row) float64 { return float64(r.IdleEvents) }),
		},
		search: func(r row) []string {
			return []string{r.Plate, r.Fleet}
		},
		defaultSort: models.Sort{ColumnID: "plate", Dir: models.Asc},
		universe:    perVehicle(synth.Idle),
		catalog:     c,
	}
}

func newMaintenance(c *Catalog) Report {
	type row = models.MaintenanceRow
	return &definition[row]{
		meta: Meta{
			ID:             "maintenance",
			Title:          "Manutenção Preventiva",
			Subtitle:       "Proximidade da revisão e prioridade",
			Category:       CategoryMaintenance,
			ExportFilename: "manutencao_preventiva.csv",
			Cap:            MaintenanceCap,
		},
		latency: summaryLatency,
		columns: []table.Column[row]{
			plateCol(func(r row) string { return r.Plate }),
			fleetCol(func(r row) string { return r.Fleet }),
			intCol("nextServiceKm", "Próx. revisão", func(r row) int { return r.NextServiceKm }, km),
			{
				ID:      "priority",
				Header:  "Prioridade",
				Render:  func(r row) string { return r.Priority },
				SortKey: func(r row) any { return models.PriorityRank(r.Priority) },
			},
		},
		filters: []filter[row]{
			selectFilter("priority", "Prioridade",
				[]string{models.PriorityOverdue, models.PriorityUrgent, models.PriorityAttention, models.PriorityOK},
				func(r row) string { return r.Priority }),
		},
		search: func(r row) []string {
			return []string{r.Plate, r.Fleet, r.Priority}
		},
		defaultSort: models.Sort{ColumnID: "priority", Dir: models.Asc},
		universe: perVehicle(func(v models.Vehicle, _ int) row {
			return synth.Maintenance(v)
		}),
		catalog: c,
	}
}

func newGeofence(c *Catalog) Report {
	type row = models.GeofenceRow
	return &definition[row]{
		meta: Meta{
			ID:             "geofence",
			Title:          "Cercas Virtuais (Geofence)",
			Subtitle:       "Entradas e saídas por área (carregamento paginado)",
			Category:       CategoryCompliance,
			ExportFilename: "cercas_virtuais.csv",
			Cap:            GeofenceCap,
		},
		latency: eventLatency,
		columns: []table.Column[row]{
			whenCol(func(r row) string { return r.When }, func(r row) int { return r.Stamp }),
			plateCol(func(r row) string { return r.Plate }),
			fleetCol(func(r row) string { return r.Fleet }),
			{ID: "geofence", Header: "Cerca", Render: func(r row) string { return r.Geofence }, SortKey: func(r row) any { return r.Geofence }},
			{ID: "event", Header: "Evento", Render: func(r row) string { return r.Event }, SortKey: func(r row) any { return r.Event }},
		},
		filters: []filter[row]{
			selectFilter("geofence", "Cerca", synth.Geofences, func(r row) string { return r.Geofence }),
			selectFilter("event", "Evento", []string{synth.EventEnter, synth.EventExit}, func(r row) string { return r.Event }),
		},
		search: func(r row) []string {
			return []string{r.Plate, r.Fleet, r.When, r.Geofence, r.Event}
		},
		defaultSort: models.Sort{ColumnID: "when", Dir: models.Desc},
		universe:    timeSeries(synth.GeofenceUniverse, synth.Geofence),
		catalog:     c,
	}
}

func newBehavior(c *Catalog) Report {
	type row = models.BehaviorRow
	return &definition[row]{
		meta: Meta{
			ID:             "behavior",
			Title:          "Comportamento do Motorista",
			Subtitle:       "Frenagens/arrancadas/curvas bruscas e score",
			Category:       CategorySafety,
			ExportFilename: "comportamento_motorista.csv",
			Cap:            BehaviorCap,
		},
		latency: summaryLatency,
		columns: []table.Column[row]{
			plateCol(func(r row) string { return r.Plate }),
			fleetCol(func(r row) string { return r.Fleet }),
			intCol("harshBrake", "Frenagens", func(r row) int { return r.HarshBrake }, strconv.Itoa),
			intCol("harshAccel", "Arrancadas", func(r row) int { return r.HarshAccel }, strconv.Itoa),
			intCol("sharpTurn", "Curvas", func(r row) int { return r.SharpTurn }, strconv.Itoa),
			intCol("safetyScore", "Score", func(r row) int { return r.SafetyScore }, strconv.Itoa),
		},
		filters: []filter[row]{
			minFilter("minScore", "Score mínimo", "70", func(r row) float64 { return float64(r.SafetyScore) }),
		},
		search: func(r row) []string {
			return []string{r.Plate, r.Fleet}
		},
		defaultSort: models.Sort{ColumnID: "safetyScore", Dir: models.Desc},
		universe:    perVehicle(synth.Behavior),
		catalog:     c,
	}
}

func newPositions(c *Catalog) Report {
	type row = models.PositionRow
	return &definition[row]{
		meta: Meta{
			ID:             "positions",
			Title:          "Histórico de Posições (GPS)",
			Subtitle:       "Exemplo de relatório de alto volume (pontos GPS paginados)",
			Category:       CategoryTracking,
			ExportFilename: "historico_posicoes.csv",
			Cap:            PositionsCap,
		},
		latency: historyLatency,
		columns: []table.Column[row]{
			whenCol(func(r row) string { return r.When }, func(r row) int { return r.Stamp }),
			plateCol(func(r row) string { return r.Plate }),
			fleetCol(func(r row) string { return r.Fleet }),
			{ID: "lat", Header: "Lat", Render: func(r row) string { return fmt.Sprintf("%.5f", r.Lat) }},
			{ID: "lng", Header: "Lng", Render: func(r row) string { return fmt.Sprintf("%.5f", r.Lng) }},
			intCol("speedKmh", "Veloc.", func(r row) int { return r.SpeedKmh }, kmh),
		},
		filters: []filter[row]{
			minFilter("minSpeedKmh", "Velocidade mínima (km/h)", "", func(r row) float64 { return float64(r.SpeedKmh) }),
			maxFilter("maxSpeedKmh", "Velocidade máxima (km/h)", func(r row) float64 { return float64(r.SpeedKmh) }),
		},
		search: func(r row) []string {
			return []string{r.Plate, r.Fleet, r.When}
		},
		defaultSort: models.Sort{ColumnID: "when", Dir: models.Desc},
		universe:    timeSeries(synth.PositionUniverse, synth.Position),
		catalog:     c,
	}
}
