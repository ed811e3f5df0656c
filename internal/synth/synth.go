// Package synth derives reproducible pseudo-telemetry from the seed vehicles.
// Every row is a pure function of the vehicle, the report kind, the period
// and the row index; nothing here reads a clock or a random source.
package synth

import (
	"fmt"
	"hash/fnv"
	"math"

	"fleet-dashboard/internal/models"
)

// Report kinds used when composing hash keys
const (
	KindTelemetry   = "telemetry"
	KindTrips       = "trips"
	KindSpeeding    = "speed"
	KindFuel        = "fuel"
	KindIdle        = "idle"
	KindMaintenance = "maint"
	KindGeofence    = "geo"
	KindBehavior    = "beh"
	KindPositions   = "pos"
)

// Geofences crossed by the synthetic geofence events
var Geofences = []string{"CD Principal", "Zona Restrita", "Filial Sul", "Porto"}

// Geofence crossing directions
const (
	EventEnter = "Entrada"
	EventExit  = "Saída"
)

// Ignition states
const (
	IgnitionOn  = "Ligada"
	IgnitionOff = "Desligada"
)

// DefaultSpeedLimitKmh is the limit applied when none is configured
const DefaultSpeedLimitKmh = 80

// Hash folds key with 32-bit FNV-1a
func Hash(key string) uint32 {
	h := fnv.New32a()
	h.Write([]byte(key))
	return h.Sum32()
}

// Key composes the hash input of a synthetic row
func Key(vehicleID, kind string, periodDays, rowIndex int) string {
	return fmt.Sprintf("%s:%s:%d:%d", vehicleID, kind, periodDays, rowIndex)
}

// Clamp bounds n to [lo, hi]
func Clamp(n, lo, hi int) int {
	return max(lo, min(hi, n))
}

// ClampFloat bounds f to [lo, hi]
func ClampFloat(f, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, f))
}

func round(f float64) int {
	return int(math.Round(f))
}

func period(days int) int {
	return max(1, days)
}

// mod returns h % n as an int
func mod(h uint32, n int) int {
	return int(h % uint32(n))
}

// Telemetry derives the current telemetry snapshot of v
func Telemetry(v models.Vehicle) models.TelemetryRow {
	h := Hash(Key(v.ID, KindTelemetry, 0, 0))
	speed := Clamp(v.SpeedKmh+(mod(h, 17)-8), 0, 120)
	rpm := Clamp(800+speed*28+mod(h, 500), 700, 4200)
	battery := ClampFloat(12.1+float64(mod(h, 40))/10, 11.6, 14.6)

	gpsFix := "2D"
	if mod(h, 10) > 1 {
		gpsFix = "3D"
	}
	ignition := IgnitionOff
	if v.SpeedKmh > 0 || v.Status != models.StatusCritical {
		ignition = IgnitionOn
	}

	return models.TelemetryRow{
		Plate:         v.Plate,
		Fleet:         v.Fleet,
		Group:         v.Group,
		Status:        v.State,
		Ignition:      ignition,
		SpeedKmh:      speed,
		RPM:           rpm,
		FuelPct:       Clamp(18+mod(h, 78), 5, 100),
		CoolantC:      Clamp(72+mod(h, 28), 60, 110),
		BatteryV:      math.Round(battery*10) / 10,
		OdometerKm:    Clamp(38200+mod(h, 19000)+round(float64(v.DistanceTodayKm)*12), 1000, 999999),
		GPSFix:        gpsFix,
		LastSignalSec: v.LastSignalSec,
	}
}

// periodDistance scales today's distance to the whole period
func periodDistance(v models.Vehicle, multiplier int) int {
	return round(float64(v.DistanceTodayKm) * (0.7 + float64(multiplier)*0.22))
}

// Trips summarizes the trips of v over periodDays
func Trips(v models.Vehicle, periodDays int) models.TripRow {
	h := Hash(Key(v.ID, KindTrips, periodDays, 0))
	m := Clamp(periodDays, 1, 60)
	km := periodDistance(v, m)
	return models.TripRow{
		Plate:      v.Plate,
		Fleet:      v.Fleet,
		Trips:      2 + mod(h, 10),
		DistanceKm: km,
		DriveMin:   round(float64(km) / 42 * 60),
		IdleMin:    round(float64(v.IdleMin) * (0.6 + float64(m)*0.18)),
	}
}

// Fuel derives consumption of v over periodDays
func Fuel(v models.Vehicle, periodDays int) models.FuelRow {
	km := periodDistance(v, periodDays)
	liters := max(5, round(float64(v.FuelTodayL)*(0.8+float64(periodDays)*0.2)))
	var l100 float64
	if km > 0 {
		l100 = math.Round(float64(liters)/float64(km)*100*10) / 10
	}
	return models.FuelRow{
		Plate:        v.Plate,
		Fleet:        v.Fleet,
		DistanceKm:   km,
		FuelL:        liters,
		AvgLPer100Km: l100,
	}
}

// Idle derives idle time of v over periodDays
func Idle(v models.Vehicle, periodDays int) models.IdleRow {
	h := Hash(Key(v.ID, KindIdle, periodDays, 0))
	idle := round(float64(v.IdleMin) * (0.8 + float64(periodDays)*0.25))
	return models.IdleRow{
		Plate:         v.Plate,
		Fleet:         v.Fleet,
		IdleMin:       idle,
		IdleEvents:    mod(h, 8),
		EstFuelWasteL: max(1, round(float64(idle)/30)),
	}
}

// Maintenance derives the distance to the next service of v
func Maintenance(v models.Vehicle) models.MaintenanceRow {
	h := Hash(Key(v.ID, KindMaintenance, 0, 0))
	km := Clamp(1200+mod(h, 9800)-round(float64(v.DistanceTodayKm)*6), -900, 15000)

	priority := models.PriorityOK
	switch {
	case km < 0:
		priority = models.PriorityOverdue
	case km < 800:
		priority = models.PriorityUrgent
	case km < 2500:
		priority = models.PriorityAttention
	}

	return models.MaintenanceRow{
		Plate:         v.Plate,
		Fleet:         v.Fleet,
		NextServiceKm: km,
		Priority:      priority,
	}
}

// Behavior scores the driving of v over periodDays
func Behavior(v models.Vehicle, periodDays int) models.BehaviorRow {
	h := Hash(Key(v.ID, KindBehavior, periodDays, 0))
	brake, accel, turn := mod(h, 9), mod(h, 7), mod(h, 6)
	return models.BehaviorRow{
		Plate:       v.Plate,
		Fleet:       v.Fleet,
		HarshBrake:  brake,
		HarshAccel:  accel,
		SharpTurn:   turn,
		SafetyScore: Clamp(92-(brake*3+accel*2+turn*2), 40, 99),
	}
}

// when places row idx within the period: the label "D-<day> hh:mm" and an
// ordinal that grows with recency
func when(h uint32, periodDays, idx int) (string, int) {
	p := period(periodDays)
	day := idx%p + 1
	hh, mm := mod(h, 24), mod(h, 60)
	return fmt.Sprintf("D-%d %02d:%02d", day, hh, mm), (p-day)*1440 + hh*60 + mm
}

// Speeding derives speeding event idx. Events cycle through vehicles; the
// excess is measured against limitKmh.
func Speeding(vehicles []models.Vehicle, periodDays, idx, limitKmh int) models.SpeedingRow {
	v := vehicles[idx%len(vehicles)]
	h := Hash(Key(v.ID, KindSpeeding, periodDays, idx))
	peak := Clamp(74+mod(h, 48), 70, 140)
	label, stamp := when(h, periodDays, idx)
	return models.SpeedingRow{
		Plate:     v.Plate,
		Fleet:     v.Fleet,
		When:      label,
		Stamp:     stamp,
		SpeedKmh:  peak,
		LimitKmh:  limitKmh,
		ExcessKmh: peak - limitKmh,
	}
}

// Geofence derives geofence crossing idx
func Geofence(vehicles []models.Vehicle, periodDays, idx int) models.GeofenceRow {
	v := vehicles[idx%len(vehicles)]
	h := Hash(Key(v.ID, KindGeofence, periodDays, idx))
	label, stamp := when(h, periodDays, idx)
	sel := int((uint64(h) + uint64(idx)) % uint64(len(Geofences)))
	event := EventExit
	if (uint64(h)+uint64(idx))%2 == 1 {
		event = EventEnter
	}
	return models.GeofenceRow{
		Plate:    v.Plate,
		Fleet:    v.Fleet,
		When:     label,
		Stamp:    stamp,
		Geofence: Geofences[sel],
		Event:    event,
	}
}

// Position derives GPS fix idx
func Position(vehicles []models.Vehicle, periodDays, idx int) models.PositionRow {
	v := vehicles[idx%len(vehicles)]
	h := Hash(Key(v.ID, KindPositions, periodDays, idx))
	label, stamp := when(h, periodDays, idx)
	return models.PositionRow{
		When:     label,
		Stamp:    stamp,
		Plate:    v.Plate,
		Fleet:    v.Fleet,
		Lat:      math.Round((-23.55+float64(mod(h, 2000))/10000)*1e5) / 1e5,
		Lng:      math.Round((-46.63+float64(mod(h>>11, 2000))/10000)*1e5) / 1e5,
		SpeedKmh: Clamp(5+mod(h, 110), 0, 120),
	}
}

// SpeedingUniverse is the uncapped number of speeding events
func SpeedingUniverse(vehicles, periodDays int) int {
	return vehicles * max(10, periodDays*10)
}

// GeofenceUniverse is the uncapped number of geofence crossings
func GeofenceUniverse(vehicles, periodDays int) int {
	return vehicles * max(10, periodDays*8)
}

// PositionUniverse is the uncapped number of GPS fixes
func PositionUniverse(vehicles, periodDays int) int {
	return vehicles * max(200, periodDays*250)
}

// Capped bounds a universe size by limit
func Capped(size, limit int) int {
	return max(0, min(size, limit))
}
