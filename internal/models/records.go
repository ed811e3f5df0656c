package models

import "fmt"

// Field is one named value of an exported row
type Field struct {
	Key   string
	Value any
}

// Record is a uniformly shaped row that can be rendered and exported.
// Fields must always return the same keys in the same order for a type.
type Record interface {
	Fields() []Field
}

// FormatMinutes renders a duration the way the dashboard shows it
func FormatMinutes(min int) string {
	if min < 60 {
		return fmt.Sprintf("%d min", min)
	}
	return fmt.Sprintf("%dh %dm", min/60, min%60)
}

// Fields exports the columns of the vehicles list
func (v Vehicle) Fields() []Field {
	return []Field{
		{"plate", v.Plate},
		{"fleet", v.Fleet},
		{"group", v.Group},
		{"driver", v.Driver},
		{"status", v.State},
		{"speedKmh", v.SpeedKmh},
		{"lastSignalSec", v.LastSignalSec},
	}
}

// TelemetryRow is the current telemetry snapshot of a vehicle
type TelemetryRow struct {
	Plate         string  `json:"plate"`
	Fleet         string  `json:"fleet"`
	Group         string  `json:"group"`
	Status        string  `json:"status"`
	Ignition      string  `json:"ignition"`
	SpeedKmh      int     `json:"speedKmh"`
	RPM           int     `json:"rpm"`
	FuelPct       int     `json:"fuelPct"`
	CoolantC      int     `json:"coolantC"`
	BatteryV      float64 `json:"batteryV"`
	OdometerKm    int     `json:"odometerKm"`
	GPSFix        string  `json:"gpsFix"`
	LastSignalSec int     `json:"lastSignalSec"`
}

func (r TelemetryRow) Fields() []Field {
	return []Field{
		{"plate", r.Plate},
		{"fleet", r.Fleet},
		{"group", r.Group},
		{"status", r.Status},
		{"ignition", r.Ignition},
		{"speedKmh", r.SpeedKmh},
		{"rpm", r.RPM},
		{"fuelPct", r.FuelPct},
		{"coolantC", r.CoolantC},
		{"batteryV", fmt.Sprintf("%.1f", r.BatteryV)},
		{"odometerKm", r.OdometerKm},
		{"gpsFix", r.GPSFix},
		{"lastSignalSec", r.LastSignalSec},
	}
}

// TripRow summarizes trips of a vehicle over the period
type TripRow struct {
	Plate      string `json:"plate"`
	Fleet      string `json:"fleet"`
	Trips      int    `json:"trips"`
	DistanceKm int    `json:"distanceKm"`
	DriveMin   int    `json:"driveMin"`
	IdleMin    int    `json:"idleMin"`
}

func (r TripRow) Fields() []Field {
	return []Field{
		{"plate", r.Plate},
		{"fleet", r.Fleet},
		{"trips", r.Trips},
		{"distanceKm", r.DistanceKm},
		{"driveTime", FormatMinutes(r.DriveMin)},
		{"idleTime", FormatMinutes(r.IdleMin)},
	}
}

// SpeedingRow is one speeding occurrence
type SpeedingRow struct {
	Plate     string `json:"plate"`
	Fleet     string `json:"fleet"`
	When      string `json:"when"`
	Stamp     int    `json:"-"` // minutes since the start of the period
	SpeedKmh  int    `json:"speedKmh"`
	LimitKmh  int    `json:"limitKmh"`
	ExcessKmh int    `json:"excessKmh"`
}

func (r SpeedingRow) Fields() []Field {
	return []Field{
		{"plate", r.Plate},
		{"fleet", r.Fleet},
		{"when", r.When},
		{"speedKmh", r.SpeedKmh},
		{"limitKmh", r.LimitKmh},
		{"excessKmh", r.ExcessKmh},
	}
}

// FuelRow is the fuel consumption of a vehicle over the period
type FuelRow struct {
	Plate        string  `json:"plate"`
	Fleet        string  `json:"fleet"`
	DistanceKm   int     `json:"distanceKm"`
	FuelL        int     `json:"fuelL"`
	AvgLPer100Km float64 `json:"avgLPer100Km"`
}

func (r FuelRow) Fields() []Field {
	return []Field{
		{"plate", r.Plate},
		{"fleet", r.Fleet},
		{"distanceKm", r.DistanceKm},
		{"fuelL", r.FuelL},
		{"avgLPer100Km", fmt.Sprintf("%.1f", r.AvgLPer100Km)},
	}
}

// IdleRow is the idle time of a vehicle over the period
type IdleRow struct {
	Plate         string `json:"plate"`
	Fleet         string `json:"fleet"`
	IdleMin       int    `json:"idleMin"`
	IdleEvents    int    `json:"idleEvents"`
	EstFuelWasteL int    `json:"estFuelWasteL"`
}

func (r IdleRow) Fields() []Field {
	return []Field{
		{"plate", r.Plate},
		{"fleet", r.Fleet},
		{"idleTime", FormatMinutes(r.IdleMin)},
		{"idleEvents", r.IdleEvents},
		{"estFuelWasteL", r.EstFuelWasteL},
	}
}

// Maintenance priorities, most urgent first
const (
	PriorityOverdue   = "Vencido"
	PriorityUrgent    = "Urgente"
	PriorityAttention = "Atenção"
	PriorityOK        = "OK"
)

// PriorityRank orders priorities from most to least urgent
func PriorityRank(p string) int {
	switch p {
	case PriorityOverdue:
		return 0
	case PriorityUrgent:
		return 1
	case PriorityAttention:
		return 2
	}
	return 3
}

// MaintenanceRow is the preventive maintenance outlook of a vehicle
type MaintenanceRow struct {
	Plate         string `json:"plate"`
	Fleet         string `json:"fleet"`
	NextServiceKm int    `json:"nextServiceKm"`
	Priority      string `json:"priority"`
}

func (r MaintenanceRow) Fields() []Field {
	return []Field{
		{"plate", r.Plate},
		{"fleet", r.Fleet},
		{"nextServiceKm", r.NextServiceKm},
		{"priority", r.Priority},
	}
}

// GeofenceRow is one geofence crossing
type GeofenceRow struct {
	Plate    string `json:"plate"`
	Fleet    string `json:"fleet"`
	When     string `json:"when"`
	Stamp    int    `json:"-"`
	Geofence string `json:"geofence"`
	Event    string `json:"event"`
}

func (r GeofenceRow) Fields() []Field {
	return []Field{
		{"plate", r.Plate},
		{"fleet", r.Fleet},
		{"when", r.When},
		{"geofence", r.Geofence},
		{"event", r.Event},
	}
}

// BehaviorRow scores the driving of a vehicle over the period
type BehaviorRow struct {
	Plate       string `json:"plate"`
	Fleet       string `json:"fleet"`
	HarshBrake  int    `json:"harshBrake"`
	HarshAccel  int    `json:"harshAccel"`
	SharpTurn   int    `json:"sharpTurn"`
	SafetyScore int    `json:"safetyScore"`
}

func (r BehaviorRow) Fields() []Field {
	return []Field{
		{"plate", r.Plate},
		{"fleet", r.Fleet},
		{"harshBrake", r.HarshBrake},
		{"harshAccel", r.HarshAccel},
		{"sharpTurn", r.SharpTurn},
		{"safetyScore", r.SafetyScore},
	}
}

// PositionRow is one GPS fix
type PositionRow struct {
	When     string  `json:"when"`
	Stamp    int     `json:"-"`
	Plate    string  `json:"plate"`
	Fleet    string  `json:"fleet"`
	Lat      float64 `json:"lat"`
	Lng      float64 `json:"lng"`
	SpeedKmh int     `json:"speedKmh"`
}

func (r PositionRow) Fields() []Field {
	return []Field{
		{"when", r.When},
		{"plate", r.Plate},
		{"fleet", r.Fleet},
		{"lat", fmt.Sprintf("%.5f", r.Lat)},
		{"lng", fmt.Sprintf("%.5f", r.Lng)},
		{"speedKmh", r.SpeedKmh},
	}
}
