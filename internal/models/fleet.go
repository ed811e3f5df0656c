package models

import "strings"

// VehicleStatus is the coarse health classification shown as a badge
type VehicleStatus string

const (
	StatusOnline    VehicleStatus = "online"
	StatusAttention VehicleStatus = "attention"
	StatusCritical  VehicleStatus = "critical"
)

// Valid reports whether s is one of the known statuses
func (s VehicleStatus) Valid() bool {
	switch s {
	case StatusOnline, StatusAttention, StatusCritical:
		return true
	}
	return false
}

// Vehicle represents a fleet vehicle as seeded for the session
type Vehicle struct {
	ID              string        `json:"id"`
	Plate           string        `json:"plate"`
	Kind            string        `json:"kind"`
	Group           string        `json:"group"`
	Fleet           string        `json:"fleet"`
	Driver          string        `json:"driver"`
	Status          VehicleStatus `json:"status"`
	State           string        `json:"state"`             // human label, e.g. "Em rota"
	SpeedKmh        int           `json:"speed_kmh"`         // km/h
	LastSignalSec   int           `json:"last_signal_sec"`   // seconds since last signal
	DistanceTodayKm int           `json:"distance_today_km"` // km
	FuelTodayL      int           `json:"fuel_today_l"`      // liters
	IdleMin         int           `json:"idle_min"`          // minutes
}

// SearchText is the haystack used by the vehicle list search box
func (v Vehicle) SearchText() string {
	return strings.Join([]string{v.Plate, v.Driver, v.Group, v.Kind, v.Fleet}, " ")
}

// Route is a planned trip assigned to a vehicle
type Route struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	VehicleID   string `json:"vehicle_id"`
	DurationMin int    `json:"duration_min"`
}

// Event is an alert or occurrence raised for a vehicle
type Event struct {
	ID         string `json:"id"`
	WhenMinAgo int    `json:"when_min_ago"`
	VehicleID  string `json:"vehicle_id"`
	Kind       string `json:"kind"`
	Severity   string `json:"severity"` // success, warning, danger
}

// Dataset is the read-only seed shared by every component
type Dataset struct {
	Vehicles []Vehicle `json:"vehicles"`
	Routes   []Route   `json:"routes"`
	Events   []Event   `json:"events"`
}

// VehicleByID returns the vehicle with the given id
func (d *Dataset) VehicleByID(id string) (Vehicle, bool) {
	for _, v := range d.Vehicles {
		if v.ID == id {
			return v, true
		}
	}
	return Vehicle{}, false
}

// VehicleFilter narrows the vehicle list on the overview and vehicles views
type VehicleFilter struct {
	Fleet  string
	Search string
}

// Apply returns the vehicles matching the filter, preserving order
func (f VehicleFilter) Apply(vehicles []Vehicle) []Vehicle {
	term := strings.ToLower(strings.TrimSpace(f.Search))
	out := make([]Vehicle, 0, len(vehicles))
	for _, v := range vehicles {
		if f.Fleet != "" && v.Fleet != f.Fleet {
			continue
		}
		if term != "" && !strings.Contains(strings.ToLower(v.SearchText()), term) {
			continue
		}
		out = append(out, v)
	}
	return out
}

// StatusCounts holds the badge counters
type StatusCounts struct {
	Online    int `json:"online"`
	Attention int `json:"attention"`
	Critical  int `json:"critical"`
}

// Overview provides the aggregated KPIs of the landing page
type Overview struct {
	Vehicles        int          `json:"vehicles"`
	TotalDistanceKm int          `json:"total_distance_km"`
	TotalFuelL      int          `json:"total_fuel_l"`
	TotalIdleMin    int          `json:"total_idle_min"`
	Alerts          int          `json:"alerts"`
	Status          StatusCounts `json:"status"`
}

// Summarize computes KPIs over the filtered vehicles. Status badges always
// count the whole fleet.
func Summarize(all, filtered []Vehicle) Overview {
	var o Overview
	for _, v := range all {
		switch v.Status {
		case StatusOnline:
			o.Status.Online++
		case StatusAttention:
			o.Status.Attention++
		case StatusCritical:
			o.Status.Critical++
		}
	}
	o.Vehicles = len(filtered)
	for _, v := range filtered {
		o.TotalDistanceKm += v.DistanceTodayKm
		o.TotalFuelL += v.FuelTodayL
		o.TotalIdleMin += v.IdleMin
		if v.Status == StatusCritical || v.Status == StatusAttention {
			o.Alerts++
		}
	}
	return o
}
