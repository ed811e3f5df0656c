package models

import (
	"sort"
	"strings"
)

// SortDir is the direction of a column sort
type SortDir string

const (
	Asc  SortDir = "asc"
	Desc SortDir = "desc"
)

// Sort identifies the active sort column; an empty ColumnID means unsorted
type Sort struct {
	ColumnID string  `json:"col_id"`
	Dir      SortDir `json:"dir"`
}

// Normalize maps unknown directions to ascending. Without a column the
// direction is always ascending.
func (s Sort) Normalize() Sort {
	if s.ColumnID == "" {
		return Sort{Dir: Asc}
	}
	if s.Dir != Desc {
		s.Dir = Asc
	}
	return s
}

// ParseSort reads "column" or "column:desc"
func ParseSort(s string) Sort {
	s = strings.TrimSpace(s)
	if s == "" {
		return Sort{Dir: Asc}
	}
	col, dir, _ := strings.Cut(s, ":")
	return Sort{ColumnID: col, Dir: SortDir(strings.ToLower(dir))}.Normalize()
}

// Scope is the (fleet, period) pair that parameterizes a report universe
type Scope struct {
	FleetID    string `json:"fleet_id"`
	PeriodDays int    `json:"period_days"`
}

// PeriodOptions lists the periods offered by the report filters
var PeriodOptions = []int{1, 7, 15, 30}

// Filters maps filter field ids to raw user input
type Filters map[string]string

// Clone returns an independent copy
func (f Filters) Clone() Filters {
	out := make(Filters, len(f))
	for k, v := range f {
		out[k] = v
	}
	return out
}

// Keys returns the field ids in sorted order
func (f Filters) Keys() []string {
	keys := make([]string, 0, len(f))
	for k := range f {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// PageRequest carries everything a report needs to produce one page
type PageRequest struct {
	Page     int     `json:"page"`
	PageSize int     `json:"page_size"`
	Search   string  `json:"search"`
	Sort     Sort    `json:"sort"`
	Filters  Filters `json:"filters"`
	Scope    Scope   `json:"scope"`
}

// PageResult is one page of a report plus the total of matching rows
type PageResult struct {
	Rows  []Record `json:"rows"`
	Total int      `json:"total"`
	Page  int      `json:"page"` // effective page after clamping
}

// ExportRequest selects the rows written by a bounded export
type ExportRequest struct {
	Search  string  `json:"search"`
	Sort    Sort    `json:"sort"`
	Filters Filters `json:"filters"`
	Scope   Scope   `json:"scope"`
}

// Preferences is the cosmetic UI state persisted between sessions
type Preferences struct {
	Theme       string `json:"theme"`
	UI          string `json:"ui"`
	Density     string `json:"density"`
	AutoRefresh string `json:"auto_refresh"`
}

// DefaultPreferences is used whenever nothing is stored or the store fails
func DefaultPreferences() Preferences {
	return Preferences{
		Theme:       "aurora",
		UI:          "fluid",
		Density:     "comfortable",
		AutoRefresh: "on",
	}
}

// Preference keys as stored
const (
	PrefTheme       = "theme"
	PrefUI          = "ui"
	PrefDensity     = "density"
	PrefAutoRefresh = "auto_refresh"
)

// With returns p with key set to value. Unknown keys and empty values are
// ignored.
func (p Preferences) With(key, value string) Preferences {
	value = strings.TrimSpace(value)
	if value == "" {
		return p
	}
	switch key {
	case PrefTheme:
		p.Theme = value
	case PrefUI:
		p.UI = value
	case PrefDensity:
		p.Density = value
	case PrefAutoRefresh:
		p.AutoRefresh = value
	}
	return p
}

// Values returns the preferences keyed as stored
func (p Preferences) Values() map[string]string {
	return map[string]string{
		PrefTheme:       p.Theme,
		PrefUI:          p.UI,
		PrefDensity:     p.Density,
		PrefAutoRefresh: p.AutoRefresh,
	}
}
