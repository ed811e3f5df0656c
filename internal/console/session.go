// Package console drives the report console: category, then report, then
// filters and apply. State lives in an immutable Session advanced by a pure
// reducer; the Controller runs the fetches the reducer asks for.
package console

import (
	"maps"

	"fleet-dashboard/internal/models"
)

// ReportState is the slot owned by one report
type ReportState struct {
	Page     int         `json:"page"`
	PageSize int         `json:"page_size"`
	Search   string      `json:"search"`
	Sort     models.Sort `json:"sort"`
	// Draft is edited by the user; Filters is what the last apply committed
	Draft   models.Filters  `json:"draft"`
	Filters models.Filters  `json:"filters"`
	Applied bool            `json:"applied"`
	Rows    []models.Record `json:"rows"`
	Total   int             `json:"total"`
	Loading bool            `json:"loading"`
	Failed  bool            `json:"failed"`
	// Seq is the sequence number of the latest fetch issued for the report
	Seq uint64 `json:"seq"`
}

// clearLoaded drops rows and invalidates any fetch in flight
func (s ReportState) clearLoaded() ReportState {
	s.Rows = nil
	s.Total = 0
	s.Loading = false
	s.Failed = false
	s.Applied = false
	s.Seq++
	return s
}

// Session is one console snapshot. Reducers never modify a Session in
// place; they return a new one.
type Session struct {
	Category   string                 `json:"category"`
	Active     string                 `json:"active"`
	DraftScope models.Scope           `json:"draft_scope"`
	Scope      models.Scope           `json:"scope"`
	Reports    map[string]ReportState `json:"reports"`
}

// NewSession returns the session before any category is chosen
func NewSession(scope models.Scope) Session {
	return Session{
		DraftScope: scope,
		Scope:      scope,
		Reports:    make(map[string]ReportState),
	}
}

// Report returns the slot of id
func (s Session) Report(id string) (ReportState, bool) {
	st, ok := s.Reports[id]
	return st, ok
}

// ActiveState returns the slot of the active report
func (s Session) ActiveState() (ReportState, bool) {
	if s.Active == "" {
		return ReportState{}, false
	}
	return s.Report(s.Active)
}

// with returns a copy of s where the slot of id is st
func (s Session) with(id string, st ReportState) Session {
	reports := maps.Clone(s.Reports)
	if reports == nil {
		reports = make(map[string]ReportState)
	}
	reports[id] = st
	s.Reports = reports
	return s
}
