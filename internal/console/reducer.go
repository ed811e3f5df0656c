package console

import (
	"errors"
	"fmt"
	"strings"

	"fleet-dashboard/internal/models"
	"fleet-dashboard/internal/report"
	"fleet-dashboard/internal/table"
)

var (
	ErrUnknownCategory = errors.New("unknown category")
	ErrNoActiveReport  = errors.New("no active report")
	ErrUnknownFilter   = errors.New("unknown filter")
	// ErrStaleCompletion marks a completion superseded by a newer fetch
	ErrStaleCompletion = errors.New("stale fetch completion")
	ErrUnknownAction   = errors.New("unknown action")
)

// Catalog is what the reducer needs from the report catalog
type Catalog interface {
	Get(id string) (report.Report, error)
	HasCategory(name string) bool
}

// Reducer advances sessions. It holds no state besides the catalog it
// validates against, so Reduce is a pure function of its arguments.
type Reducer struct {
	catalog  Catalog
	pageSize int
}

// NewReducer returns a reducer over catalog. pageSize is the initial page
// size of every report slot.
func NewReducer(catalog Catalog, pageSize int) *Reducer {
	if pageSize <= 0 {
		pageSize = report.DefaultPageSize
	}
	return &Reducer{catalog: catalog, pageSize: pageSize}
}

// Reduce applies a to s. A non-nil Fetch must be issued and its outcome fed
// back as FetchCompleted. On error s is returned unchanged.
func (m *Reducer) Reduce(s Session, a Action) (Session, *Fetch, error) {
	switch a := a.(type) {
	case SelectCategory:
		return m.selectCategory(s, a)
	case SelectReport:
		return m.selectReport(s, a)
	case ChangeScope:
		if a.Scope.PeriodDays <= 0 {
			a.Scope.PeriodDays = report.DefaultPeriodDays
		}
		s.DraftScope = a.Scope
		return s, nil, nil
	case ChangeFilter:
		return m.changeFilter(s, a)
	case ApplyFilters:
		committed := s
		committed.Scope = s.DraftScope
		next, f, err := m.update(committed, func(_ report.Report, st ReportState) (ReportState, bool) {
			st.Filters = st.Draft.Clone()
			st.Applied = true
			st.Page = 1
			return st, true
		})
		if err != nil {
			return s, nil, err
		}
		return next, f, nil
	case ResetFilters:
		return m.update(s, func(r report.Report, st ReportState) (ReportState, bool) {
			st.Draft = r.DefaultFilters()
			if !st.Applied {
				return st, false
			}
			st.Filters = st.Draft.Clone()
			st.Page = 1
			return st, true
		})
	case ChangePage:
		return m.update(s, func(_ report.Report, st ReportState) (ReportState, bool) {
			st.Page = max(1, a.Page)
			if st.Applied && st.Total > 0 {
				st.Page = table.ClampPage(a.Page, table.PageCount(st.Total, st.PageSize))
			}
			return st, st.Applied
		})
	case ChangePageSize:
		return m.update(s, func(_ report.Report, st ReportState) (ReportState, bool) {
			if a.PageSize > 0 {
				st.PageSize = a.PageSize
			}
			st.Page = 1
			return st, st.Applied
		})
	case ChangeSearch:
		return m.update(s, func(_ report.Report, st ReportState) (ReportState, bool) {
			st.Search = a.Search
			st.Page = 1
			return st, st.Applied
		})
	case ChangeSort:
		return m.update(s, func(_ report.Report, st ReportState) (ReportState, bool) {
			st.Sort = a.Sort.Normalize()
			st.Page = 1
			return st, st.Applied
		})
	case Reload:
		return m.update(s, func(_ report.Report, st ReportState) (ReportState, bool) {
			return st, st.Applied
		})
	case FetchCompleted:
		return m.complete(s, a)
	}
	return s, nil, fmt.Errorf("%w: %T", ErrUnknownAction, a)
}

func (m *Reducer) selectCategory(s Session, a SelectCategory) (Session, *Fetch, error) {
	if !m.catalog.HasCategory(a.Category) {
		return s, nil, fmt.Errorf("%w: %q", ErrUnknownCategory, a.Category)
	}
	if st, ok := s.ActiveState(); ok {
		s = s.with(s.Active, st.clearLoaded())
	}
	s.Category = a.Category
	s.Active = ""
	return s, nil, nil
}

func (m *Reducer) selectReport(s Session, a SelectReport) (Session, *Fetch, error) {
	r, err := m.catalog.Get(a.ID)
	if err != nil {
		return s, nil, err
	}
	if prev, ok := s.ActiveState(); ok && s.Active != a.ID {
		s = s.with(s.Active, prev.clearLoaded())
	}

	st, ok := s.Report(a.ID)
	if !ok {
		st = ReportState{PageSize: m.pageSize, Sort: r.DefaultSort()}
	}
	st = st.clearLoaded()
	st.Page = 1
	st.Search = ""
	st.Draft = r.DefaultFilters()
	st.Filters = r.DefaultFilters()

	s.Category = r.Meta().Category
	s.Active = a.ID
	return s.with(a.ID, st), nil, nil
}

func (m *Reducer) changeFilter(s Session, a ChangeFilter) (Session, *Fetch, error) {
	return m.update(s, func(r report.Report, st ReportState) (ReportState, bool) {
		st.Draft = st.Draft.Clone()
		st.Draft[a.Field] = strings.TrimSpace(a.Value)
		return st, false
	}, func(r report.Report) error {
		for _, f := range r.Filters() {
			if f.ID == a.Field {
				return nil
			}
		}
		return fmt.Errorf("%w: %q on report %q", ErrUnknownFilter, a.Field, r.Meta().ID)
	})
}

// update applies fn to the active slot. When fn reports true a fetch is
// issued with the resulting state.
func (m *Reducer) update(s Session, fn func(report.Report, ReportState) (ReportState, bool), checks ...func(report.Report) error) (Session, *Fetch, error) {
	st, ok := s.ActiveState()
	if !ok {
		return s, nil, ErrNoActiveReport
	}
	r, err := m.catalog.Get(s.Active)
	if err != nil {
		return s, nil, err
	}
	for _, check := range checks {
		if err := check(r); err != nil {
			return s, nil, err
		}
	}

	st, fetch := fn(r, st)
	if fetch {
		return m.issue(s, s.Active, st)
	}
	return s.with(s.Active, st), nil, nil
}

// issue bumps the sequence of id and describes the fetch of its current state
func (m *Reducer) issue(s Session, id string, st ReportState) (Session, *Fetch, error) {
	st.Seq++
	st.Loading = true
	f := &Fetch{
		ReportID: id,
		Seq:      st.Seq,
		Request: models.PageRequest{
			Page:     st.Page,
			PageSize: st.PageSize,
			Search:   st.Search,
			Sort:     st.Sort,
			Filters:  st.Filters.Clone(),
			Scope:    s.Scope,
		},
	}
	return s.with(id, st), f, nil
}

func (m *Reducer) complete(s Session, a FetchCompleted) (Session, *Fetch, error) {
	st, ok := s.Report(a.ReportID)
	if !ok || st.Seq != a.Seq || !st.Loading {
		return s, nil, fmt.Errorf("%w: report %q seq %d", ErrStaleCompletion, a.ReportID, a.Seq)
	}

	st.Loading = false
	if a.Err != nil {
		st.Rows = []models.Record{}
		st.Total = 0
		st.Failed = true
		return s.with(a.ReportID, st), nil, nil
	}

	st.Rows = a.Result.Rows
	if st.Rows == nil {
		st.Rows = []models.Record{}
	}
	st.Total = a.Result.Total
	if a.Result.Page > 0 {
		st.Page = a.Result.Page
	}
	st.Failed = false
	return s.with(a.ReportID, st), nil, nil
}
