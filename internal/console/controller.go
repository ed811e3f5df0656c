package console

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"fleet-dashboard/internal/logger"
	"fleet-dashboard/internal/metrics"
	"fleet-dashboard/internal/models"
	"fleet-dashboard/internal/report"
	"fleet-dashboard/internal/table"
)

// ErrUnsortableColumn is returned when a header click cannot change the sort
var ErrUnsortableColumn = errors.New("column is not sortable")

// Config holds the console defaults
type Config struct {
	PageSize        int
	PageSizeOptions []int
	Scope           models.Scope
}

// Controller owns the console session of one process. Transitions are
// serialized; fetches run outside the lock and their completions go back
// through the reducer, which discards the stale ones.
type Controller struct {
	mu      sync.Mutex
	session Session
	reducer *Reducer
	catalog Catalog
	sizes   []int
	log     zerolog.Logger
}

// NewController creates a controller with a fresh session
func NewController(catalog Catalog, cfg Config) *Controller {
	if cfg.Scope.PeriodDays <= 0 {
		cfg.Scope.PeriodDays = report.DefaultPeriodDays
	}
	return &Controller{
		session: NewSession(cfg.Scope),
		reducer: NewReducer(catalog, cfg.PageSize),
		catalog: catalog,
		sizes:   cfg.PageSizeOptions,
		log:     logger.WithComponent("console"),
	}
}

// Session returns the current snapshot
func (c *Controller) Session() Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session
}

// Dispatch applies a and, when it issues a fetch, waits for the fetch and
// applies its completion. The returned session is the latest snapshot.
func (c *Controller) Dispatch(ctx context.Context, a Action) (Session, error) {
	c.mu.Lock()
	next, f, err := c.reducer.Reduce(c.session, a)
	if err != nil {
		cur := c.session
		c.mu.Unlock()
		c.log.Debug().Err(err).Str("action", a.Name()).Msg("transition rejected")
		return cur, err
	}
	c.session = next
	c.mu.Unlock()

	if f == nil {
		return next, nil
	}
	return c.run(ctx, *f), nil
}

func (c *Controller) run(ctx context.Context, f Fetch) Session {
	start := time.Now()
	res, err := c.fetch(ctx, f)
	metrics.RecordFetch(ctx, f.ReportID, time.Since(start), err)

	if err != nil {
		c.log.Warn().Err(err).Str("report", f.ReportID).Uint64("seq", f.Seq).Msg("fetch failed")
	} else {
		c.log.Debug().
			Str("report", f.ReportID).
			Uint64("seq", f.Seq).
			Int("page", res.Page).
			Int("rows", len(res.Rows)).
			Int("total", res.Total).
			Dur("took", time.Since(start)).
			Msg("fetch completed")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	next, _, cerr := c.reducer.Reduce(c.session, FetchCompleted{
		ReportID: f.ReportID,
		Seq:      f.Seq,
		Result:   res,
		Err:      err,
	})
	if cerr != nil {
		metrics.RecordStale(ctx, f.ReportID)
		c.log.Debug().Err(cerr).Msg("completion discarded")
		return c.session
	}
	c.session = next
	return next
}

// fetch runs one page request. Panics of a report are reported as errors
// so they degrade like any other failure.
func (c *Controller) fetch(ctx context.Context, f Fetch) (res models.PageResult, err error) {
	r, err := c.catalog.Get(f.ReportID)
	if err != nil {
		return models.PageResult{}, err
	}
	defer func() {
		if p := recover(); p != nil {
			res, err = models.PageResult{}, fmt.Errorf("report %s: fetch panicked: %v", f.ReportID, p)
		}
	}()
	return r.FetchPage(ctx, f.Request)
}

// View is the rendered console
type View struct {
	Category   string               `json:"category"`
	Report     *report.Meta         `json:"report,omitempty"`
	Filters    []report.FilterField `json:"filters,omitempty"`
	Draft      models.Filters       `json:"draft,omitempty"`
	Applied    bool                 `json:"applied"`
	Failed     bool                 `json:"failed"`
	DraftScope models.Scope         `json:"draft_scope"`
	Scope      models.Scope         `json:"scope"`
	Table      *table.View          `json:"table,omitempty"`
}

// View renders the session. The table is present once a report is selected.
func (c *Controller) View() (View, error) {
	s := c.Session()
	v := View{Category: s.Category, DraftScope: s.DraftScope, Scope: s.Scope}

	st, ok := s.ActiveState()
	if !ok {
		return v, nil
	}
	r, err := c.catalog.Get(s.Active)
	if err != nil {
		return v, err
	}

	meta := r.Meta()
	tv := c.engine(r, nil).Render(input(st))
	v.Report = &meta
	v.Filters = r.Filters()
	v.Draft = st.Draft
	v.Applied = st.Applied
	v.Failed = st.Failed
	v.Table = &tv
	return v, nil
}

// ClickHeader toggles the sort of the active report on column id
func (c *Controller) ClickHeader(ctx context.Context, id string) (Session, error) {
	return c.interact(ctx, func(e *table.Engine[models.Record]) error {
		if !e.ClickHeader(id) {
			return fmt.Errorf("%w: %q", ErrUnsortableColumn, id)
		}
		return nil
	})
}

// NextPage moves the active report one page forward
func (c *Controller) NextPage(ctx context.Context) (Session, error) {
	return c.interact(ctx, func(e *table.Engine[models.Record]) error {
		e.NextPage()
		return nil
	})
}

// PrevPage moves the active report one page back
func (c *Controller) PrevPage(ctx context.Context) (Session, error) {
	return c.interact(ctx, func(e *table.Engine[models.Record]) error {
		e.PrevPage()
		return nil
	})
}

// interact renders the active report through the table engine, lets fn
// drive it and dispatches the intent the engine emitted, if any
func (c *Controller) interact(ctx context.Context, fn func(*table.Engine[models.Record]) error) (Session, error) {
	s := c.Session()
	st, ok := s.ActiveState()
	if !ok {
		return s, ErrNoActiveReport
	}
	r, err := c.catalog.Get(s.Active)
	if err != nil {
		return s, err
	}

	var intent Action
	e := c.engine(r, func(a Action) { intent = a })
	e.Render(input(st))
	if err := fn(e); err != nil {
		return s, err
	}
	if intent == nil {
		return s, nil
	}
	return c.Dispatch(ctx, intent)
}

func (c *Controller) engine(r report.Report, emit func(Action)) *table.Engine[models.Record] {
	if emit == nil {
		emit = func(Action) {}
	}
	return table.New(table.Options[models.Record]{
		Columns:         r.Columns(),
		Mode:            table.ServerMode,
		PageSizeOptions: c.sizes,
		Handlers: table.Handlers{
			OnPageChange:     func(p int) { emit(ChangePage{Page: p}) },
			OnPageSizeChange: func(n int) { emit(ChangePageSize{PageSize: n}) },
			OnSearchChange:   func(q string) { emit(ChangeSearch{Search: q}) },
			OnSortChange:     func(s models.Sort) { emit(ChangeSort{Sort: s}) },
		},
	})
}

func input(st ReportState) table.Input[models.Record] {
	return table.Input[models.Record]{
		Rows:    st.Rows,
		Total:   st.Total,
		Loading: st.Loading,
		State: table.State{
			Page:     st.Page,
			PageSize: st.PageSize,
			Search:   st.Search,
			Sort:     st.Sort,
		},
	}
}

// Export returns every row of the active report matching its applied
// filters and current search
func (c *Controller) Export(ctx context.Context) (report.Meta, []models.Record, error) {
	s := c.Session()
	st, ok := s.ActiveState()
	if !ok {
		return report.Meta{}, nil, ErrNoActiveReport
	}
	r, err := c.catalog.Get(s.Active)
	if err != nil {
		return report.Meta{}, nil, err
	}

	rows, err := r.ExportAll(ctx, models.ExportRequest{
		Search:  st.Search,
		Sort:    st.Sort,
		Filters: st.Filters,
		Scope:   s.Scope,
	})
	if err != nil {
		return r.Meta(), nil, fmt.Errorf("export %s: %w", s.Active, err)
	}
	c.log.Info().Str("report", s.Active).Int("rows", len(rows)).Msg("report exported")
	return r.Meta(), rows, nil
}
