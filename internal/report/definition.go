package report

import (
	"context"
	"runtime"
	"strings"
	"time"

	"fleet-dashboard/internal/models"
	"fleet-dashboard/internal/synth"
	"fleet-dashboard/internal/table"
)

// yieldEvery is the number of generated rows between cooperative yields
const yieldEvery = 800

// universe sizes the row set of a scope and returns its generator.
// Generators are only called with indexes below the returned size.
type universe[R any] func(vehicles []models.Vehicle, periodDays int, filters models.Filters) (int, func(int) R)

// definition implements Report over a concrete row type
type definition[R models.Record] struct {
	meta        Meta
	latency     time.Duration
	columns     []table.Column[R]
	filters     []filter[R]
	search      func(R) []string
	defaultSort models.Sort
	universe    universe[R]
	catalog     *Catalog
}

func (d *definition[R]) Meta() Meta {
	return d.meta
}

func (d *definition[R]) Columns() []table.Column[models.Record] {
	out := make([]table.Column[models.Record], 0, len(d.columns))
	for _, c := range d.columns {
		col := table.Column[models.Record]{ID: c.ID, Header: c.Header, Sortable: c.Sortable || c.SortKey != nil}
		if render := c.Render; render != nil {
			col.Render = func(r models.Record) string { return render(r.(R)) }
		}
		if key := c.SortKey; key != nil {
			col.SortKey = func(r models.Record) any { return key(r.(R)) }
		}
		out = append(out, col)
	}
	return out
}

func (d *definition[R]) Filters() []FilterField {
	out := make([]FilterField, 0, len(d.filters))
	for _, f := range d.filters {
		out = append(out, f.FilterField)
	}
	return out
}

func (d *definition[R]) DefaultFilters() models.Filters {
	out := make(models.Filters, len(d.filters))
	for _, f := range d.filters {
		out[f.ID] = f.Default
	}
	return out
}

func (d *definition[R]) DefaultSort() models.Sort {
	return d.defaultSort
}

func (d *definition[R]) EstimateTotal(scope models.Scope) int {
	n, _ := d.universe(d.catalog.Scoped(scope.FleetID), periodOf(scope), d.DefaultFilters())
	return synth.Capped(n, d.meta.Cap)
}

func (d *definition[R]) FetchPage(ctx context.Context, req models.PageRequest) (models.PageResult, error) {
	if err := d.wait(ctx); err != nil {
		return models.PageResult{}, err
	}

	rows, err := d.collect(ctx, req.Search, req.Sort, req.Filters, req.Scope)
	if err != nil {
		return models.PageResult{}, err
	}

	size := req.PageSize
	if size <= 0 {
		size = DefaultPageSize
	}
	page := table.ClampPage(req.Page, table.PageCount(len(rows), size))

	return models.PageResult{
		Rows:  records(table.Slice(rows, page, size)),
		Total: len(rows),
		Page:  page,
	}, nil
}

func (d *definition[R]) ExportAll(ctx context.Context, req models.ExportRequest) ([]models.Record, error) {
	rows, err := d.collect(ctx, req.Search, req.Sort, req.Filters, req.Scope)
	if err != nil {
		return nil, err
	}
	return records(rows), nil
}

// wait simulates backend latency
func (d *definition[R]) wait(ctx context.Context) error {
	if d.latency <= 0 || !d.catalog.opts.SimulateLatency {
		return ctx.Err()
	}
	t := time.NewTimer(d.latency)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// collect generates the capped universe, keeps the rows matching filters
// and search, and sorts them
func (d *definition[R]) collect(ctx context.Context, search string, sort models.Sort, filters models.Filters, scope models.Scope) ([]R, error) {
	n, gen := d.universe(d.catalog.Scoped(scope.FleetID), periodOf(scope), filters)
	n = synth.Capped(n, d.meta.Cap)
	term := strings.ToLower(strings.TrimSpace(search))

	out := make([]R, 0, min(n, 1024))
	for i := 0; i < n; i++ {
		if i > 0 && i%yieldEvery == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			runtime.Gosched()
		}
		r := gen(i)
		if d.match(r, filters, term) {
			out = append(out, r)
		}
	}

	sort = sort.Normalize()
	for _, c := range d.columns {
		if c.ID == sort.ColumnID && c.SortKey != nil {
			return table.SortStable(out, c.SortKey, sort.Dir), nil
		}
	}
	return out, nil
}

func (d *definition[R]) match(r R, filters models.Filters, term string) bool {
	for _, f := range d.filters {
		if !f.match(r, filters[f.ID]) {
			return false
		}
	}
	return matchSearch(term, d.search(r))
}

func periodOf(scope models.Scope) int {
	if scope.PeriodDays <= 0 {
		return DefaultPeriodDays
	}
	return min(scope.PeriodDays, MaxPeriodDays)
}

func records[R models.Record](rows []R) []models.Record {
	out := make([]models.Record, len(rows))
	for i, r := range rows {
		out[i] = r
	}
	return out
}

// perVehicle is the universe of reports with one row per scoped vehicle
func perVehicle[R any](derive func(models.Vehicle, int) R) universe[R] {
	return func(vehicles []models.Vehicle, periodDays int, _ models.Filters) (int, func(int) R) {
		return len(vehicles), func(i int) R { return derive(vehicles[i], periodDays) }
	}
}

// timeSeries is the universe of event reports cycling through the scoped
// vehicles. An empty scope has no events.
func timeSeries[R any](size func(vehicles, periodDays int) int, derive func([]models.Vehicle, int, int) R) universe[R] {
	return func(vehicles []models.Vehicle, periodDays int, _ models.Filters) (int, func(int) R) {
		if len(vehicles) == 0 {
			return 0, nil
		}
		return size(len(vehicles), periodDays), func(i int) R { return derive(vehicles, periodDays, i) }
	}
}
