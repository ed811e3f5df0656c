package console

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fleet-dashboard/internal/models"
	"fleet-dashboard/internal/report"
	"fleet-dashboard/internal/table"
)

type fakeReport struct {
	fetch func(ctx context.Context, req models.PageRequest) (models.PageResult, error)
}

func (f *fakeReport) Meta() report.Meta {
	return report.Meta{ID: "fake", Title: "Fake", Category: "Testes", ExportFilename: "fake.csv", Cap: 100}
}

func (f *fakeReport) Columns() []table.Column[models.Record] {
	return []table.Column[models.Record]{
		{ID: "plate", Header: "Veículo", Sortable: true, Render: func(r models.Record) string { return r.(models.Vehicle).Plate }},
	}
}

func (f *fakeReport) Filters() []report.FilterField {
	return nil
}

func (f *fakeReport) DefaultFilters() models.Filters {
	return models.Filters{}
}

func (f *fakeReport) DefaultSort() models.Sort {
	return models.Sort{}
}

func (f *fakeReport) EstimateTotal(models.Scope) int {
	return 0
}

func (f *fakeReport) FetchPage(ctx context.Context, req models.PageRequest) (models.PageResult, error) {
	return f.fetch(ctx, req)
}

func (f *fakeReport) ExportAll(context.Context, models.ExportRequest) ([]models.Record, error) {
	return nil, nil
}

type fakeCatalog struct {
	r report.Report
}

func (c fakeCatalog) Get(id string) (report.Report, error) {
	if id != "fake" {
		return nil, report.ErrUnknownReport
	}
	return c.r, nil
}

func (c fakeCatalog) HasCategory(name string) bool {
	return name == "Testes"
}

func demoController() *Controller {
	catalog := report.NewCatalog(models.DemoDataset().Vehicles, report.Options{})
	return NewController(catalog, Config{PageSize: 10, Scope: models.Scope{PeriodDays: 7}})
}

func dispatch(t *testing.T, c *Controller, actions ...Action) Session {
	t.Helper()
	var s Session
	for _, a := range actions {
		var err error
		s, err = c.Dispatch(context.Background(), a)
		require.NoError(t, err, a.Name())
	}
	return s
}

func TestControllerAppliesFetchedPage(t *testing.T) {
	c := demoController()

	s := dispatch(t, c, SelectCategory{Category: report.CategoryCosts}, SelectReport{ID: "fuel"}, ApplyFilters{})

	st := s.Reports["fuel"]
	assert.Len(t, st.Rows, 6)
	assert.Equal(t, 6, st.Total)
	assert.False(t, st.Loading)
	assert.Equal(t, s, c.Session())
}

func TestControllerStaleResponseRejected(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	fake := &fakeReport{fetch: func(_ context.Context, req models.PageRequest) (models.PageResult, error) {
		if req.Page == 1 {
			close(started)
			<-release
			return page("A"), nil
		}
		return models.PageResult{Rows: []models.Record{models.Vehicle{Plate: "B"}}, Total: 20, Page: req.Page}, nil
	}}
	c := NewController(fakeCatalog{r: fake}, Config{PageSize: 10})
	dispatch(t, c, SelectReport{ID: "fake"})

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, _ = c.Dispatch(context.Background(), ApplyFilters{})
	}()
	<-started

	s := dispatch(t, c, ChangePage{Page: 2})
	require.Equal(t, []models.Record{models.Vehicle{Plate: "B"}}, s.Reports["fake"].Rows)

	close(release)
	wg.Wait()

	st := c.Session().Reports["fake"]
	assert.Equal(t, []models.Record{models.Vehicle{Plate: "B"}}, st.Rows)
	assert.Equal(t, 20, st.Total)
	assert.Equal(t, 2, st.Page)
	assert.False(t, st.Loading)
}

func TestControllerFetchFailures(t *testing.T) {
	for name, fetch := range map[string]func(context.Context, models.PageRequest) (models.PageResult, error){
		"error": func(context.Context, models.PageRequest) (models.PageResult, error) {
			return models.PageResult{}, fmt.Errorf("backend down")
		},
		"panic": func(context.Context, models.PageRequest) (models.PageResult, error) {
			panic("boom")
		},
	} {
		t.Run(name, func(t *testing.T) {
			c := NewController(fakeCatalog{r: &fakeReport{fetch: fetch}}, Config{})

			s := dispatch(t, c, SelectReport{ID: "fake"}, ApplyFilters{})

			st := s.Reports["fake"]
			assert.Empty(t, st.Rows)
			assert.Zero(t, st.Total)
			assert.False(t, st.Loading)
			assert.True(t, st.Failed)

			v, err := c.View()
			require.NoError(t, err)
			require.NotNil(t, v.Table)
			assert.True(t, v.Table.Empty)
			assert.Equal(t, "Sem dados", v.Table.Info)
		})
	}
}

func TestControllerSortToggle(t *testing.T) {
	c := demoController()
	dispatch(t, c, SelectReport{ID: "behavior"}, ApplyFilters{}, ChangeFilter{Field: "minScore", Value: ""}, ApplyFilters{})

	s, err := c.ClickHeader(context.Background(), "plate")
	require.NoError(t, err)
	asc := s.Reports["behavior"]
	assert.Equal(t, models.Sort{ColumnID: "plate", Dir: models.Asc}, asc.Sort)

	s, err = c.ClickHeader(context.Background(), "plate")
	require.NoError(t, err)
	assert.Equal(t, models.Desc, s.Reports["behavior"].Sort.Dir)
	assert.NotEqual(t, asc.Rows, s.Reports["behavior"].Rows)

	s, err = c.ClickHeader(context.Background(), "plate")
	require.NoError(t, err)
	assert.Equal(t, asc.Rows, s.Reports["behavior"].Rows)

	v, err := c.View()
	require.NoError(t, err)
	assert.Equal(t, table.AriaAscending, v.Table.Headers[0].AriaSort)
}

func TestControllerUnsortableColumn(t *testing.T) {
	c := demoController()
	dispatch(t, c, SelectReport{ID: "trips"}, ApplyFilters{})

	_, err := c.ClickHeader(context.Background(), "driveTime")
	assert.ErrorIs(t, err, ErrUnsortableColumn)

	c = demoController()
	_, err = c.ClickHeader(context.Background(), "plate")
	assert.ErrorIs(t, err, ErrNoActiveReport)
}

func TestControllerPaging(t *testing.T) {
	c := demoController()
	dispatch(t, c, SelectReport{ID: "speeding"}, ApplyFilters{})

	s, err := c.NextPage(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, s.Reports["speeding"].Page)

	s, err = c.PrevPage(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, s.Reports["speeding"].Page)

	// already on the first page: the engine clamps and re-requests page 1
	s, err = c.PrevPage(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, s.Reports["speeding"].Page)
}

func TestControllerViewBeforeSelection(t *testing.T) {
	c := demoController()
	dispatch(t, c, SelectCategory{Category: report.CategorySafety})

	v, err := c.View()

	require.NoError(t, err)
	assert.Equal(t, report.CategorySafety, v.Category)
	assert.Nil(t, v.Report)
	assert.Nil(t, v.Table)
}

func TestControllerExport(t *testing.T) {
	c := demoController()
	dispatch(t, c,
		SelectReport{ID: "telemetry"},
		ChangeScope{Scope: models.Scope{FleetID: "Operação RJ", PeriodDays: 7}},
		ApplyFilters{},
		ChangeSearch{Search: "qwe"},
	)

	meta, rows, err := c.Export(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "telemetria_atual.csv", meta.ExportFilename)
	require.Len(t, rows, 1)
	assert.Equal(t, "QWE-2020", rows[0].(models.TelemetryRow).Plate)

	_, _, err = demoController().Export(context.Background())
	assert.ErrorIs(t, err, ErrNoActiveReport)
}
