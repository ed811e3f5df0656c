package table

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fleet-dashboard/internal/models"
)

func vehicleColumns() []Column[models.Vehicle] {
	return []Column[models.Vehicle]{
		{ID: "plate", Header: "Veículo", Render: func(v models.Vehicle) string { return v.Plate }, SortKey: func(v models.Vehicle) any { return v.Plate }},
		{ID: "driver", Header: "Motorista", Render: func(v models.Vehicle) string { return v.Driver }},
		{ID: "speed", Header: "Veloc.", Render: func(v models.Vehicle) string { return strconv.Itoa(v.SpeedKmh) + " km/h" }, SortKey: func(v models.Vehicle) any { return v.SpeedKmh }},
	}
}

func newClient() *Engine[models.Vehicle] {
	return New(Options[models.Vehicle]{
		Columns:         vehicleColumns(),
		SearchText:      models.Vehicle.SearchText,
		InitialPageSize: 10,
	})
}

func column(v View, id string) []string {
	idx := -1
	for i, h := range v.Headers {
		if h.ID == id {
			idx = i
		}
	}
	out := make([]string, 0, len(v.Rows))
	for _, r := range v.Rows {
		out = append(out, r[idx])
	}
	return out
}

func TestClientRenderFirstPage(t *testing.T) {
	e := newClient()
	rows := models.DemoDataset().Vehicles

	v := e.Render(Input[models.Vehicle]{Rows: rows})

	assert.Len(t, v.Rows, 6)
	assert.Equal(t, Range{Start: 1, End: 6, Total: 6}, v.Range)
	assert.Equal(t, 1, v.PageCount)
	assert.False(t, v.ShowPagination)
	assert.True(t, v.PrevDisabled)
	assert.True(t, v.NextDisabled)
	assert.True(t, v.CanSearch)
	assert.Equal(t, "Mostrando 1–6 de 6", v.Info)
}

func TestClientClampsOutOfRangePage(t *testing.T) {
	e := newClient()
	rows := models.DemoDataset().Vehicles
	e.Render(Input[models.Vehicle]{Rows: rows})

	e.SetPage(999)
	v := e.Render(Input[models.Vehicle]{Rows: rows})

	assert.Equal(t, 1, v.Page)
	assert.Len(t, v.Rows, 6)
}

func TestClientSetPageBeforeFirstRender(t *testing.T) {
	e := newClient()
	e.SetPageSize(2)
	e.SetPage(3)
	require.Equal(t, 3, e.State().Page)

	v := e.Render(Input[models.Vehicle]{Rows: models.DemoDataset().Vehicles})
	assert.Equal(t, 3, v.Page)
	assert.Equal(t, Range{Start: 5, End: 6, Total: 6}, v.Range)

	e.SetPage(0)
	assert.Equal(t, 1, e.State().Page)
}

func TestClientRenderStoresClampedPage(t *testing.T) {
	e := newClient()
	e.SetPageSize(4)
	e.SetPage(999)
	rows := models.DemoDataset().Vehicles

	v := e.Render(Input[models.Vehicle]{Rows: rows})
	assert.Equal(t, 2, v.Page)
	assert.Equal(t, 2, e.State().Page)

	e.PrevPage()
	assert.Equal(t, 1, e.State().Page)
}

func TestClientSearchResetsPage(t *testing.T) {
	e := newClient()
	e.SetPageSize(2)
	rows := models.DemoDataset().Vehicles
	e.Render(Input[models.Vehicle]{Rows: rows})
	e.SetPage(3)
	require.Equal(t, 3, e.State().Page)

	e.SetSearch("OPERAÇÃO rj")
	v := e.Render(Input[models.Vehicle]{Rows: rows})

	assert.Equal(t, 1, v.Page)
	assert.Equal(t, []string{"QWE-2020", "HJK-5500"}, column(v, "plate"))
}

func TestClientEmptySearch(t *testing.T) {
	e := newClient()
	e.SetSearch("nothing matches this")

	v := e.Render(Input[models.Vehicle]{Rows: models.DemoDataset().Vehicles})

	assert.True(t, v.Empty)
	assert.Equal(t, "Nenhum registro encontrado.", v.EmptyText)
	assert.Equal(t, "Sem dados", v.Info)
	assert.Equal(t, Range{}, v.Range)
}

func TestClientSortToggle(t *testing.T) {
	e := newClient()
	rows := models.DemoDataset().Vehicles

	require.True(t, e.ClickHeader("speed"))
	asc := e.Render(Input[models.Vehicle]{Rows: rows})
	assert.Equal(t, []string{"0 km/h", "0 km/h", "54 km/h", "62 km/h", "71 km/h", "88 km/h"}, column(asc, "speed"))
	// stable: v2 before v6 among the stopped vehicles
	assert.Equal(t, []string{"KLM-7788", "HJK-5500"}, column(asc, "plate")[:2])
	assert.Equal(t, AriaAscending, asc.Headers[2].AriaSort)
	assert.Equal(t, AriaNone, asc.Headers[0].AriaSort)

	require.True(t, e.ClickHeader("speed"))
	desc := e.Render(Input[models.Vehicle]{Rows: rows})
	assert.Equal(t, "88 km/h", column(desc, "speed")[0])
	assert.Equal(t, AriaDescending, desc.Headers[2].AriaSort)
	assert.Equal(t, "▼", desc.Headers[2].Indicator())

	require.True(t, e.ClickHeader("speed"))
	again := e.Render(Input[models.Vehicle]{Rows: rows})
	assert.Equal(t, asc.Rows, again.Rows)
}

func TestClientSortChangeResetsPage(t *testing.T) {
	e := newClient()
	e.SetPageSize(2)
	rows := models.DemoDataset().Vehicles
	e.Render(Input[models.Vehicle]{Rows: rows})
	e.SetPage(2)

	e.ClickHeader("plate")

	assert.Equal(t, 1, e.State().Page)
}

func TestClientUnsortableColumnIgnoresClicks(t *testing.T) {
	e := newClient()

	assert.False(t, e.ClickHeader("driver"))
	assert.False(t, e.ClickHeader("missing"))
	assert.Equal(t, "", e.State().Sort.ColumnID)

	v := e.Render(Input[models.Vehicle]{Rows: models.DemoDataset().Vehicles})
	assert.False(t, v.Headers[1].Sortable)
	assert.Equal(t, "", v.Headers[1].Indicator())
}

func TestClientPaging(t *testing.T) {
	e := newClient()
	e.SetPageSize(4)
	rows := models.DemoDataset().Vehicles

	v := e.Render(Input[models.Vehicle]{Rows: rows})
	assert.Equal(t, 2, v.PageCount)
	assert.True(t, v.ShowPagination)

	e.NextPage()
	v = e.Render(Input[models.Vehicle]{Rows: rows})
	assert.Equal(t, 2, v.Page)
	assert.Equal(t, Range{Start: 5, End: 6, Total: 6}, v.Range)
	assert.True(t, v.NextDisabled)
	assert.False(t, v.PrevDisabled)

	e.NextPage()
	assert.Equal(t, 2, e.State().Page)

	e.PrevPage()
	assert.Equal(t, 1, e.State().Page)
}

func TestSummaryVariant(t *testing.T) {
	e := New(Options[models.Vehicle]{
		Columns:         vehicleColumns(),
		Variant:         Summary,
		SearchText:      models.Vehicle.SearchText,
		InitialPageSize: 2,
	})

	assert.False(t, e.ClickHeader("speed"))
	e.SetSearch("ABC")
	e.SetPage(3)

	v := e.Render(Input[models.Vehicle]{Rows: models.DemoDataset().Vehicles})

	assert.Len(t, v.Rows, 6)
	assert.False(t, v.ShowControls)
	assert.False(t, v.CanSearch)
	assert.False(t, v.ShowPagination)
	assert.Equal(t, Range{Start: 1, End: 6, Total: 6}, v.Range)
	for _, h := range v.Headers {
		assert.False(t, h.Sortable)
	}
}

func TestServerModeEmitsIntents(t *testing.T) {
	var (
		sorts    []models.Sort
		pages    []int
		sizes    []int
		searches []string
	)
	e := New(Options[models.Vehicle]{
		Columns: []Column[models.Vehicle]{
			{ID: "plate", Header: "Veículo", Sortable: true, Render: func(v models.Vehicle) string { return v.Plate }},
			{ID: "driver", Header: "Motorista", Render: func(v models.Vehicle) string { return v.Driver }},
		},
		Mode: ServerMode,
		Handlers: Handlers{
			OnSortChange:     func(s models.Sort) { sorts = append(sorts, s) },
			OnPageChange:     func(p int) { pages = append(pages, p) },
			OnPageSizeChange: func(n int) { sizes = append(sizes, n) },
			OnSearchChange:   func(s string) { searches = append(searches, s) },
		},
	})

	page := models.DemoDataset().Vehicles[:2]
	state := State{Page: 2, PageSize: 2, Sort: models.Sort{ColumnID: "plate", Dir: models.Asc}}
	v := e.Render(Input[models.Vehicle]{Rows: page, Total: 6, State: state, Loading: true})

	assert.Equal(t, 3, v.PageCount)
	assert.Equal(t, 2, v.Page)
	assert.Len(t, v.Rows, 2)
	assert.True(t, v.Loading)
	assert.Equal(t, Range{Start: 3, End: 4, Total: 6}, v.Range)
	assert.Equal(t, AriaAscending, v.Headers[0].AriaSort)

	assert.True(t, e.ClickHeader("plate"))
	assert.False(t, e.ClickHeader("driver"))
	e.SetPage(50)
	e.SetPageSize(25)
	e.SetSearch("abc")

	assert.Equal(t, []models.Sort{{ColumnID: "plate", Dir: models.Desc}}, sorts)
	assert.Equal(t, []int{3}, pages)
	assert.Equal(t, []int{25}, sizes)
	assert.Equal(t, []string{"abc"}, searches)

	// the engine never mutates externally owned state
	assert.Equal(t, state, e.State())
}

func TestServerModeClampsDisplayedPage(t *testing.T) {
	e := New(Options[models.Vehicle]{Columns: vehicleColumns(), Mode: ServerMode})

	v := e.Render(Input[models.Vehicle]{
		Rows:  models.DemoDataset().Vehicles,
		Total: 6,
		State: State{Page: 999, PageSize: 10},
	})

	assert.Equal(t, 1, v.Page)
	assert.Equal(t, Range{Start: 1, End: 6, Total: 6}, v.Range)
	assert.False(t, v.CanSearch)
}

func TestClientRestore(t *testing.T) {
	e := newClient()
	rows := models.DemoDataset().Vehicles

	e.Restore(State{Page: 9, PageSize: 4, Search: "", Sort: models.Sort{ColumnID: "speed", Dir: models.Desc}})
	v := e.Render(Input[models.Vehicle]{Rows: rows})

	assert.Equal(t, 2, v.Page)
	assert.Equal(t, []string{"0 km/h", "0 km/h"}, column(v, "speed"))
	assert.Equal(t, AriaDescending, v.Headers[2].AriaSort)

	e.Restore(State{Page: 1, Sort: models.Sort{ColumnID: "driver", Dir: models.Asc}})
	v = e.Render(Input[models.Vehicle]{Rows: rows})

	assert.Equal(t, 4, v.PageSize)
	assert.Equal(t, "", e.State().Sort.ColumnID)
}
