// Package table implements the paged, sorted and searchable grid used by
// every list in the dashboard.
//
// In client mode the engine owns search, sort and paging state and runs the
// whole pipeline over the rows it is given. In server mode it is a pure
// renderer: it draws the rows and totals the caller supplies and turns user
// interaction into intents delivered through Handlers.
package table

import (
	"fmt"
	"strings"

	"fleet-dashboard/internal/models"
)

// Mode selects who owns filtering, sorting and paging
type Mode int

const (
	ClientMode Mode = iota
	ServerMode
)

// Variant selects the presentation
type Variant int

const (
	Standard Variant = iota
	// Summary renders every row on one page without search, sort or paging
	// controls. Used by compact activity widgets.
	Summary
)

// Column describes one column of a grid over rows of type R
type Column[R any] struct {
	ID      string
	Header  string
	Render  func(R) string
	SortKey func(R) any
	// Sortable marks a column as sortable in server mode even without a
	// SortKey; the caller sorts.
	Sortable bool
}

// State is the interaction state of a grid
type State struct {
	Page     int         `json:"page"`
	PageSize int         `json:"page_size"`
	Search   string      `json:"search"`
	Sort     models.Sort `json:"sort"`
}

// Handlers receive server mode intents. Nil handlers are skipped.
type Handlers struct {
	OnPageChange     func(page int)
	OnPageSizeChange func(size int)
	OnSearchChange   func(search string)
	OnSortChange     func(sort models.Sort)
}

// Options configures an Engine
type Options[R any] struct {
	Columns         []Column[R]
	Mode            Mode
	Variant         Variant
	SearchText      func(R) string
	InitialPageSize int
	PageSizeOptions []int
	EmptyText       string
	Handlers        Handlers
}

// Input is what the caller supplies on each render. In client mode Rows is
// the full row set; in server mode it is the current page and Total, State
// and Loading are the externally owned values.
type Input[R any] struct {
	Rows    []R
	Total   int
	State   State
	Loading bool
}

const (
	defaultPageSize = 6
	defaultEmpty    = "Nenhum registro encontrado."
)

// Engine renders pages of R
type Engine[R any] struct {
	opts      Options[R]
	state     State
	pageCount int
}

// New creates an engine, filling in default page sizes and empty text
func New[R any](opts Options[R]) *Engine[R] {
	if opts.InitialPageSize <= 0 {
		opts.InitialPageSize = defaultPageSize
	}
	if len(opts.PageSizeOptions) == 0 {
		opts.PageSizeOptions = []int{6, 10, 25}
	}
	if opts.EmptyText == "" {
		opts.EmptyText = defaultEmpty
	}
	return &Engine[R]{
		opts:      opts,
		state:     State{Page: 1, PageSize: opts.InitialPageSize, Sort: models.Sort{Dir: models.Asc}},
		pageCount: 1,
	}
}

// State returns the client mode state, or the props of the last server mode render
func (e *Engine[R]) State() State {
	return e.state
}

// Restore replaces the client mode state, e.g. with one decoded from a
// request. Unknown or unsortable sort columns are dropped; Render clamps the page.
func (e *Engine[R]) Restore(s State) {
	if e.opts.Mode == ServerMode {
		return
	}
	if s.PageSize <= 0 {
		s.PageSize = e.state.PageSize
	}
	if col, ok := e.Column(s.Sort.ColumnID); !ok || !e.Sortable(col) {
		s.Sort = models.Sort{}
	}
	s.Sort = s.Sort.Normalize()
	e.state = s
}

// Column looks up a column by id
func (e *Engine[R]) Column(id string) (Column[R], bool) {
	for _, c := range e.opts.Columns {
		if c.ID == id {
			return c, true
		}
	}
	return Column[R]{}, false
}

// Sortable reports whether clicking the header of c changes the sort
func (e *Engine[R]) Sortable(c Column[R]) bool {
	if e.opts.Variant == Summary {
		return false
	}
	if e.opts.Mode == ServerMode {
		return c.Sortable || c.SortKey != nil
	}
	return c.SortKey != nil
}

func (e *Engine[R]) canSearch() bool {
	if e.opts.Mode == ServerMode {
		return e.opts.Handlers.OnSearchChange != nil
	}
	return e.opts.SearchText != nil
}

// ClickHeader toggles the sort on column id: a new column sorts ascending,
// the active column flips direction. Returns false when the column does not
// react to clicks.
func (e *Engine[R]) ClickHeader(id string) bool {
	col, ok := e.Column(id)
	if !ok || !e.Sortable(col) {
		return false
	}

	next := models.Sort{ColumnID: id, Dir: models.Asc}
	if cur := e.state.Sort; cur.ColumnID == id && cur.Dir == models.Asc {
		next.Dir = models.Desc
	}

	if e.opts.Mode == ServerMode {
		if h := e.opts.Handlers.OnSortChange; h != nil {
			h(next)
		}
		return true
	}

	e.state.Sort = next
	e.state.Page = 1
	return true
}

// SetSearch changes the search text and returns to the first page
func (e *Engine[R]) SetSearch(search string) {
	if e.opts.Variant == Summary {
		return
	}
	if e.opts.Mode == ServerMode {
		if h := e.opts.Handlers.OnSearchChange; h != nil {
			h(search)
		}
		return
	}
	e.state.Search = search
	e.state.Page = 1
}

// SetPageSize changes the page size and returns to the first page
func (e *Engine[R]) SetPageSize(size int) {
	if size <= 0 || e.opts.Variant == Summary {
		return
	}
	if e.opts.Mode == ServerMode {
		if h := e.opts.Handlers.OnPageSizeChange; h != nil {
			h(size)
		}
		return
	}
	e.state.PageSize = size
	e.state.Page = 1
}

// SetPage moves to page. Server mode clamps to the page count of the last
// render; client mode keeps the request and Render clamps it against the rows.
func (e *Engine[R]) SetPage(page int) {
	if e.opts.Variant == Summary {
		return
	}
	if e.opts.Mode == ServerMode {
		if h := e.opts.Handlers.OnPageChange; h != nil {
			h(ClampPage(page, e.pageCount))
		}
		return
	}
	e.state.Page = max(page, 1)
}

// NextPage moves one page forward
func (e *Engine[R]) NextPage() {
	e.step(1)
}

// PrevPage moves one page back
func (e *Engine[R]) PrevPage() {
	e.step(-1)
}

func (e *Engine[R]) step(delta int) {
	e.SetPage(ClampPage(ClampPage(e.state.Page, e.pageCount)+delta, e.pageCount))
}

// Rows runs the client pipeline: search, stable sort, and returns the
// processed rows before slicing
func (e *Engine[R]) Rows(rows []R) []R {
	if e.opts.Mode == ServerMode {
		return rows
	}

	filtered := rows
	term := strings.ToLower(strings.TrimSpace(e.state.Search))
	if term != "" && e.opts.SearchText != nil {
		filtered = make([]R, 0, len(rows))
		for _, r := range rows {
			if strings.Contains(strings.ToLower(e.opts.SearchText(r)), term) {
				filtered = append(filtered, r)
			}
		}
	}

	if e.opts.Variant == Summary || e.state.Sort.ColumnID == "" {
		return filtered
	}
	col, ok := e.Column(e.state.Sort.ColumnID)
	if !ok || col.SortKey == nil {
		return filtered
	}
	return SortStable(filtered, col.SortKey, e.state.Sort.Dir)
}

// Render produces the view of the current page
func (e *Engine[R]) Render(in Input[R]) View {
	if e.opts.Mode == ServerMode {
		e.state = in.State
		if e.state.PageSize <= 0 {
			e.state.PageSize = e.opts.InitialPageSize
		}
		e.state.Sort = e.state.Sort.Normalize()
	}

	processed := e.Rows(in.Rows)

	total := len(processed)
	if e.opts.Mode == ServerMode {
		total = max(in.Total, len(in.Rows))
	}

	var pageRows []R
	page := 1
	switch {
	case e.opts.Variant == Summary:
		e.pageCount = 1
		pageRows = processed
	case e.opts.Mode == ServerMode:
		e.pageCount = PageCount(total, e.state.PageSize)
		page = ClampPage(e.state.Page, e.pageCount)
		pageRows = in.Rows
	default:
		e.pageCount = PageCount(total, e.state.PageSize)
		page = ClampPage(e.state.Page, e.pageCount)
		e.state.Page = page
		pageRows = Slice(processed, page, e.state.PageSize)
	}

	v := View{
		Rows:            make([][]string, 0, len(pageRows)),
		EmptyText:       e.opts.EmptyText,
		Empty:           len(pageRows) == 0,
		Loading:         in.Loading,
		ShowControls:    e.opts.Variant != Summary,
		CanSearch:       e.opts.Variant != Summary && e.canSearch(),
		Search:          e.state.Search,
		PageSize:        e.state.PageSize,
		PageSizeOptions: e.opts.PageSizeOptions,
		Page:            page,
		PageCount:       e.pageCount,
	}

	for _, c := range e.opts.Columns {
		v.Headers = append(v.Headers, e.header(c))
	}
	for _, r := range pageRows {
		cells := make([]string, len(e.opts.Columns))
		for i, c := range e.opts.Columns {
			cells[i] = cell(c, r)
		}
		v.Rows = append(v.Rows, cells)
	}

	if e.opts.Variant == Summary {
		if total > 0 {
			v.Range = Range{Start: 1, End: total, Total: total}
		}
	} else {
		v.Range = DisplayRange(page, e.state.PageSize, total, len(pageRows))
		v.ShowPagination = e.pageCount > 1
		v.Pages = PageNumbers(page, e.pageCount)
		v.PrevDisabled = page <= 1
		v.NextDisabled = page >= e.pageCount
	}
	v.Info = v.Range.Info()

	return v
}

func (e *Engine[R]) header(c Column[R]) Header {
	h := Header{ID: c.ID, Label: c.Header, Sortable: e.Sortable(c), AriaSort: AriaNone}
	if e.state.Sort.ColumnID == c.ID && e.opts.Variant != Summary {
		h.AriaSort = AriaAscending
		if e.state.Sort.Dir == models.Desc {
			h.AriaSort = AriaDescending
		}
	}
	return h
}

func cell[R any](c Column[R], r R) string {
	switch {
	case c.Render != nil:
		return c.Render(r)
	case c.SortKey != nil:
		if v := c.SortKey(r); v != nil {
			return fmt.Sprint(v)
		}
	}
	return ""
}
