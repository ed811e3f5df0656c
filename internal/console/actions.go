package console

import (
	"fleet-dashboard/internal/models"
)

// Action is a console transition
type Action interface {
	Name() string
}

type SelectCategory struct {
	Category string `json:"category"`
}

type SelectReport struct {
	ID string `json:"id"`
}

// ChangeScope edits the draft fleet and period. It takes effect on apply.
type ChangeScope struct {
	Scope models.Scope `json:"scope"`
}

// ChangeFilter edits one draft filter value
type ChangeFilter struct {
	Field string `json:"field"`
	Value string `json:"value"`
}

type ApplyFilters struct{}

type ResetFilters struct{}

type ChangePage struct {
	Page int `json:"page"`
}

type ChangePageSize struct {
	PageSize int `json:"page_size"`
}

type ChangeSearch struct {
	Search string `json:"search"`
}

type ChangeSort struct {
	Sort models.Sort `json:"sort"`
}

// Reload fetches the active report again with unchanged parameters
type Reload struct{}

// FetchCompleted delivers the outcome of a Fetch
type FetchCompleted struct {
	ReportID string
	Seq      uint64
	Result   models.PageResult
	Err      error
}

func (SelectCategory) Name() string { return "select_category" }
func (SelectReport) Name() string   { return "select_report" }
func (ChangeScope) Name() string    { return "change_scope" }
func (ChangeFilter) Name() string   { return "change_filter" }
func (ApplyFilters) Name() string   { return "apply_filters" }
func (ResetFilters) Name() string   { return "reset_filters" }
func (ChangePage) Name() string     { return "change_page" }
func (ChangePageSize) Name() string { return "change_page_size" }
func (ChangeSearch) Name() string   { return "change_search" }
func (ChangeSort) Name() string     { return "change_sort" }
func (Reload) Name() string         { return "reload" }
func (FetchCompleted) Name() string { return "fetch_completed" }

// Fetch is a page request the reducer wants issued
type Fetch struct {
	ReportID string
	Seq      uint64
	Request  models.PageRequest
}
