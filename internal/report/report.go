// Package report defines the catalog of fleet reports. Each report owns a
// column set, a filter schema and a bounded synthetic row universe that can
// be paged or exported.
package report

import (
	"context"
	"errors"

	"fleet-dashboard/internal/models"
	"fleet-dashboard/internal/table"
)

var (
	// ErrUnknownReport is returned when a report id is not in the catalog
	ErrUnknownReport = errors.New("unknown report")
)

// DefaultPeriodDays is used when a scope carries no period
const DefaultPeriodDays = 7

// MaxPeriodDays bounds the period of a scope
const MaxPeriodDays = 366

// MaxSpeedLimitKmh bounds the limitKmh generator parameter
const MaxSpeedLimitKmh = 300

// DefaultPageSize is used when a page request carries no page size
const DefaultPageSize = 10

// Meta describes a report in listings
type Meta struct {
	ID             string `json:"id"`
	Title          string `json:"title"`
	Subtitle       string `json:"subtitle"`
	Category       string `json:"category"`
	ExportFilename string `json:"export_filename"`
	Cap            int    `json:"cap"`
}

// Report is one entry of the catalog
type Report interface {
	Meta() Meta
	Columns() []table.Column[models.Record]
	Filters() []FilterField
	DefaultFilters() models.Filters
	DefaultSort() models.Sort
	// EstimateTotal is the capped universe size for scope before filtering
	EstimateTotal(scope models.Scope) int
	FetchPage(ctx context.Context, req models.PageRequest) (models.PageResult, error)
	// ExportAll returns every matching row of the capped universe
	ExportAll(ctx context.Context, req models.ExportRequest) ([]models.Record, error)
}
