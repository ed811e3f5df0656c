package report

import (
	"math"
	"strconv"
	"strings"

	"fleet-dashboard/internal/models"
)

// FilterKind is the input control of a filter field
type FilterKind string

const (
	KindSelect FilterKind = "select"
	KindNumber FilterKind = "number"
)

// Bound says how a filter value constrains rows
type Bound string

const (
	BoundExact Bound = "exact"
	BoundMin   Bound = "min"
	BoundMax   Bound = "max"
	// BoundParam values feed the row generator instead of filtering rows
	BoundParam Bound = "param"
)

// FilterField is one entry of a report filter schema
type FilterField struct {
	ID      string     `json:"id"`
	Label   string     `json:"label"`
	Kind    FilterKind `json:"kind"`
	Bound   Bound      `json:"bound"`
	Options []string   `json:"options,omitempty"`
	Default string     `json:"default,omitempty"`
}

// filter binds a schema field to the row value it constrains
type filter[R any] struct {
	FilterField
	text   func(R) string
	number func(R) float64
}

func selectFilter[R any](id, label string, options []string, text func(R) string) filter[R] {
	return filter[R]{
		FilterField: FilterField{ID: id, Label: label, Kind: KindSelect, Bound: BoundExact, Options: options},
		text:        text,
	}
}

func minFilter[R any](id, label, def string, number func(R) float64) filter[R] {
	return filter[R]{
		FilterField: FilterField{ID: id, Label: label, Kind: KindNumber, Bound: BoundMin, Default: def},
		number:      number,
	}
}

func maxFilter[R any](id, label string, number func(R) float64) filter[R] {
	return filter[R]{
		FilterField: FilterField{ID: id, Label: label, Kind: KindNumber, Bound: BoundMax},
		number:      number,
	}
}

func paramFilter[R any](id, label, def string) filter[R] {
	return filter[R]{
		FilterField: FilterField{ID: id, Label: label, Kind: KindNumber, Bound: BoundParam, Default: def},
	}
}

// ParseNumber reads a numeric filter value. Empty, malformed and non-finite
// input reports false and imposes no constraint.
func ParseNumber(raw string) (float64, bool) {
	raw = strings.TrimSpace(strings.ReplaceAll(raw, ",", "."))
	if raw == "" {
		return 0, false
	}
	n, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, false
	}
	return n, true
}

// param reads an integer generator parameter in [1, limit], falling back to
// def when absent or not positive
func param(filters models.Filters, id string, def, limit int) int {
	n, ok := ParseNumber(filters[id])
	if !ok || n < 1 {
		return def
	}
	if n > float64(limit) {
		return limit
	}
	return int(n)
}

func (f filter[R]) match(r R, raw string) bool {
	switch f.Bound {
	case BoundExact:
		raw = strings.TrimSpace(raw)
		return raw == "" || f.text(r) == raw
	case BoundMin:
		n, ok := ParseNumber(raw)
		return !ok || f.number(r) >= n
	case BoundMax:
		n, ok := ParseNumber(raw)
		return !ok || f.number(r) <= n
	}
	return true
}

// matchSearch reports whether any of fields contains term, which must
// already be lower case. An empty term matches everything.
func matchSearch(term string, fields []string) bool {
	if term == "" {
		return true
	}
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), term) {
			return true
		}
	}
	return false
}
