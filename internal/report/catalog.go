package report

import (
	"fmt"
	"slices"

	"fleet-dashboard/internal/models"
)

// Options tunes every report of a catalog
type Options struct {
	// SimulateLatency makes FetchPage wait as long as a remote backend would
	SimulateLatency bool
}

// Category groups reports in listings
type Category struct {
	Name    string `json:"name"`
	Reports []Meta `json:"reports"`
}

// Catalog holds the reports over one read-only vehicle set
type Catalog struct {
	vehicles []models.Vehicle
	opts     Options
	reports  []Report
	byID     map[string]Report
}

// NewCatalog builds the report catalog over vehicles
func NewCatalog(vehicles []models.Vehicle, opts Options) *Catalog {
	c := &Catalog{
		vehicles: slices.Clone(vehicles),
		opts:     opts,
		byID:     make(map[string]Report),
	}
	c.reports = []Report{
		newTelemetry(c),
		newTrips(c),
		newSpeeding(c),
		newFuel(c),
		newIdle(c),
		newMaintenance(c),
		newGeofence(c),
		newBehavior(c),
		newPositions(c),
	}
	for _, r := range c.reports {
		c.byID[r.Meta().ID] = r
	}
	return c
}

// Reports lists every report in catalog order
func (c *Catalog) Reports() []Report {
	return slices.Clone(c.reports)
}

// Get looks up a report by id
func (c *Catalog) Get(id string) (Report, error) {
	r, ok := c.byID[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownReport, id)
	}
	return r, nil
}

// Categories groups the reports by category, in order of first appearance
func (c *Catalog) Categories() []Category {
	var out []Category
	idx := make(map[string]int)
	for _, r := range c.reports {
		m := r.Meta()
		i, ok := idx[m.Category]
		if !ok {
			i = len(out)
			idx[m.Category] = i
			out = append(out, Category{Name: m.Category})
		}
		out[i].Reports = append(out[i].Reports, m)
	}
	return out
}

// HasCategory reports whether any report belongs to name
func (c *Catalog) HasCategory(name string) bool {
	for _, r := range c.reports {
		if r.Meta().Category == name {
			return true
		}
	}
	return false
}

// FleetOptions lists the distinct fleets of the vehicle set, sorted
func (c *Catalog) FleetOptions() []string {
	var out []string
	for _, v := range c.vehicles {
		if !slices.Contains(out, v.Fleet) {
			out = append(out, v.Fleet)
		}
	}
	slices.Sort(out)
	return out
}

// Scoped returns the vehicles of fleet, or all vehicles when fleet is empty
func (c *Catalog) Scoped(fleet string) []models.Vehicle {
	if fleet == "" {
		return c.vehicles
	}
	out := make([]models.Vehicle, 0, len(c.vehicles))
	for _, v := range c.vehicles {
		if v.Fleet == fleet {
			out = append(out, v)
		}
	}
	return out
}
