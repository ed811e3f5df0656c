package table

import "fmt"

// Accessible sort states exposed on headers
const (
	AriaNone       = "none"
	AriaAscending  = "ascending"
	AriaDescending = "descending"
)

// Header is a rendered column header
type Header struct {
	ID       string `json:"id"`
	Label    string `json:"label"`
	Sortable bool   `json:"sortable"`
	AriaSort string `json:"aria_sort"`
}

// Indicator is the glyph drawn next to a sortable header
func (h Header) Indicator() string {
	if !h.Sortable {
		return ""
	}
	switch h.AriaSort {
	case AriaAscending:
		return "▲"
	case AriaDescending:
		return "▼"
	}
	return "↕"
}

// View is the render output of an Engine
type View struct {
	Headers         []Header   `json:"headers"`
	Rows            [][]string `json:"rows"`
	Empty           bool       `json:"empty"`
	EmptyText       string     `json:"empty_text"`
	Loading         bool       `json:"loading"`
	ShowControls    bool       `json:"show_controls"`
	CanSearch       bool       `json:"can_search"`
	Search          string     `json:"search"`
	PageSize        int        `json:"page_size"`
	PageSizeOptions []int      `json:"page_size_options"`
	Page            int        `json:"page"`
	PageCount       int        `json:"page_count"`
	Range           Range      `json:"range"`
	Info            string     `json:"info"`
	ShowPagination  bool       `json:"show_pagination"`
	Pages           []PageItem `json:"pages,omitempty"`
	PrevDisabled    bool       `json:"prev_disabled"`
	NextDisabled    bool       `json:"next_disabled"`
}

// Info is the "showing x–y of z" line, or the no-data label
func (r Range) Info() string {
	if r.Total == 0 {
		return "Sem dados"
	}
	return fmt.Sprintf("Mostrando %d–%d de %d", r.Start, r.End, r.Total)
}
