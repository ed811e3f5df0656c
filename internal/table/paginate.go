package table

// PageCount is the number of pages needed for total rows, never less than one
func PageCount(total, pageSize int) int {
	if pageSize <= 0 || total <= 0 {
		return 1
	}
	return max(1, (total+pageSize-1)/pageSize)
}

// ClampPage bounds page to [1, pageCount]
func ClampPage(page, pageCount int) int {
	return max(1, min(max(1, pageCount), page))
}

// Slice returns the rows of page, clamping the page first
func Slice[R any](rows []R, page, pageSize int) []R {
	if pageSize <= 0 {
		return rows
	}
	page = ClampPage(page, PageCount(len(rows), pageSize))
	start := (page - 1) * pageSize
	if start >= len(rows) {
		return rows[:0]
	}
	end := min(len(rows), start+pageSize)
	return rows[start:end]
}

// Range is the 1-based span of rows currently displayed
type Range struct {
	Start int `json:"start"`
	End   int `json:"end"`
	Total int `json:"total"`
}

// DisplayRange computes the range shown for page; an empty universe yields
// the zero Range
func DisplayRange(page, pageSize, total, rowsOnPage int) Range {
	if total <= 0 {
		return Range{}
	}
	start := (page-1)*pageSize + 1
	end := min(total, start+max(0, rowsOnPage-1))
	return Range{Start: start, End: end, Total: total}
}

// PageItem is one entry of the pagination control: a page number or a gap
type PageItem struct {
	Number   int  `json:"number,omitempty"`
	Ellipsis bool `json:"ellipsis,omitempty"`
}

// PageNumbers lists the page buttons to show. Up to seven pages are listed
// in full; beyond that the first two, the last two and the window around
// page are kept and every gap collapses into a single ellipsis.
func PageNumbers(page, pageCount int) []PageItem {
	if pageCount <= 7 {
		out := make([]PageItem, 0, pageCount)
		for n := 1; n <= pageCount; n++ {
			out = append(out, PageItem{Number: n})
		}
		return out
	}

	keep := map[int]bool{}
	for _, n := range []int{1, 2, page - 1, page, page + 1, pageCount - 1, pageCount} {
		if n >= 1 && n <= pageCount {
			keep[n] = true
		}
	}

	var out []PageItem
	prev := 0
	for n := 1; n <= pageCount; n++ {
		if !keep[n] {
			continue
		}
		if prev > 0 && n-prev > 1 {
			out = append(out, PageItem{Ellipsis: true})
		}
		out = append(out, PageItem{Number: n})
		prev = n
	}
	return out
}
