package table

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func nums(items []PageItem) []int {
	out := make([]int, 0, len(items))
	for _, it := range items {
		if it.Ellipsis {
			out = append(out, 0)
			continue
		}
		out = append(out, it.Number)
	}
	return out
}

func TestPageCount(t *testing.T) {
	assert.Equal(t, 1, PageCount(0, 10))
	assert.Equal(t, 1, PageCount(6, 10))
	assert.Equal(t, 1, PageCount(10, 10))
	assert.Equal(t, 2, PageCount(11, 10))
	assert.Equal(t, 1, PageCount(11, 0))
}

func TestClampPage(t *testing.T) {
	assert.Equal(t, 1, ClampPage(-3, 4))
	assert.Equal(t, 1, ClampPage(0, 4))
	assert.Equal(t, 4, ClampPage(999, 4))
	assert.Equal(t, 2, ClampPage(2, 4))
	assert.Equal(t, 1, ClampPage(5, 0))
}

func TestSliceClampsOutOfRangePages(t *testing.T) {
	rows := []int{1, 2, 3, 4, 5, 6}

	assert.Equal(t, rows, Slice(rows, 999, 10))
	assert.Equal(t, []int{5, 6}, Slice(rows, 3, 2))
	assert.Equal(t, []int{1, 2}, Slice(rows, -1, 2))
	assert.Empty(t, Slice([]int{}, 1, 10))
}

func TestPaginationIsTotal(t *testing.T) {
	for n := 0; n <= 23; n++ {
		rows := make([]int, n)
		for i := range rows {
			rows[i] = i
		}
		for _, size := range []int{1, 3, 6, 10} {
			var joined []int
			for p := 1; p <= (n+size-1)/size; p++ {
				joined = append(joined, Slice(rows, p, size)...)
			}
			if n == 0 {
				assert.Empty(t, joined)
				continue
			}
			assert.Equal(t, rows, joined, "n=%d size=%d", n, size)
		}
	}
}

func TestDisplayRange(t *testing.T) {
	assert.Equal(t, Range{}, DisplayRange(1, 10, 0, 0))
	assert.Equal(t, Range{Start: 1, End: 6, Total: 6}, DisplayRange(1, 10, 6, 6))
	assert.Equal(t, Range{Start: 11, End: 15, Total: 15}, DisplayRange(2, 10, 15, 5))
	assert.Equal(t, "Mostrando 11–15 de 15", DisplayRange(2, 10, 15, 5).Info())
	assert.Equal(t, "Sem dados", Range{}.Info())
}

func TestPageNumbers(t *testing.T) {
	tests := []struct {
		page, count int
		want        []int
	}{
		{1, 1, []int{1}},
		{3, 7, []int{1, 2, 3, 4, 5, 6, 7}},
		{1, 10, []int{1, 2, 0, 9, 10}},
		{3, 10, []int{1, 2, 3, 4, 0, 9, 10}},
		{5, 10, []int{1, 2, 0, 4, 5, 6, 0, 9, 10}},
		{9, 10, []int{1, 2, 0, 8, 9, 10}},
		{10, 10, []int{1, 2, 0, 9, 10}},
		{4, 8, []int{1, 2, 3, 4, 5, 0, 7, 8}},
	}

	for _, tt := range tests {
		got := nums(PageNumbers(tt.page, tt.count))
		assert.Equal(t, tt.want, got, "page=%d count=%d", tt.page, tt.count)

		for i := 1; i < len(got); i++ {
			assert.False(t, got[i] == 0 && got[i-1] == 0, "consecutive ellipsis in %v", got)
		}
	}
}
