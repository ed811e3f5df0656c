package table

import (
	"fmt"
	"slices"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"fleet-dashboard/internal/models"
)

// Comparer orders sort keys: numbers numerically, times by instant and
// everything else by pt-BR collation ignoring case and accents. A Comparer
// is not safe for concurrent use.
type Comparer struct {
	collator *collate.Collator
}

// NewComparer returns a Comparer for the dashboard locale
func NewComparer() *Comparer {
	return &Comparer{collator: collate.New(language.BrazilianPortuguese, collate.Loose)}
}

// Compare returns a negative number when a sorts before b, zero when they
// are equivalent and a positive number otherwise. nil sorts first.
func (c *Comparer) Compare(a, b any) int {
	if a == nil && b == nil {
		return 0
	}
	if a == nil {
		return -1
	}
	if b == nil {
		return 1
	}

	if af, ok := number(a); ok {
		if bf, ok := number(b); ok {
			switch {
			case af < bf:
				return -1
			case af > bf:
				return 1
			}
			return 0
		}
	}

	if at, ok := a.(time.Time); ok {
		if bt, ok := b.(time.Time); ok {
			return at.Compare(bt)
		}
	}

	return c.collator.CompareString(fmt.Sprint(a), fmt.Sprint(b))
}

// Compare orders two sort keys with a fresh Comparer
func Compare(a, b any) int {
	return NewComparer().Compare(a, b)
}

func number(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}

// SortStable returns rows ordered by key in the given direction. Rows with
// equal keys keep their original relative order in both directions. The
// input slice is not modified.
func SortStable[R any](rows []R, key func(R) any, dir models.SortDir) []R {
	out := slices.Clone(rows)
	if key == nil {
		return out
	}

	sign := 1
	if dir == models.Desc {
		sign = -1
	}

	keys := make([]any, len(out))
	idx := make([]int, len(out))
	for i := range out {
		idx[i] = i
		keys[i] = key(out[i])
	}

	c := NewComparer()
	slices.SortStableFunc(idx, func(a, b int) int {
		return sign * c.Compare(keys[a], keys[b])
	})

	sorted := make([]R, len(out))
	for i, j := range idx {
		sorted[i] = out[j]
	}
	return sorted
}
