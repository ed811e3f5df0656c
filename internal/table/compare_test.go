package table

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"fleet-dashboard/internal/models"
)

func TestCompare(t *testing.T) {
	now := time.Now()

	assert.Equal(t, 0, Compare(nil, nil))
	assert.Negative(t, Compare(nil, 1))
	assert.Positive(t, Compare("a", nil))
	assert.Negative(t, Compare(2, 10))
	assert.Negative(t, Compare(2.5, 10))
	assert.Positive(t, Compare(int64(11), 10))
	assert.Negative(t, Compare(now, now.Add(time.Minute)))
	assert.Equal(t, 0, Compare("Operação", "operacao"))
	assert.Negative(t, Compare("abc", "ABD"))
	assert.Negative(t, Compare("Ágil", "Bravo"))
}

type keyed struct {
	key   int
	label string
}

func TestSortStableKeepsEqualKeysInOrder(t *testing.T) {
	rows := []keyed{{2, "a"}, {1, "b"}, {2, "c"}, {1, "d"}, {2, "e"}, {1, "f"}}
	key := func(r keyed) any { return r.key }

	asc := SortStable(rows, key, models.Asc)
	assert.Equal(t, []keyed{{1, "b"}, {1, "d"}, {1, "f"}, {2, "a"}, {2, "c"}, {2, "e"}}, asc)

	desc := SortStable(rows, key, models.Desc)
	assert.Equal(t, []keyed{{2, "a"}, {2, "c"}, {2, "e"}, {1, "b"}, {1, "d"}, {1, "f"}}, desc)

	// input untouched
	assert.Equal(t, keyed{2, "a"}, rows[0])
}
