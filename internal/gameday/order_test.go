package gameday

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParse(t *testing.T) {
	week, day, ok := Parse("GW12 Day 7")
	assert.True(t, ok)
	assert.Equal(t, 12, week)
	assert.Equal(t, 7, day)

	for _, key := range []string{"2025-12-16", "GW9Day1", "gw9 day 1", "GW9 Day ", " GW9 Day 1", ""} {
		_, _, ok := Parse(key)
		assert.False(t, ok, key)
	}
}

func TestLabel(t *testing.T) {
	assert.Equal(t, "GW9 Day 3", Label(9, 3))
}

func TestCompare_NumericWithinStructuredLabels(t *testing.T) {
	assert.True(t, Less("GW9 Day 2", "GW9 Day 10"))
	assert.True(t, Less("GW9 Day 10", "GW10 Day 1"))
	assert.True(t, Less("GW2 Day 7", "GW10 Day 1"))
	assert.False(t, Less("GW9 Day 10", "GW9 Day 2"))
}

func TestCompare_DatesLexical(t *testing.T) {
	assert.Equal(t, -1, Compare("2025-01-05", "2025-01-10"))
	assert.Equal(t, 1, Compare("2026-01-01", "2025-12-31"))
}

func TestCompare_MixedFormatsStructuredFirst(t *testing.T) {
	// Real responses should not mix formats; this pins the fallback.
	assert.Equal(t, -1, Compare("GW99 Day 9", "2000-01-01"))
	assert.Equal(t, 1, Compare("2000-01-01", "GW1 Day 1"))
}

func TestCompare_StrictTotalOrder(t *testing.T) {
	keys := []string{"GW9 Day 1", "GW09 Day 1", "GW9 Day 2", "2025-01-05", "2025-01-06", "GW10 Day 1"}
	for _, a := range keys {
		assert.Equal(t, 0, Compare(a, a))
		for _, b := range keys {
			if a == b {
				continue
			}
			assert.NotEqual(t, 0, Compare(a, b), "%q vs %q", a, b)
			assert.Equal(t, -Compare(a, b), Compare(b, a), "%q vs %q", a, b)
		}
	}
}

func TestSort_DocumentedScenario(t *testing.T) {
	keys := []string{"2025-01-05", "GW9 Day 2", "GW9 Day 1"}
	Sort(keys)
	assert.Equal(t, []string{"GW9 Day 1", "GW9 Day 2", "2025-01-05"}, keys)
}

func TestSortedKeys(t *testing.T) {
	m := map[string]int{"GW9 Day 10": 1, "GW9 Day 2": 2, "GW10 Day 1": 3}
	assert.Equal(t, []string{"GW9 Day 2", "GW9 Day 10", "GW10 Day 1"}, SortedKeys(m))
}
