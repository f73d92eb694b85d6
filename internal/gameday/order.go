// Package gameday orders gameday keys. Keys are either structured labels of
// the form "GW<week> Day <day>" or ISO dates ("2025-12-16").
package gameday

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
)

var labelPattern = regexp.MustCompile(`^GW(\d+) Day (\d+)$`)

// Parse extracts the week and day numbers from a structured label.
func Parse(key string) (week, day int, ok bool) {
	m := labelPattern.FindStringSubmatch(key)
	if m == nil {
		return 0, 0, false
	}
	week, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, 0, false
	}
	day, err = strconv.Atoi(m[2])
	if err != nil {
		return 0, 0, false
	}
	return week, day, true
}

// Label builds the structured key for a week and day.
func Label(week, day int) string {
	return "GW" + strconv.Itoa(week) + " Day " + strconv.Itoa(day)
}

// Compare returns -1, 0 or +1. Structured labels compare numerically by
// (week, day) and sort before date keys; date keys compare lexically.
// Only identical keys compare equal.
func Compare(a, b string) int {
	if a == b {
		return 0
	}

	wa, da, okA := Parse(a)
	wb, db, okB := Parse(b)

	switch {
	case okA && okB:
		if wa != wb {
			return cmpInt(wa, wb)
		}
		if da != db {
			return cmpInt(da, db)
		}
		// "GW09 Day 1" and "GW9 Day 1" parse the same.
		return strings.Compare(a, b)
	case okA:
		return -1
	case okB:
		return 1
	default:
		return strings.Compare(a, b)
	}
}

func Less(a, b string) bool {
	return Compare(a, b) < 0
}

func Sort(keys []string) {
	sort.SliceStable(keys, func(i, j int) bool {
		return Less(keys[i], keys[j])
	})
}

// SortedKeys returns the keys of m in gameday order.
func SortedKeys[T any](m map[string]T) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	Sort(keys)
	return keys
}

func cmpInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
