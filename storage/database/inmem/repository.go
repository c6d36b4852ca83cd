package inmemdb

import (
	"sort"
	"strings"

	"github.com/trezcool/fsnd/core"
)

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

func isExcluded(id int, excludedIDs []int) bool {
	for _, excl := range excludedIDs {
		if excl == id {
			return true
		}
	}
	return false
}

// compareFunc compares items i and j on a single field: -1, 0 or 1.
type compareFunc func(i, j int) int

func compareInts(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func compareStrings(a, b string) int {
	return strings.Compare(a, b)
}

// sortBy sorts n items with the allowed orderings, falling back to defaults, and ties on id ASC
// unless id was ordered explicitly.
func sortBy(
	n int,
	swap func(i, j int),
	ordering []core.DBOrdering,
	fields map[string]compareFunc,
	id compareFunc,
	defaults ...core.DBOrdering,
) {
	type cmp struct {
		fn  compareFunc
		asc bool
	}

	cmps := make([]cmp, 0, len(ordering)+1)
	byID := false
	for _, ord := range ordering {
		if ord.Field == "id" {
			cmps = append(cmps, cmp{id, ord.Ascending})
			byID = true
			break
		}
		if fn, ok := fields[ord.Field]; ok {
			cmps = append(cmps, cmp{fn, ord.Ascending})
		}
	}
	if len(cmps) == 0 {
		for _, ord := range defaults {
			if fn, ok := fields[ord.Field]; ok {
				cmps = append(cmps, cmp{fn, ord.Ascending})
			}
		}
	}
	if !byID {
		cmps = append(cmps, cmp{id, true})
	}

	sort.Sort(sorter{n: n, swap: swap, less: func(i, j int) bool {
		for _, c := range cmps {
			r := c.fn(i, j)
			if !c.asc {
				r = -r
			}
			if r != 0 {
				return r < 0
			}
		}
		return false
	}})
}

type sorter struct {
	n    int
	swap func(i, j int)
	less func(i, j int) bool
}

func (s sorter) Len() int           { return s.n }
func (s sorter) Swap(i, j int)      { s.swap(i, j) }
func (s sorter) Less(i, j int) bool { return s.less(i, j) }
