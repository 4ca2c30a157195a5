package search

import (
	"sort"
	"strings"

	"gitsuggest/internal/domain"
)

// MaxRecords caps the merged suggestion list
const MaxRecords = 50

// Rank merges people and repositories into one list ordered by value,
// ignoring case. Equal values keep their merged order (people before
// repositories, each in source order). The cap is applied after sorting, so
// one source can push the other out entirely. limit <= 0 means MaxRecords.
func Rank(people, repos []domain.RankedItem, limit int) []domain.RankedItem {
	if limit <= 0 {
		limit = MaxRecords
	}

	merged := make([]domain.RankedItem, 0, len(people)+len(repos))
	merged = append(merged, people...)
	merged = append(merged, repos...)

	sort.SliceStable(merged, func(i, j int) bool {
		return strings.ToLower(merged[i].Value) < strings.ToLower(merged[j].Value)
	})

	if len(merged) > limit {
		merged = merged[:limit:limit]
	}
	return merged
}
