package rag

import (
	"sort"
)

// FilterByRelevance drops candidates scoring strictly below the threshold and
// returns the survivors in descending score order. The sort is stable so
// equal scores keep their retrieval order.
func FilterByRelevance(candidates []*Candidate, threshold float64) []*Candidate {
	filtered := make([]*Candidate, 0, len(candidates))
	for _, c := range candidates {
		if c.Score >= threshold {
			filtered = append(filtered, c)
		}
	}

	sort.SliceStable(filtered, func(i, j int) bool {
		return filtered[i].Score > filtered[j].Score
	})

	return filtered
}
