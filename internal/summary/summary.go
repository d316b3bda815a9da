// Package summary derives per-operator statistics from a result set.
package summary

import (
	"math"
	"sort"

	"github.com/ppiankov/numinfo/internal/model"
)

// Summarize counts records per operator (exact, case-sensitive match) and
// sorts by count descending. Equal counts keep first-seen order.
func Summarize(records []model.LookupRecord) []model.OperatorSummary {
	index := make(map[string]int)
	out := make([]model.OperatorSummary, 0)

	for _, r := range records {
		i, seen := index[r.Operator]
		if !seen {
			i = len(out)
			index[r.Operator] = i
			out = append(out, model.OperatorSummary{Operator: r.Operator})
		}
		out[i].Count++
	}

	sort.SliceStable(out, func(a, b int) bool {
		return out[a].Count > out[b].Count
	})

	return out
}

// Share returns count as a whole percentage of total, rounded half up
func Share(count, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Floor(float64(count)*100/float64(total) + 0.5))
}
