package application

import "cardbox/internal/domain"

// Warm-up bounds: at most warmupMax distinct files per search, fetched in
// concurrent groups of warmupGroup, with the first warmupImmediate files
// fetched right away and the remainder after a short yield so the backend
// is never saturated.
const (
	warmupMax       = 48
	warmupGroup     = 4
	warmupImmediate = 12
)

// WarmupPlan lists the file identities to prefetch after a search, split
// into the immediate wave and the deferred wave, each chunked into groups
// that may be fetched concurrently.
type WarmupPlan struct {
	Immediate [][]int64
	Deferred  [][]int64
}

// Empty reports whether there is nothing to prefetch.
func (p WarmupPlan) Empty() bool {
	return len(p.Immediate) == 0 && len(p.Deferred) == 0
}

// PlanWarmup selects the distinct uncached file identities referenced by
// the hits, in ranking order, capped at warmupMax.
func PlanWarmup(hits []domain.SearchHit, cached func(int64) bool) WarmupPlan {
	seen := make(map[int64]struct{}, len(hits))
	ids := make([]int64, 0, warmupMax)
	for _, hit := range hits {
		if _, dup := seen[hit.FileID]; dup {
			continue
		}
		seen[hit.FileID] = struct{}{}
		if cached != nil && cached(hit.FileID) {
			continue
		}
		ids = append(ids, hit.FileID)
		if len(ids) == warmupMax {
			break
		}
	}

	split := min(warmupImmediate, len(ids))
	return WarmupPlan{
		Immediate: chunk(ids[:split], warmupGroup),
		Deferred:  chunk(ids[split:], warmupGroup),
	}
}

func chunk(ids []int64, size int) [][]int64 {
	var groups [][]int64
	for len(ids) > 0 {
		n := min(size, len(ids))
		groups = append(groups, ids[:n:n])
		ids = ids[n:]
	}
	return groups
}
