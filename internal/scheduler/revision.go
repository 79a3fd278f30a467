package scheduler

import "math"

// RevisionPlan is a cyclical distribution of the memorized pool over a
// number of days. Day d of a generation run draws from
// DayBuckets[d mod ActualCycleDays].
type RevisionPlan struct {
	// PerDayCount is the bucket size the distribution was sliced with.
	PerDayCount int

	// ActualCycleDays is the cycle length after any quality-based
	// extension, always within [target, max].
	ActualCycleDays int

	// QualityRatio is |perfect| / memorized total, zero for an empty pool.
	QualityRatio float64

	// DayBuckets holds one contiguous slice of the priority-ordered pool
	// per cycle day. Trailing buckets may be short or empty.
	DayBuckets [][]PageRef
}

// Bucket returns the revision slice for the given zero-based day of a
// generation run, cycling past the end of the distribution.
func (p RevisionPlan) Bucket(day int) []PageRef {
	if p.ActualCycleDays == 0 {
		return nil
	}
	return p.DayBuckets[day%p.ActualCycleDays]
}

// Total returns the number of pages distributed across all buckets.
func (p RevisionPlan) Total() int {
	total := 0
	for _, bucket := range p.DayBuckets {
		total += len(bucket)
	}
	return total
}

// PlanRevision distributes the snapshot's memorized pool over a revision
// cycle. The pool is concatenated in priority order perfect, medium, bad
// (within-category order comes from the snapshot's sort policy) and
// sliced into contiguous per-day buckets.
//
// When the quality ratio falls below the threshold the cycle is extended:
// actual = min(ceil(target * (1 + (threshold - ratio))), max). The
// extension direction is deliberate and must not be "corrected": a longer
// cycle with fewer pages per day is the behavior the product ships with.
func PlanRevision(snapshot *Snapshot, params *Params) RevisionPlan {
	total := snapshot.MemorizedCount()
	if total == 0 {
		return RevisionPlan{
			ActualCycleDays: params.TargetCycleDays,
			DayBuckets:      make([][]PageRef, params.TargetCycleDays),
		}
	}

	qualityRatio := float64(len(snapshot.Perfect)) / float64(total)

	actualCycleDays := params.TargetCycleDays
	if qualityRatio < params.QualityThreshold {
		extended := int(math.Ceil(
			float64(params.TargetCycleDays) * (1 + (params.QualityThreshold - qualityRatio))))
		if extended > params.MaxCycleDays {
			extended = params.MaxCycleDays
		}
		actualCycleDays = extended
	}

	perDayCount := int(math.Ceil(float64(total) / float64(actualCycleDays)))

	pool := make([]PageRef, 0, total)
	pool = append(pool, snapshot.Perfect...)
	pool = append(pool, snapshot.Medium...)
	pool = append(pool, snapshot.Bad...)

	buckets := make([][]PageRef, actualCycleDays)
	for i := range buckets {
		start := i * perDayCount
		if start > total {
			start = total
		}
		end := start + perDayCount
		if end > total {
			end = total
		}
		buckets[i] = pool[start:end]
	}

	return RevisionPlan{
		PerDayCount:     perDayCount,
		ActualCycleDays: actualCycleDays,
		QualityRatio:    qualityRatio,
		DayBuckets:      buckets,
	}
}
