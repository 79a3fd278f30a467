package scheduler

import (
	"sort"
	"time"

	"github.com/phrazzld/hifz-api/internal/domain"
)

// PageRef identifies one page of one chapter inside a snapshot, with the
// timestamps the recency sort policy keys on.
type PageRef struct {
	ChapterOrdinal int
	PageNumber     int
	UpdatedAt      time.Time
	CreatedAt      time.Time
}

type pageKey struct {
	chapter int
	page    int
}

// Snapshot is the in-memory working copy of a tenant's mastery state for
// one generation run. The generator mutates it (promotion of newly
// assigned pages to medium) but nothing is ever written back to the
// mastery store.
type Snapshot struct {
	Perfect      []PageRef
	Medium       []PageRef
	Bad          []PageRef
	NotMemorized []PageRef

	memorized map[pageKey]struct{}
	policy    SortPolicy
}

// NewSnapshot categorizes the given mastery records and applies the sort
// policy within each category. Records come from the store in sequential
// order, which the stable recency sort preserves on timestamp ties.
func NewSnapshot(records []*domain.MasteryRecord, policy SortPolicy) *Snapshot {
	s := &Snapshot{
		memorized: make(map[pageKey]struct{}),
		policy:    policy,
	}

	for _, record := range records {
		ref := PageRef{
			ChapterOrdinal: record.ChapterOrdinal,
			PageNumber:     record.PageNumber,
			UpdatedAt:      record.UpdatedAt,
			CreatedAt:      record.CreatedAt,
		}

		switch record.Classification {
		case domain.ClassificationPerfect:
			s.Perfect = append(s.Perfect, ref)
		case domain.ClassificationMedium:
			s.Medium = append(s.Medium, ref)
		case domain.ClassificationBad:
			s.Bad = append(s.Bad, ref)
		default:
			s.NotMemorized = append(s.NotMemorized, ref)
		}

		if record.Classification.Memorized() {
			s.memorized[pageKey{record.ChapterOrdinal, record.PageNumber}] = struct{}{}
		}
	}

	s.sortCategory(&s.Perfect)
	s.sortCategory(&s.Medium)
	s.sortCategory(&s.Bad)
	s.sortCategory(&s.NotMemorized)

	return s
}

// Contains reports whether the page carries any memorized classification.
// Used by the new-material cursor to skip learned pages.
func (s *Snapshot) Contains(chapter, page int) bool {
	_, ok := s.memorized[pageKey{chapter, page}]
	return ok
}

// MemorizedCount returns the size of the revision pool.
func (s *Snapshot) MemorizedCount() int {
	return len(s.Perfect) + len(s.Medium) + len(s.Bad)
}

// Classify returns the classification recorded for the page, scanning the
// perfect list before the bad list and defaulting to medium. The lookup
// order is part of the algorithm's contract: a page present in more than
// one list resolves perfect over bad over the medium default.
func (s *Snapshot) Classify(chapter, page int) domain.Classification {
	key := pageKey{chapter, page}
	for _, ref := range s.Perfect {
		if (pageKey{ref.ChapterOrdinal, ref.PageNumber}) == key {
			return domain.ClassificationPerfect
		}
	}
	for _, ref := range s.Bad {
		if (pageKey{ref.ChapterOrdinal, ref.PageNumber}) == key {
			return domain.ClassificationBad
		}
	}
	return domain.ClassificationMedium
}

// PromoteToMedium inserts a synthetic medium record for a page that was
// just assigned as new material, timestamped with the plan day so later
// days of the same run see it in their revision pool. The page also joins
// the memorized membership set.
func (s *Snapshot) PromoteToMedium(chapter, page int, day time.Time) {
	key := pageKey{chapter, page}
	if _, exists := s.memorized[key]; exists {
		return
	}

	ref := PageRef{
		ChapterOrdinal: chapter,
		PageNumber:     page,
		UpdatedAt:      day,
		CreatedAt:      day,
	}

	s.memorized[key] = struct{}{}

	switch s.policy {
	case SortRecency:
		// Newest first: the freshly promoted page leads the pool.
		s.Medium = append([]PageRef{ref}, s.Medium...)
	default:
		s.Medium = append(s.Medium, ref)
		s.sortCategory(&s.Medium)
	}
}

// sortCategory applies the snapshot's sort policy to one category slice.
func (s *Snapshot) sortCategory(refs *[]PageRef) {
	switch s.policy {
	case SortRecency:
		sort.SliceStable(*refs, func(i, j int) bool {
			return refTime((*refs)[i]).After(refTime((*refs)[j]))
		})
	default:
		sort.SliceStable(*refs, func(i, j int) bool {
			a, b := (*refs)[i], (*refs)[j]
			if a.ChapterOrdinal != b.ChapterOrdinal {
				return a.ChapterOrdinal < b.ChapterOrdinal
			}
			return a.PageNumber < b.PageNumber
		})
	}
}

// refTime picks the timestamp the recency policy keys on, preferring the
// last update over creation.
func refTime(ref PageRef) time.Time {
	if !ref.UpdatedAt.IsZero() {
		return ref.UpdatedAt
	}
	return ref.CreatedAt
}
