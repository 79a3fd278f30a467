package corpus

import (
	"errors"
	"fmt"
	"sort"

	"github.com/phrazzld/hifz-api/internal/domain"
)

// Direction is the order in which chapters are visited for new-material
// assignment.
type Direction string

const (
	DirectionForward Direction = "forward"
	DirectionReverse Direction = "reverse"
)

var (
	// ErrInvalidDirection is returned when a direction value is neither
	// forward nor reverse.
	ErrInvalidDirection = errors.New("direction must be forward or reverse")

	// ErrChapterNotFound is returned when no chapter has the requested ordinal.
	ErrChapterNotFound = errors.New("chapter not found")

	// ErrDuplicateOrdinal is returned when two descriptors share an ordinal.
	ErrDuplicateOrdinal = errors.New("duplicate chapter ordinal")

	// ErrEmptyCorpus is returned when an index is built from no chapters.
	ErrEmptyCorpus = errors.New("corpus cannot be empty")
)

// ParseDirection parses a direction string. The empty string defaults to
// forward, matching the external API contract.
func ParseDirection(s string) (Direction, error) {
	switch Direction(s) {
	case DirectionForward, DirectionReverse:
		return Direction(s), nil
	}
	if s == "" {
		return DirectionForward, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidDirection, s)
}

// Index is the immutable chapter catalog. It is constructed once at
// process start and shared by reference; no method mutates it.
type Index struct {
	byOrdinal map[int]domain.ChapterDescriptor
	ascending []domain.ChapterDescriptor
}

// NewIndex builds an Index from the given descriptors. Every descriptor
// must validate and ordinals must be unique.
func NewIndex(chapters []domain.ChapterDescriptor) (*Index, error) {
	if len(chapters) == 0 {
		return nil, ErrEmptyCorpus
	}

	byOrdinal := make(map[int]domain.ChapterDescriptor, len(chapters))
	ascending := make([]domain.ChapterDescriptor, 0, len(chapters))

	for _, chapter := range chapters {
		if err := chapter.Validate(); err != nil {
			return nil, fmt.Errorf("invalid chapter %d: %w", chapter.Ordinal, err)
		}
		if _, exists := byOrdinal[chapter.Ordinal]; exists {
			return nil, fmt.Errorf("%w: %d", ErrDuplicateOrdinal, chapter.Ordinal)
		}
		byOrdinal[chapter.Ordinal] = chapter
		ascending = append(ascending, chapter)
	}

	sort.Slice(ascending, func(i, j int) bool {
		return ascending[i].Ordinal < ascending[j].Ordinal
	})

	return &Index{byOrdinal: byOrdinal, ascending: ascending}, nil
}

// Len returns the number of chapters in the corpus.
func (idx *Index) Len() int {
	return len(idx.ascending)
}

// Ordered returns the chapters sorted by ordinal, ascending for forward
// traversal and descending for reverse. The returned slice is a copy.
func (idx *Index) Ordered(direction Direction) []domain.ChapterDescriptor {
	out := make([]domain.ChapterDescriptor, len(idx.ascending))
	copy(out, idx.ascending)
	if direction == DirectionReverse {
		for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
			out[i], out[j] = out[j], out[i]
		}
	}
	return out
}

// Pages returns the chapter's page numbers in ascending order.
// Page order within a chapter never follows the traversal direction:
// reversing it would scramble the memorization sequence, so only the
// chapter order flips.
func (idx *Index) Pages(chapter domain.ChapterDescriptor) []int {
	pages := make([]int, 0, chapter.PageCount)
	for page := chapter.StartPage; page <= chapter.EndPage; page++ {
		pages = append(pages, page)
	}
	return pages
}

// ByOrdinal returns the chapter with the given ordinal.
// Returns ErrChapterNotFound if no such chapter exists.
func (idx *Index) ByOrdinal(ordinal int) (domain.ChapterDescriptor, error) {
	chapter, ok := idx.byOrdinal[ordinal]
	if !ok {
		return domain.ChapterDescriptor{}, fmt.Errorf("%w: ordinal %d", ErrChapterNotFound, ordinal)
	}
	return chapter, nil
}

// Contains reports whether the given page lies within the given chapter's
// page range.
func (idx *Index) Contains(ordinal, page int) bool {
	chapter, ok := idx.byOrdinal[ordinal]
	if !ok {
		return false
	}
	return page >= chapter.StartPage && page <= chapter.EndPage
}

// TotalPages returns the page count of the whole corpus.
func (idx *Index) TotalPages() int {
	total := 0
	for _, chapter := range idx.ascending {
		total += chapter.PageCount
	}
	return total
}
