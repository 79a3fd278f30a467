package scheduler

import (
	"github.com/phrazzld/hifz-api/internal/corpus"
)

// NewPage is one not-yet-mastered page in traversal order, carrying its
// chapter's display name for assignment labels.
type NewPage struct {
	ChapterOrdinal int
	PageNumber     int
	ChapterName    string
}

// Cursor walks the complete ordered sequence of unlearned pages exactly
// once per generation run. The sequence is built up front from the corpus
// and the snapshot's membership set; the cursor then advances
// monotonically and is never rebuilt mid-run, so pages consumed as new
// material can never be produced again.
type Cursor struct {
	pages []NewPage
	pos   int
}

// NewCursor builds the unlearned-page sequence by visiting chapters in
// traversal-direction order and, within each chapter, pages in ascending
// order. Pages already memorized in the snapshot are skipped, which also
// skips fully-learned chapters entirely.
func NewCursor(index *corpus.Index, direction corpus.Direction, snapshot *Snapshot) *Cursor {
	var pages []NewPage
	for _, chapter := range index.Ordered(direction) {
		for _, page := range index.Pages(chapter) {
			if snapshot.Contains(chapter.Ordinal, page) {
				continue
			}
			pages = append(pages, NewPage{
				ChapterOrdinal: chapter.Ordinal,
				PageNumber:     page,
				ChapterName:    chapter.NamePrimary,
			})
		}
	}
	return &Cursor{pages: pages}
}

// Next consumes and returns up to n pages. Once the sequence is exhausted
// it returns nil for all further calls.
func (c *Cursor) Next(n int) []NewPage {
	if n <= 0 || c.pos >= len(c.pages) {
		return nil
	}
	end := c.pos + n
	if end > len(c.pages) {
		end = len(c.pages)
	}
	out := c.pages[c.pos:end]
	c.pos = end
	return out
}

// Remaining returns how many unlearned pages are left ahead of the cursor.
func (c *Cursor) Remaining() int {
	return len(c.pages) - c.pos
}

// Exhausted reports whether the cursor has consumed every unlearned page.
func (c *Cursor) Exhausted() bool {
	return c.pos >= len(c.pages)
}
