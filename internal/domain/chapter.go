package domain

import "errors"

// Chapter-specific validation errors
var (
	// ErrChapterOrdinalInvalid is returned when a chapter's ordinal is not positive.
	ErrChapterOrdinalInvalid = errors.New("chapter ordinal must be positive")

	// ErrChapterNameEmpty is returned when a chapter has no primary name.
	ErrChapterNameEmpty = errors.New("chapter primary name cannot be empty")

	// ErrChapterPageRangeInvalid is returned when a chapter's page range is
	// empty or inverted.
	ErrChapterPageRangeInvalid = errors.New("chapter start page must be positive and not exceed end page")

	// ErrChapterPageCountMismatch is returned when a chapter's page count
	// disagrees with its page range.
	ErrChapterPageCountMismatch = errors.New("chapter page count must equal endPage - startPage + 1")
)

// Origin categories for chapters. The source corpus distinguishes two.
const (
	OriginMeccan  = "meccan"
	OriginMedinan = "medinan"
)

// ChapterDescriptor describes one ordered unit of the corpus with its
// contiguous page range. The full descriptor set is loaded once at startup
// and never mutated at runtime.
//
// PageCount is authoritative and always equals EndPage - StartPage + 1;
// import code derives EndPage from the source's length column so the
// invariant holds even when source data carries an inconsistent
// secondary length field.
type ChapterDescriptor struct {
	Ordinal             int    `json:"ordinal"`
	NamePrimary         string `json:"name_primary"`
	NameAlternate       string `json:"name_alternate,omitempty"`
	NameTransliteration string `json:"name_transliteration,omitempty"`
	StartPage           int    `json:"start_page"`
	EndPage             int    `json:"end_page"`
	PageCount           int    `json:"page_count"`
	VerseCount          int    `json:"verse_count,omitempty"`
	OriginCategory      string `json:"origin_category,omitempty"`
}

// Validate checks if the ChapterDescriptor has valid data.
// Returns an error if any field fails validation.
func (c ChapterDescriptor) Validate() error {
	if c.Ordinal < 1 {
		return ErrChapterOrdinalInvalid
	}

	if c.NamePrimary == "" {
		return ErrChapterNameEmpty
	}

	if c.StartPage < 1 || c.StartPage > c.EndPage {
		return ErrChapterPageRangeInvalid
	}

	if c.PageCount != c.EndPage-c.StartPage+1 {
		return ErrChapterPageCountMismatch
	}

	return nil
}
