package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Classification is the mastery level recorded for one page.
type Classification string

// The four mastery levels.
const (
	ClassificationPerfect      Classification = "perfect"
	ClassificationMedium       Classification = "medium"
	ClassificationBad          Classification = "bad"
	ClassificationNotMemorized Classification = "not_memorized"
)

// Mastery-specific validation errors
var (
	// ErrMasteryTenantEmpty is returned when a mastery record has no tenant.
	ErrMasteryTenantEmpty = errors.New("mastery record tenant cannot be empty")

	// ErrMasteryChapterInvalid is returned when a mastery record's chapter
	// ordinal is not positive.
	ErrMasteryChapterInvalid = errors.New("mastery record chapter ordinal must be positive")

	// ErrMasteryPageInvalid is returned when a mastery record's page number
	// is not positive.
	ErrMasteryPageInvalid = errors.New("mastery record page number must be positive")

	// ErrClassificationInvalid is returned when a classification value is
	// not one of the four known levels.
	ErrClassificationInvalid = errors.New(
		"classification must be one of: perfect, medium, bad, not_memorized")
)

// Validate checks that the classification is one of the known levels.
func (c Classification) Validate() error {
	switch c {
	case ClassificationPerfect, ClassificationMedium, ClassificationBad, ClassificationNotMemorized:
		return nil
	default:
		return ErrClassificationInvalid
	}
}

// Memorized reports whether the classification counts as learned material.
// Pages classified not_memorized are eligible for new-material assignment;
// everything else belongs to the revision pools.
func (c Classification) Memorized() bool {
	return c == ClassificationPerfect || c == ClassificationMedium || c == ClassificationBad
}

// MasteryRecord is the per-page mastery classification for one tenant.
// Records are keyed uniquely per (tenant, chapter, page); the external
// status-update surface is the only writer. Schedule generation reads
// them into an in-memory working copy and never writes back.
type MasteryRecord struct {
	ID             uuid.UUID      `json:"id"`
	TenantID       string         `json:"tenant_id"`
	ChapterOrdinal int            `json:"chapter_ordinal"`
	PageNumber     int            `json:"page_number"`
	Classification Classification `json:"classification"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
}

// NewMasteryRecord creates a new MasteryRecord with a fresh ID and
// creation/update timestamps. Returns an error if validation fails.
func NewMasteryRecord(
	tenantID string,
	chapterOrdinal, pageNumber int,
	classification Classification,
) (*MasteryRecord, error) {
	now := time.Now().UTC()
	record := &MasteryRecord{
		ID:             uuid.New(),
		TenantID:       tenantID,
		ChapterOrdinal: chapterOrdinal,
		PageNumber:     pageNumber,
		Classification: classification,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := record.Validate(); err != nil {
		return nil, err
	}

	return record, nil
}

// Validate checks if the MasteryRecord has valid data.
// Returns an error if any field fails validation.
func (r *MasteryRecord) Validate() error {
	if r.TenantID == "" {
		return ErrMasteryTenantEmpty
	}

	if r.ChapterOrdinal < 1 {
		return ErrMasteryChapterInvalid
	}

	if r.PageNumber < 1 {
		return ErrMasteryPageInvalid
	}

	return r.Classification.Validate()
}
