package store

import (
	"context"
	"database/sql"

	"github.com/phrazzld/hifz-api/internal/domain"
)

// MasteryStore defines the interface for per-page mastery persistence.
// Records are unique per (tenant, chapter, page); writes are upserts so a
// tenant re-grading a page updates the existing row in place.
type MasteryStore interface {
	// Upsert inserts the record or, when the tenant already has a record for
	// the same chapter and page, updates its classification and timestamp.
	// The record must be valid according to domain validation rules.
	Upsert(ctx context.Context, record *domain.MasteryRecord) error

	// BatchUpsert applies Upsert semantics to every record in one pass.
	//
	// IMPORTANT: This method MUST be run within a transaction for atomicity.
	// Use WithTx together with store.RunInTransaction; calling it outside a
	// transaction may leave a partial batch applied on failure.
	BatchUpsert(ctx context.Context, records []*domain.MasteryRecord) error

	// GetAllByTenant retrieves every mastery record for a tenant, ordered by
	// chapter then page. A tenant with no records yields an empty slice.
	GetAllByTenant(ctx context.Context, tenantID string) ([]*domain.MasteryRecord, error)

	// GetByTenantChapter retrieves a tenant's records for one chapter,
	// ordered by page.
	GetByTenantChapter(ctx context.Context, tenantID string, chapterOrdinal int) ([]*domain.MasteryRecord, error)

	// CountByClassification returns the number of records a tenant holds in
	// each classification. Classifications with no records are absent from
	// the map.
	CountByClassification(ctx context.Context, tenantID string) (map[domain.Classification]int, error)

	// ListRecent retrieves a tenant's most recently updated records, newest
	// first, capped at limit.
	ListRecent(ctx context.Context, tenantID string, limit int) ([]*domain.MasteryRecord, error)

	// WithTx returns a new MasteryStore instance that uses the provided
	// transaction. The transaction is created and managed by the caller,
	// typically through store.RunInTransaction.
	WithTx(tx *sql.Tx) MasteryStore
}
