package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/phrazzld/hifz-api/internal/domain"
	"github.com/phrazzld/hifz-api/internal/store"
)

// PostgresMasteryStore implements the store.MasteryStore interface
// using a PostgreSQL database as the storage backend.
type PostgresMasteryStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresMasteryStore creates a new PostgreSQL implementation of the
// MasteryStore interface. It accepts a database connection or transaction
// that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresMasteryStore(db store.DBTX, logger *slog.Logger) *PostgresMasteryStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresMasteryStore{
		db:     db,
		logger: logger.With(slog.String("component", "mastery_store")),
	}
}

// Ensure PostgresMasteryStore implements store.MasteryStore interface
var _ store.MasteryStore = (*PostgresMasteryStore)(nil)

// upsertQuery relies on the (tenant_id, chapter_ordinal, page_number) unique
// constraint: a conflicting insert becomes an update of classification and
// updated_at, leaving id and created_at from the original row intact.
const upsertQuery = `
	INSERT INTO mastery_statuses (
		id, tenant_id, chapter_ordinal, page_number, classification, created_at, updated_at
	)
	VALUES ($1, $2, $3, $4, $5, $6, $7)
	ON CONFLICT (tenant_id, chapter_ordinal, page_number)
	DO UPDATE SET classification = EXCLUDED.classification,
	              updated_at = EXCLUDED.updated_at
`

// Upsert implements store.MasteryStore.Upsert
func (s *PostgresMasteryStore) Upsert(ctx context.Context, record *domain.MasteryRecord) error {
	if err := record.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	_, err := s.db.ExecContext(ctx, upsertQuery,
		record.ID,
		record.TenantID,
		record.ChapterOrdinal,
		record.PageNumber,
		record.Classification,
		record.CreatedAt,
		record.UpdatedAt,
	)
	if err != nil {
		s.logger.Error("failed to upsert mastery record",
			slog.String("tenant_id", record.TenantID),
			slog.Int("chapter", record.ChapterOrdinal),
			slog.Int("page", record.PageNumber),
			slog.String("error", err.Error()))
		return MapError(err)
	}

	return nil
}

// BatchUpsert implements store.MasteryStore.BatchUpsert
// Must be called within a transaction so the batch applies atomically.
func (s *PostgresMasteryStore) BatchUpsert(ctx context.Context, records []*domain.MasteryRecord) error {
	for _, record := range records {
		if err := record.Validate(); err != nil {
			return fmt.Errorf("%w: chapter %d page %d: %v",
				store.ErrInvalidEntity, record.ChapterOrdinal, record.PageNumber, err)
		}
	}

	stmt, err := s.db.PrepareContext(ctx, upsertQuery)
	if err != nil {
		return MapError(err)
	}
	defer func() { _ = stmt.Close() }()

	for _, record := range records {
		_, err := stmt.ExecContext(ctx,
			record.ID,
			record.TenantID,
			record.ChapterOrdinal,
			record.PageNumber,
			record.Classification,
			record.CreatedAt,
			record.UpdatedAt,
		)
		if err != nil {
			s.logger.Error("failed to upsert mastery record in batch",
				slog.String("tenant_id", record.TenantID),
				slog.Int("chapter", record.ChapterOrdinal),
				slog.Int("page", record.PageNumber),
				slog.String("error", err.Error()))
			return MapError(err)
		}
	}

	s.logger.Debug("batch upsert complete", slog.Int("records", len(records)))
	return nil
}

// GetAllByTenant implements store.MasteryStore.GetAllByTenant
func (s *PostgresMasteryStore) GetAllByTenant(ctx context.Context, tenantID string) ([]*domain.MasteryRecord, error) {
	query := `
		SELECT id, tenant_id, chapter_ordinal, page_number, classification, created_at, updated_at
		FROM mastery_statuses
		WHERE tenant_id = $1
		ORDER BY chapter_ordinal ASC, page_number ASC
	`
	return s.queryRecords(ctx, query, tenantID)
}

// GetByTenantChapter implements store.MasteryStore.GetByTenantChapter
func (s *PostgresMasteryStore) GetByTenantChapter(
	ctx context.Context,
	tenantID string,
	chapterOrdinal int,
) ([]*domain.MasteryRecord, error) {
	query := `
		SELECT id, tenant_id, chapter_ordinal, page_number, classification, created_at, updated_at
		FROM mastery_statuses
		WHERE tenant_id = $1 AND chapter_ordinal = $2
		ORDER BY page_number ASC
	`
	return s.queryRecords(ctx, query, tenantID, chapterOrdinal)
}

// ListRecent implements store.MasteryStore.ListRecent
func (s *PostgresMasteryStore) ListRecent(
	ctx context.Context,
	tenantID string,
	limit int,
) ([]*domain.MasteryRecord, error) {
	query := `
		SELECT id, tenant_id, chapter_ordinal, page_number, classification, created_at, updated_at
		FROM mastery_statuses
		WHERE tenant_id = $1
		ORDER BY updated_at DESC
		LIMIT $2
	`
	return s.queryRecords(ctx, query, tenantID, limit)
}

// CountByClassification implements store.MasteryStore.CountByClassification
func (s *PostgresMasteryStore) CountByClassification(
	ctx context.Context,
	tenantID string,
) (map[domain.Classification]int, error) {
	query := `
		SELECT classification, COUNT(*)
		FROM mastery_statuses
		WHERE tenant_id = $1
		GROUP BY classification
	`

	rows, err := s.db.QueryContext(ctx, query, tenantID)
	if err != nil {
		s.logger.Error("failed to count mastery records",
			slog.String("tenant_id", tenantID),
			slog.String("error", err.Error()))
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	counts := make(map[domain.Classification]int)
	for rows.Next() {
		var classification domain.Classification
		var count int
		if err := rows.Scan(&classification, &count); err != nil {
			return nil, fmt.Errorf("failed to scan count row: %w", err)
		}
		counts[classification] = count
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}

	return counts, nil
}

// queryRecords runs a query whose columns match the mastery_statuses row
// layout and scans the results into domain records.
func (s *PostgresMasteryStore) queryRecords(
	ctx context.Context,
	query string,
	args ...any,
) ([]*domain.MasteryRecord, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		s.logger.Error("failed to query mastery records", slog.String("error", err.Error()))
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	records := []*domain.MasteryRecord{}
	for rows.Next() {
		var r domain.MasteryRecord
		if err := rows.Scan(
			&r.ID,
			&r.TenantID,
			&r.ChapterOrdinal,
			&r.PageNumber,
			&r.Classification,
			&r.CreatedAt,
			&r.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan mastery row: %w", err)
		}
		records = append(records, &r)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}

	return records, nil
}

// WithTx implements store.MasteryStore.WithTx
// It returns a new MasteryStore instance backed by the given transaction.
func (s *PostgresMasteryStore) WithTx(tx *sql.Tx) store.MasteryStore {
	return &PostgresMasteryStore{
		db:     tx,
		logger: s.logger,
	}
}
