package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/phrazzld/hifz-api/internal/domain"
	"github.com/phrazzld/hifz-api/internal/store"
)

// PostgresChapterStore implements the store.ChapterStore interface
// using a PostgreSQL database as the storage backend.
type PostgresChapterStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresChapterStore creates a new PostgreSQL implementation of the
// ChapterStore interface. It accepts a database connection or transaction
// that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresChapterStore(db store.DBTX, logger *slog.Logger) *PostgresChapterStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresChapterStore{
		db:     db,
		logger: logger.With(slog.String("component", "chapter_store")),
	}
}

// Ensure PostgresChapterStore implements store.ChapterStore interface
var _ store.ChapterStore = (*PostgresChapterStore)(nil)

// ReplaceAll implements store.ChapterStore.ReplaceAll
// It truncates the chapters table and inserts the given descriptors.
// Must be called within a transaction so readers never see a partial corpus.
func (s *PostgresChapterStore) ReplaceAll(ctx context.Context, chapters []domain.ChapterDescriptor) error {
	for i := range chapters {
		if err := chapters[i].Validate(); err != nil {
			return fmt.Errorf("%w: chapter %d: %v", store.ErrInvalidEntity, chapters[i].Ordinal, err)
		}
	}

	if _, err := s.db.ExecContext(ctx, "DELETE FROM chapters"); err != nil {
		s.logger.Error("failed to clear chapters", slog.String("error", err.Error()))
		return MapError(err)
	}

	query := `
		INSERT INTO chapters (
			ordinal, name_primary, name_alternate, name_transliteration,
			start_page, end_page, page_count, verse_count, origin_category
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	for i := range chapters {
		c := &chapters[i]
		_, err := s.db.ExecContext(ctx, query,
			c.Ordinal,
			c.NamePrimary,
			c.NameAlternate,
			c.NameTransliteration,
			c.StartPage,
			c.EndPage,
			c.PageCount,
			c.VerseCount,
			c.OriginCategory,
		)
		if err != nil {
			s.logger.Error("failed to insert chapter",
				slog.Int("ordinal", c.Ordinal),
				slog.String("error", err.Error()))
			return MapError(err)
		}
	}

	s.logger.Debug("replaced corpus", slog.Int("chapters", len(chapters)))
	return nil
}

// GetAll implements store.ChapterStore.GetAll
// It retrieves every chapter descriptor ordered by ordinal.
func (s *PostgresChapterStore) GetAll(ctx context.Context) ([]domain.ChapterDescriptor, error) {
	query := `
		SELECT ordinal, name_primary, name_alternate, name_transliteration,
		       start_page, end_page, page_count, verse_count, origin_category
		FROM chapters
		ORDER BY ordinal ASC
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		s.logger.Error("failed to query chapters", slog.String("error", err.Error()))
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	chapters := []domain.ChapterDescriptor{}
	for rows.Next() {
		var c domain.ChapterDescriptor
		if err := rows.Scan(
			&c.Ordinal,
			&c.NamePrimary,
			&c.NameAlternate,
			&c.NameTransliteration,
			&c.StartPage,
			&c.EndPage,
			&c.PageCount,
			&c.VerseCount,
			&c.OriginCategory,
		); err != nil {
			return nil, fmt.Errorf("failed to scan chapter row: %w", err)
		}
		chapters = append(chapters, c)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}

	return chapters, nil
}

// GetByOrdinal implements store.ChapterStore.GetByOrdinal
// Returns store.ErrChapterNotFound if no chapter has the given ordinal.
func (s *PostgresChapterStore) GetByOrdinal(ctx context.Context, ordinal int) (*domain.ChapterDescriptor, error) {
	query := `
		SELECT ordinal, name_primary, name_alternate, name_transliteration,
		       start_page, end_page, page_count, verse_count, origin_category
		FROM chapters
		WHERE ordinal = $1
	`

	var c domain.ChapterDescriptor
	err := s.db.QueryRowContext(ctx, query, ordinal).Scan(
		&c.Ordinal,
		&c.NamePrimary,
		&c.NameAlternate,
		&c.NameTransliteration,
		&c.StartPage,
		&c.EndPage,
		&c.PageCount,
		&c.VerseCount,
		&c.OriginCategory,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, store.ErrChapterNotFound
		}
		s.logger.Error("failed to get chapter",
			slog.Int("ordinal", ordinal),
			slog.String("error", err.Error()))
		return nil, MapError(err)
	}

	return &c, nil
}

// WithTx implements store.ChapterStore.WithTx
// It returns a new ChapterStore instance backed by the given transaction.
func (s *PostgresChapterStore) WithTx(tx *sql.Tx) store.ChapterStore {
	return &PostgresChapterStore{
		db:     tx,
		logger: s.logger,
	}
}
