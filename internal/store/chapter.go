package store

import (
	"context"
	"database/sql"

	"github.com/phrazzld/hifz-api/internal/domain"
)

// ChapterStore defines the interface for corpus chapter persistence.
type ChapterStore interface {
	// ReplaceAll atomically replaces the stored corpus with the given
	// descriptors. The descriptors must already be validated; the full set
	// is written in one pass so readers never observe a partial corpus.
	//
	// IMPORTANT: This method MUST be run within a transaction. Use WithTx
	// together with store.RunInTransaction:
	//
	//   err := store.RunInTransaction(ctx, db, func(ctx context.Context, tx *sql.Tx) error {
	//       return chapterStore.WithTx(tx).ReplaceAll(ctx, chapters)
	//   })
	ReplaceAll(ctx context.Context, chapters []domain.ChapterDescriptor) error

	// GetAll retrieves every chapter descriptor ordered by ordinal.
	// An empty corpus yields an empty slice, not an error.
	GetAll(ctx context.Context) ([]domain.ChapterDescriptor, error)

	// GetByOrdinal retrieves a single chapter descriptor.
	// Returns ErrChapterNotFound if no chapter has the given ordinal.
	GetByOrdinal(ctx context.Context, ordinal int) (*domain.ChapterDescriptor, error)

	// WithTx returns a new ChapterStore instance that uses the provided
	// transaction. The transaction is created and managed by the caller,
	// typically through store.RunInTransaction.
	WithTx(tx *sql.Tx) ChapterStore
}
