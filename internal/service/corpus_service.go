package service

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/phrazzld/hifz-api/internal/domain"
	"github.com/phrazzld/hifz-api/internal/events"
	"github.com/phrazzld/hifz-api/internal/platform/logger"
	"github.com/phrazzld/hifz-api/internal/store"
)

// CorpusService provides read access to the chapter corpus and the import
// operation that replaces it.
type CorpusService interface {
	// ListChapters retrieves every chapter ordered by ordinal.
	ListChapters(ctx context.Context) ([]domain.ChapterDescriptor, error)

	// GetChapter retrieves one chapter by ordinal.
	// Returns store.ErrChapterNotFound if it does not exist.
	GetChapter(ctx context.Context, ordinal int) (*domain.ChapterDescriptor, error)

	// Import atomically replaces the stored corpus with the given
	// descriptors.
	Import(ctx context.Context, chapters []domain.ChapterDescriptor) error
}

// corpusServiceImpl implements the CorpusService interface.
type corpusServiceImpl struct {
	chapterRepo ChapterRepository
	emitter     events.Emitter
	logger      *slog.Logger
}

// CorpusServiceOption configures optional corpus service behavior.
type CorpusServiceOption func(*corpusServiceImpl)

// WithCorpusEvents publishes domain events through the given emitter
// after successful imports.
func WithCorpusEvents(emitter events.Emitter) CorpusServiceOption {
	return func(s *corpusServiceImpl) {
		s.emitter = emitter
	}
}

// NewCorpusService creates a new CorpusService.
// It returns an error if the chapter repository is nil.
func NewCorpusService(
	chapterRepo ChapterRepository,
	log *slog.Logger,
	opts ...CorpusServiceOption,
) (CorpusService, error) {
	if chapterRepo == nil {
		return nil, fmt.Errorf("chapterRepo cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}

	svc := &corpusServiceImpl{
		chapterRepo: chapterRepo,
		logger:      log.With(slog.String("component", "corpus_service")),
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc, nil
}

// ListChapters implements CorpusService.ListChapters
func (s *corpusServiceImpl) ListChapters(ctx context.Context) ([]domain.ChapterDescriptor, error) {
	return s.chapterRepo.GetAll(ctx)
}

// GetChapter implements CorpusService.GetChapter
func (s *corpusServiceImpl) GetChapter(ctx context.Context, ordinal int) (*domain.ChapterDescriptor, error) {
	chapter, err := s.chapterRepo.GetByOrdinal(ctx, ordinal)
	if err != nil {
		if store.IsNotFoundError(err) {
			return nil, store.ErrChapterNotFound
		}
		return nil, err
	}
	return chapter, nil
}

// Import implements CorpusService.Import
func (s *corpusServiceImpl) Import(ctx context.Context, chapters []domain.ChapterDescriptor) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if len(chapters) == 0 {
		return ErrCorpusEmpty
	}

	err := store.RunInTransaction(ctx, s.chapterRepo.DB(), func(ctx context.Context, tx *sql.Tx) error {
		return s.chapterRepo.WithTx(tx).ReplaceAll(ctx, chapters)
	})
	if err != nil {
		log.Error("failed to import corpus",
			slog.Int("chapters", len(chapters)),
			slog.String("error", err.Error()))
		return err
	}

	log.Info("imported corpus", slog.Int("chapters", len(chapters)))
	if s.emitter != nil {
		event, eventErr := events.NewEvent(events.TypeCorpusImported, events.CorpusImportedPayload{
			ChapterCount: len(chapters),
		})
		if eventErr == nil {
			if emitErr := s.emitter.Emit(ctx, event); emitErr != nil {
				log.Warn("failed to emit event",
					slog.String("event_type", events.TypeCorpusImported),
					slog.String("error", emitErr.Error()))
			}
		}
	}
	return nil
}
