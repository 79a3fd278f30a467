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

// MasteryServiceError is a custom error type for mastery service errors.
type MasteryServiceError struct {
	Operation string
	Message   string
	Err       error
}

// Error implements the error interface for MasteryServiceError.
func (e *MasteryServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("mastery service %s failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("mastery service %s failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *MasteryServiceError) Unwrap() error {
	return e.Err
}

// NewMasteryServiceError creates a new MasteryServiceError.
func NewMasteryServiceError(operation, message string, err error) *MasteryServiceError {
	return &MasteryServiceError{
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}

// PageStatus identifies one page and the classification to record for it.
type PageStatus struct {
	ChapterOrdinal int
	PageNumber     int
	Classification domain.Classification
}

// MasteryService provides per-page mastery tracking operations.
type MasteryService interface {
	// SetStatus records or updates the classification of a single page.
	// The chapter must exist and the page must fall inside its page range.
	SetStatus(ctx context.Context, tenantID string, status PageStatus) (*domain.MasteryRecord, error)

	// SetStatusBatch records or updates many pages atomically. The whole
	// batch is validated against the corpus before any write happens.
	SetStatusBatch(ctx context.Context, tenantID string, statuses []PageStatus) ([]*domain.MasteryRecord, error)

	// GetAll retrieves every mastery record for the tenant, ordered by
	// chapter then page.
	GetAll(ctx context.Context, tenantID string) ([]*domain.MasteryRecord, error)

	// GetByChapter retrieves the tenant's records for one chapter.
	GetByChapter(ctx context.Context, tenantID string, chapterOrdinal int) ([]*domain.MasteryRecord, error)
}

// masteryServiceImpl implements the MasteryService interface.
type masteryServiceImpl struct {
	masteryRepo MasteryRepository
	chapterRepo ChapterRepository
	emitter     events.Emitter
	logger      *slog.Logger
}

// MasteryServiceOption configures optional mastery service behavior.
type MasteryServiceOption func(*masteryServiceImpl)

// WithMasteryEvents publishes domain events through the given emitter
// after successful state changes.
func WithMasteryEvents(emitter events.Emitter) MasteryServiceOption {
	return func(s *masteryServiceImpl) {
		s.emitter = emitter
	}
}

// NewMasteryService creates a new MasteryService.
// It returns an error if any of the required dependencies are nil.
func NewMasteryService(
	masteryRepo MasteryRepository,
	chapterRepo ChapterRepository,
	log *slog.Logger,
	opts ...MasteryServiceOption,
) (MasteryService, error) {
	if masteryRepo == nil {
		return nil, fmt.Errorf("masteryRepo cannot be nil")
	}
	if chapterRepo == nil {
		return nil, fmt.Errorf("chapterRepo cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}

	svc := &masteryServiceImpl{
		masteryRepo: masteryRepo,
		chapterRepo: chapterRepo,
		logger:      log.With(slog.String("component", "mastery_service")),
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc, nil
}

// emit publishes a domain event when an emitter is configured. Emission
// failures are logged and never fail the operation that triggered them.
func (s *masteryServiceImpl) emit(ctx context.Context, eventType string, payload interface{}) {
	if s.emitter == nil {
		return
	}
	event, err := events.NewEvent(eventType, payload)
	if err != nil {
		s.logger.Warn("failed to build event",
			slog.String("event_type", eventType),
			slog.String("error", err.Error()))
		return
	}
	if err := s.emitter.Emit(ctx, event); err != nil {
		s.logger.Warn("failed to emit event",
			slog.String("event_type", eventType),
			slog.String("error", err.Error()))
	}
}

// SetStatus implements MasteryService.SetStatus
func (s *masteryServiceImpl) SetStatus(
	ctx context.Context,
	tenantID string,
	status PageStatus,
) (*domain.MasteryRecord, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	record, err := s.buildRecord(ctx, tenantID, status)
	if err != nil {
		return nil, err
	}

	if err := s.masteryRepo.Upsert(ctx, record); err != nil {
		log.Error("failed to upsert mastery record",
			slog.String("tenant_id", tenantID),
			slog.Int("chapter", status.ChapterOrdinal),
			slog.Int("page", status.PageNumber),
			slog.String("error", err.Error()))
		return nil, NewMasteryServiceError("set_status", "failed to save record", err)
	}

	log.Debug("recorded page status",
		slog.String("tenant_id", tenantID),
		slog.Int("chapter", status.ChapterOrdinal),
		slog.Int("page", status.PageNumber),
		slog.String("classification", string(status.Classification)))
	s.emit(ctx, events.TypeStatusRecorded, events.StatusRecordedPayload{
		TenantID: tenantID,
		Count:    1,
	})
	return record, nil
}

// SetStatusBatch implements MasteryService.SetStatusBatch
func (s *masteryServiceImpl) SetStatusBatch(
	ctx context.Context,
	tenantID string,
	statuses []PageStatus,
) ([]*domain.MasteryRecord, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if len(statuses) == 0 {
		return []*domain.MasteryRecord{}, nil
	}

	// Validate the entire batch up front so a bad entry cannot leave a
	// partial batch behind.
	records := make([]*domain.MasteryRecord, 0, len(statuses))
	for _, status := range statuses {
		record, err := s.buildRecord(ctx, tenantID, status)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}

	err := store.RunInTransaction(ctx, s.masteryRepo.DB(), func(ctx context.Context, tx *sql.Tx) error {
		return s.masteryRepo.WithTx(tx).BatchUpsert(ctx, records)
	})
	if err != nil {
		log.Error("failed to batch upsert mastery records",
			slog.String("tenant_id", tenantID),
			slog.Int("count", len(records)),
			slog.String("error", err.Error()))
		return nil, NewMasteryServiceError("set_status_batch", "failed to save batch", err)
	}

	log.Info("recorded page status batch",
		slog.String("tenant_id", tenantID),
		slog.Int("count", len(records)))
	s.emit(ctx, events.TypeStatusRecorded, events.StatusRecordedPayload{
		TenantID: tenantID,
		Count:    len(records),
	})
	return records, nil
}

// GetAll implements MasteryService.GetAll
func (s *masteryServiceImpl) GetAll(ctx context.Context, tenantID string) ([]*domain.MasteryRecord, error) {
	records, err := s.masteryRepo.GetAllByTenant(ctx, tenantID)
	if err != nil {
		return nil, NewMasteryServiceError("get_all", "failed to load records", err)
	}
	return records, nil
}

// GetByChapter implements MasteryService.GetByChapter
func (s *masteryServiceImpl) GetByChapter(
	ctx context.Context,
	tenantID string,
	chapterOrdinal int,
) ([]*domain.MasteryRecord, error) {
	if _, err := s.chapterRepo.GetByOrdinal(ctx, chapterOrdinal); err != nil {
		if store.IsNotFoundError(err) {
			return nil, store.ErrChapterNotFound
		}
		return nil, NewMasteryServiceError("get_by_chapter", "failed to load chapter", err)
	}

	records, err := s.masteryRepo.GetByTenantChapter(ctx, tenantID, chapterOrdinal)
	if err != nil {
		return nil, NewMasteryServiceError("get_by_chapter", "failed to load records", err)
	}
	return records, nil
}

// buildRecord validates a page status against the corpus and turns it into
// a domain record.
func (s *masteryServiceImpl) buildRecord(
	ctx context.Context,
	tenantID string,
	status PageStatus,
) (*domain.MasteryRecord, error) {
	chapter, err := s.chapterRepo.GetByOrdinal(ctx, status.ChapterOrdinal)
	if err != nil {
		if store.IsNotFoundError(err) {
			return nil, store.ErrChapterNotFound
		}
		return nil, NewMasteryServiceError("set_status", "failed to load chapter", err)
	}

	if status.PageNumber < chapter.StartPage || status.PageNumber > chapter.EndPage {
		return nil, fmt.Errorf("%w: page %d not in chapter %d (pages %d-%d)",
			ErrPageOutOfRange, status.PageNumber, chapter.Ordinal, chapter.StartPage, chapter.EndPage)
	}

	return domain.NewMasteryRecord(tenantID, status.ChapterOrdinal, status.PageNumber, status.Classification)
}
