package service

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/phrazzld/hifz-api/internal/domain"
	"github.com/phrazzld/hifz-api/internal/store"
)

// NewScheduleRepositoryAdapter creates a new adapter that allows a
// store.ScheduleStore to be used where a ScheduleRepository is expected.
func NewScheduleRepositoryAdapter(scheduleStore store.ScheduleStore, db *sql.DB) ScheduleRepository {
	return &scheduleRepositoryAdapter{
		scheduleStore: scheduleStore,
		db:            db,
	}
}

type scheduleRepositoryAdapter struct {
	scheduleStore store.ScheduleStore
	db            *sql.DB
}

func (a *scheduleRepositoryAdapter) Create(ctx context.Context, plan *domain.SchedulePlan) error {
	return a.scheduleStore.Create(ctx, plan)
}

func (a *scheduleRepositoryAdapter) GetByID(ctx context.Context, id uuid.UUID) (*domain.SchedulePlan, error) {
	return a.scheduleStore.GetByID(ctx, id)
}

func (a *scheduleRepositoryAdapter) GetByIDForUpdate(
	ctx context.Context,
	id uuid.UUID,
) (*domain.SchedulePlan, error) {
	return a.scheduleStore.GetByIDForUpdate(ctx, id)
}

func (a *scheduleRepositoryAdapter) ListByTenant(ctx context.Context, tenantID string) ([]*domain.SchedulePlan, error) {
	return a.scheduleStore.ListByTenant(ctx, tenantID)
}

func (a *scheduleRepositoryAdapter) ListActiveOn(
	ctx context.Context,
	tenantID string,
	date time.Time,
) ([]*domain.SchedulePlan, error) {
	return a.scheduleStore.ListActiveOn(ctx, tenantID, date)
}

func (a *scheduleRepositoryAdapter) Update(ctx context.Context, plan *domain.SchedulePlan) error {
	return a.scheduleStore.Update(ctx, plan)
}

func (a *scheduleRepositoryAdapter) Delete(ctx context.Context, id uuid.UUID) error {
	return a.scheduleStore.Delete(ctx, id)
}

func (a *scheduleRepositoryAdapter) WithTx(tx *sql.Tx) ScheduleRepository {
	return &scheduleRepositoryAdapter{
		scheduleStore: a.scheduleStore.WithTx(tx),
		db:            a.db,
	}
}

func (a *scheduleRepositoryAdapter) DB() *sql.DB {
	return a.db
}

// NewMasteryRepositoryAdapter creates a new adapter that allows a
// store.MasteryStore to be used where a MasteryRepository is expected.
func NewMasteryRepositoryAdapter(masteryStore store.MasteryStore, db *sql.DB) MasteryRepository {
	return &masteryRepositoryAdapter{
		masteryStore: masteryStore,
		db:           db,
	}
}

type masteryRepositoryAdapter struct {
	masteryStore store.MasteryStore
	db           *sql.DB
}

func (a *masteryRepositoryAdapter) Upsert(ctx context.Context, record *domain.MasteryRecord) error {
	return a.masteryStore.Upsert(ctx, record)
}

func (a *masteryRepositoryAdapter) BatchUpsert(ctx context.Context, records []*domain.MasteryRecord) error {
	return a.masteryStore.BatchUpsert(ctx, records)
}

func (a *masteryRepositoryAdapter) GetAllByTenant(
	ctx context.Context,
	tenantID string,
) ([]*domain.MasteryRecord, error) {
	return a.masteryStore.GetAllByTenant(ctx, tenantID)
}

func (a *masteryRepositoryAdapter) GetByTenantChapter(
	ctx context.Context,
	tenantID string,
	chapterOrdinal int,
) ([]*domain.MasteryRecord, error) {
	return a.masteryStore.GetByTenantChapter(ctx, tenantID, chapterOrdinal)
}

func (a *masteryRepositoryAdapter) CountByClassification(
	ctx context.Context,
	tenantID string,
) (map[domain.Classification]int, error) {
	return a.masteryStore.CountByClassification(ctx, tenantID)
}

func (a *masteryRepositoryAdapter) ListRecent(
	ctx context.Context,
	tenantID string,
	limit int,
) ([]*domain.MasteryRecord, error) {
	return a.masteryStore.ListRecent(ctx, tenantID, limit)
}

func (a *masteryRepositoryAdapter) WithTx(tx *sql.Tx) MasteryRepository {
	return &masteryRepositoryAdapter{
		masteryStore: a.masteryStore.WithTx(tx),
		db:           a.db,
	}
}

func (a *masteryRepositoryAdapter) DB() *sql.DB {
	return a.db
}

// NewChapterRepositoryAdapter creates a new adapter that allows a
// store.ChapterStore to be used where a ChapterRepository is expected.
func NewChapterRepositoryAdapter(chapterStore store.ChapterStore, db *sql.DB) ChapterRepository {
	return &chapterRepositoryAdapter{
		chapterStore: chapterStore,
		db:           db,
	}
}

type chapterRepositoryAdapter struct {
	chapterStore store.ChapterStore
	db           *sql.DB
}

func (a *chapterRepositoryAdapter) ReplaceAll(ctx context.Context, chapters []domain.ChapterDescriptor) error {
	return a.chapterStore.ReplaceAll(ctx, chapters)
}

func (a *chapterRepositoryAdapter) GetAll(ctx context.Context) ([]domain.ChapterDescriptor, error) {
	return a.chapterStore.GetAll(ctx)
}

func (a *chapterRepositoryAdapter) GetByOrdinal(ctx context.Context, ordinal int) (*domain.ChapterDescriptor, error) {
	return a.chapterStore.GetByOrdinal(ctx, ordinal)
}

func (a *chapterRepositoryAdapter) WithTx(tx *sql.Tx) ChapterRepository {
	return &chapterRepositoryAdapter{
		chapterStore: a.chapterStore.WithTx(tx),
		db:           a.db,
	}
}

func (a *chapterRepositoryAdapter) DB() *sql.DB {
	return a.db
}
