package service

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/phrazzld/hifz-api/internal/domain"
)

// ScheduleRepository defines the schedule persistence interface for the
// service layer. It mirrors store.ScheduleStore and adds access to the
// underlying connection for transaction management.
type ScheduleRepository interface {
	Create(ctx context.Context, plan *domain.SchedulePlan) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.SchedulePlan, error)
	GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.SchedulePlan, error)
	ListByTenant(ctx context.Context, tenantID string) ([]*domain.SchedulePlan, error)
	ListActiveOn(ctx context.Context, tenantID string, date time.Time) ([]*domain.SchedulePlan, error)
	Update(ctx context.Context, plan *domain.SchedulePlan) error
	Delete(ctx context.Context, id uuid.UUID) error

	// WithTx returns a new repository instance that uses the provided transaction
	WithTx(tx *sql.Tx) ScheduleRepository

	// DB returns the underlying database connection
	DB() *sql.DB
}

// MasteryRepository defines the mastery persistence interface for the
// service layer.
type MasteryRepository interface {
	Upsert(ctx context.Context, record *domain.MasteryRecord) error
	BatchUpsert(ctx context.Context, records []*domain.MasteryRecord) error
	GetAllByTenant(ctx context.Context, tenantID string) ([]*domain.MasteryRecord, error)
	GetByTenantChapter(ctx context.Context, tenantID string, chapterOrdinal int) ([]*domain.MasteryRecord, error)
	CountByClassification(ctx context.Context, tenantID string) (map[domain.Classification]int, error)
	ListRecent(ctx context.Context, tenantID string, limit int) ([]*domain.MasteryRecord, error)

	// WithTx returns a new repository instance that uses the provided transaction
	WithTx(tx *sql.Tx) MasteryRepository

	// DB returns the underlying database connection
	DB() *sql.DB
}

// ChapterRepository defines the corpus persistence interface for the
// service layer.
type ChapterRepository interface {
	ReplaceAll(ctx context.Context, chapters []domain.ChapterDescriptor) error
	GetAll(ctx context.Context) ([]domain.ChapterDescriptor, error)
	GetByOrdinal(ctx context.Context, ordinal int) (*domain.ChapterDescriptor, error)

	// WithTx returns a new repository instance that uses the provided transaction
	WithTx(tx *sql.Tx) ChapterRepository

	// DB returns the underlying database connection
	DB() *sql.DB
}
