package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/phrazzld/hifz-api/internal/domain"
)

// ScheduleStore defines the interface for schedule plan persistence.
// A plan is stored as a single row with its day-by-day assignments held in
// a JSONB column, so reads and writes always cover the whole plan.
type ScheduleStore interface {
	// Create saves a new schedule plan, including all of its days.
	// The plan must be valid according to domain validation rules.
	// Returns ErrDuplicate if a plan with the same ID already exists.
	Create(ctx context.Context, plan *domain.SchedulePlan) error

	// GetByID retrieves a plan by its unique ID, with days populated.
	// Returns ErrPlanNotFound if the plan does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.SchedulePlan, error)

	// GetByIDForUpdate retrieves a plan by ID and locks its row for the
	// duration of the enclosing transaction. Must only be called on a
	// store bound to a transaction via WithTx.
	// Returns ErrPlanNotFound if the plan does not exist.
	GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.SchedulePlan, error)

	// ListByTenant retrieves all of a tenant's plans ordered by creation
	// time, newest first. Days are populated on every returned plan.
	ListByTenant(ctx context.Context, tenantID string) ([]*domain.SchedulePlan, error)

	// ListActiveOn retrieves every active plan of the tenant whose date
	// range covers the given date, newest first. Returns an empty slice
	// when none qualify.
	ListActiveOn(ctx context.Context, tenantID string, date time.Time) ([]*domain.SchedulePlan, error)

	// Update persists modifications to an existing plan, replacing its days
	// wholesale. Returns ErrPlanNotFound if the plan does not exist.
	//
	// IMPORTANT: read-modify-write sequences (such as marking an assignment
	// complete) MUST run within a transaction via WithTx and
	// store.RunInTransaction so concurrent completions do not lose updates.
	Update(ctx context.Context, plan *domain.SchedulePlan) error

	// Delete removes a plan by its ID.
	// Returns ErrPlanNotFound if the plan does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// WithTx returns a new ScheduleStore instance that uses the provided
	// transaction. The transaction is created and managed by the caller,
	// typically through store.RunInTransaction.
	WithTx(tx *sql.Tx) ScheduleStore
}
