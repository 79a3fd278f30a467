package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/phrazzld/hifz-api/internal/domain"
	"github.com/phrazzld/hifz-api/internal/store"
)

// PostgresScheduleStore implements the store.ScheduleStore interface
// using a PostgreSQL database as the storage backend. The day-by-day
// assignments of a plan are stored in a JSONB column.
type PostgresScheduleStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresScheduleStore creates a new PostgreSQL implementation of the
// ScheduleStore interface. It accepts a database connection or transaction
// that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresScheduleStore(db store.DBTX, logger *slog.Logger) *PostgresScheduleStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresScheduleStore{
		db:     db,
		logger: logger.With(slog.String("component", "schedule_store")),
	}
}

// Ensure PostgresScheduleStore implements store.ScheduleStore interface
var _ store.ScheduleStore = (*PostgresScheduleStore)(nil)

const scheduleColumns = `
	id, tenant_id, name, start_date, end_date, total_days,
	daily_new_pages, direction, status, completed_day_count,
	days, created_at, updated_at
`

// Create implements store.ScheduleStore.Create
func (s *PostgresScheduleStore) Create(ctx context.Context, plan *domain.SchedulePlan) error {
	if err := plan.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	days, err := json.Marshal(plan.Days)
	if err != nil {
		return fmt.Errorf("failed to marshal plan days: %w", err)
	}

	query := `
		INSERT INTO schedule_plans (` + scheduleColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`

	_, err = s.db.ExecContext(ctx, query,
		plan.ID,
		plan.TenantID,
		plan.Name,
		plan.StartDate,
		plan.EndDate,
		plan.TotalDays,
		plan.DailyNewPages,
		plan.Direction,
		plan.Status,
		plan.CompletedDayCount,
		days,
		plan.CreatedAt,
		plan.UpdatedAt,
	)
	if err != nil {
		s.logger.Error("failed to create schedule plan",
			slog.String("plan_id", plan.ID.String()),
			slog.String("tenant_id", plan.TenantID),
			slog.String("error", err.Error()))
		return MapError(err)
	}

	s.logger.Debug("created schedule plan",
		slog.String("plan_id", plan.ID.String()),
		slog.Int("days", len(plan.Days)))
	return nil
}

// GetByID implements store.ScheduleStore.GetByID
// Returns store.ErrPlanNotFound if the plan does not exist.
func (s *PostgresScheduleStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.SchedulePlan, error) {
	query := `SELECT ` + scheduleColumns + ` FROM schedule_plans WHERE id = $1`

	plan, err := s.scanPlan(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, store.ErrPlanNotFound
		}
		s.logger.Error("failed to get schedule plan",
			slog.String("plan_id", id.String()),
			slog.String("error", err.Error()))
		return nil, MapError(err)
	}

	return plan, nil
}

// GetByIDForUpdate implements store.ScheduleStore.GetByIDForUpdate
// It locks the plan row until the enclosing transaction ends.
func (s *PostgresScheduleStore) GetByIDForUpdate(
	ctx context.Context,
	id uuid.UUID,
) (*domain.SchedulePlan, error) {
	query := `SELECT ` + scheduleColumns + ` FROM schedule_plans WHERE id = $1 FOR UPDATE`

	plan, err := s.scanPlan(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, store.ErrPlanNotFound
		}
		s.logger.Error("failed to lock schedule plan",
			slog.String("plan_id", id.String()),
			slog.String("error", err.Error()))
		return nil, MapError(err)
	}

	return plan, nil
}

// ListByTenant implements store.ScheduleStore.ListByTenant
func (s *PostgresScheduleStore) ListByTenant(ctx context.Context, tenantID string) ([]*domain.SchedulePlan, error) {
	query := `
		SELECT ` + scheduleColumns + `
		FROM schedule_plans
		WHERE tenant_id = $1
		ORDER BY created_at DESC
	`

	rows, err := s.db.QueryContext(ctx, query, tenantID)
	if err != nil {
		s.logger.Error("failed to list schedule plans",
			slog.String("tenant_id", tenantID),
			slog.String("error", err.Error()))
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	plans := []*domain.SchedulePlan{}
	for rows.Next() {
		plan, err := s.scanPlan(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan schedule plan row: %w", err)
		}
		plans = append(plans, plan)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}

	return plans, nil
}

// ListActiveOn implements store.ScheduleStore.ListActiveOn
func (s *PostgresScheduleStore) ListActiveOn(
	ctx context.Context,
	tenantID string,
	date time.Time,
) ([]*domain.SchedulePlan, error) {
	query := `
		SELECT ` + scheduleColumns + `
		FROM schedule_plans
		WHERE tenant_id = $1
		  AND status = 'active'
		  AND start_date <= $2
		  AND end_date >= $2
		ORDER BY created_at DESC
	`

	rows, err := s.db.QueryContext(ctx, query, tenantID, date)
	if err != nil {
		s.logger.Error("failed to list active schedule plans",
			slog.String("tenant_id", tenantID),
			slog.String("error", err.Error()))
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	plans := []*domain.SchedulePlan{}
	for rows.Next() {
		plan, err := s.scanPlan(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan schedule plan row: %w", err)
		}
		plans = append(plans, plan)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}

	return plans, nil
}

// Update implements store.ScheduleStore.Update
// It replaces the plan's mutable fields and its days wholesale.
// Returns store.ErrPlanNotFound if the plan does not exist.
func (s *PostgresScheduleStore) Update(ctx context.Context, plan *domain.SchedulePlan) error {
	if err := plan.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	days, err := json.Marshal(plan.Days)
	if err != nil {
		return fmt.Errorf("failed to marshal plan days: %w", err)
	}

	query := `
		UPDATE schedule_plans
		SET name = $1, status = $2, completed_day_count = $3, days = $4, updated_at = $5
		WHERE id = $6
	`

	result, err := s.db.ExecContext(ctx, query,
		plan.Name,
		plan.Status,
		plan.CompletedDayCount,
		days,
		plan.UpdatedAt,
		plan.ID,
	)
	if err != nil {
		s.logger.Error("failed to update schedule plan",
			slog.String("plan_id", plan.ID.String()),
			slog.String("error", err.Error()))
		return MapError(err)
	}

	return CheckRowsAffected(result, "schedule plan")
}

// Delete implements store.ScheduleStore.Delete
// Returns store.ErrPlanNotFound if the plan does not exist.
func (s *PostgresScheduleStore) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM schedule_plans WHERE id = $1", id)
	if err != nil {
		s.logger.Error("failed to delete schedule plan",
			slog.String("plan_id", id.String()),
			slog.String("error", err.Error()))
		return MapError(err)
	}

	if err := CheckRowsAffected(result, "schedule plan"); err != nil {
		return store.ErrPlanNotFound
	}
	return nil
}

// rowScanner covers *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanPlan maps one schedule_plans row onto a domain plan, unmarshalling
// the JSONB days column.
func (s *PostgresScheduleStore) scanPlan(row rowScanner) (*domain.SchedulePlan, error) {
	var plan domain.SchedulePlan
	var days []byte

	err := row.Scan(
		&plan.ID,
		&plan.TenantID,
		&plan.Name,
		&plan.StartDate,
		&plan.EndDate,
		&plan.TotalDays,
		&plan.DailyNewPages,
		&plan.Direction,
		&plan.Status,
		&plan.CompletedDayCount,
		&days,
		&plan.CreatedAt,
		&plan.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(days, &plan.Days); err != nil {
		return nil, fmt.Errorf("failed to unmarshal plan days: %w", err)
	}

	return &plan, nil
}

// WithTx implements store.ScheduleStore.WithTx
// It returns a new ScheduleStore instance backed by the given transaction.
func (s *PostgresScheduleStore) WithTx(tx *sql.Tx) store.ScheduleStore {
	return &PostgresScheduleStore{
		db:     tx,
		logger: s.logger,
	}
}
