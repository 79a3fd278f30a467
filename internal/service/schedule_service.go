package service

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/phrazzld/hifz-api/internal/corpus"
	"github.com/phrazzld/hifz-api/internal/domain"
	"github.com/phrazzld/hifz-api/internal/events"
	"github.com/phrazzld/hifz-api/internal/platform/logger"
	"github.com/phrazzld/hifz-api/internal/scheduler"
	"github.com/phrazzld/hifz-api/internal/store"
)

// ScheduleServiceError is a custom error type for schedule service errors.
type ScheduleServiceError struct {
	Operation string
	Message   string
	Err       error
}

// Error implements the error interface for ScheduleServiceError.
func (e *ScheduleServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("schedule service %s failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("schedule service %s failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ScheduleServiceError) Unwrap() error {
	return e.Err
}

// NewScheduleServiceError creates a new ScheduleServiceError.
func NewScheduleServiceError(operation, message string, err error) *ScheduleServiceError {
	return &ScheduleServiceError{
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}

// GenerateScheduleRequest carries the parameters for a new schedule plan.
type GenerateScheduleRequest struct {
	TenantID      string
	Name          string
	StartDate     time.Time
	TotalDays     int
	DailyNewPages float64
	Direction     string
}

// DayView is a single plan day joined with its owning plan's identity,
// returned by date-based lookups.
type DayView struct {
	PlanID      uuid.UUID           `json:"plan_id"`
	PlanName    string              `json:"plan_name"`
	Date        time.Time           `json:"date"`
	WeekdayName string              `json:"weekday_name"`
	Assignments []domain.Assignment `json:"assignments"`
}

// ScheduleService provides schedule plan operations.
type ScheduleService interface {
	// GenerateSchedule builds a full day-by-day plan from the tenant's
	// current mastery state and persists it.
	GenerateSchedule(ctx context.Context, req GenerateScheduleRequest) (*domain.SchedulePlan, error)

	// GetSchedule retrieves a plan by its ID.
	GetSchedule(ctx context.Context, id uuid.UUID) (*domain.SchedulePlan, error)

	// ListSchedules retrieves all of a tenant's plans, newest first.
	ListSchedules(ctx context.Context, tenantID string) ([]*domain.SchedulePlan, error)

	// DeleteSchedule removes a plan by its ID.
	DeleteSchedule(ctx context.Context, id uuid.UUID) error

	// AssignmentsOn returns one day view per active plan of the tenant
	// covering the given date, newest plan first. Returns ErrNoActivePlan
	// if no active plan covers it.
	AssignmentsOn(ctx context.Context, tenantID string, date time.Time) ([]*DayView, error)

	// CompleteAssignment toggles the completion flag of one assignment and
	// returns the updated plan. The read-modify-write runs in a transaction.
	CompleteAssignment(
		ctx context.Context,
		planID uuid.UUID,
		date time.Time,
		index int,
		completed bool,
	) (*domain.SchedulePlan, error)
}

// scheduleServiceImpl implements the ScheduleService interface.
type scheduleServiceImpl struct {
	scheduleRepo ScheduleRepository
	masteryRepo  MasteryRepository
	chapterRepo  ChapterRepository
	params       *scheduler.Params
	emitter      events.Emitter
	logger       *slog.Logger
}

// ScheduleServiceOption configures optional schedule service behavior.
type ScheduleServiceOption func(*scheduleServiceImpl)

// WithScheduleEvents publishes domain events through the given emitter
// after successful state changes.
func WithScheduleEvents(emitter events.Emitter) ScheduleServiceOption {
	return func(s *scheduleServiceImpl) {
		s.emitter = emitter
	}
}

// NewScheduleService creates a new ScheduleService.
// It returns an error if any of the required dependencies are nil.
func NewScheduleService(
	scheduleRepo ScheduleRepository,
	masteryRepo MasteryRepository,
	chapterRepo ChapterRepository,
	params *scheduler.Params,
	log *slog.Logger,
	opts ...ScheduleServiceOption,
) (ScheduleService, error) {
	if scheduleRepo == nil {
		return nil, fmt.Errorf("scheduleRepo cannot be nil")
	}
	if masteryRepo == nil {
		return nil, fmt.Errorf("masteryRepo cannot be nil")
	}
	if chapterRepo == nil {
		return nil, fmt.Errorf("chapterRepo cannot be nil")
	}
	if params == nil {
		params = scheduler.NewDefaultParams()
	}
	if log == nil {
		log = slog.Default()
	}

	svc := &scheduleServiceImpl{
		scheduleRepo: scheduleRepo,
		masteryRepo:  masteryRepo,
		chapterRepo:  chapterRepo,
		params:       params,
		logger:       log.With(slog.String("component", "schedule_service")),
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc, nil
}

// emit publishes a domain event when an emitter is configured. Emission
// failures are logged and never fail the operation that triggered them.
func (s *scheduleServiceImpl) emit(ctx context.Context, eventType string, payload interface{}) {
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

// GenerateSchedule implements ScheduleService.GenerateSchedule
func (s *scheduleServiceImpl) GenerateSchedule(
	ctx context.Context,
	req GenerateScheduleRequest,
) (*domain.SchedulePlan, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	chapters, err := s.chapterRepo.GetAll(ctx)
	if err != nil {
		log.Error("failed to load corpus", slog.String("error", err.Error()))
		return nil, NewScheduleServiceError("generate", "failed to load corpus", err)
	}
	if len(chapters) == 0 {
		return nil, ErrCorpusEmpty
	}

	index, err := corpus.NewIndex(chapters)
	if err != nil {
		return nil, NewScheduleServiceError("generate", "invalid corpus", err)
	}

	direction, err := corpus.ParseDirection(req.Direction)
	if err != nil {
		return nil, err
	}

	records, err := s.masteryRepo.GetAllByTenant(ctx, req.TenantID)
	if err != nil {
		log.Error("failed to load mastery records",
			slog.String("tenant_id", req.TenantID),
			slog.String("error", err.Error()))
		return nil, NewScheduleServiceError("generate", "failed to load mastery records", err)
	}

	generator := scheduler.NewGenerator(index, s.params, log)
	plan, err := generator.Generate(scheduler.GenerateRequest{
		TenantID:      req.TenantID,
		Name:          req.Name,
		StartDate:     req.StartDate,
		TotalDays:     req.TotalDays,
		DailyNewPages: req.DailyNewPages,
		Direction:     direction,
	}, records)
	if err != nil {
		return nil, err
	}

	if err := s.scheduleRepo.Create(ctx, plan); err != nil {
		log.Error("failed to persist schedule plan",
			slog.String("plan_id", plan.ID.String()),
			slog.String("error", err.Error()))
		return nil, NewScheduleServiceError("generate", "failed to persist plan", err)
	}

	log.Info("generated schedule plan",
		slog.String("plan_id", plan.ID.String()),
		slog.String("tenant_id", req.TenantID),
		slog.Int("total_days", plan.TotalDays))
	s.emit(ctx, events.TypePlanGenerated, events.PlanGeneratedPayload{
		PlanID:    plan.ID,
		TenantID:  plan.TenantID,
		TotalDays: plan.TotalDays,
	})
	return plan, nil
}

// GetSchedule implements ScheduleService.GetSchedule
func (s *scheduleServiceImpl) GetSchedule(ctx context.Context, id uuid.UUID) (*domain.SchedulePlan, error) {
	plan, err := s.scheduleRepo.GetByID(ctx, id)
	if err != nil {
		if store.IsNotFoundError(err) {
			return nil, store.ErrPlanNotFound
		}
		return nil, NewScheduleServiceError("get", "failed to retrieve plan", err)
	}
	return plan, nil
}

// ListSchedules implements ScheduleService.ListSchedules
func (s *scheduleServiceImpl) ListSchedules(ctx context.Context, tenantID string) ([]*domain.SchedulePlan, error) {
	plans, err := s.scheduleRepo.ListByTenant(ctx, tenantID)
	if err != nil {
		return nil, NewScheduleServiceError("list", "failed to list plans", err)
	}
	return plans, nil
}

// DeleteSchedule implements ScheduleService.DeleteSchedule
func (s *scheduleServiceImpl) DeleteSchedule(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := s.scheduleRepo.Delete(ctx, id); err != nil {
		if store.IsNotFoundError(err) {
			return store.ErrPlanNotFound
		}
		return NewScheduleServiceError("delete", "failed to delete plan", err)
	}

	log.Info("deleted schedule plan", slog.String("plan_id", id.String()))
	s.emit(ctx, events.TypePlanDeleted, events.PlanDeletedPayload{PlanID: id})
	return nil
}

// AssignmentsOn implements ScheduleService.AssignmentsOn
func (s *scheduleServiceImpl) AssignmentsOn(
	ctx context.Context,
	tenantID string,
	date time.Time,
) ([]*DayView, error) {
	plans, err := s.scheduleRepo.ListActiveOn(ctx, tenantID, date)
	if err != nil {
		return nil, NewScheduleServiceError("assignments_on", "failed to find active plans", err)
	}

	views := make([]*DayView, 0, len(plans))
	for _, plan := range plans {
		day, err := plan.DayOn(date)
		if err != nil {
			continue
		}
		views = append(views, &DayView{
			PlanID:      plan.ID,
			PlanName:    plan.Name,
			Date:        day.Date,
			WeekdayName: day.WeekdayName,
			Assignments: day.Assignments,
		})
	}
	if len(views) == 0 {
		return nil, ErrNoActivePlan
	}

	return views, nil
}

// CompleteAssignment implements ScheduleService.CompleteAssignment
// It reloads the plan inside a transaction so concurrent completions of
// different assignments do not overwrite each other.
func (s *scheduleServiceImpl) CompleteAssignment(
	ctx context.Context,
	planID uuid.UUID,
	date time.Time,
	index int,
	completed bool,
) (*domain.SchedulePlan, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var updated *domain.SchedulePlan
	err := store.RunInTransaction(ctx, s.scheduleRepo.DB(), func(ctx context.Context, tx *sql.Tx) error {
		txRepo := s.scheduleRepo.WithTx(tx)

		plan, err := txRepo.GetByIDForUpdate(ctx, planID)
		if err != nil {
			return err
		}

		if err := plan.MarkAssignment(date, index, completed); err != nil {
			return err
		}

		plan.UpdatedAt = time.Now().UTC()
		if err := txRepo.Update(ctx, plan); err != nil {
			return err
		}

		updated = plan
		return nil
	})
	if err != nil {
		if store.IsNotFoundError(err) {
			return nil, store.ErrPlanNotFound
		}
		return nil, err
	}

	log.Debug("marked assignment",
		slog.String("plan_id", planID.String()),
		slog.Int("index", index),
		slog.Bool("completed", completed))
	s.emit(ctx, events.TypeAssignmentCompleted, events.AssignmentCompletedPayload{
		PlanID:    planID,
		Date:      date.Format("2006-01-02"),
		Index:     index,
		Completed: completed,
	})
	return updated, nil
}
