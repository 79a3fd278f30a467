package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// AssignmentKind distinguishes the three content streams a day interleaves.
type AssignmentKind string

const (
	AssignmentRevision AssignmentKind = "revision"
	AssignmentNew      AssignmentKind = "new"
	AssignmentSpecial  AssignmentKind = "special"
)

// PlanStatus is the lifecycle state of a schedule plan.
type PlanStatus string

const (
	PlanStatusActive    PlanStatus = "active"
	PlanStatusCompleted PlanStatus = "completed"
	PlanStatusPaused    PlanStatus = "paused"
)

// Quota bounds for daily new pages.
const (
	MinDailyNewPages float64 = 0.5
	MaxDailyNewPages float64 = 5
)

// Schedule-specific validation errors
var (
	// ErrPlanNameEmpty is returned when a plan has no name.
	ErrPlanNameEmpty = errors.New("plan name cannot be empty")

	// ErrPlanTenantEmpty is returned when a plan has no tenant.
	ErrPlanTenantEmpty = errors.New("plan tenant cannot be empty")

	// ErrPlanStartDateZero is returned when a plan has no start date.
	ErrPlanStartDateZero = errors.New("plan start date cannot be zero")

	// ErrPlanTotalDaysInvalid is returned when a plan spans less than one day.
	ErrPlanTotalDaysInvalid = errors.New("plan total days must be at least 1")

	// ErrPlanQuotaOutOfRange is returned when the daily new-page quota is
	// outside the accepted 0.5-5 range.
	ErrPlanQuotaOutOfRange = errors.New("daily new pages must be between 0.5 and 5")

	// ErrPlanDayNotFound is returned when no day of the plan falls on the
	// requested date.
	ErrPlanDayNotFound = errors.New("day not found in plan")

	// ErrAssignmentNotFound is returned when an assignment index is out of
	// bounds for its day.
	ErrAssignmentNotFound = errors.New("assignment not found")
)

// Assignment is one unit of work on one day. Immutable after generation
// except for the Completed flag.
type Assignment struct {
	Kind           AssignmentKind `json:"kind"`
	ChapterOrdinal int            `json:"chapter_ordinal"`
	PageNumber     int            `json:"page_number"`
	Classification Classification `json:"classification"`
	Label          string         `json:"label,omitempty"`
	Completed      bool           `json:"completed"`
}

// DayPlan is the ordered assignment list for one calendar day.
// Order is significant and fixed at generation time: revision first,
// then new material, then the special insertion if the day calls for it.
type DayPlan struct {
	Date        time.Time    `json:"date"`
	WeekdayName string       `json:"weekday_name"`
	Assignments []Assignment `json:"assignments"`
}

// SchedulePlan is a generated multi-day study plan. Created atomically by
// one generation call; afterwards only assignment Completed flags and the
// aggregate counters mutate. Deletion removes the whole plan.
type SchedulePlan struct {
	ID                uuid.UUID  `json:"id"`
	TenantID          string     `json:"tenant_id"`
	Name              string     `json:"name"`
	StartDate         time.Time  `json:"start_date"`
	EndDate           time.Time  `json:"end_date"`
	TotalDays         int        `json:"total_days"`
	DailyNewPages     float64    `json:"daily_new_pages"`
	Direction         string     `json:"direction"`
	Status            PlanStatus `json:"status"`
	CompletedDayCount int        `json:"completed_day_count"`
	Days              []DayPlan  `json:"days"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

// Validate checks the plan's scalar fields. Day content is the generator's
// responsibility and is not revalidated here.
func (p *SchedulePlan) Validate() error {
	if p.TenantID == "" {
		return ErrPlanTenantEmpty
	}

	if p.Name == "" {
		return ErrPlanNameEmpty
	}

	if p.StartDate.IsZero() {
		return ErrPlanStartDateZero
	}

	if p.TotalDays < 1 {
		return ErrPlanTotalDaysInvalid
	}

	if p.DailyNewPages < MinDailyNewPages || p.DailyNewPages > MaxDailyNewPages {
		return ErrPlanQuotaOutOfRange
	}

	return nil
}

// DayOn returns the plan's day for the given calendar date, comparing by
// date only. Returns ErrPlanDayNotFound if the date is outside the plan.
func (p *SchedulePlan) DayOn(date time.Time) (*DayPlan, error) {
	for i := range p.Days {
		if sameDate(p.Days[i].Date, date) {
			return &p.Days[i], nil
		}
	}
	return nil, ErrPlanDayNotFound
}

// MarkAssignment sets the completion flag of one assignment, addressed by
// the day's date and the assignment's position within that day, then
// recomputes the completed-day counter and the plan status. Marking an
// assignment incomplete after full completion reverts the plan to active.
func (p *SchedulePlan) MarkAssignment(date time.Time, index int, completed bool) error {
	day, err := p.DayOn(date)
	if err != nil {
		return err
	}

	if index < 0 || index >= len(day.Assignments) {
		return ErrAssignmentNotFound
	}

	day.Assignments[index].Completed = completed
	p.RecountCompletedDays()
	return nil
}

// RecountCompletedDays recomputes CompletedDayCount from scratch and
// derives the plan status from it. A paused plan stays paused.
func (p *SchedulePlan) RecountCompletedDays() {
	count := 0
	for i := range p.Days {
		if dayComplete(&p.Days[i]) {
			count++
		}
	}
	p.CompletedDayCount = count

	if p.Status == PlanStatusPaused {
		return
	}
	if count == p.TotalDays {
		p.Status = PlanStatusCompleted
	} else {
		p.Status = PlanStatusActive
	}
}

// dayComplete reports whether every assignment of the day is completed.
// A day with no assignments counts as complete.
func dayComplete(day *DayPlan) bool {
	for i := range day.Assignments {
		if !day.Assignments[i].Completed {
			return false
		}
	}
	return true
}

// sameDate compares two instants by calendar date, ignoring time of day.
func sameDate(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
