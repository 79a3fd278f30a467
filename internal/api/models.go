package api

import (
	"time"

	"github.com/phrazzld/hifz-api/internal/domain"
)

// dateLayout is the wire format for calendar dates.
const dateLayout = "2006-01-02"

// GenerateScheduleRequest represents the request body for generating a plan.
// UserID is optional; an empty value falls back to the configured default
// tenant. NewDirection is an accepted alias for Direction; Direction wins
// when both are set.
type GenerateScheduleRequest struct {
	UserID        string  `json:"userId"`
	Name          string  `json:"name"            validate:"required,min=1,max=200"`
	StartDate     string  `json:"start_date"      validate:"required,datetime=2006-01-02"`
	TotalDays     int     `json:"total_days"      validate:"required,gte=1,lte=1000"`
	DailyNewPages float64 `json:"daily_new_pages" validate:"required,gte=0.5,lte=5"`
	Direction     string  `json:"direction"       validate:"omitempty,oneof=forward reverse"`
	NewDirection  string  `json:"newDirection"    validate:"omitempty,oneof=forward reverse"`
}

// direction resolves the traversal direction from the two accepted keys.
func (r GenerateScheduleRequest) direction() string {
	if r.Direction != "" {
		return r.Direction
	}
	return r.NewDirection
}

// CompleteAssignmentRequest represents the request body for marking an
// assignment complete or undoing the mark.
type CompleteAssignmentRequest struct {
	PlanID    string `json:"plan_id"   validate:"required,uuid4"`
	Date      string `json:"date"      validate:"required,datetime=2006-01-02"`
	Index     int    `json:"index"     validate:"gte=0"`
	Completed *bool  `json:"completed"` // nil means true
}

// SetStatusRequest represents the request body for grading a single page.
type SetStatusRequest struct {
	UserID         string `json:"userId"`
	Chapter        int    `json:"chapter"        validate:"required,gte=1"`
	Page           int    `json:"page"           validate:"required,gte=1"`
	Classification string `json:"classification" validate:"required,oneof=perfect medium bad not_memorized"`
}

// StatusEntry is one page grade inside a batch request.
type StatusEntry struct {
	Chapter        int    `json:"chapter"        validate:"required,gte=1"`
	Page           int    `json:"page"           validate:"required,gte=1"`
	Classification string `json:"classification" validate:"required,oneof=perfect medium bad not_memorized"`
}

// BatchSetStatusRequest represents the request body for grading many pages
// at once.
type BatchSetStatusRequest struct {
	UserID   string        `json:"userId"`
	Statuses []StatusEntry `json:"statuses" validate:"required,min=1,dive"`
}

// ScheduleSummaryResponse is the list representation of a plan, without its
// day-by-day assignments.
type ScheduleSummaryResponse struct {
	ID                string    `json:"id"`
	Name              string    `json:"name"`
	StartDate         string    `json:"start_date"`
	EndDate           string    `json:"end_date"`
	TotalDays         int       `json:"total_days"`
	DailyNewPages     float64   `json:"daily_new_pages"`
	Direction         string    `json:"direction"`
	Status            string    `json:"status"`
	CompletedDayCount int       `json:"completed_day_count"`
	CreatedAt         time.Time `json:"created_at"`
}

// scheduleToSummary converts a domain plan to its list representation.
func scheduleToSummary(plan *domain.SchedulePlan) ScheduleSummaryResponse {
	return ScheduleSummaryResponse{
		ID:                plan.ID.String(),
		Name:              plan.Name,
		StartDate:         plan.StartDate.Format(dateLayout),
		EndDate:           plan.EndDate.Format(dateLayout),
		TotalDays:         plan.TotalDays,
		DailyNewPages:     plan.DailyNewPages,
		Direction:         plan.Direction,
		Status:            string(plan.Status),
		CompletedDayCount: plan.CompletedDayCount,
		CreatedAt:         plan.CreatedAt,
	}
}

// PageClassification is one page of a chapter with its recorded grade.
// Pages without a record report not_memorized.
type PageClassification struct {
	Page           int    `json:"page"`
	Classification string `json:"classification"`
}

// ChapterPagesResponse lists a chapter's pages with per-page grades.
type ChapterPagesResponse struct {
	Ordinal     int                  `json:"ordinal"`
	NamePrimary string               `json:"name_primary"`
	Pages       []PageClassification `json:"pages"`
}

// StatusResponse represents one recorded page grade.
type StatusResponse struct {
	Chapter        int       `json:"chapter"`
	Page           int       `json:"page"`
	Classification string    `json:"classification"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// StatusMapResponse groups page classifications by chapter ordinal,
// keyed chapter -> page -> classification.
type StatusMapResponse map[int]map[int]string

// recordToStatusResponse converts a domain mastery record to its wire form.
func recordToStatusResponse(record *domain.MasteryRecord) StatusResponse {
	return StatusResponse{
		Chapter:        record.ChapterOrdinal,
		Page:           record.PageNumber,
		Classification: string(record.Classification),
		UpdatedAt:      record.UpdatedAt,
	}
}
