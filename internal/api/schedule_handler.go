package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/phrazzld/hifz-api/internal/api/shared"
	"github.com/phrazzld/hifz-api/internal/service"
)

// ScheduleHandler handles schedule-related HTTP requests
type ScheduleHandler struct {
	scheduleService service.ScheduleService
	defaultTenant   string
	validator       *validator.Validate
}

// NewScheduleHandler creates a new ScheduleHandler
func NewScheduleHandler(scheduleService service.ScheduleService, defaultTenant string) *ScheduleHandler {
	return &ScheduleHandler{
		scheduleService: scheduleService,
		defaultTenant:   defaultTenant,
		validator:       validator.New(),
	}
}

// tenant resolves the tenant ID for a request, falling back to the default
// when the caller does not name one.
func (h *ScheduleHandler) tenant(userID string) string {
	if userID == "" {
		return h.defaultTenant
	}
	return userID
}

// GenerateSchedule handles POST /api/schedules/generate requests
func (h *ScheduleHandler) GenerateSchedule(w http.ResponseWriter, r *http.Request) {
	var req GenerateScheduleRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	startDate, err := time.Parse(dateLayout, req.StartDate)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid start_date")
		return
	}

	plan, err := h.scheduleService.GenerateSchedule(r.Context(), service.GenerateScheduleRequest{
		TenantID:      h.tenant(req.UserID),
		Name:          req.Name,
		StartDate:     startDate,
		TotalDays:     req.TotalDays,
		DailyNewPages: req.DailyNewPages,
		Direction:     req.direction(),
	})
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, plan)
}

// ListSchedules handles GET /api/schedules requests
func (h *ScheduleHandler) ListSchedules(w http.ResponseWriter, r *http.Request) {
	tenantID := h.tenant(r.URL.Query().Get("userId"))

	plans, err := h.scheduleService.ListSchedules(r.Context(), tenantID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	summaries := make([]ScheduleSummaryResponse, 0, len(plans))
	for _, plan := range plans {
		summaries = append(summaries, scheduleToSummary(plan))
	}

	shared.RespondWithJSON(w, r, http.StatusOK, summaries)
}

// GetToday handles GET /api/schedules/today requests.
// An optional date query parameter overrides the current date.
func (h *ScheduleHandler) GetToday(w http.ResponseWriter, r *http.Request) {
	tenantID := h.tenant(r.URL.Query().Get("userId"))

	date := time.Now().UTC()
	if raw := r.URL.Query().Get("date"); raw != "" {
		parsed, err := time.Parse(dateLayout, raw)
		if err != nil {
			shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid date")
			return
		}
		date = parsed
	}

	days, err := h.scheduleService.AssignmentsOn(r.Context(), tenantID, date)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, days)
}

// GetSchedule handles GET /api/schedules/{id} requests
func (h *ScheduleHandler) GetSchedule(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid schedule ID")
		return
	}

	plan, err := h.scheduleService.GetSchedule(r.Context(), id)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, plan)
}

// DeleteSchedule handles DELETE /api/schedules/{id} requests
func (h *ScheduleHandler) DeleteSchedule(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid schedule ID")
		return
	}

	if err := h.scheduleService.DeleteSchedule(r.Context(), id); err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, map[string]string{
		"message": "Schedule deleted",
	})
}

// CompleteAssignment handles PUT /api/schedules/assignment/complete requests
func (h *ScheduleHandler) CompleteAssignment(w http.ResponseWriter, r *http.Request) {
	var req CompleteAssignmentRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	planID, err := uuid.Parse(req.PlanID)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid plan_id")
		return
	}

	date, err := time.Parse(dateLayout, req.Date)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid date")
		return
	}

	completed := true
	if req.Completed != nil {
		completed = *req.Completed
	}

	plan, err := h.scheduleService.CompleteAssignment(r.Context(), planID, date, req.Index, completed)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, plan)
}
