package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/phrazzld/hifz-api/internal/corpus"
	"github.com/phrazzld/hifz-api/internal/domain"
	"github.com/phrazzld/hifz-api/internal/scheduler"
	"github.com/phrazzld/hifz-api/internal/service"
	"github.com/phrazzld/hifz-api/internal/store"
)

// MapErrorToStatusCode maps internal errors to appropriate HTTP status codes
// based on the error type. This prevents leaking internal error types or
// messages to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	// Not found errors
	case errors.Is(err, store.ErrPlanNotFound),
		errors.Is(err, store.ErrChapterNotFound),
		errors.Is(err, store.ErrMasteryNotFound),
		errors.Is(err, corpus.ErrChapterNotFound),
		errors.Is(err, domain.ErrPlanDayNotFound),
		errors.Is(err, domain.ErrAssignmentNotFound),
		errors.Is(err, service.ErrNoActivePlan):
		return http.StatusNotFound

	// Conflict errors
	case errors.Is(err, store.ErrDuplicate),
		errors.Is(err, service.ErrCorpusEmpty):
		return http.StatusConflict

	// Bad request errors
	case errors.Is(err, store.ErrInvalidEntity),
		errors.Is(err, service.ErrPageOutOfRange),
		errors.Is(err, corpus.ErrInvalidDirection),
		errors.Is(err, scheduler.ErrInvalidSortPolicy),
		errors.Is(err, domain.ErrClassificationInvalid),
		errors.Is(err, domain.ErrPlanNameEmpty),
		errors.Is(err, domain.ErrPlanTenantEmpty),
		errors.Is(err, domain.ErrPlanStartDateZero),
		errors.Is(err, domain.ErrPlanTotalDaysInvalid),
		errors.Is(err, domain.ErrPlanQuotaOutOfRange):
		return http.StatusBadRequest

	// Default: internal server error
	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message
// based on the error type. This prevents leaking sensitive internal details.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	switch {
	// Not found errors
	case errors.Is(err, store.ErrPlanNotFound):
		return "Schedule plan not found"

	case errors.Is(err, store.ErrChapterNotFound),
		errors.Is(err, corpus.ErrChapterNotFound):
		return "Chapter not found"

	case errors.Is(err, store.ErrMasteryNotFound):
		return "Page status not found"

	case errors.Is(err, domain.ErrPlanDayNotFound):
		return "No plan day on that date"

	case errors.Is(err, domain.ErrAssignmentNotFound):
		return "Assignment not found"

	case errors.Is(err, service.ErrNoActivePlan):
		return "No active schedule plan for that date"

	// Conflict errors
	case errors.Is(err, store.ErrDuplicate):
		return "Resource already exists"

	case errors.Is(err, service.ErrCorpusEmpty):
		return "Corpus has not been imported"

	// Bad request errors
	case errors.Is(err, service.ErrPageOutOfRange):
		return "Page number is outside the chapter's page range"

	case errors.Is(err, corpus.ErrInvalidDirection):
		return "Direction must be forward or reverse"

	case errors.Is(err, domain.ErrClassificationInvalid):
		return "Classification must be one of perfect, medium, bad, not_memorized"

	case errors.Is(err, domain.ErrPlanQuotaOutOfRange):
		return fmt.Sprintf("Daily new pages must be between %g and %g",
			domain.MinDailyNewPages, domain.MaxDailyNewPages)

	case errors.Is(err, domain.ErrPlanNameEmpty),
		errors.Is(err, domain.ErrPlanTenantEmpty),
		errors.Is(err, domain.ErrPlanStartDateZero),
		errors.Is(err, domain.ErrPlanTotalDaysInvalid),
		errors.Is(err, store.ErrInvalidEntity):
		return "Invalid request data"

	// Default case for unknown errors
	default:
		return "An unexpected error occurred"
	}
}

// SanitizeValidationError removes sensitive details from validation errors
// and returns a user-friendly message.
func SanitizeValidationError(err error) string {
	errMsg := err.Error()

	// Example format: "Key: 'GenerateScheduleRequest.Name' Error:Field validation for 'Name' failed on the 'required' tag"
	if strings.Contains(errMsg, "Field validation") {
		parts := strings.Split(errMsg, "Error:")
		if len(parts) >= 2 {
			fieldParts := strings.Split(parts[1], "'")
			if len(fieldParts) >= 3 {
				field := fieldParts[1]
				var tag string
				if len(fieldParts) >= 5 {
					tag = fieldParts[3]
				}

				if tag != "" {
					return fmt.Sprintf("Invalid %s: %s", field, getValidationTagMessage(tag))
				}
				return fmt.Sprintf("Invalid %s", field)
			}
		}
	}

	return "Validation error"
}

// getValidationTagMessage maps validation tags to user-friendly error messages
func getValidationTagMessage(tag string) string {
	switch tag {
	case "required":
		return "required field"
	case "min", "gte":
		return "value too small"
	case "max", "lte":
		return "value too large"
	case "oneof":
		return "invalid value"
	default:
		return "validation failed"
	}
}
