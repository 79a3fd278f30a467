package api

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/phrazzld/hifz-api/internal/domain"
	"github.com/phrazzld/hifz-api/internal/service"
	"github.com/phrazzld/hifz-api/internal/store"
)

func TestMapErrorToStatusCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{"plan_not_found", store.ErrPlanNotFound, http.StatusNotFound},
		{"chapter_not_found", store.ErrChapterNotFound, http.StatusNotFound},
		{"no_active_plan", service.ErrNoActivePlan, http.StatusNotFound},
		{"assignment_not_found", domain.ErrAssignmentNotFound, http.StatusNotFound},
		{"duplicate", store.ErrDuplicate, http.StatusConflict},
		{"corpus_empty", service.ErrCorpusEmpty, http.StatusConflict},
		{"page_out_of_range", service.ErrPageOutOfRange, http.StatusBadRequest},
		{"quota_out_of_range", domain.ErrPlanQuotaOutOfRange, http.StatusBadRequest},
		{"invalid_entity", store.ErrInvalidEntity, http.StatusBadRequest},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
		{
			"wrapped_sentinel",
			fmt.Errorf("loading plan: %w", store.ErrPlanNotFound),
			http.StatusNotFound,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, MapErrorToStatusCode(tc.err))
		})
	}
}

func TestGetSafeErrorMessage(t *testing.T) {
	t.Run("sentinel_gets_specific_message", func(t *testing.T) {
		assert.Equal(t, "Schedule plan not found", GetSafeErrorMessage(store.ErrPlanNotFound))
		assert.Equal(
			t,
			"No active schedule plan for that date",
			GetSafeErrorMessage(service.ErrNoActivePlan),
		)
	})

	t.Run("unknown_error_never_leaks_detail", func(t *testing.T) {
		err := errors.New("pq: connection to host db.internal:5432 refused")
		msg := GetSafeErrorMessage(err)
		assert.Equal(t, "An unexpected error occurred", msg)
		assert.NotContains(t, msg, "db.internal")
	})

	t.Run("nil_error", func(t *testing.T) {
		assert.Equal(t, "An unexpected error occurred", GetSafeErrorMessage(nil))
	})

	t.Run("quota_message_names_bounds", func(t *testing.T) {
		msg := GetSafeErrorMessage(domain.ErrPlanQuotaOutOfRange)
		assert.Equal(t, "Daily new pages must be between 0.5 and 5", msg)
		assert.NotContains(t, msg, "%!")
	})
}

func TestSanitizeValidationError(t *testing.T) {
	err := errors.New(
		"Key: 'GenerateScheduleRequest.Name' Error:Field validation for 'Name' failed on the 'required' tag",
	)
	assert.Equal(t, "Invalid Name: required field", SanitizeValidationError(err))

	assert.Equal(t, "Validation error", SanitizeValidationError(errors.New("something else")))
}
