package api

import (
	"net/http"
	"strconv"

	"github.com/phrazzld/hifz-api/internal/api/shared"
	"github.com/phrazzld/hifz-api/internal/service"
)

const maxRecentLimit = 100

// ProgressHandler handles progress reporting HTTP requests
type ProgressHandler struct {
	progressService service.ProgressService
	defaultTenant   string
}

// NewProgressHandler creates a new ProgressHandler
func NewProgressHandler(progressService service.ProgressService, defaultTenant string) *ProgressHandler {
	return &ProgressHandler{
		progressService: progressService,
		defaultTenant:   defaultTenant,
	}
}

func (h *ProgressHandler) tenant(userID string) string {
	if userID == "" {
		return h.defaultTenant
	}
	return userID
}

// Stats handles GET /api/progress/stats requests
func (h *ProgressHandler) Stats(w http.ResponseWriter, r *http.Request) {
	tenantID := h.tenant(r.URL.Query().Get("userId"))

	stats, err := h.progressService.Stats(r.Context(), tenantID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, stats)
}

// Recent handles GET /api/progress/recent requests. The limit query
// parameter caps the number of returned records.
func (h *ProgressHandler) Recent(w http.ResponseWriter, r *http.Request) {
	tenantID := h.tenant(r.URL.Query().Get("userId"))

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > maxRecentLimit {
			shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid limit")
			return
		}
		limit = parsed
	}

	records, err := h.progressService.RecentActivity(r.Context(), tenantID, limit)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	responses := make([]StatusResponse, 0, len(records))
	for _, record := range records {
		responses = append(responses, recordToStatusResponse(record))
	}

	shared.RespondWithJSON(w, r, http.StatusOK, responses)
}
