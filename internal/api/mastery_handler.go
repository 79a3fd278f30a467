package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/phrazzld/hifz-api/internal/api/shared"
	"github.com/phrazzld/hifz-api/internal/domain"
	"github.com/phrazzld/hifz-api/internal/service"
)

// MasteryHandler handles mastery status HTTP requests
type MasteryHandler struct {
	masteryService service.MasteryService
	defaultTenant  string
	validator      *validator.Validate
}

// NewMasteryHandler creates a new MasteryHandler
func NewMasteryHandler(masteryService service.MasteryService, defaultTenant string) *MasteryHandler {
	return &MasteryHandler{
		masteryService: masteryService,
		defaultTenant:  defaultTenant,
		validator:      validator.New(),
	}
}

func (h *MasteryHandler) tenant(userID string) string {
	if userID == "" {
		return h.defaultTenant
	}
	return userID
}

// SetStatus handles PUT /api/status requests
func (h *MasteryHandler) SetStatus(w http.ResponseWriter, r *http.Request) {
	var req SetStatusRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	record, err := h.masteryService.SetStatus(r.Context(), h.tenant(req.UserID), service.PageStatus{
		ChapterOrdinal: req.Chapter,
		PageNumber:     req.Page,
		Classification: domain.Classification(req.Classification),
	})
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, recordToStatusResponse(record))
}

// SetStatusBatch handles PUT /api/status/batch requests
func (h *MasteryHandler) SetStatusBatch(w http.ResponseWriter, r *http.Request) {
	var req BatchSetStatusRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	statuses := make([]service.PageStatus, 0, len(req.Statuses))
	for _, entry := range req.Statuses {
		statuses = append(statuses, service.PageStatus{
			ChapterOrdinal: entry.Chapter,
			PageNumber:     entry.Page,
			Classification: domain.Classification(entry.Classification),
		})
	}

	records, err := h.masteryService.SetStatusBatch(r.Context(), h.tenant(req.UserID), statuses)
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

// GetAll handles GET /api/status/all requests.
// Records are grouped into a chapter-to-pages map, so clients can look up
// a page's classification without scanning a list.
func (h *MasteryHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	tenantID := h.tenant(r.URL.Query().Get("userId"))

	records, err := h.masteryService.GetAll(r.Context(), tenantID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	grouped := make(StatusMapResponse, len(records))
	for _, record := range records {
		pages, ok := grouped[record.ChapterOrdinal]
		if !ok {
			pages = make(map[int]string)
			grouped[record.ChapterOrdinal] = pages
		}
		pages[record.PageNumber] = string(record.Classification)
	}

	shared.RespondWithJSON(w, r, http.StatusOK, grouped)
}

// GetByChapter handles GET /api/status/chapter/{ordinal} requests
func (h *MasteryHandler) GetByChapter(w http.ResponseWriter, r *http.Request) {
	ordinal, err := strconv.Atoi(chi.URLParam(r, "ordinal"))
	if err != nil || ordinal < 1 {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid chapter ordinal")
		return
	}

	tenantID := h.tenant(r.URL.Query().Get("userId"))

	records, err := h.masteryService.GetByChapter(r.Context(), tenantID, ordinal)
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
