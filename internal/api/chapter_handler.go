package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/phrazzld/hifz-api/internal/api/shared"
	"github.com/phrazzld/hifz-api/internal/domain"
	"github.com/phrazzld/hifz-api/internal/service"
)

// ChapterHandler handles corpus chapter HTTP requests
type ChapterHandler struct {
	corpusService  service.CorpusService
	masteryService service.MasteryService
	defaultTenant  string
}

// NewChapterHandler creates a new ChapterHandler
func NewChapterHandler(
	corpusService service.CorpusService,
	masteryService service.MasteryService,
	defaultTenant string,
) *ChapterHandler {
	return &ChapterHandler{
		corpusService:  corpusService,
		masteryService: masteryService,
		defaultTenant:  defaultTenant,
	}
}

func (h *ChapterHandler) tenant(userID string) string {
	if userID == "" {
		return h.defaultTenant
	}
	return userID
}

// parseOrdinal extracts and validates the chapter ordinal URL parameter.
func parseOrdinal(r *http.Request) (int, bool) {
	ordinal, err := strconv.Atoi(chi.URLParam(r, "ordinal"))
	if err != nil || ordinal < 1 {
		return 0, false
	}
	return ordinal, true
}

// ListChapters handles GET /api/chapters requests
func (h *ChapterHandler) ListChapters(w http.ResponseWriter, r *http.Request) {
	chapters, err := h.corpusService.ListChapters(r.Context())
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, chapters)
}

// GetChapter handles GET /api/chapters/{ordinal} requests
func (h *ChapterHandler) GetChapter(w http.ResponseWriter, r *http.Request) {
	ordinal, ok := parseOrdinal(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid chapter ordinal")
		return
	}

	chapter, err := h.corpusService.GetChapter(r.Context(), ordinal)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, chapter)
}

// GetChapterPages handles GET /api/chapters/{ordinal}/pages requests.
// It returns every page of the chapter joined with the tenant's recorded
// grade; ungraded pages report not_memorized.
func (h *ChapterHandler) GetChapterPages(w http.ResponseWriter, r *http.Request) {
	ordinal, ok := parseOrdinal(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid chapter ordinal")
		return
	}

	chapter, err := h.corpusService.GetChapter(r.Context(), ordinal)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	tenantID := h.tenant(r.URL.Query().Get("userId"))
	records, err := h.masteryService.GetByChapter(r.Context(), tenantID, ordinal)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	graded := make(map[int]domain.Classification, len(records))
	for _, record := range records {
		graded[record.PageNumber] = record.Classification
	}

	pages := make([]PageClassification, 0, chapter.EndPage-chapter.StartPage+1)
	for page := chapter.StartPage; page <= chapter.EndPage; page++ {
		classification, ok := graded[page]
		if !ok {
			classification = domain.ClassificationNotMemorized
		}
		pages = append(pages, PageClassification{
			Page:           page,
			Classification: string(classification),
		})
	}

	shared.RespondWithJSON(w, r, http.StatusOK, ChapterPagesResponse{
		Ordinal:     chapter.Ordinal,
		NamePrimary: chapter.NamePrimary,
		Pages:       pages,
	})
}
