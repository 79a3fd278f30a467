package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/hifz-api/internal/domain"
	"github.com/phrazzld/hifz-api/internal/service"
	"github.com/phrazzld/hifz-api/internal/store"
)

// MockCorpusService is a mock implementation of service.CorpusService
// for testing.
type MockCorpusService struct {
	ListChaptersFn func(ctx context.Context) ([]domain.ChapterDescriptor, error)
	GetChapterFn   func(ctx context.Context, ordinal int) (*domain.ChapterDescriptor, error)
	ImportFn       func(ctx context.Context, chapters []domain.ChapterDescriptor) error
}

func (m *MockCorpusService) ListChapters(ctx context.Context) ([]domain.ChapterDescriptor, error) {
	if m.ListChaptersFn != nil {
		return m.ListChaptersFn(ctx)
	}
	return nil, nil
}

func (m *MockCorpusService) GetChapter(
	ctx context.Context,
	ordinal int,
) (*domain.ChapterDescriptor, error) {
	if m.GetChapterFn != nil {
		return m.GetChapterFn(ctx, ordinal)
	}
	return nil, nil
}

func (m *MockCorpusService) Import(ctx context.Context, chapters []domain.ChapterDescriptor) error {
	if m.ImportFn != nil {
		return m.ImportFn(ctx, chapters)
	}
	return nil
}

func chapterTestRouter(corpusSvc service.CorpusService, masterySvc service.MasteryService) http.Handler {
	handler := NewChapterHandler(corpusSvc, masterySvc, "default_user")
	r := chi.NewRouter()
	r.Get("/api/chapters", handler.ListChapters)
	r.Get("/api/chapters/{ordinal}", handler.GetChapter)
	r.Get("/api/chapters/{ordinal}/pages", handler.GetChapterPages)
	return r
}

func TestChapterHandler_ListChapters(t *testing.T) {
	mockService := &MockCorpusService{
		ListChaptersFn: func(ctx context.Context) ([]domain.ChapterDescriptor, error) {
			return []domain.ChapterDescriptor{
				{Ordinal: 1, NamePrimary: "First", StartPage: 1, EndPage: 2, PageCount: 2},
				{Ordinal: 2, NamePrimary: "Second", StartPage: 3, EndPage: 6, PageCount: 4},
			}, nil
		},
	}
	router := chapterTestRouter(mockService, &MockMasteryService{})

	req := httptest.NewRequest(http.MethodGet, "/api/chapters", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)

	var got []domain.ChapterDescriptor
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	require.Len(t, got, 2)
	assert.Equal(t, "First", got[0].NamePrimary)
	assert.Equal(t, 2, got[1].Ordinal)
}

func TestChapterHandler_GetChapter(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		mockService := &MockCorpusService{
			GetChapterFn: func(ctx context.Context, ordinal int) (*domain.ChapterDescriptor, error) {
				assert.Equal(t, 2, ordinal)
				return &domain.ChapterDescriptor{
					Ordinal:     2,
					NamePrimary: "Second",
					StartPage:   3,
					EndPage:     6,
					PageCount:   4,
				}, nil
			},
		}
		router := chapterTestRouter(mockService, &MockMasteryService{})

		req := httptest.NewRequest(http.MethodGet, "/api/chapters/2", nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)

		var got domain.ChapterDescriptor
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
		assert.Equal(t, "Second", got.NamePrimary)
	})

	t.Run("not_found", func(t *testing.T) {
		mockService := &MockCorpusService{
			GetChapterFn: func(ctx context.Context, ordinal int) (*domain.ChapterDescriptor, error) {
				return nil, store.ErrChapterNotFound
			},
		}
		router := chapterTestRouter(mockService, &MockMasteryService{})

		req := httptest.NewRequest(http.MethodGet, "/api/chapters/999", nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusNotFound, rr.Code)
	})

	t.Run("invalid_ordinal", func(t *testing.T) {
		router := chapterTestRouter(&MockCorpusService{}, &MockMasteryService{})

		req := httptest.NewRequest(http.MethodGet, "/api/chapters/abc", nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestChapterHandler_GetChapterPages(t *testing.T) {
	corpusService := &MockCorpusService{
		GetChapterFn: func(ctx context.Context, ordinal int) (*domain.ChapterDescriptor, error) {
			return &domain.ChapterDescriptor{
				Ordinal:     2,
				NamePrimary: "Second",
				StartPage:   3,
				EndPage:     6,
				PageCount:   4,
			}, nil
		},
	}

	t.Run("joins_grades_onto_pages", func(t *testing.T) {
		masteryService := &MockMasteryService{
			GetByChapterFn: func(ctx context.Context, tenantID string, chapterOrdinal int) ([]*domain.MasteryRecord, error) {
				assert.Equal(t, "default_user", tenantID)
				return []*domain.MasteryRecord{
					testRecordFixture(2, 4, domain.ClassificationPerfect),
					testRecordFixture(2, 5, domain.ClassificationBad),
				}, nil
			},
		}
		router := chapterTestRouter(corpusService, masteryService)

		req := httptest.NewRequest(http.MethodGet, "/api/chapters/2/pages", nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)

		var got ChapterPagesResponse
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
		assert.Equal(t, 2, got.Ordinal)
		assert.Equal(t, "Second", got.NamePrimary)
		require.Len(t, got.Pages, 4)
		assert.Equal(t, PageClassification{Page: 3, Classification: "not_memorized"}, got.Pages[0])
		assert.Equal(t, PageClassification{Page: 4, Classification: "perfect"}, got.Pages[1])
		assert.Equal(t, PageClassification{Page: 5, Classification: "bad"}, got.Pages[2])
		assert.Equal(t, PageClassification{Page: 6, Classification: "not_memorized"}, got.Pages[3])
	})

	t.Run("chapter_not_found", func(t *testing.T) {
		missing := &MockCorpusService{
			GetChapterFn: func(ctx context.Context, ordinal int) (*domain.ChapterDescriptor, error) {
				return nil, store.ErrChapterNotFound
			},
		}
		router := chapterTestRouter(missing, &MockMasteryService{})

		req := httptest.NewRequest(http.MethodGet, "/api/chapters/999/pages", nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusNotFound, rr.Code)
	})

	t.Run("bogus_ordinal", func(t *testing.T) {
		router := chapterTestRouter(&MockCorpusService{}, &MockMasteryService{})

		req := httptest.NewRequest(http.MethodGet, "/api/chapters/abc", nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}
