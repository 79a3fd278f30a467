package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/hifz-api/internal/domain"
	"github.com/phrazzld/hifz-api/internal/service"
)

// MockMasteryService is a mock implementation of service.MasteryService
// for testing.
type MockMasteryService struct {
	SetStatusFn      func(ctx context.Context, tenantID string, status service.PageStatus) (*domain.MasteryRecord, error)
	SetStatusBatchFn func(ctx context.Context, tenantID string, statuses []service.PageStatus) ([]*domain.MasteryRecord, error)
	GetAllFn         func(ctx context.Context, tenantID string) ([]*domain.MasteryRecord, error)
	GetByChapterFn   func(ctx context.Context, tenantID string, chapterOrdinal int) ([]*domain.MasteryRecord, error)
}

func (m *MockMasteryService) SetStatus(
	ctx context.Context,
	tenantID string,
	status service.PageStatus,
) (*domain.MasteryRecord, error) {
	if m.SetStatusFn != nil {
		return m.SetStatusFn(ctx, tenantID, status)
	}
	return nil, nil
}

func (m *MockMasteryService) SetStatusBatch(
	ctx context.Context,
	tenantID string,
	statuses []service.PageStatus,
) ([]*domain.MasteryRecord, error) {
	if m.SetStatusBatchFn != nil {
		return m.SetStatusBatchFn(ctx, tenantID, statuses)
	}
	return nil, nil
}

func (m *MockMasteryService) GetAll(
	ctx context.Context,
	tenantID string,
) ([]*domain.MasteryRecord, error) {
	if m.GetAllFn != nil {
		return m.GetAllFn(ctx, tenantID)
	}
	return nil, nil
}

func (m *MockMasteryService) GetByChapter(
	ctx context.Context,
	tenantID string,
	chapterOrdinal int,
) ([]*domain.MasteryRecord, error) {
	if m.GetByChapterFn != nil {
		return m.GetByChapterFn(ctx, tenantID, chapterOrdinal)
	}
	return nil, nil
}

func masteryTestRouter(svc service.MasteryService) http.Handler {
	handler := NewMasteryHandler(svc, "default_user")
	r := chi.NewRouter()
	r.Put("/api/status", handler.SetStatus)
	r.Put("/api/status/batch", handler.SetStatusBatch)
	r.Get("/api/status/all", handler.GetAll)
	r.Get("/api/status/chapter/{ordinal}", handler.GetByChapter)
	return r
}

func testRecordFixture(chapter, page int, class domain.Classification) *domain.MasteryRecord {
	now := time.Date(2025, time.August, 10, 12, 0, 0, 0, time.UTC)
	return &domain.MasteryRecord{
		ID:             uuid.New(),
		TenantID:       "default_user",
		ChapterOrdinal: chapter,
		PageNumber:     page,
		Classification: class,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

func TestMasteryHandler_SetStatus(t *testing.T) {
	tests := []struct {
		name           string
		requestBody    interface{}
		setupMock      func(*MockMasteryService)
		expectedStatus int
	}{
		{
			name: "sets_status",
			requestBody: SetStatusRequest{
				Chapter:        2,
				Page:           4,
				Classification: "perfect",
			},
			setupMock: func(ms *MockMasteryService) {
				ms.SetStatusFn = func(ctx context.Context, tenantID string, status service.PageStatus) (*domain.MasteryRecord, error) {
					assert.Equal(t, "default_user", tenantID)
					assert.Equal(t, 2, status.ChapterOrdinal)
					assert.Equal(t, 4, status.PageNumber)
					assert.Equal(t, domain.ClassificationPerfect, status.Classification)
					return testRecordFixture(2, 4, domain.ClassificationPerfect), nil
				}
			},
			expectedStatus: http.StatusOK,
		},
		{
			name: "rejects_unknown_classification",
			requestBody: SetStatusRequest{
				Chapter:        2,
				Page:           4,
				Classification: "flawless",
			},
			setupMock:      func(ms *MockMasteryService) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "page_outside_chapter",
			requestBody: SetStatusRequest{
				Chapter:        2,
				Page:           400,
				Classification: "medium",
			},
			setupMock: func(ms *MockMasteryService) {
				ms.SetStatusFn = func(ctx context.Context, tenantID string, status service.PageStatus) (*domain.MasteryRecord, error) {
					return nil, service.ErrPageOutOfRange
				}
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "malformed_json",
			requestBody:    "{oops",
			setupMock:      func(ms *MockMasteryService) {},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			mockService := &MockMasteryService{}
			tc.setupMock(mockService)
			router := masteryTestRouter(mockService)

			var body []byte
			switch v := tc.requestBody.(type) {
			case string:
				body = []byte(v)
			default:
				var err error
				body, err = json.Marshal(v)
				require.NoError(t, err)
			}

			req := httptest.NewRequest(http.MethodPut, "/api/status", bytes.NewReader(body))
			req.Header.Set("Content-Type", "application/json")
			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, req)

			assert.Equal(t, tc.expectedStatus, rr.Code)
			if tc.expectedStatus == http.StatusOK {
				var got StatusResponse
				require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
				assert.Equal(t, 2, got.Chapter)
				assert.Equal(t, 4, got.Page)
				assert.Equal(t, "perfect", got.Classification)
			}
		})
	}
}

func TestMasteryHandler_SetStatusBatch(t *testing.T) {
	t.Run("grades_all_pages", func(t *testing.T) {
		mockService := &MockMasteryService{
			SetStatusBatchFn: func(ctx context.Context, tenantID string, statuses []service.PageStatus) ([]*domain.MasteryRecord, error) {
				assert.Equal(t, "alice", tenantID)
				require.Len(t, statuses, 2)
				return []*domain.MasteryRecord{
					testRecordFixture(1, 1, domain.ClassificationPerfect),
					testRecordFixture(1, 2, domain.ClassificationMedium),
				}, nil
			},
		}
		router := masteryTestRouter(mockService)

		body, err := json.Marshal(BatchSetStatusRequest{
			UserID: "alice",
			Statuses: []StatusEntry{
				{Chapter: 1, Page: 1, Classification: "perfect"},
				{Chapter: 1, Page: 2, Classification: "medium"},
			},
		})
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodPut, "/api/status/batch", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)

		var got []StatusResponse
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
		assert.Len(t, got, 2)
	})

	t.Run("rejects_empty_batch", func(t *testing.T) {
		router := masteryTestRouter(&MockMasteryService{})

		body, err := json.Marshal(BatchSetStatusRequest{Statuses: []StatusEntry{}})
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodPut, "/api/status/batch", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("rejects_bad_entry", func(t *testing.T) {
		router := masteryTestRouter(&MockMasteryService{})

		body, err := json.Marshal(BatchSetStatusRequest{
			Statuses: []StatusEntry{
				{Chapter: 1, Page: 1, Classification: "sideways"},
			},
		})
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodPut, "/api/status/batch", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestMasteryHandler_GetAll(t *testing.T) {
	mockService := &MockMasteryService{
		GetAllFn: func(ctx context.Context, tenantID string) ([]*domain.MasteryRecord, error) {
			assert.Equal(t, "bob", tenantID)
			return []*domain.MasteryRecord{
				testRecordFixture(1, 1, domain.ClassificationPerfect),
				testRecordFixture(1, 2, domain.ClassificationMedium),
				testRecordFixture(3, 9, domain.ClassificationBad),
			}, nil
		},
	}
	router := masteryTestRouter(mockService)

	req := httptest.NewRequest(http.MethodGet, "/api/status/all?userId=bob", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)

	var got StatusMapResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	assert.Equal(t, StatusMapResponse{
		1: {1: "perfect", 2: "medium"},
		3: {9: "bad"},
	}, got)
}

func TestMasteryHandler_GetByChapter(t *testing.T) {
	t.Run("returns_chapter_records", func(t *testing.T) {
		mockService := &MockMasteryService{
			GetByChapterFn: func(ctx context.Context, tenantID string, chapterOrdinal int) ([]*domain.MasteryRecord, error) {
				assert.Equal(t, 2, chapterOrdinal)
				return []*domain.MasteryRecord{
					testRecordFixture(2, 3, domain.ClassificationBad),
				}, nil
			},
		}
		router := masteryTestRouter(mockService)

		req := httptest.NewRequest(http.MethodGet, "/api/status/chapter/2", nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)

		var got []StatusResponse
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
		require.Len(t, got, 1)
		assert.Equal(t, 3, got[0].Page)
	})

	t.Run("rejects_bad_ordinal", func(t *testing.T) {
		router := masteryTestRouter(&MockMasteryService{})

		req := httptest.NewRequest(http.MethodGet, "/api/status/chapter/zero", nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}
