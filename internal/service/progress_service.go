package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/phrazzld/hifz-api/internal/domain"
)

// defaultRecentLimit caps recent-activity queries that do not specify a limit.
const defaultRecentLimit = 20

// ProgressStats summarizes a tenant's memorization progress.
type ProgressStats struct {
	PerfectCount      int     `json:"perfect_count"`
	MediumCount       int     `json:"medium_count"`
	BadCount          int     `json:"bad_count"`
	NotMemorizedCount int     `json:"not_memorized_count"`
	MemorizedPages    int     `json:"memorized_pages"`
	TotalCorpusPages  int     `json:"total_corpus_pages"`
	PercentMemorized  float64 `json:"percent_memorized"`
}

// ProgressService reports aggregate progress for a tenant.
type ProgressService interface {
	// Stats computes classification counts and overall completion against
	// the corpus page total.
	Stats(ctx context.Context, tenantID string) (*ProgressStats, error)

	// RecentActivity retrieves the tenant's most recently updated mastery
	// records, newest first. A non-positive limit falls back to a default.
	RecentActivity(ctx context.Context, tenantID string, limit int) ([]*domain.MasteryRecord, error)
}

// progressServiceImpl implements the ProgressService interface.
type progressServiceImpl struct {
	masteryRepo MasteryRepository
	chapterRepo ChapterRepository
	logger      *slog.Logger
}

// NewProgressService creates a new ProgressService.
// It returns an error if any of the required dependencies are nil.
func NewProgressService(
	masteryRepo MasteryRepository,
	chapterRepo ChapterRepository,
	log *slog.Logger,
) (ProgressService, error) {
	if masteryRepo == nil {
		return nil, fmt.Errorf("masteryRepo cannot be nil")
	}
	if chapterRepo == nil {
		return nil, fmt.Errorf("chapterRepo cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}

	return &progressServiceImpl{
		masteryRepo: masteryRepo,
		chapterRepo: chapterRepo,
		logger:      log.With(slog.String("component", "progress_service")),
	}, nil
}

// Stats implements ProgressService.Stats
func (s *progressServiceImpl) Stats(ctx context.Context, tenantID string) (*ProgressStats, error) {
	counts, err := s.masteryRepo.CountByClassification(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to count mastery records: %w", err)
	}

	chapters, err := s.chapterRepo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load corpus: %w", err)
	}

	totalPages := 0
	for i := range chapters {
		totalPages += chapters[i].PageCount
	}

	stats := &ProgressStats{
		PerfectCount:      counts[domain.ClassificationPerfect],
		MediumCount:       counts[domain.ClassificationMedium],
		BadCount:          counts[domain.ClassificationBad],
		NotMemorizedCount: counts[domain.ClassificationNotMemorized],
		TotalCorpusPages:  totalPages,
	}
	stats.MemorizedPages = stats.PerfectCount + stats.MediumCount + stats.BadCount
	if totalPages > 0 {
		stats.PercentMemorized = float64(stats.MemorizedPages) / float64(totalPages) * 100
	}

	return stats, nil
}

// RecentActivity implements ProgressService.RecentActivity
func (s *progressServiceImpl) RecentActivity(
	ctx context.Context,
	tenantID string,
	limit int,
) ([]*domain.MasteryRecord, error) {
	if limit <= 0 {
		limit = defaultRecentLimit
	}

	records, err := s.masteryRepo.ListRecent(ctx, tenantID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to load recent activity: %w", err)
	}
	return records, nil
}
