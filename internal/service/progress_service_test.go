package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/hifz-api/internal/domain"
)

func newProgressService(t *testing.T) (ProgressService, *fakeMasteryRepo) {
	t.Helper()
	db, _ := mockDB(t)
	masteryRepo := newFakeMasteryRepo(db)
	chapterRepo := newFakeChapterRepo(db, serviceTestCorpus())

	svc, err := NewProgressService(masteryRepo, chapterRepo, nil)
	require.NoError(t, err)
	return svc, masteryRepo
}

func seedRecord(
	t *testing.T,
	repo *fakeMasteryRepo,
	chapter, page int,
	classification domain.Classification,
	updated time.Time,
) {
	t.Helper()
	record, err := domain.NewMasteryRecord("tenant-1", chapter, page, classification)
	require.NoError(t, err)
	record.UpdatedAt = updated
	require.NoError(t, repo.Upsert(context.Background(), record))
}

func TestProgressStats(t *testing.T) {
	svc, masteryRepo := newProgressService(t)
	now := time.Now().UTC()

	seedRecord(t, masteryRepo, 1, 1, domain.ClassificationPerfect, now)
	seedRecord(t, masteryRepo, 1, 2, domain.ClassificationPerfect, now)
	seedRecord(t, masteryRepo, 2, 3, domain.ClassificationMedium, now)
	seedRecord(t, masteryRepo, 2, 4, domain.ClassificationBad, now)
	seedRecord(t, masteryRepo, 3, 7, domain.ClassificationNotMemorized, now)

	stats, err := svc.Stats(context.Background(), "tenant-1")
	require.NoError(t, err)

	assert.Equal(t, 2, stats.PerfectCount)
	assert.Equal(t, 1, stats.MediumCount)
	assert.Equal(t, 1, stats.BadCount)
	assert.Equal(t, 1, stats.NotMemorizedCount)
	// not_memorized does not count toward memorized pages
	assert.Equal(t, 4, stats.MemorizedPages)
	assert.Equal(t, 9, stats.TotalCorpusPages)
	assert.InDelta(t, 4.0/9.0*100, stats.PercentMemorized, 0.001)
}

func TestProgressStatsEmptyTenant(t *testing.T) {
	svc, _ := newProgressService(t)

	stats, err := svc.Stats(context.Background(), "tenant-1")
	require.NoError(t, err)
	assert.Equal(t, 0, stats.MemorizedPages)
	assert.Equal(t, 9, stats.TotalCorpusPages)
	assert.Zero(t, stats.PercentMemorized)
}

func TestRecentActivity(t *testing.T) {
	svc, masteryRepo := newProgressService(t)
	base := time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC)

	seedRecord(t, masteryRepo, 1, 1, domain.ClassificationPerfect, base)
	seedRecord(t, masteryRepo, 1, 2, domain.ClassificationMedium, base.AddDate(0, 0, 2))
	seedRecord(t, masteryRepo, 2, 3, domain.ClassificationBad, base.AddDate(0, 0, 1))

	records, err := svc.RecentActivity(context.Background(), "tenant-1", 2)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, 2, records[0].PageNumber)
	assert.Equal(t, 3, records[1].PageNumber)
}

func TestRecentActivityDefaultLimit(t *testing.T) {
	svc, masteryRepo := newProgressService(t)
	seedRecord(t, masteryRepo, 1, 1, domain.ClassificationPerfect, time.Now().UTC())

	records, err := svc.RecentActivity(context.Background(), "tenant-1", 0)
	require.NoError(t, err)
	assert.Len(t, records, 1)
}
