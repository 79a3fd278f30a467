package service

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/phrazzld/hifz-api/internal/domain"
	"github.com/phrazzld/hifz-api/internal/events"
	"github.com/phrazzld/hifz-api/internal/store"
)

// fakeScheduleRepo is an in-memory ScheduleRepository for service tests.
type fakeScheduleRepo struct {
	db    *sql.DB
	plans map[uuid.UUID]*domain.SchedulePlan
}

func newFakeScheduleRepo(db *sql.DB) *fakeScheduleRepo {
	return &fakeScheduleRepo{
		db:    db,
		plans: make(map[uuid.UUID]*domain.SchedulePlan),
	}
}

func (f *fakeScheduleRepo) Create(ctx context.Context, plan *domain.SchedulePlan) error {
	if _, ok := f.plans[plan.ID]; ok {
		return store.ErrDuplicate
	}
	f.plans[plan.ID] = plan
	return nil
}

func (f *fakeScheduleRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.SchedulePlan, error) {
	plan, ok := f.plans[id]
	if !ok {
		return nil, store.ErrPlanNotFound
	}
	return plan, nil
}

func (f *fakeScheduleRepo) GetByIDForUpdate(
	ctx context.Context,
	id uuid.UUID,
) (*domain.SchedulePlan, error) {
	return f.GetByID(ctx, id)
}

func (f *fakeScheduleRepo) ListByTenant(ctx context.Context, tenantID string) ([]*domain.SchedulePlan, error) {
	plans := []*domain.SchedulePlan{}
	for _, plan := range f.plans {
		if plan.TenantID == tenantID {
			plans = append(plans, plan)
		}
	}
	sort.Slice(plans, func(i, j int) bool {
		return plans[i].CreatedAt.After(plans[j].CreatedAt)
	})
	return plans, nil
}

func (f *fakeScheduleRepo) ListActiveOn(
	ctx context.Context,
	tenantID string,
	date time.Time,
) ([]*domain.SchedulePlan, error) {
	active := []*domain.SchedulePlan{}
	for _, plan := range f.plans {
		if plan.TenantID != tenantID || plan.Status != domain.PlanStatusActive {
			continue
		}
		if date.Before(plan.StartDate) || date.After(plan.EndDate) {
			continue
		}
		active = append(active, plan)
	}
	sort.Slice(active, func(i, j int) bool {
		return active[i].CreatedAt.After(active[j].CreatedAt)
	})
	return active, nil
}

func (f *fakeScheduleRepo) Update(ctx context.Context, plan *domain.SchedulePlan) error {
	if _, ok := f.plans[plan.ID]; !ok {
		return store.ErrPlanNotFound
	}
	f.plans[plan.ID] = plan
	return nil
}

func (f *fakeScheduleRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := f.plans[id]; !ok {
		return store.ErrPlanNotFound
	}
	delete(f.plans, id)
	return nil
}

func (f *fakeScheduleRepo) WithTx(tx *sql.Tx) ScheduleRepository { return f }

func (f *fakeScheduleRepo) DB() *sql.DB { return f.db }

// fakeMasteryRepo is an in-memory MasteryRepository for service tests.
type fakeMasteryRepo struct {
	db      *sql.DB
	records map[string]*domain.MasteryRecord
}

func newFakeMasteryRepo(db *sql.DB) *fakeMasteryRepo {
	return &fakeMasteryRepo{
		db:      db,
		records: make(map[string]*domain.MasteryRecord),
	}
}

func masteryKey(tenantID string, chapter, page int) string {
	return fmt.Sprintf("%s/%d/%d", tenantID, chapter, page)
}

func (f *fakeMasteryRepo) Upsert(ctx context.Context, record *domain.MasteryRecord) error {
	key := masteryKey(record.TenantID, record.ChapterOrdinal, record.PageNumber)
	if existing, ok := f.records[key]; ok {
		existing.Classification = record.Classification
		existing.UpdatedAt = record.UpdatedAt
		return nil
	}
	f.records[key] = record
	return nil
}

func (f *fakeMasteryRepo) BatchUpsert(ctx context.Context, records []*domain.MasteryRecord) error {
	for _, record := range records {
		if err := f.Upsert(ctx, record); err != nil {
			return err
		}
	}
	return nil
}

func (f *fakeMasteryRepo) GetAllByTenant(ctx context.Context, tenantID string) ([]*domain.MasteryRecord, error) {
	records := []*domain.MasteryRecord{}
	for _, record := range f.records {
		if record.TenantID == tenantID {
			records = append(records, record)
		}
	}
	sort.Slice(records, func(i, j int) bool {
		if records[i].ChapterOrdinal != records[j].ChapterOrdinal {
			return records[i].ChapterOrdinal < records[j].ChapterOrdinal
		}
		return records[i].PageNumber < records[j].PageNumber
	})
	return records, nil
}

func (f *fakeMasteryRepo) GetByTenantChapter(
	ctx context.Context,
	tenantID string,
	chapterOrdinal int,
) ([]*domain.MasteryRecord, error) {
	all, _ := f.GetAllByTenant(ctx, tenantID)
	records := []*domain.MasteryRecord{}
	for _, record := range all {
		if record.ChapterOrdinal == chapterOrdinal {
			records = append(records, record)
		}
	}
	return records, nil
}

func (f *fakeMasteryRepo) CountByClassification(
	ctx context.Context,
	tenantID string,
) (map[domain.Classification]int, error) {
	counts := make(map[domain.Classification]int)
	for _, record := range f.records {
		if record.TenantID == tenantID {
			counts[record.Classification]++
		}
	}
	return counts, nil
}

func (f *fakeMasteryRepo) ListRecent(
	ctx context.Context,
	tenantID string,
	limit int,
) ([]*domain.MasteryRecord, error) {
	all, _ := f.GetAllByTenant(ctx, tenantID)
	sort.Slice(all, func(i, j int) bool {
		return all[i].UpdatedAt.After(all[j].UpdatedAt)
	})
	if len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

func (f *fakeMasteryRepo) WithTx(tx *sql.Tx) MasteryRepository { return f }

func (f *fakeMasteryRepo) DB() *sql.DB { return f.db }

// fakeChapterRepo is an in-memory ChapterRepository for service tests.
type fakeChapterRepo struct {
	db       *sql.DB
	chapters []domain.ChapterDescriptor
}

func newFakeChapterRepo(db *sql.DB, chapters []domain.ChapterDescriptor) *fakeChapterRepo {
	return &fakeChapterRepo{db: db, chapters: chapters}
}

func (f *fakeChapterRepo) ReplaceAll(ctx context.Context, chapters []domain.ChapterDescriptor) error {
	f.chapters = append([]domain.ChapterDescriptor{}, chapters...)
	return nil
}

func (f *fakeChapterRepo) GetAll(ctx context.Context) ([]domain.ChapterDescriptor, error) {
	return f.chapters, nil
}

func (f *fakeChapterRepo) GetByOrdinal(ctx context.Context, ordinal int) (*domain.ChapterDescriptor, error) {
	for i := range f.chapters {
		if f.chapters[i].Ordinal == ordinal {
			return &f.chapters[i], nil
		}
	}
	return nil, store.ErrChapterNotFound
}

func (f *fakeChapterRepo) WithTx(tx *sql.Tx) ChapterRepository { return f }

func (f *fakeChapterRepo) DB() *sql.DB { return f.db }

// serviceTestCorpus mirrors a tiny three-chapter corpus.
func serviceTestCorpus() []domain.ChapterDescriptor {
	return []domain.ChapterDescriptor{
		{Ordinal: 1, NamePrimary: "First", StartPage: 1, EndPage: 2, PageCount: 2},
		{Ordinal: 2, NamePrimary: "Second", StartPage: 3, EndPage: 6, PageCount: 4},
		{Ordinal: 3, NamePrimary: "Third", StartPage: 7, EndPage: 9, PageCount: 3},
	}
}

// recordingEmitter captures emitted events for assertions.
type recordingEmitter struct {
	events []*events.Event
}

func (r *recordingEmitter) Emit(ctx context.Context, event *events.Event) error {
	r.events = append(r.events, event)
	return nil
}
