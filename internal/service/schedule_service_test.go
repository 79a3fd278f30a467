package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/hifz-api/internal/corpus"
	"github.com/phrazzld/hifz-api/internal/domain"
	"github.com/phrazzld/hifz-api/internal/events"
	"github.com/phrazzld/hifz-api/internal/store"
)

func mockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

func newScheduleService(
	t *testing.T,
	db *sql.DB,
) (ScheduleService, *fakeScheduleRepo, *fakeMasteryRepo) {
	t.Helper()

	scheduleRepo := newFakeScheduleRepo(db)
	masteryRepo := newFakeMasteryRepo(db)
	chapterRepo := newFakeChapterRepo(db, serviceTestCorpus())

	svc, err := NewScheduleService(scheduleRepo, masteryRepo, chapterRepo, nil, nil)
	require.NoError(t, err)
	return svc, scheduleRepo, masteryRepo
}

func generateReq() GenerateScheduleRequest {
	return GenerateScheduleRequest{
		TenantID:      "tenant-1",
		Name:          "first pass",
		StartDate:     time.Date(2025, 8, 10, 0, 0, 0, 0, time.UTC),
		TotalDays:     3,
		DailyNewPages: 2,
		Direction:     "forward",
	}
}

func TestGenerateSchedulePersistsPlan(t *testing.T) {
	db, _ := mockDB(t)
	svc, scheduleRepo, _ := newScheduleService(t, db)

	plan, err := svc.GenerateSchedule(context.Background(), generateReq())
	require.NoError(t, err)

	assert.Len(t, plan.Days, 3)
	assert.Equal(t, domain.PlanStatusActive, plan.Status)

	stored, err := scheduleRepo.GetByID(context.Background(), plan.ID)
	require.NoError(t, err)
	assert.Equal(t, plan, stored)
}

func TestGenerateScheduleEmitsEvent(t *testing.T) {
	db, _ := mockDB(t)
	scheduleRepo := newFakeScheduleRepo(db)
	masteryRepo := newFakeMasteryRepo(db)
	chapterRepo := newFakeChapterRepo(db, serviceTestCorpus())
	emitter := &recordingEmitter{}

	svc, err := NewScheduleService(
		scheduleRepo,
		masteryRepo,
		chapterRepo,
		nil,
		nil,
		WithScheduleEvents(emitter),
	)
	require.NoError(t, err)

	plan, err := svc.GenerateSchedule(context.Background(), generateReq())
	require.NoError(t, err)

	require.Len(t, emitter.events, 1)
	assert.Equal(t, events.TypePlanGenerated, emitter.events[0].Type)

	var payload events.PlanGeneratedPayload
	require.NoError(t, emitter.events[0].UnmarshalPayload(&payload))
	assert.Equal(t, plan.ID, payload.PlanID)
	assert.Equal(t, "tenant-1", payload.TenantID)
	assert.Equal(t, 3, payload.TotalDays)
}

func TestGenerateScheduleEmptyCorpus(t *testing.T) {
	db, _ := mockDB(t)
	scheduleRepo := newFakeScheduleRepo(db)
	masteryRepo := newFakeMasteryRepo(db)
	chapterRepo := newFakeChapterRepo(db, nil)

	svc, err := NewScheduleService(scheduleRepo, masteryRepo, chapterRepo, nil, nil)
	require.NoError(t, err)

	_, err = svc.GenerateSchedule(context.Background(), generateReq())
	assert.ErrorIs(t, err, ErrCorpusEmpty)
}

func TestGenerateScheduleInvalidDirection(t *testing.T) {
	db, _ := mockDB(t)
	svc, _, _ := newScheduleService(t, db)

	req := generateReq()
	req.Direction = "sideways"

	_, err := svc.GenerateSchedule(context.Background(), req)
	assert.ErrorIs(t, err, corpus.ErrInvalidDirection)
}

func TestGenerateScheduleDefaultDirection(t *testing.T) {
	db, _ := mockDB(t)
	svc, _, _ := newScheduleService(t, db)

	req := generateReq()
	req.Direction = ""

	plan, err := svc.GenerateSchedule(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "forward", plan.Direction)
}

func TestGetScheduleNotFound(t *testing.T) {
	db, _ := mockDB(t)
	svc, _, _ := newScheduleService(t, db)

	_, err := svc.GetSchedule(context.Background(), uuid.New())
	assert.ErrorIs(t, err, store.ErrPlanNotFound)
}

func TestDeleteScheduleNotFound(t *testing.T) {
	db, _ := mockDB(t)
	svc, _, _ := newScheduleService(t, db)

	err := svc.DeleteSchedule(context.Background(), uuid.New())
	assert.ErrorIs(t, err, store.ErrPlanNotFound)
}

func TestAssignmentsOn(t *testing.T) {
	db, _ := mockDB(t)
	svc, _, _ := newScheduleService(t, db)

	plan, err := svc.GenerateSchedule(context.Background(), generateReq())
	require.NoError(t, err)

	days, err := svc.AssignmentsOn(context.Background(), "tenant-1", plan.StartDate.AddDate(0, 0, 1))
	require.NoError(t, err)
	require.Len(t, days, 1)
	assert.Equal(t, plan.ID, days[0].PlanID)
	assert.Equal(t, plan.Name, days[0].PlanName)
	assert.Equal(t, plan.Days[1].Assignments, days[0].Assignments)
}

func TestAssignmentsOnOverlappingPlans(t *testing.T) {
	db, _ := mockDB(t)
	svc, _, _ := newScheduleService(t, db)

	first, err := svc.GenerateSchedule(context.Background(), generateReq())
	require.NoError(t, err)

	second := generateReq()
	second.Name = "second pass"
	other, err := svc.GenerateSchedule(context.Background(), second)
	require.NoError(t, err)

	days, err := svc.AssignmentsOn(context.Background(), "tenant-1", first.StartDate)
	require.NoError(t, err)
	require.Len(t, days, 2)

	ids := []uuid.UUID{days[0].PlanID, days[1].PlanID}
	assert.Contains(t, ids, first.ID)
	assert.Contains(t, ids, other.ID)
}

func TestAssignmentsOnNoActivePlan(t *testing.T) {
	db, _ := mockDB(t)
	svc, _, _ := newScheduleService(t, db)

	_, err := svc.AssignmentsOn(context.Background(), "tenant-1", time.Now().UTC())
	assert.ErrorIs(t, err, ErrNoActivePlan)
}

func TestCompleteAssignment(t *testing.T) {
	db, mock := mockDB(t)
	svc, scheduleRepo, _ := newScheduleService(t, db)

	plan, err := svc.GenerateSchedule(context.Background(), generateReq())
	require.NoError(t, err)
	require.NotEmpty(t, plan.Days[0].Assignments)

	mock.ExpectBegin()
	mock.ExpectCommit()

	updated, err := svc.CompleteAssignment(context.Background(), plan.ID, plan.StartDate, 0, true)
	require.NoError(t, err)
	assert.True(t, updated.Days[0].Assignments[0].Completed)

	stored, err := scheduleRepo.GetByID(context.Background(), plan.ID)
	require.NoError(t, err)
	assert.True(t, stored.Days[0].Assignments[0].Completed)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCompleteAssignmentBadIndex(t *testing.T) {
	db, mock := mockDB(t)
	svc, _, _ := newScheduleService(t, db)

	plan, err := svc.GenerateSchedule(context.Background(), generateReq())
	require.NoError(t, err)

	mock.ExpectBegin()
	mock.ExpectRollback()

	_, err = svc.CompleteAssignment(context.Background(), plan.ID, plan.StartDate, 99, true)
	assert.ErrorIs(t, err, domain.ErrAssignmentNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCompleteAssignmentUnknownPlan(t *testing.T) {
	db, mock := mockDB(t)
	svc, _, _ := newScheduleService(t, db)

	mock.ExpectBegin()
	mock.ExpectRollback()

	_, err := svc.CompleteAssignment(context.Background(), uuid.New(), time.Now().UTC(), 0, true)
	assert.ErrorIs(t, err, store.ErrPlanNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGenerateScheduleUsesMasteryState(t *testing.T) {
	db, _ := mockDB(t)
	svc, _, masteryRepo := newScheduleService(t, db)

	// All of chapter 1 memorized: new material starts at chapter 2.
	for page := 1; page <= 2; page++ {
		record, err := domain.NewMasteryRecord("tenant-1", 1, page, domain.ClassificationPerfect)
		require.NoError(t, err)
		require.NoError(t, masteryRepo.Upsert(context.Background(), record))
	}

	plan, err := svc.GenerateSchedule(context.Background(), generateReq())
	require.NoError(t, err)

	for _, a := range plan.Days[0].Assignments {
		if a.Kind == domain.AssignmentNew {
			assert.Equal(t, 2, a.ChapterOrdinal)
		}
	}
}
