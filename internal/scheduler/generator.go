package scheduler

import (
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/phrazzld/hifz-api/internal/corpus"
	"github.com/phrazzld/hifz-api/internal/domain"
)

// GenerateRequest carries the validated inputs of one generation run.
// TenantID is always explicit here; defaulting is an HTTP-boundary
// concern.
type GenerateRequest struct {
	TenantID      string
	Name          string
	StartDate     time.Time
	TotalDays     int
	DailyNewPages float64
	Direction     corpus.Direction
}

// Generator is the daily allocator. It holds the immutable corpus index
// and the algorithm parameters; each Generate call operates on its own
// working snapshot, so concurrent runs need no coordination.
type Generator struct {
	index  *corpus.Index
	params *Params
	logger *slog.Logger
}

// NewGenerator creates a Generator.
func NewGenerator(index *corpus.Index, params *Params, logger *slog.Logger) *Generator {
	if index == nil {
		panic("index cannot be nil")
	}
	if params == nil {
		params = NewDefaultParams()
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Generator{
		index:  index,
		params: params,
		logger: logger.With(slog.String("component", "schedule_generator")),
	}
}

// Generate runs the day-by-day allocation over the requested span and
// returns a complete plan, or an error before any day processing if the
// request is invalid. Nothing is persisted here; the caller owns the
// storage write, so a failed run leaves no partial plan behind.
//
// Per day: the revision distribution is recomputed from the current
// working snapshot and the day's bucket emitted first; on ordinary days
// the cursor then yields up to the daily quota of new pages, each
// immediately promoted to the snapshot's medium pool so the following
// days revise it; on the special weekday the full page range of the
// special chapter is appended instead and no new material is consumed.
func (g *Generator) Generate(
	req GenerateRequest,
	records []*domain.MasteryRecord,
) (*domain.SchedulePlan, error) {
	start := midnightUTC(req.StartDate)

	plan := &domain.SchedulePlan{
		ID:            uuid.New(),
		TenantID:      req.TenantID,
		Name:          req.Name,
		StartDate:     start,
		EndDate:       start.AddDate(0, 0, req.TotalDays-1),
		TotalDays:     req.TotalDays,
		DailyNewPages: req.DailyNewPages,
		Direction:     string(req.Direction),
		Status:        domain.PlanStatusActive,
	}
	if err := plan.Validate(); err != nil {
		return nil, err
	}
	if _, err := corpus.ParseDirection(string(req.Direction)); err != nil {
		return nil, err
	}

	snapshot := NewSnapshot(records, g.params.SortPolicy)
	cursor := NewCursor(g.index, req.Direction, snapshot)
	quota := int(math.Ceil(req.DailyNewPages))

	g.logger.Debug("starting generation",
		slog.String("tenant_id", req.TenantID),
		slog.Int("total_days", req.TotalDays),
		slog.Int("memorized", snapshot.MemorizedCount()),
		slog.Int("unlearned", cursor.Remaining()),
		slog.String("direction", string(req.Direction)))

	days := make([]domain.DayPlan, 0, req.TotalDays)
	for day := 0; day < req.TotalDays; day++ {
		date := start.AddDate(0, 0, day)
		assignments := []domain.Assignment{}

		// Revision first, from the day's bucket of the current distribution.
		revision := PlanRevision(snapshot, g.params)
		for _, ref := range revision.Bucket(day) {
			classification := snapshot.Classify(ref.ChapterOrdinal, ref.PageNumber)
			assignments = append(assignments, domain.Assignment{
				Kind:           domain.AssignmentRevision,
				ChapterOrdinal: ref.ChapterOrdinal,
				PageNumber:     ref.PageNumber,
				Classification: classification,
				Label:          revisionLabel(classification),
			})
		}

		if date.Weekday() == g.params.SpecialWeekday {
			special, err := g.specialAssignments(snapshot)
			if err != nil {
				return nil, err
			}
			assignments = append(assignments, special...)
		} else if quota > 0 {
			for _, page := range cursor.Next(quota) {
				assignments = append(assignments, domain.Assignment{
					Kind:           domain.AssignmentNew,
					ChapterOrdinal: page.ChapterOrdinal,
					PageNumber:     page.PageNumber,
					Classification: domain.ClassificationNotMemorized,
					Label:          fmt.Sprintf("New memorization - %s", page.ChapterName),
				})
				snapshot.PromoteToMedium(page.ChapterOrdinal, page.PageNumber, date)
			}
		}

		days = append(days, domain.DayPlan{
			Date:        date,
			WeekdayName: date.Weekday().String(),
			Assignments: assignments,
		})
	}

	plan.Days = days
	now := time.Now().UTC()
	plan.CreatedAt = now
	plan.UpdatedAt = now

	g.logger.Debug("generation finished",
		slog.String("tenant_id", req.TenantID),
		slog.String("plan_id", plan.ID.String()),
		slog.Int("days", len(plan.Days)))

	return plan, nil
}

// specialAssignments emits one assignment per page of the special
// chapter, covering its full page range regardless of mastery state.
// Pages the tenant has memorized carry their recorded classification;
// the rest are marked not memorized, and the label distinguishes a
// revision pass from a plain reading.
func (g *Generator) specialAssignments(snapshot *Snapshot) ([]domain.Assignment, error) {
	chapter, err := g.index.ByOrdinal(g.params.SpecialChapter)
	if err != nil {
		return nil, fmt.Errorf("special chapter not in corpus: %w", err)
	}

	anyMemorized := false
	for _, page := range g.index.Pages(chapter) {
		if snapshot.Contains(chapter.Ordinal, page) {
			anyMemorized = true
			break
		}
	}
	mode := "reading"
	if anyMemorized {
		mode = "revision"
	}

	assignments := make([]domain.Assignment, 0, chapter.PageCount)
	for _, page := range g.index.Pages(chapter) {
		classification := domain.ClassificationNotMemorized
		if snapshot.Contains(chapter.Ordinal, page) {
			classification = snapshot.Classify(chapter.Ordinal, page)
		}
		assignments = append(assignments, domain.Assignment{
			Kind:           domain.AssignmentSpecial,
			ChapterOrdinal: chapter.Ordinal,
			PageNumber:     page,
			Classification: classification,
			Label:          fmt.Sprintf("%s - weekly %s", chapter.NamePrimary, mode),
		})
	}
	return assignments, nil
}

// revisionLabel renders the human description of a revision assignment.
func revisionLabel(classification domain.Classification) string {
	switch classification {
	case domain.ClassificationPerfect:
		return "Perfect revision"
	case domain.ClassificationBad:
		return "Bad revision"
	default:
		return "Medium revision"
	}
}

// midnightUTC normalizes an instant to UTC midnight of its calendar date.
func midnightUTC(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}
