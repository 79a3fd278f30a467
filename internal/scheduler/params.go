package scheduler

import (
	"errors"
	"fmt"
	"time"

	"github.com/phrazzld/hifz-api/internal/config"
)

// SortPolicy controls the iteration order within each mastery category of
// a snapshot. It affects ordering only, never membership.
type SortPolicy string

const (
	// SortSequential orders records by chapter then page, preserving the
	// logical reading order for rotation.
	SortSequential SortPolicy = "sequential"

	// SortRecency orders records by last update, newest first, so freshly
	// mastered pages come up for review sooner.
	SortRecency SortPolicy = "recency"
)

// ErrInvalidSortPolicy is returned when a sort policy value is unknown.
var ErrInvalidSortPolicy = errors.New("sort policy must be sequential or recency")

// ParseSortPolicy parses a sort policy string.
func ParseSortPolicy(s string) (SortPolicy, error) {
	switch SortPolicy(s) {
	case SortSequential, SortRecency:
		return SortPolicy(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidSortPolicy, s)
}

// Params defines all configurable parameters for the schedule generation
// algorithm.
type Params struct {
	// TargetCycleDays is the number of days the revision distribution aims
	// to rotate through the full memorized set.
	TargetCycleDays int

	// MaxCycleDays caps the quality-based cycle extension.
	MaxCycleDays int

	// QualityThreshold is the perfect-to-total ratio below which the cycle
	// is extended.
	QualityThreshold float64

	// SpecialChapter and SpecialWeekday define the weekly special
	// insertion: every day falling on SpecialWeekday receives the full
	// page range of SpecialChapter and consumes no new material.
	SpecialChapter int
	SpecialWeekday time.Weekday

	// SortPolicy is the within-category ordering of the mastery snapshot.
	SortPolicy SortPolicy
}

// NewDefaultParams creates a new Params instance with default values:
// a ten-day cycle extended up to fifteen days below a 0.6 quality ratio,
// chapter 18 inserted on Fridays, and sequential snapshot ordering.
func NewDefaultParams() *Params {
	return &Params{
		TargetCycleDays:  10,
		MaxCycleDays:     15,
		QualityThreshold: 0.6,
		SpecialChapter:   18,
		SpecialWeekday:   time.Friday,
		SortPolicy:       SortSequential,
	}
}

// ParamsFromConfig builds Params from the application configuration.
func ParamsFromConfig(cfg config.SchedulerConfig) (*Params, error) {
	weekday, err := parseWeekday(cfg.SpecialWeekday)
	if err != nil {
		return nil, err
	}

	policy, err := ParseSortPolicy(cfg.SortPolicy)
	if err != nil {
		return nil, err
	}

	if cfg.MaxCycleDays < cfg.TargetCycleDays {
		return nil, fmt.Errorf(
			"max cycle days (%d) cannot be less than target cycle days (%d)",
			cfg.MaxCycleDays, cfg.TargetCycleDays)
	}

	return &Params{
		TargetCycleDays:  cfg.TargetCycleDays,
		MaxCycleDays:     cfg.MaxCycleDays,
		QualityThreshold: cfg.QualityThreshold,
		SpecialChapter:   cfg.SpecialChapter,
		SpecialWeekday:   weekday,
		SortPolicy:       policy,
	}, nil
}

// parseWeekday maps an English weekday name to time.Weekday.
func parseWeekday(name string) (time.Weekday, error) {
	for d := time.Sunday; d <= time.Saturday; d++ {
		if d.String() == name {
			return d, nil
		}
	}
	return 0, fmt.Errorf("invalid weekday name: %q", name)
}
