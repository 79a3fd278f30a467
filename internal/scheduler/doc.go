// Package scheduler implements the schedule generation algorithm: the
// day-by-day allocation engine that interleaves cyclical revision of
// previously learned pages, new material advancing through the corpus,
// and the weekly special insertion.
//
// The engine is deterministic: given the same request and the same
// mastery records it produces the same day-by-day plan, with no hidden
// randomness and no wall-clock dependency beyond the supplied start date.
package scheduler
