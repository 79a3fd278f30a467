// Package api exposes the HTTP surface of the study planner: schedule
// generation and completion, mastery status grading, corpus chapter
// lookups, and progress reporting. Handlers validate requests, call the
// corresponding service, and translate service errors to safe HTTP
// responses.
package api
