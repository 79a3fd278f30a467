// Package service provides application-level services that orchestrate
// schedule generation, mastery tracking, and corpus management.
package service

import "errors"

// Common service errors - sentinel errors used across service implementations.
// Callers check for these with errors.Is().
//
// Error handling principles:
// 1. Service methods return sentinel errors for expected error conditions
// 2. Unexpected errors are wrapped in service-specific error types
// 3. The API layer maps service errors to appropriate HTTP status codes
var (
	// ErrNoActivePlan indicates no active schedule plan covers the requested
	// date for the tenant. API layer should map this to HTTP 404 Not Found.
	ErrNoActivePlan = errors.New("no active schedule plan for date")

	// ErrPageOutOfRange indicates a page number falls outside the page range
	// of its chapter. API layer should map this to HTTP 400 Bad Request.
	ErrPageOutOfRange = errors.New("page number outside chapter page range")

	// ErrCorpusEmpty indicates no corpus has been imported yet, so operations
	// that need chapter data cannot proceed.
	ErrCorpusEmpty = errors.New("corpus has not been imported")
)
