// Package events provides lightweight domain event publication.
//
// Services emit events after successful state changes without knowing
// which handlers will process them. Handlers subscribe through an
// Emitter; the in-memory implementation dispatches synchronously.
package events
