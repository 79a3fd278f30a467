// Package postgres implements the store interfaces on PostgreSQL: the
// chapter corpus, per-page mastery statuses, and schedule plans with
// their JSONB day payloads. It also embeds and runs the goose migrations
// the stores depend on.
package postgres
