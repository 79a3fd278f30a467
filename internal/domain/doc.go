// Package domain contains the core entities of the application: the
// chapter catalog, per-page mastery records, and generated schedule
// plans. Domain types validate themselves and carry no persistence or
// transport concerns.
package domain
