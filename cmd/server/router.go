package main

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/phrazzld/hifz-api/internal/api"
	apimiddleware "github.com/phrazzld/hifz-api/internal/api/middleware"
	"github.com/phrazzld/hifz-api/internal/api/shared"
)

const healthPingTimeout = 2 * time.Second

// routerDeps carries everything the router needs.
type routerDeps struct {
	scheduleHandler *api.ScheduleHandler
	masteryHandler  *api.MasteryHandler
	chapterHandler  *api.ChapterHandler
	progressHandler *api.ProgressHandler
	db              *sql.DB
	logger          *slog.Logger
}

// newRouter assembles the chi router with middleware and all API routes.
func newRouter(deps routerDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(apimiddleware.TraceMiddleware)
	r.Use(chimiddleware.Recoverer)

	r.Get("/health", healthHandler(deps.db))

	r.Route("/api", func(r chi.Router) {
		r.Route("/schedules", func(r chi.Router) {
			r.Post("/generate", deps.scheduleHandler.GenerateSchedule)
			r.Get("/", deps.scheduleHandler.ListSchedules)
			// Registered before the {id} route so "today" is not
			// parsed as a plan ID.
			r.Get("/today", deps.scheduleHandler.GetToday)
			r.Put("/assignment/complete", deps.scheduleHandler.CompleteAssignment)
			r.Get("/{id}", deps.scheduleHandler.GetSchedule)
			r.Delete("/{id}", deps.scheduleHandler.DeleteSchedule)
		})

		r.Route("/status", func(r chi.Router) {
			r.Put("/", deps.masteryHandler.SetStatus)
			r.Put("/batch", deps.masteryHandler.SetStatusBatch)
			r.Get("/all", deps.masteryHandler.GetAll)
			r.Get("/chapter/{ordinal}", deps.masteryHandler.GetByChapter)
		})

		r.Route("/chapters", func(r chi.Router) {
			r.Get("/", deps.chapterHandler.ListChapters)
			r.Get("/{ordinal}", deps.chapterHandler.GetChapter)
			r.Get("/{ordinal}/pages", deps.chapterHandler.GetChapterPages)
		})

		r.Route("/progress", func(r chi.Router) {
			r.Get("/stats", deps.progressHandler.Stats)
			r.Get("/recent", deps.progressHandler.Recent)
		})
	})

	return r
}

// healthHandler reports service health, including database reachability.
func healthHandler(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), healthPingTimeout)
		defer cancel()

		if err := db.PingContext(ctx); err != nil {
			shared.RespondWithJSON(w, r, http.StatusServiceUnavailable, map[string]string{
				"status": "unavailable",
			})
			return
		}

		shared.RespondWithJSON(w, r, http.StatusOK, map[string]string{
			"status": "ok",
		})
	}
}
