package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/arokua/job-hunter/internal/model"
	"github.com/arokua/job-hunter/internal/store"
	"github.com/arokua/job-hunter/internal/worker"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the worker API for scrape submissions",
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg.Worker.Secret == "" {
			return eris.New("worker secret is not configured (set WORKER_SECRET)")
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		env, err := initPipeline(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		pool := worker.NewPool(
			env.Pipeline,
			cfg.Worker.Concurrency,
			cfg.Worker.QueueSize,
			time.Duration(cfg.Worker.JobTimeoutSecs)*time.Second,
		)
		pool.Start(ctx)

		router := newRouter(cfg.Worker.Secret, pool, env.Store)

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: router,
		}

		// Graceful shutdown: stop accepting, then drain in-flight work.
		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			srv.Shutdown(context.Background())
		}()

		zap.L().Info("starting server", zap.Int("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}

		pool.Close()
		return nil
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}

// enqueuer is what the scrape handler needs from the worker pool.
type enqueuer interface {
	Enqueue(sub model.Submission) error
}

// newRouter builds the worker API routes.
func newRouter(secret string, pool enqueuer, st store.Store) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
	}))

	r.Get("/health", handleHealth)

	r.Group(func(r chi.Router) {
		r.Use(bearerAuth(secret))
		r.Post("/api/scrape", handleScrape(pool, st))
		r.Get("/api/submissions/{id}", handleGetSubmission(st))
	})

	return r
}

// bearerAuth rejects requests whose bearer token does not match the shared
// worker secret. An empty secret fails closed with a server error.
func bearerAuth(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if secret == "" {
				writeJSONError(w, http.StatusInternalServerError, "worker secret not configured on server")
				return
			}
			const prefix = "Bearer "
			auth := r.Header.Get("Authorization")
			if len(auth) <= len(prefix) || auth[:len(prefix)] != prefix || auth[len(prefix):] != secret {
				writeJSONError(w, http.StatusUnauthorized, "invalid authorization token")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"version":   version,
	})
}

// handleScrape validates and enqueues a submission, returning immediately
// with a queued acknowledgment. The pipeline runs in the background; its
// outcome is reported only via email and callback.
func handleScrape(pool enqueuer, st store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var sub model.Submission
		if err := json.NewDecoder(r.Body).Decode(&sub); err != nil {
			writeJSONError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if err := sub.Validate(); err != nil {
			writeJSONError(w, http.StatusBadRequest, err.Error())
			return
		}

		zap.L().Info("received scrape request",
			zap.String("submission_id", sub.SubmissionID),
			zap.String("email", sub.Email),
			zap.Int("skills", len(sub.Profile.Skills)),
			zap.Strings("locations", sub.Preferences.Locations),
			zap.Strings("roles", sub.Preferences.Roles),
		)

		if st != nil {
			if _, err := st.CreateSubmission(r.Context(), sub.SubmissionID, sub.Email); err != nil {
				zap.L().Warn("failed to record submission",
					zap.String("submission_id", sub.SubmissionID),
					zap.Error(err),
				)
			}
		}

		if err := pool.Enqueue(sub); err != nil {
			writeJSONError(w, http.StatusServiceUnavailable, "worker queue is full, try again later")
			return
		}

		writeJSON(w, http.StatusAccepted, map[string]string{
			"submissionId": sub.SubmissionID,
			"status":       string(model.StatusQueued),
			"message":      "Scrape job queued. Results will be emailed.",
		})
	}
}

func handleGetSubmission(st store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if st == nil {
			writeJSONError(w, http.StatusServiceUnavailable, "submission store not configured")
			return
		}
		id := chi.URLParam(r, "id")
		rec, err := st.GetSubmission(r.Context(), id)
		if errors.Is(err, store.ErrNotFound) {
			writeJSONError(w, http.StatusNotFound, "submission not found")
			return
		}
		if err != nil {
			zap.L().Error("submission lookup failed", zap.String("submission_id", id), zap.Error(err))
			writeJSONError(w, http.StatusInternalServerError, "submission lookup failed")
			return
		}
		writeJSON(w, http.StatusOK, rec)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeJSONError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
