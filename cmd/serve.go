package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/leadgen-cli/internal/enrich"
	"github.com/sells-group/leadgen-cli/internal/model"
	"github.com/sells-group/leadgen-cli/internal/score"
	"github.com/sells-group/leadgen-cli/internal/store"
)

var servePort int

// maxBatchRequest caps how many businesses one batch request may carry.
const maxBatchRequest = 100

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP enrichment API",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate("serve"); err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		env, err := initEnv(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: newRouter(env),
		}

		// Graceful shutdown
		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()

		zap.L().Info("starting server", zap.Int("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}

		return nil
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}

func newRouter(env *enrichEnv) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Post("/enrich", func(w http.ResponseWriter, req *http.Request) {
		var biz model.BasicBusiness
		if err := json.NewDecoder(req.Body).Decode(&biz); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if biz.Name == "" {
			writeError(w, http.StatusBadRequest, "name is required")
			return
		}

		lead := env.Orch.Enrich(req.Context(), biz, env.Toggles)
		if err := env.Store.SaveLead(req.Context(), lead); err != nil {
			zap.L().Error("save lead failed", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "failed to persist lead")
			return
		}
		writeJSON(w, http.StatusOK, leadResponse{Lead: lead, Signals: score.Signals(lead.LeadScore)})
	})

	r.Post("/enrich/batch", func(w http.ResponseWriter, req *http.Request) {
		var body struct {
			Businesses []model.BasicBusiness  `json:"businesses"`
			Toggles    *enrich.FeatureToggles `json:"toggles,omitempty"`
		}
		if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if len(body.Businesses) == 0 {
			writeError(w, http.StatusBadRequest, "businesses is required")
			return
		}
		if len(body.Businesses) > maxBatchRequest {
			writeError(w, http.StatusBadRequest,
				fmt.Sprintf("too many businesses: max %d per batch", maxBatchRequest))
			return
		}

		toggles := env.Toggles
		if body.Toggles != nil {
			toggles = *body.Toggles
		}

		summary, err := processBatch(req.Context(), env.Store, env.Orch, toggles, body.Businesses, batchOptions{
			Concurrency: cfg.Batch.Concurrency,
			BatchSize:   cfg.Batch.BatchSize,
			BatchDelay:  time.Duration(cfg.Batch.BatchDelaySecs) * time.Second,
		})
		if err != nil {
			zap.L().Error("batch enrich failed", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "batch enrichment failed")
			return
		}
		writeJSON(w, http.StatusOK, summary)
	})

	r.Get("/leads", func(w http.ResponseWriter, req *http.Request) {
		filter := store.LeadFilter{
			Status: model.EnrichmentStatus(req.URL.Query().Get("status")),
			Rank:   model.PriorityRank(req.URL.Query().Get("rank")),
		}
		if v := req.URL.Query().Get("min_score"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				writeError(w, http.StatusBadRequest, "min_score must be an integer")
				return
			}
			filter.MinScore = n
		}
		if v := req.URL.Query().Get("limit"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				writeError(w, http.StatusBadRequest, "limit must be an integer")
				return
			}
			filter.Limit = n
		}

		leads, err := env.Store.ListLeads(req.Context(), filter)
		if err != nil {
			zap.L().Error("list leads failed", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "failed to list leads")
			return
		}
		if leads == nil {
			leads = []model.Lead{}
		}
		writeJSON(w, http.StatusOK, map[string]any{"leads": leads, "count": len(leads)})
	})

	r.Get("/leads/{id}", func(w http.ResponseWriter, req *http.Request) {
		lead, err := env.Store.GetLead(req.Context(), chi.URLParam(req, "id"))
		if err != nil {
			zap.L().Error("get lead failed", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "failed to fetch lead")
			return
		}
		if lead == nil {
			writeError(w, http.StatusNotFound, "lead not found")
			return
		}
		writeJSON(w, http.StatusOK, lead)
	})

	return r
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
