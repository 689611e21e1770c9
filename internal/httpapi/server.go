package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sort"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/sandevgo/everebot/internal/core"
	"github.com/sandevgo/everebot/internal/observability"
	"github.com/sandevgo/everebot/internal/storage/jsonfile"
	"github.com/sandevgo/everebot/pkg/log"
)

const shutdownTimeout = 5 * time.Second

// Resident is the in-memory side of the memory store.
type Resident interface {
	Snapshot(key string) ([]core.Record, bool)
	Keys() []string
}

// Files is the durable side of the memory store.
type Files interface {
	Read(ctx context.Context, key string) ([]core.Record, bool, error)
	Keys() ([]string, error)
}

// Server exposes health, metrics and read-only history inspection.
type Server struct {
	addr     string
	resident Resident
	files    Files
	metrics  *observability.Metrics
	started  time.Time
	http     *http.Server
}

func New(addr string, resident Resident, files Files, metrics *observability.Metrics) *Server {
	s := &Server{
		addr:     addr,
		resident: resident,
		files:    files,
		metrics:  metrics,
		started:  time.Now(),
	}
	s.http = &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Handle("/metrics", s.metrics.Handler())

	r.Get("/v1/contexts", s.handleListContexts)
	r.Get("/v1/contexts/{key}/history", s.handleHistory)

	return r
}

func (s *Server) Start(ctx context.Context) error {
	log.FromCtx(ctx).Info().Str("addr", s.addr).Msg("status server listening")
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()
	if err := s.http.Shutdown(ctx); err != nil {
		_ = s.http.Close()
		return err
	}
	return nil
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{
		"status":   "ok",
		"version":  core.EvereVersion,
		"uptime_s": int(time.Since(s.started).Seconds()),
		"resident": len(s.resident.Keys()),
	})
}

type contextSummary struct {
	Key      string `json:"key"`
	Resident bool   `json:"resident"`
	Stored   bool   `json:"stored"`
}

func (s *Server) handleListContexts(w http.ResponseWriter, r *http.Request) {
	stored, err := s.files.Keys()
	if err != nil {
		log.FromCtx(r.Context()).Error().Err(err).Msg("failed to list history files")
		respondError(w, http.StatusInternalServerError, "storage_list", "could not list stored histories")
		return
	}

	byKey := make(map[string]*contextSummary)
	for _, k := range stored {
		byKey[k] = &contextSummary{Key: k, Stored: true}
	}
	for _, k := range s.resident.Keys() {
		if c, ok := byKey[k]; ok {
			c.Resident = true
			continue
		}
		byKey[k] = &contextSummary{Key: k, Resident: true}
	}

	out := make([]contextSummary, 0, len(byKey))
	for _, c := range byKey {
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })

	respondJSON(w, http.StatusOK, map[string]any{"contexts": out})
}

type historyResponse struct {
	Key      string        `json:"key"`
	Resident bool          `json:"resident"`
	Records  []core.Record `json:"records"`
}

// handleHistory prefers the resident copy, which may hold records not yet
// persisted, and falls back to the file without loading it.
func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")

	if records, ok := s.resident.Snapshot(key); ok {
		respondJSON(w, http.StatusOK, historyResponse{Key: key, Resident: true, Records: records})
		return
	}

	records, found, err := s.files.Read(r.Context(), key)
	switch {
	case errors.Is(err, jsonfile.ErrInvalidKey):
		respondError(w, http.StatusBadRequest, "invalid_key", err.Error())
		return
	case err != nil:
		var readErr *core.StorageReadError
		if errors.As(err, &readErr) {
			respondError(w, http.StatusUnprocessableEntity, "storage_read", readErr.Error())
			return
		}
		respondError(w, http.StatusInternalServerError, "storage", err.Error())
		return
	case !found:
		respondError(w, http.StatusNotFound, "not_found", "no history for "+key)
		return
	}

	if records == nil {
		records = []core.Record{}
	}
	respondJSON(w, http.StatusOK, historyResponse{Key: key, Records: records})
}

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, errorResponse{Error: message, Code: code})
}
