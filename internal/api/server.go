package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"revenueScope/internal/attribution"
	"revenueScope/internal/config"
	"revenueScope/internal/model"
	"revenueScope/internal/observability"
)

// Computer computes metrics for one chain and day.
type Computer interface {
	Chains() attribution.ChainTable
	Chain(ctx context.Context, chain string, day time.Time) (model.ChainMetrics, error)
}

// MetricsCache is a fast lookup layer for completed days.
type MetricsCache interface {
	Get(ctx context.Context, chain string, day time.Time) (model.ChainMetrics, bool, error)
	Set(ctx context.Context, metrics model.ChainMetrics) error
}

// MetricsStore holds metrics persisted by backfill runs.
type MetricsStore interface {
	LoadChainMetrics(ctx context.Context, chain string, day time.Time) (model.ChainMetrics, bool, error)
}

type Server struct {
	computer Computer
	cache    MetricsCache
	store    MetricsStore
	logger   *zap.Logger
	now      func() time.Time
}

type Option func(*Server)

func WithCache(c MetricsCache) Option {
	return func(s *Server) { s.cache = c }
}

func WithStore(st MetricsStore) Option {
	return func(s *Server) { s.store = st }
}

func WithClock(now func() time.Time) Option {
	return func(s *Server) { s.now = now }
}

func NewServer(computer Computer, logger *zap.Logger, opts ...Option) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{computer: computer, logger: logger, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Router wires the HTTP routes.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(requestLogger(s.logger))
	r.Use(requestMetrics())

	r.Handle("/metrics", promhttp.Handler())
	r.Get("/healthz", s.health)

	r.Route("/v1", func(r chi.Router) {
		r.Get("/chains", s.listChains)
		r.Get("/fees/{chain}", s.chainFees)
	})
	return r
}

type chainEntry struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) listChains(w http.ResponseWriter, _ *http.Request) {
	table := s.computer.Chains()
	out := make([]chainEntry, 0, table.Len())
	for _, code := range table.Codes() {
		name, _ := table.Display(code)
		out = append(out, chainEntry{Code: code, Name: name})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) chainFees(w http.ResponseWriter, r *http.Request) {
	chain, ok := s.resolveChain(chi.URLParam(r, "chain"))
	if !ok {
		writeError(w, http.StatusNotFound, "unknown chain")
		return
	}

	now := s.now().UTC()
	day := attribution.StartOfDay(now).AddDate(0, 0, -1)
	if raw := r.URL.Query().Get("day"); raw != "" {
		parsed, err := config.ParseDay(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid day")
			return
		}
		day = attribution.StartOfDay(parsed)
	}
	if day.After(now) {
		writeError(w, http.StatusBadRequest, "day is in the future")
		return
	}

	metrics, err := s.lookup(r.Context(), chain, day, !day.Add(24*time.Hour).After(now))
	if err != nil {
		switch {
		case errors.Is(err, attribution.ErrUnknownChain):
			writeError(w, http.StatusNotFound, "unknown chain")
		case errors.Is(err, attribution.ErrDataUnavailable):
			writeError(w, http.StatusServiceUnavailable, "data unavailable")
		default:
			s.logger.Error("compute fees", zap.String("chain", chain), zap.Time("day", day), zap.Error(err))
			writeError(w, http.StatusInternalServerError, "internal error")
		}
		return
	}
	writeJSON(w, http.StatusOK, metrics)
}

// lookup answers from cache, then store, then a fresh computation.
// Only completed days are read from or written to the cache.
func (s *Server) lookup(ctx context.Context, chain string, day time.Time, completed bool) (model.ChainMetrics, error) {
	if completed && s.cache != nil {
		metrics, ok, err := s.cache.Get(ctx, chain, day)
		if err != nil {
			s.logger.Warn("cache get failed", zap.Error(err))
		} else if ok {
			observability.LookupTotal.WithLabelValues("cache").Inc()
			return metrics, nil
		}
	}

	if completed && s.store != nil {
		metrics, ok, err := s.store.LoadChainMetrics(ctx, chain, day)
		if err != nil {
			s.logger.Warn("store lookup failed", zap.Error(err))
		} else if ok {
			observability.LookupTotal.WithLabelValues("store").Inc()
			s.remember(ctx, metrics)
			return metrics, nil
		}
	}

	metrics, err := s.computer.Chain(ctx, chain, day)
	if err != nil {
		return model.ChainMetrics{}, err
	}
	observability.LookupTotal.WithLabelValues("compute").Inc()
	if completed {
		s.remember(ctx, metrics)
	}
	return metrics, nil
}

func (s *Server) remember(ctx context.Context, metrics model.ChainMetrics) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, metrics); err != nil {
		s.logger.Warn("cache set failed", zap.Error(err))
	}
}

func (s *Server) resolveChain(name string) (string, bool) {
	table := s.computer.Chains()
	if code, ok := table.Resolve(name); ok {
		return code, true
	}
	if code, ok := table.Resolve(strings.ToUpper(name)); ok {
		return code, true
	}
	return table.Resolve(strings.ToLower(name))
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
