// Package server exposes the simulation engine over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	json "github.com/goccy/go-json"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/rpgo/fire-calculator/internal/calculation"
	"github.com/rpgo/fire-calculator/internal/config"
	"github.com/rpgo/fire-calculator/internal/domain"
	"github.com/rpgo/fire-calculator/internal/log"
	"github.com/rpgo/fire-calculator/internal/metrics"
	"github.com/rpgo/fire-calculator/internal/output"
)

// maxBodyBytes bounds a plan request body
const maxBodyBytes = 1 << 20

// Server is the FIRE calculator HTTP API server.
type Server struct {
	parser   *config.InputParser
	settings *config.Settings
	logger   *log.Logger
	metrics  *metrics.Collector
	gatherer prometheus.Gatherer
}

// New creates a server. collector and gatherer may be nil, in which case runs are not
// recorded and /metrics serves the default registry.
func New(settings *config.Settings, parser *config.InputParser, logger *log.Logger, collector *metrics.Collector, gatherer prometheus.Gatherer) *Server {
	if parser == nil {
		parser = config.NewInputParser()
	}
	if logger == nil {
		logger = log.Discard()
	}
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	return &Server{
		parser:   parser,
		settings: settings,
		logger:   logger.WithComponent(log.ComponentHTTP),
		metrics:  collector,
		gatherer: gatherer,
	}
}

// Handler returns the chi router with all routes mounted.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.requestLogger)
	if s.settings != nil && s.settings.RequestTimeout > 0 {
		r.Use(middleware.Timeout(s.settings.RequestTimeout))
	}

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Post("/simulate", s.handleSimulate)
		r.Post("/analyze", s.handleAnalyze)
	})

	r.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	return r
}

// ListenAndServe serves on the configured address until ctx is cancelled
func (s *Server) ListenAndServe(ctx context.Context) error {
	addr := ":8080"
	if s.settings != nil && s.settings.HTTPAddr != "" {
		addr = s.settings.HTTPAddr
	}
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		s.logger.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		started := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			log.FieldRequestID, middleware.GetReqID(r.Context()),
			log.FieldMethod, r.Method,
			log.FieldPath, r.URL.Path,
			log.FieldStatusCode, ww.Status(),
			log.FieldDuration, time.Since(started).Milliseconds(),
		)
	})
}

// simulateRequest runs the plan once. Seed and StartYear override the plan's settings.
type simulateRequest struct {
	Plan      json.RawMessage `json:"plan"`
	Seed      *uint32         `json:"seed,omitempty"`
	StartYear *int            `json:"start_year,omitempty"`
}

// analyzeRequest runs a batch. Zero values fall back to the plan's settings.
type analyzeRequest struct {
	Plan        json.RawMessage       `json:"plan"`
	Mode        domain.SimulationMode `json:"mode,omitempty"`
	Seed        *uint32               `json:"seed,omitempty"`
	Simulations int                   `json:"simulations,omitempty"`
	SortBy      string                `json:"sort_by,omitempty"`
	Descending  bool                  `json:"descending,omitempty"`
}

func (s *Server) handleSimulate(w http.ResponseWriter, r *http.Request) {
	var req simulateRequest
	if !s.decode(w, r, &req) {
		return
	}
	plan, err := s.parsePlan(req.Plan, func(p *domain.PlanInputs) {
		if req.StartYear != nil {
			p.Simulation.HistoricalStartYear = req.StartYear
		}
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	seed := calculation.ResolveSeed(plan, req.Seed)

	engine, err := calculation.NewSimulationEngineForPlan(plan, seed, s.parser.Dataset)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	engine.SetLogger(s.logger.WithComponent(log.ComponentEngine).With(log.FieldRequestID, middleware.GetReqID(r.Context())))

	started := time.Now()
	s.metrics.RunStarted()
	res, err := engine.Run(r.Context())
	if err != nil {
		s.metrics.ObserveRun(string(plan.Simulation.Mode), metrics.OutcomeError, time.Since(started))
		s.fail(w, r, err)
		return
	}
	s.metrics.ObserveRun(string(plan.Simulation.Mode), calculation.RunOutcome(res), time.Since(started))

	s.writeReport(w, output.NewSingleRunReport(plan, res))
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if !s.decode(w, r, &req) {
		return
	}
	if req.Simulations < 0 || req.Simulations > config.MaxNumSimulations {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("simulations must be between 1 and %d", config.MaxNumSimulations))
		return
	}
	plan, err := s.parsePlan(req.Plan, func(p *domain.PlanInputs) {
		if req.Mode != "" {
			p.Simulation.Mode = req.Mode
		}
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}

	n := req.Simulations
	if n == 0 {
		n = plan.Simulation.NumSimulations
	}
	seed := calculation.ResolveSeed(plan, req.Seed)

	engine, err := calculation.NewMultiSimulationEngine(plan, s.parser.Dataset)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if s.settings != nil && s.settings.Workers > 0 {
		engine.Workers = s.settings.Workers
	}
	engine.Metrics = s.metrics
	engine.SetLogger(s.logger.WithComponent(log.ComponentMultiSim).With(log.FieldRequestID, middleware.GetReqID(r.Context())))

	batch, err := engine.Run(r.Context(), seed, n)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	report, err := output.NewBatchReport(plan, batch, req.SortBy, req.Descending)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.logger.Info("batch analyzed",
		log.FieldBatchID, batch.BatchID.String(),
		log.FieldMode, string(batch.Mode),
		log.FieldSimulations, n,
		log.FieldSuccessRate, report.Analysis.SuccessRate.StringFixed(2),
	)
	s.writeReport(w, report)
}

// parsePlan validates raw through the config parser, applies override and validates again
func (s *Server) parsePlan(raw json.RawMessage, override func(*domain.PlanInputs)) (*domain.PlanInputs, error) {
	if len(raw) == 0 {
		return nil, fmt.Errorf("%w: missing plan", domain.ErrInvalidPlan)
	}
	plan, err := s.parser.Parse(raw, config.FormatJSON)
	if err != nil {
		return nil, err
	}
	override(plan)
	if err := s.parser.ValidatePlan(plan); err != nil {
		return nil, fmt.Errorf("plan validation failed: %w", err)
	}
	return plan, nil
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return false
	}
	return true
}

func (s *Server) writeReport(w http.ResponseWriter, report *output.Report) {
	data, err := output.JSONFormatter{}.Format(report)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// fail maps engine and config errors onto status codes
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrInvalidPlan), errors.Is(err, domain.ErrDataRange):
		status = http.StatusBadRequest
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		status = http.StatusServiceUnavailable
	}
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", log.FieldRequestID, middleware.GetReqID(r.Context()), log.FieldError, err)
	}
	writeError(w, status, err.Error())
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]interface{}{
		"error": map[string]interface{}{
			"message": msg,
			"status":  status,
		},
	})
}
