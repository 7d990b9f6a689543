// Package app wires the planning pipeline together from configuration:
// session generation, matrix building, optimization, metrics, events and
// run history.
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/language"

	"github.com/agendex/agendex/config"
	"github.com/agendex/agendex/core/availability"
	"github.com/agendex/agendex/core/events"
	coremetrics "github.com/agendex/agendex/core/metrics"
	"github.com/agendex/agendex/core/model"
	"github.com/agendex/agendex/core/optimize"
	"github.com/agendex/agendex/core/session"
	"github.com/agendex/agendex/infra/history"
	"github.com/agendex/agendex/infra/logger"
	"github.com/agendex/agendex/infra/metrics"
	"github.com/agendex/agendex/internal/eventbus"

	// Register built-in sources and sinks.
	_ "github.com/agendex/agendex/infra/source"
)

// Service orchestrates one or more planning runs.
type Service struct {
	cfg     *config.Config
	log     logger.Logger
	sink    coremetrics.MetricsSink
	store   history.Store
	bus     eventbus.EventBus
	sources []availability.Source
	labeler session.PeriodLabeler
}

// New creates a Service from the configuration.
func New(cfg *config.Config) (*Service, error) {
	logger.SetLevel(cfg.Logging.Level)
	logg := logger.New("service")

	sink, err := coremetrics.NewMetricsSink(cfg.Metrics.Sinks)
	if err != nil {
		return nil, fmt.Errorf("metrics sink: %w", err)
	}

	sources := make([]availability.Source, 0, len(cfg.Teams))
	for _, tc := range cfg.Teams {
		src, err := availability.NewSource(tc)
		if err != nil {
			return nil, fmt.Errorf("team source: %w", err)
		}
		sources = append(sources, src)
	}

	store, err := newStore(cfg.History)
	if err != nil {
		return nil, fmt.Errorf("history store: %w", err)
	}

	labeler := session.DefaultPeriodLabeler
	if cfg.Generation.Locale != "" {
		tag, err := language.Parse(cfg.Generation.Locale)
		if err != nil {
			logg.Warnf("unknown locale %q, using English month names", cfg.Generation.Locale)
		} else {
			labeler = session.MonthLabeler(tag)
		}
	}

	return &Service{
		cfg:     cfg,
		log:     logg,
		sink:    sink,
		store:   store,
		bus:     eventbus.New(),
		sources: sources,
		labeler: labeler,
	}, nil
}

func newStore(cfg config.HistoryConfig) (history.Store, error) {
	switch cfg.Backend {
	case "none":
		return history.NopStore{}, nil
	case "jsonl":
		return history.NewJSONLStore(cfg.Path)
	case "clickhouse":
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return history.NewClickHouseStore(ctx, cfg.ClickHouse)
	default:
		return nil, fmt.Errorf("unknown history backend %s", cfg.Backend)
	}
}

// Bus exposes the event bus so callers can observe run progress.
func (s *Service) Bus() eventbus.EventBus { return s.bus }

// Catalog runs only the session generator stage.
func (s *Service) Catalog() ([]model.Session, error) {
	return session.Generate(s.cfg.Generation.Params, s.labeler)
}

// Plan executes the full pipeline: generate the catalog, derive the
// availability matrix, optimize, then record metrics and history. It is
// safe to call concurrently; each call builds its own model.
func (s *Service) Plan(ctx context.Context) (*model.Result, error) {
	runID := uuid.NewString()
	started := time.Now()
	log := s.log

	log.Infof("run %s: generating sessions", runID)
	stageStart := time.Now()
	catalog, err := session.Generate(s.cfg.Generation.Params, s.labeler)
	if err != nil {
		return nil, s.fail(runID, "generate", err)
	}
	if len(catalog) == 0 {
		return nil, s.fail(runID, "generate",
			fmt.Errorf("no sessions generated; check dates, weekdays and start times"))
	}
	s.recordStage(runID, "generate", time.Since(stageStart))
	s.bus.Publish(events.CatalogGenerated{RunID: runID, Sessions: len(catalog), Time: time.Now()})
	log.Infof("run %s: %d candidate sessions", runID, len(catalog))

	stageStart = time.Now()
	matrix, err := availability.Build(ctx, catalog, s.sources)
	if err != nil {
		return nil, s.fail(runID, "matrix", err)
	}
	s.recordStage(runID, "matrix", time.Since(stageStart))
	s.bus.Publish(events.MatrixBuilt{
		RunID: runID, Sessions: matrix.NumSessions(), People: matrix.NumPeople(), Time: time.Now(),
	})
	log.Infof("run %s: availability matrix %dx%d", runID, matrix.NumSessions(), matrix.NumPeople())

	stageStart = time.Now()
	result, stats, err := optimize.New(s.cfg.Solver, logger.New("optimizer")).RunWithStats(catalog, matrix)
	solveTime := time.Since(stageStart)
	if err != nil {
		return nil, s.fail(runID, "optimize", err)
	}
	s.recordStage(runID, "optimize", solveTime)

	if err := s.sink.RecordRun(coremetrics.RunResult{
		RunID:          runID,
		Sessions:       len(catalog),
		People:         matrix.NumPeople(),
		OpenedSessions: result.TotalSessionsUsed,
		Unassigned:     len(result.UnallocatedPeople),
		Objective:      stats.Objective,
		Status:         stats.Status,
		SolveTime:      solveTime,
		Time:           time.Now(),
	}); err != nil {
		log.Warnf("run %s: metrics sink: %v", runID, err)
	}

	teams := make([]string, len(s.sources))
	for i, src := range s.sources {
		teams[i] = src.Team()
	}
	if err := s.store.Append(ctx, history.RunRecord{
		RunID:     runID,
		Timestamp: started,
		Teams:     teams,
		Sessions:  len(catalog),
		People:    matrix.NumPeople(),
		Status:    stats.Status,
		Objective: stats.Objective,
		Duration:  time.Since(started),
		Result:    *result,
	}); err != nil {
		log.Warnf("run %s: history store: %v", runID, err)
	}

	s.bus.Publish(events.RunCompleted{
		RunID:      runID,
		Opened:     result.TotalSessionsUsed,
		Unassigned: len(result.UnallocatedPeople),
		Duration:   time.Since(started),
		Time:       time.Now(),
	})
	log.Infof("run %s: %d sessions opened, %d people unallocated",
		runID, result.TotalSessionsUsed, len(result.UnallocatedPeople))
	return result, nil
}

func (s *Service) fail(runID, stage string, err error) error {
	s.log.Errorf("run %s: %s stage failed: %v", runID, stage, err)
	s.bus.Publish(events.RunFailed{RunID: runID, Stage: stage, Err: err.Error(), Time: time.Now()})
	return err
}

func (s *Service) recordStage(runID, stage string, d time.Duration) {
	if rec, ok := s.sink.(coremetrics.StageRecorder); ok {
		if err := rec.RecordStageDuration(coremetrics.StageDuration{RunID: runID, Stage: stage, Duration: d}); err != nil {
			s.log.Warnf("run %s: stage metrics: %v", runID, err)
		}
	}
}

// StartMetricsServer exposes the Prometheus endpoint when a prometheus sink
// is configured. It blocks until the context is canceled.
func (s *Service) StartMetricsServer(ctx context.Context) error {
	port := s.cfg.Metrics.PrometheusPort
	if port == "" {
		return nil
	}
	for _, sc := range s.cfg.Metrics.Sinks {
		if sc.Type == "prometheus" {
			return metrics.StartPromServer(ctx, port)
		}
	}
	return nil
}

// History exposes the run record store.
func (s *Service) History() history.Store { return s.store }

// Close releases resources held by the service.
func (s *Service) Close() error {
	s.bus.Close()
	return s.store.Close()
}
