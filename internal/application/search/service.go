// Package search runs find-bound-nodes requests: it drives one traversal per
// requested variable and reports progress, streaming results and completion
// to an observer.
package search

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"tokentrace/internal/application"
	"tokentrace/internal/application/traversal"
	"tokentrace/internal/domain"
	"tokentrace/internal/metrics"
	"tokentrace/internal/ports"
)

// FontSet is the list of fonts the report needs
type FontSet []domain.FontName

var (
	// DefaultPrimaryFonts are loaded before every search
	DefaultPrimaryFonts = FontSet{{Family: "Inter", Style: "Regular"}, {Family: "Inter", Style: "Bold"}}

	// DefaultFallbackFonts are tried when a primary font is unavailable
	DefaultFallbackFonts = FontSet{{Family: "Roboto", Style: "Regular"}, {Family: "Roboto", Style: "Bold"}}
)

// Request is one find-bound-nodes action
type Request struct {
	VariableIDs []string
	PageID      string // empty searches every page
	AllNodes    bool   // report every bound node instead of collapsing onto instances
}

// Service runs searches against one document. Only one search runs at a
// time; each run owns a fresh Cancellation.
type Service struct {
	doc      ports.Document
	engine   *traversal.Engine
	renderer ports.ReportRenderer
	history  ports.SearchHistory
	metrics  *metrics.Metrics
	logger   zerolog.Logger

	primaryFonts     FontSet
	fallbackFonts    FontSet
	progressInterval int
	engineOpts       []traversal.EngineOption
	now              func() time.Time

	mu      sync.Mutex
	current *Cancellation
}

// Option configures a Service
type Option func(*Service)

// WithRenderer hands finished results to r
func WithRenderer(r ports.ReportRenderer) Option {
	return func(s *Service) { s.renderer = r }
}

// WithHistory records every run in h
func WithHistory(h ports.SearchHistory) Option {
	return func(s *Service) { s.history = h }
}

// WithMetrics reports timings to m
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// WithFonts replaces the default font sets
func WithFonts(primary, fallback FontSet) Option {
	return func(s *Service) {
		if len(primary) > 0 {
			s.primaryFonts = primary
		}
		if len(fallback) > 0 {
			s.fallbackFonts = fallback
		}
	}
}

// WithProgressInterval sets how many nodes pass between progress events
func WithProgressInterval(n int) Option {
	return func(s *Service) { s.progressInterval = n }
}

// WithEngineOptions passes options through to the traversal engine
func WithEngineOptions(opts ...traversal.EngineOption) Option {
	return func(s *Service) { s.engineOpts = append(s.engineOpts, opts...) }
}

// NewService creates a search service over doc
func NewService(doc ports.Document, logger zerolog.Logger, opts ...Option) *Service {
	s := &Service{
		doc:              doc,
		logger:           logger,
		primaryFonts:     DefaultPrimaryFonts,
		fallbackFonts:    DefaultFallbackFonts,
		progressInterval: traversal.DefaultProgressInterval,
		now:              time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.engine = traversal.NewEngine(doc, s.metrics, logger, s.engineOpts...)
	return s
}

// Cancel stops the running search, if any. The flag is observed at the
// next node check; results found so far are kept.
func (s *Service) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current != nil {
		s.current.Cancel()
	}
}

// Running reports whether a search is in progress
func (s *Service) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current != nil
}

func (s *Service) begin() (*Cancellation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current != nil {
		return nil, application.ErrSearchInProgress
	}
	s.current = &Cancellation{}
	return s.current, nil
}

func (s *Service) end() {
	s.mu.Lock()
	s.current = nil
	s.mu.Unlock()
}

// Run searches every requested variable in order and returns one result per
// variable found in the document. Missing variables are skipped. A cancel,
// from Cancel or ctx, stops the batch and returns what was found so far.
// observer.OnComplete is called exactly once, after every other
// notification, whatever the outcome.
func (s *Service) Run(ctx context.Context, req Request, observer ports.SearchObserver) ([]domain.SearchResult, error) {
	if observer == nil {
		observer = nopObserver{}
	}
	defer observer.OnComplete()

	if err := application.ValidateVariableIDs(req.VariableIDs); err != nil {
		s.metrics.ObserveSearch(metrics.StatusFailed, 0)
		return nil, err
	}
	cancel, err := s.begin()
	if err != nil {
		s.metrics.ObserveSearch(metrics.StatusFailed, 0)
		return nil, err
	}
	defer s.end()

	started := s.now()
	defer func() {
		if r := recover(); r != nil {
			s.metrics.ObserveSearch(metrics.StatusFailed, s.now().Sub(started))
			panic(r)
		}
	}()
	run := domain.SearchRun{
		ID:            uuid.NewString(),
		StartedAt:     started,
		PageID:        req.PageID,
		InstancesOnly: !req.AllNodes,
	}
	log := s.logger.With().Str("run_id", run.ID).Logger()
	log.Info().Strs("variable_ids", req.VariableIDs).Str("page_id", req.PageID).Bool("all_nodes", req.AllNodes).Msg("search started")

	s.prepareFonts(ctx, log)

	shouldCancel := func() bool {
		return cancel.Cancelled() || ctx.Err() != nil
	}

	var results []domain.SearchResult
	for i, id := range req.VariableIDs {
		if shouldCancel() {
			run.Cancelled = true
			break
		}

		variable, err := s.doc.VariableByID(ctx, id)
		if err != nil {
			log.Warn().Err(err).Str("variable_id", id).Msg("variable not found, skipping")
			continue
		}

		result, cancelled := s.searchVariable(ctx, log, variable, req, i, len(req.VariableIDs), shouldCancel, observer)
		results = append(results, result)
		run.Variables = append(run.Variables, domain.RunVariable{
			VariableID:   variable.ID,
			VariableName: variable.Name,
			Matches:      len(result.BoundNodes),
		})
		if cancelled {
			run.Cancelled = true
			break
		}
	}

	run.Duration = s.now().Sub(started)

	status := metrics.StatusCompleted
	if run.Cancelled {
		status = metrics.StatusCancelled
	}
	s.metrics.ObserveSearch(status, run.Duration)

	log.Info().
		Int("variables", len(results)).
		Int("matches", run.TotalMatches()).
		Bool("cancelled", run.Cancelled).
		Dur("duration", run.Duration).
		Msg("search finished")

	s.render(ctx, log, results)
	s.record(log, run)

	return results, nil
}

// searchVariable runs one traversal. A fault leaves the variable with an
// empty result.
func (s *Service) searchVariable(
	ctx context.Context,
	log zerolog.Logger,
	variable *domain.Variable,
	req Request,
	index, count int,
	shouldCancel func() bool,
	observer ports.SearchObserver,
) (result domain.SearchResult, cancelled bool) {
	result = domain.SearchResult{
		Variable:      variable,
		Summary:       Summarize(nil),
		InstancesOnly: !req.AllNodes,
	}

	defer func() {
		if r := recover(); r != nil {
			log.Error().Str("variable_id", variable.ID).Interface("panic", r).Msg("variable search failed")
			result.BoundNodes = nil
			result.Summary = Summarize(nil)
			cancelled = shouldCancel()
		}
	}()

	started := s.now()
	opts := traversal.Options{
		InstancesOnly:    !req.AllNodes,
		PageID:           req.PageID,
		ProgressInterval: s.progressInterval,
	}
	cb := traversal.Callbacks{
		OnProgress: func(current, total, found int) {
			observer.OnProgress(domain.Progress{
				Current:              current,
				Total:                total,
				Percentage:           percentage(current, total),
				NodesFound:           found,
				CurrentVariableName:  variable.Name,
				CurrentVariableIndex: index,
				TotalVariables:       count,
			})
		},
		OnStreamingResult: observer.OnStreamingResult,
		ShouldCancel:      shouldCancel,
	}

	outcome, err := s.engine.Traverse(ctx, variable, opts, cb)
	if err != nil {
		log.Error().Err(err).Str("variable_id", variable.ID).Msg("variable search failed")
		return result, shouldCancel()
	}

	result.BoundNodes = outcome.Records
	result.Summary = Summarize(outcome.Records)

	elapsed := s.now().Sub(started)
	s.metrics.ObserveVariable(elapsed, outcome.Inspected, len(outcome.Records))
	log.Info().
		Str("variable_id", variable.ID).
		Str("variable", variable.Name).
		Int("matches", len(outcome.Records)).
		Int("nodes", outcome.Inspected).
		Dur("duration", elapsed).
		Msg("variable searched")

	return result, outcome.Cancelled
}

// prepareFonts loads the primary font set, then the fallback set. When both
// fail the search continues with whatever the host defaults to.
func (s *Service) prepareFonts(ctx context.Context, log zerolog.Logger) {
	err := s.loadFonts(ctx, s.primaryFonts)
	if err == nil {
		return
	}
	log.Warn().Err(err).Msg("primary fonts unavailable, trying fallback")

	if err := s.loadFonts(ctx, s.fallbackFonts); err != nil {
		log.Warn().Err(err).Msg("fallback fonts unavailable, using defaults")
	}
}

func (s *Service) loadFonts(ctx context.Context, fonts FontSet) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("font loader panicked: %v", r)
		}
	}()
	for _, f := range fonts {
		if err := s.doc.LoadFont(ctx, f); err != nil {
			return fmt.Errorf("load font %s %s: %w", f.Family, f.Style, err)
		}
	}
	return nil
}

func (s *Service) render(ctx context.Context, log zerolog.Logger, results []domain.SearchResult) {
	if s.renderer == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			log.Warn().Interface("panic", r).Msg("report rendering failed")
		}
	}()
	if err := s.renderer.Render(ctx, results); err != nil {
		log.Warn().Err(err).Msg("report rendering failed")
	}
}

func (s *Service) record(log zerolog.Logger, run domain.SearchRun) {
	if s.history == nil {
		return
	}
	// the request context may already be cancelled
	if err := s.history.Record(context.Background(), run); err != nil {
		log.Warn().Err(err).Msg("failed to record search history")
	}
}

func percentage(current, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(current) * 100 / float64(total)))
}

type nopObserver struct{}

func (nopObserver) OnProgress(domain.Progress)               {}
func (nopObserver) OnStreamingResult(domain.StreamingResult) {}
func (nopObserver) OnComplete()                              {}
