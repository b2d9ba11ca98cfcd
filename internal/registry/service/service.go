// Package service coordinates citizen registry lookups with read-through
// caching, instrumentation, and an optional configured fallback record for
// environments where the upstream registry is unreachable.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	id "solidario/pkg/domain"
	"solidario/pkg/platform/circuit"
	"solidario/pkg/platform/sentinel"

	"solidario/internal/registry"
	"solidario/internal/registry/metrics"
	"solidario/internal/registry/models"
	"solidario/internal/registry/store"
	"solidario/internal/registry/tracer"
)

const (
	tierBasic = "basic"
	tierFull  = "full"

	outcomeHit      = "hit"
	outcomeFound    = "found"
	outcomeNotFound = "not_found"
	outcomeError    = "error"
	outcomeFallback = "fallback"
)

// Service resolves persons against the citizen registry. Lookups go through
// the cache first; upstream answers are cached on the way back. A miss in the
// registry (person does not exist) is surfaced as sentinel.ErrNotFound and is
// never cached, so a person registered later is found on the next attempt.
type Service struct {
	client      registry.Client
	cache       store.CacheStore
	breaker     *circuit.Breaker
	fallbackCUI string
	logger      *slog.Logger
	metrics     *metrics.Metrics
	tracer      tracer.Tracer
	now         func() time.Time
}

// Option configures the Service.
type Option func(*Service)

// WithLogger sets the logger for the service.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithMetrics attaches Prometheus metrics.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithTracer attaches a tracer for lookup spans.
func WithTracer(t tracer.Tracer) Option {
	return func(s *Service) {
		s.tracer = t
	}
}

// WithBreaker overrides the default circuit breaker guarding upstream calls.
func WithBreaker(b *circuit.Breaker) Option {
	return func(s *Service) {
		s.breaker = b
	}
}

// WithFallbackCUI enables a synthetic record for the given CUI when the
// upstream registry is unavailable. Intended for demo and training
// environments only; leave empty in production.
func WithFallbackCUI(cui string) Option {
	return func(s *Service) {
		s.fallbackCUI = cui
	}
}

// New creates a registry service. The cache may be nil, in which case every
// lookup goes upstream.
func New(client registry.Client, cache store.CacheStore, opts ...Option) *Service {
	s := &Service{
		client:  client,
		cache:   cache,
		breaker: circuit.New("registry"),
		logger:  slog.Default(),
		tracer:  tracer.NewNoop(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// LookupBasic resolves the first-tier identity record for a CUI.
func (s *Service) LookupBasic(ctx context.Context, cui id.CUI) (*models.BasicPersonRecord, error) {
	start := time.Now()
	ctx, span := s.tracer.Start(ctx, tracer.SpanLookupBasic,
		tracer.String(tracer.AttrCUIHash, tracer.HashCUI(cui.String())))

	record, err := s.lookupBasic(ctx, cui, span, start)
	span.End(err)
	return record, err
}

func (s *Service) lookupBasic(ctx context.Context, cui id.CUI, span tracer.Span, start time.Time) (*models.BasicPersonRecord, error) {
	if s.cache != nil {
		cached, err := s.cache.FindBasic(ctx, cui)
		switch {
		case err == nil:
			span.SetAttributes(tracer.Bool(tracer.AttrCacheHit, true))
			s.recordCache(tierBasic, true)
			s.metrics.ObserveLookup(tierBasic, outcomeHit, start)
			return cached, nil
		case !errors.Is(err, sentinel.ErrNotFound):
			s.logger.WarnContext(ctx, "registry cache read failed", "tier", tierBasic, "error", err)
		}
		s.recordCache(tierBasic, false)
	}

	record, err := s.upstreamBasic(ctx, cui)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			s.metrics.ObserveLookup(tierBasic, outcomeNotFound, start)
			return nil, err
		}
		if fallback := s.fallbackBasic(cui); fallback != nil {
			span.SetAttributes(tracer.Bool(tracer.AttrFallback, true))
			s.logger.WarnContext(ctx, "registry unavailable, serving fallback record",
				"tier", tierBasic, "error", err)
			s.metrics.ObserveLookup(tierBasic, outcomeFallback, start)
			return fallback, nil
		}
		s.recordError(tierBasic)
		s.metrics.ObserveLookup(tierBasic, outcomeError, start)
		return nil, fmt.Errorf("registry basic lookup: %w", err)
	}

	if s.cache != nil {
		if err := s.cache.SaveBasic(ctx, record); err != nil {
			s.logger.WarnContext(ctx, "registry cache write failed", "tier", tierBasic, "error", err)
		}
	}
	s.metrics.ObserveLookup(tierBasic, outcomeFound, start)
	return record, nil
}

// LookupFull resolves the complete demographic record for a CUI. Callers must
// only invoke this after the operator confirmed the basic record.
func (s *Service) LookupFull(ctx context.Context, cui id.CUI) (*models.FullPersonRecord, error) {
	start := time.Now()
	ctx, span := s.tracer.Start(ctx, tracer.SpanLookupFull,
		tracer.String(tracer.AttrCUIHash, tracer.HashCUI(cui.String())))

	record, err := s.lookupFull(ctx, cui, span, start)
	span.End(err)
	return record, err
}

func (s *Service) lookupFull(ctx context.Context, cui id.CUI, span tracer.Span, start time.Time) (*models.FullPersonRecord, error) {
	if s.cache != nil {
		cached, err := s.cache.FindFull(ctx, cui)
		switch {
		case err == nil:
			span.SetAttributes(tracer.Bool(tracer.AttrCacheHit, true))
			s.recordCache(tierFull, true)
			s.metrics.ObserveLookup(tierFull, outcomeHit, start)
			return cached, nil
		case !errors.Is(err, sentinel.ErrNotFound):
			s.logger.WarnContext(ctx, "registry cache read failed", "tier", tierFull, "error", err)
		}
		s.recordCache(tierFull, false)
	}

	record, err := s.upstreamFull(ctx, cui)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			s.metrics.ObserveLookup(tierFull, outcomeNotFound, start)
			return nil, err
		}
		if fallback := s.fallbackFull(cui); fallback != nil {
			span.SetAttributes(tracer.Bool(tracer.AttrFallback, true))
			s.logger.WarnContext(ctx, "registry unavailable, serving fallback record",
				"tier", tierFull, "error", err)
			s.metrics.ObserveLookup(tierFull, outcomeFallback, start)
			return fallback, nil
		}
		s.recordError(tierFull)
		s.metrics.ObserveLookup(tierFull, outcomeError, start)
		return nil, fmt.Errorf("registry full lookup: %w", err)
	}

	if record.CheckedAt.IsZero() {
		record.CheckedAt = s.now()
	}
	if s.cache != nil {
		if err := s.cache.SaveFull(ctx, record); err != nil {
			s.logger.WarnContext(ctx, "registry cache write failed", "tier", tierFull, "error", err)
		}
	}
	s.metrics.ObserveLookup(tierFull, outcomeFound, start)
	return record, nil
}

// upstreamBasic calls the registry through the circuit breaker. While the
// circuit is open, calls fail fast without touching the network.
func (s *Service) upstreamBasic(ctx context.Context, cui id.CUI) (*models.BasicPersonRecord, error) {
	if !s.breaker.Allow() {
		return nil, fmt.Errorf("registry circuit open: %w", sentinel.ErrUnavailable)
	}
	record, err := s.client.LookupBasic(ctx, cui)
	s.observeUpstream(ctx, err)
	return record, err
}

func (s *Service) upstreamFull(ctx context.Context, cui id.CUI) (*models.FullPersonRecord, error) {
	if !s.breaker.Allow() {
		return nil, fmt.Errorf("registry circuit open: %w", sentinel.ErrUnavailable)
	}
	record, err := s.client.LookupFull(ctx, cui)
	s.observeUpstream(ctx, err)
	return record, err
}

// observeUpstream feeds the upstream outcome to the breaker. A not-found
// answer is a healthy response; only transport failures count against the
// circuit.
func (s *Service) observeUpstream(ctx context.Context, err error) {
	if err == nil || errors.Is(err, sentinel.ErrNotFound) {
		if _, change := s.breaker.RecordSuccess(); change.Closed {
			s.logger.InfoContext(ctx, "registry circuit closed")
		}
		return
	}
	if _, change := s.breaker.RecordFailure(); change.Opened {
		s.logger.WarnContext(ctx, "registry circuit opened", "error", err)
	}
}

// fallbackBasic returns a synthetic record when the configured fallback CUI
// matches, nil otherwise.
func (s *Service) fallbackBasic(cui id.CUI) *models.BasicPersonRecord {
	full := s.fallbackFull(cui)
	if full == nil {
		return nil
	}
	basic := full.Basic()
	return &basic
}

func (s *Service) fallbackFull(cui id.CUI) *models.FullPersonRecord {
	if s.fallbackCUI == "" || cui.String() != s.fallbackCUI {
		return nil
	}
	return &models.FullPersonRecord{
		CUI:       cui.String(),
		FullName:  "Persona De Prueba Registral",
		Sex:       "Hombre",
		BirthDate: "1990-01-01",
		CheckedAt: s.now(),
	}
}

func (s *Service) recordCache(tier string, hit bool) {
	if s.metrics == nil {
		return
	}
	if hit {
		s.metrics.CacheHits.WithLabelValues(tier).Inc()
		return
	}
	s.metrics.CacheMisses.WithLabelValues(tier).Inc()
}

func (s *Service) recordError(tier string) {
	if s.metrics == nil {
		return
	}
	s.metrics.LookupErrors.WithLabelValues(tier).Inc()
}
