package observability

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	servicedomain "github.com/exampleco/orders-api/internal/domains/services/domain"
	serviceports "github.com/exampleco/orders-api/internal/domains/services/ports"
	apierrors "github.com/exampleco/orders-api/internal/shared/errors"
)

const tracerName = "github.com/exampleco/orders-api/internal/domains/services/adapters/observability/service"

// Service decorates the service catalogue with tracing, logging, and metrics.
type Service struct {
	inner   serviceports.Service
	tracer  trace.Tracer
	logger  *slog.Logger
	metrics serviceMetrics
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithTracer(tr trace.Tracer) Option {
	return func(s *Service) {
		s.tracer = tr
	}
}

func WithMeter(m metric.Meter) Option {
	return func(s *Service) {
		s.metrics = newServiceMetrics(m)
	}
}

// New wraps the core service catalogue.
func New(inner serviceports.Service, opts ...Option) serviceports.Service {
	s := &Service{
		inner:   inner,
		tracer:  nooptrace.NewTracerProvider().Tracer(tracerName),
		logger:  slog.New(slog.DiscardHandler),
		metrics: newServiceMetrics(nil),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.tracer == nil {
		s.tracer = nooptrace.NewTracerProvider().Tracer(tracerName)
	}
	return s
}

func (s *Service) ListServices(ctx context.Context) ([]*servicedomain.Service, error) {
	ctx, span := s.tracer.Start(ctx, "ServiceCatalog.ListServices")
	defer span.End()

	result, err := s.inner.ListServices(ctx)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to list services")
	}
	span.SetAttributes(attribute.Int("services.count", len(result)))
	s.logDebug(ctx, "services listed", slog.Int("services.count", len(result)))
	return result, nil
}

func (s *Service) GetService(ctx context.Context, id int64) (*servicedomain.Service, error) {
	ctx, span := s.tracer.Start(ctx, "ServiceCatalog.GetService", trace.WithAttributes(attribute.Int64("service.id", id)))
	defer span.End()

	result, err := s.inner.GetService(ctx, id)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to load service", slog.Int64("service.id", id))
	}
	s.logDebug(ctx, "service loaded", slog.Int64("service.id", result.ID))
	return result, nil
}

func (s *Service) Exists(ctx context.Context, id int64) (bool, error) {
	ctx, span := s.tracer.Start(ctx, "ServiceCatalog.Exists", trace.WithAttributes(attribute.Int64("service.id", id)))
	defer span.End()

	ok, err := s.inner.Exists(ctx, id)
	if err != nil {
		return false, s.handleError(ctx, span, err, "failed to check service", slog.Int64("service.id", id))
	}
	span.SetAttributes(attribute.Bool("service.exists", ok))
	s.metrics.recordLookup(ctx, ok)
	return ok, nil
}

func (s *Service) logDebug(ctx context.Context, msg string, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	s.logger.LogAttrs(ctx, slog.LevelDebug, msg, attrs...)
}

// handleError records err on the span. Not-found is an expected outcome and
// is logged at info; everything else at error.
func (s *Service) handleError(ctx context.Context, span trace.Span, err error, msg string, attrs ...slog.Attr) error {
	level := slog.LevelError
	if apierrors.IsNotFound(err) {
		level = slog.LevelInfo
	} else if span != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	if s.logger != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
		s.logger.LogAttrs(ctx, level, msg, attrs...)
	}
	return err
}

type serviceMetrics struct {
	lookups metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	lookups, _ := m.Int64Counter("services_service_reference_lookups", metric.WithDescription("Foreign key lookups against the service catalogue"))
	return serviceMetrics{lookups: lookups}
}

func (m serviceMetrics) recordLookup(ctx context.Context, found bool) {
	if m.lookups != nil {
		m.lookups.Add(ctx, 1, metric.WithAttributes(attribute.Bool("service_exists", found)))
	}
}

var _ serviceports.Service = (*Service)(nil)
