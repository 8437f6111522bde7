package observability

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	"github.com/exampleco/orders-api/internal/domains/orders/application/types"
	orderdomain "github.com/exampleco/orders-api/internal/domains/orders/domain"
	orderports "github.com/exampleco/orders-api/internal/domains/orders/ports"
	apierrors "github.com/exampleco/orders-api/internal/shared/errors"
)

const tracerName = "github.com/exampleco/orders-api/internal/domains/orders/adapters/observability/service"

// Service decorates the order service with tracing, logging, and metrics.
type Service struct {
	inner   orderports.Service
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

// New wraps the core order service.
func New(inner orderports.Service, opts ...Option) orderports.Service {
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

func (s *Service) ListOrders(ctx context.Context) ([]*orderdomain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.ListOrders")
	defer span.End()

	result, err := s.inner.ListOrders(ctx)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to list orders")
	}
	span.SetAttributes(attribute.Int("orders.count", len(result)))
	s.log(ctx, slog.LevelDebug, "orders listed", slog.Int("orders.count", len(result)))
	return result, nil
}

func (s *Service) GetOrder(ctx context.Context, input types.OrderIdentifier) (*orderdomain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.GetOrder", trace.WithAttributes(attribute.Int64("order.id", input.ID)))
	defer span.End()

	result, err := s.inner.GetOrder(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to load order", slog.Int64("order.id", input.ID))
	}
	span.SetAttributes(attribute.Int("order.items.count", len(result.Items)))
	s.log(ctx, slog.LevelDebug, "order loaded", slog.Int64("order.id", result.ID))
	return result, nil
}

func (s *Service) CreateOrder(ctx context.Context, input types.CreateOrderInput) (*orderdomain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.CreateOrder", trace.WithAttributes(attribute.Int64("service.id", input.ServiceID)))
	defer span.End()

	result, err := s.inner.CreateOrder(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to create order", slog.Int64("service.id", input.ServiceID))
	}
	span.SetAttributes(attribute.Int64("order.id", result.ID))
	s.metrics.recordMutation(ctx, "create")
	s.log(ctx, slog.LevelInfo, "order created", slog.Int64("order.id", result.ID), slog.Int64("service.id", result.ServiceID))
	return result, nil
}

func (s *Service) UpdateOrder(ctx context.Context, input types.UpdateOrderInput) (*orderdomain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.UpdateOrder", trace.WithAttributes(attribute.Int64("order.id", input.ID)))
	defer span.End()

	resolved := input
	if decode := input.Decode; decode != nil {
		input.Decode = func() (types.UpdateOrderInput, error) {
			decoded, err := decode()
			if err == nil {
				resolved.Name, resolved.ServiceID = decoded.Name, decoded.ServiceID
			}
			return decoded, err
		}
	}
	result, err := s.inner.UpdateOrder(ctx, input)
	span.SetAttributes(
		attribute.Bool("order.update.name", resolved.Name != nil),
		attribute.Bool("order.update.service_id", resolved.ServiceID != nil),
	)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to update order", slog.Int64("order.id", input.ID))
	}
	if !resolved.Empty() {
		s.metrics.recordMutation(ctx, "update")
	}
	s.log(ctx, slog.LevelInfo, "order updated", slog.Int64("order.id", result.ID), slog.Int64("service.id", result.ServiceID))
	return result, nil
}

func (s *Service) DeleteOrder(ctx context.Context, input types.OrderIdentifier) error {
	ctx, span := s.tracer.Start(ctx, "OrderService.DeleteOrder", trace.WithAttributes(attribute.Int64("order.id", input.ID)))
	defer span.End()

	if err := s.inner.DeleteOrder(ctx, input); err != nil {
		return s.handleError(ctx, span, err, "failed to delete order", slog.Int64("order.id", input.ID))
	}
	s.metrics.recordMutation(ctx, "delete")
	s.log(ctx, slog.LevelInfo, "order deleted", slog.Int64("order.id", input.ID))
	return nil
}

func (s *Service) Stats(ctx context.Context, input types.StatsInput) (*types.OrderStats, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.Stats", trace.WithAttributes(attribute.String("stats.period", input.TimePeriod)))
	defer span.End()

	result, err := s.inner.Stats(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to compute order statistics", slog.String("stats.period", input.TimePeriod))
	}
	span.SetAttributes(
		attribute.Int("stats.buckets", len(result.Buckets)),
		attribute.Int64("stats.total", result.Total()),
	)
	s.metrics.recordStats(ctx, result.Period)
	s.log(ctx, slog.LevelDebug, "order statistics computed",
		slog.String("stats.period", string(result.Period)),
		slog.Int("stats.buckets", len(result.Buckets)),
		slog.Int64("stats.total", result.Total()),
	)
	return result, nil
}

func (s *Service) log(ctx context.Context, level slog.Level, msg string, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	s.logger.LogAttrs(ctx, level, msg, attrs...)
}

// handleError records err on the span. Validation and not-found failures are
// client errors and logged at info; everything else at error.
func (s *Service) handleError(ctx context.Context, span trace.Span, err error, msg string, attrs ...slog.Attr) error {
	level := slog.LevelError
	kind := apierrors.KindOf(err)
	if kind != apierrors.KindInternal {
		level = slog.LevelInfo
	} else if span != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	if span != nil {
		span.SetAttributes(attribute.String("error.kind", kind.String()))
	}
	attrs = append(attrs, slog.String("error", err.Error()), slog.String("error.kind", kind.String()))
	s.log(ctx, level, msg, attrs...)
	return err
}

type serviceMetrics struct {
	mutations     metric.Int64Counter
	statsRequests metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	mutations, _ := m.Int64Counter("orders_service_mutations", metric.WithDescription("Number of order writes by operation"))
	statsRequests, _ := m.Int64Counter("orders_service_stats_requests", metric.WithDescription("Number of statistics queries by period"))
	return serviceMetrics{mutations: mutations, statsRequests: statsRequests}
}

func (m serviceMetrics) recordMutation(ctx context.Context, op string) {
	if m.mutations != nil {
		m.mutations.Add(ctx, 1, metric.WithAttributes(attribute.String("order_operation", op)))
	}
}

func (m serviceMetrics) recordStats(ctx context.Context, period orderdomain.TimePeriod) {
	if m.statsRequests != nil {
		m.statsRequests.Add(ctx, 1, metric.WithAttributes(attribute.String("stats_period", string(period))))
	}
}

var _ orderports.Service = (*Service)(nil)
