package keychain

import (
	"context"
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/MKhiriev/go-keychain-store/internal/logger"
)

const instrumentationName = "github.com/MKhiriev/go-keychain-store/keychain"

const (
	resultOK       = "ok"
	resultNotFound = "not_found"
)

type metrics struct {
	operations *prometheus.CounterVec
	duration   *prometheus.HistogramVec
}

func newMetrics(reg prometheus.Registerer) (*metrics, error) {
	operations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "keychain_operations_total",
		Help: "Keychain operations by operation and result",
	}, []string{"op", "result"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "keychain_operation_duration_seconds",
		Help:    "Keychain operation latency",
		Buckets: prometheus.ExponentialBuckets(0.0005, 4, 8),
	}, []string{"op"})

	var err error
	if operations, err = registerOrReuse(reg, operations); err != nil {
		return nil, err
	}
	if duration, err = registerOrReuse(reg, duration); err != nil {
		return nil, err
	}

	return &metrics{operations: operations, duration: duration}, nil
}

func registerOrReuse[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

// operation instruments one public Store call.
type operation struct {
	name     string
	start    time.Time
	span     trace.Span
	log      *logger.Logger
	metrics  *metrics
	notFound bool
}

// begin starts the span of op and attaches an operation logger to ctx for
// the backend.
func (s *Store) begin(ctx context.Context, op, key string) (context.Context, *operation) {
	attrs := []attribute.KeyValue{attribute.String("keychain.service", s.namespace.Service)}
	if key != "" {
		attrs = append(attrs, attribute.String("keychain.account", key))
	}
	ctx, span := s.tracer.Start(ctx, "keychain."+op, trace.WithAttributes(attrs...))

	log := logger.FromContextOr(ctx, s.logger).GetChildLogger()
	log.UpdateContext(func(c zerolog.Context) zerolog.Context {
		return c.Str("service", s.namespace.Service).Str("account", key)
	})
	ctx = log.WithContext(ctx)

	return ctx, &operation{
		name:    op,
		start:   time.Now(),
		span:    span,
		log:     log,
		metrics: s.metrics,
	}
}

// absent marks a read that found nothing.
func (o *operation) absent() {
	o.notFound = true
}

func (o *operation) end(err error) {
	defer o.span.End()

	result := resultOK
	switch {
	case err != nil:
		result = errorLabel(err)
		o.span.RecordError(err)
		o.span.SetStatus(codes.Error, err.Error())
		o.log.Err(err).Str("func", "Store."+o.name).Msg("keychain operation failed")
	case o.notFound:
		result = resultNotFound
		o.span.SetAttributes(attribute.Bool("keychain.found", false))
		o.log.Debug().Str("func", "Store."+o.name).Msg("item not found")
	default:
		o.log.Debug().Str("func", "Store."+o.name).Msg("keychain operation done")
	}

	if o.metrics != nil {
		o.metrics.operations.WithLabelValues(o.name, result).Inc()
		o.metrics.duration.WithLabelValues(o.name).Observe(time.Since(o.start).Seconds())
	}
}
