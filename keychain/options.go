package keychain

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/trace"

	"github.com/MKhiriev/go-keychain-store/codec"
	"github.com/MKhiriev/go-keychain-store/internal/logger"
	"github.com/MKhiriev/go-keychain-store/models"
)

// defaultRaceRetryDelay is used by WithInsertRaceRetry for non-positive
// delays.
const defaultRaceRetryDelay = 10 * time.Millisecond

// Option configures a [Store].
type Option func(*Store)

// WithCodec sets the codec of WriteValue and ReadValue. Default: JSON.
func WithCodec(c codec.Codec) Option {
	return func(s *Store) {
		if c != nil {
			s.codec = c
		}
	}
}

// WithAccessPolicy sets the accessibility and sync policy.
func WithAccessPolicy(p models.AccessPolicy) Option {
	return func(s *Store) {
		s.policy = p
	}
}

// WithLogger routes the store's and the backends' logs to l. Default: no
// logging.
func WithLogger(l zerolog.Logger) Option {
	return func(s *Store) {
		s.logger = logger.FromZerolog(l)
	}
}

// WithTracerProvider sets the provider of operation spans. Default: the
// global provider.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(s *Store) {
		if tp != nil {
			s.tracerProvider = tp
		}
	}
}

// WithMetrics registers the operation collectors on reg. Stores sharing a
// registerer share the collectors.
func WithMetrics(reg prometheus.Registerer) Option {
	return func(s *Store) {
		s.registerer = reg
	}
}

// WithInsertRaceRetry re-runs a write once, after delay, when its insert
// lost the race to a concurrent writer of the same key.
func WithInsertRaceRetry(delay time.Duration) Option {
	return func(s *Store) {
		if delay <= 0 {
			delay = defaultRaceRetryDelay
		}
		s.raceRetry = true
		s.raceRetryDelay = delay
	}
}
