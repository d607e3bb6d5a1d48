// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package keychain

import (
	"context"
	"errors"
	"time"
	"unicode/utf8"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sethvargo/go-retry"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/MKhiriev/go-keychain-store/codec"
	"github.com/MKhiriev/go-keychain-store/internal/logger"
	"github.com/MKhiriev/go-keychain-store/models"
	"github.com/MKhiriev/go-keychain-store/query"
	"github.com/MKhiriev/go-keychain-store/vault"
)

// Store is a typed key-value view of one namespace of a [vault.Vault].
//
// A Store holds no mutable state and is safe for concurrent use. Writes are
// a probe followed by exactly one update or insert; a concurrent insert of
// the same key between the two calls surfaces as an Unhandled error with
// [vault.StatusDuplicateItem] unless [WithInsertRaceRetry] is set.
type Store struct {
	vault     vault.Vault
	namespace query.GenericPassword
	policy    models.AccessPolicy
	codec     codec.Codec

	logger         *logger.Logger
	tracerProvider trace.TracerProvider
	tracer         trace.Tracer
	registerer     prometheus.Registerer
	metrics        *metrics

	raceRetry      bool
	raceRetryDelay time.Duration

	close func() error
}

// New returns a Store over v scoped to namespace. An empty service falls
// back to [DefaultService].
func New(v vault.Vault, namespace query.GenericPassword, opts ...Option) *Store {
	s := newStore(namespace, opts...)
	s.vault = v
	return s
}

func newStore(namespace query.GenericPassword, opts ...Option) *Store {
	if namespace.Service == "" {
		namespace.Service = DefaultService()
	}

	s := &Store{
		namespace: namespace,
		policy:    models.DefaultAccessPolicy(),
		codec:     codec.NewJSON(),
		logger:    logger.Nop(),
		close:     func() error { return nil },
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.tracerProvider == nil {
		s.tracerProvider = otel.GetTracerProvider()
	}
	s.tracer = s.tracerProvider.Tracer(instrumentationName)

	if s.registerer != nil {
		m, err := newMetrics(s.registerer)
		if err != nil {
			s.logger.Err(err).Str("func", "keychain.New").Msg("failed to register metrics")
		} else {
			s.metrics = m
		}
	}

	return s
}

// Service returns the namespace's service name.
func (s *Store) Service() string {
	return s.namespace.Service
}

// Namespace returns the namespace the store is scoped to.
func (s *Store) Namespace() query.GenericPassword {
	return s.namespace
}

// Policy returns the access policy applied to writes.
func (s *Store) Policy() models.AccessPolicy {
	return s.policy
}

// Close releases the backend opened by [Open]. It is a no-op for stores
// built with [New].
func (s *Store) Close() error {
	return s.close()
}

// itemQuery addresses the item stored under key, honoring the sync policy.
func (s *Store) itemQuery(key string) query.Descriptor {
	q := query.ForAccount(s.namespace.Query(), key)
	if s.policy.Synchronizable {
		q[query.AttrSynchronizable] = true
	}
	return q
}

// WriteBytes stores data under key, replacing any previous value.
func (s *Store) WriteBytes(ctx context.Context, data []byte, key string) (err error) {
	ctx, op := s.begin(ctx, "WriteBytes", key)
	defer func() { op.end(err) }()

	return s.writeBytes(ctx, data, key)
}

// WriteString stores the UTF-8 bytes of str under key.
func (s *Store) WriteString(ctx context.Context, str string, key string) (err error) {
	ctx, op := s.begin(ctx, "WriteString", key)
	defer func() { op.end(err) }()

	if !utf8.ValidString(str) {
		return &Error{Kind: KindStringConversion}
	}
	return s.writeBytes(ctx, []byte(str), key)
}

// WriteValue encodes v with the store's codec and stores it under key.
func (s *Store) WriteValue(ctx context.Context, v any, key string) (err error) {
	ctx, op := s.begin(ctx, "WriteValue", key)
	defer func() { op.end(err) }()

	data, err := s.codec.Encode(v)
	if err != nil {
		return wrapCodecError(KindEncoding, err)
	}
	return s.writeBytes(ctx, data, key)
}

func (s *Store) writeBytes(ctx context.Context, data []byte, key string) error {
	if data == nil {
		data = []byte{}
	}
	if !s.raceRetry {
		return s.upsert(ctx, data, key)
	}

	backoff := retry.WithMaxRetries(1, retry.NewConstant(s.raceRetryDelay))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		err := s.upsert(ctx, data, key)
		var kerr *Error
		if errors.As(err, &kerr) && kerr.Status == vault.StatusDuplicateItem {
			logger.FromContextOr(ctx, s.logger).Debug().Str("func", "Store.writeBytes").Msg("insert lost a race, retrying")
			return retry.RetryableError(err)
		}
		return err
	})
	return wrapContextError(err)
}

// upsert probes for key and then issues exactly one update or insert.
func (s *Store) upsert(ctx context.Context, data []byte, key string) error {
	q := s.itemQuery(key)

	switch st := s.vault.Probe(ctx, q); st {
	case vault.StatusSuccess:
		st = s.vault.Update(ctx, q, query.Descriptor{query.ValueData: data})
		return mapStatus(s.vault, st)

	case vault.StatusItemNotFound:
		insert := q.With(query.AttrAccessible, s.policy.EffectiveAccessibility())
		insert[query.ValueData] = data
		st = s.vault.Insert(ctx, insert)
		return mapStatus(s.vault, st)

	default:
		return mapStatus(s.vault, st)
	}
}

// ReadBytes returns the value stored under key. found is false, with a nil
// error, when there is none.
func (s *Store) ReadBytes(ctx context.Context, key string) (data []byte, found bool, err error) {
	ctx, op := s.begin(ctx, "ReadBytes", key)
	defer func() { op.end(err) }()

	data, found, err = s.readBytes(ctx, key)
	if err == nil && !found {
		op.absent()
	}
	return data, found, err
}

// ReadString returns the value stored under key as text.
func (s *Store) ReadString(ctx context.Context, key string) (str string, found bool, err error) {
	ctx, op := s.begin(ctx, "ReadString", key)
	defer func() { op.end(err) }()

	data, found, err := s.readBytes(ctx, key)
	if err != nil {
		return "", false, err
	}
	if !found {
		op.absent()
		return "", false, nil
	}
	if !utf8.Valid(data) {
		return "", false, &Error{Kind: KindStringConversion}
	}
	return string(data), true, nil
}

// ReadValue decodes the value stored under key into target, which must be
// a pointer the codec can fill. found is false when there is no value; target
// is then left untouched.
func (s *Store) ReadValue(ctx context.Context, key string, target any) (found bool, err error) {
	ctx, op := s.begin(ctx, "ReadValue", key)
	defer func() { op.end(err) }()

	data, found, err := s.readBytes(ctx, key)
	if err != nil {
		return false, err
	}
	if !found {
		op.absent()
		return false, nil
	}
	if err = s.codec.Decode(data, target); err != nil {
		return false, wrapCodecError(KindDecoding, err)
	}
	return true, nil
}

// ReadValueAs decodes the value stored under key into a new T. It returns
// nil, nil when there is no value.
func ReadValueAs[T any](ctx context.Context, s *Store, key string) (*T, error) {
	v := new(T)
	found, err := s.ReadValue(ctx, key, v)
	if err != nil || !found {
		return nil, err
	}
	return v, nil
}

func (s *Store) readBytes(ctx context.Context, key string) ([]byte, bool, error) {
	q := s.itemQuery(key)
	q[query.ReturnData] = true
	q[query.MatchLimit] = query.MatchLimitOne

	payload, st := s.vault.Fetch(ctx, q)
	switch st {
	case vault.StatusSuccess:
		data, ok := payload.([]byte)
		if !ok {
			return nil, false, &Error{Kind: KindUnexpectedStatus, Status: st}
		}
		if data == nil {
			data = []byte{}
		}
		return data, true, nil

	case vault.StatusItemNotFound:
		return nil, false, nil

	default:
		return nil, false, mapStatus(s.vault, st)
	}
}

// Lookup is ReadBytes for callers that treat absence as an error: a missing
// key yields an error matching [ErrItemNotFound].
func (s *Store) Lookup(ctx context.Context, key string) (data []byte, err error) {
	ctx, op := s.begin(ctx, "Lookup", key)
	defer func() { op.end(err) }()

	data, found, err := s.readBytes(ctx, key)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, mapStatus(s.vault, vault.StatusItemNotFound)
	}
	return data, nil
}

// Contains reports whether a value is stored under key without reading it.
func (s *Store) Contains(ctx context.Context, key string) (found bool, err error) {
	ctx, op := s.begin(ctx, "Contains", key)
	defer func() { op.end(err) }()

	switch st := s.vault.Probe(ctx, s.itemQuery(key)); st {
	case vault.StatusSuccess:
		return true, nil
	case vault.StatusItemNotFound:
		op.absent()
		return false, nil
	default:
		return false, mapStatus(s.vault, st)
	}
}

// Remove deletes the value stored under key. Removing a missing key
// succeeds.
func (s *Store) Remove(ctx context.Context, key string) (err error) {
	ctx, op := s.begin(ctx, "Remove", key)
	defer func() { op.end(err) }()

	return s.delete(ctx, s.itemQuery(key), op)
}

// RemoveAll deletes every item of the namespace, synced or not. An empty
// namespace succeeds.
func (s *Store) RemoveAll(ctx context.Context) (err error) {
	ctx, op := s.begin(ctx, "RemoveAll", "")
	defer func() { op.end(err) }()

	q := s.namespace.Query().With(query.AttrSynchronizable, query.SynchronizableAny)
	return s.delete(ctx, q, op)
}

func (s *Store) delete(ctx context.Context, q query.Descriptor, op *operation) error {
	switch st := s.vault.Delete(ctx, q); st {
	case vault.StatusSuccess:
		return nil
	case vault.StatusItemNotFound:
		op.absent()
		return nil
	default:
		return mapStatus(s.vault, st)
	}
}
