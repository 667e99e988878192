package telemetry_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/metric/noop"
	"go.uber.org/zap"

	"github.com/contacthub/backend/internal/infrastructure/telemetry"
)

type stubStatsProvider struct {
	users    atomic.Int64
	contacts atomic.Int64
	calls    atomic.Int64
	err      error
}

func (s *stubStatsProvider) CountUsers(ctx context.Context) (int64, error) {
	s.calls.Add(1)
	if s.err != nil {
		return 0, s.err
	}
	return s.users.Load(), nil
}

func (s *stubStatsProvider) CountContacts(ctx context.Context) (int64, error) {
	if s.err != nil {
		return 0, s.err
	}
	return s.contacts.Load(), nil
}

func TestNewBusinessMetrics(t *testing.T) {
	meter := noop.NewMeterProvider().Meter("test")

	bm, err := telemetry.NewBusinessMetrics(telemetry.BusinessMetricsConfig{
		Meter:  meter,
		Logger: zap.NewNop(),
	})

	require.NoError(t, err)
	require.NotNil(t, bm)
}

func TestNewBusinessMetrics_NilMeter(t *testing.T) {
	bm, err := telemetry.NewBusinessMetrics(telemetry.BusinessMetricsConfig{
		Logger: zap.NewNop(),
	})

	require.Error(t, err)
	assert.Nil(t, bm)
	assert.Contains(t, err.Error(), "meter cannot be nil")
}

func TestBusinessMetrics_RecordCounters(t *testing.T) {
	meter := noop.NewMeterProvider().Meter("test")
	bm, err := telemetry.NewBusinessMetrics(telemetry.BusinessMetricsConfig{
		Meter:  meter,
		Logger: zap.NewNop(),
	})
	require.NoError(t, err)

	ctx := context.Background()

	// Recording against a noop meter must never panic.
	bm.RecordUserRegistered(ctx)
	bm.RecordLogin(ctx, telemetry.AuthResultSuccess)
	bm.RecordLogin(ctx, telemetry.AuthResultFailure)
	bm.RecordContactCreated(ctx)
	bm.RecordContactDeleted(ctx)
	bm.RecordAvatarUpload(ctx)
	bm.RecordCacheLookup(ctx, telemetry.CacheResultHit)
	bm.RecordCacheLookup(ctx, telemetry.CacheResultMiss)
}

func TestBusinessMetrics_PeriodicCollection(t *testing.T) {
	meter := noop.NewMeterProvider().Meter("test")
	provider := &stubStatsProvider{}
	provider.users.Store(3)
	provider.contacts.Store(12)

	bm, err := telemetry.NewBusinessMetrics(telemetry.BusinessMetricsConfig{
		Meter:         meter,
		Logger:        zap.NewNop(),
		StatsProvider: provider,
	})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	bm.StartPeriodicCollection(ctx, 10*time.Millisecond)
	defer bm.Stop()

	assert.Eventually(t, func() bool {
		return provider.calls.Load() >= 2
	}, 2*time.Second, 5*time.Millisecond)
}

func TestBusinessMetrics_PeriodicCollection_ProviderError(t *testing.T) {
	meter := noop.NewMeterProvider().Meter("test")
	provider := &stubStatsProvider{err: errors.New("db unavailable")}

	bm, err := telemetry.NewBusinessMetrics(telemetry.BusinessMetricsConfig{
		Meter:         meter,
		Logger:        zap.NewNop(),
		StatsProvider: provider,
	})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Collection errors are logged and must not stop the loop.
	bm.StartPeriodicCollection(ctx, 10*time.Millisecond)
	defer bm.Stop()

	assert.Eventually(t, func() bool {
		return provider.calls.Load() >= 2
	}, 2*time.Second, 5*time.Millisecond)
}

func TestBusinessMetrics_StopIsIdempotent(t *testing.T) {
	meter := noop.NewMeterProvider().Meter("test")
	bm, err := telemetry.NewBusinessMetrics(telemetry.BusinessMetricsConfig{
		Meter:         meter,
		Logger:        zap.NewNop(),
		StatsProvider: &stubStatsProvider{},
	})
	require.NoError(t, err)

	bm.StartPeriodicCollection(context.Background(), time.Minute)
	bm.Stop()
	bm.Stop()
}
