// Package telemetry provides OpenTelemetry integration for metrics collection.
package telemetry

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// BusinessMetrics tracks application-level activity: registrations,
// logins, contact churn, avatar uploads and cache effectiveness.
type BusinessMetrics struct {
	meter  metric.Meter
	logger *zap.Logger

	// Counter metrics (monotonically increasing)
	userRegisteredTotal *Counter
	loginTotal          *Counter
	contactCreatedTotal *Counter
	contactDeletedTotal *Counter
	avatarUploadTotal   *Counter
	cacheRequestTotal   *Counter

	// Gauge metrics (point-in-time values)
	usersTotal    *Gauge
	contactsTotal *Gauge

	// Periodic collector
	stopChan    chan struct{}
	stopOnce    sync.Once
	collectOnce sync.Once

	statsProvider StatsProvider
}

// StatsProvider supplies aggregate counts for periodic gauge collection.
// The interface keeps the telemetry layer from depending on the
// persistence layer directly.
type StatsProvider interface {
	CountUsers(ctx context.Context) (int64, error)
	CountContacts(ctx context.Context) (int64, error)
}

// BusinessMetricsConfig holds configuration for business metrics.
type BusinessMetricsConfig struct {
	Meter           metric.Meter
	Logger          *zap.Logger
	CollectInterval time.Duration // Default: 5 minutes
	StatsProvider   StatsProvider
}

// NewBusinessMetrics creates a new BusinessMetrics instance.
func NewBusinessMetrics(cfg BusinessMetricsConfig) (*BusinessMetrics, error) {
	if cfg.Meter == nil {
		return nil, ErrMeterNil
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	bm := &BusinessMetrics{
		meter:         cfg.Meter,
		logger:        logger,
		stopChan:      make(chan struct{}),
		statsProvider: cfg.StatsProvider,
	}

	var err error

	bm.userRegisteredTotal, err = NewCounter(
		cfg.Meter,
		"contacts_user_registered_total",
		"Total number of user registrations",
		"{users}",
	)
	if err != nil {
		return nil, err
	}

	bm.loginTotal, err = NewCounter(
		cfg.Meter,
		"contacts_login_total",
		"Total number of login attempts",
		"{logins}",
	)
	if err != nil {
		return nil, err
	}

	bm.contactCreatedTotal, err = NewCounter(
		cfg.Meter,
		"contacts_contact_created_total",
		"Total number of contacts created",
		"{contacts}",
	)
	if err != nil {
		return nil, err
	}

	bm.contactDeletedTotal, err = NewCounter(
		cfg.Meter,
		"contacts_contact_deleted_total",
		"Total number of contacts deleted",
		"{contacts}",
	)
	if err != nil {
		return nil, err
	}

	bm.avatarUploadTotal, err = NewCounter(
		cfg.Meter,
		"contacts_avatar_upload_total",
		"Total number of avatar uploads",
		"{uploads}",
	)
	if err != nil {
		return nil, err
	}

	bm.cacheRequestTotal, err = NewCounter(
		cfg.Meter,
		"contacts_user_cache_request_total",
		"Total number of user cache lookups",
		"{requests}",
	)
	if err != nil {
		return nil, err
	}

	bm.usersTotal, err = NewGauge(
		cfg.Meter,
		"contacts_users_total",
		"Current number of registered users",
		"{users}",
	)
	if err != nil {
		return nil, err
	}

	bm.contactsTotal, err = NewGauge(
		cfg.Meter,
		"contacts_contacts_total",
		"Current number of stored contacts",
		"{contacts}",
	)
	if err != nil {
		return nil, err
	}

	return bm, nil
}

// AuthResult labels a login attempt outcome.
type AuthResult string

const (
	AuthResultSuccess AuthResult = "success"
	AuthResultFailure AuthResult = "failure"
)

// CacheResult labels a cache lookup outcome.
type CacheResult string

const (
	CacheResultHit  CacheResult = "hit"
	CacheResultMiss CacheResult = "miss"
)

// RecordUserRegistered records a successful registration.
func (bm *BusinessMetrics) RecordUserRegistered(ctx context.Context) {
	bm.userRegisteredTotal.Inc(ctx)
}

// RecordLogin records a login attempt with its outcome.
func (bm *BusinessMetrics) RecordLogin(ctx context.Context, result AuthResult) {
	bm.loginTotal.Inc(ctx, AttrAuthResult.String(string(result)))
}

// RecordContactCreated records a contact creation.
func (bm *BusinessMetrics) RecordContactCreated(ctx context.Context) {
	bm.contactCreatedTotal.Inc(ctx)
}

// RecordContactDeleted records a contact deletion.
func (bm *BusinessMetrics) RecordContactDeleted(ctx context.Context) {
	bm.contactDeletedTotal.Inc(ctx)
}

// RecordAvatarUpload records an avatar upload.
func (bm *BusinessMetrics) RecordAvatarUpload(ctx context.Context) {
	bm.avatarUploadTotal.Inc(ctx)
}

// RecordCacheLookup records a user cache lookup outcome.
func (bm *BusinessMetrics) RecordCacheLookup(ctx context.Context, result CacheResult) {
	bm.cacheRequestTotal.Inc(ctx, AttrCacheResult.String(string(result)))
}

// StartPeriodicCollection starts periodic collection of gauge metrics.
// This is non-blocking - use Stop() to stop collection.
func (bm *BusinessMetrics) StartPeriodicCollection(ctx context.Context, interval time.Duration) {
	bm.collectOnce.Do(func() {
		if interval <= 0 {
			interval = 5 * time.Minute
		}

		go bm.runPeriodicCollection(ctx, interval)
	})
}

func (bm *BusinessMetrics) runPeriodicCollection(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	bm.collectTotals(ctx)

	for {
		select {
		case <-bm.stopChan:
			bm.logger.Info("Stopping periodic business metrics collection")
			return
		case <-ctx.Done():
			bm.logger.Info("Context cancelled, stopping periodic business metrics collection")
			return
		case <-ticker.C:
			bm.collectTotals(ctx)
		}
	}
}

func (bm *BusinessMetrics) collectTotals(ctx context.Context) {
	if bm.statsProvider == nil {
		bm.logger.Debug("No stats provider configured, skipping totals collection")
		return
	}

	if count, err := bm.statsProvider.CountUsers(ctx); err != nil {
		bm.logger.Warn("Failed to count users for metrics", zap.Error(err))
	} else {
		bm.usersTotal.Record(ctx, count)
	}

	if count, err := bm.statsProvider.CountContacts(ctx); err != nil {
		bm.logger.Warn("Failed to count contacts for metrics", zap.Error(err))
	} else {
		bm.contactsTotal.Record(ctx, count)
	}
}

// Stop stops the periodic collection.
func (bm *BusinessMetrics) Stop() {
	bm.stopOnce.Do(func() {
		close(bm.stopChan)
	})
}

// ErrMeterNil is returned when meter is nil.
var ErrMeterNil = &MetricsError{Op: "NewBusinessMetrics", Err: "meter cannot be nil"}

// MetricsError represents a metrics-related error.
type MetricsError struct {
	Op  string
	Err string
}

func (e *MetricsError) Error() string {
	return e.Op + ": " + e.Err
}
