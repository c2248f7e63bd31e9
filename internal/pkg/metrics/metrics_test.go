package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewWithRegistry(reg)

	require.NotNil(t, m)
	assert.NotNil(t, m.HTTPRequestsTotal)
	assert.NotNil(t, m.HTTPRequestDuration)
	assert.NotNil(t, m.BookingOperationsTotal)
	assert.NotNil(t, m.LockWaitDuration)
	assert.NotNil(t, m.DistributedLockDuration)
	assert.NotNil(t, m.BookingsByStatus)
	assert.NotNil(t, m.SeatsAvailable)
	assert.NotNil(t, m.PromotionsTotal)
	assert.NotNil(t, m.NotificationsTotal)
}

func TestNewWithRegistry_DuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	NewWithRegistry(reg)

	// 同じレジストリへの二重登録はパニックする
	assert.Panics(t, func() {
		NewWithRegistry(reg)
	})
}

func TestHTTPRequestsTotal(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewWithRegistry(reg)

	m.HTTPRequestsTotal.WithLabelValues("GET", "/api/v1/seats", "200").Inc()
	m.HTTPRequestsTotal.WithLabelValues("POST", "/api/v1/bookings", "201").Inc()
	m.HTTPRequestsTotal.WithLabelValues("POST", "/api/v1/bookings", "400").Inc()

	assert.Equal(t, 3, testutil.CollectAndCount(m.HTTPRequestsTotal))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("POST", "/api/v1/bookings", "201")))
}

func TestBookingOperationsTotal(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewWithRegistry(reg)

	m.BookingOperationsTotal.WithLabelValues("book", OutcomeConfirmed).Inc()
	m.BookingOperationsTotal.WithLabelValues("book", OutcomeConfirmed).Inc()
	m.BookingOperationsTotal.WithLabelValues("book", OutcomeWaitlisted).Inc()
	m.BookingOperationsTotal.WithLabelValues("cancel", OutcomeNotFound).Inc()

	assert.Equal(t, 3, testutil.CollectAndCount(m.BookingOperationsTotal))
	assert.Equal(t, float64(2), testutil.ToFloat64(m.BookingOperationsTotal.WithLabelValues("book", OutcomeConfirmed)))
}

func TestLockDurations(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewWithRegistry(reg)

	m.LockWaitDuration.WithLabelValues("write").Observe(0.002)
	m.LockWaitDuration.WithLabelValues("read").Observe(0.0001)
	m.DistributedLockDuration.WithLabelValues("acquire", "success").Observe(0.015)
	m.DistributedLockDuration.WithLabelValues("acquire", "failed").Observe(0.005)
	m.DistributedLockDuration.WithLabelValues("release", "success").Observe(0.002)

	assert.Equal(t, 2, testutil.CollectAndCount(m.LockWaitDuration))
	assert.Equal(t, 3, testutil.CollectAndCount(m.DistributedLockDuration))
}

func TestGauges(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewWithRegistry(reg)

	m.BookingsByStatus.WithLabelValues("CONFIRMED").Set(3)
	m.BookingsByStatus.WithLabelValues("WAITLISTED").Set(1)
	m.SeatsAvailable.Set(12)
	m.PromotionsTotal.Add(2)

	assert.Equal(t, float64(3), testutil.ToFloat64(m.BookingsByStatus.WithLabelValues("CONFIRMED")))
	assert.Equal(t, float64(12), testutil.ToFloat64(m.SeatsAvailable))
	assert.Equal(t, float64(2), testutil.ToFloat64(m.PromotionsTotal))
}

func TestMetricNames(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewWithRegistry(reg)

	// ラベル付きメトリクスは値がないと Gather に現れないので1件ずつ入れる
	m.HTTPRequestsTotal.WithLabelValues("GET", "/health", "200").Inc()
	m.HTTPRequestDuration.WithLabelValues("GET", "/health").Observe(0.01)
	m.BookingOperationsTotal.WithLabelValues("promote", OutcomeSuccess).Inc()
	m.LockWaitDuration.WithLabelValues("write").Observe(0.001)
	m.DistributedLockDuration.WithLabelValues("acquire", "success").Observe(0.001)
	m.BookingsByStatus.WithLabelValues("CANCELLED").Set(0)
	m.NotificationsTotal.WithLabelValues("log", OutcomeSuccess).Inc()

	families, err := reg.Gather()
	require.NoError(t, err)

	names := make(map[string]bool)
	for _, f := range families {
		names[f.GetName()] = true
	}
	for _, want := range []string{
		"http_requests_total",
		"http_request_duration_seconds",
		"booking_operations_total",
		"booking_lock_wait_seconds",
		"distributed_lock_duration_seconds",
		"bookings_by_status",
		"seats_available",
		"waitlist_promotions_total",
		"booking_notifications_total",
	} {
		assert.True(t, names[want], "%s metric not found", want)
	}
}
