package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// 予約操作の結果ラベル
const (
	OutcomeConfirmed  = "confirmed"
	OutcomeWaitlisted = "waitlisted"
	OutcomeSuccess    = "success"
	OutcomeRejected   = "rejected"
	OutcomeNotFound   = "not_found"
	OutcomeError      = "error"
)

// Metrics はアプリケーションのメトリクスを管理する
type Metrics struct {
	// HTTPリクエストの総数（method, path, status_code）
	HTTPRequestsTotal *prometheus.CounterVec

	// HTTPリクエストのレイテンシ（method, path）
	HTTPRequestDuration *prometheus.HistogramVec

	// 予約操作の総数（operation: book/cancel/promote, outcome）
	BookingOperationsTotal *prometheus.CounterVec

	// 予約システムのロック待ち時間（mode: read/write）
	LockWaitDuration *prometheus.HistogramVec

	// 分散ロックの操作時間（operation: acquire/release, status: success/failed）
	DistributedLockDuration *prometheus.HistogramVec

	// 状態ごとの予約数（status: CONFIRMED, WAITLISTED, CANCELLED）
	BookingsByStatus *prometheus.GaugeVec

	// 空席数
	SeatsAvailable prometheus.Gauge

	// キャンセル待ちから確定に昇格した予約の総数
	PromotionsTotal prometheus.Counter

	// 予約通知の送信結果（publisher, outcome）
	NotificationsTotal *prometheus.CounterVec
}

// New は新しいMetricsインスタンスを作成し、デフォルトレジストリに登録する
func New() *Metrics {
	return NewWithRegistry(prometheus.DefaultRegisterer)
}

// NewWithRegistry は指定したレジストリにメトリクスを登録する
func NewWithRegistry(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status_code"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request latency in seconds",
				Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"method", "path"},
		),
		BookingOperationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "booking_operations_total",
				Help: "Total number of booking operations by outcome",
			},
			[]string{"operation", "outcome"},
		),
		LockWaitDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "booking_lock_wait_seconds",
				Help:    "Time spent waiting for the booking system lock",
				Buckets: []float64{.0001, .0005, .001, .005, .01, .05, .1, .5, 1},
			},
			[]string{"mode"},
		),
		DistributedLockDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "distributed_lock_duration_seconds",
				Help:    "Time spent on distributed lock operations",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
			},
			[]string{"operation", "status"},
		),
		BookingsByStatus: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "bookings_by_status",
				Help: "Current number of bookings per status",
			},
			[]string{"status"},
		),
		SeatsAvailable: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "seats_available",
				Help: "Current number of unassigned seats",
			},
		),
		PromotionsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "waitlist_promotions_total",
				Help: "Total number of waitlisted bookings promoted to confirmed",
			},
		),
		NotificationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "booking_notifications_total",
				Help: "Total number of booking notifications by outcome",
			},
			[]string{"publisher", "outcome"},
		),
	}

	reg.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.BookingOperationsTotal,
		m.LockWaitDuration,
		m.DistributedLockDuration,
		m.BookingsByStatus,
		m.SeatsAvailable,
		m.PromotionsTotal,
		m.NotificationsTotal,
	)

	return m
}

// デフォルトのメトリクスインスタンス
var defaultMetrics *Metrics

// Init はデフォルトのメトリクスインスタンスを初期化する
func Init() *Metrics {
	defaultMetrics = New()
	return defaultMetrics
}

// Get はデフォルトのメトリクスインスタンスを返す
func Get() *Metrics {
	return defaultMetrics
}
