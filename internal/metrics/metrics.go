// Package metrics はPrometheusメトリクスの収集と公開を提供する。
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsCollector はメトリクス収集のインターフェース。
// ミドルウェアやサービス層、クリーンアップワーカーから利用する。
type MetricsCollector interface {
	RecordHTTPStatus(statusCode int)
	RecordServiceCall(operation string, duration time.Duration)
	RecordCheckout(outcome string)
	RecordInventoryUpdate(outcome string)
	RecordNotification(severity string)
	SetActiveWorkspaces(count int)
	RecordWorkspacesSwept(count int)
	RecordRateLimited(scope string)
}

// チェックアウト・在庫更新の結果ラベル
const (
	OutcomeSuccess  = "success"
	OutcomeFailure  = "failure"
	OutcomeRejected = "rejected"
)

// Collector はPrometheusメトリクスを収集する実装。
type Collector struct {
	httpStatus       *prometheus.CounterVec
	serviceLatency   *prometheus.HistogramVec
	checkouts        *prometheus.CounterVec
	inventoryUpdates *prometheus.CounterVec
	notifications    *prometheus.CounterVec
	activeWorkspaces prometheus.Gauge
	workspacesSwept  prometheus.Counter
	rateLimited      *prometheus.CounterVec
}

// NewCollector は新しいCollectorを生成し、指定されたレジストリにメトリクスを登録する。
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		httpStatus: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sustainabite_http_status_total",
			Help: "HTTPステータスコード別のレスポンス数",
		}, []string{"status_code"}),
		serviceLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "sustainabite_data_service_latency_seconds",
			Help:    "データサービス呼び出しのレイテンシ（秒）",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 0.75, 1, 2.5},
		}, []string{"operation"}),
		checkouts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sustainabite_checkout_total",
			Help: "結果別のチェックアウト数",
		}, []string{"outcome"}),
		inventoryUpdates: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sustainabite_inventory_update_total",
			Help: "結果別の在庫更新数",
		}, []string{"outcome"}),
		notifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sustainabite_notifications_total",
			Help: "種別ごとの通知発行数",
		}, []string{"severity"}),
		activeWorkspaces: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "sustainabite_active_workspaces",
			Help: "メモリ上に保持しているセッションワークスペース数",
		}),
		workspacesSwept: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "sustainabite_workspaces_swept_total",
			Help: "クリーンアップで破棄したワークスペースの合計数",
		}),
		rateLimited: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sustainabite_rate_limited_total",
			Help: "レート制限で拒否したリクエスト数",
		}, []string{"scope"}),
	}

	reg.MustRegister(
		c.httpStatus,
		c.serviceLatency,
		c.checkouts,
		c.inventoryUpdates,
		c.notifications,
		c.activeWorkspaces,
		c.workspacesSwept,
		c.rateLimited,
	)

	return c
}

// RecordHTTPStatus はHTTPステータスコードを記録する。
func (c *Collector) RecordHTTPStatus(statusCode int) {
	c.httpStatus.WithLabelValues(strconv.Itoa(statusCode)).Inc()
}

// RecordServiceCall はデータサービス操作のレイテンシを記録する。
func (c *Collector) RecordServiceCall(operation string, duration time.Duration) {
	c.serviceLatency.WithLabelValues(operation).Observe(duration.Seconds())
}

// RecordCheckout はチェックアウトの結果を記録する。
func (c *Collector) RecordCheckout(outcome string) {
	c.checkouts.WithLabelValues(outcome).Inc()
}

// RecordInventoryUpdate は在庫更新の結果を記録する。
func (c *Collector) RecordInventoryUpdate(outcome string) {
	c.inventoryUpdates.WithLabelValues(outcome).Inc()
}

// RecordNotification は通知の発行を記録する。
func (c *Collector) RecordNotification(severity string) {
	c.notifications.WithLabelValues(severity).Inc()
}

// SetActiveWorkspaces は保持中のワークスペース数を設定する。
func (c *Collector) SetActiveWorkspaces(count int) {
	c.activeWorkspaces.Set(float64(count))
}

// RecordWorkspacesSwept は破棄したワークスペース数を加算する。
func (c *Collector) RecordWorkspacesSwept(count int) {
	c.workspacesSwept.Add(float64(count))
}

// RecordRateLimited はレート制限による拒否をスコープ別に記録する。
func (c *Collector) RecordRateLimited(scope string) {
	c.rateLimited.WithLabelValues(scope).Inc()
}

// Handler はPrometheusスクレイプ用のHTTPハンドラーを返す。
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// compile-time interface check
var _ MetricsCollector = (*Collector)(nil)
