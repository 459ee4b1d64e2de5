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
// 同期パイプラインとワーカープールから利用する。
type MetricsCollector interface {
	RecordListingsFetched(count int)
	RecordImageFetchFailure()
	RecordProductsWritten(count int)
	RecordSyncDuration(duration time.Duration)
	RecordSyncRun(status string)
	RecordHTTPStatus(statusCode int)
}

// Collector はPrometheusメトリクスを収集する実装。
type Collector struct {
	listingsFetched    prometheus.Counter
	imageFetchFailures prometheus.Counter
	productsWritten    prometheus.Counter
	syncDuration       prometheus.Histogram
	syncRuns           *prometheus.CounterVec
	upstreamStatus     *prometheus.CounterVec
}

// NewCollector はCollectorを生成し、すべてのメトリクスをレジストリに登録する。
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		listingsFetched: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "bridgesync_listings_fetched_total",
			Help: "Total number of active listings fetched from the marketplace API.",
		}),
		imageFetchFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "bridgesync_image_fetch_failures_total",
			Help: "Total number of per-listing image fetches that degraded to an empty image list.",
		}),
		productsWritten: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "bridgesync_products_written_total",
			Help: "Total number of normalized products written to the feed.",
		}),
		syncDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "bridgesync_sync_duration_seconds",
			Help:    "Duration of a full catalog sync run.",
			Buckets: prometheus.ExponentialBuckets(0.5, 2, 10),
		}),
		syncRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "bridgesync_sync_runs_total",
			Help: "Total number of sync runs by final status.",
		}, []string{"status"}),
		upstreamStatus: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "bridgesync_upstream_http_status_total",
			Help: "HTTP status codes returned by the marketplace API.",
		}, []string{"code"}),
	}

	reg.MustRegister(
		c.listingsFetched,
		c.imageFetchFailures,
		c.productsWritten,
		c.syncDuration,
		c.syncRuns,
		c.upstreamStatus,
	)

	return c
}

// RecordListingsFetched は取得した出品数を記録する。
func (c *Collector) RecordListingsFetched(count int) {
	c.listingsFetched.Add(float64(count))
}

// RecordImageFetchFailure は画像取得のデグレードを記録する。
func (c *Collector) RecordImageFetchFailure() {
	c.imageFetchFailures.Inc()
}

// RecordProductsWritten はフィードに書き込んだ商品数を記録する。
func (c *Collector) RecordProductsWritten(count int) {
	c.productsWritten.Add(float64(count))
}

// RecordSyncDuration は同期実行の所要時間を記録する。
func (c *Collector) RecordSyncDuration(duration time.Duration) {
	c.syncDuration.Observe(duration.Seconds())
}

// RecordSyncRun は同期実行の最終状態を記録する。
func (c *Collector) RecordSyncRun(status string) {
	c.syncRuns.WithLabelValues(status).Inc()
}

// RecordHTTPStatus は上流APIのHTTPステータスコードを記録する。
func (c *Collector) RecordHTTPStatus(statusCode int) {
	c.upstreamStatus.WithLabelValues(strconv.Itoa(statusCode)).Inc()
}

// Handler はPrometheusスクレイプ用のHTTPハンドラーを返す。
// serveモードのルーターが/metricsにマウントする。
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
