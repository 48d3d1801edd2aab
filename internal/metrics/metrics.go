// Package metrics はPrometheusメトリクスの収集と公開を提供する。
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsCollector はメトリクス収集のインターフェース。
// サービス層から利用する。
type MetricsCollector interface {
	RecordSubmissionAccepted(rank int)
	RecordSubmissionRejected(reason string)
	RecordCheckerFailure()
	RecordCheckerLatency(duration time.Duration)
	RecordClaimConflict()
}

// Collector はPrometheusメトリクスを収集する実装。
type Collector struct {
	submissionAccepted prometheus.Counter
	submissionRejected *prometheus.CounterVec
	checkerFail        prometheus.Counter
	checkerLatency     prometheus.Histogram
	claimConflict      prometheus.Counter
}

// NewCollector は新しいCollectorを生成し、指定されたレジストリにメトリクスを登録する。
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		submissionAccepted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "leetboard_submission_accepted_total",
			Help: "解答が受理された提出の合計数",
		}),
		submissionRejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "leetboard_submission_rejected_total",
			Help: "理由別の受理されなかった提出の合計数",
		}, []string{"reason"}),
		checkerFail: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "leetboard_checker_fail_total",
			Help: "LeetCode API照会失敗の合計数",
		}),
		checkerLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "leetboard_checker_latency_seconds",
			Help:    "LeetCode API照会のレイテンシ（秒）",
			Buckets: prometheus.DefBuckets,
		}),
		claimConflict: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "leetboard_claim_conflict_total",
			Help: "ランク確定トランザクションの競合リトライの合計数",
		}),
	}

	reg.MustRegister(
		c.submissionAccepted,
		c.submissionRejected,
		c.checkerFail,
		c.checkerLatency,
		c.claimConflict,
	)

	return c
}

// RecordSubmissionAccepted は解答受理を記録する。
func (c *Collector) RecordSubmissionAccepted(rank int) {
	c.submissionAccepted.Inc()
}

// RecordSubmissionRejected は受理されなかった提出を理由付きで記録する。
func (c *Collector) RecordSubmissionRejected(reason string) {
	c.submissionRejected.WithLabelValues(reason).Inc()
}

// RecordCheckerFailure はLeetCode API照会失敗を記録する。
func (c *Collector) RecordCheckerFailure() {
	c.checkerFail.Inc()
}

// RecordCheckerLatency はLeetCode API照会のレイテンシを記録する。
func (c *Collector) RecordCheckerLatency(duration time.Duration) {
	c.checkerLatency.Observe(duration.Seconds())
}

// RecordClaimConflict はランク確定トランザクションの競合リトライを記録する。
func (c *Collector) RecordClaimConflict() {
	c.claimConflict.Inc()
}

// Handler はPrometheusスクレイプ用のHTTPハンドラーを返す。
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
