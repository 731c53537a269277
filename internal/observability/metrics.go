package observability

import (
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce             sync.Once
	httpDurationHistogram    *prometheus.HistogramVec
	flowCounter              *prometheus.CounterVec
	moderationCounter        *prometheus.CounterVec
	snapshotRecomputeCounter prometheus.Counter
	feedEventCounter         *prometheus.CounterVec
	feedSubscriberGauge      prometheus.Gauge
	balanceImbalanceCounter  prometheus.Counter
	idempotencyCounter       *prometheus.CounterVec
	workerRunCounter         *prometheus.CounterVec
)

// Init registers all Prometheus collectors.
func Init() {
	registerOnce.Do(func() {
		httpDurationHistogram = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path", "status"})

		flowCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "transaction_flow_total",
			Help: "Deposit/withdrawal/investment flow outcomes",
		}, []string{"flow", "outcome"})

		moderationCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "moderation_transitions_total",
			Help: "Admin ledger status transitions",
		}, []string{"record", "status"})

		snapshotRecomputeCounter = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "snapshot_recompute_total",
			Help: "Number of snapshot aggregator recomputations",
		})

		feedEventCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "feed_events_total",
			Help: "Change-feed events dispatched by table and operation",
		}, []string{"table", "op"})

		feedSubscriberGauge = prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "feed_subscribers",
			Help: "Currently open change-feed subscriptions",
		})

		balanceImbalanceCounter = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "balance_imbalance_total",
			Help: "Number of times the balance invariant sweep found a violation",
		})

		idempotencyCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "idempotency_events_total",
			Help: "Idempotency middleware outcomes",
		}, []string{"outcome"})

		workerRunCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "worker_runs_total",
			Help: "Background worker run outcomes",
		}, []string{"worker", "result"})

		prometheus.MustRegister(
			httpDurationHistogram,
			flowCounter,
			moderationCounter,
			snapshotRecomputeCounter,
			feedEventCounter,
			feedSubscriberGauge,
			balanceImbalanceCounter,
			idempotencyCounter,
			workerRunCounter,
		)
	})
}

func ObserveHTTP(method, path string, status int, duration time.Duration) {
	if httpDurationHistogram == nil {
		return
	}
	httpDurationHistogram.WithLabelValues(method, path, strconv.Itoa(status)).Observe(duration.Seconds())
}

func IncrementFlow(flow, outcome string) {
	if flowCounter == nil {
		return
	}
	flowCounter.WithLabelValues(flow, outcome).Inc()
}

func IncrementModeration(record, status string) {
	if moderationCounter == nil {
		return
	}
	moderationCounter.WithLabelValues(record, status).Inc()
}

func IncrementSnapshotRecompute() {
	if snapshotRecomputeCounter == nil {
		return
	}
	snapshotRecomputeCounter.Inc()
}

func IncrementFeedEvent(table, op string) {
	if feedEventCounter == nil {
		return
	}
	feedEventCounter.WithLabelValues(table, op).Inc()
}

func AddFeedSubscribers(delta float64) {
	if feedSubscriberGauge == nil {
		return
	}
	feedSubscriberGauge.Add(delta)
}

func IncrementBalanceImbalance() {
	if balanceImbalanceCounter == nil {
		return
	}
	balanceImbalanceCounter.Inc()
}

func IncrementIdempotencyEvent(outcome string) {
	if idempotencyCounter == nil {
		return
	}
	idempotencyCounter.WithLabelValues(outcome).Inc()
}

func IncrementWorkerRun(worker, result string) {
	if workerRunCounter == nil {
		return
	}
	workerRunCounter.WithLabelValues(worker, result).Inc()
}
