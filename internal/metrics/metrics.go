package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	UpdatesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "hexfield_updates_total",
		Help: "Total number of applied viewport updates",
	})
	UpdatesSkippedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "hexfield_updates_skipped_total",
		Help: "Viewport updates skipped, by reason",
	}, []string{"reason"})
	UpdateDurationMs = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "hexfield_update_duration_ms",
		Help:    "Duration of one resolve-and-diff update in milliseconds",
		Buckets: []float64{1, 5, 10, 20, 50, 100, 200, 500, 1000},
	})
	SubmitsCoalescedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "hexfield_submits_coalesced_total",
		Help: "Viewport submissions dropped in favor of a newer one",
	})
	ResolveRetriesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "hexfield_resolve_retries_total",
		Help: "Ladder steps skipped because of index errors or over-budget results",
	})
	ResolveFloorTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "hexfield_resolve_floor_total",
		Help: "Resolves that fell back to the base-cell floor",
	})
	ResolvedCells = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "hexfield_resolved_cells",
		Help:    "Cell count of resolved visible sets",
		Buckets: []float64{100, 500, 1000, 5000, 10000, 20000, 30000, 40000, 50000},
	})
	DeltaAddedCells = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "hexfield_delta_added_cells",
		Help:    "Cells added per applied delta",
		Buckets: []float64{0, 10, 100, 500, 1000, 5000, 10000, 50000},
	})
	DeltaRemovedCells = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "hexfield_delta_removed_cells",
		Help:    "Cells removed per applied delta",
		Buckets: []float64{0, 10, 100, 500, 1000, 5000, 10000, 50000},
	})
	StatusEntries = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "hexfield_status_entries",
		Help: "Entries currently held by the shared status store",
	})
	StatusEvictionsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "hexfield_status_evictions_total",
		Help: "Status entries removed by the idle eviction sweep",
	})
	FeedUpdatesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "hexfield_feed_updates_total",
		Help: "Bulk status payloads received from the sync feed",
	})
	FeedCellsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "hexfield_feed_cells_total",
		Help: "Individual cell statuses applied from the sync feed",
	})
	ConnectionsActive = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "hexfield_connections_active",
		Help: "Currently connected overlay clients",
	})
)

func init() {
	prometheus.MustRegister(UpdatesTotal)
	prometheus.MustRegister(UpdatesSkippedTotal)
	prometheus.MustRegister(UpdateDurationMs)
	prometheus.MustRegister(SubmitsCoalescedTotal)
	prometheus.MustRegister(ResolveRetriesTotal)
	prometheus.MustRegister(ResolveFloorTotal)
	prometheus.MustRegister(ResolvedCells)
	prometheus.MustRegister(DeltaAddedCells)
	prometheus.MustRegister(DeltaRemovedCells)
	prometheus.MustRegister(StatusEntries)
	prometheus.MustRegister(StatusEvictionsTotal)
	prometheus.MustRegister(FeedUpdatesTotal)
	prometheus.MustRegister(FeedCellsTotal)
	prometheus.MustRegister(ConnectionsActive)
}

// Handler exposes the registered metrics for scraping; the gateway mounts
// it on /metrics.
func Handler() http.Handler { return promhttp.Handler() }
