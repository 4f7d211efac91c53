package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	SyncRuns       *prometheus.CounterVec
	EntriesSynced  prometheus.Counter
	NotesCreated   prometheus.Counter
	NotesDeleted   prometheus.Counter
	JournalUpserts prometheus.Counter
	RequestLatency *prometheus.HistogramVec
}

// New creates and registers all Prometheus metrics.
func New() *Metrics {
	return &Metrics{
		SyncRuns: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "toggl_annotator_sync_runs_total",
			Help: "Sync runs by kind (recent, full) and outcome (ok, error)",
		}, []string{"kind", "outcome"}),
		EntriesSynced: promauto.NewCounter(prometheus.CounterOpts{
			Name: "toggl_annotator_entries_synced_total",
			Help: "Time entry records upserted from the Toggl API",
		}),
		NotesCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "toggl_annotator_notes_created_total",
			Help: "Entry notes created through the API",
		}),
		NotesDeleted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "toggl_annotator_notes_deleted_total",
			Help: "Entry notes deleted through the API",
		}),
		JournalUpserts: promauto.NewCounter(prometheus.CounterOpts{
			Name: "toggl_annotator_journal_upserts_total",
			Help: "Daily note writes through the API",
		}),
		RequestLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "toggl_annotator_request_duration_seconds",
			Help:    "HTTP request latency by route and status",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "status"}),
	}
}

// The increment helpers are nil-safe so handler tests can pass a nil *Metrics.

func (m *Metrics) RecordSyncRun(kind string, err error) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.SyncRuns.WithLabelValues(kind, outcome).Inc()
}

func (m *Metrics) AddEntriesSynced(n int) {
	if m == nil {
		return
	}
	m.EntriesSynced.Add(float64(n))
}

func (m *Metrics) IncNotesCreated() {
	if m == nil {
		return
	}
	m.NotesCreated.Inc()
}

func (m *Metrics) IncNotesDeleted() {
	if m == nil {
		return
	}
	m.NotesDeleted.Inc()
}

func (m *Metrics) IncJournalUpserts() {
	if m == nil {
		return
	}
	m.JournalUpserts.Inc()
}

func (m *Metrics) ObserveRequest(route, status string, seconds float64) {
	if m == nil {
		return
	}
	m.RequestLatency.WithLabelValues(route, status).Observe(seconds)
}
