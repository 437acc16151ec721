// Package metrics defines the custom Prometheus metrics of the cats API.
//
// Call Register once per registry before serving /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "cats_api"

// ── Auth metrics ──────────────────────────────────────────────────────────────

// LoginAttemptsTotal counts login attempts.
// Label:
//   - result: "success", "invalid_credentials" or "error"
var LoginAttemptsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "login_attempts_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// UsersRegisteredTotal counts successful registrations.
var UsersRegisteredTotal = prometheus.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "users_registered_total",
		Help:      "Total number of user accounts registered.",
	},
)

// ── Cat metrics ───────────────────────────────────────────────────────────────

// CatMutationsTotal counts cat writes.
// Labels:
//   - operation: "create", "update" or "delete"
//   - result: "ok", "forbidden", "invalid", "not_found" or "error"
var CatMutationsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cat_mutations_total",
		Help:      "Total number of cat create/update/delete requests, by result.",
	},
	[]string{"operation", "result"},
)

// BoundingBoxResults observes how many cats a bounding-box query returned.
var BoundingBoxResults = prometheus.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "bbox_query_results",
		Help:      "Number of cats returned per bounding-box query.",
		Buckets:   []float64{0, 1, 5, 10, 25, 50, 100, 250, 1000},
	},
)

// Register adds every custom metric to reg.
func Register(reg prometheus.Registerer) error {
	for _, c := range []prometheus.Collector{
		LoginAttemptsTotal,
		UsersRegisteredTotal,
		CatMutationsTotal,
		BoundingBoxResults,
	} {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}
