// Package metrics exports the flow table's counters as Prometheus
// gauges, alongside (not instead of) the in-memory counter store
// flowtable.Table itself keeps.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/netrack/ofswitch/controlplane"
	"github.com/netrack/ofswitch/ofp"
)

// Registry samples a control-plane surface's counter snapshots into
// Prometheus gauges on demand.
type Registry struct {
	Surface *controlplane.Surface

	tableLookups *prometheus.GaugeVec
	tableMatches *prometheus.GaugeVec
	entryPackets *prometheus.GaugeVec
	entryBytes   *prometheus.GaugeVec
}

// NewRegistry creates a Registry fronting surface and registers its
// collectors with reg.
func NewRegistry(surface *controlplane.Surface, reg prometheus.Registerer) *Registry {
	r := &Registry{
		Surface: surface,
		tableLookups: promauto.With(reg).NewGaugeVec(prometheus.GaugeOpts{
			Name: "ofswitch_table_lookups_total",
			Help: "Number of times a flow table was probed.",
		}, []string{"table"}),
		tableMatches: promauto.With(reg).NewGaugeVec(prometheus.GaugeOpts{
			Name: "ofswitch_table_matches_total",
			Help: "Number of probes that found a matching entry.",
		}, []string{"table"}),
		entryPackets: promauto.With(reg).NewGaugeVec(prometheus.GaugeOpts{
			Name: "ofswitch_flow_packets_total",
			Help: "Packets matched by a flow entry.",
		}, []string{"table", "priority", "cookie"}),
		entryBytes: promauto.With(reg).NewGaugeVec(prometheus.GaugeOpts{
			Name: "ofswitch_flow_bytes_total",
			Help: "Bytes matched by a flow entry.",
		}, []string{"table", "priority", "cookie"}),
	}
	return r
}

// Sample refreshes every gauge from the current counter snapshots of
// the given tables.
func (r *Registry) Sample(ids []ofp.Table) {
	for _, ts := range r.Surface.TableStatsAll(ids) {
		label := ts.Table.String()
		r.tableLookups.WithLabelValues(label).Set(float64(ts.Lookups))
		r.tableMatches.WithLabelValues(label).Set(float64(ts.Matches))
	}

	for _, id := range ids {
		label := id.String()
		for _, fs := range r.Surface.FlowStatsForTable(id) {
			priority := prioLabel(fs.Priority)
			cookie := cookieLabel(fs.Cookie)
			r.entryPackets.WithLabelValues(label, priority, cookie).Set(float64(fs.Packets))
			r.entryBytes.WithLabelValues(label, priority, cookie).Set(float64(fs.Bytes))
		}
	}
}

// Handler returns an http.Handler serving the process-wide default
// Prometheus registry in the exposition format. Collectors registered
// with another Registerer through NewRegistry are not served by it.
func Handler() http.Handler {
	return promhttp.Handler()
}
