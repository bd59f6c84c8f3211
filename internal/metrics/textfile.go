package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "sfv"

// Registry returns a registry holding gauges describing one finished check
// of manifest.
func Registry(s *Stats, manifest string) *prometheus.Registry {
	snap := s.Snapshot()
	labels := prometheus.Labels{"manifest": manifest}

	files := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace:   namespace,
		Subsystem:   "check",
		Name:        "files",
		Help:        "Records checked, by outcome.",
		ConstLabels: labels,
	}, []string{"status"})
	files.WithLabelValues("ok").Set(float64(snap.OK))
	files.WithLabelValues("mismatch").Set(float64(snap.Mismatches))
	files.WithLabelValues("missing").Set(float64(snap.Missing))
	files.WithLabelValues("unreadable").Set(float64(snap.ReadErrors))

	gauge := func(name, help string, v float64) prometheus.Gauge {
		g := prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   namespace,
			Subsystem:   "check",
			Name:        name,
			Help:        help,
			ConstLabels: labels,
		})
		g.Set(v)
		return g
	}

	success := 0.0
	if snap.Processed == snap.Total && snap.Failed() == 0 {
		success = 1
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		files,
		gauge("records", "Records listed in the manifest.", float64(snap.Total)),
		gauge("bytes_hashed", "Bytes read while recomputing checksums.", float64(snap.BytesHashed)),
		gauge("duration_seconds", "Wall time of the check.", float64(snap.DurationMs)/1000.0),
		gauge("success", "1 if every record matched, 0 otherwise.", success),
	)
	if !s.Finished.IsZero() {
		reg.MustRegister(gauge("last_run_timestamp_seconds", "Unix time the check finished.",
			float64(s.Finished.UnixNano())/1e9))
	}
	return reg
}

// WriteTextfile writes the check gauges to path in the node-exporter
// textfile collector format.
func WriteTextfile(path string, s *Stats, manifest string) error {
	return prometheus.WriteToTextfile(path, Registry(s, manifest))
}
