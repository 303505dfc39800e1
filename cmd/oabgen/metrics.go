package main

import (
	"time"

	"github.com/forestrie/go-oab/snapshot"
	"github.com/prometheus/client_golang/prometheus"
)

// metrics describes the last run. oabgen is a batch job, so the metrics are
// written to a node exporter textfile rather than served.
type metrics struct {
	registry *prometheus.Registry

	accounts    prometheus.Gauge
	records     *prometheus.GaugeVec
	bytes       prometheus.Gauge
	duration    prometheus.Gauge
	lastSuccess prometheus.Gauge
}

func newMetrics() *metrics {
	m := &metrics{
		registry: prometheus.NewRegistry(),
		accounts: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "oabgen",
			Name:      "accounts",
			Help:      "Accounts in the last published generation.",
		}),
		records: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "oabgen",
			Name:      "index_records",
			Help:      "Records per index file in the last published generation.",
		}, []string{"index"}),
		bytes: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "oabgen",
			Name:      "published_bytes",
			Help:      "Stored size of the last published generation.",
		}),
		duration: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "oabgen",
			Name:      "run_duration_seconds",
			Help:      "Wall time of the last run.",
		}),
		lastSuccess: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "oabgen",
			Name:      "last_success_timestamp_seconds",
			Help:      "Unix time of the last successful publication.",
		}),
	}
	m.registry.MustRegister(m.accounts, m.records, m.bytes, m.duration, m.lastSuccess)
	return m
}

func (m *metrics) observe(commit snapshot.Commit, elapsed time.Duration) {
	m.accounts.Set(float64(commit.Manifest.Accounts))
	m.records.WithLabelValues("rdn").Set(float64(commit.Manifest.RDNRecords))
	m.records.WithLabelValues("anr").Set(float64(commit.Manifest.ANRRecords))
	m.bytes.Set(float64(commit.Bytes))
	m.duration.Set(elapsed.Seconds())
	m.lastSuccess.Set(float64(commit.Manifest.CreatedMS) / 1000)
}

func (m *metrics) writeTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.registry)
}
