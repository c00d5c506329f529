// Copyright 2025 KrakLabs
//
// SPDX-License-Identifier: AGPL-3.0-or-later

package index

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// metricsIndex holds Prometheus metrics for the indexing pipeline, mirroring
// the teacher's sync.Once-guarded registration pattern so repeated Indexer
// construction within a process never double-registers collectors.
type metricsIndex struct {
	once sync.Once

	filesScanned  prometheus.Counter
	filesParsed   prometheus.Counter
	parseErrors   prometheus.Counter
	runsCompleted prometheus.Counter

	scanDuration    prometheus.Histogram
	parseDuration   prometheus.Histogram
	analyzeDuration prometheus.Histogram
	buildDuration   prometheus.Histogram
	totalDuration   prometheus.Histogram
}

var idxMetrics metricsIndex

func (m *metricsIndex) init() {
	m.once.Do(func() {
		m.filesScanned = prometheus.NewCounter(prometheus.CounterOpts{Name: "ipuaro_index_files_scanned_total", Help: "Files discovered by the scan phase"})
		m.filesParsed = prometheus.NewCounter(prometheus.CounterOpts{Name: "ipuaro_index_files_parsed_total", Help: "Files read and stored by the parse phase"})
		m.parseErrors = prometheus.NewCounter(prometheus.CounterOpts{Name: "ipuaro_index_parse_errors_total", Help: "Files that failed to read or had syntax errors"})
		m.runsCompleted = prometheus.NewCounter(prometheus.CounterOpts{Name: "ipuaro_index_runs_completed_total", Help: "Indexing runs completed"})

		buckets := []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10}
		m.scanDuration = prometheus.NewHistogram(prometheus.HistogramOpts{Name: "ipuaro_index_scan_seconds", Help: "Scan phase duration", Buckets: buckets})
		m.parseDuration = prometheus.NewHistogram(prometheus.HistogramOpts{Name: "ipuaro_index_parse_seconds", Help: "Parse phase duration", Buckets: buckets})
		m.analyzeDuration = prometheus.NewHistogram(prometheus.HistogramOpts{Name: "ipuaro_index_analyze_seconds", Help: "Analyze phase duration", Buckets: buckets})
		m.buildDuration = prometheus.NewHistogram(prometheus.HistogramOpts{Name: "ipuaro_index_build_seconds", Help: "Build phase duration", Buckets: buckets})
		m.totalDuration = prometheus.NewHistogram(prometheus.HistogramOpts{Name: "ipuaro_index_total_seconds", Help: "Total indexing run duration", Buckets: buckets})

		prometheus.MustRegister(
			m.filesScanned, m.filesParsed, m.parseErrors, m.runsCompleted,
			m.scanDuration, m.parseDuration, m.analyzeDuration, m.buildDuration, m.totalDuration,
		)
	})
}
