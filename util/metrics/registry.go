// Copyright (C) 2025 The go-poolvote Authors
// This file is part of go-poolvote
//
// go-poolvote is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.
//
// go-poolvote is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with go-poolvote.  If not, see <https://www.gnu.org/licenses/>.

package metrics

import (
	"regexp"
	"sort"
	"strings"

	"github.com/algorand/go-deadlock"
)

// MetricName describes the name and description of a single metric
type MetricName struct {
	// Name is the name of the metric
	Name string
	// Description is a human readable description of the metric
	Description string
}

// Metric represent any collectable metric
type Metric interface {
	// WriteMetric adds metrics in Prometheus exposition format to buf, including parentLabels tags if provided.
	WriteMetric(buf *strings.Builder, parentLabels string)
	// AddMetric adds metrics to a map, keyed by metric name.
	AddMetric(values map[string]float64)
}

// Registry represents a single set of metrics registry
type Registry struct {
	metrics   []Metric
	metricsMu deadlock.Mutex
}

var defaultRegistry = MakeRegistry()

// DefaultRegistry returns the default registry
func DefaultRegistry() *Registry {
	return defaultRegistry
}

// MakeRegistry creates a new metrics registry
func MakeRegistry() *Registry {
	return &Registry{
		metrics: make([]Metric, 0),
	}
}

// Register add the given metric to the registry
func (r *Registry) Register(metric Metric) {
	r.metricsMu.Lock()
	defer r.metricsMu.Unlock()
	r.metrics = append(r.metrics, metric)
}

// Deregister removes the given metric from the registry
func (r *Registry) Deregister(metric Metric) {
	r.metricsMu.Lock()
	defer r.metricsMu.Unlock()
	for i, m := range r.metrics {
		if m == metric {
			r.metrics = append(r.metrics[:i], r.metrics[i+1:]...)
			return
		}
	}
}

// WriteMetrics writes all the metrics that were registered in the registry
// in Prometheus exposition format, ordered by metric.
func (r *Registry) WriteMetrics(buf *strings.Builder, parentLabels string) {
	r.metricsMu.Lock()
	defer r.metricsMu.Unlock()
	parts := make([]string, 0, len(r.metrics))
	for _, m := range r.metrics {
		var part strings.Builder
		m.WriteMetric(&part, parentLabels)
		parts = append(parts, part.String())
	}
	sort.Strings(parts)
	for _, p := range parts {
		buf.WriteString(p)
	}
}

// AddMetrics will add all the metrics that were registered in the registry to the values map
func (r *Registry) AddMetrics(values map[string]float64) {
	r.metricsMu.Lock()
	defer r.metricsMu.Unlock()
	for _, m := range r.metrics {
		m.AddMetric(values)
	}
}

var sanitizeCharactersRegexp = regexp.MustCompile("(^[^a-zA-Z_]|[^a-zA-Z0-9_])")

// sanitizePrometheusName ensures a metric name doesn't contain any non-alphanumeric
// characters (apart from _) and doesn't start with a number.
func sanitizePrometheusName(name string) string {
	return sanitizeCharactersRegexp.ReplaceAllString(name, "_")
}
