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
	"github.com/prometheus/client_golang/prometheus"
)

// PrometheusCollector exposes a Registry through the prometheus client library so that
// embedders can register our metrics with their own prometheus.Registerer.
type PrometheusCollector struct {
	reg *Registry
}

// NewPrometheusCollector wraps reg (the default registry when nil).
func NewPrometheusCollector(reg *Registry) *PrometheusCollector {
	if reg == nil {
		reg = DefaultRegistry()
	}
	return &PrometheusCollector{reg: reg}
}

// Describe implements prometheus.Collector. Metric names are only known once tags have been
// observed, so the collector is unchecked and sends no descriptors.
func (pc *PrometheusCollector) Describe(chan<- *prometheus.Desc) {}

// Collect implements prometheus.Collector.
func (pc *PrometheusCollector) Collect(ch chan<- prometheus.Metric) {
	values := make(map[string]float64)
	pc.reg.AddMetrics(values)
	for name, value := range values {
		desc := prometheus.NewDesc(name, name, nil, nil)
		m, err := prometheus.NewConstMetric(desc, prometheus.UntypedValue, value)
		if err != nil {
			continue
		}
		ch <- m
	}
}
