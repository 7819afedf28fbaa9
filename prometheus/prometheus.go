// Tset
// Copyright (C) James Shubin and the project contributors
// Written by James Shubin <james@shubin.ca> and the project contributors
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

// Package prometheus provides functions that are useful to control and manage
// the metrics of the transitive set engine.
package prometheus

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/purpleidea/tset/util/errwrap"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	dto "github.com/prometheus/client_model/go"
)

// DefaultPrometheusListen is the default listen address of the metrics server.
const DefaultPrometheusListen = "127.0.0.1:9233"

// Prometheus is the struct that contains information about the prometheus
// instance. Run Init() on it. All the Update methods can be called on a nil
// pointer, in which case they do nothing.
type Prometheus struct {
	Listen string // the listen specification for the net/http server

	registry *prometheus.Registry
	server   *http.Server

	setsTotal               *prometheus.CounterVec // total of sets that were constructed
	frozenTotal             prometheus.Counter     // total of sets that were frozen
	resolveTotal            *prometheus.CounterVec // total of sub-input lookups
	processStartTimeSeconds prometheus.Gauge       // process start time in seconds since unix epoch
}

// Init creates the private registry and all the metrics.
func (obj *Prometheus) Init() error {
	if len(obj.Listen) == 0 {
		obj.Listen = DefaultPrometheusListen
	}
	obj.registry = prometheus.NewRegistry()

	obj.setsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tset_sets_total",
			Help: "Number of transitive sets that were constructed.",
		},
		// Labels for this metric.
		// definition: name of the definition the set was built against
		// errorful: did the construction fail
		[]string{"definition", "errorful"},
	)
	obj.frozenTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "tset_frozen_total",
			Help: "Number of transitive sets that were frozen.",
		},
	)
	obj.resolveTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tset_resolve_total",
			Help: "Number of projection sub-input lookups.",
		},
		// cache: hit or miss
		[]string{"cache"},
	)
	obj.processStartTimeSeconds = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "tset_process_start_time_seconds",
			Help: "Start time of the process since unix epoch in seconds.",
		},
	)

	for _, c := range []prometheus.Collector{obj.setsTotal, obj.frozenTotal, obj.resolveTotal, obj.processStartTimeSeconds} {
		if err := obj.registry.Register(c); err != nil {
			return errwrap.Wrapf(err, "could not register metric")
		}
	}
	// directly set the processStartTimeSeconds
	obj.processStartTimeSeconds.SetToCurrentTime()

	return nil
}

// Start runs a http server in a go routine, that responds to /metrics as
// prometheus would expect.
func (obj *Prometheus) Start() error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(obj.registry, promhttp.HandlerOpts{}))
	obj.server = &http.Server{
		Addr:              obj.Listen,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go obj.server.ListenAndServe() // returns ErrServerClosed on Stop
	return nil
}

// Stop the http server.
func (obj *Prometheus) Stop() error {
	if obj.server == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return obj.server.Shutdown(ctx)
}

// UpdateSetsTotal counts a constructed set.
func (obj *Prometheus) UpdateSetsTotal(definition string, errorful bool) error {
	if obj == nil {
		return nil
	}
	labels := prometheus.Labels{"definition": definition, "errorful": strconv.FormatBool(errorful)}
	metric, err := obj.setsTotal.GetMetricWith(labels)
	if err != nil {
		return err
	}
	metric.Inc()
	return nil
}

// UpdateFrozenTotal counts a batch of frozen sets.
func (obj *Prometheus) UpdateFrozenTotal(count int) error {
	if obj == nil {
		return nil
	}
	obj.frozenTotal.Add(float64(count))
	return nil
}

// UpdateResolveTotal counts a sub-input lookup.
func (obj *Prometheus) UpdateResolveTotal(hit bool) error {
	if obj == nil {
		return nil
	}
	cache := "miss"
	if hit {
		cache = "hit"
	}
	obj.resolveTotal.With(prometheus.Labels{"cache": cache}).Inc()
	return nil
}

// Gather returns the current state of all the metrics.
func (obj *Prometheus) Gather() ([]*dto.MetricFamily, error) {
	return obj.registry.Gather()
}

// Value returns the current value of the counter or gauge with this name whose
// labels include all of the given ones. Matching series are added up.
func (obj *Prometheus) Value(name string, labels map[string]string) (float64, error) {
	families, err := obj.Gather()
	if err != nil {
		return 0, err
	}
	for _, family := range families {
		if family.GetName() != name {
			continue
		}
		total := 0.0
		for _, m := range family.GetMetric() {
			if !matchLabels(m.GetLabel(), labels) {
				continue
			}
			switch family.GetType() {
			case dto.MetricType_COUNTER:
				total += m.GetCounter().GetValue()
			case dto.MetricType_GAUGE:
				total += m.GetGauge().GetValue()
			default:
				return 0, fmt.Errorf("metric %s has unsupported type %s", name, family.GetType())
			}
		}
		return total, nil
	}
	return 0, fmt.Errorf("metric %s not found", name)
}

func matchLabels(pairs []*dto.LabelPair, labels map[string]string) bool {
	found := 0
	for _, pair := range pairs {
		if v, exists := labels[pair.GetName()]; exists {
			if v != pair.GetValue() {
				return false
			}
			found++
		}
	}
	return found == len(labels)
}
