// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package metrics provides meters bound to a process wide backend. The backend is a noop
// until InitializePrometheusMetrics is called.
package metrics

import (
	"net/http"
	"sync"
)

// backend is the active implementation. Meters created before the switch to prometheus
// stay noop, so packages hold them through the LazyLoad* getters.
var backend = newNoopBackend()

// Backend creates meters by name. Asking twice for the same name yields the same meter.
type Backend interface {
	Counter(name string) CountMeter
	CounterVec(name string, labels []string) CountVecMeter
	Gauge(name string) GaugeMeter
	Histogram(name string, buckets []int64) HistogramMeter
	Handler() http.Handler
}

// CountMeter only goes up.
type CountMeter interface {
	Add(int64)
}

// CountVecMeter is a CountMeter partitioned by labels.
type CountVecMeter interface {
	AddWithLabel(int64, map[string]string)
}

// GaugeMeter is a value that goes up and down.
type GaugeMeter interface {
	Add(int64)
	Set(int64)
}

// HistogramMeter samples observations into buckets.
type HistogramMeter interface {
	Observe(int64)
}

// Bucket10s is a histogram bucket layout for durations in milliseconds.
var Bucket10s = []int64{0, 5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000, 10_000}

// HTTPHandler serves the metrics of the backend, nil for the noop backend.
func HTTPHandler() http.Handler { return backend.Handler() }

func Counter(name string) CountMeter { return backend.Counter(name) }
func Gauge(name string) GaugeMeter   { return backend.Gauge(name) }

func CounterVec(name string, labels []string) CountVecMeter {
	return backend.CounterVec(name, labels)
}

func Histogram(name string, buckets []int64) HistogramMeter {
	return backend.Histogram(name, buckets)
}

// LazyLoad defers f to the first call of the returned getter. Meters declared as
// package variables bind to whatever backend is active at first use.
func LazyLoad[T any](f func() T) func() T {
	return sync.OnceValue(f)
}

func LazyLoadCounter(name string) func() CountMeter {
	return LazyLoad(func() CountMeter { return Counter(name) })
}

func LazyLoadCounterVec(name string, labels []string) func() CountVecMeter {
	return LazyLoad(func() CountVecMeter { return CounterVec(name, labels) })
}

func LazyLoadGauge(name string) func() GaugeMeter {
	return LazyLoad(func() GaugeMeter { return Gauge(name) })
}

func LazyLoadHistogram(name string, buckets []int64) func() HistogramMeter {
	return LazyLoad(func() HistogramMeter { return Histogram(name, buckets) })
}
