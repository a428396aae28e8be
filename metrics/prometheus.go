// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vechain/statecore/log"
)

const namespace = "statecore"

var logger = log.WithContext("pkg", "metrics")

// InitializePrometheusMetrics switches the backend to prometheus. Calling it again keeps
// the meters already registered.
func InitializePrometheusMetrics() {
	if _, ok := backend.(*promBackend); !ok {
		backend = &promBackend{}
	}
}

type promBackend struct {
	meters sync.Map // name => meter
}

// register returns the meter named name, creating and registering it with newFn on first
// use.
func register[T any](b *promBackend, name string, newFn func() (prometheus.Collector, T)) T {
	if m, ok := b.meters.Load(name); ok {
		return m.(T)
	}
	collector, meter := newFn()
	if actual, loaded := b.meters.LoadOrStore(name, meter); loaded {
		return actual.(T)
	}
	if err := prometheus.Register(collector); err != nil {
		logger.Warn("failed to register meter", "name", name, "err", err)
	}
	return meter
}

func (b *promBackend) Counter(name string) CountMeter {
	return register(b, name, func() (prometheus.Collector, CountMeter) {
		c := prometheus.NewCounter(prometheus.CounterOpts{Namespace: namespace, Name: name})
		return c, promCounter{c}
	})
}

func (b *promBackend) CounterVec(name string, labels []string) CountVecMeter {
	return register(b, name, func() (prometheus.Collector, CountVecMeter) {
		c := prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: namespace, Name: name}, labels)
		return c, promCounterVec{c}
	})
}

func (b *promBackend) Gauge(name string) GaugeMeter {
	return register(b, name, func() (prometheus.Collector, GaugeMeter) {
		g := prometheus.NewGauge(prometheus.GaugeOpts{Namespace: namespace, Name: name})
		return g, promGauge{g}
	})
}

func (b *promBackend) Histogram(name string, buckets []int64) HistogramMeter {
	return register(b, name, func() (prometheus.Collector, HistogramMeter) {
		bounds := make([]float64, len(buckets))
		for i, v := range buckets {
			bounds[i] = float64(v)
		}
		h := prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: namespace, Name: name, Buckets: bounds})
		return h, promHistogram{h}
	})
}

func (b *promBackend) Handler() http.Handler {
	return promhttp.Handler()
}

type promCounter struct{ c prometheus.Counter }

func (m promCounter) Add(i int64) { m.c.Add(float64(i)) }

type promCounterVec struct{ c *prometheus.CounterVec }

func (m promCounterVec) AddWithLabel(i int64, labels map[string]string) {
	m.c.With(labels).Add(float64(i))
}

type promGauge struct{ g prometheus.Gauge }

func (m promGauge) Add(i int64) { m.g.Add(float64(i)) }
func (m promGauge) Set(i int64) { m.g.Set(float64(i)) }

type promHistogram struct{ h prometheus.Histogram }

func (m promHistogram) Observe(i int64) { m.h.Observe(float64(i)) }
