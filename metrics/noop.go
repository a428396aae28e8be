// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package metrics

import "net/http"

type noopBackend struct{}

func newNoopBackend() Backend { return noopBackend{} }

func (noopBackend) Counter(string) CountMeter                 { return noop{} }
func (noopBackend) CounterVec(string, []string) CountVecMeter { return noop{} }
func (noopBackend) Gauge(string) GaugeMeter                   { return noop{} }
func (noopBackend) Histogram(string, []int64) HistogramMeter  { return noop{} }
func (noopBackend) Handler() http.Handler                     { return nil }

// noop implements every meter.
type noop struct{}

func (noop) Add(int64)                             {}
func (noop) AddWithLabel(int64, map[string]string) {}
func (noop) Set(int64)                             {}
func (noop) Observe(int64)                         {}
