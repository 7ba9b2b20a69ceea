// Copyright (c) 2017-2019 The Qitmeer developers
//
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// The parts code inspired & originated from
// https://github.com/ethereum/go-ethereum/metrics

// Package metrics provides general system and process level metrics collection.
package metrics

import (
	"context"
	"net/http"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/mestorlx/witnet-rust/log"
	"github.com/rcrowley/go-metrics"
	"github.com/rcrowley/go-metrics/exp"
)

// MetricsEnabledFlag is the CLI flag name to use to enable metrics collections.
const MetricsEnabledFlag = "metrics"

var enabled int32

// Enable turns on metrics collection.  Collectors created before the call
// stay NOP stubs, so it must run before the services are built.
func Enable() {
	if atomic.CompareAndSwapInt32(&enabled, 0, 1) {
		log.Info("Enabling metrics collection")
	}
}

// Enabled reports whether metrics collection is on.
func Enabled() bool {
	return atomic.LoadInt32(&enabled) == 1
}

// NewCounter create a new metrics Counter, either a real one of a NOP stub depending
// on the metrics flag.
func NewCounter(name string) metrics.Counter {
	if !Enabled() {
		return new(metrics.NilCounter)
	}
	return metrics.GetOrRegisterCounter(name, metrics.DefaultRegistry)
}

// NewGauge create a new metrics Gauge, either a real one of a NOP stub depending
// on the metrics flag.
func NewGauge(name string) metrics.Gauge {
	if !Enabled() {
		return new(metrics.NilGauge)
	}
	return metrics.GetOrRegisterGauge(name, metrics.DefaultRegistry)
}

// NewMeter create a new metrics Meter, either a real one of a NOP stub depending
// on the metrics flag.
func NewMeter(name string) metrics.Meter {
	if !Enabled() {
		return new(metrics.NilMeter)
	}
	return metrics.GetOrRegisterMeter(name, metrics.DefaultRegistry)
}

// NewTimer create a new metrics Timer, either a real one of a NOP stub depending
// on the metrics flag.
func NewTimer(name string) metrics.Timer {
	if !Enabled() {
		return new(metrics.NilTimer)
	}
	return metrics.GetOrRegisterTimer(name, metrics.DefaultRegistry)
}

// CollectProcessMetrics periodically collects various metrics about the running
// process until ctx is done.
func CollectProcessMetrics(ctx context.Context, refresh time.Duration) {
	// Short circuit if the metrics system is disabled
	if !Enabled() {
		return
	}
	// Create the various data collectors
	memstats := make([]*runtime.MemStats, 2)
	for i := 0; i < len(memstats); i++ {
		memstats[i] = new(runtime.MemStats)
	}
	// Define the various metrics to collect
	memAllocs := metrics.GetOrRegisterMeter("system/memory/allocs", metrics.DefaultRegistry)
	memFrees := metrics.GetOrRegisterMeter("system/memory/frees", metrics.DefaultRegistry)
	memInuse := metrics.GetOrRegisterMeter("system/memory/inuse", metrics.DefaultRegistry)
	memPauses := metrics.GetOrRegisterMeter("system/memory/pauses", metrics.DefaultRegistry)
	goroutines := metrics.GetOrRegisterGauge("system/goroutines", metrics.DefaultRegistry)

	ticker := time.NewTicker(refresh)
	defer ticker.Stop()

	// Iterate loading the different stats and updating the meters
	for i := 1; ; i++ {
		runtime.ReadMemStats(memstats[i%2])
		memAllocs.Mark(int64(memstats[i%2].Mallocs - memstats[(i-1)%2].Mallocs))
		memFrees.Mark(int64(memstats[i%2].Frees - memstats[(i-1)%2].Frees))
		memInuse.Mark(int64(memstats[i%2].Alloc - memstats[(i-1)%2].Alloc))
		memPauses.Mark(int64(memstats[i%2].PauseTotalNs - memstats[(i-1)%2].PauseTotalNs))
		goroutines.Update(int64(runtime.NumGoroutine()))

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// NewServer returns an http server publishing the default registry as
// expvar json under /debug/metrics.
func NewServer(listen string) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/debug/metrics", exp.ExpHandler(metrics.DefaultRegistry))
	return &http.Server{Addr: listen, Handler: mux}
}

func NewRegisteredMeter(name string, r metrics.Registry) metrics.Meter {
	return metrics.NewRegisteredMeter(name, r)
}

func NewRegisteredCounter(name string, r metrics.Registry) metrics.Counter {
	return metrics.NewRegisteredCounter(name, r)
}
