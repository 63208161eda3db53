package main

import (
	"sync"

	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gologadapter"
)

// traceSelector hands out one Go-logger tracer per key, so that trace levels
// set for a key stick.
type traceSelector struct {
	mx      sync.Mutex
	tracers map[string]tracing.Trace
	adapter tracing.Adapter
}

func newTraceSelector(adapter tracing.Adapter) *traceSelector {
	return &traceSelector{
		tracers: make(map[string]tracing.Trace),
		adapter: adapter,
	}
}

// Select is part of interface tracing.TraceSelector.
func (sel *traceSelector) Select(key string) tracing.Trace {
	sel.mx.Lock()
	defer sel.mx.Unlock()
	t, ok := sel.tracers[key]
	if !ok {
		t = sel.adapter()
		sel.tracers[key] = t
	}
	return t
}

// installTracing routes all module tracers to the Go logger at level.
func installTracing(level tracing.TraceLevel) {
	tracing.SetTraceSelector(newTraceSelector(gologadapter.GetAdapter()))
	for _, key := range traceKeys {
		tracing.Select(key).SetTraceLevel(level)
	}
}
