package badger

import "github.com/VictoriaMetrics/metrics"

// Operation counters, exported through the default VictoriaMetrics set.
var (
	getCalls       = metrics.NewCounter(`coffer_ops_total{op="get"}`)
	putCalls       = metrics.NewCounter(`coffer_ops_total{op="put"}`)
	deleteCalls    = metrics.NewCounter(`coffer_ops_total{op="delete"}`)
	hasCalls       = metrics.NewCounter(`coffer_ops_total{op="has"}`)
	enumerateCalls = metrics.NewCounter(`coffer_ops_total{op="enumerate"}`)
	resolveCalls   = metrics.NewCounter(`coffer_ops_total{op="resolve"}`)
)
