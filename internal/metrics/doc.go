/*
Package metrics provides Prometheus-based observability for the advisory shim.

The collector counts four things: advisory hints issued (by kind), eligibility
skips (by reason), intercepted operations (by operation), and raw-syscall
fallbacks (by operation). Counters are registered on a private registry so
embedding the shim never pollutes the host's default registry.

The shim sits inside someone else's process, so the collector deliberately
starts no HTTP server and no background goroutines. Hosts that want a scrape
endpoint mount Handler() on a mux they already own:

	mux.Handle("/metrics", shim.MetricsHandler())

A nil or disabled collector turns every recording method into a no-op, which
keeps the interception hot path free of conditionals at the call sites.
*/
package metrics
