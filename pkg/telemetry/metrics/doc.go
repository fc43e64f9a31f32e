// Package metrics exposes Prometheus metrics for the gateway.
//
// A single Collector owns a private registry and pre-registers every
// metric at construction time. Collaborators record through typed
// methods rather than touching metric vectors directly, which keeps
// label cardinality under the collector's control.
package metrics
