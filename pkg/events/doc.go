// Package events provides the observability stream for credential and
// completion operations, forwarding events to configurable sinks (log,
// Prometheus, multi) without ever influencing the operations themselves.
package events
