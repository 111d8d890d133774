/*
Package observability provides lifecycle hooks for monitoring agents.

Metrics exports step and tool counters and latencies to Prometheus;
LoggingHooks writes the same events to a structured logger. Combine merges
several hook sets into one.
*/
package observability
