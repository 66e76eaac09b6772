// Package metrics defines interfaces and event types for recording telemetry
// observability data. Sinks like the Prometheus and InfluxDB adapters in
// infra/metrics record ingested samples and session transitions and can be
// combined with MultiSink when more than one backend is configured.
package metrics
