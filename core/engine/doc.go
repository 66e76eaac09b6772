// Package engine implements the streaming core of the digital twin: the
// fixed-capacity rolling window of recent samples, the shared engine state
// mutated by every inbound reading, and the per-sample analytics (rolling
// average temperature and overheat prediction). Transports feed it through
// State.Ingest and read it through State.Current and State.Dashboard.
package engine
