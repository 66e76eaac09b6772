// Package stream serves the duplex telemetry endpoint. Each WebSocket
// connection becomes one session that reads samples, feeds the shared engine
// state, and writes the computed analytics back before reading the next
// message. A disconnect or malformed payload ends only that session.
package stream
