package gateway

import "sync/atomic"

// Counters tracks gateway-level activity using atomic operations.
type Counters struct {
	requests  atomic.Int64
	commands  atomic.Int64
	failures  atomic.Int64
	streaming atomic.Int64
}

// RecordRequest records an authenticated request.
func (c *Counters) RecordRequest() { c.requests.Add(1) }

// RecordCommand records a command sent to the remote and whether it failed.
func (c *Counters) RecordCommand(err error) {
	c.commands.Add(1)
	if err != nil {
		c.failures.Add(1)
	}
}

// streamOpened and streamClosed track connected event-stream clients.
func (c *Counters) streamOpened() { c.streaming.Add(1) }
func (c *Counters) streamClosed() { c.streaming.Add(-1) }

// Snapshot returns a point-in-time view of the counters.
func (c *Counters) Snapshot() CountersSnapshot {
	return CountersSnapshot{
		Requests:      c.requests.Load(),
		Commands:      c.commands.Load(),
		CommandErrors: c.failures.Load(),
		StreamClients: c.streaming.Load(),
	}
}

// CountersSnapshot is a serializable point-in-time counters view.
type CountersSnapshot struct {
	Requests      int64 `json:"requests"`
	Commands      int64 `json:"commands"`
	CommandErrors int64 `json:"command_errors"`
	StreamClients int64 `json:"stream_clients"`
}
