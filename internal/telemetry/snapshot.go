// Package telemetry exposes a read-only view of one running Interface
// over a websocket, gated by a JWT bearer token, the way the pack's
// monitoring tool pushes JSON snapshots to its dashboard clients. It
// runs on its own goroutine and never touches the Location Table,
// Location Service or forwarding buffers directly: the interface's
// poll loop samples a Snapshot once per step and hands it over through
// a single atomic pointer, so the admin goroutine can read the latest
// one without blocking or racing the data plane (spec clause 5).
package telemetry

import (
	"time"
)

// Snapshot is the periodic read-only view of an Interface's state
// that the admin surface serializes and pushes to subscribers.
type Snapshot struct {
	Time time.Time `json:"time"`

	NeighbourCount int     `json:"neighbour_count"`
	LocationTable  int     `json:"location_table_entries"`
	LocalCBR       float64 `json:"local_cbr"`

	LSPending int `json:"ls_pending"`
	LSFailed  int `json:"ls_failed"`

	DCCDutyCycle float64       `json:"dcc_duty_cycle"`
	DCCInterval  time.Duration `json:"dcc_tx_interval_ns"`

	LSBufOccupancy int `json:"ls_buf_entries"`
	UCBufOccupancy int `json:"uc_buf_entries"`
	BCBufOccupancy int `json:"bc_buf_entries"`
}
