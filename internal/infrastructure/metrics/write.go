package metrics

import (
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"
)

// WriteSyncPhase records one completed synchronization phase.
//
// The write is non-blocking; data is batched and sent asynchronously.
//
// Parameters:
//   - database: Logical database name
//   - phase: Phase name ("structure" or "data")
//   - statements: Number of statements executed in the phase
//   - elapsed: Wall-clock phase duration
func (c *Client) WriteSyncPhase(database, phase string, statements int, elapsed time.Duration) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(
		"sync_phase",
		map[string]string{
			"database": database,
			"phase":    phase,
		},
		map[string]interface{}{
			"statements":  statements,
			"duration_ms": float64(elapsed) / float64(time.Millisecond),
		},
		time.Now(),
	)

	c.writeAPI.WritePoint(point)
}

// WriteVersionChange records a database version move.
func (c *Client) WriteVersionChange(database, from, to string) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(
		"version_change",
		map[string]string{
			"database": database,
		},
		map[string]interface{}{
			"from_version": from,
			"to_version":   to,
		},
		time.Now(),
	)

	c.writeAPI.WritePoint(point)
}

// DatabaseRecorder binds a client to one database so it can serve as a
// schema.Recorder, which has no database parameter of its own.
type DatabaseRecorder struct {
	client   *Client
	database string
}

// ForDatabase returns a recorder scoped to the given database name.
func (c *Client) ForDatabase(database string) *DatabaseRecorder {
	return &DatabaseRecorder{client: c, database: database}
}

// RecordSyncPhase implements schema.Recorder.
func (r *DatabaseRecorder) RecordSyncPhase(phase string, statements int, elapsed time.Duration) {
	r.client.WriteSyncPhase(r.database, phase, statements, elapsed)
}
