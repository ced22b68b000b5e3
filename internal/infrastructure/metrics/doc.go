// Package metrics records schema synchronization telemetry to InfluxDB.
//
// The client wraps the InfluxDB v2 client with non-blocking, batched
// writes. It records two measurements:
//
//	sync_phase      - duration and statement count per sync phase
//	version_change  - from/to marker for database version moves
//
// Recording is strictly observational; a metrics outage never affects
// whether a schema is applied. ForDatabase returns a recorder bound to one
// database that satisfies schema.Recorder.
//
// Usage:
//
//	client, err := metrics.Connect(cfg.Metrics)
//	if err != nil { ... }
//	defer client.Close()
//
//	sync.SetRecorder(client.ForDatabase("inventory"))
package metrics
