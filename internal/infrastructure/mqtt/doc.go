// Package mqtt publishes litesync schema lifecycle events to an MQTT broker.
//
// This package wraps paho.mqtt.golang to announce schema synchronizations
// and database version changes, so downstream services can react to a
// database whose structure just moved (cache invalidation, re-discovery,
// monitoring).
//
// Topic scheme:
//
//	litesync/{database}/schema/synced     — a schema document was applied
//	litesync/{database}/version/changed   — the database version moved
//
// Payloads are small JSON documents built by events.go. Publishing is
// strictly observational: a broker outage never affects whether a schema
// is applied.
//
// Usage:
//
//	client, err := mqtt.Connect(cfg.MQTT)
//	if err != nil { ... }
//	defer client.Close()
//
//	client.PublishSynced(dbName, items)
package mqtt
