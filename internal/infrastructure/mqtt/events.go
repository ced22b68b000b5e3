package mqtt

import (
	"encoding/json"
	"fmt"
	"time"
)

// TopicPrefix is the base for all litesync topics.
// Scheme: litesync/{database}/{category}/{event}
const TopicPrefix = "litesync"

// syncedEvent is the payload announcing an applied schema document.
type syncedEvent struct {
	Database  string `json:"database"`
	Items     int    `json:"items"`
	Timestamp string `json:"timestamp"`
}

// versionEvent is the payload announcing a database version change.
type versionEvent struct {
	Database    string `json:"database"`
	FromVersion string `json:"from_version"`
	ToVersion   string `json:"to_version"`
	Timestamp   string `json:"timestamp"`
}

// SyncedTopic returns the topic for schema synchronization events.
//
// Example: litesync/inventory/schema/synced
func SyncedTopic(database string) string {
	return fmt.Sprintf("%s/%s/schema/synced", TopicPrefix, database)
}

// VersionChangedTopic returns the topic for version change events.
//
// Example: litesync/inventory/version/changed
func VersionChangedTopic(database string) string {
	return fmt.Sprintf("%s/%s/version/changed", TopicPrefix, database)
}

// PublishSynced announces that a schema document with the given number of
// plan items was applied to the database.
func (c *Client) PublishSynced(database string, items int) error {
	payload, err := json.Marshal(syncedEvent{
		Database:  database,
		Items:     items,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		return fmt.Errorf("%w: encoding payload: %w", ErrPublishFailed, err)
	}
	return c.publish(SyncedTopic(database), payload)
}

// PublishVersionChanged announces that the database version moved.
func (c *Client) PublishVersionChanged(database, from, to string) error {
	payload, err := json.Marshal(versionEvent{
		Database:    database,
		FromVersion: from,
		ToVersion:   to,
		Timestamp:   time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		return fmt.Errorf("%w: encoding payload: %w", ErrPublishFailed, err)
	}
	return c.publish(VersionChangedTopic(database), payload)
}
