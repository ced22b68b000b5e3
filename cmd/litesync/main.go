// litesync - declarative schema synchronization for embedded SQLite.
//
// This is the main entry point for the litesync apply tool. It loads a
// JSON schema document from a file or HTTP source and brings a local
// SQLite database in line with it: structure first, seed data second,
// optionally moving the database version afterwards.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/nerrad567/litesync/database"
	"github.com/nerrad567/litesync/internal/infrastructure/config"
	"github.com/nerrad567/litesync/internal/infrastructure/logging"
	"github.com/nerrad567/litesync/internal/infrastructure/metrics"
	"github.com/nerrad567/litesync/internal/infrastructure/mqtt"
	"github.com/nerrad567/litesync/schema"
)

// Version information - set at build time via ldflags
// Example: go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123"
var (
	version = "dev"     // Semantic version (e.g., "1.0.0")
	commit  = "unknown" // Git commit hash
	date    = "unknown" // Build date
)

// Default configuration file path
const defaultConfigPath = "configs/config.yaml"

func main() {
	// Cancel on interrupt signals (Ctrl+C, SIGTERM) so a long-running
	// HTTP fetch or data batch can be abandoned cleanly.
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run is the actual application logic, separated from main for testability.
// Returning an error allows main to handle exit codes consistently.
//
// Parameters:
//   - ctx: Context for cancellation and shutdown signals
//
// Returns:
//   - error: nil on a completed synchronization, or error describing failure
func run(ctx context.Context) error {
	// Use default logger until config is loaded
	log := logging.Default()
	log.Info("starting litesync",
		"version", version,
		"commit", commit,
		"build_date", date,
	)

	// Load configuration
	configPath := getConfigPath()
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	log.Info("configuration loaded", "path", configPath)

	// Reinitialise logger with config settings
	log = logging.New(cfg.Logging, version)
	log.Info("logger initialised",
		"level", cfg.Logging.Level,
		"format", cfg.Logging.Format,
	)

	// Open database
	db, err := database.Open(ctx, database.Config{
		Name:          cfg.Database.Name,
		Dir:           cfg.Database.Dir,
		Version:       cfg.Database.Version,
		EstimatedSize: cfg.Database.EstimatedSize,
		WALMode:       cfg.Database.WALMode,
		BusyTimeout:   cfg.Database.BusyTimeout,
		TraceSQL:      cfg.Database.TraceSQL,
		Logger:        log,
	})
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer func() {
		log.Info("closing database")
		if closeErr := db.Close(); closeErr != nil {
			log.Error("error closing database", "error", closeErr)
		}
	}()
	log.Info("database opened",
		"name", db.Name(),
		"path", db.Path(),
		"version", db.Version(),
	)

	// Connect to MQTT broker (optional)
	var mqttClient *mqtt.Client
	if cfg.MQTT.Enabled {
		mqttClient, err = mqtt.Connect(cfg.MQTT)
		if err != nil {
			return fmt.Errorf("connecting to MQTT: %w", err)
		}
		defer func() {
			log.Info("disconnecting from MQTT")
			if closeErr := mqttClient.Close(); closeErr != nil {
				log.Error("error closing MQTT", "error", closeErr)
			}
		}()
		log.Info("MQTT connected",
			"broker", cfg.MQTT.BrokerAddr(),
			"client_id", cfg.MQTT.ClientID,
		)
	} else {
		log.Info("MQTT disabled")
	}

	// Connect to InfluxDB (optional)
	var metricsClient *metrics.Client
	if cfg.Metrics.Enabled {
		metricsClient, err = metrics.Connect(cfg.Metrics)
		if err != nil {
			return fmt.Errorf("connecting to metrics: %w", err)
		}
		defer func() {
			log.Info("closing metrics connection")
			if closeErr := metricsClient.Close(); closeErr != nil {
				log.Error("error closing metrics", "error", closeErr)
			}
		}()
		metricsClient.SetOnError(func(err error) {
			log.Error("metrics write error", "error", err)
		})
		log.Info("metrics connected",
			"url", cfg.Metrics.URL,
			"org", cfg.Metrics.Org,
			"bucket", cfg.Metrics.Bucket,
		)
	} else {
		log.Info("metrics disabled")
	}

	// Synchronize the schema document
	if syncErr := synchronize(ctx, cfg, db, log, metricsClient, mqttClient); syncErr != nil {
		return syncErr
	}

	// Move to the target version if one is configured
	if target := cfg.Schema.TargetVersion; target != "" && target != db.Version() {
		from := db.Version()
		if changeErr := db.ChangeVersion(ctx, target); changeErr != nil {
			return fmt.Errorf("changing version: %w", changeErr)
		}
		log.Info("database version changed", "from", from, "to", target)

		if metricsClient != nil {
			metricsClient.WriteVersionChange(db.Name(), from, target)
		}
		if mqttClient != nil {
			if pubErr := mqttClient.PublishVersionChanged(db.Name(), from, target); pubErr != nil {
				log.Warn("publishing version event failed", "error", pubErr)
			}
		}
	}

	log.Info("litesync complete", "database", db.Name(), "version", db.Version())
	return nil
}

// synchronize loads the configured schema document and applies it,
// publishing a synced event on success.
func synchronize(ctx context.Context, cfg *config.Config, db *database.DB, log *logging.Logger, metricsClient *metrics.Client, mqttClient *mqtt.Client) error {
	var loader schema.Loader = schema.FileLoader{}
	if cfg.SourceIsHTTP() {
		loader = schema.HTTPLoader{}
	}

	plan, err := loader.Load(ctx, cfg.Schema.Source)
	if err != nil {
		return fmt.Errorf("loading schema document: %w", err)
	}
	log.Info("schema document loaded", "source", cfg.Schema.Source, "items", len(plan))

	sync := schema.New(db)
	sync.SetLogger(log)
	if metricsClient != nil {
		sync.SetRecorder(metricsClient.ForDatabase(db.Name()))
	}

	if err := sync.Sync(ctx, plan); err != nil {
		return fmt.Errorf("synchronizing schema: %w", err)
	}
	log.Info("schema synchronized", "items", len(plan))

	if mqttClient != nil {
		if pubErr := mqttClient.PublishSynced(db.Name(), len(plan)); pubErr != nil {
			log.Warn("publishing synced event failed", "error", pubErr)
		}
	}
	return nil
}

// getConfigPath returns the configuration file path.
// Uses LITESYNC_CONFIG environment variable if set, otherwise default.
func getConfigPath() string {
	if path := os.Getenv("LITESYNC_CONFIG"); path != "" {
		return path
	}
	return defaultConfigPath
}
