package schema

import (
	"context"
	"fmt"
	"time"

	"github.com/nerrad567/litesync/database"
	"github.com/nerrad567/litesync/statement"
)

// Executor is the transactional batch capability the Synchronizer drives.
// Satisfied by *database.DB.
type Executor interface {
	RunBatch(ctx context.Context, batch []statement.Prepared) (*database.Result, error)
}

// Logger interface for optional logging support.
// Compatible with logging.Logger and slog.Logger.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
}

// Recorder receives sync-phase timings. Implemented by the metrics client;
// observability only, never consulted for control flow.
type Recorder interface {
	RecordSyncPhase(phase string, statements int, elapsed time.Duration)
}

// Phase names reported to the Recorder.
const (
	PhaseStructure = "structure"
	PhaseData      = "data"
)

// Synchronizer applies schema plans through an Executor, structure phase
// first, data phase second. It issues at most one batch at a time and the
// data phase starts only after the structure batch has committed.
type Synchronizer struct {
	exec Executor

	// logger for phase tracing (optional, set via SetLogger).
	logger Logger

	// recorder for phase timings (optional, set via SetRecorder).
	recorder Recorder
}

// New creates a Synchronizer driving the given executor.
func New(exec Executor) *Synchronizer {
	return &Synchronizer{exec: exec}
}

// SetLogger sets a logger for phase tracing. If not set, the synchronizer
// is silent.
func (s *Synchronizer) SetLogger(logger Logger) {
	s.logger = logger
}

// SetRecorder sets a recorder for phase timings.
func (s *Synchronizer) SetRecorder(recorder Recorder) {
	s.recorder = recorder
}

// Sync applies a plan in two dependent phases.
//
// The structure phase executes raw statements and CREATE TABLEs as one
// transactional batch. The data phase runs only when the plan carries row
// data and only after the structure phase has committed; it flattens every
// (table, row) pair into INSERTs and executes them as a second batch.
//
// A structure-phase failure is surfaced as-is and the data phase is never
// attempted — no retry, no partial rollback beyond the transaction's own.
func (s *Synchronizer) Sync(ctx context.Context, plan Plan) error {
	structure, err := plan.Structure()
	if err != nil {
		return err
	}

	if len(structure) > 0 {
		batch := make([]statement.Prepared, len(structure))
		for i, sql := range structure {
			batch[i] = statement.Prepared{SQL: sql}
		}

		start := time.Now()
		if _, err := s.exec.RunBatch(ctx, batch); err != nil {
			return fmt.Errorf("structure phase: %w", err)
		}
		s.report(PhaseStructure, len(batch), time.Since(start))
	}

	data, err := plan.Data()
	if err != nil {
		return err
	}
	if len(data) == 0 {
		return nil
	}

	start := time.Now()
	if _, err := s.exec.RunBatch(ctx, data); err != nil {
		return fmt.Errorf("data phase: %w", err)
	}
	s.report(PhaseData, len(data), time.Since(start))
	return nil
}

// SyncFromSource loads a plan through the given loader and applies it.
// On loader failure, synchronization does not start and the failure is
// surfaced unchanged.
func (s *Synchronizer) SyncFromSource(ctx context.Context, loader Loader, locator string) error {
	plan, err := loader.Load(ctx, locator)
	if err != nil {
		return err
	}
	if s.logger != nil {
		s.logger.Debug("schema document loaded", "locator", locator, "items", len(plan))
	}
	return s.Sync(ctx, plan)
}

// report delivers a completed phase to the logger and recorder.
func (s *Synchronizer) report(phase string, statements int, elapsed time.Duration) {
	if s.logger != nil {
		s.logger.Info("sync phase complete",
			"phase", phase,
			"statements", statements,
			"elapsed", elapsed,
		)
	}
	if s.recorder != nil {
		s.recorder.RecordSyncPhase(phase, statements, elapsed)
	}
}
