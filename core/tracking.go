package core

import (
	"time"

	"github.com/huangsam/bugcensus/core/extract"
	"github.com/huangsam/bugcensus/internal/contract"
	"github.com/huangsam/bugcensus/schema"
)

// runTracker records one extraction pass in the run store.
// A zero runID means tracking is disabled or failed to start.
type runTracker struct {
	store contract.RunStore
	runID int64
}

// beginRun opens a run in the store. Failures are logged and never abort extraction.
func beginRun(mgr contract.StoreManager, cfg *contract.Config, startTime time.Time) *runTracker {
	t := &runTracker{}
	if mgr == nil {
		return t
	}
	t.store = mgr.GetRunStore()
	if t.store == nil {
		return t
	}

	configParams := map[string]any{
		"corpus_root":     cfg.CorpusRoot,
		"annotation_file": cfg.AnnotationFile,
		"table_file":      cfg.TableFile,
		"excludes":        cfg.Excludes,
	}
	runID, err := t.store.BeginRun(startTime, cfg.CorpusRoot, configParams)
	if err != nil {
		contract.LogWarn("Run tracking initialization failed", err)
		return t
	}
	t.runID = runID
	return t
}

// active reports whether records should be sent to the store.
func (t *runTracker) active() bool {
	return t.store != nil && t.runID > 0
}

// sink returns the extractor sink for this run, or nil when tracking is off.
func (t *runTracker) sink() extract.Sink {
	if !t.active() {
		return nil
	}
	return func(rec schema.Record) error {
		return t.store.RecordAnnotation(t.runID, rec)
	}
}

// end closes the run with its final tally.
func (t *runTracker) end(endTime time.Time, tally schema.Tally) {
	if !t.active() {
		return
	}
	if err := t.store.EndRun(t.runID, endTime, tally); err != nil {
		contract.LogWarn("Run tracking completion failed", err)
		return
	}
	contract.LogDebug("Run recorded", map[string]any{"run_id": t.runID, "valid": tally.Valid})
}
