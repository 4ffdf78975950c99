// Package iostore persists extraction runs and their records in a SQL database.
package iostore

import (
	"sync"

	"github.com/huangsam/bugcensus/internal/contract"
)

// RunStoreManager manages the RunStore instance.
type RunStoreManager struct {
	sync.RWMutex // Protects the store pointer during initialization
	runs         contract.RunStore
}

var _ contract.StoreManager = &RunStoreManager{} // Compile-time check

// GetRunStore returns the configured RunStore.
// It returns a no-op store when stores were never initialized.
func (mgr *RunStoreManager) GetRunStore() contract.RunStore {
	mgr.RLock()
	defer mgr.RUnlock()
	if mgr.runs == nil {
		return noneStore
	}
	return mgr.runs
}
