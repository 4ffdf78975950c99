package iostore

import (
	"time"

	"github.com/huangsam/bugcensus/internal/contract"
	"github.com/huangsam/bugcensus/schema"
	"github.com/stretchr/testify/mock"
)

// MockStoreManager is a mock implementation of StoreManager for testing.
type MockStoreManager struct {
	mock.Mock
}

var _ contract.StoreManager = &MockStoreManager{} // Compile-time check

// GetRunStore implements the StoreManager interface.
func (m *MockStoreManager) GetRunStore() contract.RunStore {
	ret := m.Called()
	store, _ := ret.Get(0).(contract.RunStore)
	return store
}

// MockRunStore is a mock implementation of RunStore for testing.
type MockRunStore struct {
	mock.Mock
}

var _ contract.RunStore = &MockRunStore{} // Compile-time check

// BeginRun implements the RunStore interface.
func (m *MockRunStore) BeginRun(startTime time.Time, corpusRoot string, configParams map[string]any) (int64, error) {
	args := m.Called(startTime, corpusRoot, configParams)
	return args.Get(0).(int64), args.Error(1)
}

// RecordAnnotation implements the RunStore interface.
func (m *MockRunStore) RecordAnnotation(runID int64, record schema.Record) error {
	args := m.Called(runID, record)
	return args.Error(0)
}

// EndRun implements the RunStore interface.
func (m *MockRunStore) EndRun(runID int64, endTime time.Time, tally schema.Tally) error {
	args := m.Called(runID, endTime, tally)
	return args.Error(0)
}

// GetStatus implements the RunStore interface.
func (m *MockRunStore) GetStatus() (schema.StoreStatus, error) {
	args := m.Called()
	return args.Get(0).(schema.StoreStatus), args.Error(1)
}

// GetAllRuns implements the RunStore interface.
func (m *MockRunStore) GetAllRuns() ([]schema.RunRecord, error) {
	args := m.Called()
	runs, _ := args.Get(0).([]schema.RunRecord)
	return runs, args.Error(1)
}

// GetAllRecords implements the RunStore interface.
func (m *MockRunStore) GetAllRecords() ([]schema.StoredRecord, error) {
	args := m.Called()
	records, _ := args.Get(0).([]schema.StoredRecord)
	return records, args.Error(1)
}

// Close implements the RunStore interface.
func (m *MockRunStore) Close() error {
	args := m.Called()
	return args.Error(0)
}
