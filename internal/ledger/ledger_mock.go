package ledger

import (
	"github.com/huangsam/ctmeta/internal/contract"
	"github.com/huangsam/ctmeta/schema"
	"github.com/stretchr/testify/mock"
)

// MockLedgerManager is a mock implementation of LedgerManager for testing.
type MockLedgerManager struct {
	mock.Mock
}

var _ contract.LedgerManager = &MockLedgerManager{} // Compile-time check

// GetLedgerStore implements the LedgerManager interface.
func (m *MockLedgerManager) GetLedgerStore() contract.LedgerStore {
	ret := m.Called()
	store, _ := ret.Get(0).(contract.LedgerStore)
	return store
}

// MockLedgerStore is a mock implementation of LedgerStore for testing.
type MockLedgerStore struct {
	mock.Mock
}

var _ contract.LedgerStore = &MockLedgerStore{} // Compile-time check

// BeginRun implements the LedgerStore interface.
func (m *MockLedgerStore) BeginRun(storePath string, configParams map[string]any) (string, error) {
	args := m.Called(storePath, configParams)
	return args.String(0), args.Error(1)
}

// RecordEntry implements the LedgerStore interface.
func (m *MockLedgerStore) RecordEntry(runID, dedupKey, sourcePath string, action schema.MergeAction) error {
	args := m.Called(runID, dedupKey, sourcePath, action)
	return args.Error(0)
}

// EndRun implements the LedgerStore interface.
func (m *MockLedgerStore) EndRun(runID string, summary schema.MergeSummary) error {
	args := m.Called(runID, summary)
	return args.Error(0)
}

// GetStatus implements the LedgerStore interface.
func (m *MockLedgerStore) GetStatus() (schema.LedgerStatus, error) {
	args := m.Called()
	return args.Get(0).(schema.LedgerStatus), args.Error(1)
}

// GetAllRuns implements the LedgerStore interface.
func (m *MockLedgerStore) GetAllRuns() ([]schema.IngestRunRecord, error) {
	args := m.Called()
	runs, _ := args.Get(0).([]schema.IngestRunRecord)
	return runs, args.Error(1)
}

// GetAllEntries implements the LedgerStore interface.
func (m *MockLedgerStore) GetAllEntries() ([]schema.IngestEntryRecord, error) {
	args := m.Called()
	entries, _ := args.Get(0).([]schema.IngestEntryRecord)
	return entries, args.Error(1)
}

// Clear implements the LedgerStore interface.
func (m *MockLedgerStore) Clear() error {
	args := m.Called()
	return args.Error(0)
}

// Close implements the LedgerStore interface.
func (m *MockLedgerStore) Close() error {
	args := m.Called()
	return args.Error(0)
}
