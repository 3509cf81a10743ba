package journal

import (
	"time"

	"github.com/huangsam/repotraffic/internal/contract"
	"github.com/huangsam/repotraffic/schema"
	"github.com/stretchr/testify/mock"
)

// MockJournal is a mock implementation of Journal for testing.
type MockJournal struct {
	mock.Mock
}

var _ contract.Journal = &MockJournal{} // Compile-time check

// MarkFolded implements the Journal interface.
func (m *MockJournal) MarkFolded(name string, capturedAt time.Time, ledgerVersion int) error {
	args := m.Called(name, capturedAt, ledgerVersion)
	return args.Error(0)
}

// IsFolded implements the Journal interface.
func (m *MockJournal) IsFolded(name string) (bool, error) {
	args := m.Called(name)
	return args.Bool(0), args.Error(1)
}

// FoldedNames implements the Journal interface.
func (m *MockJournal) FoldedNames() ([]string, error) {
	args := m.Called()
	names, _ := args.Get(0).([]string)
	return names, args.Error(1)
}

// GetStatus implements the Journal interface.
func (m *MockJournal) GetStatus() (schema.JournalStatus, error) {
	args := m.Called()
	return args.Get(0).(schema.JournalStatus), args.Error(1)
}

// Clear implements the Journal interface.
func (m *MockJournal) Clear() error {
	args := m.Called()
	return args.Error(0)
}

// Close implements the Journal interface.
func (m *MockJournal) Close() error {
	args := m.Called()
	return args.Error(0)
}
