package contract

import (
	"path/filepath"
	"testing"

	"github.com/huangsam/repotraffic/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetPlainStateLabel(t *testing.T) {
	assert.Equal(t, NoDataValue, GetPlainStateLabel(schema.NoDataYetState))
	assert.Equal(t, EmptyValue, GetPlainStateLabel(schema.EmptyState))
	assert.Equal(t, HasDataValue, GetPlainStateLabel(schema.HasDataState))
}

func TestGetColorStateLabelContainsPlainText(t *testing.T) {
	assert.Contains(t, GetColorStateLabel(schema.NoDataYetState), NoDataValue)
	assert.Contains(t, GetColorStateLabel(schema.EmptyState), EmptyValue)
	assert.Contains(t, GetColorStateLabel(schema.HasDataState), HasDataValue)
}

func TestGetClosureLabel(t *testing.T) {
	assert.Equal(t, ProvisionalValue, GetClosureLabel(true))
	assert.Equal(t, ClosedValue, GetClosureLabel(false))
	assert.Contains(t, GetColorClosureLabel(true), ProvisionalValue)
	assert.Contains(t, GetColorClosureLabel(false), ClosedValue)
}

func TestParseBoolString(t *testing.T) {
	tests := []struct {
		input   string
		want    bool
		wantErr bool
	}{
		{"yes", true, false},
		{"TRUE", true, false},
		{"1", true, false},
		{"on", true, false},
		{"", true, false},
		{" Yes ", true, false},
		{"no", false, false},
		{"false", false, false},
		{"0", false, false},
		{"off", false, false},
		{"maybe", false, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseBoolString(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSelectOutputFile(t *testing.T) {
	stdout, err := SelectOutputFile("")
	require.NoError(t, err)
	assert.Equal(t, "/dev/stdout", stdout.Name())

	path := filepath.Join(t.TempDir(), "out.csv")
	file, err := SelectOutputFile(path)
	require.NoError(t, err)
	defer func() { _ = file.Close() }()
	assert.Equal(t, path, file.Name())
}

func TestGetJournalDBFilePath(t *testing.T) {
	assert.Equal(t, filepath.Join("data", ".repotraffic_journal.db"), GetJournalDBFilePath("data"))
}
