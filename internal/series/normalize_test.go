package series

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "idrcli/internal/errors"
)

func ts(year int, month time.Month, day, hour, min int) time.Time {
	return time.Date(year, month, day, hour, min, 0, 0, time.UTC)
}

func TestNormalize_SortsAscending(t *testing.T) {
	records := []IntervalRecord{
		{Timestamp: ts(2024, time.March, 2, 1, 0), UsageKWh: 3},
		{Timestamp: ts(2024, time.March, 1, 1, 0), UsageKWh: 1},
		{Timestamp: ts(2024, time.March, 1, 2, 0), UsageKWh: 2},
	}

	out := Normalize(records)

	require.Len(t, out, 3)
	assert.Equal(t, 1.0, out[0].UsageKWh)
	assert.Equal(t, 2.0, out[1].UsageKWh)
	assert.Equal(t, 3.0, out[2].UsageKWh)
	for i := 1; i < len(out); i++ {
		assert.True(t, out[i-1].Timestamp.Before(out[i].Timestamp))
	}
}

func TestNormalize_DropsDuplicatesKeepingFirst(t *testing.T) {
	dup := ts(2024, time.November, 3, 2, 0)
	records := []IntervalRecord{
		{Timestamp: ts(2024, time.November, 3, 1, 0), UsageKWh: 1.0},
		{Timestamp: dup, UsageKWh: 5.5},
		{Timestamp: dup, UsageKWh: 9.9},
		{Timestamp: ts(2024, time.November, 3, 3, 0), UsageKWh: 2.0},
	}

	out := Normalize(records)

	require.Len(t, out, 3)
	assert.Equal(t, 5.5, out[1].UsageKWh, "first occurrence wins")
}

func TestInferInterval(t *testing.T) {
	tests := []struct {
		name    string
		minutes int
	}{
		{"fifteen minute", 15},
		{"thirty minute", 30},
		{"hourly", 60},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records := []IntervalRecord{
				{Timestamp: ts(2024, time.June, 1, 0, 0)},
				{Timestamp: ts(2024, time.June, 1, 0, 0).Add(time.Duration(tt.minutes) * time.Minute)},
			}
			got, err := InferInterval(records)
			require.NoError(t, err)
			assert.Equal(t, tt.minutes, got)
		})
	}
}

func TestInferInterval_RejectsUnknownSpacing(t *testing.T) {
	records := []IntervalRecord{
		{Timestamp: ts(2024, time.June, 1, 0, 0)},
		{Timestamp: ts(2024, time.June, 1, 0, 5)},
	}

	_, err := InferInterval(records)

	require.Error(t, err)
	code, ok := apperrors.CodeOf(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.CodeUnrecognizableInterval, code)
}

func TestInferInterval_RequiresTwoRecords(t *testing.T) {
	_, err := InferInterval([]IntervalRecord{{Timestamp: ts(2024, time.June, 1, 0, 0)}})
	require.Error(t, err)
}

func TestRound3(t *testing.T) {
	assert.Equal(t, 1.234, Round3(1.2344))
	assert.Equal(t, 1.235, Round3(1.2345))
	assert.Equal(t, 0.0, Round3(0.0004))
	assert.Equal(t, -2.5, Round3(-2.4999))
}
