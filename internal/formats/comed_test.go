package formats

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// comedHeader builds the COMED header row with n interval columns.
func comedHeader(n int) string {
	cols := []string{"METER_NBR", "CHANNEL_NBR", "RECORDING_DT"}
	for i := 1; i <= n; i++ {
		cols = append(cols, fmt.Sprintf("KW_INTERVAL_%d", i))
	}
	return strings.Join(cols, ",")
}

// comedRow builds a data row with every interval cell set to value.
func comedRow(meter, channel, date string, n int, value float64) string {
	cols := []string{meter, channel, date}
	for i := 0; i < n; i++ {
		cols = append(cols, fmt.Sprintf("%g", value))
	}
	return strings.Join(cols, ",")
}

func TestReadComed_HourlySumsRawValues(t *testing.T) {
	src := loadFixture(t, "comed.csv", []string{
		"INTERVAL USAGE DATA",
		comedHeader(24),
		comedRow("1001", "1", "6/1/2024", 24, 2.0),
		comedRow("1002", "1", "6/1/2024", 24, 0.5),
	})

	records, err := ReadComed(src)

	require.NoError(t, err)
	require.Len(t, records, 24)
	assert.Equal(t, time.Date(2024, time.June, 1, 1, 0, 0, 0, time.UTC), records[0].Timestamp)
	assert.Equal(t, 2.5, records[0].UsageKWh, "meters sum element-wise, values stay raw")
	assert.Equal(t, time.Date(2024, time.June, 2, 0, 0, 0, 0, time.UTC), records[23].Timestamp,
		"last interval ends at next-day midnight")
}

func TestReadComed_FifteenMinuteColumnCount(t *testing.T) {
	src := loadFixture(t, "comed.csv", []string{
		"INTERVAL USAGE DATA",
		comedHeader(96),
		comedRow("1001", "1", "6/1/2024", 96, 1.0),
	})

	records, err := ReadComed(src)

	require.NoError(t, err)
	require.Len(t, records, 96)
	assert.Equal(t, time.Date(2024, time.June, 1, 0, 15, 0, 0, time.UTC), records[0].Timestamp)
	assert.Equal(t, 15*time.Minute, records[1].Timestamp.Sub(records[0].Timestamp))
}

func TestReadComed_FiltersNonPrimaryChannel(t *testing.T) {
	src := loadFixture(t, "comed.csv", []string{
		"INTERVAL USAGE DATA",
		comedHeader(24),
		comedRow("1001", "1", "6/1/2024", 24, 1.0),
		comedRow("1001", "2", "6/1/2024", 24, 99.0),
	})

	records, err := ReadComed(src)

	require.NoError(t, err)
	require.Len(t, records, 24)
	assert.Equal(t, 1.0, records[0].UsageKWh)
}

func TestReadComed_SkipsTrailerRows(t *testing.T) {
	src := loadFixture(t, "comed.csv", []string{
		"INTERVAL USAGE DATA",
		comedHeader(24),
		comedRow("1001", "1", "6/1/2024", 24, 1.0),
		"END OF REPORT,,",
	})

	records, err := ReadComed(src)

	require.NoError(t, err)
	assert.Len(t, records, 24)
}

func TestReadComed_DropsIntervalsBeyondNativeCount(t *testing.T) {
	// 25 hourly columns: the 25th is a November fall-back extra.
	src := loadFixture(t, "comed.csv", []string{
		"INTERVAL USAGE DATA",
		comedHeader(25),
		comedRow("1001", "1", "11/3/2024", 25, 1.0),
	})

	records, err := ReadComed(src)

	require.NoError(t, err)
	assert.Len(t, records, 24)
}

func TestReadComed_MissingHeader(t *testing.T) {
	src := loadFixture(t, "comed.csv", []string{
		"INTERVAL USAGE DATA",
		"no,usable,columns",
	})

	_, err := ReadComed(src)

	require.Error(t, err)
}
