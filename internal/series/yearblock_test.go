package series

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func hourlySpan(start time.Time, n int) []HourlyRecord {
	out := make([]HourlyRecord, n)
	for i := range out {
		out[i] = HourlyRecord{HourStart: start.Add(time.Duration(i) * time.Hour), UsageKWh: float64(i)}
	}
	return out
}

func TestSegmentYears_NewestFirst(t *testing.T) {
	start := ts(2020, time.January, 1, 0, 0)
	records := hourlySpan(start, HoursPerYear+100)

	blocks := SegmentYears(records)

	require.Len(t, blocks, 2)
	assert.Equal(t, 1, blocks[0].Number)
	assert.Len(t, blocks[0].Records, HoursPerYear)
	assert.Equal(t, 2, blocks[1].Number)
	assert.Len(t, blocks[1].Records, 100, "oldest block holds the remainder")

	// Block 1 covers the newest hours; records stay ascending inside it.
	assert.Equal(t, records[100].HourStart, blocks[0].Records[0].HourStart)
	assert.Equal(t, records[len(records)-1].HourStart,
		blocks[0].Records[len(blocks[0].Records)-1].HourStart)
	assert.Equal(t, records[0].HourStart, blocks[1].Records[0].HourStart)
}

func TestSegmentYears_ShortSeriesIsOneBlock(t *testing.T) {
	records := hourlySpan(ts(2024, time.June, 1, 0, 0), 48)

	blocks := SegmentYears(records)

	require.Len(t, blocks, 1)
	assert.Equal(t, 1, blocks[0].Number)
	assert.Len(t, blocks[0].Records, 48)
}

func TestSegmentYears_Empty(t *testing.T) {
	assert.Nil(t, SegmentYears(nil))
}

func TestYearBlockSum(t *testing.T) {
	b := YearBlock{Records: []HourlyRecord{{UsageKWh: 1.25}, {UsageKWh: 2.5}}}
	assert.Equal(t, 3.75, b.Sum())
}

func TestAggregateAndSegment_PreservesTotalUsage(t *testing.T) {
	// Total usage survives the whole resample-and-segment chain: the sum of
	// the interval records equals the sum of the hourly records equals the
	// sum over all year blocks.
	var records []IntervalRecord
	total := 0.0
	start := ts(2024, time.June, 1, 0, 15)
	for i := 0; i < 3*24*4; i++ {
		usage := 0.125 * float64(i%7)
		records = append(records, IntervalRecord{
			Timestamp: start.Add(time.Duration(i) * 15 * time.Minute),
			UsageKWh:  usage,
		})
		total += usage
	}

	hourly := AggregateHourly(records)
	hourlyTotal := 0.0
	for _, r := range hourly {
		hourlyTotal += r.UsageKWh
	}
	assert.InDelta(t, total, hourlyTotal, 0.001)

	blocks := SegmentYears(hourly)
	blockTotal := 0.0
	for _, b := range blocks {
		blockTotal += b.Sum()
	}
	assert.InDelta(t, total, blockTotal, 0.001)
}
