package series

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFillSpringForwardGaps_FillsMarchGapWithMidpoint(t *testing.T) {
	// 15-minute series with the 01:15..02:15 end labels missing, as a
	// spring-forward export drops the advanced hour.
	records := []IntervalRecord{
		{Timestamp: ts(2024, time.March, 10, 1, 0), UsageKWh: 10.0},
		{Timestamp: ts(2024, time.March, 10, 2, 15), UsageKWh: 20.0},
		{Timestamp: ts(2024, time.March, 10, 2, 30), UsageKWh: 20.0},
	}

	out := FillSpringForwardGaps(records, 15)

	require.Len(t, out, 7)
	for i := 1; i < len(out); i++ {
		assert.Equal(t, 15*time.Minute, out[i].Timestamp.Sub(out[i-1].Timestamp))
	}
	// Synthetic records carry the midpoint of the gap's neighbors.
	for _, r := range out[1:5] {
		assert.Equal(t, 15.0, r.UsageKWh)
	}
}

func TestFillSpringForwardGaps_IgnoresNonMarchGaps(t *testing.T) {
	records := []IntervalRecord{
		{Timestamp: ts(2024, time.July, 10, 1, 0), UsageKWh: 10.0},
		{Timestamp: ts(2024, time.July, 10, 3, 0), UsageKWh: 20.0},
	}

	out := FillSpringForwardGaps(records, 60)

	assert.Len(t, out, 2, "meter outages outside DST are left alone")
}

func TestFillSpringForwardGaps_IgnoresGapsOutsideNightHours(t *testing.T) {
	records := []IntervalRecord{
		{Timestamp: ts(2024, time.March, 10, 14, 0), UsageKWh: 10.0},
		{Timestamp: ts(2024, time.March, 10, 16, 0), UsageKWh: 20.0},
	}

	out := FillSpringForwardGaps(records, 60)

	assert.Len(t, out, 2)
}

// buildDay appends 24 hourly records for the given day, end-labeled 01:00
// through the following midnight.
func buildDay(records []IntervalRecord, day time.Time, usage float64) []IntervalRecord {
	for h := 1; h <= 24; h++ {
		records = append(records, IntervalRecord{
			Timestamp: day.Add(time.Duration(h) * time.Hour),
			UsageKWh:  usage,
		})
	}
	return records
}

func TestFillPartialDays_CopiesWeekPriorHours(t *testing.T) {
	var records []IntervalRecord
	start := ts(2024, time.June, 1, 0, 0)
	for d := 0; d < 10; d++ {
		day := start.AddDate(0, 0, d)
		if d == 8 {
			// Partial day: only the first 6 hours survived VEE.
			for h := 1; h <= 6; h++ {
				records = append(records, IntervalRecord{
					Timestamp: day.Add(time.Duration(h) * time.Hour),
					UsageKWh:  5.0,
				})
			}
			continue
		}
		records = buildDay(records, day, float64(d))
	}

	out := Normalize(FillPartialDays(records))

	// The 18 missing hours come from day 1 (exactly one week earlier).
	require.Len(t, out, 10*24)
	partialDay := start.AddDate(0, 0, 8)
	for h := 7; h <= 24; h++ {
		end := partialDay.Add(time.Duration(h) * time.Hour)
		idx := -1
		for i, r := range out {
			if r.Timestamp.Equal(end) {
				idx = i
				break
			}
		}
		require.GreaterOrEqual(t, idx, 0, "hour %d should be filled", h)
		assert.Equal(t, 1.0, out[idx].UsageKWh, "filled from day 1's usage")
	}
}

func TestFillPartialDays_SkipsBoundaryDays(t *testing.T) {
	var records []IntervalRecord
	start := ts(2024, time.June, 1, 0, 0)
	// First day is short by construction; it must not be treated as partial.
	for h := 10; h <= 24; h++ {
		records = append(records, IntervalRecord{Timestamp: start.Add(time.Duration(h) * time.Hour)})
	}
	records = buildDay(records, start.AddDate(0, 0, 1), 1.0)

	out := FillPartialDays(records)

	assert.Len(t, out, len(records))
}

func TestFillPartialDays_MissingDonorLeavesGap(t *testing.T) {
	var records []IntervalRecord
	start := ts(2024, time.June, 1, 0, 0)
	// Only 3 days of data: a week-prior donor cannot exist.
	records = buildDay(records, start, 1.0)
	for h := 1; h <= 6; h++ {
		records = append(records, IntervalRecord{
			Timestamp: start.AddDate(0, 0, 1).Add(time.Duration(h) * time.Hour),
		})
	}
	records = buildDay(records, start.AddDate(0, 0, 2), 3.0)

	out := FillPartialDays(records)

	assert.Len(t, out, len(records), "no donor, no fill")
}

func TestFillPartialDays_RefusesChainedSyntheticDonor(t *testing.T) {
	var records []IntervalRecord
	start := ts(2024, time.June, 1, 0, 0)
	for d := 0; d < 16; d++ {
		day := start.AddDate(0, 0, d)
		switch d {
		case 7, 14:
			// Two partial days a week apart: day 7 fills from day 0, but
			// day 14's donor hours on day 7 are then synthetic.
			for h := 1; h <= 6; h++ {
				records = append(records, IntervalRecord{
					Timestamp: day.Add(time.Duration(h) * time.Hour),
					UsageKWh:  5.0,
				})
			}
		default:
			records = buildDay(records, day, float64(d))
		}
	}

	out := Normalize(FillPartialDays(records))

	day14 := start.AddDate(0, 0, 14)
	for h := 7; h <= 24; h++ {
		end := day14.Add(time.Duration(h) * time.Hour)
		for _, r := range out {
			assert.False(t, r.Timestamp.Equal(end), "day 14 hour %d must stay unfilled", h)
		}
	}
}
