package series

import (
	"math"
	"time"
)

// IntervalRecord is one usage reading at the source's native granularity.
// Timestamp is the interval end time: the moment usage accumulation for the
// interval completes. Every reader emits this convention.
type IntervalRecord struct {
	Timestamp time.Time
	UsageKWh  float64
}

// HourlyRecord is one aggregated calendar hour, labeled by its start hour.
type HourlyRecord struct {
	HourStart time.Time
	UsageKWh  float64
}

// YearBlock is a contiguous slice of the hourly series, at most HoursPerYear
// records long, sorted ascending for display.
type YearBlock struct {
	// Number is 1-based; block 1 holds the most recent hours.
	Number  int
	Records []HourlyRecord
}

// HoursPerYear is the fixed year-block length (one non-leap year).
const HoursPerYear = 8760

// Sum returns the total usage of the block.
func (b YearBlock) Sum() float64 {
	var total float64
	for _, r := range b.Records {
		total += r.UsageKWh
	}
	return total
}

// Round3 rounds a usage value to 3 decimal places, the precision carried by
// every emitted hourly record.
func Round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
