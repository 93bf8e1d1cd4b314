package series

import (
	"log/slog"
	"sort"
	"time"
)

// AggregateHourly resamples an end-labeled interval series into hourly sums.
// Buckets are right-closed: a record with end timestamp t belongs to the
// bucket labeled floor_hour(t - 1 tick), so the interval ending exactly on an
// hour boundary lands in the hour it closes. The resulting records are
// labeled by bucket start and rounded to 3 decimals. Hourly-native input
// passes through as one record per bucket.
func AggregateHourly(records []IntervalRecord) []HourlyRecord {
	sums := make(map[time.Time]float64, len(records))
	for _, r := range records {
		bucket := r.Timestamp.Add(-time.Minute).Truncate(time.Hour)
		sums[bucket] += r.UsageKWh
	}

	out := make([]HourlyRecord, 0, len(sums))
	for hour, usage := range sums {
		out = append(out, HourlyRecord{HourStart: hour, UsageKWh: Round3(usage)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].HourStart.Before(out[j].HourStart) })

	slog.Info("Aggregated to hourly records",
		slog.Int("interval_records", len(records)),
		slog.Int("hourly_records", len(out)))
	return out
}

// TrimToMidnight discards all trailing records after the last hour that
// closes exactly at midnight, so the output always ends at a day boundary
// and any partial final day is dropped entirely. The check runs on the
// end-of-hour timestamp (HourStart + 1h): a complete day's final bucket
// starts at 23:00 and closes at the next midnight, so complete input is
// kept intact.
func TrimToMidnight(records []HourlyRecord) []HourlyRecord {
	last := -1
	for i := len(records) - 1; i >= 0; i-- {
		end := records[i].HourStart.Add(time.Hour)
		if end.Hour() == 0 && end.Minute() == 0 {
			last = i
			break
		}
	}
	if last < 0 {
		slog.Warn("No complete day found, trimming entire series",
			slog.Int("records", len(records)))
		return nil
	}
	if trimmed := len(records) - last - 1; trimmed > 0 {
		slog.Info("Trimmed trailing partial day",
			slog.Int("trimmed", trimmed),
			slog.Time("series_end", records[last].HourStart.Add(time.Hour)))
	}
	return records[:last+1]
}
