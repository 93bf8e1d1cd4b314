package series

import (
	"log/slog"
	"sort"
	"time"
)

// springForwardHours are the local start hours a spring-forward gap may open
// at. Clocks advance at 2 AM in March; end-labeled records put the last
// reading before the gap between 01:00 and 03:59.
var springForwardHours = map[int]bool{1: true, 2: true, 3: true}

// FillSpringForwardGaps scans consecutive record pairs and fills March DST
// gaps with synthetic records at native-interval spacing. Each synthetic
// record carries the midpoint of the values on either side of the gap. The
// input must already be normalized (sorted, deduplicated).
//
// November fall-back needs no counterpart here: the readers exclude the
// duplicated hour at column level and the normalizer drops residual
// duplicate rows.
func FillSpringForwardGaps(records []IntervalRecord, intervalMinutes int) []IntervalRecord {
	expected := time.Duration(intervalMinutes) * time.Minute

	var inserted []IntervalRecord
	for i := 0; i < len(records)-1; i++ {
		cur := records[i]
		next := records[i+1]
		gap := next.Timestamp.Sub(cur.Timestamp)
		if gap <= expected {
			continue
		}
		if cur.Timestamp.Month() != time.March || !springForwardHours[cur.Timestamp.Hour()] {
			continue
		}

		missing := int(gap/expected) - 1
		if missing <= 0 {
			continue
		}
		fill := Round3((cur.UsageKWh + next.UsageKWh) / 2)
		slog.Info("DST spring-forward gap detected",
			slog.Time("gap_start", cur.Timestamp),
			slog.Time("gap_end", next.Timestamp),
			slog.Int("missing_intervals", missing),
			slog.Float64("fill_value", fill))
		for j := 1; j <= missing; j++ {
			inserted = append(inserted, IntervalRecord{
				Timestamp: cur.Timestamp.Add(time.Duration(j) * expected),
				UsageKWh:  fill,
			})
		}
	}

	if len(inserted) == 0 {
		return records
	}
	out := append(records, inserted...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp.Before(out[j].Timestamp)
	})
	slog.Info("Filled DST spring-forward gaps", slog.Int("inserted", len(inserted)))
	return out
}

// FillPartialDays repairs DUQ days truncated mid-day by upstream VEE
// exclusion. A calendar day (grouped by interval start, i.e. end label minus
// one hour) with fewer than 24 hourly records gets each missing hour copied
// from the same hour exactly seven days earlier. The first and last days of
// the dataset are natural boundaries, never partial.
//
// A missing donor hour leaves the gap unfilled and logged. A donor hour that
// was itself synthesized poisons the whole day: no hours of that day are
// filled, and the day is reported at error level.
func FillPartialDays(records []IntervalRecord) []IntervalRecord {
	if len(records) == 0 {
		return records
	}

	const week = 7 * 24 * time.Hour

	have := make(map[time.Time]IntervalRecord, len(records))
	byDay := make(map[time.Time]int)
	for _, r := range records {
		have[r.Timestamp] = r
		byDay[dayOf(r.Timestamp)]++
	}

	var days []time.Time
	for d := range byDay {
		days = append(days, d)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })
	firstDay, lastDay := days[0], days[len(days)-1]

	synthetic := make(map[time.Time]bool)
	var filled []IntervalRecord
	for _, day := range days {
		if byDay[day] >= 24 || day.Equal(firstDay) || day.Equal(lastDay) {
			continue
		}

		var dayFill []IntervalRecord
		chained := false
		unfilled := 0
		for h := 0; h < 24; h++ {
			// Hour h of the day has end label day + h + 1 hours.
			end := day.Add(time.Duration(h+1) * time.Hour)
			if _, ok := have[end]; ok {
				continue
			}
			donorEnd := end.Add(-week)
			donor, ok := have[donorEnd]
			if !ok {
				slog.Warn("No week-prior donor hour for partial day",
					slog.Time("day", day),
					slog.Int("hour", h),
					slog.Time("donor", donorEnd))
				unfilled++
				continue
			}
			if synthetic[donorEnd] {
				chained = true
				break
			}
			dayFill = append(dayFill, IntervalRecord{Timestamp: end, UsageKWh: donor.UsageKWh})
		}

		if chained {
			slog.Error("Week-prior donor is itself synthetic, refusing chained fill for day",
				slog.Time("day", day))
			continue
		}
		if len(dayFill) > 0 {
			slog.Info("Filled partial day from week-prior hours",
				slog.Time("day", day),
				slog.Int("filled", len(dayFill)),
				slog.Int("unfilled", unfilled))
			for _, r := range dayFill {
				synthetic[r.Timestamp] = true
				have[r.Timestamp] = r
			}
			filled = append(filled, dayFill...)
		}
	}

	if len(filled) == 0 {
		return records
	}
	out := append(records, filled...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp.Before(out[j].Timestamp)
	})
	return out
}

// dayOf maps an hourly end label to the calendar day of the interval it
// closes, so a midnight end label counts toward the preceding day.
func dayOf(end time.Time) time.Time {
	start := end.Add(-time.Hour)
	return time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, start.Location())
}
