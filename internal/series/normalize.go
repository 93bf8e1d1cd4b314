package series

import (
	"log/slog"
	"math"
	"sort"
	"time"

	apperrors "idrcli/internal/errors"
)

// validIntervals are the native interval sizes a reader may produce.
var validIntervals = map[int]bool{15: true, 30: true, 60: true}

// Normalize sorts the series ascending by timestamp and removes duplicate
// timestamps keeping the first occurrence. Long-format readers can emit raw
// duplicate rows (including November fall-back repeats); this is where they
// are squashed.
func Normalize(records []IntervalRecord) []IntervalRecord {
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Timestamp.Before(records[j].Timestamp)
	})

	out := records[:0]
	var last time.Time
	dropped := 0
	for _, r := range records {
		if !last.IsZero() && r.Timestamp.Equal(last) {
			dropped++
			continue
		}
		out = append(out, r)
		last = r.Timestamp
	}
	if dropped > 0 {
		slog.Info("Removed duplicate timestamps", slog.Int("count", dropped))
	}
	return out
}

// InferInterval returns the native interval length in minutes, derived from
// the first two sorted records. The value must be 15, 30, or 60 minutes.
func InferInterval(records []IntervalRecord) (int, error) {
	if len(records) < 2 {
		return 0, apperrors.NewIntervalError("series has fewer than two records", nil)
	}
	diff := records[1].Timestamp.Sub(records[0].Timestamp)
	minutes := int(math.Round(diff.Minutes()))
	if !validIntervals[minutes] {
		return 0, apperrors.NewIntervalError(
			"inferred interval is not 15, 30, or 60 minutes", nil).
			WithContext("minutes", minutes)
	}
	slog.Info("Detected native interval", slog.Int("minutes", minutes))
	return minutes, nil
}
