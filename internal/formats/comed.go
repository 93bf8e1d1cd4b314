package formats

import (
	"log/slog"
	"regexp"
	"strconv"
	"strings"
	"time"

	apperrors "idrcli/internal/errors"
	"idrcli/internal/series"
	"idrcli/internal/tabular"
)

// comedIntervalName matches KW_INTERVAL_N column names and captures the
// 1-based interval number.
var comedIntervalName = regexp.MustCompile(`^KW_INTERVAL_(\d+)$`)

// ReadComed parses the COMED wide row-per-date layout. One file carries
// sub-tables for several meters; rows for the same recording date sum
// element-wise into a single series. Interval 1 covers the first native
// interval of the day and the last interval ends at 24:00. The interval
// length follows the column count: 96 or more columns is 15-minute data, 48
// or more is 30-minute, anything less is hourly. Interval numbers beyond the
// day's native count are DST fall-back extras and are dropped.
func ReadComed(src *tabular.Source) ([]series.IntervalRecord, error) {
	rows := src.Rows()

	headerIdx := -1
	for i, row := range rows {
		joined := strings.Join(row, ",")
		if strings.Contains(joined, "RECORDING_DT") && strings.Contains(joined, "KW_INTERVAL_") {
			headerIdx = i
			break
		}
	}
	if headerIdx < 0 {
		return nil, apperrors.NewParseError("could not find COMED data header row", nil)
	}

	header := rows[headerIdx]
	dateCol, meterCol, channelCol := -1, -1, -1
	type intervalCol struct {
		index  int
		number int
	}
	var intervalCols []intervalCol
	for i, name := range header {
		name = strings.TrimSpace(name)
		switch name {
		case "RECORDING_DT":
			dateCol = i
		case "METER_NBR":
			meterCol = i
		case "CHANNEL_NBR":
			channelCol = i
		default:
			if m := comedIntervalName.FindStringSubmatch(name); m != nil {
				n, _ := strconv.Atoi(m[1])
				intervalCols = append(intervalCols, intervalCol{index: i, number: n})
			}
		}
	}
	if dateCol < 0 || meterCol < 0 || len(intervalCols) == 0 {
		return nil, apperrors.NewParseError("COMED header row lacks expected columns", nil)
	}

	// Column count decides the native interval length.
	inRange := 0
	for _, col := range intervalCols {
		if col.number <= 96 {
			inRange++
		}
	}
	intervalMinutes := 60
	switch {
	case inRange >= 96:
		intervalMinutes = 15
	case inRange >= 48:
		intervalMinutes = 30
	}
	maxIntervals := 1440 / intervalMinutes
	slog.Info("COMED interval columns",
		slog.Int("columns", len(intervalCols)),
		slog.Int("interval_minutes", intervalMinutes))

	type slot struct {
		value   float64
		present bool
	}
	summed := make(map[time.Time][]slot)
	var dates []time.Time
	meters := make(map[string]bool)
	channelFiltered := 0

	for _, row := range rows[headerIdx+1:] {
		meter := strings.TrimSpace(tabular.Cell(row, meterCol))
		if _, err := strconv.ParseFloat(meter, 64); err != nil {
			continue // trailer or banner row
		}
		if channelCol >= 0 {
			if ch, ok := parseClockInt(tabular.Cell(row, channelCol)); ok && ch != 1 {
				channelFiltered++
				continue
			}
		}
		date, ok := parseDate(tabular.Cell(row, dateCol))
		if !ok {
			continue
		}
		meters[meter] = true

		slots, ok := summed[date]
		if !ok {
			slots = make([]slot, maxIntervals+1)
			summed[date] = slots
			dates = append(dates, date)
		}
		for _, col := range intervalCols {
			if col.number > maxIntervals {
				continue // DST extras
			}
			v, ok := parseUsage(tabular.Cell(row, col.index))
			if !ok {
				continue
			}
			slots[col.number].value += v
			slots[col.number].present = true
		}
	}

	if channelFiltered > 0 {
		slog.Info("Filtered rows for CHANNEL_NBR=1", slog.Int("dropped", channelFiltered))
	}
	slog.Info("Combined COMED meters", slog.Int("meters", len(meters)), slog.Int("dates", len(dates)))

	var records []series.IntervalRecord
	for _, date := range dates {
		slots := summed[date]
		for n := 1; n <= maxIntervals; n++ {
			if !slots[n].present {
				continue
			}
			totalMinutes := n * intervalMinutes
			hour, minute := totalMinutes/60, totalMinutes%60
			records = append(records, series.IntervalRecord{
				Timestamp: intervalEnd(date, hour, minute),
				UsageKWh:  slots[n].value,
			})
		}
	}
	if len(records) == 0 {
		return nil, apperrors.NewNoIntervalDataError("COMED file yielded no interval values")
	}
	slog.Info("Read COMED interval records", slog.Int("count", len(records)))
	return records, nil
}
