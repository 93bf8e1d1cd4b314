package formats

import (
	"log/slog"
	"strconv"
	"strings"

	apperrors "idrcli/internal/errors"
	"idrcli/internal/series"
	"idrcli/internal/tabular"
)

// ReadDuq parses the DUQ (Duquesne Light) hourly long format. The detail
// table sits under a "Detailed Interval Usage" banner; its header row names
// the usage columns 1 through 24, each the hour-ending reading for the day
// (column N ends at N:00). QTY and Quality columns are skipped. Days
// truncated by upstream VEE exclusion are repaired later by the partial-day
// fill in the DST engine.
func ReadDuq(src *tabular.Source) ([]series.IntervalRecord, error) {
	rows := src.Rows()

	detailIdx := -1
	for i, row := range rows {
		if strings.Contains(strings.Join(row, " "), "Detailed Interval Usage") {
			detailIdx = i
			break
		}
	}
	if detailIdx < 0 || detailIdx+1 >= len(rows) {
		return nil, apperrors.NewParseError("could not find DUQ detailed interval usage section", nil)
	}

	header := rows[detailIdx+1]
	type hourCol struct {
		index int
		hour  int
	}
	var hourCols []hourCol
	for i, name := range header {
		s := strings.TrimSpace(name)
		if n, err := strconv.Atoi(s); err == nil && n >= 1 && n <= 24 {
			hourCols = append(hourCols, hourCol{index: i, hour: n})
		}
	}
	if len(hourCols) == 0 {
		return nil, apperrors.NewParseError("DUQ header row has no hourly interval columns", nil)
	}
	slog.Info("Found DUQ hourly interval columns", slog.Int("count", len(hourCols)))

	var records []series.IntervalRecord
	for _, row := range rows[detailIdx+2:] {
		date, ok := parseDate(tabular.Cell(row, 0))
		if !ok {
			continue
		}
		for _, col := range hourCols {
			usage, ok := parseUsage(tabular.Cell(row, col.index))
			if !ok {
				continue
			}
			records = append(records, series.IntervalRecord{
				Timestamp: intervalEnd(date, col.hour, 0),
				UsageKWh:  usage,
			})
		}
	}
	if len(records) == 0 {
		return nil, apperrors.NewNoIntervalDataError("DUQ file yielded no interval values")
	}
	slog.Info("Read DUQ hourly records", slog.Int("count", len(records)))
	return records, nil
}
