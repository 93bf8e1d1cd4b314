package formats

import (
	"log/slog"

	apperrors "idrcli/internal/errors"
	"idrcli/internal/series"
	"idrcli/internal/tabular"
)

// psegHeaderRows is the fixed number of leading non-data rows in a PSEG
// export.
const psegHeaderRows = 3

// ReadPseg parses the fallback two-column layout: column 0 holds the
// interval-end timestamp, column 1 the usage. Rows whose timestamp or usage
// fails to parse are dropped.
func ReadPseg(src *tabular.Source) ([]series.IntervalRecord, error) {
	rows := src.Rows()
	if len(rows) <= psegHeaderRows {
		return nil, apperrors.NewNoIntervalDataError("PSEG file has no data rows")
	}

	var records []series.IntervalRecord
	dropped := 0
	for _, row := range rows[psegHeaderRows:] {
		ts, ok := parseDateTime(tabular.Cell(row, 0))
		if !ok {
			dropped++
			continue
		}
		usage, ok := parseUsage(tabular.Cell(row, 1))
		if !ok {
			dropped++
			continue
		}
		records = append(records, series.IntervalRecord{Timestamp: ts, UsageKWh: usage})
	}

	if dropped > 0 {
		slog.Info("Dropped unparseable PSEG rows", slog.Int("count", dropped))
	}
	if len(records) == 0 {
		return nil, apperrors.NewNoIntervalDataError("PSEG file yielded no parseable interval rows")
	}
	slog.Info("Read PSEG interval records", slog.Int("count", len(records)))
	return records, nil
}
