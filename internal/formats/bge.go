package formats

import (
	"log/slog"
	"strconv"
	"strings"
	"time"

	apperrors "idrcli/internal/errors"
	"idrcli/internal/series"
	"idrcli/internal/tabular"
)

// ReadBge parses the BGE long row-per-interval layout. Two sub-variants
// exist: the 15-minute variant (RdgDate) encodes the interval end as an HMM
// clock reading (115 -> 01:15), and the hourly variant (ReadDate) encodes
// the hour's last minute as H59 (159 -> hour ending 02:00). Newer hourly exports
// carry a StartTime column (0100 -> hour starting 01:00) instead. All three
// encodings convert to absolute end-of-interval timestamps. November
// fall-back shows up as raw duplicate rows and is dropped by the normalizer.
func ReadBge(src *tabular.Source) ([]series.IntervalRecord, error) {
	rows := src.Rows()
	if len(rows) < 2 {
		return nil, apperrors.NewNoIntervalDataError("BGE file has no data rows")
	}

	cols := make(map[string]int, len(rows[0]))
	for i, name := range rows[0] {
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}

	dateCol, hourly := -1, false
	if i, ok := cols["rdgdate"]; ok {
		dateCol = i
		slog.Info("Detected BGE 15-min variant")
	} else if i, ok := cols["readdate"]; ok {
		dateCol, hourly = i, true
		slog.Info("Detected BGE hourly variant")
	} else {
		return nil, apperrors.NewParseError("BGE file lacks RdgDate or ReadDate column", nil)
	}

	kwhCol, ok := cols["kwh"]
	if !ok {
		return nil, apperrors.NewParseError("BGE file lacks Kwh column", nil)
	}
	startCol, hasStart := cols["starttime"]
	endCol, hasEnd := cols["endtime"]
	if !hasStart && !hasEnd {
		return nil, apperrors.NewParseError("BGE file lacks StartTime or EndTime column", nil)
	}

	var records []series.IntervalRecord
	dropped := 0
	for _, row := range rows[1:] {
		date, ok := parseDate(tabular.Cell(row, dateCol))
		if !ok {
			dropped++
			continue
		}
		usage, ok := parseUsage(tabular.Cell(row, kwhCol))
		if !ok {
			dropped++
			continue
		}

		var end time.Time
		switch {
		case hourly && hasStart:
			start, ok := parseClockInt(tabular.Cell(row, startCol))
			if !ok {
				dropped++
				continue
			}
			hour, _ := splitClock(start)
			end = intervalEnd(date, hour+1, 0)
		case hourly:
			raw, ok := parseClockInt(tabular.Cell(row, endCol))
			if !ok {
				dropped++
				continue
			}
			end = intervalEnd(date, bgeHourEnding(raw), 0)
		default:
			raw, ok := parseClockInt(tabular.Cell(row, endCol))
			if !ok {
				dropped++
				continue
			}
			hour, minute := splitClock(raw)
			end = intervalEnd(date, hour, minute)
		}
		records = append(records, series.IntervalRecord{Timestamp: end, UsageKWh: usage})
	}

	if dropped > 0 {
		slog.Info("Dropped unparseable BGE rows", slog.Int("count", dropped))
	}
	if len(records) == 0 {
		return nil, apperrors.NewNoIntervalDataError("BGE file yielded no parseable interval rows")
	}
	slog.Info("Read BGE interval records", slog.Int("count", len(records)))
	return records, nil
}

// bgeHourEnding decodes the H59 hourly encoding: HH59 is the last minute of
// the hour starting at HH, so the interval closes at HH+1 (59 -> 01:00,
// 159 -> 02:00, 2359 -> next-day midnight). This keeps the EndTime and
// StartTime sub-variants on the same grid: StartTime 0100 and EndTime 0159
// name the same physical hour and both land on end 02:00. Values without the
// 59 suffix fall back to HMM hour digits read as the end hour.
func bgeHourEnding(raw int) int {
	s := strconv.Itoa(raw)
	if strings.HasSuffix(s, "59") {
		if len(s) <= 2 {
			return 1
		}
		h, _ := strconv.Atoi(s[:len(s)-2])
		return h + 1
	}
	return raw / 100
}

// parseClockInt coerces a numeric time cell (possibly zero-padded or carrying
// a spreadsheet ".0" suffix) to its integer clock encoding.
func parseClockInt(cell string) (int, bool) {
	s := strings.TrimSpace(cell)
	s = strings.TrimSuffix(s, ".0")
	if s == "" {
		return 0, false
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return v, true
}
