package formats

import (
	"log/slog"
	"regexp"
	"strings"
	"time"

	apperrors "idrcli/internal/errors"
	"idrcli/internal/series"
	"idrcli/internal/tabular"
)

// esgKWhUnit marks the kWh measurement rows; K1/K3/KW rows for the same date
// are demand or register readings and are excluded when units are mixed.
const esgKWhUnit = "KH"

// esgClockSuffix extracts the trailing HHMM from an interval column name
// ("Interval Ending 0015" -> "0015").
var esgClockSuffix = regexp.MustCompile(`(\d{4})$`)

type esgColumn struct {
	index  int
	hour   int
	minute int
}

// ReadEsg parses the ESG wide row-per-day layout. The true header row is
// located by scanning, since CSV exports prepend metadata sections. Interval
// columns named with a DST fall-back marker ("DS") are dropped so every day
// keeps a uniform column set. When the file carries more than one meter,
// usage is summed across meters per date and interval; otherwise duplicate
// date rows merge by first non-null value per column.
func ReadEsg(src *tabular.Source) ([]series.IntervalRecord, error) {
	rows := src.Rows()
	if src.Ext != ".csv" && src.HasSheet(esgQuantitySheet) {
		rows = src.SheetRows(esgQuantitySheet)
	}

	headerIdx := -1
	for i, row := range rows {
		if i >= esgScanRows {
			break
		}
		joined := strings.Join(row, ",")
		if strings.Contains(joined, "Report Period Date") && strings.Contains(joined, "Interval Ending") {
			headerIdx = i
			break
		}
	}
	if headerIdx < 0 {
		return nil, apperrors.NewParseError("could not find ESG interval header row", nil)
	}

	header := rows[headerIdx]
	dateCol, unitCol, meterCol := -1, -1, -1
	var intervalCols []esgColumn
	dsDropped := 0
	for i, name := range header {
		name = strings.TrimSpace(name)
		switch {
		case name == "Report Period Date":
			dateCol = i
		case name == "Measurement Unit":
			unitCol = i
		case name == "Meter Number":
			meterCol = i
		case strings.HasPrefix(name, "Interval Ending"):
			if strings.Contains(name, "DS") {
				dsDropped++
				continue
			}
			m := esgClockSuffix.FindStringSubmatch(name)
			if m == nil {
				continue
			}
			hour, minute := splitClock(mustAtoi(m[1]))
			intervalCols = append(intervalCols, esgColumn{index: i, hour: hour, minute: minute})
		}
	}
	if dateCol < 0 || len(intervalCols) == 0 {
		return nil, apperrors.NewParseError("ESG header row lacks date or interval columns", nil)
	}
	if dsDropped > 0 {
		slog.Info("Dropped DST fall-back columns", slog.Int("count", dsDropped))
	}

	type esgRow struct {
		date  time.Time
		unit  string
		meter string
		cells []string
	}
	var data []esgRow
	for _, row := range rows[headerIdx+1:] {
		date, ok := parseEsgDate(tabular.Cell(row, dateCol))
		if !ok {
			continue
		}
		r := esgRow{date: date, cells: row}
		if unitCol >= 0 {
			r.unit = strings.TrimSpace(tabular.Cell(row, unitCol))
		}
		if meterCol >= 0 {
			r.meter = strings.TrimSpace(tabular.Cell(row, meterCol))
		}
		data = append(data, r)
	}
	if len(data) == 0 {
		return nil, apperrors.NewNoIntervalDataError("ESG file yielded no parseable date rows")
	}

	// Keep only kWh rows when the file mixes measurement units.
	if unitCol >= 0 {
		khCount := 0
		for _, r := range data {
			if r.unit == esgKWhUnit {
				khCount++
			}
		}
		if khCount > 0 && khCount < len(data) {
			slog.Info("Filtering for KH measurement unit",
				slog.Int("kept", khCount),
				slog.Int("total", len(data)))
			kept := data[:0]
			for _, r := range data {
				if r.unit == esgKWhUnit {
					kept = append(kept, r)
				}
			}
			data = kept
		}
	}

	meters := make(map[string]bool)
	for _, r := range data {
		if r.meter != "" {
			meters[r.meter] = true
		}
	}
	multiMeter := len(meters) > 1
	if multiMeter {
		slog.Info("ESG multi-meter file, summing across meters", slog.Int("meters", len(meters)))
	}

	type slot struct {
		value   float64
		present bool
	}
	merged := make(map[time.Time][]slot)
	var dates []time.Time
	for _, r := range data {
		slots, ok := merged[r.date]
		if !ok {
			slots = make([]slot, len(intervalCols))
			merged[r.date] = slots
			dates = append(dates, r.date)
		}
		for ci, col := range intervalCols {
			v, ok := parseUsage(tabular.Cell(r.cells, col.index))
			if !ok {
				continue
			}
			if multiMeter {
				slots[ci].value += v
				slots[ci].present = true
			} else if !slots[ci].present {
				// Duplicate date rows merge by first non-null value.
				slots[ci].value = v
				slots[ci].present = true
			}
		}
	}

	var records []series.IntervalRecord
	for _, date := range dates {
		for ci, col := range intervalCols {
			s := merged[date][ci]
			if !s.present {
				continue
			}
			records = append(records, series.IntervalRecord{
				Timestamp: intervalEnd(date, col.hour, col.minute),
				UsageKWh:  s.value,
			})
		}
	}
	if len(records) == 0 {
		return nil, apperrors.NewNoIntervalDataError("ESG file yielded no interval values")
	}
	slog.Info("Read ESG interval records",
		slog.Int("count", len(records)),
		slog.Int("dates", len(dates)))
	return records, nil
}

// parseEsgDate parses the YYYYMMDD report period date, tolerating a trailing
// ".0" from spreadsheet round-trips.
func parseEsgDate(cell string) (time.Time, bool) {
	s := strings.TrimSpace(cell)
	s = strings.TrimSuffix(s, ".0")
	if len(s) != 8 {
		return time.Time{}, false
	}
	t, err := time.Parse("20060102", s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// mustAtoi converts digits already matched by a \d regexp.
func mustAtoi(s string) int {
	n := 0
	for _, c := range s {
		n = n*10 + int(c-'0')
	}
	return n
}
