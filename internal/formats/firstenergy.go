package formats

import (
	"log/slog"
	"strings"
	"time"

	apperrors "idrcli/internal/errors"
	"idrcli/internal/series"
	"idrcli/internal/tabular"
)

// feLastInterval is the marker First Energy uses for the day's final
// 15-minute interval (23:45-24:00). It contributes to the next calendar
// day's midnight reading, it is not a drop candidate.
const feLastInterval = 2359

// validMinutes are the interval-end minute marks a First Energy time column
// may carry.
var validMinutes = map[int]bool{0: true, 15: true, 30: true, 45: true}

type feMeterBlock struct {
	headerRow int
}

type feCustomer struct {
	id       string
	startRow int
	endRow   int
	blocks   []feMeterBlock
}

// ReadFirstEnergy parses the multi-customer First Energy layout into one
// customer section per "Customer Identifier" block that carries interval
// data. Customers marked "No Interval Data Found" are skipped with a log
// line. A customer with several "Reading Date" meter blocks is a sub-metered
// account; its meters sum per timestamp.
func ReadFirstEnergy(src *tabular.Source) ([]CustomerSection, error) {
	rows := src.Rows()
	customers := scanFECustomers(rows)
	slog.Info("Found First Energy customers", slog.Int("count", len(customers)))

	var sections []CustomerSection
	for _, cust := range customers {
		if len(cust.blocks) == 0 {
			slog.Info("Customer has no interval data, skipping",
				slog.String("customer", cust.id))
			continue
		}
		if len(cust.blocks) > 1 {
			slog.Info("Sub-metered customer, summing meters",
				slog.String("customer", cust.id),
				slog.Int("meters", len(cust.blocks)))
		}

		sums := make(map[time.Time]float64)
		for _, block := range cust.blocks {
			readFEMeterBlock(rows, block, cust.endRow, sums)
		}
		if len(sums) == 0 {
			slog.Warn("Customer interval block yielded no records, skipping",
				slog.String("customer", cust.id))
			continue
		}

		records := make([]series.IntervalRecord, 0, len(sums))
		for ts, usage := range sums {
			records = append(records, series.IntervalRecord{Timestamp: ts, UsageKWh: usage})
		}
		sections = append(sections, CustomerSection{ID: cust.id, Records: records})
		slog.Info("Read customer interval records",
			slog.String("customer", cust.id),
			slog.Int("count", len(records)))
	}

	if len(sections) == 0 {
		return nil, apperrors.NewNoIntervalDataError("no customer section carried interval data")
	}
	return sections, nil
}

// scanFECustomers walks the grid once, delimiting customer blocks and the
// "Reading Date" meter header rows inside each.
func scanFECustomers(rows [][]string) []feCustomer {
	var customers []feCustomer
	pendingInterval := false

	for i, row := range rows {
		first := tabular.Cell(row, 0)
		switch {
		case strings.Contains(first, "Customer Identifier"):
			id := strings.TrimSpace(strings.NewReplacer(`\t`, "", "\t", "").Replace(tabular.Cell(row, 1)))
			customers = append(customers, feCustomer{id: id, startRow: i})
			pendingInterval = false
		case len(customers) == 0:
			// Preamble before the first customer marker.
		case strings.Contains(first, "No Interval Data Found"):
			pendingInterval = false
		case strings.Contains(first, "Detailed Interval Usage"):
			pendingInterval = true
		case pendingInterval && strings.Contains(first, "Reading Date"):
			last := &customers[len(customers)-1]
			last.blocks = append(last.blocks, feMeterBlock{headerRow: i})
			pendingInterval = false
		}
	}

	for i := range customers {
		if i+1 < len(customers) {
			customers[i].endRow = customers[i+1].startRow
		} else {
			customers[i].endRow = len(rows)
		}
	}
	return customers
}

// readFEMeterBlock parses one meter block's data rows into the shared
// per-timestamp sums.
func readFEMeterBlock(rows [][]string, block feMeterBlock, endRow int, sums map[time.Time]float64) {
	header := rows[block.headerRow]
	dropped := 0

	for r := block.headerRow + 1; r < endRow; r++ {
		row := rows[r]
		first := tabular.Cell(row, 0)
		if strings.TrimSpace(first) == "" ||
			strings.Contains(first, "Customer") ||
			strings.Contains(first, "Detailed Interval Usage") {
			break
		}

		date, ok := parseDate(first)
		if !ok {
			dropped++
			continue
		}
		for c := 1; c < len(header) && c < len(row); c++ {
			hour, minute, ok := feColumnClock(header[c])
			if !ok {
				continue
			}
			usage, ok := parseUsage(row[c])
			if !ok {
				continue
			}
			sums[intervalEnd(date, hour, minute)] += usage
		}
	}

	if dropped > 0 {
		slog.Info("Dropped unparseable First Energy rows", slog.Int("count", dropped))
	}
}

// feColumnClock decides whether a header cell names an interval-end time and
// returns its clock parts. QTY and DST columns are ignored, as are
// "R "-prefixed received-energy channels; a "D " delivered prefix is
// stripped. The 2359 marker maps to next-day midnight.
func feColumnClock(name string) (hour, minute int, ok bool) {
	s := strings.TrimSpace(name)
	if s == "" || s == "Reading Date" ||
		strings.Contains(s, "QTY") || strings.Contains(s, "DST") {
		return 0, 0, false
	}
	if strings.HasPrefix(s, "R ") {
		return 0, 0, false
	}
	s = strings.TrimSpace(strings.TrimPrefix(s, "D "))

	v, valid := parseClockInt(s)
	if !valid {
		return 0, 0, false
	}
	if v == feLastInterval {
		return 24, 0, true
	}
	hour, minute = splitClock(v)
	if hour > 24 || !validMinutes[minute] {
		return 0, 0, false
	}
	return hour, minute, true
}
