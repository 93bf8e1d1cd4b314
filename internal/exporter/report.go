package exporter

import (
	"fmt"
	"time"

	"idrcli/internal/series"
)

// timestampLayout is the rendering format for every report timestamp.
const timestampLayout = "01/02/2006 15:04"

// Report is the assembled tabular layout: a header row, a section-label row,
// and data rows holding the full series plus each year block side by side,
// with one blank separator column between each (timestamp, usage) pair.
type Report struct {
	Headers []string
	Labels  []string
	Rows    [][]string
}

// Assemble lays out the trimmed hourly series and its year blocks. The full
// series and every block render oldest-to-newest; shorter blocks pad with
// empty cells. Timestamps render as interval ends (HourStart + 1h), matching
// the column header, so a formatted file re-ingests on the same hour grid.
func Assemble(full []series.HourlyRecord, blocks []series.YearBlock) *Report {
	headers := []string{"Intv End Date/Time", "Usage"}
	labels := []string{"OUTPUT", ""}
	for _, b := range blocks {
		headers = append(headers, "",
			fmt.Sprintf("YEAR %d - Intv End Date/Time", b.Number),
			fmt.Sprintf("YEAR %d - Usage", b.Number))
		labels = append(labels, "", fmt.Sprintf("YEAR %d", b.Number), "")
	}

	rows := make([][]string, len(full))
	for i, r := range full {
		row := make([]string, 0, len(headers))
		row = append(row, formatTimestamp(r.HourStart.Add(time.Hour)), formatUsage(r.UsageKWh))
		for _, b := range blocks {
			if i < len(b.Records) {
				br := b.Records[i]
				row = append(row, "", formatTimestamp(br.HourStart.Add(time.Hour)), formatUsage(br.UsageKWh))
			} else {
				row = append(row, "", "", "")
			}
		}
		rows[i] = row
	}

	return &Report{Headers: headers, Labels: labels, Rows: rows}
}

func formatTimestamp(t time.Time) string {
	return t.Format(timestampLayout)
}

func formatUsage(v float64) string {
	return fmt.Sprintf("%.3f", v)
}
