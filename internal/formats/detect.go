package formats

import (
	"log/slog"
	"strings"

	"idrcli/internal/tabular"
)

// Prefix depths for signature scans, matching how deep each layout buries
// its markers.
const (
	firstEnergyScanRows = 50
	duqScanRows         = 40
	comedScanRows       = 20
	esgScanRows         = 100
)

// esgQuantitySheet is the sheet name ESG workbooks store interval data in.
const esgQuantitySheet = "IDR Quantity"

// Detect classifies a loaded source into one of the known layouts. The scan
// reads a bounded prefix of the already-materialized cell grid, so it cannot
// disturb any state the reader relies on. Classification is a pure function
// of file content; PSEG is the fallback when no signature matches.
func Detect(src *tabular.Source) Format {
	format := classify(src)
	slog.Info("Detected format",
		slog.String("format", format.String()),
		slog.String("file", src.Path))
	return format
}

func classify(src *tabular.Source) Format {
	switch {
	case isFirstEnergy(src):
		return FirstEnergy
	case isDuq(src):
		return Duq
	case isComed(src):
		return Comed
	case isEsg(src):
		return Esg
	case isBge(src):
		return Bge
	}
	return Pseg
}

// isFirstEnergy tests for the "Customer Identifier" marker in the first
// column of the prefix.
func isFirstEnergy(src *tabular.Source) bool {
	for _, row := range src.Prefix(firstEnergyScanRows) {
		if strings.Contains(tabular.Cell(row, 0), "Customer Identifier") {
			return true
		}
	}
	return false
}

// isDuq tests for the "Customer Identity" header and the hourly detail
// section marker anywhere in the prefix.
func isDuq(src *tabular.Source) bool {
	var hasIdentity, hasDetail bool
	for _, row := range src.Prefix(duqScanRows) {
		joined := strings.Join(row, " ")
		if strings.Contains(joined, "Customer Identity") {
			hasIdentity = true
		}
		if strings.Contains(joined, "Detailed Interval Usage") {
			hasDetail = true
		}
	}
	return hasIdentity && hasDetail
}

// isComed tests for the "INTERVAL USAGE DATA" banner and KW_INTERVAL column
// names.
func isComed(src *tabular.Source) bool {
	var hasBanner, hasIntervals bool
	for _, row := range src.Prefix(comedScanRows) {
		joined := strings.Join(row, " ")
		if strings.Contains(joined, "INTERVAL USAGE DATA") {
			hasBanner = true
		}
		if strings.Contains(joined, "KW_INTERVAL") {
			hasIntervals = true
		}
	}
	return hasBanner && hasIntervals
}

// isEsg tests for the IDR Quantity sheet in workbooks, or the interval
// header row in CSVs (which may bury it under metadata sections).
func isEsg(src *tabular.Source) bool {
	if src.Ext != ".csv" {
		return src.HasSheet(esgQuantitySheet)
	}
	for _, row := range src.Prefix(esgScanRows) {
		joined := strings.Join(row, ",")
		if strings.Contains(joined, "Report Period Date") && strings.Contains(joined, "Interval Ending") {
			return true
		}
	}
	return false
}

// isBge tests the header row for a reading-date column alongside Kwh and a
// time column.
func isBge(src *tabular.Source) bool {
	rows := src.Rows()
	if len(rows) == 0 {
		return false
	}
	cols := make(map[string]bool, len(rows[0]))
	for _, c := range rows[0] {
		cols[strings.ToLower(strings.TrimSpace(c))] = true
	}
	hasDate := cols["rdgdate"] || cols["readdate"]
	hasTime := cols["endtime"] || cols["starttime"]
	return hasDate && cols["kwh"] && hasTime
}
