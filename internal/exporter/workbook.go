package exporter

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"
)

// sheetNameLimit is the Excel sheet-name length cap.
const sheetNameLimit = 31

// Sheet pairs a report with the sheet name it renders under (the customer
// identifier for First Energy output).
type Sheet struct {
	Name   string
	Report *Report
}

// WorkbookWriter writes assembled reports as xlsx workbooks, one sheet per
// report.
type WorkbookWriter struct{}

// NewWorkbookWriter creates a workbook writer.
func NewWorkbookWriter() *WorkbookWriter {
	return &WorkbookWriter{}
}

// WriteReport writes a single-sheet workbook.
func (w *WorkbookWriter) WriteReport(filePath string, report *Report) error {
	return w.WriteSheets(filePath, []Sheet{{Name: "OUTPUT", Report: report}})
}

// WriteSheets writes one workbook holding every sheet in order. Sheet names
// truncate to the Excel limit.
func (w *WorkbookWriter) WriteSheets(filePath string, sheets []Sheet) error {
	if len(sheets) == 0 {
		return fmt.Errorf("no sheets to write")
	}
	if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	for i, sheet := range sheets {
		name := SheetName(sheet.Name)
		if i == 0 {
			if err := f.SetSheetName(f.GetSheetName(0), name); err != nil {
				return fmt.Errorf("failed to name sheet %q: %w", name, err)
			}
		} else if _, err := f.NewSheet(name); err != nil {
			return fmt.Errorf("failed to add sheet %q: %w", name, err)
		}

		if err := writeSheetRows(f, name, sheet.Report); err != nil {
			return err
		}
		slog.Info("Added report sheet",
			slog.String("sheet", name),
			slog.Int("rows", len(sheet.Report.Rows)))
	}

	if err := f.SaveAs(filePath); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	slog.Info("Wrote workbook", slog.String("path", filePath), slog.Int("sheets", len(sheets)))
	return nil
}

func writeSheetRows(f *excelize.File, sheet string, report *Report) error {
	write := func(rowNum int, cells []string) error {
		for c, cell := range cells {
			if cell == "" {
				continue
			}
			axis, err := excelize.CoordinatesToCellName(c+1, rowNum)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, axis, cell); err != nil {
				return err
			}
		}
		return nil
	}

	if err := write(1, report.Headers); err != nil {
		return fmt.Errorf("failed to write headers: %w", err)
	}
	if err := write(2, report.Labels); err != nil {
		return fmt.Errorf("failed to write section labels: %w", err)
	}
	for i, row := range report.Rows {
		if err := write(i+3, row); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i, err)
		}
	}
	return nil
}

// SheetName truncates a customer identifier to the host sheet-name limit.
// Truncation counts runes so a multi-byte identifier is never split
// mid-character.
func SheetName(id string) string {
	if id == "" {
		return "OUTPUT"
	}
	if runes := []rune(id); len(runes) > sheetNameLimit {
		return string(runes[:sheetNameLimit])
	}
	return id
}
