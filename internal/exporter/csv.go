package exporter

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// CSVWriter writes assembled reports as single-table CSV files.
type CSVWriter struct {
	// BOMPrefix adds a UTF-8 BOM so Excel opens the file cleanly.
	BOMPrefix bool
}

// NewCSVWriter creates a CSV writer with Excel-friendly defaults.
func NewCSVWriter() *CSVWriter {
	return &CSVWriter{BOMPrefix: true}
}

// WriteReport writes one report to filePath, creating parent directories as
// needed.
func (w *CSVWriter) WriteReport(filePath string, report *Report) error {
	slog.Info("Writing CSV report",
		slog.String("path", filePath),
		slog.Int("rows", len(report.Rows)))

	if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	file, err := os.Create(filePath)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	if w.BOMPrefix {
		if _, err := file.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
			return fmt.Errorf("failed to write BOM: %w", err)
		}
	}

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if err := writer.Write(report.Headers); err != nil {
		return fmt.Errorf("failed to write headers: %w", err)
	}
	if err := writer.Write(report.Labels); err != nil {
		return fmt.Errorf("failed to write section labels: %w", err)
	}
	for i, row := range report.Rows {
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i, err)
		}
	}
	return writer.Error()
}
