// Package exporter assembles the formatted report layout (full hourly series
// beside per-year blocks) and writes it as a single-table CSV or a
// multi-sheet Excel workbook.
package exporter
