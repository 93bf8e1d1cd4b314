// Package pipeline orchestrates the end-to-end formatting run for one or
// more input files: load the tabular content, classify the utility layout,
// parse to a canonical interval series, repair and aggregate it, and write
// the side-by-side yearly report.
package pipeline
