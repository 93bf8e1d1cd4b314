// Package files holds path-level helpers for the formatter CLI: cleanup of
// drag-and-drop shell artifacts, input extension checks, and output file
// naming.
package files
