// Package tabular loads raw utility export files into an in-memory grid of
// string cells, hiding the difference between CSV and Excel containers from
// the format detector and readers. CSV loading tolerates ragged rows,
// sniffs comma vs. tab delimiters, and falls back from UTF-8 to Windows-1252
// before giving up on a file's encoding.
package tabular
