// Package formats classifies raw utility export files into one of the seven
// known layouts and parses each layout into the canonical end-labeled
// interval series. The detector and every reader work on the tabular cell
// grid only; no downstream stage carries layout knowledge.
package formats
