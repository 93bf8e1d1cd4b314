package series

import "log/slog"

// SegmentYears partitions a trimmed ascending hourly series into year blocks
// of HoursPerYear records each, slicing from the newest end backward. Block 1
// holds the most recent hours; the oldest block may be shorter. Each block's
// records stay in ascending order for display.
func SegmentYears(records []HourlyRecord) []YearBlock {
	if len(records) == 0 {
		return nil
	}

	var blocks []YearBlock
	end := len(records)
	for number := 1; end > 0; number++ {
		start := end - HoursPerYear
		if start < 0 {
			start = 0
		}
		block := YearBlock{Number: number, Records: records[start:end]}
		blocks = append(blocks, block)
		end = start
	}

	slog.Info("Segmented series into year blocks",
		slog.Int("hourly_records", len(records)),
		slog.Int("blocks", len(blocks)))
	return blocks
}
