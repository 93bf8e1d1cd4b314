package pipeline

import (
	"context"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"

	"idrcli/internal/config"
	apperrors "idrcli/internal/errors"
	"idrcli/internal/exporter"
	"idrcli/internal/files"
	"idrcli/internal/formats"
	"idrcli/internal/series"
	"idrcli/internal/tabular"
)

// Result summarizes one processed file.
type Result struct {
	InputPath  string
	OutputPath string
	Format     formats.Format
	Sections   int
	Rows       int
}

// Processor runs the formatting pipeline: load, detect, parse, normalize,
// repair, aggregate, segment, export.
type Processor struct {
	cfg config.ProcessingConfig
}

// New creates a processor with the given processing configuration.
func New(cfg config.ProcessingConfig) *Processor {
	return &Processor{cfg: cfg}
}

// ProcessFile formats one input file and writes the report next to it (or
// under the configured output directory). The report lands as
// <stem>_formatted with the input extension; legacy .xls inputs and
// multi-customer First Energy files are written as .xlsx.
func (p *Processor) ProcessFile(ctx context.Context, rawPath string) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	path := files.SanitizePath(rawPath)
	if err := files.ValidateInput(path); err != nil {
		return nil, err
	}

	src, err := tabular.Load(path)
	if err != nil {
		return nil, err
	}
	format := formats.Detect(src)

	sections, err := formats.Read(format, src)
	if err != nil {
		return nil, err
	}

	var sheets []exporter.Sheet
	rowTotal := 0
	for _, section := range sections {
		report, err := p.buildReport(format, section)
		if err != nil {
			if code, ok := apperrors.CodeOf(err); ok && code == apperrors.CodeNoIntervalData && len(sections) > 1 {
				slog.Warn("Skipping customer with no usable interval data",
					slog.String("customer", section.ID),
					slog.String("file", path))
				continue
			}
			return nil, err
		}
		sheets = append(sheets, exporter.Sheet{Name: section.ID, Report: report})
		rowTotal += len(report.Rows)
	}
	if len(sheets) == 0 {
		return nil, apperrors.NewNoIntervalDataError("no customer in the file yielded interval data")
	}

	multiSheet := format == formats.FirstEnergy
	outPath := p.outputPath(path, multiSheet)
	if err := p.write(outPath, sheets, multiSheet); err != nil {
		return nil, err
	}

	result := &Result{
		InputPath:  path,
		OutputPath: outPath,
		Format:     format,
		Sections:   len(sheets),
		Rows:       rowTotal,
	}
	slog.Info("Formatted file",
		slog.String("input", result.InputPath),
		slog.String("output", result.OutputPath),
		slog.String("format", format.String()),
		slog.Int("sections", result.Sections),
		slog.Int("rows", result.Rows))
	return result, nil
}

// buildReport runs one customer's records through the series stages and lays
// out the report.
func (p *Processor) buildReport(format formats.Format, section formats.CustomerSection) (*exporter.Report, error) {
	records := series.Normalize(section.Records)
	interval, err := series.InferInterval(records)
	if err != nil {
		return nil, err
	}

	if format == formats.Duq {
		records = series.FillPartialDays(records)
	}
	records = series.FillSpringForwardGaps(records, interval)

	hourly := series.AggregateHourly(records)
	hourly = series.TrimToMidnight(hourly)
	if len(hourly) == 0 {
		return nil, apperrors.NewNoIntervalDataError("no complete day of hourly data after trimming")
	}

	blocks := series.SegmentYears(hourly)
	return exporter.Assemble(hourly, blocks), nil
}

func (p *Processor) outputPath(inputPath string, forceXLSX bool) string {
	out := files.OutputPath(inputPath, forceXLSX)
	if p.cfg.OutputDir != "" {
		out = files.Redirect(out, p.cfg.OutputDir)
	}
	return out
}

func (p *Processor) write(outPath string, sheets []exporter.Sheet, multiSheet bool) error {
	if multiSheet || strings.HasSuffix(strings.ToLower(outPath), ".xlsx") {
		return exporter.NewWorkbookWriter().WriteSheets(outPath, sheets)
	}
	return exporter.NewCSVWriter().WriteReport(outPath, sheets[0].Report)
}

// ProcessBatch formats every path concurrently, bounded by the configured
// worker count. All files are attempted; the first error (if any) is
// returned after the group drains.
func (p *Processor) ProcessBatch(ctx context.Context, paths []string) ([]*Result, error) {
	results := make([]*Result, len(paths))
	errs := make([]error, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	workers := p.cfg.Workers
	if workers < 1 {
		workers = 1
	}
	g.SetLimit(workers)

	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			res, err := p.ProcessFile(gctx, path)
			if err != nil {
				slog.Error("Failed to format file",
					slog.String("file", path),
					slog.String("error", err.Error()))
				errs[i] = err
				return nil
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var out []*Result
	var firstErr error
	for i := range paths {
		if results[i] != nil {
			out = append(out, results[i])
		} else if firstErr == nil {
			firstErr = errs[i]
		}
	}
	return out, firstErr
}
