package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strings"

	"idrcli/internal/config"
	apperrors "idrcli/internal/errors"
	"idrcli/internal/files"
	"idrcli/internal/infrastructure"
	"idrcli/internal/pipeline"
)

const banner = `
===============================================
  IDR File Formatter
  Interval usage data -> yearly hourly report
===============================================`

func main() {
	outDir := flag.String("out", "", "output directory (defaults to writing next to each input file)")
	workers := flag.Int("workers", 0, "max concurrent files in batch mode (0 = one per CPU)")
	noPause := flag.Bool("no-pause", false, "skip the exit prompt after batch mode (for scripts)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		slog.Warn("Failed to load config, using defaults", "error", err)
		cfg = &config.Config{
			Logging: config.LoggingConfig{
				Level:    "info",
				Output:   "console",
				FilePath: "logs/formatter.log",
			},
		}
	}
	if *outDir != "" {
		cfg.Processing.OutputDir = *outDir
	}
	if *workers > 0 {
		cfg.Processing.Workers = *workers
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Warn("Failed to initialize logger, using default", "error", err)
		logger = slog.Default()
	}
	defer infrastructure.CloseLogFile()

	fmt.Println(banner)
	logger.Info("Starting IDR file formatter",
		slog.String("output_dir", cfg.Processing.OutputDir),
		slog.Int("workers", cfg.Processing.Workers))

	processor := pipeline.New(cfg.Processing)
	ctx := context.Background()

	if args := flag.Args(); len(args) > 0 {
		failed := runBatch(ctx, processor, args)
		if !*noPause {
			// Files dragged onto the executable open a window that would
			// close before the user can read the result.
			fmt.Print("\nPress Enter to exit...")
			bufio.NewReader(os.Stdin).ReadString('\n')
		}
		if failed {
			os.Exit(1)
		}
		return
	}

	runInteractive(ctx, processor)
}

// runBatch formats every path given on the command line and reports per-file
// outcomes. Returns true if any file failed.
func runBatch(ctx context.Context, processor *pipeline.Processor, paths []string) bool {
	results, err := processor.ProcessBatch(ctx, paths)
	for _, res := range results {
		fmt.Printf("Formatted %s (%s) -> %s\n", res.InputPath, res.Format, res.OutputPath)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return true
	}
	fmt.Printf("Done: %d file(s) formatted\n", len(results))
	return false
}

// runInteractive prompts for one file path at a time until the user quits.
func runInteractive(ctx context.Context, processor *pipeline.Processor) {
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("\nEnter file path (or 'quit' to exit): ")
		if !scanner.Scan() {
			break
		}
		input := strings.TrimSpace(scanner.Text())
		switch strings.ToLower(input) {
		case "":
			continue
		case "quit", "exit", "q":
			return
		}

		res, err := processor.ProcessFile(ctx, input)
		if err != nil {
			printError(err)
			continue
		}
		fmt.Printf("Formatted %s (%s)\nOutput: %s\n", res.InputPath, res.Format, res.OutputPath)
	}
}

// printError renders a pipeline error for the terminal user. The typed error
// already carries its code.
func printError(err error) {
	fmt.Printf("Error: %v\n", err)
	if code, ok := apperrors.CodeOf(err); ok && code == apperrors.CodeUnsupportedFileType {
		exts := make([]string, 0, len(files.SupportedExtensions))
		for ext := range files.SupportedExtensions {
			exts = append(exts, ext)
		}
		sort.Strings(exts)
		fmt.Printf("Supported types: %s\n", strings.Join(exts, ", "))
	}
}
