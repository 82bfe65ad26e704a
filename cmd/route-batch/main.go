// Command route-batch classifies every supported file in a directory, prints
// a per-department summary and optionally writes an XLSX report.
//
// Usage:
//
//	route-batch -dir ./inbox [-out report.xlsx] [-archive] [-workers 4]
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"github.com/kirillkom/dept-intake/internal/bootstrap"
	"github.com/kirillkom/dept-intake/internal/config"
	"github.com/kirillkom/dept-intake/internal/core/domain"
	"github.com/kirillkom/dept-intake/internal/core/usecase"
	"github.com/kirillkom/dept-intake/internal/infrastructure/report/xlsx"
	"github.com/kirillkom/dept-intake/internal/infrastructure/storage/localfs"
	"github.com/kirillkom/dept-intake/internal/observability/logging"
)

type options struct {
	dir     string
	out     string
	archive bool
	workers int
}

func main() {
	var opts options
	flag.StringVar(&opts.dir, "dir", "", "directory with documents to route (required)")
	flag.StringVar(&opts.out, "out", "", "path of the XLSX report to write")
	flag.BoolVar(&opts.archive, "archive", false, "copy each processed file to <dir>/<department>/<processed filename>")
	flag.IntVar(&opts.workers, "workers", 0, "files processed concurrently (default BATCH_WORKERS)")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, opts, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "route-batch: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, opts options, stdout io.Writer) error {
	if opts.dir == "" {
		return errors.New("-dir is required")
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger := logging.NewJSONLoggerTo(os.Stderr, "route-batch", cfg.LogLevel)
	slog.SetDefault(logger)

	storage, err := localfs.New(opts.dir)
	if err != nil {
		return err
	}
	coordinator, err := bootstrap.NewBatchCoordinator(cfg, storage, logger, opts.workers)
	if err != nil {
		return err
	}

	keys, err := storage.List(ctx)
	if err != nil {
		return fmt.Errorf("list %s: %w", opts.dir, err)
	}
	files := make([]domain.SourceFile, 0, len(keys))
	for _, key := range keys {
		file := domain.SourceFile{Key: key, OriginalFilename: key}
		if !usecase.IsAllowedExtension(file.Extension()) {
			logger.Info("batch_file_ignored", "file", key, "reason", "unsupported extension")
			continue
		}
		files = append(files, file)
	}

	outcome, err := coordinator.Run(ctx, files)
	if err != nil {
		return err
	}

	if opts.archive {
		archiveAll(ctx, logger, storage, outcome)
	}
	if opts.out != "" {
		if err := xlsx.WriteFile(opts.out, outcome); err != nil {
			return err
		}
		logger.Info("batch_report_written", "path", opts.out)
	}

	return printSummary(stdout, outcome)
}

func archiveAll(ctx context.Context, logger *slog.Logger, storage *localfs.Storage, outcome *domain.BatchOutcome) {
	for _, dept := range domain.AllDepartments() {
		for _, result := range outcome.ByDepartment[dept] {
			key, err := usecase.ArchiveResult(ctx, storage, result)
			if err != nil {
				logger.Warn("batch_archive_failed", "file", result.File.Key, "error", err)
				continue
			}
			logger.Debug("batch_archived", "file", result.File.Key, "archive_key", key)
		}
	}
}

func printSummary(w io.Writer, outcome *domain.BatchOutcome) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "DEPARTMENT\tDOCUMENTS")
	for _, dept := range domain.AllDepartments() {
		fmt.Fprintf(tw, "%s\t%d\n", dept, len(outcome.ByDepartment[dept]))
	}
	fmt.Fprintf(tw, "processed\t%d\n", outcome.Processed())
	fmt.Fprintf(tw, "failed\t%d\n", len(outcome.Failures))
	for _, failure := range outcome.Failures {
		fmt.Fprintf(tw, "  %s\t%s\n", failure.File.Key, failure.Reason)
	}
	return tw.Flush()
}
