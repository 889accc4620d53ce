package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joseph-ayodele/bl-generator/internal/common"
	"github.com/joseph-ayodele/bl-generator/internal/entity"
	"github.com/joseph-ayodele/bl-generator/internal/export"
	"github.com/joseph-ayodele/bl-generator/internal/ingest"
	"github.com/joseph-ayodele/bl-generator/internal/pipeline"
)

func main() {
	format := flag.String("format", "pdf", "output: pdf | json | xlsx")
	out := flag.String("out", "", "output path (default BL_<invoice_no>.<ext> next to the input; - for stdout)")
	embedded := flag.Bool("from-embedded", false, "input is a generated B/L; rebuild it from its embedded record")
	timeout := flag.Duration("timeout", 2*time.Minute, "overall deadline")
	dir := flag.String("dir", "", "generate a B/L for every invoice PDF under this directory")
	outDir := flag.String("out-dir", "", "output directory for -dir (default <dir>/bl)")
	workers := flag.Int("workers", 2, "invoices processed concurrently with -dir")
	flag.Usage = func() {
		fmt.Fprintln(flag.CommandLine.Output(), "usage: blgen [flags] <invoice.pdf>\n       blgen -dir <invoices> [-out-dir <dir>]")
		flag.PrintDefaults()
	}
	flag.Parse()

	if err := common.LoadDotEnv(); err != nil {
		slog.Error("failed to load .env", "error", err)
		os.Exit(1)
	}
	cfg := common.LoadConfig()
	logger := common.NewLogger(cfg.Log, os.Stderr)
	slog.SetDefault(logger)

	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(2)
	}
	if *dir != "" {
		os.Exit(runDir(cfg, logger, *dir, *outDir, *workers, *timeout))
	}
	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}
	in := flag.Arg(0)

	data, err := os.ReadFile(in)
	if err != nil {
		logger.Error("read input", "path", in, "error", err)
		os.Exit(1)
	}
	if err := common.ValidateUpload(filepath.Base(in), int64(len(data)), cfg.Server.MaxUploadBytes); err != nil {
		logger.Error("rejected input", "path", in, "error", err)
		os.Exit(2)
	}

	proc, err := pipeline.NewFromConfig(cfg, logger)
	if err != nil {
		logger.Error("failed to build pipeline", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	start := time.Now()
	result, stem, ext, err := run(ctx, proc, export.NewService(logger), data, *format, *embedded)
	if err != nil {
		logger.Error("generation failed", "path", in, "error", err, "duration_ms", time.Since(start).Milliseconds())
		os.Exit(1)
	}

	dest := *out
	if dest == "" {
		dest = filepath.Join(filepath.Dir(in), fmt.Sprintf("BL_%s.%s", strings.ReplaceAll(stem, "/", "_"), ext))
	}
	if dest == "-" {
		_, err = os.Stdout.Write(result)
	} else {
		err = os.WriteFile(dest, result, 0o644)
	}
	if err != nil {
		logger.Error("write output", "path", dest, "error", err)
		os.Exit(1)
	}

	logger.Info("generation OK",
		"input", in,
		"output", dest,
		"format", *format,
		"bytes", len(result),
		"duration_ms", time.Since(start).Milliseconds(),
	)
}

// runDir is the batch mode: every PDF under dir becomes BL_<invoice_no>.pdf
// in outDir. It returns the process exit code.
func runDir(cfg *common.Config, logger *slog.Logger, dir, outDir string, workers int, timeout time.Duration) int {
	if outDir == "" {
		outDir = filepath.Join(dir, "bl")
	}
	proc, err := pipeline.NewFromConfig(cfg, logger)
	if err != nil {
		logger.Error("failed to build pipeline", "error", err)
		return 1
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	results, stats, err := ingest.NewBatch(proc, outDir, workers, cfg.Server.MaxUploadBytes, logger).
		GenerateDirectory(ctx, dir, true)
	for _, r := range results {
		if r.Err != "" {
			fmt.Fprintf(os.Stderr, "FAIL %s: %s\n", r.SourcePath, r.Err)
			continue
		}
		fmt.Printf("OK   %s -> %s\n", r.SourcePath, r.OutputPath)
	}
	fmt.Printf("matched=%d succeeded=%d deduplicated=%d failed=%d\n",
		stats.Matched, stats.Succeeded, stats.Deduplicated, stats.Failed)
	if err != nil {
		logger.Error("batch failed", "dir", dir, "error", err)
		return 1
	}
	if stats.Failed > 0 {
		return 1
	}
	return 0
}

func run(ctx context.Context, proc *pipeline.Processor, xlsx *export.Service, data []byte, format string, embedded bool) ([]byte, string, string, error) {
	switch format {
	case "pdf":
		var doc pipeline.Document
		var err error
		if embedded {
			doc, err = proc.GenerateFromEmbedded(ctx, data)
		} else {
			doc, err = proc.GenerateBL(ctx, data)
		}
		if err != nil {
			return nil, "", "", err
		}
		return doc.PDF, doc.Record.FileStem(), "pdf", nil

	case "json", "xlsx":
		var rec entity.InvoiceRecord
		var err error
		if embedded {
			rec, err = proc.RecordFromEmbedded(ctx, data)
		} else {
			rec, err = proc.ExtractRecord(ctx, data)
		}
		if err != nil {
			return nil, "", "", err
		}
		if format == "xlsx" {
			b, err := xlsx.RecordXLSX(rec)
			return b, rec.FileStem(), "xlsx", err
		}
		b, err := json.MarshalIndent(rec, "", "  ")
		return append(b, '\n'), rec.FileStem(), "json", err

	default:
		return nil, "", "", fmt.Errorf("unknown format %q", format)
	}
}
