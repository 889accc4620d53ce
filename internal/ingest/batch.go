package ingest

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/joseph-ayodele/bl-generator/constants"
	"github.com/joseph-ayodele/bl-generator/internal/common"
)

// Batch generates a B/L for every invoice PDF under a directory.
type Batch struct {
	gen      Generator
	outDir   string
	workers  int
	maxBytes int64
	logger   *slog.Logger
}

func NewBatch(gen Generator, outDir string, workers int, maxBytes int64, logger *slog.Logger) *Batch {
	if logger == nil {
		logger = slog.Default()
	}
	if workers <= 0 {
		workers = 1
	}
	return &Batch{gen: gen, outDir: outDir, workers: workers, maxBytes: maxBytes, logger: logger}
}

// pending is a matched file waiting for generation.
type pending struct {
	index int
	data  []byte
}

// GenerateDirectory walks root, skips hidden entries if requested, and
// generates one B/L per distinct PDF. Files with identical bytes are
// generated once. Results follow walk order.
func (b *Batch) GenerateDirectory(ctx context.Context, root string, skipHidden bool) ([]Result, DirStats, error) {
	if strings.TrimSpace(root) == "" {
		return nil, DirStats{}, errors.New("root_path is required")
	}
	if err := os.MkdirAll(b.outDir, 0o755); err != nil {
		return nil, DirStats{}, fmt.Errorf("create output dir: %w", err)
	}
	outAbs, _ := filepath.Abs(b.outDir)

	var (
		results []Result
		stats   DirStats
		work    []pending
		seen    = map[string]int{} // hash -> index of first result
	)

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		stats.Scanned++
		if walkErr != nil {
			results = append(results, Result{SourcePath: path, Err: walkErr.Error()})
			stats.Failed++
			return nil
		}
		if skipHidden && IsHidden(path) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			if abs, _ := filepath.Abs(path); abs == outAbs && path != root {
				return filepath.SkipDir
			}
			return nil
		}
		if !constants.IsPDFName(path) {
			return nil
		}
		stats.Matched++

		data, err := os.ReadFile(path)
		if err == nil {
			err = common.ValidateUpload(filepath.Base(path), int64(len(data)), b.maxBytes)
		}
		if err != nil {
			results = append(results, Result{SourcePath: path, Err: err.Error()})
			stats.Failed++
			return nil
		}

		sum := sha256.Sum256(data)
		r := Result{SourcePath: path, HashHex: hex.EncodeToString(sum[:])}
		if _, dup := seen[r.HashHex]; dup {
			r.Deduplicated = true
			results = append(results, r)
			return nil
		}
		seen[r.HashHex] = len(results)
		work = append(work, pending{index: len(results), data: data})
		results = append(results, r)
		return nil
	})
	if err != nil {
		return results, stats, fmt.Errorf("walk: %w", err)
	}

	b.generate(ctx, results, work)

	for i := range results {
		r := &results[i]
		if r.Deduplicated {
			first := results[seen[r.HashHex]]
			r.OutputPath, r.InvoiceNo, r.Embedded, r.Err = first.OutputPath, first.InvoiceNo, first.Embedded, first.Err
			stats.Deduplicated++
		}
		if r.Err != "" {
			if r.HashHex != "" {
				stats.Failed++
			}
			continue
		}
		stats.Succeeded++
	}

	b.logger.Info("ingest.directory.done",
		"root", root,
		"matched", stats.Matched,
		"succeeded", stats.Succeeded,
		"deduplicated", stats.Deduplicated,
		"failed", stats.Failed,
	)
	return results, stats, ctx.Err()
}

// generate runs the pipeline over work with at most b.workers files in
// flight and records outcomes in results.
func (b *Batch) generate(ctx context.Context, results []Result, work []pending) {
	var (
		mu    sync.Mutex
		taken = map[string]bool{}
	)
	var g errgroup.Group
	g.SetLimit(b.workers)

	for _, p := range work {
		g.Go(func() error {
			r := &results[p.index]
			start := time.Now()

			doc, err := b.gen.GenerateBL(ctx, p.data)
			if err != nil {
				b.logger.Warn("ingest.file.failed", "path", r.SourcePath, "err", err)
				mu.Lock()
				r.Err = err.Error()
				mu.Unlock()
				return nil
			}

			mu.Lock()
			name := outputName(doc.Record.FileStem(), r.HashHex, taken)
			mu.Unlock()
			out := filepath.Join(b.outDir, name)
			werr := os.WriteFile(out, doc.PDF, 0o644)

			mu.Lock()
			defer mu.Unlock()
			if werr != nil {
				r.Err = werr.Error()
				return nil
			}
			r.OutputPath, r.InvoiceNo, r.Embedded = out, doc.Record.InvoiceNo, doc.Embedded
			b.logger.Info("ingest.file.ok",
				"path", r.SourcePath,
				"output", out,
				"invoice_no", r.InvoiceNo,
				"duration_ms", time.Since(start).Milliseconds(),
			)
			return nil
		})
	}
	_ = g.Wait()
}
