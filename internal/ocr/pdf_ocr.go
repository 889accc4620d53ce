package ocr

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"
)

var errNoPages = errors.New("pdftoppm produced no images")

func (e *Extractor) pdfToOCR(ctx context.Context, pdf []byte) (text string, pages int, warnings []string, err error) {
	tmpDir, err := os.MkdirTemp("", "bl-pp-*")
	if err != nil {
		return "", 0, nil, err
	}
	defer func(path string) {
		if err := os.RemoveAll(path); err != nil {
			e.logger.Warn("ocr.tmpdir.cleanup_failed", "dir", path, "error", err)
		}
	}(tmpDir)

	in := filepath.Join(tmpDir, "input.pdf")
	if err := os.WriteFile(in, pdf, 0o600); err != nil {
		return "", 0, nil, err
	}

	prefix := filepath.Join(tmpDir, "page")
	// pdftoppm -r 300 -png <in.pdf> <tmp/page>
	_, errb, err := e.runner.Run(ctx, e.cfg.Pdftoppm, "-r", strconv.Itoa(e.cfg.DPI), "-png", in, prefix)
	if err != nil {
		return "", 0, []string{strings.TrimSpace(string(errb))}, fmt.Errorf("pdftoppm: %w", err)
	}

	// collect generated pngs (page-1.png, page-2.png, ...); pdftoppm zero-pads so they sort
	matches, _ := filepath.Glob(prefix + "-*.png")
	sort.Strings(matches)
	if e.cfg.MaxPages > 0 && len(matches) > e.cfg.MaxPages {
		warnings = append(warnings, fmt.Sprintf("only the first %d of %d pages recognised", e.cfg.MaxPages, len(matches)))
		matches = matches[:e.cfg.MaxPages]
	}
	if len(matches) == 0 {
		return "", 0, warnings, errNoPages
	}

	texts := make([]string, len(matches))
	pageWarns := make([][]string, len(matches))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.cfg.Workers)
	for i, img := range matches {
		g.Go(func() error {
			path := img
			if e.cfg.Enhance {
				enhanced, err := enhancePage(img)
				if err != nil {
					pageWarns[i] = append(pageWarns[i], fmt.Sprintf("page %d: %v", i+1, err))
				} else {
					path = enhanced
				}
			}
			txt, err := e.recognizer.Recognize(gctx, path)
			if err != nil {
				if ctxErr := gctx.Err(); ctxErr != nil {
					return ctxErr
				}
				pageWarns[i] = append(pageWarns[i], fmt.Sprintf("page %d: %v", i+1, err))
				return nil
			}
			texts[i] = txt
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return "", len(matches), warnings, err
	}

	var b strings.Builder
	for i, txt := range texts {
		warnings = append(warnings, pageWarns[i]...)
		if strings.TrimSpace(txt) == "" {
			continue
		}
		if b.Len() > 0 {
			b.WriteString("\n")
		}
		b.WriteString(txt)
	}
	return b.String(), len(matches), warnings, nil
}
