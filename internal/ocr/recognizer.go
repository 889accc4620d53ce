package ocr

import (
	"context"
	"fmt"
	"strconv"
	"strings"
)

// Recognizer turns one page image into text.
type Recognizer interface {
	Recognize(ctx context.Context, imagePath string) (string, error)
}

// tesseractRecognizer shells out to the tesseract binary.
type tesseractRecognizer struct {
	runner   Runner
	bin      string
	lang     string
	tessdata string
	psm      int
	oem      int
}

func newTesseractRecognizer(cfg Config, runner Runner) tesseractRecognizer {
	return tesseractRecognizer{
		runner:   runner,
		bin:      cfg.Tesseract,
		lang:     cfg.TesseractLang,
		tessdata: cfg.TessdataDir,
		psm:      cfg.PSM,
		oem:      cfg.OEM,
	}
}

func (t tesseractRecognizer) Recognize(ctx context.Context, path string) (string, error) {
	// tesseract <file> stdout -l <lang>
	args := []string{path, "stdout", "-l", t.lang}
	if t.psm > 0 {
		args = append(args, "--psm", strconv.Itoa(t.psm))
	}
	if t.oem > 0 {
		args = append(args, "--oem", strconv.Itoa(t.oem))
	}
	if t.tessdata != "" {
		args = append(args, "--tessdata-dir", t.tessdata)
	}

	out, errb, err := t.runner.Run(ctx, t.bin, args...)
	if err != nil {
		return "", fmt.Errorf("tesseract: %w: %s", err, truncate(strings.TrimSpace(string(errb)), 512))
	}

	// minor cleanup of obvious line noise
	return reBoxNoise.ReplaceAllString(string(out), ""), nil
}
