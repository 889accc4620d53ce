//go:build gosseract

package ocr

import (
	"context"
	"fmt"

	"github.com/otiai10/gosseract/v2"
)

// gosseractRecognizer runs Tesseract in-process through cgo.
type gosseractRecognizer struct {
	lang     string
	tessdata string
	psm      int
}

// NewGosseractRecognizer returns the in-process recogniser.
func NewGosseractRecognizer(cfg Config) (Recognizer, error) {
	return gosseractRecognizer{lang: cfg.TesseractLang, tessdata: cfg.TessdataDir, psm: cfg.PSM}, nil
}

func (g gosseractRecognizer) Recognize(ctx context.Context, path string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	client := gosseract.NewClient()
	defer client.Close()

	if g.tessdata != "" {
		if err := client.SetTessdataPrefix(g.tessdata); err != nil {
			return "", fmt.Errorf("gosseract: tessdata: %w", err)
		}
	}
	if err := client.SetLanguage(g.lang); err != nil {
		return "", fmt.Errorf("gosseract: language: %w", err)
	}
	if g.psm > 0 {
		if err := client.SetPageSegMode(gosseract.PageSegMode(g.psm)); err != nil {
			return "", fmt.Errorf("gosseract: psm: %w", err)
		}
	}
	if err := client.SetImage(path); err != nil {
		return "", fmt.Errorf("gosseract: image: %w", err)
	}
	txt, err := client.Text()
	if err != nil {
		return "", fmt.Errorf("gosseract: %w", err)
	}
	return reBoxNoise.ReplaceAllString(txt, ""), nil
}
