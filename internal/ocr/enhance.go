package ocr

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
)

// enhancePage writes a grayscale, contrast-boosted, sharpened copy of a page
// image next to the original and returns its path.
func enhancePage(path string) (string, error) {
	img, err := imaging.Open(path)
	if err != nil {
		return "", fmt.Errorf("open page image: %w", err)
	}
	out := imaging.Grayscale(img)
	out = imaging.AdjustContrast(out, 30)
	out = imaging.Sharpen(out, 1.5)
	out = imaging.AdjustGamma(out, 1.2)

	dst := strings.TrimSuffix(path, filepath.Ext(path)) + "-enh.png"
	if err := imaging.Save(out, dst); err != nil {
		return "", fmt.Errorf("save enhanced page: %w", err)
	}
	return dst, nil
}
