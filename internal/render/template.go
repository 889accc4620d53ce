package render

import (
	"bytes"
	"fmt"
	"image"
	"os"
	"strings"

	"github.com/disintegration/imaging"
)

// A4 in points, used when no template image is available.
const (
	a4Width  = 595.28
	a4Height = 841.89
)

// pageTemplate is the background image of the B/L form. The page takes the
// image's pixel size as its size in points.
type pageTemplate struct {
	width     float64
	height    float64
	image     []byte
	imageType string // "JPG" | "PNG" | "GIF"; empty means no background
}

func blankA4() pageTemplate {
	return pageTemplate{width: a4Width, height: a4Height}
}

func (t pageTemplate) hasImage() bool { return len(t.image) > 0 }

// loadTemplate reads and decodes the template image. Formats the PDF writer
// cannot embed directly are re-encoded as PNG.
func loadTemplate(path string) (pageTemplate, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return pageTemplate{}, err
	}
	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return pageTemplate{}, fmt.Errorf("decode template: %w", err)
	}
	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return pageTemplate{}, fmt.Errorf("decode template config: %w", err)
	}

	b := img.Bounds()
	t := pageTemplate{width: float64(b.Dx()), height: float64(b.Dy())}
	if t.width <= 0 || t.height <= 0 {
		return pageTemplate{}, fmt.Errorf("template %s has no area", path)
	}

	switch strings.ToLower(format) {
	case "jpeg":
		t.image, t.imageType = data, "JPG"
	case "png", "gif":
		t.image, t.imageType = data, strings.ToUpper(format)
	default:
		var buf bytes.Buffer
		if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
			return pageTemplate{}, fmt.Errorf("re-encode template: %w", err)
		}
		t.image, t.imageType = buf.Bytes(), "PNG"
	}
	return t, nil
}
