//go:build !gosseract

package ocr

import "errors"

// ErrGosseractNotEnabled is returned when the binary was built without -tags gosseract.
var ErrGosseractNotEnabled = errors.New("ocr: gosseract engine not compiled in; rebuild with -tags gosseract")

// NewGosseractRecognizer reports that the in-process engine is unavailable.
func NewGosseractRecognizer(Config) (Recognizer, error) {
	return nil, ErrGosseractNotEnabled
}
