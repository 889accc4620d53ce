package ocr

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/joseph-ayodele/bl-generator/constants"
	"github.com/joseph-ayodele/bl-generator/internal/common"
)

type Config struct {
	Engine    string // "tesseract" (exec, default) | "gosseract" (requires -tags gosseract)
	Pdftoppm  string // binary name or absolute path; if empty -> "pdftoppm"
	Tesseract string // binary name or absolute path; if empty -> "tesseract"

	TesseractLang string // default "eng"
	TessdataDir   string
	DPI           int // rasterization DPI for scanned PDFs, default 300
	MaxPages      int // 0 = no limit
	Workers       int // pages recognised concurrently, default 4

	PSM int // e.g., 6 is good for uniform block of text
	OEM int // 1 = LSTM; leave 0 to use default

	Enhance bool // grayscale/contrast/sharpen page images before OCR
}

type ExtractionResult struct {
	Text       string
	Pages      int
	Method     constants.ExtractionMethod
	Language   string
	Duration   time.Duration
	Warnings   []string
	Confidence float32
}

// Option customises an Extractor.
type Option func(*Extractor)

// WithRunner replaces the exec runner used for pdftoppm and tesseract.
func WithRunner(r Runner) Option {
	return func(e *Extractor) { e.runner = r }
}

// WithRecognizer replaces the page recogniser.
func WithRecognizer(r Recognizer) Option {
	return func(e *Extractor) { e.recognizer = r }
}

type Extractor struct {
	cfg        Config
	runner     Runner
	recognizer Recognizer
	logger     *slog.Logger
}

func NewExtractor(cfg Config, logger *slog.Logger, opts ...Option) (*Extractor, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Engine == "" {
		cfg.Engine = constants.EngineTesseract
	}
	if cfg.Pdftoppm == "" {
		cfg.Pdftoppm = "pdftoppm"
	}
	if cfg.Tesseract == "" {
		cfg.Tesseract = "tesseract"
	}
	if cfg.TesseractLang == "" {
		cfg.TesseractLang = "eng"
	}
	if cfg.DPI <= 0 {
		cfg.DPI = 300
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 4
	}

	e := &Extractor{cfg: cfg, runner: execRunner{logger: logger}, logger: logger}
	for _, opt := range opts {
		opt(e)
	}
	if e.recognizer == nil {
		switch cfg.Engine {
		case constants.EngineGosseract:
			rec, err := NewGosseractRecognizer(cfg)
			if err != nil {
				return nil, err
			}
			e.recognizer = rec
		default:
			e.recognizer = newTesseractRecognizer(cfg, e.runner)
		}
	}
	return e, nil
}

// Extract returns the document text, preferring the embedded text layer and
// falling back to rasterised OCR when the layer is empty.
func (e *Extractor) Extract(ctx context.Context, pdf []byte) (ExtractionResult, error) {
	start := time.Now()
	log := common.LoggerFromContext(ctx, e.logger)
	log.Debug("ocr.extract.start", "bytes", len(pdf), "engine", e.cfg.Engine)

	text, pages, warns := textLayer(pdf)
	res := ExtractionResult{
		Pages:    pages,
		Method:   constants.MethodPDFText,
		Language: e.cfg.TesseractLang,
		Warnings: warns,
	}

	if strings.TrimSpace(text) == "" {
		log.Info("ocr.text_layer.empty", "pages", pages)
		res.Method = constants.MethodPDFOCR
		ocrText, ocrPages, ocrWarns, err := e.pdfToOCR(ctx, pdf)
		res.Warnings = append(res.Warnings, ocrWarns...)
		if err != nil {
			res.Duration = time.Since(start)
			if ctxErr := ctx.Err(); ctxErr != nil {
				return res, common.WrapError(ctxErr, "ocr")
			}
			log.Warn("ocr.extract.failed", "error", err, "warnings", len(res.Warnings))
			return res, common.UnreadableDocumentError("document has no readable text", err)
		}
		text, res.Pages = ocrText, ocrPages
	}

	res.Text = Normalize(text)
	res.Duration = time.Since(start)
	if res.Text == "" {
		log.Warn("ocr.extract.empty", "method", res.Method, "pages", res.Pages)
		return res, common.UnreadableDocumentError("document has no readable text", nil)
	}
	res.Confidence = heuristicConfidence(res.Text)

	log.Info("ocr.extract.ok",
		"method", res.Method,
		"pages", res.Pages,
		"chars", len(res.Text),
		"confidence", res.Confidence,
		"duration_ms", res.Duration.Milliseconds(),
	)
	return res, nil
}
