package pipeline

import (
	"log/slog"

	"github.com/joseph-ayodele/bl-generator/internal/common"
	"github.com/joseph-ayodele/bl-generator/internal/extract"
	"github.com/joseph-ayodele/bl-generator/internal/metadata"
	"github.com/joseph-ayodele/bl-generator/internal/ocr"
	"github.com/joseph-ayodele/bl-generator/internal/parse"
	"github.com/joseph-ayodele/bl-generator/internal/render"
)

// NewFromConfig wires the production processor: OCR-backed text extraction,
// rule-based field parsing, the template renderer and pdfcpu metadata.
func NewFromConfig(cfg *common.Config, logger *slog.Logger) (*Processor, error) {
	if logger == nil {
		logger = slog.Default()
	}
	ocrx, err := ocr.NewExtractor(ocr.Config{
		Engine:        cfg.OCR.Engine,
		Pdftoppm:      cfg.OCR.Pdftoppm,
		Tesseract:     cfg.OCR.Tesseract,
		TesseractLang: cfg.OCR.TesseractLang,
		TessdataDir:   cfg.OCR.TessdataDir,
		DPI:           cfg.OCR.DPI,
		MaxPages:      cfg.OCR.MaxPages,
		Workers:       cfg.OCR.Workers,
		PSM:           cfg.OCR.PSM,
		OEM:           cfg.OCR.OEM,
		Enhance:       cfg.OCR.Enhance,
	}, logger)
	if err != nil {
		return nil, common.NewAppError(common.CodeConfig, "ocr engine", err)
	}

	meta, err := metadata.NewEmbedder(cfg.Metadata.Key, logger)
	if err != nil {
		return nil, err
	}

	random := parse.NewRandomizer(nil)
	return NewProcessor(logger,
		extract.NewOCRAdapter(ocrx),
		parse.NewExtractor(random, logger),
		render.NewRenderer(cfg.Render.TemplatePath, logger),
		meta,
		random,
	), nil
}
