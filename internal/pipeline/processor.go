// Package pipeline turns invoice PDFs into Bill of Lading PDFs.
package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/joseph-ayodele/bl-generator/internal/common"
	"github.com/joseph-ayodele/bl-generator/internal/entity"
	"github.com/joseph-ayodele/bl-generator/internal/extract"
	"github.com/joseph-ayodele/bl-generator/internal/parse"
)

// Renderer draws a record as a B/L PDF.
type Renderer interface {
	Render(rec entity.InvoiceRecord) ([]byte, error)
}

// Embedder stores a record inside a PDF and reads it back.
type Embedder interface {
	Embed(pdf []byte, rec entity.InvoiceRecord) ([]byte, error)
	Extract(pdf []byte) (entity.InvoiceRecord, error)
}

// Document is a generated B/L and the record it was drawn from.
type Document struct {
	Record   entity.InvoiceRecord
	PDF      []byte
	Embedded bool // false when the record could not be attached to PDF
}

// Processor coordinates text extraction, field parsing, rendering and the
// metadata round trip.
type Processor struct {
	Logger   *slog.Logger
	Text     extract.TextExtractor
	Fields   extract.FieldExtractor
	Renderer Renderer
	Metadata Embedder
	Random   *parse.Randomizer
}

func NewProcessor(logger *slog.Logger, text extract.TextExtractor, fields extract.FieldExtractor,
	renderer Renderer, metadata Embedder, random *parse.Randomizer) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	if random == nil {
		random = parse.NewRandomizer(nil)
	}
	return &Processor{
		Logger:   logger,
		Text:     text,
		Fields:   fields,
		Renderer: renderer,
		Metadata: metadata,
		Random:   random,
	}
}

// ExtractRecord reads the invoice text and parses it into a record with
// fresh synthetic shipping fields.
func (p *Processor) ExtractRecord(ctx context.Context, pdf []byte) (entity.InvoiceRecord, error) {
	log := common.LoggerFromContext(ctx, p.Logger)

	res, err := p.Text.Extract(ctx, pdf)
	if err != nil {
		log.Warn("pipeline.text.failed", "err", err)
		return entity.InvoiceRecord{}, err
	}
	log.Info("pipeline.text.ok",
		"method", res.Method,
		"pages", res.Pages,
		"confidence", res.Confidence,
		"warnings", len(res.Warnings),
	)

	return p.Fields.ExtractFields(ctx, res.Text), nil
}

// GenerateBL extracts a record from an invoice and renders it with the
// record embedded. A record that cannot be embedded is logged and the plain
// PDF is returned.
func (p *Processor) GenerateBL(ctx context.Context, pdf []byte) (Document, error) {
	start := time.Now()
	rec, err := p.ExtractRecord(ctx, pdf)
	if err != nil {
		return Document{}, err
	}
	doc, err := p.build(ctx, rec)
	if err != nil {
		return Document{}, err
	}
	common.LoggerFromContext(ctx, p.Logger).Info("pipeline.generate.ok",
		"invoice_no", rec.InvoiceNo,
		"embedded", doc.Embedded,
		"bytes", len(doc.PDF),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return doc, nil
}

// RecordFromEmbedded returns the record stored in a previously generated B/L.
func (p *Processor) RecordFromEmbedded(ctx context.Context, pdf []byte) (entity.InvoiceRecord, error) {
	rec, err := p.Metadata.Extract(pdf)
	if err != nil {
		common.LoggerFromContext(ctx, p.Logger).Warn("pipeline.metadata.failed", "err", err)
		return entity.InvoiceRecord{}, err
	}
	return rec, nil
}

// GenerateFromEmbedded re-renders a B/L from its embedded record. Synthetic
// fields the record lacks are filled; present ones are kept.
func (p *Processor) GenerateFromEmbedded(ctx context.Context, pdf []byte) (Document, error) {
	rec, err := p.RecordFromEmbedded(ctx, pdf)
	if err != nil {
		return Document{}, err
	}
	p.Random.Apply(&rec, parse.PolicyFillMissing)

	doc, err := p.build(ctx, rec)
	if err != nil {
		return Document{}, err
	}
	common.LoggerFromContext(ctx, p.Logger).Info("pipeline.regenerate.ok",
		"invoice_no", rec.InvoiceNo,
		"embedded", doc.Embedded,
		"bytes", len(doc.PDF),
	)
	return doc, nil
}

func (p *Processor) build(ctx context.Context, rec entity.InvoiceRecord) (Document, error) {
	if err := ctx.Err(); err != nil {
		return Document{}, common.WrapError(err, "generate")
	}
	out, err := p.Renderer.Render(rec)
	if err != nil {
		return Document{}, common.InternalError("render bill of lading", err)
	}

	doc := Document{Record: rec, PDF: out}
	withMeta, err := p.Metadata.Embed(out, rec)
	if err != nil {
		common.LoggerFromContext(ctx, p.Logger).Warn("pipeline.embed.failed", "invoice_no", rec.InvoiceNo, "err", err)
		return doc, nil
	}
	doc.PDF, doc.Embedded = withMeta, true
	return doc, nil
}
