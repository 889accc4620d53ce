package extract

import (
	"context"
	"time"

	"github.com/joseph-ayodele/bl-generator/constants"
	"github.com/joseph-ayodele/bl-generator/internal/entity"
)

// TextExtractor is Stage 1: invoice PDF -> text.
type TextExtractor interface {
	Extract(ctx context.Context, pdf []byte) (TextExtractionResult, error)
}

type TextExtractionResult struct {
	Text       string
	Pages      int
	Method     constants.ExtractionMethod
	Language   string
	Duration   time.Duration
	Warnings   []string
	Confidence float32
}

// FieldExtractor is Stage 2: text -> InvoiceRecord. It never fails; text it
// cannot read yields a sparse record.
type FieldExtractor interface {
	ExtractFields(ctx context.Context, text string) entity.InvoiceRecord
}
