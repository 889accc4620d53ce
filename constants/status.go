package constants

// ExtractionMethod records which path produced the document text.
type ExtractionMethod string

const (
	MethodPDFText ExtractionMethod = "pdf-text" // embedded text layer
	MethodPDFOCR  ExtractionMethod = "pdf-ocr"  // rasterised pages run through OCR
)

// OCR engines selectable through OCR_ENGINE.
const (
	EngineTesseract = "tesseract"
	EngineGosseract = "gosseract"
)

// MetadataKey is the document-info property the generated B/L carries.
// Readers match any key containing MetadataKeyMarker, case-insensitively.
const (
	MetadataKey       = "BL_Custom_JSON"
	MetadataKeyMarker = "custom_json"
)
