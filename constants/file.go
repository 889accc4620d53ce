package constants

import (
	"path/filepath"
	"strings"
)

// PDFExt is the only upload extension the service accepts.
const PDFExt = "pdf"

// PDFContentType and XLSXContentType are the response media types.
const (
	PDFContentType  = "application/pdf"
	XLSXContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// NormalizeExt lowercases and trims the dot from a file extension.
func NormalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// IsPDFName reports whether filename carries a .pdf extension, in any case.
func IsPDFName(filename string) bool {
	return NormalizeExt(filepath.Ext(filename)) == PDFExt
}
