package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/joseph-ayodele/bl-generator/constants"
	"github.com/joseph-ayodele/bl-generator/internal/common"
	"github.com/joseph-ayodele/bl-generator/internal/entity"
	"github.com/joseph-ayodele/bl-generator/internal/pipeline"
)

// Generator is the document pipeline behind the HTTP surface.
type Generator interface {
	ExtractRecord(ctx context.Context, pdf []byte) (entity.InvoiceRecord, error)
	GenerateBL(ctx context.Context, pdf []byte) (pipeline.Document, error)
	RecordFromEmbedded(ctx context.Context, pdf []byte) (entity.InvoiceRecord, error)
	GenerateFromEmbedded(ctx context.Context, pdf []byte) (pipeline.Document, error)
}

// Exporter renders a record as a spreadsheet.
type Exporter interface {
	RecordXLSX(rec entity.InvoiceRecord) ([]byte, error)
}

type BLServer struct {
	gen            Generator
	xlsx           Exporter
	maxUploadBytes int64
	requestTimeout time.Duration
	logger         *slog.Logger
}

func NewBLServer(gen Generator, xlsx Exporter, cfg common.ServerConfig, logger *slog.Logger) *BLServer {
	if logger == nil {
		logger = slog.Default()
	}
	return &BLServer{
		gen:            gen,
		xlsx:           xlsx,
		maxUploadBytes: cfg.MaxUploadBytes,
		requestTimeout: cfg.RequestTimeout,
		logger:         logger,
	}
}

func (s *BLServer) Index(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "Bill of Lading generator. POST an invoice PDF as multipart field \"file\".",
		"endpoints": gin.H{
			"POST /generate-bl":           "invoice PDF -> B/L PDF with the record embedded",
			"POST /generate-bl-json":      "invoice PDF -> extracted record as JSON",
			"POST /generate-bl-xlsx":      "invoice PDF -> extracted record as XLSX",
			"POST /generate-bl-from-json": "generated B/L PDF -> B/L PDF rebuilt from its embedded record",
			"POST /extract-json-from-pdf": "generated B/L PDF -> embedded record as JSON",
			"GET /healthz":                "liveness",
		},
	})
}

func (s *BLServer) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// GenerateBL answers with the B/L PDF drawn from the uploaded invoice.
func (s *BLServer) GenerateBL(c *gin.Context) {
	ctx, cancel, pdf, ok := s.begin(c)
	if !ok {
		return
	}
	defer cancel()

	doc, err := s.gen.GenerateBL(ctx, pdf)
	if err != nil {
		s.fail(c, "generate_bl", err)
		return
	}
	attachment(c, doc.Record, constants.PDFExt)
	c.Data(http.StatusOK, constants.PDFContentType, doc.PDF)
}

// GenerateJSON answers with the record extracted from the uploaded invoice.
func (s *BLServer) GenerateJSON(c *gin.Context) {
	ctx, cancel, pdf, ok := s.begin(c)
	if !ok {
		return
	}
	defer cancel()

	rec, err := s.gen.ExtractRecord(ctx, pdf)
	if err != nil {
		s.fail(c, "generate_bl_json", err)
		return
	}
	c.JSON(http.StatusOK, rec)
}

// GenerateXLSX answers with the extracted record as a workbook.
func (s *BLServer) GenerateXLSX(c *gin.Context) {
	ctx, cancel, pdf, ok := s.begin(c)
	if !ok {
		return
	}
	defer cancel()

	rec, err := s.gen.ExtractRecord(ctx, pdf)
	if err != nil {
		s.fail(c, "generate_bl_xlsx", err)
		return
	}
	out, err := s.xlsx.RecordXLSX(rec)
	if err != nil {
		s.fail(c, "generate_bl_xlsx", common.InternalError("xlsx export", err))
		return
	}
	attachment(c, rec, "xlsx")
	c.Data(http.StatusOK, constants.XLSXContentType, out)
}

// GenerateFromEmbedded rebuilds a B/L from the record embedded in an
// uploaded B/L.
func (s *BLServer) GenerateFromEmbedded(c *gin.Context) {
	ctx, cancel, pdf, ok := s.begin(c)
	if !ok {
		return
	}
	defer cancel()

	doc, err := s.gen.GenerateFromEmbedded(ctx, pdf)
	if err != nil {
		s.fail(c, "generate_bl_from_json", err)
		return
	}
	attachment(c, doc.Record, constants.PDFExt)
	c.Data(http.StatusOK, constants.PDFContentType, doc.PDF)
}

// ExtractEmbedded answers with the record embedded in an uploaded B/L.
func (s *BLServer) ExtractEmbedded(c *gin.Context) {
	ctx, cancel, pdf, ok := s.begin(c)
	if !ok {
		return
	}
	defer cancel()

	rec, err := s.gen.RecordFromEmbedded(ctx, pdf)
	if err != nil {
		s.fail(c, "extract_json_from_pdf", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "data": rec})
}

// begin validates the upload and derives the request context. ok is false
// when the response has already been written.
func (s *BLServer) begin(c *gin.Context) (context.Context, context.CancelFunc, []byte, bool) {
	pdf, name, err := readUpload(c, s.maxUploadBytes)
	if err != nil {
		s.fail(c, "upload", err)
		return nil, nil, nil, false
	}
	common.LoggerFromContext(c.Request.Context(), s.logger).Debug("http.upload.ok", "filename", name, "bytes", len(pdf))

	ctx, cancel := c.Request.Context(), context.CancelFunc(func() {})
	if s.requestTimeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, s.requestTimeout)
	}
	return ctx, cancel, pdf, true
}

func (s *BLServer) fail(c *gin.Context, op string, err error) {
	status := common.HTTPStatus(err)
	log := common.LoggerFromContext(c.Request.Context(), s.logger)
	if status >= http.StatusInternalServerError {
		log.Error("http.failed", "op", op, "status", status, "err", err)
	} else {
		log.Warn("http.rejected", "op", op, "status", status, "err", err)
	}
	c.AbortWithStatusJSON(status, gin.H{"detail": common.PublicMessage(err)})
}
