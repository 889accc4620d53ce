package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"math/rand/v2"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/joseph-ayodele/bl-generator/internal/common"
	"github.com/joseph-ayodele/bl-generator/internal/entity"
	"github.com/joseph-ayodele/bl-generator/internal/export"
	"github.com/joseph-ayodele/bl-generator/internal/extract"
	"github.com/joseph-ayodele/bl-generator/internal/metadata"
	"github.com/joseph-ayodele/bl-generator/internal/parse"
	"github.com/joseph-ayodele/bl-generator/internal/pipeline"
	"github.com/joseph-ayodele/bl-generator/internal/render"
)

const scenarioText = "Invoice No.: INV-001 Exporter: Acme Corp Consignee: Beta Ltd Notify Party: Same as Consignee Port of Loading: Mumbai Port of Discharge: Rotterdam"

type fakeText struct {
	text  string
	err   error
	calls int
}

func (f *fakeText) Extract(context.Context, []byte) (extract.TextExtractionResult, error) {
	f.calls++
	if f.err != nil {
		return extract.TextExtractionResult{}, f.err
	}
	return extract.TextExtractionResult{Text: f.text, Pages: 1, Method: "pdf-text"}, nil
}

type harness struct {
	router   *gin.Engine
	text     *fakeText
	renderer *render.Renderer
	meta     *metadata.Embedder
}

func newHarness(t *testing.T, text *fakeText) *harness {
	t.Helper()
	gin.SetMode(gin.TestMode)

	random := parse.NewRandomizer(rand.NewPCG(3, 5))
	clock := func() time.Time { return time.Date(2026, 10, 16, 0, 0, 0, 0, time.UTC) }
	renderer := render.NewRenderer("", nil, render.WithClock(clock))
	meta, err := metadata.NewEmbedder("", nil)
	require.NoError(t, err)

	proc := pipeline.NewProcessor(nil, text, parse.NewExtractor(random, nil), renderer, meta, random)
	srv := NewBLServer(proc, export.NewService(nil), common.ServerConfig{
		MaxUploadBytes: 1 << 20,
		RequestTimeout: time.Minute,
	}, nil)
	return &harness{router: NewRouter(srv, nil), text: text, renderer: renderer, meta: meta}
}

func upload(t *testing.T, path, field, filename string, body []byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = fw.Write(body)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func (h *harness) do(req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	h.router.ServeHTTP(w, req)
	return w
}

func detail(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body["detail"]
}

func TestIndexAndHealth(t *testing.T) {
	h := newHarness(t, &fakeText{})

	w := h.do(httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "/generate-bl")
	assert.NotEmpty(t, w.Header().Get(headerRequestID))

	w = h.do(httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestRejectsNonPDFBeforeExtraction(t *testing.T) {
	text := &fakeText{text: scenarioText}
	h := newHarness(t, text)

	w := h.do(upload(t, "/generate-bl-json", "file", "invoice.txt", []byte("Invoice No.: INV-001")))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Only PDF files are accepted", detail(t, w))
	assert.Zero(t, text.calls)
}

func TestRejectsEmptyAndMissingUploads(t *testing.T) {
	text := &fakeText{text: scenarioText}
	h := newHarness(t, text)

	w := h.do(upload(t, "/generate-bl", "file", "invoice.pdf", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, detail(t, w), "empty")

	w = h.do(upload(t, "/generate-bl", "attachment", "invoice.pdf", []byte("%PDF-1.4")))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, detail(t, w), "No file uploaded")

	w = h.do(httptest.NewRequest(http.MethodPost, "/generate-bl", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	assert.Zero(t, text.calls)
}

func TestRejectsOversizedUpload(t *testing.T) {
	text := &fakeText{text: scenarioText}
	h := newHarness(t, text)

	w := h.do(upload(t, "/generate-bl", "file", "big.pdf", bytes.Repeat([]byte("x"), 3<<20)))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, detail(t, w), "limit")
	assert.Zero(t, text.calls)
}

func TestUnreadableDocumentIs422(t *testing.T) {
	h := newHarness(t, &fakeText{err: common.UnreadableDocumentError("document has no readable text", nil)})

	w := h.do(upload(t, "/generate-bl", "file", "scan.PDF", []byte("%PDF-1.4")))
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "document has no readable text", detail(t, w))
}

func TestGenerateJSONHasEveryKey(t *testing.T) {
	h := newHarness(t, &fakeText{text: scenarioText})

	w := h.do(upload(t, "/generate-bl-json", "file", "invoice.pdf", []byte("%PDF-1.4")))
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	for _, key := range []string{
		"invoice_no", "ie_code", "po_no", "exporter", "exporter_name", "consignee",
		"notify_party", "country_of_origin", "country_of_final_destination",
		"terms_of_payment", "drawback_no", "benefit_scheme", "total_amount",
		"currency", "pre_carriage_by", "vessel_voyage", "place_of_receipt",
		"place_of_acceptance", "port_of_loading", "port_of_discharge",
		"place_of_delivery", "final_destination", "container_no", "seal_no",
		"delivery_agent", "goods",
	} {
		assert.Contains(t, body, key)
	}
	assert.Equal(t, "INV-001", body["invoice_no"])
	assert.Equal(t, "Beta Ltd", body["notify_party"])
	assert.IsType(t, []any{}, body["goods"])
}

func TestGenerateBLReturnsPDFAttachment(t *testing.T) {
	h := newHarness(t, &fakeText{text: scenarioText})

	w := h.do(upload(t, "/generate-bl", "invoice_pdf", "invoice.pdf", []byte("%PDF-1.4")))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename=BL_INV-001.pdf`, w.Header().Get("Content-Disposition"))
	assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("%PDF-")))

	rec, err := h.meta.Extract(w.Body.Bytes())
	require.NoError(t, err)
	assert.Equal(t, "INV-001", rec.InvoiceNo)
}

func TestGenerateBLUnknownInvoiceNumber(t *testing.T) {
	h := newHarness(t, &fakeText{text: "Consignee: Beta Ltd"})

	w := h.do(upload(t, "/generate-bl", "file", "invoice.pdf", []byte("%PDF-1.4")))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, `attachment; filename=BL_Unknown.pdf`, w.Header().Get("Content-Disposition"))
}

func TestGenerateXLSX(t *testing.T) {
	h := newHarness(t, &fakeText{text: scenarioText})

	w := h.do(upload(t, "/generate-bl-xlsx", "file", "invoice.pdf", []byte("%PDF-1.4")))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, `attachment; filename=BL_INV-001.xlsx`, w.Header().Get("Content-Disposition"))

	f, err := excelize.OpenReader(bytes.NewReader(w.Body.Bytes()))
	require.NoError(t, err)
	defer f.Close()
	v, err := f.GetCellValue("Bill of Lading", "B2")
	require.NoError(t, err)
	assert.Equal(t, "INV-001", v)
}

func TestExtractEmbedded(t *testing.T) {
	h := newHarness(t, &fakeText{})

	rec := entity.NewInvoiceRecord()
	rec.InvoiceNo = "INV-042"
	rec.PortOfLoading = "MUNDRA"
	plain, err := h.renderer.Render(rec)
	require.NoError(t, err)
	withMeta, err := h.meta.Embed(plain, rec)
	require.NoError(t, err)

	w := h.do(upload(t, "/extract-json-from-pdf", "file", "BL_INV-042.pdf", withMeta))
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Status string               `json:"status"`
		Data   entity.InvoiceRecord `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "success", body.Status)
	assert.Equal(t, rec, body.Data)
}

func TestGenerateFromEmbedded(t *testing.T) {
	h := newHarness(t, &fakeText{})

	rec := entity.NewInvoiceRecord()
	rec.InvoiceNo = "INV-043"
	plain, err := h.renderer.Render(rec)
	require.NoError(t, err)
	withMeta, err := h.meta.Embed(plain, rec)
	require.NoError(t, err)

	w := h.do(upload(t, "/generate-bl-from-json", "file", "BL_INV-043.pdf", withMeta))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, `attachment; filename=BL_INV-043.pdf`, w.Header().Get("Content-Disposition"))

	got, err := h.meta.Extract(w.Body.Bytes())
	require.NoError(t, err)
	assert.Equal(t, "INV-043", got.InvoiceNo)
	assert.NotEmpty(t, got.VesselVoyage)
}

func TestMissingMetadataIs500WithDetail(t *testing.T) {
	h := newHarness(t, &fakeText{})
	plain, err := h.renderer.Render(entity.NewInvoiceRecord())
	require.NoError(t, err)

	for _, path := range []string{"/extract-json-from-pdf", "/generate-bl-from-json"} {
		w := h.do(upload(t, path, "file", "plain.pdf", plain))
		assert.Equal(t, http.StatusInternalServerError, w.Code, path)
		assert.Contains(t, detail(t, w), "No embedded JSON metadata found in PDF", path)
	}
}

func TestCORSPreflight(t *testing.T) {
	h := newHarness(t, &fakeText{})

	req := httptest.NewRequest(http.MethodOptions, "/generate-bl", nil)
	req.Header.Set("Origin", "https://example.org")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w := h.do(req)

	assert.Less(t, w.Code, 300)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestRequestIDIsEchoed(t *testing.T) {
	h := newHarness(t, &fakeText{})

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(headerRequestID, "req-123")
	w := h.do(req)
	assert.Equal(t, "req-123", w.Header().Get(headerRequestID))
	_, _ = io.Copy(io.Discard, w.Body)
}
