package render

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ledongthuc/pdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/bl-generator/internal/entity"
)

var fixedNow = func() time.Time { return time.Date(2026, 10, 16, 9, 30, 0, 0, time.UTC) }

func sampleRecord() entity.InvoiceRecord {
	rec := entity.NewInvoiceRecord()
	rec.InvoiceNo = "INV-001"
	rec.Exporter = "Acme Corp\n12 Industrial Area, Ludhiana"
	rec.Consignee = "Beta Ltd"
	rec.NotifyParty = "Beta Ltd"
	rec.PortOfLoading = "MUMBAI"
	rec.PortOfDischarge = "ROTTERDAM"
	rec.VesselVoyage = "MSC AURORA V.123B"
	rec.ContainerNo = "ABCD1234567"
	rec.SealNo = "123456"
	rec.DeliveryAgent = "Oceanic Logistics B.V."
	rec.Goods = []entity.GoodsLine{{
		HSCode:             "52051200",
		Description:        "Cotton yarn 30s combed",
		Quantity:           "500 BAGS",
		UnitsMT:            "25.000 MT",
		Rate:               "USD 2.10",
		WeightMeasurements: "NET WT: 25000 KGS\nGROSS WT: 25500 KGS",
		SrMarks:            "1 x 20' FCL",
	}}
	return rec
}

// pdfText concatenates every glyph of every page in drawing order.
func pdfText(t *testing.T, data []byte) (string, int) {
	t.Helper()
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)

	var b strings.Builder
	for i := 1; i <= r.NumPage(); i++ {
		for _, txt := range r.Page(i).Content().Text {
			b.WriteString(txt.S)
		}
	}
	return b.String(), r.NumPage()
}

func writePNG(t *testing.T, w, h int) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, h/2, color.Black)
	}
	path := filepath.Join(t.TempDir(), "template.png")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, img))
	require.NoError(t, f.Close())
	return path
}

func TestRenderWithoutTemplateFallsBackToA4(t *testing.T) {
	r := NewRenderer(filepath.Join(t.TempDir(), "missing.jpeg"), nil, WithClock(fixedNow))
	w, h := r.PageSize()
	assert.InDelta(t, a4Width, w, 0.01)
	assert.InDelta(t, a4Height, h, 0.01)

	out, err := r.Render(sampleRecord())
	require.NoError(t, err)
	require.True(t, bytes.HasPrefix(out, []byte("%PDF-")))

	text, pages := pdfText(t, out)
	assert.Equal(t, 1, pages)
	for _, want := range []string{
		"EXPORTER / SHIPPER:",
		"Acme Corp",
		"B/L NO.: INV-001",
		"VESSEL/VOYAGE:",
		"MSC AURORA V.123B",
		"Container & Seal nos.: ABCD1234567 / 123456",
		"DELIVERY AGENT:",
		"PLACE & DATE:",
		"MUMBAI  16-10-2026",
	} {
		assert.Contains(t, text, want)
	}
}

func TestRenderUsesTemplateSize(t *testing.T) {
	path := writePNG(t, 800, 1100)

	tpl, err := loadTemplate(path)
	require.NoError(t, err)
	assert.Equal(t, 800.0, tpl.width)
	assert.Equal(t, 1100.0, tpl.height)
	assert.Equal(t, "PNG", tpl.imageType)

	r := NewRenderer(path, nil, WithClock(fixedNow))
	out, err := r.Render(sampleRecord())
	require.NoError(t, err)

	text, _ := pdfText(t, out)
	assert.Contains(t, text, "25.000 MT")
	assert.Contains(t, text, "NET WT: 25000 KGS")
}

func TestRenderUnreadableTemplate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "image.jpeg")
	require.NoError(t, os.WriteFile(path, []byte("not an image"), 0o600))

	r := NewRenderer(path, nil, WithClock(fixedNow))
	w, _ := r.PageSize()
	assert.InDelta(t, a4Width, w, 0.01)

	out, err := r.Render(entity.NewInvoiceRecord())
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")))
}

func TestRenderEmptyRecordFooterHasDateOnly(t *testing.T) {
	r := NewRenderer("", nil, WithClock(fixedNow))
	out, err := r.Render(entity.InvoiceRecord{})
	require.NoError(t, err)

	text, _ := pdfText(t, out)
	assert.Contains(t, text, "16-10-2026")
	assert.NotContains(t, text, "B/L NO.:")
	assert.NotContains(t, text, "Container & Seal")
}

func TestRenderManyGoodsAddsPages(t *testing.T) {
	rec := sampleRecord()
	for i := 0; i < 6; i++ {
		rec.Goods = append(rec.Goods, entity.GoodsLine{Description: "Extra line", UnitsMT: "1.000 MT"})
	}

	r := NewRenderer("", nil, WithClock(fixedNow))
	out, err := r.Render(rec)
	require.NoError(t, err)

	_, pages := pdfText(t, out)
	assert.Greater(t, pages, 1)
}

func TestRenderReplacesUnencodableRunes(t *testing.T) {
	rec := sampleRecord()
	rec.Consignee = "Café Ünïcode 東京"

	r := NewRenderer("", nil, WithClock(fixedNow))
	out, err := r.Render(rec)
	require.NoError(t, err)

	text, _ := pdfText(t, out)
	assert.Contains(t, text, "Café Ünïcode ??")
}

func TestColumnsFor(t *testing.T) {
	wide := columnsFor(1240)
	assert.Equal(t, 1040.0, wide.unitsX)
	assert.Equal(t, 1140.0, wide.weightX)
	assert.Equal(t, 520.0, wide.descW)
	assert.Equal(t, 80.0, wide.weightW)

	a4 := columnsFor(a4Width)
	assert.Equal(t, 520.0, a4.unitsX)
	assert.Equal(t, 180.0, a4.descW)
	assert.Less(t, a4.weightW, minColumn)
}

func TestMarksText(t *testing.T) {
	rec := sampleRecord()
	assert.Equal(t, "1 x 20' FCL\nContainer & Seal nos.: ABCD1234567 / 123456", marksText(rec, 0))

	rec.SealNo = ""
	assert.Equal(t, "1 x 20' FCL\nContainer & Seal nos.: ABCD1234567", marksText(rec, 0))

	rec.ContainerNo = ""
	assert.Equal(t, "1 x 20' FCL", marksText(rec, 0))
	assert.Equal(t, "", marksText(rec, 3))
}

func TestMarksTextOnEveryRow(t *testing.T) {
	rec := sampleRecord()
	rec.Goods = append(rec.Goods, entity.GoodsLine{Description: "Second line"})

	assert.Equal(t, "Container & Seal nos.: ABCD1234567 / 123456", marksText(rec, 1))

	r := NewRenderer("", nil, WithClock(fixedNow))
	out, err := r.Render(rec)
	require.NoError(t, err)

	text, _ := pdfText(t, out)
	assert.Equal(t, 2, strings.Count(text, "Container & Seal nos.: ABCD1234567 / 123456"))
}

func TestLinesUntil(t *testing.T) {
	assert.Equal(t, 10, linesUntil(90, 200))
	assert.Equal(t, 1, linesUntil(410, 430))
	assert.Equal(t, 1, linesUntil(0, 5))
	assert.Equal(t, 10, rowLines)
}

func TestFormSlotsStayAboveNextCaption(t *testing.T) {
	for _, s := range FormSlots {
		if s.Value == nil {
			continue
		}
		assert.Positive(t, s.MaxLines, "slot at %v,%v", s.ValueX, s.ValueY)
	}
	exporter := FormSlots[0]
	last := exporter.ValueY + float64(exporter.MaxLines-1)*lineStep
	assert.LessOrEqual(t, last+lineStep, FormSlots[1].LabelY)
}

func TestRenderCapsLongSlotValue(t *testing.T) {
	lines := make([]string, 20)
	for i := range lines {
		lines[i] = fmt.Sprintf("EXPLINE%02d", i+1)
	}
	rec := sampleRecord()
	rec.Exporter = strings.Join(lines, "\n")

	r := NewRenderer("", nil, WithClock(fixedNow))
	out, err := r.Render(rec)
	require.NoError(t, err)

	text, _ := pdfText(t, out)
	assert.Contains(t, text, "EXPLINE10")
	assert.NotContains(t, text, "EXPLINE11")
	assert.Contains(t, text, "CONSIGNEE:")
}
