package render

import (
	"bytes"
	"fmt"
	"log/slog"
	"time"

	"codeberg.org/go-pdf/fpdf"

	"github.com/joseph-ayodele/bl-generator/internal/entity"
)

const (
	templateImageName = "bl-template"
	dateLayout        = "02-01-2006"
	producer          = "bl-generator"
)

// Renderer draws an InvoiceRecord onto the Bill of Lading form.
type Renderer struct {
	template pageTemplate
	now      func() time.Time
	logger   *slog.Logger
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithClock sets the clock used for the footer date and PDF timestamps.
func WithClock(now func() time.Time) Option {
	return func(r *Renderer) {
		if now != nil {
			r.now = now
		}
	}
}

// NewRenderer loads the template image at templatePath. A missing or
// unreadable template is logged and the form is drawn on a blank A4 page.
func NewRenderer(templatePath string, logger *slog.Logger, opts ...Option) *Renderer {
	if logger == nil {
		logger = slog.Default()
	}
	r := &Renderer{now: time.Now, logger: logger}
	for _, opt := range opts {
		opt(r)
	}

	tpl, err := loadTemplate(templatePath)
	if err != nil {
		logger.Warn("render.template.fallback", "path", templatePath, "err", err)
		tpl = blankA4()
	} else {
		logger.Info("render.template.loaded", "path", templatePath,
			"width", tpl.width, "height", tpl.height, "type", tpl.imageType)
	}
	r.template = tpl
	return r
}

// PageSize reports the page size in points.
func (r *Renderer) PageSize() (width, height float64) {
	return r.template.width, r.template.height
}

// Render returns the B/L as a PDF. It fails only if the PDF writer does.
func (r *Renderer) Render(rec entity.InvoiceRecord) ([]byte, error) {
	start := time.Now()
	now := r.now()
	w, h := r.template.width, r.template.height

	pdf := fpdf.New("P", "pt", "A4", "")
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetCreationDate(now)
	pdf.SetModificationDate(now)
	pdf.SetCreator(producer, true)
	pdf.SetTitle("Bill of Lading "+rec.FileStem(), true)
	pdf.AddPageFormat("P", fpdf.SizeType{Wd: w, Ht: h})

	if r.template.hasImage() {
		opts := fpdf.ImageOptions{ReadDpi: false, ImageType: r.template.imageType}
		pdf.RegisterImageOptionsReader(templateImageName, opts, bytes.NewReader(r.template.image))
		pdf.ImageOptions(templateImageName, 0, 0, w, h, false, opts, 0, "")
	}

	p := &page{pdf: pdf, width: w, height: h}
	for _, slot := range FormSlots {
		p.slot(slot, rec)
	}
	p.footer(rec, now)
	pages := p.goods(rec) + 1

	if err := pdf.Error(); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("write pdf: %w", err)
	}

	r.logger.Debug("render.ok",
		"invoice_no", rec.InvoiceNo,
		"goods", len(rec.Goods),
		"pages", pages,
		"bytes", buf.Len(),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}

// page draws onto the current fpdf page.
type page struct {
	pdf    *fpdf.Fpdf
	width  float64
	height float64
}

func (p *page) setFont(f FontConfig) {
	p.pdf.SetFont(f.Family, f.Style, f.Size)
}

func (p *page) measure(s string) float64 {
	return p.pdf.GetStringWidth(encodeText(s))
}

func (p *page) text(x, y float64, s string) {
	p.pdf.Text(x, y, encodeText(s))
}

// block draws wrapped text starting at baseline y, at most maxLines lines
// when maxLines is positive.
func (p *page) block(x, y, maxWidth float64, s string, maxLines int) {
	lines := Wrap(s, maxWidth, p.measure)
	if maxLines > 0 && len(lines) > maxLines {
		lines = lines[:maxLines]
	}
	for i, line := range lines {
		p.text(x, y+float64(i)*lineStep, line)
	}
}

func (p *page) slot(s Slot, rec entity.InvoiceRecord) {
	if s.Label != "" {
		p.setFont(LabelFont)
		p.text(s.LabelX, s.y(s.LabelY, p.height), s.Label)
	}
	if s.Value == nil {
		return
	}
	value := s.Value(rec)
	if value == "" {
		return
	}
	width := clampWidth(s.ValueX, s.MaxWidth, p.width)
	if width < minColumn {
		width = minColumn
	}
	p.setFont(ValueFont)
	p.block(s.ValueX, s.y(s.ValueY, p.height), width, value, s.MaxLines)
}

// goods draws the goods table and returns the number of continuation pages
// it needed.
func (p *page) goods(rec entity.InvoiceRecord) int {
	rows := len(rec.Goods)
	if rows == 0 && marksText(rec, 0) != "" {
		rows = 1
	}
	cols := columnsFor(p.width)
	p.setFont(ValueFont)

	extra := 0
	y := goodsTop
	for i := 0; i < rows; i++ {
		if y > p.height-goodsFooterGap {
			p.pdf.AddPageFormat("P", fpdf.SizeType{Wd: p.width, Ht: p.height})
			p.setFont(ValueFont)
			extra++
			y = continuationTop
		}

		var g entity.GoodsLine
		if i < len(rec.Goods) {
			g = rec.Goods[i]
		}
		p.block(cols.marksX, y, cols.marksW, marksText(rec, i), rowLines)
		if cols.descW >= minColumn {
			p.block(cols.descX, y, cols.descW, g.Description, rowLines)
		}
		units := unitsText(g)
		if cols.weightW < minColumn {
			units = joinLines(units, g.WeightMeasurements)
		} else {
			p.block(cols.weightX, y, cols.weightW, g.WeightMeasurements, rowLines)
		}
		if cols.unitsW >= minColumn {
			p.block(cols.unitsX, y, cols.unitsW, units, rowLines)
		}
		y += goodsPitch
	}
	return extra
}

// footer draws the place and date line at the bottom right of the form.
func (p *page) footer(rec entity.InvoiceRecord, now time.Time) {
	y := p.height - 96
	p.setFont(LabelFont)
	p.text(p.width-250, y, "PLACE & DATE:")

	value := joinNonEmpty("  ", footerPlace(rec), now.Format(dateLayout))
	p.setFont(ValueFont)
	p.text(p.width-70-p.measure(value), y, value)
}
