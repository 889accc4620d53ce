package render

import (
	"strings"

	"github.com/joseph-ayodele/bl-generator/internal/entity"
)

// FontConfig selects one of the core PDF fonts.
type FontConfig struct {
	Family string
	Style  string
	Size   float64
}

var (
	LabelFont = FontConfig{Family: "Helvetica", Style: "B", Size: 10}
	ValueFont = FontConfig{Family: "Helvetica", Style: "", Size: 9}
)

const (
	lineStep    = 11.0
	rightMargin = 20.0
	minColumn   = 40.0

	goodsTop        = 590.0
	goodsPitch      = 115.0
	goodsFooterGap  = 130.0 // rows must start above this distance from the bottom
	continuationTop = 72.0
)

// rowLines caps every goods cell so a row never runs into the next one.
var rowLines = linesUntil(0, goodsPitch)

// Edge is the page edge a slot's y offset is measured from.
type Edge int

const (
	FromTop Edge = iota
	FromBottom
)

// Slot is one label/value position on the form. Either part may be empty.
type Slot struct {
	Label    string
	LabelX   float64
	LabelY   float64
	ValueX   float64
	ValueY   float64
	MaxWidth float64
	Edge     Edge
	MaxLines int // 0 leaves the wrapped value uncapped
	Value    func(rec entity.InvoiceRecord) string
}

// linesUntil is how many wrapped lines fit from baseline y before the next
// caption at baseline next, keeping one line step of clearance.
func linesUntil(y, next float64) int {
	return max(int((next-y)/lineStep), 1)
}

func (s Slot) y(offset, pageHeight float64) float64 {
	if s.Edge == FromBottom {
		return pageHeight - offset
	}
	return offset
}

// FormSlots is the coordinate table of the B/L form, tuned to the bundled
// template image.
var FormSlots = []Slot{
	{
		Label: "EXPORTER / SHIPPER:", LabelX: 70, LabelY: 72,
		ValueX: 70, ValueY: 90, MaxWidth: 350, MaxLines: linesUntil(90, 200),
		Value: func(r entity.InvoiceRecord) string { return r.Exporter },
	},
	{
		Label: "CONSIGNEE:", LabelX: 70, LabelY: 200,
		ValueX: 70, ValueY: 220, MaxWidth: 350, MaxLines: linesUntil(220, 300),
		Value: func(r entity.InvoiceRecord) string { return r.Consignee },
	},
	{
		Label: "NOTIFY PARTY:", LabelX: 70, LabelY: 300,
		ValueX: 70, ValueY: 320, MaxWidth: 350, MaxLines: linesUntil(320, 410),
		Value: func(r entity.InvoiceRecord) string { return r.NotifyParty },
	},
	{
		ValueX: 450, ValueY: 390, MaxWidth: 300, MaxLines: linesUntil(390, 410),
		Value: func(r entity.InvoiceRecord) string {
			if r.InvoiceNo == "" {
				return ""
			}
			return "B/L NO.: " + r.InvoiceNo
		},
	},
	{
		Label: "VESSEL/VOYAGE:", LabelX: 70, LabelY: 410,
		ValueX: 200, ValueY: 410, MaxWidth: 400, MaxLines: linesUntil(410, 430),
		Value: func(r entity.InvoiceRecord) string { return r.VesselVoyage },
	},
	{
		ValueX: 160, ValueY: 430, MaxWidth: 300, MaxLines: linesUntil(430, 460),
		Value: func(r entity.InvoiceRecord) string { return r.PreCarriageBy },
	},
	{
		Label: "PLACE OF ACCEPTANCE:", LabelX: 70, LabelY: 460,
		ValueX: 70, ValueY: 478, MaxWidth: 350, MaxLines: linesUntil(478, 510),
		Value: func(r entity.InvoiceRecord) string {
			return firstNonEmpty(r.PlaceOfAcceptance, r.PlaceOfReceipt)
		},
	},
	{
		Label: "PORT OF LOADING:", LabelX: 460, LabelY: 460,
		ValueX: 460, ValueY: 480, MaxWidth: 350, MaxLines: linesUntil(480, goodsTop),
		Value: func(r entity.InvoiceRecord) string { return r.PortOfLoading },
	},
	{
		Label: "PORT OF DISCHARGE:", LabelX: 70, LabelY: 510,
		ValueX: 70, ValueY: 530, MaxWidth: 350, MaxLines: linesUntil(530, goodsTop),
		Value: func(r entity.InvoiceRecord) string { return r.PortOfDischarge },
	},
	{
		Label: "DELIVERY AGENT:", LabelX: 70, LabelY: 110,
		ValueX: 200, ValueY: 110, MaxWidth: 420, MaxLines: 1, Edge: FromBottom,
		Value: func(r entity.InvoiceRecord) string { return r.DeliveryAgent },
	},
}

// goodsColumns are the x positions and widths of the goods table on a page
// of the given width.
type goodsColumns struct {
	marksX, marksW   float64
	descX, descW     float64
	unitsX, unitsW   float64
	weightX, weightW float64
}

func columnsFor(pageWidth float64) goodsColumns {
	right := pageWidth - 200
	if right < 520 {
		right = 520
	}
	c := goodsColumns{
		marksX: 100, marksW: 200,
		descX: 330,
		unitsX: right, unitsW: 80,
		weightX: right + 100, weightW: 80,
	}
	c.descW = right - c.descX - 10
	if c.descW > 520 {
		c.descW = 520
	}
	c.descW = clampWidth(c.descX, c.descW, pageWidth)
	c.unitsW = clampWidth(c.unitsX, c.unitsW, pageWidth)
	c.weightW = clampWidth(c.weightX, c.weightW, pageWidth)
	return c
}

// clampWidth keeps a column inside the page. A result below minColumn means
// the column does not fit.
func clampWidth(x, width, pageWidth float64) float64 {
	if avail := pageWidth - x - rightMargin; avail < width {
		return avail
	}
	return width
}

// marksText is the marks cell of a goods row followed by the container/seal
// annotation, which every row carries.
func marksText(rec entity.InvoiceRecord, row int) string {
	var marks string
	if row < len(rec.Goods) {
		marks = rec.Goods[row].SrMarks
	}
	if rec.ContainerNo == "" && rec.SealNo == "" {
		return marks
	}
	note := "Container & Seal nos.: " + joinNonEmpty(" / ", rec.ContainerNo, rec.SealNo)
	if marks == "" {
		return note
	}
	return marks + "\n" + note
}

func unitsText(g entity.GoodsLine) string {
	return joinLines(firstNonEmpty(g.UnitsMT, g.Quantity), g.Rate)
}

func footerPlace(rec entity.InvoiceRecord) string {
	return firstNonEmpty(rec.PortOfLoading, rec.PlaceOfReceipt)
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

func joinLines(parts ...string) string {
	return joinNonEmpty("\n", parts...)
}

func joinNonEmpty(sep string, parts ...string) string {
	var kept []string
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, sep)
}
