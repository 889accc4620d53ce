package parse

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/joseph-ayodele/bl-generator/internal/entity"
)

// reGoodsLine walks one line item: HS code, quantity, weight, packing, in
// that order, with bounded non-greedy spans between the anchors.
var reGoodsLine = regexp.MustCompile(`(?is)` +
	`(?:` + lblHSCode.pattern + `)` + labelSuffix + `(\d{4}[\d.]{0,8})` + // 1 hs code
	`(.{0,300}?)` + // 2 description tail
	`\b(?:quantity|qty)\.?[ \t]*[:.\-]*[ \t]*(\d[\d,]*(?:\.\d+)?)[ \t]*([a-z]{2,6}\b)?` + // 3 qty, 4 unit
	`.{0,300}?` +
	`\b(?:net\s*)?(?:weight|wt)\.?[ \t]*[:.\-]*[ \t]*(\d[\d,]*(?:\.\d+)?)[ \t]*(kgs?|mts?|tons?|lbs?)?\b` + // 5 weight, 6 unit
	`.{0,300}?` +
	`\b(?:packing|packed\s+in)[ \t]*[:.\-]*[ \t]*([^\n]*)`) // 7 packing

var (
	reItemRate    = regexp.MustCompile(`(?i)\b(?:rate|unit\s*price)(?:\s*per\s*[a-z]+)?[ \t]*[:.\-]*[ \t]*` + amountLead + `(` + shapeAmount + `)`)
	reItemAmount  = regexp.MustCompile(`(?i)\bamount[ \t]*[:.\-]*[ \t]*` + amountLead + `(` + shapeAmount + `)`)
	reItemUnit    = regexp.MustCompile(`(?i)\bunit[ \t]*:[ \t]*([a-z]{2,8})\b`)
	reGross       = regexp.MustCompile(`(?i)\bgross\s*(?:wt|weight)\.?[ \t]*[:.\-]*[ \t]*(\d[\d,]*(?:\.\d+)?[ \t]*(?:kgs?|mts?|lbs?)?)`)
	reNet         = regexp.MustCompile(`(?i)\bnet\s*(?:wt|weight)\.?[ \t]*[:.\-]*[ \t]*(\d[\d,]*(?:\.\d+)?[ \t]*(?:kgs?|mts?|lbs?)?)`)
	reMeasurement = regexp.MustCompile(`(?i)\b(?:measurements?|cbm|volume)[ \t]*[:.\-]*[ \t]*(\d[\d,]*(?:\.\d+)?[ \t]*(?:cbm|m3)?)`)
	reQuantity    = regexp.MustCompile(`(?i)\b(?:quantity|qty)\.?[ \t]*[:.\-]*[ \t]*(\d[\d,]*(?:\.\d+)?(?:[ \t]*[a-z]{2,6}\b)?)`)
	rePacking     = regexp.MustCompile(`(?i)\b(?:packing|packed\s+in)[ \t]*[:.\-]*[ \t]*([^\n]+)`)
	reWeightParts = regexp.MustCompile(`(?i)^\s*(\d[\d,]*(?:\.\d+)?)\s*([a-z]*)`)
	reHSValue     = lblHSCode.ValueRegexp(`\d{4}[\d.]{0,8}`)
)

// extractGoods returns every repeating line item, or one degraded line built
// from document-level values when no item matches and any shipment data exists.
func extractGoods(text string) []entity.GoodsLine {
	matches := reGoodsLine.FindAllStringSubmatchIndex(text, -1)
	goods := make([]entity.GoodsLine, 0, len(matches))
	prevEnd := 0
	for i, m := range matches {
		segEnd := len(text)
		if i+1 < len(matches) {
			segEnd = matches[i+1][0]
		}
		item := text[m[0]:segEnd]
		tail := text[m[14]:segEnd] // from the packing value on

		qtyUnit := quantityUnit(group(text, m, 4))
		weight := strings.TrimSpace(group(text, m, 5) + " " + group(text, m, 6))
		line := entity.GoodsLine{
			HSCode:      group(text, m, 1),
			Description: itemDescription(text, prevEnd, m[0], group(text, m, 2)),
			Quantity:    strings.TrimSpace(group(text, m, 3) + " " + qtyUnit),
			Weight:      weight,
			Packing:     Clean(untilLabel(group(text, m, 7)), false),
			Unit:        firstNonEmpty(CaptureValue(tail, reItemUnit), strings.ToUpper(qtyUnit)),
			Rate:        CaptureValue(tail, reItemRate),
			Amount:      CaptureValue(tail, reItemAmount),
			UnitsMT:     unitsMT(weight),
		}
		line.WeightMeasurements = weightMeasurements(
			firstNonEmpty(CaptureValue(item, reNet), weight),
			CaptureValue(item, reGross),
			CaptureValue(item, reMeasurement),
		)
		goods = append(goods, line)
		prevEnd = m[1]
	}
	if len(goods) > 0 {
		return goods
	}
	if line, ok := degradedLine(text); ok {
		goods = append(goods, line)
	}
	return goods
}

// degradedLine synthesises a single goods line from document-level values.
func degradedLine(text string) (entity.GoodsLine, bool) {
	net := CaptureValue(text, reNet)
	gross := CaptureValue(text, reGross)
	measurement := CaptureValue(text, reMeasurement)
	line := entity.GoodsLine{
		HSCode:      CaptureValue(text, reHSValue),
		Description: Clean(Capture(text, lblDescription, boundaries), true),
		Quantity:    CaptureValue(text, reQuantity),
		Weight:      firstNonEmpty(net, gross),
		Packing:     Clean(untilLabel(CaptureValue(text, rePacking)), false),
		Rate:        CaptureValue(text, reItemRate),
		Amount:      firstClean(text, amountStrategies, false),
	}
	if line.HSCode == "" && line.Description == "" && line.Weight == "" && line.Amount == "" && measurement == "" {
		return entity.GoodsLine{}, false
	}
	if m := reWeightParts.FindStringSubmatch(line.Quantity); m != nil {
		line.Unit = strings.ToUpper(m[2])
	}
	line.UnitsMT = unitsMT(line.Weight)
	line.WeightMeasurements = weightMeasurements(net, gross, measurement)
	return line, true
}

// itemDescription joins the line preceding the HS anchor (or the text before
// it on the same line) with the span between the HS code and the quantity.
func itemDescription(text string, floor, anchor int, span string) string {
	lineStart := strings.LastIndexByte(text[:anchor], '\n') + 1
	lead := text[max(lineStart, floor):anchor]
	if strings.TrimSpace(lead) == "" && lineStart > floor {
		prevStart := strings.LastIndexByte(text[:lineStart-1], '\n') + 1
		if prevStart >= floor {
			lead = text[prevStart : lineStart-1]
		}
	}
	return Clean(strings.TrimSpace(lead)+"\n"+strings.TrimSpace(span), true)
}

// unitsMT converts a weight such as "25,000 KGS" to metric tonnes, "25.000 MT".
// Weights without a unit are taken as kilograms.
func unitsMT(weight string) string {
	m := reWeightParts.FindStringSubmatch(weight)
	if m == nil {
		return ""
	}
	qty, err := decimal.NewFromString(strings.ReplaceAll(m[1], ",", ""))
	if err != nil {
		return ""
	}
	switch unit := strings.ToLower(m[2]); {
	case strings.HasPrefix(unit, "mt"), strings.HasPrefix(unit, "ton"):
	case strings.HasPrefix(unit, "lb"):
		qty = qty.Mul(decimal.RequireFromString("0.00045359237"))
	default:
		qty = qty.Div(decimal.NewFromInt(1000))
	}
	return qty.StringFixed(3) + " MT"
}

func weightMeasurements(net, gross, measurement string) string {
	var parts []string
	if net != "" {
		parts = append(parts, "NET WT: "+net)
	}
	if gross != "" {
		parts = append(parts, "GROSS WT: "+gross)
	}
	if measurement != "" {
		parts = append(parts, "MEASUREMENT: "+measurement)
	}
	return strings.Join(parts, "\n")
}

// quantityUnit drops a neighbouring caption the optional unit group picked up.
func quantityUnit(u string) string {
	switch strings.ToUpper(u) {
	case "NET", "GROSS", "WEIGHT", "WT", "PACKING", "PACKED", "RATE", "AMOUNT":
		return ""
	}
	return u
}

// untilLabel cuts s at the first caption it contains.
func untilLabel(s string) string {
	if i := boundaries.Next(s, 0); i > 0 {
		return s[:i]
	}
	return s
}

func group(text string, m []int, n int) string {
	if 2*n+1 >= len(m) || m[2*n] < 0 {
		return ""
	}
	return strings.TrimSpace(text[m[2*n]:m[2*n+1]])
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
