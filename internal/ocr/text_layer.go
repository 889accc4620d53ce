package ocr

import (
	"bytes"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"
)

// rowTolerance is how far apart (in points) two glyph baselines may be and still share a line.
const rowTolerance = 2.0

// textLayer reads the embedded text of every page. Malformed documents yield
// no text rather than an error so the caller can fall back to OCR.
func textLayer(data []byte) (text string, pages int, warnings []string) {
	defer func() {
		if r := recover(); r != nil {
			text = ""
			warnings = append(warnings, fmt.Sprintf("text layer: %v", r))
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", 0, []string{"text layer: " + err.Error()}
	}
	pages = r.NumPage()

	var parts []string
	for i := 1; i <= pages; i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			continue
		}
		t, err := pageText(p)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("text layer page %d: %v", i, err))
			continue
		}
		if strings.TrimSpace(t) != "" {
			parts = append(parts, t)
		}
	}
	return strings.Join(parts, "\n"), pages, warnings
}

func pageText(p pdf.Page) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%v", r)
		}
	}()
	return layoutRows(p.Content().Text), nil
}

type textRow struct {
	y     float64
	items []pdf.Text
}

// layoutRows rebuilds reading order from positioned glyphs: rows top to
// bottom, glyphs left to right, a space wherever two runs are visibly apart.
func layoutRows(texts []pdf.Text) string {
	var rows []*textRow
	for _, t := range texts {
		var row *textRow
		for _, r := range rows {
			if math.Abs(r.y-t.Y) <= rowTolerance {
				row = r
				break
			}
		}
		if row == nil {
			row = &textRow{y: t.Y}
			rows = append(rows, row)
		}
		row.items = append(row.items, t)
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].y > rows[j].y })

	var b strings.Builder
	for ri, row := range rows {
		if ri > 0 {
			b.WriteByte('\n')
		}
		sort.SliceStable(row.items, func(i, j int) bool { return row.items[i].X < row.items[j].X })
		var line strings.Builder
		prevEnd := math.Inf(-1)
		for _, t := range row.items {
			gap := t.X - prevEnd
			if line.Len() > 0 && gap > math.Max(t.FontSize*0.25, 1) &&
				!strings.HasSuffix(line.String(), " ") && !strings.HasPrefix(t.S, " ") {
				line.WriteByte(' ')
			}
			line.WriteString(t.S)
			prevEnd = math.Max(prevEnd, t.X+t.W)
		}
		b.WriteString(strings.TrimRight(line.String(), " "))
	}
	return b.String()
}
