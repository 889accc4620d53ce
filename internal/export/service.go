package export

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/joseph-ayodele/bl-generator/internal/entity"
)

const (
	recordSheet = "Bill of Lading"
	goodsSheet  = "Goods"
)

// recordRows are the field/value rows of the record sheet, in form order.
var recordRows = []struct {
	label string
	value func(entity.InvoiceRecord) string
}{
	{"Invoice No", func(r entity.InvoiceRecord) string { return r.InvoiceNo }},
	{"IE Code", func(r entity.InvoiceRecord) string { return r.IECode }},
	{"PO No", func(r entity.InvoiceRecord) string { return r.PONo }},
	{"Exporter", func(r entity.InvoiceRecord) string { return r.Exporter }},
	{"Exporter Name", func(r entity.InvoiceRecord) string { return r.ExporterName }},
	{"Consignee", func(r entity.InvoiceRecord) string { return r.Consignee }},
	{"Notify Party", func(r entity.InvoiceRecord) string { return r.NotifyParty }},
	{"Country of Origin", func(r entity.InvoiceRecord) string { return r.CountryOfOrigin }},
	{"Country of Final Destination", func(r entity.InvoiceRecord) string { return r.CountryOfFinalDestination }},
	{"Terms of Payment", func(r entity.InvoiceRecord) string { return r.TermsOfPayment }},
	{"Drawback No", func(r entity.InvoiceRecord) string { return r.DrawbackNo }},
	{"Benefit Scheme", func(r entity.InvoiceRecord) string { return r.BenefitScheme }},
	{"Total Amount", func(r entity.InvoiceRecord) string { return r.TotalAmount }},
	{"Currency", func(r entity.InvoiceRecord) string { return r.Currency }},
	{"Pre-Carriage By", func(r entity.InvoiceRecord) string { return r.PreCarriageBy }},
	{"Vessel/Voyage", func(r entity.InvoiceRecord) string { return r.VesselVoyage }},
	{"Place of Receipt", func(r entity.InvoiceRecord) string { return r.PlaceOfReceipt }},
	{"Place of Acceptance", func(r entity.InvoiceRecord) string { return r.PlaceOfAcceptance }},
	{"Port of Loading", func(r entity.InvoiceRecord) string { return r.PortOfLoading }},
	{"Port of Discharge", func(r entity.InvoiceRecord) string { return r.PortOfDischarge }},
	{"Place of Delivery", func(r entity.InvoiceRecord) string { return r.PlaceOfDelivery }},
	{"Final Destination", func(r entity.InvoiceRecord) string { return r.FinalDestination }},
	{"Container No", func(r entity.InvoiceRecord) string { return r.ContainerNo }},
	{"Seal No", func(r entity.InvoiceRecord) string { return r.SealNo }},
	{"Delivery Agent", func(r entity.InvoiceRecord) string { return r.DeliveryAgent }},
}

var goodsHeaders = []string{
	"HS Code",
	"Description",
	"Quantity",
	"Weight",
	"Packing",
	"Unit",
	"Rate",
	"Amount",
	"Units (MT)",
	"Weight / Measurements",
	"Marks & Nos",
}

func goodsValues(g entity.GoodsLine) []string {
	return []string{
		g.HSCode, g.Description, g.Quantity, g.Weight, g.Packing, g.Unit,
		g.Rate, g.Amount, g.UnitsMT, g.WeightMeasurements, g.SrMarks,
	}
}

// Service produces XLSX workbooks for extracted records.
type Service struct {
	logger *slog.Logger
}

func NewService(logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{logger: logger}
}

// RecordXLSX returns a workbook with the record's fields on one sheet and
// its goods lines on another.
func (s *Service) RecordXLSX(rec entity.InvoiceRecord) ([]byte, error) {
	start := time.Now()

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	// The default sheet becomes the record sheet so it is the first tab.
	if err := f.SetSheetName(f.GetSheetName(0), recordSheet); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}
	if _, err := f.NewSheet(goodsSheet); err != nil {
		return nil, fmt.Errorf("add goods sheet: %w", err)
	}
	f.SetActiveSheet(0)

	wrap, err := f.NewStyle(&excelize.Style{Alignment: &excelize.Alignment{WrapText: true, Vertical: "top"}})
	if err != nil {
		return nil, fmt.Errorf("xlsx style: %w", err)
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("xlsx style: %w", err)
	}

	if err := writeRow(f, recordSheet, 1, []string{"Field", "Value"}); err != nil {
		return nil, err
	}
	for i, row := range recordRows {
		if err := writeRow(f, recordSheet, i+2, []string{row.label, row.value(rec)}); err != nil {
			return nil, err
		}
	}
	last := len(recordRows) + 1
	_ = f.SetCellStyle(recordSheet, "A1", "B1", bold)
	_ = f.SetCellStyle(recordSheet, "B2", fmt.Sprintf("B%d", last), wrap)
	_ = f.SetColWidth(recordSheet, "A", "A", 30)
	_ = f.SetColWidth(recordSheet, "B", "B", 70)

	if err := writeRow(f, goodsSheet, 1, goodsHeaders); err != nil {
		return nil, err
	}
	for i, g := range rec.Goods {
		if err := writeRow(f, goodsSheet, i+2, goodsValues(g)); err != nil {
			return nil, err
		}
	}
	lastCol, _ := excelize.ColumnNumberToName(len(goodsHeaders))
	_ = f.SetCellStyle(goodsSheet, "A1", lastCol+"1", bold)
	if len(rec.Goods) > 0 {
		_ = f.SetCellStyle(goodsSheet, "A2", fmt.Sprintf("%s%d", lastCol, len(rec.Goods)+1), wrap)
	}
	_ = f.SetColWidth(goodsSheet, "A", "A", 12)
	_ = f.SetColWidth(goodsSheet, "B", "B", 48)
	_ = f.SetColWidth(goodsSheet, "C", "I", 14)
	_ = f.SetColWidth(goodsSheet, "J", "K", 36)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}

	s.logger.Info("export.xlsx.ok",
		"invoice_no", rec.InvoiceNo,
		"goods", len(rec.Goods),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}

func writeRow(f *excelize.File, sheet string, row int, values []string) error {
	for i, v := range values {
		cell, err := excelize.CoordinatesToCellName(i+1, row)
		if err != nil {
			return err
		}
		if err := f.SetCellStr(sheet, cell, strings.TrimSpace(v)); err != nil {
			return fmt.Errorf("xlsx %s!%s: %w", sheet, cell, err)
		}
	}
	return nil
}
