package parse

import (
	"context"
	"log/slog"
	"regexp"
	"strings"

	"github.com/joseph-ayodele/bl-generator/constants"
	"github.com/joseph-ayodele/bl-generator/internal/common"
	"github.com/joseph-ayodele/bl-generator/internal/entity"
)

// Extractor turns invoice text into an InvoiceRecord. It never fails: text
// it cannot read yields a sparse record.
type Extractor struct {
	random *Randomizer
	logger *slog.Logger
}

func NewExtractor(random *Randomizer, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	if random == nil {
		random = NewRandomizer(nil)
	}
	return &Extractor{random: random, logger: logger}
}

// ExtractFields parses text and fills the synthetic shipping fields.
func (e *Extractor) ExtractFields(ctx context.Context, text string) entity.InvoiceRecord {
	rec := Parse(text)
	e.random.Apply(&rec, PolicyOverride)

	common.LoggerFromContext(ctx, e.logger).Info("parse.fields.ok",
		"invoice_no", rec.InvoiceNo,
		"goods", len(rec.Goods),
		"filled", filledCount(rec),
	)
	return rec
}

// Parse is the deterministic part of extraction: the same text always gives
// the same record. Synthetic fields are left empty.
func Parse(text string) entity.InvoiceRecord {
	rec := entity.NewInvoiceRecord()
	for _, rule := range fieldRules {
		rule.set(&rec, firstClean(text, rule.chain, rule.multiline))
	}
	resolvePorts(text, &rec)
	mirrorParties(&rec)
	rec.ExporterName = exporterName(rec.Exporter)

	rec.Goods = extractGoods(text)
	if len(rec.Goods) > 0 {
		rec.Goods[0].SrMarks = marksBlock(text)
	}
	return rec
}

var reSameAsConsignee = regexp.MustCompile(`(?i)^(?:same\s+as(?:\s+(?:the\s+)?consignee)?|as\s+per\s+consignee|consignee)\.?$`)

// mirrorParties copies consignee and notify party into each other when one is
// missing or only says "same as consignee".
func mirrorParties(rec *entity.InvoiceRecord) {
	notifySame := reSameAsConsignee.MatchString(strings.TrimSpace(rec.NotifyParty))
	switch {
	case rec.NotifyParty == "" || notifySame:
		rec.NotifyParty = rec.Consignee
	case rec.Consignee == "":
		rec.Consignee = rec.NotifyParty
	}
}

var reMessrs = regexp.MustCompile(`(?i)^m\s*/\s*s\.?\s*`)

// exporterName is the first line of the exporter block without "M/s".
func exporterName(exporter string) string {
	name := reMessrs.ReplaceAllString(firstLine(exporter), "")
	return strings.TrimRight(strings.TrimSpace(name), ",")
}

// resolvePorts falls back to the known-port whitelist when a caption was not
// found. Loading takes the earliest known port, discharge the earliest one
// that differs from loading.
func resolvePorts(text string, rec *entity.InvoiceRecord) {
	if rec.PortOfLoading == "" {
		rec.PortOfLoading = knownPort(text, rec.PortOfDischarge)
	}
	if rec.PortOfDischarge == "" {
		rec.PortOfDischarge = knownPort(text, rec.PortOfLoading)
	}
}

var knownPortRes = func() []*regexp.Regexp {
	res := make([]*regexp.Regexp, len(constants.KnownPorts))
	for i, p := range constants.KnownPorts {
		res[i] = regexp.MustCompile(`(?i)\b` + strings.ReplaceAll(regexp.QuoteMeta(p), " ", `\s+`) + `\b`)
	}
	return res
}()

func knownPort(text, exclude string) string {
	best, at := "", -1
	for _, re := range knownPortRes {
		for _, loc := range re.FindAllStringIndex(text, -1) {
			name := text[loc[0]:loc[1]]
			if exclude != "" && strings.Contains(strings.ToUpper(exclude), strings.ToUpper(name)) {
				continue
			}
			if at < 0 || loc[0] < at {
				best, at = name, loc[0]
			}
			break
		}
	}
	return strings.Join(strings.Fields(best), " ")
}

func filledCount(rec entity.InvoiceRecord) int {
	n := 0
	for _, v := range []string{
		rec.InvoiceNo, rec.IECode, rec.PONo, rec.Exporter, rec.Consignee, rec.NotifyParty,
		rec.CountryOfOrigin, rec.CountryOfFinalDestination, rec.TermsOfPayment, rec.DrawbackNo,
		rec.BenefitScheme, rec.TotalAmount, rec.Currency, rec.PreCarriageBy, rec.PlaceOfReceipt,
		rec.PlaceOfAcceptance, rec.PortOfLoading, rec.PortOfDischarge, rec.PlaceOfDelivery,
		rec.FinalDestination,
	} {
		if v != "" {
			n++
		}
	}
	return n
}
