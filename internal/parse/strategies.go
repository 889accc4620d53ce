package parse

import (
	"regexp"
	"strings"

	"github.com/joseph-ayodele/bl-generator/internal/entity"
)

// Strategy extracts one raw value from the document text; "" means no match.
type Strategy func(text string) string

// fieldRule binds a record field to its ordered fallback chain.
type fieldRule struct {
	name      string
	multiline bool
	chain     []Strategy
	set       func(r *entity.InvoiceRecord, v string)
}

// block captures everything after the label up to the next label.
func block(l Label) Strategy {
	return func(text string) string { return Capture(text, l, boundaries) }
}

// below captures the lines under a caption that has no value beside it.
func below(l Label) Strategy {
	return func(text string) string { return CaptureBelow(text, l, boundaries) }
}

// value captures a single token of the given shape right after the label.
func value(l Label, shape string) Strategy {
	re := l.ValueRegexp(shape)
	return func(text string) string { return CaptureValue(text, re) }
}

// pattern returns the first submatch of a free-standing expression.
func pattern(expr string) Strategy {
	re := regexp.MustCompile(expr)
	return func(text string) string { return CaptureValue(text, re) }
}

// withDigit rejects values that carry no digit, such as a caption read as a value.
func withDigit(s Strategy) Strategy {
	return func(text string) string {
		v := s(text)
		if strings.IndexFunc(v, func(r rune) bool { return r >= '0' && r <= '9' }) < 0 {
			return ""
		}
		return v
	}
}

const (
	shapeCode   = `[A-Z0-9][A-Z0-9/\-]*`
	shapeAmount = `\d[\d,]*(?:\.\d+)?`
	// currency marker tolerated between a caption and its amount
	amountLead = `(?:(?:[A-Z]{3}|[$€£₹])\.?\s*)?`
)

// amountStrategies is the single precedence list for money values: an
// explicit invoice total, then a line "Amount:", then a bare "Total:".
var amountStrategies = []Strategy{
	pattern(`(?i)(?:` + lblTotalAmount.pattern + `)` + labelSuffix + amountLead + `(` + shapeAmount + `)`),
	pattern(`(?i)(?:` + lblAmount.pattern + `)` + `[ \t]*` + amountLead + `(` + shapeAmount + `)`),
	pattern(`(?i)(?:` + lblTotal.pattern + `)` + `[ \t]*` + amountLead + `(` + shapeAmount + `)`),
}

var currencySymbols = map[string]string{"$": "USD", "€": "EUR", "£": "GBP", "₹": "INR"}

const isoCurrencies = `USD|EUR|GBP|INR|AED|JPY|CNY|SGD|AUD|CAD|CHF|SAR`

var currencyStrategies = []Strategy{
	value(lblCurrency, `[A-Z]{3}\b`),
	pattern(`(?i)(?:` + lblTotalAmount.pattern + `|` + lblAmount.pattern + `)` + labelSuffix + `(` + isoCurrencies + `)\b`),
	pattern(`\b(` + isoCurrencies + `)\b`),
	func(text string) string {
		best, at := "", -1
		for sym, code := range currencySymbols {
			if i := strings.Index(text, sym); i >= 0 && (at < 0 || i < at) {
				best, at = code, i
			}
		}
		return best
	},
}

// fieldRules lists every pattern-extracted field with its fallback chain.
var fieldRules = []fieldRule{
	{name: "invoice_no", chain: []Strategy{
		withDigit(value(lblInvoiceNo, shapeCode)),
		withDigit(pattern(`(?i)\binv(?:oice)?[\s.#:-]*(?:no\.?)?[\s.#:-]*([A-Z]{1,5}[/-]?\d[A-Z0-9/\-]*)`)),
	}, set: func(r *entity.InvoiceRecord, v string) { r.InvoiceNo = v }},

	{name: "ie_code", chain: []Strategy{
		value(lblIECode, `[A-Z0-9]{8,12}\b`),
	}, set: func(r *entity.InvoiceRecord, v string) { r.IECode = v }},

	{name: "po_no", chain: []Strategy{
		withDigit(value(lblPONo, shapeCode)),
	}, set: func(r *entity.InvoiceRecord, v string) { r.PONo = v }},

	{name: "exporter", multiline: true, chain: []Strategy{
		block(lblExporter), below(lblExporter),
	}, set: func(r *entity.InvoiceRecord, v string) { r.Exporter = v }},

	{name: "consignee", multiline: true, chain: []Strategy{
		block(lblConsignee), below(lblConsignee),
	}, set: func(r *entity.InvoiceRecord, v string) { r.Consignee = v }},

	{name: "notify_party", multiline: true, chain: []Strategy{
		block(lblNotify), below(lblNotify),
	}, set: func(r *entity.InvoiceRecord, v string) { r.NotifyParty = v }},

	{name: "country_of_origin", chain: []Strategy{
		block(lblCountryOrigin),
		pattern(`(?i)\bmade\s+in\s+([A-Za-z][A-Za-z ]{1,30})`),
	}, set: func(r *entity.InvoiceRecord, v string) { r.CountryOfOrigin = v }},

	{name: "country_of_final_destination", chain: []Strategy{
		block(lblCountryDest), below(lblCountryDest),
	}, set: func(r *entity.InvoiceRecord, v string) { r.CountryOfFinalDestination = v }},

	{name: "terms_of_payment", chain: []Strategy{
		block(lblTermsPayment), block(lblTermsDelivery),
	}, set: func(r *entity.InvoiceRecord, v string) { r.TermsOfPayment = v }},

	{name: "drawback_no", chain: []Strategy{
		withDigit(value(lblDrawback, `[A-Z0-9][A-Z0-9./\-]*`)),
	}, set: func(r *entity.InvoiceRecord, v string) { r.DrawbackNo = v }},

	{name: "benefit_scheme", chain: []Strategy{
		block(lblBenefit),
		pattern(`(?i)\b(RoDTEP|MEIS|RoSCTL|EPCG|Advance\s+Authori[sz]ation|Duty\s+Drawback)\b`),
	}, set: func(r *entity.InvoiceRecord, v string) { r.BenefitScheme = v }},

	{name: "total_amount", chain: amountStrategies,
		set: func(r *entity.InvoiceRecord, v string) { r.TotalAmount = v }},

	{name: "currency", chain: currencyStrategies,
		set: func(r *entity.InvoiceRecord, v string) { r.Currency = strings.ToUpper(v) }},

	{name: "pre_carriage_by", chain: []Strategy{
		block(lblPreCarriage), below(lblPreCarriage),
	}, set: func(r *entity.InvoiceRecord, v string) { r.PreCarriageBy = v }},

	{name: "place_of_receipt", chain: []Strategy{
		block(lblPlaceReceipt), below(lblPlaceReceipt),
	}, set: func(r *entity.InvoiceRecord, v string) { r.PlaceOfReceipt = v }},

	{name: "place_of_acceptance", chain: []Strategy{
		block(lblPlaceAcceptance),
	}, set: func(r *entity.InvoiceRecord, v string) { r.PlaceOfAcceptance = v }},

	{name: "port_of_loading", chain: []Strategy{
		block(lblPortLoading), block(lblPOL),
	}, set: func(r *entity.InvoiceRecord, v string) { r.PortOfLoading = v }},

	{name: "port_of_discharge", chain: []Strategy{
		block(lblPortDischarge), block(lblPortDestination), block(lblPOD),
	}, set: func(r *entity.InvoiceRecord, v string) { r.PortOfDischarge = v }},

	{name: "place_of_delivery", chain: []Strategy{
		block(lblPlaceDelivery), block(lblFinalDestination),
	}, set: func(r *entity.InvoiceRecord, v string) { r.PlaceOfDelivery = v }},

	{name: "final_destination", chain: []Strategy{
		block(lblFinalDestination), block(lblPlaceDelivery), block(lblCountryDest),
	}, set: func(r *entity.InvoiceRecord, v string) { r.FinalDestination = v }},
}

// firstClean runs the chain and returns the first value that survives cleanup.
func firstClean(text string, chain []Strategy, multiline bool) string {
	for _, s := range chain {
		if v := Clean(s(text), multiline); v != "" {
			return v
		}
	}
	return ""
}
