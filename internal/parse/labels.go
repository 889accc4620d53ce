package parse

import (
	"fmt"
	"regexp"
	"strings"
)

// labelSuffix follows a label when it starts a capture: an optional
// parenthetical qualifier and the separator punctuation.
const labelSuffix = `(?:\s*\([^)\n]{0,40}\))?[ \t]*[:.\-#]*[ \t]*`

// Label is one field caption as it appears on an invoice.
type Label struct {
	Name     string
	pattern  string
	re       *regexp.Regexp
	notAfter *regexp.Regexp
}

// NewLabel compiles a case-insensitive label. notAfter lists phrases that,
// when they immediately precede a match, mean the match only mentions the
// label ("same as consignee") and is ignored.
func NewLabel(name, pattern string, notAfter ...string) Label {
	l := Label{
		Name:    name,
		pattern: pattern,
		re:      regexp.MustCompile(`(?i)(?:` + pattern + `)` + labelSuffix),
	}
	if len(notAfter) > 0 {
		l.notAfter = regexp.MustCompile(`(?i)(?:` + strings.Join(notAfter, "|") + `)\s*$`)
	}
	return l
}

// excluded reports whether the occurrence at start is preceded by a notAfter phrase.
func (l Label) excluded(text string, start int) bool {
	if l.notAfter == nil {
		return false
	}
	from := start - 40
	if from < 0 {
		from = 0
	}
	return l.notAfter.MatchString(text[from:start])
}

// Find returns the span of the first real occurrence of the label at or after
// from, suffix included.
func (l Label) Find(text string, from int) (start, end int, ok bool) {
	if from > len(text) {
		return 0, 0, false
	}
	for _, m := range l.re.FindAllStringIndex(text[from:], -1) {
		s, e := from+m[0], from+m[1]
		if l.excluded(text, s) {
			continue
		}
		return s, e, true
	}
	return 0, 0, false
}

// ValueRegexp builds `label + separator + (value)` for anchored single-value capture.
func (l Label) ValueRegexp(value string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)(?:` + l.pattern + `)` + labelSuffix + `(` + value + `)`)
}

// LabelSet is a precomputed alternation of labels used to find where a
// captured value ends.
type LabelSet struct {
	labels []Label
	re     *regexp.Regexp
	groups []int
}

func NewLabelSet(labels ...Label) *LabelSet {
	parts := make([]string, len(labels))
	for i, l := range labels {
		parts[i] = fmt.Sprintf("(?P<l%d>%s)", i, l.pattern)
	}
	re := regexp.MustCompile(`(?i)` + strings.Join(parts, "|"))
	groups := make([]int, len(labels))
	for i := range labels {
		groups[i] = re.SubexpIndex(fmt.Sprintf("l%d", i))
	}
	return &LabelSet{labels: labels, re: re, groups: groups}
}

// Next returns the offset of the earliest label occurrence at or after from, or -1.
func (s *LabelSet) Next(text string, from int) int {
	if from > len(text) {
		return -1
	}
	for _, m := range s.re.FindAllStringSubmatchIndex(text[from:], -1) {
		start := from + m[0]
		if l, ok := s.which(m); ok && l.excluded(text, start) {
			continue
		}
		return start
	}
	return -1
}

// LabelOnly reports whether line consists of nothing but labels and punctuation.
func (s *LabelSet) LabelOnly(line string) bool {
	rest := strings.TrimSpace(s.re.ReplaceAllString(line, ""))
	return rest != strings.TrimSpace(line) && strings.Trim(rest, " :.-#/&()'") == ""
}

func (s *LabelSet) which(m []int) (Label, bool) {
	for i, g := range s.groups {
		if g > 0 && 2*g < len(m) && m[2*g] >= 0 {
			return s.labels[i], true
		}
	}
	return Label{}, false
}

// Invoice captions. Order matters where two labels can start at the same
// offset: the earlier entry wins.
var (
	lblInvoiceNo        = NewLabel("invoice_no", `\binvoice\s*(?:no|number|#)\.?(?:\s*(?:&|and)\s*date)?`)
	lblDate             = NewLabel("date", `\bdated?\s*:`)
	lblIECode           = NewLabel("ie_code", `\b(?:i\.?\s*e\.?\s*code|iec)\b(?:\s*no\.?)?`)
	lblPONo             = NewLabel("po_no", `\b(?:p\.?\s*o\.?|purchase\s*order|buyer'?s?\s*order)\s*(?:no|number|#)\.?`)
	lblExporter         = NewLabel("exporter", `\b(?:exporter|shipper|seller)(?:\s*/\s*(?:shipper|exporter))?\b`)
	lblConsignee        = NewLabel("consignee", `\bconsignee\b`, `same\s+as(?:\s+the)?`, `other\s+than(?:\s+the)?`, `as\s+per`)
	lblNotify           = NewLabel("notify_party", `\bnotify(?:\s*part(?:y|ies))?\b`)
	lblBuyer            = NewLabel("buyer", `\bbuyer(?:'?s)?\b`)
	lblCountryOrigin    = NewLabel("country_of_origin", `\bcountry\s*of\s*origin(?:\s*of\s*goods)?`)
	lblCountryDest      = NewLabel("country_of_final_destination", `\bcountry\s*of\s*(?:final\s*)?destination`)
	lblTermsPayment     = NewLabel("terms_of_payment", `\bterms?\s*of\s*payments?|\bpayment\s*terms`)
	lblTermsDelivery    = NewLabel("terms_of_delivery", `\bterms\s*of\s*delivery(?:\s*(?:&|and)\s*payment)?`)
	lblDrawback         = NewLabel("drawback_no", `\bdraw\s*back\s*(?:sr\.?\s*)?(?:no|number|serial)\.?`)
	lblBenefit          = NewLabel("benefit_scheme", `\b(?:export\s*)?(?:benefit|incentive)\s*scheme`)
	lblTotalAmount      = NewLabel("total_amount", `\btotal\s*(?:invoice\s*)?(?:amount|value)|\bgrand\s*total`)
	lblTotal            = NewLabel("total", `\btotal\s*:`)
	lblAmount           = NewLabel("amount", `\bamount(?:\s*in\s*[a-z]{3})?\s*:`)
	lblAmountWords      = NewLabel("amount_in_words", `\bamount\s*(?:chargeable\s*)?(?:\(?\s*in\s*words\s*\)?)`)
	lblCurrency         = NewLabel("currency", `\bcurrency\b`)
	lblPreCarriage      = NewLabel("pre_carriage_by", `\bpre[-\s]*carriage\s*by`)
	lblVessel           = NewLabel("vessel_voyage", `\bvessel(?:\s*/\s*(?:flight|voyage))?(?:\s*(?:name|no\.?))?`)
	lblPlaceReceipt     = NewLabel("place_of_receipt", `\bplace\s*of\s*receipt(?:\s*by\s*pre[-\s]*carrier)?`)
	lblPlaceAcceptance  = NewLabel("place_of_acceptance", `\bplace\s*of\s*acceptance`)
	lblPortLoading      = NewLabel("port_of_loading", `\bport\s*of\s*(?:loading|shipment)`)
	lblPOL              = NewLabel("pol", `\bpol\b`)
	lblPortDischarge    = NewLabel("port_of_discharge", `\bport\s*of\s*discharge`)
	lblPortDestination  = NewLabel("port_of_destination", `\bport\s*of\s*(?:destination|unloading)`)
	lblPOD              = NewLabel("pod", `\bpod\b`)
	lblPlaceDelivery    = NewLabel("place_of_delivery", `\bplace\s*of\s*delivery`)
	lblFinalDestination = NewLabel("final_destination", `\bfinal\s*destination`, `country\s+of`, `place\s+of`)
	lblMarks            = NewLabel("marks", `\bmarks\s*(?:&|and)\s*(?:nos?|numbers?)\.?`)
	lblContainer        = NewLabel("container_no", `\bcontainer\s*(?:no|number)s?\.?`)
	lblSeal             = NewLabel("seal_no", `\bseal\s*(?:no|number)s?\.?`)
	lblHSCode           = NewLabel("hs_code", `\bhs\s*code|\bhsn(?:\s*code)?\b|\bitc[-\s]*hs(?:\s*code)?`)
	lblDescription      = NewLabel("description", `\bdescription\s*of\s*goods`)
	lblQuantity         = NewLabel("quantity", `\b(?:quantity|qty)\.?\s*:`)
	lblRate             = NewLabel("rate", `\b(?:rate|unit\s*price)(?:\s*per\s*[a-z]+)?\s*:`)
	lblNetWeight        = NewLabel("net_weight", `\bnet\s*(?:wt|weight)\.?`)
	lblGrossWeight      = NewLabel("gross_weight", `\bgross\s*(?:wt|weight)\.?`)
	lblMeasurement      = NewLabel("measurement", `\bmeasurements?\s*:|\bcbm\s*:|\bvolume\s*:`)
	lblPacking          = NewLabel("packing", `\bpacking\s*:|\bno\.?\s*(?:&|and)\s*kind\s*of\s*(?:pkgs?|packages)`)
	lblDeliveryAgent    = NewLabel("delivery_agent", `\bdelivery\s*agent`)
	lblDeclaration      = NewLabel("declaration", `\bdeclaration\b|\bauthori[sz]ed\s*signatory|\bsignature\s*(?:&|and)\s*date`)
	lblBank             = NewLabel("bank", `\bbank(?:er'?s?)?\s*(?:details|name|a/?c)`)
	lblOtherRef         = NewLabel("other_reference", `\bother\s*references?(?:\(s\))?`)
)

// boundaries ends every block capture.
var boundaries = NewLabelSet(
	lblInvoiceNo, lblDate, lblIECode, lblPONo, lblExporter, lblConsignee, lblNotify,
	lblBuyer, lblCountryOrigin, lblCountryDest, lblTermsDelivery, lblTermsPayment,
	lblDrawback, lblBenefit, lblTotalAmount, lblTotal, lblAmountWords, lblAmount, lblCurrency,
	lblPreCarriage, lblVessel, lblPlaceReceipt, lblPlaceAcceptance, lblPortLoading, lblPOL,
	lblPortDischarge, lblPortDestination, lblPOD, lblPlaceDelivery, lblFinalDestination, lblMarks, lblContainer,
	lblSeal, lblHSCode, lblDescription, lblQuantity, lblRate, lblNetWeight, lblGrossWeight,
	lblMeasurement, lblPacking, lblDeliveryAgent, lblDeclaration, lblBank, lblOtherRef,
)
