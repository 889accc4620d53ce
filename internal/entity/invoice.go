package entity

import "encoding/json"

// InvoiceRecord is the structured view of one commercial invoice, shaped for a Bill of Lading.
// Every field is always present when serialised; absent values are "".
type InvoiceRecord struct {
	InvoiceNo                 string      `json:"invoice_no"`
	IECode                    string      `json:"ie_code"`
	PONo                      string      `json:"po_no"`
	Exporter                  string      `json:"exporter"`
	ExporterName              string      `json:"exporter_name"`
	Consignee                 string      `json:"consignee"`
	NotifyParty               string      `json:"notify_party"`
	CountryOfOrigin           string      `json:"country_of_origin"`
	CountryOfFinalDestination string      `json:"country_of_final_destination"`
	TermsOfPayment            string      `json:"terms_of_payment"`
	DrawbackNo                string      `json:"drawback_no"`
	BenefitScheme             string      `json:"benefit_scheme"`
	TotalAmount               string      `json:"total_amount"`
	Currency                  string      `json:"currency"`
	PreCarriageBy             string      `json:"pre_carriage_by"`
	VesselVoyage              string      `json:"vessel_voyage"`
	PlaceOfReceipt            string      `json:"place_of_receipt"`
	PlaceOfAcceptance         string      `json:"place_of_acceptance"`
	PortOfLoading             string      `json:"port_of_loading"`
	PortOfDischarge           string      `json:"port_of_discharge"`
	PlaceOfDelivery           string      `json:"place_of_delivery"`
	FinalDestination          string      `json:"final_destination"`
	ContainerNo               string      `json:"container_no"`
	SealNo                    string      `json:"seal_no"`
	DeliveryAgent             string      `json:"delivery_agent"`
	Goods                     []GoodsLine `json:"goods"`
}

// GoodsLine is one line item of the shipment.
type GoodsLine struct {
	HSCode             string `json:"hs_code"`
	Description        string `json:"description"`
	Quantity           string `json:"quantity"`
	Weight             string `json:"weight"`
	Packing            string `json:"packing"`
	Unit               string `json:"unit"`
	Rate               string `json:"rate"`
	Amount             string `json:"amount"`
	UnitsMT            string `json:"units_mt"`
	WeightMeasurements string `json:"weight_measurements"`
	SrMarks            string `json:"sr_marks"`
}

// NewInvoiceRecord returns an empty record whose goods list is non-nil.
func NewInvoiceRecord() InvoiceRecord {
	return InvoiceRecord{Goods: []GoodsLine{}}
}

// MarshalJSON emits "goods": [] rather than null for a record built without NewInvoiceRecord.
func (r InvoiceRecord) MarshalJSON() ([]byte, error) {
	type plain InvoiceRecord
	if r.Goods == nil {
		r.Goods = []GoodsLine{}
	}
	return json.Marshal(plain(r))
}

// UnmarshalJSON keeps goods non-nil when the payload omits it or sends null.
func (r *InvoiceRecord) UnmarshalJSON(data []byte) error {
	type plain InvoiceRecord
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	if p.Goods == nil {
		p.Goods = []GoodsLine{}
	}
	*r = InvoiceRecord(p)
	return nil
}

// FileStem is the invoice number used in download names, or "Unknown".
func (r InvoiceRecord) FileStem() string {
	if r.InvoiceNo == "" {
		return "Unknown"
	}
	return r.InvoiceNo
}
