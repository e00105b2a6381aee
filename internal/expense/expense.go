package expense

// ItemsKey is the derived RECEIPT_DETAILS key holding the line item count
const ItemsKey = "ITEMS"

// SummaryField is one header/footer field detected by the analysis service
type SummaryField struct {
	Type       string
	Label      string
	Value      string
	Confidence float64
}

// LineItemField is one cell of a detected line item
type LineItemField struct {
	Type  string
	Value string
}

// LineItem is one row of a detected line item table
type LineItem struct {
	Fields []LineItemField
}

// LineItemGroup is one detected table region
type LineItemGroup struct {
	LineItems []LineItem
}

// RawDocument is a single expense document as returned by the analysis
// service, already translated out of the service's wire shape.
type RawDocument struct {
	SummaryFields  []SummaryField
	LineItemGroups []LineItemGroup
}

// ItemRow maps a field type tag (ITEM, QUANTITY, UNIT_PRICE, PRICE, ...) to
// its value for one line item. Absent keys mean unknown, not zero.
type ItemRow map[string]string

// FieldBuckets is the normalized receipt summary
type FieldBuckets struct {
	Vendor         map[string]string `json:"VENDOR"`
	ReceiptDetails map[string]string `json:"RECEIPT_DETAILS"`
	Customer       map[string]string `json:"CUSTOMER"`
}

// NewFieldBuckets returns buckets with all three mappings allocated
func NewFieldBuckets() FieldBuckets {
	return FieldBuckets{
		Vendor:         map[string]string{},
		ReceiptDetails: map[string]string{},
		Customer:       map[string]string{},
	}
}

// Bucket returns the mapping for the given bucket, or nil for BucketNone
func (b FieldBuckets) Bucket(name Bucket) map[string]string {
	switch name {
	case BucketVendor:
		return b.Vendor
	case BucketReceiptDetails:
		return b.ReceiptDetails
	case BucketCustomer:
		return b.Customer
	}
	return nil
}

// NormalizedReceipt is the unit persisted and displayed for one analyzed image
type NormalizedReceipt struct {
	Summary FieldBuckets `json:"summary"`
	Table   []ItemRow    `json:"table"`
}
