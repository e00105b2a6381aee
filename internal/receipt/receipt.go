package receipt

import (
	"sort"
	"time"

	"github.com/zombor/receipt-scanner/internal/expense"
)

// NotAvailable is shown for summary values the analysis did not produce
const NotAvailable = "N/A"

// Receipt is a stored scan result. Summary and ItemListing are written once
// at insert time and never edited.
type Receipt struct {
	ID          string               `json:"id"`
	TimeScanned time.Time            `json:"time_scanned"`
	Summary     expense.FieldBuckets `json:"summary"`
	ItemListing []expense.ItemRow    `json:"item_listing"`
	Category    string               `json:"category,omitempty"`
	Filename    string               `json:"filename,omitempty"`
	ContentType string               `json:"content_type,omitempty"`
	ImageSize   int                  `json:"image_size,omitempty"`
}

// HasImage reports whether the source image was stored with the receipt
func (r *Receipt) HasImage() bool {
	return r.Filename != ""
}

// SummaryView is the gallery card for a receipt
type SummaryView struct {
	ID          string    `json:"id"`
	ScanDate    time.Time `json:"scan_date"`
	Vendor      string    `json:"vendor"`
	Total       string    `json:"total"`
	ItemCount   string    `json:"item_count"`
	InvoiceID   string    `json:"invoice_id"`
	InvoiceDate string    `json:"invoice_date"`
	Category    string    `json:"category"`
}

// NewSummaryView resolves the gallery fields of a receipt, using N/A for
// anything the analysis did not produce
func NewSummaryView(r *Receipt) SummaryView {
	category := r.Category
	if category == "" {
		category = NotAvailable
	}
	return SummaryView{
		ID:          r.ID,
		ScanDate:    r.TimeScanned,
		Vendor:      expense.DeepGet(r.Summary, NotAvailable, "VENDOR", "VENDOR_NAME"),
		Total:       expense.DeepGet(r.Summary, NotAvailable, "RECEIPT_DETAILS", "TOTAL"),
		ItemCount:   expense.DeepGet(r.Summary, NotAvailable, "RECEIPT_DETAILS", expense.ItemsKey),
		InvoiceID:   expense.DeepGet(r.Summary, NotAvailable, "RECEIPT_DETAILS", "INVOICE_RECEIPT_ID"),
		InvoiceDate: expense.DeepGet(r.Summary, NotAvailable, "RECEIPT_DETAILS", "INVOICE_RECEIPT_DATE"),
		Category:    category,
	}
}

func sortNewestFirst(receipts []*Receipt) {
	sort.SliceStable(receipts, func(i, j int) bool {
		return receipts[i].TimeScanned.After(receipts[j].TimeScanned)
	})
}
