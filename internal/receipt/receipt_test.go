package receipt

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/zombor/receipt-scanner/internal/expense"
)

var _ = Describe("NewSummaryView", func() {
	scanned := time.Date(2024, 3, 9, 14, 30, 0, 0, time.UTC)

	It("resolves the gallery fields from the summary", func() {
		r := newTestReceipt("a", "Corner Market", "$12.50", scanned)
		r.Summary.ReceiptDetails["INVOICE_RECEIPT_ID"] = "INV-7"
		r.Summary.ReceiptDetails["INVOICE_RECEIPT_DATE"] = "03/09/2024"
		r.Category = "groceries"

		Expect(NewSummaryView(r)).To(Equal(SummaryView{
			ID:          "a",
			ScanDate:    scanned,
			Vendor:      "Corner Market",
			Total:       "$12.50",
			ItemCount:   "0",
			InvoiceID:   "INV-7",
			InvoiceDate: "03/09/2024",
			Category:    "groceries",
		}))
	})

	It("uses N/A for missing values", func() {
		r := &Receipt{ID: "b", TimeScanned: scanned}
		v := NewSummaryView(r)
		Expect(v.Vendor).To(Equal(NotAvailable))
		Expect(v.Total).To(Equal(NotAvailable))
		Expect(v.ItemCount).To(Equal(NotAvailable))
		Expect(v.InvoiceID).To(Equal(NotAvailable))
		Expect(v.InvoiceDate).To(Equal(NotAvailable))
		Expect(v.Category).To(Equal(NotAvailable))
	})

	It("reports whether an image is stored", func() {
		r := &Receipt{}
		Expect(r.HasImage()).To(BeFalse())
		r.Filename = "x.jpg"
		Expect(r.HasImage()).To(BeTrue())
	})

	It("reads the item count from a normalized receipt", func() {
		n := sampleNormalized()
		r := &Receipt{Summary: n.Summary, ItemListing: n.Table}
		Expect(NewSummaryView(r).ItemCount).To(Equal("2"))
		Expect(r.Summary.ReceiptDetails[expense.ItemsKey]).To(Equal("2"))
	})
})
