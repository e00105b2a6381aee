package receipt

import (
	"path/filepath"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/zombor/receipt-scanner/internal/expense"
)

var _ = Describe("BoltDB", func() {
	var (
		tmpDir  string
		dbPath  string
		db      *BoltDB
		scanned time.Time
	)

	BeforeEach(func() {
		tmpDir = GinkgoT().TempDir()
		dbPath = filepath.Join(tmpDir, "test.db")
		scanned = time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)
		var err error
		db, err = NewBoltDB(dbPath)
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		if db != nil {
			db.Close()
		}
	})

	Describe("InsertReceipt", func() {
		var (
			receipt *Receipt
			err     error
		)

		BeforeEach(func() {
			receipt = newTestReceipt("test-id", "Corner Market", "$25.99", scanned)
			receipt.ItemListing = []expense.ItemRow{{"ITEM": "Apples", "PRICE": "4.00"}}
			receipt.Filename = "test.jpg"
			receipt.ContentType = "image/jpeg"
		})

		JustBeforeEach(func() {
			err = db.InsertReceipt(receipt)
		})

		When("inserting succeeds", func() {
			It("should not return an error", func() {
				Expect(err).NotTo(HaveOccurred())
			})

			It("should round-trip the summary and item listing", func() {
				saved, getErr := db.GetReceipt("test-id")
				Expect(getErr).NotTo(HaveOccurred())
				Expect(saved.Summary).To(Equal(receipt.Summary))
				Expect(saved.ItemListing).To(Equal(receipt.ItemListing))
				Expect(saved.TimeScanned.Equal(scanned)).To(BeTrue())
			})
		})

		When("a receipt with the same ID exists", func() {
			BeforeEach(func() {
				Expect(db.InsertReceipt(newTestReceipt("test-id", "Original", "$1.00", scanned))).To(Succeed())
			})

			It("returns ErrDuplicateID", func() {
				Expect(err).To(MatchError(ErrDuplicateID))
			})

			It("keeps the original receipt", func() {
				saved, getErr := db.GetReceipt("test-id")
				Expect(getErr).NotTo(HaveOccurred())
				Expect(saved.Summary.Vendor["VENDOR_NAME"]).To(Equal("Original"))
			})
		})
	})

	Describe("GetReceipt", func() {
		var (
			receiptID string
			receipt   *Receipt
			err       error
		)

		JustBeforeEach(func() {
			receipt, err = db.GetReceipt(receiptID)
		})

		When("receipt exists", func() {
			BeforeEach(func() {
				receiptID = "test-id"
				Expect(db.InsertReceipt(newTestReceipt("test-id", "Corner Market", "$25.99", scanned))).To(Succeed())
			})

			It("should not return an error", func() {
				Expect(err).NotTo(HaveOccurred())
			})

			It("should return the correct receipt", func() {
				Expect(receipt.ID).To(Equal("test-id"))
				Expect(receipt.Summary.ReceiptDetails["TOTAL"]).To(Equal("$25.99"))
			})
		})

		When("receipt does not exist", func() {
			BeforeEach(func() {
				receiptID = "nonexistent"
			})

			It("returns ErrNotFound", func() {
				Expect(err).To(MatchError(ErrNotFound))
				Expect(receipt).To(BeNil())
			})
		})
	})

	Describe("ListReceipts", func() {
		When("receipts exist", func() {
			BeforeEach(func() {
				Expect(db.InsertReceipt(newTestReceipt("a", "One", "$1", scanned))).To(Succeed())
				Expect(db.InsertReceipt(newTestReceipt("b", "Two", "$2", scanned))).To(Succeed())
			})

			It("returns every receipt", func() {
				receipts, err := db.ListReceipts()
				Expect(err).NotTo(HaveOccurred())
				Expect(receipts).To(HaveLen(2))
			})
		})

		When("the database is empty", func() {
			It("returns an empty slice", func() {
				receipts, err := db.ListReceipts()
				Expect(err).NotTo(HaveOccurred())
				Expect(receipts).NotTo(BeNil())
				Expect(receipts).To(BeEmpty())
			})
		})
	})

	Describe("DeleteReceipt", func() {
		When("receipt exists", func() {
			BeforeEach(func() {
				Expect(db.InsertReceipt(newTestReceipt("a", "One", "$1", scanned))).To(Succeed())
			})

			It("removes it", func() {
				Expect(db.DeleteReceipt("a")).To(Succeed())
				_, err := db.GetReceipt("a")
				Expect(err).To(MatchError(ErrNotFound))
			})
		})

		When("receipt does not exist", func() {
			It("returns ErrNotFound", func() {
				Expect(db.DeleteReceipt("missing")).To(MatchError(ErrNotFound))
			})
		})
	})

	Describe("persistence", func() {
		It("keeps receipts across reopening", func() {
			Expect(db.InsertReceipt(newTestReceipt("a", "One", "$1", scanned))).To(Succeed())
			Expect(db.Close()).To(Succeed())

			reopened, err := NewBoltDB(dbPath)
			Expect(err).NotTo(HaveOccurred())
			db = reopened

			saved, err := db.GetReceipt("a")
			Expect(err).NotTo(HaveOccurred())
			Expect(saved.Summary.Vendor["VENDOR_NAME"]).To(Equal("One"))
		})
	})
})
