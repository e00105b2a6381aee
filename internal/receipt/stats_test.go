package receipt

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("ComputeStats", func() {
	var (
		receipts []*Receipt
		stats    Stats
	)

	at := func(year int, month time.Month, day int) time.Time {
		return time.Date(year, month, day, 9, 0, 0, 0, time.UTC)
	}

	BeforeEach(func() {
		receipts = []*Receipt{
			newTestReceipt("1", "Corner Market", "$12.50", at(2024, time.March, 2)),
			newTestReceipt("2", "Corner Market", "$1,000.10", at(2024, time.March, 20)),
			newTestReceipt("3", "Hardware Depot", "$0.99", at(2024, time.January, 5)),
			newTestReceipt("4", "", "unreadable", at(2024, time.December, 31)),
			newTestReceipt("5", "Hardware Depot", "$5.00", at(2023, time.March, 2)),
			newTestReceipt("6", "Bakery", "", at(2022, time.July, 1)),
		}
	})

	JustBeforeEach(func() {
		stats = ComputeStats(receipts, 2024)
	})

	It("orders months chronologically", func() {
		months := make([]string, len(stats.Months))
		for i, m := range stats.Months {
			months[i] = m.Month
		}
		Expect(months).To(Equal([]string{"2024 January", "2024 March", "2024 December"}))
	})

	It("counts receipts and sums spend in cents per month", func() {
		Expect(stats.Months[1]).To(Equal(MonthStat{Month: "2024 March", Count: 2, SpendCents: 101260}))
	})

	It("counts totals that cannot be parsed", func() {
		Expect(stats.UnparsedTotals).To(Equal(1))
		Expect(stats.Months[2]).To(Equal(MonthStat{Month: "2024 December", Count: 1, SpendCents: 0}))
	})

	It("counts vendors across all years, most frequent first", func() {
		Expect(stats.Vendors).To(Equal([]VendorStat{
			{Vendor: "Corner Market", Count: 2},
			{Vendor: "Hardware Depot", Count: 2},
			{Vendor: "Bakery", Count: 1},
			{Vendor: NotAvailable, Count: 1},
		}))
	})

	When("a total is too large to count in cents", func() {
		BeforeEach(func() {
			receipts = append(receipts,
				newTestReceipt("7", "Corner Market", "TOTAL 123456789012345678901234", at(2024, time.March, 25)))
		})

		It("leaves the month's spend intact and counts the total as unparsed", func() {
			Expect(stats.Months[1]).To(Equal(MonthStat{Month: "2024 March", Count: 3, SpendCents: 101260}))
			Expect(stats.UnparsedTotals).To(Equal(2))
		})
	})

	When("there are no receipts", func() {
		BeforeEach(func() {
			receipts = nil
		})

		It("returns empty lists", func() {
			Expect(stats.Months).NotTo(BeNil())
			Expect(stats.Months).To(BeEmpty())
			Expect(stats.Vendors).To(BeEmpty())
			Expect(stats.Year).To(Equal(2024))
		})
	})
})
