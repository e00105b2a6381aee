package receipt

import (
	"sort"
	"time"

	"github.com/zombor/receipt-scanner/internal/expense"
)

// MonthStat holds the receipt count and spend of one month
type MonthStat struct {
	Month      string `json:"month"`
	Count      int    `json:"count"`
	SpendCents int64  `json:"spend_cents"`
}

// VendorStat holds the number of receipts scanned for a vendor
type VendorStat struct {
	Vendor string `json:"vendor"`
	Count  int    `json:"count"`
}

// Stats summarizes the receipt history
type Stats struct {
	Year           int          `json:"year"`
	Months         []MonthStat  `json:"months"`
	Vendors        []VendorStat `json:"vendors"`
	UnparsedTotals int          `json:"unparsed_totals"`
}

// ComputeStats builds per-month figures for receipts scanned in year and
// vendor counts across the whole history
func ComputeStats(receipts []*Receipt, year int) Stats {
	stats := Stats{
		Year:    year,
		Months:  make([]MonthStat, 0),
		Vendors: make([]VendorStat, 0),
	}

	months := make(map[time.Month]*MonthStat)
	vendors := make(map[string]int)
	for _, r := range receipts {
		vendors[expense.DeepGet(r.Summary, NotAvailable, "VENDOR", "VENDOR_NAME")]++

		if r.TimeScanned.Year() != year {
			continue
		}
		m := r.TimeScanned.Month()
		ms, ok := months[m]
		if !ok {
			ms = &MonthStat{Month: r.TimeScanned.Format("2006 January")}
			months[m] = ms
		}
		ms.Count++

		cents, ok := expense.MoneyCents(r.Summary.ReceiptDetails["TOTAL"])
		if !ok {
			stats.UnparsedTotals++
			continue
		}
		ms.SpendCents += cents
	}

	for m := time.January; m <= time.December; m++ {
		if ms, ok := months[m]; ok {
			stats.Months = append(stats.Months, *ms)
		}
	}

	for vendor, count := range vendors {
		stats.Vendors = append(stats.Vendors, VendorStat{Vendor: vendor, Count: count})
	}
	sort.Slice(stats.Vendors, func(i, j int) bool {
		if stats.Vendors[i].Count != stats.Vendors[j].Count {
			return stats.Vendors[i].Count > stats.Vendors[j].Count
		}
		return stats.Vendors[i].Vendor < stats.Vendors[j].Vendor
	})

	return stats
}
