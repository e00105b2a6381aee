package receipt

import (
	"fmt"
	"sort"

	"github.com/xuri/excelize/v2"
)

const (
	receiptsSheet = "Receipts"
	itemsSheet    = "Items"
)

// ExportXLSX writes the receipt history into a workbook with one row per
// receipt on the Receipts sheet and one row per line item on the Items sheet
func ExportXLSX(receipts []*Receipt) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	// NewFile starts with Sheet1; rename it rather than leave it empty
	if err := f.SetSheetName(f.GetSheetName(0), receiptsSheet); err != nil {
		return nil, fmt.Errorf("naming receipts sheet: %w", err)
	}
	if _, err := f.NewSheet(itemsSheet); err != nil {
		return nil, fmt.Errorf("creating items sheet: %w", err)
	}

	if err := writeRow(f, receiptsSheet, 1, []any{
		"ID", "Scan Date", "Vendor", "Total", "Items", "Invoice ID", "Invoice Date", "Category",
	}); err != nil {
		return nil, err
	}

	// Item columns are the union of every field type seen, sorted
	columnSet := make(map[string]struct{})
	for _, r := range receipts {
		for _, row := range r.ItemListing {
			for k := range row {
				columnSet[k] = struct{}{}
			}
		}
	}
	columns := make([]string, 0, len(columnSet))
	for k := range columnSet {
		columns = append(columns, k)
	}
	sort.Strings(columns)

	header := []any{"Receipt ID"}
	for _, c := range columns {
		header = append(header, c)
	}
	if err := writeRow(f, itemsSheet, 1, header); err != nil {
		return nil, err
	}

	itemRow := 2
	for i, r := range receipts {
		v := NewSummaryView(r)
		if err := writeRow(f, receiptsSheet, i+2, []any{
			v.ID, v.ScanDate.Format("2006-01-02 15:04"), v.Vendor, v.Total, v.ItemCount, v.InvoiceID, v.InvoiceDate, v.Category,
		}); err != nil {
			return nil, err
		}

		for _, item := range r.ItemListing {
			values := []any{r.ID}
			for _, c := range columns {
				if v, ok := item[c]; ok {
					values = append(values, v)
				} else {
					values = append(values, nil)
				}
			}
			if err := writeRow(f, itemsSheet, itemRow, values); err != nil {
				return nil, err
			}
			itemRow++
		}
	}

	widths := []struct {
		sheet, col string
		width      float64
	}{
		{receiptsSheet, "A", 38},
		{receiptsSheet, "B", 18},
		{receiptsSheet, "C", 28},
		{itemsSheet, "A", 38},
	}
	for _, w := range widths {
		if err := f.SetColWidth(w.sheet, w.col, w.col, w.width); err != nil {
			return nil, fmt.Errorf("xlsx column width %s!%s: %w", w.sheet, w.col, err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}
	return buf.Bytes(), nil
}

func writeRow(f *excelize.File, sheet string, row int, values []any) error {
	for i, v := range values {
		if v == nil {
			continue
		}
		cell, err := excelize.CoordinatesToCellName(i+1, row)
		if err != nil {
			return fmt.Errorf("cell name: %w", err)
		}
		if err := f.SetCellValue(sheet, cell, v); err != nil {
			return fmt.Errorf("writing %s!%s: %w", sheet, cell, err)
		}
	}
	return nil
}
