package scanning

import (
	"context"

	"github.com/zombor/receipt-scanner/internal/expense"
)

// mockAnalysis is a fixed AnalyzeExpense response for offline development
const mockAnalysis = `{
  "ExpenseDocuments": [
    {
      "SummaryFields": [
        {"Type": {"Text": "VENDOR_NAME"}, "ValueDetection": {"Text": "Sample Grocery"}, "Confidence": 99.0},
        {"Type": {"Text": "VENDOR_ADDRESS"}, "ValueDetection": {"Text": "1 Market Street"}, "Confidence": 97.5},
        {"Type": {"Text": "INVOICE_RECEIPT_ID"}, "LabelDetection": {"Text": "Receipt #"}, "ValueDetection": {"Text": "0001"}, "Confidence": 95.0},
        {"Type": {"Text": "INVOICE_RECEIPT_DATE"}, "ValueDetection": {"Text": "2024-01-15"}, "Confidence": 96.0},
        {"Type": {"Text": "SUBTOTAL"}, "LabelDetection": {"Text": "Subtotal"}, "ValueDetection": {"Text": "$6.50"}, "Confidence": 98.0},
        {"Type": {"Text": "TAX"}, "LabelDetection": {"Text": "Tax"}, "ValueDetection": {"Text": "$0.52"}, "Confidence": 98.0},
        {"Type": {"Text": "TOTAL"}, "LabelDetection": {"Text": "Total"}, "ValueDetection": {"Text": "$7.02"}, "Confidence": 99.0}
      ],
      "LineItemGroups": [
        {
          "LineItems": [
            {"LineItemExpenseFields": [
              {"Type": {"Text": "ITEM"}, "ValueDetection": {"Text": "Milk"}},
              {"Type": {"Text": "QUANTITY"}, "ValueDetection": {"Text": "1"}},
              {"Type": {"Text": "UNIT_PRICE"}, "ValueDetection": {"Text": "$3.50"}},
              {"Type": {"Text": "PRICE"}, "ValueDetection": {"Text": "$3.50"}}
            ]},
            {"LineItemExpenseFields": [
              {"Type": {"Text": "ITEM"}, "ValueDetection": {"Text": "Bread"}},
              {"Type": {"Text": "QUANTITY"}, "ValueDetection": {"Text": "2"}},
              {"Type": {"Text": "UNIT_PRICE"}, "ValueDetection": {"Text": "$1.50"}},
              {"Type": {"Text": "PRICE"}, "ValueDetection": {"Text": "$3.00"}}
            ]}
          ]
        }
      ]
    }
  ]
}`

// NewMock returns a scanner that ignores the image and analyzes a fixed
// sample receipt, for running without cloud credentials
func NewMock() Scanner {
	return ScannerFunc(func(ctx context.Context, imageData []byte, contentType string) (*expense.NormalizedReceipt, error) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		doc, err := expense.DecodeAnalyzeExpense([]byte(mockAnalysis))
		if err != nil {
			return nil, err
		}
		return expense.Normalize(doc)
	})
}
