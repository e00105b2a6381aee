package scanning

import (
	"context"

	"github.com/zombor/receipt-scanner/internal/expense"
)

// Scanner defines the interface for receipt analysis backends
type Scanner interface {
	// Analyze sends a receipt image/PDF to the analysis service and returns
	// the normalized result
	Analyze(ctx context.Context, imageData []byte, contentType string) (*expense.NormalizedReceipt, error)
	// Close closes the scanner and releases resources
	Close() error
}

// ScannerFunc adapts a plain function to the Scanner interface
type ScannerFunc func(ctx context.Context, imageData []byte, contentType string) (*expense.NormalizedReceipt, error)

// Analyze calls f
func (f ScannerFunc) Analyze(ctx context.Context, imageData []byte, contentType string) (*expense.NormalizedReceipt, error) {
	return f(ctx, imageData, contentType)
}

// Close is a no-op
func (f ScannerFunc) Close() error {
	return nil
}
