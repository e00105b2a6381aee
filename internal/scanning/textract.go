package scanning

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/textract"
	"github.com/aws/aws-sdk-go-v2/service/textract/types"

	"github.com/zombor/receipt-scanner/internal/expense"
)

const defaultTextractTimeout = 30 * time.Second

// TextractAPI is the subset of the Textract client used by the scanner
type TextractAPI interface {
	AnalyzeExpense(ctx context.Context, params *textract.AnalyzeExpenseInput, optFns ...func(*textract.Options)) (*textract.AnalyzeExpenseOutput, error)
}

// Textract implements the Scanner interface using AWS Textract AnalyzeExpense
type Textract struct {
	client  TextractAPI
	timeout time.Duration
}

// NewTextract creates a Textract scanner from a loaded AWS configuration
func NewTextract(cfg aws.Config, timeout time.Duration) *Textract {
	return NewTextractWithClient(textract.NewFromConfig(cfg), timeout)
}

// NewTextractWithClient creates a Textract scanner with a custom client for testing
func NewTextractWithClient(client TextractAPI, timeout time.Duration) *Textract {
	if timeout <= 0 {
		timeout = defaultTextractTimeout
	}
	return &Textract{
		client:  client,
		timeout: timeout,
	}
}

// Analyze runs expense analysis on the image and normalizes the response.
// Failed calls are not retried here beyond the SDK's own retryer.
func (t *Textract) Analyze(ctx context.Context, imageData []byte, contentType string) (*expense.NormalizedReceipt, error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	document, err := prepareForTextract(imageData, contentType)
	if err != nil {
		return nil, err
	}

	out, err := t.client.AnalyzeExpense(ctx, &textract.AnalyzeExpenseInput{
		Document: &types.Document{Bytes: document},
	})
	if err != nil {
		return nil, fmt.Errorf("calling textract: %w", err)
	}

	doc, err := FromAnalyzeExpense(out)
	if err != nil {
		return nil, err
	}
	return expense.Normalize(doc)
}

// Close is a no-op, the SDK client holds no resources that need releasing
func (t *Textract) Close() error {
	return nil
}

// FromAnalyzeExpense translates the SDK response into a RawDocument.
// Only ExpenseDocuments[0] is read, and only its first line item group.
func FromAnalyzeExpense(out *textract.AnalyzeExpenseOutput) (expense.RawDocument, error) {
	if out == nil || len(out.ExpenseDocuments) == 0 {
		return expense.RawDocument{}, expense.Malformed("no expense documents")
	}
	sdoc := out.ExpenseDocuments[0]

	var doc expense.RawDocument
	for i, f := range sdoc.SummaryFields {
		typ, value, err := expenseFieldText(f)
		if err != nil {
			return expense.RawDocument{}, expense.Malformed("summary field %d: %v", i, err)
		}
		field := expense.SummaryField{
			Type:       typ,
			Value:      value,
			Confidence: float64(aws.ToFloat32(f.ValueDetection.Confidence)),
		}
		if f.LabelDetection != nil {
			field.Label = aws.ToString(f.LabelDetection.Text)
		}
		doc.SummaryFields = append(doc.SummaryFields, field)
	}

	if len(sdoc.LineItemGroups) == 0 {
		return doc, nil
	}
	lineItems := sdoc.LineItemGroups[0].LineItems
	group := expense.LineItemGroup{LineItems: make([]expense.LineItem, 0, len(lineItems))}
	for i, li := range lineItems {
		item := expense.LineItem{Fields: make([]expense.LineItemField, 0, len(li.LineItemExpenseFields))}
		for j, f := range li.LineItemExpenseFields {
			typ, value, err := expenseFieldText(f)
			if err != nil {
				return expense.RawDocument{}, expense.Malformed("line item %d field %d: %v", i, j, err)
			}
			item.Fields = append(item.Fields, expense.LineItemField{Type: typ, Value: value})
		}
		group.LineItems = append(group.LineItems, item)
	}
	doc.LineItemGroups = []expense.LineItemGroup{group}

	return doc, nil
}

func expenseFieldText(f types.ExpenseField) (string, string, error) {
	if f.Type == nil || f.Type.Text == nil {
		return "", "", fmt.Errorf("missing Type.Text")
	}
	if f.ValueDetection == nil || f.ValueDetection.Text == nil {
		return "", "", fmt.Errorf("missing ValueDetection.Text")
	}
	return *f.Type.Text, *f.ValueDetection.Text, nil
}
