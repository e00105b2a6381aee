package expense

import (
	"errors"
	"fmt"
	"strconv"
)

// ErrMalformedResponse reports an analysis response that does not have the
// expected nested shape. It is never retried here.
var ErrMalformedResponse = errors.New("malformed analysis response")

// Malformed wraps ErrMalformedResponse with detail
func Malformed(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrMalformedResponse, fmt.Sprintf(format, args...))
}

// Normalize maps one raw expense document into the stable receipt schema.
//
// Only the first line item group is read. Summary fields are bucketed in
// input order so a repeated tag keeps its last value, and tags outside the
// classification tables are dropped. RECEIPT_DETAILS.ITEMS is always set to
// the table length. Either a complete receipt or an error is returned.
func Normalize(doc RawDocument) (*NormalizedReceipt, error) {
	if len(doc.LineItemGroups) == 0 {
		return nil, Malformed("no line item groups")
	}

	items := doc.LineItemGroups[0].LineItems
	table := make([]ItemRow, 0, len(items))
	for _, item := range items {
		row := make(ItemRow, len(item.Fields))
		for _, field := range item.Fields {
			row[field.Type] = field.Value
		}
		table = append(table, row)
	}

	summary := NewFieldBuckets()
	for _, field := range doc.SummaryFields {
		if bucket := summary.Bucket(Classify(field.Type)); bucket != nil {
			bucket[field.Type] = field.Value
		}
	}
	summary.ReceiptDetails[ItemsKey] = strconv.Itoa(len(table))

	return &NormalizedReceipt{
		Summary: summary,
		Table:   table,
	}, nil
}
