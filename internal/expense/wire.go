package expense

import (
	"encoding/json"
)

// The AnalyzeExpense JSON shape. Required keys are pointers so an absent key
// can be told apart from an empty value. Documents and groups past the first
// stay raw so they are never decoded.
type wireResponse struct {
	ExpenseDocuments *[]json.RawMessage `json:"ExpenseDocuments"`
}

type wireDocument struct {
	SummaryFields  *[]wireField       `json:"SummaryFields"`
	LineItemGroups *[]json.RawMessage `json:"LineItemGroups"`
}

type wireGroup struct {
	LineItems *[]wireLineItem `json:"LineItems"`
}

type wireLineItem struct {
	LineItemExpenseFields *[]wireField `json:"LineItemExpenseFields"`
}

type wireField struct {
	Type           *wireDetection `json:"Type"`
	LabelDetection *wireDetection `json:"LabelDetection"`
	ValueDetection *wireDetection `json:"ValueDetection"`
	Confidence     *float64       `json:"Confidence"`
}

type wireDetection struct {
	Text       *string  `json:"Text"`
	Confidence *float64 `json:"Confidence"`
}

// DecodeAnalyzeExpense translates an AnalyzeExpense JSON response into a
// RawDocument. Only ExpenseDocuments[0] is read. Invalid JSON and missing
// required keys report ErrMalformedResponse.
func DecodeAnalyzeExpense(data []byte) (RawDocument, error) {
	var resp wireResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return RawDocument{}, Malformed("decoding response: %v", err)
	}
	if resp.ExpenseDocuments == nil || len(*resp.ExpenseDocuments) == 0 {
		return RawDocument{}, Malformed("no expense documents")
	}
	var wdoc wireDocument
	if err := json.Unmarshal((*resp.ExpenseDocuments)[0], &wdoc); err != nil {
		return RawDocument{}, Malformed("decoding expense document: %v", err)
	}

	if wdoc.SummaryFields == nil {
		return RawDocument{}, Malformed("missing SummaryFields")
	}
	if wdoc.LineItemGroups == nil {
		return RawDocument{}, Malformed("missing LineItemGroups")
	}

	var doc RawDocument
	for i, wf := range *wdoc.SummaryFields {
		typ, value, err := wf.typeAndValue()
		if err != nil {
			return RawDocument{}, Malformed("summary field %d: %v", i, err)
		}
		field := SummaryField{
			Type:       typ,
			Value:      value,
			Confidence: wf.confidence(),
		}
		if wf.LabelDetection != nil && wf.LabelDetection.Text != nil {
			field.Label = *wf.LabelDetection.Text
		}
		doc.SummaryFields = append(doc.SummaryFields, field)
	}

	groups := *wdoc.LineItemGroups
	if len(groups) == 0 {
		return doc, nil
	}
	// Later groups are separate table regions and are not read.
	var wgroup wireGroup
	if err := json.Unmarshal(groups[0], &wgroup); err != nil {
		return RawDocument{}, Malformed("decoding line item group: %v", err)
	}
	if wgroup.LineItems == nil {
		return RawDocument{}, Malformed("missing LineItems")
	}
	group := LineItemGroup{LineItems: make([]LineItem, 0, len(*wgroup.LineItems))}
	for i, wl := range *wgroup.LineItems {
		if wl.LineItemExpenseFields == nil {
			return RawDocument{}, Malformed("line item %d: missing LineItemExpenseFields", i)
		}
		item := LineItem{Fields: make([]LineItemField, 0, len(*wl.LineItemExpenseFields))}
		for j, wf := range *wl.LineItemExpenseFields {
			typ, value, err := wf.typeAndValue()
			if err != nil {
				return RawDocument{}, Malformed("line item %d field %d: %v", i, j, err)
			}
			item.Fields = append(item.Fields, LineItemField{Type: typ, Value: value})
		}
		group.LineItems = append(group.LineItems, item)
	}
	doc.LineItemGroups = []LineItemGroup{group}

	return doc, nil
}

type missingKeyError string

func (e missingKeyError) Error() string {
	return "missing " + string(e)
}

func (f wireField) typeAndValue() (string, string, error) {
	if f.Type == nil {
		return "", "", missingKeyError("Type")
	}
	if f.Type.Text == nil {
		return "", "", missingKeyError("Type.Text")
	}
	if f.ValueDetection == nil {
		return "", "", missingKeyError("ValueDetection")
	}
	if f.ValueDetection.Text == nil {
		return "", "", missingKeyError("ValueDetection.Text")
	}
	return *f.Type.Text, *f.ValueDetection.Text, nil
}

func (f wireField) confidence() float64 {
	if f.Confidence != nil {
		return *f.Confidence
	}
	if f.ValueDetection != nil && f.ValueDetection.Confidence != nil {
		return *f.ValueDetection.Confidence
	}
	return 0
}
