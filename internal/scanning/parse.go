package scanning

import (
	"strings"

	"github.com/zombor/receipt-scanner/internal/expense"
)

// parseAnalysisJSON extracts the AnalyzeExpense-shaped JSON object from an
// LLM answer and normalizes it
func parseAnalysisJSON(text string) (*expense.NormalizedReceipt, error) {
	text = strings.TrimSpace(text)

	// Remove opening markdown code blocks
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSpace(text)

	// Find the JSON object boundaries - look for first { and last }
	startIdx := strings.Index(text, "{")
	if startIdx == -1 {
		return nil, expense.Malformed("no JSON object found in response")
	}

	endIdx := strings.LastIndex(text, "}")
	if endIdx == -1 || endIdx < startIdx {
		return nil, expense.Malformed("invalid JSON object in response")
	}

	doc, err := expense.DecodeAnalyzeExpense([]byte(text[startIdx : endIdx+1]))
	if err != nil {
		return nil, err
	}
	return expense.Normalize(doc)
}
