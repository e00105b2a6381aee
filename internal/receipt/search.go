package receipt

import (
	"math"
	"sort"
	"strings"

	"github.com/agext/levenshtein"
)

const (
	// SearchCutoff is the minimum score a receipt needs to be returned
	SearchCutoff = 50
	// SearchLimit caps the number of search results
	SearchLimit = 10
)

// SearchResult pairs a summary view with its match score (0-100)
type SearchResult struct {
	SummaryView
	Score int `json:"score"`
}

// searchableFields lists the view values a query is matched against.
// Missing values are skipped so "N/A" never matches.
func searchableFields(v SummaryView) []string {
	fields := []string{
		v.Vendor,
		v.InvoiceID,
		v.ScanDate.Format("2006-01-02"),
		v.Total,
		v.InvoiceDate,
		v.Category,
	}
	out := fields[:0]
	for _, f := range fields {
		if f != "" && f != NotAvailable {
			out = append(out, strings.ToLower(f))
		}
	}
	return out
}

// wordSimilarity scores one query word against a field value. A word
// contained in the value is a full match; otherwise the best similarity
// against the whole value or any of its words wins.
func wordSimilarity(word, field string) float64 {
	if strings.Contains(field, word) {
		return 1
	}
	best := levenshtein.Similarity(word, field, nil)
	for _, part := range strings.Fields(field) {
		if s := levenshtein.Similarity(word, part, nil); s > best {
			best = s
		}
	}
	return best
}

// score averages the best match of every query word over the fields
func score(words []string, fields []string) int {
	if len(words) == 0 || len(fields) == 0 {
		return 0
	}
	var total float64
	for _, w := range words {
		var best float64
		for _, f := range fields {
			if s := wordSimilarity(w, f); s > best {
				best = s
			}
		}
		total += best
	}
	return int(math.Round(100 * total / float64(len(words))))
}

// QueryWords splits a search query into lowercase words
func QueryWords(query string) []string {
	return strings.Fields(strings.ToLower(query))
}

// Search ranks receipts against a query. An empty query returns every
// receipt newest first with a full score.
func Search(receipts []*Receipt, query string) []SearchResult {
	words := QueryWords(query)
	results := make([]SearchResult, 0, len(receipts))
	for _, r := range receipts {
		view := NewSummaryView(r)
		if len(words) == 0 {
			results = append(results, SearchResult{SummaryView: view, Score: 100})
			continue
		}
		s := score(words, searchableFields(view))
		if s < SearchCutoff {
			continue
		}
		results = append(results, SearchResult{SummaryView: view, Score: s})
	}

	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].ScanDate.After(results[j].ScanDate)
	})

	if len(words) > 0 && len(results) > SearchLimit {
		results = results[:SearchLimit]
	}
	return results
}
