package expense

import (
	"math"
	"reflect"
	"strconv"
	"strings"
	"unicode"
)

// ParseMoney extracts a number from free text by dropping every character
// that is not a decimal digit or a decimal point. Digits from other scripts
// are read as their ASCII values. Currency symbols, thousands separators and
// trailing codes are discarded, not interpreted, so "$12,34.56 CR" reads as
// 1234.56. Non-string input, empty results and
// malformed numbers (such as two decimal points) report ok=false.
func ParseMoney(v any) (float64, bool) {
	var text string
	switch t := v.(type) {
	case string:
		text = t
	case *string:
		if t == nil {
			return 0, false
		}
		text = *t
	default:
		return 0, false
	}

	stripped := strings.Map(func(r rune) rune {
		if (r >= '0' && r <= '9') || r == '.' {
			return r
		}
		if d, ok := digitValue(r); ok {
			return '0' + d
		}
		return -1
	}, text)
	if stripped == "" {
		return 0, false
	}

	amount, err := strconv.ParseFloat(stripped, 64)
	if err != nil {
		return 0, false
	}
	return amount, true
}

// digitValue returns the numeric value of a Unicode decimal digit. Decimal
// digits are allocated in contiguous runs of ten starting at zero, so the
// value is the offset from the start of the run, modulo ten.
func digitValue(r rune) (rune, bool) {
	if !unicode.IsDigit(r) {
		return 0, false
	}
	start := r
	for unicode.IsDigit(start - 1) {
		start--
	}
	return (r - start) % 10, true
}

// MoneyCents is ParseMoney rounded to whole cents. Amounts too large for an
// int64 count of cents report ok=false.
func MoneyCents(v any) (int64, bool) {
	amount, ok := ParseMoney(v)
	if !ok {
		return 0, false
	}
	cents := math.Round(amount * 100)
	if math.IsNaN(cents) || math.IsInf(cents, 0) || cents >= math.MaxInt64 {
		return 0, false
	}
	return int64(cents), true
}

// DeepGet walks nested mappings (any map keyed by a string type) key by key and returns the value found at
// the end of the path. It returns def as soon as a level is missing or is not
// a mapping, a key is absent, or the final value is not a T.
//
//	DeepGet(summary, "N/A", "VENDOR", "VENDOR_NAME")
func DeepGet[T any](m any, def T, keys ...string) T {
	cur := m
	for _, key := range keys {
		next, ok := lookup(cur, key)
		if !ok {
			return def
		}
		cur = next
	}
	v, ok := cur.(T)
	if !ok {
		return def
	}
	return v
}

func lookup(m any, key string) (any, bool) {
	switch t := m.(type) {
	case map[string]any:
		v, ok := t[key]
		return v, ok
	case map[string]string:
		v, ok := t[key]
		return v, ok
	case map[string]map[string]string:
		v, ok := t[key]
		return v, ok
	case ItemRow:
		v, ok := t[key]
		return v, ok
	case FieldBuckets:
		return bucketLookup(t, key)
	case *FieldBuckets:
		if t == nil {
			return nil, false
		}
		return bucketLookup(*t, key)
	}
	return reflectLookup(m, key)
}

// reflectLookup handles any other map keyed by a string kind
func reflectLookup(m any, key string) (any, bool) {
	rv := reflect.ValueOf(m)
	if rv.Kind() != reflect.Map || rv.IsNil() || rv.Type().Key().Kind() != reflect.String {
		return nil, false
	}
	v := rv.MapIndex(reflect.ValueOf(key).Convert(rv.Type().Key()))
	if !v.IsValid() {
		return nil, false
	}
	return v.Interface(), true
}

func bucketLookup(b FieldBuckets, key string) (any, bool) {
	bucket := Bucket(key)
	if !isBucket(bucket) {
		return nil, false
	}
	return b.Bucket(bucket), true
}

func isBucket(b Bucket) bool {
	for _, known := range Buckets {
		if b == known {
			return true
		}
	}
	return false
}
