// Package numparse extracts numeric values from loosely typed dataset fields.
//
// Ratings and confidences in the review dump arrive either as JSON numbers
// or as annotated strings such as "8 (accept)" or "3: fairly confident".
// Extract pulls the first decimal or integer token out of whatever it is
// given and reports failure through the second return value; it never
// returns an error and never panics.
package numparse

import (
	"encoding/json"
	"regexp"
	"strconv"
)

// firstNumber matches the first integer or decimal token, including an
// optional leading sign. First-match semantics are intentional: the
// historical rankings were produced with this exact behavior, so a string
// like "confidence: -3 to 5" extracts -3.
var firstNumber = regexp.MustCompile(`-?\d+(?:\.\d+)?`)

// Extract returns the numeric value carried by v. Supported inputs are Go
// numeric types (what encoding/json produces plus common int widths),
// json.Number, and strings containing a number-like token. Everything else,
// including nil, reports ok=false.
func Extract(v any) (float64, bool) {
	switch x := v.(type) {
	case nil:
		return 0, false
	case float64:
		return x, true
	case float32:
		return float64(x), true
	case int:
		return float64(x), true
	case int32:
		return float64(x), true
	case int64:
		return float64(x), true
	case json.Number:
		return fromString(x.String())
	case string:
		return fromString(x)
	default:
		return 0, false
	}
}

func fromString(s string) (float64, bool) {
	tok := firstNumber.FindString(s)
	if tok == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(tok, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}
