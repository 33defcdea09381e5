package parser

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"talent-match/internal/domain/insight"

	"github.com/shopspring/decimal"
)

// stringValue accepts a JSON string or null (read as empty).
func stringValue(field string, raw json.RawMessage) (string, error) {
	if isNull(raw) {
		return "", nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", malformed("%s: expected a string", field)
	}
	return strings.TrimSpace(s), nil
}

// numericText returns the literal text of a JSON number or of a quoted
// numeric string.
func numericText(field string, raw json.RawMessage) (string, error) {
	raw = bytes.TrimSpace(raw)
	if isNull(raw) {
		return "", malformed("%s: null value", field)
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return "", malformed("%s: invalid string", field)
		}
		s = strings.TrimSpace(s)
		if s == "" {
			return "", malformed("%s: empty value", field)
		}
		return s, nil
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return "", malformed("%s: expected a number", field)
	}
	return n.String(), nil
}

func intValue(field string, raw json.RawMessage) (int, error) {
	text, err := numericText(field, raw)
	if err != nil {
		return 0, err
	}
	if v, err := strconv.Atoi(text); err == nil {
		return v, nil
	}
	f, err := strconv.ParseFloat(text, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, malformed("%s: %q is not a number", field, text)
	}
	if f != math.Trunc(f) || math.Abs(f) > math.MaxInt32 {
		return 0, malformed("%s: %q is not an integer", field, text)
	}
	return int(f), nil
}

func scoreValue(field string, raw json.RawMessage) (decimal.Decimal, error) {
	text, err := numericText(field, raw)
	if err != nil {
		return decimal.Decimal{}, err
	}
	d, err := decimal.NewFromString(text)
	if err != nil {
		return decimal.Decimal{}, malformed("%s: %q is not a decimal", field, text)
	}
	if !insight.ValidScore(d) {
		return decimal.Decimal{}, malformed("%s: %s outside [0.00, 1.00] or more than two decimals", field, text)
	}
	return d.Round(2), nil
}
