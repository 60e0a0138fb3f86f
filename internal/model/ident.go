package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Ident is an identifier the backend may send either as a JSON number or as a
// JSON string. It is kept in its textual form and normalised on comparison.
type Ident string

func (id *Ident) UnmarshalJSON(data []byte) error {
	text, err := decodeLoose(data)
	if err != nil {
		return fmt.Errorf("ident: %w", err)
	}
	*id = Ident(text)
	return nil
}

// MarshalJSON writes numeric identifiers as numbers and everything else as strings.
func (id Ident) MarshalJSON() ([]byte, error) {
	if id == "" {
		return []byte("null"), nil
	}
	if n, err := strconv.ParseInt(string(id), 10, 64); err == nil && strconv.FormatInt(n, 10) == string(id) {
		return []byte(id), nil
	}
	return json.Marshal(string(id))
}

// Numeric returns the numeric value of the identifier. Empty, non-numeric and
// non-finite values report false.
func (id Ident) Numeric() (float64, bool) {
	return parseNumeric(string(id))
}

func (id Ident) String() string {
	return string(id)
}

// Money is a decimal amount that arrives either as a number or as a decimal
// string such as "1500.00".
type Money string

func (m *Money) UnmarshalJSON(data []byte) error {
	text, err := decodeLoose(data)
	if err != nil {
		return fmt.Errorf("money: %w", err)
	}
	*m = Money(text)
	return nil
}

func (m Money) Value() (float64, bool) {
	return parseNumeric(string(m))
}

func (m Money) String() string {
	v, ok := m.Value()
	if !ok {
		return string(m)
	}
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func decodeLoose(data []byte) (string, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return "", nil
	}

	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return "", err
		}
		return s, nil
	case '-', '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return "", err
		}
		return n.String(), nil
	default:
		return "", fmt.Errorf("unsupported value %s", data)
	}
}

func parseNumeric(raw string) (float64, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}
