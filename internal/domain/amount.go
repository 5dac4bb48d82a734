package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Amount is a monetary value kept in the form the brand typed it ("$1,250.50", "5000").
// It decodes from either a JSON string or a JSON number and always encodes as a string.
type Amount string

// UnmarshalJSON implements json.Unmarshaler.
func (a *Amount) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*a = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*a = Amount(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("amount must be a string or a number: %w", err)
	}
	// Numbers are stored in plain decimal form so 1e3 reads back as "1000".
	v, err := strconv.ParseFloat(n.String(), 64)
	if err != nil {
		return fmt.Errorf("amount out of range: %w", err)
	}
	*a = Amount(strconv.FormatFloat(v, 'f', -1, 64))
	return nil
}

// String returns the raw text.
func (a Amount) String() string { return string(a) }

// IsZero reports whether no value was supplied.
func (a Amount) IsZero() bool { return strings.TrimSpace(string(a)) == "" }

// Value parses the amount with ParseReward.
func (a Amount) Value() float64 { return ParseReward(string(a)) }

// ParseReward converts a monetary string to a number. Every character other than a
// digit, '.' or '-' is dropped first, so currency symbols and thousands separators
// are tolerated. Anything that still does not parse, including the empty string, is 0.
//
// Commas are always treated as thousands separators; "1,5" reads as 15.
func ParseReward(raw string) float64 {
	var b strings.Builder
	for _, r := range raw {
		if (r >= '0' && r <= '9') || r == '.' || r == '-' {
			b.WriteRune(r)
		}
	}
	cleaned := b.String()
	if cleaned == "" {
		return 0
	}
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0
	}
	return v
}
