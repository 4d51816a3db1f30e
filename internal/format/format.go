// Package format turns raw claim and submission values into the strings
// shown in tables and summary lists.
package format

import (
	"fmt"
	"math"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

const (
	claimIDPrefix = "LAA-"
	dateLayout    = "02/01/2006"
	poundSign     = "£"
)

// ClaimID renders a numeric claim id as "LAA-" followed by at least three
// digits.
func ClaimID(id int64) string {
	return fmt.Sprintf("%s%03d", claimIDPrefix, id)
}

// GBP renders an amount in pounds with two decimal places and thousands
// separators. A nil amount renders as "".
func GBP(amount *float64) string {
	if amount == nil || math.IsNaN(*amount) || math.IsInf(*amount, 0) {
		return ""
	}
	v := *amount
	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}
	p := message.NewPrinter(language.BritishEnglish)
	return sign + poundSign + p.Sprint(number.Decimal(v, number.Scale(2)))
}

// Number renders an integer with thousands separators.
func Number(n int) string {
	p := message.NewPrinter(language.BritishEnglish)
	return p.Sprint(number.Decimal(n))
}

// Date renders the UTC calendar date as DD/MM/YYYY. A nil or zero time
// renders as "".
func Date(t *time.Time) string {
	if t == nil || t.IsZero() {
		return ""
	}
	return t.UTC().Format(dateLayout)
}

// OptionalString returns the pointed-to string or "".
func OptionalString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

var dateInputLayouts = []string{ //nolint:gochecknoglobals // read-only layout table
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05",
	time.DateOnly,
	"2006/01/02",
}

// ParseDate accepts the date shapes the API produces: a plain date, an
// RFC 3339 timestamp or a timestamp without a zone (read as UTC). Blank
// input yields nil without error.
func ParseDate(raw string) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil //nolint:nilnil // absent date is not an error
	}
	for _, layout := range dateInputLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return &t, nil
		}
	}
	return nil, fmt.Errorf("unrecognised date %q", raw)
}
