package parser

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var errEmptyAmount = errors.New("empty amount")

var dateLayouts = []string{
	"2006-01-02",
	"02.01.2006",
	"02-01-2006",
	"2006/01/02",
	"02/01/2006",
	"2006-01-02 15:04:05",
	"02.01.2006 15:04:05",
	time.RFC3339,
}

// parseDate accepts the date layouts seen in Polish bank exports and returns
// the calendar day in UTC.
func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if d, err := time.Parse(layout, s); err == nil {
			return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC), nil
		}
	}
	return time.Time{}, fmt.Errorf("parsing date %q: unsupported layout", s)
}

// parseCommaDecimal parses an amount written with a comma decimal separator,
// such as "-1 234,56". A dot is not accepted.
func parseCommaDecimal(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, errEmptyAmount
	}
	if strings.Contains(s, ".") {
		return decimal.Zero, fmt.Errorf("parsing amount %q: unexpected '.'", s)
	}
	if strings.Count(s, ",") > 1 {
		return decimal.Zero, fmt.Errorf("parsing amount %q: more than one ','", s)
	}
	d, err := decimal.NewFromString(strings.Replace(s, ",", ".", 1))
	if err != nil {
		return decimal.Zero, fmt.Errorf("parsing amount %q: %w", s, err)
	}
	return d, nil
}

// removeSpaces drops ASCII and non-breaking spaces used as thousands
// separators.
func removeSpaces(s string) string {
	return strings.Map(func(r rune) rune {
		if r == ' ' || r == '\u00a0' || r == '\u202f' {
			return -1
		}
		return r
	}, s)
}
