package parser

import (
	"io"
	"iter"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/carson-networks/finances-tracker/internal/ledger"
)

// MillenniumParser parses Bank Millennium exports: one header line, then
// comma separated rows of at least 11 columns with separate debit and
// credit amounts.
type MillenniumParser struct{}

const (
	millenniumMinFields      = 11
	millenniumColAccount     = 0
	millenniumColDate        = 1
	millenniumColType        = 3
	millenniumColCounterpart = 5
	millenniumColDesc        = 6
	millenniumColDebit       = 7
	millenniumColCredit      = 8

	// MillenniumFallbackDescription is used when type, counterparty and
	// description are all empty.
	MillenniumFallbackDescription = "Transakcja Millennium"
)

// Format returns the parser name.
func (p *MillenniumParser) Format() string { return "millennium" }

// Parse skips the header line and yields every row with a non-zero amount.
func (p *MillenniumParser) Parse(r io.Reader) iter.Seq2[ledger.RawTransaction, error] {
	return func(yield func(ledger.RawTransaction, error) bool) {
		header := true
		for line, err := range lines(r) {
			if err != nil {
				yield(ledger.RawTransaction{}, err)
				return
			}
			if header {
				header = false
				continue
			}
			if strings.TrimSpace(line) == "" {
				continue
			}
			row, ok := parseMillenniumRow(line)
			if !ok {
				continue
			}
			if !yield(row, nil) {
				return
			}
		}
	}
}

func parseMillenniumRow(line string) (ledger.RawTransaction, bool) {
	fields := splitQuoted(line, ',', true)
	if len(fields) < millenniumMinFields {
		return ledger.RawTransaction{}, false
	}
	for i := range fields {
		fields[i] = strings.Trim(fields[i], `"`)
	}

	date, err := parseDate(fields[millenniumColDate])
	if err != nil {
		return ledger.RawTransaction{}, false
	}

	amount := millenniumAmount(fields[millenniumColDebit], fields[millenniumColCredit])
	if amount.IsZero() {
		return ledger.RawTransaction{}, false
	}

	return ledger.RawTransaction{
		Date:         date,
		Description:  millenniumDescription(fields),
		Amount:       ledger.RoundAmount(amount),
		AccountLabel: fields[millenniumColAccount],
		Bank:         "millennium",
	}, true
}

// millenniumAmount returns minus the debit when a debit is present, else the
// credit. Unparsable values count as zero, and a present but unparsable debit
// does not fall back to the credit.
func millenniumAmount(debit, credit string) decimal.Decimal {
	debit = normalizeMillenniumAmount(debit)
	credit = normalizeMillenniumAmount(credit)
	if debit != "" {
		d, err := parseCommaDecimal(debit)
		if err != nil {
			return decimal.Zero
		}
		return d.Abs().Neg()
	}
	if credit != "" {
		c, err := parseCommaDecimal(credit)
		if err != nil {
			return decimal.Zero
		}
		return c.Abs()
	}
	return decimal.Zero
}

func normalizeMillenniumAmount(s string) string {
	return strings.ReplaceAll(removeSpaces(s), ".", ",")
}

func millenniumDescription(fields []string) string {
	parts := make([]string, 0, 3)
	for _, i := range []int{millenniumColType, millenniumColCounterpart, millenniumColDesc} {
		if fields[i] != "" {
			parts = append(parts, fields[i])
		}
	}
	if len(parts) == 0 {
		return MillenniumFallbackDescription
	}
	return strings.Join(parts, " - ")
}
