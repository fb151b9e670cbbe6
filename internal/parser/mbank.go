package parser

import (
	"errors"
	"io"
	"iter"
	"strings"

	"github.com/carson-networks/finances-tracker/internal/ledger"
)

// MBankParser parses mBank history exports: a free-form preamble, a header
// line starting with "#Data operacji", then semicolon separated rows.
type MBankParser struct{}

const (
	mbankHeaderMarker = "#Data operacji"
	mbankMinFields    = 5
	mbankColDate      = 0
	mbankColDesc      = 1
	mbankColAccount   = 2
	mbankColCategory  = 3
	mbankColAmount    = 4
)

var errTooFewFields = errors.New("too few fields")

// Format returns the parser name.
func (p *MBankParser) Format() string { return "mbank" }

// Parse yields the rows following the header marker. Without a marker no
// rows are produced.
func (p *MBankParser) Parse(r io.Reader) iter.Seq2[ledger.RawTransaction, error] {
	return func(yield func(ledger.RawTransaction, error) bool) {
		inBody := false
		for line, err := range lines(r) {
			if err != nil {
				yield(ledger.RawTransaction{}, err)
				return
			}
			if !inBody {
				inBody = strings.HasPrefix(strings.TrimSpace(line), mbankHeaderMarker)
				continue
			}
			if strings.TrimSpace(line) == "" {
				continue
			}
			row, err := parseMBankRow(line)
			if err != nil {
				continue
			}
			if !yield(row, nil) {
				return
			}
		}
	}
}

func parseMBankRow(line string) (ledger.RawTransaction, error) {
	fields := splitQuoted(line, ';', false)
	if len(fields) < mbankMinFields {
		return ledger.RawTransaction{}, errTooFewFields
	}

	date, err := parseDate(fields[mbankColDate])
	if err != nil {
		return ledger.RawTransaction{}, err
	}

	raw := strings.ReplaceAll(fields[mbankColAmount], "PLN", "")
	amount, err := parseCommaDecimal(removeSpaces(raw))
	if err != nil {
		return ledger.RawTransaction{}, err
	}

	return ledger.RawTransaction{
		Date:         date,
		Description:  fields[mbankColDesc],
		Amount:       ledger.RoundAmount(amount),
		AccountLabel: fields[mbankColAccount],
		CategoryHint: fields[mbankColCategory],
		Bank:         "mbank",
	}, nil
}
