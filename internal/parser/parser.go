package parser

import (
	"bufio"
	"bytes"
	"errors"
	"io"
	"iter"
	"strings"

	"github.com/carson-networks/finances-tracker/internal/ledger"
)

// Parser converts a bank statement export into raw transactions.
//
// The returned sequence is lazy and can be ranged over once. Rows that
// cannot be parsed are skipped; only read errors of the underlying stream
// are yielded, after which the sequence stops.
type Parser interface {
	Parse(r io.Reader) iter.Seq2[ledger.RawTransaction, error]
	Format() string
}

// Registry holds named parsers.
type Registry struct {
	parsers map[string]Parser
}

// NewRegistry creates an empty parser registry.
func NewRegistry() *Registry {
	return &Registry{parsers: make(map[string]Parser)}
}

// Register adds a parser. Panics on duplicate format.
func (r *Registry) Register(p Parser) {
	key := strings.ToLower(p.Format())
	if _, ok := r.parsers[key]; ok {
		panic("duplicate parser format: " + key)
	}
	r.parsers[key] = p
}

// Get returns the parser for format, or nil.
func (r *Registry) Get(format string) Parser {
	return r.parsers[strings.ToLower(strings.TrimSpace(format))]
}

// Formats lists the registered format names.
func (r *Registry) Formats() []string {
	formats := make([]string, 0, len(r.parsers))
	for k := range r.parsers {
		formats = append(formats, k)
	}
	return formats
}

// DefaultRegistry returns a registry with all built-in parsers.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(&MBankParser{})
	r.Register(&MillenniumParser{})
	return r
}

// Collect drains a parser sequence into a slice.
func Collect(seq iter.Seq2[ledger.RawTransaction, error]) ([]ledger.RawTransaction, error) {
	var rows []ledger.RawTransaction
	for row, err := range seq {
		if err != nil {
			return rows, err
		}
		rows = append(rows, row)
	}
	return rows, nil
}

const maxLineSize = 1 << 20

// lines yields the lines of r without line terminators. A leading UTF-8 BOM
// is removed. Lines longer than maxLineSize are skipped like any other
// unusable row; only read errors of r are yielded.
func lines(r io.Reader) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		br := bufio.NewReaderSize(r, 64*1024)
		first := true
		for {
			line, tooLong, err := readLine(br)
			atEOF := errors.Is(err, io.EOF)
			if err != nil && !atEOF {
				yield("", err)
				return
			}
			if atEOF && len(line) == 0 && !tooLong {
				return
			}
			if !tooLong {
				text := strings.TrimSuffix(string(line), "\r")
				if first {
					text = strings.TrimPrefix(text, "\ufeff")
				}
				if !yield(text, nil) {
					return
				}
			}
			first = false
			if atEOF {
				return
			}
		}
	}
}

// readLine returns the next line without its newline. An overlong line is
// consumed in full and reported with tooLong set and no content.
func readLine(br *bufio.Reader) (line []byte, tooLong bool, err error) {
	for {
		chunk, err := br.ReadSlice('\n')
		if !tooLong {
			if len(line)+len(chunk) > maxLineSize+1 {
				tooLong, line = true, nil
			} else {
				line = append(line, chunk...)
			}
		}
		if errors.Is(err, bufio.ErrBufferFull) {
			continue
		}
		return bytes.TrimSuffix(line, []byte("\n")), tooLong, err
	}
}
