package parser

import "strings"

// splitQuoted splits line on sep outside of double quotes. Quotes only
// toggle the quoted state; there is no escaping. When keepQuotes is false
// the quote characters are dropped from the fields.
func splitQuoted(line string, sep rune, keepQuotes bool) []string {
	var (
		fields   []string
		b        strings.Builder
		inQuotes bool
	)
	for _, c := range line {
		switch {
		case c == '"':
			inQuotes = !inQuotes
			if keepQuotes {
				b.WriteRune(c)
			}
		case c == sep && !inQuotes:
			fields = append(fields, b.String())
			b.Reset()
		default:
			b.WriteRune(c)
		}
	}
	return append(fields, b.String())
}
