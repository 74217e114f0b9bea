package csvutil

import "strings"

// Encode renders a CSV document with a plain header row and every data field
// double-quote wrapped regardless of content, which is the export contract.
// encoding/csv only quotes fields that need it, so the rows are built by hand;
// embedded quotes are doubled so the output stays parseable.
func Encode(header []string, rows [][]string) []byte {
	var b strings.Builder
	b.WriteString(strings.Join(header, ","))
	b.WriteByte('\n')

	for _, row := range rows {
		for i, field := range row {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteByte('"')
			b.WriteString(strings.ReplaceAll(field, `"`, `""`))
			b.WriteByte('"')
		}
		b.WriteByte('\n')
	}
	return []byte(b.String())
}
