package parser

import "strings"

// encodingRepairs maps the garbage sequences produced when the booking
// platform's UTF-8 mail is decoded as Windows-1252 back to the intended
// Polish letters, and collapses dash variants (including their mangled
// forms) to a plain hyphen. Replacement outputs never appear among the
// inputs, so the table can be applied any number of times.
var encodingRepairs = strings.NewReplacer(
	"Ä…", "ą", "Ä„", "Ą",
	"Ä‡", "ć", "Ä†", "Ć",
	"Ä™", "ę", "Ä˜", "Ę",
	"Å‚", "ł", "Å", "Ł",
	"Å„", "ń", "Åƒ", "Ń",
	"Ã³", "ó", "Ã“", "Ó",
	"Å›", "ś", "Åš", "Ś",
	"Åº", "ź", "Å¹", "Ź",
	"Å¼", "ż", "Å»", "Ż",
	"â€“", "-", "â€”", "-",
	"–", "-", "—", "-",
)

// Normalize repairs mis-decoded text and normalizes whitespace before any
// pattern matching. Pure and idempotent; unmapped sequences pass through
// unchanged. Line structure is preserved because the parser is line-oriented.
func Normalize(raw string) string {
	s := strings.ReplaceAll(raw, "\r\n", "\n")
	s = encodingRepairs.Replace(s)

	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.Join(strings.Fields(line), " ")
	}
	return strings.Join(lines, "\n")
}
