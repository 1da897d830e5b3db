package reconcile

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var punctuation = strings.NewReplacer(
	"’", "'",
	"‘", "'",
	"`", "'",
	"–", "-",
	"\u2014", "-",
	".", "",
)

var suffixes = map[string]bool{
	"jr": true, "sr": true, "ii": true, "iii": true, "iv": true, "v": true,
	"2nd": true, "3rd": true,
}

// NormalizeName reduces a player name to a comparison key: accents and
// periods stripped, apostrophe and dash variants unified, generational
// suffixes dropped, lower-cased, single-spaced. "T.J. Hockenson" and
// "TJ Hockenson" produce the same key.
func NormalizeName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return ""
	}

	name = punctuation.Replace(name)

	t := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	if stripped, _, err := transform.String(t, name); err == nil {
		name = stripped
	}

	fields := strings.Fields(strings.ToLower(name))
	out := fields[:0]
	for i, f := range fields {
		// Never drop the only token; "V" alone is still a name.
		if i > 0 && suffixes[f] {
			continue
		}
		out = append(out, f)
	}
	return strings.Join(out, " ")
}

// lastName returns the final token of a normalized name.
func lastName(normalized string) string {
	if i := strings.LastIndexByte(normalized, ' '); i >= 0 {
		return normalized[i+1:]
	}
	return normalized
}
