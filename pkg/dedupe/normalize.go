package dedupe

import (
	"maps"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// DefaultAbbreviations returns the standard token expansions.
func DefaultAbbreviations() map[string]string {
	return map[string]string{
		"db":  "dumbbell",
		"bb":  "barbell",
		"kb":  "kettlebell",
		"bw":  "bodyweight",
		"alt": "alternating",
		"inc": "incline",
		"dec": "decline",
		"lat": "lateral",
		"med": "medball",
	}
}

// Normalizer canonicalizes display names into comparable token strings.
// It is safe for concurrent use.
type Normalizer struct {
	abbreviations map[string]string
	foldAccents   bool
}

// NewNormalizer binds an abbreviation table. The table is copied; a nil
// table disables expansion.
func NewNormalizer(abbreviations map[string]string, foldAccents bool) *Normalizer {
	return &Normalizer{
		abbreviations: maps.Clone(abbreviations),
		foldAccents:   foldAccents,
	}
}

// Normalize lowercases name, replaces everything outside [a-z0-9] and
// whitespace with a space, collapses whitespace and expands abbreviations
// token by token.
func (n *Normalizer) Normalize(name string) string {
	if name == "" {
		return ""
	}
	if n.foldAccents {
		name = stripMarks(name)
	}

	var b strings.Builder
	b.Grow(len(name))
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		default:
			b.WriteByte(' ')
		}
	}

	tokens := strings.Fields(b.String())
	for i, tok := range tokens {
		if expanded, ok := n.abbreviations[tok]; ok {
			tokens[i] = expanded
		}
	}
	return strings.Join(tokens, " ")
}

// Tokens returns the distinct words of a normalized name.
func Tokens(normalized string) map[string]struct{} {
	fields := strings.Fields(normalized)
	set := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		set[f] = struct{}{}
	}
	return set
}

// stripMarks decomposes s and drops combining marks, so "é" becomes "e".
func stripMarks(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}
