package membership

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// HandleGenerator derives identifier-safe handles from human names.
//
// Example:
//
//	gen, _ := membership.NewHandleGenerator("-")
//	gen.Generate("Müller & Co.") // "mueller-co"
type HandleGenerator struct {
	separator string
	table     map[rune]string
}

// NewHandleGenerator creates a generator using separator between words.
// The separator cannot be empty nor contain "," or "|".
func NewHandleGenerator(separator string, extra ...map[string]string) (*HandleGenerator, error) {
	if err := validateSeparator(separator); err != nil {
		return nil, err
	}

	table := transliterations
	if len(extra) > 0 {
		table = make(map[rune]string, len(transliterations))
		for r, s := range transliterations {
			table[r] = s
		}
		for _, m := range extra {
			for k, v := range m {
				rs := []rune(k)
				if len(rs) != 1 {
					return nil, NewError(ErrInvalidConfiguration, "transliteration key "+k+" must be a single character")
				}
				table[rs[0]] = v
			}
		}
	}

	return &HandleGenerator{separator: separator, table: table}, nil
}

// Separator returns the separator placed between words.
func (g *HandleGenerator) Separator() string {
	return g.separator
}

// Generate returns the handle for text. The result only contains [a-z0-9]
// runs joined by the separator, and is empty when text has no usable characters.
func (g *HandleGenerator) Generate(text string) string {
	var b strings.Builder
	for _, r := range text {
		if s, ok := g.table[r]; ok {
			b.WriteString(s)
			continue
		}
		b.WriteRune(r)
	}

	folded, _, err := transform.String(transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC), b.String())
	if err != nil {
		folded = b.String()
	}
	folded = strings.ToLower(folded)

	var out strings.Builder
	pending := false
	for _, r := range folded {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if pending && out.Len() > 0 {
				out.WriteString(g.separator)
			}
			pending = false
			out.WriteRune(r)
			continue
		}
		pending = true
	}
	return out.String()
}

// GenerateHandle is a one-shot helper around NewHandleGenerator and Generate.
func GenerateHandle(text, separator string) (string, error) {
	g, err := NewHandleGenerator(separator)
	if err != nil {
		return "", err
	}
	return g.Generate(text), nil
}

// validateHandle checks a caller supplied handle, reporting failures as kind.
func validateHandle(handle string, kind error) error {
	if strings.TrimSpace(handle) == "" {
		return NewError(kind, "handle cannot be empty")
	}
	if strings.ContainsAny(handle, reservedSeparatorChars) {
		return NewError(kind, "handle cannot contain , or |")
	}
	if strings.ContainsFunc(handle, unicode.IsSpace) {
		return NewError(kind, "handle cannot contain whitespace")
	}
	return nil
}
