package lingoseo

import (
	"strings"
	"unicode"

	"github.com/goliatone/go-slug"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// DefaultDescriptionLength is the meta description limit used by TruncateText.
const DefaultDescriptionLength = 160

// SanitizeForSEO collapses every whitespace run to one space and trims.
func SanitizeForSEO(text string) string {
	return strings.Join(strings.Fields(text), " ")
}

// TruncateText sanitizes text and cuts it to maxLength runes, ending with
// "..." when cut. maxLength <= 0 uses DefaultDescriptionLength.
func TruncateText(text string, maxLength int) string {
	if maxLength <= 0 {
		maxLength = DefaultDescriptionLength
	}
	s := SanitizeForSEO(text)
	r := []rune(s)
	if len(r) <= maxLength {
		return s
	}
	if maxLength <= 3 {
		return string(r[:maxLength])
	}
	return string(r[:maxLength-3]) + "..."
}

// Slug folds diacritics, turns every run of characters outside [a-z0-9]
// into one hyphen and trims hyphens at both ends. Text with nothing
// sluggable left yields "".
func Slug(text string) string {
	fold := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(fold, strings.ToLower(text))
	if err != nil {
		folded = strings.ToLower(text)
	}
	spaced := strings.Map(func(c rune) rune {
		if (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9') {
			return c
		}
		return ' '
	}, folded)

	s, err := slug.Normalize(spaced)
	if err != nil {
		return ""
	}
	return s
}
