package textmatch

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// Normalize composes the text to NFC, trims surrounding whitespace and
// upper-cases it with Norwegian rules. Letters such as Æ, Ø and Å are kept
// as they are.
func Normalize(text string) string {
	normed := norm.NFC.String(text)
	normed = strings.TrimSpace(normed)
	return cases.Upper(language.Norwegian).String(normed)
}
