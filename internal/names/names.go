// Package names builds comparison keys for company names.
package names

import "strings"

// folds maps accented lower-case letters to their base letter.
var folds = strings.NewReplacer(
	"ã", "a", "á", "a", "à", "a", "â", "a", "ä", "a",
	"é", "e", "ê", "e", "è", "e",
	"í", "i", "ì", "i", "î", "i",
	"ó", "o", "ô", "o", "õ", "o", "ò", "o",
	"ú", "u", "ü", "u", "ù", "u",
	"ç", "c",
	"ñ", "n",
)

// Normalize trims, lower-cases, folds accents and collapses whitespace runs to one space.
// " ÁCME   Ltda " -> "acme ltda".
func Normalize(s string) string {
	s = folds.Replace(strings.ToLower(strings.TrimSpace(s)))
	return strings.Join(strings.Fields(s), " ")
}
