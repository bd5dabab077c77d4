package grade

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Unicode dash variants seen in portal listings (en dash, em dash, figure
// dash, fullwidth hyphen, etc.) folded to the ASCII hyphen used by grade
// tokens.
var dashRe = regexp.MustCompile(`[\x{2010}\x{2011}\x{2012}\x{2013}\x{2014}\x{2015}\x{2212}\x{FE58}\x{FE63}\x{FF0D}]`)

var spaceRe = regexp.MustCompile(`\s+`)

// Compact grade forms like "P4" or "LSC10" that listings sometimes use
// instead of the canonical "P-4" / "LSC-10".
var compactGradeRe = regexp.MustCompile(`(?i)\b(P|D|G|SB|LSC|NO)\s*-?\s*(\d{1,2})\b`)

// Normalize folds unicode dashes to ASCII hyphens, applies NFKC
// normalization and collapses whitespace.
func Normalize(text string) string {
	text = norm.NFKC.String(text)
	text = dashRe.ReplaceAllString(text, "-")
	text = spaceRe.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

// ExpandGrades rewrites compact grade forms to their canonical hyphenated
// spelling: P4 -> P-4, sb 3 -> SB-3, LSC10 -> LSC-10.
func ExpandGrades(text string) string {
	return compactGradeRe.ReplaceAllStringFunc(text, func(m string) string {
		parts := compactGradeRe.FindStringSubmatch(m)
		return strings.ToUpper(parts[1]) + "-" + parts[2]
	})
}
