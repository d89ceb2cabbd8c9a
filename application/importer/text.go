// Package importer turns external sources into candidate palette colors.
// It never touches a board; the import service decides what to insert.
package importer

import (
	"regexp"
	"strings"

	"contrastboard/domain/core/valueobjects"
)

var hexPattern = regexp.MustCompile(`#[0-9A-Fa-f]{6}`)

// ExtractHexColors returns every #RRGGBB literal in text, canonicalized,
// first occurrence wins when the same color repeats in another case
func ExtractHexColors(text string) []valueobjects.HexColor {
	matches := hexPattern.FindAllString(text, -1)
	return Dedupe(matches)
}

// Dedupe canonicalizes raw hex strings and drops repeats and malformed
// entries, keeping input order
func Dedupe(raw []string) []valueobjects.HexColor {
	seen := make(map[string]struct{}, len(raw))
	out := make([]valueobjects.HexColor, 0, len(raw))
	for _, r := range raw {
		c, err := valueobjects.ParseHexColor(r)
		if err != nil {
			continue
		}
		key := strings.ToUpper(c.String())
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, c)
	}
	return out
}
