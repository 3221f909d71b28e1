package utils

import (
	"strings"
)

// attributeAliases maps a canonical attribute term to the spellings found in
// catalog data and user input.
var attributeAliases = map[string][]string{
	"grey":      {"grey", "gray"},
	"gray":      {"gray", "grey"},
	"golden":    {"golden", "gold"},
	"gold":      {"gold", "golden"},
	"maroon":    {"maroon", "burgundy", "wine"},
	"silver":    {"silver", "metallic silver"},
	"cng":       {"cng", "compressed natural gas"},
	"electric":  {"electric", "ev", "battery electric"},
	"hybrid":    {"hybrid", "plug-in hybrid", "phev"},
	"petrol":    {"petrol", "gasoline"},
	"automatic": {"automatic", "auto", "amt", "cvt", "dct"},
	"manual":    {"manual", "mt"},
}

// FuzzyMatchAttribute reports whether a catalog attribute value satisfies a
// requested term: case-insensitive equality, substring containment, or a
// known alias of the term.
func FuzzyMatchAttribute(term, value string) bool {
	termLower := strings.ToLower(strings.TrimSpace(term))
	valueLower := strings.ToLower(strings.TrimSpace(value))

	if termLower == "" {
		return true
	}
	if termLower == valueLower {
		return true
	}
	if strings.Contains(valueLower, termLower) {
		return true
	}

	for _, alias := range attributeAliases[termLower] {
		if valueLower == alias || (len(alias) > 2 && strings.Contains(valueLower, alias)) {
			return true
		}
	}

	return false
}

// ContainsFold is a case-insensitive substring test
func ContainsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(strings.TrimSpace(needle)))
}
