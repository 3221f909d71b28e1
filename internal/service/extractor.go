package service

import (
	"regexp"
	"strconv"
	"strings"

	"carfinder/internal/model"
	"carfinder/internal/utils"
)

// extractionRule fills fields of an Extraction from lower-cased text.
// Rules only write fields that are still unset.
type extractionRule struct {
	name  string
	apply func(text string, ex *model.Extraction)
}

// Extractor turns free text into filter fields using a fixed vocabulary.
// It is stateless and safe for concurrent use.
type Extractor struct {
	rules []extractionRule
}

// NewExtractor creates an extractor with the default rule order
func NewExtractor() *Extractor {
	return &Extractor{
		rules: []extractionRule{
			{name: "brand", apply: extractBrand},
			{name: "price_bounds", apply: extractPriceBounds},
			{name: "price_terms", apply: extractPriceTerms},
			{name: "color", apply: matchInto(colorPattern, func(ex *model.Extraction) *string { return &ex.Color })},
			{name: "fuel_type", apply: matchInto(fuelPattern, func(ex *model.Extraction) *string { return &ex.FuelType })},
			{name: "transmission", apply: matchInto(transmissionPattern, func(ex *model.Extraction) *string { return &ex.Transmission })},
			{name: "result_count", apply: extractResultCount},
			{name: "references", apply: extractReferences},
		},
	}
}

// Extract runs every rule over the text. A text that is nothing but a paging
// phrase yields only a pagination directive.
func (e *Extractor) Extract(text string) model.Extraction {
	var ex model.Extraction

	lower := strings.ToLower(strings.TrimSpace(text))
	if lower == "" {
		return ex
	}

	if directive := parsePagination(lower); directive != nil {
		ex.Pagination = directive
		return ex
	}

	for _, rule := range e.rules {
		rule.apply(lower, &ex)
	}

	return ex
}

// RuleNames lists the rules in evaluation order
func (e *Extractor) RuleNames() []string {
	names := make([]string, len(e.rules))
	for i, r := range e.rules {
		names[i] = r.name
	}
	return names
}

func parsePagination(text string) *model.PaginationDirective {
	if m := pageJumpPattern.FindStringSubmatch(text); m != nil {
		page, err := strconv.Atoi(m[1])
		if err == nil && page >= 1 {
			return &model.PaginationDirective{Page: page}
		}
	}
	if m := nextPagePattern.FindStringSubmatch(text); m != nil {
		d := &model.PaginationDirective{Next: true}
		if m[1] != "" {
			d.Limit, _ = strconv.Atoi(m[1])
		}
		return d
	}
	if showMorePattern.MatchString(text) {
		return &model.PaginationDirective{Next: true}
	}
	// "show all 8 cars" reopens the previous query on one large first page
	if m := showAllPattern.FindStringSubmatch(text); m != nil {
		d := &model.PaginationDirective{Page: 1, Limit: model.MaxLimit}
		if n, err := strconv.Atoi(m[1]); err == nil && n > 0 {
			d.Limit = n
		}
		return d
	}
	return nil
}

func extractBrand(text string, ex *model.Extraction) {
	if ex.Brand != "" {
		return
	}
	if m := brandPattern.FindStringSubmatch(text); m != nil {
		ex.Brand = brandNames[m[1]]
	}
}

func extractPriceBounds(text string, ex *model.Extraction) {
	if m := betweenPattern.FindStringSubmatch(text); m != nil {
		// "between 5 and 10 lakh" scales both ends
		if m[2] == "" {
			m[2] = m[4]
		}
		low, lowOK := parseAmount(m[1], m[2])
		high, highOK := parseAmount(m[3], m[4])
		if lowOK && highOK {
			if low > high {
				low, high = high, low
			}
			setIfNil(&ex.MinPrice, low)
			setIfNil(&ex.MaxPrice, high)
			return
		}
	}
	if m := underPattern.FindStringSubmatch(text); m != nil {
		if v, ok := parseAmount(m[1], m[2]); ok {
			setIfNil(&ex.MaxPrice, v)
		}
	}
	if m := overPattern.FindStringSubmatch(text); m != nil {
		if v, ok := parseAmount(m[1], m[2]); ok {
			setIfNil(&ex.MinPrice, v)
		}
	}
}

// parseAmount normalizes the digits together with a lakh/crore style multiplier
func parseAmount(digits, multiplier string) (float64, bool) {
	return utils.NormalizePrice(strings.TrimSpace(digits + " " + multiplier))
}

func setIfNil(dst **float64, v float64) {
	if *dst == nil {
		*dst = &v
	}
}

// extractPriceTerms maps cheap/expensive wording to a sort. Cheap wins when both
// appear. Only a bare superlative ("cheapest", "the most expensive") narrows the
// result to a single vehicle.
func extractPriceTerms(text string, ex *model.Extraction) {
	if ex.SortBy != model.SortNone {
		return
	}
	switch {
	case cheapPattern.MatchString(text):
		ex.SortBy = model.SortPriceAscending
		if cheapestAlonePattern.MatchString(text) && ex.Limit == 0 {
			ex.Limit = 1
		}
	case expensivePattern.MatchString(text):
		ex.SortBy = model.SortPriceDescending
		if expensiveAlonePattern.MatchString(text) && ex.Limit == 0 {
			ex.Limit = 1
		}
	}
}

func matchInto(pattern *regexp.Regexp, field func(*model.Extraction) *string) func(string, *model.Extraction) {
	return func(text string, ex *model.Extraction) {
		dst := field(ex)
		if *dst != "" {
			return
		}
		if m := pattern.FindStringSubmatch(text); m != nil {
			*dst = m[1]
		}
	}
}

func extractResultCount(text string, ex *model.Extraction) {
	if ex.Limit != 0 {
		return
	}
	m := countPattern.FindStringSubmatch(text)
	if m == nil {
		return
	}
	raw := m[1]
	if raw == "" {
		raw = m[2]
	}
	if n, err := strconv.Atoi(raw); err == nil && n > 0 {
		ex.Limit = n
	}
}

func extractReferences(text string, ex *model.Extraction) {
	for _, phrase := range samePricePhrases {
		if strings.Contains(text, phrase) {
			ex.ReferencesLastPriceRange = true
			break
		}
	}
	if otherBrandPattern.MatchString(text) {
		ex.ReferencesOtherBrand = true
	}
}
