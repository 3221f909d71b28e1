package service

import (
	"regexp"
	"sort"
	"strings"

	"carfinder/internal/utils"
)

// Vocabulary tables used by the extractor. Keep them as data: adding a brand or
// a misspelling should never require touching the matching code.

// brandNames maps every recognised spelling to the catalog's display name.
var brandNames = map[string]string{
	"toyota":        "Toyota",
	"honda":         "Honda",
	"bmw":           "BMW",
	"mercedes":      "Mercedes",
	"audi":          "Audi",
	"maruti suzuki": "Maruti Suzuki",
	"maruti":        "Maruti Suzuki",
	"hyundai":       "Hyundai",
	"tata":          "Tata",
	"mahindra":      "Mahindra",
	"kia":           "Kia",
	"renault":       "Renault",
	"volkswagen":    "Volkswagen",
	"vw":            "Volkswagen",
	"ford":          "Ford",
	"nissan":        "Nissan",
	"skoda":         "Skoda",
	"mg":            "MG",
}

// premiumBrands get the luxury variant of the empty-result message.
var premiumBrands = map[string]bool{
	"bmw":      true,
	"mercedes": true,
	"audi":     true,
}

var colorTerms = []string{
	"red", "blue", "black", "white", "silver", "gray", "grey", "green",
	"yellow", "orange", "purple", "brown", "golden", "maroon",
}

var fuelTerms = []string{"petrol", "diesel", "electric", "hybrid", "cng"}

var transmissionTerms = []string{"automatic", "manual"}

// Qualitative price terms, including the misspellings users actually type.
var cheapTerms = []string{
	"cheap", "cheapest", "cheepest", "chipest", "cheep", "cheapst",
	"affordable", "inexpensive", "budget", "low-cost", "low cost",
	"low-price", "low price", "cost-effective", "economical",
}

var expensiveTerms = []string{
	"expensive", "pricey", "premium", "luxury", "high-end", "high end",
	"top-end", "top end", "costly",
}

// samePricePhrases refer back to the previous turn's price window.
var samePricePhrases = []string{
	"same price", "this price range", "that price", "same range", "similar price",
}

var (
	brandPattern        = wordAlternation(keys(brandNames))
	colorPattern        = wordAlternation(colorTerms)
	fuelPattern         = wordAlternation(fuelTerms)
	transmissionPattern = wordAlternation(transmissionTerms)
	cheapPattern        = wordAlternation(cheapTerms)
	expensivePattern    = wordAlternation(expensiveTerms)

	cheapestAlonePattern  = regexp.MustCompile(`^\s*(the\s+)?(cheapest|cheepest|chipest|cheep|cheapst)\s*$`)
	expensiveAlonePattern = regexp.MustCompile(`^\s*(the\s+)?(most\s+)?(expensive|pricey|premium|luxury)\s*$`)

	otherBrandPattern = regexp.MustCompile(`\b(other|another|different)\s+(brand|make|manufacturer|car)s?\b`)

	// amount: optional currency prefix, digits with grouping, optional multiplier word
	amount         = `(?:₹|rs\.?|inr)?\s*([0-9][0-9,.]*)\s*(` + utils.PriceMultiplierWords + `)?\b`
	betweenPattern = regexp.MustCompile(`\bbetween\s+` + amount + `\s*(?:and|to|-)\s*` + amount)
	underPattern   = regexp.MustCompile(`\b(?:under|below|less than|within|upto|up to|max(?:imum)?)\s+` + amount)
	overPattern    = regexp.MustCompile(`\b(?:above|over|more than|at least|min(?:imum)?)\s+` + amount)

	countPattern = regexp.MustCompile(`\b(?:show|list|find|get|give)(?:\s+me)?\s+(\d{1,2})\b|\b(\d{1,2})\s+(?:cars|vehicles|options|results|models)\b`)

	nextPagePattern = regexp.MustCompile(`^\s*(?:show\s+|give\s+me\s+|see\s+)?(?:the\s+)?(?:next|more)(?:\s+(\d{1,2}))?(?:\s+(?:page|results|cars|vehicles|ones|options))?(?:\s+please)?\s*[.!?]*\s*$`)
	showMorePattern = regexp.MustCompile(`^\s*(?:show|see|load)\s+more(?:\s+(?:results|cars|vehicles))?(?:\s+please)?\s*[.!?]*\s*$`)
	showAllPattern  = regexp.MustCompile(`^\s*(?:show|list|see)\s+(?:me\s+)?all(?:\s+(?:the\s+)?(\d{1,2}))?(?:\s+(?:cars|vehicles|results))?(?:\s+please)?\s*[.!?]*\s*$`)
	pageJumpPattern = regexp.MustCompile(`^\s*(?:show\s+|go\s+to\s+|take\s+me\s+to\s+)?(?:the\s+)?page\s+(\d{1,3})(?:\s+please)?\s*[.!?]*\s*$`)
)

func keys(m map[string]string) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}

// wordAlternation compiles \b(t1|t2|...)\b with the longest terms first so
// "maruti suzuki" wins over "maruti".
func wordAlternation(terms []string) *regexp.Regexp {
	sorted := append([]string(nil), terms...)
	sort.Slice(sorted, func(i, j int) bool {
		if len(sorted[i]) != len(sorted[j]) {
			return len(sorted[i]) > len(sorted[j])
		}
		return sorted[i] < sorted[j]
	})
	quoted := make([]string, len(sorted))
	for i, t := range sorted {
		quoted[i] = regexp.QuoteMeta(t)
	}
	return regexp.MustCompile(`\b(` + strings.Join(quoted, "|") + `)\b`)
}

// CanonicalBrand returns the display name for a recognised brand spelling,
// or the input unchanged.
func CanonicalBrand(brand string) string {
	if name, ok := brandNames[strings.ToLower(strings.TrimSpace(brand))]; ok {
		return name
	}
	return strings.TrimSpace(brand)
}

// IsPremiumBrand reports whether the brand belongs to the luxury tier
func IsPremiumBrand(brand string) bool {
	return premiumBrands[strings.ToLower(strings.TrimSpace(brand))]
}
