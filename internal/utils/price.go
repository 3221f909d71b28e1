package utils

import (
	"encoding/json"
	"math"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// PriceMultiplierWords is the alternation of Indian numbering words accepted
// after an amount, for use inside larger patterns.
const PriceMultiplierWords = `k|lakhs?|lacs?|l|crores?|cr`

var priceMultipliers = map[string]float64{
	"k":      1_000,
	"lakh":   100_000,
	"lakhs":  100_000,
	"lac":    100_000,
	"lacs":   100_000,
	"l":      100_000,
	"crore":  10_000_000,
	"crores": 10_000_000,
	"cr":     10_000_000,
}

var (
	nonNumericChars  = regexp.MustCompile(`[^0-9.]`)
	leadingNumber    = regexp.MustCompile(`^(\d+\.?\d*|\.\d+)`)
	currencyPrefix   = regexp.MustCompile(`^(?:₹|rs\.?|inr)\s*`)
	multiplierSuffix = regexp.MustCompile(`[0-9.,]\s*(` + PriceMultiplierWords + `)\.?$`)

	rupeePrinter = message.NewPrinter(language.AmericanEnglish)
)

// NormalizePrice converts a number or a formatted price string ("₹10,00,000",
// "Rs. 5,00,000", "12 lakh") into a plain value. The second return is false when no
// digits can be parsed, which callers treat as "no constraint".
func NormalizePrice(v any) (float64, bool) {
	switch p := v.(type) {
	case nil:
		return 0, false
	case float64:
		return finite(p)
	case float32:
		return finite(float64(p))
	case int:
		return float64(p), true
	case int64:
		return float64(p), true
	case int32:
		return float64(p), true
	case json.Number:
		return NormalizePrice(p.String())
	case *float64:
		if p == nil {
			return 0, false
		}
		return finite(*p)
	case string:
		return parsePriceString(p)
	default:
		return 0, false
	}
}

func parsePriceString(s string) (float64, bool) {
	lower := currencyPrefix.ReplaceAllString(strings.ToLower(strings.TrimSpace(s)), "")

	factor := 1.0
	if m := multiplierSuffix.FindStringSubmatchIndex(lower); m != nil {
		factor = priceMultipliers[lower[m[2]:m[3]]]
		lower = lower[:m[0]+1]
	}

	cleaned := nonNumericChars.ReplaceAllString(lower, "")
	m := leadingNumber.FindString(cleaned)
	if m == "" {
		return 0, false
	}
	value, err := strconv.ParseFloat(m, 64)
	if err != nil {
		return 0, false
	}
	return finite(value * factor)
}

func finite(v float64) (float64, bool) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// NormalizePricePtr is NormalizePrice returning nil for unrepresentable input
func NormalizePricePtr(v any) *float64 {
	value, ok := NormalizePrice(v)
	if !ok {
		return nil
	}
	return &value
}

// FormatAmount renders a price with thousands grouping, e.g. 1500000 -> "1,500,000".
// Fractions are kept up to three digits and trailing zeros dropped.
func FormatAmount(v float64) string {
	if v == math.Trunc(v) {
		return rupeePrinter.Sprintf("%d", int64(v))
	}
	rounded := math.Round(v*1000) / 1000
	whole := math.Trunc(rounded)
	frac := strconv.FormatFloat(rounded-whole, 'f', -1, 64)
	if len(frac) > 1 && frac[0] == '0' {
		frac = frac[1:]
	}
	return rupeePrinter.Sprintf("%d", int64(whole)) + frac
}

// FormatRupees renders a price with the rupee glyph, e.g. "₹1,500,000"
func FormatRupees(v float64) string {
	return "₹" + FormatAmount(v)
}
