package service

import (
	"math"

	"carfinder/internal/model"
)

// ComputePriceStats returns min, max and rounded average price. All fields are
// nil for an empty set.
func ComputePriceStats(prices []int64) model.PriceStats {
	if len(prices) == 0 {
		return model.PriceStats{}
	}

	minPrice, maxPrice := prices[0], prices[0]
	var sum float64
	for _, p := range prices {
		if p < minPrice {
			minPrice = p
		}
		if p > maxPrice {
			maxPrice = p
		}
		sum += float64(p)
	}
	avg := int64(math.Round(sum / float64(len(prices))))

	return model.PriceStats{Min: &minPrice, Max: &maxPrice, Avg: &avg}
}
