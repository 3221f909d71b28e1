package service

import (
	"fmt"
	"strings"

	"carfinder/internal/model"
	"carfinder/internal/utils"
)

// ComposeError is the text returned when the catalog cannot be reached
func ComposeError(err error) string {
	return "Error fetching car inventory: " + err.Error()
}

// ComposeResponse renders a result page, and the filter that produced it, as
// display text.
func ComposeResponse(page *model.ResultPage, filter model.FilterCriteria) string {
	if page == nil || len(page.Results) == 0 {
		if page != nil && page.Total > 0 {
			return fmt.Sprintf("No more results. You've viewed all %d cars matching your criteria.", page.Total)
		}
		return ComposeEmpty(filter)
	}

	current := page.Page
	if current < 1 {
		current = filter.Page
	}
	pageSize := filter.Limit
	if pageSize < 1 {
		pageSize = model.DefaultLimit
	}
	totalPages := (page.Total + pageSize - 1) / pageSize
	displayed := len(page.Results)

	var b strings.Builder
	b.WriteString(describeFilter(filter))

	if page.Total > displayed {
		fmt.Fprintf(&b, " (%d total, page %d of %d, showing %d):\n\n", page.Total, current, totalPages, displayed)
	} else {
		fmt.Fprintf(&b, " (%d %s):\n\n", page.Total, plural(page.Total, "result", "results"))
	}

	blocks := make([]string, len(page.Results))
	for i, v := range page.Results {
		blocks[i] = FormatVehicle(v)
	}
	b.WriteString(strings.Join(blocks, "\n\n"))

	switch {
	case page.Total > current*pageSize:
		fmt.Fprintf(&b, "\n\n---\nShowing page %d of %d. For more results with the same filters, ask for \"next page\" or \"page %d\".", current, totalPages, current+1)
		if current == 1 && page.Total <= model.MaxLimit {
			fmt.Fprintf(&b, "\nTo see all %d results at once, ask for \"show all %d cars\".", page.Total, page.Total)
		}
	case current > 1:
		fmt.Fprintf(&b, "\n\n---\nEnd of results. You've viewed all %d cars matching your criteria.", page.Total)
	}

	return b.String()
}

// ComposeEmpty explains an empty result and suggests how to relax the query
func ComposeEmpty(filter model.FilterCriteria) string {
	switch {
	case filter.Brand != "" && filter.MaxPrice != nil:
		brand := filter.Brand
		maxPrice := utils.FormatRupees(*filter.MaxPrice)
		if IsPremiumBrand(brand) {
			return fmt.Sprintf("We don't have any %s vehicles under %s. Luxury brands like %s typically start at higher price points.\n\n"+
				"Consider:\n"+
				"- Increasing your budget to ₹20,00,000+ for %s\n"+
				"- Looking at pre-owned %s vehicles\n"+
				"- Exploring more affordable brands like Maruti Suzuki, Tata, or Hyundai in this price range",
				brand, maxPrice, brand, brand, brand)
		}
		return fmt.Sprintf("We don't have any %s vehicles under %s. Try a higher price range or consider other brands like Maruti Suzuki, Tata, or Hyundai in this price range.", brand, maxPrice)
	case filter.Brand != "":
		return fmt.Sprintf("No %s vehicles found with your criteria. Try removing some filters or try another brand.", filter.Brand)
	case filter.MaxPrice != nil:
		return fmt.Sprintf("We don't have vehicles under %s matching your criteria. Try increasing your budget or modifying your search.", utils.FormatRupees(*filter.MaxPrice))
	default:
		return "No cars found matching your criteria. Try adjusting your filters or providing less specific requirements."
	}
}

// FormatVehicle renders one vehicle as a bulleted block
func FormatVehicle(v model.Vehicle) string {
	return fmt.Sprintf("%s\n  • Color: %s\n  • Price: %s\n  • Fuel Type: %s\n  • Transmission: %s\n  • Seats: %d",
		v.DisplayName(), v.Color, utils.FormatRupees(float64(v.Price)), v.FuelType, v.Transmission, v.Seats)
}

// describeFilter builds the "Found ..." summary line
func describeFilter(f model.FilterCriteria) string {
	var b strings.Builder
	b.WriteString("Found")

	for _, part := range []struct{ value, suffix string }{
		{f.Color, " colored"},
		{f.Brand, ""},
		{f.Model, ""},
		{f.FuelType, ""},
		{f.Transmission, ""},
	} {
		if part.value != "" {
			b.WriteString(" " + part.value + part.suffix)
		}
	}

	switch {
	case f.MinPrice != nil && f.MaxPrice != nil:
		fmt.Fprintf(&b, " cars priced between %s and %s", utils.FormatRupees(*f.MinPrice), utils.FormatRupees(*f.MaxPrice))
	case f.MinPrice != nil:
		fmt.Fprintf(&b, " cars with price above %s", utils.FormatRupees(*f.MinPrice))
	case f.MaxPrice != nil:
		fmt.Fprintf(&b, " cars with price below %s", utils.FormatRupees(*f.MaxPrice))
	default:
		b.WriteString(" cars")
	}

	if f.Search != "" {
		fmt.Fprintf(&b, " matching \"%s\"", f.Search)
	}
	if f.ExcludedBrand != "" {
		fmt.Fprintf(&b, " from brands other than %s", f.ExcludedBrand)
	}

	return b.String()
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
