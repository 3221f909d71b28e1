package model

import "fmt"

// Vehicle represents one catalog record
type Vehicle struct {
	ID           int64  `json:"id" db:"id"`
	Brand        string `json:"brand" db:"brand"`
	Model        string `json:"model" db:"model"`
	Year         int    `json:"year" db:"year"`
	Price        int64  `json:"price" db:"price"`
	Color        string `json:"color" db:"color"`
	FuelType     string `json:"fuelType" db:"fuel_type"`
	Transmission string `json:"transmission" db:"transmission"`
	Seats        int    `json:"seats" db:"seats"`
}

// DisplayName returns "year brand model", the heading used in listings and comparison tables
func (v Vehicle) DisplayName() string {
	return fmt.Sprintf("%d %s %s", v.Year, v.Brand, v.Model)
}

// ResultPage is one page of catalog results
type ResultPage struct {
	Total   int       `json:"total"`
	Page    int       `json:"page"`
	Limit   int       `json:"limit"`
	Results []Vehicle `json:"results"`
}

// TotalPages returns ceil(total/limit), or 0 when limit is not positive
func (p ResultPage) TotalPages() int {
	if p.Limit <= 0 {
		return 0
	}
	return (p.Total + p.Limit - 1) / p.Limit
}

// Prices returns the price of every vehicle on the page in order
func (p ResultPage) Prices() []int64 {
	prices := make([]int64, 0, len(p.Results))
	for _, v := range p.Results {
		prices = append(prices, v.Price)
	}
	return prices
}
