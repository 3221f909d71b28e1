package repository

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"carfinder/internal/model"
	"carfinder/internal/utils"
)

// LoadVehicles reads an inventory file. JSON files hold an array of vehicles;
// .csv and .xlsx files hold a header row followed by one vehicle per row.
func LoadVehicles(path string) ([]model.Vehicle, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		rows, err := readXLSXRows(path)
		if err != nil {
			return nil, err
		}
		return vehiclesFromRows(rows)
	case ".csv":
		rows, err := readCSVRows(path)
		if err != nil {
			return nil, err
		}
		return vehiclesFromRows(rows)
	default:
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read inventory file: %w", err)
		}
		var vehicles []model.Vehicle
		if err := json.Unmarshal(data, &vehicles); err != nil {
			return nil, fmt.Errorf("failed to parse inventory file %s: %w", path, err)
		}
		return vehicles, nil
	}
}

func readXLSXRows(path string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open spreadsheet: %w", err)
	}
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		return nil, fmt.Errorf("failed to read spreadsheet rows: %w", err)
	}
	return rows, nil
}

func readCSVRows(path string) ([][]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read inventory file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse CSV: %w", err)
	}
	return rows, nil
}

// headerAliases maps normalized header cells to vehicle fields
var headerAliases = map[string]string{
	"id":           "id",
	"brand":        "brand",
	"make":         "brand",
	"model":        "model",
	"year":         "year",
	"price":        "price",
	"color":        "color",
	"colour":       "color",
	"fueltype":     "fuelType",
	"fuel":         "fuelType",
	"transmission": "transmission",
	"gearbox":      "transmission",
	"seats":        "seats",
}

func normalizeHeader(cell string) string {
	cell = strings.ToLower(strings.TrimSpace(cell))
	return strings.NewReplacer(" ", "", "_", "", "-", "").Replace(cell)
}

// vehiclesFromRows maps rows to vehicles using the header row. Blank rows are
// skipped; a row with an unreadable year, price or seat count is an error.
func vehiclesFromRows(rows [][]string) ([]model.Vehicle, error) {
	if len(rows) == 0 {
		return nil, nil
	}

	columns := make(map[string]int)
	for i, cell := range rows[0] {
		if field, ok := headerAliases[normalizeHeader(cell)]; ok {
			columns[field] = i
		}
	}
	for _, required := range []string{"brand", "model", "price"} {
		if _, ok := columns[required]; !ok {
			return nil, fmt.Errorf("inventory header is missing a %s column", required)
		}
	}

	vehicles := make([]model.Vehicle, 0, len(rows)-1)
	for n, row := range rows[1:] {
		cell := func(field string) string {
			i, ok := columns[field]
			if !ok || i >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[i])
		}
		if cell("brand") == "" && cell("model") == "" {
			continue
		}

		line := n + 2
		price, ok := utils.NormalizePrice(cell("price"))
		if !ok {
			return nil, fmt.Errorf("row %d: invalid price %q", line, cell("price"))
		}
		v := model.Vehicle{
			Brand:        cell("brand"),
			Model:        cell("model"),
			Price:        int64(price),
			Color:        cell("color"),
			FuelType:     cell("fuelType"),
			Transmission: cell("transmission"),
		}

		var err error
		if v.ID, err = optionalInt64(cell("id")); err != nil {
			return nil, fmt.Errorf("row %d: invalid id: %w", line, err)
		}
		if v.Year, err = optionalInt(cell("year")); err != nil {
			return nil, fmt.Errorf("row %d: invalid year: %w", line, err)
		}
		if v.Seats, err = optionalInt(cell("seats")); err != nil {
			return nil, fmt.Errorf("row %d: invalid seats: %w", line, err)
		}
		vehicles = append(vehicles, v)
	}
	return vehicles, nil
}

func optionalInt(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	return strconv.Atoi(s)
}

func optionalInt64(s string) (int64, error) {
	if s == "" {
		return 0, nil
	}
	return strconv.ParseInt(s, 10, 64)
}
