package catalog

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/HerbHall/ecotrace/pkg/models"
)

// csvHeaders returns the CSV column headers.
func csvHeaders() []string {
	return []string{
		"id", "name", "brand", "category", "price", "eco_score", "eco_band",
		"carbon_kg", "materials", "manufacturing", "transport", "packaging",
		"end_of_life", "certifications",
	}
}

// productToCSVRow converts a product to a CSV row (matching csvHeaders order).
func productToCSVRow(p models.Product) []string {
	s := p.Sustainability
	return []string{
		p.ID,
		p.Name,
		p.Brand,
		string(p.Category),
		strconv.FormatFloat(p.Price, 'f', 2, 64),
		strconv.Itoa(p.EcoScore),
		string(models.EcoBandFor(p.EcoScore)),
		strconv.FormatFloat(p.CarbonFootprint, 'f', -1, 64),
		strconv.Itoa(s.Materials),
		strconv.Itoa(s.Manufacturing),
		strconv.Itoa(s.Transport),
		strconv.Itoa(s.Packaging),
		strconv.Itoa(s.EndOfLife),
		strings.Join(p.Certifications, ";"),
	}
}

// WriteCSV writes products as CSV with a header row, preserving order.
func WriteCSV(w io.Writer, products []models.Product) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeaders()); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for i := range products {
		if err := cw.Write(productToCSVRow(products[i])); err != nil {
			return fmt.Errorf("write csv row %s: %w", products[i].ID, err)
		}
	}
	cw.Flush()
	return cw.Error()
}
