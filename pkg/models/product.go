package models

import (
	"fmt"
	"slices"
)

// Category groups products for catalog filtering.
type Category string

const (
	CategoryAll         Category = "All"
	CategoryClothing    Category = "Clothing"
	CategoryFootwear    Category = "Footwear"
	CategoryHomeLiving  Category = "Home & Living"
	CategoryElectronics Category = "Electronics"
	CategoryPersonal    Category = "Personal Care"
	CategoryKitchen     Category = "Kitchen"
	CategoryBags        Category = "Bags"
	CategoryAccessories Category = "Accessories"
)

// Categories lists every product category in display order, excluding the
// CategoryAll sentinel.
var Categories = []Category{
	CategoryClothing,
	CategoryFootwear,
	CategoryHomeLiving,
	CategoryElectronics,
	CategoryPersonal,
	CategoryKitchen,
	CategoryBags,
	CategoryAccessories,
}

// Valid reports whether c is a known product category or the CategoryAll sentinel.
func (c Category) Valid() bool {
	if c == CategoryAll {
		return true
	}
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// Dimension names one of the five sustainability sub-scores.
type Dimension string

const (
	DimensionMaterials     Dimension = "materials"
	DimensionManufacturing Dimension = "manufacturing"
	DimensionTransport     Dimension = "transport"
	DimensionPackaging     Dimension = "packaging"
	DimensionEndOfLife     Dimension = "endOfLife"
)

// Dimensions lists the sustainability dimensions in display order.
var Dimensions = []Dimension{
	DimensionMaterials,
	DimensionManufacturing,
	DimensionTransport,
	DimensionPackaging,
	DimensionEndOfLife,
}

var dimensionLabels = map[Dimension]string{
	DimensionMaterials:     "Materials",
	DimensionManufacturing: "Manufacturing",
	DimensionTransport:     "Transport",
	DimensionPackaging:     "Packaging",
	DimensionEndOfLife:     "End of Life",
}

// Label returns the human-readable name of the dimension.
func (d Dimension) Label() string {
	if l, ok := dimensionLabels[d]; ok {
		return l
	}
	return string(d)
}

// Sustainability holds the five dimension scores of a product, each 0-100.
type Sustainability struct {
	Materials     int `json:"materials" yaml:"materials"`
	Manufacturing int `json:"manufacturing" yaml:"manufacturing"`
	Transport     int `json:"transport" yaml:"transport"`
	Packaging     int `json:"packaging" yaml:"packaging"`
	EndOfLife     int `json:"endOfLife" yaml:"endOfLife"`
}

// Value returns the score for a single dimension. Unknown dimensions yield 0.
func (s Sustainability) Value(d Dimension) int {
	switch d {
	case DimensionMaterials:
		return s.Materials
	case DimensionManufacturing:
		return s.Manufacturing
	case DimensionTransport:
		return s.Transport
	case DimensionPackaging:
		return s.Packaging
	case DimensionEndOfLife:
		return s.EndOfLife
	}
	return 0
}

// Product is an immutable catalog record annotated with sustainability metrics.
type Product struct {
	ID              string         `json:"id" yaml:"id"`
	Name            string         `json:"name" yaml:"name"`
	Brand           string         `json:"brand" yaml:"brand"`
	Category        Category       `json:"category" yaml:"category"`
	Price           float64        `json:"price" yaml:"price"`
	EcoScore        int            `json:"ecoScore" yaml:"ecoScore"`
	CarbonFootprint float64        `json:"carbonFootprint" yaml:"carbonFootprint"`
	Image           string         `json:"image,omitempty" yaml:"image"`
	Description     string         `json:"description,omitempty" yaml:"description"`
	Sustainability  Sustainability `json:"sustainability" yaml:"sustainability"`
	Certifications  []string       `json:"certifications" yaml:"certifications"`
	Alternatives    []string       `json:"alternatives,omitempty" yaml:"alternatives"`
}

// Clone returns a copy of p that shares no slice storage with it.
func (p Product) Clone() Product {
	p.Certifications = slices.Clone(p.Certifications)
	p.Alternatives = slices.Clone(p.Alternatives)
	return p
}

// Validate checks the numeric and enumerated invariants of a product.
func (p Product) Validate() error {
	if p.ID == "" {
		return fmt.Errorf("product %q: empty id", p.Name)
	}
	if p.Category == CategoryAll || !p.Category.Valid() {
		return fmt.Errorf("product %s: unknown category %q", p.ID, p.Category)
	}
	if p.Price < 0 {
		return fmt.Errorf("product %s: negative price %v", p.ID, p.Price)
	}
	if p.CarbonFootprint < 0 {
		return fmt.Errorf("product %s: negative carbon footprint %v", p.ID, p.CarbonFootprint)
	}
	if !inScoreRange(p.EcoScore) {
		return fmt.Errorf("product %s: eco score %d out of range", p.ID, p.EcoScore)
	}
	for _, d := range Dimensions {
		if v := p.Sustainability.Value(d); !inScoreRange(v) {
			return fmt.Errorf("product %s: %s score %d out of range", p.ID, d, v)
		}
	}
	return nil
}

func inScoreRange(v int) bool {
	return v >= 0 && v <= 100
}
