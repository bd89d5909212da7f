package testutil

import (
	"github.com/google/uuid"

	"github.com/HerbHall/ecotrace/pkg/models"
)

// NewProduct returns a valid Product with sensible defaults, suitable for
// test fixtures. Override individual fields with options.
func NewProduct(opts ...func(*models.Product)) models.Product {
	p := models.Product{
		ID:              uuid.New().String(),
		Name:            "Test Product",
		Brand:           "TestBrand",
		Category:        models.CategoryKitchen,
		Price:           20,
		EcoScore:        80,
		CarbonFootprint: 1.0,
		Sustainability: models.Sustainability{
			Materials:     80,
			Manufacturing: 80,
			Transport:     80,
			Packaging:     80,
			EndOfLife:     80,
		},
		Certifications: []string{},
	}
	for _, opt := range opts {
		opt(&p)
	}
	return p
}

// WithID sets the product id.
func WithID(id string) func(*models.Product) {
	return func(p *models.Product) { p.ID = id }
}

// WithName sets the product name.
func WithName(name string) func(*models.Product) {
	return func(p *models.Product) { p.Name = name }
}

// WithCategory sets the product category.
func WithCategory(c models.Category) func(*models.Product) {
	return func(p *models.Product) { p.Category = c }
}

// WithPrice sets the product price.
func WithPrice(price float64) func(*models.Product) {
	return func(p *models.Product) { p.Price = price }
}

// WithEcoScore sets the product eco-score.
func WithEcoScore(score int) func(*models.Product) {
	return func(p *models.Product) { p.EcoScore = score }
}

// WithCarbon sets the product carbon footprint in kg CO2e.
func WithCarbon(kg float64) func(*models.Product) {
	return func(p *models.Product) { p.CarbonFootprint = kg }
}

// WithSustainability sets all five dimension scores.
func WithSustainability(s models.Sustainability) func(*models.Product) {
	return func(p *models.Product) { p.Sustainability = s }
}
