// Package catalog provides the query engine that filters and orders the
// embedded product catalog by category, eco-score, carbon footprint, and sort key.
package catalog

import (
	"sort"

	pkgcatalog "github.com/HerbHall/ecotrace/pkg/catalog"
	"github.com/HerbHall/ecotrace/pkg/models"
)

// Query returns the products matching c, ordered by c.Sort. Products with
// equal sort values keep their relative input order. The input slice is not
// modified and the result is never nil.
func Query(products []models.Product, c Criteria) []models.Product {
	result := make([]models.Product, 0, len(products))
	for i := range products {
		if matches(&products[i], c) {
			result = append(result, products[i])
		}
	}

	if less := comparator(c.Sort); less != nil {
		sort.SliceStable(result, func(a, b int) bool {
			return less(&result[a], &result[b])
		})
	}

	return result
}

// Featured returns up to n products with the highest eco-scores.
func Featured(products []models.Product, n int) []models.Product {
	if n <= 0 {
		return []models.Product{}
	}
	sorted := Query(products, DefaultCriteria())
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}

// matches applies the category, eco-score and carbon filters.
func matches(p *models.Product, c Criteria) bool {
	if c.Category != models.CategoryAll && p.Category != c.Category {
		return false
	}
	if !c.EcoScoreRange.Contains(float64(p.EcoScore)) {
		return false
	}
	return c.CarbonRange.Contains(p.CarbonFootprint)
}

// comparator returns the strict ordering for key, or nil for an unknown key.
func comparator(key SortKey) func(a, b *models.Product) bool {
	switch key {
	case SortEcoDesc:
		return func(a, b *models.Product) bool { return a.EcoScore > b.EcoScore }
	case SortEcoAsc:
		return func(a, b *models.Product) bool { return a.EcoScore < b.EcoScore }
	case SortPriceAsc:
		return func(a, b *models.Product) bool { return a.Price < b.Price }
	case SortPriceDesc:
		return func(a, b *models.Product) bool { return a.Price > b.Price }
	case SortCarbonAsc:
		return func(a, b *models.Product) bool { return a.CarbonFootprint < b.CarbonFootprint }
	}
	return nil
}

// Engine runs catalog queries against a product catalog.
type Engine struct {
	cat *pkgcatalog.Catalog
}

// NewEngine creates a new query engine backed by the given catalog.
func NewEngine(cat *pkgcatalog.Catalog) *Engine {
	return &Engine{cat: cat}
}

// Query validates c and returns the matching products.
func (e *Engine) Query(c Criteria) ([]models.Product, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	products, err := e.cat.Products()
	if err != nil {
		return nil, err
	}
	return Query(products, c), nil
}

// Product looks up a single product by id.
func (e *Engine) Product(id string) (models.Product, bool, error) {
	return e.cat.Find(id)
}

// Featured returns the top n products by eco-score.
func (e *Engine) Featured(n int) ([]models.Product, error) {
	products, err := e.cat.Products()
	if err != nil {
		return nil, err
	}
	return Featured(products, n), nil
}

// Categories returns the selectable categories, "All" first.
func (e *Engine) Categories() ([]models.Category, error) {
	return e.cat.Categories()
}
