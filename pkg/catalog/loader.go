// Package catalog provides lazy-loaded access to the embedded EcoTrace
// product catalog.
package catalog

import (
	_ "embed"
	"fmt"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/HerbHall/ecotrace/pkg/models"
)

//go:embed products.yaml
var catalogRawData []byte

// catalogFile is the top-level structure of the embedded YAML.
type catalogFile struct {
	Categories []models.Category `yaml:"categories"`
	Products   []models.Product  `yaml:"products"`
}

// Catalog provides lazy-loaded access to the embedded product catalog.
// The parsed collection is never mutated after load.
type Catalog struct {
	once       sync.Once
	raw        []byte
	products   []models.Product
	categories []models.Category
	index      map[string]int
	err        error
}

// NewCatalog creates a new Catalog that will parse the embedded YAML on first access.
func NewCatalog() *Catalog {
	return &Catalog{raw: catalogRawData}
}

// NewCatalogFromYAML creates a Catalog backed by caller-supplied YAML in the
// same format as the embedded file.
func NewCatalogFromYAML(data []byte) *Catalog {
	return &Catalog{raw: data}
}

// Products returns a deep copy of all products in collection order.
func (c *Catalog) Products() ([]models.Product, error) {
	c.once.Do(c.load)
	if c.err != nil {
		return nil, c.err
	}
	cp := make([]models.Product, len(c.products))
	for i := range c.products {
		cp[i] = c.products[i].Clone()
	}
	return cp, nil
}

// Categories returns the category list, starting with the "All" sentinel.
func (c *Catalog) Categories() ([]models.Category, error) {
	c.once.Do(c.load)
	if c.err != nil {
		return nil, c.err
	}
	cp := make([]models.Category, len(c.categories))
	copy(cp, c.categories)
	return cp, nil
}

// Find returns the product with the given id. The boolean is false when no
// product matches; a lookup miss is not an error.
func (c *Catalog) Find(id string) (models.Product, bool, error) {
	c.once.Do(c.load)
	if c.err != nil {
		return models.Product{}, false, c.err
	}
	i, ok := c.index[id]
	if !ok {
		return models.Product{}, false, nil
	}
	return c.products[i].Clone(), true, nil
}

// load parses and validates the catalog data.
func (c *Catalog) load() {
	var f catalogFile
	if err := yaml.Unmarshal(c.raw, &f); err != nil {
		c.err = fmt.Errorf("catalog: parse yaml: %w", err)
		return
	}

	index := make(map[string]int, len(f.Products))
	for i := range f.Products {
		p := f.Products[i]
		if err := p.Validate(); err != nil {
			c.err = fmt.Errorf("catalog: %w", err)
			return
		}
		if _, dup := index[p.ID]; dup {
			c.err = fmt.Errorf("catalog: duplicate product id %q", p.ID)
			return
		}
		if p.Certifications == nil {
			f.Products[i].Certifications = []string{}
		}
		index[p.ID] = i
	}

	if len(f.Categories) == 0 {
		f.Categories = append([]models.Category{models.CategoryAll}, models.Categories...)
	}

	c.products = f.Products
	c.categories = f.Categories
	c.index = index
}
