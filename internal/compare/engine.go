package compare

import (
	"errors"
	"fmt"

	pkgcatalog "github.com/HerbHall/ecotrace/pkg/catalog"
	"github.com/HerbHall/ecotrace/pkg/models"
)

// ErrProductNotFound is returned when a selected id is not in the catalog.
var ErrProductNotFound = errors.New("product not found")

// Engine resolves selections against the catalog.
type Engine struct {
	cat *pkgcatalog.Catalog
}

// NewEngine creates a comparison engine backed by cat.
func NewEngine(cat *pkgcatalog.Catalog) *Engine {
	return &Engine{cat: cat}
}

// Resolve looks up every id in order.
func (e *Engine) Resolve(ids []string) ([]models.Product, error) {
	products := make([]models.Product, 0, len(ids))
	for _, id := range ids {
		p, ok, err := e.cat.Find(id)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrProductNotFound, id)
		}
		products = append(products, p)
	}
	return products, nil
}

// Compare resolves ids and compares the products. Size violations yield an
// invalid Result rather than an error.
func (e *Engine) Compare(ids []string) (Result, error) {
	products, err := e.Resolve(ids)
	if err != nil {
		return Result{}, err
	}
	return Compare(products), nil
}

// Available returns the catalog products that can still be added to sel.
func (e *Engine) Available(sel Selection) ([]models.Product, error) {
	products, err := e.cat.Products()
	if err != nil {
		return nil, err
	}
	return Available(products, sel), nil
}

// Add validates that id exists and adds it to sel.
func (e *Engine) Add(sel Selection, id string) (Selection, error) {
	if _, err := e.Resolve([]string{id}); err != nil {
		return sel, err
	}
	return sel.Add(id)
}
