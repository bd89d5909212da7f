package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strconv"

	"go.uber.org/zap"

	"github.com/HerbHall/ecotrace/internal/server"
	"github.com/HerbHall/ecotrace/pkg/models"
)

// QueryResponse is the response for GET /api/v1/catalog/products.
type QueryResponse struct {
	Count            int              `json:"count"`
	Criteria         Criteria         `json:"criteria"`
	HasActiveFilters bool             `json:"has_active_filters"`
	Products         []models.Product `json:"products"`
}

// ProductDetailResponse is the response for GET /api/v1/catalog/products/{id}.
type ProductDetailResponse struct {
	Product      models.Product `json:"product"`
	EcoBand      models.EcoBand `json:"eco_band"`
	EcoBandLabel string         `json:"eco_band_label"`
	CategoryIcon string         `json:"category_icon"`
}

// CategoryInfo describes one selectable category.
type CategoryInfo struct {
	Name  models.Category `json:"name"`
	Icon  string          `json:"icon"`
	Count int             `json:"count"`
}

// handleQuery filters and sorts the catalog.
//
//	@Summary		Query products
//	@Description	Filters the catalog by category, eco-score and carbon ranges, then orders it by a single sort key. Missing parameters take their defaults.
//	@Tags			catalog
//	@Produce		json
//	@Param			category query string false "Category name or All" default(All)
//	@Param			eco_min query number false "Minimum eco-score (inclusive)" default(0)
//	@Param			eco_max query number false "Maximum eco-score (inclusive)" default(100)
//	@Param			carbon_min query number false "Minimum carbon footprint in kg CO2e (inclusive)" default(0)
//	@Param			carbon_max query number false "Maximum carbon footprint in kg CO2e (inclusive)" default(10)
//	@Param			sort query string false "Sort key" default(eco-desc)
//	@Success		200 {object} QueryResponse
//	@Failure		400 {object} server.Problem
//	@Failure		500 {object} server.Problem
//	@Router			/catalog/products [get]
func (m *Module) handleQuery(w http.ResponseWriter, r *http.Request) {
	c, products, ok := m.runQuery(w, r)
	if !ok {
		return
	}

	m.writeJSON(w, http.StatusOK, QueryResponse{
		Count:            len(products),
		Criteria:         c,
		HasActiveFilters: c.HasActiveFilters(),
		Products:         products,
	})
}

// handleExportCSV streams a query result as CSV.
//
//	@Summary		Export products as CSV
//	@Description	Accepts the same parameters as the product query and returns the result as a CSV attachment.
//	@Tags			catalog
//	@Produce		text/csv
//	@Success		200 {string} string "CSV file"
//	@Failure		400 {object} server.Problem
//	@Router			/catalog/products.csv [get]
func (m *Module) handleExportCSV(w http.ResponseWriter, r *http.Request) {
	_, products, ok := m.runQuery(w, r)
	if !ok {
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="products.csv"`)
	if err := WriteCSV(w, products); err != nil {
		// Headers are already sent; all we can do is log.
		m.logger.Error("failed to write csv export", zap.Error(err))
	}
}

// handleGetProduct returns a single product with its eco band.
//
//	@Summary		Get product
//	@Tags			catalog
//	@Produce		json
//	@Param			id path string true "Product ID"
//	@Success		200 {object} ProductDetailResponse
//	@Failure		404 {object} server.Problem
//	@Router			/catalog/products/{id} [get]
func (m *Module) handleGetProduct(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	p, found, err := m.engine.Product(id)
	if err != nil {
		m.logger.Error("failed to load catalog", zap.Error(err))
		server.InternalError(w, "failed to load catalog", r.URL.Path)
		return
	}
	if !found {
		server.NotFound(w, fmt.Sprintf("product %q not found", id), r.URL.Path)
		return
	}

	band := models.EcoBandFor(p.EcoScore)
	m.writeJSON(w, http.StatusOK, ProductDetailResponse{
		Product:      p,
		EcoBand:      band,
		EcoBandLabel: band.Label(),
		CategoryIcon: p.Category.Icon(),
	})
}

// handleFeatured returns the highest eco-score products.
//
//	@Summary		Featured products
//	@Tags			catalog
//	@Produce		json
//	@Param			n query int false "Number of products" default(4)
//	@Success		200 {array} models.Product
//	@Failure		400 {object} server.Problem
//	@Router			/catalog/featured [get]
func (m *Module) handleFeatured(w http.ResponseWriter, r *http.Request) {
	n := m.featuredCount
	if s := r.URL.Query().Get("n"); s != "" {
		parsed, err := strconv.Atoi(s)
		if err != nil || parsed < 1 {
			server.BadRequest(w, "n must be a positive integer", r.URL.Path)
			return
		}
		n = parsed
	}

	products, err := m.engine.Featured(n)
	if err != nil {
		m.logger.Error("failed to load catalog", zap.Error(err))
		server.InternalError(w, "failed to load catalog", r.URL.Path)
		return
	}
	m.writeJSON(w, http.StatusOK, products)
}

// handleCategories lists the selectable categories with icons and product counts.
//
//	@Summary		List categories
//	@Tags			catalog
//	@Produce		json
//	@Success		200 {array} CategoryInfo
//	@Router			/catalog/categories [get]
func (m *Module) handleCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := m.engine.Categories()
	if err != nil {
		m.logger.Error("failed to load categories", zap.Error(err))
		server.InternalError(w, "failed to load catalog", r.URL.Path)
		return
	}
	products, err := m.engine.cat.Products()
	if err != nil {
		m.logger.Error("failed to load catalog", zap.Error(err))
		server.InternalError(w, "failed to load catalog", r.URL.Path)
		return
	}

	counts := make(map[models.Category]int, len(categories))
	for i := range products {
		counts[products[i].Category]++
	}

	info := make([]CategoryInfo, 0, len(categories))
	for _, c := range categories {
		count := counts[c]
		if c == models.CategoryAll {
			count = len(products)
		}
		info = append(info, CategoryInfo{Name: c, Icon: c.Icon(), Count: count})
	}
	m.writeJSON(w, http.StatusOK, info)
}

// handleSortOptions lists the supported sort keys.
//
//	@Summary		List sort options
//	@Tags			catalog
//	@Produce		json
//	@Success		200 {array} SortOption
//	@Router			/catalog/sort-options [get]
func (m *Module) handleSortOptions(w http.ResponseWriter, _ *http.Request) {
	m.writeJSON(w, http.StatusOK, SortOptions)
}

// handleResetCriteria clears every filter in the posted criteria, keeping the sort key.
//
//	@Summary		Reset filters
//	@Tags			catalog
//	@Accept			json
//	@Produce		json
//	@Param			request body Criteria true "Current criteria"
//	@Success		200 {object} QueryResponse
//	@Failure		400 {object} server.Problem
//	@Router			/catalog/criteria/reset [post]
func (m *Module) handleResetCriteria(w http.ResponseWriter, r *http.Request) {
	current := DefaultCriteria()
	if err := json.NewDecoder(r.Body).Decode(&current); err != nil {
		server.BadRequest(w, "invalid request body: "+err.Error(), r.URL.Path)
		return
	}

	reset := current.Reset()
	products, err := m.engine.Query(reset)
	if err != nil {
		m.writeQueryError(w, r, err)
		return
	}
	m.observe(reset, products)

	m.writeJSON(w, http.StatusOK, QueryResponse{
		Count:            len(products),
		Criteria:         reset,
		HasActiveFilters: reset.HasActiveFilters(),
		Products:         products,
	})
}

// runQuery parses criteria from the query string and evaluates them. It
// writes the error response itself and reports ok=false on failure.
func (m *Module) runQuery(w http.ResponseWriter, r *http.Request) (Criteria, []models.Product, bool) {
	c, err := criteriaFromQuery(r.URL.Query())
	if err != nil {
		server.BadRequest(w, err.Error(), r.URL.Path)
		return Criteria{}, nil, false
	}

	products, err := m.engine.Query(c)
	if err != nil {
		m.writeQueryError(w, r, err)
		return Criteria{}, nil, false
	}
	m.observe(c, products)
	return c, products, true
}

func (m *Module) writeQueryError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, ErrInvalidCriteria) {
		server.BadRequest(w, err.Error(), r.URL.Path)
		return
	}
	m.logger.Error("catalog query failed", zap.Error(err))
	server.InternalError(w, "failed to query catalog", r.URL.Path)
}

func (m *Module) observe(c Criteria, products []models.Product) {
	m.queryResults.WithLabelValues(string(c.Category)).Observe(float64(len(products)))
}

// criteriaFromQuery builds criteria from URL parameters. Absent parameters
// keep their default values.
func criteriaFromQuery(q url.Values) (Criteria, error) {
	c := DefaultCriteria()
	if v := q.Get("category"); v != "" {
		c.Category = models.Category(v)
	}
	if v := q.Get("sort"); v != "" {
		c.Sort = SortKey(v)
	}

	bounds := []struct {
		name string
		dst  *float64
	}{
		{"eco_min", &c.EcoScoreRange.Low},
		{"eco_max", &c.EcoScoreRange.High},
		{"carbon_min", &c.CarbonRange.Low},
		{"carbon_max", &c.CarbonRange.High},
	}
	for _, b := range bounds {
		v := q.Get(b.name)
		if v == "" {
			continue
		}
		f, err := strconv.ParseFloat(v, 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return Criteria{}, fmt.Errorf("%s must be a finite number", b.name)
		}
		*b.dst = f
	}

	return c, nil
}

// -- helpers --

func (m *Module) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		m.logger.Debug("failed to encode response", zap.Int("status", status), zap.Error(err))
	}
}
