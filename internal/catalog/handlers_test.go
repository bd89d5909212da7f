package catalog

import (
	"encoding/csv"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/HerbHall/ecotrace/internal/config"
	"github.com/HerbHall/ecotrace/internal/server"
	"github.com/HerbHall/ecotrace/internal/testutil"
	"github.com/HerbHall/ecotrace/pkg/models"
)

func newTestModule(t *testing.T) *Module {
	t.Helper()
	m := New()
	require.NoError(t, m.Init(config.New(nil), testutil.Logger()))
	return m
}

// newTestMux mounts the module routes the same way the server does, minus
// the /api/v1/catalog prefix.
func newTestMux(m *Module) *http.ServeMux {
	mux := http.NewServeMux()
	for _, r := range m.Routes() {
		mux.HandleFunc(r.Method+" "+r.Path, r.Handler)
	}
	return mux
}

func decodeQuery(t *testing.T, w *httptest.ResponseRecorder) QueryResponse {
	t.Helper()
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var resp QueryResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	return resp
}

func TestHandleQuery_Defaults(t *testing.T) {
	m := newTestModule(t)

	w := httptest.NewRecorder()
	m.handleQuery(w, httptest.NewRequest("GET", "/products", nil))

	resp := decodeQuery(t, w)
	assert.Equal(t, 12, resp.Count)
	assert.Len(t, resp.Products, 12)
	assert.False(t, resp.HasActiveFilters)
	assert.Equal(t, DefaultCriteria(), resp.Criteria)
	assert.Equal(t, "9", resp.Products[0].ID)
}

func TestHandleQuery_PersonalCare(t *testing.T) {
	m := newTestModule(t)

	w := httptest.NewRecorder()
	m.handleQuery(w, httptest.NewRequest("GET", "/products?category=Personal+Care&sort=eco-desc", nil))

	resp := decodeQuery(t, w)
	require.Equal(t, 2, resp.Count)
	assert.Equal(t, "7", resp.Products[0].ID)
	assert.Equal(t, "10", resp.Products[1].ID)
	assert.True(t, resp.HasActiveFilters)
	assert.Equal(t, models.CategoryPersonal, resp.Criteria.Category)
}

func TestHandleQuery_RangesAndEmptyResult(t *testing.T) {
	m := newTestModule(t)

	w := httptest.NewRecorder()
	m.handleQuery(w, httptest.NewRequest("GET", "/products?carbon_min=0&carbon_max=0.1", nil))

	resp := decodeQuery(t, w)
	assert.Equal(t, 0, resp.Count)
	assert.NotNil(t, resp.Products)
	assert.True(t, resp.HasActiveFilters)
}

func TestHandleQuery_EmptyResultEncodesAsArray(t *testing.T) {
	m := newTestModule(t)

	w := httptest.NewRecorder()
	m.handleQuery(w, httptest.NewRequest("GET", "/products?eco_min=99", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"products":[]`)
}

func TestHandleQuery_BadRequests(t *testing.T) {
	tests := []struct {
		name  string
		query string
	}{
		{"unknown category", "category=Toys"},
		{"unknown sort", "sort=alphabetical"},
		{"non-numeric bound", "eco_min=high"},
		{"nan bound", "carbon_max=NaN"},
		{"infinite upper bound", "carbon_max=Inf"},
		{"infinite lower bound", "eco_min=-Inf"},
		{"spelled out infinity", "eco_max=%2BInfinity"},
		{"inverted eco range", "eco_min=90&eco_max=10"},
		{"inverted carbon range", "carbon_min=5&carbon_max=1"},
	}

	m := newTestModule(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			m.handleQuery(w, httptest.NewRequest("GET", "/products?"+tt.query, nil))

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, "application/problem+json", w.Header().Get("Content-Type"))

			var p server.Problem
			require.NoError(t, json.NewDecoder(w.Body).Decode(&p))
			assert.Equal(t, server.ProblemTypeBadRequest, p.Type)
		})
	}
}

func TestHandleQuery_ObservesResultSize(t *testing.T) {
	m := newTestModule(t)
	reg := prometheus.NewRegistry()
	reg.MustRegister(m.Collectors()...)

	w := httptest.NewRecorder()
	m.handleQuery(w, httptest.NewRequest("GET", "/products?category=Kitchen", nil))
	require.Equal(t, http.StatusOK, w.Code)

	families, err := reg.Gather()
	require.NoError(t, err)
	require.Len(t, families, 1)
	assert.Equal(t, "ecotrace_catalog_query_results", families[0].GetName())
	require.Len(t, families[0].GetMetric(), 1)

	h := families[0].GetMetric()[0].GetHistogram()
	assert.Equal(t, uint64(1), h.GetSampleCount())
	assert.InDelta(t, 1.0, h.GetSampleSum(), 0.001)
}

func TestHandleExportCSV(t *testing.T) {
	m := newTestModule(t)

	w := httptest.NewRecorder()
	m.handleExportCSV(w, httptest.NewRequest("GET", "/products.csv?category=Home+%26+Living&sort=price-asc", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.HasPrefix(w.Header().Get("Content-Type"), "text/csv"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "products.csv")

	records, err := csv.NewReader(w.Body).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 4)
	assert.Equal(t, "2", records[1][0])
	assert.Equal(t, "8", records[2][0])
	assert.Equal(t, "12", records[3][0])
}

func TestHandleGetProduct(t *testing.T) {
	mux := newTestMux(newTestModule(t))

	w := httptest.NewRecorder()
	mux.ServeHTTP(w, httptest.NewRequest("GET", "/products/9", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var resp ProductDetailResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, "Beeswax Food Wraps", resp.Product.Name)
	assert.Equal(t, models.EcoBandExcellent, resp.EcoBand)
	assert.Equal(t, "Excellent", resp.EcoBandLabel)
	assert.NotEmpty(t, resp.CategoryIcon)
}

func TestHandleGetProduct_NotFound(t *testing.T) {
	mux := newTestMux(newTestModule(t))

	w := httptest.NewRecorder()
	mux.ServeHTTP(w, httptest.NewRequest("GET", "/products/404", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
	var p server.Problem
	require.NoError(t, json.NewDecoder(w.Body).Decode(&p))
	assert.Equal(t, server.ProblemTypeNotFound, p.Type)
	assert.Equal(t, "/products/404", p.Instance)
}

func TestHandleFeatured(t *testing.T) {
	m := newTestModule(t)

	w := httptest.NewRecorder()
	m.handleFeatured(w, httptest.NewRequest("GET", "/featured", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var products []models.Product
	require.NoError(t, json.NewDecoder(w.Body).Decode(&products))
	require.Len(t, products, defaultFeaturedCount)
	assert.Equal(t, []string{"9", "7", "10", "5"}, ids(products))

	w = httptest.NewRecorder()
	m.handleFeatured(w, httptest.NewRequest("GET", "/featured?n=2", nil))
	require.NoError(t, json.NewDecoder(w.Body).Decode(&products))
	assert.Len(t, products, 2)

	w = httptest.NewRecorder()
	m.handleFeatured(w, httptest.NewRequest("GET", "/featured?n=0", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestInit_FeaturedCountFromConfig(t *testing.T) {
	cfg, err := config.Load("")
	require.NoError(t, err)
	cfg.Viper().Set("plugins.catalog.featured_count", 6)

	m := New()
	require.NoError(t, m.Init(cfg.Sub("plugins.catalog"), testutil.Logger()))
	assert.Equal(t, 6, m.featuredCount)
}

func TestHandleCategories(t *testing.T) {
	m := newTestModule(t)

	w := httptest.NewRecorder()
	m.handleCategories(w, httptest.NewRequest("GET", "/categories", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var info []CategoryInfo
	require.NoError(t, json.NewDecoder(w.Body).Decode(&info))
	require.Len(t, info, 9)
	assert.Equal(t, models.CategoryAll, info[0].Name)
	assert.Equal(t, 12, info[0].Count)

	counts := make(map[models.Category]int)
	for _, c := range info {
		counts[c.Name] = c.Count
		assert.NotEmpty(t, c.Icon, "category %s has no icon", c.Name)
	}
	assert.Equal(t, 3, counts[models.CategoryHomeLiving])
	assert.Equal(t, 2, counts[models.CategoryPersonal])
	assert.Equal(t, 1, counts[models.CategoryKitchen])
}

func TestHandleSortOptions(t *testing.T) {
	m := newTestModule(t)

	w := httptest.NewRecorder()
	m.handleSortOptions(w, httptest.NewRequest("GET", "/sort-options", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var opts []SortOption
	require.NoError(t, json.NewDecoder(w.Body).Decode(&opts))
	require.Len(t, opts, 5)
	assert.Equal(t, SortEcoDesc, opts[0].Key)
}

func TestHandleResetCriteria_KeepsSort(t *testing.T) {
	m := newTestModule(t)

	body := `{"category":"Electronics","ecoScoreRange":[84,86],"carbonRange":[4,5],"sortBy":"price-desc"}`
	w := httptest.NewRecorder()
	m.handleResetCriteria(w, httptest.NewRequest("POST", "/criteria/reset", strings.NewReader(body)))

	resp := decodeQuery(t, w)
	assert.Equal(t, SortPriceDesc, resp.Criteria.Sort)
	assert.Equal(t, models.CategoryAll, resp.Criteria.Category)
	assert.Equal(t, Range{Low: EcoScoreMin, High: EcoScoreMax}, resp.Criteria.EcoScoreRange)
	assert.Equal(t, Range{Low: CarbonMin, High: CarbonMax}, resp.Criteria.CarbonRange)
	assert.False(t, resp.HasActiveFilters)
	require.Equal(t, 12, resp.Count)
	assert.Equal(t, "12", resp.Products[0].ID)
}

func TestHandleResetCriteria_BadBody(t *testing.T) {
	m := newTestModule(t)

	for _, body := range []string{`not json`, `{"ecoScoreRange":[1]}`, `{"sortBy":"random"}`} {
		w := httptest.NewRecorder()
		m.handleResetCriteria(w, httptest.NewRequest("POST", "/criteria/reset", strings.NewReader(body)))
		assert.Equal(t, http.StatusBadRequest, w.Code, "body %s", body)
	}
}

func TestRoutes(t *testing.T) {
	m := New()
	routes := m.Routes()

	want := map[string]bool{
		"GET /products":        false,
		"GET /products.csv":    false,
		"GET /products/{id}":   false,
		"GET /featured":        false,
		"GET /categories":      false,
		"GET /sort-options":    false,
		"POST /criteria/reset": false,
	}
	for _, r := range routes {
		key := r.Method + " " + r.Path
		if _, ok := want[key]; !ok {
			t.Errorf("unexpected route %s", key)
		}
		want[key] = true
	}
	for key, seen := range want {
		if !seen {
			t.Errorf("missing route %s", key)
		}
	}
}

func TestWriteJSON_LogsEncodeFailure(t *testing.T) {
	m := newTestModule(t)
	core, logs := observer.New(zapcore.DebugLevel)
	m.logger = zap.New(core)

	w := httptest.NewRecorder()
	m.writeJSON(w, http.StatusOK, math.Inf(1))

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, zapcore.DebugLevel, entry.Level)
	assert.Equal(t, "failed to encode response", entry.Message)
}
