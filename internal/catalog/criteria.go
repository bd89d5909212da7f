package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"

	"github.com/HerbHall/ecotrace/pkg/models"
)

// ErrInvalidCriteria is returned when filter criteria fail validation.
var ErrInvalidCriteria = errors.New("invalid criteria")

// Full filter bounds. Reset restores both ranges to these.
const (
	EcoScoreMin = 0
	EcoScoreMax = 100
	CarbonMin   = 0
	CarbonMax   = 10
)

// SortKey selects the single comparator applied by Query.
type SortKey string

const (
	SortEcoDesc   SortKey = "eco-desc"
	SortEcoAsc    SortKey = "eco-asc"
	SortPriceAsc  SortKey = "price-asc"
	SortPriceDesc SortKey = "price-desc"
	SortCarbonAsc SortKey = "carbon-asc"
)

// SortOption pairs a sort key with its display label.
type SortOption struct {
	Key   SortKey `json:"value"`
	Label string  `json:"label"`
}

// SortOptions lists the supported orderings in display order.
var SortOptions = []SortOption{
	{Key: SortEcoDesc, Label: "Highest Eco Score"},
	{Key: SortEcoAsc, Label: "Lowest Eco Score"},
	{Key: SortPriceAsc, Label: "Price: Low to High"},
	{Key: SortPriceDesc, Label: "Price: High to Low"},
	{Key: SortCarbonAsc, Label: "Lowest Carbon"},
}

// Valid reports whether k is a supported sort key.
func (k SortKey) Valid() bool {
	for _, o := range SortOptions {
		if o.Key == k {
			return true
		}
	}
	return false
}

// Range is a closed numeric interval. It encodes as a two-element JSON array.
type Range struct {
	Low  float64
	High float64
}

// Finite reports whether both bounds are finite numbers.
func (r Range) Finite() bool {
	for _, v := range [2]float64{r.Low, r.High} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// Contains reports whether v lies in [Low, High].
func (r Range) Contains(v float64) bool {
	return v >= r.Low && v <= r.High
}

// MarshalJSON encodes the range as [low, high].
func (r Range) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]float64{r.Low, r.High})
}

// UnmarshalJSON decodes a [low, high] array.
func (r *Range) UnmarshalJSON(data []byte) error {
	var pair []float64
	if err := json.Unmarshal(data, &pair); err != nil {
		return err
	}
	if len(pair) != 2 {
		return fmt.Errorf("range must have exactly 2 elements, got %d", len(pair))
	}
	r.Low, r.High = pair[0], pair[1]
	return nil
}

// Criteria is the caller-owned filter and sort state for a catalog query.
type Criteria struct {
	Category      models.Category `json:"category"`
	EcoScoreRange Range           `json:"ecoScoreRange"`
	CarbonRange   Range           `json:"carbonRange"`
	Sort          SortKey         `json:"sortBy"`
}

// DefaultCriteria returns the initial state of the product listing.
func DefaultCriteria() Criteria {
	return Criteria{
		Category:      models.CategoryAll,
		EcoScoreRange: Range{Low: EcoScoreMin, High: EcoScoreMax},
		CarbonRange:   Range{Low: CarbonMin, High: CarbonMax},
		Sort:          SortEcoDesc,
	}
}

// Reset restores the category and both ranges to their defaults. The sort
// key is kept as-is.
func (c Criteria) Reset() Criteria {
	d := DefaultCriteria()
	d.Sort = c.Sort
	return d
}

// HasActiveFilters reports whether any filter narrows the catalog. Sorting
// does not count as a filter.
func (c Criteria) HasActiveFilters() bool {
	return c.Category != models.CategoryAll ||
		c.EcoScoreRange.Low > EcoScoreMin ||
		c.EcoScoreRange.High < EcoScoreMax ||
		c.CarbonRange.Low > CarbonMin ||
		c.CarbonRange.High < CarbonMax
}

// Validate checks that the criteria can be evaluated.
func (c Criteria) Validate() error {
	if !c.Category.Valid() {
		return fmt.Errorf("%w: unknown category %q", ErrInvalidCriteria, c.Category)
	}
	if !c.EcoScoreRange.Finite() {
		return fmt.Errorf("%w: eco score range [%v, %v] is not finite",
			ErrInvalidCriteria, c.EcoScoreRange.Low, c.EcoScoreRange.High)
	}
	if !c.CarbonRange.Finite() {
		return fmt.Errorf("%w: carbon range [%v, %v] is not finite",
			ErrInvalidCriteria, c.CarbonRange.Low, c.CarbonRange.High)
	}
	if c.EcoScoreRange.Low > c.EcoScoreRange.High {
		return fmt.Errorf("%w: eco score range [%v, %v] is inverted",
			ErrInvalidCriteria, c.EcoScoreRange.Low, c.EcoScoreRange.High)
	}
	if c.CarbonRange.Low > c.CarbonRange.High {
		return fmt.Errorf("%w: carbon range [%v, %v] is inverted",
			ErrInvalidCriteria, c.CarbonRange.Low, c.CarbonRange.High)
	}
	if !c.Sort.Valid() {
		return fmt.Errorf("%w: unknown sort key %q", ErrInvalidCriteria, c.Sort)
	}
	return nil
}
