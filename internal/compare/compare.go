// Package compare implements side-by-side product comparison: the bounded
// selection of products and the best-in-class designations across key
// metrics and sustainability dimensions.
package compare

import (
	"slices"

	"github.com/HerbHall/ecotrace/pkg/models"
)

// Metric names a headline comparison metric.
type Metric string

const (
	MetricEcoScore Metric = "ecoScore"
	MetricCarbon   Metric = "carbonFootprint"
	MetricPrice    Metric = "price"
)

// Metrics lists the key metrics in display order.
var Metrics = []Metric{MetricEcoScore, MetricCarbon, MetricPrice}

// higherIsBetter reports the winning direction of each metric.
var higherIsBetter = map[Metric]bool{
	MetricEcoScore: true,
	MetricCarbon:   false,
	MetricPrice:    false,
}

func (m Metric) value(p *models.Product) float64 {
	switch m {
	case MetricEcoScore:
		return float64(p.EcoScore)
	case MetricCarbon:
		return p.CarbonFootprint
	case MetricPrice:
		return p.Price
	}
	return 0
}

// Result holds the designations for one comparison. Maps list every product
// id that attains the best value, so ties mark all tied products.
type Result struct {
	Valid      bool                          `json:"valid"`
	Products   []models.Product              `json:"products"`
	BestChoice string                        `json:"bestChoice,omitempty"`
	KeyMetrics map[Metric][]string           `json:"keyMetrics,omitempty"`
	Dimensions map[models.Dimension][]string `json:"dimensions,omitempty"`
}

// IsBest reports whether id holds the best value for metric.
func (r Result) IsBest(metric Metric, id string) bool {
	return slices.Contains(r.KeyMetrics[metric], id)
}

// IsBestDimension reports whether id holds the highest score for d.
func (r Result) IsBestDimension(d models.Dimension, id string) bool {
	return slices.Contains(r.Dimensions[d], id)
}

// Compare designates the best products among selected. Fewer than
// MinSelection or more than MaxSelection products yield an invalid result
// with no designations.
func Compare(selected []models.Product) Result {
	products := make([]models.Product, len(selected))
	copy(products, selected)

	if len(products) < MinSelection || len(products) > MaxSelection {
		return Result{Valid: false, Products: products}
	}

	r := Result{
		Valid:      true,
		Products:   products,
		BestChoice: bestChoice(products),
		KeyMetrics: make(map[Metric][]string, len(Metrics)),
		Dimensions: make(map[models.Dimension][]string, len(models.Dimensions)),
	}

	for _, m := range Metrics {
		r.KeyMetrics[m] = leaders(products, m.value, higherIsBetter[m])
	}
	for _, d := range models.Dimensions {
		r.Dimensions[d] = leaders(products, func(p *models.Product) float64 {
			return float64(p.Sustainability.Value(d))
		}, true)
	}

	return r
}

// bestChoice returns the id of the highest eco-score. The first product
// wins a tie.
func bestChoice(products []models.Product) string {
	best := 0
	for i := 1; i < len(products); i++ {
		if products[i].EcoScore > products[best].EcoScore {
			best = i
		}
	}
	return products[best].ID
}

// leaders returns the ids of every product whose value equals the extremum,
// in selection order.
func leaders(products []models.Product, value func(*models.Product) float64, highest bool) []string {
	extremum := value(&products[0])
	for i := 1; i < len(products); i++ {
		v := value(&products[i])
		if (highest && v > extremum) || (!highest && v < extremum) {
			extremum = v
		}
	}

	var ids []string
	for i := range products {
		if value(&products[i]) == extremum {
			ids = append(ids, products[i].ID)
		}
	}
	return ids
}
