// Package impact provides the canned history behind the impact tracker
// dashboard.
package impact

import (
	_ "embed"
	"fmt"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed impact.yaml
var impactRawData []byte

// TrackedProduct is a product the user follows on the dashboard.
type TrackedProduct struct {
	ProductID string `json:"productId" yaml:"productId"`
	AddedAt   string `json:"addedAt" yaml:"addedAt"` // YYYY-MM-DD
	Quantity  int    `json:"quantity" yaml:"quantity"`
}

// MonthlyImpact is one point of the dashboard's history chart.
type MonthlyImpact struct {
	Month           string  `json:"month" yaml:"month"`
	CarbonSaved     float64 `json:"carbonSaved" yaml:"carbonSaved"`
	EcoScore        int     `json:"ecoScore" yaml:"ecoScore"`
	ProductsTracked int     `json:"productsTracked" yaml:"productsTracked"`
}

// Stats are the headline dashboard figures.
type Stats struct {
	TotalCarbonSaved float64 `json:"totalCarbonSaved" yaml:"totalCarbonSaved"`
	AverageEcoScore  int     `json:"averageEcoScore" yaml:"averageEcoScore"`
	ProductsTracked  int     `json:"productsTracked" yaml:"productsTracked"`
	TreesEquivalent  float64 `json:"treesEquivalent" yaml:"treesEquivalent"`
	PlasticAvoided   float64 `json:"plasticAvoided" yaml:"plasticAvoided"`
	WaterSaved       float64 `json:"waterSaved" yaml:"waterSaved"`
}

// Scenario is a "what if" switch suggested by the dashboard.
type Scenario struct {
	ID              string  `json:"id" yaml:"id"`
	Title           string  `json:"title" yaml:"title"`
	Description     string  `json:"description" yaml:"description"`
	CurrentImpact   float64 `json:"currentImpact" yaml:"currentImpact"`
	PotentialImpact float64 `json:"potentialImpact" yaml:"potentialImpact"`
	Savings         string  `json:"savings" yaml:"savings"`
	Difficulty      string  `json:"difficulty" yaml:"difficulty"`
}

// Data is the full dashboard dataset.
type Data struct {
	TrackedProducts []TrackedProduct `json:"trackedProducts" yaml:"trackedProducts"`
	MonthlyImpact   []MonthlyImpact  `json:"monthlyImpact" yaml:"monthlyImpact"`
	Stats           Stats            `json:"stats" yaml:"stats"`
	Scenarios       []Scenario       `json:"scenarios" yaml:"scenarios"`
}

// Source provides lazy-loaded access to the embedded dashboard data.
type Source struct {
	once sync.Once
	data Data
	err  error
}

// NewSource creates a Source that parses the embedded YAML on first access.
func NewSource() *Source {
	return &Source{}
}

// Data returns a copy of the dashboard dataset.
func (s *Source) Data() (Data, error) {
	s.once.Do(s.load)
	if s.err != nil {
		return Data{}, s.err
	}
	d := s.data
	d.TrackedProducts = append([]TrackedProduct(nil), s.data.TrackedProducts...)
	d.MonthlyImpact = append([]MonthlyImpact(nil), s.data.MonthlyImpact...)
	d.Scenarios = append([]Scenario(nil), s.data.Scenarios...)
	return d, nil
}

func (s *Source) load() {
	if err := yaml.Unmarshal(impactRawData, &s.data); err != nil {
		s.err = fmt.Errorf("impact: parse yaml: %w", err)
	}
}
