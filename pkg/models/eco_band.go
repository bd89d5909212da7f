package models

// EcoBand is the qualitative rating bucket for an eco-score.
type EcoBand string

const (
	EcoBandExcellent EcoBand = "excellent"
	EcoBandGood      EcoBand = "good"
	EcoBandModerate  EcoBand = "moderate"
	EcoBandPoor      EcoBand = "poor"
	EcoBandCritical  EcoBand = "critical"
)

var ecoBandLabels = map[EcoBand]string{
	EcoBandExcellent: "Excellent",
	EcoBandGood:      "Good",
	EcoBandModerate:  "Moderate",
	EcoBandPoor:      "Poor",
	EcoBandCritical:  "Critical",
}

// EcoBandFor returns the band containing score. Lower bounds are inclusive.
func EcoBandFor(score int) EcoBand {
	switch {
	case score >= 90:
		return EcoBandExcellent
	case score >= 75:
		return EcoBandGood
	case score >= 60:
		return EcoBandModerate
	case score >= 40:
		return EcoBandPoor
	default:
		return EcoBandCritical
	}
}

// Label returns the display label for the band.
func (b EcoBand) Label() string {
	return ecoBandLabels[b]
}

// CategoryIcon maps a Category to its icon identifier.
// Identifiers use Lucide icon names (https://lucide.dev) for
// compatibility with the React storefront.
var CategoryIcon = map[Category]string{
	CategoryAll:         "layout-grid",
	CategoryClothing:    "shirt",
	CategoryFootwear:    "footprints",
	CategoryHomeLiving:  "home",
	CategoryElectronics: "cpu",
	CategoryPersonal:    "sparkles",
	CategoryKitchen:     "utensils",
	CategoryBags:        "backpack",
	CategoryAccessories: "smartphone",
}

// Icon returns the icon identifier for a Category.
// Returns "leaf" for unrecognised categories.
func (c Category) Icon() string {
	if icon, ok := CategoryIcon[c]; ok {
		return icon
	}
	return "leaf"
}
