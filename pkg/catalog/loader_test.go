package catalog

import (
	"strings"
	"testing"

	"github.com/HerbHall/ecotrace/pkg/models"
)

func TestCatalog_Products_Embedded(t *testing.T) {
	products, err := NewCatalog().Products()
	if err != nil {
		t.Fatalf("Products() error = %v", err)
	}
	if len(products) != 12 {
		t.Fatalf("len(products) = %d, want 12", len(products))
	}
	for i, p := range products {
		if err := p.Validate(); err != nil {
			t.Errorf("products[%d] invalid: %v", i, err)
		}
	}
	if products[0].ID != "1" || products[11].ID != "12" {
		t.Errorf("collection order not preserved: first=%s last=%s", products[0].ID, products[11].ID)
	}
}

func TestCatalog_Products_ReturnsCopy(t *testing.T) {
	cat := NewCatalog()
	first, err := cat.Products()
	if err != nil {
		t.Fatalf("Products() error = %v", err)
	}
	first[0].Name = "mutated"

	second, _ := cat.Products()
	if second[0].Name == "mutated" {
		t.Error("Products() must return a copy; caller mutation leaked into catalog")
	}
}

func TestCatalog_Products_CopiesSliceFields(t *testing.T) {
	cat := NewCatalog()
	first, err := cat.Products()
	if err != nil {
		t.Fatalf("Products() error = %v", err)
	}
	if len(first[0].Certifications) == 0 {
		t.Fatal("product 1 should carry certifications")
	}
	want := first[0].Certifications[0]
	first[0].Certifications[0] = "mutated"

	second, _ := cat.Products()
	if got := second[0].Certifications[0]; got != want {
		t.Errorf("Products() certifications[0] = %q after caller mutation, want %q", got, want)
	}

	found, _, _ := cat.Find("1")
	if got := found.Certifications[0]; got != want {
		t.Errorf("Find(1) certifications[0] = %q after caller mutation, want %q", got, want)
	}

	found.Certifications[0] = "mutated again"
	again, _, _ := cat.Find("1")
	if got := again.Certifications[0]; got != want {
		t.Errorf("Find(1) certifications[0] = %q after mutating a Find result, want %q", got, want)
	}
}

func TestCatalog_Categories(t *testing.T) {
	cats, err := NewCatalog().Categories()
	if err != nil {
		t.Fatalf("Categories() error = %v", err)
	}
	if len(cats) != 9 {
		t.Fatalf("len(categories) = %d, want 9", len(cats))
	}
	if cats[0] != models.CategoryAll {
		t.Errorf("categories[0] = %q, want All", cats[0])
	}
}

func TestCatalog_Find(t *testing.T) {
	cat := NewCatalog()

	p, ok, err := cat.Find("7")
	if err != nil {
		t.Fatalf("Find() error = %v", err)
	}
	if !ok {
		t.Fatal("Find(7) not found")
	}
	if p.Name != "Natural Deodorant Stick" || p.EcoScore != 96 {
		t.Errorf("Find(7) = %s (%d), want Natural Deodorant Stick (96)", p.Name, p.EcoScore)
	}

	_, ok, err = cat.Find("404")
	if err != nil {
		t.Fatalf("Find(404) error = %v", err)
	}
	if ok {
		t.Error("Find(404) should report not found")
	}
}

func TestCatalog_InvalidYAML(t *testing.T) {
	cat := NewCatalogFromYAML([]byte("products: [this is: not valid"))
	if _, err := cat.Products(); err == nil {
		t.Fatal("expected parse error")
	}
	if _, _, err := cat.Find("1"); err == nil {
		t.Fatal("expected parse error from Find")
	}
}

func TestCatalog_RejectsInvalidProduct(t *testing.T) {
	data := `
products:
  - id: "x"
    name: Broken
    category: Kitchen
    ecoScore: 140
`
	_, err := NewCatalogFromYAML([]byte(data)).Products()
	if err == nil || !strings.Contains(err.Error(), "out of range") {
		t.Fatalf("Products() error = %v, want out of range", err)
	}
}

func TestCatalog_RejectsDuplicateID(t *testing.T) {
	data := `
products:
  - {id: "a", name: One, category: Kitchen, ecoScore: 50}
  - {id: "a", name: Two, category: Bags, ecoScore: 60}
`
	_, err := NewCatalogFromYAML([]byte(data)).Products()
	if err == nil || !strings.Contains(err.Error(), "duplicate") {
		t.Fatalf("Products() error = %v, want duplicate id", err)
	}
}

func TestCatalog_DefaultCategories(t *testing.T) {
	data := `
products:
  - {id: "a", name: One, category: Kitchen, ecoScore: 50}
`
	cats, err := NewCatalogFromYAML([]byte(data)).Categories()
	if err != nil {
		t.Fatalf("Categories() error = %v", err)
	}
	if len(cats) != len(models.Categories)+1 || cats[0] != models.CategoryAll {
		t.Errorf("default categories = %v", cats)
	}
}
