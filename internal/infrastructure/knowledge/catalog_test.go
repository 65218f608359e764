package knowledge

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadFallsBackToBuiltInsWhenPathEmpty(t *testing.T) {
	catalog, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	products := catalog.Products()
	if len(products) == 0 {
		t.Fatalf("expected built-in products")
	}
	if products[0].Name != "Personal Loan" {
		t.Fatalf("unexpected first product %q", products[0].Name)
	}
}

func TestLoadParsesYAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "products.yaml")
	body := `products:
  - name: Festival Loan
    description: Short tenure seasonal offer.
    min_amount: 10000
    max_amount: 100000
    min_rate_pct: 12.0
    max_rate_pct: 15.0
    tenure_months: [6, 12]
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	catalog, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	products := catalog.Products()
	if len(products) != 1 || products[0].Name != "Festival Loan" {
		t.Fatalf("unexpected products %+v", products)
	}
	if products[0].MaxAmount != 100000 {
		t.Fatalf("expected max amount 100000, got %v", products[0].MaxAmount)
	}
}

func TestLoadRejectsInvalidCatalog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "products.yaml")
	body := `products:
  - name: Broken
    min_amount: 100000
    max_amount: 50000
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	if _, err := Load(path); err == nil {
		t.Fatalf("expected error for max below min")
	}
}
