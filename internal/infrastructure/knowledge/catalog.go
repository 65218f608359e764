package knowledge

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/AnshAggr1303/loan-agent-system/internal/core/domain"
)

// Catalog holds the loan products served by GET /v1/products. The set is
// loaded once at startup; there is no hot reload.
type Catalog struct {
	products []domain.LoanProduct
}

// Load reads the catalog from a YAML file. An empty path falls back to the
// built-in product set so the service runs without any data files.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return &Catalog{products: defaultProducts()}, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}

	var doc struct {
		Products []domain.LoanProduct `yaml:"products"`
	}
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parse catalog yaml: %w", err)
	}
	if len(doc.Products) == 0 {
		return nil, fmt.Errorf("catalog %s has no products", path)
	}
	for i, p := range doc.Products {
		if p.Name == "" {
			return nil, fmt.Errorf("catalog %s: product %d has no name", path, i)
		}
		if p.MaxAmount < p.MinAmount {
			return nil, fmt.Errorf("catalog %s: product %q max below min", path, p.Name)
		}
	}
	return &Catalog{products: doc.Products}, nil
}

func (c *Catalog) Products() []domain.LoanProduct {
	out := make([]domain.LoanProduct, len(c.products))
	copy(out, c.products)
	return out
}

func defaultProducts() []domain.LoanProduct {
	return []domain.LoanProduct{
		{
			Name:         "Personal Loan",
			Description:  "Unsecured personal loan for salaried and self-employed applicants.",
			MinAmount:    50000,
			MaxAmount:    2000000,
			MinRatePct:   10.5,
			MaxRatePct:   16.0,
			TenureMonths: []int{12, 24, 36, 48, 60},
			Purposes:     []string{"Wedding", "Education", "Medical", "Home Renovation", "Business"},
		},
		{
			Name:         "Top-Up Loan",
			Description:  "Additional amount for existing borrowers with a clean repayment record.",
			MinAmount:    25000,
			MaxAmount:    500000,
			MinRatePct:   11.0,
			MaxRatePct:   14.0,
			TenureMonths: []int{12, 24, 36},
		},
	}
}
