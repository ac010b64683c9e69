package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

type (
	// A Product is a catalog entry. ID is assigned by the catalog.
	Product struct {
		ID          int
		Name        string
		Price       decimal.Decimal
		Category    string
		Description string
	}

	// A ProductDraft is the admin-supplied part of a [Product].
	ProductDraft struct {
		Name        string
		Price       decimal.Decimal
		Category    string
		Description string
	}
)

func (d ProductDraft) ToProduct(id int) Product {
	return Product{
		ID:          id,
		Name:        d.Name,
		Price:       d.Price,
		Category:    d.Category,
		Description: d.Description,
	}
}

// A ProductFilter holds optional conjunctive predicates.
// Nil fields and an empty Category are not applied.
type ProductFilter struct {
	Category string
	MinPrice *decimal.Decimal
	MaxPrice *decimal.Decimal
}

func (f ProductFilter) Match(p Product) bool {
	if f.Category != "" && p.Category != f.Category {
		return false
	}
	if f.MinPrice != nil && p.Price.LessThan(*f.MinPrice) {
		return false
	}
	if f.MaxPrice != nil && p.Price.GreaterThan(*f.MaxPrice) {
		return false
	}
	return true
}

type SortKey string

const (
	SortNone      SortKey = ""
	SortPriceAsc  SortKey = "price_asc"
	SortPriceDesc SortKey = "price_desc"
	SortNewest    SortKey = "newest"
	SortOldest    SortKey = "oldest"

	// SortMostPurchased is recognized but not supported.
	SortMostPurchased SortKey = "most_purchased"
)

func ParseSortKey(s string) (SortKey, error) {
	switch k := SortKey(s); k {
	case SortNone, SortPriceAsc, SortPriceDesc, SortNewest, SortOldest:
		return k, nil
	case SortMostPurchased:
		return SortNone, fmt.Errorf("%w: sort %q is not supported yet", ErrValidation, s)
	default:
		return SortNone, fmt.Errorf("%w: unknown sort %q", ErrValidation, s)
	}
}
