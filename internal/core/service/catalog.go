package service

import (
	"cmp"
	"context"
	"fmt"
	"slices"

	"github.com/niksmo/storefront/internal/core/domain"
)

func (s *Service) AddProduct(
	ctx context.Context, role domain.Role, d domain.ProductDraft,
) (domain.Product, error) {
	const op = "Service.AddProduct"

	if err := ctx.Err(); err != nil {
		return domain.Product{}, fmt.Errorf("%s: %w", op, err)
	}

	if err := domain.RequireAdmin(role); err != nil {
		return domain.Product{}, fmt.Errorf("%s: %w", op, err)
	}

	p := s.products.InsertProduct(d)
	logger(op).Info("product added", "productID", p.ID, "name", p.Name)
	return p, nil
}

func (s *Service) UpdateProduct(
	ctx context.Context, role domain.Role, id int, d domain.ProductDraft,
) (domain.Product, error) {
	const op = "Service.UpdateProduct"

	if err := ctx.Err(); err != nil {
		return domain.Product{}, fmt.Errorf("%s: %w", op, err)
	}

	if err := domain.RequireAdmin(role); err != nil {
		return domain.Product{}, fmt.Errorf("%s: %w", op, err)
	}

	p, err := s.products.ReplaceProduct(id, d)
	if err != nil {
		return domain.Product{}, fmt.Errorf("%s: %w", op, err)
	}

	logger(op).Info("product updated", "productID", p.ID)
	return p, nil
}

func (s *Service) DeleteProduct(
	ctx context.Context, role domain.Role, id int,
) (domain.Product, error) {
	const op = "Service.DeleteProduct"

	if err := ctx.Err(); err != nil {
		return domain.Product{}, fmt.Errorf("%s: %w", op, err)
	}

	if err := domain.RequireAdmin(role); err != nil {
		return domain.Product{}, fmt.Errorf("%s: %w", op, err)
	}

	p, err := s.products.DeleteProduct(id)
	if err != nil {
		return domain.Product{}, fmt.Errorf("%s: %w", op, err)
	}

	logger(op).Info("product deleted", "productID", p.ID)
	return p, nil
}

func (s *Service) Product(ctx context.Context, id int) (domain.Product, error) {
	const op = "Service.Product"

	if err := ctx.Err(); err != nil {
		return domain.Product{}, fmt.Errorf("%s: %w", op, err)
	}

	p, err := s.products.Product(id)
	if err != nil {
		return domain.Product{}, fmt.Errorf("%s: %w", op, err)
	}
	return p, nil
}

// ListProducts returns a filtered copy of the catalog.
//
// Price sorts keep insertion order between equal prices.
// Newest and oldest order by id.
func (s *Service) ListProducts(
	ctx context.Context, f domain.ProductFilter, sortKey domain.SortKey,
) ([]domain.Product, error) {
	const op = "Service.ListProducts"

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	ps := slices.DeleteFunc(s.products.Products(), func(p domain.Product) bool {
		return !f.Match(p)
	})

	switch sortKey {
	case domain.SortNone:
	case domain.SortPriceAsc:
		slices.SortStableFunc(ps, func(a, b domain.Product) int {
			return a.Price.Cmp(b.Price)
		})
	case domain.SortPriceDesc:
		slices.SortStableFunc(ps, func(a, b domain.Product) int {
			return b.Price.Cmp(a.Price)
		})
	case domain.SortNewest:
		slices.SortFunc(ps, func(a, b domain.Product) int {
			return cmp.Compare(b.ID, a.ID)
		})
	case domain.SortOldest:
		slices.SortFunc(ps, func(a, b domain.Product) int {
			return cmp.Compare(a.ID, b.ID)
		})
	default:
		return nil, fmt.Errorf(
			"%s: %w: unsupported sort %q", op, domain.ErrValidation, sortKey,
		)
	}

	return ps, nil
}
