package service

import (
	"context"
	"fmt"

	"github.com/niksmo/storefront/internal/core/domain"
)

func (s *Service) PurchaseHistory(
	ctx context.Context, username string,
) ([]domain.PurchaseRecord, error) {
	const op = "Service.PurchaseHistory"

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return s.ledger.PurchaseHistory(username), nil
}
