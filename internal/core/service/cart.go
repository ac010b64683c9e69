package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/shopspring/decimal"
)

const checkoutMessage = "checkout completed"

func newOrderID() string {
	return uuid.NewString()
}

// AddCartItem merges quantity into the existing line for productID.
// The product is not checked against the catalog until checkout.
func (s *Service) AddCartItem(
	ctx context.Context, username string, productID, quantity int,
) (domain.Cart, error) {
	const op = "Service.AddCartItem"

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	unlock := s.cartLocks.lock(username)
	defer unlock()

	c, err := s.carts.Cart(username).Add(productID, quantity)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.carts.SaveCart(username, c)

	logger(op).Info("cart item added",
		"username", username, "productID", productID, "quantity", quantity)
	return c, nil
}

func (s *Service) Cart(ctx context.Context, username string) (domain.Cart, error) {
	const op = "Service.Cart"

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	unlock := s.cartLocks.lock(username)
	defer unlock()
	return s.carts.Cart(username), nil
}

func (s *Service) RemoveCartItem(
	ctx context.Context, username string, productID int,
) (domain.Cart, error) {
	const op = "Service.RemoveCartItem"

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	unlock := s.cartLocks.lock(username)
	defer unlock()

	c, ok := s.carts.Cart(username).Remove(productID)
	if !ok {
		return nil, fmt.Errorf(
			"%s: %w", op, domain.NotFoundError{Entity: "cart item", ID: productID},
		)
	}
	s.carts.SaveCart(username, c)

	logger(op).Info("cart item removed", "username", username, "productID", productID)
	return c, nil
}

// Checkout drains username's cart into the purchase ledger.
//
// Every line is priced from one catalog snapshot taken before anything is
// written. Either the ledger gains one record per line and the cart is
// emptied, or neither changes.
func (s *Service) Checkout(
	ctx context.Context, username string,
) (domain.Receipt, error) {
	const op = "Service.Checkout"
	log := logger(op)

	if err := ctx.Err(); err != nil {
		return domain.Receipt{}, fmt.Errorf("%s: %w", op, err)
	}

	receipt, err := s.commitCheckout(username)
	if err != nil {
		return domain.Receipt{}, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("checkout completed", "username", username,
		"orderID", receipt.OrderID, "total", receipt.Total.String(),
		"nRecords", len(receipt.Records))

	s.emitPurchase(ctx, domain.PurchaseCompleted{
		OrderID:     receipt.OrderID,
		Username:    username,
		Records:     receipt.Records,
		Total:       receipt.Total,
		CompletedAt: s.now(),
	})

	return receipt, nil
}

// emitPurchase delivers evt in the background so a slow broker never
// delays the receipt. Delivery outlives ctx but not emitTimeout.
func (s *Service) emitPurchase(ctx context.Context, evt domain.PurchaseCompleted) {
	const op = "Service.emitPurchase"

	s.emits.Add(1)
	go func() {
		defer s.emits.Done()

		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.emitTimeout)
		defer cancel()

		if err := s.emitter.EmitPurchase(ctx, evt); err != nil {
			logger(op).Error("failed to emit purchase",
				"orderID", evt.OrderID, "username", evt.Username, "err", err)
		}
	}()
}

func (s *Service) commitCheckout(username string) (domain.Receipt, error) {
	unlock := s.cartLocks.lock(username)
	defer unlock()

	c := s.carts.Cart(username)
	if len(c) == 0 {
		return domain.Receipt{}, domain.ErrEmptyCart
	}

	products, err := s.products.ProductsSnapshot(c.ProductIDs())
	if err != nil {
		return domain.Receipt{}, err
	}

	total := decimal.Zero
	records := make([]domain.PurchaseRecord, len(c))
	for i, it := range c {
		linePrice := products[it.ProductID].Price.Mul(decimal.NewFromInt(int64(it.Quantity)))
		records[i] = domain.PurchaseRecord{
			ProductID:  it.ProductID,
			Quantity:   it.Quantity,
			TotalPrice: linePrice,
		}
		total = total.Add(linePrice)
	}

	s.ledger.AppendPurchases(username, records)
	s.carts.SaveCart(username, domain.Cart{})

	return domain.Receipt{
		OrderID: s.orderID(),
		Total:   total,
		Message: checkoutMessage,
		Records: records,
	}, nil
}
