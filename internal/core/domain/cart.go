package domain

import (
	"fmt"
	"slices"

	"github.com/shopspring/decimal"
)

type CartItem struct {
	ProductID int
	Quantity  int
}

// A Cart is an ordered set of lines, one per product.
type Cart []CartItem

func (c Cart) index(productID int) int {
	return slices.IndexFunc(c, func(it CartItem) bool {
		return it.ProductID == productID
	})
}

// MaxLineQuantity bounds the quantity of a single cart line.
const MaxLineQuantity = 1_000_000

// Add merges quantity into the line for productID or appends a new line.
// The cart is left untouched when the merged quantity leaves
// 1..[MaxLineQuantity].
func (c Cart) Add(productID, quantity int) (Cart, error) {
	if quantity < 1 || quantity > MaxLineQuantity {
		return c, fmt.Errorf(
			"%w: quantity must be between 1 and %d", ErrValidation, MaxLineQuantity,
		)
	}
	i := c.index(productID)
	if i == -1 {
		return append(c, CartItem{ProductID: productID, Quantity: quantity}), nil
	}
	if c[i].Quantity > MaxLineQuantity-quantity {
		return c, fmt.Errorf(
			"%w: product id=%d: line quantity would exceed %d",
			ErrValidation, productID, MaxLineQuantity,
		)
	}
	c[i].Quantity += quantity
	return c, nil
}

// Remove reports false when there is no line for productID.
func (c Cart) Remove(productID int) (Cart, bool) {
	i := c.index(productID)
	if i == -1 {
		return c, false
	}
	return slices.Delete(c, i, i+1), true
}

func (c Cart) ProductIDs() []int {
	ids := make([]int, len(c))
	for i, it := range c {
		ids[i] = it.ProductID
	}
	return ids
}

// A Receipt is the result of a successful checkout.
type Receipt struct {
	OrderID string
	Total   decimal.Decimal
	Message string
	Records []PurchaseRecord
}
