package domain_test

import (
	"testing"

	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCart(t *testing.T) {
	t.Run("AddMerges", func(t *testing.T) {
		var c domain.Cart
		for _, it := range []domain.CartItem{
			{ProductID: 1, Quantity: 2},
			{ProductID: 2, Quantity: 1},
			{ProductID: 1, Quantity: 4},
		} {
			var err error
			c, err = c.Add(it.ProductID, it.Quantity)
			require.NoError(t, err)
		}
		assert.Equal(t, domain.Cart{{ProductID: 1, Quantity: 6}, {ProductID: 2, Quantity: 1}}, c)
	})

	t.Run("AddRejectsOutOfRangeQuantity", func(t *testing.T) {
		c := domain.Cart{{ProductID: 1, Quantity: 1}}

		for _, q := range []int{0, -1, domain.MaxLineQuantity + 1} {
			got, err := c.Add(2, q)
			assert.ErrorIs(t, err, domain.ErrValidation, q)
			assert.Equal(t, domain.Cart{{ProductID: 1, Quantity: 1}}, got)
		}
	})

	t.Run("AddMergeOverflow", func(t *testing.T) {
		c := domain.Cart{{ProductID: 1, Quantity: domain.MaxLineQuantity}}

		got, err := c.Add(1, 1)
		assert.ErrorIs(t, err, domain.ErrValidation)
		assert.Equal(t, domain.Cart{{ProductID: 1, Quantity: domain.MaxLineQuantity}}, got)

		c = domain.Cart{{ProductID: 1, Quantity: domain.MaxLineQuantity - 1}}
		got, err = c.Add(1, 1)
		require.NoError(t, err)
		assert.Equal(t, domain.Cart{{ProductID: 1, Quantity: domain.MaxLineQuantity}}, got)
	})

	t.Run("Remove", func(t *testing.T) {
		c := domain.Cart{{ProductID: 1, Quantity: 1}, {ProductID: 2, Quantity: 3}}

		c, ok := c.Remove(1)
		require.True(t, ok)
		assert.Equal(t, domain.Cart{{ProductID: 2, Quantity: 3}}, c)

		_, ok = c.Remove(1)
		assert.False(t, ok)
	})

	t.Run("ProductIDs", func(t *testing.T) {
		c := domain.Cart{{ProductID: 3, Quantity: 1}, {ProductID: 1, Quantity: 3}}
		assert.Equal(t, []int{3, 1}, c.ProductIDs())
	})
}

func TestProductFilter(t *testing.T) {
	p := domain.Product{ID: 1, Name: "Pen", Price: decimal.RequireFromString("1.50"), Category: "office"}
	lo := decimal.RequireFromString("1.5")
	hi := decimal.RequireFromString("2")
	tooHigh := decimal.RequireFromString("1.51")

	assert.True(t, domain.ProductFilter{}.Match(p))
	assert.True(t, domain.ProductFilter{Category: "office", MinPrice: &lo, MaxPrice: &hi}.Match(p))
	assert.False(t, domain.ProductFilter{Category: "books"}.Match(p))
	assert.False(t, domain.ProductFilter{MinPrice: &tooHigh}.Match(p))
	assert.False(t, domain.ProductFilter{MaxPrice: &lo, MinPrice: &hi}.Match(p))
}

func TestParseSortKey(t *testing.T) {
	for _, s := range []string{"", "price_asc", "price_desc", "newest", "oldest"} {
		k, err := domain.ParseSortKey(s)
		require.NoError(t, err, s)
		assert.Equal(t, domain.SortKey(s), k)
	}

	_, err := domain.ParseSortKey("most_purchased")
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = domain.ParseSortKey("cheapest")
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestRequireAdmin(t *testing.T) {
	assert.NoError(t, domain.RequireAdmin(domain.RoleAdmin))
	assert.ErrorIs(t, domain.RequireAdmin(domain.RoleUser), domain.ErrForbidden)
	assert.ErrorIs(t, domain.RequireAdmin(""), domain.ErrForbidden)
}
