package service_test

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/niksmo/storefront/internal/adapter/storage"
	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/niksmo/storefront/internal/core/port"
	"github.com/niksmo/storefront/internal/core/service"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockPurchaseEmitter struct {
	mock.Mock
}

func (m *MockPurchaseEmitter) EmitPurchase(
	ctx context.Context, evt domain.PurchaseCompleted,
) error {
	args := m.Called(ctx, evt)
	return args.Error(0)
}

type fixture struct {
	store   storage.Storage
	service *service.Service
}

func newFixture(
	t *testing.T, emitter port.PurchaseEmitter, opts ...service.Opt,
) fixture {
	t.Helper()
	store := storage.New()
	t.Cleanup(store.Close)

	opts = append([]service.Opt{
		service.WithOrderIDs(func() string { return "order-1" }),
		service.WithClock(func() time.Time { return completedAt }),
	}, opts...)
	s := service.New(
		store.Products, store.Reviews, store.Carts,
		store.Wishlists, store.Purchases, emitter, opts...,
	)
	t.Cleanup(func() { s.Close(context.Background()) })
	return fixture{store: store, service: s}
}

// A blockingEmitter holds every delivery until release is closed
// and reports the delivery context's error on done.
type blockingEmitter struct {
	release chan struct{}
	done    chan error
}

func newBlockingEmitter() blockingEmitter {
	return blockingEmitter{
		release: make(chan struct{}),
		done:    make(chan error, 1),
	}
}

func (e blockingEmitter) EmitPurchase(
	ctx context.Context, _ domain.PurchaseCompleted,
) error {
	select {
	case <-e.release:
	case <-ctx.Done():
	}
	e.done <- ctx.Err()
	return ctx.Err()
}

var completedAt = time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)

func price(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func (f fixture) addProduct(
	t *testing.T, name, p, category string,
) domain.Product {
	t.Helper()
	v, err := f.service.AddProduct(t.Context(), domain.RoleAdmin, domain.ProductDraft{
		Name:     name,
		Price:    price(p),
		Category: category,
	})
	require.NoError(t, err)
	return v
}

// records renders purchase records with normalized decimals.
func records(rs []domain.PurchaseRecord) []string {
	vs := make([]string, len(rs))
	for i, r := range rs {
		vs[i] = fmt.Sprintf("%d x%d = %s", r.ProductID, r.Quantity, r.TotalPrice)
	}
	return vs
}

func productIDs(ps []domain.Product) []int {
	ids := make([]int, len(ps))
	for i, p := range ps {
		ids[i] = p.ID
	}
	return ids
}

func TestCatalog(t *testing.T) {
	t.Run("IDAssignment", func(t *testing.T) {
		f := newFixture(t, nil)

		pen := f.addProduct(t, "Pen", "1.5", "")
		book := f.addProduct(t, "Book", "10", "")
		assert.Equal(t, 1, pen.ID)
		assert.Equal(t, 2, book.ID)

		_, err := f.service.DeleteProduct(t.Context(), domain.RoleAdmin, pen.ID)
		require.NoError(t, err)

		// max+1 leaves the gap at 1 untouched while 2 exists
		pad := f.addProduct(t, "Pad", "3", "")
		assert.Equal(t, 3, pad.ID)
	})

	t.Run("IDReuseAfterDeletingMax", func(t *testing.T) {
		f := newFixture(t, nil)

		f.addProduct(t, "Pen", "1.5", "")
		book := f.addProduct(t, "Book", "10", "")

		_, err := f.service.DeleteProduct(t.Context(), domain.RoleAdmin, book.ID)
		require.NoError(t, err)

		pad := f.addProduct(t, "Pad", "2", "")
		assert.Equal(t, book.ID, pad.ID, "deleted max id is handed out again")
	})

	t.Run("IDReuseOnEmptiedCatalog", func(t *testing.T) {
		f := newFixture(t, nil)

		pen := f.addProduct(t, "Pen", "1.5", "")
		_, err := f.service.DeleteProduct(t.Context(), domain.RoleAdmin, pen.ID)
		require.NoError(t, err)

		pad := f.addProduct(t, "Pad", "2", "")
		assert.Equal(t, 1, pad.ID)
	})

	t.Run("UniqueIDsUnderConcurrentAdds", func(t *testing.T) {
		f := newFixture(t, nil)

		const n = 50
		var wg sync.WaitGroup
		wg.Add(n)
		for range n {
			go func() {
				defer wg.Done()
				_, err := f.service.AddProduct(
					context.Background(), domain.RoleAdmin,
					domain.ProductDraft{Name: "p", Price: price("1")},
				)
				assert.NoError(t, err)
			}()
		}
		wg.Wait()

		ps, err := f.service.ListProducts(t.Context(), domain.ProductFilter{}, domain.SortNone)
		require.NoError(t, err)
		require.Len(t, ps, n)

		seen := make(map[int]bool, n)
		for _, p := range ps {
			assert.False(t, seen[p.ID], "duplicate id %d", p.ID)
			seen[p.ID] = true
		}
	})

	t.Run("NonAdminForbidden", func(t *testing.T) {
		f := newFixture(t, nil)
		p := f.addProduct(t, "Pen", "1.5", "")
		d := domain.ProductDraft{Name: "Pen", Price: price("2")}

		_, err := f.service.AddProduct(t.Context(), domain.RoleUser, d)
		assert.ErrorIs(t, err, domain.ErrForbidden)

		_, err = f.service.UpdateProduct(t.Context(), domain.RoleUser, p.ID, d)
		assert.ErrorIs(t, err, domain.ErrForbidden)

		_, err = f.service.DeleteProduct(t.Context(), domain.RoleUser, p.ID)
		assert.ErrorIs(t, err, domain.ErrForbidden)

		got, err := f.service.Product(t.Context(), p.ID)
		require.NoError(t, err)
		assert.Equal(t, p, got)
	})

	t.Run("UpdateReplacesInPlace", func(t *testing.T) {
		f := newFixture(t, nil)
		f.addProduct(t, "Pen", "1.5", "office")
		book := f.addProduct(t, "Book", "10", "books")
		f.addProduct(t, "Pad", "3", "office")

		updated, err := f.service.UpdateProduct(
			t.Context(), domain.RoleAdmin, book.ID,
			domain.ProductDraft{Name: "Novel", Price: price("12.25")},
		)
		require.NoError(t, err)
		assert.Equal(t, book.ID, updated.ID)
		assert.Equal(t, "Novel", updated.Name)
		assert.Empty(t, updated.Category)

		ps, err := f.service.ListProducts(t.Context(), domain.ProductFilter{}, domain.SortNone)
		require.NoError(t, err)
		require.Len(t, ps, 3)
		assert.Equal(t, updated, ps[1])
	})

	t.Run("MissingProduct", func(t *testing.T) {
		f := newFixture(t, nil)
		d := domain.ProductDraft{Name: "Pen", Price: price("1")}

		_, err := f.service.UpdateProduct(t.Context(), domain.RoleAdmin, 7, d)
		assert.ErrorIs(t, err, domain.ErrNotFound)

		_, err = f.service.DeleteProduct(t.Context(), domain.RoleAdmin, 7)
		assert.ErrorIs(t, err, domain.ErrNotFound)

		_, err = f.service.Product(t.Context(), 7)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("DeleteReturnsRemoved", func(t *testing.T) {
		f := newFixture(t, nil)
		pen := f.addProduct(t, "Pen", "1.5", "")

		deleted, err := f.service.DeleteProduct(t.Context(), domain.RoleAdmin, pen.ID)
		require.NoError(t, err)
		assert.Equal(t, pen, deleted)

		_, err = f.service.Product(t.Context(), pen.ID)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestListProducts(t *testing.T) {
	f := newFixture(t, nil)
	f.addProduct(t, "Pen", "1.5", "office")   // 1
	f.addProduct(t, "Book", "10", "books")    // 2
	f.addProduct(t, "Pad", "3", "office")     // 3
	f.addProduct(t, "Stapler", "3", "office") // 4
	f.addProduct(t, "Atlas", "25", "books")   // 5

	list := func(t *testing.T, flt domain.ProductFilter, k domain.SortKey) []domain.Product {
		t.Helper()
		ps, err := f.service.ListProducts(t.Context(), flt, k)
		require.NoError(t, err)
		return ps
	}

	t.Run("NaturalOrder", func(t *testing.T) {
		ps := list(t, domain.ProductFilter{}, domain.SortNone)
		assert.Equal(t, []int{1, 2, 3, 4, 5}, productIDs(ps))
	})

	t.Run("Category", func(t *testing.T) {
		ps := list(t, domain.ProductFilter{Category: "office"}, domain.SortNone)
		assert.Equal(t, []int{1, 3, 4}, productIDs(ps))
		for _, p := range ps {
			assert.Equal(t, "office", p.Category)
		}
	})

	t.Run("CategoryIsExactMatch", func(t *testing.T) {
		ps := list(t, domain.ProductFilter{Category: "Office"}, domain.SortNone)
		assert.Empty(t, ps)
		assert.NotNil(t, ps)
	})

	t.Run("PriceRangeConjunctive", func(t *testing.T) {
		minP, maxP := price("2"), price("10")
		ps := list(t, domain.ProductFilter{
			Category: "office", MinPrice: &minP, MaxPrice: &maxP,
		}, domain.SortNone)
		assert.Equal(t, []int{3, 4}, productIDs(ps))
	})

	t.Run("PriceBoundsInclusive", func(t *testing.T) {
		minP, maxP := price("10"), price("10")
		ps := list(t, domain.ProductFilter{MinPrice: &minP, MaxPrice: &maxP}, domain.SortNone)
		assert.Equal(t, []int{2}, productIDs(ps))
	})

	t.Run("PriceAscStable", func(t *testing.T) {
		ps := list(t, domain.ProductFilter{}, domain.SortPriceAsc)
		assert.Equal(t, []int{1, 3, 4, 2, 5}, productIDs(ps))
	})

	t.Run("PriceDescNonIncreasing", func(t *testing.T) {
		ps := list(t, domain.ProductFilter{}, domain.SortPriceDesc)
		assert.Equal(t, []int{5, 2, 3, 4, 1}, productIDs(ps))
		for i := 1; i < len(ps); i++ {
			assert.False(t, ps[i].Price.GreaterThan(ps[i-1].Price))
		}
	})

	t.Run("NewestAndOldest", func(t *testing.T) {
		ps := list(t, domain.ProductFilter{Category: "books"}, domain.SortNewest)
		assert.Equal(t, []int{5, 2}, productIDs(ps))

		ps = list(t, domain.ProductFilter{Category: "books"}, domain.SortOldest)
		assert.Equal(t, []int{2, 5}, productIDs(ps))
	})

	t.Run("SnapshotIsACopy", func(t *testing.T) {
		ps := list(t, domain.ProductFilter{}, domain.SortNone)
		ps[0].Name = "mutated"

		p, err := f.service.Product(t.Context(), 1)
		require.NoError(t, err)
		assert.Equal(t, "Pen", p.Name)
	})

	t.Run("MostPurchasedUnsupported", func(t *testing.T) {
		_, err := f.service.ListProducts(
			t.Context(), domain.ProductFilter{}, domain.SortMostPurchased,
		)
		assert.ErrorIs(t, err, domain.ErrValidation)
		assert.Contains(t, err.Error(), `"most_purchased"`)
	})

	t.Run("UnknownSort", func(t *testing.T) {
		ps, err := f.service.ListProducts(
			t.Context(), domain.ProductFilter{}, domain.SortKey("cheapest"),
		)
		assert.Nil(t, ps)
		require.ErrorIs(t, err, domain.ErrValidation)
		assert.Contains(t, err.Error(), `unsupported sort "cheapest"`)
	})
}

func TestReviews(t *testing.T) {
	t.Run("AddAndList", func(t *testing.T) {
		f := newFixture(t, nil)
		pen := f.addProduct(t, "Pen", "1.5", "")
		book := f.addProduct(t, "Book", "10", "")

		r1 := domain.Review{ProductID: pen.ID, Username: "user", Rating: 5, Comment: "nice"}
		r2 := domain.Review{ProductID: book.ID, Username: "user", Rating: 2}
		r3 := domain.Review{ProductID: pen.ID, Username: "admin", Rating: 4}

		require.NoError(t, f.service.AddReview(t.Context(), "user", r1))
		require.NoError(t, f.service.AddReview(t.Context(), "user", r2))
		require.NoError(t, f.service.AddReview(t.Context(), "admin", r3))

		rs, err := f.service.ProductReviews(t.Context(), pen.ID)
		require.NoError(t, err)
		assert.Equal(t, []domain.Review{r1, r3}, rs)
	})

	t.Run("NoReviews", func(t *testing.T) {
		f := newFixture(t, nil)
		rs, err := f.service.ProductReviews(t.Context(), 42)
		require.NoError(t, err)
		assert.NotNil(t, rs)
		assert.Empty(t, rs)
	})

	t.Run("AsAnotherUser", func(t *testing.T) {
		f := newFixture(t, nil)
		pen := f.addProduct(t, "Pen", "1.5", "")

		err := f.service.AddReview(t.Context(), "user", domain.Review{
			ProductID: pen.ID, Username: "admin", Rating: 5,
		})
		assert.ErrorIs(t, err, domain.ErrForbidden)

		rs, err := f.service.ProductReviews(t.Context(), pen.ID)
		require.NoError(t, err)
		assert.Empty(t, rs)
	})

	t.Run("UnknownProduct", func(t *testing.T) {
		f := newFixture(t, nil)
		err := f.service.AddReview(t.Context(), "user", domain.Review{
			ProductID: 9, Username: "user", Rating: 3,
		})
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestCart(t *testing.T) {
	t.Run("EmptyByDefault", func(t *testing.T) {
		f := newFixture(t, nil)
		c, err := f.service.Cart(t.Context(), "user")
		require.NoError(t, err)
		assert.NotNil(t, c)
		assert.Empty(t, c)
	})

	t.Run("AddMergesQuantity", func(t *testing.T) {
		f := newFixture(t, nil)

		_, err := f.service.AddCartItem(t.Context(), "user", 1, 2)
		require.NoError(t, err)
		_, err = f.service.AddCartItem(t.Context(), "user", 2, 1)
		require.NoError(t, err)
		c, err := f.service.AddCartItem(t.Context(), "user", 1, 3)
		require.NoError(t, err)

		want := domain.Cart{{ProductID: 1, Quantity: 5}, {ProductID: 2, Quantity: 1}}
		assert.Equal(t, want, c)

		got, err := f.service.Cart(t.Context(), "user")
		require.NoError(t, err)
		assert.Equal(t, want, got)
	})

	t.Run("AddUnknownProductAccepted", func(t *testing.T) {
		f := newFixture(t, nil)
		c, err := f.service.AddCartItem(t.Context(), "user", 404, 1)
		require.NoError(t, err)
		assert.Len(t, c, 1)
	})

	t.Run("CartsArePerUser", func(t *testing.T) {
		f := newFixture(t, nil)
		_, err := f.service.AddCartItem(t.Context(), "user", 1, 1)
		require.NoError(t, err)

		c, err := f.service.Cart(t.Context(), "admin")
		require.NoError(t, err)
		assert.Empty(t, c)
	})

	t.Run("Remove", func(t *testing.T) {
		f := newFixture(t, nil)
		_, err := f.service.AddCartItem(t.Context(), "user", 1, 1)
		require.NoError(t, err)
		_, err = f.service.AddCartItem(t.Context(), "user", 2, 1)
		require.NoError(t, err)

		c, err := f.service.RemoveCartItem(t.Context(), "user", 1)
		require.NoError(t, err)
		assert.Equal(t, domain.Cart{{ProductID: 2, Quantity: 1}}, c)

		got, err := f.service.Cart(t.Context(), "user")
		require.NoError(t, err)
		assert.Equal(t, c, got)
	})

	t.Run("RemoveMissing", func(t *testing.T) {
		f := newFixture(t, nil)
		_, err := f.service.AddCartItem(t.Context(), "user", 1, 1)
		require.NoError(t, err)

		_, err = f.service.RemoveCartItem(t.Context(), "user", 2)
		assert.ErrorIs(t, err, domain.ErrNotFound)

		got, err := f.service.Cart(t.Context(), "user")
		require.NoError(t, err)
		assert.Len(t, got, 1)
	})

	t.Run("QuantityLimit", func(t *testing.T) {
		f := newFixture(t, nil)

		_, err := f.service.AddCartItem(t.Context(), "user", 1, math.MaxInt)
		assert.ErrorIs(t, err, domain.ErrValidation)

		_, err = f.service.AddCartItem(t.Context(), "user", 1, domain.MaxLineQuantity)
		require.NoError(t, err)

		_, err = f.service.AddCartItem(t.Context(), "user", 1, 1)
		assert.ErrorIs(t, err, domain.ErrValidation)

		c, err := f.service.Cart(t.Context(), "user")
		require.NoError(t, err)
		assert.Equal(t, domain.Cart{{ProductID: 1, Quantity: domain.MaxLineQuantity}}, c)
	})

	t.Run("ConcurrentAddsMerge", func(t *testing.T) {
		f := newFixture(t, nil)

		const n = 40
		var wg sync.WaitGroup
		wg.Add(n)
		for range n {
			go func() {
				defer wg.Done()
				_, err := f.service.AddCartItem(context.Background(), "user", 7, 1)
				assert.NoError(t, err)
			}()
		}
		wg.Wait()

		c, err := f.service.Cart(t.Context(), "user")
		require.NoError(t, err)
		assert.Equal(t, domain.Cart{{ProductID: 7, Quantity: n}}, c)
	})
}

func TestCheckout(t *testing.T) {
	t.Run("Empty", func(t *testing.T) {
		emitter := new(MockPurchaseEmitter)
		f := newFixture(t, emitter)

		_, err := f.service.Checkout(t.Context(), "user")
		assert.ErrorIs(t, err, domain.ErrEmptyCart)
		emitter.AssertNotCalled(t, "EmitPurchase", mock.Anything, mock.Anything)
	})

	t.Run("Success", func(t *testing.T) {
		emitter := new(MockPurchaseEmitter)
		f := newFixture(t, emitter)
		pen := f.addProduct(t, "Pen", "1.5", "")
		book := f.addProduct(t, "Book", "10", "")

		_, err := f.service.AddCartItem(t.Context(), "user", pen.ID, 2)
		require.NoError(t, err)
		_, err = f.service.AddCartItem(t.Context(), "user", book.ID, 1)
		require.NoError(t, err)

		wantRecords := []string{"1 x2 = 3", "2 x1 = 10"}
		emitter.On("EmitPurchase", mock.Anything, mock.MatchedBy(
			func(evt domain.PurchaseCompleted) bool {
				return evt.OrderID == "order-1" &&
					evt.Username == "user" &&
					evt.Total.Equal(price("13")) &&
					evt.CompletedAt.Equal(completedAt) &&
					assert.ObjectsAreEqual(wantRecords, records(evt.Records))
			},
		)).Return(nil).Once()

		receipt, err := f.service.Checkout(t.Context(), "user")
		require.NoError(t, err)
		assert.True(t, receipt.Total.Equal(price("13")), receipt.Total.String())
		assert.Equal(t, "order-1", receipt.OrderID)
		assert.NotEmpty(t, receipt.Message)
		assert.Equal(t, wantRecords, records(receipt.Records))

		c, err := f.service.Cart(t.Context(), "user")
		require.NoError(t, err)
		assert.Empty(t, c)

		history, err := f.service.PurchaseHistory(t.Context(), "user")
		require.NoError(t, err)
		assert.Equal(t, wantRecords, records(history))

		f.service.Close(t.Context())
		emitter.AssertExpectations(t)
	})

	t.Run("PriceAtCheckoutTime", func(t *testing.T) {
		f := newFixture(t, nil)
		pen := f.addProduct(t, "Pen", "1.5", "")

		_, err := f.service.AddCartItem(t.Context(), "user", pen.ID, 4)
		require.NoError(t, err)

		_, err = f.service.UpdateProduct(t.Context(), domain.RoleAdmin, pen.ID,
			domain.ProductDraft{Name: "Pen", Price: price("2.25")})
		require.NoError(t, err)

		receipt, err := f.service.Checkout(t.Context(), "user")
		require.NoError(t, err)
		assert.True(t, receipt.Total.Equal(price("9")), receipt.Total.String())
		require.Len(t, receipt.Records, 1)
		assert.True(t, receipt.Records[0].TotalPrice.Equal(price("9")))
	})

	t.Run("DeletedProduct", func(t *testing.T) {
		f := newFixture(t, nil)
		pen := f.addProduct(t, "Pen", "1.5", "")
		book := f.addProduct(t, "Book", "10", "")

		// seed the ledger so the untouched history is observable
		_, err := f.service.AddCartItem(t.Context(), "user", pen.ID, 1)
		require.NoError(t, err)
		_, err = f.service.Checkout(t.Context(), "user")
		require.NoError(t, err)
		historyBefore, err := f.service.PurchaseHistory(t.Context(), "user")
		require.NoError(t, err)

		_, err = f.service.AddCartItem(t.Context(), "user", pen.ID, 2)
		require.NoError(t, err)
		_, err = f.service.AddCartItem(t.Context(), "user", book.ID, 1)
		require.NoError(t, err)
		cartBefore, err := f.service.Cart(t.Context(), "user")
		require.NoError(t, err)

		_, err = f.service.DeleteProduct(t.Context(), domain.RoleAdmin, book.ID)
		require.NoError(t, err)

		_, err = f.service.Checkout(t.Context(), "user")
		require.ErrorIs(t, err, domain.ErrNotFound)
		assert.Contains(t, err.Error(), "product id=2")

		cartAfter, err := f.service.Cart(t.Context(), "user")
		require.NoError(t, err)
		assert.Equal(t, cartBefore, cartAfter)

		historyAfter, err := f.service.PurchaseHistory(t.Context(), "user")
		require.NoError(t, err)
		assert.Equal(t, records(historyBefore), records(historyAfter))
	})

	t.Run("EmitFailureKeepsCheckout", func(t *testing.T) {
		emitter := new(MockPurchaseEmitter)
		f := newFixture(t, emitter)
		pen := f.addProduct(t, "Pen", "1.5", "")

		emitter.On("EmitPurchase", mock.Anything, mock.Anything).
			Return(errors.New("broker is down")).Once()

		_, err := f.service.AddCartItem(t.Context(), "user", pen.ID, 1)
		require.NoError(t, err)

		receipt, err := f.service.Checkout(t.Context(), "user")
		require.NoError(t, err)
		assert.True(t, receipt.Total.Equal(price("1.5")))

		history, err := f.service.PurchaseHistory(t.Context(), "user")
		require.NoError(t, err)
		assert.Len(t, history, 1)

		f.service.Close(t.Context())
		emitter.AssertExpectations(t)
	})

	t.Run("SlowEmitterDoesNotDelayReceipt", func(t *testing.T) {
		emitter := newBlockingEmitter()
		f := newFixture(t, emitter)
		pen := f.addProduct(t, "Pen", "1.5", "")
		_, err := f.service.AddCartItem(t.Context(), "user", pen.ID, 2)
		require.NoError(t, err)

		ctx, cancel := context.WithCancel(t.Context())

		type result struct {
			receipt domain.Receipt
			err     error
		}
		resCh := make(chan result, 1)
		go func() {
			r, err := f.service.Checkout(ctx, "user")
			resCh <- result{r, err}
		}()

		select {
		case res := <-resCh:
			require.NoError(t, res.err)
			assert.Equal(t, "order-1", res.receipt.OrderID)
			assert.True(t, res.receipt.Total.Equal(price("3")))
		case <-time.After(time.Second):
			close(emitter.release)
			t.Fatal("checkout waited for the purchase event")
		}

		// the request is gone, the delivery is not
		cancel()
		close(emitter.release)
		assert.NoError(t, <-emitter.done)
	})

	t.Run("EmitTimeout", func(t *testing.T) {
		emitter := newBlockingEmitter()
		f := newFixture(t, emitter, service.WithEmitTimeout(10*time.Millisecond))
		pen := f.addProduct(t, "Pen", "1.5", "")
		_, err := f.service.AddCartItem(t.Context(), "user", pen.ID, 1)
		require.NoError(t, err)

		_, err = f.service.Checkout(t.Context(), "user")
		require.NoError(t, err)

		assert.ErrorIs(t, <-emitter.done, context.DeadlineExceeded)

		history, err := f.service.PurchaseHistory(t.Context(), "user")
		require.NoError(t, err)
		assert.Len(t, history, 1)
	})

	t.Run("CloseWaitsForEvents", func(t *testing.T) {
		emitter := new(MockPurchaseEmitter)
		f := newFixture(t, emitter)
		pen := f.addProduct(t, "Pen", "1.5", "")
		_, err := f.service.AddCartItem(t.Context(), "user", pen.ID, 1)
		require.NoError(t, err)

		emitter.On("EmitPurchase", mock.Anything, mock.Anything).
			After(20 * time.Millisecond).Return(nil).Once()

		_, err = f.service.Checkout(t.Context(), "user")
		require.NoError(t, err)

		f.service.Close(t.Context())
		emitter.AssertExpectations(t)
	})

	t.Run("CloseGivesUpOnDeadline", func(t *testing.T) {
		emitter := newBlockingEmitter()
		f := newFixture(t, emitter)
		pen := f.addProduct(t, "Pen", "1.5", "")
		_, err := f.service.AddCartItem(t.Context(), "user", pen.ID, 1)
		require.NoError(t, err)

		_, err = f.service.Checkout(t.Context(), "user")
		require.NoError(t, err)

		ctx, cancel := context.WithTimeout(t.Context(), 10*time.Millisecond)
		defer cancel()
		start := time.Now()
		f.service.Close(ctx)
		assert.Less(t, time.Since(start), time.Second)

		close(emitter.release)
		assert.NoError(t, <-emitter.done)
	})

	t.Run("ConcurrentCheckoutsDrainOnce", func(t *testing.T) {
		f := newFixture(t, nil)
		pen := f.addProduct(t, "Pen", "1.5", "")
		_, err := f.service.AddCartItem(t.Context(), "user", pen.ID, 3)
		require.NoError(t, err)

		const n = 10
		var (
			wg        sync.WaitGroup
			mu        sync.Mutex
			succeeded int
		)
		wg.Add(n)
		for range n {
			go func() {
				defer wg.Done()
				_, err := f.service.Checkout(context.Background(), "user")
				if err == nil {
					mu.Lock()
					succeeded++
					mu.Unlock()
					return
				}
				assert.ErrorIs(t, err, domain.ErrEmptyCart)
			}()
		}
		wg.Wait()

		assert.Equal(t, 1, succeeded)
		history, err := f.service.PurchaseHistory(t.Context(), "user")
		require.NoError(t, err)
		assert.Len(t, history, 1)
	})
}

func TestWishlist(t *testing.T) {
	t.Run("AddIsIdempotent", func(t *testing.T) {
		f := newFixture(t, nil)
		pen := f.addProduct(t, "Pen", "1.5", "")

		require.NoError(t, f.service.AddToWishlist(t.Context(), "user", pen.ID))
		require.NoError(t, f.service.AddToWishlist(t.Context(), "user", pen.ID))

		ps, err := f.service.Wishlist(t.Context(), "user")
		require.NoError(t, err)
		assert.Equal(t, []domain.Product{pen}, ps)
	})

	t.Run("JoinsCatalogOrder", func(t *testing.T) {
		f := newFixture(t, nil)
		pen := f.addProduct(t, "Pen", "1.5", "")
		f.addProduct(t, "Book", "10", "")
		pad := f.addProduct(t, "Pad", "3", "")

		require.NoError(t, f.service.AddToWishlist(t.Context(), "user", pad.ID))
		require.NoError(t, f.service.AddToWishlist(t.Context(), "user", 99))
		require.NoError(t, f.service.AddToWishlist(t.Context(), "user", pen.ID))

		ps, err := f.service.Wishlist(t.Context(), "user")
		require.NoError(t, err)
		assert.Equal(t, []int{pen.ID, pad.ID}, productIDs(ps))
	})

	t.Run("Remove", func(t *testing.T) {
		f := newFixture(t, nil)
		pen := f.addProduct(t, "Pen", "1.5", "")
		require.NoError(t, f.service.AddToWishlist(t.Context(), "user", pen.ID))

		require.NoError(t, f.service.RemoveFromWishlist(t.Context(), "user", pen.ID))

		ps, err := f.service.Wishlist(t.Context(), "user")
		require.NoError(t, err)
		assert.Empty(t, ps)
	})

	t.Run("RemoveMissing", func(t *testing.T) {
		f := newFixture(t, nil)
		err := f.service.RemoveFromWishlist(t.Context(), "user", 1)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestCanceledContext(t *testing.T) {
	f := newFixture(t, nil)
	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	_, err := f.service.AddCartItem(ctx, "user", 1, 1)
	assert.ErrorIs(t, err, context.Canceled)

	c, err := f.service.Cart(t.Context(), "user")
	require.NoError(t, err)
	assert.Empty(t, c)
}
