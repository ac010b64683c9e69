package service

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/niksmo/storefront/internal/core/port"
)

var (
	_ port.Catalog   = (*Service)(nil)
	_ port.Reviews   = (*Service)(nil)
	_ port.Cart      = (*Service)(nil)
	_ port.Wishlist  = (*Service)(nil)
	_ port.Purchases = (*Service)(nil)
)

type Service struct {
	products  port.ProductsStorage
	reviews   port.ReviewsStorage
	carts     port.CartsStorage
	wishlists port.WishlistsStorage
	ledger    port.PurchaseLedger
	emitter   port.PurchaseEmitter

	cartLocks     *userLocks
	wishlistLocks *userLocks

	now     func() time.Time
	orderID func() string

	emitTimeout time.Duration
	emits       sync.WaitGroup
}

const defaultEmitTimeout = 10 * time.Second

type Opt func(*Service)

// WithClock overrides the time source of emitted purchase events.
func WithClock(now func() time.Time) Opt {
	return func(s *Service) { s.now = now }
}

// WithOrderIDs overrides the generator of checkout order ids.
func WithOrderIDs(gen func() string) Opt {
	return func(s *Service) { s.orderID = gen }
}

// WithEmitTimeout bounds a single purchase event delivery.
func WithEmitTimeout(d time.Duration) Opt {
	return func(s *Service) { s.emitTimeout = d }
}

// New returns the core service. A nil emitter disables purchase events.
func New(
	products port.ProductsStorage,
	reviews port.ReviewsStorage,
	carts port.CartsStorage,
	wishlists port.WishlistsStorage,
	ledger port.PurchaseLedger,
	emitter port.PurchaseEmitter,
	opts ...Opt,
) *Service {
	if emitter == nil {
		emitter = noopEmitter{}
	}
	s := &Service{
		products:      products,
		reviews:       reviews,
		carts:         carts,
		wishlists:     wishlists,
		ledger:        ledger,
		emitter:       emitter,
		cartLocks:     newUserLocks(),
		wishlistLocks: newUserLocks(),
		now:           time.Now,
		orderID:       newOrderID,
		emitTimeout:   defaultEmitTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Close waits for in-flight purchase events until ctx is done.
// No checkout may start once Close is called.
func (s *Service) Close(ctx context.Context) {
	const op = "Service.Close"
	log := logger(op)

	done := make(chan struct{})
	go func() {
		s.emits.Wait()
		close(done)
	}()

	select {
	case <-done:
		log.Info("purchase events are flushed")
	case <-ctx.Done():
		log.Warn("purchase events are abandoned", "err", ctx.Err())
	}
}

type noopEmitter struct{}

func (noopEmitter) EmitPurchase(context.Context, domain.PurchaseCompleted) error {
	return nil
}

// userLocks hands out one mutex per username.
// Mutexes are kept for the process lifetime.
type userLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newUserLocks() *userLocks {
	return &userLocks{locks: make(map[string]*sync.Mutex)}
}

// lock blocks until username's mutex is held and returns its unlock func.
func (l *userLocks) lock(username string) func() {
	l.mu.Lock()
	m, ok := l.locks[username]
	if !ok {
		m = new(sync.Mutex)
		l.locks[username] = m
	}
	l.mu.Unlock()

	m.Lock()
	return m.Unlock
}

func logger(op string) *slog.Logger {
	return slog.With("op", op)
}
