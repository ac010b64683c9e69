package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type PurchaseRecord struct {
	ProductID  int
	Quantity   int
	TotalPrice decimal.Decimal
}

// A PurchaseCompleted is emitted once per successful checkout.
type PurchaseCompleted struct {
	OrderID     string
	Username    string
	Records     []PurchaseRecord
	Total       decimal.Decimal
	CompletedAt time.Time
}
