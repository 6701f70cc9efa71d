package orders

import (
	"context"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

var ErrOrderLineNotFound = errors.New("order line not found")

// OrderLine is what the claim engine needs to know about a purchased item.
type OrderLine struct {
	OrderID     uint64
	OrderItemID uint64
	Quantity    int
	UnitPrice   decimal.Decimal
	Status      string
}

type Client interface {
	GetOrderLine(ctx context.Context, orderID, orderItemID uint64) (OrderLine, error)
}
