package ordering

import (
	"context"
	"errors"
)

// ErrOrderNotFound is returned when an order id has no matching record.
var ErrOrderNotFound = errors.New("order not found")

// Store is the persistence port for orders. Orders are append-only: once
// written they are never mutated. ListOrders preserves insertion order.
type Store interface {
	AppendOrder(ctx context.Context, o Order) error
	GetOrder(ctx context.Context, id string) (Order, error)
	ListOrders(ctx context.Context) ([]Order, error)
}
