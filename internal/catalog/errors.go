package catalog

import (
	"errors"
	"fmt"
)

// ErrProductNotFound is returned when a product id has no matching record.
var ErrProductNotFound = errors.New("product not found")

// InsufficientStockError is returned when a sell or an order placement would
// push a product's stock below zero. It carries the counts so callers can
// report exactly what was available.
type InsufficientStockError struct {
	Name      string
	Available int
	Requested int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %q: available %d, requested %d",
		e.Name, e.Available, e.Requested)
}
