package catalog

import "context"

// Store is the persistence port for products. Implementations must be safe
// for concurrent use and must never let a decrement produce a negative
// stock: AdjustStock with a delta that would cross zero fails with
// *InsufficientStockError and leaves the record untouched.
type Store interface {
	CreateProduct(ctx context.Context, p Product) error
	GetProduct(ctx context.Context, id string) (Product, error)
	ListProducts(ctx context.Context) ([]Product, error)
	AdjustStock(ctx context.Context, id string, delta int) (Product, error)
}
