package catalog

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// NewProduct is the input for creating a catalog entry. Field constraints
// (lengths, positive price, non-negative stock) are enforced at the HTTP
// boundary before the service runs.
type NewProduct struct {
	Name        string
	Description string
	Price       float64
	Stock       int
	Category    string
}

// Service exposes the catalog operations over an injected Store.
type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

// Create persists a new product with a generated id and creation timestamps.
func (s *Service) Create(ctx context.Context, np NewProduct) (Product, error) {
	now := time.Now().UTC()
	p := Product{
		ID:          uuid.NewString(),
		Name:        np.Name,
		Description: np.Description,
		Price:       np.Price,
		Stock:       np.Stock,
		Category:    np.Category,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.store.CreateProduct(ctx, p); err != nil {
		return Product{}, fmt.Errorf("create product: %w", err)
	}
	return p, nil
}

// Restock increases a product's stock by quantity.
func (s *Service) Restock(ctx context.Context, id string, quantity int) (Product, error) {
	return s.store.AdjustStock(ctx, id, quantity)
}

// Sell decreases a product's stock by quantity. Fails with
// *InsufficientStockError when fewer units are available.
func (s *Service) Sell(ctx context.Context, id string, quantity int) (Product, error) {
	return s.store.AdjustStock(ctx, id, -quantity)
}

// Get returns one product by id.
func (s *Service) Get(ctx context.Context, id string) (Product, error) {
	return s.store.GetProduct(ctx, id)
}

// List returns every product in insertion order.
func (s *Service) List(ctx context.Context) ([]Product, error) {
	return s.store.ListProducts(ctx)
}
