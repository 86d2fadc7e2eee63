// Package memory provides a mutex-guarded in-memory implementation of the
// catalog and ordering stores. It backs tests and local development and is
// the reference for the stock floor every store must uphold.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/nroldan/storefront/internal/catalog"
	"github.com/nroldan/storefront/internal/ordering"
)

// Store keeps products and orders in memory. Listings preserve insertion
// order. All methods return copies so callers never alias internal state.
type Store struct {
	mu         sync.RWMutex
	products   map[string]*catalog.Product
	productIDs []string
	orders     map[string]ordering.Order
	orderIDs   []string
}

var (
	_ catalog.Store  = (*Store)(nil)
	_ ordering.Store = (*Store)(nil)
)

func New() *Store {
	return &Store{
		products: make(map[string]*catalog.Product),
		orders:   make(map[string]ordering.Order),
	}
}

func (s *Store) CreateProduct(ctx context.Context, p catalog.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.products[p.ID]; !exists {
		s.productIDs = append(s.productIDs, p.ID)
	}
	cp := p
	s.products[p.ID] = &cp
	return nil
}

func (s *Store) GetProduct(ctx context.Context, id string) (catalog.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.products[id]
	if !ok {
		return catalog.Product{}, catalog.ErrProductNotFound
	}
	return *p, nil
}

func (s *Store) ListProducts(ctx context.Context) ([]catalog.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]catalog.Product, 0, len(s.productIDs))
	for _, id := range s.productIDs {
		out = append(out, *s.products[id])
	}
	return out, nil
}

func (s *Store) AdjustStock(ctx context.Context, id string, delta int) (catalog.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.products[id]
	if !ok {
		return catalog.Product{}, catalog.ErrProductNotFound
	}

	next := p.Stock + delta
	if next < 0 {
		return catalog.Product{}, &catalog.InsufficientStockError{
			Name:      p.Name,
			Available: p.Stock,
			Requested: -delta,
		}
	}

	p.Stock = next
	p.UpdatedAt = time.Now().UTC()
	return *p, nil
}

func (s *Store) AppendOrder(ctx context.Context, o ordering.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.orders[o.ID]; !exists {
		s.orderIDs = append(s.orderIDs, o.ID)
	}
	o.Lines = append([]ordering.Line(nil), o.Lines...)
	s.orders[o.ID] = o
	return nil
}

func (s *Store) GetOrder(ctx context.Context, id string) (ordering.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	o, ok := s.orders[id]
	if !ok {
		return ordering.Order{}, ordering.ErrOrderNotFound
	}
	o.Lines = append([]ordering.Line(nil), o.Lines...)
	return o, nil
}

func (s *Store) ListOrders(ctx context.Context) ([]ordering.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]ordering.Order, 0, len(s.orderIDs))
	for _, id := range s.orderIDs {
		o := s.orders[id]
		o.Lines = append([]ordering.Line(nil), o.Lines...)
		out = append(out, o)
	}
	return out, nil
}
