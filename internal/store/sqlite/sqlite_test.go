package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/nroldan/storefront/internal/catalog"
	"github.com/nroldan/storefront/internal/ordering"
)

func openStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "storefront.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func sampleProduct(id string) catalog.Product {
	now := time.Date(2024, time.June, 15, 10, 0, 0, 0, time.UTC)
	return catalog.Product{
		ID:          id,
		Name:        "Laptop",
		Description: "13 inch",
		Price:       999.99,
		Stock:       5,
		Category:    "Electronics",
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func TestProductRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)

	want := sampleProduct("p1")
	require.NoError(t, s.CreateProduct(ctx, want))

	got, err := s.GetProduct(ctx, "p1")
	require.NoError(t, err)
	require.Equal(t, want, got)

	_, err = s.GetProduct(ctx, "missing")
	require.ErrorIs(t, err, catalog.ErrProductNotFound)
}

func TestAdjustStock(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)
	require.NoError(t, s.CreateProduct(ctx, sampleProduct("p1")))

	p, err := s.AdjustStock(ctx, "p1", -3)
	require.NoError(t, err)
	require.Equal(t, 2, p.Stock)

	_, err = s.AdjustStock(ctx, "p1", -3)
	var stockErr *catalog.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	require.Equal(t, "Laptop", stockErr.Name)
	require.Equal(t, 2, stockErr.Available)
	require.Equal(t, 3, stockErr.Requested)

	// The failed decrement must not be visible.
	got, err := s.GetProduct(ctx, "p1")
	require.NoError(t, err)
	require.Equal(t, 2, got.Stock)

	p, err = s.AdjustStock(ctx, "p1", 10)
	require.NoError(t, err)
	require.Equal(t, 12, p.Stock)

	_, err = s.AdjustStock(ctx, "missing", 1)
	require.ErrorIs(t, err, catalog.ErrProductNotFound)
}

func TestOrderRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)

	placed := time.Date(2024, time.June, 15, 10, 0, 0, 0, time.UTC)
	want := ordering.Order{
		ID:         "o1",
		CustomerID: "c1",
		Lines: []ordering.Line{
			{ProductID: "p1", Quantity: 2, UnitPrice: 10.5},
			{ProductID: "p2", Quantity: 1, UnitPrice: 99.99},
		},
		TotalAmount: 120.99,
		Discount:    0,
		FinalAmount: 120.99,
		Status:      ordering.StatusPending,
		CreatedAt:   placed,
		UpdatedAt:   placed,
	}
	require.NoError(t, s.AppendOrder(ctx, want))

	got, err := s.GetOrder(ctx, "o1")
	require.NoError(t, err)
	require.Equal(t, want, got)

	_, err = s.GetOrder(ctx, "missing")
	require.ErrorIs(t, err, ordering.ErrOrderNotFound)
}

func TestListOrdersPreservesInsertionOrder(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)

	placed := time.Date(2024, time.June, 15, 10, 0, 0, 0, time.UTC)
	ids := []string{"o1", "o2", "o3"}
	for _, id := range ids {
		require.NoError(t, s.AppendOrder(ctx, ordering.Order{
			ID:         id,
			CustomerID: "c1",
			Status:     ordering.StatusPending,
			CreatedAt:  placed,
			UpdatedAt:  placed,
		}))
	}

	orders, err := s.ListOrders(ctx)
	require.NoError(t, err)
	require.Len(t, orders, 3)
	for i, o := range orders {
		require.Equal(t, ids[i], o.ID)
	}
}

func TestListProductsPreservesInsertionOrder(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)

	for _, id := range []string{"p1", "p2", "p3"} {
		p := sampleProduct(id)
		require.NoError(t, s.CreateProduct(ctx, p))
	}

	ps, err := s.ListProducts(ctx)
	require.NoError(t, err)
	require.Len(t, ps, 3)
	require.Equal(t, "p1", ps[0].ID)
	require.Equal(t, "p3", ps[2].ID)
}
