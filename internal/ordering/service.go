package ordering

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/nroldan/storefront/internal/catalog"
	"github.com/nroldan/storefront/internal/pkg/cache"
	"github.com/nroldan/storefront/internal/pricing"
)

// Orders never change after placement, so cached entries cannot go stale;
// the TTL only bounds memory.
const orderCacheTTL = 5 * time.Minute

// LineItem is one (product, quantity) pair of a placement request.
type LineItem struct {
	ProductID string
	Quantity  int
}

// PlaceOrderInput carries a placement request. Location and OrderDate are
// optional: an empty location means no regional adjustment and a zero
// OrderDate defaults to the current time.
type PlaceOrderInput struct {
	CustomerID string
	Location   string
	OrderDate  time.Time
	Items      []LineItem
}

// Service orchestrates order placement: line-item resolution, stock checks,
// discount selection, stock decrement, and order persistence.
type Service struct {
	products catalog.Store
	orders   Store
	cache    cache.Cache // nil disables order read caching

	// mu serialises the check-then-decrement sequence across placements so
	// the stock floor holds under concurrent requests.
	mu sync.Mutex
}

func NewService(products catalog.Store, orders Store, c cache.Cache) *Service {
	return &Service{products: products, orders: orders, cache: c}
}

// PlaceOrder validates and prices the requested lines, reserves stock, and
// persists the resulting pending order.
//
// Every line is resolved and stock-checked before any stock is decremented,
// so a failing line aborts the whole order with nothing mutated. If a later
// step fails after stock was already decremented, the decrements are rolled
// back before the error is returned.
func (s *Service) PlaceOrder(ctx context.Context, in PlaceOrderInput) (Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var (
		lines         []Line
		categories    []string
		totalQuantity int
		totalAmount   float64
	)

	seen := make(map[string]bool)
	for _, item := range in.Items {
		p, err := s.products.GetProduct(ctx, item.ProductID)
		if err != nil {
			return Order{}, fmt.Errorf("resolve product %s: %w", item.ProductID, err)
		}

		if p.Stock < item.Quantity {
			return Order{}, &catalog.InsufficientStockError{
				Name:      p.Name,
				Available: p.Stock,
				Requested: item.Quantity,
			}
		}

		totalAmount += p.Price * float64(item.Quantity)
		totalQuantity += item.Quantity

		// Freeze the unit price at the moment of order.
		lines = append(lines, Line{
			ProductID: p.ID,
			Quantity:  item.Quantity,
			UnitPrice: p.Price,
		})

		if p.Category != "" && !seen[p.Category] {
			seen[p.Category] = true
			categories = append(categories, p.Category)
		}
	}

	orderDate := in.OrderDate
	if orderDate.IsZero() {
		orderDate = time.Now().UTC()
	}

	adj := pricing.SelectAdjustment(
		pricing.VolumeDiscount(totalQuantity),
		pricing.SeasonalDiscount(orderDate, categories),
		pricing.LocationMultiplier(in.Location),
	)

	order := Order{
		ID:          uuid.NewString(),
		CustomerID:  in.CustomerID,
		Lines:       lines,
		TotalAmount: round2(totalAmount),
		Discount:    round2(adj.DiscountFraction() * 100),
		FinalAmount: round2(adj.Apply(totalAmount)),
		Status:      StatusPending,
		CreatedAt:   orderDate,
		UpdatedAt:   orderDate,
	}

	// All lines validated; commit the decrements. A failure here (or while
	// persisting the order) restores whatever was already taken, so stock is
	// never lost to an order that does not exist.
	decremented := make([]LineItem, 0, len(in.Items))
	for _, item := range in.Items {
		if _, err := s.products.AdjustStock(ctx, item.ProductID, -item.Quantity); err != nil {
			s.compensate(ctx, decremented)
			return Order{}, fmt.Errorf("decrement stock for %s: %w", item.ProductID, err)
		}
		decremented = append(decremented, item)
	}

	if err := s.orders.AppendOrder(ctx, order); err != nil {
		s.compensate(ctx, decremented)
		return Order{}, fmt.Errorf("persist order: %w", err)
	}

	s.cacheOrder(ctx, order)
	return order, nil
}

// compensate restores stock for lines that were already decremented when a
// later step failed, in reverse order, the same way a saga step undoes its
// work on rollback.
func (s *Service) compensate(ctx context.Context, items []LineItem) {
	for i := len(items) - 1; i >= 0; i-- {
		if _, err := s.products.AdjustStock(ctx, items[i].ProductID, items[i].Quantity); err != nil {
			slog.ErrorContext(ctx, "CRITICAL: failed to restore stock during rollback",
				"product_id", items[i].ProductID,
				"quantity", items[i].Quantity,
				"error", err,
			)
		}
	}
}

// GetOrder returns one order by id, consulting the cache first when one is
// configured.
func (s *Service) GetOrder(ctx context.Context, id string) (Order, error) {
	if s.cache != nil {
		raw, err := s.cache.Get(ctx, s.cache.GenerateKey("order", id))
		if err == nil && raw != "" {
			var o Order
			if err := json.Unmarshal([]byte(raw), &o); err == nil {
				return o, nil
			}
		}
	}

	o, err := s.orders.GetOrder(ctx, id)
	if err != nil {
		return Order{}, err
	}
	s.cacheOrder(ctx, o)
	return o, nil
}

// ListOrders returns every order in insertion order.
func (s *Service) ListOrders(ctx context.Context) ([]Order, error) {
	return s.orders.ListOrders(ctx)
}

// cacheOrder stores the order best-effort; a cache failure never fails the
// request.
func (s *Service) cacheOrder(ctx context.Context, o Order) {
	if s.cache == nil {
		return
	}
	raw, err := json.Marshal(o)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, s.cache.GenerateKey("order", o.ID), raw, orderCacheTTL); err != nil {
		slog.WarnContext(ctx, "failed to cache order", "order_id", o.ID, "error", err)
	}
}

// round2 rounds to 2 decimal places, the precision amounts are persisted at.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
