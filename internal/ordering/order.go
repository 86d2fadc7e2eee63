// Package ordering holds the order domain and the placement service that
// orchestrates validation, stock reservation, discount selection, and
// persistence of new orders.
package ordering

import "time"

// Status is the lifecycle state of an order. Placement only ever produces
// StatusPending; transitions after creation are outside this service.
type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

// Line is one persisted order line. UnitPrice is the product's price at the
// moment the order was placed; later catalog price changes never touch it.
type Line struct {
	ProductID string
	Quantity  int
	UnitPrice float64
}

// Order is a placed order. TotalAmount is the pre-adjustment sum of
// UnitPrice x Quantity, Discount the applied percentage (0-100), and
// FinalAmount the total after the single winning adjustment. All three are
// rounded to 2 decimal places when the order is built.
type Order struct {
	ID          string
	CustomerID  string
	Lines       []Line
	TotalAmount float64
	Discount    float64
	FinalAmount float64
	Status      Status
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
