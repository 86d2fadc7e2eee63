// Package catalog holds the product domain: the Product record, the
// persistence port for it, and the service exposing creation and the two
// stock mutations (restock adds units, sell removes them).
package catalog

import "time"

// Product is a sellable catalog entry. Stock never goes below zero; the
// store enforces the floor on every decrement.
type Product struct {
	ID          string
	Name        string
	Description string
	Price       float64
	Stock       int
	Category    string // optional, empty when uncategorised
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
