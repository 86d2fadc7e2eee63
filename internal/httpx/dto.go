package httpx

import (
	"time"

	"github.com/nroldan/storefront/internal/catalog"
	"github.com/nroldan/storefront/internal/ordering"
)

type createProductRequest struct {
	Name        string  `json:"name" validate:"required,max=50"`
	Description string  `json:"description" validate:"required,max=50"`
	Price       float64 `json:"price" validate:"required,gt=0"`
	Stock       *int    `json:"stock" validate:"required,min=0"`
	Category    string  `json:"category" validate:"omitempty,max=50"`
}

type stockRequest struct {
	Quantity int `json:"quantity" validate:"required,gt=0"`
}

type createOrderRequest struct {
	CustomerID string             `json:"customerId" validate:"required"`
	Location   string             `json:"location"`
	OrderDate  string             `json:"orderDate"` // RFC 3339, optional
	Products   []orderItemRequest `json:"products" validate:"required,min=1,dive"`
}

type orderItemRequest struct {
	ProductID string `json:"productId" validate:"required"`
	Quantity  int    `json:"quantity" validate:"required,gt=0"`
}

type productResponse struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Stock       int     `json:"stock"`
	Category    string  `json:"category,omitempty"`
	CreatedAt   string  `json:"createdAt"`
	UpdatedAt   string  `json:"updatedAt"`
}

type orderLineResponse struct {
	ProductID    string  `json:"productId"`
	Quantity     int     `json:"quantity"`
	PriceAtOrder float64 `json:"priceAtOrder"`
}

type orderResponse struct {
	ID          string              `json:"id"`
	CustomerID  string              `json:"customerId"`
	Products    []orderLineResponse `json:"products"`
	TotalAmount float64             `json:"totalAmount"`
	Discount    float64             `json:"discount"`
	FinalAmount float64             `json:"finalAmount"`
	Status      string              `json:"status"`
	CreatedAt   string              `json:"createdAt"`
	UpdatedAt   string              `json:"updatedAt"`
}

type errorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

func mapProduct(p catalog.Product) productResponse {
	return productResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Stock:       p.Stock,
		Category:    p.Category,
		CreatedAt:   p.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   p.UpdatedAt.Format(time.RFC3339),
	}
}

func mapProducts(ps []catalog.Product) []productResponse {
	out := make([]productResponse, len(ps))
	for i, p := range ps {
		out[i] = mapProduct(p)
	}
	return out
}

func mapOrder(o ordering.Order) orderResponse {
	lines := make([]orderLineResponse, len(o.Lines))
	for i, l := range o.Lines {
		lines[i] = orderLineResponse{
			ProductID:    l.ProductID,
			Quantity:     l.Quantity,
			PriceAtOrder: l.UnitPrice,
		}
	}
	return orderResponse{
		ID:          o.ID,
		CustomerID:  o.CustomerID,
		Products:    lines,
		TotalAmount: o.TotalAmount,
		Discount:    o.Discount,
		FinalAmount: o.FinalAmount,
		Status:      string(o.Status),
		CreatedAt:   o.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   o.UpdatedAt.Format(time.RFC3339),
	}
}

func mapOrders(os []ordering.Order) []orderResponse {
	out := make([]orderResponse, len(os))
	for i, o := range os {
		out[i] = mapOrder(o)
	}
	return out
}
