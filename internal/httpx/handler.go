// Package httpx exposes the catalog and ordering services over HTTP. It is
// the validation gate: malformed requests are rejected here, before any
// business logic runs.
package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/nroldan/storefront/internal/catalog"
	"github.com/nroldan/storefront/internal/ordering"
)

// maxBodyBytes caps request bodies; every payload here is a few hundred
// bytes at most.
const maxBodyBytes = 5 * 1024

// Handler handles incoming HTTP requests for products and orders.
type Handler struct {
	catalog  *catalog.Service
	ordering *ordering.Service
	validate *validator.Validate
}

func NewHandler(c *catalog.Service, o *ordering.Service) *Handler {
	return &Handler{
		catalog:  c,
		ordering: o,
		validate: validator.New(),
	}
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req createProductRequest
	if !h.decode(w, r, &req) {
		return
	}

	p, err := h.catalog.Create(r.Context(), catalog.NewProduct{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Stock:       *req.Stock,
		Category:    req.Category,
	})
	if err != nil {
		slog.ErrorContext(r.Context(), "product creation failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to create product", "")
		return
	}

	writeJSON(w, http.StatusCreated, mapProduct(p))
}

func (h *Handler) GetProduct(w http.ResponseWriter, r *http.Request) {
	p, err := h.catalog.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, catalog.ErrProductNotFound) {
			writeError(w, http.StatusNotFound, "Product not found", "")
			return
		}
		slog.ErrorContext(r.Context(), "product lookup failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to retrieve product", "")
		return
	}

	writeJSON(w, http.StatusOK, mapProduct(p))
}

func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	ps, err := h.catalog.List(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "product listing failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to retrieve products", "")
		return
	}

	writeJSON(w, http.StatusOK, mapProducts(ps))
}

func (h *Handler) RestockProduct(w http.ResponseWriter, r *http.Request) {
	h.adjustStock(w, r, h.catalog.Restock)
}

func (h *Handler) SellProduct(w http.ResponseWriter, r *http.Request) {
	h.adjustStock(w, r, h.catalog.Sell)
}

func (h *Handler) adjustStock(w http.ResponseWriter, r *http.Request, op func(context.Context, string, int) (catalog.Product, error)) {
	id := chi.URLParam(r, "id")

	var req stockRequest
	if !h.decode(w, r, &req) {
		return
	}

	p, err := op(r.Context(), id, req.Quantity)
	if err != nil {
		var stockErr *catalog.InsufficientStockError
		switch {
		case errors.Is(err, catalog.ErrProductNotFound):
			writeError(w, http.StatusNotFound, "Product not found", "")
		case errors.As(err, &stockErr):
			writeError(w, http.StatusBadRequest, stockErr.Error(), "")
		default:
			slog.ErrorContext(r.Context(), "stock update failed", "product_id", id, "error", err)
			writeError(w, http.StatusInternalServerError, "Failed to update stock", "")
		}
		return
	}

	writeJSON(w, http.StatusOK, mapProduct(p))
}

func (h *Handler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var req createOrderRequest
	if !h.decode(w, r, &req) {
		return
	}

	var orderDate time.Time
	if req.OrderDate != "" {
		parsed, err := time.Parse(time.RFC3339, req.OrderDate)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Validation failed", "orderDate must be an RFC 3339 timestamp")
			return
		}
		orderDate = parsed
	}

	items := make([]ordering.LineItem, 0, len(req.Products))
	for _, it := range req.Products {
		items = append(items, ordering.LineItem{ProductID: it.ProductID, Quantity: it.Quantity})
	}

	order, err := h.ordering.PlaceOrder(r.Context(), ordering.PlaceOrderInput{
		CustomerID: req.CustomerID,
		Location:   req.Location,
		OrderDate:  orderDate,
		Items:      items,
	})
	if err != nil {
		var stockErr *catalog.InsufficientStockError
		switch {
		case errors.Is(err, catalog.ErrProductNotFound), errors.As(err, &stockErr):
			writeError(w, http.StatusBadRequest, "Order creation failed", err.Error())
		default:
			slog.ErrorContext(r.Context(), "order placement failed", "customer_id", req.CustomerID, "error", err)
			writeError(w, http.StatusInternalServerError, "Server error", "")
		}
		return
	}

	slog.InfoContext(r.Context(), "order placed",
		"order_id", order.ID,
		"customer_id", order.CustomerID,
		"final_amount", order.FinalAmount,
	)
	writeJSON(w, http.StatusCreated, mapOrder(order))
}

func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request) {
	o, err := h.ordering.GetOrder(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, ordering.ErrOrderNotFound) {
			writeError(w, http.StatusNotFound, "Order not found", "")
			return
		}
		slog.ErrorContext(r.Context(), "order lookup failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to retrieve order", "")
		return
	}

	writeJSON(w, http.StatusOK, mapOrder(o))
}

func (h *Handler) ListOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.ordering.ListOrders(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "order listing failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to retrieve orders", "")
		return
	}

	writeJSON(w, http.StatusOK, mapOrders(orders))
}

// decode reads, decodes, and validates a JSON request body. A false return
// means the error response has already been written.
func (h *Handler) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON payload", err.Error())
		return false
	}
	if err := h.validate.Struct(dst); err != nil {
		writeError(w, http.StatusBadRequest, "Validation failed", validationDetails(err))
		return false
	}
	return true
}

func validationDetails(err error) string {
	var vErrs validator.ValidationErrors
	if !errors.As(err, &vErrs) {
		return err.Error()
	}
	details := make([]string, 0, len(vErrs))
	for _, fieldErr := range vErrs {
		details = append(details, fmt.Sprintf("%s: %s", fieldErr.Field(), fieldErr.Tag()))
	}
	return strings.Join(details, ", ")
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg, details string) {
	writeJSON(w, status, errorResponse{Error: msg, Details: details})
}
