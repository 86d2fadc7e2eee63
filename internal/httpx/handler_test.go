package httpx

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nroldan/storefront/internal/catalog"
	"github.com/nroldan/storefront/internal/ordering"
	"github.com/nroldan/storefront/internal/store/memory"
)

func newServer(t *testing.T) *httptest.Server {
	t.Helper()
	store := memory.New()
	h := NewHandler(
		catalog.NewService(store),
		ordering.NewService(store, store, nil),
	)
	srv := httptest.NewServer(NewRouter(h))
	t.Cleanup(srv.Close)
	return srv
}

func doJSON(t *testing.T, method, url string, body any, out any) *http.Response {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req, err := http.NewRequest(method, url, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	res, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = res.Body.Close() })

	if out != nil {
		require.NoError(t, json.NewDecoder(res.Body).Decode(out))
	}
	return res
}

func createProduct(t *testing.T, srv *httptest.Server, name string, price float64, stock int, category string) productResponse {
	t.Helper()

	var p productResponse
	res := doJSON(t, http.MethodPost, srv.URL+"/api/products", map[string]any{
		"name":        name,
		"description": name + " description",
		"price":       price,
		"stock":       stock,
		"category":    category,
	}, &p)
	require.Equal(t, http.StatusCreated, res.StatusCode)
	return p
}

func TestHealth(t *testing.T) {
	srv := newServer(t)

	var body map[string]string
	res := doJSON(t, http.MethodGet, srv.URL+"/health", nil, &body)
	require.Equal(t, http.StatusOK, res.StatusCode)
	require.Equal(t, "ok", body["status"])
}

func TestUnknownRouteReturnsJSON404(t *testing.T) {
	srv := newServer(t)

	var body errorResponse
	res := doJSON(t, http.MethodGet, srv.URL+"/nope", nil, &body)
	require.Equal(t, http.StatusNotFound, res.StatusCode)
	require.Equal(t, "Route not found", body.Error)
}

func TestCreateProductValidation(t *testing.T) {
	srv := newServer(t)

	tests := []struct {
		name string
		body map[string]any
	}{
		{"missing name", map[string]any{"description": "d", "price": 1.0, "stock": 1}},
		{"name too long", map[string]any{"name": strings.Repeat("x", 51), "description": "d", "price": 1.0, "stock": 1}},
		{"missing price", map[string]any{"name": "n", "description": "d", "stock": 1}},
		{"negative price", map[string]any{"name": "n", "description": "d", "price": -1.0, "stock": 1}},
		{"missing stock", map[string]any{"name": "n", "description": "d", "price": 1.0}},
		{"negative stock", map[string]any{"name": "n", "description": "d", "price": 1.0, "stock": -1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var body errorResponse
			res := doJSON(t, http.MethodPost, srv.URL+"/api/products", tt.body, &body)
			require.Equal(t, http.StatusBadRequest, res.StatusCode)
			require.NotEmpty(t, body.Error)
		})
	}
}

func TestCreateProductAllowsZeroStock(t *testing.T) {
	srv := newServer(t)

	p := createProduct(t, srv, "Widget", 9.99, 0, "")
	require.Equal(t, 0, p.Stock)
	require.NotEmpty(t, p.ID)
}

func TestProductLifecycle(t *testing.T) {
	srv := newServer(t)
	p := createProduct(t, srv, "Widget", 10, 5, "Toys")

	var restocked productResponse
	res := doJSON(t, http.MethodPost, fmt.Sprintf("%s/api/products/%s/restock", srv.URL, p.ID),
		map[string]any{"quantity": 5}, &restocked)
	require.Equal(t, http.StatusOK, res.StatusCode)
	require.Equal(t, 10, restocked.Stock)

	var sold productResponse
	res = doJSON(t, http.MethodPost, fmt.Sprintf("%s/api/products/%s/sell", srv.URL, p.ID),
		map[string]any{"quantity": 4}, &sold)
	require.Equal(t, http.StatusOK, res.StatusCode)
	require.Equal(t, 6, sold.Stock)

	var errBody errorResponse
	res = doJSON(t, http.MethodPost, fmt.Sprintf("%s/api/products/%s/sell", srv.URL, p.ID),
		map[string]any{"quantity": 7}, &errBody)
	require.Equal(t, http.StatusBadRequest, res.StatusCode)
	require.Contains(t, errBody.Error, "insufficient stock")

	res = doJSON(t, http.MethodPost, srv.URL+"/api/products/missing/sell",
		map[string]any{"quantity": 1}, &errBody)
	require.Equal(t, http.StatusNotFound, res.StatusCode)

	var list []productResponse
	res = doJSON(t, http.MethodGet, srv.URL+"/api/products", nil, &list)
	require.Equal(t, http.StatusOK, res.StatusCode)
	require.Len(t, list, 1)
}

func TestCreateOrderValidation(t *testing.T) {
	srv := newServer(t)

	tests := []struct {
		name string
		body map[string]any
	}{
		{"missing customerId", map[string]any{"products": []map[string]any{{"productId": "p", "quantity": 1}}}},
		{"empty products", map[string]any{"customerId": "c1", "products": []map[string]any{}}},
		{"missing products", map[string]any{"customerId": "c1"}},
		{"missing productId", map[string]any{"customerId": "c1", "products": []map[string]any{{"quantity": 1}}}},
		{"zero quantity", map[string]any{"customerId": "c1", "products": []map[string]any{{"productId": "p", "quantity": 0}}}},
		{"negative quantity", map[string]any{"customerId": "c1", "products": []map[string]any{{"productId": "p", "quantity": -2}}}},
		{"fractional quantity", map[string]any{"customerId": "c1", "products": []map[string]any{{"productId": "p", "quantity": 1.5}}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var body errorResponse
			res := doJSON(t, http.MethodPost, srv.URL+"/api/orders", tt.body, &body)
			require.Equal(t, http.StatusBadRequest, res.StatusCode)
			require.NotEmpty(t, body.Error)
		})
	}
}

func TestCreateOrderAppliesVolumeDiscount(t *testing.T) {
	srv := newServer(t)
	p := createProduct(t, srv, "Widget", 1000, 50, "")

	var order orderResponse
	res := doJSON(t, http.MethodPost, srv.URL+"/api/orders", map[string]any{
		"customerId": "customer-us-1",
		"location":   "US",
		"orderDate":  "2024-06-15T10:00:00Z",
		"products":   []map[string]any{{"productId": p.ID, "quantity": 10}},
	}, &order)
	require.Equal(t, http.StatusCreated, res.StatusCode)

	require.Equal(t, 10000.0, order.TotalAmount)
	require.Equal(t, 20.0, order.Discount)
	require.Equal(t, 8000.0, order.FinalAmount)
	require.Equal(t, "pending", order.Status)
	require.Len(t, order.Products, 1)
	require.Equal(t, 1000.0, order.Products[0].PriceAtOrder)

	// Stock reserved.
	var got productResponse
	res = doJSON(t, http.MethodGet, srv.URL+"/api/products/"+p.ID, nil, &got)
	require.Equal(t, http.StatusOK, res.StatusCode)
	require.Equal(t, 40, got.Stock)
}

func TestCreateOrderBusinessFailures(t *testing.T) {
	srv := newServer(t)
	p := createProduct(t, srv, "Widget", 1000, 2, "")

	var body errorResponse
	res := doJSON(t, http.MethodPost, srv.URL+"/api/orders", map[string]any{
		"customerId": "c1",
		"products":   []map[string]any{{"productId": p.ID, "quantity": 3}},
	}, &body)
	require.Equal(t, http.StatusBadRequest, res.StatusCode)
	require.Equal(t, "Order creation failed", body.Error)
	require.Contains(t, body.Details, "insufficient stock")

	res = doJSON(t, http.MethodPost, srv.URL+"/api/orders", map[string]any{
		"customerId": "c1",
		"products":   []map[string]any{{"productId": "missing", "quantity": 1}},
	}, &body)
	require.Equal(t, http.StatusBadRequest, res.StatusCode)
	require.Contains(t, body.Details, "product not found")
}

func TestCreateOrderRejectsMalformedDate(t *testing.T) {
	srv := newServer(t)
	p := createProduct(t, srv, "Widget", 10, 5, "")

	var body errorResponse
	res := doJSON(t, http.MethodPost, srv.URL+"/api/orders", map[string]any{
		"customerId": "c1",
		"orderDate":  "yesterday",
		"products":   []map[string]any{{"productId": p.ID, "quantity": 1}},
	}, &body)
	require.Equal(t, http.StatusBadRequest, res.StatusCode)
	require.Equal(t, "Validation failed", body.Error)
}

func TestGetAndListOrders(t *testing.T) {
	srv := newServer(t)
	p := createProduct(t, srv, "Widget", 10, 5, "")

	var order orderResponse
	res := doJSON(t, http.MethodPost, srv.URL+"/api/orders", map[string]any{
		"customerId": "c1",
		"products":   []map[string]any{{"productId": p.ID, "quantity": 1}},
	}, &order)
	require.Equal(t, http.StatusCreated, res.StatusCode)

	var got orderResponse
	res = doJSON(t, http.MethodGet, srv.URL+"/api/orders/"+order.ID, nil, &got)
	require.Equal(t, http.StatusOK, res.StatusCode)
	require.Equal(t, order.ID, got.ID)

	var errBody errorResponse
	res = doJSON(t, http.MethodGet, srv.URL+"/api/orders/missing", nil, &errBody)
	require.Equal(t, http.StatusNotFound, res.StatusCode)

	var list []orderResponse
	res = doJSON(t, http.MethodGet, srv.URL+"/api/orders", nil, &list)
	require.Equal(t, http.StatusOK, res.StatusCode)
	require.Len(t, list, 1)
}
