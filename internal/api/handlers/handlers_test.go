package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"foodcart-service/internal/domain"
	"foodcart-service/internal/services"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubCatalog struct {
	products []domain.Product
	err      error
}

func (c *stubCatalog) ListAvailableProducts(ctx context.Context) ([]domain.Product, error) {
	return c.products, c.err
}

func (c *stubCatalog) ListAvailableMenuItems(ctx context.Context) ([]domain.MenuItem, error) {
	return nil, c.err
}

func (c *stubCatalog) ProductsByID(ctx context.Context, ids []int) (map[int]domain.Product, error) {
	return nil, c.err
}

type stubIntake struct {
	got   services.OrderRequest
	calls int
	err   error
}

func (s *stubIntake) Register(ctx context.Context, req services.OrderRequest) (*domain.Order, error) {
	s.calls++
	s.got = req
	if s.err != nil {
		return nil, s.err
	}
	return &domain.Order{ID: 42}, nil
}

type stubAssignments struct {
	out []services.OrderAssignment
	err error
}

func (s *stubAssignments) List(ctx context.Context) ([]services.OrderAssignment, error) {
	return s.out, s.err
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v), rec.Body.String())
}

func TestHealth(t *testing.T) {
	rec := httptest.NewRecorder()
	Health(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestWrongMethod(t *testing.T) {
	rec := httptest.NewRecorder()
	Health(rec, httptest.NewRequest(http.MethodPost, "/health", nil))

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Equal(t, http.MethodGet, rec.Header().Get("Allow"))

	h := &OrderHandler{Intake: &stubIntake{}}
	rec = httptest.NewRecorder()
	h.Register(rec, httptest.NewRequest(http.MethodGet, "/api/order", nil))

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Equal(t, http.MethodPost, rec.Header().Get("Allow"))
}

func TestProducts(t *testing.T) {
	h := &CatalogHandler{Repo: &stubCatalog{products: []domain.Product{
		{ID: 1, Name: "Чизбургер", PriceMinor: 35050, Image: "cheese.jpg", Category: &domain.ProductCategory{ID: 3, Name: "Бургеры"}},
		{ID: 2, Name: "Морс", PriceMinor: 9900},
	}}}

	rec := httptest.NewRecorder()
	h.Products(rec, httptest.NewRequest(http.MethodGet, "/api/products", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	assert.JSONEq(t, `[
		{"id":1,"name":"Чизбургер","price":"350.50","special_status":false,"description":"",
		 "category":{"id":3,"name":"Бургеры"},"image":"/static/cheese.jpg"},
		{"id":2,"name":"Морс","price":"99.00","special_status":false,"description":"",
		 "category":null,"image":""}
	]`, rec.Body.String())
}

func TestProductsStorageError(t *testing.T) {
	h := &CatalogHandler{Repo: &stubCatalog{err: errors.New("db down")}}

	rec := httptest.NewRecorder()
	h.Products(rec, httptest.NewRequest(http.MethodGet, "/api/products", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"internal server error"}`, rec.Body.String())
}

func TestBanners(t *testing.T) {
	h := &CatalogHandler{StaticURL: "https://cdn.example.com/media/"}

	rec := httptest.NewRecorder()
	h.Banners(rec, httptest.NewRequest(http.MethodGet, "/api/banners", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var got []map[string]string
	decodeBody(t, rec, &got)
	require.Len(t, got, 3)
	assert.Equal(t, "Burger", got[0]["title"])
	assert.Equal(t, "https://cdn.example.com/media/burger.jpg", got[0]["src"])
}

func TestRegisterOrder(t *testing.T) {
	intake := &stubIntake{}
	h := &OrderHandler{Intake: intake}

	body := `{"products":[{"product":1,"quantity":2}],"firstname":"Иван","lastname":"Петров",
		"phonenumber":"+79161234567","address":"Москва, Кремль","payment":"N"}`

	rec := httptest.NewRecorder()
	h.Register(rec, httptest.NewRequest(http.MethodPost, "/api/order", strings.NewReader(body)))

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.JSONEq(t, `{"status":"ok","order_id":42}`, rec.Body.String())
	assert.Equal(t, []services.OrderRequestLine{{Product: 1, Quantity: 2}}, intake.got.Products)
	assert.Equal(t, "N", intake.got.Payment)
	assert.Equal(t, "Москва, Кремль", intake.got.Address)
}

func TestRegisterOrderValidationError(t *testing.T) {
	intake := &stubIntake{err: &services.ValidationError{Fields: []services.FieldError{
		{Field: "firstname", Message: "this field is required"},
		{Field: "products[0].product", Message: "unknown product id 9"},
	}}}
	h := &OrderHandler{Intake: intake}

	rec := httptest.NewRecorder()
	h.Register(rec, httptest.NewRequest(http.MethodPost, "/api/order", strings.NewReader(`{"products":[{"product":9,"quantity":1}]}`)))

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{
		"error":"firstname: this field is required; products[0].product: unknown product id 9",
		"fields":[
			{"field":"firstname","message":"this field is required"},
			{"field":"products[0].product","message":"unknown product id 9"}
		]
	}`, rec.Body.String())
}

func TestRegisterOrderBadBody(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "malformed", body: `{"products":`},
		{name: "unknown field", body: `{"products":[],"coupon":"FREE"}`},
		{name: "wrong type", body: `{"products":"burger"}`},
		{name: "trailing object", body: `{"products":[]}{"products":[]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			intake := &stubIntake{}
			h := &OrderHandler{Intake: intake}

			rec := httptest.NewRecorder()
			h.Register(rec, httptest.NewRequest(http.MethodPost, "/api/order", strings.NewReader(tt.body)))

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, 0, intake.calls)
		})
	}
}

func TestRegisterOrderInternalError(t *testing.T) {
	h := &OrderHandler{Intake: &stubIntake{err: errors.New("disk full")}}

	rec := httptest.NewRecorder()
	h.Register(rec, httptest.NewRequest(http.MethodPost, "/api/order", strings.NewReader(`{"products":[]}`)))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"internal server error"}`, rec.Body.String())
}

func TestAssignments(t *testing.T) {
	km := 1.25
	order := &domain.Order{
		ID:           7,
		Status:       domain.OrderStatusManager,
		Firstname:    "Иван",
		Lastname:     "Петров",
		Phonenumber:  "+79161234567",
		Address:      "Москва, Кремль",
		Payment:      domain.PaymentCash,
		RegisteredAt: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		Lines:        []domain.OrderLine{{ProductID: 1, Quantity: 2, PriceMinor: 35000}},
	}
	h := &AssignmentHandler{Service: &stubAssignments{out: []services.OrderAssignment{{
		Order: order,
		Restaurants: []services.RankedRestaurant{
			{Restaurant: domain.Restaurant{ID: 1, Name: "A", Address: "Арбат, 10"}, DistanceKm: &km},
			{Restaurant: domain.Restaurant{ID: 2, Name: "B", Address: "Нигде"}},
		},
	}}}}

	rec := httptest.NewRecorder()
	h.List(rec, httptest.NewRequest(http.MethodGet, "/api/assignments", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	assert.JSONEq(t, `{"orders":[{
		"order_id":7,"status":"M","client":"Иван Петров","phonenumber":"+79161234567",
		"address":"Москва, Кремль","comment":"","payment":"C","total":"700.00",
		"registered_at":"2026-03-01T12:00:00Z",
		"restaurants":[
			{"id":1,"name":"A","address":"Арбат, 10","distance_km":1.25},
			{"id":2,"name":"B","address":"Нигде","distance_km":null}
		]
	}]}`, rec.Body.String())
}

func TestAssignmentsError(t *testing.T) {
	h := &AssignmentHandler{Service: &stubAssignments{err: errors.New("geocoder unreachable")}}

	rec := httptest.NewRecorder()
	h.List(rec, httptest.NewRequest(http.MethodGet, "/api/assignments", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestFormatMinor(t *testing.T) {
	assert.Equal(t, "0.00", formatMinor(0))
	assert.Equal(t, "0.05", formatMinor(5))
	assert.Equal(t, "350.50", formatMinor(35050))
	assert.Equal(t, "-1.20", formatMinor(-120))
}
