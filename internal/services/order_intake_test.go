package services

import (
	"context"
	"errors"
	"foodcart-service/internal/domain"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestIntake(t *testing.T) (*OrderIntake, *fakeOrders) {
	t.Helper()

	catalog := &fakeCatalog{products: map[int]domain.Product{
		burger.ID: {ID: burger.ID, Name: "Burger", PriceMinor: 35000},
		fries.ID:  {ID: fries.ID, Name: "Fries", PriceMinor: 12050},
	}}
	orders := &fakeOrders{}

	s, err := NewOrderIntake(catalog, orders, "ru")
	require.NoError(t, err)
	s.now = func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC) }
	return s, orders
}

func validRequest() OrderRequest {
	return OrderRequest{
		Products: []OrderRequestLine{
			{Product: burger.ID, Quantity: 2},
			{Product: fries.ID, Quantity: 1},
		},
		Firstname:   "Иван",
		Lastname:    "Петров",
		Phonenumber: "8 (916) 123-45-67",
		Address:     "Москва, Тверская, 7",
	}
}

func fieldNames(err error) []string {
	var verr *ValidationError
	if !errors.As(err, &verr) {
		return nil
	}
	names := make([]string, 0, len(verr.Fields))
	for _, f := range verr.Fields {
		names = append(names, f.Field)
	}
	return names
}

func TestRegisterOrder(t *testing.T) {
	s, orders := newTestIntake(t)

	order, err := s.Register(context.Background(), validRequest())
	require.NoError(t, err)

	require.Len(t, orders.created, 1)
	assert.Equal(t, 1, order.ID)
	assert.Equal(t, "+79161234567", order.Phonenumber)
	assert.Equal(t, domain.OrderStatusManager, order.Status)
	assert.Equal(t, domain.PaymentCash, order.Payment)
	assert.Equal(t, "Иван Петров", order.FullName())
	assert.Equal(t, []domain.OrderLine{
		{ProductID: burger.ID, Quantity: 2, PriceMinor: 35000},
		{ProductID: fries.ID, Quantity: 1, PriceMinor: 12050},
	}, order.Lines)
	assert.Equal(t, int64(82050), order.TotalMinor())
	assert.True(t, order.RegisteredAt.Equal(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)))
}

func TestRegisterOrderOptionalFields(t *testing.T) {
	s, _ := newTestIntake(t)

	req := validRequest()
	req.Payment = "N"
	req.Comment = "домофон 12"
	req.Phonenumber = "+7 916 123 45 67"

	order, err := s.Register(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentNonCash, order.Payment)
	assert.Equal(t, "домофон 12", order.Comment)
	assert.Equal(t, "+79161234567", order.Phonenumber)

	// The limit counts characters, not bytes.
	req.Comment = strings.Repeat("я", 200)
	order, err = s.Register(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, 200, len([]rune(order.Comment)))
}

func TestRegisterOrderCollectsEveryProblem(t *testing.T) {
	s, orders := newTestIntake(t)

	req := OrderRequest{
		Products: []OrderRequestLine{
			{Product: burger.ID, Quantity: 0},
			{Product: 999, Quantity: 1},
		},
		Firstname:   " ",
		Phonenumber: "12345",
		Address:     "Москва",
		Payment:     "X",
	}

	_, err := s.Register(context.Background(), req)
	require.Error(t, err)

	assert.ElementsMatch(t, []string{
		"firstname",
		"lastname",
		"phonenumber",
		"payment",
		"products[0].quantity",
		"products[1].product",
	}, fieldNames(err))
	assert.Empty(t, orders.created, "nothing is stored on validation failure")
}

func TestRegisterOrderValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*OrderRequest)
		field  string
	}{
		{name: "no products", mutate: func(r *OrderRequest) { r.Products = nil }, field: "products"},
		{name: "empty products", mutate: func(r *OrderRequest) { r.Products = []OrderRequestLine{} }, field: "products"},
		{name: "missing address", mutate: func(r *OrderRequest) { r.Address = "" }, field: "address"},
		{name: "missing phone", mutate: func(r *OrderRequest) { r.Phonenumber = "" }, field: "phonenumber"},
		{name: "foreign phone", mutate: func(r *OrderRequest) { r.Phonenumber = "+1 202 555 0100" }, field: "phonenumber"},
		{name: "negative quantity", mutate: func(r *OrderRequest) { r.Products[1].Quantity = -3 }, field: "products[1].quantity"},
		{name: "long comment", mutate: func(r *OrderRequest) { r.Comment = strings.Repeat("я", 201) }, field: "comment"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, orders := newTestIntake(t)
			req := validRequest()
			tt.mutate(&req)

			_, err := s.Register(context.Background(), req)
			require.Error(t, err)
			assert.Equal(t, []string{tt.field}, fieldNames(err))
			assert.Empty(t, orders.created)
		})
	}
}

func TestValidationErrorMessage(t *testing.T) {
	err := &ValidationError{Fields: []FieldError{
		{Field: "firstname", Message: "this field is required"},
		{Field: "products", Message: "must be a non-empty list"},
	}}
	assert.Equal(t, "firstname: this field is required; products: must be a non-empty list", err.Error())
}

func TestNewOrderIntakeRequiresRegion(t *testing.T) {
	_, err := NewOrderIntake(&fakeCatalog{}, &fakeOrders{}, " ")
	assert.Error(t, err)
}
