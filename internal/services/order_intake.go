package services

import (
	"context"
	"errors"
	"fmt"
	"foodcart-service/internal/domain"
	"foodcart-service/internal/ports"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/nyaruka/phonenumbers"
)

const maxCommentLen = 200

// OrderRequest is a submitted order before validation.
type OrderRequest struct {
	Products    []OrderRequestLine
	Firstname   string
	Lastname    string
	Phonenumber string
	Address     string
	Comment     string
	Payment     string
}

type OrderRequestLine struct {
	Product  int
	Quantity int
}

type FieldError struct {
	Field   string
	Message string
}

// ValidationError collects every problem found in one request.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return strings.Join(parts, "; ")
}

func (e *ValidationError) add(field, message string) {
	e.Fields = append(e.Fields, FieldError{Field: field, Message: message})
}

type OrderIntake struct {
	catalog ports.CatalogRepository
	orders  ports.OrderRepository
	region  string
	now     func() time.Time
}

// NewOrderIntake validates phone numbers against region (ISO 3166 alpha-2).
func NewOrderIntake(catalog ports.CatalogRepository, orders ports.OrderRepository, region string) (*OrderIntake, error) {
	if catalog == nil || orders == nil {
		return nil, errors.New("new order intake: repositories must be non-nil")
	}
	region = strings.ToUpper(strings.TrimSpace(region))
	if region == "" {
		return nil, errors.New("new order intake: phone region must be non-empty")
	}
	return &OrderIntake{catalog: catalog, orders: orders, region: region, now: time.Now}, nil
}

// Register validates req and persists it as a new order.
// Nothing is written when validation fails; the error is a *ValidationError.
func (s *OrderIntake) Register(ctx context.Context, req OrderRequest) (*domain.Order, error) {
	verr := &ValidationError{}

	required := []struct {
		field string
		value string
	}{
		{"firstname", req.Firstname},
		{"lastname", req.Lastname},
		{"phonenumber", req.Phonenumber},
		{"address", req.Address},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			verr.add(r.field, "this field is required")
		}
	}

	phone := ""
	if strings.TrimSpace(req.Phonenumber) != "" {
		normalized, ok := s.normalizePhone(req.Phonenumber)
		if ok {
			phone = normalized
		} else {
			verr.add("phonenumber", "invalid phone number")
		}
	}

	if n := utf8.RuneCountInString(req.Comment); n > maxCommentLen {
		verr.add("comment", fmt.Sprintf("must be at most %d characters, got %d", maxCommentLen, n))
	}

	payment := domain.PaymentCash
	if req.Payment != "" {
		payment = domain.PaymentMethod(req.Payment)
		if !payment.Valid() {
			verr.add("payment", fmt.Sprintf("must be %q or %q", domain.PaymentCash, domain.PaymentNonCash))
		}
	}

	if len(req.Products) == 0 {
		verr.add("products", "must be a non-empty list")
	}

	ids := make([]int, 0, len(req.Products))
	for i, line := range req.Products {
		if line.Quantity < 1 {
			verr.add(fmt.Sprintf("products[%d].quantity", i), "must be at least 1")
		}
		ids = append(ids, line.Product)
	}

	products := map[int]domain.Product{}
	if len(ids) > 0 {
		var err error
		products, err = s.catalog.ProductsByID(ctx, ids)
		if err != nil {
			return nil, fmt.Errorf("register order: %w", err)
		}
	}
	for i, line := range req.Products {
		if _, ok := products[line.Product]; !ok {
			verr.add(fmt.Sprintf("products[%d].product", i), fmt.Sprintf("unknown product id %d", line.Product))
		}
	}

	if len(verr.Fields) > 0 {
		return nil, verr
	}

	order := domain.NewOrder(
		strings.TrimSpace(req.Firstname),
		strings.TrimSpace(req.Lastname),
		phone,
		strings.TrimSpace(req.Address),
		s.now().UTC(),
	)
	order.Comment = req.Comment
	order.Payment = payment

	for _, line := range req.Products {
		if err := order.AddLine(line.Product, line.Quantity, products[line.Product].PriceMinor); err != nil {
			return nil, fmt.Errorf("register order: %w", err)
		}
	}

	if err := s.orders.CreateOrder(ctx, order); err != nil {
		return nil, fmt.Errorf("register order: %w", err)
	}

	return order, nil
}

// normalizePhone returns the number in E.164 form when it is valid for the
// intake region.
func (s *OrderIntake) normalizePhone(raw string) (string, bool) {
	num, err := phonenumbers.Parse(raw, s.region)
	if err != nil {
		return "", false
	}
	if !phonenumbers.IsValidNumberForRegion(num, s.region) {
		return "", false
	}
	return phonenumbers.Format(num, phonenumbers.E164), true
}
