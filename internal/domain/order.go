package domain

import (
	"fmt"
	"time"
)

type OrderStatus string

const (
	OrderStatusManager    OrderStatus = "M"
	OrderStatusRestaurant OrderStatus = "R"
	OrderStatusCourier    OrderStatus = "C"
	OrderStatusProcessed  OrderStatus = "P"
)

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusManager, OrderStatusRestaurant, OrderStatusCourier, OrderStatusProcessed:
		return true
	}
	return false
}

type PaymentMethod string

const (
	PaymentCash    PaymentMethod = "C"
	PaymentNonCash PaymentMethod = "N"
)

func (p PaymentMethod) Valid() bool {
	return p == PaymentCash || p == PaymentNonCash
}

// Order is a customer order. Lines keep their submission order.
type Order struct {
	ID           int
	Status       OrderStatus
	Firstname    string
	Lastname     string
	Phonenumber  string
	Address      string
	Comment      string
	Payment      PaymentMethod
	RegisteredAt time.Time
	CalledAt     *time.Time
	DeliveredAt  *time.Time
	RestaurantID *int
	Lines        []OrderLine
}

// OrderLine is one (product, quantity) entry. PriceMinor is the unit price
// captured when the order was registered.
type OrderLine struct {
	ProductID  int
	Quantity   int
	PriceMinor int64
}

// NewOrder returns an order with the intake defaults applied.
func NewOrder(firstname, lastname, phone, address string, registeredAt time.Time) *Order {
	return &Order{
		Status:       OrderStatusManager,
		Firstname:    firstname,
		Lastname:     lastname,
		Phonenumber:  phone,
		Address:      address,
		Payment:      PaymentCash,
		RegisteredAt: registeredAt,
	}
}

// AddLine appends a line to the order.
func (o *Order) AddLine(productID, quantity int, priceMinor int64) error {
	if quantity < 1 {
		return fmt.Errorf("add order line: product %d quantity must be positive, got %d", productID, quantity)
	}
	o.Lines = append(o.Lines, OrderLine{ProductID: productID, Quantity: quantity, PriceMinor: priceMinor})
	return nil
}

// TotalMinor sums line prices times quantities.
func (o *Order) TotalMinor() int64 {
	var total int64
	for _, l := range o.Lines {
		total += l.PriceMinor * int64(l.Quantity)
	}
	return total
}

func (o *Order) FullName() string {
	return o.Firstname + " " + o.Lastname
}
