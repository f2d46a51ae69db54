// Package order owns the order ledger: creating orders from selected cart
// lines and driving the order status lifecycle, including the post-delivery
// replacement/return eligibility window.
package order

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Status is the lifecycle state of an order.
//
// Pending → Processing → Shipped → Delivered is the forward path.
// Pending/Processing/Shipped may exit to Cancelled; Delivered may exit to
// Returned. Cancelled and Returned are terminal.
type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusShipped    Status = "shipped"
	StatusDelivered  Status = "delivered"
	StatusCancelled  Status = "cancelled"
	StatusReturned   Status = "returned"
)

// ParseStatus validates a wire-format status value.
func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusPending, StatusProcessing, StatusShipped, StatusDelivered, StatusCancelled, StatusReturned:
		return Status(s), nil
	}
	return "", fmt.Errorf("unknown order status %q", s)
}

// Terminal reports whether no further status transition is possible.
func (s Status) Terminal() bool {
	return s == StatusCancelled || s == StatusReturned
}

// PaymentMethod is the payment option chosen at checkout. No real payment
// runs behind it.
type PaymentMethod string

const (
	PaymentUPI            PaymentMethod = "upi"
	PaymentNetBanking     PaymentMethod = "netBanking"
	PaymentCashOnDelivery PaymentMethod = "cashOnDelivery"
)

// ParsePaymentMethod validates a wire-format payment method.
func ParsePaymentMethod(s string) (PaymentMethod, error) {
	switch PaymentMethod(s) {
	case PaymentUPI, PaymentNetBanking, PaymentCashOnDelivery:
		return PaymentMethod(s), nil
	}
	return "", fmt.Errorf("unknown payment method %q", s)
}

// Address is the structured shipping destination.
type Address struct {
	DoorNumber string
	Street     string
	City       string
	State      string
	Pincode    string
}

// Item is an immutable snapshot of a product and cart line taken at order
// creation. Later catalog edits never alter it.
type Item struct {
	ProductID string
	Name      string
	Price     decimal.Decimal
	Quantity  int
	Color     string
}

// ReturnWindow is how long after delivery a replacement or return may be
// requested.
const ReturnWindow = 14 * 24 * time.Hour

// Order is one placed order. Total is computed once at creation and stored.
// DeliveryDate is set on the transition to Delivered and drives the
// replacement/return eligibility window.
type Order struct {
	ID              string
	UserID          string
	Username        string
	Items           []Item
	ShippingAddress Address
	PaymentMethod   PaymentMethod
	Status          Status
	Total           decimal.Decimal
	OrderDate       time.Time
	DeliveryDate    *time.Time
}

// Eligibility is the set of actions currently open to the customer.
// It is derived from (status, deliveryDate, now) rather than stored, so it
// survives process restarts and cannot be stranded by a lost timer.
type Eligibility struct {
	CanCancel  bool
	CanReplace bool
	CanReturn  bool
}

// EligibilityAt computes the action flags as of now.
func (o *Order) EligibilityAt(now time.Time) Eligibility {
	return Eligibility{
		CanCancel:  o.CanCancel(),
		CanReplace: o.withinReturnWindow(now),
		CanReturn:  o.withinReturnWindow(now),
	}
}

// CanCancel reports whether the order may still be cancelled.
func (o *Order) CanCancel() bool {
	switch o.Status {
	case StatusPending, StatusProcessing, StatusShipped:
		return true
	}
	return false
}

func (o *Order) withinReturnWindow(now time.Time) bool {
	if o.Status != StatusDelivered || o.DeliveryDate == nil {
		return false
	}
	return now.Sub(*o.DeliveryDate) < ReturnWindow
}

// clone returns a deep copy safe to hand to callers.
func (o *Order) clone() Order {
	cp := *o
	cp.Items = append([]Item(nil), o.Items...)
	if o.DeliveryDate != nil {
		d := *o.DeliveryDate
		cp.DeliveryDate = &d
	}
	return cp
}
