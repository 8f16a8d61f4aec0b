package model

import (
	"strings"
	"time"
)

type OrderStatus string

const (
	OrderPlaced    OrderStatus = "PLACED"
	OrderShipped   OrderStatus = "SHIPPED"
	OrderDelivered OrderStatus = "DELIVERED"
	OrderCancelled OrderStatus = "CANCELLED"
)

// ParseOrderStatus accepts any case; admin endpoints pass raw query params.
func ParseOrderStatus(s string) (OrderStatus, bool) {
	switch OrderStatus(normalizeStatus(s)) {
	case OrderPlaced:
		return OrderPlaced, true
	case OrderShipped:
		return OrderShipped, true
	case OrderDelivered:
		return OrderDelivered, true
	case OrderCancelled:
		return OrderCancelled, true
	}
	return "", false
}

func normalizeStatus(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "PENDING"
	PaymentPaid     PaymentStatus = "PAID"
	PaymentFailed   PaymentStatus = "FAILED"
	PaymentRefunded PaymentStatus = "REFUNDED"
)

func ParsePaymentStatus(s string) (PaymentStatus, bool) {
	switch PaymentStatus(normalizeStatus(s)) {
	case PaymentPending:
		return PaymentPending, true
	case PaymentPaid:
		return PaymentPaid, true
	case PaymentFailed:
		return PaymentFailed, true
	case PaymentRefunded:
		return PaymentRefunded, true
	}
	return "", false
}

type Order struct {
	ID            int64         `json:"id"`
	UserEmail     string        `json:"user_email"`
	TotalAmount   float64       `json:"total_amount"`
	OrderDate     time.Time     `json:"order_date"`
	PaymentStatus PaymentStatus `json:"payment_status"`
	OrderStatus   OrderStatus   `json:"order_status"`
	Items         []OrderItem   `json:"items"`
}

// OrderItem snapshots book id and unit price at placement time; it never
// back-references a live Book row.
type OrderItem struct {
	ID       int64   `json:"id"`
	OrderID  int64   `json:"order_id"`
	BookID   int64   `json:"book_id"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
}
