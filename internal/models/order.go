package models

import "github.com/google/uuid"

// Order status values.
const (
	OrderStatusPending   = "pending"
	OrderStatusConfirmed = "confirmed"
	OrderStatusPaid      = "paid"
)

// Payment status values carried on the order.
const (
	PaymentStatusDownPaymentPaid = "down_payment_paid"
	PaymentStatusFullyPaid       = "fully_paid"
)

// Delivery status values.
const (
	DeliveryProcessing = "processing"
	DeliveryConfirmed  = "confirmed"
	DeliveryInTransit  = "in_transit"
	DeliveryDelivered  = "delivered"
	DeliveryCancelled  = "cancelled"
)

// deliveryTransitions lists the delivery states reachable from each state.
// delivered and cancelled are terminal.
var deliveryTransitions = map[string][]string{
	DeliveryProcessing: {DeliveryConfirmed, DeliveryInTransit, DeliveryCancelled},
	DeliveryConfirmed:  {DeliveryInTransit, DeliveryCancelled},
	DeliveryInTransit:  {DeliveryDelivered, DeliveryCancelled},
	DeliveryDelivered:  {},
	DeliveryCancelled:  {},
}

// ValidDeliveryStatus reports whether s is a known delivery status.
func ValidDeliveryStatus(s string) bool {
	_, ok := deliveryTransitions[s]
	return ok
}

// ValidOrderStatus reports whether s is a known order status.
func ValidOrderStatus(s string) bool {
	return s == OrderStatusPending || s == OrderStatusConfirmed || s == OrderStatusPaid
}

// ValidPaymentStatus reports whether s is a known payment status.
func ValidPaymentStatus(s string) bool {
	return s == PaymentStatusDownPaymentPaid || s == PaymentStatusFullyPaid
}

// CanTransitionDelivery reports whether an order may move between the two
// delivery states. Staying in the same state is always allowed.
func CanTransitionDelivery(from, to string) bool {
	if from == to {
		return true
	}
	for _, next := range deliveryTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// TerminalDelivery reports whether the delivery status admits no further
// transitions.
func TerminalDelivery(status string) bool {
	return status == DeliveryDelivered || status == DeliveryCancelled
}

// Location is a delivery coordinate shared with tracking clients.
type Location struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Order is a customer's purchase record. Amount fields, items and the
// shipping address are fixed at checkout; only status fields and the
// delivery location change afterwards.
type Order struct {
	BaseModel
	UserID            uuid.UUID   `gorm:"type:uuid;index" json:"userId"`
	Items             []OrderItem `json:"items"`
	TotalAmount       float64     `json:"totalAmount"`
	DownPayment       float64     `json:"downPayment"`
	RemainingBalance  float64     `json:"remainingBalance"`
	ShippingAddress   string      `json:"shippingAddress"`
	Status            string      `json:"status"`
	PaymentStatus     string      `json:"paymentStatus"`
	DeliveryStatus    string      `json:"deliveryStatus"`
	CurrentLocation   *Location   `gorm:"serializer:json" json:"currentLocation"`
	EstimatedDelivery *string     `json:"estimatedDelivery"`
}

// OrderItem is a line item snapshotted from the catalog at checkout.
type OrderItem struct {
	BaseModel
	OrderID     uuid.UUID  `gorm:"type:uuid;index" json:"orderId"`
	ProductID   *uuid.UUID `gorm:"type:uuid" json:"productId"`
	ProductName string     `json:"productName"`
	VariantID   *uuid.UUID `gorm:"type:uuid" json:"variantId,omitempty"`
	VariantName string     `json:"variantName"`
	Price       float64    `json:"price"`
	Quantity    int        `json:"quantity"`
	Remarks     string     `json:"remarks,omitempty"`
}
