package models

import (
	"fmt"
	"strings"
	"time"
)

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"    // Order placed, stock already reserved
	OrderStatusProcessing OrderStatus = "processing" // Being packed
	OrderStatusShipped    OrderStatus = "shipped"    // Out for delivery
	OrderStatusDelivered  OrderStatus = "delivered"  // Terminal
	OrderStatusCancelled  OrderStatus = "cancelled"  // Terminal, stock restored
)

// orderTransitions is the single source of truth for the order lifecycle.
// Anything not listed here is rejected.
var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending:    {OrderStatusProcessing, OrderStatusCancelled},
	OrderStatusProcessing: {OrderStatusShipped, OrderStatusCancelled},
	OrderStatusShipped:    {OrderStatusDelivered, OrderStatusCancelled},
	OrderStatusDelivered:  nil,
	OrderStatusCancelled:  nil,
}

// CancellableStatuses are the states an order may still be cancelled from.
var CancellableStatuses = []OrderStatus{
	OrderStatusPending,
	OrderStatusProcessing,
	OrderStatusShipped,
}

// CanTransition reports whether moving from s to next is a valid lifecycle
// step.
func (s OrderStatus) CanTransition(next OrderStatus) bool {
	for _, allowed := range orderTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Terminal reports whether no further transition is permitted from s.
func (s OrderStatus) Terminal() bool {
	return len(orderTransitions[s]) == 0
}

// ParseOrderStatus maps an external status label onto the canonical enum.
func ParseOrderStatus(raw string) (OrderStatus, error) {
	s := OrderStatus(strings.ToLower(strings.TrimSpace(raw)))
	if _, ok := orderTransitions[s]; !ok {
		return "", fmt.Errorf("invalid order status %q", raw)
	}
	return s, nil
}

type Order struct {
	ID             uint        `gorm:"primaryKey" json:"id"`
	OrderRef       string      `gorm:"uniqueIndex;not null" json:"order_ref"` // ORD-<year>-<5-digit-seq>
	UserID         string      `gorm:"not null;index" json:"user_id"`
	User           User        `gorm:"foreignKey:UserID" json:"user"`
	Items          []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items"`
	BillingAddress Address     `gorm:"embedded;embeddedPrefix:billing_" json:"billing_address"`
	PaymentMethod  string      `json:"payment_method"` // e.g. "card", "cod"
	Subtotal       float64     `json:"subtotal"`
	ShippingCost   float64     `json:"shipping_cost"`
	Tax            float64     `json:"tax"`
	TotalAmount    float64     `json:"total_amount"`
	Status         OrderStatus `gorm:"type:VARCHAR(20);default:'pending'" json:"status"`
	TrackingNumber string      `json:"tracking_number"`
	DeliveredAt    *time.Time  `json:"delivered_at"`
	CreatedAt      time.Time   `json:"created_at"`
	UpdatedAt      time.Time   `json:"updated_at"`
}

// OrderItem is immutable once the order exists: every field is snapshotted
// from the product at order-creation time so later catalog edits never alter
// historical orders.
type OrderItem struct {
	ID                  uint      `gorm:"primaryKey" json:"id"`
	OrderID             uint      `gorm:"index" json:"order_id"`
	ProductID           uint      `json:"product_id"`
	ProductEName        string    `json:"product_ename"`
	ProductArName       string    `json:"product_arname"`
	ProductImage        string    `json:"product_image"`
	ProductSalePrice    float64   `json:"product_sale_price"`
	ProductRegularPrice float64   `json:"product_regular_price"`
	StockUnit           StockUnit `json:"stock_unit"`
	Quantity            int       `json:"quantity"`
}
