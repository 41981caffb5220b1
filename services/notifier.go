package services

import (
	"log"

	"github.com/aaditya09750/Agroreach-sub000/models"
)

// Notifier is the outbound notification boundary. Implementations must not
// block and must never fail an order: the saga treats notification as
// fire-and-forget.
type Notifier interface {
	OrderPlaced(order *models.Order)
	OrderStatusChanged(order *models.Order)
	OrderCancelled(order *models.Order)
}

// LogNotifier is the default implementation, standing in for the external
// email/notification collaborator.
type LogNotifier struct{}

func (LogNotifier) OrderPlaced(order *models.Order) {
	log.Printf("order %s placed by user %s (%d items, total %.2f)",
		order.OrderRef, order.UserID, len(order.Items), order.TotalAmount)
}

func (LogNotifier) OrderStatusChanged(order *models.Order) {
	log.Printf("order %s moved to status %s", order.OrderRef, order.Status)
}

func (LogNotifier) OrderCancelled(order *models.Order) {
	log.Printf("order %s cancelled, stock restored", order.OrderRef)
}

// Notifiers fans out to several sinks (e.g. log + websocket feed).
type Notifiers []Notifier

func (n Notifiers) OrderPlaced(order *models.Order) {
	for _, notifier := range n {
		notifier.OrderPlaced(order)
	}
}

func (n Notifiers) OrderStatusChanged(order *models.Order) {
	for _, notifier := range n {
		notifier.OrderStatusChanged(order)
	}
}

func (n Notifiers) OrderCancelled(order *models.Order) {
	for _, notifier := range n {
		notifier.OrderCancelled(order)
	}
}
