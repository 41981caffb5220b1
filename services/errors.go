package services

import (
	"errors"
	"fmt"

	"github.com/aaditya09750/Agroreach-sub000/models"
)

var (
	ErrEmptyCart            = errors.New("cart is empty")
	ErrCartItemNotFound     = errors.New("cart item not found")
	ErrProductNotFound      = errors.New("product not found")
	ErrOrderNotFound        = errors.New("order not found")
	ErrNotOrderOwner        = errors.New("order does not belong to user")
	ErrInvalidTotals        = errors.New("order totals must not be negative")
	ErrSequencerUnavailable = errors.New("order sequencer unavailable")
)

// OutOfStockError rejects a cart line whose product has nothing left. The
// authoritative guard is still the ledger's conditional decrement; this only
// narrows the common case before checkout attempts it.
type OutOfStockError struct {
	ProductID uint
	Name      string
}

func (e *OutOfStockError) Error() string {
	return fmt.Sprintf("product %d (%s) is out of stock", e.ProductID, e.Name)
}

// InvalidTransitionError reports a rejected lifecycle step, carrying the
// current status so clients refresh their view instead of retrying blindly.
type InvalidTransitionError struct {
	From models.OrderStatus
	To   models.OrderStatus
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid order status transition %s -> %s", e.From, e.To)
}

// NotCancellableError is returned for cancel requests against delivered or
// already-cancelled orders. Re-cancelling is always reported, never silently
// absorbed, and never restores stock a second time.
type NotCancellableError struct {
	Current models.OrderStatus
}

func (e *NotCancellableError) Error() string {
	return fmt.Sprintf("order in status %s cannot be cancelled", e.Current)
}
