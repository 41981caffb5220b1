package services

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/aaditya09750/Agroreach-sub000/inventory"
	"github.com/aaditya09750/Agroreach-sub000/models"
	"gorm.io/gorm"
)

// OrderService orchestrates checkout and the order lifecycle. PlaceOrder is
// the one multi-step operation in the system that needs compensation:
// decrement -> persist -> clear, with the decrement reversed if persistence
// fails. Everything shared between requests is mutated only through the
// ledger and the sequencer; the rest is single-owner data.
type OrderService struct {
	db        *gorm.DB
	ledger    *inventory.Ledger
	sequencer *OrderSequencer
	carts     *CartStore
	notifier  Notifier
}

func NewOrderService(db *gorm.DB, ledger *inventory.Ledger, sequencer *OrderSequencer, carts *CartStore, notifier Notifier) *OrderService {
	if notifier == nil {
		notifier = LogNotifier{}
	}
	return &OrderService{
		db:        db,
		ledger:    ledger,
		sequencer: sequencer,
		carts:     carts,
		notifier:  notifier,
	}
}

// PlaceOrderInput carries checkout data. Totals are supplied by the caller
// (the checkout UI owns pricing display) but must not be negative.
type PlaceOrderInput struct {
	UserID         string
	BillingAddress models.Address
	PaymentMethod  string
	Subtotal       float64
	ShippingCost   float64
	Tax            float64
	TotalAmount    float64
}

func (in PlaceOrderInput) validate() error {
	if in.Subtotal < 0 || in.ShippingCost < 0 || in.Tax < 0 || in.TotalAmount < 0 {
		return ErrInvalidTotals
	}
	return nil
}

// PlaceOrder turns the user's cart into a committed order:
//
//  1. load the cart, rejecting an empty one
//  2. pre-validate every line against current product state
//  3. all-or-nothing stock decrement through the ledger
//  4. snapshot cart lines into immutable order items
//  5. allocate the order reference
//  6. persist the order and empty the cart in one transaction
//
// Any failure after step 3 reverses the decrement before the error surfaces;
// no reader ever observes stock taken with no order persisted.
func (s *OrderService) PlaceOrder(in PlaceOrderInput) (*models.Order, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	cart, err := s.carts.Get(in.UserID)
	if err != nil {
		return nil, err
	}
	if len(cart.Items) == 0 {
		return nil, ErrEmptyCart
	}

	products, err := s.loadProducts(cart.Items)
	if err != nil {
		return nil, err
	}

	demands := make([]inventory.Demand, 0, len(cart.Items))
	for _, item := range cart.Items {
		product, ok := products[item.ProductID]
		if !ok {
			return nil, fmt.Errorf("%w: id %d", ErrProductNotFound, item.ProductID)
		}
		if product.StockStatus == models.StockStatusOutOfStock {
			return nil, &OutOfStockError{ProductID: product.ID, Name: product.EName}
		}
		if item.Quantity > product.StockQuantity {
			return nil, &inventory.InsufficientStockError{
				ProductID: product.ID,
				Available: product.StockQuantity,
				Requested: item.Quantity,
			}
		}
		demands = append(demands, inventory.Demand{ProductID: item.ProductID, Quantity: item.Quantity})
	}

	// The authoritative guard. The pre-checks above only narrow the common
	// case; races opened since then are caught here.
	if err := s.ledger.DecrementMany(demands); err != nil {
		return nil, err
	}

	orderItems := make([]models.OrderItem, 0, len(cart.Items))
	for _, item := range cart.Items {
		product := products[item.ProductID]
		orderItems = append(orderItems, models.OrderItem{
			ProductID:           product.ID,
			ProductEName:        product.EName,
			ProductArName:       product.ARName,
			ProductImage:        product.Image,
			ProductSalePrice:    product.SalePrice,
			ProductRegularPrice: product.RegularPrice,
			StockUnit:           product.StockUnit,
			Quantity:            item.Quantity,
		})
	}

	orderRef, err := s.sequencer.Next(time.Now().Year())
	if err != nil {
		s.restock(demands)
		return nil, err
	}

	order := models.Order{
		OrderRef:       orderRef,
		UserID:         in.UserID,
		Items:          orderItems,
		BillingAddress: in.BillingAddress,
		PaymentMethod:  in.PaymentMethod,
		Subtotal:       in.Subtotal,
		ShippingCost:   in.ShippingCost,
		Tax:            in.Tax,
		TotalAmount:    in.TotalAmount,
		Status:         models.OrderStatusPending,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&order).Error; err != nil {
			return err
		}
		return s.carts.ClearTx(tx, cart.CartID)
	})
	if err != nil {
		s.restock(demands)
		return nil, fmt.Errorf("persist order: %w", err)
	}

	s.notifier.OrderPlaced(&order)
	return &order, nil
}

// UpdateStatus applies one lifecycle transition. The status check and the
// flip are a single guarded UPDATE inside the transaction, so two concurrent
// requests cannot both apply the same transition; the loser is told the
// status it raced against. Entering cancelled restores every order line's
// stock in the same transaction, hence exactly once per order.
func (s *OrderService) UpdateStatus(orderRef string, next models.OrderStatus, trackingNumber string) (*models.Order, error) {
	var updated models.Order

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var order models.Order
		if err := tx.Preload("Items").First(&order, "order_ref = ?", orderRef).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrOrderNotFound
			}
			return err
		}

		if !order.Status.CanTransition(next) {
			return &InvalidTransitionError{From: order.Status, To: next}
		}

		updates := map[string]interface{}{"status": next}
		if trackingNumber != "" {
			updates["tracking_number"] = trackingNumber
		}
		var deliveredAt time.Time
		if next == models.OrderStatusDelivered {
			deliveredAt = time.Now()
			updates["delivered_at"] = deliveredAt
		}

		res := tx.Model(&models.Order{}).
			Where("order_ref = ? AND status = ?", orderRef, order.Status).
			Updates(updates)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			// Lost the race to a concurrent transition. Report against the
			// committed status, not the stale one we read.
			var current models.Order
			if err := tx.First(&current, "order_ref = ?", orderRef).Error; err != nil {
				return err
			}
			return &InvalidTransitionError{From: current.Status, To: next}
		}

		if next == models.OrderStatusCancelled {
			ledger := s.ledger.WithTx(tx)
			for _, item := range order.Items {
				if err := ledger.Increment(item.ProductID, item.Quantity); err != nil {
					return fmt.Errorf("restore stock for product %d: %w", item.ProductID, err)
				}
			}
		}

		order.Status = next
		if trackingNumber != "" {
			order.TrackingNumber = trackingNumber
		}
		if next == models.OrderStatusDelivered {
			order.DeliveredAt = &deliveredAt
		}
		updated = order
		return nil
	})
	if err != nil {
		return nil, err
	}

	if updated.Status == models.OrderStatusCancelled {
		s.notifier.OrderCancelled(&updated)
	} else {
		s.notifier.OrderStatusChanged(&updated)
	}
	return &updated, nil
}

// CancelOrder cancels an order on behalf of its owner. requestingUserID == ""
// means the caller already holds admin authority. Delivered and
// already-cancelled orders are consistently reported as NotCancellable.
func (s *OrderService) CancelOrder(orderRef, requestingUserID string) (*models.Order, error) {
	order, err := s.GetOrder(orderRef)
	if err != nil {
		return nil, err
	}
	if requestingUserID != "" && order.UserID != requestingUserID {
		return nil, ErrNotOrderOwner
	}
	if order.Status == models.OrderStatusDelivered || order.Status == models.OrderStatusCancelled {
		return nil, &NotCancellableError{Current: order.Status}
	}

	updated, err := s.UpdateStatus(orderRef, models.OrderStatusCancelled, "")
	if err != nil {
		// A concurrent transition may have beaten us to a terminal state
		// between the check above and the guarded flip.
		var invalid *InvalidTransitionError
		if errors.As(err, &invalid) {
			return nil, &NotCancellableError{Current: invalid.From}
		}
		return nil, err
	}
	return updated, nil
}

// GetOrder fetches one order by its reference.
func (s *OrderService) GetOrder(orderRef string) (*models.Order, error) {
	var order models.Order
	err := s.db.Preload("Items").First(&order, "order_ref = ?", orderRef).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (s *OrderService) loadProducts(items []models.CartItem) (map[uint]models.Product, error) {
	ids := make([]uint, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ProductID)
	}

	var products []models.Product
	if err := s.db.Where("id IN ?", ids).Find(&products).Error; err != nil {
		return nil, err
	}

	byID := make(map[uint]models.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}
	return byID, nil
}

// restock reverses a committed decrement set after a later saga step failed.
// Restoration failures are logged, not returned: the original failure is what
// the caller needs to see.
func (s *OrderService) restock(demands []inventory.Demand) {
	for _, d := range demands {
		if err := s.ledger.Increment(d.ProductID, d.Quantity); err != nil {
			log.Printf("failed to restore %d units of product %d: %v", d.Quantity, d.ProductID, err)
		}
	}
}
