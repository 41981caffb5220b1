// Package inventory owns every mutation of product stock. Callers never
// read-then-write the stock column themselves; both decrement and restore go
// through a single conditional UPDATE so concurrent orders cannot race on the
// gap between a read and a write.
package inventory

import (
	"errors"
	"fmt"
	"sort"

	"github.com/aaditya09750/Agroreach-sub000/models"
	"gorm.io/gorm"
)

var ErrProductNotFound = errors.New("inventory: product not found")

// InsufficientStockError reports, per product, how much was available when a
// decrement was refused so the caller can reconcile the cart instead of
// retrying blindly.
type InsufficientStockError struct {
	ProductID uint
	Available int
	Requested int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %d: available %d, requested %d",
		e.ProductID, e.Available, e.Requested)
}

// Demand is one (product, amount) pair of a multi-product decrement.
type Demand struct {
	ProductID uint
	Quantity  int
}

type Ledger struct {
	db *gorm.DB
}

func NewLedger(db *gorm.DB) *Ledger {
	return &Ledger{db: db}
}

// WithTx returns a ledger scoped to an open transaction, so a caller can make
// a stock restoration part of its own atomic unit.
func (l *Ledger) WithTx(tx *gorm.DB) *Ledger {
	return &Ledger{db: tx}
}

// TryDecrement subtracts amount from the product's stock iff enough is
// available, recomputing stock_status in the same statement. The WHERE guard
// plus the rows-affected check make it a single compare-and-decrement; under
// concurrency exactly one of two competing calls for the last units wins.
func (l *Ledger) TryDecrement(productID uint, amount int) (bool, error) {
	if amount <= 0 {
		return false, fmt.Errorf("inventory: decrement amount must be positive, got %d", amount)
	}

	res := l.db.Model(&models.Product{}).
		Where("id = ? AND stock_quantity >= ?", productID, amount).
		Updates(map[string]interface{}{
			"stock_quantity": gorm.Expr("stock_quantity - ?", amount),
			"stock_status": gorm.Expr(
				"CASE WHEN stock_quantity - ? <= 0 THEN ? ELSE ? END",
				amount, string(models.StockStatusOutOfStock), string(models.StockStatusInStock),
			),
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// Increment adds amount back to the product's stock. Used only to compensate
// a prior successful decrement, so no upper bound check is needed: restores
// can only return stock toward its original ceiling.
func (l *Ledger) Increment(productID uint, amount int) error {
	if amount <= 0 {
		return fmt.Errorf("inventory: increment amount must be positive, got %d", amount)
	}

	res := l.db.Model(&models.Product{}).
		Where("id = ?", productID).
		Updates(map[string]interface{}{
			"stock_quantity": gorm.Expr("stock_quantity + ?", amount),
			"stock_status":   string(models.StockStatusInStock),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: id %d", ErrProductNotFound, productID)
	}
	return nil
}

// SetStock writes an absolute quantity (admin stock corrections). It goes
// through the ledger so the derived status can never drift from the counter.
func (l *Ledger) SetStock(productID uint, quantity int) error {
	if quantity < 0 {
		return fmt.Errorf("inventory: stock quantity must not be negative, got %d", quantity)
	}

	res := l.db.Model(&models.Product{}).
		Where("id = ?", productID).
		Updates(map[string]interface{}{
			"stock_quantity": quantity,
			"stock_status":   string(models.StatusForQuantity(quantity)),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: id %d", ErrProductNotFound, productID)
	}
	return nil
}

// Stock reads the current counter. Informational only: decisions about
// decrementing are made by TryDecrement's guard, never by this value.
func (l *Ledger) Stock(productID uint) (int, error) {
	var product models.Product
	if err := l.db.Select("id", "stock_quantity").First(&product, "id = ?", productID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, fmt.Errorf("%w: id %d", ErrProductNotFound, productID)
		}
		return 0, err
	}
	return product.StockQuantity, nil
}

// DecrementMany applies TryDecrement to every demand in ascending product-ID
// order (stable lock order across concurrent callers). If any decrement is
// refused, every decrement already applied in this call is rolled back before
// the failure is returned, so no observer sees a partially-applied set
// survive.
func (l *Ledger) DecrementMany(demands []Demand) error {
	sorted := make([]Demand, len(demands))
	copy(sorted, demands)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ProductID < sorted[j].ProductID })

	applied := make([]Demand, 0, len(sorted))
	for _, d := range sorted {
		ok, err := l.TryDecrement(d.ProductID, d.Quantity)
		if err == nil && !ok {
			err = l.refusalError(d)
		}
		if err != nil {
			return errors.Join(err, l.rollback(applied))
		}
		applied = append(applied, d)
	}
	return nil
}

// rollback restores already-applied decrements in reverse order.
func (l *Ledger) rollback(applied []Demand) error {
	var errs []error
	for i := len(applied) - 1; i >= 0; i-- {
		if err := l.Increment(applied[i].ProductID, applied[i].Quantity); err != nil {
			errs = append(errs, fmt.Errorf("rollback product %d: %w", applied[i].ProductID, err))
		}
	}
	return errors.Join(errs...)
}

// refusalError turns a refused decrement into the precise typed failure:
// missing product vs. not enough stock.
func (l *Ledger) refusalError(d Demand) error {
	available, err := l.Stock(d.ProductID)
	if err != nil {
		return err
	}
	return &InsufficientStockError{
		ProductID: d.ProductID,
		Available: available,
		Requested: d.Quantity,
	}
}
