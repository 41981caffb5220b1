package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/aaditya09750/Agroreach-sub000/models"
	"gorm.io/gorm"
)

// CartStore owns the per-user cart. A cart is created lazily on first access,
// mutated by upsert/remove, and emptied (never deleted) on checkout or an
// explicit clear. Carts are single-owner, so no cross-request locking beyond
// ordinary row updates is needed here.
type CartStore struct {
	db *gorm.DB
}

func NewCartStore(db *gorm.DB) *CartStore {
	return &CartStore{db: db}
}

// Get returns the user's cart with its items, creating an empty cart if the
// user has none yet.
func (s *CartStore) Get(userID string) (*models.Cart, error) {
	var cart models.Cart
	err := s.db.Preload("Items").Where("user_id = ?", userID).First(&cart).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		cart = models.Cart{UserID: userID}
		if err := s.db.Create(&cart).Error; err != nil {
			return nil, fmt.Errorf("create cart: %w", err)
		}
		return &cart, nil
	}
	if err != nil {
		return nil, err
	}
	return &cart, nil
}

// UpsertItem sets the quantity for a product in the user's cart, snapshotting
// price, names and image from the product as it exists right now. The
// snapshot is refreshed on every update; it is not re-read at checkout except
// for validation.
func (s *CartStore) UpsertItem(userID string, productID uint, quantity int) (*models.CartItem, error) {
	if quantity < 1 {
		return nil, fmt.Errorf("cart quantity must be at least 1, got %d", quantity)
	}

	var product models.Product
	if err := s.db.First(&product, "id = ?", productID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: id %d", ErrProductNotFound, productID)
		}
		return nil, err
	}

	cart, err := s.Get(userID)
	if err != nil {
		return nil, err
	}

	var item models.CartItem
	err = s.db.Where("cart_id = ? AND product_id = ?", cart.CartID, productID).First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		item = models.CartItem{
			CartID:    cart.CartID,
			ProductID: product.ID,
		}
	} else if err != nil {
		return nil, err
	}

	item.ProductEName = product.EName
	item.ProductArName = product.ARName
	item.ProductImage = product.Image
	item.ProductSalePrice = product.SalePrice
	item.ProductRegularPrice = product.RegularPrice
	item.StockUnit = product.StockUnit
	item.Quantity = quantity
	item.AddedAt = time.Now()

	if err := s.db.Save(&item).Error; err != nil {
		return nil, fmt.Errorf("save cart item: %w", err)
	}
	return &item, nil
}

// RemoveItem deletes one product line from the user's cart.
func (s *CartStore) RemoveItem(userID string, productID uint) error {
	cart, err := s.Get(userID)
	if err != nil {
		return err
	}

	res := s.db.Where("cart_id = ? AND product_id = ?", cart.CartID, productID).
		Delete(&models.CartItem{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrCartItemNotFound
	}
	return nil
}

// Clear empties the cart but keeps the cart row itself.
func (s *CartStore) Clear(userID string) error {
	cart, err := s.Get(userID)
	if err != nil {
		return err
	}
	return s.db.Where("cart_id = ?", cart.CartID).Delete(&models.CartItem{}).Error
}

// ClearTx empties a cart inside an already-open transaction. Checkout uses it
// so "persist order" and "empty cart" commit or fail together.
func (s *CartStore) ClearTx(tx *gorm.DB, cartID uint) error {
	return tx.Where("cart_id = ?", cartID).Delete(&models.CartItem{}).Error
}

// MergeGuestCart folds a guest cart into the user's cart on login. Guest
// lines win on quantity conflicts (the guest cart is the fresher intent),
// then the guest cart is dropped. Returns whether anything was merged.
func (s *CartStore) MergeGuestCart(guestID, userID string) (bool, error) {
	var guestCart models.GuestCart
	err := s.db.Preload("Items").Where("guest_id = ?", guestID).First(&guestCart).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if len(guestCart.Items) == 0 {
		return false, nil
	}

	cart, err := s.Get(userID)
	if err != nil {
		return false, err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		for _, gi := range guestCart.Items {
			var item models.CartItem
			err := tx.Where("cart_id = ? AND product_id = ?", cart.CartID, gi.ProductID).
				First(&item).Error
			if errors.Is(err, gorm.ErrRecordNotFound) {
				item = models.CartItem{
					CartID:    cart.CartID,
					ProductID: gi.ProductID,
				}
			} else if err != nil {
				return err
			}

			item.ProductEName = gi.ProductEName
			item.ProductArName = gi.ProductArName
			item.ProductImage = gi.ProductImage
			item.ProductSalePrice = gi.ProductSalePrice
			item.ProductRegularPrice = gi.ProductRegularPrice
			item.StockUnit = gi.StockUnit
			item.Quantity = gi.Quantity
			item.AddedAt = time.Now()

			if err := tx.Save(&item).Error; err != nil {
				return err
			}
		}

		if err := tx.Where("cart_id = ?", guestCart.CartID).Delete(&models.GuestCartItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&guestCart).Error
	})
	if err != nil {
		return false, fmt.Errorf("merge guest cart: %w", err)
	}
	return true, nil
}
