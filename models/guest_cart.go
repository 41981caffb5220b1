package models

import "time"

// GuestCart mirrors Cart for visitors that have not signed in yet. It is
// merged into the user cart on login and never participates in checkout.
type GuestCart struct {
	CartID    uint            `gorm:"primaryKey" json:"cart_id"`
	GuestID   string          `gorm:"uniqueIndex" json:"guest_id"` // Enforces ONE cart per guest
	Items     []GuestCartItem `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE" json:"items"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

type GuestCartItem struct {
	ID                  uint      `gorm:"primaryKey" json:"id"`
	CartID              uint      `gorm:"index" json:"cart_id"`
	ProductID           uint      `json:"product_id"`
	ProductEName        string    `json:"product_ename"`
	ProductArName       string    `json:"product_arname"`
	ProductImage        string    `json:"product_image"`
	ProductSalePrice    float64   `json:"product_sale_price"`
	ProductRegularPrice float64   `json:"product_regular_price"`
	StockUnit           StockUnit `json:"stock_unit"`
	Quantity            int       `json:"quantity"`
	AddedAt             time.Time `json:"added_at"`
}

type GuestUser struct {
	ID        string    `gorm:"primaryKey" json:"id"`
	ExpiresAt time.Time `json:"expires_at"`
}
