package models

import "time"

type Cart struct {
	CartID    uint       `gorm:"primaryKey" json:"cart_id"`
	UserID    string     `gorm:"uniqueIndex" json:"user_id"` // Enforces ONE cart per user
	Items     []CartItem `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE" json:"items"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// CartItem carries a snapshot of the product taken at add/update time so the
// cart keeps displaying what the shopper agreed to. Stock is only consulted
// again at checkout.
type CartItem struct {
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
