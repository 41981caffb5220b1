package models

import (
	"time"

	"gorm.io/gorm"
)

// StockUnit is the unit a product is sold and counted in.
type StockUnit string

const (
	UnitKilogram StockUnit = "kg"
	UnitGram     StockUnit = "gram"
	UnitPiece    StockUnit = "piece"
	UnitDozen    StockUnit = "dozen"
	UnitLitre    StockUnit = "litre"
	UnitBunch    StockUnit = "bunch"
)

// ValidStockUnit reports whether raw names a known stock unit.
func ValidStockUnit(raw string) bool {
	switch StockUnit(raw) {
	case UnitKilogram, UnitGram, UnitPiece, UnitDozen, UnitLitre, UnitBunch:
		return true
	}
	return false
}

type StockStatus string

const (
	StockStatusInStock    StockStatus = "in_stock"
	StockStatusOutOfStock StockStatus = "out_of_stock"
)

// StatusForQuantity derives the stock status from a quantity. It is the only
// place the in/out-of-stock rule lives; every write path that touches
// stock_quantity must go through it (or its SQL equivalent).
func StatusForQuantity(qty int) StockStatus {
	if qty <= 0 {
		return StockStatusOutOfStock
	}
	return StockStatusInStock
}

type Product struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	EName         string         `gorm:"not null;index" json:"ename"`
	ARName        string         `json:"arname"`
	EDescription  string         `json:"edescription"`
	ARDescription string         `json:"ardescription"`
	Image         string         `json:"image"`
	SalePrice     float64        `gorm:"not null" json:"sale_price"`
	RegularPrice  float64        `json:"regular_price"`
	StockQuantity int            `gorm:"not null;default:0" json:"stock_quantity"`
	StockUnit     StockUnit      `gorm:"type:VARCHAR(10);default:'piece'" json:"stock_unit"`
	StockStatus   StockStatus    `gorm:"type:VARCHAR(15);default:'out_of_stock'" json:"stock_status"`
	Categories    []Category     `gorm:"many2many:product_categories;" json:"categories"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}
