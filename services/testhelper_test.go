package services

import (
	"testing"

	"github.com/aaditya09750/Agroreach-sub000/inventory"
	"github.com/aaditya09750/Agroreach-sub000/models"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	// sqlite allows a single writer; funnel everything through one
	// connection so concurrent test goroutines serialize instead of
	// tripping over busy errors.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Product{},
		&models.Category{},
		&models.Cart{},
		&models.CartItem{},
		&models.GuestUser{},
		&models.GuestCart{},
		&models.GuestCartItem{},
		&models.Order{},
		&models.OrderItem{},
		&models.OrderCounter{},
	))
	return db
}

type testApp struct {
	db        *gorm.DB
	ledger    *inventory.Ledger
	sequencer *OrderSequencer
	carts     *CartStore
	orders    *OrderService
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	db := newTestDB(t)
	ledger := inventory.NewLedger(db)
	sequencer := NewOrderSequencer(db)
	carts := NewCartStore(db)
	return &testApp{
		db:        db,
		ledger:    ledger,
		sequencer: sequencer,
		carts:     carts,
		orders:    NewOrderService(db, ledger, sequencer, carts, nil),
	}
}

func (a *testApp) createUser(t *testing.T, id string) models.User {
	t.Helper()
	user := models.User{ID: id, Email: id + "@example.com", Name: "Test " + id}
	require.NoError(t, a.db.Create(&user).Error)
	return user
}

func (a *testApp) createProduct(t *testing.T, name string, price float64, stock int) models.Product {
	t.Helper()
	p := models.Product{
		EName:         name,
		SalePrice:     price,
		StockQuantity: stock,
		StockUnit:     models.UnitKilogram,
		StockStatus:   models.StatusForQuantity(stock),
	}
	require.NoError(t, a.db.Create(&p).Error)
	return p
}

func (a *testApp) stockOf(t *testing.T, productID uint) int {
	t.Helper()
	stock, err := a.ledger.Stock(productID)
	require.NoError(t, err)
	return stock
}

func (a *testApp) addToCart(t *testing.T, userID string, productID uint, qty int) {
	t.Helper()
	_, err := a.carts.UpsertItem(userID, productID, qty)
	require.NoError(t, err)
}

func (a *testApp) placeOrder(t *testing.T, userID string) *models.Order {
	t.Helper()
	order, err := a.orders.PlaceOrder(PlaceOrderInput{
		UserID:        userID,
		PaymentMethod: "cod",
		Subtotal:      10,
		ShippingCost:  2,
		Tax:           0.5,
		TotalAmount:   12.5,
		BillingAddress: models.Address{
			Country: "AE", City: "Dubai", Street: "1 Harvest Rd", PostalCode: "00000",
		},
	})
	require.NoError(t, err)
	return order
}
