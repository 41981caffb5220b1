package inventory

import (
	"errors"
	"sync"
	"testing"

	"github.com/aaditya09750/Agroreach-sub000/models"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
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

	require.NoError(t, db.AutoMigrate(&models.Product{}))
	return db
}

func seedProduct(t *testing.T, db *gorm.DB, stock int) models.Product {
	t.Helper()
	p := models.Product{
		EName:         "Alphonso Mango",
		ARName:        "مانجو",
		SalePrice:     4.50,
		StockQuantity: stock,
		StockUnit:     models.UnitKilogram,
		StockStatus:   models.StatusForQuantity(stock),
	}
	require.NoError(t, db.Create(&p).Error)
	return p
}

func TestTryDecrement(t *testing.T) {
	db := newTestDB(t)
	ledger := NewLedger(db)
	p := seedProduct(t, db, 5)

	ok, err := ledger.TryDecrement(p.ID, 3)
	require.NoError(t, err)
	assert.True(t, ok)

	stock, err := ledger.Stock(p.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, stock)

	// Requesting more than available is refused and changes nothing.
	ok, err = ledger.TryDecrement(p.ID, 3)
	require.NoError(t, err)
	assert.False(t, ok)

	stock, err = ledger.Stock(p.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, stock)
}

func TestTryDecrementRejectsNonPositiveAmount(t *testing.T) {
	db := newTestDB(t)
	ledger := NewLedger(db)
	p := seedProduct(t, db, 5)

	_, err := ledger.TryDecrement(p.ID, 0)
	assert.Error(t, err)
	_, err = ledger.TryDecrement(p.ID, -2)
	assert.Error(t, err)
}

func TestStockStatusDerivedOnEveryMutation(t *testing.T) {
	db := newTestDB(t)
	ledger := NewLedger(db)
	p := seedProduct(t, db, 2)

	ok, err := ledger.TryDecrement(p.ID, 2)
	require.NoError(t, err)
	require.True(t, ok)

	var got models.Product
	require.NoError(t, db.First(&got, p.ID).Error)
	assert.Equal(t, 0, got.StockQuantity)
	assert.Equal(t, models.StockStatusOutOfStock, got.StockStatus)

	require.NoError(t, ledger.Increment(p.ID, 1))
	require.NoError(t, db.First(&got, p.ID).Error)
	assert.Equal(t, 1, got.StockQuantity)
	assert.Equal(t, models.StockStatusInStock, got.StockStatus)
}

func TestSetStock(t *testing.T) {
	db := newTestDB(t)
	ledger := NewLedger(db)
	p := seedProduct(t, db, 10)

	require.NoError(t, ledger.SetStock(p.ID, 0))

	var got models.Product
	require.NoError(t, db.First(&got, p.ID).Error)
	assert.Equal(t, 0, got.StockQuantity)
	assert.Equal(t, models.StockStatusOutOfStock, got.StockStatus)

	assert.Error(t, ledger.SetStock(p.ID, -1))
	assert.ErrorIs(t, ledger.SetStock(9999, 5), ErrProductNotFound)
}

func TestIncrementUnknownProduct(t *testing.T) {
	db := newTestDB(t)
	ledger := NewLedger(db)

	assert.ErrorIs(t, ledger.Increment(12345, 1), ErrProductNotFound)
}

func TestDecrementManyAllOrNothing(t *testing.T) {
	db := newTestDB(t)
	ledger := NewLedger(db)
	a := seedProduct(t, db, 10)
	b := seedProduct(t, db, 1)

	err := ledger.DecrementMany([]Demand{
		{ProductID: a.ID, Quantity: 4},
		{ProductID: b.ID, Quantity: 3}, // refused
	})
	require.Error(t, err)

	var insufficient *InsufficientStockError
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, b.ID, insufficient.ProductID)
	assert.Equal(t, 1, insufficient.Available)
	assert.Equal(t, 3, insufficient.Requested)

	// The decrement applied to a must have been rolled back.
	stockA, err := ledger.Stock(a.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, stockA)
	stockB, err := ledger.Stock(b.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, stockB)
}

func TestDecrementManySuccess(t *testing.T) {
	db := newTestDB(t)
	ledger := NewLedger(db)
	a := seedProduct(t, db, 10)
	b := seedProduct(t, db, 5)

	require.NoError(t, ledger.DecrementMany([]Demand{
		{ProductID: b.ID, Quantity: 5},
		{ProductID: a.ID, Quantity: 2},
	}))

	stockA, _ := ledger.Stock(a.ID)
	stockB, _ := ledger.Stock(b.ID)
	assert.Equal(t, 8, stockA)
	assert.Equal(t, 0, stockB)

	var got models.Product
	require.NoError(t, db.First(&got, b.ID).Error)
	assert.Equal(t, models.StockStatusOutOfStock, got.StockStatus)
}

func TestConcurrentDecrementNeverOversells(t *testing.T) {
	db := newTestDB(t)
	ledger := NewLedger(db)
	const stock = 5
	const callers = 25
	p := seedProduct(t, db, stock)

	var wg sync.WaitGroup
	results := make(chan bool, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ok, err := ledger.TryDecrement(p.ID, 1)
			if err != nil {
				t.Error(err)
				return
			}
			results <- ok
		}()
	}
	wg.Wait()
	close(results)

	succeeded := 0
	for ok := range results {
		if ok {
			succeeded++
		}
	}
	assert.Equal(t, stock, succeeded)

	final, err := ledger.Stock(p.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, final)
}

func TestRoundTripConservation(t *testing.T) {
	db := newTestDB(t)
	ledger := NewLedger(db)
	p := seedProduct(t, db, 100)

	decremented, restored := 0, 0
	for i := 1; i <= 5; i++ {
		ok, err := ledger.TryDecrement(p.ID, i)
		require.NoError(t, err)
		require.True(t, ok)
		decremented += i
	}
	for i := 1; i <= 3; i++ {
		require.NoError(t, ledger.Increment(p.ID, i))
		restored += i
	}

	final, err := ledger.Stock(p.ID)
	require.NoError(t, err)
	assert.Equal(t, 100-decremented+restored, final)
}

func TestInsufficientStockErrorUnwrapsThroughJoin(t *testing.T) {
	err := errors.Join(&InsufficientStockError{ProductID: 7, Available: 1, Requested: 2}, nil)
	var insufficient *InsufficientStockError
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, uint(7), insufficient.ProductID)
}
