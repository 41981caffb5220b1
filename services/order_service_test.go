package services

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/aaditya09750/Agroreach-sub000/inventory"
	"github.com/aaditya09750/Agroreach-sub000/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlaceOrderHappyPath(t *testing.T) {
	app := newTestApp(t)
	app.createUser(t, "u1")
	p := app.createProduct(t, "Sweet Corn", 1.2, 5)
	app.addToCart(t, "u1", p.ID, 2)

	order := app.placeOrder(t, "u1")

	assert.Equal(t, models.OrderStatusPending, order.Status)
	assert.Equal(t, fmt.Sprintf("ORD-%d-00001", time.Now().Year()), order.OrderRef)
	require.Len(t, order.Items, 1)
	assert.Equal(t, p.ID, order.Items[0].ProductID)
	assert.Equal(t, "Sweet Corn", order.Items[0].ProductEName)
	assert.Equal(t, 1.2, order.Items[0].ProductSalePrice)
	assert.Equal(t, 2, order.Items[0].Quantity)

	// Stock decremented, cart emptied.
	assert.Equal(t, 3, app.stockOf(t, p.ID))
	cart, err := app.carts.Get("u1")
	require.NoError(t, err)
	assert.Empty(t, cart.Items)

	// Order is durably readable by its reference.
	got, err := app.orders.GetOrder(order.OrderRef)
	require.NoError(t, err)
	assert.Equal(t, order.ID, got.ID)
}

func TestPlaceOrderItemsSnapshotProductAtCheckout(t *testing.T) {
	app := newTestApp(t)
	app.createUser(t, "u1")
	p := app.createProduct(t, "Zucchini", 2.0, 5)
	app.addToCart(t, "u1", p.ID, 1)

	// Catalog edit between add-to-cart and checkout: the order item takes
	// the product as it exists at order-creation time.
	require.NoError(t, app.db.Model(&models.Product{}).Where("id = ?", p.ID).
		Updates(map[string]interface{}{"sale_price": 2.75, "e_name": "Organic Zucchini"}).Error)

	order := app.placeOrder(t, "u1")
	require.Len(t, order.Items, 1)
	assert.Equal(t, "Organic Zucchini", order.Items[0].ProductEName)
	assert.Equal(t, 2.75, order.Items[0].ProductSalePrice)

	// And later edits never alter the persisted snapshot.
	require.NoError(t, app.db.Model(&models.Product{}).Where("id = ?", p.ID).
		Update("sale_price", 99.0).Error)
	got, err := app.orders.GetOrder(order.OrderRef)
	require.NoError(t, err)
	assert.Equal(t, 2.75, got.Items[0].ProductSalePrice)
}

func TestPlaceOrderEmptyCart(t *testing.T) {
	app := newTestApp(t)
	app.createUser(t, "u1")

	_, err := app.orders.PlaceOrder(PlaceOrderInput{UserID: "u1", PaymentMethod: "cod"})
	assert.ErrorIs(t, err, ErrEmptyCart)
}

func TestPlaceOrderNegativeTotals(t *testing.T) {
	app := newTestApp(t)
	app.createUser(t, "u1")
	p := app.createProduct(t, "Peas", 2.0, 5)
	app.addToCart(t, "u1", p.ID, 1)

	_, err := app.orders.PlaceOrder(PlaceOrderInput{
		UserID: "u1", PaymentMethod: "cod", TotalAmount: -1,
	})
	assert.ErrorIs(t, err, ErrInvalidTotals)
	assert.Equal(t, 5, app.stockOf(t, p.ID))
}

func TestPlaceOrderInsufficientStock(t *testing.T) {
	app := newTestApp(t)
	app.createUser(t, "u1")
	p := app.createProduct(t, "Saffron", 30.0, 1)
	app.addToCart(t, "u1", p.ID, 3)

	_, err := app.orders.PlaceOrder(PlaceOrderInput{UserID: "u1", PaymentMethod: "cod"})
	var insufficient *inventory.InsufficientStockError
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, p.ID, insufficient.ProductID)
	assert.Equal(t, 1, insufficient.Available)
	assert.Equal(t, 3, insufficient.Requested)

	// Nothing happened: stock untouched, cart intact, no order persisted.
	assert.Equal(t, 1, app.stockOf(t, p.ID))
	cart, err := app.carts.Get("u1")
	require.NoError(t, err)
	assert.Len(t, cart.Items, 1)
	var count int64
	require.NoError(t, app.db.Model(&models.Order{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestPlaceOrderOutOfStock(t *testing.T) {
	app := newTestApp(t)
	app.createUser(t, "u1")
	p := app.createProduct(t, "Truffle", 90.0, 1)
	app.addToCart(t, "u1", p.ID, 1)

	// Product sells out between add-to-cart and checkout.
	require.NoError(t, app.ledger.SetStock(p.ID, 0))

	_, err := app.orders.PlaceOrder(PlaceOrderInput{UserID: "u1", PaymentMethod: "cod"})
	var outOfStock *OutOfStockError
	require.ErrorAs(t, err, &outOfStock)
	assert.Equal(t, p.ID, outOfStock.ProductID)
}

func TestPlaceOrderMultiProductFailureLeavesNoPartialDecrement(t *testing.T) {
	app := newTestApp(t)
	app.createUser(t, "u1")
	a := app.createProduct(t, "Carrots", 1.0, 10)
	b := app.createProduct(t, "Leeks", 2.0, 10)
	app.addToCart(t, "u1", a.ID, 4)
	app.addToCart(t, "u1", b.ID, 2)

	// Another shopper drains product b after our pre-check data was seeded.
	require.NoError(t, app.ledger.SetStock(b.ID, 1))

	_, err := app.orders.PlaceOrder(PlaceOrderInput{UserID: "u1", PaymentMethod: "cod"})
	var insufficient *inventory.InsufficientStockError
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, b.ID, insufficient.ProductID)

	assert.Equal(t, 10, app.stockOf(t, a.ID))
	assert.Equal(t, 1, app.stockOf(t, b.ID))
}

func TestConcurrentCheckoutLastUnits(t *testing.T) {
	app := newTestApp(t)
	app.createUser(t, "u1")
	app.createUser(t, "u2")
	p := app.createProduct(t, "Honey Jar", 12.0, 3)
	app.addToCart(t, "u1", p.ID, 2)
	app.addToCart(t, "u2", p.ID, 2)

	type result struct {
		order *models.Order
		err   error
	}
	results := make(chan result, 2)
	var wg sync.WaitGroup
	for _, user := range []string{"u1", "u2"} {
		wg.Add(1)
		go func(userID string) {
			defer wg.Done()
			order, err := app.orders.PlaceOrder(PlaceOrderInput{
				UserID: userID, PaymentMethod: "cod",
			})
			results <- result{order, err}
		}(user)
	}
	wg.Wait()
	close(results)

	var succeeded, failed int
	for r := range results {
		if r.err == nil {
			succeeded++
			continue
		}
		failed++
		var insufficient *inventory.InsufficientStockError
		require.ErrorAs(t, r.err, &insufficient)
		assert.Equal(t, 2, insufficient.Requested)
	}

	// Exactly one order wins the last units; stock ends at 1, never below 0.
	assert.Equal(t, 1, succeeded)
	assert.Equal(t, 1, failed)
	assert.Equal(t, 1, app.stockOf(t, p.ID))
}

func TestUpdateStatusLifecycle(t *testing.T) {
	app := newTestApp(t)
	app.createUser(t, "u1")
	p := app.createProduct(t, "Barley", 0.8, 10)
	app.addToCart(t, "u1", p.ID, 2)
	order := app.placeOrder(t, "u1")

	updated, err := app.orders.UpdateStatus(order.OrderRef, models.OrderStatusProcessing, "")
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusProcessing, updated.Status)

	updated, err = app.orders.UpdateStatus(order.OrderRef, models.OrderStatusShipped, "TRACK-42")
	require.NoError(t, err)
	assert.Equal(t, "TRACK-42", updated.TrackingNumber)

	updated, err = app.orders.UpdateStatus(order.OrderRef, models.OrderStatusDelivered, "")
	require.NoError(t, err)
	require.NotNil(t, updated.DeliveredAt)
	assert.WithinDuration(t, time.Now(), *updated.DeliveredAt, 5*time.Second)

	// Delivery never touches stock.
	assert.Equal(t, 8, app.stockOf(t, p.ID))
}

func TestUpdateStatusRejectsInvalidTransitions(t *testing.T) {
	app := newTestApp(t)
	app.createUser(t, "u1")
	p := app.createProduct(t, "Oats", 0.9, 10)
	app.addToCart(t, "u1", p.ID, 1)
	order := app.placeOrder(t, "u1")

	// Skipping forward and moving backward are both rejected.
	for _, target := range []models.OrderStatus{models.OrderStatusShipped, models.OrderStatusDelivered} {
		_, err := app.orders.UpdateStatus(order.OrderRef, target, "")
		var invalid *InvalidTransitionError
		require.ErrorAs(t, err, &invalid)
		assert.Equal(t, models.OrderStatusPending, invalid.From)
	}

	_, err := app.orders.UpdateStatus("ORD-2026-99999", models.OrderStatusProcessing, "")
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestTerminalStatesRejectEveryTransition(t *testing.T) {
	app := newTestApp(t)
	app.createUser(t, "u1")

	targets := []models.OrderStatus{
		models.OrderStatusPending, models.OrderStatusProcessing,
		models.OrderStatusShipped, models.OrderStatusDelivered,
		models.OrderStatusCancelled,
	}

	// Delivered order.
	a := app.createProduct(t, "Quinoa", 5.0, 10)
	app.addToCart(t, "u1", a.ID, 1)
	delivered := app.placeOrder(t, "u1")
	for _, next := range []models.OrderStatus{models.OrderStatusProcessing, models.OrderStatusShipped, models.OrderStatusDelivered} {
		_, err := app.orders.UpdateStatus(delivered.OrderRef, next, "")
		require.NoError(t, err)
	}

	// Cancelled order.
	app.addToCart(t, "u1", a.ID, 1)
	cancelled := app.placeOrder(t, "u1")
	_, err := app.orders.CancelOrder(cancelled.OrderRef, "u1")
	require.NoError(t, err)

	for _, ref := range []string{delivered.OrderRef, cancelled.OrderRef} {
		for _, target := range targets {
			_, err := app.orders.UpdateStatus(ref, target, "")
			var invalid *InvalidTransitionError
			assert.ErrorAs(t, err, &invalid, "from terminal order %s to %s", ref, target)
		}
	}
}

func TestCancelRestoresStockExactlyOnce(t *testing.T) {
	app := newTestApp(t)
	app.createUser(t, "u1")
	p := app.createProduct(t, "Apricots", 4.0, 10)
	app.addToCart(t, "u1", p.ID, 2)
	order := app.placeOrder(t, "u1")

	_, err := app.orders.UpdateStatus(order.OrderRef, models.OrderStatusProcessing, "")
	require.NoError(t, err)
	assert.Equal(t, 8, app.stockOf(t, p.ID))

	cancelledOrder, err := app.orders.CancelOrder(order.OrderRef, "u1")
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusCancelled, cancelledOrder.Status)
	assert.Equal(t, 10, app.stockOf(t, p.ID))

	// Cancelling again is reported, and restores nothing a second time.
	_, err = app.orders.CancelOrder(order.OrderRef, "u1")
	var notCancellable *NotCancellableError
	require.ErrorAs(t, err, &notCancellable)
	assert.Equal(t, models.OrderStatusCancelled, notCancellable.Current)
	assert.Equal(t, 10, app.stockOf(t, p.ID))
}

func TestCancelDeliveredOrder(t *testing.T) {
	app := newTestApp(t)
	app.createUser(t, "u1")
	p := app.createProduct(t, "Pears", 3.0, 10)
	app.addToCart(t, "u1", p.ID, 1)
	order := app.placeOrder(t, "u1")

	for _, next := range []models.OrderStatus{models.OrderStatusProcessing, models.OrderStatusShipped, models.OrderStatusDelivered} {
		_, err := app.orders.UpdateStatus(order.OrderRef, next, "")
		require.NoError(t, err)
	}

	_, err := app.orders.CancelOrder(order.OrderRef, "u1")
	var notCancellable *NotCancellableError
	require.ErrorAs(t, err, &notCancellable)
	assert.Equal(t, models.OrderStatusDelivered, notCancellable.Current)
	assert.Equal(t, 9, app.stockOf(t, p.ID))
}

func TestCancelOwnership(t *testing.T) {
	app := newTestApp(t)
	app.createUser(t, "u1")
	app.createUser(t, "u2")
	p := app.createProduct(t, "Plums", 3.5, 10)
	app.addToCart(t, "u1", p.ID, 1)
	order := app.placeOrder(t, "u1")

	_, err := app.orders.CancelOrder(order.OrderRef, "u2")
	assert.ErrorIs(t, err, ErrNotOrderOwner)

	// Admin authority (empty requesting user) may cancel anyone's order.
	_, err = app.orders.CancelOrder(order.OrderRef, "")
	require.NoError(t, err)
}

func TestConcurrentCancelRestoresOnce(t *testing.T) {
	app := newTestApp(t)
	app.createUser(t, "u1")
	p := app.createProduct(t, "Cherries", 8.0, 10)
	app.addToCart(t, "u1", p.ID, 4)
	order := app.placeOrder(t, "u1")
	require.Equal(t, 6, app.stockOf(t, p.ID))

	const callers = 8
	var wg sync.WaitGroup
	errs := make(chan error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := app.orders.CancelOrder(order.OrderRef, "u1")
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	var succeeded, rejected int
	for err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		rejected++
		var notCancellable *NotCancellableError
		assert.ErrorAs(t, err, &notCancellable)
	}

	assert.Equal(t, 1, succeeded)
	assert.Equal(t, callers-1, rejected)
	// The four units come back exactly once.
	assert.Equal(t, 10, app.stockOf(t, p.ID))
}

func TestRoundTripConservationAcrossOrders(t *testing.T) {
	app := newTestApp(t)
	app.createUser(t, "u1")
	p := app.createProduct(t, "Walnuts", 11.0, 20)

	app.addToCart(t, "u1", p.ID, 3)
	first := app.placeOrder(t, "u1")
	app.addToCart(t, "u1", p.ID, 5)
	app.placeOrder(t, "u1")
	require.Equal(t, 12, app.stockOf(t, p.ID))

	_, err := app.orders.CancelOrder(first.OrderRef, "u1")
	require.NoError(t, err)

	// before - after == decremented - restored: 20 - 15 == (3+5) - 3
	assert.Equal(t, 15, app.stockOf(t, p.ID))
}
