package orderControllers

import (
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Comfortablydumbb/grocery-Project/apperrors"
	"github.com/Comfortablydumbb/grocery-Project/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(
		&models.User{}, &models.Product{}, &models.Category{},
		&models.Cart{}, &models.CartItem{},
		&models.Order{}, &models.OrderItem{}, &models.QRFile{},
	))
	return db
}

func seedProduct(t *testing.T, db *gorm.DB, name string, price float64, stock int) models.Product {
	t.Helper()
	p := models.Product{
		ProductName:    name,
		Price:          price,
		Unit:           "kg",
		TotalUnits:     stock,
		RemainingUnits: stock,
	}
	require.NoError(t, db.Create(&p).Error)
	return p
}

func seedCartLine(t *testing.T, db *gorm.DB, userID string, productID uint, quantity int) {
	t.Helper()
	var cart models.Cart
	require.NoError(t, db.Where(models.Cart{UserID: userID}).FirstOrCreate(&cart).Error)
	require.NoError(t, db.Create(&models.CartItem{
		CartID:    cart.CartID,
		ProductID: productID,
		Quantity:  quantity,
		AddedAt:   time.Now(),
	}).Error)
}

func checkoutRequest(selections []OrderSelection, method string) PlaceOrderRequest {
	return PlaceOrderRequest{
		Selections:      selections,
		DeliveryAddress: "12 Market St",
		Phone:           "012345678",
		PaymentMethod:   method,
	}
}

func productInvariant(t *testing.T, db *gorm.DB, productID uint) models.Product {
	t.Helper()
	var p models.Product
	require.NoError(t, db.First(&p, productID).Error)
	assert.Equal(t, p.TotalUnits, p.RemainingUnits+p.SoldUnits,
		"remaining + sold must equal total for product %d", productID)
	assert.GreaterOrEqual(t, p.RemainingUnits, 0)
	return p
}

func TestPlaceOrderDecrementsStockAndPrunesCart(t *testing.T) {
	db := newTestDB(t)
	p := seedProduct(t, db, "Rice", 2.00, 5)
	seedCartLine(t, db, "u1", p.ID, 3)

	result, err := PlaceOrder(db, "u1", checkoutRequest(
		[]OrderSelection{{ProductID: p.ID, Quantity: 3}}, "cash"))
	require.NoError(t, err)
	assert.NotZero(t, result.OrderID)
	assert.NotEmpty(t, result.OrderRef)
	assert.Equal(t, 6.00, result.TotalAmount)
	assert.Equal(t, models.PaymentStatusPending, result.PaymentStatus)

	fresh := productInvariant(t, db, p.ID)
	assert.Equal(t, 2, fresh.RemainingUnits)
	assert.Equal(t, 3, fresh.SoldUnits)

	var lines int64
	require.NoError(t, db.Model(&models.CartItem{}).Count(&lines).Error)
	assert.Zero(t, lines, "ordered cart line must be pruned")

	var order models.Order
	require.NoError(t, db.Preload("Items").First(&order, result.OrderID).Error)
	assert.Equal(t, models.OrderStatusPending, order.Status)
	require.Len(t, order.Items, 1)
	assert.Equal(t, 2.00, order.Items[0].UnitPrice)
	assert.Equal(t, 6.00, order.Items[0].LineTotal)
}

func TestPlaceOrderSnapshotsDiscountedPrice(t *testing.T) {
	db := newTestDB(t)
	p := seedProduct(t, db, "Mangoes", 4.00, 10)
	require.NoError(t, db.Model(&models.Product{}).Where("id = ?", p.ID).
		Update("discount", 25).Error)
	seedCartLine(t, db, "u1", p.ID, 2)

	result, err := PlaceOrder(db, "u1", checkoutRequest(
		[]OrderSelection{{ProductID: p.ID, Quantity: 2}}, "cash"))
	require.NoError(t, err)
	assert.Equal(t, 6.00, result.TotalAmount)

	// Later price changes never touch the snapshot.
	require.NoError(t, db.Model(&models.Product{}).Where("id = ?", p.ID).
		Updates(map[string]interface{}{"price": 99.0, "discount": 0}).Error)
	var order models.Order
	require.NoError(t, db.Preload("Items").First(&order, result.OrderID).Error)
	assert.Equal(t, 3.00, order.Items[0].UnitPrice)
	assert.Equal(t, 6.00, order.Items[0].LineTotal)
}

func TestPlaceOrderPartialSelectionKeepsRest(t *testing.T) {
	db := newTestDB(t)
	ordered := seedProduct(t, db, "Rice", 2.00, 5)
	kept := seedProduct(t, db, "Beans", 1.00, 5)
	seedCartLine(t, db, "u1", ordered.ID, 2)
	seedCartLine(t, db, "u1", kept.ID, 1)

	_, err := PlaceOrder(db, "u1", checkoutRequest(
		[]OrderSelection{{ProductID: ordered.ID, Quantity: 2}}, "cash"))
	require.NoError(t, err)

	var remaining []models.CartItem
	require.NoError(t, db.Find(&remaining).Error)
	require.Len(t, remaining, 1)
	assert.Equal(t, kept.ID, remaining[0].ProductID)
}

func TestPlaceOrderInsufficientStock(t *testing.T) {
	db := newTestDB(t)
	p := seedProduct(t, db, "Rice", 2.00, 2)
	seedCartLine(t, db, "u1", p.ID, 3)

	_, err := PlaceOrder(db, "u1", checkoutRequest(
		[]OrderSelection{{ProductID: p.ID, Quantity: 3}}, "cash"))
	var appErr *apperrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.KindInsufficientStock, appErr.Kind)
	assert.Contains(t, appErr.Message, "Rice")
	assert.Equal(t, 2, appErr.Details["available_stock"])

	productInvariant(t, db, p.ID)
}

func TestPlaceOrderRollsBackEarlierDecrements(t *testing.T) {
	db := newTestDB(t)
	first := seedProduct(t, db, "Rice", 2.00, 5)
	second := seedProduct(t, db, "Beans", 1.00, 1)
	third := seedProduct(t, db, "Salt", 0.50, 5)
	seedCartLine(t, db, "u1", first.ID, 2)
	seedCartLine(t, db, "u1", second.ID, 3) // over stock
	seedCartLine(t, db, "u1", third.ID, 1)

	_, err := PlaceOrder(db, "u1", checkoutRequest([]OrderSelection{
		{ProductID: first.ID, Quantity: 2},
		{ProductID: second.ID, Quantity: 3},
		{ProductID: third.ID, Quantity: 1},
	}, "cash"))
	var appErr *apperrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.KindInsufficientStock, appErr.Kind)

	// The first product's decrement must not survive the failure.
	fresh := productInvariant(t, db, first.ID)
	assert.Equal(t, 5, fresh.RemainingUnits)
	assert.Equal(t, 0, fresh.SoldUnits)

	var orders, lines int64
	require.NoError(t, db.Model(&models.Order{}).Count(&orders).Error)
	require.NoError(t, db.Model(&models.CartItem{}).Count(&lines).Error)
	assert.Zero(t, orders, "no order may be created on failure")
	assert.Equal(t, int64(3), lines, "cart must stay intact on failure")
}

func TestPlaceOrderSequentialOverdraw(t *testing.T) {
	db := newTestDB(t)
	p := seedProduct(t, db, "Rice", 2.00, 5)
	seedCartLine(t, db, "u1", p.ID, 3)
	seedCartLine(t, db, "u2", p.ID, 3)

	_, err := PlaceOrder(db, "u1", checkoutRequest(
		[]OrderSelection{{ProductID: p.ID, Quantity: 3}}, "cash"))
	require.NoError(t, err)

	// 2 units left; the second order of 3 must fail, never going negative.
	_, err = PlaceOrder(db, "u2", checkoutRequest(
		[]OrderSelection{{ProductID: p.ID, Quantity: 3}}, "cash"))
	var appErr *apperrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.KindInsufficientStock, appErr.Kind)
	// The reported count is the one the failed decrement saw.
	assert.Equal(t, 2, appErr.Details["available_stock"])

	fresh := productInvariant(t, db, p.ID)
	assert.Equal(t, 2, fresh.RemainingUnits)
}

func TestPlaceOrderConcurrentPlacements(t *testing.T) {
	db := newTestDB(t)
	p := seedProduct(t, db, "Rice", 2.00, 5)
	users := []string{"u1", "u2", "u3"}
	for _, u := range users {
		seedCartLine(t, db, u, p.ID, 2)
	}

	// Stock 5, three racing orders of 2: exactly two can fit, and
	// remaining units must never go negative.
	errs := make(chan error, len(users))
	var wg sync.WaitGroup
	for _, u := range users {
		wg.Add(1)
		go func(userID string) {
			defer wg.Done()
			_, err := PlaceOrder(db, userID, checkoutRequest(
				[]OrderSelection{{ProductID: p.ID, Quantity: 2}}, "cash"))
			errs <- err
		}(u)
	}
	wg.Wait()
	close(errs)

	var placed, rejected int
	for err := range errs {
		if err == nil {
			placed++
			continue
		}
		rejected++
		var appErr *apperrors.Error
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, apperrors.KindInsufficientStock, appErr.Kind)
	}
	assert.Equal(t, 2, placed)
	assert.Equal(t, 1, rejected)

	fresh := productInvariant(t, db, p.ID)
	assert.Equal(t, 1, fresh.RemainingUnits)
	assert.Equal(t, 4, fresh.SoldUnits)

	var orders int64
	require.NoError(t, db.Model(&models.Order{}).Count(&orders).Error)
	assert.Equal(t, int64(2), orders)
}

func TestPlaceOrderValidation(t *testing.T) {
	db := newTestDB(t)
	p := seedProduct(t, db, "Rice", 2.00, 5)
	seedCartLine(t, db, "u1", p.ID, 1)
	sel := []OrderSelection{{ProductID: p.ID, Quantity: 1}}

	cases := []struct {
		name string
		req  PlaceOrderRequest
		kind apperrors.Kind
	}{
		{"missing address", PlaceOrderRequest{Selections: sel, Phone: "1", PaymentMethod: "cash"}, apperrors.KindInvalidInput},
		{"missing phone", PlaceOrderRequest{Selections: sel, DeliveryAddress: "a", PaymentMethod: "cash"}, apperrors.KindInvalidInput},
		{"bad method", checkoutRequest(sel, "card"), apperrors.KindInvalidInput},
		{"no selections", checkoutRequest(nil, "cash"), apperrors.KindInvalidInput},
		{"duplicate selection", checkoutRequest([]OrderSelection{
			{ProductID: p.ID, Quantity: 1}, {ProductID: p.ID, Quantity: 1}}, "cash"), apperrors.KindInvalidInput},
		{"not in cart", checkoutRequest([]OrderSelection{{ProductID: 999, Quantity: 1}}, "cash"), apperrors.KindNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := PlaceOrder(db, "u1", tc.req)
			var appErr *apperrors.Error
			require.ErrorAs(t, err, &appErr)
			assert.Equal(t, tc.kind, appErr.Kind)
		})
	}

	t.Run("no cart", func(t *testing.T) {
		_, err := PlaceOrder(db, "nobody", checkoutRequest(sel, "cash"))
		var appErr *apperrors.Error
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, apperrors.KindNotFound, appErr.Kind)
	})

	t.Run("empty cart", func(t *testing.T) {
		var cart models.Cart
		require.NoError(t, db.Where(models.Cart{UserID: "u3"}).FirstOrCreate(&cart).Error)
		_, err := PlaceOrder(db, "u3", checkoutRequest(sel, "cash"))
		var appErr *apperrors.Error
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, apperrors.KindInvalidInput, appErr.Kind)
	})
}

func TestPlaceOrderQRPayment(t *testing.T) {
	db := newTestDB(t)
	p := seedProduct(t, db, "Rice", 2.00, 5)
	seedCartLine(t, db, "u1", p.ID, 2)
	require.NoError(t, db.Create(&models.QRFile{
		FileName: "store_qr.png",
		FileURL:  "http://localhost:8080/uploads/qr/store_qr.png",
	}).Error)

	result, err := PlaceOrder(db, "u1", checkoutRequest(
		[]OrderSelection{{ProductID: p.ID, Quantity: 2}}, "qr"))
	require.NoError(t, err)

	// QR is a manual transfer: marked paid immediately, no gateway.
	assert.Equal(t, models.PaymentStatusPaid, result.PaymentStatus)
	assert.Contains(t, result.PaymentInstruction, "4.00")
	assert.Contains(t, result.PaymentInstruction, result.OrderRef)
	assert.Equal(t, "http://localhost:8080/uploads/qr/store_qr.png", result.QRImageURL)
}

func TestPlaceOrderCashPayment(t *testing.T) {
	db := newTestDB(t)
	p := seedProduct(t, db, "Rice", 2.00, 5)
	seedCartLine(t, db, "u1", p.ID, 1)

	result, err := PlaceOrder(db, "u1", checkoutRequest(
		[]OrderSelection{{ProductID: p.ID, Quantity: 1}}, "cash"))
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusPending, result.PaymentStatus)
	assert.Empty(t, result.PaymentInstruction)
	assert.Empty(t, result.QRImageURL)
}

func TestOrderRefFormat(t *testing.T) {
	ref := generateOrderRef()
	parts := strings.SplitN(ref, "-", 2)
	require.Len(t, parts, 2)
	_, err := time.Parse("20060102150405", parts[0])
	assert.NoError(t, err)
	assert.NotEmpty(t, parts[1])
}
