package services

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/example/narra/internal/config"
	"github.com/example/narra/internal/database"
	"github.com/example/narra/internal/models"
	"github.com/example/narra/internal/utils"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.Migrate(db))
	return db
}

func testConfig() *config.Config {
	return &config.Config{JWTSecret: "test-secret", TokenExpires: time.Hour}
}

func defaultPagination() utils.Pagination {
	return utils.Pagination{Page: 1, Limit: 20, Offset: 0}
}

func checkoutInput() CreateOrderInput {
	return CreateOrderInput{
		Items: []OrderItemInput{{
			ProductName: "Narra Dining Table",
			VariantName: "Walnut Finish",
			Price:       1000,
			Quantity:    2,
		}},
		TotalAmount:     2000,
		DownPayment:     600,
		ShippingAddress: "123 Mango Ave, Cebu City\nContact: 0917 000 0000",
	}
}

func TestCreateOrder(t *testing.T) {
	svc := NewOrderService(setupTestDB(t), testConfig())
	userID := uuid.New()

	order, err := svc.CreateOrder(userID, checkoutInput())
	require.NoError(t, err)

	assert.Equal(t, userID, order.UserID)
	assert.Equal(t, 2000.0, order.TotalAmount)
	assert.Equal(t, 600.0, order.DownPayment)
	assert.Equal(t, 1400.0, order.RemainingBalance)
	assert.Equal(t, models.OrderStatusPending, order.Status)
	assert.Equal(t, models.PaymentStatusDownPaymentPaid, order.PaymentStatus)
	assert.Equal(t, models.DeliveryProcessing, order.DeliveryStatus)
	assert.Nil(t, order.CurrentLocation)
	assert.Nil(t, order.EstimatedDelivery)
	assert.NotEqual(t, uuid.Nil, order.ID)
	assert.Len(t, order.Items, 1)
	assert.Equal(t, "Narra Dining Table", order.Items[0].ProductName)
}

func TestCreateOrderValidation(t *testing.T) {
	svc := NewOrderService(setupTestDB(t), testConfig())
	userID := uuid.New()

	t.Run("empty items", func(t *testing.T) {
		in := checkoutInput()
		in.Items = nil
		_, err := svc.CreateOrder(userID, in)
		var validationErr *ValidationError
		require.ErrorAs(t, err, &validationErr)
	})

	t.Run("total mismatch", func(t *testing.T) {
		in := checkoutInput()
		in.TotalAmount = 9999
		_, err := svc.CreateOrder(userID, in)
		var validationErr *ValidationError
		require.ErrorAs(t, err, &validationErr)
	})

	t.Run("down payment above total", func(t *testing.T) {
		in := checkoutInput()
		in.DownPayment = 2500
		_, err := svc.CreateOrder(userID, in)
		var validationErr *ValidationError
		require.ErrorAs(t, err, &validationErr)
	})

	t.Run("negative down payment", func(t *testing.T) {
		in := checkoutInput()
		in.DownPayment = -1
		_, err := svc.CreateOrder(userID, in)
		var validationErr *ValidationError
		require.ErrorAs(t, err, &validationErr)
	})

	t.Run("zero quantity", func(t *testing.T) {
		in := checkoutInput()
		in.Items[0].Quantity = 0
		_, err := svc.CreateOrder(userID, in)
		var validationErr *ValidationError
		require.ErrorAs(t, err, &validationErr)
	})
}

func TestGetOrderAccess(t *testing.T) {
	svc := NewOrderService(setupTestDB(t), testConfig())
	owner := uuid.New()
	stranger := uuid.New()

	order, err := svc.CreateOrder(owner, checkoutInput())
	require.NoError(t, err)

	t.Run("owner reads own order", func(t *testing.T) {
		got, err := svc.GetOrder(order.ID, owner, false)
		require.NoError(t, err)
		assert.Equal(t, order.ID, got.ID)
	})

	t.Run("repeated reads are identical", func(t *testing.T) {
		first, err := svc.GetOrder(order.ID, owner, false)
		require.NoError(t, err)
		second, err := svc.GetOrder(order.ID, owner, false)
		require.NoError(t, err)
		assert.Equal(t, first, second)
	})

	t.Run("stranger is rejected", func(t *testing.T) {
		_, err := svc.GetOrder(order.ID, stranger, false)
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("admin reads any order", func(t *testing.T) {
		got, err := svc.GetOrder(order.ID, stranger, true)
		require.NoError(t, err)
		assert.Equal(t, order.ID, got.ID)
	})

	t.Run("missing order", func(t *testing.T) {
		_, err := svc.GetOrder(uuid.New(), owner, false)
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestListOrdersForUser(t *testing.T) {
	db := setupTestDB(t)
	svc := NewOrderService(db, testConfig())
	owner := uuid.New()
	stranger := uuid.New()

	older := models.Order{
		UserID:         owner,
		TotalAmount:    1000,
		Status:         models.OrderStatusPending,
		PaymentStatus:  models.PaymentStatusDownPaymentPaid,
		DeliveryStatus: models.DeliveryProcessing,
	}
	older.CreatedAt = time.Now().Add(-time.Hour)
	require.NoError(t, db.Create(&older).Error)

	newer := older
	newer.ID = uuid.Nil
	newer.TotalAmount = 3000
	newer.CreatedAt = time.Now()
	require.NoError(t, db.Create(&newer).Error)

	t.Run("newest first", func(t *testing.T) {
		orders, total, err := svc.ListOrdersForUser(owner, owner, defaultPagination())
		require.NoError(t, err)
		assert.EqualValues(t, 2, total)
		require.Len(t, orders, 2)
		assert.Equal(t, 3000.0, orders[0].TotalAmount)
		assert.Equal(t, 1000.0, orders[1].TotalAmount)
	})

	t.Run("non-owner is rejected", func(t *testing.T) {
		_, _, err := svc.ListOrdersForUser(owner, stranger, defaultPagination())
		assert.ErrorIs(t, err, ErrForbidden)
	})
}

func TestListAllOrders(t *testing.T) {
	svc := NewOrderService(setupTestDB(t), testConfig())

	_, err := svc.CreateOrder(uuid.New(), checkoutInput())
	require.NoError(t, err)

	t.Run("admin lists everything", func(t *testing.T) {
		orders, total, err := svc.ListAllOrders(true, defaultPagination())
		require.NoError(t, err)
		assert.EqualValues(t, 1, total)
		assert.Len(t, orders, 1)
	})

	t.Run("non-admin is rejected", func(t *testing.T) {
		_, _, err := svc.ListAllOrders(false, defaultPagination())
		assert.ErrorIs(t, err, ErrForbidden)
	})
}

func strptr(s string) *string { return &s }

func TestUpdateOrderFields(t *testing.T) {
	svc := NewOrderService(setupTestDB(t), testConfig())
	owner := uuid.New()

	order, err := svc.CreateOrder(owner, checkoutInput())
	require.NoError(t, err)

	t.Run("non-admin is rejected", func(t *testing.T) {
		_, err := svc.UpdateOrderFields(order.ID, false, UpdateOrderInput{Status: strptr(models.OrderStatusConfirmed)})
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("empty update is rejected", func(t *testing.T) {
		_, err := svc.UpdateOrderFields(order.ID, true, UpdateOrderInput{})
		var validationErr *ValidationError
		require.ErrorAs(t, err, &validationErr)
	})

	t.Run("unknown status is rejected", func(t *testing.T) {
		_, err := svc.UpdateOrderFields(order.ID, true, UpdateOrderInput{Status: strptr("shipped-ish")})
		var validationErr *ValidationError
		require.ErrorAs(t, err, &validationErr)
	})

	t.Run("valid delivery transition", func(t *testing.T) {
		updated, err := svc.UpdateOrderFields(order.ID, true, UpdateOrderInput{DeliveryStatus: strptr(models.DeliveryConfirmed)})
		require.NoError(t, err)
		assert.Equal(t, models.DeliveryConfirmed, updated.DeliveryStatus)
	})

	t.Run("backwards delivery transition is rejected", func(t *testing.T) {
		_, err := svc.UpdateOrderFields(order.ID, true, UpdateOrderInput{DeliveryStatus: strptr(models.DeliveryProcessing)})
		var conflictErr *ConflictError
		require.ErrorAs(t, err, &conflictErr)
	})

	t.Run("terminal state is frozen", func(t *testing.T) {
		_, err := svc.UpdateOrderFields(order.ID, true, UpdateOrderInput{DeliveryStatus: strptr(models.DeliveryCancelled)})
		require.NoError(t, err)
		_, err = svc.UpdateOrderFields(order.ID, true, UpdateOrderInput{DeliveryStatus: strptr(models.DeliveryInTransit)})
		var conflictErr *ConflictError
		require.ErrorAs(t, err, &conflictErr)
	})

	t.Run("immutable fields survive updates", func(t *testing.T) {
		got, err := svc.GetOrder(order.ID, owner, false)
		require.NoError(t, err)
		assert.Equal(t, order.UserID, got.UserID)
		assert.Equal(t, order.TotalAmount, got.TotalAmount)
		assert.Equal(t, order.DownPayment, got.DownPayment)
		assert.Len(t, got.Items, 1)
	})
}

func TestUpdateOrderFieldsUnrestricted(t *testing.T) {
	cfg := testConfig()
	cfg.UnrestrictedOrderUpdates = true
	svc := NewOrderService(setupTestDB(t), cfg)

	order, err := svc.CreateOrder(uuid.New(), checkoutInput())
	require.NoError(t, err)

	// legacy mode mirrors the old storefront: any value, no transition checks
	updated, err := svc.UpdateOrderFields(order.ID, true, UpdateOrderInput{
		Status:         strptr("archived"),
		DeliveryStatus: strptr(models.DeliveryDelivered),
	})
	require.NoError(t, err)
	assert.Equal(t, "archived", updated.Status)
	assert.Equal(t, models.DeliveryDelivered, updated.DeliveryStatus)

	updated, err = svc.UpdateOrderFields(order.ID, true, UpdateOrderInput{DeliveryStatus: strptr(models.DeliveryProcessing)})
	require.NoError(t, err)
	assert.Equal(t, models.DeliveryProcessing, updated.DeliveryStatus)
}

func TestSetDeliveryLocation(t *testing.T) {
	svc := NewOrderService(setupTestDB(t), testConfig())
	owner := uuid.New()

	order, err := svc.CreateOrder(owner, checkoutInput())
	require.NoError(t, err)

	t.Run("non-admin is rejected", func(t *testing.T) {
		_, err := svc.SetDeliveryLocation(order.ID, false, 10.3157, 123.8854, "2025-01-10")
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("sets location and forces in_transit", func(t *testing.T) {
		updated, err := svc.SetDeliveryLocation(order.ID, true, 10.3157, 123.8854, "2025-01-10")
		require.NoError(t, err)
		require.NotNil(t, updated.CurrentLocation)
		assert.Equal(t, 10.3157, updated.CurrentLocation.Lat)
		assert.Equal(t, 123.8854, updated.CurrentLocation.Lng)
		assert.Equal(t, models.DeliveryInTransit, updated.DeliveryStatus)
		require.NotNil(t, updated.EstimatedDelivery)
		assert.Equal(t, "2025-01-10", *updated.EstimatedDelivery)
	})

	t.Run("coordinates out of range", func(t *testing.T) {
		_, err := svc.SetDeliveryLocation(order.ID, true, 91, 0, "")
		var validationErr *ValidationError
		require.ErrorAs(t, err, &validationErr)

		_, err = svc.SetDeliveryLocation(order.ID, true, 0, -181, "")
		require.ErrorAs(t, err, &validationErr)
	})

	t.Run("missing order", func(t *testing.T) {
		_, err := svc.SetDeliveryLocation(uuid.New(), true, 10.0, 120.0, "")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("terminal order is rejected", func(t *testing.T) {
		delivered, err := svc.UpdateOrderFields(order.ID, true, UpdateOrderInput{DeliveryStatus: strptr(models.DeliveryDelivered)})
		require.NoError(t, err)
		require.Equal(t, models.DeliveryDelivered, delivered.DeliveryStatus)

		_, err = svc.SetDeliveryLocation(order.ID, true, 10.0, 120.0, "")
		var conflictErr *ConflictError
		require.ErrorAs(t, err, &conflictErr)
	})
}
