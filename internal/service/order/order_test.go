package order

import (
	"context"
	"testing"

	"github.com/ateliermarket/boutique/internal/config"
	"github.com/ateliermarket/boutique/internal/models"
	"github.com/ateliermarket/boutique/internal/service/errs"
	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, config.Migrate(db))
	return db
}

func newTestService(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	return NewService(db, node), db
}

func seedProduct(t *testing.T, db *gorm.DB, name string, price float64, stock int) models.Product {
	t.Helper()
	p := models.Product{Name: name, Price: price, Stock: stock, Status: models.ProductActive, Image: name + ".jpg"}
	require.NoError(t, db.Create(&p).Error)
	return p
}

func placeRequest(items ...PlaceItem) PlaceRequest {
	return PlaceRequest{
		Items:         items,
		PaymentMethod: models.PaymentMethodCard,
		Address: BillingAddress{
			Name:    "Asha Rao",
			Phone:   "9999999999",
			Line1:   "12 Rose Lane",
			City:    "Pune",
			Pincode: "411001",
		},
	}
}

func TestPlaceOrderDeductsStock(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()

	p := seedProduct(t, db, "silk scarf", 120, 5)
	require.NoError(t, db.Create(&models.CartItem{UserID: 7, ProductID: p.ID, Quantity: 2}).Error)

	o, err := svc.Place(ctx, 7, placeRequest(PlaceItem{ProductID: p.ID, Quantity: 2}))
	require.NoError(t, err)

	require.Equal(t, models.OrderStatusPending, o.Status)
	require.Equal(t, models.PaymentUnpaid, o.PaymentStatus)
	require.Equal(t, float64(240), o.TotalAmount)
	require.Contains(t, o.OrderNumber, "ORD-")
	require.Len(t, o.Items, 1)
	require.Equal(t, "silk scarf", o.Items[0].Name)
	require.Equal(t, float64(120), o.Items[0].Price)
	require.Equal(t, "silk scarf.jpg", o.Items[0].Image)

	var got models.Product
	require.NoError(t, db.First(&got, p.ID).Error)
	require.Equal(t, 3, got.Stock)

	// purchased line left the cart
	var carts int64
	require.NoError(t, db.Model(&models.CartItem{}).Where("user_id = ?", 7).Count(&carts).Error)
	require.Zero(t, carts)
}

func TestPlaceOrderInsufficientStock(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()

	a := seedProduct(t, db, "linen shirt", 80, 5)
	b := seedProduct(t, db, "velvet clutch", 150, 1)

	_, err := svc.Place(ctx, 1, placeRequest(
		PlaceItem{ProductID: a.ID, Quantity: 3},
		PlaceItem{ProductID: b.ID, Quantity: 2},
	))
	require.ErrorIs(t, err, errs.ErrConflict)
	require.Contains(t, err.Error(), "velvet clutch")
	require.Contains(t, err.Error(), "Only 1 left")

	// nothing was deducted for either product
	var gotA, gotB models.Product
	require.NoError(t, db.First(&gotA, a.ID).Error)
	require.NoError(t, db.First(&gotB, b.ID).Error)
	require.Equal(t, 5, gotA.Stock)
	require.Equal(t, 1, gotB.Stock)

	var orders int64
	require.NoError(t, db.Model(&models.Order{}).Count(&orders).Error)
	require.Zero(t, orders)
}

func TestPlaceOrderUnknownProduct(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Place(context.Background(), 1, placeRequest(PlaceItem{ProductID: 99, Quantity: 1}))
	require.ErrorIs(t, err, errs.ErrNotFound)
}

func TestPlaceOrderValidation(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()
	p := seedProduct(t, db, "tote", 40, 3)

	_, err := svc.Place(ctx, 1, placeRequest())
	require.ErrorIs(t, err, errs.ErrValidation)

	_, err = svc.Place(ctx, 1, placeRequest(PlaceItem{ProductID: p.ID, Quantity: 0}))
	require.ErrorIs(t, err, errs.ErrValidation)

	req := placeRequest(PlaceItem{ProductID: p.ID, Quantity: 1})
	req.PaymentMethod = "cheque"
	_, err = svc.Place(ctx, 1, req)
	require.ErrorIs(t, err, errs.ErrValidation)
}

func TestLineItemsSurviveProductEdit(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()

	p := seedProduct(t, db, "wool coat", 300, 4)
	o, err := svc.Place(ctx, 2, placeRequest(PlaceItem{ProductID: p.ID, Quantity: 1}))
	require.NoError(t, err)

	require.NoError(t, db.Model(&models.Product{}).Where("id = ?", p.ID).
		Updates(map[string]interface{}{"name": "renamed coat", "price": 999}).Error)

	got, err := svc.Get(ctx, o.ID)
	require.NoError(t, err)
	require.Equal(t, "wool coat", got.Items[0].Name)
	require.Equal(t, float64(300), got.Items[0].Price)
	require.Equal(t, float64(300), got.TotalAmount)
}

func TestCancelRestoresStock(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()

	p := seedProduct(t, db, "beret", 25, 5)
	o, err := svc.Place(ctx, 3, placeRequest(PlaceItem{ProductID: p.ID, Quantity: 2}))
	require.NoError(t, err)

	require.NoError(t, svc.Cancel(ctx, 3, o.ID))

	var got models.Product
	require.NoError(t, db.First(&got, p.ID).Error)
	require.Equal(t, 5, got.Stock)

	var orders, items int64
	require.NoError(t, db.Model(&models.Order{}).Count(&orders).Error)
	require.NoError(t, db.Model(&models.OrderItem{}).Count(&items).Error)
	require.Zero(t, orders)
	require.Zero(t, items)
}

func TestCancelShippedRejected(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()

	p := seedProduct(t, db, "loafers", 90, 5)
	o, err := svc.Place(ctx, 4, placeRequest(PlaceItem{ProductID: p.ID, Quantity: 1}))
	require.NoError(t, err)
	require.NoError(t, db.Model(&models.Order{}).Where("id = ?", o.ID).
		Update("status", models.OrderStatusShipped).Error)

	err = svc.Cancel(ctx, 4, o.ID)
	require.ErrorIs(t, err, errs.ErrConflict)

	var got models.Product
	require.NoError(t, db.First(&got, p.ID).Error)
	require.Equal(t, 4, got.Stock)

	_, err = svc.Get(ctx, o.ID)
	require.NoError(t, err)
}

func TestCancelOtherUsersOrder(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()

	p := seedProduct(t, db, "sun hat", 30, 2)
	o, err := svc.Place(ctx, 5, placeRequest(PlaceItem{ProductID: p.ID, Quantity: 1}))
	require.NoError(t, err)

	err = svc.Cancel(ctx, 6, o.ID)
	require.ErrorIs(t, err, errs.ErrNotFound)
}

func TestUpdateStatusFlow(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()

	p := seedProduct(t, db, "kimono", 200, 3)
	o, err := svc.Place(ctx, 8, placeRequest(PlaceItem{ProductID: p.ID, Quantity: 1}))
	require.NoError(t, err)

	for _, status := range []string{
		models.OrderStatusConfirmed,
		models.OrderStatusShipped,
		models.OrderStatusDelivered,
	} {
		o, err = svc.UpdateStatus(ctx, o.ID, status)
		require.NoError(t, err)
		require.Equal(t, status, o.Status)
	}
	require.NotNil(t, o.DeliveredAt)

	_, err = svc.UpdateStatus(ctx, o.ID, models.OrderStatusPending)
	require.ErrorIs(t, err, errs.ErrConflict)

	_, err = svc.UpdateStatus(ctx, o.ID, "teleported")
	require.ErrorIs(t, err, errs.ErrValidation)
}

func TestUpdateStatusCancelledRestoresStock(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()

	p := seedProduct(t, db, "opera gloves", 60, 5)
	o, err := svc.Place(ctx, 9, placeRequest(PlaceItem{ProductID: p.ID, Quantity: 3}))
	require.NoError(t, err)

	var got models.Product
	require.NoError(t, db.First(&got, p.ID).Error)
	require.Equal(t, 2, got.Stock)

	o, err = svc.UpdateStatus(ctx, o.ID, models.OrderStatusCancelled)
	require.NoError(t, err)
	require.Equal(t, models.OrderStatusCancelled, o.Status)

	require.NoError(t, db.First(&got, p.ID).Error)
	require.Equal(t, 5, got.Stock)

	// unlike a user cancel, the order row survives
	kept, err := svc.Get(ctx, o.ID)
	require.NoError(t, err)
	require.Equal(t, models.OrderStatusCancelled, kept.Status)
	require.Len(t, kept.Items, 1)
}

func TestCanTransition(t *testing.T) {
	require.True(t, CanTransition(models.OrderStatusPending, models.OrderStatusConfirmed))
	require.True(t, CanTransition(models.OrderStatusPending, models.OrderStatusCancelled))
	require.True(t, CanTransition(models.OrderStatusConfirmed, models.OrderStatusCancelled))
	require.False(t, CanTransition(models.OrderStatusShipped, models.OrderStatusCancelled))
	require.False(t, CanTransition(models.OrderStatusDelivered, models.OrderStatusPending))
	require.False(t, CanTransition(models.OrderStatusPending, models.OrderStatusDelivered))
}

func TestListByUserReturnsOwnOrdersOnly(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()

	p := seedProduct(t, db, "scarf", 10, 10)
	_, err := svc.Place(ctx, 1, placeRequest(PlaceItem{ProductID: p.ID, Quantity: 1}))
	require.NoError(t, err)
	_, err = svc.Place(ctx, 2, placeRequest(PlaceItem{ProductID: p.ID, Quantity: 1}))
	require.NoError(t, err)

	mine, err := svc.ListByUser(ctx, 1)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	require.Equal(t, uint(1), mine[0].UserID)

	all, err := svc.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
}
