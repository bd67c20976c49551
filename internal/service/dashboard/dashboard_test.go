package dashboard

import (
	"context"
	"testing"
	"time"

	"github.com/ateliermarket/boutique/internal/config"
	"github.com/ateliermarket/boutique/internal/models"
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

func seedOrder(t *testing.T, db *gorm.DB, number string, total float64, status string, items ...models.OrderItem) {
	t.Helper()
	o := models.Order{
		OrderNumber:   number,
		UserID:        1,
		TotalAmount:   total,
		PaymentMethod: models.PaymentMethodCard,
		PaymentStatus: models.PaymentUnpaid,
		Status:        status,
		Items:         items,
	}
	require.NoError(t, db.Create(&o).Error)
}

func TestBuildReport(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)

	require.NoError(t, db.Create(&models.User{Username: "u1", Role: models.RoleUser}).Error)
	require.NoError(t, db.Create(&models.Product{Name: "p1", Price: 10, Stock: 1, Status: models.ProductActive}).Error)

	seedOrder(t, db, "ORD-1", 100, models.OrderStatusPending,
		models.OrderItem{ProductID: 1, Name: "p1", Price: 50, Quantity: 2})
	seedOrder(t, db, "ORD-2", 300, models.OrderStatusDelivered,
		models.OrderItem{ProductID: 2, Name: "p2", Price: 150, Quantity: 2})

	report, err := svc.Build(context.Background())
	require.NoError(t, err)

	require.Equal(t, 2, report.TotalOrders)
	require.Equal(t, int64(1), report.TotalUsers)
	require.Equal(t, int64(1), report.TotalProducts)
	require.Equal(t, float64(400), report.TotalRevenue)
	require.Equal(t, float64(200), report.AverageOrderValue)
	require.Equal(t, 1, report.OrdersByStatus[models.OrderStatusPending])
	require.Equal(t, 1, report.OrdersByStatus[models.OrderStatusDelivered])
	require.Len(t, report.LastSevenDays, 7)

	// everything was created just now, so it lands in today's bucket
	today := report.LastSevenDays[6]
	require.Equal(t, time.Now().Format("2006-01-02"), today.Date)
	require.Equal(t, 2, today.Orders)
	require.Equal(t, float64(400), today.Revenue)
}

func TestBuildReportSkipsCancelledRevenue(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)

	seedOrder(t, db, "ORD-1", 100, models.OrderStatusDelivered,
		models.OrderItem{ProductID: 1, Name: "kept", Price: 50, Quantity: 2})
	seedOrder(t, db, "ORD-2", 999, models.OrderStatusCancelled,
		models.OrderItem{ProductID: 2, Name: "voided", Price: 999, Quantity: 1})

	report, err := svc.Build(context.Background())
	require.NoError(t, err)

	// the cancelled order still shows in the counts, never in the money
	require.Equal(t, 2, report.TotalOrders)
	require.Equal(t, 1, report.OrdersByStatus[models.OrderStatusCancelled])
	require.Equal(t, float64(100), report.TotalRevenue)
	require.Equal(t, float64(100), report.AverageOrderValue)

	today := report.LastSevenDays[6]
	require.Equal(t, 1, today.Orders)
	require.Equal(t, float64(100), today.Revenue)

	require.Len(t, report.TopProducts, 1)
	require.Equal(t, uint(1), report.TopProducts[0].ProductID)
}

func TestTopProductsStableTieBreak(t *testing.T) {
	orders := []models.Order{
		{Items: []models.OrderItem{
			{ProductID: 1, Name: "first", Price: 100, Quantity: 1},
			{ProductID: 2, Name: "second", Price: 100, Quantity: 1},
		}},
		{Items: []models.OrderItem{
			{ProductID: 3, Name: "third", Price: 250, Quantity: 1},
		}},
	}

	top := topProducts(orders, 5)
	require.Len(t, top, 3)
	require.Equal(t, uint(3), top[0].ProductID)
	// revenue tie between 1 and 2 keeps scan order
	require.Equal(t, uint(1), top[1].ProductID)
	require.Equal(t, uint(2), top[2].ProductID)
}

func TestTopProductsTruncatesToN(t *testing.T) {
	var items []models.OrderItem
	for i := 1; i <= 8; i++ {
		items = append(items, models.OrderItem{
			ProductID: uint(i),
			Name:      "p",
			Price:     float64(i),
			Quantity:  1,
		})
	}
	top := topProducts([]models.Order{{Items: items}}, 5)
	require.Len(t, top, 5)
	require.Equal(t, uint(8), top[0].ProductID)
}

func TestBucketByDay(t *testing.T) {
	now := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)
	orders := []models.Order{
		{TotalAmount: 10, CreatedAt: now},
		{TotalAmount: 20, CreatedAt: now.AddDate(0, 0, -1)},
		{TotalAmount: 30, CreatedAt: now.AddDate(0, 0, -8)}, // outside the window
	}

	buckets := bucketByDay(orders, now)
	require.Len(t, buckets, 7)
	require.Equal(t, "2026-08-29", buckets[6].Date)
	require.Equal(t, float64(10), buckets[6].Revenue)
	require.Equal(t, "2026-08-28", buckets[5].Date)
	require.Equal(t, float64(20), buckets[5].Revenue)

	var windowTotal float64
	for _, b := range buckets {
		windowTotal += b.Revenue
	}
	require.Equal(t, float64(30), windowTotal)
}
