package dashboard

import (
	"context"
	"sort"
	"time"

	"github.com/ateliermarket/boutique/internal/models"
	"github.com/montanaflynn/stats"
	"gorm.io/gorm"
)

type Service struct {
	DB *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{DB: db}
}

type DayBucket struct {
	Date    string  `json:"date"`
	Orders  int     `json:"orders"`
	Revenue float64 `json:"revenue"`
}

type TopProduct struct {
	ProductID uint    `json:"product_id"`
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity"`
	Revenue   float64 `json:"revenue"`
}

type Report struct {
	TotalOrders       int            `json:"total_orders"`
	TotalUsers        int64          `json:"total_users"`
	TotalProducts     int64          `json:"total_products"`
	TotalRevenue      float64        `json:"total_revenue"`
	AverageOrderValue float64        `json:"average_order_value"`
	OrdersByStatus    map[string]int `json:"orders_by_status"`
	LastSevenDays     []DayBucket    `json:"last_seven_days"`
	TopProducts       []TopProduct   `json:"top_products"`
}

// Build scans orders, products and users and aggregates everything in
// memory. O(total orders) per call, acceptable at this catalog's scale.
func (s *Service) Build(ctx context.Context) (*Report, error) {
	var orders []models.Order
	if err := s.DB.WithContext(ctx).Preload("Items").
		Order("created_at ASC").Find(&orders).Error; err != nil {
		return nil, err
	}

	report := &Report{
		TotalOrders:    len(orders),
		OrdersByStatus: map[string]int{},
	}

	if err := s.DB.WithContext(ctx).Model(&models.User{}).
		Count(&report.TotalUsers).Error; err != nil {
		return nil, err
	}
	if err := s.DB.WithContext(ctx).Model(&models.Product{}).
		Count(&report.TotalProducts).Error; err != nil {
		return nil, err
	}

	// cancelled orders stay in the status histogram but never count as
	// revenue
	var totals []float64
	for _, o := range orders {
		report.OrdersByStatus[o.Status]++
		if o.Status == models.OrderStatusCancelled {
			continue
		}
		totals = append(totals, o.TotalAmount)
	}
	if len(totals) > 0 {
		report.TotalRevenue, _ = stats.Sum(totals)
		report.AverageOrderValue, _ = stats.Mean(totals)
	}

	report.LastSevenDays = bucketByDay(orders, time.Now())
	report.TopProducts = topProducts(orders, 5)
	return report, nil
}

// bucketByDay groups orders into the last seven calendar days by matching
// the ISO date prefix of the creation timestamp.
func bucketByDay(orders []models.Order, now time.Time) []DayBucket {
	buckets := make([]DayBucket, 0, 7)
	for i := 6; i >= 0; i-- {
		day := now.AddDate(0, 0, -i).Format("2006-01-02")
		b := DayBucket{Date: day}
		for _, o := range orders {
			if o.Status == models.OrderStatusCancelled {
				continue
			}
			if o.CreatedAt.Format("2006-01-02") == day {
				b.Orders++
				b.Revenue += o.TotalAmount
			}
		}
		buckets = append(buckets, b)
	}
	return buckets
}

// topProducts ranks products by revenue across non-cancelled order lines.
// The sort is stable, so ties keep their scan order.
func topProducts(orders []models.Order, n int) []TopProduct {
	index := map[uint]int{}
	var ranked []TopProduct
	for _, o := range orders {
		if o.Status == models.OrderStatusCancelled {
			continue
		}
		for _, it := range o.Items {
			pos, ok := index[it.ProductID]
			if !ok {
				pos = len(ranked)
				index[it.ProductID] = pos
				ranked = append(ranked, TopProduct{ProductID: it.ProductID, Name: it.Name})
			}
			ranked[pos].Quantity += it.Quantity
			ranked[pos].Revenue += it.Price * float64(it.Quantity)
		}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Revenue > ranked[j].Revenue
	})
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}
