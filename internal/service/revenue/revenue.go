package revenue

import (
	"context"
	"errors"
	"fmt"

	"github.com/ateliermarket/boutique/internal/models"
	"github.com/ateliermarket/boutique/internal/service/errs"
	"github.com/montanaflynn/stats"
	"gorm.io/gorm"
)

type Service struct {
	DB *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{DB: db}
}

type CreateRequest struct {
	OrderID     uint    `json:"order_id"`
	SupplierID  uint    `json:"supplier_id"`
	TotalAmount float64 `json:"total_amount"`
}

// Create opens the payout record for an order assigned to a supplier. One
// record per order; the amount is caller-supplied, matching the admin flow
// that quotes the payout.
func (s *Service) Create(ctx context.Context, req CreateRequest) (*models.Revenue, error) {
	if req.TotalAmount < 0 {
		return nil, fmt.Errorf("%w: amount must be >= 0", errs.ErrValidation)
	}

	var rev models.Revenue
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var order models.Order
		if err := tx.First(&order, req.OrderID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: order %d not found", errs.ErrNotFound, req.OrderID)
			}
			return err
		}
		var sup models.Supplier
		if err := tx.First(&sup, req.SupplierID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: supplier %d not found", errs.ErrNotFound, req.SupplierID)
			}
			return err
		}

		var count int64
		if err := tx.Model(&models.Revenue{}).
			Where("order_id = ?", req.OrderID).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return fmt.Errorf("%w: revenue already exists for order %d", errs.ErrConflict, req.OrderID)
		}

		rev = models.Revenue{
			OrderID:       req.OrderID,
			SupplierID:    req.SupplierID,
			TotalAmount:   req.TotalAmount,
			PaymentStatus: models.RevenuePending,
		}
		return tx.Create(&rev).Error
	})
	if err != nil {
		return nil, err
	}
	return &rev, nil
}

// Collect moves Pending -> Collected. Out-of-order calls are conflicts, not
// silent no-ops.
func (s *Service) Collect(ctx context.Context, id uint) (*models.Revenue, error) {
	return s.transition(ctx, id, models.RevenuePending, models.RevenueCollected)
}

// PayToAdmin moves Collected -> PaidToAdmin, the terminal state.
func (s *Service) PayToAdmin(ctx context.Context, id uint) (*models.Revenue, error) {
	return s.transition(ctx, id, models.RevenueCollected, models.RevenuePaidToAdmin)
}

func (s *Service) transition(ctx context.Context, id uint, from, to string) (*models.Revenue, error) {
	var rev models.Revenue
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&rev, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: revenue %d not found", errs.ErrNotFound, id)
			}
			return err
		}
		if rev.PaymentStatus != from {
			return fmt.Errorf("%w: cannot move revenue from %s to %s", errs.ErrConflict, rev.PaymentStatus, to)
		}

		rev.PaymentStatus = to
		switch to {
		case models.RevenueCollected:
			rev.Collected = true
		case models.RevenuePaidToAdmin:
			rev.PaidToAdmin = true
		}
		return tx.Save(&rev).Error
	})
	if err != nil {
		return nil, err
	}
	return &rev, nil
}

func (s *Service) List(ctx context.Context) ([]models.Revenue, error) {
	var revs []models.Revenue
	err := s.DB.WithContext(ctx).
		Preload("Order").
		Preload("Order.Items").
		Preload("Supplier").
		Order("created_at DESC").
		Find(&revs).Error
	return revs, err
}

// Total sums the amounts of every record that reached PaidToAdmin.
func (s *Service) Total(ctx context.Context) (float64, error) {
	var amounts []float64
	if err := s.DB.WithContext(ctx).Model(&models.Revenue{}).
		Where("payment_status = ?", models.RevenuePaidToAdmin).
		Pluck("total_amount", &amounts).Error; err != nil {
		return 0, err
	}
	if len(amounts) == 0 {
		return 0, nil
	}
	return stats.Sum(amounts)
}
