package order

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ateliermarket/boutique/internal/models"
	"github.com/ateliermarket/boutique/internal/service/errs"
	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Service struct {
	DB   *gorm.DB
	Node *snowflake.Node
}

func NewService(db *gorm.DB, node *snowflake.Node) *Service {
	return &Service{DB: db, Node: node}
}

type PlaceItem struct {
	ProductID uint `json:"product_id"`
	Quantity  int  `json:"quantity"`
}

type BillingAddress struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Line1   string `json:"line1"`
	Line2   string `json:"line2"`
	City    string `json:"city"`
	Pincode string `json:"pincode"`
}

type PlaceRequest struct {
	Items         []PlaceItem    `json:"items"`
	Address       BillingAddress `json:"address"`
	PaymentMethod string         `json:"payment_method"`
}

func validMethod(m string) bool {
	switch m {
	case models.PaymentMethodCard, models.PaymentMethodUPI, models.PaymentMethodCOD:
		return true
	}
	return false
}

// Place runs the whole check-deduct-create sequence in one transaction. Each
// decrement is conditional on the remaining stock, so two concurrent orders
// can never both take the last unit; any failed item rolls back every
// decrement made for the same request.
func (s *Service) Place(ctx context.Context, userID uint, req PlaceRequest) (*models.Order, error) {
	if len(req.Items) == 0 {
		return nil, fmt.Errorf("%w: items required", errs.ErrValidation)
	}
	if !validMethod(req.PaymentMethod) {
		return nil, fmt.Errorf("%w: invalid payment method %q", errs.ErrValidation, req.PaymentMethod)
	}
	for _, it := range req.Items {
		if it.Quantity <= 0 {
			return nil, fmt.Errorf("%w: quantity must be > 0", errs.ErrValidation)
		}
	}

	var order models.Order

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var (
			items []models.OrderItem
			total float64
		)
		for _, it := range req.Items {
			var p models.Product
			if err := tx.First(&p, it.ProductID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return fmt.Errorf("%w: product %d not found", errs.ErrNotFound, it.ProductID)
				}
				return err
			}
			if p.Stock < it.Quantity {
				return fmt.Errorf("%w: not enough stock for %q. Only %d left", errs.ErrConflict, p.Name, p.Stock)
			}

			res := tx.Model(&models.Product{}).
				Where("id = ? AND stock >= ?", p.ID, it.Quantity).
				UpdateColumn("stock", gorm.Expr("stock - ?", it.Quantity))
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				// lost to a concurrent order between the read and the update
				return fmt.Errorf("%w: not enough stock for %q. Only %d left", errs.ErrConflict, p.Name, p.Stock)
			}

			items = append(items, models.OrderItem{
				ProductID: p.ID,
				Name:      p.Name,
				Price:     p.Price,
				Image:     p.Image,
				Quantity:  it.Quantity,
			})
			total += p.Price * float64(it.Quantity)
		}

		order = models.Order{
			OrderNumber:    s.newOrderNumber(),
			UserID:         userID,
			Items:          items,
			TotalAmount:    total,
			PaymentMethod:  req.PaymentMethod,
			PaymentStatus:  models.PaymentUnpaid,
			Status:         models.OrderStatusPending,
			BillingName:    req.Address.Name,
			BillingPhone:   req.Address.Phone,
			BillingLine1:   req.Address.Line1,
			BillingLine2:   req.Address.Line2,
			BillingCity:    req.Address.City,
			BillingPincode: req.Address.Pincode,
		}
		if err := tx.Create(&order).Error; err != nil {
			return err
		}

		// purchased lines leave the cart
		ids := make([]uint, 0, len(req.Items))
		for _, it := range req.Items {
			ids = append(ids, it.ProductID)
		}
		return tx.Where("user_id = ? AND product_id IN ?", userID, ids).
			Delete(&models.CartItem{}).Error
	})
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (s *Service) newOrderNumber() string {
	return "ORD-" + s.Node.Generate().String()
}

func (s *Service) ListByUser(ctx context.Context, userID uint) ([]models.Order, error) {
	var orders []models.Order
	err := s.DB.WithContext(ctx).
		Preload("Items").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&orders).Error
	return orders, err
}

func (s *Service) ListAll(ctx context.Context) ([]models.Order, error) {
	var orders []models.Order
	err := s.DB.WithContext(ctx).
		Preload("Items").
		Order("created_at DESC").
		Find(&orders).Error
	return orders, err
}

func (s *Service) Get(ctx context.Context, id uint) (*models.Order, error) {
	var order models.Order
	if err := s.DB.WithContext(ctx).Preload("Items").First(&order, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: order %d not found", errs.ErrNotFound, id)
		}
		return nil, err
	}
	return &order, nil
}

// CanTransition is the order status machine: forward-only through
// pending -> confirmed -> shipped -> delivered, cancellation only before
// shipping.
func CanTransition(from, to string) bool {
	switch from {
	case models.OrderStatusPending:
		return to == models.OrderStatusConfirmed || to == models.OrderStatusCancelled
	case models.OrderStatusConfirmed:
		return to == models.OrderStatusShipped || to == models.OrderStatusCancelled
	case models.OrderStatusShipped:
		return to == models.OrderStatusDelivered
	}
	return false
}

func validStatus(s string) bool {
	switch s {
	case models.OrderStatusPending, models.OrderStatusConfirmed,
		models.OrderStatusShipped, models.OrderStatusDelivered,
		models.OrderStatusCancelled:
		return true
	}
	return false
}

func (s *Service) UpdateStatus(ctx context.Context, id uint, status string) (*models.Order, error) {
	if !validStatus(status) {
		return nil, fmt.Errorf("%w: unknown status %q", errs.ErrValidation, status)
	}

	var order models.Order
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Preload("Items").First(&order, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: order %d not found", errs.ErrNotFound, id)
			}
			return err
		}
		if !CanTransition(order.Status, status) {
			return fmt.Errorf("%w: cannot move order from %s to %s", errs.ErrConflict, order.Status, status)
		}

		order.Status = status
		switch status {
		case models.OrderStatusDelivered:
			now := time.Now()
			order.DeliveredAt = &now
		case models.OrderStatusCancelled:
			// same stock restore as a user cancel, but the row stays for
			// the books
			for _, it := range order.Items {
				if err := tx.Model(&models.Product{}).
					Where("id = ?", it.ProductID).
					UpdateColumn("stock", gorm.Expr("stock + ?", it.Quantity)).Error; err != nil {
					return err
				}
			}
		}
		return tx.Save(&order).Error
	})
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// AssignSupplier ties an order to the supplier fulfilling it.
func (s *Service) AssignSupplier(ctx context.Context, id, supplierID uint) (*models.Order, error) {
	var order models.Order
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&order, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: order %d not found", errs.ErrNotFound, id)
			}
			return err
		}
		var sup models.Supplier
		if err := tx.First(&sup, supplierID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: supplier %d not found", errs.ErrNotFound, supplierID)
			}
			return err
		}
		order.SupplierID = &sup.ID
		return tx.Save(&order).Error
	})
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// Cancel restores every line's stock and removes the order. Only the owner
// may cancel, and only before the order ships.
func (s *Service) Cancel(ctx context.Context, userID, id uint) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var order models.Order
		if err := tx.Preload("Items").Where("id = ? AND user_id = ?", id, userID).
			First(&order).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: order %d not found", errs.ErrNotFound, id)
			}
			return err
		}
		if order.Status != models.OrderStatusPending && order.Status != models.OrderStatusConfirmed {
			return fmt.Errorf("%w: order is already %s", errs.ErrConflict, order.Status)
		}

		for _, it := range order.Items {
			if err := tx.Model(&models.Product{}).
				Where("id = ?", it.ProductID).
				UpdateColumn("stock", gorm.Expr("stock + ?", it.Quantity)).Error; err != nil {
				return err
			}
		}

		if err := tx.Where("order_id = ?", order.ID).Delete(&models.OrderItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&order).Error
	})
}
