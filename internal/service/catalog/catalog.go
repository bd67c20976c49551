package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/ateliermarket/boutique/internal/es"
	"github.com/ateliermarket/boutique/internal/logging"
	"github.com/ateliermarket/boutique/internal/models"
	"github.com/ateliermarket/boutique/internal/service/errs"
	"github.com/elastic/go-elasticsearch/v9"
	"gorm.io/gorm"
)

type Service struct {
	DB    *gorm.DB
	ES    *elasticsearch.Client
	Index string
}

func NewService(db *gorm.DB, esClient *elasticsearch.Client, index string) *Service {
	return &Service{DB: db, ES: esClient, Index: index}
}

type ProductInput struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	CostPrice   float64 `json:"cost_price"`
	Stock       int     `json:"stock"`
	Image       string  `json:"image"`
	Status      string  `json:"status"`
	CategoryID  *uint   `json:"category_id"`
}

func (in *ProductInput) validate() error {
	if in.Name == "" {
		return fmt.Errorf("%w: name required", errs.ErrValidation)
	}
	if in.Price < 0 {
		return fmt.Errorf("%w: price must be >= 0", errs.ErrValidation)
	}
	if in.Stock < 0 {
		return fmt.Errorf("%w: stock must be >= 0", errs.ErrValidation)
	}
	if in.Status != "" && in.Status != models.ProductActive && in.Status != models.ProductInactive {
		return fmt.Errorf("%w: unknown status %q", errs.ErrValidation, in.Status)
	}
	return nil
}

func (s *Service) Create(ctx context.Context, in ProductInput) (*models.Product, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	status := in.Status
	if status == "" {
		status = models.ProductActive
	}
	prod := models.Product{
		Name:        in.Name,
		Description: in.Description,
		Price:       in.Price,
		CostPrice:   in.CostPrice,
		Stock:       in.Stock,
		Image:       in.Image,
		Status:      status,
		CategoryID:  in.CategoryID,
	}
	if err := s.DB.WithContext(ctx).Create(&prod).Error; err != nil {
		return nil, err
	}
	s.index(ctx, &prod)
	return &prod, nil
}

func (s *Service) Update(ctx context.Context, id uint, in ProductInput) (*models.Product, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	var prod models.Product
	if err := s.DB.WithContext(ctx).First(&prod, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: product %d not found", errs.ErrNotFound, id)
		}
		return nil, err
	}

	prod.Name = in.Name
	prod.Description = in.Description
	prod.Price = in.Price
	prod.CostPrice = in.CostPrice
	prod.Stock = in.Stock
	prod.Image = in.Image
	if in.Status != "" {
		prod.Status = in.Status
	}
	prod.CategoryID = in.CategoryID

	if err := s.DB.WithContext(ctx).Save(&prod).Error; err != nil {
		return nil, err
	}
	s.index(ctx, &prod)
	return &prod, nil
}

func (s *Service) Delete(ctx context.Context, id uint) error {
	if err := s.DB.WithContext(ctx).Delete(&models.Product{}, id).Error; err != nil {
		return err
	}
	if s.ES != nil {
		if err := es.DeleteProduct(ctx, s.ES, s.Index, id); err != nil {
			logging.FromContext(ctx).Warn("es_delete_failed", "product_id", id, "error", err)
		}
	}
	return nil
}

func (s *Service) Get(ctx context.Context, id uint) (*models.Product, error) {
	var prod models.Product
	if err := s.DB.WithContext(ctx).Preload("Reviews").First(&prod, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: product %d not found", errs.ErrNotFound, id)
		}
		return nil, err
	}
	return &prod, nil
}

func (s *Service) List(ctx context.Context, offset, limit int) ([]models.Product, int64, error) {
	var total int64
	if err := s.DB.WithContext(ctx).Model(&models.Product{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var items []models.Product
	if err := s.DB.WithContext(ctx).
		Order("id ASC").Offset(offset).Limit(limit).
		Find(&items).Error; err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

type ReviewInput struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

// AddReview appends the review and recomputes the product's rating aggregate
// from the full review list inside the same transaction.
func (s *Service) AddReview(ctx context.Context, productID, userID uint, in ReviewInput) (*models.Product, error) {
	if in.Rating < 1 || in.Rating > 5 {
		return nil, fmt.Errorf("%w: rating must be between 1 and 5", errs.ErrValidation)
	}

	var prod models.Product
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&prod, productID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: product %d not found", errs.ErrNotFound, productID)
			}
			return err
		}

		review := models.Review{
			ProductID: productID,
			UserID:    userID,
			Rating:    in.Rating,
			Comment:   in.Comment,
		}
		if err := tx.Create(&review).Error; err != nil {
			return err
		}

		var reviews []models.Review
		if err := tx.Where("product_id = ?", productID).Find(&reviews).Error; err != nil {
			return err
		}
		prod.AverageRating, prod.TotalReviews = RatingAggregate(reviews)
		prod.Reviews = reviews
		return tx.Model(&models.Product{}).Where("id = ?", productID).
			Updates(map[string]interface{}{
				"average_rating": prod.AverageRating,
				"total_reviews":  prod.TotalReviews,
			}).Error
	})
	if err != nil {
		return nil, err
	}
	s.index(ctx, &prod)
	return &prod, nil
}

// RatingAggregate recomputes the derived review fields from scratch.
func RatingAggregate(reviews []models.Review) (avg float64, total int) {
	total = len(reviews)
	if total == 0 {
		return 0, 0
	}
	var sum int
	for _, r := range reviews {
		sum += r.Rating
	}
	return float64(sum) / float64(total), total
}

func (s *Service) index(ctx context.Context, p *models.Product) {
	if s.ES == nil {
		return
	}
	if err := es.IndexProduct(ctx, s.ES, s.Index, p); err != nil {
		logging.FromContext(ctx).Warn("es_index_failed", "product_id", p.ID, "error", err)
	}
}
