package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/ateliermarket/boutique/internal/models"
	"github.com/ateliermarket/boutique/internal/mykafka"
	"github.com/ateliermarket/boutique/internal/service/token"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

type WishlistHandler struct {
	DB       *gorm.DB
	Producer *mykafka.Producer
}

func (h *WishlistHandler) GetWishlist(c echo.Context) error {
	userID, err := token.UserID(c)
	if err != nil {
		return err
	}

	var items []models.WishlistItem
	if err := h.DB.Where("user_id = ?", userID).Find(&items).Error; err != nil {
		return serviceError(c, "wishlist.get", err)
	}
	return c.JSON(http.StatusOK, items)
}

// AddToWishlist is idempotent per product: adding twice keeps one row.
func (h *WishlistHandler) AddToWishlist(c echo.Context) error {
	userID, err := token.UserID(c)
	if err != nil {
		return err
	}

	var req struct {
		ProductID uint `json:"product_id"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	var prod models.Product
	if err := h.DB.First(&prod, req.ProductID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "product not found")
		}
		return serviceError(c, "wishlist.add", err)
	}

	var item models.WishlistItem
	tx := h.DB.Where("user_id = ? AND product_id = ?", userID, req.ProductID).First(&item)
	if tx.Error == nil {
		return c.JSON(http.StatusOK, item)
	}
	if !errors.Is(tx.Error, gorm.ErrRecordNotFound) {
		return serviceError(c, "wishlist.add", tx.Error)
	}

	item = models.WishlistItem{UserID: userID, ProductID: req.ProductID}
	if err := h.DB.Create(&item).Error; err != nil {
		return serviceError(c, "wishlist.add", err)
	}

	publish(c, h.Producer, "cart_events", fmt.Sprint(userID), map[string]interface{}{
		"type":      "wishlist_item_added",
		"userID":    userID,
		"productID": req.ProductID,
	})
	return c.JSON(http.StatusCreated, item)
}

func (h *WishlistHandler) RemoveFromWishlist(c echo.Context) error {
	userID, err := token.UserID(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}

	if err := h.DB.
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&models.WishlistItem{}).Error; err != nil {
		return serviceError(c, "wishlist.remove", err)
	}

	publish(c, h.Producer, "cart_events", fmt.Sprint(userID), map[string]interface{}{
		"type":         "wishlist_item_removed",
		"userID":       userID,
		"deleted_item": id,
	})
	return c.NoContent(http.StatusNoContent)
}
