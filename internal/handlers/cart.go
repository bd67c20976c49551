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

type CartHandler struct {
	DB       *gorm.DB
	Producer *mykafka.Producer
}

func (h *CartHandler) GetCart(c echo.Context) error {
	userID, err := token.UserID(c)
	if err != nil {
		return err
	}

	var items []models.CartItem
	if err := h.DB.Where("user_id = ?", userID).Find(&items).Error; err != nil {
		return serviceError(c, "cart.get", err)
	}
	return c.JSON(http.StatusOK, items)
}

func (h *CartHandler) AddToCart(c echo.Context) error {
	userID, err := token.UserID(c)
	if err != nil {
		return err
	}

	var req struct {
		ProductID uint `json:"product_id"`
		Quantity  int  `json:"quantity"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if req.Quantity < 1 {
		req.Quantity = 1
	}

	var prod models.Product
	if err := h.DB.First(&prod, req.ProductID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "product not found")
		}
		return serviceError(c, "cart.add", err)
	}

	var item models.CartItem
	tx := h.DB.Where("user_id = ? AND product_id = ?", userID, req.ProductID).First(&item)
	if tx.Error == nil {
		item.Quantity += req.Quantity
		if err := h.DB.Save(&item).Error; err != nil {
			return serviceError(c, "cart.add", err)
		}
	} else if errors.Is(tx.Error, gorm.ErrRecordNotFound) {
		item = models.CartItem{
			UserID:    userID,
			ProductID: req.ProductID,
			Quantity:  req.Quantity,
		}
		if err := h.DB.Create(&item).Error; err != nil {
			return serviceError(c, "cart.add", err)
		}
	} else {
		return serviceError(c, "cart.add", tx.Error)
	}

	publish(c, h.Producer, "cart_events", fmt.Sprint(userID), map[string]interface{}{
		"type":      "cart_item_added",
		"userID":    userID,
		"productID": req.ProductID,
		"quantity":  item.Quantity,
	})
	return c.JSON(http.StatusOK, item)
}

// DeleteOneFromCart decrements a line by one, removing it at quantity zero.
func (h *CartHandler) DeleteOneFromCart(c echo.Context) error {
	userID, err := token.UserID(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}

	var item models.CartItem
	if err := h.DB.Where("id = ? AND user_id = ?", id, userID).First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "item not found")
		}
		return serviceError(c, "cart.remove_one", err)
	}

	if item.Quantity > 1 {
		item.Quantity--
		if err := h.DB.Save(&item).Error; err != nil {
			return serviceError(c, "cart.remove_one", err)
		}
		publish(c, h.Producer, "cart_events", fmt.Sprint(userID), map[string]interface{}{
			"type":         "cart_item_decremented",
			"userID":       userID,
			"id":           item.ID,
			"new_quantity": item.Quantity,
		})
		return c.JSON(http.StatusOK, item)
	}

	if err := h.DB.Delete(&item).Error; err != nil {
		return serviceError(c, "cart.remove_one", err)
	}
	publish(c, h.Producer, "cart_events", fmt.Sprint(userID), map[string]interface{}{
		"type":         "cart_item_deleted",
		"userID":       userID,
		"deleted_item": id,
	})
	return c.JSON(http.StatusOK, map[string]any{"deleted_item": id})
}

func (h *CartHandler) DeleteAllFromCart(c echo.Context) error {
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
		Delete(&models.CartItem{}).Error; err != nil {
		return serviceError(c, "cart.remove_line", err)
	}

	var remaining []models.CartItem
	if err := h.DB.Where("user_id = ?", userID).Find(&remaining).Error; err != nil {
		return serviceError(c, "cart.remove_line", err)
	}

	publish(c, h.Producer, "cart_events", fmt.Sprint(userID), map[string]interface{}{
		"type":         "cart_line_deleted",
		"userID":       userID,
		"deleted_item": id,
		"remaining":    remaining,
	})
	return c.JSON(http.StatusOK, remaining)
}
