package handlers

import (
	"fmt"
	"net/http"

	"github.com/ateliermarket/boutique/internal/mykafka"
	"github.com/ateliermarket/boutique/internal/service/order"
	"github.com/ateliermarket/boutique/internal/service/token"
	"github.com/labstack/echo/v4"
)

type OrderHandler struct {
	Svc      *order.Service
	Producer *mykafka.Producer
}

func (h *OrderHandler) CreateOrder(c echo.Context) error {
	userID, err := token.UserID(c)
	if err != nil {
		return err
	}

	var req order.PlaceRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	o, err := h.Svc.Place(c.Request().Context(), userID, req)
	if err != nil {
		return serviceError(c, "order.create", err)
	}

	publish(c, h.Producer, "order_events", fmt.Sprint(userID), map[string]interface{}{
		"type":         "order_created",
		"userID":       userID,
		"orderID":      o.ID,
		"order_number": o.OrderNumber,
		"total":        o.TotalAmount,
	})
	return c.JSON(http.StatusCreated, o)
}

func (h *OrderHandler) GetOrders(c echo.Context) error {
	userID, err := token.UserID(c)
	if err != nil {
		return err
	}

	orders, err := h.Svc.ListByUser(c.Request().Context(), userID)
	if err != nil {
		return serviceError(c, "order.list", err)
	}
	return c.JSON(http.StatusOK, orders)
}

func (h *OrderHandler) GetAllOrders(c echo.Context) error {
	orders, err := h.Svc.ListAll(c.Request().Context())
	if err != nil {
		return serviceError(c, "order.list_all", err)
	}
	return c.JSON(http.StatusOK, orders)
}

func (h *OrderHandler) CancelOrder(c echo.Context) error {
	userID, err := token.UserID(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}

	if err := h.Svc.Cancel(c.Request().Context(), userID, id); err != nil {
		return serviceError(c, "order.cancel", err)
	}

	publish(c, h.Producer, "order_events", fmt.Sprint(userID), map[string]interface{}{
		"type":    "order_cancelled",
		"userID":  userID,
		"orderID": id,
	})
	return c.JSON(http.StatusOK, map[string]any{"cancelled": id})
}

func (h *OrderHandler) UpdateStatus(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	var req struct {
		Status string `json:"status"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	o, err := h.Svc.UpdateStatus(c.Request().Context(), id, req.Status)
	if err != nil {
		return serviceError(c, "order.update_status", err)
	}

	publish(c, h.Producer, "order_events", fmt.Sprint(o.UserID), map[string]interface{}{
		"type":    "order_status_updated",
		"orderID": o.ID,
		"status":  o.Status,
	})
	return c.JSON(http.StatusOK, o)
}

func (h *OrderHandler) AssignSupplier(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	var req struct {
		SupplierID uint `json:"supplier_id"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	o, err := h.Svc.AssignSupplier(c.Request().Context(), id, req.SupplierID)
	if err != nil {
		return serviceError(c, "order.assign_supplier", err)
	}

	publish(c, h.Producer, "order_events", fmt.Sprint(o.UserID), map[string]interface{}{
		"type":       "order_supplier_assigned",
		"orderID":    o.ID,
		"supplierID": req.SupplierID,
	})
	return c.JSON(http.StatusOK, o)
}
