package handlers

import (
	"fmt"
	"net/http"

	"github.com/ateliermarket/boutique/internal/mykafka"
	"github.com/ateliermarket/boutique/internal/service/revenue"
	"github.com/labstack/echo/v4"
)

type RevenueHandler struct {
	Svc      *revenue.Service
	Producer *mykafka.Producer
}

func (h *RevenueHandler) Create(c echo.Context) error {
	var req revenue.CreateRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	rev, err := h.Svc.Create(c.Request().Context(), req)
	if err != nil {
		return serviceError(c, "revenue.create", err)
	}

	publish(c, h.Producer, "revenue_events", fmt.Sprint(rev.ID), map[string]interface{}{
		"type":       "revenue_created",
		"revenueID":  rev.ID,
		"orderID":    rev.OrderID,
		"supplierID": rev.SupplierID,
		"amount":     rev.TotalAmount,
	})
	return c.JSON(http.StatusCreated, rev)
}

func (h *RevenueHandler) Collect(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	rev, err := h.Svc.Collect(c.Request().Context(), id)
	if err != nil {
		return serviceError(c, "revenue.collect", err)
	}

	publish(c, h.Producer, "revenue_events", fmt.Sprint(rev.ID), map[string]interface{}{
		"type":      "revenue_collected",
		"revenueID": rev.ID,
	})
	return c.JSON(http.StatusOK, rev)
}

func (h *RevenueHandler) Pay(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	rev, err := h.Svc.PayToAdmin(c.Request().Context(), id)
	if err != nil {
		return serviceError(c, "revenue.pay", err)
	}

	publish(c, h.Producer, "revenue_events", fmt.Sprint(rev.ID), map[string]interface{}{
		"type":      "revenue_paid_to_admin",
		"revenueID": rev.ID,
	})
	return c.JSON(http.StatusOK, rev)
}

func (h *RevenueHandler) Total(c echo.Context) error {
	total, err := h.Svc.Total(c.Request().Context())
	if err != nil {
		return serviceError(c, "revenue.total", err)
	}
	return c.JSON(http.StatusOK, map[string]float64{"total": total})
}

func (h *RevenueHandler) List(c echo.Context) error {
	revs, err := h.Svc.List(c.Request().Context())
	if err != nil {
		return serviceError(c, "revenue.list", err)
	}
	return c.JSON(http.StatusOK, revs)
}
