package handlers

import (
	"fmt"
	"net/http"

	"github.com/ateliermarket/boutique/internal/mykafka"
	"github.com/ateliermarket/boutique/internal/service/catalog"
	"github.com/ateliermarket/boutique/internal/service/token"
	"github.com/ateliermarket/boutique/internal/util"
	"github.com/labstack/echo/v4"
)

type ProductHandler struct {
	Svc      *catalog.Service
	Producer *mykafka.Producer
}

func (h *ProductHandler) GetProduct(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	prod, err := h.Svc.Get(c.Request().Context(), id)
	if err != nil {
		return serviceError(c, "product.get", err)
	}
	return c.JSON(http.StatusOK, prod)
}

func (h *ProductHandler) GetProducts(c echo.Context) error {
	page := parseIntDefault(c.QueryParam("page"), 1)
	size := parseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	offset, limit := util.Calculate(page, size)

	items, total, err := h.Svc.List(c.Request().Context(), offset, limit)
	if err != nil {
		return serviceError(c, "product.list", err)
	}

	return c.JSON(http.StatusOK, map[string]any{
		"data": items,
		"meta": map[string]any{
			"page":        page,
			"size":        limit,
			"total":       total,
			"total_pages": (total + int64(limit) - 1) / int64(limit),
			"has_prev":    page > 1,
			"has_next":    int64(offset+limit) < total,
		},
	})
}

func (h *ProductHandler) CreateProduct(c echo.Context) error {
	var req catalog.ProductInput
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	prod, err := h.Svc.Create(c.Request().Context(), req)
	if err != nil {
		return serviceError(c, "product.create", err)
	}

	publish(c, h.Producer, "product_events", fmt.Sprint(prod.ID), map[string]interface{}{
		"type":      "product_created",
		"productID": prod.ID,
		"name":      prod.Name,
	})
	return c.JSON(http.StatusCreated, prod)
}

func (h *ProductHandler) PatchProduct(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var req catalog.ProductInput
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	prod, err := h.Svc.Update(c.Request().Context(), id, req)
	if err != nil {
		return serviceError(c, "product.update", err)
	}

	publish(c, h.Producer, "product_events", fmt.Sprint(prod.ID), map[string]interface{}{
		"type":      "product_updated",
		"productID": prod.ID,
		"name":      prod.Name,
	})
	return c.JSON(http.StatusOK, prod)
}

func (h *ProductHandler) DeleteProduct(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	if err := h.Svc.Delete(c.Request().Context(), id); err != nil {
		return serviceError(c, "product.delete", err)
	}

	publish(c, h.Producer, "product_events", fmt.Sprint(id), map[string]interface{}{
		"type":      "product_deleted",
		"productID": id,
	})
	return c.NoContent(http.StatusNoContent)
}

func (h *ProductHandler) AddReview(c echo.Context) error {
	userID, err := token.UserID(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var req catalog.ReviewInput
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	prod, err := h.Svc.AddReview(c.Request().Context(), id, userID, req)
	if err != nil {
		return serviceError(c, "product.review", err)
	}

	publish(c, h.Producer, "product_events", fmt.Sprint(prod.ID), map[string]interface{}{
		"type":      "review_added",
		"productID": prod.ID,
		"userID":    userID,
		"rating":    req.Rating,
	})
	return c.JSON(http.StatusCreated, prod)
}
