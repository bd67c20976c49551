package handlers

import (
	"net/http"

	"github.com/ateliermarket/boutique/internal/service/dashboard"
	"github.com/labstack/echo/v4"
)

type DashboardHandler struct {
	Svc *dashboard.Service
}

func (h *DashboardHandler) Report(c echo.Context) error {
	report, err := h.Svc.Build(c.Request().Context())
	if err != nil {
		return serviceError(c, "dashboard.report", err)
	}
	return c.JSON(http.StatusOK, report)
}
