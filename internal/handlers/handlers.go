package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/ateliermarket/boutique/internal/logging"
	"github.com/ateliermarket/boutique/internal/mykafka"
	"github.com/ateliermarket/boutique/internal/service/errs"
	"github.com/labstack/echo/v4"
)

func parseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	if v, err := strconv.Atoi(s); err == nil {
		return v
	}
	return def
}

func pathID(c echo.Context) (uint, error) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	return uint(id), nil
}

// serviceError maps the service error taxonomy onto HTTP codes. Unexpected
// errors are logged and reported generically, never echoed raw to clients.
func serviceError(c echo.Context, action string, err error) error {
	l := logging.FromContext(c.Request().Context()).With("handler", action)
	switch {
	case errors.Is(err, errs.ErrValidation):
		l.Warn(action+"_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, errs.ErrNotFound):
		l.Warn(action+"_error", "status", 404, "error", err)
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, errs.ErrConflict):
		l.Warn(action+"_error", "status", 409, "error", err)
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	default:
		l.Error(action+"_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
}

// publish sends a domain event best-effort; delivery problems are logged
// and never fail the request.
func publish(c echo.Context, p *mykafka.Producer, topic, key string, event map[string]interface{}) {
	if p == nil {
		return
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := p.PublishEvent(ctx, topic, key, event); err != nil {
		logging.FromContext(c.Request().Context()).Warn("kafka_publish_failed", "topic", topic, "error", err)
	}
}
