package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/ateliermarket/boutique/internal/hash"
	"github.com/ateliermarket/boutique/internal/models"
	"github.com/ateliermarket/boutique/internal/mykafka"
	"github.com/ateliermarket/boutique/internal/service/token"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

type AuthHandler struct {
	DB            *gorm.DB
	JWTSecret     []byte
	RefreshSecret []byte
	Producer      *mykafka.Producer
}

func CreateCookie(name, value, path string, exp time.Time) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     path,
		Expires:  exp,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	}
}

func (h *AuthHandler) Register(c echo.Context) error {
	var req struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if req.Username == "" || req.Password == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "username and password required")
	}

	var existing models.User
	err := h.DB.Where("username = ?", req.Username).First(&existing).Error
	if err == nil {
		return echo.NewHTTPError(http.StatusConflict, "user already exists")
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return serviceError(c, "auth.register", err)
	}

	pwHash, err := hash.HashPassword(req.Password)
	if err != nil {
		return serviceError(c, "auth.register", err)
	}
	user := models.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: pwHash,
		Role:         models.RoleUser,
	}
	if err := h.DB.Create(&user).Error; err != nil {
		return serviceError(c, "auth.register", err)
	}

	publish(c, h.Producer, "user_events", fmt.Sprint(user.ID), map[string]interface{}{
		"type":     "user_registered",
		"userID":   user.ID,
		"username": user.Username,
	})
	return c.JSON(http.StatusOK, user)
}

func (h *AuthHandler) Login(c echo.Context) error {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	var user models.User
	if err := h.DB.Where("username = ?", req.Username).First(&user).Error; err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid credentials")
	}
	if !hash.CheckPassword(user.PasswordHash, req.Password) {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid credentials")
	}

	access, err := token.SignAccessToken(user.ID, user.Role, h.JWTSecret)
	if err != nil {
		return serviceError(c, "auth.login", err)
	}
	refresh, err := token.SignRefreshToken(user.ID, user.Role, h.RefreshSecret)
	if err != nil {
		return serviceError(c, "auth.login", err)
	}
	if err := token.SaveRefreshToken(h.DB, refresh, user.ID); err != nil {
		return serviceError(c, "auth.login", err)
	}

	c.SetCookie(CreateCookie("accessToken", access, "/", time.Now().Add(token.AccessTTL)))
	c.SetCookie(CreateCookie("refreshToken", refresh, "/", time.Now().Add(token.RefreshTTL)))

	publish(c, h.Producer, "user_events", fmt.Sprint(user.ID), map[string]interface{}{
		"type":   "user_login",
		"userID": user.ID,
	})
	return c.JSON(http.StatusOK, map[string]string{
		"access_token":  access,
		"refresh_token": refresh,
	})
}

func (h *AuthHandler) Refresh(c echo.Context) error {
	svc := &token.Service{DB: h.DB, JWTSecret: h.JWTSecret, RefreshSecret: h.RefreshSecret}

	raw := ""
	if cookie, err := c.Cookie("refreshToken"); err == nil {
		raw = cookie.Value
	} else {
		var req struct {
			RefreshToken string `json:"refresh_token"`
		}
		if err := c.Bind(&req); err == nil {
			raw = req.RefreshToken
		}
	}
	if raw == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "missing refresh token")
	}

	access, refresh, _, err := svc.Rotate(raw)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid refresh token")
	}

	c.SetCookie(CreateCookie("accessToken", access, "/", time.Now().Add(token.AccessTTL)))
	c.SetCookie(CreateCookie("refreshToken", refresh, "/", time.Now().Add(token.RefreshTTL)))
	return c.JSON(http.StatusOK, map[string]string{
		"access_token":  access,
		"refresh_token": refresh,
	})
}

func (h *AuthHandler) Logout(c echo.Context) error {
	if cookie, err := c.Cookie("refreshToken"); err == nil {
		_ = token.RevokeRefreshToken(h.DB, cookie.Value)
	}
	c.SetCookie(CreateCookie("accessToken", "", "/", time.Unix(0, 0)))
	c.SetCookie(CreateCookie("refreshToken", "", "/", time.Unix(0, 0)))
	return c.NoContent(http.StatusNoContent)
}
