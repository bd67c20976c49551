package token

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ateliermarket/boutique/internal/config"
	"github.com/ateliermarket/boutique/internal/models"
	"github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, config.Migrate(db))
	return &Service{DB: db, JWTSecret: []byte("test-secret"), RefreshSecret: []byte("test-refresh")}
}

func doRequest(svc *Service, mw func(echo.HandlerFunc) echo.HandlerFunc, authHeader string) (int, echo.Context, error) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authHeader != "" {
		req.Header.Set(echo.HeaderAuthorization, authHeader)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := mw(func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	err := handler(c)
	return rec.Code, c, err
}

func TestRequireUser(t *testing.T) {
	svc := newTestService(t)

	access, err := SignAccessToken(42, models.RoleUser, svc.JWTSecret)
	require.NoError(t, err)

	code, c, err := doRequest(svc, svc.RequireUser, "Bearer "+access)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, uint(42), c.Get("userID"))
	require.Equal(t, models.RoleUser, c.Get("role"))
}

func TestRequireUserMissingToken(t *testing.T) {
	svc := newTestService(t)

	_, _, err := doRequest(svc, svc.RequireUser, "")
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	require.Equal(t, http.StatusUnauthorized, he.Code)
}

func TestRequireUserBadSignature(t *testing.T) {
	svc := newTestService(t)

	access, err := SignAccessToken(42, models.RoleUser, []byte("wrong-secret"))
	require.NoError(t, err)

	_, _, err = doRequest(svc, svc.RequireUser, "Bearer "+access)
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	require.Equal(t, http.StatusUnauthorized, he.Code)
}

func TestRequireAdmin(t *testing.T) {
	svc := newTestService(t)

	userToken, err := SignAccessToken(1, models.RoleUser, svc.JWTSecret)
	require.NoError(t, err)
	_, _, err = doRequest(svc, svc.RequireAdmin, "Bearer "+userToken)
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	require.Equal(t, http.StatusForbidden, he.Code)

	adminToken, err := SignAccessToken(1, models.RoleAdmin, svc.JWTSecret)
	require.NoError(t, err)
	code, _, err := doRequest(svc, svc.RequireAdmin, "Bearer "+adminToken)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, code)
}

func TestRotateRevokesOldToken(t *testing.T) {
	svc := newTestService(t)

	refresh, err := SignRefreshToken(7, models.RoleUser, svc.RefreshSecret)
	require.NoError(t, err)
	require.NoError(t, SaveRefreshToken(svc.DB, refresh, 7))

	access, newRefresh, claims, err := svc.Rotate(refresh)
	require.NoError(t, err)
	require.NotEmpty(t, access)
	require.NotEmpty(t, newRefresh)
	require.Equal(t, float64(7), claims["sub"])

	// the old refresh token is now revoked
	_, _, _, err = svc.Rotate(refresh)
	require.Error(t, err)

	// the new one still works
	_, _, _, err = svc.Rotate(newRefresh)
	require.NoError(t, err)
}

func TestAccessTokenRejectedAsRefresh(t *testing.T) {
	svc := newTestService(t)

	access, err := SignAccessToken(7, models.RoleUser, svc.RefreshSecret)
	require.NoError(t, err)
	_, err = svc.ValidateRefresh(access)
	require.Error(t, err)
}
