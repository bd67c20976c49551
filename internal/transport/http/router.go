package httpserver

import (
	"net/http"

	"github.com/ateliermarket/boutique/internal/handlers"
	"github.com/ateliermarket/boutique/internal/service/token"
	"github.com/labstack/echo/v4"
)

type Deps struct {
	AuthHandler      *handlers.AuthHandler
	ProductHandler   *handlers.ProductHandler
	CartHandler      *handlers.CartHandler
	WishlistHandler  *handlers.WishlistHandler
	OrderHandler     *handlers.OrderHandler
	RevenueHandler   *handlers.RevenueHandler
	DashboardHandler *handlers.DashboardHandler
	DirectoryHandler *handlers.DirectoryHandler
	SearchHandler    *handlers.SearchHandler
	TokenService     *token.Service
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	v1 := e.Group("/api/v1")

	v1.POST("/register", d.AuthHandler.Register)
	v1.POST("/login", d.AuthHandler.Login)
	v1.POST("/refresh", d.AuthHandler.Refresh)
	v1.POST("/logout", d.AuthHandler.Logout)

	v1.GET("/products", d.ProductHandler.GetProducts)
	v1.GET("/products/:id", d.ProductHandler.GetProduct)
	if d.SearchHandler != nil {
		v1.GET("/search", d.SearchHandler.Search)
	}

	v1.GET("/suppliers", d.DirectoryHandler.ListSuppliers)
	v1.GET("/suppliers/:id", d.DirectoryHandler.GetSupplier)
	v1.GET("/designers", d.DirectoryHandler.ListDesigners)
	v1.GET("/designers/:id", d.DirectoryHandler.GetDesigner)
	v1.GET("/categories", d.DirectoryHandler.ListCategories)
	v1.GET("/categories/:id", d.DirectoryHandler.GetCategory)

	user := v1.Group("", d.TokenService.RequireUser)

	user.POST("/products/:id/reviews", d.ProductHandler.AddReview)

	user.GET("/cart", d.CartHandler.GetCart)
	user.POST("/cart", d.CartHandler.AddToCart)
	user.DELETE("/cart/:id", d.CartHandler.DeleteOneFromCart)
	user.DELETE("/cart/:id/all", d.CartHandler.DeleteAllFromCart)

	user.GET("/wishlist", d.WishlistHandler.GetWishlist)
	user.POST("/wishlist", d.WishlistHandler.AddToWishlist)
	user.DELETE("/wishlist/:id", d.WishlistHandler.RemoveFromWishlist)

	user.POST("/orders", d.OrderHandler.CreateOrder)
	user.GET("/orders", d.OrderHandler.GetOrders)
	user.DELETE("/orders/:id", d.OrderHandler.CancelOrder)

	admin := v1.Group("/admin", d.TokenService.RequireAdmin)

	// full order listing is admin-only
	admin.GET("/orders", d.OrderHandler.GetAllOrders)
	admin.PUT("/orders/:id", d.OrderHandler.UpdateStatus)
	admin.PUT("/orders/:id/supplier", d.OrderHandler.AssignSupplier)

	admin.POST("/products", d.ProductHandler.CreateProduct)
	admin.PATCH("/products/:id", d.ProductHandler.PatchProduct)
	admin.DELETE("/products/:id", d.ProductHandler.DeleteProduct)

	admin.POST("/suppliers", d.DirectoryHandler.CreateSupplier)
	admin.PUT("/suppliers/:id", d.DirectoryHandler.UpdateSupplier)
	admin.DELETE("/suppliers/:id", d.DirectoryHandler.DeleteSupplier)
	admin.POST("/designers", d.DirectoryHandler.CreateDesigner)
	admin.PUT("/designers/:id", d.DirectoryHandler.UpdateDesigner)
	admin.DELETE("/designers/:id", d.DirectoryHandler.DeleteDesigner)
	admin.POST("/categories", d.DirectoryHandler.CreateCategory)
	admin.PUT("/categories/:id", d.DirectoryHandler.UpdateCategory)
	admin.DELETE("/categories/:id", d.DirectoryHandler.DeleteCategory)

	admin.POST("/revenue/create", d.RevenueHandler.Create)
	admin.PATCH("/revenue/collect/:id", d.RevenueHandler.Collect)
	admin.PATCH("/revenue/pay/:id", d.RevenueHandler.Pay)
	admin.GET("/revenue/total", d.RevenueHandler.Total)
	admin.GET("/revenue", d.RevenueHandler.List)

	admin.GET("/dashboard", d.DashboardHandler.Report)
}
