package httpserver

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	middleware "github.com/Skotchmaster/retailer_portal/pkg/middleware/auth"
	"github.com/Skotchmaster/retailer_portal/pkg/middleware/csrf"
)

type Deps struct {
	DB        *gorm.DB
	JWTSecret []byte

	Auth    *AuthHTTP
	Catalog *CatalogHTTP
	Cart    *CartHTTP
	Orders  *OrderHTTP
	Profile *ProfileHTTP

	// CSRF guards the cookie-authenticated API; nil disables the check.
	CSRF *csrf.Config
}

func ready(db *gorm.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		if db == nil {
			return c.NoContent(http.StatusOK)
		}
		sqlDB, err := db.DB()
		if err != nil {
			return c.NoContent(http.StatusServiceUnavailable)
		}
		ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
		defer cancel()
		if err := sqlDB.PingContext(ctx); err != nil {
			return c.NoContent(http.StatusServiceUnavailable)
		}
		return c.NoContent(http.StatusOK)
	}
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", ready(d.DB))

	authMW := middleware.NewAutoRefreshMiddleware(d.JWTSecret, refresher{svc: d.Auth.Svc})

	e.GET(middleware.LoginPath, d.Auth.LoginPage)

	v1 := e.Group("/api/v1")
	auth := v1.Group("/auth")
	auth.POST("/signup", d.Auth.Signup)
	auth.POST("/login", d.Auth.Login)
	auth.POST("/refresh", d.Auth.Refresh)
	auth.POST("/logout", d.Auth.Logout)

	api := v1.Group("", authMW.RequireAuth)
	if d.CSRF != nil {
		api.Use(csrf.Middleware(*d.CSRF))
	}

	api.GET("/products", d.Catalog.List)
	api.GET("/products/:id", d.Catalog.Get)

	api.GET("/cart", d.Cart.Get)
	api.POST("/cart", d.Cart.Add)
	api.PATCH("/cart/:product_id", d.Cart.Update)
	api.DELETE("/cart/:product_id", d.Cart.Remove)
	api.POST("/checkout", d.Orders.Checkout)

	api.GET("/orders", d.Orders.History)
	api.GET("/orders/export", d.Orders.Export)
	api.GET("/orders/:id", d.Orders.Get)
	api.GET("/deliveries", d.Orders.Deliveries)

	api.GET("/profile", d.Profile.Profile)
	api.POST("/assistant", d.Profile.Ask)

	admin := api.Group("/admin", authMW.RequireAdmin)
	admin.POST("/products/import", d.Catalog.Import)
	admin.POST("/suggestions/import", d.Catalog.ImportSuggestions)
	admin.POST("/deliveries/:order_id/advance", d.Orders.AdvanceDelivery)
}
