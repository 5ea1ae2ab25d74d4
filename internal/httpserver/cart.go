package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/retailer_portal/internal/service"
	"github.com/Skotchmaster/retailer_portal/internal/transport"
	"github.com/Skotchmaster/retailer_portal/pkg/logging"
	middleware "github.com/Skotchmaster/retailer_portal/pkg/middleware/auth"
)

type CartHTTP struct {
	Svc *service.CartService
}

func sessionEmail(c echo.Context) (string, error) {
	email, ok := middleware.Email(c)
	if !ok {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	return email, nil
}

func (h *CartHTTP) Get(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.get")

	email, err := sessionEmail(c)
	if err != nil {
		return err
	}
	cart, err := h.Svc.Get(ctx, email)
	if err != nil {
		l.Error("get_cart_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
	return c.JSON(http.StatusOK, transport.NewCartResponse(cart))
}

func (h *CartHTTP) Add(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.add")

	email, err := sessionEmail(c)
	if err != nil {
		return err
	}
	var req transport.CartAddRequest
	if err := bindValid(c, &req); err != nil {
		l.Warn("add_to_cart_error", "status", 400, "error", err)
		return err
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	cart, err := h.Svc.Add(ctx, email, req.ProductID, req.Quantity)
	if err != nil {
		status, he := httpError(err, "failed to add product to cart")
		l.Warn("add_to_cart_error", "status", status, "error", err)
		return he
	}
	return c.JSON(http.StatusOK, transport.NewCartResponse(cart))
}

func (h *CartHTTP) Update(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.update")

	email, err := sessionEmail(c)
	if err != nil {
		return err
	}
	var req transport.CartUpdateRequest
	if err := bindValid(c, &req); err != nil {
		l.Warn("update_cart_error", "status", 400, "error", err)
		return err
	}

	cart, err := h.Svc.Update(ctx, email, req.ProductID, req.Quantity)
	if err != nil {
		status, he := httpError(err, "failed to update cart")
		l.Warn("update_cart_error", "status", status, "error", err)
		return he
	}
	return c.JSON(http.StatusOK, transport.NewCartResponse(cart))
}

func (h *CartHTTP) Remove(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.remove")

	email, err := sessionEmail(c)
	if err != nil {
		return err
	}
	cart, err := h.Svc.Remove(ctx, email, c.Param("product_id"))
	if err != nil {
		status, he := httpError(err, "failed to update cart")
		l.Warn("remove_from_cart_error", "status", status, "error", err)
		return he
	}
	return c.JSON(http.StatusOK, transport.NewCartResponse(cart))
}
