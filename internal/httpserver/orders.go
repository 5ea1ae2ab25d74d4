package httpserver

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/retailer_portal/internal/models"
	"github.com/Skotchmaster/retailer_portal/internal/service"
	"github.com/Skotchmaster/retailer_portal/internal/sheets"
	"github.com/Skotchmaster/retailer_portal/pkg/logging"
)

const (
	CartPath = "/api/v1/cart"

	dateLayout = "2006-01-02"
	xlsxMIME   = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

type OrderHTTP struct {
	Svc *service.OrderService
}

// Checkout places the session cart as one order. An empty cart sends the
// client back to the cart view without touching any table.
func (h *OrderHTTP) Checkout(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.checkout")

	email, err := sessionEmail(c)
	if err != nil {
		return err
	}

	receipt, err := h.Svc.PlaceOrder(ctx, email)
	if errors.Is(err, service.ErrEmptyCart) {
		l.Info("checkout_empty_cart")
		return c.Redirect(http.StatusSeeOther, CartPath)
	}
	if err != nil {
		l.Error("checkout_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "order failed")
	}

	l.Info("checkout_successful", "order_id", receipt.OrderID)
	return c.JSON(http.StatusCreated, receipt)
}

func parseHistoryFilter(c echo.Context) (service.HistoryFilter, error) {
	var f service.HistoryFilter
	f.Status = models.OrderStatus(c.QueryParam("status"))
	if v := c.QueryParam("from"); v != "" {
		t, err := time.Parse(dateLayout, v)
		if err != nil {
			return f, fmt.Errorf("from must be YYYY-MM-DD: %w", service.ErrValidation)
		}
		f.From = t
	}
	if v := c.QueryParam("to"); v != "" {
		t, err := time.Parse(dateLayout, v)
		if err != nil {
			return f, fmt.Errorf("to must be YYYY-MM-DD: %w", service.ErrValidation)
		}
		f.To = t.Add(24*time.Hour - time.Nanosecond)
	}
	return f, nil
}

func (h *OrderHTTP) History(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.history")

	email, err := sessionEmail(c)
	if err != nil {
		return err
	}
	f, err := parseHistoryFilter(c)
	if err != nil {
		l.Warn("history_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	orders, err := h.Svc.History(ctx, email, f)
	if err != nil {
		status, he := httpError(err, "cannot load orders")
		l.Warn("history_error", "status", status, "error", err)
		return he
	}
	return c.JSON(http.StatusOK, paginate(c, orders))
}

func (h *OrderHTTP) Get(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.get")

	email, err := sessionEmail(c)
	if err != nil {
		return err
	}
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		l.Warn("get_order_error", "status", 400, "reason", "id is not an integer", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid order id")
	}

	order, err := h.Svc.Order(ctx, email, id)
	if err != nil {
		status, he := httpError(err, "cannot load order")
		l.Warn("get_order_error", "status", status, "error", err)
		return he
	}
	return c.JSON(http.StatusOK, order)
}

func (h *OrderHTTP) Export(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.export")

	email, err := sessionEmail(c)
	if err != nil {
		return err
	}
	rows, err := h.Svc.Rows(ctx, email)
	if err != nil {
		l.Error("export_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "export failed")
	}

	var buf bytes.Buffer
	if err := sheets.WriteOrders(&buf, rows); err != nil {
		l.Error("export_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "export failed")
	}

	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="orders.xlsx"`)
	return c.Blob(http.StatusOK, xlsxMIME, buf.Bytes())
}

func (h *OrderHTTP) Deliveries(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.deliveries")

	email, err := sessionEmail(c)
	if err != nil {
		return err
	}
	rows, err := h.Svc.Deliveries(ctx, email)
	if err != nil {
		l.Error("deliveries_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot load deliveries")
	}
	return c.JSON(http.StatusOK, rows)
}

func (h *OrderHTTP) AdvanceDelivery(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.advance_delivery")

	id, err := strconv.ParseInt(c.Param("order_id"), 10, 64)
	if err != nil {
		l.Warn("advance_delivery_error", "status", 400, "reason", "id is not an integer", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid order id")
	}

	d, err := h.Svc.AdvanceDelivery(ctx, id)
	if err != nil {
		status, he := httpError(err, "cannot update delivery")
		l.Warn("advance_delivery_error", "status", status, "error", err)
		return he
	}
	return c.JSON(http.StatusOK, d)
}
