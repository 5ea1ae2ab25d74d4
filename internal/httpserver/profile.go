package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/retailer_portal/internal/service"
	"github.com/Skotchmaster/retailer_portal/internal/transport"
	"github.com/Skotchmaster/retailer_portal/pkg/logging"
)

type ProfileHTTP struct {
	Svc       *service.ProfileService
	Assistant *service.AssistantService
}

func (h *ProfileHTTP) Profile(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "profile.get")

	email, err := sessionEmail(c)
	if err != nil {
		return err
	}
	p, err := h.Svc.Get(ctx, email)
	if err != nil {
		status, he := httpError(err, "could not load profile data")
		l.Warn("profile_error", "status", status, "error", err)
		return he
	}
	return c.JSON(http.StatusOK, p)
}

func (h *ProfileHTTP) Ask(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "assistant.ask")

	email, err := sessionEmail(c)
	if err != nil {
		return err
	}
	var req transport.AssistantRequest
	if err := bindValid(c, &req); err != nil {
		l.Warn("assistant_error", "status", 400, "error", err)
		return err
	}

	return c.JSON(http.StatusOK, transport.AssistantResponse{
		Query:    req.Query,
		Response: h.Assistant.Reply(ctx, email, req.Query),
	})
}
