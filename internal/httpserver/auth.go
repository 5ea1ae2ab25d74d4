package httpserver

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/retailer_portal/internal/service"
	"github.com/Skotchmaster/retailer_portal/internal/transport"
	jwthelp "github.com/Skotchmaster/retailer_portal/pkg/jwt"
	"github.com/Skotchmaster/retailer_portal/pkg/logging"
	middleware "github.com/Skotchmaster/retailer_portal/pkg/middleware/auth"
)

type AuthHTTP struct {
	Svc *service.AuthService
}

func setSession(c echo.Context, res *service.LoginResult) {
	c.SetCookie(jwthelp.CreateCookie(jwthelp.AccessCookie, res.AccessToken, "/", res.AccessExp))
	c.SetCookie(jwthelp.CreateCookie(jwthelp.RefreshCookie, res.RefreshToken, "/", res.RefreshExp))
}

func clearSession(c echo.Context) {
	c.SetCookie(jwthelp.DeleteCookie(jwthelp.AccessCookie, "/"))
	c.SetCookie(jwthelp.DeleteCookie(jwthelp.RefreshCookie, "/"))
}

func (h *AuthHTTP) Signup(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.signup")

	var req transport.SignupRequest
	if err := bindValid(c, &req); err != nil {
		l.Warn("signup_error", "status", 400, "error", err)
		return err
	}

	user, err := h.Svc.Signup(ctx, service.SignupInput{
		ShopName:  req.ShopName,
		OwnerName: req.OwnerName,
		Location:  req.Location,
		Phone:     req.Phone,
		Email:     req.Email,
		Password:  req.Password,
	})
	if err != nil {
		status, he := httpError(err, "signup failed")
		l.Warn("signup_error", "status", status, "error", err)
		return he
	}

	l.Info("signup_successful", "email", user.Email)
	return c.JSON(http.StatusCreated, transport.UserResponse{Email: user.Email, ShopName: user.ShopName, Role: user.Role})
}

func (h *AuthHTTP) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.login")

	var req transport.LoginRequest
	if err := bindValid(c, &req); err != nil {
		l.Warn("login_error", "status", 400, "error", err)
		return err
	}

	res, err := h.Svc.Login(ctx, req.Email, req.Password)
	if err != nil {
		status, he := httpError(err, "login failed")
		l.Warn("login_failed", "status", status, "error", err)
		return he
	}

	setSession(c, res)
	l.Info("login_successful", "email", res.User.Email)
	return c.JSON(http.StatusOK, transport.UserResponse{Email: res.User.Email, ShopName: res.User.ShopName, Role: res.User.Role})
}

func (h *AuthHTTP) Refresh(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.refresh")

	ck, err := c.Cookie(jwthelp.RefreshCookie)
	if err != nil || ck.Value == "" {
		l.Warn("refresh_error", "status", 401, "reason", "missing refresh token")
		return echo.NewHTTPError(http.StatusUnauthorized, "missing refresh token")
	}

	res, err := h.Svc.Refresh(ctx, ck.Value)
	if err != nil {
		clearSession(c)
		status, _ := httpError(err, "refresh failed")
		l.Warn("refresh_error", "status", status, "error", err)
		if status == http.StatusUnauthorized {
			return echo.NewHTTPError(http.StatusUnauthorized, "session expired")
		}
		return echo.NewHTTPError(status, "refresh failed")
	}

	setSession(c, res)
	return c.JSON(http.StatusOK, transport.UserResponse{Email: res.User.Email, ShopName: res.User.ShopName, Role: res.User.Role})
}

func (h *AuthHTTP) Logout(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.logout")

	if ck, err := c.Cookie(jwthelp.RefreshCookie); err == nil {
		if err := h.Svc.Logout(ctx, ck.Value); err != nil {
			clearSession(c)
			l.Error("logout_failed", "status", 500, "reason", "cannot revoke refresh token", "error", err)
			return echo.NewHTTPError(http.StatusInternalServerError, "logout failed")
		}
	}

	clearSession(c)
	l.Info("logout_successful")
	return c.JSON(http.StatusOK, echo.Map{"message": "logged out"})
}

// LoginPage is where unauthenticated browsers are sent.
func (h *AuthHTTP) LoginPage(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{
		"message": "login required",
		"login":   "POST /api/v1/auth/login",
		"signup":  "POST /api/v1/auth/signup",
	})
}

// refresher lets the auth middleware rotate tokens in process.
type refresher struct {
	svc *service.AuthService
}

func (r refresher) RefreshTokens(ctx context.Context, refreshToken string) (*middleware.Tokens, error) {
	res, err := r.svc.Refresh(ctx, refreshToken)
	if err != nil {
		return nil, err
	}
	return &middleware.Tokens{
		AccessToken:  res.AccessToken,
		RefreshToken: res.RefreshToken,
		AccessExp:    res.AccessExp,
		RefreshExp:   res.RefreshExp,
	}, nil
}
