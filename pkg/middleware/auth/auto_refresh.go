package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	jwthelp "github.com/Skotchmaster/retailer_portal/pkg/jwt"
	"github.com/Skotchmaster/retailer_portal/pkg/tokens"
)

const (
	CtxEmail = "email"
	CtxRole  = "role"

	LoginPath = "/login"
)

type Tokens struct {
	AccessToken  string
	RefreshToken string
	AccessExp    time.Time
	RefreshExp   time.Time
}

// Refresher exchanges a refresh token for a new token pair.
type Refresher interface {
	RefreshTokens(ctx context.Context, refreshToken string) (*Tokens, error)
}

type AutoRefreshMiddleware struct {
	JWTSecret []byte
	Refresher Refresher
}

func NewAutoRefreshMiddleware(secret []byte, r Refresher) *AutoRefreshMiddleware {
	return &AutoRefreshMiddleware{JWTSecret: secret, Refresher: r}
}

type ValidatorFunc func(claims *tokens.AccessClaims) error

func (m *AutoRefreshMiddleware) RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return m.requireAuthWithValidator(next, nil)
}

func (m *AutoRefreshMiddleware) RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return m.requireAuthWithValidator(next, func(claims *tokens.AccessClaims) error {
		if claims.Role != "admin" {
			return echo.NewHTTPError(http.StatusForbidden, "admin access required")
		}
		return nil
	})
}

// wantsJSON reports whether the client asked for a JSON answer rather than
// a browser redirect.
func wantsJSON(c echo.Context) bool {
	r := c.Request()
	return strings.Contains(r.Header.Get(echo.HeaderAccept), echo.MIMEApplicationJSON) ||
		r.Header.Get("X-Requested-With") == "XMLHttpRequest"
}

func unauthenticated(c echo.Context, reason string) error {
	if wantsJSON(c) {
		return echo.NewHTTPError(http.StatusUnauthorized, reason)
	}
	return c.Redirect(http.StatusSeeOther, LoginPath)
}

func (m *AutoRefreshMiddleware) requireAuthWithValidator(next echo.HandlerFunc, validator ValidatorFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		accessCookie, err := c.Cookie(jwthelp.AccessCookie)
		var claims *tokens.AccessClaims
		if err == nil && accessCookie.Value != "" {
			claims, err = tokens.AccessClaimsFromToken(accessCookie.Value, m.JWTSecret)
		} else {
			err = jwt.ErrTokenExpired
		}

		if err == nil && claims != nil {
			if validator != nil {
				if vErr := validator(claims); vErr != nil {
					return vErr
				}
			}
			setUserContext(c, claims)
			return next(c)
		}

		// A missing access cookie is treated like an expired one: the
		// refresh cookie may still carry the session.
		if !errors.Is(err, jwt.ErrTokenExpired) {
			clearAuthCookies(c)
			return unauthenticated(c, "invalid access token")
		}

		refreshCookie, rErr := c.Cookie(jwthelp.RefreshCookie)
		if rErr != nil || refreshCookie.Value == "" || m.Refresher == nil {
			clearAuthCookies(c)
			return unauthenticated(c, "login required")
		}

		pair, refErr := m.Refresher.RefreshTokens(c.Request().Context(), refreshCookie.Value)
		if refErr != nil {
			clearAuthCookies(c)
			return unauthenticated(c, "session expired")
		}

		c.SetCookie(jwthelp.CreateCookie(jwthelp.AccessCookie, pair.AccessToken, "/", pair.AccessExp))
		c.SetCookie(jwthelp.CreateCookie(jwthelp.RefreshCookie, pair.RefreshToken, "/", pair.RefreshExp))

		newClaims, pErr := tokens.AccessClaimsFromToken(pair.AccessToken, m.JWTSecret)
		if pErr != nil || newClaims == nil {
			clearAuthCookies(c)
			return unauthenticated(c, "new access token invalid")
		}

		if validator != nil {
			if vErr := validator(newClaims); vErr != nil {
				return vErr
			}
		}

		setUserContext(c, newClaims)
		return next(c)
	}
}

func clearAuthCookies(c echo.Context) {
	c.SetCookie(jwthelp.DeleteCookie(jwthelp.AccessCookie, "/"))
	c.SetCookie(jwthelp.DeleteCookie(jwthelp.RefreshCookie, "/"))
}

func setUserContext(c echo.Context, claims *tokens.AccessClaims) {
	c.Set(CtxEmail, claims.Subject)
	c.Set(CtxRole, claims.Role)
}

// Email returns the authenticated session identity set by RequireAuth.
func Email(c echo.Context) (string, bool) {
	s, ok := c.Get(CtxEmail).(string)
	return s, ok && s != ""
}
