package middleware

import (
	"errors"
	"net/http"
	"net/url"

	"patientrecords/internal/common"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
)

var errMissingHub = errors.New("session has no hub")

// SessionClaims is the session token issued by the hub.
type SessionClaims struct {
	UserID      string   `json:"user_id"`
	HubID       string   `json:"hub_id"`
	Permissions []string `json:"permissions"`
	jwt.RegisteredClaims
}

// Validate is called by the jwt parser after the registered claims checks.
func (c *SessionClaims) Validate() error {
	if _, ok := common.ParseID(c.HubID); !ok {
		return errMissingHub
	}
	return nil
}

func (c *SessionClaims) userID() uuid.UUID {
	raw := c.UserID
	if raw == "" {
		raw = c.Subject
	}
	id, _ := common.ParseID(raw)
	return id
}

func (c *SessionClaims) hubID() uuid.UUID {
	id, _ := common.ParseID(c.HubID)
	return id
}

type AuthConfig struct {
	// SigningKey verifies HS256 tokens. Ignored when KeyFunc is set.
	SigningKey []byte
	KeyFunc    jwt.Keyfunc
	CookieName string
	LoginURL   string
}

// Authenticate accepts the session token from the Authorization header or
// the session cookie and stores the session on the request context.
// Requests without a valid session are sent to the login page.
func Authenticate(cfg AuthConfig) echo.MiddlewareFunc {
	lookup := "header:Authorization:Bearer "
	if cfg.CookieName != "" {
		lookup += ",cookie:" + cfg.CookieName
	}

	return echojwt.WithConfig(echojwt.Config{
		SigningKey:  cfg.SigningKey,
		KeyFunc:     cfg.KeyFunc,
		TokenLookup: lookup,
		NewClaimsFunc: func(c echo.Context) jwt.Claims {
			return new(SessionClaims)
		},
		SuccessHandler: func(c echo.Context) {
			token, ok := c.Get("user").(*jwt.Token)
			if !ok {
				return
			}
			claims, ok := token.Claims.(*SessionClaims)
			if !ok {
				return
			}
			ctx := common.WithSession(c.Request().Context(), claims.userID(), claims.hubID(), claims.Permissions)
			c.SetRequest(c.Request().WithContext(ctx))
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return redirectToLogin(c, cfg.LoginURL)
		},
	})
}

func redirectToLogin(c echo.Context, loginURL string) error {
	target := loginURL + "?next=" + url.QueryEscape(c.Request().URL.RequestURI())
	if c.Request().Header.Get("HX-Request") == "true" {
		c.Response().Header().Set("HX-Redirect", target)
	}
	return c.Redirect(http.StatusFound, target)
}
