package middleware

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/rashad-agri/marketplace/internal/core/service"
)

// SessionCookie names the cookie carrying the browser session id.
const SessionCookie = "rashad_sid"

const sessionKey = "session"

// SessionSource resolves a session id to its initialised session.
type SessionSource interface {
	Get(ctx context.Context, id string) (*service.Session, error)
}

// SessionOptions configures the Session middleware.
type SessionOptions struct {
	// JWTSecret verifies bearer tokens. API clients may present the access
	// token instead of the cookie.
	JWTSecret string
	Secure    bool
	MaxAge    time.Duration
}

// Session attaches the caller's session to the echo context. A request without
// a usable cookie starts a new session and receives its cookie.
func Session(src SessionSource, opts SessionOptions) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			sid, err := bearerSession(c.Request().Header.Get(echo.HeaderAuthorization), opts.JWTSecret)
			switch {
			case errors.Is(err, errNoBearer):
				sid = cookieSession(c, opts)
			case err != nil:
				return err
			}

			s, err := src.Get(c.Request().Context(), sid)
			if err != nil {
				return err
			}
			c.Set(sessionKey, s)
			return next(c)
		}
	}
}

func cookieSession(c echo.Context, opts SessionOptions) string {
	if ck, err := c.Cookie(SessionCookie); err == nil {
		if _, perr := uuid.Parse(ck.Value); perr == nil {
			return ck.Value
		}
	}
	sid := uuid.NewString()
	c.SetCookie(&http.Cookie{
		Name:     SessionCookie,
		Value:    sid,
		Path:     "/",
		HttpOnly: true,
		Secure:   opts.Secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(opts.MaxAge.Seconds()),
	})
	return sid
}

// SessionFrom returns the session attached by the Session middleware.
func SessionFrom(c echo.Context) (*service.Session, bool) {
	s, ok := c.Get(sessionKey).(*service.Session)
	return s, ok && s != nil
}

// SetSession attaches s to c. Handlers under test use it in place of the
// middleware.
func SetSession(c echo.Context, s *service.Session) {
	c.Set(sessionKey, s)
}
