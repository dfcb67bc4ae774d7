package httpapi

import (
	"time"

	"github.com/dmitrijs2005/secureshare/internal/logging"
	"github.com/dmitrijs2005/secureshare/internal/server/auth"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const (
	// RequestIDHeader is the standard header name used to propagate request IDs.
	RequestIDHeader = "X-Request-ID"
	// RequestIDLocalKey is the key used to store the request ID in Fiber's context locals.
	RequestIDLocalKey = "request_id"
	// SessionIDLocalKey is the key used to store the caller's session id in
	// Fiber's context locals after the Session middleware has run.
	SessionIDLocalKey = "session_id"
)

// RequestID is a reusable middleware that ensures every request has a
// request ID.
//
// Behavior:
// - Reads X-Request-ID from the incoming request header.
// - If missing, generates a new UUID.
// - Stores the value in Fiber context locals under RequestIDLocalKey.
// - Adds X-Request-ID to the response header with the same value.
func RequestID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Get(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}

		c.Locals(RequestIDLocalKey, id)
		c.Set(RequestIDHeader, id)

		return c.Next()
	}
}

// Session resolves the caller's session from the signed session cookie.
//
// A valid cookie yields its embedded session id. A missing, expired or
// forged cookie starts a fresh session: a new id is minted, signed and set
// as a replacement cookie. Requests therefore always carry a session id by
// the time handlers run, available under SessionIDLocalKey.
//
// The cookie is HttpOnly, Secure and SameSite=Strict so it is unreadable
// from scripts and never sent on cross-site requests.
func Session(cookieName string, secret []byte, validity time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sessionID, err := auth.GetSessionIDFromToken(c.Cookies(cookieName), secret)
		if err != nil {
			sessionID = uuid.NewString()

			token, terr := auth.GenerateToken(sessionID, secret, validity)
			if terr != nil {
				return terr
			}

			c.Cookie(&fiber.Cookie{
				Name:     cookieName,
				Value:    token,
				Path:     "/",
				Expires:  time.Now().Add(validity),
				Secure:   true,
				HTTPOnly: true,
				SameSite: fiber.CookieSameSiteStrictMode,
			})
		}

		c.Locals(SessionIDLocalKey, sessionID)

		return c.Next()
	}
}

// sessionIDFromCtx extracts the session id stored by the Session middleware.
func sessionIDFromCtx(c *fiber.Ctx) string {
	if v := c.Locals(SessionIDLocalKey); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// SecurityHeaders adds browser hardening headers to every response.
func SecurityHeaders() fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Set("X-Content-Type-Options", "nosniff")
		c.Set("X-Frame-Options", "DENY")
		c.Set("X-XSS-Protection", "1; mode=block")
		c.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains; preload")
		c.Set("Content-Security-Policy",
			"default-src 'self'; frame-ancestors 'none'; base-uri 'self'; form-action 'self';")

		return c.Next()
	}
}

// RequestLogger logs each HTTP request with its request id, method, path,
// status and latency.
func RequestLogger(logger logging.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			if fiberErr, ok := err.(*fiber.Error); ok {
				status = fiberErr.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}

		logger.Info(c.UserContext(), "http request",
			"request_id", requestIDFromCtx(c),
			"method", c.Method(),
			"path", c.Path(),
			"status", status,
			"latency_ms", float64(time.Since(start).Milliseconds()),
		)

		return err
	}
}
