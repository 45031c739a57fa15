package httpapi

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/i474232898/weather-dashboard/internal/dashboard"
)

const (
	sessionCookie = "wd_session"
	localsView    = "dashboard.view"
	// favorites are tied to the session id, so the cookie outlives the
	// browser session
	sessionCookieMaxAge = 365 * 24 * time.Hour
)

// sessionMiddleware attaches the caller's dashboard view, issuing a new
// session cookie when the request has none or a malformed one.
func sessionMiddleware(reg *dashboard.Registry, secure bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Cookies(sessionCookie)
		if _, err := uuid.Parse(id); err != nil {
			id = reg.NewSessionID()
			c.Cookie(&fiber.Cookie{
				Name:     sessionCookie,
				Value:    id,
				Path:     "/",
				MaxAge:   int(sessionCookieMaxAge.Seconds()),
				HTTPOnly: true,
				Secure:   secure,
				SameSite: fiber.CookieSameSiteLaxMode,
			})
		}

		c.Locals(localsView, reg.Get(c.UserContext(), id))
		return c.Next()
	}
}

func viewFrom(c *fiber.Ctx) *dashboard.View {
	v, _ := c.Locals(localsView).(*dashboard.View)
	return v
}
