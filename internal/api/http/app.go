package httpapi

import (
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/i474232898/weather-dashboard/internal/common"
	"github.com/i474232898/weather-dashboard/internal/dashboard"
	"github.com/i474232898/weather-dashboard/internal/geo"
	"github.com/i474232898/weather-dashboard/internal/logger"
	"github.com/i474232898/weather-dashboard/internal/metrics"
	"github.com/i474232898/weather-dashboard/internal/weather"
)

const serviceName = "weather-dashboard"

// Deps are the components the HTTP layer drives.
type Deps struct {
	Weather  dashboard.WeatherSource
	Sessions *dashboard.Registry
	// LocationSource decides whether the page asks the browser for its
	// position before mounting.
	LocationSource geo.Source
	// SecureCookies marks the session cookie Secure.
	SecureCookies bool
}

// NewApp builds the fiber app with every route registered.
func NewApp(d Deps) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               serviceName,
		DisableStartupMessage: true,
		// handlers keep form values past the request (search text, names)
		Immutable:    true,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		ErrorHandler: errorHandler,
	})

	// Global middleware
	app.Use(recover.New())
	app.Use(requestLogger())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":   "ok",
			"service":  serviceName,
			"sessions": d.Sessions.Len(),
		})
	})
	app.Get("/metrics", adaptor.HTTPHandler(metrics.Handler()))

	session := sessionMiddleware(d.Sessions, d.SecureCookies)
	RegisterPages(app, session, d.LocationSource)
	RegisterRoutes(app, session, d.Weather)

	return app
}

// errorHandler is the single exit for handler errors.
func errorHandler(c *fiber.Ctx, err error) error {
	code := statusFor(err)

	if common.WantsHTML(c.Get(fiber.HeaderAccept)) && !strings.HasPrefix(c.Path(), "/api/") {
		return c.Status(code).SendString(err.Error())
	}
	return c.Status(code).JSON(fiber.Map{
		"error":   true,
		"message": err.Error(),
	})
}

func statusFor(err error) int {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return fe.Code
	}

	switch weather.KindOf(err) {
	case weather.KindConfigurationMissing:
		return fiber.StatusInternalServerError
	case weather.KindProviderError, weather.KindMalformedResponse:
		return fiber.StatusBadGateway
	case weather.KindUnsupportedCapability, weather.KindPermissionOrPositionUnavailable:
		return fiber.StatusUnprocessableEntity
	default:
		return fiber.StatusInternalServerError
	}
}

// requestLogger logs one line per request with zap.
func requestLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		path := c.Path()
		if path == "/health" || path == "/metrics" {
			return c.Next()
		}

		start := time.Now()
		err := c.Next()
		latency := time.Since(start)

		status := c.Response().StatusCode()
		if err != nil {
			status = statusFor(err)
		}

		log := logger.Get()
		fields := []interface{}{
			"method", c.Method(),
			"uri", c.OriginalURL(),
			"status", status,
			"latency", latency,
		}
		if err != nil && status >= fiber.StatusInternalServerError {
			log.Errorw("request failed", append(fields, "error", err)...)
		} else {
			log.Infow("request completed", fields...)
		}
		return err
	}
}
