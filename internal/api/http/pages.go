package httpapi

import (
	"bytes"
	"embed"
	"html/template"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/i474232898/weather-dashboard/internal/dashboard"
	"github.com/i474232898/weather-dashboard/internal/geo"
	"github.com/i474232898/weather-dashboard/internal/logger"
)

//go:embed templates/*.html
var templateFS embed.FS

var pageTemplates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

type pageData struct {
	dashboard.Page
	// AskBrowser makes the page query navigator.geolocation before mounting.
	AskBrowser bool
}

// RegisterPages wires the server-rendered dashboard. Every form posts back
// and is answered with a redirect to the page.
func RegisterPages(app *fiber.App, session fiber.Handler, source geo.Source) {
	askBrowser := source == geo.SourceBrowser

	app.Get("/", session, func(c *fiber.Ctx) error {
		return renderPage(c, pageData{Page: viewFrom(c).Page(), AskBrowser: askBrowser})
	})

	app.Post("/mount", session, func(c *fiber.Ctx) error {
		viewFrom(c).Mount(c.UserContext(), reportFromForm(c))
		return c.Redirect("/", fiber.StatusSeeOther)
	})

	app.Post("/search", session, func(c *fiber.Ctx) error {
		viewFrom(c).Search(c.UserContext(), c.FormValue("q"))
		return c.Redirect("/", fiber.StatusSeeOther)
	})

	app.Post("/favorites", session, func(c *fiber.Ctx) error {
		// failures are logged by the view; the page shows the mirror either way
		_, _ = viewFrom(c).AddFavorite(c.UserContext())
		return c.Redirect("/", fiber.StatusSeeOther)
	})

	app.Post("/favorites/remove", session, func(c *fiber.Ctx) error {
		_ = viewFrom(c).RemoveFavorite(c.UserContext(), c.FormValue("name"))
		return c.Redirect("/", fiber.StatusSeeOther)
	})
}

func renderPage(c *fiber.Ctx, data pageData) error {
	var buf bytes.Buffer
	if err := pageTemplates.ExecuteTemplate(&buf, "dashboard.html", data); err != nil {
		logger.Get().Errorw("rendering dashboard failed", "error", err)
		return fiber.NewError(fiber.StatusInternalServerError, "failed to render page")
	}
	c.Type("html", "utf-8")
	return c.Send(buf.Bytes())
}

// reportFromForm reads the geolocation outcome posted by the page script.
// Unparseable coordinates are dropped, which the resolver treats as an
// unavailable position.
func reportFromForm(c *fiber.Ctx) geo.Report {
	r := geo.Report{
		Error:    c.FormValue("error"),
		ClientIP: c.IP(),
	}
	r.Supported, _ = strconv.ParseBool(c.FormValue("supported"))
	r.Latitude = formFloat(c, "latitude")
	r.Longitude = formFloat(c, "longitude")
	return r
}

func formFloat(c *fiber.Ctx, key string) *float64 {
	raw := strings.TrimSpace(c.FormValue(key))
	if raw == "" {
		return nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil
	}
	return &f
}
