package httpapi

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/i474232898/weather-dashboard/internal/dashboard"
	"github.com/i474232898/weather-dashboard/internal/geo"
	"github.com/i474232898/weather-dashboard/internal/weather"
)

var validate = validator.New()

// RegisterRoutes wires the JSON API into the Fiber app.
func RegisterRoutes(app *fiber.App, session fiber.Handler, source dashboard.WeatherSource) {
	v1 := app.Group("/api/v1")

	v1.Get("/weather/current", func(c *fiber.Ctx) error {
		q, err := parseCurrentQuery(c)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		snapshot, err := source.Current(c.UserContext(), q)
		if err != nil {
			return err
		}
		return c.JSON(snapshot)
	})

	v1.Get("/dashboard", session, func(c *fiber.Ctx) error {
		return c.JSON(viewFrom(c).Page())
	})

	v1.Post("/dashboard/mount", session, func(c *fiber.Ctx) error {
		var report geo.Report
		if err := c.BodyParser(&report); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid location report")
		}
		report.ClientIP = c.IP()

		view := viewFrom(c)
		view.Mount(c.UserContext(), report)
		return c.JSON(view.Page())
	})

	v1.Post("/dashboard/search", session, func(c *fiber.Ctx) error {
		var req searchRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid search request")
		}

		view := viewFrom(c)
		view.Search(c.UserContext(), req.Q)
		return c.JSON(view.Page())
	})

	v1.Get("/favorites", session, func(c *fiber.Ctx) error {
		return c.JSON(viewFrom(c).Favorites())
	})

	v1.Post("/favorites", session, func(c *fiber.Ctx) error {
		view := viewFrom(c)
		added, err := view.AddFavorite(c.UserContext())
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "failed to save favorites")
		}
		if !added {
			return fiber.NewError(fiber.StatusConflict, "no weather is displayed")
		}
		return c.JSON(view.Favorites())
	})

	v1.Delete("/favorites/:name", session, func(c *fiber.Ctx) error {
		name, err := url.PathUnescape(c.Params("name"))
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid favorite name")
		}

		view := viewFrom(c)
		if err := view.RemoveFavorite(c.UserContext(), name); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "failed to save favorites")
		}
		return c.JSON(view.Favorites())
	})
}

type searchRequest struct {
	Q string `json:"q" form:"q"`
}

// currentQuery holds query parameters for the stateless weather lookup:
// a place name, or a coordinate pair.
type currentQuery struct {
	Q   string `validate:"required_without_all=Lat Lon"`
	Lat string `validate:"required_with=Lon"`
	Lon string `validate:"required_with=Lat"`
}

func parseCurrentQuery(c *fiber.Ctx) (weather.Query, error) {
	req := currentQuery{
		Q:   c.Query("q"),
		Lat: c.Query("lat"),
		Lon: c.Query("lon"),
	}
	if err := validate.Struct(req); err != nil {
		return weather.Query{}, err
	}

	if req.Lat != "" {
		if err := validate.Var(req.Lat, "latitude"); err != nil {
			return weather.Query{}, fiber.NewError(fiber.StatusBadRequest, "lat must be a valid latitude")
		}
		if err := validate.Var(req.Lon, "longitude"); err != nil {
			return weather.Query{}, fiber.NewError(fiber.StatusBadRequest, "lon must be a valid longitude")
		}
		lat, err := strconv.ParseFloat(req.Lat, 64)
		if err != nil {
			return weather.Query{}, err
		}
		lon, err := strconv.ParseFloat(req.Lon, 64)
		if err != nil {
			return weather.Query{}, err
		}
		return weather.ByCoordinates(weather.GeoLocation{Latitude: lat, Longitude: lon}), nil
	}

	if strings.TrimSpace(req.Q) == "" {
		return weather.Query{}, fiber.NewError(fiber.StatusBadRequest, "q must not be blank")
	}
	return weather.ByName(req.Q), nil
}
