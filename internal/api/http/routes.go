package httpapi

import (
	"errors"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/atmoview/atmoview/internal/lookup"
	"github.com/atmoview/atmoview/internal/transport"
)

var validate = validator.New()

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, service *lookup.Service) {
	v1 := app.Group("/api/v1")

	v1.Get("/place", func(c *fiber.Ctx) error {
		q, err := parseTextQuery(c)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		place, err := service.ResolvePlace(c.UserContext(), q.Q)
		if err != nil {
			return upstreamError(err)
		}
		if place == nil {
			return fiber.NewError(fiber.StatusNotFound, "place not found")
		}
		return c.JSON(place)
	})

	v1.Get("/weather", func(c *fiber.Ctx) error {
		q, err := parseCoordQuery(c)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		report, err := service.FetchWeather(c.UserContext(), q.Lat, q.Lon)
		if err != nil {
			return upstreamError(err)
		}
		return c.JSON(report)
	})

	v1.Get("/air-quality", func(c *fiber.Ctx) error {
		q, err := parseCoordQuery(c)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		snap, err := service.FetchAirQuality(c.UserContext(), q.Lat, q.Lon)
		if err != nil {
			return upstreamError(err)
		}
		return c.JSON(snap)
	})

	v1.Get("/report", func(c *fiber.Ctx) error {
		q, err := parseTextQuery(c)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		report, err := service.Lookup(c.UserContext(), q.Q)
		if err != nil {
			return upstreamError(err)
		}
		if report == nil {
			return fiber.NewError(fiber.StatusNotFound, "place not found")
		}
		return c.JSON(report)
	})
}

// upstreamError maps transport failures to gateway statuses. Error messages
// from the core are short enough to return to clients verbatim.
func upstreamError(err error) error {
	if errors.Is(err, transport.ErrTimeout) {
		return fiber.NewError(fiber.StatusGatewayTimeout, err.Error())
	}
	return fiber.NewError(fiber.StatusBadGateway, err.Error())
}

// textQuery holds the free-text query parameter.
type textQuery struct {
	Q string `validate:"required"`
}

func parseTextQuery(c *fiber.Ctx) (textQuery, error) {
	q := textQuery{Q: c.Query("q")}
	if err := validate.Struct(q); err != nil {
		return q, errors.New("q query parameter is required")
	}
	return q, nil
}

// coordQuery holds validated coordinates.
type coordQuery struct {
	Lat float64 `validate:"gte=-90,lte=90"`
	Lon float64 `validate:"gte=-180,lte=180"`
}

func parseCoordQuery(c *fiber.Ctx) (coordQuery, error) {
	latStr := c.Query("lat")
	lonStr := c.Query("lon")
	if latStr == "" || lonStr == "" {
		return coordQuery{}, errors.New("lat and lon query parameters are required")
	}

	lat, err := strconv.ParseFloat(latStr, 64)
	if err != nil {
		return coordQuery{}, errors.New("lat must be a number")
	}
	lon, err := strconv.ParseFloat(lonStr, 64)
	if err != nil {
		return coordQuery{}, errors.New("lon must be a number")
	}

	q := coordQuery{Lat: lat, Lon: lon}
	if err := validate.Struct(q); err != nil {
		return q, errors.New("lat must be in [-90,90] and lon in [-180,180]")
	}
	return q, nil
}
