package routes

import (
	"github.com/Super-mario11/Transport-Tracker/pkg/ctdf"
	"github.com/Super-mario11/Transport-Tracker/pkg/referencedata"
	"github.com/gofiber/fiber/v2"
	"github.com/liip/sheriff"
)

func RoutesRouter(router fiber.Router, data *referencedata.Data) {
	router.Get("/", func(c *fiber.Ctx) error {
		routes := data.Routes
		if transportType := c.Query("type"); transportType != "" {
			routes = []*ctdf.Route{}
			for _, route := range data.Routes {
				if route.TransportType == ctdf.TransportType(transportType) {
					routes = append(routes, route)
				}
			}
		}

		routesReduced, err := sheriff.Marshal(&sheriff.Options{
			Groups: []string{"basic"},
		}, routes)
		if err != nil {
			c.SendStatus(fiber.StatusInternalServerError)
			return c.JSON(fiber.Map{
				"error": "Sherrif could not reduce Routes",
			})
		}

		return c.JSON(routesReduced)
	})

	router.Get("/:identifier", func(c *fiber.Ctx) error {
		route, ok := data.GetRoute(c.Params("identifier"))
		if !ok {
			c.SendStatus(fiber.StatusNotFound)
			return c.JSON(fiber.Map{
				"error": "Could not find Route matching Route Identifier",
			})
		}

		routeReduced, err := sheriff.Marshal(&sheriff.Options{
			Groups: []string{"basic"},
		}, route)
		if err != nil {
			c.SendStatus(fiber.StatusInternalServerError)
			return c.JSON(fiber.Map{
				"error": "Sherrif could not reduce Route",
			})
		}

		return c.JSON(fiber.Map{
			"route": routeReduced,
			"stops": route.Stops,
		})
	})
}
