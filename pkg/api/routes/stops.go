package routes

import (
	"strings"

	"github.com/Super-mario11/Transport-Tracker/pkg/ctdf"
	"github.com/Super-mario11/Transport-Tracker/pkg/referencedata"
	"github.com/gofiber/fiber/v2"
	"github.com/liip/sheriff"
)

func StopsRouter(router fiber.Router, data *referencedata.Data) {
	router.Get("/", func(c *fiber.Ctx) error {
		search := strings.ToLower(strings.TrimSpace(c.Query("search")))

		bounds, err := getBoundsQuery(c)
		if err != nil {
			c.SendStatus(fiber.StatusBadRequest)
			return c.JSON(fiber.Map{
				"error": err.Error(),
			})
		}

		stops := []*ctdf.Stop{}
		for _, stop := range data.Stops {
			if search != "" && !strings.Contains(strings.ToLower(stop.PrimaryName), search) {
				continue
			}
			if bounds != nil && !bounds.Contains(stop.Location.Coordinates) {
				continue
			}

			stops = append(stops, stop)
		}

		stopsReduced, err := sheriff.Marshal(&sheriff.Options{
			Groups: []string{"basic"},
		}, stops)
		if err != nil {
			c.SendStatus(fiber.StatusInternalServerError)
			return c.JSON(fiber.Map{
				"error": "Sherrif could not reduce Stops",
			})
		}

		return c.JSON(stopsReduced)
	})

	router.Get("/:identifier", func(c *fiber.Ctx) error {
		stop, ok := data.GetStop(c.Params("identifier"))
		if !ok {
			c.SendStatus(fiber.StatusNotFound)
			return c.JSON(fiber.Map{
				"error": "Could not find Stop matching Stop Identifier",
			})
		}

		routeRefs := []string{}
		for _, route := range data.RoutesServingStop(stop.PrimaryIdentifier) {
			routeRefs = append(routeRefs, route.PrimaryIdentifier)
		}

		return c.JSON(fiber.Map{
			"id":       stop.PrimaryIdentifier,
			"name":     stop.PrimaryName,
			"location": stop.Location,
			"routes":   routeRefs,
		})
	})
}
