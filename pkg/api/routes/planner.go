package routes

import (
	"errors"

	"github.com/Super-mario11/Transport-Tracker/pkg/planner"
	"github.com/gofiber/fiber/v2"
)

func PlannerRouter(router fiber.Router) {
	router.Get("/", getPlan)
}

func getPlan(c *fiber.Ctx) error {
	plan, err := planner.Plan(c.Query("from"), c.Query("to"))
	if errors.Is(err, planner.ErrMissingEndpoints) {
		c.SendStatus(fiber.StatusBadRequest)
		return c.JSON(fiber.Map{
			"error": "Please enter both a start and a destination",
		})
	}
	if err != nil {
		return err
	}

	return c.JSON(plan)
}
