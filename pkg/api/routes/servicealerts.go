package routes

import (
	"errors"

	"github.com/Super-mario11/Transport-Tracker/pkg/alerts"
	"github.com/Super-mario11/Transport-Tracker/pkg/session"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/liip/sheriff"
)

func ServiceAlertRouter(router fiber.Router, board *alerts.Board) {
	router.Get("/", func(c *fiber.Ctx) error {
		return sendServiceAlerts(c, board.Active())
	})

	router.Get("/matching/:identifier", func(c *fiber.Ctx) error {
		return sendServiceAlerts(c, board.Matching(c.Params("identifier")))
	})

	router.Post("/", RequireRole(session.RoleAdmin), func(c *fiber.Ctx) error {
		var form alerts.Form
		if err := c.BodyParser(&form); err != nil {
			c.SendStatus(fiber.StatusBadRequest)
			return c.JSON(fiber.Map{
				"error": "Could not parse service alert",
			})
		}

		alert, err := board.Publish(form, CurrentUser(c).Email)
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) || errors.Is(err, alerts.ErrInvalidValidity) {
			c.SendStatus(fiber.StatusBadRequest)
			return c.JSON(fiber.Map{
				"error": err.Error(),
			})
		}
		if err != nil {
			return err
		}

		c.Status(fiber.StatusCreated)
		return sendServiceAlerts(c, alert)
	})

	router.Delete("/:identifier", RequireRole(session.RoleAdmin), func(c *fiber.Ctx) error {
		if !board.Remove(c.Params("identifier")) {
			c.SendStatus(fiber.StatusNotFound)
			return c.JSON(fiber.Map{
				"error": "Could not find Service Alert matching Identifier",
			})
		}

		return c.SendStatus(fiber.StatusNoContent)
	})
}

// sendServiceAlerts writes one alert or a list of them without the internal fields.
func sendServiceAlerts(c *fiber.Ctx, serviceAlerts any) error {
	serviceAlertsReduced, err := sheriff.Marshal(&sheriff.Options{
		Groups: []string{"basic", "detailed"},
	}, serviceAlerts)
	if err != nil {
		c.SendStatus(fiber.StatusInternalServerError)
		return c.JSON(fiber.Map{
			"error": "Sherrif could not reduce Service Alerts",
		})
	}

	return c.JSON(serviceAlertsReduced)
}
