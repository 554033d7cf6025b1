package routes

import (
	"github.com/Super-mario11/Transport-Tracker/pkg/session"
	"github.com/gofiber/fiber/v2"
)

func NavigationRouter(router fiber.Router) {
	router.Get("/", getNavigation)
	router.Get("/authorize", authorizePage)
}

func getNavigation(c *fiber.Ctx) error {
	return c.JSON(session.NavigationFor(CurrentStore(c).State(), CurrentUser(c)))
}

// authorizePage tells the presentation layer whether it may show a page. It answers with the
// same statuses the role gate uses.
func authorizePage(c *fiber.Ctx) error {
	page := session.Page(c.Query("page"))
	if page == "" {
		c.SendStatus(fiber.StatusBadRequest)
		return c.JSON(fiber.Map{
			"error": "A page must be given",
		})
	}

	decision := session.Authorize(CurrentUser(c), page)

	response := fiber.Map{
		"page":     page,
		"decision": decision.String(),
	}

	switch decision {
	case session.RedirectToLogin:
		c.Status(fiber.StatusUnauthorized)
		response["redirect"] = string(session.PageLogin)
	case session.Forbidden:
		c.Status(fiber.StatusForbidden)
	}

	return c.JSON(response)
}
