package routes

import (
	"errors"

	"github.com/Super-mario11/Transport-Tracker/pkg/forms"
	"github.com/Super-mario11/Transport-Tracker/pkg/session"
	"github.com/gofiber/fiber/v2"
	"github.com/liip/sheriff"
)

func AuthRouter(router fiber.Router) {
	router.Post("/login", login)
	router.Post("/signup", signup)
	router.Post("/logout", logout)
	router.Get("/session", getSession)
}

func login(c *fiber.Ctx) error {
	var form forms.LoginForm
	if err := c.BodyParser(&form); err != nil {
		c.SendStatus(fiber.StatusBadRequest)
		return c.JSON(fiber.Map{
			"error": "Could not parse login form",
		})
	}

	if err := form.Validate(); err != nil {
		return sendValidationError(c, err)
	}

	role, err := CurrentStore(c).Login(c.UserContext(), form.Email, form.Password)
	if err != nil {
		return sendAuthError(c, err)
	}

	return c.JSON(fiber.Map{
		"role":     role,
		"redirect": string(session.HomePage(role)),
	})
}

func signup(c *fiber.Ctx) error {
	var form forms.SignupForm
	if err := c.BodyParser(&form); err != nil {
		c.SendStatus(fiber.StatusBadRequest)
		return c.JSON(fiber.Map{
			"error": "Could not parse signup form",
		})
	}

	if err := form.Validate(); err != nil {
		return sendValidationError(c, err)
	}

	role, err := CurrentStore(c).Signup(c.UserContext(), form.Email, form.Password)
	if err != nil {
		return sendAuthError(c, err)
	}

	c.Status(fiber.StatusCreated)
	return c.JSON(fiber.Map{
		"role":     role,
		"redirect": string(session.HomePage(role)),
	})
}

func logout(c *fiber.Ctx) error {
	CurrentStore(c).Logout(c.UserContext())

	return c.JSON(fiber.Map{
		"redirect": string(session.PageLanding),
	})
}

func getSession(c *fiber.Ctx) error {
	store := CurrentStore(c)
	user := CurrentUser(c)

	var userReduced interface{}
	if user != nil {
		var err error
		userReduced, err = sheriff.Marshal(&sheriff.Options{
			Groups: []string{"basic"},
		}, user)
		if err != nil {
			c.SendStatus(fiber.StatusInternalServerError)
			return c.JSON(fiber.Map{
				"error": "Sherrif could not reduce User",
			})
		}
	}

	return c.JSON(fiber.Map{
		"state":      store.State().String(),
		"user":       userReduced,
		"navigation": session.NavigationFor(store.State(), user),
	})
}

func sendValidationError(c *fiber.Ctx, err error) error {
	var validationError *forms.ValidationError
	if !errors.As(err, &validationError) {
		c.SendStatus(fiber.StatusBadRequest)
		return c.JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	c.SendStatus(fiber.StatusBadRequest)
	return c.JSON(fiber.Map{
		"error": validationError.Message,
		"field": validationError.Field,
	})
}

func sendAuthError(c *fiber.Ctx, err error) error {
	var authError *session.AuthError
	if !errors.As(err, &authError) {
		return err
	}

	status := fiber.StatusBadRequest
	switch authError.Kind {
	case session.InvalidCredentials:
		status = fiber.StatusUnauthorized
	case session.EmailExists, session.AlreadyAuthenticated:
		status = fiber.StatusConflict
	case session.NotRestored:
		status = fiber.StatusServiceUnavailable
	}

	c.SendStatus(status)
	return c.JSON(fiber.Map{
		"error": authError.Message,
		"kind":  authError.Kind,
	})
}
