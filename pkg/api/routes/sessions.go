package routes

import (
	"context"
	"time"

	"github.com/Super-mario11/Transport-Tracker/pkg/kvstore"
	"github.com/Super-mario11/Transport-Tracker/pkg/session"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const DeviceCookie = "transitnow_device"

const deviceCookieLifetime = 365 * 24 * time.Hour

const (
	sessionsLocal = "sessions"
	sessionLocal  = "session"
)

// Sessions builds session stores for device cookies. Stores are not retained between requests:
// every request restores its device's slot from the shared backend, so writes made by another
// process or API instance are seen on the next request.
type Sessions struct {
	registry *session.Registry
	backend  kvstore.Store
}

func NewSessions(registry *session.Registry, backend kvstore.Store) *Sessions {
	return &Sessions{
		registry: registry,
		backend:  backend,
	}
}

func (s *Sessions) Registry() *session.Registry {
	return s.registry
}

// ForDevice returns a store for the device, restored from the backend.
func (s *Sessions) ForDevice(ctx context.Context, deviceID string) *session.Store {
	store := session.NewStore(s.registry, kvstore.NewPrefixed(s.backend, kvstore.DevicePrefix(deviceID)))
	store.Restore(ctx)

	return store
}

// Middleware makes the session available to handlers. The store is only built, and a device cookie
// only issued, once a handler asks for it.
func (s *Sessions) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Locals(sessionsLocal, s)

		return c.Next()
	}
}

func (s *Sessions) deviceID(c *fiber.Ctx) string {
	deviceID := c.Cookies(DeviceCookie)
	if _, err := uuid.Parse(deviceID); err == nil {
		return deviceID
	}

	deviceID = uuid.NewString()

	c.Cookie(&fiber.Cookie{
		Name:     DeviceCookie,
		Value:    deviceID,
		Path:     "/",
		Expires:  time.Now().Add(deviceCookieLifetime),
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})

	return deviceID
}

// CurrentStore returns the caller's session store, restoring it on first use within the request.
func CurrentStore(c *fiber.Ctx) *session.Store {
	if store, ok := c.Locals(sessionLocal).(*session.Store); ok {
		return store
	}

	sessions, ok := c.Locals(sessionsLocal).(*Sessions)
	if !ok {
		return nil
	}

	store := sessions.ForDevice(c.UserContext(), sessions.deviceID(c))
	c.Locals(sessionLocal, store)

	return store
}

// CurrentUser is nil for anonymous requests.
func CurrentUser(c *fiber.Ctx) *session.User {
	store := CurrentStore(c)
	if store == nil {
		return nil
	}

	user, ok := store.Current()
	if !ok {
		return nil
	}

	return &user
}

// RequireRole rejects anonymous callers with 401 and a redirect to the login page, and callers of
// any other role with 403. No roles admits any authenticated caller.
func RequireRole(roles ...session.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		switch session.RequireRole(CurrentUser(c), roles...) {
		case session.RedirectToLogin:
			c.SendStatus(fiber.StatusUnauthorized)
			return c.JSON(fiber.Map{
				"error":    "You need to log in first",
				"redirect": string(session.PageLogin),
			})
		case session.Forbidden:
			c.SendStatus(fiber.StatusForbidden)
			return c.JSON(fiber.Map{
				"error": "Your role does not have access to this resource",
			})
		}

		return c.Next()
	}
}
