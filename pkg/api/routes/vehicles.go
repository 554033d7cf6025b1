package routes

import (
	"errors"
	"time"

	"github.com/Super-mario11/Transport-Tracker/pkg/ctdf"
	"github.com/Super-mario11/Transport-Tracker/pkg/feedexport"
	"github.com/Super-mario11/Transport-Tracker/pkg/reports"
	"github.com/Super-mario11/Transport-Tracker/pkg/session"
	"github.com/Super-mario11/Transport-Tracker/pkg/vehiclefeed"
	"github.com/gofiber/fiber/v2"
	"github.com/liip/sheriff"
)

// VehicleFeed is the read side of the simulator the API serves from.
type VehicleFeed interface {
	GetVehicles() []*ctdf.Vehicle
	GetVehicle(identifier string) (*ctdf.Vehicle, bool)
}

type vehiclesHandler struct {
	feed      VehicleFeed
	publisher reports.Publisher
}

// VehiclesRouter serves the live vehicle list. Updates go through the publisher so they are applied
// the same way driver reports are.
func VehiclesRouter(router fiber.Router, feed VehicleFeed, publisher reports.Publisher) {
	handler := &vehiclesHandler{feed: feed, publisher: publisher}

	router.Get("/", handler.listVehicles)
	router.Get("/export.csv", handler.exportCSV)
	router.Get("/feed.pb", handler.exportGTFSRealtime)
	router.Get("/:identifier", handler.getVehicle)
	router.Patch("/:identifier", RequireRole(session.RoleDriver, session.RoleAdmin), handler.updateVehicle)
}

func (h *vehiclesHandler) filteredVehicles(c *fiber.Ctx) ([]*ctdf.Vehicle, error) {
	bounds, err := getBoundsQuery(c)
	if err != nil {
		return nil, err
	}

	return vehiclefeed.Filter{
		RouteRef:   c.Query("route"),
		Search:     c.Query("search"),
		Bounds:     bounds,
		Expression: c.Query("filter"),
	}.Apply(h.feed.GetVehicles())
}

func (h *vehiclesHandler) listVehicles(c *fiber.Ctx) error {
	vehicles, err := h.filteredVehicles(c)
	if err != nil {
		c.SendStatus(fiber.StatusBadRequest)
		return c.JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	groups := []string{"basic"}
	if c.QueryBool("detail") {
		groups = append(groups, "detailed")
	}

	vehiclesReduced, err := sheriff.Marshal(&sheriff.Options{
		Groups: groups,
	}, vehicles)
	if err != nil {
		c.SendStatus(fiber.StatusInternalServerError)
		return c.JSON(fiber.Map{
			"error": "Sherrif could not reduce Vehicles",
		})
	}

	return c.JSON(vehiclesReduced)
}

func (h *vehiclesHandler) getVehicle(c *fiber.Ctx) error {
	vehicle, ok := h.feed.GetVehicle(c.Params("identifier"))
	if !ok {
		c.SendStatus(fiber.StatusNotFound)
		return c.JSON(fiber.Map{
			"error": "Could not find Vehicle matching Vehicle Identifier",
		})
	}

	vehicleReduced, err := sheriff.Marshal(&sheriff.Options{
		Groups: []string{"basic", "detailed"},
	}, vehicle)
	if err != nil {
		c.SendStatus(fiber.StatusInternalServerError)
		return c.JSON(fiber.Map{
			"error": "Sherrif could not reduce Vehicle",
		})
	}

	return c.JSON(vehicleReduced)
}

func (h *vehiclesHandler) updateVehicle(c *fiber.Ctx) error {
	identifier := c.Params("identifier")
	user := CurrentUser(c)

	if !user.CanOperateVehicle(identifier) {
		c.SendStatus(fiber.StatusForbidden)
		return c.JSON(fiber.Map{
			"error": "You can only report for the vehicle assigned to you",
		})
	}

	if _, ok := h.feed.GetVehicle(identifier); !ok {
		c.SendStatus(fiber.StatusNotFound)
		return c.JSON(fiber.Map{
			"error": "Could not find Vehicle matching Vehicle Identifier",
		})
	}

	var update ctdf.VehicleUpdate
	if err := c.BodyParser(&update); err != nil {
		c.SendStatus(fiber.StatusBadRequest)
		return c.JSON(fiber.Map{
			"error": "Could not parse vehicle update",
		})
	}
	if update.Speed != nil && *update.Speed < 0 {
		c.SendStatus(fiber.StatusBadRequest)
		return c.JSON(fiber.Map{
			"error": "Speed cannot be negative",
		})
	}

	err := h.publisher.Publish(c.UserContext(), reports.Report{
		VehicleRef: identifier,
		ReportedBy: user.Email,
		Timestamp:  time.Now(),
		Update:     update,
	})
	if errors.Is(err, reports.ErrEmptyReport) {
		c.SendStatus(fiber.StatusBadRequest)
		return c.JSON(fiber.Map{
			"error": "The update does not change any field",
		})
	}
	if err != nil {
		return err
	}

	c.Status(fiber.StatusAccepted)
	return c.JSON(fiber.Map{
		"vehicleId": identifier,
		"status":    "accepted",
	})
}

func (h *vehiclesHandler) exportCSV(c *fiber.Ctx) error {
	vehicles, err := h.filteredVehicles(c)
	if err != nil {
		c.SendStatus(fiber.StatusBadRequest)
		return c.JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="vehicles.csv"`)

	return feedexport.WriteCSV(c.Response().BodyWriter(), vehicles)
}

func (h *vehiclesHandler) exportGTFSRealtime(c *fiber.Ctx) error {
	encoded, err := feedexport.MarshalFeedMessage(h.feed.GetVehicles(), time.Now())
	if err != nil {
		return err
	}

	c.Set(fiber.HeaderContentType, "application/x-protobuf")
	return c.Send(encoded)
}
