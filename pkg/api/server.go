// Package api serves the TransitNow web API the dashboards are built on.
package api

import (
	"github.com/Super-mario11/Transport-Tracker/pkg/alerts"
	"github.com/Super-mario11/Transport-Tracker/pkg/api/routes"
	"github.com/Super-mario11/Transport-Tracker/pkg/http_server"
	"github.com/Super-mario11/Transport-Tracker/pkg/referencedata"
	"github.com/Super-mario11/Transport-Tracker/pkg/reports"
	"github.com/gofiber/fiber/v2"
)

type Dependencies struct {
	Sessions      *routes.Sessions
	Vehicles      routes.VehicleFeed
	Reports       reports.Publisher
	ReferenceData *referencedata.Data
	Alerts        *alerts.Board
}

func NewApp(deps Dependencies) *fiber.App {
	webApp := fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})
	webApp.Use(http_server.NewLogger())

	group := webApp.Group("/core", deps.Sessions.Middleware())

	group.Get("version", routes.APIVersion)

	routes.AuthRouter(group.Group("/auth"))
	routes.NavigationRouter(group.Group("/navigation"))

	routes.VehiclesRouter(group.Group("/vehicles"), deps.Vehicles, deps.Reports)

	routes.StopsRouter(group.Group("/stops"), deps.ReferenceData)
	routes.RoutesRouter(group.Group("/routes"), deps.ReferenceData)

	routes.PlannerRouter(group.Group("/planner"))

	routes.ServiceAlertRouter(group.Group("/service_alerts"), deps.Alerts)

	return webApp
}
