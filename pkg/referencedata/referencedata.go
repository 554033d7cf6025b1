// Package referencedata loads the static stops, routes and initial vehicles the tracker runs on.
//
// Data is read from YAML and validated using struct tags before being converted into ctdf
// records. An embedded default network is used when no file is configured.
package referencedata

import (
	_ "embed"
	"fmt"
	"os"
	"time"

	"github.com/Super-mario11/Transport-Tracker/pkg/ctdf"
	"github.com/Super-mario11/Transport-Tracker/pkg/util"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Each vehicle path is the straight line between two stops split into this many segments.
const pathSteps = 5

//go:embed default.yml
var defaultData []byte

type stopRecord struct {
	ID     string    `yaml:"id" validate:"required"`
	Name   string    `yaml:"name" validate:"required"`
	Coords []float64 `yaml:"coords" validate:"len=2"`
}

type routeRecord struct {
	ID    string   `yaml:"id" validate:"required"`
	Name  string   `yaml:"name" validate:"required"`
	Type  string   `yaml:"type" validate:"required,oneof=bus metro tram"`
	Stops []string `yaml:"stops" validate:"min=2,dive,required"`
	Color string   `yaml:"color" validate:"omitempty,hexcolor"`
}

type pathRecord struct {
	From string `yaml:"from" validate:"required"`
	To   string `yaml:"to" validate:"required"`
}

type vehicleRecord struct {
	ID     string     `yaml:"id" validate:"required"`
	Type   string     `yaml:"type" validate:"required,oneof=bus metro tram"`
	Name   string     `yaml:"name" validate:"required"`
	Route  string     `yaml:"route" validate:"required"`
	Coords []float64  `yaml:"coords" validate:"len=2"`
	Speed  float64    `yaml:"speed" validate:"gte=0"`
	Path   pathRecord `yaml:"path"`
}

type document struct {
	Stops    []stopRecord    `yaml:"stops" validate:"min=1,dive"`
	Routes   []routeRecord   `yaml:"routes" validate:"dive"`
	Vehicles []vehicleRecord `yaml:"vehicles" validate:"dive"`
}

// Data is the loaded reference network. Stops and Routes are immutable after load and may be
// shared freely; Vehicles is the initial state handed to the feed simulator.
type Data struct {
	Stops    []*ctdf.Stop
	Routes   []*ctdf.Route
	Vehicles []*ctdf.Vehicle

	stopsByID  map[string]*ctdf.Stop
	routesByID map[string]*ctdf.Route
}

// Load reads the reference data from path, or the embedded default network when path is empty.
func Load(path string) (*Data, error) {
	if path == "" {
		return Parse(defaultData)
	}

	contents, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading reference data %s: %w", path, err)
	}

	return Parse(contents)
}

// LoadConfigured loads the file named by TRANSITNOW_REFERENCE_DATA, falling back to the embedded
// network.
func LoadConfigured() (*Data, error) {
	return Load(util.GetEnvironmentVariables()["TRANSITNOW_REFERENCE_DATA"])
}

func LoadDefault() (*Data, error) {
	return Parse(defaultData)
}

func Parse(contents []byte) (*Data, error) {
	var doc document
	if err := yaml.Unmarshal(contents, &doc); err != nil {
		return nil, fmt.Errorf("parsing reference data: %w", err)
	}

	v := validator.New()
	if err := v.Struct(doc); err != nil {
		return nil, fmt.Errorf("validating reference data: %w", err)
	}

	return doc.build()
}

func (doc *document) build() (*Data, error) {
	data := &Data{
		stopsByID:  map[string]*ctdf.Stop{},
		routesByID: map[string]*ctdf.Route{},
	}

	for _, record := range doc.Stops {
		if _, exists := data.stopsByID[record.ID]; exists {
			return nil, fmt.Errorf("duplicate stop %s", record.ID)
		}

		stop := &ctdf.Stop{
			PrimaryIdentifier: record.ID,
			PrimaryName:       record.Name,
			Location:          ctdf.NewPointLocation(record.Coords[0], record.Coords[1]),
		}
		data.Stops = append(data.Stops, stop)
		data.stopsByID[stop.PrimaryIdentifier] = stop
	}

	for _, record := range doc.Routes {
		if _, exists := data.routesByID[record.ID]; exists {
			return nil, fmt.Errorf("duplicate route %s", record.ID)
		}

		route := &ctdf.Route{
			PrimaryIdentifier: record.ID,
			PrimaryName:       record.Name,
			TransportType:     ctdf.TransportType(record.Type),
			BrandColour:       record.Color,
			StopRefs:          record.Stops,
		}
		for _, stopRef := range record.Stops {
			stop, ok := data.stopsByID[stopRef]
			if !ok {
				return nil, fmt.Errorf("route %s references unknown stop %s", record.ID, stopRef)
			}
			route.Stops = append(route.Stops, stop)
		}

		data.Routes = append(data.Routes, route)
		data.routesByID[route.PrimaryIdentifier] = route
	}

	vehicleIDs := map[string]bool{}
	now := time.Now()
	for _, record := range doc.Vehicles {
		if vehicleIDs[record.ID] {
			return nil, fmt.Errorf("duplicate vehicle %s", record.ID)
		}
		vehicleIDs[record.ID] = true

		if _, ok := data.routesByID[record.Route]; !ok {
			return nil, fmt.Errorf("vehicle %s references unknown route %s", record.ID, record.Route)
		}

		from, fromOK := data.stopsByID[record.Path.From]
		to, toOK := data.stopsByID[record.Path.To]
		if !fromOK || !toOK {
			return nil, fmt.Errorf("vehicle %s path references unknown stop", record.ID)
		}

		data.Vehicles = append(data.Vehicles, &ctdf.Vehicle{
			PrimaryIdentifier:    record.ID,
			TransportType:        ctdf.TransportType(record.Type),
			DisplayName:          record.Name,
			RouteRef:             record.Route,
			VehicleLocation:      ctdf.NewPointLocation(record.Coords[0], record.Coords[1]),
			Speed:                record.Speed,
			Path:                 ctdf.InterpolatePath(from.Location.Coordinates, to.Location.Coordinates, pathSteps),
			ModificationDateTime: now,
		})
	}

	return data, nil
}

func (d *Data) GetStop(identifier string) (*ctdf.Stop, bool) {
	stop, ok := d.stopsByID[identifier]
	return stop, ok
}

func (d *Data) GetRoute(identifier string) (*ctdf.Route, bool) {
	route, ok := d.routesByID[identifier]
	return route, ok
}

// RoutesServingStop returns the routes calling at the stop, in load order.
func (d *Data) RoutesServingStop(stopRef string) []*ctdf.Route {
	var routes []*ctdf.Route
	for _, route := range d.Routes {
		if route.ServesStop(stopRef) {
			routes = append(routes, route)
		}
	}

	return routes
}
