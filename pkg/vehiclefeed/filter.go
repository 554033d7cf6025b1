package vehiclefeed

import (
	"fmt"
	"strings"

	"github.com/Super-mario11/Transport-Tracker/pkg/ctdf"
	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// Filter narrows a vehicle list the way the live map does. Empty fields match everything.
type Filter struct {
	RouteRef string
	Search   string
	Bounds   *ctdf.Bounds

	// Expression is a boolean expr program evaluated against filterEnvironment, eg
	// `type == "bus" && speed > 40`.
	Expression string
}

type filterEnvironment struct {
	ID        string  `expr:"id"`
	Type      string  `expr:"type"`
	Name      string  `expr:"name"`
	Route     string  `expr:"route"`
	Speed     float64 `expr:"speed"`
	Latitude  float64 `expr:"lat"`
	Longitude float64 `expr:"lon"`
	Stopped   bool    `expr:"stopped"`
	Available bool    `expr:"available"`
	Occupancy int     `expr:"occupancy"`
}

func newFilterEnvironment(vehicle *ctdf.Vehicle) filterEnvironment {
	return filterEnvironment{
		ID:        vehicle.PrimaryIdentifier,
		Type:      string(vehicle.TransportType),
		Name:      vehicle.DisplayName,
		Route:     vehicle.RouteRef,
		Speed:     vehicle.Speed,
		Latitude:  vehicle.VehicleLocation.Coordinates.Latitude(),
		Longitude: vehicle.VehicleLocation.Coordinates.Longitude(),
		Stopped:   vehicle.IsStopped(),
		Available: vehicle.Occupancy.OccupancyAvailable,
		Occupancy: vehicle.Occupancy.TotalPercentageOccupancy,
	}
}

func (f Filter) IsEmpty() bool {
	return f.RouteRef == "" && f.Search == "" && f.Bounds == nil && f.Expression == ""
}

// Apply returns the vehicles matching every set criterion, keeping their order. An expression that
// does not compile to a boolean program is an error.
func (f Filter) Apply(vehicles []*ctdf.Vehicle) ([]*ctdf.Vehicle, error) {
	var program *vm.Program
	if f.Expression != "" {
		var err error
		program, err = expr.Compile(f.Expression, expr.Env(filterEnvironment{}), expr.AsBool())
		if err != nil {
			return nil, fmt.Errorf("invalid filter expression: %w", err)
		}
	}

	search := strings.ToLower(strings.TrimSpace(f.Search))

	filtered := []*ctdf.Vehicle{}
	for _, vehicle := range vehicles {
		if f.RouteRef != "" && vehicle.RouteRef != f.RouteRef {
			continue
		}

		if search != "" && !strings.Contains(strings.ToLower(vehicle.DisplayName), search) {
			continue
		}

		if f.Bounds != nil && !f.Bounds.Contains(vehicle.VehicleLocation.Coordinates) {
			continue
		}

		if program != nil {
			output, err := expr.Run(program, newFilterEnvironment(vehicle))
			if err != nil {
				return nil, fmt.Errorf("evaluating filter on %s: %w", vehicle.PrimaryIdentifier, err)
			}

			if matched, _ := output.(bool); !matched {
				continue
			}
		}

		filtered = append(filtered, vehicle)
	}

	return filtered, nil
}
