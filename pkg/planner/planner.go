// Package planner answers journey planning requests with a fixed suggestion. There is no routing
// behind it; the same transfer between Bus 101 and Metro Line 1 is offered for every pair.
package planner

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Super-mario11/Transport-Tracker/pkg/ctdf"
)

var ErrMissingEndpoints = errors.New("both a start and a destination are required")

const suggestion = "Bus 101 and Metro Line 1 Transfer"
const journeyDuration = 35 * time.Minute

var suggestedPath = []ctdf.LatLng{
	{28.6139, 77.209},
	{28.62, 77.22},
	{28.63, 77.23},
}

func Plan(origin string, destination string) (*ctdf.JourneyPlan, error) {
	origin = strings.TrimSpace(origin)
	destination = strings.TrimSpace(destination)

	if origin == "" || destination == "" {
		return nil, ErrMissingEndpoints
	}

	return &ctdf.JourneyPlan{
		Origin:      origin,
		Destination: destination,
		Suggestion:  suggestion,
		Steps: []string{
			fmt.Sprintf("Walk to %s stop (5 min)", origin),
			"Board Bus 101, ride 10 min",
			"Transfer to Metro Line 1 at Central Hub",
			fmt.Sprintf("Ride 8 min, arrive at %s stop", destination),
		},
		Duration: journeyDuration,
		ETA:      fmt.Sprintf("%d min", int(journeyDuration.Minutes())),
		Path:     append([]ctdf.LatLng(nil), suggestedPath...),
	}, nil
}
