package ctdf

import "time"

type JourneyPlan struct {
	Origin      string `json:"from"`
	Destination string `json:"to"`

	Suggestion string   `json:"suggestion"`
	Steps      []string `json:"steps"`

	Duration time.Duration `json:"-"`
	ETA      string        `json:"eta"`

	Path []LatLng `json:"path"`
}
