package ctdf

// LatLng is a latitude, longitude pair in WGS84 degrees.
type LatLng [2]float64

func (l LatLng) Latitude() float64 {
	return l[0]
}

func (l LatLng) Longitude() float64 {
	return l[1]
}

type Location struct {
	Type        string `json:"-"`
	Coordinates LatLng `json:"coordinates" groups:"basic"`
}

func NewPointLocation(latitude float64, longitude float64) Location {
	return Location{
		Type:        "Point",
		Coordinates: LatLng{latitude, longitude},
	}
}

// InterpolatePath returns steps+1 evenly spaced points on the straight line from start to end,
// both ends included.
func InterpolatePath(start LatLng, end LatLng, steps int) []LatLng {
	if steps < 1 {
		return []LatLng{start, end}
	}

	path := make([]LatLng, 0, steps+1)
	for i := 0; i < steps; i++ {
		factor := float64(i) / float64(steps)
		path = append(path, LatLng{
			start[0] + (end[0]-start[0])*factor,
			start[1] + (end[1]-start[1])*factor,
		})
	}

	return append(path, end)
}

// Bounds is a box between two corners, as sent by a map viewport.
type Bounds struct {
	BottomLeft LatLng
	TopRight   LatLng
}

func (b Bounds) Contains(point LatLng) bool {
	return point.Latitude() >= b.BottomLeft.Latitude() && point.Latitude() <= b.TopRight.Latitude() &&
		point.Longitude() >= b.BottomLeft.Longitude() && point.Longitude() <= b.TopRight.Longitude()
}
