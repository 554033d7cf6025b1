package ctdf

// Route is a named line served by one transport type over an ordered list of stops.
type Route struct {
	PrimaryIdentifier string        `json:"id" groups:"basic"`
	PrimaryName       string        `json:"name" groups:"basic"`
	TransportType     TransportType `json:"type" groups:"basic"`
	BrandColour       string        `json:"color" groups:"basic"`

	StopRefs []string `json:"stops" groups:"basic"`
	Stops    []*Stop  `json:"-"`
}

func (r *Route) ServesStop(stopRef string) bool {
	for _, ref := range r.StopRefs {
		if ref == stopRef {
			return true
		}
	}

	return false
}
