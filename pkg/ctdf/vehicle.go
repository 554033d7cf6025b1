package ctdf

import "time"

type Vehicle struct {
	PrimaryIdentifier string        `json:"id" groups:"basic"`
	TransportType     TransportType `json:"type" groups:"basic"`
	DisplayName       string        `json:"name" groups:"basic"`
	RouteRef          string        `json:"route" groups:"basic"`

	VehicleLocation Location `json:"location" groups:"basic"`
	Speed           float64  `json:"speed" groups:"basic"`

	Occupancy VehicleOccupancy `json:"occupancy" groups:"detailed"`

	Path []LatLng `json:"path" groups:"detailed"`

	ModificationDateTime time.Time `json:"lastUpdate" groups:"detailed"`
}

func (v *Vehicle) IsStopped() bool {
	return v.Speed == 0
}

type VehicleOccupancy struct {
	OccupancyAvailable       bool `json:"available" groups:"detailed"`
	TotalPercentageOccupancy int  `json:"percentage" groups:"detailed"`
}

// VehicleUpdate carries the fields of a Vehicle that an operator may overwrite. Nil fields are left
// untouched when merged.
type VehicleUpdate struct {
	DisplayName *string           `json:"name,omitempty"`
	RouteRef    *string           `json:"route,omitempty"`
	Coordinates *LatLng           `json:"coordinates,omitempty"`
	Speed       *float64          `json:"speed,omitempty"`
	Occupancy   *VehicleOccupancy `json:"occupancy,omitempty"`
}

func (u VehicleUpdate) IsEmpty() bool {
	return u.DisplayName == nil && u.RouteRef == nil && u.Coordinates == nil && u.Speed == nil && u.Occupancy == nil
}
