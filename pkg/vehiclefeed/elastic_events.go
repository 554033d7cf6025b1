package vehiclefeed

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/Super-mario11/Transport-Tracker/pkg/ctdf"
	"github.com/Super-mario11/Transport-Tracker/pkg/elastic_client"
	"github.com/rs/zerolog/log"
)

const locationEventIndex = "transitnow-vehicle-locations-1"

type VehicleLocationElasticEvent struct {
	Timestamp time.Time

	VehicleRef    string
	RouteRef      string
	TransportType string

	Location struct {
		Latitude  float64 `json:"lat"`
		Longitude float64 `json:"lon"`
	}
	Speed float64

	OccupancyPercentage int
}

func newVehicleLocationElasticEvent(vehicle *ctdf.Vehicle) *VehicleLocationElasticEvent {
	event := &VehicleLocationElasticEvent{
		Timestamp:           vehicle.ModificationDateTime,
		VehicleRef:          vehicle.PrimaryIdentifier,
		RouteRef:            vehicle.RouteRef,
		TransportType:       string(vehicle.TransportType),
		Speed:               vehicle.Speed,
		OccupancyPercentage: vehicle.Occupancy.TotalPercentageOccupancy,
	}
	event.Location.Latitude = vehicle.VehicleLocation.Coordinates.Latitude()
	event.Location.Longitude = vehicle.VehicleLocation.Coordinates.Longitude()

	return event
}

// IndexLocationEvents is a TickListener publishing one location event per moving vehicle.
func IndexLocationEvents(vehicles []*ctdf.Vehicle) {
	if !elastic_client.Enabled() {
		return
	}

	for _, vehicle := range vehicles {
		if vehicle.IsStopped() {
			continue
		}

		elasticEvent, err := json.Marshal(newVehicleLocationElasticEvent(vehicle))
		if err != nil {
			log.Error().Err(err).Str("vehicle", vehicle.PrimaryIdentifier).Msg("Failed to encode location event")
			continue
		}

		elastic_client.IndexRequest(locationEventIndex, bytes.NewReader(elasticEvent))
	}
}
