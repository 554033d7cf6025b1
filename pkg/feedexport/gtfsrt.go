package feedexport

import (
	"fmt"
	"time"

	"github.com/MobilityData/gtfs-realtime-bindings/golang/gtfs"
	"github.com/Super-mario11/Transport-Tracker/pkg/ctdf"
	"google.golang.org/protobuf/proto"
)

const gtfsRealtimeVersion = "2.0"

// NewFeedMessage builds a full dataset GTFS-Realtime feed with one vehicle position per vehicle.
// Speeds are converted from km/h to m/s.
func NewFeedMessage(vehicles []*ctdf.Vehicle, now time.Time) *gtfs.FeedMessage {
	feed := &gtfs.FeedMessage{
		Header: &gtfs.FeedHeader{
			GtfsRealtimeVersion: proto.String(gtfsRealtimeVersion),
			Incrementality:      gtfs.FeedHeader_FULL_DATASET.Enum(),
			Timestamp:           proto.Uint64(uint64(now.Unix())),
		},
	}

	for _, vehicle := range vehicles {
		timestamp := vehicle.ModificationDateTime
		if timestamp.IsZero() {
			timestamp = now
		}

		status := gtfs.VehiclePosition_IN_TRANSIT_TO
		if vehicle.IsStopped() {
			status = gtfs.VehiclePosition_STOPPED_AT
		}

		feed.Entity = append(feed.Entity, &gtfs.FeedEntity{
			Id: proto.String(vehicle.PrimaryIdentifier),
			Vehicle: &gtfs.VehiclePosition{
				Trip: &gtfs.TripDescriptor{
					RouteId: proto.String(vehicle.RouteRef),
				},
				Vehicle: &gtfs.VehicleDescriptor{
					Id:    proto.String(vehicle.PrimaryIdentifier),
					Label: proto.String(vehicle.DisplayName),
				},
				Position: &gtfs.Position{
					Latitude:  proto.Float32(float32(vehicle.VehicleLocation.Coordinates.Latitude())),
					Longitude: proto.Float32(float32(vehicle.VehicleLocation.Coordinates.Longitude())),
					Speed:     proto.Float32(float32(vehicle.Speed / 3.6)),
				},
				CurrentStatus: status.Enum(),
				Timestamp:     proto.Uint64(uint64(timestamp.Unix())),
			},
		})
	}

	return feed
}

func MarshalFeedMessage(vehicles []*ctdf.Vehicle, now time.Time) ([]byte, error) {
	encoded, err := proto.Marshal(NewFeedMessage(vehicles, now))
	if err != nil {
		return nil, fmt.Errorf("encoding gtfs-rt feed: %w", err)
	}

	return encoded, nil
}
