// Package feedexport renders vehicle snapshots in the formats other tools consume: CSV for
// spreadsheets and GTFS-Realtime vehicle positions.
package feedexport

import (
	"fmt"
	"io"
	"time"

	"github.com/Super-mario11/Transport-Tracker/pkg/ctdf"
	"github.com/gocarina/gocsv"
)

type vehicleRecord struct {
	ID         string  `csv:"id"`
	Type       string  `csv:"type"`
	Name       string  `csv:"name"`
	Route      string  `csv:"route"`
	Latitude   float64 `csv:"latitude"`
	Longitude  float64 `csv:"longitude"`
	Speed      float64 `csv:"speed"`
	Available  bool    `csv:"seats_available"`
	Occupancy  int     `csv:"occupancy_percentage"`
	LastUpdate string  `csv:"last_update"`
}

func newVehicleRecord(vehicle *ctdf.Vehicle) *vehicleRecord {
	record := &vehicleRecord{
		ID:        vehicle.PrimaryIdentifier,
		Type:      string(vehicle.TransportType),
		Name:      vehicle.DisplayName,
		Route:     vehicle.RouteRef,
		Latitude:  vehicle.VehicleLocation.Coordinates.Latitude(),
		Longitude: vehicle.VehicleLocation.Coordinates.Longitude(),
		Speed:     vehicle.Speed,
		Available: vehicle.Occupancy.OccupancyAvailable,
		Occupancy: vehicle.Occupancy.TotalPercentageOccupancy,
	}
	if !vehicle.ModificationDateTime.IsZero() {
		record.LastUpdate = vehicle.ModificationDateTime.UTC().Format(time.RFC3339)
	}

	return record
}

// WriteCSV writes a header row followed by one row per vehicle.
func WriteCSV(writer io.Writer, vehicles []*ctdf.Vehicle) error {
	records := make([]*vehicleRecord, 0, len(vehicles))
	for _, vehicle := range vehicles {
		records = append(records, newVehicleRecord(vehicle))
	}

	if err := gocsv.Marshal(records, writer); err != nil {
		return fmt.Errorf("writing vehicles csv: %w", err)
	}

	return nil
}
