package routes

import (
	"errors"
	"strconv"
	"strings"

	"github.com/Super-mario11/Transport-Tracker/pkg/ctdf"
	"github.com/gofiber/fiber/v2"
)

// getBoundsQuery parses the optional bounds query, minLon,minLat,maxLon,maxLat. No bounds gives
// nil.
func getBoundsQuery(c *fiber.Ctx) (*ctdf.Bounds, error) {
	bounds := c.Query("bounds")
	if bounds == "" {
		return nil, nil
	}

	boundsSplit := strings.Split(bounds, ",")
	if len(boundsSplit) != 4 {
		return nil, errors.New("Bounds must contain 4 co-ordinates")
	}

	var coordinates [4]float64
	for i, value := range boundsSplit {
		coordinate, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil {
			return nil, errors.New("Bounds co-ordinates must be numbers")
		}
		coordinates[i] = coordinate
	}

	return &ctdf.Bounds{
		BottomLeft: ctdf.LatLng{coordinates[1], coordinates[0]},
		TopRight:   ctdf.LatLng{coordinates[3], coordinates[2]},
	}, nil
}
