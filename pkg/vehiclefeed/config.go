package vehiclefeed

import (
	"fmt"
	"strconv"
	"time"

	"github.com/Super-mario11/Transport-Tracker/pkg/util"
	iso8601 "github.com/senseyeio/duration"
)

// ParseTickInterval reads an ISO8601 duration such as PT3S.
func ParseTickInterval(value string) (time.Duration, error) {
	parsed, err := iso8601.ParseISO8601(value)
	if err != nil {
		return 0, fmt.Errorf("invalid tick interval %q: %w", value, err)
	}

	reference := time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC)
	interval := parsed.Shift(reference).Sub(reference)
	if interval <= 0 {
		return 0, fmt.Errorf("tick interval %q must be positive", value)
	}

	return interval, nil
}

// ConfigFromEnvironment reads TRANSITNOW_TICK_INTERVAL and TRANSITNOW_SIMULATOR_SEED.
func ConfigFromEnvironment() (Config, error) {
	config := Config{
		TickInterval: DefaultTickInterval,
		Step:         DefaultStep,
		Bias:         DefaultBias,
	}

	env := util.GetEnvironmentVariables()

	if env["TRANSITNOW_TICK_INTERVAL"] != "" {
		interval, err := ParseTickInterval(env["TRANSITNOW_TICK_INTERVAL"])
		if err != nil {
			return Config{}, err
		}
		config.TickInterval = interval
	}

	if env["TRANSITNOW_SIMULATOR_SEED"] != "" {
		seed, err := strconv.ParseUint(env["TRANSITNOW_SIMULATOR_SEED"], 10, 64)
		if err != nil {
			return Config{}, fmt.Errorf("invalid TRANSITNOW_SIMULATOR_SEED: %w", err)
		}
		config.Seed = seed
	}

	return config, nil
}
