// Package vehiclefeed simulates the live positions of the vehicle fleet.
//
// The Simulator owns the vehicle collection. Moving vehicles drift by a small biased random step
// on every tick while stopped vehicles stay put. Every read returns copies so callers never share
// state with the simulator.
package vehiclefeed

import (
	"context"
	"errors"
	"math/rand/v2"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Super-mario11/Transport-Tracker/pkg/ctdf"
	"github.com/jinzhu/copier"
	"github.com/rs/zerolog/log"
	"github.com/sourcegraph/conc"
	"golang.org/x/exp/slices"
)

const (
	DefaultStep         = 0.0001
	DefaultBias         = 0.4
	DefaultTickInterval = 3 * time.Second
)

var ErrAlreadyRunning = errors.New("simulator already running")

type Config struct {
	TickInterval time.Duration
	Step         float64
	Bias         float64

	// Seed of the random walk, 0 seeds from the clock.
	Seed uint64

	Clock Clock
}

func (c Config) withDefaults() Config {
	if c.TickInterval <= 0 {
		c.TickInterval = DefaultTickInterval
	}
	if c.Step <= 0 {
		c.Step = DefaultStep
	}
	if c.Bias <= 0 || c.Bias >= 1 {
		c.Bias = DefaultBias
	}
	if c.Clock == nil {
		c.Clock = systemClock{}
	}
	if c.Seed == 0 {
		c.Seed = uint64(c.Clock.Now().UnixNano())
	}

	return c
}

// TickListener receives the snapshot taken right after a tick.
type TickListener func(vehicles []*ctdf.Vehicle)

type Simulator struct {
	config Config

	mutex    sync.RWMutex
	vehicles []*ctdf.Vehicle
	index    map[string]int
	random   *rand.Rand

	listenersMutex sync.RWMutex
	listeners      []TickListener

	runMutex  sync.Mutex
	cancel    context.CancelFunc
	waitGroup *conc.WaitGroup

	ticks atomic.Uint64
}

// New builds a simulator over copies of the given vehicles, keeping their order.
func New(vehicles []*ctdf.Vehicle, config Config) *Simulator {
	config = config.withDefaults()

	simulator := &Simulator{
		config: config,
		index:  map[string]int{},
		random: rand.New(rand.NewPCG(config.Seed, config.Seed^0x9e3779b97f4a7c15)),
	}

	for _, vehicle := range vehicles {
		if _, exists := simulator.index[vehicle.PrimaryIdentifier]; exists {
			log.Warn().Str("vehicle", vehicle.PrimaryIdentifier).Msg("Ignoring duplicate vehicle")
			continue
		}

		simulator.index[vehicle.PrimaryIdentifier] = len(simulator.vehicles)
		simulator.vehicles = append(simulator.vehicles, cloneVehicle(vehicle))
	}

	return simulator
}

func (s *Simulator) Config() Config {
	return s.config
}

// GetVehicles returns a snapshot of every vehicle in load order.
func (s *Simulator) GetVehicles() []*ctdf.Vehicle {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	return s.snapshot()
}

func (s *Simulator) GetVehicle(identifier string) (*ctdf.Vehicle, bool) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	i, ok := s.index[identifier]
	if !ok {
		return nil, false
	}

	return cloneVehicle(s.vehicles[i]), true
}

// UpdateVehicle merges the set fields of update into the vehicle. Unknown identifiers are ignored
// and reported by the false return.
func (s *Simulator) UpdateVehicle(identifier string, update ctdf.VehicleUpdate) bool {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	i, ok := s.index[identifier]
	if !ok {
		log.Debug().Str("vehicle", identifier).Msg("Update for unknown vehicle ignored")
		return false
	}

	vehicle := s.vehicles[i]

	if update.DisplayName != nil {
		vehicle.DisplayName = *update.DisplayName
	}
	if update.RouteRef != nil {
		vehicle.RouteRef = *update.RouteRef
	}
	if update.Coordinates != nil {
		vehicle.VehicleLocation.Coordinates = *update.Coordinates
	}
	if update.Speed != nil {
		speed := *update.Speed
		if speed < 0 {
			speed = 0
		}
		vehicle.Speed = speed
	}
	if update.Occupancy != nil {
		vehicle.Occupancy = *update.Occupancy
	}

	vehicle.ModificationDateTime = s.config.Clock.Now()

	return true
}

// Tick moves every vehicle with a positive speed one step and notifies the listeners.
func (s *Simulator) Tick() {
	s.mutex.Lock()

	now := s.config.Clock.Now()
	for _, vehicle := range s.vehicles {
		if vehicle.IsStopped() {
			continue
		}

		for axis := range vehicle.VehicleLocation.Coordinates {
			vehicle.VehicleLocation.Coordinates[axis] += s.config.Step * (s.random.Float64() - s.config.Bias)
		}
		vehicle.ModificationDateTime = now
	}

	snapshot := s.snapshot()
	s.mutex.Unlock()

	s.ticks.Add(1)

	s.listenersMutex.RLock()
	listeners := slices.Clone(s.listeners)
	s.listenersMutex.RUnlock()

	for _, listener := range listeners {
		listener(snapshot)
	}
}

// Ticks is the number of ticks performed since creation.
func (s *Simulator) Ticks() uint64 {
	return s.ticks.Load()
}

func (s *Simulator) OnTick(listener TickListener) {
	s.listenersMutex.Lock()
	defer s.listenersMutex.Unlock()

	s.listeners = append(s.listeners, listener)
}

// Start runs the tick loop in the background until ctx is cancelled or Stop is called. The
// ticker is acquired here and released when the loop exits. Stop must be called before the
// simulator can be started again.
func (s *Simulator) Start(ctx context.Context) error {
	s.runMutex.Lock()
	defer s.runMutex.Unlock()

	if s.cancel != nil {
		return ErrAlreadyRunning
	}

	ctx, cancel := context.WithCancel(ctx)
	ticker := s.config.Clock.NewTicker(s.config.TickInterval)

	s.cancel = cancel
	s.waitGroup = conc.NewWaitGroup()
	s.waitGroup.Go(func() {
		s.run(ctx, ticker)
	})

	log.Info().Str("interval", s.config.TickInterval.String()).Int("vehicles", len(s.vehicles)).Msg("Vehicle feed started")

	return nil
}

// Stop halts the tick loop and waits for it to exit. No vehicle is mutated by the loop once Stop
// has returned. Stopping an idle simulator is a no-op.
func (s *Simulator) Stop() {
	s.runMutex.Lock()
	defer s.runMutex.Unlock()

	if s.cancel == nil {
		return
	}

	s.cancel()
	s.waitGroup.Wait()

	s.cancel = nil
	s.waitGroup = nil

	log.Info().Uint64("ticks", s.Ticks()).Msg("Vehicle feed stopped")
}

func (s *Simulator) IsRunning() bool {
	s.runMutex.Lock()
	defer s.runMutex.Unlock()

	return s.cancel != nil
}

func (s *Simulator) run(ctx context.Context, ticker Ticker) {
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C():
			if ctx.Err() != nil {
				return
			}

			s.Tick()
		}
	}
}

func (s *Simulator) snapshot() []*ctdf.Vehicle {
	vehicles := make([]*ctdf.Vehicle, 0, len(s.vehicles))
	for _, vehicle := range s.vehicles {
		vehicles = append(vehicles, cloneVehicle(vehicle))
	}

	return vehicles
}

func cloneVehicle(vehicle *ctdf.Vehicle) *ctdf.Vehicle {
	clone := &ctdf.Vehicle{}
	if err := copier.Copy(clone, vehicle); err != nil {
		log.Error().Err(err).Str("vehicle", vehicle.PrimaryIdentifier).Msg("Failed to copy vehicle")
		*clone = *vehicle
	}
	clone.Path = slices.Clone(vehicle.Path)

	return clone
}
