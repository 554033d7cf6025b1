package vehiclefeed

import (
	"context"
	"errors"
	"math"
	"reflect"
	"testing"
	"time"

	"github.com/Super-mario11/Transport-Tracker/pkg/ctdf"
)

var epoch = time.Date(2024, time.March, 1, 9, 0, 0, 0, time.UTC)

func testVehicles() []*ctdf.Vehicle {
	return []*ctdf.Vehicle{
		{
			PrimaryIdentifier: "bus101",
			TransportType:     ctdf.TransportTypeBus,
			DisplayName:       "Bus 101",
			RouteRef:          "A",
			VehicleLocation:   ctdf.NewPointLocation(28.6180, 77.2120),
			Speed:             45,
			Path:              ctdf.InterpolatePath(ctdf.LatLng{28.6150, 77.2095}, ctdf.LatLng{28.6250, 77.2150}, 5),
		},
		{
			PrimaryIdentifier: "tram32",
			TransportType:     ctdf.TransportTypeTram,
			DisplayName:       "Tram T11",
			RouteRef:          "T1",
			VehicleLocation:   ctdf.NewPointLocation(28.6300, 77.2050),
			Speed:             0,
		},
		{
			PrimaryIdentifier: "metro11",
			TransportType:     ctdf.TransportTypeMetro,
			DisplayName:       "Metro M1A",
			RouteRef:          "M1",
			VehicleLocation:   ctdf.NewPointLocation(28.6300, 77.2150),
			Speed:             70,
		},
	}
}

func newTestSimulator(clock *ManualClock) *Simulator {
	return New(testVehicles(), Config{Seed: 42, Clock: clock})
}

func TestGetVehiclesKeepsLoadOrder(t *testing.T) {
	simulator := newTestSimulator(NewManualClock(epoch))

	var ids []string
	for _, vehicle := range simulator.GetVehicles() {
		ids = append(ids, vehicle.PrimaryIdentifier)
	}

	if !reflect.DeepEqual(ids, []string{"bus101", "tram32", "metro11"}) {
		t.Errorf("got %v", ids)
	}
}

func TestStoppedVehiclesNeverMove(t *testing.T) {
	simulator := newTestSimulator(NewManualClock(epoch))
	before, _ := simulator.GetVehicle("tram32")

	for i := 0; i < 500; i++ {
		simulator.Tick()
	}

	after, _ := simulator.GetVehicle("tram32")
	if after.VehicleLocation.Coordinates != before.VehicleLocation.Coordinates {
		t.Errorf("stopped vehicle moved from %v to %v", before.VehicleLocation.Coordinates, after.VehicleLocation.Coordinates)
	}
}

func TestMovingVehicleStepIsBounded(t *testing.T) {
	simulator := newTestSimulator(NewManualClock(epoch))
	config := simulator.Config()
	bound := config.Step * math.Max(config.Bias, 1-config.Bias)

	initial, _ := simulator.GetVehicle("bus101")
	previous := initial.VehicleLocation.Coordinates

	for i := 0; i < 200; i++ {
		simulator.Tick()

		current, _ := simulator.GetVehicle("bus101")
		for axis := range current.VehicleLocation.Coordinates {
			delta := math.Abs(current.VehicleLocation.Coordinates[axis] - previous[axis])
			if delta > bound+1e-12 || delta > config.Step {
				t.Fatalf("tick %d axis %d moved %g, bound %g", i, axis, delta, bound)
			}
		}
		previous = current.VehicleLocation.Coordinates
	}

	if previous == initial.VehicleLocation.Coordinates {
		t.Error("moving vehicle never moved")
	}
}

func TestTickUsesConfiguredDefaults(t *testing.T) {
	config := Config{}.withDefaults()

	if config.Step != DefaultStep || config.Bias != DefaultBias || config.TickInterval != DefaultTickInterval {
		t.Errorf("unexpected defaults %+v", config)
	}
	if config.Seed == 0 {
		t.Error("seed should be derived from the clock")
	}
}

func TestSeededRunsAreRepeatable(t *testing.T) {
	first := newTestSimulator(NewManualClock(epoch))
	second := newTestSimulator(NewManualClock(epoch))

	for i := 0; i < 25; i++ {
		first.Tick()
		second.Tick()
	}

	if !reflect.DeepEqual(first.GetVehicles(), second.GetVehicles()) {
		t.Error("same seed produced different positions")
	}
}

func TestUpdateVehicleUnknownIsNoop(t *testing.T) {
	simulator := newTestSimulator(NewManualClock(epoch))
	before := simulator.GetVehicles()

	speed := 10.0
	if simulator.UpdateVehicle("nonexistent-id", ctdf.VehicleUpdate{Speed: &speed}) {
		t.Error("update of unknown vehicle reported success")
	}

	if !reflect.DeepEqual(before, simulator.GetVehicles()) {
		t.Error("collection changed")
	}
}

func TestUpdateVehicleMergesSetFields(t *testing.T) {
	clock := NewManualClock(epoch)
	simulator := newTestSimulator(clock)
	clock.Advance(time.Minute)

	coordinates := ctdf.LatLng{28.7, 77.3}
	speed := 0.0
	occupancy := ctdf.VehicleOccupancy{OccupancyAvailable: true, TotalPercentageOccupancy: 65}

	if !simulator.UpdateVehicle("bus101", ctdf.VehicleUpdate{
		Coordinates: &coordinates,
		Speed:       &speed,
		Occupancy:   &occupancy,
	}) {
		t.Fatal("update reported unknown vehicle")
	}

	vehicle, _ := simulator.GetVehicle("bus101")
	if vehicle.VehicleLocation.Coordinates != coordinates {
		t.Errorf("coordinates %v", vehicle.VehicleLocation.Coordinates)
	}
	if !vehicle.IsStopped() {
		t.Errorf("speed %f", vehicle.Speed)
	}
	if vehicle.Occupancy != occupancy {
		t.Errorf("occupancy %+v", vehicle.Occupancy)
	}
	if vehicle.DisplayName != "Bus 101" || vehicle.RouteRef != "A" {
		t.Errorf("unset fields changed: %+v", vehicle)
	}
	if !vehicle.ModificationDateTime.Equal(epoch.Add(time.Minute)) {
		t.Errorf("lastUpdate %s", vehicle.ModificationDateTime)
	}

	// Now stopped, so ticks leave it alone.
	simulator.Tick()
	vehicle, _ = simulator.GetVehicle("bus101")
	if vehicle.VehicleLocation.Coordinates != coordinates {
		t.Error("vehicle stopped by update still moved")
	}

	negative := -5.0
	simulator.UpdateVehicle("metro11", ctdf.VehicleUpdate{Speed: &negative})
	if metro, _ := simulator.GetVehicle("metro11"); metro.Speed != 0 {
		t.Errorf("negative speed stored as %f", metro.Speed)
	}
}

func TestSnapshotsAreCopies(t *testing.T) {
	simulator := newTestSimulator(NewManualClock(epoch))

	vehicles := simulator.GetVehicles()
	vehicles[0].DisplayName = "Hijacked"
	vehicles[0].VehicleLocation.Coordinates[0] = 0
	vehicles[0].Path[0] = ctdf.LatLng{0, 0}

	single, _ := simulator.GetVehicle("bus101")
	single.Speed = 999

	fresh, _ := simulator.GetVehicle("bus101")
	if fresh.DisplayName != "Bus 101" || fresh.VehicleLocation.Coordinates[0] == 0 || fresh.Path[0] == (ctdf.LatLng{0, 0}) || fresh.Speed != 45 {
		t.Errorf("caller mutation leaked into simulator: %+v", fresh)
	}
}

func TestNewCopiesInput(t *testing.T) {
	input := testVehicles()
	simulator := New(input, Config{Seed: 1, Clock: NewManualClock(epoch)})

	input[0].Speed = 0
	if vehicle, _ := simulator.GetVehicle("bus101"); vehicle.Speed != 45 {
		t.Error("simulator shares records with its input")
	}
}

func TestDuplicateVehiclesIgnored(t *testing.T) {
	vehicles := append(testVehicles(), testVehicles()[0])
	simulator := New(vehicles, Config{Seed: 1, Clock: NewManualClock(epoch)})

	if got := len(simulator.GetVehicles()); got != 3 {
		t.Errorf("got %d vehicles, want 3", got)
	}
}

func waitForTick(t *testing.T, ticked <-chan []*ctdf.Vehicle) []*ctdf.Vehicle {
	t.Helper()

	select {
	case vehicles := <-ticked:
		return vehicles
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for tick")
		return nil
	}
}

func TestStartStop(t *testing.T) {
	clock := NewManualClock(epoch)
	simulator := newTestSimulator(clock)

	ticked := make(chan []*ctdf.Vehicle, 10)
	simulator.OnTick(func(vehicles []*ctdf.Vehicle) {
		ticked <- vehicles
	})

	if err := simulator.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := simulator.Start(context.Background()); !errors.Is(err, ErrAlreadyRunning) {
		t.Errorf("second Start: got %v", err)
	}
	if clock.Tickers() != 1 {
		t.Fatalf("tickers %d, want 1", clock.Tickers())
	}

	// Half an interval is not enough to tick.
	clock.Advance(DefaultTickInterval / 2)
	clock.Advance(DefaultTickInterval / 2)
	snapshot := waitForTick(t, ticked)
	if len(snapshot) != 3 {
		t.Errorf("snapshot has %d vehicles", len(snapshot))
	}

	clock.Advance(DefaultTickInterval)
	waitForTick(t, ticked)

	simulator.Stop()
	if simulator.Ticks() != 2 {
		t.Errorf("ticks %d, want 2", simulator.Ticks())
	}
	if clock.Tickers() != 0 {
		t.Errorf("ticker not released, %d live", clock.Tickers())
	}
	if simulator.IsRunning() {
		t.Error("still running after Stop")
	}

	stopped := simulator.GetVehicles()
	clock.Advance(10 * DefaultTickInterval)
	if !reflect.DeepEqual(stopped, simulator.GetVehicles()) {
		t.Error("vehicles changed after Stop")
	}

	simulator.Stop()

	if err := simulator.Start(context.Background()); err != nil {
		t.Fatalf("restart: %v", err)
	}
	clock.Advance(DefaultTickInterval)
	waitForTick(t, ticked)
	simulator.Stop()
}

func TestContextCancelReleasesTicker(t *testing.T) {
	clock := NewManualClock(epoch)
	simulator := newTestSimulator(clock)

	ctx, cancel := context.WithCancel(context.Background())
	if err := simulator.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}

	cancel()

	deadline := time.Now().Add(2 * time.Second)
	for clock.Tickers() != 0 {
		if time.Now().After(deadline) {
			t.Fatal("ticker not released after cancel")
		}
		time.Sleep(time.Millisecond)
	}

	before := simulator.GetVehicles()
	clock.Advance(DefaultTickInterval)
	if !reflect.DeepEqual(before, simulator.GetVehicles()) {
		t.Error("vehicles changed after cancel")
	}

	simulator.Stop()
	if simulator.IsRunning() {
		t.Error("still running")
	}
}

func TestRunSimulationStopsAfterTicks(t *testing.T) {
	simulator := New(testVehicles(), Config{Seed: 3, TickInterval: time.Millisecond})

	done := make(chan error, 1)
	go func() {
		done <- runSimulation(context.Background(), simulator, 3)
	}()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("runSimulation: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("simulation did not stop")
	}

	if simulator.Ticks() < 3 {
		t.Errorf("ticks %d, want at least 3", simulator.Ticks())
	}
	if simulator.IsRunning() {
		t.Error("simulator left running")
	}
}
