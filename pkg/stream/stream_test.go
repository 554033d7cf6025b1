package stream

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Super-mario11/Transport-Tracker/pkg/ctdf"
	"github.com/Super-mario11/Transport-Tracker/pkg/vehiclefeed"
	"github.com/gorilla/websocket"
)

func newTestSimulator() *vehiclefeed.Simulator {
	return vehiclefeed.New([]*ctdf.Vehicle{
		{
			PrimaryIdentifier: "bus101",
			TransportType:     ctdf.TransportTypeBus,
			DisplayName:       "Bus 101",
			RouteRef:          "A",
			VehicleLocation:   ctdf.NewPointLocation(28.618, 77.212),
			Speed:             45,
		},
		{
			PrimaryIdentifier: "tram32",
			TransportType:     ctdf.TransportTypeTram,
			DisplayName:       "Tram T11",
			RouteRef:          "T1",
			VehicleLocation:   ctdf.NewPointLocation(28.63, 77.205),
		},
	}, vehiclefeed.Config{
		Seed:  7,
		Clock: vehiclefeed.NewManualClock(time.Date(2024, time.March, 1, 9, 0, 0, 0, time.UTC)),
	})
}

func dial(t *testing.T, server *httptest.Server) *websocket.Conn {
	t.Helper()

	url := "ws" + strings.TrimPrefix(server.URL, "http") + "/vehicles/stream"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	return conn
}

func readSnapshot(t *testing.T, conn *websocket.Conn) []*ctdf.Vehicle {
	t.Helper()

	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	_, payload, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("ReadMessage: %v", err)
	}

	var vehicles []*ctdf.Vehicle
	if err := json.Unmarshal(payload, &vehicles); err != nil {
		t.Fatalf("decoding snapshot: %v", err)
	}

	return vehicles
}

func waitFor(t *testing.T, condition func() bool) {
	t.Helper()

	deadline := time.Now().Add(5 * time.Second)
	for !condition() {
		if time.Now().After(deadline) {
			t.Fatal("condition not met in time")
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestStreamSendsSnapshotThenTicks(t *testing.T) {
	simulator := newTestSimulator()
	server := NewServer(simulator, nil)

	httpServer := httptest.NewServer(server.Handler())
	defer httpServer.Close()

	conn := dial(t, httpServer)

	initial := readSnapshot(t, conn)
	if len(initial) != 2 || initial[0].PrimaryIdentifier != "bus101" {
		t.Fatalf("initial snapshot %+v", initial)
	}

	simulator.Tick()

	ticked := readSnapshot(t, conn)
	if len(ticked) != 2 {
		t.Fatalf("tick snapshot has %d vehicles", len(ticked))
	}
	if ticked[0].VehicleLocation.Coordinates == initial[0].VehicleLocation.Coordinates {
		t.Error("moving vehicle did not move")
	}
	if ticked[1].VehicleLocation.Coordinates != initial[1].VehicleLocation.Coordinates {
		t.Error("stopped vehicle moved")
	}
}

func TestStreamDropsClosedClients(t *testing.T) {
	simulator := newTestSimulator()
	server := NewServer(simulator, nil)

	httpServer := httptest.NewServer(server.Handler())
	defer httpServer.Close()

	conn := dial(t, httpServer)
	readSnapshot(t, conn)

	if server.Hub.Clients() != 1 {
		t.Fatalf("clients = %d", server.Hub.Clients())
	}

	conn.Close()
	waitFor(t, func() bool { return server.Hub.Clients() == 0 })

	simulator.Tick()
}

func TestHubCloseDisconnectsClients(t *testing.T) {
	simulator := newTestSimulator()
	server := NewServer(simulator, nil)

	httpServer := httptest.NewServer(server.Handler())
	defer httpServer.Close()

	conn := dial(t, httpServer)
	readSnapshot(t, conn)

	server.Hub.Close()

	if server.Hub.Clients() != 0 {
		t.Errorf("clients = %d after close", server.Hub.Clients())
	}

	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	_, _, err := conn.ReadMessage()
	if !websocket.IsCloseError(err, websocket.CloseGoingAway) {
		t.Errorf("ReadMessage after close: %v", err)
	}

	late, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(httpServer.URL, "http")+"/vehicles/stream", nil)
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	defer late.Close()

	late.SetReadDeadline(time.Now().Add(5 * time.Second))
	if _, _, err := late.ReadMessage(); err == nil {
		t.Error("client connecting after close received a snapshot")
	}
	if server.Hub.Clients() != 0 {
		t.Errorf("clients = %d after late connect", server.Hub.Clients())
	}
}

func TestMetricsEndpoint(t *testing.T) {
	simulator := newTestSimulator()
	server := NewServer(simulator, nil)

	simulator.Tick()
	simulator.Tick()

	recorder := httptest.NewRecorder()
	server.Handler().ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	body, _ := io.ReadAll(recorder.Body)
	for _, line := range []string{
		"transitnow_vehicle_feed_ticks_total 2",
		"transitnow_vehicle_feed_vehicles 2",
		"transitnow_vehicle_feed_moving_vehicles 1",
		"transitnow_stream_clients 0",
	} {
		if !strings.Contains(string(body), line) {
			t.Errorf("metrics missing %q:\n%s", line, body)
		}
	}
}

func TestHealth(t *testing.T) {
	tests := []struct {
		name       string
		checks     map[string]HealthCheck
		wantStatus int
	}{
		{
			name:       "no checks",
			wantStatus: http.StatusOK,
		},
		{
			name: "passing",
			checks: map[string]HealthCheck{
				"simulator": func(ctx context.Context) error { return nil },
			},
			wantStatus: http.StatusOK,
		},
		{
			name: "failing",
			checks: map[string]HealthCheck{
				"simulator": func(ctx context.Context) error { return nil },
				"redis":     func(ctx context.Context) error { return errors.New("connection refused") },
			},
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := NewServer(newTestSimulator(), tt.checks)

			recorder := httptest.NewRecorder()
			server.Handler().ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/health", nil))

			if recorder.Code != tt.wantStatus {
				t.Errorf("status %d, want %d", recorder.Code, tt.wantStatus)
			}

			var body struct {
				Healthy bool              `json:"healthy"`
				Checks  map[string]string `json:"checks"`
			}
			if err := json.NewDecoder(recorder.Body).Decode(&body); err != nil {
				t.Fatalf("decoding: %v", err)
			}
			if body.Healthy != (tt.wantStatus == http.StatusOK) {
				t.Errorf("healthy = %v", body.Healthy)
			}
			if len(body.Checks) != len(tt.checks) {
				t.Errorf("checks %v", body.Checks)
			}
		})
	}
}
