package stream

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/Super-mario11/Transport-Tracker/pkg/ctdf"
	"github.com/Super-mario11/Transport-Tracker/pkg/http_server"
	"github.com/Super-mario11/Transport-Tracker/pkg/vehiclefeed"
	"github.com/rs/zerolog/log"
)

const shutdownTimeout = 5 * time.Second

// VehicleSource is the part of the vehicle feed the stream reads from.
type VehicleSource interface {
	GetVehicles() []*ctdf.Vehicle
	OnTick(listener vehiclefeed.TickListener)
}

// HealthCheck reports a dependency as unhealthy by returning an error.
type HealthCheck func(ctx context.Context) error

type Server struct {
	Hub     *Hub
	Metrics *Metrics

	healthChecks map[string]HealthCheck
}

// NewServer registers the hub and the metrics as tick listeners on the source.
func NewServer(source VehicleSource, healthChecks map[string]HealthCheck) *Server {
	server := &Server{
		Hub:          NewHub(source),
		Metrics:      NewMetrics(),
		healthChecks: healthChecks,
	}
	server.Hub.onClientsChanged = server.Metrics.SetClients

	source.OnTick(server.Metrics.ObserveTick)
	source.OnTick(server.Hub.Broadcast)

	return server
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/health", http.HandlerFunc(s.serveHealth))
	mux.Handle("/metrics", s.Metrics.Handler())
	mux.Handle("/vehicles/stream", s.Hub)

	return http_server.NewStatusLogger(mux)
}

func (s *Server) serveHealth(writer http.ResponseWriter, request *http.Request) {
	status := http.StatusOK
	checks := map[string]string{}

	for name, check := range s.healthChecks {
		if err := check(request.Context()); err != nil {
			status = http.StatusInternalServerError
			checks[name] = err.Error()
		} else {
			checks[name] = "ok"
		}
	}

	writer.Header().Set("Content-Type", "application/json")
	writer.WriteHeader(status)
	json.NewEncoder(writer).Encode(map[string]any{
		"healthy": status == http.StatusOK,
		"checks":  checks,
	})
}

// ListenAndServe serves until ctx is cancelled and then shuts the server down, disconnecting the
// stream clients.
func (s *Server) ListenAndServe(ctx context.Context, listen string) error {
	httpServer := &http.Server{
		Addr:    listen,
		Handler: s.Handler(),
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("Stream server shutdown failed")
		}
		s.Hub.Close()
	}()

	log.Info().Str("listen", listen).Msg("Stream server listening")
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}
