package api

import (
	"context"
	"errors"
	"os/signal"
	"syscall"

	"github.com/Super-mario11/Transport-Tracker/pkg/alerts"
	"github.com/Super-mario11/Transport-Tracker/pkg/api/routes"
	"github.com/Super-mario11/Transport-Tracker/pkg/elastic_client"
	"github.com/Super-mario11/Transport-Tracker/pkg/kvstore"
	"github.com/Super-mario11/Transport-Tracker/pkg/redis_client"
	"github.com/Super-mario11/Transport-Tracker/pkg/reports"
	"github.com/Super-mario11/Transport-Tracker/pkg/session"
	"github.com/Super-mario11/Transport-Tracker/pkg/stream"
	"github.com/Super-mario11/Transport-Tracker/pkg/vehiclefeed"
	"github.com/rs/zerolog/log"
	"github.com/sourcegraph/conc/pool"
	"github.com/urfave/cli/v2"
)

const (
	reportQueueDirect = "direct"
	reportQueueRedis  = "redis"
)

func RegisterCLI() *cli.Command {
	return &cli.Command{
		Name:  "web-api",
		Usage: "Provides the TransitNow web API and vehicle stream",
		Subcommands: []*cli.Command{
			{
				Name:  "run",
				Usage: "run web api server",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "listen",
						Value: ":8080",
						Usage: "listen target for the web server",
					},
					&cli.StringFlag{
						Name:  "stream-listen",
						Value: ":3333",
						Usage: "listen target for the health, metrics and websocket server",
					},
					&cli.StringFlag{
						Name:    "session-backend",
						Value:   kvstore.BackendMemory,
						Usage:   "session slot backend (memory, redis, mongo)",
						EnvVars: []string{"TRANSITNOW_SESSION_BACKEND"},
					},
					&cli.StringFlag{
						Name:    "report-queue",
						Value:   reportQueueDirect,
						Usage:   "how driver reports reach the feed (direct, redis)",
						EnvVars: []string{"TRANSITNOW_REPORT_QUEUE"},
					},
				},
				Action: func(c *cli.Context) error {
					return run(c)
				},
			},
		},
	}
}

func run(c *cli.Context) error {
	if err := elastic_client.Connect(false); err != nil {
		return err
	}
	defer elastic_client.WaitUntilQueueEmpty()

	simulator, data, err := vehiclefeed.NewConfigured()
	if err != nil {
		return err
	}
	simulator.OnTick(vehiclefeed.IndexLocationEvents)

	slots, err := kvstore.Open(c.String("session-backend"))
	if err != nil {
		return err
	}

	publisher, stopReports, err := newReportPublisher(c.String("report-queue"), simulator)
	if err != nil {
		return err
	}

	healthChecks := map[string]stream.HealthCheck{
		"vehicle_feed": func(ctx context.Context) error {
			if !simulator.IsRunning() {
				return errors.New("vehicle feed is not running")
			}
			return nil
		},
	}
	if redis_client.Client != nil {
		healthChecks["redis"] = func(ctx context.Context) error {
			return redis_client.Client.Ping(ctx).Err()
		}
	}
	streamServer := stream.NewServer(simulator, healthChecks)

	webApp := NewApp(Dependencies{
		Sessions:      routes.NewSessions(session.NewDemoRegistry(), slots),
		Vehicles:      simulator,
		Reports:       publisher,
		ReferenceData: data,
		Alerts:        alerts.NewBoard(),
	})

	ctx, stop := signal.NotifyContext(c.Context, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := simulator.Start(ctx); err != nil {
		return err
	}
	defer simulator.Stop()
	defer stopReports()

	servers := pool.New().WithContext(ctx).WithCancelOnError()
	servers.Go(func(ctx context.Context) error {
		return streamServer.ListenAndServe(ctx, c.String("stream-listen"))
	})
	servers.Go(func(ctx context.Context) error {
		go func() {
			<-ctx.Done()
			if err := webApp.Shutdown(); err != nil {
				log.Error().Err(err).Msg("Web API shutdown failed")
			}
		}()

		log.Info().Str("listen", c.String("listen")).Msg("Web API listening")
		return webApp.Listen(c.String("listen"))
	})

	err = servers.Wait()
	log.Info().Msg("Shutting down")

	return err
}

// newReportPublisher also returns the function stopping whatever consumers it started. It must run
// before the simulator stops.
func newReportPublisher(queueType string, simulator *vehiclefeed.Simulator) (reports.Publisher, func(), error) {
	switch queueType {
	case "", reportQueueDirect:
		return reports.NewDirectPublisher(simulator), func() {}, nil
	case reportQueueRedis:
		if err := redis_client.Connect(); err != nil {
			return nil, nil, err
		}

		queue, err := reports.StartConsumers(redis_client.QueueConnection, simulator)
		if err != nil {
			return nil, nil, err
		}

		return reports.NewQueuePublisher(queue), func() {
			reports.StopConsumers(redis_client.QueueConnection)
		}, nil
	default:
		return nil, nil, errors.New("unknown report queue " + queueType)
	}
}
