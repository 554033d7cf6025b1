package vehiclefeed

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/Super-mario11/Transport-Tracker/pkg/ctdf"
	"github.com/Super-mario11/Transport-Tracker/pkg/elastic_client"
	"github.com/Super-mario11/Transport-Tracker/pkg/referencedata"
	"github.com/kr/pretty"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"
)

// NewConfigured builds a simulator over the configured reference data and environment settings.
func NewConfigured() (*Simulator, *referencedata.Data, error) {
	data, err := referencedata.LoadConfigured()
	if err != nil {
		return nil, nil, err
	}

	config, err := ConfigFromEnvironment()
	if err != nil {
		return nil, nil, err
	}

	return New(data.Vehicles, config), data, nil
}

func RegisterCLI() *cli.Command {
	return &cli.Command{
		Name:  "vehicles",
		Usage: "Run and inspect the simulated vehicle feed",
		Subcommands: []*cli.Command{
			{
				Name:  "dump",
				Usage: "print the initial vehicle state",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "route",
						Usage: "only vehicles on this route",
					},
					&cli.StringFlag{
						Name:  "filter",
						Usage: "expr filter expression",
					},
				},
				Action: func(c *cli.Context) error {
					simulator, _, err := NewConfigured()
					if err != nil {
						return err
					}

					vehicles, err := Filter{
						RouteRef:   c.String("route"),
						Expression: c.String("filter"),
					}.Apply(simulator.GetVehicles())
					if err != nil {
						return err
					}

					pretty.Fprintf(c.App.Writer, "%# v\n", vehicles)

					return nil
				},
			},
			{
				Name:  "simulate",
				Usage: "run the feed, indexing location events to Elasticsearch when configured",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "ticks",
						Value: 0,
						Usage: "stop after this many ticks, 0 runs until interrupted",
					},
				},
				Action: func(c *cli.Context) error {
					if err := elastic_client.Connect(false); err != nil {
						return err
					}
					defer elastic_client.WaitUntilQueueEmpty()

					simulator, _, err := NewConfigured()
					if err != nil {
						return err
					}

					return runSimulation(c.Context, simulator, c.Int("ticks"))
				},
			},
		},
	}
}

func runSimulation(ctx context.Context, simulator *Simulator, maxTicks int) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	simulator.OnTick(IndexLocationEvents)
	simulator.OnTick(func(vehicles []*ctdf.Vehicle) {
		moving := 0
		for _, vehicle := range vehicles {
			if !vehicle.IsStopped() {
				moving++
			}
		}
		log.Debug().Uint64("tick", simulator.Ticks()).Int("moving", moving).Msg("Vehicle feed tick")

		if maxTicks > 0 && simulator.Ticks() >= uint64(maxTicks) {
			cancel()
		}
	})

	if err := simulator.Start(ctx); err != nil {
		return err
	}
	defer simulator.Stop()

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(signals)

	select {
	case <-signals:
		log.Info().Msg("Interrupted")
	case <-ctx.Done():
	}

	return nil
}
