package main

import (
	"os"
	"time"

	"github.com/Super-mario11/Transport-Tracker/pkg/api"
	"github.com/Super-mario11/Transport-Tracker/pkg/session"
	"github.com/Super-mario11/Transport-Tracker/pkg/util"
	"github.com/Super-mario11/Transport-Tracker/pkg/vehiclefeed"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"
)

func main() {
	util.LoadDotEnv()

	env := util.GetEnvironmentVariables()

	if env["TRANSITNOW_LOG_FORMAT"] != "JSON" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})
	}

	if env["TRANSITNOW_DEBUG"] == "YES" {
		log.Logger = log.Logger.Level(zerolog.DebugLevel)
	} else {
		log.Logger = log.Logger.Level(zerolog.InfoLevel)
	}

	app := &cli.App{
		Name:        "transitnow",
		Description: "Live transit tracker: web API, simulated vehicle feed and session tools",

		Commands: []*cli.Command{
			api.RegisterCLI(),
			vehiclefeed.RegisterCLI(),
			session.RegisterCLI(),
		},
	}

	err := app.Run(os.Args)
	if err != nil {
		log.Fatal().Err(err).Send()
	}
}
