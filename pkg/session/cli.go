package session

import (
	"fmt"
	"io"

	"github.com/Super-mario11/Transport-Tracker/pkg/kvstore"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"
)

func openCLIStore(c *cli.Context) (*Store, error) {
	slot, err := kvstore.Open(c.String("backend"))
	if err != nil {
		return nil, err
	}

	if device := c.String("device"); device != "" {
		slot = kvstore.NewPrefixed(slot, kvstore.DevicePrefix(device))
	}

	store := NewStore(NewDemoRegistry(), slot)
	store.Restore(c.Context)

	return store, nil
}

func RegisterCLI() *cli.Command {
	backendFlags := []cli.Flag{
		&cli.StringFlag{
			Name:    "backend",
			Value:   kvstore.BackendMemory,
			Usage:   "session slot backend (memory, redis, mongo)",
			EnvVars: []string{"TRANSITNOW_SESSION_BACKEND"},
		},
		&cli.StringFlag{
			Name:  "device",
			Usage: "device identifier the slot is namespaced under",
		},
	}

	return &cli.Command{
		Name:  "session",
		Usage: "Inspect and change the stored session",
		Subcommands: []*cli.Command{
			{
				Name:  "login",
				Usage: "log in with a registered account and store the session",
				Flags: append([]cli.Flag{
					&cli.StringFlag{Name: "email", Required: true},
					&cli.StringFlag{Name: "password", Required: true},
				}, backendFlags...),
				Action: func(c *cli.Context) error {
					store, err := openCLIStore(c)
					if err != nil {
						return err
					}

					role, err := store.Login(c.Context, c.String("email"), c.String("password"))
					if err != nil {
						return err
					}

					log.Info().Str("email", c.String("email")).Str("role", role.String()).Msg("Logged in")
					return nil
				},
			},
			{
				Name:  "logout",
				Usage: "clear the stored session",
				Flags: backendFlags,
				Action: func(c *cli.Context) error {
					store, err := openCLIStore(c)
					if err != nil {
						return err
					}

					store.Logout(c.Context)

					log.Info().Msg("Logged out")
					return nil
				},
			},
			{
				Name:  "whoami",
				Usage: "print the stored session",
				Flags: backendFlags,
				Action: func(c *cli.Context) error {
					store, err := openCLIStore(c)
					if err != nil {
						return err
					}

					return printSession(store, c.App.Writer)
				},
			},
		},
	}
}

func printSession(store *Store, writer io.Writer) error {
	user, ok := store.Current()
	if !ok {
		_, err := fmt.Fprintln(writer, "anonymous")
		return err
	}

	_, err := fmt.Fprintf(writer, "%s (%s)\n", user.Email, user.Role)
	return err
}
