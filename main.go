package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"
)

var version = "dev"

func main() {
	cmd := &cli.Command{
		Name:      "airwaves",
		Usage:     "play an internet radio stream",
		UsageText: "airwaves [options] [stream URL]",
		Version:   version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "extra config file loaded after the defaults",
			},
			&cli.StringSliceFlag{
				Name:    "header",
				Aliases: []string{"H"},
				Usage:   "HTTP header sent with the stream, as Key=Value (repeatable)",
			},
			&cli.FloatFlag{
				Name:  "volume",
				Usage: "initial volume from 0.0 to 1.0",
			},
			&cli.BoolFlag{
				Name:  "no-artwork",
				Usage: "disable artwork lookups",
			},
			&cli.StringFlag{
				Name:  "listen",
				Usage: "serve the now-playing feed on this address",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "debug, info, warn or error",
			},
			&cli.BoolFlag{
				Name:  "headless",
				Usage: "run without the terminal UI until interrupted",
			},
		},
		Action: run,
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
