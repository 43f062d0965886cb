package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/UnknownOlympus/horizon/internal/colorize"
	"github.com/UnknownOlympus/horizon/internal/config"
	"github.com/UnknownOlympus/horizon/internal/geo"
	"github.com/UnknownOlympus/horizon/internal/models"
	"github.com/UnknownOlympus/horizon/internal/planner"
	"github.com/kr/pretty"
	"github.com/urfave/cli/v2"
)

type isochroneFetcher interface {
	Isochrone(ctx context.Context, req planner.IsochroneRequest) ([]models.Journey, error)
}

type renderOptions struct {
	Zoom     int
	Gradient colorize.Gradient
	Policy   colorize.Policy
	Link     func(string) string
	Debug    io.Writer // Debug receives a dump of the normalised journeys when not nil.
}

func renderCommand() *cli.Command {
	return &cli.Command{
		Name:  "render",
		Usage: "fetch one isochrone and write it as GeoJSON",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "from",
				Usage: "origin as \"lon;lat\" or a place id, defaults to HORIZON_ISOCHRONE_ORIGIN",
			},
			&cli.IntFlag{
				Name:  "max-duration",
				Usage: "slowest duration in seconds, defaults to HORIZON_ISOCHRONE_MAX_DURATION",
			},
			&cli.IntFlag{
				Name:  "min-duration",
				Usage: "fastest duration in seconds",
			},
			&cli.TimestampFlag{
				Name:   "datetime",
				Usage:  "departure date-time, defaults to now",
				Layout: time.RFC3339,
			},
			&cli.IntFlag{
				Name:  "zoom",
				Usage: "map zoom level used for point radii",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "write to this file instead of stdout",
			},
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "dump the normalised journeys to stderr",
			},
		},
		Action: func(c *cli.Context) error {
			cfg := config.MustLoad()
			logger := setupLogger(cfg.Env, os.Stderr)

			client, err := newPlannerClient(cfg, logger)
			if err != nil {
				return err
			}

			req := planner.IsochroneRequest{
				From:        cfg.Isochrone.Origin,
				DateTime:    time.Now(),
				MaxDuration: cfg.Isochrone.MaxDuration,
				MinDuration: cfg.Isochrone.MinDuration,
				Clockwise:   true,
			}
			if c.IsSet("from") {
				req.From = c.String("from")
			}
			if c.IsSet("max-duration") {
				req.MaxDuration = c.Int("max-duration")
			}
			if c.IsSet("min-duration") {
				req.MinDuration = c.Int("min-duration")
			}
			if datetime := c.Timestamp("datetime"); datetime != nil {
				req.DateTime = *datetime
			}

			opts := renderOptions{
				Zoom:     cfg.Isochrone.Zoom,
				Gradient: cfg.Isochrone.Gradient,
				Policy:   cfg.Isochrone.Policy,
				Link:     client.AuthenticatedLink,
			}
			if c.IsSet("zoom") {
				opts.Zoom = c.Int("zoom")
			}
			if c.Bool("debug") {
				opts.Debug = os.Stderr
			}

			out := io.Writer(os.Stdout)
			if path := c.String("output"); path != "" {
				file, err := os.Create(path)
				if err != nil {
					return fmt.Errorf("failed to create output file: %w", err)
				}
				defer file.Close()
				out = file
			}

			return renderIsochrone(c.Context, client, req, opts, out)
		},
	}
}

// renderIsochrone fetches one isochrone and writes its feature collection to out.
func renderIsochrone(
	ctx context.Context,
	fetcher isochroneFetcher,
	req planner.IsochroneRequest,
	opts renderOptions,
	out io.Writer,
) error {
	if req.MaxDuration <= 0 {
		return fmt.Errorf("max duration must be positive, got %d", req.MaxDuration)
	}

	journeys, err := fetcher.Isochrone(ctx, req)
	if err != nil {
		return fmt.Errorf("failed to fetch isochrone: %w", err)
	}

	if opts.Debug != nil {
		_, _ = pretty.Fprintf(opts.Debug, "%# v\n", journeys)
	}

	points := geo.BuildIsochrone(journeys, req.MaxDuration, opts.Gradient, opts.Policy)
	collection := geo.IsochroneCollection(points, geo.IsochroneOptions{Zoom: opts.Zoom, Link: opts.Link})

	data, err := collection.MarshalJSON()
	if err != nil {
		return fmt.Errorf("failed to encode isochrone: %w", err)
	}

	if _, err = out.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("failed to write isochrone: %w", err)
	}

	return nil
}
