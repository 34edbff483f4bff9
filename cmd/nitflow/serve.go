package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v5"
	"github.com/labstack/echo/v5/middleware"
	"github.com/urfave/cli/v3"

	"github.com/samcharles93/nitflow/internal/api"
	"github.com/samcharles93/nitflow/internal/logger"
	"github.com/samcharles93/nitflow/internal/manifest"
)

func serveCmd() *cli.Command {
	var (
		addr        string
		readTimeout time.Duration
	)

	return &cli.Command{
		Name:  "serve",
		Usage: "Serve a container manifest over the REST API",
		Flags: []cli.Flag{
			manifestFlag(),
			&cli.StringFlag{
				Name:        "addr",
				Usage:       "listen address",
				Value:       "127.0.0.1:8080",
				Destination: &addr,
			},
			&cli.DurationFlag{
				Name:        "read-timeout",
				Usage:       "maximum time to read a whole request, headers included",
				Value:       30 * time.Second,
				Destination: &readTimeout,
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			log := logger.FromContext(ctx)
			applyServeConfig(cmd, cfg, &addr, &readTimeout)

			path, err := resolveManifest()
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: %v", err), 1)
			}
			file, err := manifest.Load(path, manifest.WithLogger(log))
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: open manifest: %v", err), 1)
			}
			defer func() {
				if err := file.Close(); err != nil {
					log.Warn("close manifest", "error", err)
				}
			}()

			server := api.NewServer(file, log)
			e := echo.New()
			e.Use(middleware.RequestLogger())
			e.Use(middleware.Recover())
			server.Register(e)
			log.Info("starting server", "address", addr, "manifest", path)
			sc := echo.StartConfig{
				Address:         addr,
				BeforeServeFunc: withReadTimeout(readTimeout),
			}
			return sc.Start(ctx, e)
		},
	}
}

// withReadTimeout bounds reading the full request. ReadHeaderTimeout is left
// zero so net/http applies the same limit to headers.
func withReadTimeout(d time.Duration) func(*http.Server) error {
	return func(srv *http.Server) error {
		srv.ReadTimeout = d
		return nil
	}
}
