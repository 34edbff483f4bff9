package main

import "github.com/urfave/cli/v3"

var (
	manifestPath string
	configFile   string
	logLevel     string
	logFormat    string
	debug        bool
)

func manifestFlag() cli.Flag {
	return &cli.StringFlag{
		Name:        "manifest",
		Aliases:     []string{"m"},
		Usage:       "path to a container manifest (.yaml, .yml or .json)",
		Sources:     cli.EnvVars(envManifest),
		Destination: &manifestPath,
	}
}

func configFlag() cli.Flag {
	return &cli.StringFlag{
		Name:        "config",
		Usage:       "path to config.yaml (default: user config dir)",
		Destination: &configFile,
	}
}

func loggingFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "log-level",
			Usage:       "log level (debug, info, warn, error)",
			Value:       "info",
			Destination: &logLevel,
		},
		&cli.StringFlag{
			Name:        "log-format",
			Usage:       "log format (pretty, json, text)",
			Value:       "pretty",
			Destination: &logFormat,
		},
		&cli.BoolFlag{
			Name:        "debug",
			Usage:       "enable debug logging (shorthand for --log-level=debug)",
			Destination: &debug,
		},
	}
}
