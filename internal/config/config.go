// Package config provides functionality for managing configuration options
// for the application using command-line flags, environment variables, and
// an optional JSON config file.
package config

import (
	"encoding/json"
	"flag"
	"log"
	"os"

	"github.com/caarlos0/env/v11"
)

// Options holds the configuration values for the onboarding server.
type Options struct {
	// Addr defines the server's listening address (ip:port).
	Addr string `env:"SERVER_ADDRESS" json:"server_address"`

	// DatabaseDSN holds the database connection string for the application.
	DatabaseDSN string `env:"DATABASE_DSN" json:"database_dsn"`

	// LogLevel sets the minimum log level (Debug, Info, Warn, Error).
	LogLevel string `env:"LOG_LEVEL" json:"log_level"`

	// Config is the path to the JSON config file.
	Config string `env:"CONFIG" json:"-"`
}

// options holds the current configuration values.
var options = &Options{}

// init initializes command-line flags and sets default values.
func init() {
	flag.StringVar(&options.Addr, "a", "localhost:8080", "run on ip:port server")
	flag.StringVar(&options.DatabaseDSN, "d", "", "db address")
	flag.StringVar(&options.LogLevel, "l", "Info", "log level")
	flag.StringVar(&options.Config, "config", "config.json", "path to config file")
	flag.StringVar(&options.Config, "c", "config.json", "path to config file (shorthand)")
}

// Parse parses the command-line flags, the optional config file, and the
// environment to produce the final configuration. Environment variables take
// precedence over the file, which takes precedence over flag values.
func Parse() *Options {
	flag.Parse()

	if configPath := os.Getenv("CONFIG"); configPath != "" {
		options.Config = configPath
	}

	if options.Config != "" {
		if _, err := os.Stat(options.Config); err == nil {
			data, err := os.ReadFile(options.Config)
			if err != nil {
				log.Fatalf("error while reading config file: %v", err)
			}
			if err := json.Unmarshal(data, options); err != nil {
				log.Fatalf("error while parsing config file: %v", err)
			}
		}
	}

	if err := env.Parse(options); err != nil {
		log.Fatalf("error while parsing environment: %v", err)
	}

	return options
}
