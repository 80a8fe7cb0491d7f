// Package config reads the server settings from flags, falling back to
// SPLITCHESS_* environment variables and then to defaults.
package config

import (
	"flag"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

type Config struct {
	Addr          string
	AllowOrigins  string
	DataDir       string
	ClockTime     time.Duration
	MatchInterval time.Duration
	LogLevel      zerolog.Level
	Pretty        bool
}

func Default() Config {
	return Config{
		Addr:          ":3000",
		AllowOrigins:  "http://localhost:5173",
		DataDir:       "",
		ClockTime:     10 * time.Minute,
		MatchInterval: time.Second,
		LogLevel:      zerolog.InfoLevel,
		Pretty:        false,
	}
}

const envPrefix = "SPLITCHESS_"

// Load parses args (without the program name). getenv is usually os.Getenv.
func Load(args []string, getenv func(string) string) (Config, error) {
	cfg := Default()
	env := func(name string) string {
		return strings.TrimSpace(getenv(envPrefix + name))
	}

	if v := env("ADDR"); v != "" {
		cfg.Addr = v
	}
	if v := env("ALLOW_ORIGINS"); v != "" {
		cfg.AllowOrigins = v
	}
	if v := env("DATA_DIR"); v != "" {
		cfg.DataDir = v
	}
	if v := env("CLOCK_TIME"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return cfg, errors.Wrap(err, envPrefix+"CLOCK_TIME")
		}
		cfg.ClockTime = d
	}
	if v := env("MATCH_INTERVAL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return cfg, errors.Wrap(err, envPrefix+"MATCH_INTERVAL")
		}
		cfg.MatchInterval = d
	}
	logLevel := cfg.LogLevel.String()
	if v := env("LOG_LEVEL"); v != "" {
		logLevel = v
	}
	if v := env("PRETTY"); v != "" {
		pretty, err := strconv.ParseBool(v)
		if err != nil {
			return cfg, errors.Wrap(err, envPrefix+"PRETTY")
		}
		cfg.Pretty = pretty
	}

	fs := flag.NewFlagSet("splitchess", flag.ContinueOnError)
	fs.StringVar(&cfg.Addr, "addr", cfg.Addr, "listen address")
	fs.StringVar(&cfg.AllowOrigins, "allow-origins", cfg.AllowOrigins, "comma separated CORS origins")
	fs.StringVar(&cfg.DataDir, "data-dir", cfg.DataDir, "archive directory; empty keeps the archive in memory")
	fs.DurationVar(&cfg.ClockTime, "clock", cfg.ClockTime, "time on each player's clock")
	fs.DurationVar(&cfg.MatchInterval, "match-interval", cfg.MatchInterval, "how often matchmaking pairs players")
	fs.StringVar(&logLevel, "log-level", logLevel, "trace, debug, info, warn or error")
	fs.BoolVar(&cfg.Pretty, "pretty", cfg.Pretty, "human readable logs")
	if err := fs.Parse(args); err != nil {
		return cfg, err
	}

	level, err := zerolog.ParseLevel(logLevel)
	if err != nil {
		return cfg, errors.Wrap(err, "log level")
	}
	cfg.LogLevel = level

	if cfg.ClockTime <= 0 {
		return cfg, errors.Errorf("clock must be positive, got %s", cfg.ClockTime)
	}
	if cfg.MatchInterval <= 0 {
		return cfg, errors.Errorf("match interval must be positive, got %s", cfg.MatchInterval)
	}
	return cfg, nil
}

// Origins splits AllowOrigins for the websocket origin check.
func (c Config) Origins() []string {
	var origins []string
	for _, o := range strings.Split(c.AllowOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}
