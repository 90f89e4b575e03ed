// Package config loads service and tool settings from the environment.
//
// Loading order:
//  1. A .env file in the working directory, if present. It never overrides
//     variables already set.
//  2. envconfig populates Config from the environment and struct defaults.
//  3. validator checks ranges and required fields.
package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/sirupsen/logrus"

	"go.ngs.io/ocean-field/internal/adapter/geodesy"
	"go.ngs.io/ocean-field/internal/adapter/store/roms"
)

// ErrorType classifies a configuration failure.
type ErrorType string

const (
	// ErrParsing means an environment value could not be converted.
	ErrParsing ErrorType = "parsing"
	// ErrValidation means a value was parsed but is out of range.
	ErrValidation ErrorType = "validation"
)

// Error is returned by Load.
type Error struct {
	Type    ErrorType
	Message string
	Err     error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

// Config holds every setting read from the environment.
type Config struct {
	Port string `envconfig:"PORT" default:"8080" validate:"required,numeric"`

	ROMSFile  string `envconfig:"ROMS_FILE" default:"./data/roms_his.nc" validate:"required"`
	ScalarVar string `envconfig:"ROMS_SCALAR_VAR" default:"temp" validate:"required"`
	EastVar   string `envconfig:"ROMS_EAST_VAR" default:"u" validate:"required_with=NorthVar"`
	NorthVar  string `envconfig:"ROMS_NORTH_VAR" default:"v" validate:"required_with=EastVar"`

	OriginLat float64 `envconfig:"ORIGIN_LAT" default:"41.5" validate:"gte=-90,lte=90"`
	OriginLon float64 `envconfig:"ORIGIN_LON" default:"-70.7" validate:"gte=-180,lte=360"`

	MaxSearchRadius float64 `envconfig:"MAX_SEARCH_RADIUS" default:"100000" validate:"gt=0"`

	CORSAllowedOrigins []string `envconfig:"CORS_ALLOWED_ORIGINS"`

	LogLevel string `envconfig:"LOG_LEVEL" default:"info" validate:"oneof=trace debug info warn warning error fatal panic"`
}

// Load reads a .env file if present, then the environment, and validates
// the result.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, &Error{
			Type:    ErrParsing,
			Message: "failed to process environment configuration",
			Err:     err,
		}
	}

	cfg.CORSAllowedOrigins = trimAll(cfg.CORSAllowedOrigins)
	cfg.LogLevel = strings.ToLower(cfg.LogLevel)

	if err := validator.New().Struct(cfg); err != nil {
		return nil, &Error{
			Type:    ErrValidation,
			Message: "configuration validation failed",
			Err:     err,
		}
	}

	return &cfg, nil
}

// VarNames returns the ROMS variables to load.
func (c *Config) VarNames() roms.VarNames {
	return roms.VarNames{Scalar: c.ScalarVar, East: c.EastVar, North: c.NorthVar}
}

// Origin returns the geographic origin of the planar frame.
func (c *Config) Origin() geodesy.Origin {
	return geodesy.Origin{Lat: c.OriginLat, Lon: c.OriginLon}
}

// NewLogger returns a logger at the configured level.
func (c *Config) NewLogger() *logrus.Logger {
	logger := logrus.New()
	level, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	return logger
}

func trimAll(in []string) []string {
	out := in[:0]
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
