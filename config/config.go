// Package config loads rulesys's environment-variable configuration,
// grounded on examples/go-client/configuration/EnvConfig.go's
// envconfig.Process pattern.
package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

// EnvConfig is the engine's environment-variable surface: verbosity,
// storage backend selection, the HTTP listen address, and the RNG
// seed.
type EnvConfig struct {
	// Logging verbosity, a "|"-separated list of level names
	// (core.ParseVerbosity), or "EVERYTHING".
	Verbosity string `envconfig:"verbosity" default:"EVERYTHING" required:"true"`

	// "mem" or "bolt".
	StorageType string `envconfig:"storage" default:"mem" required:"true"`
	// Path to the bolt database file; ignored when StorageType is "mem".
	StoragePath string `envconfig:"storage_path" default:"rulesys.db" required:"false"`

	// HTTP listen address for the "serve" subcommand.
	Addr string `envconfig:"addr" default:":8001" required:"true"`

	// RNG seed for RuleResult's Random/RandomOnce sampler. 0 means
	// "use the process default (math/rand/v2)".
	RandSeed uint64 `envconfig:"rand_seed" default:"0" required:"false"`

	// Max in-flight HTTP requests; 0 means no max.
	MaxPending int `envconfig:"max_pending" default:"0" required:"false"`

	// Quiet installs core.NoopLogger in place of core.SimpleLogger,
	// for deployments that ship logs elsewhere and don't want them
	// duplicated to stdout.
	Quiet bool `envconfig:"quiet" default:"false" required:"false"`
}

// Load reads RULESYS_-prefixed environment variables into an EnvConfig.
func Load() (*EnvConfig, error) {
	conf := &EnvConfig{}
	if err := envconfig.Process("rulesys", conf); err != nil {
		return nil, fmt.Errorf("rulesys config: %v", err)
	}
	return conf, nil
}
