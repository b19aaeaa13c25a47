// Package config loads the optional rosterflow.toml configuration file.
//
// The config file carries defaults for the dataset location and the backend
// connections; command-line flags override anything set here. A missing file
// is not an error - every field has a workable default.
//
// Example:
//
//	input = "studchr_jsons/json"
//	mapping = "studchr_jsons/studchr_ids.txt"
//	output = "all_teams.json"
//
//	[cache]
//	scope = "studchr"
//
//	[redis]
//	addr = "localhost:6379"
//
//	[mongo]
//	uri = "mongodb://localhost:27017"
//	database = "rosterflow"
//	collection = "diagrams"
package config

import (
	"os"

	"github.com/BurntSushi/toml"

	"github.com/mkazantsev/rosterflow/pkg/errors"
)

// DefaultPath is where Load looks when no explicit path is given.
const DefaultPath = "rosterflow.toml"

// Config holds all file-configurable settings.
type Config struct {
	// Input is the directory of per-tournament JSON files.
	Input string `toml:"input"`

	// Mapping is the tournament-ID to year mapping file.
	Mapping string `toml:"mapping"`

	// Output is the diagram document path written by build.
	Output string `toml:"output"`

	Cache CacheConfig `toml:"cache"`
	Redis RedisConfig `toml:"redis"`
	Mongo MongoConfig `toml:"mongo"`
}

// CacheConfig tunes diagram caching. Scope isolates this dataset's entries
// when several rosterflow checkouts share one cache backend.
type CacheConfig struct {
	Scope string `toml:"scope"`
}

// RedisConfig configures the shared diagram cache backend.
// When Addr is empty the CLI uses the local file cache instead.
type RedisConfig struct {
	Addr string `toml:"addr"`
}

// MongoConfig configures diagram publishing.
type MongoConfig struct {
	URI        string `toml:"uri"`
	Database   string `toml:"database"`
	Collection string `toml:"collection"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Input:   "tournaments",
		Mapping: "tournaments/ids.txt",
		Output:  "all_teams.json",
		Mongo: MongoConfig{
			Database:   "rosterflow",
			Collection: "diagrams",
		},
	}
}

// Load reads the config file at path, layered over Default. A missing file
// yields the defaults; a malformed file is an error.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, err
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse %s", path)
	}
	return cfg, nil
}
