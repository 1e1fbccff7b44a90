// Package config loads engine startup configuration from a TOML file,
// with defaults matching common UCI option defaults (Hash 64MB,
// NNUE disabled until a weight file is given).
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

type Config struct {
	Hash struct {
		SizeMB int `toml:"size_mb"`
	} `toml:"hash"`

	NNUE struct {
		WeightsPath string `toml:"weights_path"`
	} `toml:"nnue"`

	Search struct {
		Threads int `toml:"threads"`
	} `toml:"search"`

	Log struct {
		Level string `toml:"level"`
	} `toml:"log"`
}

func Default() Config {
	var c Config
	c.Hash.SizeMB = 64
	c.Search.Threads = 1
	c.Log.Level = "info"
	return c
}

// Load reads and merges a TOML config file over the defaults. A missing
// file is not an error — Default() alone is a valid configuration — but a
// malformed one is, failing loudly rather than silently falling back, the
// same way FEN and UCI move parsing do elsewhere in this engine.
func Load(path string) (Config, error) {
	c := Default()
	if path == "" {
		return c, nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return c, nil
	}
	if _, err := toml.DecodeFile(path, &c); err != nil {
		return c, fmt.Errorf("config: decoding %s: %w", path, err)
	}
	return c, nil
}
