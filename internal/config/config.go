// internal/config/config.go
package config

import (
	"encoding/json"
	"os"
)

type Config struct {
	LogLevel string `json:"log_level"` // debug, info, warn, error
}

func Default() *Config {
	return &Config{LogLevel: "warn"}
}

// Load reads the repository config file. A missing file is not an error;
// defaults apply. The TROVE_LOG environment variable overrides the file.
func Load(path string) (*Config, error) {
	config := Default()

	file, err := os.Open(path)
	if err == nil {
		defer file.Close()
		if err := json.NewDecoder(file).Decode(config); err != nil {
			return nil, err
		}
	} else if !os.IsNotExist(err) {
		return nil, err
	}

	if lvl := os.Getenv("TROVE_LOG"); lvl != "" {
		config.LogLevel = lvl
	}

	return config, nil
}
