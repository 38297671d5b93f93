package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
)

const (
	// PathEnv names the variable holding the config file path.
	PathEnv = "CONFIG_PATH"
	// DefaultPath is tried when no path is given. It may be absent.
	DefaultPath = "./config.yaml"
)

// Load reads the file named by CONFIG_PATH (or DefaultPath), then the
// environment, then validates. Environment variables win over the file and
// env-default tags fill whatever both leave unset.
func Load() (*Config, error) {
	return LoadFrom(os.Getenv(PathEnv))
}

// LoadFrom is Load with an explicit path. The format follows the file
// extension (yaml, json, toml or env). A path given explicitly must exist.
func LoadFrom(path string) (*Config, error) {
	var cfg Config

	if err := readSources(path, &cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: validate: %w", err)
	}
	return &cfg, nil
}

func readSources(path string, cfg *Config) error {
	if path == "" {
		_, err := os.Stat(DefaultPath)
		switch {
		case errors.Is(err, fs.ErrNotExist):
			if err := cleanenv.ReadEnv(cfg); err != nil {
				return fmt.Errorf("config: read env: %w", err)
			}
			return nil
		case err != nil:
			return fmt.Errorf("config: %s: %w", DefaultPath, err)
		}
		path = DefaultPath
	}

	if err := cleanenv.ReadConfig(path, cfg); err != nil {
		return fmt.Errorf("config: read %s: %w", path, err)
	}
	return nil
}

// EnvHelp lists every environment variable the service reads with its
// default, for `pipeline env`.
func EnvHelp() (string, error) {
	var cfg Config
	help, err := cleanenv.GetDescription(&cfg, nil)
	if err != nil {
		return "", fmt.Errorf("config: describe env: %w", err)
	}
	return help, nil
}
