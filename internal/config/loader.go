package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultEnvFile is read when present in the working directory.
const DefaultEnvFile = ".env"

// Load builds the configuration from defaults, the YAML file at path (optional),
// ./.env and the process environment.
func Load(path string) (*Config, error) {
	return LoadFrom(path, DefaultEnvFile, os.Environ())
}

// LoadFrom is Load with an explicit .env path and environment.
// Variables in environ take precedence over the .env file, as with godotenv.Load.
func LoadFrom(path, envFile string, environ []string) (*Config, error) {
	vars, err := environment(envFile, environ)
	if err != nil {
		return nil, err
	}

	cfg := Defaults()

	if path != "" {
		if err := cfg.loadYAML(path, vars); err != nil {
			return nil, err
		}
	}

	opts := env.Options{Prefix: EnvPrefix, Environment: vars}
	if err := env.ParseWithOptions(cfg, opts); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}

	return cfg, nil
}

// loadYAML overlays the file onto cfg after expanding ${VAR} references.
func (c *Config) loadYAML(path string, vars map[string]string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	expanded := os.Expand(string(data), func(key string) string { return vars[key] })

	dec := yaml.NewDecoder(strings.NewReader(expanded))
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("parse config yaml: %w", err)
	}
	return nil
}

// environment merges the .env file with environ; environ wins.
func environment(envFile string, environ []string) (map[string]string, error) {
	vars := make(map[string]string)

	if envFile != "" {
		data, err := os.ReadFile(envFile)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("read env file: %w", err)
		default:
			fileVars, err := godotenv.Parse(bytes.NewReader(data))
			if err != nil {
				return nil, fmt.Errorf("parse env file %s: %w", envFile, err)
			}
			for k, v := range fileVars {
				vars[k] = v
			}
		}
	}

	for _, kv := range environ {
		k, v, ok := strings.Cut(kv, "=")
		if ok {
			vars[k] = v
		}
	}
	return vars, nil
}
