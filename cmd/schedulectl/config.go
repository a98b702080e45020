package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

const (
	defaultAPIURL  = "http://localhost:8080"
	defaultTimeout = 15 * time.Second
	tokenEnvVar    = "SCHEDULECTL_TOKEN"
)

// cliConfig is the on-disk configuration of schedulectl.
type cliConfig struct {
	APIURL  string `toml:"api_url"`
	Token   string `toml:"token"`
	Timeout string `toml:"timeout"`

	timeout time.Duration
}

func defaultConfig() cliConfig {
	return cliConfig{
		APIURL:  defaultAPIURL,
		Timeout: defaultTimeout.String(),
	}
}

func defaultConfigPath() (string, error) {
	return expandPath("~/.config/schedulectl/config.toml")
}

// loadConfig reads path, or the default location when path is empty. A
// missing file yields the defaults.
func loadConfig(path string) (*cliConfig, string, error) {
	cfg := defaultConfig()

	resolved := path
	if resolved == "" {
		p, err := defaultConfigPath()
		if err != nil {
			return nil, "", err
		}
		resolved = p
	}
	resolved, err := expandPath(resolved)
	if err != nil {
		return nil, "", err
	}

	file, err := os.Open(resolved)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return nil, "", fmt.Errorf("open config: %w", err)
	default:
		defer file.Close()
		if err := toml.NewDecoder(file).DisallowUnknownFields().Decode(&cfg); err != nil {
			return nil, "", fmt.Errorf("parse config: %w", err)
		}
	}

	if token := strings.TrimSpace(os.Getenv(tokenEnvVar)); token != "" {
		cfg.Token = token
	}
	if err := cfg.normalize(); err != nil {
		return nil, "", err
	}
	return &cfg, resolved, nil
}

func (c *cliConfig) normalize() error {
	c.APIURL = strings.TrimRight(strings.TrimSpace(c.APIURL), "/")
	c.Token = strings.TrimSpace(c.Token)

	c.timeout = defaultTimeout
	if raw := strings.TrimSpace(c.Timeout); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return fmt.Errorf("config timeout: %w", err)
		}
		if d <= 0 {
			return fmt.Errorf("config timeout must be positive, got %s", raw)
		}
		c.timeout = d
	}
	c.Timeout = c.timeout.String()
	return nil
}

// redacted returns a copy safe to print.
func (c cliConfig) redacted() cliConfig {
	if c.Token != "" {
		c.Token = "********"
	}
	return c
}

func expandPath(path string) (string, error) {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
	}
	return path, nil
}
