// Package config reads the optional hydra-check configuration file, which
// provides defaults for flags not given on the command line.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const AppName = "hydra-check"

type File struct {
	Host    string `yaml:"host,omitempty"`
	Channel string `yaml:"channel,omitempty"`
	Arch    string `yaml:"arch,omitempty"`
	Timeout string `yaml:"timeout,omitempty"`
}

// DefaultPath returns $XDG_CONFIG_HOME/hydra-check/config.yaml, falling
// back to the platform's user config directory.
func DefaultPath() (string, error) {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		var err error
		if dir, err = os.UserConfigDir(); err != nil {
			return "", err
		}
	}
	return filepath.Join(dir, AppName, "config.yaml"), nil
}

// Load reads the file at path. A missing file yields an empty File.
func Load(path string) (File, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return File{}, nil
	}
	if err != nil {
		return File{}, fmt.Errorf("read config file %q: %w", path, err)
	}
	return Parse(data, path)
}

func Parse(data []byte, source string) (File, error) {
	var cfg File

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return cfg, fmt.Errorf("parse YAML in %q: %w", source, err)
	}

	if errs := cfg.Validate(); len(errs) > 0 {
		return cfg, fmt.Errorf("invalid config in %q: %s", source, strings.Join(errs, "; "))
	}
	return cfg, nil
}

func (cfg File) Validate() []string {
	var errs []string

	if cfg.Host != "" {
		u, err := url.Parse(cfg.Host)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			errs = append(errs, fmt.Sprintf("host %q must be an http(s) URL", cfg.Host))
		}
	}
	if cfg.Timeout != "" {
		if d, err := time.ParseDuration(cfg.Timeout); err != nil || d <= 0 {
			errs = append(errs, fmt.Sprintf("timeout %q must be a positive duration", cfg.Timeout))
		}
	}
	if strings.ContainsAny(cfg.Channel, " \t\n") {
		errs = append(errs, fmt.Sprintf("channel %q must not contain whitespace", cfg.Channel))
	}
	return errs
}

// TimeoutDuration returns the configured timeout, or zero if unset.
// The value has already been checked by Validate.
func (cfg File) TimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(cfg.Timeout)
	return d
}
