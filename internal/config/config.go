// Package config handles uvu settings files and location resolution.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/adamancini/uvu/internal/backup"
	"github.com/adamancini/uvu/internal/manifest"
	"github.com/adamancini/uvu/internal/registry"
	"github.com/adamancini/uvu/internal/uv"
)

// EnvPrefix is the prefix for environment variable overrides.
const EnvPrefix = "UVU"

// Settings holds everything uvu reads from settings files and the environment.
type Settings struct {
	Manifest        string         `mapstructure:"manifest" json:"manifest" yaml:"manifest"`
	UVBinary        string         `mapstructure:"uv_binary" json:"uv_binary" yaml:"uv_binary"`
	CommandTimeout  time.Duration  `mapstructure:"command_timeout" json:"command_timeout" yaml:"command_timeout"`
	IncludeOptional bool           `mapstructure:"include_optional" json:"include_optional" yaml:"include_optional"`
	IncludeGroups   bool           `mapstructure:"include_groups" json:"include_groups" yaml:"include_groups"`
	Exclude         []string       `mapstructure:"exclude" json:"exclude,omitempty" yaml:"exclude,omitempty"`
	Registry        RegistryConfig `mapstructure:"registry" json:"registry" yaml:"registry"`
	Backup          BackupConfig   `mapstructure:"backup" json:"backup" yaml:"backup"`

	// Path is the settings file the values came from, empty when none was found.
	Path string `mapstructure:"-" json:"-" yaml:"-"`
}

// RegistryConfig configures release-info URL lookup.
type RegistryConfig struct {
	// Lookup enables querying the package index before falling back.
	Lookup  bool   `mapstructure:"lookup" json:"lookup" yaml:"lookup"`
	BaseURL string `mapstructure:"base_url" json:"base_url" yaml:"base_url"`
}

// BackupConfig configures manifest snapshots taken before upgrading.
type BackupConfig struct {
	Enabled bool `mapstructure:"enabled" json:"enabled" yaml:"enabled"`
	Keep    int  `mapstructure:"keep" json:"keep" yaml:"keep"`
}

// Default returns settings matching uvu's behaviour with no settings file.
func Default() *Settings {
	return &Settings{
		Manifest: manifest.DefaultFileName,
		UVBinary: uv.DefaultBinary,
		Registry: RegistryConfig{
			BaseURL: registry.DefaultBaseURL,
		},
		Backup: BackupConfig{
			Enabled: true,
			Keep:    backup.DefaultKeepCount,
		},
	}
}

// ManifestOptions converts the dependency selection settings.
func (s *Settings) ManifestOptions() manifest.Options {
	return manifest.Options{
		IncludeOptional: s.IncludeOptional,
		IncludeGroups:   s.IncludeGroups,
		Exclude:         s.Exclude,
	}
}

// fileNames are the settings file names looked up in the project directory.
var fileNames = []string{
	".uvu.yaml",
	".uvu.yml",
	".uvu.toml",
	".uvu.json",
}

// Find locates the settings file.
// Search order:
//  1. explicitPath if provided
//  2. UVU_CONFIG environment variable
//  3. .uvu.{yaml,yml,toml,json} in projectDir
//  4. $XDG_CONFIG_HOME/uvu/config.{yaml,yml,toml,json}
//
// An empty path with a nil error means no settings file exists.
func Find(explicitPath, projectDir string) (string, error) {
	if explicitPath != "" {
		if _, err := os.Stat(explicitPath); err != nil {
			return "", fmt.Errorf("settings file not found: %s", explicitPath)
		}
		return explicitPath, nil
	}

	if envPath := os.Getenv(EnvPrefix + "_CONFIG"); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath, nil
		}
	}

	for _, name := range fileNames {
		path := filepath.Join(projectDir, name)
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}

	xdgConfig := os.Getenv("XDG_CONFIG_HOME")
	if xdgConfig == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", nil
		}
		xdgConfig = filepath.Join(home, ".config")
	}

	for _, ext := range []string{"yaml", "yml", "toml", "json"} {
		path := filepath.Join(xdgConfig, "uvu", "config."+ext)
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}

	return "", nil
}
