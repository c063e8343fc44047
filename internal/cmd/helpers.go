package cmd

import (
	"fmt"

	logger "github.com/sirupsen/logrus"

	"github.com/adamancini/uvu/internal/config"
	"github.com/adamancini/uvu/internal/registry"
	"github.com/adamancini/uvu/internal/uv"
)

// loadSettings finds and loads settings, then applies flag overrides.
func loadSettings() (*config.Settings, error) {
	path, err := config.Find(configPath, projectDir)
	if err != nil {
		return nil, err
	}

	settings, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}
	if path != "" {
		logger.Debugf("using settings: %s", path)
	}

	applyFlagOverrides(settings)
	return settings, nil
}

// applyFlagOverrides lets command-line flags win over settings files.
func applyFlagOverrides(settings *config.Settings) {
	if uvBinary != "" {
		settings.UVBinary = uvBinary
	}
	if noBackup {
		settings.Backup.Enabled = false
	}
}

// newUVClient creates a uv client running in dir.
func newUVClient(settings *config.Settings, dir string) *uv.Client {
	return uv.NewClient(settings.UVBinary, dir).WithTimeout(settings.CommandTimeout)
}

// newURLResolver looks up release-info URLs via uv, then the package index
// when enabled, then falls back to the project page.
func newURLResolver(settings *config.Settings, client *uv.Client) *registry.Resolver {
	sources := []registry.Source{client}
	if settings.Registry.Lookup {
		sources = append(sources, registry.NewPyPIClient(settings.Registry.BaseURL))
	}
	return registry.NewResolver(sources...)
}
