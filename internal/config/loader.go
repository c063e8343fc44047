package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	logger "github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// Format represents the file format of a settings file.
type Format int

const (
	FormatUnknown Format = iota
	FormatYAML
	FormatTOML
	FormatJSON
)

// viperType returns the config type name viper expects for f.
func (f Format) viperType() string {
	switch f {
	case FormatYAML:
		return "yaml"
	case FormatTOML:
		return "toml"
	case FormatJSON:
		return "json"
	default:
		return ""
	}
}

// detectFormat determines the file format based on extension or content.
func detectFormat(path string, content []byte) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	case ".toml":
		return FormatTOML
	case ".json":
		return FormatJSON
	}

	return sniffFormat(content)
}

// sniffFormat attempts to detect format from content.
func sniffFormat(content []byte) Format {
	trimmed := strings.TrimSpace(string(content))

	if strings.HasPrefix(trimmed, "{") {
		return FormatJSON
	}

	for _, line := range strings.Split(trimmed, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if strings.Contains(line, "=") || strings.HasPrefix(line, "[") {
			return FormatTOML
		}
		if strings.Contains(line, ":") {
			return FormatYAML
		}
	}

	return FormatUnknown
}

// envVarPattern matches ${VAR} and ${VAR:-default} patterns.
var envVarPattern = regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

// expandEnvVars replaces ${VAR} and ${VAR:-default} patterns in content.
func expandEnvVars(content []byte) []byte {
	return envVarPattern.ReplaceAllFunc(content, func(match []byte) []byte {
		parts := envVarPattern.FindSubmatch(match)
		if len(parts) < 2 {
			return match
		}

		value := os.Getenv(string(parts[1]))
		if value == "" && len(parts) >= 3 && len(parts[2]) > 0 {
			value = string(parts[2])
		}

		return []byte(value)
	})
}

// newViper creates a viper instance with defaults and UVU_ env overrides.
func newViper() *viper.Viper {
	v := viper.New()

	d := Default()
	v.SetDefault("manifest", d.Manifest)
	v.SetDefault("uv_binary", d.UVBinary)
	v.SetDefault("command_timeout", d.CommandTimeout)
	v.SetDefault("include_optional", d.IncludeOptional)
	v.SetDefault("include_groups", d.IncludeGroups)
	v.SetDefault("exclude", []string{})
	v.SetDefault("registry.lookup", d.Registry.Lookup)
	v.SetDefault("registry.base_url", d.Registry.BaseURL)
	v.SetDefault("backup.enabled", d.Backup.Enabled)
	v.SetDefault("backup.keep", d.Backup.Keep)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return v
}

// decodeHook lets durations and comma-separated lists come from strings.
func decodeHook(dc *mapstructure.DecoderConfig) {
	dc.DecodeHook = mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	)
}

// Load reads settings from path, layering them over defaults and UVU_
// environment variables. An empty path yields defaults plus environment.
func Load(path string) (*Settings, error) {
	v := newViper()

	if path != "" {
		content, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read settings file: %w", err)
		}

		format := detectFormat(path, content)
		if format == FormatUnknown {
			return nil, fmt.Errorf("unable to detect file format for %s", path)
		}

		v.SetConfigType(format.viperType())
		if err := v.ReadConfig(bytes.NewReader(expandEnvVars(content))); err != nil {
			return nil, fmt.Errorf("failed to parse settings file %s: %w", path, err)
		}
		logger.Debugf("loaded settings from %s", path)
	}

	settings := &Settings{}
	if err := v.Unmarshal(settings, decodeHook); err != nil {
		return nil, fmt.Errorf("failed to decode settings: %w", err)
	}
	settings.Path = path

	if err := Validate(settings); err != nil {
		return nil, err
	}

	return settings, nil
}
